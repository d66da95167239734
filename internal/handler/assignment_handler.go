package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/acompanamiento-api/internal/models"
	"github.com/noah-isme/acompanamiento-api/internal/service"
	appErrors "github.com/noah-isme/acompanamiento-api/pkg/errors"
	"github.com/noah-isme/acompanamiento-api/pkg/response"
)

// AssignmentHandler exposes assignment snapshot reads and exports.
type AssignmentHandler struct {
	service *service.AssignmentService
	exports *service.ExportService
}

// NewAssignmentHandler constructs an assignment handler.
func NewAssignmentHandler(svc *service.AssignmentService, exports *service.ExportService) *AssignmentHandler {
	return &AssignmentHandler{service: svc, exports: exports}
}

// List godoc
// @Summary List assignment snapshots
// @Description Lists snapshots for a term; with ultimaEjecucion=true only the newest run is visible
// @Tags Asignaciones
// @Produce json
// @Param periodo query string true "Academic term (YYYY-N)"
// @Param docente query string false "Filter by teacher id"
// @Param especialista query string false "Filter by specialist dni"
// @Param estado query string false "Filter by status"
// @Param ultimaEjecucion query bool false "Only the latest run"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /asignaciones [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	filter := models.AssignmentFilter{
		Periodo:         c.Query("periodo"),
		DocenteID:       c.Query("docente"),
		EspecialistaDNI: c.Query("especialista"),
		Estado:          c.Query("estado"),
	}
	if raw := c.Query("ultimaEjecucion"); raw != "" {
		if val, err := strconv.ParseBool(raw); err == nil {
			filter.UltimaEjecucion = val
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	items, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Export godoc
// @Summary Queue a snapshot export
// @Description Renders the latest run of a term to CSV or PDF in the background
// @Tags Asignaciones
// @Produce json
// @Param periodo query string true "Academic term (YYYY-N)"
// @Param format query string true "csv or pdf"
// @Success 202 {object} response.Envelope
// @Router /asignaciones/export [post]
func (h *AssignmentHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	job, err := h.exports.CreateExport(c.Request.Context(), c.Query("periodo"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// ExportStatus godoc
// @Summary Export job status
// @Tags Asignaciones
// @Produce json
// @Param id path string true "Export job ID"
// @Success 200 {object} response.Envelope
// @Router /asignaciones/export/{id} [get]
func (h *AssignmentHandler) ExportStatus(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}
	job, err := h.exports.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download a rendered export
// @Tags Asignaciones
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Router /asignaciones/export/download/{token} [get]
func (h *AssignmentHandler) Download(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}
	file, filename, err := h.exports.ResolveDownload(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export file"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.DataFromReader(http.StatusOK, info.Size(), "application/octet-stream", file, nil)
}

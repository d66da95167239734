package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/acompanamiento-api/internal/models"
	"github.com/noah-isme/acompanamiento-api/internal/service"
	appErrors "github.com/noah-isme/acompanamiento-api/pkg/errors"
	"github.com/noah-isme/acompanamiento-api/pkg/response"
)

// TeacherTermHandler exposes per-term roster endpoints.
type TeacherTermHandler struct {
	service *service.TeacherTermService
}

// NewTeacherTermHandler constructs a roster handler.
func NewTeacherTermHandler(svc *service.TeacherTermService) *TeacherTermHandler {
	return &TeacherTermHandler{service: svc}
}

// List godoc
// @Summary List the newest roster generation for a term
// @Tags Docentes
// @Produce json
// @Param periodo query string true "Academic term (YYYY-N)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /docentes [get]
func (h *TeacherTermHandler) List(c *gin.Context) {
	filter := models.TeacherTermFilter{Periodo: c.Query("periodo")}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	teachers, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, pagination)
}

type rosterLoadRequest struct {
	Periodo  string                  `json:"periodo" binding:"required"`
	Docentes []service.TeacherUpload `json:"docentes" binding:"required"`
}

// BulkLoad godoc
// @Summary Load a fresh roster generation for a term
// @Description Inserts a new generation sharing one load timestamp; upload order defines the match processing order
// @Tags Docentes
// @Accept json
// @Produce json
// @Param payload body rosterLoadRequest true "Roster"
// @Success 200 {object} response.Envelope
// @Router /docentes [put]
func (h *TeacherTermHandler) BulkLoad(c *gin.Context) {
	var req rosterLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	count, err := h.service.BulkLoad(c.Request.Context(), req.Periodo, req.Docentes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"periodo": req.Periodo, "docentes": count}, nil)
}

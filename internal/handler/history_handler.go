package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/acompanamiento-api/internal/models"
	"github.com/noah-isme/acompanamiento-api/internal/service"
	"github.com/noah-isme/acompanamiento-api/pkg/response"
)

// HistoryHandler exposes the assignment audit trail.
type HistoryHandler struct {
	service *service.HistoryService
}

// NewHistoryHandler constructs a history handler.
func NewHistoryHandler(svc *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: svc}
}

// List godoc
// @Summary List assignment change records
// @Tags Historial
// @Produce json
// @Param especialista query string false "Filter by specialist dni (either side of the change)"
// @Param periodo query string false "Filter by term"
// @Param tipoCambio query string false "Filter by transition kind"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /historial [get]
func (h *HistoryHandler) List(c *gin.Context) {
	filter := models.HistoryFilter{
		EspecialistaDNI: c.Query("especialista"),
		Periodo:         c.Query("periodo"),
		TipoCambio:      c.Query("tipoCambio"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	records, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/acompanamiento-api/internal/service"
	appErrors "github.com/noah-isme/acompanamiento-api/pkg/errors"
	"github.com/noah-isme/acompanamiento-api/pkg/response"
)

// AvailabilityHandler exposes the specialist availability pool.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler constructs an availability handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// List godoc
// @Summary List the specialist availability pool
// @Tags Disponibilidad
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /disponibilidad [get]
func (h *AvailabilityHandler) List(c *gin.Context) {
	specialists, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, specialists, nil)
}

// Replace godoc
// @Summary Replace the specialist availability pool
// @Description Swaps the whole pool; upload order becomes the matching tie-break order
// @Tags Disponibilidad
// @Accept json
// @Produce json
// @Param payload body []service.SpecialistUpload true "Specialists"
// @Success 200 {object} response.Envelope
// @Router /disponibilidad [put]
func (h *AvailabilityHandler) Replace(c *gin.Context) {
	var uploads []service.SpecialistUpload
	if err := c.ShouldBindJSON(&uploads); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	count, err := h.service.Replace(c.Request.Context(), uploads)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"especialistas": count}, nil)
}

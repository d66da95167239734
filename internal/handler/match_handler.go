package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/acompanamiento-api/internal/models"
	"github.com/noah-isme/acompanamiento-api/pkg/response"
)

type matchRunner interface {
	Run(ctx context.Context, periodo string) (*models.MatchResult, error)
}

// MatchHandler exposes the match execution endpoint.
type MatchHandler struct {
	service matchRunner
}

// NewMatchHandler constructs a match handler.
func NewMatchHandler(svc matchRunner) *MatchHandler {
	return &MatchHandler{service: svc}
}

// Run godoc
// @Summary Execute the teacher-specialist match for a term
// @Description Computes the assignment for every teacher of the term, persists a fresh snapshot generation, audits changes and notifies specialists
// @Tags Match
// @Produce json
// @Param periodo path string true "Academic term (YYYY-N)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /periodos/{periodo}/match [post]
func (h *MatchHandler) Run(c *gin.Context) {
	result, err := h.service.Run(c.Request.Context(), c.Param("periodo"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

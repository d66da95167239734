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

// NotificationHandler exposes specialist notification endpoints.
type NotificationHandler struct {
	service *service.NotificationService
}

// NewNotificationHandler constructs a notification handler.
func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

// List godoc
// @Summary List notifications
// @Tags Notificaciones
// @Produce json
// @Param especialista query string false "Filter by specialist dni"
// @Param estado query string false "Filter by state"
// @Param tipo query string false "Filter by kind"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /notificaciones [get]
func (h *NotificationHandler) List(c *gin.Context) {
	filter := models.NotificationFilter{
		EspecialistaDNI: c.Query("especialista"),
		Estado:          c.Query("estado"),
		Tipo:            c.Query("tipo"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	notifications, pagination, unread, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notifications, pagination, map[string]interface{}{"noLeidas": unread})
}

// MarkVista godoc
// @Summary Mark a notification as seen
// @Tags Notificaciones
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /notificaciones/{id}/vista [patch]
func (h *NotificationHandler) MarkVista(c *gin.Context) {
	notification, err := h.service.MarkVista(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notification, nil)
}

// MarkLeida godoc
// @Summary Mark a notification as read
// @Tags Notificaciones
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /notificaciones/{id}/leida [patch]
func (h *NotificationHandler) MarkLeida(c *gin.Context) {
	notification, err := h.service.MarkLeida(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notification, nil)
}

// Archive godoc
// @Summary Archive a notification
// @Tags Notificaciones
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /notificaciones/{id}/archivar [patch]
func (h *NotificationHandler) Archive(c *gin.Context) {
	notification, err := h.service.Archive(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notification, nil)
}

type markAllReadRequest struct {
	Especialista string `json:"especialista" binding:"required"`
}

// MarkAllRead godoc
// @Summary Mark every pending notification of a specialist as read
// @Tags Notificaciones
// @Accept json
// @Produce json
// @Param payload body markAllReadRequest true "Specialist"
// @Success 200 {object} response.Envelope
// @Router /notificaciones/leidas [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	var req markAllReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	updated, err := h.service.MarkAllRead(c.Request.Context(), req.Especialista)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"actualizadas": updated}, nil)
}

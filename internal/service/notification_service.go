package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/acompanamiento-api/internal/models"
	"github.com/noah-isme/acompanamiento-api/pkg/config"
	appErrors "github.com/noah-isme/acompanamiento-api/pkg/errors"
)

type notificationRepo interface {
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, int, error)
	FindByID(ctx context.Context, id string) (*models.Notification, error)
	UpdateState(ctx context.Context, id string, state models.NotificationState, readAt *time.Time) error
	MarkAllRead(ctx context.Context, especialistaDNI string) (int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// NotificationService manages specialist notification reads, state
// transitions and retention cleanup.
type NotificationService struct {
	repo   notificationRepo
	logger *zap.Logger
	cfg    config.NotificationsConfig
}

// NewNotificationService constructs the notification service.
func NewNotificationService(repo notificationRepo, cfg config.NotificationsConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 90 * 24 * time.Hour
	}
	return &NotificationService{repo: repo, logger: logger, cfg: cfg}
}

// List returns notifications for the filter along with the total and unread
// counts.
func (s *NotificationService) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, *models.Pagination, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	notifications, total, unread, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return notifications, paginationFor(filter.Page, filter.PageSize, total), unread, nil
}

// MarkVista moves a notification to VISTA.
func (s *NotificationService) MarkVista(ctx context.Context, id string) (*models.Notification, error) {
	return s.transition(ctx, id, models.NotificationVista)
}

// MarkLeida moves a notification to LEIDA and stamps read_at.
func (s *NotificationService) MarkLeida(ctx context.Context, id string) (*models.Notification, error) {
	return s.transition(ctx, id, models.NotificationLeida)
}

// Archive moves a notification to ARCHIVADA.
func (s *NotificationService) Archive(ctx context.Context, id string) (*models.Notification, error) {
	return s.transition(ctx, id, models.NotificationArchivada)
}

func (s *NotificationService) transition(ctx context.Context, id string, target models.NotificationState) (*models.Notification, error) {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("notification %s not found", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notification")
	}

	if !notification.Estado.CanTransition(target) {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("cannot move notification from %s to %s", notification.Estado, target))
	}

	var readAt *time.Time
	if target == models.NotificationLeida && notification.ReadAt == nil {
		now := time.Now().UTC()
		readAt = &now
	}

	if err := s.repo.UpdateState(ctx, id, target, readAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notification")
	}

	notification.Estado = target
	if readAt != nil {
		notification.ReadAt = readAt
	}
	return notification, nil
}

// MarkAllRead moves every pending notification of a specialist to LEIDA and
// returns the number of notifications touched.
func (s *NotificationService) MarkAllRead(ctx context.Context, especialistaDNI string) (int, error) {
	if especialistaDNI == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "especialista is required")
	}
	updated, err := s.repo.MarkAllRead(ctx, especialistaDNI)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notifications read")
	}
	return updated, nil
}

// Cleanup removes read and archived notifications older than the configured
// retention window. Invoked on a schedule and available as an operation.
func (s *NotificationService) Cleanup(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-s.cfg.MaxAge)
	removed, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clean up notifications")
	}
	if removed > 0 {
		s.logger.Sugar().Infow("notification cleanup completed", "removed", removed, "cutoff", cutoff)
	}
	return removed, nil
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/acompanamiento-api/internal/models"
	appErrors "github.com/noah-isme/acompanamiento-api/pkg/errors"
)

type historyLister interface {
	List(ctx context.Context, filter models.HistoryFilter) ([]models.HistoryRecord, int, error)
}

// HistoryService serves the assignment change audit trail.
type HistoryService struct {
	repo   historyLister
	logger *zap.Logger
}

// NewHistoryService constructs the history read service.
func NewHistoryService(repo historyLister, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{repo: repo, logger: logger}
}

// List returns audit records matching the filter, newest first.
func (s *HistoryService) List(ctx context.Context, filter models.HistoryFilter) ([]models.HistoryRecord, *models.Pagination, error) {
	if filter.TipoCambio != "" && !models.TransitionKind(filter.TipoCambio).Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown tipoCambio filter")
	}
	if filter.Periodo != "" && !models.ValidPeriodo(filter.Periodo) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "periodo must match YYYY-N")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list history")
	}
	return records, paginationFor(filter.Page, filter.PageSize, total), nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/acompanamiento-api/internal/models"
	appErrors "github.com/noah-isme/acompanamiento-api/pkg/errors"
)

type assignmentLister interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentSnapshot, int, error)
	LatestByTerm(ctx context.Context, periodo string) ([]models.AssignmentSnapshot, error)
}

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type cacheObserver interface {
	RecordCacheOperation(hit bool)
}

type assignmentPage struct {
	Items []models.AssignmentSnapshot `json:"items"`
	Total int                         `json:"total"`
}

// AssignmentService serves assignment snapshot reads, caching list responses
// per term until the next match run invalidates them.
type AssignmentService struct {
	repo    assignmentLister
	cache   cacheStore
	metrics cacheObserver
	logger  *zap.Logger
	ttl     time.Duration
}

// NewAssignmentService constructs the assignment read service.
func NewAssignmentService(repo assignmentLister, cache cacheStore, metrics cacheObserver, ttl time.Duration, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AssignmentService{repo: repo, cache: cache, metrics: metrics, logger: logger, ttl: ttl}
}

// List returns snapshots for the filter plus pagination metadata.
func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentSnapshot, *models.Pagination, error) {
	if !models.ValidPeriodo(filter.Periodo) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("periodo %q must match YYYY-N", filter.Periodo))
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	key := assignmentCacheKey(filter)
	if s.cache != nil {
		var cached assignmentPage
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			if s.metrics != nil {
				s.metrics.RecordCacheOperation(true)
			}
			return cached.Items, paginationFor(filter.Page, filter.PageSize, cached.Total), nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(false)
		}
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, assignmentPage{Items: items, Total: total}, s.ttl); err != nil {
			s.logger.Sugar().Warnw("failed to cache assignment page", "key", key, "error", err)
		}
	}

	return items, paginationFor(filter.Page, filter.PageSize, total), nil
}

// LatestRun returns the full newest-run snapshot set for a term. Export
// rendering reads through this, bypassing the page cache.
func (s *AssignmentService) LatestRun(ctx context.Context, periodo string) ([]models.AssignmentSnapshot, error) {
	if !models.ValidPeriodo(periodo) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("periodo %q must match YYYY-N", periodo))
	}
	snapshots, err := s.repo.LatestByTerm(ctx, periodo)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest run")
	}
	if len(snapshots) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no executions recorded for periodo %s", periodo))
	}
	return snapshots, nil
}

// InvalidateAsignaciones drops every cached assignment page of a term.
func (s *AssignmentService) InvalidateAsignaciones(ctx context.Context, periodo string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "asignaciones:"+periodo+":*"); err != nil {
		s.logger.Sugar().Warnw("failed to invalidate assignment cache", "periodo", periodo, "error", err)
	}
}

func assignmentCacheKey(filter models.AssignmentFilter) string {
	return fmt.Sprintf("asignaciones:%s:%s:%s:%s:%t:%d:%d",
		filter.Periodo, filter.DocenteID, filter.EspecialistaDNI, filter.Estado,
		filter.UltimaEjecucion, filter.Page, filter.PageSize)
}

func paginationFor(page, size, total int) *models.Pagination {
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}

package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/acompanamiento-api/internal/models"
	appErrors "github.com/noah-isme/acompanamiento-api/pkg/errors"
)

type stubAssignmentRepo struct {
	items  []models.AssignmentSnapshot
	total  int
	latest []models.AssignmentSnapshot
	calls  int
}

func (s *stubAssignmentRepo) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentSnapshot, int, error) {
	s.calls++
	return s.items, s.total, nil
}

func (s *stubAssignmentRepo) LatestByTerm(ctx context.Context, periodo string) ([]models.AssignmentSnapshot, error) {
	return s.latest, nil
}

type stubCache struct {
	values  map[string][]byte
	deleted []string
}

func newStubCache() *stubCache {
	return &stubCache{values: map[string][]byte{}}
}

func (s *stubCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := s.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.values[key] = raw
	return nil
}

func (s *stubCache) DeleteByPattern(ctx context.Context, pattern string) error {
	s.deleted = append(s.deleted, pattern)
	for key := range s.values {
		delete(s.values, key)
	}
	return nil
}

func TestAssignmentListCachesSecondRead(t *testing.T) {
	repo := &stubAssignmentRepo{
		items: []models.AssignmentSnapshot{{Periodo: "2025-1", DocenteID: "T1", Estado: models.AssignmentPlanificado}},
		total: 1,
	}
	cache := newStubCache()
	svc := NewAssignmentService(repo, cache, nil, time.Minute, zap.NewNop())

	filter := models.AssignmentFilter{Periodo: "2025-1", UltimaEjecucion: true}
	items, pagination, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, 1, repo.calls)

	items, _, err = svc.List(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, repo.calls, "second read served from cache")
}

func TestAssignmentListRejectsBadPeriodo(t *testing.T) {
	svc := NewAssignmentService(&stubAssignmentRepo{}, nil, nil, time.Minute, zap.NewNop())
	_, _, err := svc.List(context.Background(), models.AssignmentFilter{Periodo: "20251"})
	require.Error(t, err)
}

func TestAssignmentInvalidateDropsTermPages(t *testing.T) {
	repo := &stubAssignmentRepo{items: []models.AssignmentSnapshot{{Periodo: "2025-1"}}, total: 1}
	cache := newStubCache()
	svc := NewAssignmentService(repo, cache, nil, time.Minute, zap.NewNop())

	filter := models.AssignmentFilter{Periodo: "2025-1"}
	_, _, err := svc.List(context.Background(), filter)
	require.NoError(t, err)

	svc.InvalidateAsignaciones(context.Background(), "2025-1")
	assert.Equal(t, []string{"asignaciones:2025-1:*"}, cache.deleted)

	_, _, err = svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls, "invalidation forces a fresh read")
}

func TestAssignmentLatestRunNotFound(t *testing.T) {
	svc := NewAssignmentService(&stubAssignmentRepo{}, nil, nil, time.Minute, zap.NewNop())
	_, err := svc.LatestRun(context.Background(), "2025-1")
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/acompanamiento-api/internal/models"
	"github.com/noah-isme/acompanamiento-api/pkg/jobs"
	"github.com/noah-isme/acompanamiento-api/pkg/storage"
)

type syncQueue struct {
	handler func(context.Context, jobs.Job) error
}

// Enqueue runs the handler inline. Worker errors surface through job state,
// not through Enqueue, mirroring the real queue.
func (q *syncQueue) Enqueue(job jobs.Job) error {
	_ = q.handler(context.Background(), job)
	return nil
}

type memStorage struct {
	files map[string][]byte
}

func (s *memStorage) Save(filename string, data []byte) (string, error) {
	s.files[filename] = data
	return filename, nil
}

func (s *memStorage) Open(filename string) (*os.File, error) { return nil, nil }

func (s *memStorage) CleanupOlderThan(ttl time.Duration) ([]string, error) { return nil, nil }

func TestExportCreateRendersCSV(t *testing.T) {
	store := &memStorage{files: map[string][]byte{}}
	repo := &stubAssignmentRepo{latest: []models.AssignmentSnapshot{
		{Periodo: "2025-1", DocenteID: "T1", Nombre: "Docente Uno", EspecialistaDNI: strPtr("100"), NombreEspecialista: strPtr("Esp Uno"), Estado: models.AssignmentPlanificado, ExecutedAt: time.Now().UTC()},
	}}
	assignments := NewAssignmentService(repo, nil, nil, time.Minute, zap.NewNop())
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	svc := NewExportService(assignments, store, signer, ExportConfig{APIPrefix: "/api/v1"}, zap.NewNop(), nil, nil)
	svc.SetQueue(&syncQueue{handler: svc.Handle})

	job, err := svc.CreateExport(context.Background(), "2025-1", ExportFormatCSV)
	require.NoError(t, err)

	finished, err := svc.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, ExportStatusDone, finished.Status)
	assert.Contains(t, finished.URL, "/api/v1/asignaciones/export/download/")
	require.NotNil(t, finished.ExpiresAt)

	require.Len(t, store.files, 1)
	for name, data := range store.files {
		assert.Contains(t, name, "asignaciones_2025-1_")
		assert.Contains(t, string(data), "Docente Uno")
		assert.Contains(t, string(data), "Esp Uno")
	}
}

func TestExportCreateRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(nil, nil, nil, ExportConfig{}, zap.NewNop(), nil, nil)
	svc.SetQueue(&syncQueue{handler: func(context.Context, jobs.Job) error { return nil }})

	_, err := svc.CreateExport(context.Background(), "2025-1", ExportFormat("xlsx"))
	require.Error(t, err)
}

func TestExportJobFailsWhenTermHasNoRuns(t *testing.T) {
	store := &memStorage{files: map[string][]byte{}}
	assignments := NewAssignmentService(&stubAssignmentRepo{}, nil, nil, time.Minute, zap.NewNop())
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	svc := NewExportService(assignments, store, signer, ExportConfig{}, zap.NewNop(), nil, nil)
	svc.SetQueue(&syncQueue{handler: svc.Handle})

	job, err := svc.CreateExport(context.Background(), "2025-1", ExportFormatPDF)
	require.NoError(t, err, "enqueue succeeds, the job itself fails")

	failed, err := svc.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, ExportStatusFailed, failed.Status)
	assert.NotEmpty(t, failed.Error)
}

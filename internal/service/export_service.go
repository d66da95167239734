package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/acompanamiento-api/internal/models"
	appErrors "github.com/noah-isme/acompanamiento-api/pkg/errors"
	"github.com/noah-isme/acompanamiento-api/pkg/export"
	"github.com/noah-isme/acompanamiento-api/pkg/jobs"
	"github.com/noah-isme/acompanamiento-api/pkg/storage"
)

// ExportFormat enumerates supported export renderings.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportStatus tracks an export job through its lifecycle.
type ExportStatus string

const (
	ExportStatusQueued     ExportStatus = "queued"
	ExportStatusProcessing ExportStatus = "processing"
	ExportStatusDone       ExportStatus = "done"
	ExportStatusFailed     ExportStatus = "failed"
)

// ExportJob is the client-visible state of one export request. Jobs live in
// memory only; the rendered files on disk outlive a restart but job metadata
// does not.
type ExportJob struct {
	ID         string       `json:"id"`
	Periodo    string       `json:"periodo"`
	Format     ExportFormat `json:"format"`
	Status     ExportStatus `json:"status"`
	Error      string       `json:"error,omitempty"`
	URL        string       `json:"url,omitempty"`
	ExpiresAt  *time.Time   `json:"expiresAt,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	FinishedAt *time.Time   `json:"finishedAt,omitempty"`
}

type latestRunLoader interface {
	LatestRun(ctx context.Context, periodo string) ([]models.AssignmentSnapshot, error)
}

type exportFileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type exportDispatcher interface {
	Enqueue(job jobs.Job) error
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportService renders the latest-run assignment snapshot of a term to CSV
// or PDF through the background queue and hands out signed download URLs.
type ExportService struct {
	assignments latestRunLoader
	storage     exportFileStorage
	queue       exportDispatcher
	csv         csvRenderer
	pdf         pdfRenderer
	signer      *storage.SignedURLSigner
	logger      *zap.Logger
	cfg         ExportConfig

	mu   sync.RWMutex
	runs map[string]*ExportJob
}

// NewExportService constructs an ExportService. The queue handler must be
// bound to Handle by the caller.
func NewExportService(assignments latestRunLoader, fileStore exportFileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		assignments: assignments,
		storage:     fileStore,
		csv:         csv,
		pdf:         pdf,
		signer:      signer,
		logger:      logger,
		cfg:         cfg,
		runs:        make(map[string]*ExportJob),
	}
}

// SetQueue binds the dispatcher once the queue exists. The queue handler is
// this service's Handle method, so construction is two-phase.
func (s *ExportService) SetQueue(queue exportDispatcher) {
	s.queue = queue
}

// CreateExport validates the request, registers a job and enqueues it.
func (s *ExportService) CreateExport(ctx context.Context, periodo string, format ExportFormat) (*ExportJob, error) {
	if !models.ValidPeriodo(periodo) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("periodo %q must match YYYY-N", periodo))
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "export queue not available")
	}

	job := &ExportJob{
		ID:        uuid.NewString(),
		Periodo:   periodo,
		Format:    format,
		Status:    ExportStatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.runs[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(format), Payload: periodo}); err != nil {
		s.fail(job.ID, "failed to enqueue export")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export")
	}
	return s.snapshotOf(job.ID), nil
}

// GetJob returns the current state of an export job.
func (s *ExportService) GetJob(ctx context.Context, id string) (*ExportJob, error) {
	job := s.snapshotOf(id)
	if job == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("export job %s not found", id))
	}
	return job, nil
}

// Handle is the queue worker: it renders and stores one export.
func (s *ExportService) Handle(ctx context.Context, job jobs.Job) error {
	periodo, _ := job.Payload.(string)
	s.update(job.ID, func(j *ExportJob) { j.Status = ExportStatusProcessing })

	snapshots, err := s.assignments.LatestRun(ctx, periodo)
	if err != nil {
		s.fail(job.ID, err.Error())
		return err
	}

	dataset := buildAssignmentDataset(snapshots)
	title := fmt.Sprintf("Asignaciones %s", periodo)

	var payload []byte
	switch ExportFormat(job.Type) {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Type)
	}
	if err != nil {
		s.fail(job.ID, err.Error())
		return err
	}

	filename := fmt.Sprintf("asignaciones_%s_%s.%s", sanitizeFilename(periodo), time.Now().UTC().Format("20060102_150405"), job.Type)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		s.fail(job.ID, "failed to store export")
		return err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		s.fail(job.ID, "failed to sign download url")
		return err
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	url := fmt.Sprintf("%s/asignaciones/export/download/%s", prefix, token)

	now := time.Now().UTC()
	s.update(job.ID, func(j *ExportJob) {
		j.Status = ExportStatusDone
		j.URL = url
		j.ExpiresAt = &expiresAt
		j.FinishedAt = &now
	})

	s.logger.Sugar().Infow("export rendered", "job_id", job.ID, "periodo", periodo, "format", job.Type, "file", relPath)
	return nil
}

// ResolveDownload validates a token and opens the underlying file.
func (s *ExportService) ResolveDownload(token string) (*os.File, string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	return file, relPath, nil
}

// Cleanup removes rendered files older than ttl (the configured ResultTTL
// when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) snapshotOf(id string) *ExportJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.runs[id]
	if !ok {
		return nil
	}
	copied := *job
	return &copied
}

func (s *ExportService) update(id string, fn func(*ExportJob)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.runs[id]; ok {
		fn(job)
	}
}

func (s *ExportService) fail(id, message string) {
	now := time.Now().UTC()
	s.update(id, func(j *ExportJob) {
		j.Status = ExportStatusFailed
		j.Error = message
		j.FinishedAt = &now
	})
}

func buildAssignmentDataset(snapshots []models.AssignmentSnapshot) export.Dataset {
	headers := []string{"Docente ID", "Docente", "Programa", "Modalidad", "Especialista DNI", "Especialista", "Estado", "Ejecutado"}
	rows := make([]map[string]string, 0, len(snapshots))
	for _, snapshot := range snapshots {
		rows = append(rows, map[string]string{
			"Docente ID":       snapshot.DocenteID,
			"Docente":          snapshot.Nombre,
			"Programa":         snapshot.Programa,
			"Modalidad":        snapshot.Modalidad,
			"Especialista DNI": deref(snapshot.EspecialistaDNI),
			"Especialista":     deref(snapshot.NombreEspecialista),
			"Estado":           string(snapshot.Estado),
			"Ejecutado":        snapshot.ExecutedAt.Format(time.RFC3339),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

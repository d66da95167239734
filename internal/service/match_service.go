package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/acompanamiento-api/internal/models"
	"github.com/noah-isme/acompanamiento-api/pkg/config"
	appErrors "github.com/noah-isme/acompanamiento-api/pkg/errors"
)

type rosterSource interface {
	ListByTermLatest(ctx context.Context, periodo string) ([]models.TeacherTerm, error)
}

type availabilitySource interface {
	ListAll(ctx context.Context) ([]models.SpecialistAvailability, error)
}

type snapshotStore interface {
	ListByTermDesc(ctx context.Context, periodo string) ([]models.AssignmentSnapshot, error)
	InsertBatch(ctx context.Context, snapshots []models.AssignmentSnapshot) error
}

type historyStore interface {
	InsertBatch(ctx context.Context, records []models.HistoryRecord) error
}

type notificationStore interface {
	InsertBatch(ctx context.Context, notifications []models.Notification) error
}

type runLocker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}

type listCacheInvalidator interface {
	InvalidateAsignaciones(ctx context.Context, periodo string)
}

type matchObserver interface {
	ObserveMatchRun(periodo string, result models.MatchResult, kinds map[models.TransitionKind]int, duration time.Duration)
}

// MatchService runs the teacher-specialist matching pipeline for one term:
// concurrent fan-out reads, a single-pass decision loop over the roster,
// snapshot/history persistence and notification fan-out.
type MatchService struct {
	roster        rosterSource
	availability  availabilitySource
	snapshots     snapshotStore
	history       historyStore
	notifications notificationStore
	lock          runLocker
	cache         listCacheInvalidator
	metrics       matchObserver
	logger        *zap.Logger

	historyKinds map[models.TransitionKind]bool
	lockTTL      time.Duration
}

// NewMatchService wires the match pipeline. The history policy comes from
// configuration: only transition kinds in cfg.HistoryKinds produce an audit
// record (the legacy default audits REASIGNADO only).
func NewMatchService(
	roster rosterSource,
	availability availabilitySource,
	snapshots snapshotStore,
	history historyStore,
	notifications notificationStore,
	lock runLocker,
	cache listCacheInvalidator,
	metrics matchObserver,
	cfg config.MatchConfig,
	logger *zap.Logger,
) *MatchService {
	if logger == nil {
		logger = zap.NewNop()
	}

	kinds := make(map[models.TransitionKind]bool, len(cfg.HistoryKinds))
	for _, raw := range cfg.HistoryKinds {
		kind := models.TransitionKind(raw)
		if !kind.Valid() {
			logger.Sugar().Warnw("ignoring unknown history kind", "kind", raw)
			continue
		}
		kinds[kind] = true
	}
	if len(kinds) == 0 {
		kinds[models.TransitionReasignado] = true
	}

	lockTTL := cfg.RunLockTTL
	if lockTTL <= 0 {
		lockTTL = 5 * time.Minute
	}

	return &MatchService{
		roster:        roster,
		availability:  availability,
		snapshots:     snapshots,
		history:       history,
		notifications: notifications,
		lock:          lock,
		cache:         cache,
		metrics:       metrics,
		logger:        logger,
		historyKinds:  kinds,
		lockTTL:       lockTTL,
	}
}

// Run executes the match for one term and returns the run summary.
func (s *MatchService) Run(ctx context.Context, periodo string) (*models.MatchResult, error) {
	if !models.ValidPeriodo(periodo) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("periodo %q must match YYYY-N", periodo))
	}

	if s.lock != nil {
		acquired, err := s.lock.AcquireLock(ctx, runLockKey(periodo), s.lockTTL)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire match run lock")
		}
		if !acquired {
			return nil, appErrors.Clone(appErrors.ErrRunInProgress, "")
		}
		defer func() {
			if err := s.lock.ReleaseLock(context.WithoutCancel(ctx), runLockKey(periodo)); err != nil {
				s.logger.Sugar().Warnw("failed to release match run lock", "periodo", periodo, "error", err)
			}
		}()
	}

	start := time.Now()

	// All three source reads complete before any processing starts.
	var (
		roster    []models.TeacherTerm
		pool      []models.SpecialistAvailability
		snapshots []models.AssignmentSnapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = s.roster.ListByTermLatest(gctx, periodo)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		pool, err = s.availability.ListAll(gctx)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load specialist availability")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		snapshots, err = s.snapshots.ListByTermDesc(gctx, periodo)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load prior assignments")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(roster) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoRoster, fmt.Sprintf("no roster loaded for periodo %s", periodo))
	}

	engine := NewMatchEngine(NewAvailabilityIndex(pool), NewPriorAssignmentIndex(snapshots))

	runID := uuid.NewString()
	executedAt := time.Now().UTC()

	newSnapshots := make([]models.AssignmentSnapshot, 0, len(roster))
	auditable := make([]models.HistoryRecord, 0, len(roster))
	changes := make([]models.HistoryRecord, 0, len(roster))
	kindCounts := make(map[models.TransitionKind]int, len(models.TransitionKinds))
	matched := 0

	for _, teacher := range roster {
		decision := engine.Decide(teacher)
		kindCounts[decision.TipoCambio]++
		if decision.Assigned() {
			matched++
		}

		newSnapshots = append(newSnapshots, buildSnapshot(teacher, decision, runID, executedAt))

		change := buildHistoryRecord(teacher, decision, runID, executedAt)
		if s.historyKinds[decision.TipoCambio] {
			change.ID = uuid.NewString()
			auditable = append(auditable, change)
		}
		changes = append(changes, change)
	}

	// Snapshot and history inserts run concurrently, best effort: a failure
	// in one does not roll back the other.
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.snapshots.InsertBatch(gctx, newSnapshots); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert assignment snapshots")
		}
		return nil
	})
	g.Go(func() error {
		if len(auditable) == 0 {
			return nil
		}
		if err := s.history.InsertBatch(gctx, auditable); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert history records")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	notifications := BuildNotifications(changes, executedAt)
	if len(notifications) > 0 {
		if err := s.notifications.InsertBatch(ctx, notifications); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert notifications")
		}
	}

	if s.cache != nil {
		s.cache.InvalidateAsignaciones(ctx, periodo)
	}

	result := &models.MatchResult{
		Message:         "match ejecutado correctamente",
		TotalProcesados: len(roster),
		Matches:         matched,
		SinMatch:        len(roster) - matched,
	}

	if s.metrics != nil {
		s.metrics.ObserveMatchRun(periodo, *result, kindCounts, time.Since(start))
	}

	s.logger.Sugar().Infow("match run completed",
		"periodo", periodo,
		"run_id", runID,
		"procesados", result.TotalProcesados,
		"matches", result.Matches,
		"sin_match", result.SinMatch,
		"historial", len(auditable),
		"notificaciones", len(notifications),
	)

	return result, nil
}

func buildSnapshot(teacher models.TeacherTerm, decision MatchDecision, runID string, executedAt time.Time) models.AssignmentSnapshot {
	snapshot := models.AssignmentSnapshot{
		Periodo:    teacher.Periodo,
		DocenteID:  teacher.DocenteID,
		Nombre:     teacher.Nombre,
		Rol:        teacher.Rol,
		Programa:   teacher.Programa,
		Modalidad:  teacher.Modalidad,
		ESA:        teacher.ESA,
		Cursos:     decision.Cursos,
		Estado:     decision.Estado,
		RunID:      runID,
		ExecutedAt: executedAt,
	}
	if decision.Assigned() {
		dni, nombre := decision.EspecialistaDNI, decision.NombreEspecialista
		snapshot.EspecialistaDNI = &dni
		snapshot.NombreEspecialista = &nombre
	}
	return snapshot
}

func buildHistoryRecord(teacher models.TeacherTerm, decision MatchDecision, runID string, executedAt time.Time) models.HistoryRecord {
	record := models.HistoryRecord{
		Periodo:    teacher.Periodo,
		DocenteID:  teacher.DocenteID,
		Nombre:     teacher.Nombre,
		Estado:     decision.Estado,
		TipoCambio: decision.TipoCambio,
		RunID:      runID,
		ExecutedAt: executedAt,
	}
	if decision.Assigned() {
		dni, nombre := decision.EspecialistaDNI, decision.NombreEspecialista
		record.EspecialistaDNI = &dni
		record.NombreEspecialista = &nombre
	}
	if decision.Prior != nil && decision.Prior.Assigned() {
		dni, nombre := decision.Prior.EspecialistaDNI, decision.Prior.NombreEspecialista
		record.EspecialistaAnteriorDNI = &dni
		record.NombreEspecialistaAnterior = &nombre
	}
	return record
}

func runLockKey(periodo string) string {
	return "match:run:" + periodo
}

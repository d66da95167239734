package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/acompanamiento-api/internal/models"
	appErrors "github.com/noah-isme/acompanamiento-api/pkg/errors"
)

const uniqueViolation = "23505"

// AssignmentRepository manages assignment snapshots. Snapshots are
// insert-only: each match run appends one row per teacher and readers
// resolve the newest run when asked for the current state.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// InsertBatch appends one run's snapshots inside a transaction.
func (r *AssignmentRepository) InsertBatch(ctx context.Context, snapshots []models.AssignmentSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot insert: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT INTO assignment_snapshots
        (id, periodo, docente_id, nombre, rol, programa, modalidad, esa, especialista_dni, nombre_especialista, cursos, estado, run_id, executed_at)
        VALUES (:id, :periodo, :docente_id, :nombre, :rol, :programa, :modalidad, :esa, :especialista_dni, :nombre_especialista, :cursos, :estado, :run_id, :executed_at)`

	for i := range snapshots {
		if snapshots[i].ID == "" {
			snapshots[i].ID = uuid.NewString()
		}
		if _, err := tx.NamedExecContext(ctx, query, snapshots[i]); err != nil {
			if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
				return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("snapshot for docente %s already exists in run %s", snapshots[i].DocenteID, snapshots[i].RunID))
			}
			return fmt.Errorf("insert snapshot for %s: %w", snapshots[i].DocenteID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot insert: %w", err)
	}
	return nil
}

// ListByTermDesc returns every snapshot of a term, newest run first. The
// diff against the previous run keys off the first row seen per teacher.
func (r *AssignmentRepository) ListByTermDesc(ctx context.Context, periodo string) ([]models.AssignmentSnapshot, error) {
	const query = `SELECT id, periodo, docente_id, nombre, rol, programa, modalidad, esa, especialista_dni, nombre_especialista, cursos, estado, run_id, executed_at
        FROM assignment_snapshots
        WHERE periodo = $1
        ORDER BY executed_at DESC, id ASC`

	snapshots := []models.AssignmentSnapshot{}
	if err := r.db.SelectContext(ctx, &snapshots, query, periodo); err != nil {
		return nil, fmt.Errorf("list snapshots for %s: %w", periodo, err)
	}
	return snapshots, nil
}

// LatestByTerm returns the newest run's snapshots for a term.
func (r *AssignmentRepository) LatestByTerm(ctx context.Context, periodo string) ([]models.AssignmentSnapshot, error) {
	const query = `SELECT id, periodo, docente_id, nombre, rol, programa, modalidad, esa, especialista_dni, nombre_especialista, cursos, estado, run_id, executed_at
        FROM assignment_snapshots
        WHERE periodo = $1
          AND executed_at = (SELECT MAX(executed_at) FROM assignment_snapshots WHERE periodo = $1)
        ORDER BY nombre ASC`

	snapshots := []models.AssignmentSnapshot{}
	if err := r.db.SelectContext(ctx, &snapshots, query, periodo); err != nil {
		return nil, fmt.Errorf("list latest run for %s: %w", periodo, err)
	}
	return snapshots, nil
}

// List returns snapshots matching the provided filters with pagination.
// With UltimaEjecucion set only the newest run of the term is visible.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentSnapshot, int, error) {
	base := "FROM assignment_snapshots"
	args := []interface{}{filter.Periodo}
	conditions := []string{"periodo = $1"}

	if filter.UltimaEjecucion {
		conditions = append(conditions, "executed_at = (SELECT MAX(executed_at) FROM assignment_snapshots WHERE periodo = $1)")
	}
	if filter.DocenteID != "" {
		conditions = append(conditions, fmt.Sprintf("docente_id = $%d", len(args)+1))
		args = append(args, filter.DocenteID)
	}
	if filter.EspecialistaDNI != "" {
		conditions = append(conditions, fmt.Sprintf("especialista_dni = $%d", len(args)+1))
		args = append(args, filter.EspecialistaDNI)
	}
	if filter.Estado != "" {
		conditions = append(conditions, fmt.Sprintf("estado = $%d", len(args)+1))
		args = append(args, filter.Estado)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, periodo, docente_id, nombre, rol, programa, modalidad, esa, especialista_dni, nombre_especialista, cursos, estado, run_id, executed_at
        %s ORDER BY executed_at DESC, nombre ASC LIMIT %d OFFSET %d`, base, size, offset)

	snapshots := []models.AssignmentSnapshot{}
	if err := r.db.SelectContext(ctx, &snapshots, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list snapshots: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count snapshots: %w", err)
	}
	return snapshots, total, nil
}

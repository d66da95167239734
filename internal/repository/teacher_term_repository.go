package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/acompanamiento-api/internal/models"
)

// TeacherTermRepository manages per-term teacher roster generations. Loads
// are insert-only: every bulk load writes a fresh generation sharing one
// loaded_at, and readers always resolve the newest generation.
type TeacherTermRepository struct {
	db *sqlx.DB
}

// NewTeacherTermRepository constructs a TeacherTermRepository.
func NewTeacherTermRepository(db *sqlx.DB) *TeacherTermRepository {
	return &TeacherTermRepository{db: db}
}

// ListByTermLatest returns the newest roster generation for a term, in the
// order the rows were loaded.
func (r *TeacherTermRepository) ListByTermLatest(ctx context.Context, periodo string) ([]models.TeacherTerm, error) {
	const query = `SELECT id, periodo, docente_id, nombre, rol, programa, modalidad, esa, cursos, orden, loaded_at
        FROM teacher_terms
        WHERE periodo = $1
          AND loaded_at = (SELECT MAX(loaded_at) FROM teacher_terms WHERE periodo = $1)
        ORDER BY orden ASC`

	teachers := []models.TeacherTerm{}
	if err := r.db.SelectContext(ctx, &teachers, query, periodo); err != nil {
		return nil, fmt.Errorf("list roster for %s: %w", periodo, err)
	}
	return teachers, nil
}

// List returns the newest roster generation for a term with pagination.
func (r *TeacherTermRepository) List(ctx context.Context, filter models.TeacherTermFilter) ([]models.TeacherTerm, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, periodo, docente_id, nombre, rol, programa, modalidad, esa, cursos, orden, loaded_at
        FROM teacher_terms
        WHERE periodo = $1
          AND loaded_at = (SELECT MAX(loaded_at) FROM teacher_terms WHERE periodo = $1)
        ORDER BY orden ASC LIMIT %d OFFSET %d`, size, offset)

	teachers := []models.TeacherTerm{}
	if err := r.db.SelectContext(ctx, &teachers, query, filter.Periodo); err != nil {
		return nil, 0, fmt.Errorf("list roster for %s: %w", filter.Periodo, err)
	}

	const countQuery = `SELECT COUNT(*) FROM teacher_terms
        WHERE periodo = $1
          AND loaded_at = (SELECT MAX(loaded_at) FROM teacher_terms WHERE periodo = $1)`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, filter.Periodo); err != nil {
		return nil, 0, fmt.Errorf("count roster for %s: %w", filter.Periodo, err)
	}
	return teachers, total, nil
}

// BulkInsert writes a full roster generation for one term. Row order in the
// slice is preserved through the orden column.
func (r *TeacherTermRepository) BulkInsert(ctx context.Context, periodo string, teachers []models.TeacherTerm) error {
	if len(teachers) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin roster load: %w", err)
	}
	defer tx.Rollback()

	loadedAt := time.Now().UTC()
	const query = `INSERT INTO teacher_terms (id, periodo, docente_id, nombre, rol, programa, modalidad, esa, cursos, orden, loaded_at)
        VALUES (:id, :periodo, :docente_id, :nombre, :rol, :programa, :modalidad, :esa, :cursos, :orden, :loaded_at)`

	for i := range teachers {
		teachers[i].ID = uuid.NewString()
		teachers[i].Periodo = periodo
		teachers[i].Orden = i
		teachers[i].LoadedAt = loadedAt
		if _, err := tx.NamedExecContext(ctx, query, teachers[i]); err != nil {
			return fmt.Errorf("insert roster row %s: %w", teachers[i].DocenteID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit roster load: %w", err)
	}
	return nil
}

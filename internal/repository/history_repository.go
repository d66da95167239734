package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/acompanamiento-api/internal/models"
)

// HistoryRepository manages the immutable assignment change audit trail.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository constructs a HistoryRepository.
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// InsertBatch appends one run's audit records inside a transaction.
func (r *HistoryRepository) InsertBatch(ctx context.Context, records []models.HistoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history insert: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT INTO assignment_history
        (id, periodo, docente_id, nombre, especialista_dni, nombre_especialista, especialista_anterior_dni, nombre_especialista_anterior, estado, tipo_cambio, run_id, executed_at)
        VALUES (:id, :periodo, :docente_id, :nombre, :especialista_dni, :nombre_especialista, :especialista_anterior_dni, :nombre_especialista_anterior, :estado, :tipo_cambio, :run_id, :executed_at)`

	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
		}
		if _, err := tx.NamedExecContext(ctx, query, records[i]); err != nil {
			return fmt.Errorf("insert history for %s: %w", records[i].DocenteID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history insert: %w", err)
	}
	return nil
}

// List returns audit records matching the provided filters, newest first.
func (r *HistoryRepository) List(ctx context.Context, filter models.HistoryFilter) ([]models.HistoryRecord, int, error) {
	base := "FROM assignment_history"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.EspecialistaDNI != "" {
		conditions = append(conditions, fmt.Sprintf("(especialista_dni = $%d OR especialista_anterior_dni = $%d)", len(args)+1, len(args)+1))
		args = append(args, filter.EspecialistaDNI)
	}
	if filter.Periodo != "" {
		conditions = append(conditions, fmt.Sprintf("periodo = $%d", len(args)+1))
		args = append(args, filter.Periodo)
	}
	if filter.TipoCambio != "" {
		conditions = append(conditions, fmt.Sprintf("tipo_cambio = $%d", len(args)+1))
		args = append(args, filter.TipoCambio)
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

	query := fmt.Sprintf(`SELECT id, periodo, docente_id, nombre, especialista_dni, nombre_especialista, especialista_anterior_dni, nombre_especialista_anterior, estado, tipo_cambio, run_id, executed_at
        %s ORDER BY executed_at DESC, nombre ASC LIMIT %d OFFSET %d`, base, size, offset)

	records := []models.HistoryRecord{}
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list history: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count history: %w", err)
	}
	return records, total, nil
}

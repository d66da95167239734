package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/acompanamiento-api/internal/models"
)

// AvailabilityRepository manages the specialist availability pool. The pool
// is term-independent and replaced wholesale on each load.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs an AvailabilityRepository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListAll returns every specialist in the pool, in load order.
func (r *AvailabilityRepository) ListAll(ctx context.Context) ([]models.SpecialistAvailability, error) {
	const query = `SELECT id, dni, nombre, slots, orden, loaded_at
        FROM specialist_availability
        ORDER BY orden ASC`

	specialists := []models.SpecialistAvailability{}
	if err := r.db.SelectContext(ctx, &specialists, query); err != nil {
		return nil, fmt.Errorf("list specialist availability: %w", err)
	}
	return specialists, nil
}

// ReplaceAll swaps the whole availability pool inside one transaction. Row
// order in the slice is preserved through the orden column.
func (r *AvailabilityRepository) ReplaceAll(ctx context.Context, specialists []models.SpecialistAvailability) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin availability load: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM specialist_availability"); err != nil {
		return fmt.Errorf("clear specialist availability: %w", err)
	}

	loadedAt := time.Now().UTC()
	const query = `INSERT INTO specialist_availability (id, dni, nombre, slots, orden, loaded_at)
        VALUES (:id, :dni, :nombre, :slots, :orden, :loaded_at)`

	for i := range specialists {
		specialists[i].ID = uuid.NewString()
		specialists[i].Orden = i
		specialists[i].LoadedAt = loadedAt
		if _, err := tx.NamedExecContext(ctx, query, specialists[i]); err != nil {
			return fmt.Errorf("insert specialist %s: %w", specialists[i].DNI, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit availability load: %w", err)
	}
	return nil
}

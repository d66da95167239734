package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/acompanamiento-api/internal/models"
)

// NotificationRepository manages specialist notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs a NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// InsertBatch appends one run's notifications inside a transaction.
func (r *NotificationRepository) InsertBatch(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin notification insert: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT INTO notifications
        (id, history_id, especialista_dni, nombre_especialista, tipo, estado, prioridad, detalle, created_at, read_at)
        VALUES (:id, :history_id, :especialista_dni, :nombre_especialista, :tipo, :estado, :prioridad, :detalle, :created_at, :read_at)`

	for i := range notifications {
		if notifications[i].ID == "" {
			notifications[i].ID = uuid.NewString()
		}
		if _, err := tx.NamedExecContext(ctx, query, notifications[i]); err != nil {
			return fmt.Errorf("insert notification for %s: %w", notifications[i].EspecialistaDNI, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit notification insert: %w", err)
	}
	return nil
}

// List returns notifications matching the provided filters, newest first,
// along with the total count and the specialist's unread count.
func (r *NotificationRepository) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, int, error) {
	base := "FROM notifications"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.EspecialistaDNI != "" {
		conditions = append(conditions, fmt.Sprintf("especialista_dni = $%d", len(args)+1))
		args = append(args, filter.EspecialistaDNI)
	}
	if filter.Estado != "" {
		conditions = append(conditions, fmt.Sprintf("estado = $%d", len(args)+1))
		args = append(args, filter.Estado)
	}
	if filter.Tipo != "" {
		conditions = append(conditions, fmt.Sprintf("tipo = $%d", len(args)+1))
		args = append(args, filter.Tipo)
	}

	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, history_id, especialista_dni, nombre_especialista, tipo, estado, prioridad, detalle, created_at, read_at
        %s WHERE %s ORDER BY created_at DESC, id ASC LIMIT %d OFFSET %d`, base, where, size, offset)

	notifications := []models.Notification{}
	if err := r.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, 0, 0, fmt.Errorf("list notifications: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, 0, fmt.Errorf("count notifications: %w", err)
	}

	unreadQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s AND estado = $%d", base, where, len(args)+1)
	var unread int
	if err := r.db.GetContext(ctx, &unread, unreadQuery, append(args, models.NotificationNoVista)...); err != nil {
		return nil, 0, 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return notifications, total, unread, nil
}

// FindByID fetches a notification by ID.
func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	const query = `SELECT id, history_id, especialista_dni, nombre_especialista, tipo, estado, prioridad, detalle, created_at, read_at
        FROM notifications WHERE id = $1`
	var notification models.Notification
	if err := r.db.GetContext(ctx, &notification, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find notification %s: %w", id, err)
	}
	return &notification, nil
}

// UpdateState moves a notification into a new state, stamping read_at when
// provided.
func (r *NotificationRepository) UpdateState(ctx context.Context, id string, state models.NotificationState, readAt *time.Time) error {
	const query = `UPDATE notifications SET estado = $2, read_at = COALESCE($3, read_at) WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, state, readAt); err != nil {
		return fmt.Errorf("update notification %s: %w", id, err)
	}
	return nil
}

// MarkAllRead moves every unread or seen notification of a specialist to
// LEIDA and returns the number of rows touched.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, especialistaDNI string) (int, error) {
	const query = `UPDATE notifications SET estado = $2, read_at = $3
        WHERE especialista_dni = $1 AND estado IN ($4, $5)`
	res, err := r.db.ExecContext(ctx, query, especialistaDNI, models.NotificationLeida, time.Now().UTC(), models.NotificationNoVista, models.NotificationVista)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read for %s: %w", especialistaDNI, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark notifications read for %s: %w", especialistaDNI, err)
	}
	return int(affected), nil
}

// DeleteOlderThan removes read and archived notifications created before the
// cutoff and returns the number of rows removed.
func (r *NotificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	const query = `DELETE FROM notifications WHERE created_at < $1 AND estado IN ($2, $3)`
	res, err := r.db.ExecContext(ctx, query, cutoff, models.NotificationLeida, models.NotificationArchivada)
	if err != nil {
		return 0, fmt.Errorf("delete stale notifications: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete stale notifications: %w", err)
	}
	return int(affected), nil
}

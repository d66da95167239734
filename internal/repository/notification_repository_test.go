package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/acompanamiento-api/internal/models"
)

func notificationColumns() []string {
	return []string{"id", "history_id", "especialista_dni", "nombre_especialista", "tipo", "estado", "prioridad", "detalle", "created_at", "read_at"}
}

func TestNotificationRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	detail := []byte(`{"docenteId":"D001","nombreDocente":"Docente Uno","periodo":"2025-1","tipoCambio":"ASIGNACION_NUEVA"}`)
	rows := sqlmock.NewRows(notificationColumns()).
		AddRow("n1", nil, "11111111", "Esp Uno", "NUEVA_ASIGNACION", "NO_VISTA", "ALTA", detail, time.Now().UTC(), nil)
	mock.ExpectQuery("FROM notifications").
		WithArgs("11111111").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications`).
		WithArgs("11111111").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`estado = \$2`).
		WithArgs("11111111", models.NotificationNoVista).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	notifications, total, unread, err := repo.List(context.Background(), models.NotificationFilter{EspecialistaDNI: "11111111"})
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationNuevaAsignacion, notifications[0].Tipo)
	assert.Equal(t, "D001", notifications[0].Detalle.DocenteID)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, unread)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryUpdateState(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec("UPDATE notifications SET estado").
		WithArgs("n1", models.NotificationLeida, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateState(context.Background(), "n1", models.NotificationLeida, &now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryMarkAllRead(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec("UPDATE notifications SET estado").
		WithArgs("11111111", models.NotificationLeida, sqlmock.AnyArg(), models.NotificationNoVista, models.NotificationVista).
		WillReturnResult(sqlmock.NewResult(0, 3))

	updated, err := repo.MarkAllRead(context.Background(), "11111111")
	require.NoError(t, err)
	assert.Equal(t, 3, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryDeleteOlderThan(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	cutoff := time.Now().UTC().AddDate(0, 0, -90)
	mock.ExpectExec("DELETE FROM notifications").
		WithArgs(cutoff, models.NotificationLeida, models.NotificationArchivada).
		WillReturnResult(sqlmock.NewResult(0, 5))

	removed, err := repo.DeleteOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, 5, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

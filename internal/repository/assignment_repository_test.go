package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/acompanamiento-api/internal/models"
	appErrors "github.com/noah-isme/acompanamiento-api/pkg/errors"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func snapshotColumns() []string {
	return []string{"id", "periodo", "docente_id", "nombre", "rol", "programa", "modalidad", "esa", "especialista_dni", "nombre_especialista", "cursos", "estado", "run_id", "executed_at"}
}

func TestAssignmentRepositoryInsertBatch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO assignment_snapshots").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.InsertBatch(context.Background(), []models.AssignmentSnapshot{
		{Periodo: "2025-1", DocenteID: "D001", Nombre: "Docente Uno", Estado: models.AssignmentPlanificado, RunID: "run-1", ExecutedAt: time.Now().UTC()},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryInsertBatchConflict(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO assignment_snapshots").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.InsertBatch(context.Background(), []models.AssignmentSnapshot{
		{Periodo: "2025-1", DocenteID: "D001", RunID: "run-1"},
	})
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryListByTermDesc(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	older := time.Now().UTC().Add(-time.Hour)
	newer := time.Now().UTC()
	rows := sqlmock.NewRows(snapshotColumns()).
		AddRow("s2", "2025-1", "D001", "Docente Uno", "", "", "", nil, "11111111", "Esp Uno", []byte("[]"), "Planificado", "run-2", newer).
		AddRow("s1", "2025-1", "D001", "Docente Uno", "", "", "", nil, nil, nil, []byte("[]"), "Sin Asignar", "run-1", older)
	mock.ExpectQuery("FROM assignment_snapshots").
		WithArgs("2025-1").
		WillReturnRows(rows)

	snapshots, err := repo.ListByTermDesc(context.Background(), "2025-1")
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "run-2", snapshots[0].RunID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryListUltimaEjecucion(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	rows := sqlmock.NewRows(snapshotColumns()).
		AddRow("s2", "2025-1", "D001", "Docente Uno", "", "", "", nil, "11111111", "Esp Uno", []byte("[]"), "Planificado", "run-2", time.Now().UTC())
	mock.ExpectQuery(`executed_at = \(SELECT MAX\(executed_at\) FROM assignment_snapshots WHERE periodo = \$1\)`).
		WithArgs("2025-1").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM assignment_snapshots`).
		WithArgs("2025-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	snapshots, total, err := repo.List(context.Background(), models.AssignmentFilter{Periodo: "2025-1", UltimaEjecucion: true})
	require.NoError(t, err)
	assert.Len(t, snapshots, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

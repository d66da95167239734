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

func TestTeacherTermRepositoryListByTermLatest(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherTermRepository(db)

	rows := sqlmock.NewRows([]string{"id", "periodo", "docente_id", "nombre", "rol", "programa", "modalidad", "esa", "cursos", "orden", "loaded_at"}).
		AddRow("t1", "2025-1", "D001", "Docente Uno", "Docente", "Sistemas", "Presencial", nil, []byte("[]"), 0, time.Now().UTC()).
		AddRow("t2", "2025-1", "D002", "Docente Dos", "Docente", "Sistemas", "Presencial", nil, []byte("[]"), 1, time.Now().UTC())
	mock.ExpectQuery(`loaded_at = \(SELECT MAX\(loaded_at\) FROM teacher_terms WHERE periodo = \$1\)`).
		WithArgs("2025-1").
		WillReturnRows(rows)

	teachers, err := repo.ListByTermLatest(context.Background(), "2025-1")
	require.NoError(t, err)
	require.Len(t, teachers, 2)
	assert.Equal(t, "D001", teachers[0].DocenteID)
	assert.Equal(t, 1, teachers[1].Orden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherTermRepositoryBulkInsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherTermRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO teacher_terms").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO teacher_terms").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	teachers := []models.TeacherTerm{
		{DocenteID: "D001", Nombre: "Docente Uno"},
		{DocenteID: "D002", Nombre: "Docente Dos"},
	}
	require.NoError(t, repo.BulkInsert(context.Background(), "2025-1", teachers))
	assert.Equal(t, 0, teachers[0].Orden)
	assert.Equal(t, 1, teachers[1].Orden)
	assert.Equal(t, teachers[0].LoadedAt, teachers[1].LoadedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

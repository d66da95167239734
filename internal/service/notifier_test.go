package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/acompanamiento-api/internal/models"
)

func historyRecord(kind models.TransitionKind, newDNI, priorDNI string) models.HistoryRecord {
	record := models.HistoryRecord{
		Periodo:    "2025-1",
		DocenteID:  "T1",
		Nombre:     "Docente Uno",
		TipoCambio: kind,
		RunID:      "run-1",
		ExecutedAt: time.Now().UTC(),
	}
	if newDNI != "" {
		record.EspecialistaDNI = strPtr(newDNI)
		record.NombreEspecialista = strPtr("Esp " + newDNI)
		record.Estado = models.AssignmentPlanificado
	} else {
		record.Estado = models.AssignmentSinAsignar
	}
	if priorDNI != "" {
		record.EspecialistaAnteriorDNI = strPtr(priorDNI)
		record.NombreEspecialistaAnterior = strPtr("Esp " + priorDNI)
	}
	return record
}

func TestBuildNotificationsNuevaAsignacion(t *testing.T) {
	createdAt := time.Now().UTC()
	notifications := BuildNotifications([]models.HistoryRecord{
		historyRecord(models.TransitionAsignacionNueva, "100", ""),
	}, createdAt)

	require.Len(t, notifications, 1)
	n := notifications[0]
	assert.Equal(t, models.NotificationNuevaAsignacion, n.Tipo)
	assert.Equal(t, "100", n.EspecialistaDNI)
	assert.Equal(t, models.NotificationNoVista, n.Estado)
	assert.Equal(t, models.PriorityAlta, n.Prioridad)
	assert.Equal(t, createdAt, n.CreatedAt)
	assert.Equal(t, "T1", n.Detalle.DocenteID)
	assert.Nil(t, n.Detalle.EspecialistaAnterior)
	assert.Nil(t, n.HistoryID, "no audit row backs this notification")
}

func TestBuildNotificationsReasignadoFansOutToBothSides(t *testing.T) {
	record := historyRecord(models.TransitionReasignado, "200", "100")
	record.ID = "hist-1"
	notifications := BuildNotifications([]models.HistoryRecord{record}, time.Now().UTC())

	require.Len(t, notifications, 2)

	ganada := notifications[0]
	assert.Equal(t, models.NotificationReasignacionGanada, ganada.Tipo)
	assert.Equal(t, "200", ganada.EspecialistaDNI)
	require.NotNil(t, ganada.Detalle.EspecialistaAnterior)
	assert.Equal(t, "100", ganada.Detalle.EspecialistaAnterior.DNI)
	require.NotNil(t, ganada.HistoryID)
	assert.Equal(t, "hist-1", *ganada.HistoryID)
	assert.Equal(t, models.PriorityAlta, ganada.Prioridad)

	perdida := notifications[1]
	assert.Equal(t, models.NotificationReasignacionPerdida, perdida.Tipo)
	assert.Equal(t, "100", perdida.EspecialistaDNI)
	require.NotNil(t, perdida.Detalle.EspecialistaAnterior)
	assert.Equal(t, "200", perdida.Detalle.EspecialistaAnterior.DNI, "loser sees the winner on the other side")
	assert.Equal(t, models.PriorityMedia, perdida.Prioridad)
}

func TestBuildNotificationsDesasignadoTargetsPriorSpecialist(t *testing.T) {
	notifications := BuildNotifications([]models.HistoryRecord{
		historyRecord(models.TransitionDesasignado, "", "100"),
	}, time.Now().UTC())

	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationDesasignacion, notifications[0].Tipo)
	assert.Equal(t, "100", notifications[0].EspecialistaDNI)
	assert.Nil(t, notifications[0].HistoryID)
}

func TestBuildNotificationsSilentKinds(t *testing.T) {
	notifications := BuildNotifications([]models.HistoryRecord{
		historyRecord(models.TransitionMantenido, "100", "100"),
		historyRecord(models.TransitionPermaneceSinAsignar, "", ""),
	}, time.Now().UTC())
	assert.Empty(t, notifications)
}

package service

import (
	"time"

	"github.com/noah-isme/acompanamiento-api/internal/models"
)

// BuildNotifications fans change records out into per-specialist
// notification entries. Pure function of its inputs; row ids are assigned
// at insert time.
//
// Fan-out per transition kind:
//
//	ASIGNACION_NUEVA -> new specialist, NUEVA_ASIGNACION
//	REASIGNADO       -> new specialist, REASIGNACION_GANADA
//	                    prior specialist, REASIGNACION_PERDIDA
//	DESASIGNADO      -> prior specialist, DESASIGNACION
//	MANTENIDO, PERMANECE_SIN_ASIGNAR -> none
//
// Each reassignment notification carries the other side of the change in
// especialistaAnterior. A notification is only emitted when its target
// specialist id is non-empty.
func BuildNotifications(records []models.HistoryRecord, createdAt time.Time) []models.Notification {
	notifications := make([]models.Notification, 0, len(records))
	for _, record := range records {
		newDNI, newNombre := deref(record.EspecialistaDNI), deref(record.NombreEspecialista)
		priorDNI, priorNombre := deref(record.EspecialistaAnteriorDNI), deref(record.NombreEspecialistaAnterior)

		switch record.TipoCambio {
		case models.TransitionAsignacionNueva:
			if newDNI != "" {
				notifications = append(notifications, newNotification(record, createdAt,
					models.NotificationNuevaAsignacion, newDNI, newNombre, nil))
			}
		case models.TransitionReasignado:
			if newDNI != "" {
				notifications = append(notifications, newNotification(record, createdAt,
					models.NotificationReasignacionGanada, newDNI, newNombre,
					partyRef(priorDNI, priorNombre)))
			}
			if priorDNI != "" {
				notifications = append(notifications, newNotification(record, createdAt,
					models.NotificationReasignacionPerdida, priorDNI, priorNombre,
					partyRef(newDNI, newNombre)))
			}
		case models.TransitionDesasignado:
			if priorDNI != "" {
				notifications = append(notifications, newNotification(record, createdAt,
					models.NotificationDesasignacion, priorDNI, priorNombre, nil))
			}
		case models.TransitionMantenido, models.TransitionPermaneceSinAsignar:
			// nothing to announce
		}
	}
	return notifications
}

func newNotification(
	record models.HistoryRecord,
	createdAt time.Time,
	kind models.NotificationKind,
	targetDNI, targetNombre string,
	anterior *models.PartyRef,
) models.Notification {
	var historyID *string
	if record.ID != "" {
		id := record.ID
		historyID = &id
	}
	return models.Notification{
		HistoryID:          historyID,
		EspecialistaDNI:    targetDNI,
		NombreEspecialista: targetNombre,
		Tipo:               kind,
		Estado:             models.NotificationNoVista,
		Prioridad:          models.PriorityForKind(kind),
		Detalle: models.NotificationDetail{
			DocenteID:            record.DocenteID,
			NombreDocente:        record.Nombre,
			Periodo:              record.Periodo,
			TipoCambio:           record.TipoCambio,
			EspecialistaAnterior: anterior,
		},
		CreatedAt: createdAt,
	}
}

func partyRef(dni, nombre string) *models.PartyRef {
	if dni == "" {
		return nil
	}
	return &models.PartyRef{DNI: dni, Nombre: nombre}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

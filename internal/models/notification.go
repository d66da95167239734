package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// NotificationKind identifies why a specialist is being notified.
type NotificationKind string

const (
	NotificationNuevaAsignacion     NotificationKind = "NUEVA_ASIGNACION"
	NotificationReasignacionGanada  NotificationKind = "REASIGNACION_GANADA"
	NotificationReasignacionPerdida NotificationKind = "REASIGNACION_PERDIDA"
	NotificationDesasignacion       NotificationKind = "DESASIGNACION"
)

// NotificationState tracks the read lifecycle of a notification.
// Legal transitions: NO_VISTA -> VISTA -> LEIDA; ARCHIVADA from any state.
type NotificationState string

const (
	NotificationNoVista   NotificationState = "NO_VISTA"
	NotificationVista     NotificationState = "VISTA"
	NotificationLeida     NotificationState = "LEIDA"
	NotificationArchivada NotificationState = "ARCHIVADA"
)

// Priority ranks notifications for presentation.
type Priority string

const (
	PriorityAlta  Priority = "ALTA"
	PriorityMedia Priority = "MEDIA"
)

// PriorityForKind derives priority purely from the notification kind:
// only a lost reassignment is medium, everything else is high.
func PriorityForKind(kind NotificationKind) Priority {
	if kind == NotificationReasignacionPerdida {
		return PriorityMedia
	}
	return PriorityAlta
}

// NotificationDetail denormalizes the change for display without joins.
type NotificationDetail struct {
	DocenteID            string         `json:"docenteId"`
	NombreDocente        string         `json:"nombreDocente"`
	Periodo              string         `json:"periodo"`
	TipoCambio           TransitionKind `json:"tipoCambio"`
	EspecialistaAnterior *PartyRef      `json:"especialistaAnterior"`
}

// PartyRef names the specialist on the other side of a reassignment.
type PartyRef struct {
	DNI    string `json:"dni"`
	Nombre string `json:"nombre"`
}

// Value implements driver.Valuer.
func (d NotificationDetail) Value() (driver.Value, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal notification detail: %w", err)
	}
	return payload, nil
}

// Scan implements sql.Scanner.
func (d *NotificationDetail) Scan(src interface{}) error {
	if src == nil {
		*d = NotificationDetail{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported notification detail source type %T", src)
	}
	if len(raw) == 0 {
		*d = NotificationDetail{}
		return nil
	}
	return json.Unmarshal(raw, d)
}

// Notification targets one specialist with one change event. Created by the
// notification generator; only its read state mutates afterwards.
type Notification struct {
	ID                 string             `db:"id" json:"id"`
	HistoryID          *string            `db:"history_id" json:"historyId"`
	EspecialistaDNI    string             `db:"especialista_dni" json:"especialistaDni"`
	NombreEspecialista string             `db:"nombre_especialista" json:"nombreEspecialista"`
	Tipo               NotificationKind   `db:"tipo" json:"tipo"`
	Estado             NotificationState  `db:"estado" json:"estado"`
	Prioridad          Priority           `db:"prioridad" json:"prioridad"`
	Detalle            NotificationDetail `db:"detalle" json:"detalle"`
	CreatedAt          time.Time          `db:"created_at" json:"createdAt"`
	ReadAt             *time.Time         `db:"read_at" json:"readAt,omitempty"`
}

// NotificationFilter captures read filters for notification queries.
type NotificationFilter struct {
	EspecialistaDNI string
	Estado          string
	Tipo            string
	Page            int
	PageSize        int
}

// CanTransition reports whether moving from the current state to target is
// legal.
func (s NotificationState) CanTransition(target NotificationState) bool {
	if target == NotificationArchivada {
		return s != NotificationArchivada
	}
	switch s {
	case NotificationNoVista:
		return target == NotificationVista || target == NotificationLeida
	case NotificationVista:
		return target == NotificationLeida
	}
	return false
}

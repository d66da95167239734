package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AvailabilityDetail is the availability tuple that satisfied a match,
// carried on the accompaniment annotation for auditability.
type AvailabilityDetail struct {
	Dia     string `json:"dia"`
	Sede    string `json:"sede"`
	Horario string `json:"horario"`
}

// Accompaniment annotates a schedule slot once a specialist is matched to it.
type Accompaniment struct {
	EspecialistaDNI    string              `json:"especialistaDni"`
	NombreEspecialista string              `json:"nombreEspecialista"`
	Estado             AssignmentStatus    `json:"estado"`
	Disponibilidad     *AvailabilityDetail `json:"disponibilidad,omitempty"`
}

// ScheduleSlot is one (weekday, time-of-day) occurrence of a course section.
type ScheduleSlot struct {
	FechaInicio    string         `json:"fechaInicio,omitempty"`
	FechaFin       string         `json:"fechaFin,omitempty"`
	Dia            string         `json:"dia"`
	Horario        string         `json:"horario"`
	Turno          string         `json:"turno,omitempty"`
	Pabellon       string         `json:"pabellon,omitempty"`
	Sede           string         `json:"sede"`
	Aula           string         `json:"aula,omitempty"`
	Estado         string         `json:"estado,omitempty"`
	Acompanamiento *Accompaniment `json:"acompanamiento,omitempty"`
}

// Course groups the ordered schedule slots of one course section.
type Course struct {
	Nombre   string         `json:"nombre"`
	Horarios []ScheduleSlot `json:"horarios"`
}

// CourseList stores the ordered courses of a teacher-term record as JSONB.
type CourseList []Course

// Value implements driver.Valuer.
func (c CourseList) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal course list: %w", err)
	}
	return payload, nil
}

// Scan implements sql.Scanner.
func (c *CourseList) Scan(src interface{}) error {
	if src == nil {
		*c = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported course list source type %T", src)
	}
	if len(raw) == 0 {
		*c = nil
		return nil
	}
	return json.Unmarshal(raw, c)
}

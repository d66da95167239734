package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// AvailabilitySlot is one (weekday, site, time-slot) tuple at which a
// specialist is free. Modalidad and segmento are advisory metadata only;
// the matching decision ignores them.
type AvailabilitySlot struct {
	Dia       string `json:"dia"`
	Sede      string `json:"sede"`
	Horario   string `json:"horario"`
	Modalidad string `json:"modalidad,omitempty"`
	Segmento  string `json:"segmento,omitempty"`
}

// AvailabilitySlotList stores a specialist's free slots as JSONB.
type AvailabilitySlotList []AvailabilitySlot

// Value implements driver.Valuer.
func (l AvailabilitySlotList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	payload, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal availability slots: %w", err)
	}
	return payload, nil
}

// Scan implements sql.Scanner.
func (l *AvailabilitySlotList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported availability slot source type %T", src)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(raw, l)
}

// SpecialistAvailability is a specialist's availability record for one load.
type SpecialistAvailability struct {
	ID       string               `db:"id" json:"id"`
	DNI      SpecialistID         `db:"dni" json:"dni"`
	Nombre   string               `db:"nombre" json:"nombre"`
	Slots    AvailabilitySlotList `db:"slots" json:"slots"`
	Orden    int                  `db:"orden" json:"-"`
	LoadedAt time.Time            `db:"loaded_at" json:"loadedAt"`
}

// SpecialistID is a specialist's natural-key identifier. Source uploads mix
// numeric and string ids for the same person, so it always unmarshals to a
// trimmed string.
type SpecialistID string

// UnmarshalJSON accepts both string and numeric id representations.
func (s *SpecialistID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = SpecialistID(strings.TrimSpace(str))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("specialist id must be string or number: %w", err)
	}
	*s = SpecialistID(num.String())
	return nil
}

// String returns the trimmed string form.
func (s SpecialistID) String() string {
	return strings.TrimSpace(string(s))
}

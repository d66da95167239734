package models

import "time"

// TeacherTerm is one teacher's roster record for an academic term, produced
// by the upstream cleaning pipeline. Immutable once read by the match engine.
type TeacherTerm struct {
	ID        string     `db:"id" json:"id"`
	Periodo   string     `db:"periodo" json:"periodo"`
	DocenteID string     `db:"docente_id" json:"docenteId"`
	Nombre    string     `db:"nombre" json:"nombre"`
	Rol       string     `db:"rol" json:"rol,omitempty"`
	Programa  string     `db:"programa" json:"programa,omitempty"`
	Modalidad string     `db:"modalidad" json:"modalidad,omitempty"`
	ESA       *float64   `db:"esa" json:"esa,omitempty"`
	Cursos    CourseList `db:"cursos" json:"cursos"`
	Orden     int        `db:"orden" json:"-"`
	LoadedAt  time.Time  `db:"loaded_at" json:"loadedAt"`
}

// TeacherTermFilter captures listing options for roster records.
type TeacherTermFilter struct {
	Periodo  string
	Page     int
	PageSize int
}

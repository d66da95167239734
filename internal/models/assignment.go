package models

import "time"

// AssignmentStatus represents the overall state of a teacher's assignment.
type AssignmentStatus string

const (
	AssignmentPlanificado AssignmentStatus = "Planificado"
	AssignmentSinAsignar  AssignmentStatus = "Sin Asignar"
)

// TransitionKind classifies a teacher's assignment change between two runs.
// The five kinds are mutually exclusive and total over (prior, new) pairs.
type TransitionKind string

const (
	TransitionPermaneceSinAsignar TransitionKind = "PERMANECE_SIN_ASIGNAR"
	TransitionAsignacionNueva     TransitionKind = "ASIGNACION_NUEVA"
	TransitionMantenido           TransitionKind = "MANTENIDO"
	TransitionReasignado          TransitionKind = "REASIGNADO"
	TransitionDesasignado         TransitionKind = "DESASIGNADO"
)

// TransitionKinds lists every classification the engine can produce.
var TransitionKinds = []TransitionKind{
	TransitionPermaneceSinAsignar,
	TransitionAsignacionNueva,
	TransitionMantenido,
	TransitionReasignado,
	TransitionDesasignado,
}

// Valid reports whether the kind is one of the closed set.
func (k TransitionKind) Valid() bool {
	switch k {
	case TransitionPermaneceSinAsignar, TransitionAsignacionNueva,
		TransitionMantenido, TransitionReasignado, TransitionDesasignado:
		return true
	}
	return false
}

// AssignmentSnapshot is the full recorded state of one teacher's assignment
// at one execution timestamp. Snapshots are insert-only; "current state" is
// the most recent executed_at per term.
type AssignmentSnapshot struct {
	ID                 string           `db:"id" json:"id"`
	Periodo            string           `db:"periodo" json:"periodo"`
	DocenteID          string           `db:"docente_id" json:"docenteId"`
	Nombre             string           `db:"nombre" json:"nombre"`
	Rol                string           `db:"rol" json:"rol,omitempty"`
	Programa           string           `db:"programa" json:"programa,omitempty"`
	Modalidad          string           `db:"modalidad" json:"modalidad,omitempty"`
	ESA                *float64         `db:"esa" json:"esa,omitempty"`
	EspecialistaDNI    *string          `db:"especialista_dni" json:"especialistaDni"`
	NombreEspecialista *string          `db:"nombre_especialista" json:"nombreEspecialista"`
	Cursos             CourseList       `db:"cursos" json:"cursos"`
	Estado             AssignmentStatus `db:"estado" json:"estado"`
	RunID              string           `db:"run_id" json:"runId"`
	ExecutedAt         time.Time        `db:"executed_at" json:"executedAt"`
}

// AssignmentFilter captures read filters for snapshot queries.
type AssignmentFilter struct {
	Periodo         string
	DocenteID       string
	EspecialistaDNI string
	Estado          string
	UltimaEjecucion bool
	Page            int
	PageSize        int
}

// HistoryRecord is a snapshot-like audit document carrying the transition
// kind and the previous specialist. Previous-specialist fields default to
// NULL rather than absent. Immutable once created.
type HistoryRecord struct {
	ID                         string           `db:"id" json:"id"`
	Periodo                    string           `db:"periodo" json:"periodo"`
	DocenteID                  string           `db:"docente_id" json:"docenteId"`
	Nombre                     string           `db:"nombre" json:"nombre"`
	EspecialistaDNI            *string          `db:"especialista_dni" json:"especialistaDni"`
	NombreEspecialista         *string          `db:"nombre_especialista" json:"nombreEspecialista"`
	EspecialistaAnteriorDNI    *string          `db:"especialista_anterior_dni" json:"especialistaAnteriorDni"`
	NombreEspecialistaAnterior *string          `db:"nombre_especialista_anterior" json:"nombreEspecialistaAnterior"`
	Estado                     AssignmentStatus `db:"estado" json:"estado"`
	TipoCambio                 TransitionKind   `db:"tipo_cambio" json:"tipoCambio"`
	RunID                      string           `db:"run_id" json:"runId"`
	ExecutedAt                 time.Time        `db:"executed_at" json:"executedAt"`
}

// HistoryFilter captures read filters for history queries.
type HistoryFilter struct {
	EspecialistaDNI string
	Periodo         string
	TipoCambio      string
	Page            int
	PageSize        int
}

// MatchResult summarizes a completed match run.
type MatchResult struct {
	Message         string `json:"message"`
	TotalProcesados int    `json:"totalProcesados"`
	Matches         int    `json:"matches"`
	SinMatch        int    `json:"sinMatch"`
}

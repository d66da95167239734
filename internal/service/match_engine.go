package service

import (
	"github.com/noah-isme/acompanamiento-api/internal/models"
)

// MatchDecision is the engine's outcome for a single teacher.
type MatchDecision struct {
	EspecialistaDNI    string
	NombreEspecialista string
	Estado             models.AssignmentStatus
	Cursos             models.CourseList
	TipoCambio         models.TransitionKind
	Prior              *PriorAssignment
}

// Assigned reports whether the decision carries a specialist.
func (d MatchDecision) Assigned() bool {
	return d.EspecialistaDNI != ""
}

// MatchEngine decides one teacher at a time against two read-only indexes.
// Given identical inputs in identical order it always produces the same
// assignment: there is no randomization, ties break purely by input order.
type MatchEngine struct {
	availability *AvailabilityIndex
	prior        *PriorAssignmentIndex
}

// NewMatchEngine wires the per-run indexes.
func NewMatchEngine(availability *AvailabilityIndex, prior *PriorAssignmentIndex) *MatchEngine {
	return &MatchEngine{availability: availability, prior: prior}
}

// Decide applies the retention-then-fresh-match policy for one teacher.
//
// Retention runs only when the teacher's prior run left them assigned: the
// teacher's courses and slots are scanned in order and the first slot whose
// availability bucket still contains the prior specialist wins. When
// retention fails, the fresh attempt scans in the same order and takes the
// first candidate of the first non-empty bucket. No scoring, no "best"
// slot: first match wins.
func (e *MatchEngine) Decide(teacher models.TeacherTerm) MatchDecision {
	decision := MatchDecision{Estado: models.AssignmentSinAsignar}

	var prior *PriorAssignment
	if p, ok := e.prior.Lookup(teacher.DocenteID); ok {
		prior = &p
	}
	decision.Prior = prior

	if prior != nil && prior.Assigned() {
		if candidate, ok := e.retain(teacher, prior.EspecialistaDNI); ok {
			decision.EspecialistaDNI = candidate.DNI
			decision.NombreEspecialista = candidate.Nombre
		}
	}
	if decision.EspecialistaDNI == "" {
		if candidate, ok := e.freshMatch(teacher); ok {
			decision.EspecialistaDNI = candidate.DNI
			decision.NombreEspecialista = candidate.Nombre
		}
	}

	if decision.Assigned() {
		decision.Estado = models.AssignmentPlanificado
		decision.Cursos = e.enrichCourses(teacher.Cursos, decision.EspecialistaDNI, decision.NombreEspecialista)
	} else {
		decision.Cursos = copyCourses(teacher.Cursos)
	}

	decision.TipoCambio = Classify(prior, decision.EspecialistaDNI)
	return decision
}

func (e *MatchEngine) retain(teacher models.TeacherTerm, priorDNI string) (AvailabilityCandidate, bool) {
	for _, curso := range teacher.Cursos {
		for _, slot := range curso.Horarios {
			key := buildAvailabilityKey(slot.Dia, slot.Sede, slot.Horario)
			if candidate, ok := e.availability.Find(key, priorDNI); ok {
				return candidate, true
			}
		}
	}
	return AvailabilityCandidate{}, false
}

func (e *MatchEngine) freshMatch(teacher models.TeacherTerm) (AvailabilityCandidate, bool) {
	for _, curso := range teacher.Cursos {
		for _, slot := range curso.Horarios {
			key := buildAvailabilityKey(slot.Dia, slot.Sede, slot.Horario)
			if candidate, ok := e.availability.First(key); ok {
				return candidate, true
			}
		}
	}
	return AvailabilityCandidate{}, false
}

// enrichCourses builds a new course structure annotating every slot whose
// availability bucket contains the assigned specialist — not just the slot
// that triggered the match. Slots with no match stay unannotated. The input
// roster courses are never aliased or mutated.
func (e *MatchEngine) enrichCourses(cursos models.CourseList, dni, nombre string) models.CourseList {
	enriched := make(models.CourseList, 0, len(cursos))
	for _, curso := range cursos {
		slots := make([]models.ScheduleSlot, 0, len(curso.Horarios))
		for _, slot := range curso.Horarios {
			next := slot
			next.Acompanamiento = nil
			key := buildAvailabilityKey(slot.Dia, slot.Sede, slot.Horario)
			if candidate, ok := e.availability.Find(key, dni); ok {
				detail := candidate.Detail
				next.Acompanamiento = &models.Accompaniment{
					EspecialistaDNI:    dni,
					NombreEspecialista: nombre,
					Estado:             models.AssignmentPlanificado,
					Disponibilidad:     &detail,
				}
			}
			slots = append(slots, next)
		}
		enriched = append(enriched, models.Course{Nombre: curso.Nombre, Horarios: slots})
	}
	return enriched
}

// copyCourses deep-copies roster courses, stripping any stale annotation.
func copyCourses(cursos models.CourseList) models.CourseList {
	copied := make(models.CourseList, 0, len(cursos))
	for _, curso := range cursos {
		slots := make([]models.ScheduleSlot, 0, len(curso.Horarios))
		for _, slot := range curso.Horarios {
			next := slot
			next.Acompanamiento = nil
			slots = append(slots, next)
		}
		copied = append(copied, models.Course{Nombre: curso.Nombre, Horarios: slots})
	}
	return copied
}

// Classify labels a teacher's outcome against their prior state. It is a
// pure, total function: exactly one kind applies to every (prior, new)
// pair.
//
//	prior unassigned, new none  -> PERMANECE_SIN_ASIGNAR
//	prior unassigned, new some  -> ASIGNACION_NUEVA
//	prior assigned,   same dni  -> MANTENIDO
//	prior assigned,   other dni -> REASIGNADO
//	prior assigned,   new none  -> DESASIGNADO
func Classify(prior *PriorAssignment, newDNI string) models.TransitionKind {
	priorAssigned := prior != nil && prior.Assigned()

	if !priorAssigned {
		if newDNI == "" {
			return models.TransitionPermaneceSinAsignar
		}
		return models.TransitionAsignacionNueva
	}
	if newDNI == "" {
		return models.TransitionDesasignado
	}
	if newDNI == prior.EspecialistaDNI {
		return models.TransitionMantenido
	}
	return models.TransitionReasignado
}

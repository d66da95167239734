package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/acompanamiento-api/internal/models"
)

func specialist(dni, nombre string, slots ...models.AvailabilitySlot) models.SpecialistAvailability {
	return models.SpecialistAvailability{DNI: models.SpecialistID(dni), Nombre: nombre, Slots: slots}
}

func slot(dia, sede, horario string) models.AvailabilitySlot {
	return models.AvailabilitySlot{Dia: dia, Sede: sede, Horario: horario}
}

func teacherWithSlots(docenteID string, slots ...models.ScheduleSlot) models.TeacherTerm {
	return models.TeacherTerm{
		Periodo:   "2025-1",
		DocenteID: docenteID,
		Nombre:    "Docente " + docenteID,
		Cursos: models.CourseList{
			{Nombre: "Curso A", Horarios: slots},
		},
	}
}

func scheduleSlot(dia, sede, horario string) models.ScheduleSlot {
	return models.ScheduleSlot{Dia: dia, Sede: sede, Horario: horario}
}

func strPtr(s string) *string { return &s }

func TestAvailabilityIndexKeyNormalization(t *testing.T) {
	idx := NewAvailabilityIndex([]models.SpecialistAvailability{
		specialist("100", "Esp Cien", slot(" lunes ", " Central ", " 08:00-10:00 ")),
	})

	_, ok := idx.Find(buildAvailabilityKey("LUNES", "Central", "08:00-10:00"), "100")
	assert.True(t, ok)

	_, ok = idx.Find(buildAvailabilityKey("LUNES", "central", "08:00-10:00"), "100")
	assert.False(t, ok, "site comparison stays case sensitive")
}

func TestAvailabilityIndexPreservesInsertionOrder(t *testing.T) {
	idx := NewAvailabilityIndex([]models.SpecialistAvailability{
		specialist("200", "Esp Dos", slot("Martes", "Norte", "10:00-12:00")),
		specialist("100", "Esp Uno", slot("Martes", "Norte", "10:00-12:00")),
	})

	key := buildAvailabilityKey("Martes", "Norte", "10:00-12:00")
	candidates := idx.Candidates(key)
	require.Len(t, candidates, 2)
	assert.Equal(t, "200", candidates[0].DNI)

	first, ok := idx.First(key)
	require.True(t, ok)
	assert.Equal(t, "200", first.DNI)
}

func TestAvailabilityIndexSkipsEmptyDNI(t *testing.T) {
	idx := NewAvailabilityIndex([]models.SpecialistAvailability{
		specialist("  ", "Sin DNI", slot("Lunes", "Central", "08:00-10:00")),
	})
	assert.Empty(t, idx.Candidates(buildAvailabilityKey("Lunes", "Central", "08:00-10:00")))
}

func TestPriorAssignmentIndexFirstSeenWins(t *testing.T) {
	idx := NewPriorAssignmentIndex([]models.AssignmentSnapshot{
		{DocenteID: "T1", Estado: models.AssignmentPlanificado, EspecialistaDNI: strPtr("300"), NombreEspecialista: strPtr("Esp Tres")},
		{DocenteID: "T1", Estado: models.AssignmentSinAsignar},
	})

	prior, ok := idx.Lookup("T1")
	require.True(t, ok)
	assert.Equal(t, "300", prior.EspecialistaDNI)
	assert.True(t, prior.Assigned())
}

func TestDecideFreshMatchTakesFirstCandidate(t *testing.T) {
	engine := NewMatchEngine(
		NewAvailabilityIndex([]models.SpecialistAvailability{
			specialist("100", "Esp Uno", slot("Lunes", "Central", "08:00-10:00")),
			specialist("200", "Esp Dos", slot("Lunes", "Central", "08:00-10:00")),
		}),
		NewPriorAssignmentIndex(nil),
	)

	decision := engine.Decide(teacherWithSlots("T1", scheduleSlot("Lunes", "Central", "08:00-10:00")))
	assert.Equal(t, "100", decision.EspecialistaDNI)
	assert.Equal(t, models.AssignmentPlanificado, decision.Estado)
	assert.Equal(t, models.TransitionAsignacionNueva, decision.TipoCambio)
}

func TestDecideRetentionBeatsFreshMatch(t *testing.T) {
	engine := NewMatchEngine(
		NewAvailabilityIndex([]models.SpecialistAvailability{
			specialist("100", "Esp Uno", slot("Lunes", "Central", "08:00-10:00")),
			specialist("200", "Esp Dos", slot("Lunes", "Central", "08:00-10:00"), slot("Martes", "Norte", "10:00-12:00")),
		}),
		NewPriorAssignmentIndex([]models.AssignmentSnapshot{
			{DocenteID: "T1", Estado: models.AssignmentPlanificado, EspecialistaDNI: strPtr("200"), NombreEspecialista: strPtr("Esp Dos")},
		}),
	)

	decision := engine.Decide(teacherWithSlots("T1",
		scheduleSlot("Lunes", "Central", "08:00-10:00"),
		scheduleSlot("Martes", "Norte", "10:00-12:00"),
	))
	assert.Equal(t, "200", decision.EspecialistaDNI, "prior specialist retained even though another is first in the bucket")
	assert.Equal(t, models.TransitionMantenido, decision.TipoCambio)
}

func TestDecideNoRetentionWhenPriorUnassigned(t *testing.T) {
	engine := NewMatchEngine(
		NewAvailabilityIndex([]models.SpecialistAvailability{
			specialist("100", "Esp Uno", slot("Lunes", "Central", "08:00-10:00")),
		}),
		NewPriorAssignmentIndex([]models.AssignmentSnapshot{
			{DocenteID: "T1", Estado: models.AssignmentSinAsignar},
		}),
	)

	decision := engine.Decide(teacherWithSlots("T1", scheduleSlot("Lunes", "Central", "08:00-10:00")))
	assert.Equal(t, "100", decision.EspecialistaDNI)
	assert.Equal(t, models.TransitionAsignacionNueva, decision.TipoCambio)
}

func TestDecideUnassignedWhenNoCandidates(t *testing.T) {
	engine := NewMatchEngine(NewAvailabilityIndex(nil), NewPriorAssignmentIndex([]models.AssignmentSnapshot{
		{DocenteID: "T1", Estado: models.AssignmentPlanificado, EspecialistaDNI: strPtr("200"), NombreEspecialista: strPtr("Esp Dos")},
	}))

	decision := engine.Decide(teacherWithSlots("T1", scheduleSlot("Lunes", "Central", "08:00-10:00")))
	assert.Empty(t, decision.EspecialistaDNI)
	assert.Equal(t, models.AssignmentSinAsignar, decision.Estado)
	assert.Equal(t, models.TransitionDesasignado, decision.TipoCambio)
}

func TestDecideEnrichesEverySlotWithTheSpecialist(t *testing.T) {
	engine := NewMatchEngine(
		NewAvailabilityIndex([]models.SpecialistAvailability{
			specialist("100", "Esp Uno",
				slot("Lunes", "Central", "08:00-10:00"),
				slot("Miercoles", "Central", "08:00-10:00"),
			),
		}),
		NewPriorAssignmentIndex(nil),
	)

	teacher := models.TeacherTerm{
		Periodo:   "2025-1",
		DocenteID: "T1",
		Cursos: models.CourseList{
			{Nombre: "Curso A", Horarios: []models.ScheduleSlot{scheduleSlot("Lunes", "Central", "08:00-10:00")}},
			{Nombre: "Curso B", Horarios: []models.ScheduleSlot{
				scheduleSlot("Miercoles", "Central", "08:00-10:00"),
				scheduleSlot("Viernes", "Sur", "14:00-16:00"),
			}},
		},
	}

	decision := engine.Decide(teacher)
	require.Equal(t, "100", decision.EspecialistaDNI)
	require.Len(t, decision.Cursos, 2)

	first := decision.Cursos[0].Horarios[0].Acompanamiento
	require.NotNil(t, first, "triggering slot annotated")
	assert.Equal(t, "100", first.EspecialistaDNI)
	assert.Equal(t, models.AssignmentPlanificado, first.Estado)
	require.NotNil(t, first.Disponibilidad)
	assert.Equal(t, "Lunes", first.Disponibilidad.Dia)

	second := decision.Cursos[1].Horarios[0].Acompanamiento
	require.NotNil(t, second, "every slot covered by the specialist is annotated")
	assert.Equal(t, "Miercoles", second.Disponibilidad.Dia)

	assert.Nil(t, decision.Cursos[1].Horarios[1].Acompanamiento, "uncovered slot stays unannotated")
	assert.Nil(t, teacher.Cursos[0].Horarios[0].Acompanamiento, "input roster never mutated")
}

func TestDecideDeterministic(t *testing.T) {
	pool := []models.SpecialistAvailability{
		specialist("300", "Esp Tres", slot("Jueves", "Central", "08:00-10:00")),
		specialist("100", "Esp Uno", slot("Jueves", "Central", "08:00-10:00")),
		specialist("200", "Esp Dos", slot("Viernes", "Norte", "10:00-12:00")),
	}
	teacher := teacherWithSlots("T1",
		scheduleSlot("Jueves", "Central", "08:00-10:00"),
		scheduleSlot("Viernes", "Norte", "10:00-12:00"),
	)

	first := NewMatchEngine(NewAvailabilityIndex(pool), NewPriorAssignmentIndex(nil)).Decide(teacher)
	for i := 0; i < 10; i++ {
		again := NewMatchEngine(NewAvailabilityIndex(pool), NewPriorAssignmentIndex(nil)).Decide(teacher)
		assert.Equal(t, first, again)
	}
}

func TestClassifyCoversEveryPair(t *testing.T) {
	assigned := &PriorAssignment{EspecialistaDNI: "100", Estado: models.AssignmentPlanificado}
	unassigned := &PriorAssignment{Estado: models.AssignmentSinAsignar}

	cases := []struct {
		name   string
		prior  *PriorAssignment
		newDNI string
		want   models.TransitionKind
	}{
		{"no prior, no new", nil, "", models.TransitionPermaneceSinAsignar},
		{"no prior, new", nil, "100", models.TransitionAsignacionNueva},
		{"prior unassigned, no new", unassigned, "", models.TransitionPermaneceSinAsignar},
		{"prior unassigned, new", unassigned, "200", models.TransitionAsignacionNueva},
		{"prior assigned, same", assigned, "100", models.TransitionMantenido},
		{"prior assigned, different", assigned, "200", models.TransitionReasignado},
		{"prior assigned, no new", assigned, "", models.TransitionDesasignado},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.prior, tc.newDNI)
			assert.Equal(t, tc.want, got)
			assert.True(t, got.Valid())
		})
	}
}

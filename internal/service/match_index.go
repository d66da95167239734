package service

import (
	"strings"

	"github.com/noah-isme/acompanamiento-api/internal/models"
)

// AvailabilityCandidate is one specialist free at a given slot key.
type AvailabilityCandidate struct {
	DNI    string
	Nombre string
	Detail models.AvailabilityDetail
}

// AvailabilityIndex maps a slot key to the ordered list of specialists free
// at that slot. Built once per run from a point-in-time read and never
// mutated afterwards. Bucket order follows the insertion order of the
// availability pool: that order is the tie-break for "pick any available
// specialist" — the first inserted candidate wins.
type AvailabilityIndex struct {
	buckets map[string][]AvailabilityCandidate
}

// buildAvailabilityKey derives the lookup key for a (weekday, site, slot)
// tuple. Day names are folded to upper case; sites and time slots are
// compared verbatim after trimming.
func buildAvailabilityKey(dia, sede, horario string) string {
	return strings.ToUpper(strings.TrimSpace(dia)) + "|" +
		strings.TrimSpace(sede) + "|" +
		strings.TrimSpace(horario)
}

// NewAvailabilityIndex indexes the full specialist availability pool.
func NewAvailabilityIndex(records []models.SpecialistAvailability) *AvailabilityIndex {
	idx := &AvailabilityIndex{buckets: make(map[string][]AvailabilityCandidate)}
	for _, record := range records {
		dni := record.DNI.String()
		if dni == "" {
			continue
		}
		for _, slot := range record.Slots {
			key := buildAvailabilityKey(slot.Dia, slot.Sede, slot.Horario)
			idx.buckets[key] = append(idx.buckets[key], AvailabilityCandidate{
				DNI:    dni,
				Nombre: record.Nombre,
				Detail: models.AvailabilityDetail{
					Dia:     slot.Dia,
					Sede:    slot.Sede,
					Horario: slot.Horario,
				},
			})
		}
	}
	return idx
}

// Candidates returns the ordered candidate list for a key, possibly empty.
func (idx *AvailabilityIndex) Candidates(key string) []AvailabilityCandidate {
	return idx.buckets[key]
}

// First returns the first-inserted candidate for a key.
func (idx *AvailabilityIndex) First(key string) (AvailabilityCandidate, bool) {
	bucket := idx.buckets[key]
	if len(bucket) == 0 {
		return AvailabilityCandidate{}, false
	}
	return bucket[0], true
}

// Find reports whether the given specialist is free at the keyed slot and
// returns their candidate entry when so.
func (idx *AvailabilityIndex) Find(key, dni string) (AvailabilityCandidate, bool) {
	for _, candidate := range idx.buckets[key] {
		if candidate.DNI == dni {
			return candidate, true
		}
	}
	return AvailabilityCandidate{}, false
}

// PriorAssignment is a teacher's last known assignment state.
type PriorAssignment struct {
	EspecialistaDNI    string
	NombreEspecialista string
	Estado             models.AssignmentStatus
}

// Assigned reports whether the prior state actually carried a specialist.
func (p PriorAssignment) Assigned() bool {
	return p.Estado == models.AssignmentPlanificado && p.EspecialistaDNI != ""
}

// PriorAssignmentIndex maps teacher id to that teacher's most recent
// snapshot state across all previous runs for the term.
type PriorAssignmentIndex struct {
	entries map[string]PriorAssignment
}

// NewPriorAssignmentIndex builds the index from snapshots ordered by
// execution time descending: the first record seen per teacher is the most
// recent one, older generations are ignored.
func NewPriorAssignmentIndex(snapshots []models.AssignmentSnapshot) *PriorAssignmentIndex {
	idx := &PriorAssignmentIndex{entries: make(map[string]PriorAssignment)}
	for _, snap := range snapshots {
		if _, seen := idx.entries[snap.DocenteID]; seen {
			continue
		}
		prior := PriorAssignment{Estado: snap.Estado}
		if snap.EspecialistaDNI != nil {
			prior.EspecialistaDNI = strings.TrimSpace(*snap.EspecialistaDNI)
		}
		if snap.NombreEspecialista != nil {
			prior.NombreEspecialista = *snap.NombreEspecialista
		}
		idx.entries[snap.DocenteID] = prior
	}
	return idx
}

// Lookup returns the teacher's last known assignment state, if any.
func (idx *PriorAssignmentIndex) Lookup(docenteID string) (PriorAssignment, bool) {
	prior, ok := idx.entries[docenteID]
	return prior, ok
}

package availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/claromed/clinic-api/internal/calendar"
)

// Plan is the raw scheduling input collected from the configuration form:
// the days a unit attends, which of those are procedure days, per-date hour
// overrides and the procedures offered on procedure days.
//
// A procedure date absent from AttendanceDates is treated as an attendance
// date as well: a procedure day is by definition a day the unit is open, so
// the two sets are unioned rather than rejected.
type Plan struct {
	UnitID          uuid.UUID
	AttendanceDates []time.Time
	ProcedureDates  []time.Time
	Overrides       map[string]Window // keyed by ISO date
	ProcedureIDs    []uuid.UUID
}

// Expand materializes the plan into slot records: one general slot per
// attendance date carrying that date's window, plus one slot per selected
// procedure on each procedure day, all sharing the day's window. Dates are
// deduplicated and the result is ordered by date.
func (p Plan) Expand(defaults Window) ([]Slot, error) {
	if p.UnitID == uuid.Nil {
		return nil, fmt.Errorf("%w: unit is required", ErrInvalidPlan)
	}
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("%w: defaults: %v", ErrInvalidPlan, err)
	}
	overrides := make(map[string]Window, len(p.Overrides))
	for key, w := range p.Overrides {
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("%w: override %s: %v", ErrInvalidPlan, key, err)
		}
		overrides[key] = w
	}

	procSet := make(map[string]struct{}, len(p.ProcedureDates))
	for _, d := range p.ProcedureDates {
		procSet[d.Format(calendar.ISODate)] = struct{}{}
	}

	byKey := make(map[string]time.Time, len(p.AttendanceDates)+len(p.ProcedureDates))
	for _, d := range append(append([]time.Time{}, p.AttendanceDates...), p.ProcedureDates...) {
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		byKey[day.Format(calendar.ISODate)] = day
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var slots []Slot
	for _, key := range keys {
		day := byKey[key]
		window := defaults
		if w, ok := overrides[key]; ok {
			window = w
		}
		_, isProcedureDay := procSet[key]

		slots = append(slots, Slot{
			UnitID:         p.UnitID,
			Date:           day,
			StartTime:      window.Start,
			EndTime:        window.End,
			IsProcedureDay: isProcedureDay,
		})

		if !isProcedureDay {
			continue
		}
		for _, procID := range p.ProcedureIDs {
			id := procID
			slots = append(slots, Slot{
				UnitID:         p.UnitID,
				Date:           day,
				StartTime:      window.Start,
				EndTime:        window.End,
				IsProcedureDay: true,
				ProcedureID:    &id,
			})
		}
	}

	return slots, nil
}

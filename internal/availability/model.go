package availability

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Window is a half-open [Start, End) time range within one day, "15:04".
type Window struct {
	Start string
	End   string
}

// Validate checks the window and normalizes both times to zero-padded form.
// time.Parse accepts "9:15" for the "15:04" layout, and unpadded strings
// break the lexical comparisons slots and bookings are checked with.
func (w *Window) Validate() error {
	start, err := time.Parse("15:04", w.Start)
	if err != nil {
		return fmt.Errorf("invalid start time %q: %w", w.Start, err)
	}
	end, err := time.Parse("15:04", w.End)
	if err != nil {
		return fmt.Errorf("invalid end time %q: %w", w.End, err)
	}
	if !start.Before(end) {
		return fmt.Errorf("start %s must be before end %s", w.Start, w.End)
	}
	w.Start = start.Format("15:04")
	w.End = end.Format("15:04")
	return nil
}

// Slot is one bookable window of a unit on one date. A nil ProcedureID means
// general attendance; procedure-specific slots carry the procedure they are
// reserved for. For a given unit and date there is at most one general slot.
type Slot struct {
	ID             uuid.UUID
	UnitID         uuid.UUID
	Date           time.Time
	StartTime      string
	EndTime        string
	IsProcedureDay bool
	ProcedureID    *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

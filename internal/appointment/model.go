package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// allowedTransitions is the booking lifecycle. Completed, cancelled and
// no-show are terminal.
var allowedTransitions = map[Status][]Status{
	StatusScheduled: {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

func CanTransition(from, to Status) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Appointment times are day-local "15:04" strings over a half-open
// [StartTime, EndTime) interval. AmountPaid is in centavos.
type Appointment struct {
	ID          uuid.UUID
	PatientID   uuid.UUID
	DoctorID    uuid.UUID
	UnitID      uuid.UUID
	ProcedureID *uuid.UUID
	Date        time.Time
	StartTime   string
	EndTime     string
	Status      Status
	Notes       *string
	AmountPaid  *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Overlaps reports whether two half-open intervals intersect. Fixed-width
// "15:04" strings order lexicographically, so string comparison suffices.
// Touching intervals (end == start) do not overlap.
func Overlaps(start1, end1, start2, end2 string) bool {
	return start1 < end2 && start2 < end1
}

// NormalizeClock parses a clock time and re-formats it zero padded.
// time.Parse accepts "9:15" for the "15:04" layout, and an unpadded string
// breaks the lexical ordering Overlaps relies on, so every time entering the
// package goes through this first.
func NormalizeClock(s string) (string, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", err
	}
	return t.Format("15:04"), nil
}

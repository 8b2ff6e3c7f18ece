package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidWindow           = errors.New("invalid appointment window")
)

// ConflictError reports a booking that overlaps an existing appointment,
// carrying the conflicting window so the caller can show it verbatim.
type ConflictError struct {
	ExistingStart string
	ExistingEnd   string
}

func (e *ConflictError) Error() string {
	return "booking conflicts with an existing appointment from " + e.ExistingStart + " to " + e.ExistingEnd
}

// Repository contains all DB interactions needed by the service.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// ListActiveByUnitAndDate returns non-cancelled appointments for the
	// unit and date; the conflict check runs over this set.
	ListActiveByUnitAndDate(ctx context.Context, unitID uuid.UUID, date time.Time) ([]Appointment, error)

	Insert(ctx context.Context, a Appointment) (*Appointment, error)
	UpdateSchedule(ctx context.Context, id uuid.UUID, date time.Time, start, end string) (*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Appointment, error)

	// FindPastScheduled feeds the no-show worker: appointments still
	// "scheduled" whose day ended before the given instant.
	FindPastScheduled(ctx context.Context, before time.Time) ([]Appointment, error)
}

// AgendaCache is the explicit appointment-list cache keyed by unit and date.
// Every write path invalidates the day keys it touches; readers go through
// GetDay/SetDay.
type AgendaCache interface {
	GetDay(ctx context.Context, unitID uuid.UUID, date time.Time) ([]Appointment, bool)
	SetDay(ctx context.Context, unitID uuid.UUID, date time.Time, appts []Appointment)
	InvalidateDay(ctx context.Context, unitID uuid.UUID, date time.Time)
}

// Locker serializes booking attempts per unit/day.
type Locker interface {
	WithBookingLock(ctx context.Context, unitID uuid.UUID, date string, fn func(ctx context.Context) error) error
}

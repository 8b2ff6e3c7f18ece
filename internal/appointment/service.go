package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/claromed/clinic-api/internal/calendar"
	"github.com/claromed/clinic-api/internal/redisclient"
)

var (
	ErrDayBeingBooked = errors.New("another booking for this unit and day is in progress, please retry")
)

type Service struct {
	repo   Repository
	locker Locker
	cache  AgendaCache
	log    zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, locker Locker, cache AgendaCache, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		cache:  cache,
		log:    log.With().Str("component", "appointment").Logger(),
		now:    time.Now,
	}
}

// BookingRequest carries everything needed to create an appointment.
type BookingRequest struct {
	PatientID   uuid.UUID
	DoctorID    uuid.UUID
	UnitID      uuid.UUID
	ProcedureID *uuid.UUID
	Date        time.Time
	StartTime   string
	EndTime     string
	Notes       *string
	AmountPaid  *int64
}

// validate normalizes both clock times in place so that every window the
// service compares or persists is zero padded.
func (r *BookingRequest) validate() error {
	start, err := NormalizeClock(r.StartTime)
	if err != nil {
		return fmt.Errorf("%w: bad start time %q", ErrInvalidWindow, r.StartTime)
	}
	end, err := NormalizeClock(r.EndTime)
	if err != nil {
		return fmt.Errorf("%w: bad end time %q", ErrInvalidWindow, r.EndTime)
	}
	if start >= end {
		return fmt.Errorf("%w: start %s not before end %s", ErrInvalidWindow, start, end)
	}
	r.StartTime, r.EndTime = start, end
	return nil
}

// Book creates an appointment after checking the requested window against
// every active appointment of the same unit and day. The check-then-insert
// runs under a per-unit-per-day lock; the storage layer carries an exclusion
// constraint as the final guard.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*Appointment, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	date := normalizeDate(req.Date)
	var created *Appointment

	err := s.locker.WithBookingLock(ctx, req.UnitID, date.Format(calendar.ISODate), func(lockCtx context.Context) error {
		if err := s.checkConflicts(lockCtx, req.UnitID, date, req.StartTime, req.EndTime, uuid.Nil); err != nil {
			return err
		}

		appt, err := s.repo.Insert(lockCtx, Appointment{
			PatientID:   req.PatientID,
			DoctorID:    req.DoctorID,
			UnitID:      req.UnitID,
			ProcedureID: req.ProcedureID,
			Date:        date,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			Status:      StatusScheduled,
			Notes:       req.Notes,
			AmountPaid:  req.AmountPaid,
		})
		if err != nil {
			return fmt.Errorf("insert appointment: %w", err)
		}

		created = appt
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrDayBeingBooked
		}
		return nil, err
	}

	s.cache.InvalidateDay(ctx, created.UnitID, created.Date)

	s.log.Info().
		Str("appointment_id", created.ID.String()).
		Str("unit_id", created.UnitID.String()).
		Str("date", created.Date.Format(calendar.ISODate)).
		Str("window", created.StartTime+"-"+created.EndTime).
		Msg("appointment booked")

	return created, nil
}

// Reschedule moves an existing appointment, re-running the conflict check
// with the appointment itself excluded.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, date time.Time, start, end string) (*Appointment, error) {
	req := BookingRequest{StartTime: start, EndTime: end}
	if err := req.validate(); err != nil {
		return nil, err
	}
	start, end = req.StartTime, req.EndTime

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	newDate := normalizeDate(date)
	var updated *Appointment

	err = s.locker.WithBookingLock(ctx, current.UnitID, newDate.Format(calendar.ISODate), func(lockCtx context.Context) error {
		if err := s.checkConflicts(lockCtx, current.UnitID, newDate, start, end, id); err != nil {
			return err
		}

		appt, err := s.repo.UpdateSchedule(lockCtx, id, newDate, start, end)
		if err != nil {
			return fmt.Errorf("update schedule: %w", err)
		}

		updated = appt
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrDayBeingBooked
		}
		return nil, err
	}

	s.cache.InvalidateDay(ctx, current.UnitID, current.Date)
	if !newDate.Equal(current.Date) {
		s.cache.InvalidateDay(ctx, current.UnitID, newDate)
	}

	return updated, nil
}

// checkConflicts applies the half-open interval overlap test against every
// active appointment of the unit and day, optionally skipping the
// appointment being edited.
func (s *Service) checkConflicts(ctx context.Context, unitID uuid.UUID, date time.Time, start, end string, exclude uuid.UUID) error {
	existing, err := s.repo.ListActiveByUnitAndDate(ctx, unitID, date)
	if err != nil {
		return fmt.Errorf("list appointments for conflict check: %w", err)
	}

	for _, other := range existing {
		if exclude != uuid.Nil && other.ID == exclude {
			continue
		}
		if Overlaps(start, end, other.StartTime, other.EndTime) {
			return &ConflictError{ExistingStart: other.StartTime, ExistingEnd: other.EndTime}
		}
	}

	return nil
}

// Transition advances an appointment through its lifecycle.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, to Status) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if !CanTransition(appt.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, appt.Status, to)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, appt.Status, to)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	s.cache.InvalidateDay(ctx, updated.UnitID, updated.Date)

	return updated, nil
}

// Delete removes an appointment outright. There is no soft delete.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load appointment: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}

	s.cache.InvalidateDay(ctx, appt.UnitID, appt.Date)
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return appt, nil
}

// DayAgenda lists a unit's appointments for one day, read through the cache.
func (s *Service) DayAgenda(ctx context.Context, unitID uuid.UUID, date time.Time) ([]Appointment, error) {
	day := normalizeDate(date)

	if appts, ok := s.cache.GetDay(ctx, unitID, day); ok {
		return appts, nil
	}

	appts, err := s.repo.ListActiveByUnitAndDate(ctx, unitID, day)
	if err != nil {
		return nil, fmt.Errorf("list day agenda: %w", err)
	}

	s.cache.SetDay(ctx, unitID, day, appts)
	return appts, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Appointment, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	appts, err := s.repo.ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list appointments by patient: %w", err)
	}
	return appts, nil
}

// MarkNoShows is called by the reminder worker: any appointment still
// scheduled after its day has passed becomes a no-show.
func (s *Service) MarkNoShows(ctx context.Context) (int, error) {
	candidates, err := s.repo.FindPastScheduled(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("find past scheduled appointments: %w", err)
	}

	marked := 0
	for _, appt := range candidates {
		if _, err := s.repo.UpdateStatus(ctx, appt.ID, StatusScheduled, StatusNoShow); err != nil {
			if errors.Is(err, ErrAppointmentNotFound) {
				continue
			}
			s.log.Error().Err(err).Str("appointment_id", appt.ID.String()).Msg("failed to mark no-show")
			continue
		}
		s.cache.InvalidateDay(ctx, appt.UnitID, appt.Date)
		marked++
	}

	return marked, nil
}

func normalizeDate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/claromed/clinic-api/internal/calendar"
)

type Service struct {
	repo     Repository
	defaults Window
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(repo Repository, defaults Window, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		defaults: defaults,
		log:      log.With().Str("component", "availability").Logger(),
		now:      time.Now,
	}
}

// SuggestDates produces the candidate attendance dates for the configuration
// form: every business day within the rolling horizon, holidays excluded.
func (s *Service) SuggestDates(months int, weekdays calendar.WeekdaySet) []time.Time {
	return calendar.BusinessDays(s.now(), months, weekdays)
}

// Materialize expands the plan and persists the whole batch in one
// transaction. Returns the number of records written.
func (s *Service) Materialize(ctx context.Context, plan Plan) (int, error) {
	slots, err := plan.Expand(s.defaults)
	if err != nil {
		return 0, err
	}
	if len(slots) == 0 {
		return 0, nil
	}

	if err := s.repo.InsertSlots(ctx, slots); err != nil {
		return 0, fmt.Errorf("materialize availability: %w", err)
	}

	s.log.Info().
		Str("unit_id", plan.UnitID.String()).
		Int("slots", len(slots)).
		Msg("availability materialized")

	return len(slots), nil
}

// UpdateDayHours rewrites the window of every record for the unit and date,
// so general and procedure-specific slots stay in step.
func (s *Service) UpdateDayHours(ctx context.Context, unitID uuid.UUID, date time.Time, w Window) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}

	affected, err := s.repo.UpdateDayWindow(ctx, unitID, date, w)
	if err != nil {
		return fmt.Errorf("update day hours: %w", err)
	}
	if affected == 0 {
		return ErrDayNotFound
	}

	return nil
}

// DeleteDay removes every record for the unit and date.
func (s *Service) DeleteDay(ctx context.Context, unitID uuid.UUID, date time.Time) error {
	affected, err := s.repo.DeleteDay(ctx, unitID, date)
	if err != nil {
		return fmt.Errorf("delete day: %w", err)
	}
	if affected == 0 {
		return ErrDayNotFound
	}

	return nil
}

func (s *Service) ListByUnit(ctx context.Context, unitID uuid.UUID, from, to time.Time) ([]Slot, error) {
	slots, err := s.repo.ListByUnit(ctx, unitID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return slots, nil
}

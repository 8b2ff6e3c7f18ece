package availability

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDayNotFound = errors.New("no availability records for that unit and date")
	ErrInvalidPlan = errors.New("invalid availability plan")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	// InsertSlots persists a materialized batch inside one transaction:
	// either every slot lands or none do.
	InsertSlots(ctx context.Context, slots []Slot) error

	// UpdateDayWindow rewrites the time window of every record (general and
	// procedure-specific) sharing the unit and date.
	UpdateDayWindow(ctx context.Context, unitID uuid.UUID, date time.Time, w Window) (int64, error)

	// DeleteDay removes every record for the unit and date.
	DeleteDay(ctx context.Context, unitID uuid.UUID, date time.Time) (int64, error)

	ListByUnit(ctx context.Context, unitID uuid.UUID, from, to time.Time) ([]Slot, error)
}

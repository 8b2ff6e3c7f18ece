package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claromed/clinic-api/internal/calendar"
)

type fakeRepo struct {
	inserted  []Slot
	insertErr error
	updated   int64
	deleted   int64
	listed    []Slot
}

func (f *fakeRepo) InsertSlots(_ context.Context, slots []Slot) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, slots...)
	return nil
}

func (f *fakeRepo) UpdateDayWindow(_ context.Context, _ uuid.UUID, _ time.Time, _ Window) (int64, error) {
	return f.updated, nil
}

func (f *fakeRepo) DeleteDay(_ context.Context, _ uuid.UUID, _ time.Time) (int64, error) {
	return f.deleted, nil
}

func (f *fakeRepo) ListByUnit(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]Slot, error) {
	return f.listed, nil
}

func newService(repo *fakeRepo) *Service {
	return NewService(repo, defaults, zerolog.Nop())
}

func TestMaterialize(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo)

	n, err := svc.Materialize(context.Background(), Plan{
		UnitID:          uuid.New(),
		AttendanceDates: []time.Time{day(2026, time.September, 1), day(2026, time.September, 2)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, repo.inserted, 2)
}

func TestMaterialize_RepoFailureAbortsBatch(t *testing.T) {
	repo := &fakeRepo{insertErr: errors.New("constraint violation")}
	svc := newService(repo)

	_, err := svc.Materialize(context.Background(), Plan{
		UnitID:          uuid.New(),
		AttendanceDates: []time.Time{day(2026, time.September, 1)},
	})
	require.Error(t, err)
	assert.Empty(t, repo.inserted)
}

func TestMaterialize_EmptyPlanIsNoop(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo)

	n, err := svc.Materialize(context.Background(), Plan{UnitID: uuid.New()})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateDayHours(t *testing.T) {
	repo := &fakeRepo{updated: 3}
	svc := newService(repo)

	err := svc.UpdateDayHours(context.Background(), uuid.New(), day(2026, time.September, 2), Window{Start: "10:00", End: "16:00"})
	assert.NoError(t, err)
}

func TestUpdateDayHours_UnknownDay(t *testing.T) {
	repo := &fakeRepo{updated: 0}
	svc := newService(repo)

	err := svc.UpdateDayHours(context.Background(), uuid.New(), day(2026, time.September, 2), Window{Start: "10:00", End: "16:00"})
	assert.ErrorIs(t, err, ErrDayNotFound)
}

func TestUpdateDayHours_InvalidWindow(t *testing.T) {
	svc := newService(&fakeRepo{updated: 1})

	err := svc.UpdateDayHours(context.Background(), uuid.New(), day(2026, time.September, 2), Window{Start: "16:00", End: "10:00"})
	assert.Error(t, err)
}

func TestDeleteDay(t *testing.T) {
	svc := newService(&fakeRepo{deleted: 2})
	assert.NoError(t, svc.DeleteDay(context.Background(), uuid.New(), day(2026, time.September, 2)))

	svc = newService(&fakeRepo{deleted: 0})
	assert.ErrorIs(t, svc.DeleteDay(context.Background(), uuid.New(), day(2026, time.September, 2)), ErrDayNotFound)
}

func TestSuggestDates_UsesCalendar(t *testing.T) {
	svc := newService(&fakeRepo{})
	svc.now = func() time.Time { return time.Date(2026, time.August, 28, 9, 0, 0, 0, time.UTC) }

	dates := svc.SuggestDates(1, calendar.MondayToSaturday())
	require.NotEmpty(t, dates)
	for _, d := range dates {
		assert.NotEqual(t, time.Sunday, d.Weekday())
		assert.NotEqual(t, "2026-09-07", d.Format(calendar.ISODate)) // Independence Day
	}
}

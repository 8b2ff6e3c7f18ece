package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID    map[uuid.UUID]*Appointment
	listErr error
	deleted []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[uuid.UUID]*Appointment)}
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) ListActiveByUnitAndDate(_ context.Context, unitID uuid.UUID, date time.Time) ([]Appointment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []Appointment
	for _, a := range f.byID {
		if a.UnitID == unitID && a.Date.Equal(date) && a.Status != StatusCancelled {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRepo) Insert(_ context.Context, a Appointment) (*Appointment, error) {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	f.byID[a.ID] = &a
	cp := a
	return &cp, nil
}

func (f *fakeRepo) UpdateSchedule(_ context.Context, id uuid.UUID, date time.Time, start, end string) (*Appointment, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	a.Date = date
	a.StartTime = start
	a.EndTime = end
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to Status) (*Appointment, error) {
	a, ok := f.byID[id]
	if !ok || a.Status != from {
		return nil, ErrAppointmentNotFound
	}
	a.Status = to
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return ErrAppointmentNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) ListByPatient(_ context.Context, patientID uuid.UUID, _, _ int) ([]Appointment, error) {
	var out []Appointment
	for _, a := range f.byID {
		if a.PatientID == patientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindPastScheduled(_ context.Context, before time.Time) ([]Appointment, error) {
	var out []Appointment
	for _, a := range f.byID {
		if a.Status == StatusScheduled && a.Date.Before(before) {
			out = append(out, *a)
		}
	}
	return out, nil
}

type passthroughLocker struct{}

func (passthroughLocker) WithBookingLock(ctx context.Context, _ uuid.UUID, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingCache struct {
	invalidated []string
	stored      map[string][]Appointment
}

func newRecordingCache() *recordingCache {
	return &recordingCache{stored: make(map[string][]Appointment)}
}

func cacheKey(unitID uuid.UUID, date time.Time) string {
	return unitID.String() + ":" + date.Format("2006-01-02")
}

func (c *recordingCache) GetDay(_ context.Context, unitID uuid.UUID, date time.Time) ([]Appointment, bool) {
	appts, ok := c.stored[cacheKey(unitID, date)]
	return appts, ok
}

func (c *recordingCache) SetDay(_ context.Context, unitID uuid.UUID, date time.Time, appts []Appointment) {
	c.stored[cacheKey(unitID, date)] = appts
}

func (c *recordingCache) InvalidateDay(_ context.Context, unitID uuid.UUID, date time.Time) {
	key := cacheKey(unitID, date)
	delete(c.stored, key)
	c.invalidated = append(c.invalidated, key)
}

func newTestService() (*Service, *fakeRepo, *recordingCache) {
	repo := newFakeRepo()
	cache := newRecordingCache()
	svc := NewService(repo, passthroughLocker{}, cache, zerolog.Nop())
	return svc, repo, cache
}

func testDate() time.Time {
	return time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
}

func bookingReq(unitID uuid.UUID, start, end string) BookingRequest {
	return BookingRequest{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		UnitID:    unitID,
		Date:      testDate(),
		StartTime: start,
		EndTime:   end,
	}
}

func TestBook_Success(t *testing.T) {
	svc, _, cache := newTestService()
	unit := uuid.New()

	appt, err := svc.Book(context.Background(), bookingReq(unit, "09:00", "09:30"))
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, appt.Status)
	assert.Equal(t, []string{cacheKey(unit, testDate())}, cache.invalidated)
}

func TestBook_ConflictNamesExistingWindow(t *testing.T) {
	svc, _, _ := newTestService()
	unit := uuid.New()
	ctx := context.Background()

	_, err := svc.Book(ctx, bookingReq(unit, "09:00", "09:30"))
	require.NoError(t, err)

	_, err = svc.Book(ctx, bookingReq(unit, "09:15", "09:45"))
	require.Error(t, err)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "09:00", conflict.ExistingStart)
	assert.Equal(t, "09:30", conflict.ExistingEnd)
}

func TestBook_TouchingWindowsDoNotConflict(t *testing.T) {
	svc, _, _ := newTestService()
	unit := uuid.New()
	ctx := context.Background()

	_, err := svc.Book(ctx, bookingReq(unit, "10:00", "11:00"))
	require.NoError(t, err)

	_, err = svc.Book(ctx, bookingReq(unit, "11:00", "12:00"))
	assert.NoError(t, err)
}

func TestBook_UnpaddedTimesStillConflict(t *testing.T) {
	svc, _, _ := newTestService()
	unit := uuid.New()
	ctx := context.Background()

	_, err := svc.Book(ctx, bookingReq(unit, "09:00", "10:00"))
	require.NoError(t, err)

	// "9:15" parses under the "15:04" layout but sorts after "10:00"
	// lexically; normalization must restore the padded form before the
	// overlap check.
	_, err = svc.Book(ctx, bookingReq(unit, "9:15", "9:45"))
	require.Error(t, err)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "09:00", conflict.ExistingStart)
	assert.Equal(t, "10:00", conflict.ExistingEnd)
}

func TestBook_PersistsNormalizedTimes(t *testing.T) {
	svc, _, _ := newTestService()
	unit := uuid.New()

	appt, err := svc.Book(context.Background(), bookingReq(unit, "8:00", "9:30"))
	require.NoError(t, err)
	assert.Equal(t, "08:00", appt.StartTime)
	assert.Equal(t, "09:30", appt.EndTime)
}

func TestReschedule_NormalizesTimes(t *testing.T) {
	svc, _, _ := newTestService()
	unit := uuid.New()
	ctx := context.Background()

	appt, err := svc.Book(ctx, bookingReq(unit, "09:00", "10:00"))
	require.NoError(t, err)

	moved, err := svc.Reschedule(ctx, appt.ID, testDate(), "8:30", "9:00")
	require.NoError(t, err)
	assert.Equal(t, "08:30", moved.StartTime)
	assert.Equal(t, "09:00", moved.EndTime)
}

func TestBook_OtherUnitDoesNotConflict(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Book(ctx, bookingReq(uuid.New(), "09:00", "10:00"))
	require.NoError(t, err)

	_, err = svc.Book(ctx, bookingReq(uuid.New(), "09:00", "10:00"))
	assert.NoError(t, err)
}

func TestBook_CancelledDoesNotBlock(t *testing.T) {
	svc, _, _ := newTestService()
	unit := uuid.New()
	ctx := context.Background()

	first, err := svc.Book(ctx, bookingReq(unit, "09:00", "10:00"))
	require.NoError(t, err)

	_, err = svc.Transition(ctx, first.ID, StatusCancelled)
	require.NoError(t, err)

	_, err = svc.Book(ctx, bookingReq(unit, "09:00", "10:00"))
	assert.NoError(t, err)
}

func TestBook_InvalidWindow(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Book(ctx, bookingReq(uuid.New(), "10:00", "09:00"))
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = svc.Book(ctx, bookingReq(uuid.New(), "10:00", "10:00"))
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = svc.Book(ctx, bookingReq(uuid.New(), "25:00", "26:00"))
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestReschedule_ExcludesSelf(t *testing.T) {
	svc, _, _ := newTestService()
	unit := uuid.New()
	ctx := context.Background()

	appt, err := svc.Book(ctx, bookingReq(unit, "09:00", "09:30"))
	require.NoError(t, err)

	// Shifting within its own window must not conflict with itself.
	updated, err := svc.Reschedule(ctx, appt.ID, testDate(), "09:15", "09:45")
	require.NoError(t, err)
	assert.Equal(t, "09:15", updated.StartTime)
}

func TestReschedule_ConflictsWithOthers(t *testing.T) {
	svc, _, _ := newTestService()
	unit := uuid.New()
	ctx := context.Background()

	_, err := svc.Book(ctx, bookingReq(unit, "09:00", "09:30"))
	require.NoError(t, err)

	second, err := svc.Book(ctx, bookingReq(unit, "10:00", "10:30"))
	require.NoError(t, err)

	_, err = svc.Reschedule(ctx, second.ID, testDate(), "09:15", "09:45")
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestReschedule_InvalidatesBothDays(t *testing.T) {
	svc, _, cache := newTestService()
	unit := uuid.New()
	ctx := context.Background()

	appt, err := svc.Book(ctx, bookingReq(unit, "09:00", "09:30"))
	require.NoError(t, err)

	newDate := testDate().AddDate(0, 0, 1)
	_, err = svc.Reschedule(ctx, appt.ID, newDate, "09:00", "09:30")
	require.NoError(t, err)

	assert.Contains(t, cache.invalidated, cacheKey(unit, testDate()))
	assert.Contains(t, cache.invalidated, cacheKey(unit, newDate))
}

func TestTransition_InvalidRejected(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	appt, err := svc.Book(ctx, bookingReq(uuid.New(), "09:00", "09:30"))
	require.NoError(t, err)

	_, err = svc.Transition(ctx, appt.ID, StatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = svc.Transition(ctx, appt.ID, StatusConfirmed)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, appt.ID, StatusCompleted)
	assert.NoError(t, err)
}

func TestDelete_InvalidatesCache(t *testing.T) {
	svc, repo, cache := newTestService()
	unit := uuid.New()
	ctx := context.Background()

	appt, err := svc.Book(ctx, bookingReq(unit, "09:00", "09:30"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, appt.ID))
	assert.Contains(t, repo.deleted, appt.ID)
	assert.Equal(t, 2, len(cache.invalidated)) // book + delete
}

func TestDayAgenda_ReadThroughCache(t *testing.T) {
	svc, repo, cache := newTestService()
	unit := uuid.New()
	ctx := context.Background()

	_, err := svc.Book(ctx, bookingReq(unit, "09:00", "09:30"))
	require.NoError(t, err)

	first, err := svc.DayAgenda(ctx, unit, testDate())
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Second read must hit the cache even if the repo breaks.
	repo.listErr = context.DeadlineExceeded
	second, err := svc.DayAgenda(ctx, unit, testDate())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, cache.stored, 1)
}

func TestMarkNoShows(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	past, err := svc.Book(ctx, bookingReq(uuid.New(), "09:00", "09:30"))
	require.NoError(t, err)
	repo.byID[past.ID].Date = testDate().AddDate(0, 0, -7)

	future, err := svc.Book(ctx, bookingReq(uuid.New(), "09:00", "09:30"))
	require.NoError(t, err)

	svc.now = func() time.Time { return testDate() }

	marked, err := svc.MarkNoShows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	assert.Equal(t, StatusNoShow, repo.byID[past.ID].Status)
	assert.Equal(t, StatusScheduled, repo.byID[future.ID].Status)
}

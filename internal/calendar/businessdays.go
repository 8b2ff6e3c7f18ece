package calendar

import "time"

// WeekdaySet is an arbitrary subset of the seven weekdays, e.g. Mon–Sat for
// general attendance or {Tue, Thu} for procedure days.
type WeekdaySet uint8

func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s |= 1 << uint(d)
	}
	return s
}

// MondayToSaturday is the clinic's default attendance pattern.
func MondayToSaturday() WeekdaySet {
	return NewWeekdaySet(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday)
}

func (s WeekdaySet) Contains(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

func (s WeekdaySet) Empty() bool {
	return s == 0
}

// BusinessDays returns every date in [from, from+months) whose weekday is in
// the inclusion set and which is not a national holiday. The horizon is
// month-aligned: months are added with calendar semantics, not 30-day
// blocks. The result is sorted ascending and free of duplicates by
// construction.
func BusinessDays(from time.Time, months int, weekdays WeekdaySet) []time.Time {
	if months <= 0 || weekdays.Empty() {
		return nil
	}

	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, months, 0)

	// The window may span a year boundary, so pull holidays for every year
	// it touches.
	years := make([]int, 0, 2)
	for y := start.Year(); y <= end.Year(); y++ {
		years = append(years, y)
	}
	holidays := HolidaySet(years...)

	var out []time.Time
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if !weekdays.Contains(d.Weekday()) {
			continue
		}
		if _, isHoliday := holidays[d.Format(ISODate)]; isHoliday {
			continue
		}
		out = append(out, d)
	}

	return out
}

package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolidays_CountAndYear(t *testing.T) {
	for year := 2020; year <= 2030; year++ {
		hs := Holidays(year)
		require.Len(t, hs, 11, "year %d", year)

		seen := make(map[string]struct{})
		for _, h := range hs {
			assert.Equal(t, year, h.Date.Year(), "%s in %d", h.Name, year)
			key := h.Date.Format(ISODate)
			_, dup := seen[key]
			assert.False(t, dup, "duplicate holiday date %s in %d", key, year)
			seen[key] = struct{}{}
		}
	}
}

func TestHolidays_MovingDates2024(t *testing.T) {
	// Easter 2024 is March 31.
	byName := make(map[string]time.Time)
	for _, h := range Holidays(2024) {
		byName[h.Name] = h.Date
	}

	assert.Equal(t, "2024-02-13", byName["Carnaval"].Format(ISODate))
	assert.Equal(t, "2024-03-29", byName["Sexta-feira Santa"].Format(ISODate))
	assert.Equal(t, "2024-05-30", byName["Corpus Christi"].Format(ISODate))
}

func TestHolidaySet_MultipleYears(t *testing.T) {
	set := HolidaySet(2024, 2025)
	assert.Len(t, set, 22)

	_, ok := set["2024-12-25"]
	assert.True(t, ok)
	_, ok = set["2025-04-18"] // Good Friday 2025
	assert.True(t, ok)
	_, ok = set["2024-03-30"] // day before Easter, not a holiday
	assert.False(t, ok)
}

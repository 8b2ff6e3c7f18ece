package calendar

import "time"

// ISODate is the canonical date-only layout used across the service.
const ISODate = "2006-01-02"

type Holiday struct {
	Name string
	Date time.Time
}

type fixedHoliday struct {
	name  string
	month time.Month
	day   int
}

// The 8 fixed Brazilian national holidays.
var fixedHolidays = []fixedHoliday{
	{"Confraternização Universal", time.January, 1},
	{"Tiradentes", time.April, 21},
	{"Dia do Trabalho", time.May, 1},
	{"Independência do Brasil", time.September, 7},
	{"Nossa Senhora Aparecida", time.October, 12},
	{"Finados", time.November, 2},
	{"Proclamação da República", time.November, 15},
	{"Natal", time.December, 25},
}

// Offsets from Easter Sunday for the moving holidays.
const (
	carnivalOffset      = -47
	goodFridayOffset    = -2
	corpusChristiOffset = 60
)

// Holidays returns the 11 Brazilian national holidays of a year: the 8
// fixed-date ones plus Carnival, Good Friday and Corpus Christi, which are
// derived from that year's Easter Sunday.
func Holidays(year int) []Holiday {
	out := make([]Holiday, 0, len(fixedHolidays)+3)
	for _, f := range fixedHolidays {
		out = append(out, Holiday{
			Name: f.name,
			Date: time.Date(year, f.month, f.day, 0, 0, 0, 0, time.UTC),
		})
	}

	easter := Easter(year)
	out = append(out,
		Holiday{Name: "Carnaval", Date: easter.AddDate(0, 0, carnivalOffset)},
		Holiday{Name: "Sexta-feira Santa", Date: easter.AddDate(0, 0, goodFridayOffset)},
		Holiday{Name: "Corpus Christi", Date: easter.AddDate(0, 0, corpusChristiOffset)},
	)

	return out
}

// HolidaySet builds an ISO-date membership set covering every given year.
// A generation window that crosses a year boundary must pass both years.
func HolidaySet(years ...int) map[string]struct{} {
	set := make(map[string]struct{}, len(years)*11)
	for _, y := range years {
		for _, h := range Holidays(y) {
			set[h.Date.Format(ISODate)] = struct{}{}
		}
	}
	return set
}

package calendar

import (
	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/iso"
)

// persianEpochDays is Farvardin 1, AP 1 (622-03-21 Gregorian) in days
// from the Unix epoch, calibrated so the 33-year cycle puts Farvardin 1
// of 1403 on 2024-03-20.
const persianEpochDays = -492_268

// persianOps implements the arithmetic Solar Hijri calendar with the
// 33-year intercalation cycle: six 31-day months, five 30-day months, and
// a final month of 29 or 30 days.
type persianOps struct{}

// persianIsLeap reports the arithmetic leap rule for year.
func persianIsLeap(year int) bool {
	return modFloorI64(25*int64(year)+11, 33) < 8
}

// persianLeapsBefore counts leap years in 1..year (or, negated, the leap
// years in year+1..0 for non-positive years).
func persianLeapsBefore(year int) int64 {
	if year < 0 {
		return -countPersianLeaps(-year, true)
	}
	return countPersianLeaps(year, false)
}

func countPersianLeaps(n int, negative bool) int64 {
	cycles := int64(n / 33)
	count := cycles * 8
	for k := n - n%33 + 1; k <= n; k++ {
		y := k
		if negative {
			y = 1 - k
		}
		if persianIsLeap(y) {
			count++
		}
	}
	return count
}

func (p *persianOps) fixedFromCivil(year, month, day int) int64 {
	y := int64(year)
	var dayOfYear int64
	if month <= 7 {
		dayOfYear = 31 * int64(month-1)
	} else {
		dayOfYear = 30*int64(month-1) + 6
	}
	return persianEpochDays - 1 + 365*(y-1) + persianLeapsBefore(year-1) + dayOfYear + int64(day)
}

func (p *persianOps) civilFromIso(d iso.Date) civilDate {
	fixed := int64(d.EpochDays())
	// Estimate the year, then correct by at most one step each way.
	year := int(floorDivI64(33*(fixed-persianEpochDays)+1000, 12053)) + 1
	for fixed < p.fixedFromCivil(year, 1, 1) {
		year--
	}
	for fixed >= p.fixedFromCivil(year+1, 1, 1) {
		year++
	}
	dayOfYear := int(fixed-p.fixedFromCivil(year, 1, 1)) + 1
	var month int
	if dayOfYear <= 186 {
		month = (dayOfYear-1)/31 + 1
	} else {
		month = (dayOfYear-187)/30 + 7
	}
	day := int(fixed-p.fixedFromCivil(year, month, 1)) + 1
	return civilDate{Year: year, Month: month, Day: day}
}

func (p *persianOps) isoFromCivil(year, month, day int) iso.Date {
	return iso.DateFromEpochDays(int32(p.fixedFromCivil(year, month, day)))
}

func (p *persianOps) monthsInYear(int) int { return 12 }

func (p *persianOps) daysInMonth(year, month int) int {
	switch {
	case month <= 6:
		return 31
	case month <= 11:
		return 30
	case persianIsLeap(year):
		return 30
	default:
		return 29
	}
}

func (p *persianOps) daysInYear(year int) int {
	if persianIsLeap(year) {
		return 366
	}
	return 365
}

func (p *persianOps) inLeapYear(year int) bool { return persianIsLeap(year) }

func (p *persianOps) monthCodeToOrdinal(year int, code MonthCode) (int, error) {
	if code.Leap || code.Number < 1 || code.Number > 12 {
		return 0, errs.Rangef("month code %s not valid for calendar", code)
	}
	return code.Number, nil
}

func (p *persianOps) ordinalToMonthCode(_, month int) MonthCode {
	return MonthCode{Number: month}
}

func (p *persianOps) eraOf(d civilDate) (string, int) {
	return "ap", d.Year
}

func (p *persianOps) yearFromEra(era string, eraYear int) (int, error) {
	if era == "ap" || era == "persian" {
		return eraYear, nil
	}
	return 0, errs.Rangef("unknown era %q", era)
}

package calendar

import (
	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/iso"
)

// indianOps implements the Indian national (Saka) civil calendar. The
// year begins on Gregorian March 22, or March 21 in Gregorian leap years;
// Chaitra has 30 days (31 in leap years), followed by five 31-day and six
// 30-day months.
type indianOps struct{}

// sakaYearOffset is the difference between a Gregorian year and the Saka
// year that begins within it.
const sakaYearOffset = 78

func (in *indianOps) gregorianYearStart(gregorianYear int) int64 {
	day := 22
	if iso.IsLeapYear(gregorianYear) {
		day = 21
	}
	return int64(iso.Date{Year: int32(gregorianYear), Month: 3, Day: uint8(day)}.EpochDays())
}

func (in *indianOps) fixedFromCivil(year, month, day int) int64 {
	gYear := year + sakaYearOffset
	start := in.gregorianYearStart(gYear)
	var offset int64
	switch {
	case month == 1:
		offset = 0
	case month <= 7:
		offset = int64(in.daysInMonth(year, 1)) + 31*int64(month-2)
	default:
		offset = int64(in.daysInMonth(year, 1)) + 31*5 + 30*int64(month-7)
	}
	return start + offset + int64(day) - 1
}

func (in *indianOps) civilFromIso(d iso.Date) civilDate {
	fixed := int64(d.EpochDays())
	gYear := int(d.Year)
	start := in.gregorianYearStart(gYear)
	if fixed < start {
		gYear--
		start = in.gregorianYearStart(gYear)
	}
	year := gYear - sakaYearOffset
	dayOfYear := int(fixed-start) + 1

	first := in.daysInMonth(year, 1)
	var month, day int
	switch {
	case dayOfYear <= first:
		month, day = 1, dayOfYear
	case dayOfYear <= first+31*5:
		rest := dayOfYear - first - 1
		month, day = rest/31+2, rest%31+1
	default:
		rest := dayOfYear - first - 31*5 - 1
		month, day = rest/30+7, rest%30+1
	}
	return civilDate{Year: year, Month: month, Day: day}
}

func (in *indianOps) isoFromCivil(year, month, day int) iso.Date {
	return iso.DateFromEpochDays(int32(in.fixedFromCivil(year, month, day)))
}

func (in *indianOps) monthsInYear(int) int { return 12 }

func (in *indianOps) daysInMonth(year, month int) int {
	switch {
	case month == 1:
		if in.inLeapYear(year) {
			return 31
		}
		return 30
	case month <= 6:
		return 31
	default:
		return 30
	}
}

func (in *indianOps) daysInYear(year int) int {
	if in.inLeapYear(year) {
		return 366
	}
	return 365
}

func (in *indianOps) inLeapYear(year int) bool {
	// Chaitra gains its leap day exactly when the Gregorian year the Saka
	// year begins in is a leap year, keeping Vaisakha 1 on April 21.
	return iso.IsLeapYear(year + sakaYearOffset)
}

func (in *indianOps) monthCodeToOrdinal(year int, code MonthCode) (int, error) {
	if code.Leap || code.Number < 1 || code.Number > 12 {
		return 0, errs.Rangef("month code %s not valid for calendar", code)
	}
	return code.Number, nil
}

func (in *indianOps) ordinalToMonthCode(_, month int) MonthCode {
	return MonthCode{Number: month}
}

func (in *indianOps) eraOf(d civilDate) (string, int) {
	return "saka", d.Year
}

func (in *indianOps) yearFromEra(era string, eraYear int) (int, error) {
	if era == "saka" || era == "indian" {
		return eraYear, nil
	}
	return 0, errs.Rangef("unknown era %q", era)
}

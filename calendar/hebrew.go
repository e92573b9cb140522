package calendar

import (
	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/iso"
)

// hebrewEpochDays is Tishri 1, AM 1 in days from the Unix epoch.
const hebrewEpochDays = -2_092_590

// hebrewOps implements the arithmetic Hebrew calendar: metonic leap
// years, molad-based new years with the four postponements folded into
// the classical elapsed-days formula, and deficient/regular/complete year
// shapes. Months are civil ordinals from Tishri; the leap month Adar I
// carries the code M05L.
type hebrewOps struct{}

// hebrewIsLeap reports whether the metonic year is a leap year.
func hebrewIsLeap(year int) bool {
	return modFloorI64(7*int64(year)+1, 19) < 7
}

// hebrewElapsedDays returns the days from the Hebrew epoch to the molad
// of Tishri of year, with the Sunday/Wednesday/Friday postponement.
func hebrewElapsedDays(year int) int64 {
	months := floorDivI64(235*int64(year)-234, 19)
	parts := 12084 + 13753*months
	days := 29*months + floorDivI64(parts, 25920)
	if modFloorI64(3*(days+1), 7) < 3 {
		days++
	}
	return days
}

// hebrewYearLengthCorrection applies the remaining two postponements.
func hebrewYearLengthCorrection(year int) int64 {
	ny0 := hebrewElapsedDays(year - 1)
	ny1 := hebrewElapsedDays(year)
	ny2 := hebrewElapsedDays(year + 1)
	switch {
	case ny2-ny1 == 356:
		return 2
	case ny1-ny0 == 382:
		return 1
	default:
		return 0
	}
}

// hebrewNewYear returns Tishri 1 of year in days from the Unix epoch.
func hebrewNewYear(year int) int64 {
	return hebrewEpochDays + hebrewElapsedDays(year) + hebrewYearLengthCorrection(year)
}

func (h *hebrewOps) daysInYear(year int) int {
	return int(hebrewNewYear(year+1) - hebrewNewYear(year))
}

func (h *hebrewOps) monthsInYear(year int) int {
	if hebrewIsLeap(year) {
		return 13
	}
	return 12
}

// Civil month ordinals: 1 Tishri, 2 Heshvan, 3 Kislev, 4 Tevet, 5 Shevat,
// then in leap years 6 Adar I; Adar (II) follows, then Nisan through Elul.
func (h *hebrewOps) daysInMonth(year, month int) int {
	leap := hebrewIsLeap(year)
	// Ordinal of the month relative to the fixed tail after Adar.
	m := month
	if leap && month > 6 {
		m = month - 1
	} else if leap && month == 6 {
		// Adar I always has 30 days.
		return 30
	}
	switch m {
	case 1: // Tishri
		return 30
	case 2: // Heshvan: 30 only in complete years
		if h.daysInYear(year)%10 == 5 {
			return 30
		}
		return 29
	case 3: // Kislev: 29 only in deficient years
		if h.daysInYear(year)%10 == 3 {
			return 29
		}
		return 30
	case 4: // Tevet
		return 29
	case 5: // Shevat
		return 30
	case 6: // Adar (II in leap years)
		return 29
	case 7: // Nisan
		return 30
	case 8: // Iyar
		return 29
	case 9: // Sivan
		return 30
	case 10: // Tammuz
		return 29
	case 11: // Av
		return 30
	default: // Elul
		return 29
	}
}

func (h *hebrewOps) inLeapYear(year int) bool { return hebrewIsLeap(year) }

func (h *hebrewOps) fixedFromCivil(year, month, day int) int64 {
	fixed := hebrewNewYear(year)
	for m := 1; m < month; m++ {
		fixed += int64(h.daysInMonth(year, m))
	}
	return fixed + int64(day) - 1
}

func (h *hebrewOps) civilFromIso(d iso.Date) civilDate {
	fixed := int64(d.EpochDays())
	// Approximate the year from the mean year length, then correct.
	year := int(floorDivI64(98496*(fixed-hebrewEpochDays), 35975351)) + 1
	for fixed < hebrewNewYear(year) {
		year--
	}
	for fixed >= hebrewNewYear(year+1) {
		year++
	}
	month := 1
	rest := int(fixed - hebrewNewYear(year))
	for rest >= h.daysInMonth(year, month) {
		rest -= h.daysInMonth(year, month)
		month++
	}
	return civilDate{Year: year, Month: month, Day: rest + 1}
}

func (h *hebrewOps) isoFromCivil(year, month, day int) iso.Date {
	return iso.DateFromEpochDays(int32(h.fixedFromCivil(year, month, day)))
}

func (h *hebrewOps) monthCodeToOrdinal(year int, code MonthCode) (int, error) {
	leap := hebrewIsLeap(year)
	if code.Leap {
		if code.Number != 5 || !leap {
			return 0, errs.Rangef("month code %s not present in year %d", code, year)
		}
		return 6, nil
	}
	if code.Number < 1 || code.Number > 12 {
		return 0, errs.Rangef("month code %s not valid for calendar", code)
	}
	if leap && code.Number > 5 {
		return code.Number + 1, nil
	}
	return code.Number, nil
}

func (h *hebrewOps) ordinalToMonthCode(year, month int) MonthCode {
	if !hebrewIsLeap(year) {
		return MonthCode{Number: month}
	}
	switch {
	case month < 6:
		return MonthCode{Number: month}
	case month == 6:
		return MonthCode{Number: 5, Leap: true}
	default:
		return MonthCode{Number: month - 1}
	}
}

func (h *hebrewOps) eraOf(d civilDate) (string, int) {
	return "am", d.Year
}

func (h *hebrewOps) yearFromEra(era string, eraYear int) (int, error) {
	if era == "am" || era == "hebrew" {
		return eraYear, nil
	}
	return 0, errs.Rangef("unknown era %q", era)
}

package calendar

import (
	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/iso"
)

// Tabular Hijri epochs in days from the Unix epoch. The civil (type II)
// scheme counts from Friday, 622-07-16 Julian; the astronomical scheme
// from the preceding Thursday.
const (
	hijriFridayEpochDays   = -492_148
	hijriThursdayEpochDays = -492_149
)

// hijriOps implements the tabular Islamic calendar: a 30-year cycle of
// 354- and 355-day years with eleven leap years per cycle. The
// islamic-umalqura variant is served by the same arithmetic on the civil
// epoch; the observational Umm al-Qura month table is out of scope and
// this approximation is documented in the design notes.
type hijriOps struct {
	epoch int64
	id    string
}

func (h *hijriOps) civilFromIso(d iso.Date) civilDate {
	fixed := int64(d.EpochDays())
	year := int(floorDivI64(30*(fixed-h.epoch)+10646, 10631))
	month := 1
	for month < 12 && fixed >= h.fixedFromCivil(year, month+1, 1) {
		month++
	}
	day := int(fixed-h.fixedFromCivil(year, month, 1)) + 1
	return civilDate{Year: year, Month: month, Day: day}
}

func (h *hijriOps) isoFromCivil(year, month, day int) iso.Date {
	return iso.DateFromEpochDays(int32(h.fixedFromCivil(year, month, day)))
}

func (h *hijriOps) fixedFromCivil(year, month, day int) int64 {
	y := int64(year)
	m := int64(month)
	return h.epoch - 1 + 354*(y-1) + floorDivI64(3+11*y, 30) + 29*(m-1) + floorDivI64(m, 2) + int64(day)
}

func (h *hijriOps) monthsInYear(int) int { return 12 }

func (h *hijriOps) daysInMonth(year, month int) int {
	if month == 12 {
		if h.inLeapYear(year) {
			return 30
		}
		return 29
	}
	if month%2 == 1 {
		return 30
	}
	return 29
}

func (h *hijriOps) daysInYear(year int) int {
	if h.inLeapYear(year) {
		return 355
	}
	return 354
}

func (h *hijriOps) inLeapYear(year int) bool {
	return modFloorI64(14+11*int64(year), 30) < 11
}

func (h *hijriOps) monthCodeToOrdinal(year int, code MonthCode) (int, error) {
	if code.Leap || code.Number < 1 || code.Number > 12 {
		return 0, errs.Rangef("month code %s not valid for calendar", code)
	}
	return code.Number, nil
}

func (h *hijriOps) ordinalToMonthCode(_, month int) MonthCode {
	return MonthCode{Number: month}
}

func (h *hijriOps) eraOf(d civilDate) (string, int) {
	if d.Year > 0 {
		return "ah", d.Year
	}
	return "bh", 1 - d.Year
}

func (h *hijriOps) yearFromEra(era string, eraYear int) (int, error) {
	switch era {
	case "ah", "islamic":
		return eraYear, nil
	case "bh", "islamic-inverse":
		return 1 - eraYear, nil
	}
	return 0, errs.Rangef("unknown era %q", era)
}

package calendar

import (
	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/iso"
)

// Epochs expressed in days from the Unix epoch (fixed day 719163).
const (
	// 284-08-29 Julian, the era of Diocletian.
	copticEpochDays = -615_558
	// 8-08-29 Julian, the incarnation era (Amete Mihret).
	ethiopicEpochDays = -716_367
)

// copticOps implements the Coptic calendar shape shared with the
// Ethiopic calendars: twelve 30-day months plus a 5- or 6-day epagomenal
// month, leap every year congruent to 3 mod 4.
type copticOps struct {
	epoch       int64
	eraPositive string
	eraNegative string
	// amToAa maps years before the incarnation era into the anno-mundi
	// style negative era used by the ethiopic calendar.
	amToAa bool
	// ameteAlem offsets all years by 5500 (ethioaa).
	ameteAlem bool
}

func (c *copticOps) civilFromIso(d iso.Date) civilDate {
	fixed := int64(d.EpochDays())
	year := int(floorDivI64(4*(fixed-c.epoch)+1463, 1461))
	firstOfYear := c.fixedFromCivil(year, 1, 1)
	month := int((fixed-firstOfYear)/30) + 1
	day := int(fixed-c.fixedFromCivil(year, month, 1)) + 1
	if c.ameteAlem {
		year += 5500
	}
	return civilDate{Year: year, Month: month, Day: day}
}

func (c *copticOps) isoFromCivil(year, month, day int) iso.Date {
	if c.ameteAlem {
		year -= 5500
	}
	return iso.DateFromEpochDays(int32(c.fixedFromCivil(year, month, day)))
}

func (c *copticOps) fixedFromCivil(year, month, day int) int64 {
	y := int64(year)
	return c.epoch - 1 + 365*(y-1) + floorDivI64(y, 4) + 30*int64(month-1) + int64(day)
}

func (c *copticOps) monthsInYear(int) int { return 13 }

func (c *copticOps) daysInMonth(year, month int) int {
	if month < 13 {
		return 30
	}
	if c.inLeapYear(year) {
		return 6
	}
	return 5
}

func (c *copticOps) daysInYear(year int) int {
	if c.inLeapYear(year) {
		return 366
	}
	return 365
}

func (c *copticOps) inLeapYear(year int) bool {
	if c.ameteAlem {
		year -= 5500
	}
	return modFloorI64(int64(year), 4) == 3
}

func (c *copticOps) monthCodeToOrdinal(year int, code MonthCode) (int, error) {
	if code.Leap || code.Number < 1 || code.Number > 13 {
		return 0, errs.Rangef("month code %s not valid for calendar", code)
	}
	return code.Number, nil
}

func (c *copticOps) ordinalToMonthCode(_, month int) MonthCode {
	return MonthCode{Number: month}
}

func (c *copticOps) eraOf(d civilDate) (string, int) {
	if d.Year > 0 || c.ameteAlem {
		return c.eraPositive, d.Year
	}
	if c.amToAa {
		// Ethiopic dates before the incarnation era carry Amete Alem years.
		return c.eraNegative, d.Year + 5500
	}
	return c.eraNegative, 1 - d.Year
}

func (c *copticOps) yearFromEra(era string, eraYear int) (int, error) {
	if era == c.eraPositive {
		return eraYear, nil
	}
	if !c.ameteAlem && era == c.eraNegative {
		if c.amToAa {
			return eraYear - 5500, nil
		}
		return 1 - eraYear, nil
	}
	return 0, errs.Rangef("unknown era %q", era)
}

func floorDivI64(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func modFloorI64(a, b int64) int64 {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

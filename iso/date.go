// Package iso implements the proleptic Gregorian date and time kernel on
// which every other temporal package is expressed: balancing, constraining,
// and regulating components, exact epoch-day conversion, and signed
// date/time arithmetic.
package iso

import (
	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/options"
)

// Day-range bounds. A Date is addressable when its epoch day count has a
// magnitude of at most 1e8; a DateTime gets one extra day of slack so that
// offsets cannot push a boundary instant out of range.
const (
	maxEpochDays   = 100_000_000
	maxBalanceDays = maxEpochDays + 1
	daysPerCycle   = 146_097 // days in 400 Gregorian years
	unixEpochShift = 719_468 // days from 0000-03-01 to 1970-01-01
)

// Date is a proleptic Gregorian calendar date.
type Date struct {
	Year  int32
	Month uint8
	Day   uint8
}

// NewDate validates and returns a Date, rejecting out-of-range components
// and dates outside the addressable window.
func NewDate(year, month, day int) (Date, error) {
	return RegulateDate(year, month, day, options.OverflowReject)
}

// RegulateDate constrains or rejects the provided components per overflow,
// then confirms the date lies within the addressable window.
func RegulateDate(year, month, day int, overflow options.Overflow) (Date, error) {
	var d Date
	switch overflow {
	case options.OverflowConstrain:
		d = ConstrainDate(year, month, day)
	case options.OverflowReject:
		if !IsValidDate(year, month, day) {
			return Date{}, errs.Rangef("invalid ISO date %04d-%02d-%02d", year, month, day)
		}
		d = Date{Year: int32(year), Month: uint8(month), Day: uint8(day)}
	}
	if !dateTimeWithinLimits(d, Time{Hour: 12}) {
		return Date{}, errs.Range("date outside of valid ISO range")
	}
	return d, nil
}

// ConstrainDate clamps month into 1..12 and day into the month's length.
// The year is not clamped; year-level range violations surface later as
// range errors.
func ConstrainDate(year, month, day int) Date {
	m := clampInt(month, 1, 12)
	d := clampInt(day, 1, DaysInMonth(year, m))
	return Date{Year: int32(year), Month: uint8(m), Day: uint8(d)}
}

// BalanceDate interprets arbitrary month and day values with carry into
// the year and returns the normalized date.
func BalanceDate(year, month, day int) Date {
	y, m := balanceYearMonth(year, month)
	days := epochDaysFor(y, m, 1) + int64(day) - 1
	return dateFromEpochDaysI64(days)
}

// CheckDateRange fails when the date's epoch day count exceeds ±1e8.
func CheckDateRange(d Date) error {
	days := epochDaysFor(int(d.Year), int(d.Month), int(d.Day))
	if days > maxEpochDays || days < -maxEpochDays {
		return errs.Range("date outside of valid ISO day range")
	}
	return nil
}

// IsValidDate reports whether the components form a real calendar date.
func IsValidDate(year, month, day int) bool {
	if month < 1 || month > 12 {
		return false
	}
	return day >= 1 && day <= DaysInMonth(year, month)
}

// Compare orders d against other chronologically.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(int(d.Year), int(other.Year))
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(int(d.Day), int(other.Day))
	}
}

// EpochDays returns the number of days from 1970-01-01 to d.
func (d Date) EpochDays() int32 {
	return int32(epochDaysFor(int(d.Year), int(d.Month), int(d.Day)))
}

// DateFromEpochDays is the exact inverse of [Date.EpochDays].
func DateFromEpochDays(days int32) Date {
	return dateFromEpochDaysI64(int64(days))
}

// AddDate adds years then months with regulation after the year/month
// balance, then weeks and days by epoch-day arithmetic.
func (d Date) AddDate(years, months, weeks, days int64, overflow options.Overflow) (Date, error) {
	y, m := balanceYearMonth64(int64(d.Year)+years, int64(d.Month)+months)
	if y > int64(maxYear)+1 || y < int64(minYear)-1 {
		return Date{}, errs.Range("year outside of valid ISO range")
	}
	intermediate, err := RegulateDate(int(y), int(m), int(d.Day), overflow)
	if err != nil {
		return Date{}, err
	}
	total := int64(intermediate.EpochDays()) + days + weeks*7
	if total > maxBalanceDays || total < -maxBalanceDays {
		return Date{}, errs.Range("date addition outside of valid ISO range")
	}
	out := dateFromEpochDaysI64(total)
	if !dateTimeWithinLimits(out, Time{Hour: 12}) {
		return Date{}, errs.Range("date addition outside of valid ISO range")
	}
	return out, nil
}

// DateUntil returns the signed (years, months, weeks, days) from d to
// other, largest unit first. Borrowing always comes from the larger unit,
// so a short target day decrements the month difference rather than
// producing mixed signs.
func (d Date) DateUntil(other Date, largest options.Unit) (years, months, weeks, days int64) {
	sign := -d.Compare(other)
	if sign == 0 {
		return 0, 0, 0, 0
	}

	var y, m int64
	if largest == options.UnitYear || largest == options.UnitMonth {
		// Walk candidate years toward the target without surpassing it.
		candidate := int64(other.Year) - int64(d.Year)
		if candidate != 0 {
			candidate -= int64(sign)
		}
		for !surpasses(Date{Year: d.Year + int32(candidate), Month: d.Month, Day: d.Day}, other, sign) {
			y = candidate
			candidate += int64(sign)
		}

		candidateMonths := int64(sign)
		iy, im := balanceYearMonth64(int64(d.Year)+y, int64(d.Month)+candidateMonths)
		for !surpasses(Date{Year: int32(iy), Month: uint8(im), Day: d.Day}, other, sign) {
			m = candidateMonths
			candidateMonths += int64(sign)
			iy, im = balanceYearMonth64(iy, im+int64(sign))
		}
	}

	iy, im := balanceYearMonth64(int64(d.Year)+y, int64(d.Month)+m)
	constrained := ConstrainDate(int(iy), int(im), int(d.Day))
	dayCount := int64(other.EpochDays()) - int64(constrained.EpochDays())

	if largest == options.UnitWeek {
		return y, m, dayCount / 7, dayCount % 7
	}
	return y, m, 0, dayCount
}

// DaysInMonth returns the number of days in the month, accounting for leap
// years.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

// DaysInYear returns 365 or 366.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DayOfWeek returns the ISO day of week, Monday = 1 through Sunday = 7.
func (d Date) DayOfWeek() int {
	// 1970-01-01 was a Thursday (ISO 4).
	dow := (int64(d.EpochDays())+3)%7 + 1
	if dow <= 0 {
		dow += 7
	}
	return int(dow)
}

// DayOfYear returns the ordinal day within the year, starting at 1.
func (d Date) DayOfYear() int {
	return int(int64(d.EpochDays()) - epochDaysFor(int(d.Year), 1, 1) + 1)
}

// WeekOfYear returns the ISO 8601 week number and its week-based year.
func (d Date) WeekOfYear() (week int, year int) {
	doy := d.DayOfYear()
	dow := d.DayOfWeek()
	week = (doy - dow + 10) / 7
	year = int(d.Year)
	if week < 1 {
		// Belongs to the final week of the previous year.
		year--
		week = weeksInISOYear(year)
		return week, year
	}
	if week > weeksInISOYear(int(d.Year)) {
		year++
		week = 1
	}
	return week, year
}

func weeksInISOYear(year int) int {
	jan1 := Date{Year: int32(year), Month: 1, Day: 1}
	dec31 := Date{Year: int32(year), Month: 12, Day: 31}
	if jan1.DayOfWeek() == 4 || dec31.DayOfWeek() == 4 {
		return 53
	}
	return 52
}

// Year bounds of the valid ISO window.
const (
	minYear = -271_821
	maxYear = 275_760
)

// epochDaysFor computes days from the Unix epoch to year-month-day using
// exact integer arithmetic over shifted 400-year cycles.
func epochDaysFor(year, month, day int) int64 {
	y := int64(year)
	m := int64(month)
	if m <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	var doy int64
	if m > 2 {
		doy = (153*(m-3)+2)/5 + int64(day) - 1
	} else {
		doy = (153*(m+9)+2)/5 + int64(day) - 1
	}
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*daysPerCycle + doe - unixEpochShift
}

// dateFromEpochDaysI64 is the exact inverse of epochDaysFor.
func dateFromEpochDaysI64(days int64) Date {
	z := days + unixEpochShift
	era := floorDiv(z, daysPerCycle)
	doe := z - era*daysPerCycle
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	m := mp + 3
	if mp >= 10 {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return Date{Year: int32(y), Month: uint8(m), Day: uint8(d)}
}

// balanceYearMonth normalizes an arbitrary month into 1..12 with year
// carry.
func balanceYearMonth(year, month int) (int, int) {
	y, m := balanceYearMonth64(int64(year), int64(month))
	return int(y), int(m)
}

func balanceYearMonth64(year, month int64) (int64, int64) {
	y := year + floorDiv(month-1, 12)
	m := modFloor(month-1, 12) + 1
	return y, m
}

func surpasses(d, other Date, sign int) bool {
	return d.Compare(other)*sign == 1
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func modFloor(a, b int64) int64 {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

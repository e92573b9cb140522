package calendar

import (
	"math"

	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/iso"
)

// The lunisolar calendars are computed from mean motions: the mean
// synodic month and mean tropical year anchored at observed instants in
// 2000. True-motion corrections are out of scope; the scheme is
// deterministic and self-consistent, which is what the round-trip
// invariant requires.
const (
	meanSynodicMonth = 29.530588861
	meanTropicalYear = 365.2421897

	// A mean new moon and a winter solstice, in days from the Unix epoch
	// (2000-01-06T18:14Z and 2000-12-21T13:37Z).
	newMoonAnchor        = 10962.7597222
	winterSolsticeAnchor = 11312.5673611

	// Reference meridians as day fractions: UTC+8 for the Chinese
	// calendar, UTC+9 for Dangi.
	chineseZoneOffset = 8.0 / 24.0
	dangiZoneOffset   = 9.0 / 24.0

	// Day count from the Unix epoch back to the first day of elapsed year
	// 1 (-2636-02-15 Gregorian).
	lunisolarEpochDays = -1_682_262
)

// lunisolarOps implements the Chinese and Dangi calendars on mean-motion
// arithmetic. The month containing the winter solstice is month 11; a sui
// of thirteen lunations gains a leap month at the first lunation without
// a major solar term.
type lunisolarOps struct {
	zone float64
	id   string
}

func newLunisolarOps(zone float64, id string) *lunisolarOps {
	return &lunisolarOps{zone: zone, id: id}
}

// localDate converts a UTC instant in fractional days to the calendar's
// local civil day number.
func (l *lunisolarOps) localDate(t float64) int64 {
	return int64(math.Floor(t + l.zone))
}

// newMoonOnOrAfter returns the local date of the first mean new moon on
// or after local day d.
func (l *lunisolarOps) newMoonOnOrAfter(d int64) int64 {
	k := math.Ceil((float64(d) - l.zone - newMoonAnchor) / meanSynodicMonth)
	for l.localDate(newMoonAnchor+k*meanSynodicMonth) < d {
		k++
	}
	for l.localDate(newMoonAnchor+(k-1)*meanSynodicMonth) >= d {
		k--
	}
	return l.localDate(newMoonAnchor + k*meanSynodicMonth)
}

// newMoonBefore returns the local date of the last mean new moon strictly
// before local day d.
func (l *lunisolarOps) newMoonBefore(d int64) int64 {
	k := math.Floor((float64(d) - l.zone - newMoonAnchor) / meanSynodicMonth)
	for l.localDate(newMoonAnchor+k*meanSynodicMonth) >= d {
		k--
	}
	for l.localDate(newMoonAnchor+(k+1)*meanSynodicMonth) < d {
		k++
	}
	return l.localDate(newMoonAnchor + k*meanSynodicMonth)
}

// winterSolsticeOnOrBefore returns the local date of the last mean winter
// solstice on or before local day d.
func (l *lunisolarOps) winterSolsticeOnOrBefore(d int64) int64 {
	k := math.Floor((float64(d) - l.zone - winterSolsticeAnchor) / meanTropicalYear)
	for l.localDate(winterSolsticeAnchor+(k+1)*meanTropicalYear) <= d {
		k++
	}
	for l.localDate(winterSolsticeAnchor+k*meanTropicalYear) > d {
		k--
	}
	return l.localDate(winterSolsticeAnchor + k*meanTropicalYear)
}

// hasMajorSolarTerm reports whether a mean major solar term (a multiple
// of 30 degrees of solar longitude) falls within the local days
// [start, end).
func (l *lunisolarOps) hasMajorSolarTerm(start, end int64) bool {
	step := meanTropicalYear / 12
	j := math.Ceil((float64(start) - l.zone - winterSolsticeAnchor) / step)
	for l.localDate(winterSolsticeAnchor+j*step) < start {
		j++
	}
	for l.localDate(winterSolsticeAnchor+(j-1)*step) >= start {
		j--
	}
	return l.localDate(winterSolsticeAnchor+j*step) < end
}

// lunisolarMonth is one month of a computed year.
type lunisolarMonth struct {
	start  int64
	length int
	code   MonthCode
}

// yearInfo lays out the months of an elapsed year.
type yearInfo struct {
	newYear int64
	next    int64
	months  []lunisolarMonth
}

// newYearOnOrBefore returns the Chinese new year on or before local day d.
func (l *lunisolarOps) newYearOnOrBefore(d int64) int64 {
	ny := l.newYearInSui(d)
	if d >= ny {
		return ny
	}
	return l.newYearInSui(d - 180)
}

// newYearInSui returns the new year within the sui containing local day d.
func (l *lunisolarOps) newYearInSui(d int64) int64 {
	s1 := l.winterSolsticeOnOrBefore(d)
	s2 := l.winterSolsticeOnOrBefore(s1 + 370)
	m12 := l.newMoonOnOrAfter(s1 + 1)
	m13 := l.newMoonOnOrAfter(m12 + 1)
	nextM11 := l.newMoonBefore(s2 + 1)

	leapSui := int(math.Round(float64(nextM11-m12)/meanSynodicMonth)) == 12
	if leapSui && (l.noMajorTermAt(m12) || l.noMajorTermAt(m13)) {
		return l.newMoonOnOrAfter(m13 + 1)
	}
	return m13
}

func (l *lunisolarOps) noMajorTermAt(monthStart int64) bool {
	next := l.newMoonOnOrAfter(monthStart + 1)
	return !l.hasMajorSolarTerm(monthStart, next)
}

// year computes the month layout of elapsed year y.
func (l *lunisolarOps) year(y int) yearInfo {
	mid := lunisolarEpochDays + int64(math.Floor((float64(y)-0.5)*meanTropicalYear))
	newYear := l.newYearOnOrBefore(mid)
	nextNewYear := l.newYearOnOrBefore(mid + int64(math.Floor(meanTropicalYear)) + 30)
	if nextNewYear <= newYear {
		nextNewYear = l.newYearOnOrBefore(newYear + 400)
	}

	starts := make([]int64, 0, 14)
	for m := newYear; m < nextNewYear; m = l.newMoonOnOrAfter(m + 1) {
		starts = append(starts, m)
	}

	info := yearInfo{newYear: newYear, next: nextNewYear}
	leapYear := len(starts) == 13
	leapUsed := false
	number := 0
	for i, start := range starts {
		end := nextNewYear
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		code := MonthCode{}
		if leapYear && !leapUsed && i > 0 && !l.hasMajorSolarTerm(start, end) {
			code = MonthCode{Number: number, Leap: true}
			leapUsed = true
		} else if leapYear && !leapUsed && i == len(starts)-1 {
			// Mean motion found no termless month; the final month takes
			// the leap role so the year keeps thirteen codes.
			code = MonthCode{Number: number, Leap: true}
			leapUsed = true
		} else {
			number++
			code = MonthCode{Number: number}
		}
		info.months = append(info.months, lunisolarMonth{
			start:  start,
			length: int(end - start),
			code:   code,
		})
	}
	return info
}

func (l *lunisolarOps) civilFromIso(d iso.Date) civilDate {
	fixed := int64(d.EpochDays())
	y := int(math.Floor(float64(fixed-lunisolarEpochDays)/meanTropicalYear)) + 1
	info := l.year(y)
	for fixed < info.newYear {
		y--
		info = l.year(y)
	}
	for fixed >= info.next {
		y++
		info = l.year(y)
	}
	for i := len(info.months) - 1; i >= 0; i-- {
		if fixed >= info.months[i].start {
			return civilDate{Year: y, Month: i + 1, Day: int(fixed-info.months[i].start) + 1}
		}
	}
	return civilDate{Year: y, Month: 1, Day: 1}
}

func (l *lunisolarOps) isoFromCivil(year, month, day int) iso.Date {
	info := l.year(year)
	if month < 1 {
		month = 1
	}
	if month > len(info.months) {
		month = len(info.months)
	}
	return iso.DateFromEpochDays(int32(info.months[month-1].start + int64(day) - 1))
}

func (l *lunisolarOps) monthsInYear(year int) int { return len(l.year(year).months) }

func (l *lunisolarOps) daysInMonth(year, month int) int {
	info := l.year(year)
	if month < 1 || month > len(info.months) {
		return 29
	}
	return info.months[month-1].length
}

func (l *lunisolarOps) daysInYear(year int) int {
	info := l.year(year)
	return int(info.next - info.newYear)
}

func (l *lunisolarOps) inLeapYear(year int) bool { return len(l.year(year).months) == 13 }

func (l *lunisolarOps) monthCodeToOrdinal(year int, code MonthCode) (int, error) {
	info := l.year(year)
	for i, m := range info.months {
		if m.code == code {
			return i + 1, nil
		}
	}
	return 0, errs.Rangef("month code %s not present in year %d", code, year)
}

func (l *lunisolarOps) ordinalToMonthCode(year, month int) MonthCode {
	info := l.year(year)
	if month < 1 || month > len(info.months) {
		return MonthCode{Number: month}
	}
	return info.months[month-1].code
}

func (l *lunisolarOps) eraOf(civilDate) (string, int) { return "", 0 }

func (l *lunisolarOps) yearFromEra(era string, _ int) (int, error) {
	return 0, errs.Rangef("calendar %s has no eras", l.id)
}

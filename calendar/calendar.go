// Package calendar implements the closed set of calendar systems that
// translate partial field bags into ISO dates and back. Each calendar is a
// tag into a fixed operations table; there is no open polymorphism.
//
// Non-ISO calendars convert through each system's own civil arithmetic.
// The astronomical lunisolar systems (Chinese and Dangi) use mean-motion
// approximations of the new moon and solar terms; see chinese.go.
package calendar

import (
	"strings"

	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/iso"
	"github.com/theory/temporal/options"
)

// Calendar is a tag naming one of the supported calendar systems.
type Calendar uint8

// The supported calendars.
const (
	Iso Calendar = iota
	Gregorian
	Buddhist
	Japanese
	JapaneseExtended
	Roc
	Persian
	Indian
	Hebrew
	Chinese
	Dangi
	Coptic
	Ethiopian
	EthiopianAmeteAlem
	HijriUmmAlQura
	HijriTabularTypeIIFriday
	HijriTabularTypeIIThursday
)

var calendarIDs = map[Calendar]string{
	Iso:                        "iso8601",
	Gregorian:                  "gregory",
	Buddhist:                   "buddhist",
	Japanese:                   "japanese",
	JapaneseExtended:           "japanext",
	Roc:                        "roc",
	Persian:                    "persian",
	Indian:                     "indian",
	Hebrew:                     "hebrew",
	Chinese:                    "chinese",
	Dangi:                      "dangi",
	Coptic:                     "coptic",
	Ethiopian:                  "ethiopic",
	EthiopianAmeteAlem:         "ethioaa",
	HijriUmmAlQura:             "islamic-umalqura",
	HijriTabularTypeIIFriday:   "islamic-civil",
	HijriTabularTypeIIThursday: "islamic-tbla",
}

// Aliases accepted by FromID beyond the canonical identifiers.
var calendarAliases = map[string]Calendar{
	"islamicc":            HijriTabularTypeIIFriday,
	"ethiopic-amete-alem": EthiopianAmeteAlem,
}

// FromID returns the calendar for a BCP-47 calendar identifier,
// case-insensitively.
func FromID(id string) (Calendar, error) {
	lower := strings.ToLower(id)
	for c, name := range calendarIDs {
		if lower == name {
			return c, nil
		}
	}
	if c, ok := calendarAliases[lower]; ok {
		return c, nil
	}
	return Iso, errs.Rangef("unknown calendar: %q", id)
}

// IsKnownID reports whether id names a supported calendar.
func IsKnownID(id string) bool {
	_, err := FromID(id)
	return err == nil
}

// IDs returns the canonical identifiers of every supported calendar.
func IDs() []string {
	ids := make([]string, 0, len(calendarIDs))
	for _, id := range calendarIDs {
		ids = append(ids, id)
	}
	return ids
}

// ID returns the canonical identifier of the calendar.
func (c Calendar) ID() string {
	if id, ok := calendarIDs[c]; ok {
		return id
	}
	return "iso8601"
}

// String returns the canonical identifier of the calendar.
func (c Calendar) String() string { return c.ID() }

// Partial names a date by some subset of its calendar fields. Nil fields
// are absent, never zero.
type Partial struct {
	Era       *string
	EraYear   *int
	Year      *int
	Month     *int
	MonthCode *string
	Day       *int
}

// MonthCode is the calendar-agnostic month token: "M01" through "M13",
// with an "L" suffix naming a leap month.
type MonthCode struct {
	Number int
	Leap   bool
}

// ParseMonthCode validates the syntax of a month code string.
func ParseMonthCode(s string) (MonthCode, error) {
	if len(s) < 3 || len(s) > 4 || s[0] != 'M' {
		return MonthCode{}, errs.Rangef("invalid month code: %q", s)
	}
	if s[1] < '0' || s[1] > '9' || s[2] < '0' || s[2] > '9' {
		return MonthCode{}, errs.Rangef("invalid month code: %q", s)
	}
	mc := MonthCode{Number: int(s[1]-'0')*10 + int(s[2]-'0')}
	if len(s) == 4 {
		if s[3] != 'L' {
			return MonthCode{}, errs.Rangef("invalid month code: %q", s)
		}
		mc.Leap = true
	}
	if mc.Number == 0 && !mc.Leap {
		return MonthCode{}, errs.Rangef("invalid month code: %q", s)
	}
	return mc, nil
}

// String formats the month code token.
func (mc MonthCode) String() string {
	b := [4]byte{'M', byte('0' + mc.Number/10), byte('0' + mc.Number%10), 'L'}
	if mc.Leap {
		return string(b[:])
	}
	return string(b[:3])
}

// ops is the per-calendar operations vtable. Calendars that share
// arithmetic share an implementation parameterized by era rules or epoch.
type ops interface {
	// civilFromIso converts an ISO date to the calendar's civil fields.
	civilFromIso(d iso.Date) civilDate
	// isoFromCivil converts civil fields to an ISO date. The month is an
	// ordinal, already resolved from codes and validated or constrained.
	isoFromCivil(year, month, day int) iso.Date
	// monthsInYear returns the number of month ordinals in the civil year.
	monthsInYear(year int) int
	// daysInMonth returns the length of the civil month ordinal.
	daysInMonth(year, month int) int
	// daysInYear returns the length of the civil year.
	daysInYear(year int) int
	// inLeapYear reports whether the civil year is a leap year.
	inLeapYear(year int) bool
	// monthCodeToOrdinal resolves a month code in the civil year, failing
	// when the year does not contain the coded month.
	monthCodeToOrdinal(year int, code MonthCode) (int, error)
	// ordinalToMonthCode names the civil month ordinal.
	ordinalToMonthCode(year, month int) MonthCode
	// eraOf splits a civil year into era and era year.
	eraOf(d civilDate) (string, int)
	// yearFromEra recovers the civil year from an era and era year.
	yearFromEra(era string, eraYear int) (int, error)
}

// civilDate is a date in a calendar's own field space. Month is the
// ordinal position within the year, 1-based, counting leap months.
type civilDate struct {
	Year  int
	Month int
	Day   int
}

// opsTable indexes the vtable by tag.
var opsTable = map[Calendar]ops{
	Iso:                        &gregorianOps{era: eraRuleIso},
	Gregorian:                  &gregorianOps{era: eraRuleGregory},
	Buddhist:                   &gregorianOps{era: eraRuleBuddhist},
	Japanese:                   &gregorianOps{era: eraRuleJapanese},
	JapaneseExtended:           &gregorianOps{era: eraRuleJapanese},
	Roc:                        &gregorianOps{era: eraRuleRoc},
	Persian:                    &persianOps{},
	Indian:                     &indianOps{},
	Hebrew:                     &hebrewOps{},
	Chinese:                    newLunisolarOps(chineseZoneOffset, "chinese"),
	Dangi:                      newLunisolarOps(dangiZoneOffset, "dangi"),
	Coptic:                     &copticOps{epoch: copticEpochDays, eraPositive: "am", eraNegative: "bd"},
	Ethiopian:                  &copticOps{epoch: ethiopicEpochDays, eraPositive: "am", eraNegative: "aa", amToAa: true},
	EthiopianAmeteAlem:         &copticOps{epoch: ethiopicEpochDays, eraPositive: "aa", ameteAlem: true},
	HijriUmmAlQura:             &hijriOps{epoch: hijriFridayEpochDays, id: "islamic-umalqura"},
	HijriTabularTypeIIFriday:   &hijriOps{epoch: hijriFridayEpochDays, id: "islamic-civil"},
	HijriTabularTypeIIThursday: &hijriOps{epoch: hijriThursdayEpochDays, id: "islamic-tbla"},
}

func (c Calendar) ops() ops {
	if o, ok := opsTable[c]; ok {
		return o
	}
	return opsTable[Iso]
}

// Fields is the full set of field query results for a date.
type Fields struct {
	Era          string
	EraYear      int
	HasEra       bool
	Year         int
	Month        int
	MonthCode    MonthCode
	Day          int
	DayOfWeek    int
	DayOfYear    int
	WeekOfYear   int
	YearOfWeek   int
	HasWeek      bool
	DaysInMonth  int
	DaysInYear   int
	MonthsInYear int
	InLeapYear   bool
}

// FieldsOf answers every field query for d at once.
func (c Calendar) FieldsOf(d iso.Date) Fields {
	o := c.ops()
	cd := o.civilFromIso(d)
	era, eraYear := o.eraOf(cd)
	f := Fields{
		Era:          era,
		EraYear:      eraYear,
		HasEra:       era != "",
		Year:         cd.Year,
		Month:        cd.Month,
		MonthCode:    o.ordinalToMonthCode(cd.Year, cd.Month),
		Day:          cd.Day,
		DayOfWeek:    d.DayOfWeek(),
		DayOfYear:    c.dayOfYear(cd, o),
		DaysInMonth:  o.daysInMonth(cd.Year, cd.Month),
		DaysInYear:   o.daysInYear(cd.Year),
		MonthsInYear: o.monthsInYear(cd.Year),
		InLeapYear:   o.inLeapYear(cd.Year),
	}
	if c == Iso {
		// Week-of-year semantics are defined for the ISO calendar only.
		week, year := d.WeekOfYear()
		f.WeekOfYear, f.YearOfWeek, f.HasWeek = week, year, true
	}
	return f
}

func (c Calendar) dayOfYear(cd civilDate, o ops) int {
	days := cd.Day
	for m := 1; m < cd.Month; m++ {
		days += o.daysInMonth(cd.Year, m)
	}
	return days
}

// Year returns the calendar year of d.
func (c Calendar) Year(d iso.Date) int { return c.ops().civilFromIso(d).Year }

// Month returns the 1-based month ordinal of d; leap months take the next
// integer after their host month.
func (c Calendar) Month(d iso.Date) int { return c.ops().civilFromIso(d).Month }

// MonthCodeOf returns the month code of d.
func (c Calendar) MonthCodeOf(d iso.Date) MonthCode {
	o := c.ops()
	cd := o.civilFromIso(d)
	return o.ordinalToMonthCode(cd.Year, cd.Month)
}

// Day returns the day of month of d.
func (c Calendar) Day(d iso.Date) int { return c.ops().civilFromIso(d).Day }

// DateFromFields resolves a partial date against the calendar, producing
// the ISO date it names. The partial must carry one of the complete keys:
// (era, eraYear, month|monthCode, day) or (year, month|monthCode, day).
func (c Calendar) DateFromFields(p Partial, overflow options.Overflow) (iso.Date, error) {
	o := c.ops()
	year, err := resolveYear(o, p)
	if err != nil {
		return iso.Date{}, err
	}
	if p.Day == nil {
		return iso.Date{}, errs.Type("missing day field")
	}
	month, err := resolveMonth(o, year, p, overflow)
	if err != nil {
		return iso.Date{}, err
	}
	day, err := resolveDay(o, year, month, *p.Day, overflow)
	if err != nil {
		return iso.Date{}, err
	}
	d := o.isoFromCivil(year, month, day)
	if err := iso.CheckDateRange(d); err != nil {
		return iso.Date{}, err
	}
	return d, nil
}

// YearMonthFromFields resolves a partial naming a year and month to the
// ISO date of that month's first day.
func (c Calendar) YearMonthFromFields(p Partial, overflow options.Overflow) (iso.Date, error) {
	o := c.ops()
	year, err := resolveYear(o, p)
	if err != nil {
		return iso.Date{}, err
	}
	month, err := resolveMonth(o, year, p, overflow)
	if err != nil {
		return iso.Date{}, err
	}
	d := o.isoFromCivil(year, month, 1)
	if err := iso.CheckDateRange(d); err != nil {
		return iso.Date{}, err
	}
	return d, nil
}

// MonthDayFromFields resolves a partial naming a month code and day. When
// no year is given the most recent year no later than the ISO reference
// year 1972 containing the coded month supplies the result.
func (c Calendar) MonthDayFromFields(p Partial, overflow options.Overflow) (iso.Date, error) {
	o := c.ops()
	if p.Day == nil {
		return iso.Date{}, errs.Type("missing day field")
	}
	if p.MonthCode == nil && (p.Year != nil || (p.Era != nil && p.EraYear != nil)) {
		// A fully specified date also names a month-day.
		return c.DateFromFields(p, overflow)
	}
	if p.MonthCode == nil {
		return iso.Date{}, errs.Type("missing monthCode field")
	}
	code, err := ParseMonthCode(*p.MonthCode)
	if err != nil {
		return iso.Date{}, err
	}

	// Walk back from the reference year to the closest year containing
	// both the coded month and the requested day.
	refYear := o.civilFromIso(iso.Date{Year: 1972, Month: 12, Day: 31}).Year
	for y := refYear; y > refYear-maxMonthDaySearch; y-- {
		month, err := o.monthCodeToOrdinal(y, code)
		if err != nil {
			continue
		}
		day, err := resolveDay(o, y, month, *p.Day, overflow)
		if err != nil {
			continue
		}
		d := o.isoFromCivil(y, month, day)
		if iso.CheckDateRange(d) == nil {
			return d, nil
		}
	}
	return iso.Date{}, errs.Genericf("no year contains month %s day %d", code, *p.Day)
}

// maxMonthDaySearch bounds the reference-year walk; leap months recur
// within every 19-year metonic cycle, so 100 years is ample.
const maxMonthDaySearch = 100

// DateAdd adds years, then months, then weeks and days, in the calendar's
// own field space, constraining intermediate dates per overflow.
func (c Calendar) DateAdd(d iso.Date, years, months, weeks, days int64, overflow options.Overflow) (iso.Date, error) {
	if c == Iso || c == Gregorian || c == Buddhist || c == Japanese || c == JapaneseExtended || c == Roc {
		// Gregorian-shaped calendars share ISO month arithmetic.
		return d.AddDate(years, months, weeks, days, overflow)
	}
	o := c.ops()
	cd := o.civilFromIso(d)

	if years != 0 {
		shifted := civilDate{Year: cd.Year + int(years), Month: cd.Month, Day: cd.Day}
		if overflow == options.OverflowReject && !civilValid(o, shifted) {
			return iso.Date{}, errs.Range("date arithmetic produced an invalid date")
		}
		cd = addCivilYears(o, cd, years)
	}
	if months != 0 {
		var err error
		cd, err = addCivilMonths(o, cd, months, overflow)
		if err != nil {
			return iso.Date{}, err
		}
	}
	base := o.isoFromCivil(cd.Year, cd.Month, cd.Day)
	total := int64(base.EpochDays()) + weeks*7 + days
	out := iso.DateFromEpochDays(int32(total))
	if err := iso.CheckDateRange(out); err != nil {
		return iso.Date{}, err
	}
	return out, nil
}

// DateUntil computes the difference from a to b in the calendar's own
// field space, borrowing months using the source calendar's month
// lengths.
func (c Calendar) DateUntil(a, b iso.Date, largest options.Unit) (years, months, weeks, days int64, err error) {
	if c == Iso || c == Gregorian || c == Buddhist || c == Japanese || c == JapaneseExtended || c == Roc {
		y, m, w, d := a.DateUntil(b, largest)
		return y, m, w, d, nil
	}

	o := c.ops()
	sign := -a.Compare(b)
	if sign == 0 {
		return 0, 0, 0, 0, nil
	}

	if largest == options.UnitYear || largest == options.UnitMonth {
		ca := o.civilFromIso(a)
		// Walk years toward the target without surpassing it.
		candidate := int64(o.civilFromIso(b).Year) - int64(ca.Year)
		if candidate != 0 {
			candidate -= int64(sign)
		}
		for !civilSurpasses(o, ca, candidate, 0, b, sign) {
			years = candidate
			candidate += int64(sign)
		}
		// Then months.
		candidateMonths := int64(sign)
		for !civilSurpasses(o, ca, years, candidateMonths, b, sign) {
			months = candidateMonths
			candidateMonths += int64(sign)
		}
		shifted := addCivilYears(o, ca, years)
		shifted, err = addCivilMonths(o, shifted, months, options.OverflowConstrain)
		if err != nil {
			return 0, 0, 0, 0, err
		}
		constrained := o.isoFromCivil(shifted.Year, shifted.Month, shifted.Day)
		days = int64(b.EpochDays()) - int64(constrained.EpochDays())
	} else {
		days = int64(b.EpochDays()) - int64(a.EpochDays())
	}

	if largest == options.UnitWeek {
		weeks = days / 7
		days %= 7
	}
	return years, months, weeks, days, nil
}

// civilSurpasses reports whether a, advanced by deltaYears and
// deltaMonths with constrained days, passes b in the direction of sign.
func civilSurpasses(o ops, a civilDate, deltaYears, deltaMonths int64, b iso.Date, sign int) bool {
	shifted := addCivilYears(o, a, deltaYears)
	shifted, err := addCivilMonths(o, shifted, deltaMonths, options.OverflowConstrain)
	if err != nil {
		return true
	}
	d := o.isoFromCivil(shifted.Year, shifted.Month, shifted.Day)
	return d.Compare(b)*sign == 1
}

// addCivilYears shifts the year, constraining the month ordinal (a leap
// ordinal may not exist in the target year) and the day.
func addCivilYears(o ops, cd civilDate, years int64) civilDate {
	y := cd.Year + int(years)
	m := cd.Month
	if max := o.monthsInYear(y); m > max {
		m = max
	}
	d := cd.Day
	if max := o.daysInMonth(y, m); d > max {
		d = max
	}
	return civilDate{Year: y, Month: m, Day: d}
}

// addCivilMonths shifts the month ordinal with year carry; month counts
// vary per year in lunisolar calendars, so the carry loops.
func addCivilMonths(o ops, cd civilDate, months int64, overflow options.Overflow) (civilDate, error) {
	y, m := cd.Year, cd.Month+int(months)
	for m > o.monthsInYear(y) {
		m -= o.monthsInYear(y)
		y++
	}
	for m < 1 {
		y--
		m += o.monthsInYear(y)
	}
	d := cd.Day
	if max := o.daysInMonth(y, m); d > max {
		if overflow == options.OverflowReject {
			return civilDate{}, errs.Range("day out of range for month")
		}
		d = max
	}
	return civilDate{Year: y, Month: m, Day: d}, nil
}

func civilValid(o ops, cd civilDate) bool {
	return cd.Month >= 1 && cd.Month <= o.monthsInYear(cd.Year) &&
		cd.Day >= 1 && cd.Day <= o.daysInMonth(cd.Year, cd.Month)
}

// resolveYear produces the civil year from year or era fields, checking
// consistency when both appear.
func resolveYear(o ops, p Partial) (int, error) {
	if p.Era != nil || p.EraYear != nil {
		if p.Era == nil || p.EraYear == nil {
			return 0, errs.Type("era and eraYear must be provided together")
		}
		y, err := o.yearFromEra(strings.ToLower(*p.Era), *p.EraYear)
		if err != nil {
			return 0, err
		}
		if p.Year != nil && *p.Year != y {
			return 0, errs.Genericf("era year %d conflicts with year %d", y, *p.Year)
		}
		return y, nil
	}
	if p.Year == nil {
		return 0, errs.Type("missing year field")
	}
	return *p.Year, nil
}

// resolveMonth produces the month ordinal from month or monthCode,
// checking consistency when both appear.
func resolveMonth(o ops, year int, p Partial, overflow options.Overflow) (int, error) {
	if p.MonthCode != nil {
		code, err := ParseMonthCode(*p.MonthCode)
		if err != nil {
			return 0, err
		}
		month, err := o.monthCodeToOrdinal(year, code)
		if err != nil {
			return 0, err
		}
		if p.Month != nil && *p.Month != month {
			return 0, errs.Genericf("monthCode %s conflicts with month %d", code, *p.Month)
		}
		return month, nil
	}
	if p.Month == nil {
		return 0, errs.Type("missing month field")
	}
	m := *p.Month
	if m < 1 {
		return 0, errs.Rangef("month %d out of range", m)
	}
	if max := o.monthsInYear(year); m > max {
		if overflow == options.OverflowReject {
			return 0, errs.Rangef("month %d out of range", m)
		}
		m = max
	}
	return m, nil
}

func resolveDay(o ops, year, month, day int, overflow options.Overflow) (int, error) {
	if day < 1 {
		return 0, errs.Rangef("day %d out of range", day)
	}
	if max := o.daysInMonth(year, month); day > max {
		if overflow == options.OverflowReject {
			return 0, errs.Rangef("day %d out of range", day)
		}
		day = max
	}
	return day, nil
}

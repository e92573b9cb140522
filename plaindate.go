package temporal

import (
	"github.com/theory/temporal/calendar"
	"github.com/theory/temporal/duration"
	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/iso"
	"github.com/theory/temporal/ixdtf"
	"github.com/theory/temporal/options"
	"github.com/theory/temporal/tz"
)

// PlainDate is a calendar date with no time or time zone.
type PlainDate struct {
	date iso.Date
	cal  calendar.Calendar
}

// NewPlainDate builds a date from ISO components in the given calendar.
func NewPlainDate(year, month, day int, cal calendar.Calendar) (PlainDate, error) {
	d, err := iso.NewDate(year, month, day)
	if err != nil {
		return PlainDate{}, err
	}
	return PlainDate{date: d, cal: cal}, nil
}

// PlainDateFromFields resolves calendar fields to a date.
func PlainDateFromFields(cal calendar.Calendar, fields calendar.Partial, overflow options.Overflow) (PlainDate, error) {
	d, err := cal.DateFromFields(fields, overflow)
	if err != nil {
		return PlainDate{}, err
	}
	return PlainDate{date: d, cal: cal}, nil
}

// ParsePlainDate parses an RFC 9557 date string.
func ParsePlainDate(s string) (PlainDate, error) {
	res, err := ixdtf.ParseDateTime(s)
	if err != nil {
		return PlainDate{}, err
	}
	cal, err := calendarFromAnnotation(res)
	if err != nil {
		return PlainDate{}, err
	}
	d, err := iso.NewDate(res.Date.Year, res.Date.Month, res.Date.Day)
	if err != nil {
		return PlainDate{}, err
	}
	return PlainDate{date: d, cal: cal}, nil
}

// Calendar returns the date's calendar.
func (d PlainDate) Calendar() calendar.Calendar { return d.cal }

// IsoDate returns the underlying ISO date.
func (d PlainDate) IsoDate() iso.Date { return d.date }

// Fields returns every calendar field query for the date.
func (d PlainDate) Fields() calendar.Fields { return d.cal.FieldsOf(d.date) }

// Year returns the calendar year.
func (d PlainDate) Year() int { return d.cal.Year(d.date) }

// Month returns the one-based month ordinal.
func (d PlainDate) Month() int { return d.cal.Month(d.date) }

// MonthCode returns the month code.
func (d PlainDate) MonthCode() string { return d.cal.MonthCodeOf(d.date).String() }

// Day returns the day of month.
func (d PlainDate) Day() int { return d.cal.Day(d.date) }

// Era returns the era name, empty for calendars without eras.
func (d PlainDate) Era() string { return d.Fields().Era }

// EraYear returns the year within the era.
func (d PlainDate) EraYear() int { return d.Fields().EraYear }

// DayOfWeek returns the ISO day of week, Monday = 1.
func (d PlainDate) DayOfWeek() int { return d.date.DayOfWeek() }

// DayOfYear returns the ordinal day in the calendar year.
func (d PlainDate) DayOfYear() int { return d.Fields().DayOfYear }

// WeekOfYear returns the ISO week number; ok is false for calendars
// where weeks are not defined.
func (d PlainDate) WeekOfYear() (week int, ok bool) {
	f := d.Fields()
	return f.WeekOfYear, f.HasWeek
}

// YearOfWeek returns the ISO week-based year; ok as for WeekOfYear.
func (d PlainDate) YearOfWeek() (year int, ok bool) {
	f := d.Fields()
	return f.YearOfWeek, f.HasWeek
}

// DaysInMonth returns the length of the date's month.
func (d PlainDate) DaysInMonth() int { return d.Fields().DaysInMonth }

// DaysInYear returns the length of the date's year.
func (d PlainDate) DaysInYear() int { return d.Fields().DaysInYear }

// MonthsInYear returns the number of months in the date's year.
func (d PlainDate) MonthsInYear() int { return d.Fields().MonthsInYear }

// InLeapYear reports whether the date's year is a leap year.
func (d PlainDate) InLeapYear() bool { return d.Fields().InLeapYear }

// WithCalendar reinterprets the same ISO date in another calendar.
func (d PlainDate) WithCalendar(cal calendar.Calendar) PlainDate {
	return PlainDate{date: d.date, cal: cal}
}

// With derives a date with the partial's calendar fields replaced.
// Absent fields keep their current values; era fields replace year
// fields only when both are given together.
func (d PlainDate) With(partial calendar.Partial, overflow options.Overflow) (PlainDate, error) {
	f := d.Fields()
	if partial.Year == nil && (partial.Era == nil || partial.EraYear == nil) {
		partial.Year = &f.Year
	}
	if partial.Month == nil && partial.MonthCode == nil {
		code := f.MonthCode.String()
		partial.MonthCode = &code
	}
	if partial.Day == nil {
		partial.Day = &f.Day
	}
	return PlainDateFromFields(d.cal, partial, overflow)
}

// Add adds a duration; its time portion must balance to whole days of
// zero.
func (d PlainDate) Add(dur Duration, overflow options.Overflow) (PlainDate, error) {
	dd, err := dur.inner.DateDuration()
	if err != nil {
		return PlainDate{}, err
	}
	td, err := dur.inner.TimeDuration()
	if err != nil {
		return PlainDate{}, err
	}
	extraDays, rem := td.DaysAndRemainder()
	if !rem.IsZero() {
		return PlainDate{}, errs.Range("cannot add fractional days to a date")
	}
	nd, err := d.cal.DateAdd(d.date, dd.Years, dd.Months, dd.Weeks, dd.Days+extraDays, overflow)
	if err != nil {
		return PlainDate{}, err
	}
	return PlainDate{date: nd, cal: d.cal}, nil
}

// Subtract is Add of the negation.
func (d PlainDate) Subtract(dur Duration, overflow options.Overflow) (PlainDate, error) {
	return d.Add(dur.Negated(), overflow)
}

// Until returns the duration from d to other under the calendar, rounded
// per opts. The largest unit defaults to days.
func (d PlainDate) Until(other PlainDate, opts options.RoundingOptions) (Duration, error) {
	if d.cal != other.cal {
		return Duration{}, errs.Generic("cannot difference dates in different calendars")
	}
	if opts.LargestUnit == options.UnitAuto {
		opts.LargestUnit = options.UnitDay.Max(opts.SmallestUnit)
	}
	if opts.LargestUnit < options.UnitDay ||
		(opts.SmallestUnit != options.UnitAuto && opts.SmallestUnit < options.UnitDay) {
		return Duration{}, errs.Range("date difference units must be days or larger")
	}
	if opts.SmallestUnit == options.UnitAuto {
		opts.SmallestUnit = options.UnitDay
	}

	y, m, w, days, err := d.cal.DateUntil(d.date, other.date, opts.LargestUnit)
	if err != nil {
		return Duration{}, err
	}
	dur, err := duration.FromDateAndTime(
		duration.DateDuration{Years: y, Months: m, Weeks: w, Days: days},
		duration.TimeDuration{}, options.UnitHour,
	)
	if err != nil {
		return Duration{}, err
	}
	if opts.SmallestUnit == options.UnitDay && opts.Increment == options.IncrementOne {
		return Duration{inner: dur}, nil
	}
	rounded, err := duration.Round(dur, opts, duration.RelativeTo{
		Plain: &duration.PlainRelative{Date: d.date, Calendar: d.cal},
	})
	if err != nil {
		return Duration{}, err
	}
	return Duration{inner: rounded}, nil
}

// Since returns the duration from other to d, rounded per opts.
func (d PlainDate) Since(other PlainDate, opts options.RoundingOptions) (Duration, error) {
	opts.Mode = opts.Mode.Negated()
	dur, err := d.Until(other, opts)
	if err != nil {
		return Duration{}, err
	}
	return dur.Negated(), nil
}

// Equals reports whether both dates name the same ISO date in the same
// calendar.
func (d PlainDate) Equals(other PlainDate) bool {
	return d.date == other.date && d.cal == other.cal
}

// Compare orders the underlying ISO dates, ignoring calendars.
func (d PlainDate) Compare(other PlainDate) int { return d.date.Compare(other.date) }

// ToPlainDateTime combines the date with a time.
func (d PlainDate) ToPlainDateTime(t PlainTime) (PlainDateTime, error) {
	dt, err := iso.NewDateTime(d.date, t.time)
	if err != nil {
		return PlainDateTime{}, err
	}
	return PlainDateTime{dt: dt, cal: d.cal}, nil
}

// ToZonedDateTime resolves the date at midnight in the zone.
func (d PlainDate) ToZonedDateTime(zone tz.Zone, provider tz.Provider) (ZonedDateTime, error) {
	ns, err := zone.StartOfDay(d.date, provider)
	if err != nil {
		return ZonedDateTime{}, err
	}
	return ZonedDateTime{ns: ns, zone: zone, cal: d.cal}, nil
}

// String formats the date, annotating non-ISO calendars.
func (d PlainDate) String() string { return d.Format(ToStringOptions{}) }

// Format formats the date under the given options.
func (d PlainDate) Format(opts ToStringOptions) string {
	out := ixdtf.FormatDate(int(d.date.Year), int(d.date.Month), int(d.date.Day))
	return out + ixdtf.FormatCalendarAnnotation(d.cal.ID(), opts.Calendar)
}

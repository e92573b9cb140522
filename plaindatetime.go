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

// PlainDateTime is a calendar date and wall-clock time with no time
// zone.
type PlainDateTime struct {
	dt  iso.DateTime
	cal calendar.Calendar
}

// NewPlainDateTime builds a date-time from ISO components.
func NewPlainDateTime(year, month, day, hour, minute, second, ms, us, ns int, cal calendar.Calendar) (PlainDateTime, error) {
	d, err := iso.NewDate(year, month, day)
	if err != nil {
		return PlainDateTime{}, err
	}
	t, err := iso.NewTime(hour, minute, second, ms, us, ns)
	if err != nil {
		return PlainDateTime{}, err
	}
	dt, err := iso.NewDateTime(d, t)
	if err != nil {
		return PlainDateTime{}, err
	}
	return PlainDateTime{dt: dt, cal: cal}, nil
}

// ParsePlainDateTime parses an RFC 9557 date-time string; a missing
// time means midnight.
func ParsePlainDateTime(s string) (PlainDateTime, error) {
	res, err := ixdtf.ParseDateTime(s)
	if err != nil {
		return PlainDateTime{}, err
	}
	cal, err := calendarFromAnnotation(res)
	if err != nil {
		return PlainDateTime{}, err
	}
	return dateTimeFromRecords(res, cal)
}

func dateTimeFromRecords(res ixdtf.Result, cal calendar.Calendar) (PlainDateTime, error) {
	d, err := iso.NewDate(res.Date.Year, res.Date.Month, res.Date.Day)
	if err != nil {
		return PlainDateTime{}, err
	}
	var t iso.Time
	if res.Time != nil {
		t, err = iso.NewTime(
			res.Time.Hour, res.Time.Minute, res.Time.Second,
			res.Time.Millisecond, res.Time.Microsecond, res.Time.Nanosecond,
		)
		if err != nil {
			return PlainDateTime{}, err
		}
	}
	dt, err := iso.NewDateTime(d, t)
	if err != nil {
		return PlainDateTime{}, err
	}
	return PlainDateTime{dt: dt, cal: cal}, nil
}

// Calendar returns the calendar.
func (d PlainDateTime) Calendar() calendar.Calendar { return d.cal }

// ToPlainDate returns the date portion.
func (d PlainDateTime) ToPlainDate() PlainDate { return PlainDate{date: d.dt.Date, cal: d.cal} }

// ToPlainTime returns the time portion.
func (d PlainDateTime) ToPlainTime() PlainTime { return PlainTime{time: d.dt.Time} }

// Year returns the calendar year.
func (d PlainDateTime) Year() int { return d.cal.Year(d.dt.Date) }

// Month returns the one-based month ordinal.
func (d PlainDateTime) Month() int { return d.cal.Month(d.dt.Date) }

// MonthCode returns the month code.
func (d PlainDateTime) MonthCode() string { return d.cal.MonthCodeOf(d.dt.Date).String() }

// Day returns the day of month.
func (d PlainDateTime) Day() int { return d.cal.Day(d.dt.Date) }

// Hour returns the hour.
func (d PlainDateTime) Hour() int { return int(d.dt.Time.Hour) }

// Minute returns the minute.
func (d PlainDateTime) Minute() int { return int(d.dt.Time.Minute) }

// Second returns the second.
func (d PlainDateTime) Second() int { return int(d.dt.Time.Second) }

// Millisecond returns the millisecond.
func (d PlainDateTime) Millisecond() int { return int(d.dt.Time.Millisecond) }

// Microsecond returns the microsecond.
func (d PlainDateTime) Microsecond() int { return int(d.dt.Time.Microsecond) }

// Nanosecond returns the nanosecond.
func (d PlainDateTime) Nanosecond() int { return int(d.dt.Time.Nanosecond) }

// Era returns the era name.
func (d PlainDateTime) Era() string { return d.cal.FieldsOf(d.dt.Date).Era }

// EraYear returns the year within the era.
func (d PlainDateTime) EraYear() int { return d.cal.FieldsOf(d.dt.Date).EraYear }

// WithCalendar reinterprets the value in another calendar.
func (d PlainDateTime) WithCalendar(cal calendar.Calendar) PlainDateTime {
	return PlainDateTime{dt: d.dt, cal: cal}
}

// WithPlainTime replaces the time portion.
func (d PlainDateTime) WithPlainTime(t PlainTime) (PlainDateTime, error) {
	dt, err := iso.NewDateTime(d.dt.Date, t.time)
	if err != nil {
		return PlainDateTime{}, err
	}
	return PlainDateTime{dt: dt, cal: d.cal}, nil
}

// PartialDateTime is the field bag for [PlainDateTime.With].
type PartialDateTime struct {
	Date calendar.Partial
	Time PartialTime
}

// With derives a value with the partial's fields replaced.
func (d PlainDateTime) With(partial PartialDateTime, overflow options.Overflow) (PlainDateTime, error) {
	nd, err := d.ToPlainDate().With(partial.Date, overflow)
	if err != nil {
		return PlainDateTime{}, err
	}
	nt, err := d.ToPlainTime().With(partial.Time, overflow)
	if err != nil {
		return PlainDateTime{}, err
	}
	return nd.ToPlainDateTime(nt)
}

// Add adds a duration: the time portion first, carrying days into the
// calendar date addition.
func (d PlainDateTime) Add(dur Duration, overflow options.Overflow) (PlainDateTime, error) {
	dd, err := dur.inner.DateDuration()
	if err != nil {
		return PlainDateTime{}, err
	}
	td, err := dur.inner.TimeDuration()
	if err != nil {
		return PlainDateTime{}, err
	}
	carry, t := d.dt.Time.Add(td.Ns())
	nd, err := d.cal.DateAdd(d.dt.Date, dd.Years, dd.Months, dd.Weeks, dd.Days+carry, overflow)
	if err != nil {
		return PlainDateTime{}, err
	}
	dt, err := iso.NewDateTime(nd, t)
	if err != nil {
		return PlainDateTime{}, err
	}
	return PlainDateTime{dt: dt, cal: d.cal}, nil
}

// Subtract is Add of the negation.
func (d PlainDateTime) Subtract(dur Duration, overflow options.Overflow) (PlainDateTime, error) {
	return d.Add(dur.Negated(), overflow)
}

// Until returns the duration from d to other, rounded per opts. The
// largest unit defaults to days.
func (d PlainDateTime) Until(other PlainDateTime, opts options.RoundingOptions) (Duration, error) {
	if d.cal != other.cal {
		return Duration{}, errs.Generic("cannot difference values in different calendars")
	}
	if opts.LargestUnit == options.UnitAuto {
		opts.LargestUnit = options.UnitDay.Max(opts.SmallestUnit)
	}
	if opts.SmallestUnit == options.UnitAuto {
		opts.SmallestUnit = options.UnitNanosecond
	}

	diff, err := iso.DiffDateTime(d.dt, other.dt, opts.LargestUnit, d.cal.DateUntil)
	if err != nil {
		return Duration{}, err
	}
	td, err := duration.NewTimeDuration(diff.TimeNs)
	if err != nil {
		return Duration{}, err
	}
	dur, err := duration.FromDateAndTime(duration.DateDuration{
		Years: diff.Years, Months: diff.Months, Weeks: diff.Weeks, Days: diff.Days,
	}, td, options.UnitHour)
	if err != nil {
		return Duration{}, err
	}
	if opts.SmallestUnit == options.UnitNanosecond && opts.Increment == options.IncrementOne {
		return Duration{inner: dur}, nil
	}
	rounded, err := duration.Round(dur, opts, duration.RelativeTo{
		Plain: &duration.PlainRelative{Date: d.dt.Date, Time: d.dt.Time, Calendar: d.cal},
	})
	if err != nil {
		return Duration{}, err
	}
	return Duration{inner: rounded}, nil
}

// Since returns the duration from other to d, rounded per opts.
func (d PlainDateTime) Since(other PlainDateTime, opts options.RoundingOptions) (Duration, error) {
	opts.Mode = opts.Mode.Negated()
	dur, err := d.Until(other, opts)
	if err != nil {
		return Duration{}, err
	}
	return dur.Negated(), nil
}

// Round rounds the time portion at the given unit, balancing into the
// date.
func (d PlainDateTime) Round(opts options.RoundingOptions) (PlainDateTime, error) {
	if opts.SmallestUnit == options.UnitAuto {
		return PlainDateTime{}, errs.Range("round requires a smallest unit")
	}
	if max, bounded := opts.SmallestUnit.MaxIncrement(); bounded {
		if err := opts.Increment.Validate(max, false); err != nil {
			return PlainDateTime{}, err
		}
	} else if opts.SmallestUnit != options.UnitDay {
		return PlainDateTime{}, errs.Rangef("invalid unit for date-time rounding: %s", opts.SmallestUnit)
	}
	dt, err := d.dt.Round(opts.SmallestUnit, opts.Increment, opts.Mode)
	if err != nil {
		return PlainDateTime{}, err
	}
	return PlainDateTime{dt: dt, cal: d.cal}, nil
}

// Equals reports whether both values name the same date-time in the
// same calendar.
func (d PlainDateTime) Equals(other PlainDateTime) bool {
	return d.dt == other.dt && d.cal == other.cal
}

// Compare orders the underlying ISO date-times.
func (d PlainDateTime) Compare(other PlainDateTime) int { return d.dt.Compare(other.dt) }

// ToZonedDateTime resolves the wall-clock value in a zone.
func (d PlainDateTime) ToZonedDateTime(zone tz.Zone, disambiguation options.Disambiguation, provider tz.Provider) (ZonedDateTime, error) {
	ns, err := zone.EpochNanosecondsFor(d.dt, disambiguation, provider)
	if err != nil {
		return ZonedDateTime{}, err
	}
	return ZonedDateTime{ns: ns, zone: zone, cal: d.cal}, nil
}

// String formats the value at full precision.
func (d PlainDateTime) String() string { return d.Format(ToStringOptions{}) }

// Format formats the value under the given options.
func (d PlainDateTime) Format(opts ToStringOptions) string {
	dt := d.dt
	if inc := precisionIncrement(opts.Precision); inc > 1 {
		if rounded, err := d.dt.Round(options.UnitNanosecond, options.Increment(inc), opts.RoundingMode); err == nil {
			dt = rounded
		}
	}
	out := ixdtf.FormatDate(int(dt.Date.Year), int(dt.Date.Month), int(dt.Date.Day)) +
		"T" + ixdtf.FormatTime(timeRecord(dt.Time), opts.Precision)
	return out + ixdtf.FormatCalendarAnnotation(d.cal.ID(), opts.Calendar)
}

package temporal

import (
	"github.com/theory/temporal/duration"
	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/iso"
	"github.com/theory/temporal/ixdtf"
	"github.com/theory/temporal/options"
)

// PlainTime is a wall-clock time with no date or time zone.
type PlainTime struct {
	time iso.Time
}

// NewPlainTime validates and returns a PlainTime.
func NewPlainTime(hour, minute, second, millisecond, microsecond, nanosecond int) (PlainTime, error) {
	t, err := iso.NewTime(hour, minute, second, millisecond, microsecond, nanosecond)
	if err != nil {
		return PlainTime{}, err
	}
	return PlainTime{time: t}, nil
}

// PartialTime is a field bag for [PlainTime.With].
type PartialTime struct {
	Hour        *int
	Minute      *int
	Second      *int
	Millisecond *int
	Microsecond *int
	Nanosecond  *int
}

// ParsePlainTime parses an RFC 9557 time string.
func ParsePlainTime(s string) (PlainTime, error) {
	res, err := ixdtf.ParseTime(s)
	if err != nil {
		return PlainTime{}, err
	}
	if _, err := calendarFromAnnotation(res); err != nil {
		return PlainTime{}, err
	}
	return PlainTime{time: iso.Time{
		Hour:        uint8(res.Time.Hour),
		Minute:      uint8(res.Time.Minute),
		Second:      uint8(res.Time.Second),
		Millisecond: uint16(res.Time.Millisecond),
		Microsecond: uint16(res.Time.Microsecond),
		Nanosecond:  uint16(res.Time.Nanosecond),
	}}, nil
}

// Component accessors.

// Hour returns the hour.
func (t PlainTime) Hour() int { return int(t.time.Hour) }

// Minute returns the minute.
func (t PlainTime) Minute() int { return int(t.time.Minute) }

// Second returns the second.
func (t PlainTime) Second() int { return int(t.time.Second) }

// Millisecond returns the millisecond.
func (t PlainTime) Millisecond() int { return int(t.time.Millisecond) }

// Microsecond returns the microsecond.
func (t PlainTime) Microsecond() int { return int(t.time.Microsecond) }

// Nanosecond returns the nanosecond.
func (t PlainTime) Nanosecond() int { return int(t.time.Nanosecond) }

// With derives a time with the partial's fields replaced.
func (t PlainTime) With(partial PartialTime, overflow options.Overflow) (PlainTime, error) {
	get := func(p *int, current int) int {
		if p == nil {
			return current
		}
		return *p
	}
	nt, err := iso.RegulateTime(
		get(partial.Hour, t.Hour()),
		get(partial.Minute, t.Minute()),
		get(partial.Second, t.Second()),
		get(partial.Millisecond, t.Millisecond()),
		get(partial.Microsecond, t.Microsecond()),
		get(partial.Nanosecond, t.Nanosecond()),
		overflow,
	)
	if err != nil {
		return PlainTime{}, err
	}
	return PlainTime{time: nt}, nil
}

// Add adds a duration's time portion; the result wraps modulo 24 hours.
// Date fields in the duration are rejected.
func (t PlainTime) Add(d Duration) (PlainTime, error) {
	if d.inner.HasCalendarUnits() || d.inner.Days() != 0 {
		return PlainTime{}, errs.Range("cannot add date units to a time")
	}
	td, err := d.inner.TimeDuration()
	if err != nil {
		return PlainTime{}, err
	}
	_, nt := t.time.Add(td.Ns())
	return PlainTime{time: nt}, nil
}

// Subtract is Add of the negation.
func (t PlainTime) Subtract(d Duration) (PlainTime, error) {
	return t.Add(d.Negated())
}

// Until returns the duration from t to other, rounded per opts. The
// largest unit defaults to hours.
func (t PlainTime) Until(other PlainTime, opts options.RoundingOptions) (Duration, error) {
	return timeUntil(t.time, other.time, opts)
}

// Since returns the duration from other to t, rounded per opts.
func (t PlainTime) Since(other PlainTime, opts options.RoundingOptions) (Duration, error) {
	opts.Mode = opts.Mode.Negated()
	d, err := timeUntil(t.time, other.time, opts)
	if err != nil {
		return Duration{}, err
	}
	return d.Negated(), nil
}

func timeUntil(a, b iso.Time, opts options.RoundingOptions) (Duration, error) {
	if opts.LargestUnit == options.UnitAuto {
		opts.LargestUnit = options.UnitHour
	}
	if !opts.LargestUnit.IsTimeUnit() || (opts.SmallestUnit != options.UnitAuto && !opts.SmallestUnit.IsTimeUnit()) {
		return Duration{}, errs.Range("time difference units must be hours or smaller")
	}
	diff := duration.TimeDurationFromNs(b.NanosecondsInDay() - a.NanosecondsInDay())
	d, err := duration.FromDateAndTime(duration.DateDuration{}, diff, options.UnitHour)
	if err != nil {
		return Duration{}, err
	}
	out, err := duration.Round(d, opts, duration.RelativeTo{})
	if err != nil {
		return Duration{}, err
	}
	return Duration{inner: out}, nil
}

// Round rounds the time at the given unit; the smallest unit is
// required, and the result wraps modulo 24 hours.
func (t PlainTime) Round(opts options.RoundingOptions) (PlainTime, error) {
	if opts.SmallestUnit == options.UnitAuto {
		return PlainTime{}, errs.Range("round requires a smallest unit")
	}
	max, bounded := opts.SmallestUnit.MaxIncrement()
	if !bounded {
		return PlainTime{}, errs.Rangef("invalid unit for time rounding: %s", opts.SmallestUnit)
	}
	if err := opts.Increment.Validate(max, false); err != nil {
		return PlainTime{}, err
	}
	_, nt, err := t.time.Round(opts.SmallestUnit, opts.Increment, opts.Mode)
	if err != nil {
		return PlainTime{}, err
	}
	return PlainTime{time: nt}, nil
}

// Equals reports field equality.
func (t PlainTime) Equals(other PlainTime) bool { return t.time == other.time }

// Compare orders t against other.
func (t PlainTime) Compare(other PlainTime) int { return t.time.Compare(other.time) }

// String formats the time at full precision.
func (t PlainTime) String() string {
	return t.Format(ToStringOptions{})
}

// Format formats the time under the given options.
func (t PlainTime) Format(opts ToStringOptions) string {
	rounded := t.time
	if inc := precisionIncrement(opts.Precision); inc > 1 {
		_, rt, err := t.time.Round(options.UnitNanosecond, options.Increment(inc), opts.RoundingMode)
		if err == nil {
			rounded = rt
		}
	}
	return ixdtf.FormatTime(timeRecord(rounded), opts.Precision)
}

func timeRecord(t iso.Time) ixdtf.TimeRecord {
	return ixdtf.TimeRecord{
		Hour:        int(t.Hour),
		Minute:      int(t.Minute),
		Second:      int(t.Second),
		Millisecond: int(t.Millisecond),
		Microsecond: int(t.Microsecond),
		Nanosecond:  int(t.Nanosecond),
	}
}

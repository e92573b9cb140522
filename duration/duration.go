// Package duration implements the ten-field signed Duration, its
// canonical two-part form of date fields plus 128-bit time nanoseconds,
// and the unified rounding engine over all temporal units.
package duration

import (
	"math"

	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/options"
)

// Duration is a signed span of time in ten fields. Every field shares one
// sign (or is zero), every field is a finite integer, and the time
// portion sums to at most 2⁵³-1 seconds worth of nanoseconds.
type Duration struct {
	years        Finite
	months       Finite
	weeks        Finite
	days         Finite
	hours        Finite
	minutes      Finite
	seconds      Finite
	milliseconds Finite
	microseconds Finite
	nanoseconds  Finite
}

// Partial is a Duration field bag; nil fields default to zero.
type Partial struct {
	Years        *float64
	Months       *float64
	Weeks        *float64
	Days         *float64
	Hours        *float64
	Minutes      *float64
	Seconds      *float64
	Milliseconds *float64
	Microseconds *float64
	Nanoseconds  *float64
}

// New validates the field invariants and returns the Duration.
func New(years, months, weeks, days, hours, minutes, seconds, ms, us, ns float64) (Duration, error) {
	d := Duration{
		years: Finite(years), months: Finite(months), weeks: Finite(weeks),
		days: Finite(days), hours: Finite(hours), minutes: Finite(minutes),
		seconds: Finite(seconds), milliseconds: Finite(ms),
		microseconds: Finite(us), nanoseconds: Finite(ns),
	}
	if err := d.validate(); err != nil {
		return Duration{}, err
	}
	return d, nil
}

// FromPartial builds a Duration from a partial record; missing fields are
// zero, and mixed signs are rejected.
func FromPartial(p Partial) (Duration, error) {
	get := func(f *float64) float64 {
		if f == nil {
			return 0
		}
		return *f
	}
	return New(
		get(p.Years), get(p.Months), get(p.Weeks), get(p.Days),
		get(p.Hours), get(p.Minutes), get(p.Seconds),
		get(p.Milliseconds), get(p.Microseconds), get(p.Nanoseconds),
	)
}

// FromDateAndTime combines the two-part form back into a Duration with
// time fields balanced to the given largest unit.
func FromDateAndTime(date DateDuration, time TimeDuration, largest options.Unit) (Duration, error) {
	h, mi, s, ms, us, ns := time.Balance(largest)
	return New(
		float64(date.Years), float64(date.Months), float64(date.Weeks), float64(date.Days),
		h, mi, s, ms, us, ns,
	)
}

func (d Duration) validate() error {
	fields := d.fields()
	sign := 0
	for _, f := range fields {
		v := float64(f)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errs.Range("duration fields must be finite")
		}
		if v != math.Trunc(v) {
			return errs.Range("duration fields must be integers")
		}
		s := f.Sign()
		if s == 0 {
			continue
		}
		if sign == 0 {
			sign = s
		} else if s != sign {
			return errs.Range("duration fields must share a sign")
		}
	}
	// Calendar fields are bounded to 32 bits.
	for _, f := range fields[:3] {
		if math.Abs(float64(f)) >= 1<<32 {
			return errs.Range("duration calendar fields exceed 32 bits")
		}
	}
	if math.Abs(float64(d.days)) > maxSafeInteger {
		return errs.Range("duration days out of range")
	}
	// The summed time portion must stay within 2⁵³-1 seconds.
	if _, err := d.TimeDuration(); err != nil {
		return err
	}
	return nil
}

func (d Duration) fields() [10]Finite {
	return [10]Finite{
		d.years, d.months, d.weeks, d.days, d.hours,
		d.minutes, d.seconds, d.milliseconds, d.microseconds, d.nanoseconds,
	}
}

// Field accessors.

// Years returns the years field.
func (d Duration) Years() float64 { return float64(d.years) }

// Months returns the months field.
func (d Duration) Months() float64 { return float64(d.months) }

// Weeks returns the weeks field.
func (d Duration) Weeks() float64 { return float64(d.weeks) }

// Days returns the days field.
func (d Duration) Days() float64 { return float64(d.days) }

// Hours returns the hours field.
func (d Duration) Hours() float64 { return float64(d.hours) }

// Minutes returns the minutes field.
func (d Duration) Minutes() float64 { return float64(d.minutes) }

// Seconds returns the seconds field.
func (d Duration) Seconds() float64 { return float64(d.seconds) }

// Milliseconds returns the milliseconds field.
func (d Duration) Milliseconds() float64 { return float64(d.milliseconds) }

// Microseconds returns the microseconds field.
func (d Duration) Microseconds() float64 { return float64(d.microseconds) }

// Nanoseconds returns the nanoseconds field.
func (d Duration) Nanoseconds() float64 { return float64(d.nanoseconds) }

// Sign returns the shared sign of the duration.
func (d Duration) Sign() options.Sign {
	for _, f := range d.fields() {
		if s := f.Sign(); s != 0 {
			return options.Sign(s)
		}
	}
	return options.SignZero
}

// IsZero reports whether every field is zero.
func (d Duration) IsZero() bool { return d.Sign() == options.SignZero }

// Abs returns the duration with every field non-negative.
func (d Duration) Abs() Duration {
	if d.Sign() == options.SignNegative {
		return d.Negated()
	}
	return d
}

// Negated returns the duration with every field negated.
func (d Duration) Negated() Duration {
	neg := func(f Finite) Finite {
		if f == 0 {
			return 0
		}
		return -f
	}
	return Duration{
		years: neg(d.years), months: neg(d.months), weeks: neg(d.weeks),
		days: neg(d.days), hours: neg(d.hours), minutes: neg(d.minutes),
		seconds: neg(d.seconds), milliseconds: neg(d.milliseconds),
		microseconds: neg(d.microseconds), nanoseconds: neg(d.nanoseconds),
	}
}

// LargestUnit returns the largest unit with a nonzero field, defaulting
// to Nanosecond for the zero duration.
func (d Duration) LargestUnit() options.Unit {
	switch {
	case d.years != 0:
		return options.UnitYear
	case d.months != 0:
		return options.UnitMonth
	case d.weeks != 0:
		return options.UnitWeek
	case d.days != 0:
		return options.UnitDay
	case d.hours != 0:
		return options.UnitHour
	case d.minutes != 0:
		return options.UnitMinute
	case d.seconds != 0:
		return options.UnitSecond
	case d.milliseconds != 0:
		return options.UnitMillisecond
	case d.microseconds != 0:
		return options.UnitMicrosecond
	default:
		return options.UnitNanosecond
	}
}

// HasCalendarUnits reports whether any of years, months, or weeks is
// nonzero.
func (d Duration) HasCalendarUnits() bool {
	return d.years != 0 || d.months != 0 || d.weeks != 0
}

// DateDuration returns the integral date portion.
func (d Duration) DateDuration() (DateDuration, error) {
	y, err := d.years.asInt64()
	if err != nil {
		return DateDuration{}, err
	}
	m, err := d.months.asInt64()
	if err != nil {
		return DateDuration{}, err
	}
	w, err := d.weeks.asInt64()
	if err != nil {
		return DateDuration{}, err
	}
	dd, err := d.days.asInt64()
	if err != nil {
		return DateDuration{}, err
	}
	return DateDuration{Years: y, Months: m, Weeks: w, Days: dd}, nil
}

// TimeDuration returns the sub-day portion as 128-bit nanoseconds.
func (d Duration) TimeDuration() (TimeDuration, error) {
	return timeDurationFromComponents(
		float64(d.hours), float64(d.minutes), float64(d.seconds),
		float64(d.milliseconds), float64(d.microseconds), float64(d.nanoseconds),
	)
}

// Add sums two durations. Calendar units cannot be added without a
// relative anchor, so both durations must be free of them; the facade
// components implement relative addition.
func (d Duration) Add(other Duration) (Duration, error) {
	if d.HasCalendarUnits() || other.HasCalendarUnits() {
		return Duration{}, errs.Range("cannot add durations with calendar units without relativeTo")
	}
	largest := d.LargestUnit().Max(other.LargestUnit())

	dt, err := d.TimeDuration()
	if err != nil {
		return Duration{}, err
	}
	days, err := d.days.asInt64()
	if err != nil {
		return Duration{}, err
	}
	dt, err = dt.AddDays(days)
	if err != nil {
		return Duration{}, err
	}
	ot, err := other.TimeDuration()
	if err != nil {
		return Duration{}, err
	}
	days, err = other.days.asInt64()
	if err != nil {
		return Duration{}, err
	}
	ot, err = ot.AddDays(days)
	if err != nil {
		return Duration{}, err
	}
	sum, err := dt.Add(ot)
	if err != nil {
		return Duration{}, err
	}

	if largest >= options.UnitDay {
		days, rem := sum.DaysAndRemainder()
		return FromDateAndTime(DateDuration{Days: days}, rem, options.UnitHour)
	}
	return FromDateAndTime(DateDuration{}, sum, largest)
}

// Subtract is Add of the negation.
func (d Duration) Subtract(other Duration) (Duration, error) {
	return d.Add(other.Negated())
}

// Compare is only defined for calendar-free durations; the facade
// provides relative comparison.
func (d Duration) Compare(other Duration) (int, error) {
	if d.HasCalendarUnits() || other.HasCalendarUnits() {
		return 0, errs.Range("cannot compare durations with calendar units without relativeTo")
	}
	diff, err := d.Subtract(other)
	if err != nil {
		return 0, err
	}
	return int(diff.Sign()), nil
}

// DateDuration is the integral date portion of a Duration.
type DateDuration struct {
	Years  int64
	Months int64
	Weeks  int64
	Days   int64
}

// Sign returns the sign of the first nonzero field.
func (dd DateDuration) Sign() options.Sign {
	for _, v := range [4]int64{dd.Years, dd.Months, dd.Weeks, dd.Days} {
		if v < 0 {
			return options.SignNegative
		}
		if v > 0 {
			return options.SignPositive
		}
	}
	return options.SignZero
}

// IsZero reports whether every field is zero.
func (dd DateDuration) IsZero() bool { return dd.Sign() == options.SignZero }

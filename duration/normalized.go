package duration

import (
	"github.com/theory/temporal/epoch"
	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/internal/i128"
	"github.com/theory/temporal/options"
)

// maxTimeDuration is (2⁵³-1) seconds plus 999,999,999 nanoseconds, the
// magnitude bound on a normalized time duration.
var maxTimeDuration = func() i128.Int128 {
	v, _ := i128.FromInt64(maxSafeInteger).Mul64(1_000_000_000)
	v, _ = v.Add(i128.FromInt64(999_999_999))
	return v
}()

// TimeDuration is the sub-day part of a Duration normalized to a single
// signed 128-bit nanosecond count.
type TimeDuration struct {
	ns i128.Int128
}

// NewTimeDuration validates the magnitude bound.
func NewTimeDuration(ns i128.Int128) (TimeDuration, error) {
	if ns.Abs().Cmp(maxTimeDuration) > 0 {
		return TimeDuration{}, errs.Range("time duration exceeds maximum")
	}
	return TimeDuration{ns: ns}, nil
}

// TimeDurationFromNs wraps an int64 nanosecond count, which is always in
// range.
func TimeDurationFromNs(ns int64) TimeDuration {
	return TimeDuration{ns: i128.FromInt64(ns)}
}

// timeDurationFromComponents sums integral float64 time fields exactly.
func timeDurationFromComponents(hours, minutes, seconds, ms, us, ns float64) (TimeDuration, error) {
	total := i128.Zero
	for _, part := range []struct {
		value float64
		scale int64
	}{
		{hours, 3_600_000_000_000},
		{minutes, 60_000_000_000},
		{seconds, 1_000_000_000},
		{ms, 1_000_000},
		{us, 1_000},
		{ns, 1},
	} {
		f, err := Finite(part.value).asInt64()
		if err != nil {
			return TimeDuration{}, err
		}
		term, over := i128.FromInt64(f).Mul64(part.scale)
		if over {
			return TimeDuration{}, errs.Range("time duration exceeds maximum")
		}
		total, over = total.Add(term)
		if over {
			return TimeDuration{}, errs.Range("time duration exceeds maximum")
		}
	}
	return NewTimeDuration(total)
}

// Ns returns the underlying nanosecond count.
func (t TimeDuration) Ns() i128.Int128 { return t.ns }

// Sign returns the sign of the duration.
func (t TimeDuration) Sign() options.Sign { return options.Sign(t.ns.Sign()) }

// IsZero reports whether the duration is zero.
func (t TimeDuration) IsZero() bool { return t.ns.IsZero() }

// Negated returns the negated duration.
func (t TimeDuration) Negated() TimeDuration { return TimeDuration{ns: t.ns.Neg()} }

// Add sums two time durations with the magnitude check.
func (t TimeDuration) Add(other TimeDuration) (TimeDuration, error) {
	sum, over := t.ns.Add(other.ns)
	if over {
		return TimeDuration{}, errs.Range("time duration exceeds maximum")
	}
	return NewTimeDuration(sum)
}

// AddDays adds days × 86,400e9 ns, rejecting overflow.
func (t TimeDuration) AddDays(days int64) (TimeDuration, error) {
	dayNs, over := i128.FromInt64(days).Mul64(epoch.NsPerDay)
	if over {
		return TimeDuration{}, errs.Range("time duration exceeds maximum")
	}
	sum, over := t.ns.Add(dayNs)
	if over {
		return TimeDuration{}, errs.Range("time duration exceeds maximum")
	}
	return NewTimeDuration(sum)
}

// Sub subtracts other with the magnitude check.
func (t TimeDuration) Sub(other TimeDuration) (TimeDuration, error) {
	return t.Add(other.Negated())
}

// Seconds returns the whole-second part, truncated toward zero.
func (t TimeDuration) Seconds() int64 {
	v, _ := t.ns.Div(i128.FromInt64(1_000_000_000)).ToInt64()
	return v
}

// Subseconds returns the sub-second remainder, signed like the duration.
func (t TimeDuration) Subseconds() int32 {
	v, _ := t.ns.Mod(i128.FromInt64(1_000_000_000)).ToInt64()
	return int32(v)
}

// DaysAndRemainder splits the duration into whole 24-hour days and the
// sub-day remainder, both truncated toward zero.
func (t TimeDuration) DaysAndRemainder() (int64, TimeDuration) {
	q, r := t.ns.DivMod(i128.FromInt64(epoch.NsPerDay))
	days, _ := q.ToInt64()
	return days, TimeDuration{ns: r}
}

// RoundToIncrement rounds the duration to a multiple of inc nanoseconds.
func (t TimeDuration) RoundToIncrement(inc i128.Int128, mode options.RoundingMode) (TimeDuration, error) {
	rounded, err := epoch.RoundNumberToIncrement(t.ns, inc, mode)
	if err != nil {
		return TimeDuration{}, err
	}
	return NewTimeDuration(rounded)
}

// Balance decomposes the duration into time fields from the given
// largest unit down to nanoseconds. Units above the largest stay zero.
func (t TimeDuration) Balance(largest options.Unit) (hours, minutes, seconds, ms, us, ns float64) {
	rem := t.ns
	take := func(scale int64) float64 {
		q, r := rem.DivMod(i128.FromInt64(scale))
		rem = r
		return q.Float64()
	}
	if largest >= options.UnitHour {
		hours = take(3_600_000_000_000)
	}
	if largest >= options.UnitMinute {
		minutes = take(60_000_000_000)
	}
	if largest >= options.UnitSecond {
		seconds = take(1_000_000_000)
	}
	if largest >= options.UnitMillisecond {
		ms = take(1_000_000)
	}
	if largest >= options.UnitMicrosecond {
		us = take(1_000)
	}
	ns = rem.Float64()
	return hours, minutes, seconds, ms, us, ns
}

// normalized pairs the integral date portion with the time portion; the
// two must agree in sign.
type normalized struct {
	date DateDuration
	time TimeDuration
}

func newNormalized(date DateDuration, time TimeDuration) (normalized, error) {
	ds, ts := date.Sign(), time.Sign()
	if ds != options.SignZero && ts != options.SignZero && ds != ts {
		return normalized{}, errs.Range("date and time portions must share a sign")
	}
	return normalized{date: date, time: time}, nil
}

func (n normalized) sign() options.Sign {
	if s := n.date.Sign(); s != options.SignZero {
		return s
	}
	return n.time.Sign()
}

package iso

import (
	"github.com/theory/temporal/epoch"
	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/internal/i128"
	"github.com/theory/temporal/options"
)

// Time is a wall-clock time of day with nanosecond resolution.
type Time struct {
	Hour        uint8
	Minute      uint8
	Second      uint8
	Millisecond uint16
	Microsecond uint16
	Nanosecond  uint16
}

// Noon is the midpoint of the day, used for date range checks.
func Noon() Time { return Time{Hour: 12} }

// NewTime validates and returns a Time.
func NewTime(hour, minute, second, ms, us, ns int) (Time, error) {
	return RegulateTime(hour, minute, second, ms, us, ns, options.OverflowReject)
}

// RegulateTime constrains or rejects the provided components per overflow.
func RegulateTime(hour, minute, second, ms, us, ns int, overflow options.Overflow) (Time, error) {
	switch overflow {
	case options.OverflowConstrain:
		return Time{
			Hour:        uint8(clampInt(hour, 0, 23)),
			Minute:      uint8(clampInt(minute, 0, 59)),
			Second:      uint8(clampInt(second, 0, 59)),
			Millisecond: uint16(clampInt(ms, 0, 999)),
			Microsecond: uint16(clampInt(us, 0, 999)),
			Nanosecond:  uint16(clampInt(ns, 0, 999)),
		}, nil
	default:
		if !IsValidTime(hour, minute, second, ms, us, ns) {
			return Time{}, errs.Range("invalid ISO time")
		}
		return Time{
			Hour:        uint8(hour),
			Minute:      uint8(minute),
			Second:      uint8(second),
			Millisecond: uint16(ms),
			Microsecond: uint16(us),
			Nanosecond:  uint16(ns),
		}, nil
	}
}

// IsValidTime reports whether the components form a valid wall-clock time.
// Second 60 is not valid here; parse-time leap seconds collapse to 59
// before reaching this check.
func IsValidTime(hour, minute, second, ms, us, ns int) bool {
	if hour < 0 || hour > 23 {
		return false
	}
	if minute < 0 || minute > 59 || second < 0 || second > 59 {
		return false
	}
	return ms >= 0 && ms <= 999 && us >= 0 && us <= 999 && ns >= 0 && ns <= 999
}

// Compare orders t against other.
func (t Time) Compare(other Time) int {
	a, b := t.NanosecondsInDay(), other.NanosecondsInDay()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// NanosecondsInDay returns the offset of t from midnight in nanoseconds.
func (t Time) NanosecondsInDay() int64 {
	seconds := (int64(t.Hour)*60+int64(t.Minute))*60 + int64(t.Second)
	return seconds*1_000_000_000 +
		int64(t.Millisecond)*1_000_000 + int64(t.Microsecond)*1_000 + int64(t.Nanosecond)
}

// BalanceTime normalizes arbitrary signed time components, returning the
// day carry alongside the wrapped time.
func BalanceTime(hour, minute, second, ms, us, ns int64) (int64, Time) {
	q, ns := divModFloor(ns, 1000)
	us += q
	q, us = divModFloor(us, 1000)
	ms += q
	q, ms = divModFloor(ms, 1000)
	second += q
	q, second = divModFloor(second, 60)
	minute += q
	q, minute = divModFloor(minute, 60)
	hour += q
	days, hour := divModFloor(hour, 24)

	return days, Time{
		Hour:        uint8(hour),
		Minute:      uint8(minute),
		Second:      uint8(second),
		Millisecond: uint16(ms),
		Microsecond: uint16(us),
		Nanosecond:  uint16(ns),
	}
}

// Add applies a signed nanosecond delta, returning the day carry and the
// resulting time.
func (t Time) Add(ns i128.Int128) (int64, Time) {
	total, _ := ns.Add(i128.FromInt64(t.NanosecondsInDay()))
	days, rem := total.DivMod(i128.FromInt64(epoch.NsPerDay))
	dayCarry, _ := days.ToInt64()
	inDay, _ := rem.ToInt64()
	if inDay < 0 {
		dayCarry--
		inDay += epoch.NsPerDay
	}
	return dayCarry, timeFromNanosecondsInDay(inDay)
}

// AddComponents applies per-field signed integer deltas with carry, the
// add_iso_time operation.
func (t Time) AddComponents(hours, minutes, seconds, ms, us, ns int64) (int64, Time) {
	return BalanceTime(
		int64(t.Hour)+hours,
		int64(t.Minute)+minutes,
		int64(t.Second)+seconds,
		int64(t.Millisecond)+ms,
		int64(t.Microsecond)+us,
		int64(t.Nanosecond)+ns,
	)
}

// Diff returns the signed per-field difference other - t.
func (t Time) Diff(other Time) (hours, minutes, seconds, ms, us, ns int) {
	return int(other.Hour) - int(t.Hour),
		int(other.Minute) - int(t.Minute),
		int(other.Second) - int(t.Second),
		int(other.Millisecond) - int(t.Millisecond),
		int(other.Microsecond) - int(t.Microsecond),
		int(other.Nanosecond) - int(t.Nanosecond)
}

// Round rounds t at the smallest unit and increment, returning the day
// carry. Only Day and the time units are legal smallest units.
func (t Time) Round(smallest options.Unit, inc options.Increment, mode options.RoundingMode) (int64, Time, error) {
	var quantity int64
	switch smallest {
	case options.UnitDay, options.UnitHour:
		quantity = t.NanosecondsInDay()
	case options.UnitMinute:
		quantity = t.NanosecondsInDay() - int64(t.Hour)*3_600_000_000_000
	case options.UnitSecond:
		quantity = int64(t.Second)*1_000_000_000 +
			int64(t.Millisecond)*1_000_000 + int64(t.Microsecond)*1_000 + int64(t.Nanosecond)
	case options.UnitMillisecond:
		quantity = int64(t.Millisecond)*1_000_000 + int64(t.Microsecond)*1_000 + int64(t.Nanosecond)
	case options.UnitMicrosecond:
		quantity = int64(t.Microsecond)*1_000 + int64(t.Nanosecond)
	case options.UnitNanosecond:
		quantity = int64(t.Millisecond)*1_000_000 + int64(t.Microsecond)*1_000 + int64(t.Nanosecond)
	default:
		return 0, Time{}, errs.Rangef("invalid smallest unit for time rounding: %s", smallest)
	}

	length, ok := smallest.Nanoseconds()
	if !ok {
		return 0, Time{}, errs.Assert("time unit without nanosecond length")
	}
	increment, over := i128.FromInt64(length).Mul64(int64(inc))
	if over {
		return 0, Time{}, errs.Range("rounding increment out of range")
	}
	rounded, err := epoch.RoundNumberToIncrement(i128.FromInt64(quantity), increment, mode)
	if err != nil {
		return 0, Time{}, err
	}
	units, _ := rounded.Div(i128.FromInt64(length)).ToInt64()

	switch smallest {
	case options.UnitDay:
		return units, Time{}, nil
	case options.UnitHour:
		days, bt := BalanceTime(units, 0, 0, 0, 0, 0)
		return days, bt, nil
	case options.UnitMinute:
		days, bt := BalanceTime(int64(t.Hour), units, 0, 0, 0, 0)
		return days, bt, nil
	case options.UnitSecond:
		days, bt := BalanceTime(int64(t.Hour), int64(t.Minute), units, 0, 0, 0)
		return days, bt, nil
	case options.UnitMillisecond:
		days, bt := BalanceTime(int64(t.Hour), int64(t.Minute), int64(t.Second), units, 0, 0)
		return days, bt, nil
	case options.UnitMicrosecond:
		days, bt := BalanceTime(int64(t.Hour), int64(t.Minute), int64(t.Second), int64(t.Millisecond), units, 0)
		return days, bt, nil
	default:
		days, bt := BalanceTime(
			int64(t.Hour), int64(t.Minute), int64(t.Second),
			0, 0, units,
		)
		return days, bt, nil
	}
}

func timeFromNanosecondsInDay(ns int64) Time {
	_, t := BalanceTime(0, 0, 0, 0, 0, ns)
	return t
}

func divModFloor(a, b int64) (int64, int64) {
	q := floorDiv(a, b)
	return q, a - q*b
}

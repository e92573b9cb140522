// Package options defines the shared option enumerations for temporal
// operations: the temporal unit lattice, rounding modes and increments,
// overflow behavior, time zone disambiguation, and string display settings.
package options

import (
	"math"

	"github.com/theory/temporal/errs"
)

// Unit is a temporal unit on the lattice ordered from Nanosecond up to
// Year. Auto is the unset value resolved by each operation.
type Unit uint8

// The unit lattice, smallest first.
const (
	UnitAuto Unit = iota
	UnitNanosecond
	UnitMicrosecond
	UnitMillisecond
	UnitSecond
	UnitMinute
	UnitHour
	UnitDay
	UnitWeek
	UnitMonth
	UnitYear
)

var unitNames = map[Unit]string{
	UnitAuto:        "auto",
	UnitNanosecond:  "nanosecond",
	UnitMicrosecond: "microsecond",
	UnitMillisecond: "millisecond",
	UnitSecond:      "second",
	UnitMinute:      "minute",
	UnitHour:        "hour",
	UnitDay:         "day",
	UnitWeek:        "week",
	UnitMonth:       "month",
	UnitYear:        "year",
}

// UnitFromString parses the singular or plural name of a unit.
func UnitFromString(s string) (Unit, error) {
	for u, name := range unitNames {
		if s == name || s == name+"s" {
			return u, nil
		}
	}
	return UnitAuto, errs.Rangef("invalid unit: %q", s)
}

// String returns the singular name of the unit.
func (u Unit) String() string {
	if name, ok := unitNames[u]; ok {
		return name
	}
	return "unknown"
}

// IsCalendarUnit reports whether the unit has no fixed nanosecond length.
func (u Unit) IsCalendarUnit() bool { return u >= UnitWeek }

// IsDateUnit reports whether the unit is Day or larger.
func (u Unit) IsDateUnit() bool { return u >= UnitDay }

// IsTimeUnit reports whether the unit is Hour or smaller, excluding Auto.
func (u Unit) IsTimeUnit() bool { return u >= UnitNanosecond && u <= UnitHour }

// Nanoseconds returns the length of the unit in nanoseconds and false for
// calendar units and Auto, which have no fixed length. Day is 86,400e9 by
// definition; zoned arithmetic accounts for variable-length days itself.
func (u Unit) Nanoseconds() (int64, bool) {
	switch u {
	case UnitNanosecond:
		return 1, true
	case UnitMicrosecond:
		return 1_000, true
	case UnitMillisecond:
		return 1_000_000, true
	case UnitSecond:
		return 1_000_000_000, true
	case UnitMinute:
		return 60_000_000_000, true
	case UnitHour:
		return 3_600_000_000_000, true
	case UnitDay:
		return 86_400_000_000_000, true
	default:
		return 0, false
	}
}

// MaxIncrement returns the period that a rounding increment of the unit
// must divide (24 for hours, 60 for minutes and seconds, 1000 for
// sub-second units), and false for days and calendar units, which have
// no such bound.
func (u Unit) MaxIncrement() (uint32, bool) {
	switch u {
	case UnitHour:
		return 24, true
	case UnitMinute, UnitSecond:
		return 60, true
	case UnitMillisecond, UnitMicrosecond, UnitNanosecond:
		return 1000, true
	default:
		return 0, false
	}
}

// Max returns the larger of u and v on the lattice.
func (u Unit) Max(v Unit) Unit {
	if u > v {
		return u
	}
	return v
}

// RoundingMode selects how a quotient midway between increments resolves.
type RoundingMode uint8

// The nine rounding modes.
const (
	RoundCeil RoundingMode = iota
	RoundFloor
	RoundExpand
	RoundTrunc
	RoundHalfCeil
	RoundHalfFloor
	RoundHalfExpand
	RoundHalfTrunc
	RoundHalfEven
)

var roundingModeNames = map[RoundingMode]string{
	RoundCeil:       "ceil",
	RoundFloor:      "floor",
	RoundExpand:     "expand",
	RoundTrunc:      "trunc",
	RoundHalfCeil:   "halfCeil",
	RoundHalfFloor:  "halfFloor",
	RoundHalfExpand: "halfExpand",
	RoundHalfTrunc:  "halfTrunc",
	RoundHalfEven:   "halfEven",
}

// RoundingModeFromString parses a rounding mode name.
func RoundingModeFromString(s string) (RoundingMode, error) {
	for m, name := range roundingModeNames {
		if s == name {
			return m, nil
		}
	}
	return RoundTrunc, errs.Rangef("invalid rounding mode: %q", s)
}

// String returns the name of the rounding mode.
func (m RoundingMode) String() string {
	if name, ok := roundingModeNames[m]; ok {
		return name
	}
	return "unknown"
}

// Negated returns the mode that produces mirrored results for negated
// input, used when a difference operation inverts its operands.
func (m RoundingMode) Negated() RoundingMode {
	switch m {
	case RoundCeil:
		return RoundFloor
	case RoundFloor:
		return RoundCeil
	case RoundHalfCeil:
		return RoundHalfFloor
	case RoundHalfFloor:
		return RoundHalfCeil
	default:
		return m
	}
}

// UnsignedRoundingMode is a rounding mode reduced against the sign of the
// value being rounded.
type UnsignedRoundingMode uint8

// Unsigned rounding modes.
const (
	UnsignedInfinity UnsignedRoundingMode = iota
	UnsignedZero
	UnsignedHalfInfinity
	UnsignedHalfZero
	UnsignedHalfEven
)

// Unsigned reduces the mode for a value that is negative or not.
func (m RoundingMode) Unsigned(negative bool) UnsignedRoundingMode {
	if negative {
		switch m {
		case RoundCeil, RoundTrunc:
			return UnsignedZero
		case RoundFloor, RoundExpand:
			return UnsignedInfinity
		case RoundHalfCeil, RoundHalfTrunc:
			return UnsignedHalfZero
		case RoundHalfFloor, RoundHalfExpand:
			return UnsignedHalfInfinity
		default:
			return UnsignedHalfEven
		}
	}
	switch m {
	case RoundCeil, RoundExpand:
		return UnsignedInfinity
	case RoundFloor, RoundTrunc:
		return UnsignedZero
	case RoundHalfCeil, RoundHalfExpand:
		return UnsignedHalfInfinity
	case RoundHalfFloor, RoundHalfTrunc:
		return UnsignedHalfZero
	default:
		return UnsignedHalfEven
	}
}

// Increment is a validated rounding increment, always at least 1.
type Increment uint32

// IncrementOne is the default increment.
const IncrementOne Increment = 1

// NewIncrement validates that v can serve as a rounding increment.
func NewIncrement(v float64) (Increment, error) {
	if math.IsNaN(v) || v < 1 || v > 1e9 || v != math.Trunc(v) {
		return IncrementOne, errs.Rangef("invalid rounding increment: %v", v)
	}
	return Increment(v), nil
}

// Validate checks the increment against a dividend it must evenly divide.
// When inclusive is true the dividend itself is a legal increment.
func (i Increment) Validate(dividend uint32, inclusive bool) error {
	max := dividend
	if !inclusive {
		max--
	}
	if uint32(i) > max {
		return errs.Rangef("rounding increment %d exceeds maximum %d", i, max)
	}
	if dividend%uint32(i) != 0 {
		return errs.Rangef("rounding increment %d does not divide %d", i, dividend)
	}
	return nil
}

// Overflow controls out-of-range date and time components.
type Overflow uint8

// Overflow behaviors.
const (
	// OverflowConstrain clamps components into range.
	OverflowConstrain Overflow = iota
	// OverflowReject fails on any out-of-range component.
	OverflowReject
)

// OverflowFromString parses an overflow behavior name.
func OverflowFromString(s string) (Overflow, error) {
	switch s {
	case "constrain":
		return OverflowConstrain, nil
	case "reject":
		return OverflowReject, nil
	}
	return OverflowConstrain, errs.Rangef("invalid overflow option: %q", s)
}

// String returns the name of the overflow behavior.
func (o Overflow) String() string {
	if o == OverflowReject {
		return "reject"
	}
	return "constrain"
}

// Disambiguation controls resolution of wall-clock times that have zero or
// two corresponding instants under a time zone.
type Disambiguation uint8

// Disambiguation behaviors.
const (
	DisambiguationCompatible Disambiguation = iota
	DisambiguationEarlier
	DisambiguationLater
	DisambiguationReject
)

// DisambiguationFromString parses a disambiguation name.
func DisambiguationFromString(s string) (Disambiguation, error) {
	switch s {
	case "compatible":
		return DisambiguationCompatible, nil
	case "earlier":
		return DisambiguationEarlier, nil
	case "later":
		return DisambiguationLater, nil
	case "reject":
		return DisambiguationReject, nil
	}
	return DisambiguationCompatible, errs.Rangef("invalid disambiguation: %q", s)
}

// String returns the name of the disambiguation behavior.
func (d Disambiguation) String() string {
	switch d {
	case DisambiguationEarlier:
		return "earlier"
	case DisambiguationLater:
		return "later"
	case DisambiguationReject:
		return "reject"
	default:
		return "compatible"
	}
}

// OffsetHandling reconciles a numeric offset in a parsed string with its
// IANA time zone annotation.
type OffsetHandling uint8

// Offset handling behaviors.
const (
	OffsetUse OffsetHandling = iota
	OffsetPrefer
	OffsetIgnore
	OffsetReject
)

// OffsetHandlingFromString parses an offset handling name.
func OffsetHandlingFromString(s string) (OffsetHandling, error) {
	switch s {
	case "use":
		return OffsetUse, nil
	case "prefer":
		return OffsetPrefer, nil
	case "ignore":
		return OffsetIgnore, nil
	case "reject":
		return OffsetReject, nil
	}
	return OffsetReject, errs.Rangef("invalid offset option: %q", s)
}

// Sign is the sign of a duration.
type Sign int8

// Sign values.
const (
	SignNegative Sign = -1
	SignZero     Sign = 0
	SignPositive Sign = 1
)

// SignOf returns the Sign of v.
func SignOf(v int) Sign {
	switch {
	case v < 0:
		return SignNegative
	case v > 0:
		return SignPositive
	default:
		return SignZero
	}
}

// Negated returns the opposite sign.
func (s Sign) Negated() Sign { return -s }

// DisplayCalendar controls the calendar annotation in formatted strings.
type DisplayCalendar uint8

// Calendar display settings.
const (
	DisplayCalendarAuto DisplayCalendar = iota
	DisplayCalendarAlways
	DisplayCalendarNever
	DisplayCalendarCritical
)

// DisplayOffset controls the offset in formatted zoned strings.
type DisplayOffset uint8

// Offset display settings.
const (
	DisplayOffsetAuto DisplayOffset = iota
	DisplayOffsetNever
)

// DisplayTimeZone controls the time zone annotation in formatted strings.
type DisplayTimeZone uint8

// Time zone display settings.
const (
	DisplayTimeZoneAuto DisplayTimeZone = iota
	DisplayTimeZoneNever
	DisplayTimeZoneCritical
)

// Precision selects sub-second digit output when formatting.
type Precision struct {
	// Minute truncates output at the minute.
	Minute bool
	// Digits is the fixed fraction digit count when Set.
	Digits uint8
	// Set reports whether Digits is explicit rather than auto.
	Set bool
}

// AutoPrecision emits the natural number of fraction digits.
func AutoPrecision() Precision { return Precision{} }

// MinutePrecision truncates output at the minute.
func MinutePrecision() Precision { return Precision{Minute: true} }

// DigitsPrecision emits exactly n fraction digits, 0 through 9.
func DigitsPrecision(n uint8) (Precision, error) {
	if n > 9 {
		return Precision{}, errs.Rangef("fraction digits must be 0..9, got %d", n)
	}
	return Precision{Digits: n, Set: true}, nil
}

// RoundingOptions bundles the caller-supplied rounding controls.
type RoundingOptions struct {
	SmallestUnit Unit
	LargestUnit  Unit
	Increment    Increment
	Mode         RoundingMode
}

// DefaultRoundingOptions returns the unset option record: both units Auto,
// increment one, trunc rounding.
func DefaultRoundingOptions() RoundingOptions {
	return RoundingOptions{Increment: IncrementOne, Mode: RoundTrunc}
}

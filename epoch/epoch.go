// Package epoch implements the epoch nanosecond count underlying Instant
// and ZonedDateTime. The count is a signed 128-bit integer bounded to
// ±86,400 × 10¹⁷ nanoseconds, one hundred million days either side of the
// Unix epoch.
package epoch

import (
	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/internal/i128"
	"github.com/theory/temporal/options"
)

// NsPerDay is the number of nanoseconds in a 24-hour day.
const NsPerDay int64 = 86_400_000_000_000

// maxInstant is 86,400e9 ns/day × 1e8 days.
var maxInstant, _ = i128.FromInt64(NsPerDay).Mul64(100_000_000)

// Nanoseconds is a signed 128-bit count of nanoseconds since the Unix
// epoch.
type Nanoseconds struct {
	ns i128.Int128
}

// New wraps ns without a range check.
func New(ns i128.Int128) Nanoseconds { return Nanoseconds{ns: ns} }

// FromInt64 converts an int64 nanosecond count.
func FromInt64(ns int64) Nanoseconds { return Nanoseconds{ns: i128.FromInt64(ns)} }

// FromParts builds the count for days × NsPerDay + timeNs. It fails when
// the result leaves the representable 128-bit range; the instant window is
// checked separately by [Nanoseconds.Check].
func FromParts(days int64, timeNs int64) (Nanoseconds, error) {
	dayNs, over := i128.FromInt64(days).Mul64(NsPerDay)
	if over {
		return Nanoseconds{}, errs.Range("epoch day count out of range")
	}
	total, over := dayNs.Add(i128.FromInt64(timeNs))
	if over {
		return Nanoseconds{}, errs.Range("epoch nanoseconds out of range")
	}
	return Nanoseconds{ns: total}, nil
}

// Value returns the underlying 128-bit count.
func (n Nanoseconds) Value() i128.Int128 { return n.ns }

// Check fails with a range error when n lies outside the valid instant
// window.
func (n Nanoseconds) Check() error {
	if n.ns.Abs().Cmp(maxInstant) > 0 {
		return errs.Range("instant outside of valid range")
	}
	return nil
}

// IsValid reports whether n lies within the valid instant window.
func (n Nanoseconds) IsValid() bool { return n.Check() == nil }

// Compare returns -1, 0, or +1 ordering n against other.
func (n Nanoseconds) Compare(other Nanoseconds) int { return n.ns.Cmp(other.ns) }

// Add returns n + ns, failing when the sum leaves the instant window.
func (n Nanoseconds) Add(ns i128.Int128) (Nanoseconds, error) {
	sum, over := n.ns.Add(ns)
	if over {
		return Nanoseconds{}, errs.Range("instant addition overflowed")
	}
	out := Nanoseconds{ns: sum}
	if err := out.Check(); err != nil {
		return Nanoseconds{}, err
	}
	return out, nil
}

// AddInt64 returns n + ns for an int64 delta.
func (n Nanoseconds) AddInt64(ns int64) (Nanoseconds, error) {
	return n.Add(i128.FromInt64(ns))
}

// Diff returns n - other as a raw 128-bit count. Two valid instants can
// never overflow the difference.
func (n Nanoseconds) Diff(other Nanoseconds) i128.Int128 {
	diff, _ := n.ns.Sub(other.ns)
	return diff
}

// RoundToIncrement rounds n to a multiple of inc nanoseconds under mode.
func (n Nanoseconds) RoundToIncrement(inc i128.Int128, mode options.RoundingMode) (Nanoseconds, error) {
	rounded, err := RoundNumberToIncrement(n.ns, inc, mode)
	if err != nil {
		return Nanoseconds{}, err
	}
	out := Nanoseconds{ns: rounded}
	if err := out.Check(); err != nil {
		return Nanoseconds{}, err
	}
	return out, nil
}

// RoundNumberToIncrement rounds dividend to a multiple of increment under
// mode. Ties compare the doubled remainder against the increment so no
// floating point is involved.
func RoundNumberToIncrement(dividend, increment i128.Int128, mode options.RoundingMode) (i128.Int128, error) {
	if increment.Sign() <= 0 {
		return i128.Zero, errs.Range("rounding increment must be positive")
	}
	quotient, remainder := dividend.Abs().DivMod(increment)
	negative := dividend.Sign() < 0

	var rounded i128.Int128
	if remainder.IsZero() {
		rounded = quotient
	} else {
		switch mode.Unsigned(negative) {
		case options.UnsignedZero:
			rounded = quotient
		case options.UnsignedInfinity:
			rounded = inc1(quotient)
		default:
			double, over := remainder.Mul64(2)
			if over {
				return i128.Zero, errs.Assert("remainder doubling overflowed")
			}
			switch double.Cmp(increment) {
			case -1:
				rounded = quotient
			case 1:
				rounded = inc1(quotient)
			default:
				switch mode.Unsigned(negative) {
				case options.UnsignedHalfZero:
					rounded = quotient
				case options.UnsignedHalfInfinity:
					rounded = inc1(quotient)
				default: // half even
					if quotient.Lo()&1 == 0 {
						rounded = quotient
					} else {
						rounded = inc1(quotient)
					}
				}
			}
		}
	}

	// Restore the multiple and the sign.
	result, overflow := mulInt128(rounded, increment)
	if overflow {
		return i128.Zero, errs.Range("rounded value out of range")
	}
	if negative {
		result = result.Neg()
	}
	return result, nil
}

func inc1(x i128.Int128) i128.Int128 {
	sum, _ := x.Add(i128.One)
	return sum
}

// mulInt128 multiplies two non-negative Int128 values, reporting overflow.
// The quotient side always fits in 64 bits for valid temporal inputs, so
// this reduces to Mul64 after a width check.
func mulInt128(x, y i128.Int128) (i128.Int128, bool) {
	if small, ok := y.ToInt64(); ok {
		return x.Mul64(small)
	}
	if small, ok := x.ToInt64(); ok {
		return y.Mul64(small)
	}
	return i128.Zero, true
}

package duration

import (
	"math"

	"github.com/theory/temporal/errs"
)

// Finite is a float64 that is never NaN and never infinite. Duration
// fields are Finite values; the zero value is the number zero.
type Finite float64

// NewFinite validates that v is a finite number.
func NewFinite(v float64) (Finite, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errs.Range("value must be finite")
	}
	return Finite(v), nil
}

// Float64 returns the underlying value.
func (f Finite) Float64() float64 { return float64(f) }

// IsZero reports whether f is zero.
func (f Finite) IsZero() bool { return f == 0 }

// Sign returns -1, 0, or +1.
func (f Finite) Sign() int {
	switch {
	case f < 0:
		return -1
	case f > 0:
		return 1
	default:
		return 0
	}
}

// IsInteger reports whether f has no fractional part.
func (f Finite) IsInteger() bool { return float64(f) == math.Trunc(float64(f)) }

// asInt64 converts an integral Finite to int64, failing beyond 2⁵³-1
// where float64 stops being exact.
func (f Finite) asInt64() (int64, error) {
	v := float64(f)
	if v != math.Trunc(v) || math.Abs(v) > maxSafeInteger {
		return 0, errs.Range("value not an exactly representable integer")
	}
	return int64(v), nil
}

// maxSafeInteger is 2⁵³ - 1, the largest float64-exact integer.
const maxSafeInteger = 9_007_199_254_740_991

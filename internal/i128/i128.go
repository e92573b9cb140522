// Package i128 implements a signed 128-bit integer as a pair of 64-bit
// limbs. The temporal packages use it for epoch nanosecond counts and for
// normalized time durations, both of which overflow int64 but fit
// comfortably in 128 bits. All overflow is checked; operations that can
// overflow report it rather than wrapping.
package i128

import (
	"fmt"
	"math"
	"math/bits"
)

// Int128 is a signed 128-bit integer in two's complement form. The zero
// value is the number zero.
type Int128 struct {
	hi int64
	lo uint64
}

// Common constants.
var (
	Zero = Int128{}
	One  = Int128{lo: 1}

	// Max and Min are the extremes of the representable range.
	Max = Int128{hi: math.MaxInt64, lo: math.MaxUint64}
	Min = Int128{hi: math.MinInt64}
)

// FromInt64 converts v to an Int128.
func FromInt64(v int64) Int128 {
	if v < 0 {
		return Int128{hi: -1, lo: uint64(v)}
	}
	return Int128{lo: uint64(v)}
}

// FromParts assembles an Int128 from a high and a low limb.
func FromParts(hi int64, lo uint64) Int128 { return Int128{hi: hi, lo: lo} }

// Hi returns the high limb.
func (x Int128) Hi() int64 { return x.hi }

// Lo returns the low limb.
func (x Int128) Lo() uint64 { return x.lo }

// IsZero reports whether x is zero.
func (x Int128) IsZero() bool { return x.hi == 0 && x.lo == 0 }

// Sign returns -1, 0, or +1.
func (x Int128) Sign() int {
	switch {
	case x.hi < 0:
		return -1
	case x.hi == 0 && x.lo == 0:
		return 0
	default:
		return 1
	}
}

// Neg returns -x. Negating Min overflows and returns Min again, matching
// two's complement; callers that may hold Min must check first.
func (x Int128) Neg() Int128 {
	lo, borrow := bits.Sub64(0, x.lo, 0)
	hi, _ := bits.Sub64(0, uint64(x.hi), borrow)
	return Int128{hi: int64(hi), lo: lo}
}

// Abs returns |x|.
func (x Int128) Abs() Int128 {
	if x.hi < 0 {
		return x.Neg()
	}
	return x
}

// Cmp compares x and y, returning -1, 0, or +1.
func (x Int128) Cmp(y Int128) int {
	if x.hi != y.hi {
		if x.hi < y.hi {
			return -1
		}
		return 1
	}
	if x.lo != y.lo {
		if x.lo < y.lo {
			return -1
		}
		return 1
	}
	return 0
}

// Add returns x + y and reports whether the result overflowed.
func (x Int128) Add(y Int128) (Int128, bool) {
	lo, carry := bits.Add64(x.lo, y.lo, 0)
	hi, _ := bits.Add64(uint64(x.hi), uint64(y.hi), carry)
	sum := Int128{hi: int64(hi), lo: lo}
	// Overflow iff both operands share a sign the sum does not.
	overflow := (x.hi < 0) == (y.hi < 0) && (x.hi < 0) != (sum.hi < 0)
	return sum, overflow
}

// Sub returns x - y and reports whether the result overflowed.
func (x Int128) Sub(y Int128) (Int128, bool) {
	lo, borrow := bits.Sub64(x.lo, y.lo, 0)
	hi, _ := bits.Sub64(uint64(x.hi), uint64(y.hi), borrow)
	diff := Int128{hi: int64(hi), lo: lo}
	overflow := (x.hi < 0) != (y.hi < 0) && (x.hi < 0) != (diff.hi < 0)
	return diff, overflow
}

// Mul64 returns x * y and reports whether the result overflowed.
func (x Int128) Mul64(y int64) (Int128, bool) {
	if y == 0 || x.IsZero() {
		return Zero, false
	}
	neg := false
	ax := x
	if ax.hi < 0 {
		if ax == Min {
			// |Min| is not representable; it overflows for any |y| > 1.
			if y == 1 {
				return x, false
			}
			return Zero, true
		}
		ax = ax.Neg()
		neg = true
	}
	ay := uint64(y)
	if y < 0 {
		ay = uint64(-y)
		neg = !neg
	}
	carry, lo := bits.Mul64(ax.lo, ay)
	hiLoCarry, hiLo := bits.Mul64(uint64(ax.hi), ay)
	if hiLoCarry != 0 {
		return Zero, true
	}
	hi, c := bits.Add64(hiLo, carry, 0)
	if c != 0 {
		return Zero, true
	}
	if hi > math.MaxInt64 {
		// A magnitude with the top bit set only fits when the result is Min.
		if neg && hi == 1<<63 && lo == 0 {
			return Min, false
		}
		return Zero, true
	}
	res := Int128{hi: int64(hi), lo: lo}
	if neg {
		res = res.Neg()
	}
	return res, false
}

// Div returns the truncated quotient x / y. Division by zero panics, as it
// does for the built-in integer types.
func (x Int128) Div(y Int128) Int128 {
	q, _ := x.DivMod(y)
	return q
}

// Mod returns the remainder x % y with the sign of x (truncated division).
func (x Int128) Mod(y Int128) Int128 {
	_, r := x.DivMod(y)
	return r
}

// DivMod returns the truncated quotient and remainder of x / y. The
// remainder has the sign of x. Division by zero panics.
func (x Int128) DivMod(y Int128) (Int128, Int128) {
	if y.IsZero() {
		panic("i128: division by zero")
	}
	negQ := (x.hi < 0) != (y.hi < 0)
	negR := x.hi < 0
	q, r := udivmod(x.Abs(), y.Abs())
	if negQ {
		q = q.Neg()
	}
	if negR {
		r = r.Neg()
	}
	return q, r
}

// udivmod divides two non-negative Int128 values.
func udivmod(x, y Int128) (Int128, Int128) {
	if y.hi == 0 {
		// Two-limb by one-limb division.
		if uint64(x.hi) < y.lo {
			q, r := bits.Div64(uint64(x.hi), x.lo, y.lo)
			return Int128{lo: q}, Int128{lo: r}
		}
		qhi, rhi := uint64(x.hi)/y.lo, uint64(x.hi)%y.lo
		qlo, r := bits.Div64(rhi, x.lo, y.lo)
		return Int128{hi: int64(qhi), lo: qlo}, Int128{lo: r}
	}
	// Shift-subtract long division; at most 128 iterations.
	q, r := Zero, Zero
	for i := 127; i >= 0; i-- {
		r = r.shl1()
		if x.bit(i) {
			r.lo |= 1
		}
		if r.Cmp(y) >= 0 {
			r, _ = r.Sub(y)
			q = q.setBit(i)
		}
	}
	return q, r
}

func (x Int128) shl1() Int128 {
	return Int128{hi: x.hi<<1 | int64(x.lo>>63), lo: x.lo << 1}
}

func (x Int128) bit(i int) bool {
	if i >= 64 {
		return uint64(x.hi)>>(i-64)&1 == 1
	}
	return x.lo>>i&1 == 1
}

func (x Int128) setBit(i int) Int128 {
	if i >= 64 {
		x.hi |= int64(1) << (i - 64)
	} else {
		x.lo |= uint64(1) << i
	}
	return x
}

// ToInt64 converts x to int64, reporting whether it fits.
func (x Int128) ToInt64() (int64, bool) {
	if x.hi == 0 && x.lo <= math.MaxInt64 {
		return int64(x.lo), true
	}
	if x.hi == -1 && x.lo >= 1<<63 {
		return int64(x.lo), true
	}
	return 0, false
}

// Float64 converts x to the nearest float64.
func (x Int128) Float64() float64 {
	if x.hi < 0 {
		return -x.Neg().Float64()
	}
	return float64(uint64(x.hi))*0x1p64 + float64(x.lo)
}

// String returns the decimal representation of x.
func (x Int128) String() string {
	if x.IsZero() {
		return "0"
	}
	neg := x.hi < 0
	v := x.Abs()
	var buf [40]byte
	i := len(buf)
	for !v.IsZero() {
		var r Int128
		v, r = udivmod(v, FromInt64(10))
		i--
		buf[i] = byte('0' + r.lo)
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Format implements fmt.Formatter for %d and %v verbs.
func (x Int128) Format(f fmt.State, verb rune) {
	switch verb {
	case 'd', 'v', 's':
		fmt.Fprint(f, x.String())
	default:
		fmt.Fprintf(f, "%%!%c(i128.Int128=%s)", verb, x.String())
	}
}

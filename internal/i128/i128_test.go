package i128

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromInt64(t *testing.T) {
	t.Parallel()
	a := assert.New(t)

	for _, tc := range []struct {
		name string
		v    int64
		hi   int64
		lo   uint64
	}{
		{"zero", 0, 0, 0},
		{"one", 1, 0, 1},
		{"neg_one", -1, -1, math.MaxUint64},
		{"max", math.MaxInt64, 0, math.MaxInt64},
		{"min", math.MinInt64, -1, 1 << 63},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			x := FromInt64(tc.v)
			assert.Equal(t, tc.hi, x.Hi())
			assert.Equal(t, tc.lo, x.Lo())
			back, ok := x.ToInt64()
			assert.True(t, ok)
			assert.Equal(t, tc.v, back)
		})
	}

	a.Equal(0, FromInt64(0).Sign())
	a.Equal(1, FromInt64(42).Sign())
	a.Equal(-1, FromInt64(-42).Sign())
}

func TestAddSub(t *testing.T) {
	t.Parallel()
	a := assert.New(t)

	for _, tc := range []struct {
		name string
		x, y int64
	}{
		{"pos_pos", 123456789, 987654321},
		{"pos_neg", 123456789, -987654321},
		{"neg_neg", -123456789, -987654321},
		{"zero", 0, -5},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			sum, over := FromInt64(tc.x).Add(FromInt64(tc.y))
			assert.False(t, over)
			got, ok := sum.ToInt64()
			assert.True(t, ok)
			assert.Equal(t, tc.x+tc.y, got)

			diff, over := FromInt64(tc.x).Sub(FromInt64(tc.y))
			assert.False(t, over)
			got, ok = diff.ToInt64()
			assert.True(t, ok)
			assert.Equal(t, tc.x-tc.y, got)
		})
	}

	// Crossing the int64 boundary must not overflow 128 bits.
	big, over := FromInt64(math.MaxInt64).Add(FromInt64(math.MaxInt64))
	a.False(over)
	_, ok := big.ToInt64()
	a.False(ok)
	a.Equal("18446744073709551614", big.String())

	// True 128-bit overflow is reported.
	_, over = Max.Add(One)
	a.True(over)
	_, over = Min.Sub(One)
	a.True(over)
}

func TestMul64(t *testing.T) {
	t.Parallel()
	a := assert.New(t)

	nsPerDay := int64(86_400_000_000_000)
	x, over := FromInt64(nsPerDay).Mul64(100_000_000)
	a.False(over)
	a.Equal("8640000000000000000000000", x.String())
	a.Equal(x, x.Abs())
	negated, over := Zero.Sub(x)
	a.False(over)
	a.Equal(x.Neg(), negated)

	neg, over := FromInt64(-nsPerDay).Mul64(100_000_000)
	a.False(over)
	a.Equal("-8640000000000000000000000", neg.String())
	a.Equal(-1, neg.Sign())

	_, over = Max.Mul64(2)
	a.True(over)
}

func TestDivMod(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		x, y int64
	}{
		{"exact", 84, 2},
		{"trunc_pos", 7, 2},
		{"trunc_neg_dividend", -7, 2},
		{"trunc_neg_divisor", 7, -2},
		{"trunc_both_neg", -7, -2},
		{"large", 9_007_199_254_740_991, 1_000_000_000},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			q, r := FromInt64(tc.x).DivMod(FromInt64(tc.y))
			wantQ, wantR := tc.x/tc.y, tc.x%tc.y
			gotQ, ok := q.ToInt64()
			require.True(t, ok)
			gotR, ok := r.ToInt64()
			require.True(t, ok)
			assert.Equal(t, wantQ, gotQ)
			assert.Equal(t, wantR, gotR)
		})
	}

	// Divisor wider than 64 bits exercises the long-division path.
	day := FromInt64(86_400_000_000_000)
	window, over := day.Mul64(100_000_000)
	require.False(t, over)
	q, r := window.DivMod(window)
	assert.Equal(t, One, q)
	assert.Equal(t, Zero, r)

	half, _ := window.DivMod(FromInt64(2))
	q, r = window.DivMod(half)
	assert.Equal(t, FromInt64(2), q)
	assert.Equal(t, Zero, r)
}

func TestDivByZeroPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { One.Div(Zero) })
}

func TestFloat64(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	a.InDelta(1e18, FromInt64(1_000_000_000_000_000_000).Float64(), 1)
	a.InDelta(-1e18, FromInt64(-1_000_000_000_000_000_000).Float64(), 1)

	window, _ := FromInt64(86_400_000_000_000).Mul64(100_000_000)
	a.InEpsilon(8.64e24, window.Float64(), 1e-12)
}

func TestString(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	a.Equal("0", Zero.String())
	a.Equal("-1", FromInt64(-1).String())
	a.Equal("170141183460469231731687303715884105727", Max.String())
	a.Equal("-170141183460469231731687303715884105728", Min.String())
}

func TestCmp(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	a.Equal(-1, FromInt64(-2).Cmp(FromInt64(1)))
	a.Equal(1, FromInt64(2).Cmp(FromInt64(1)))
	a.Equal(0, FromInt64(7).Cmp(FromInt64(7)))
	a.Equal(-1, Min.Cmp(Max))
}

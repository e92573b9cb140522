package duration

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theory/temporal/calendar"
	"github.com/theory/temporal/internal/i128"
	"github.com/theory/temporal/iso"
	"github.com/theory/temporal/options"
)

func TestNewValidation(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	d, err := New(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	r.NoError(err)
	r.Equal(options.SignPositive, d.Sign())
	r.False(d.IsZero())

	// Mixed signs violate the shared-sign invariant.
	_, err = New(1, 0, 0, 0, -1, 0, 0, 0, 0, 0)
	r.Error(err)

	// Non-finite and fractional fields are rejected.
	_, err = New(math.Inf(1), 0, 0, 0, 0, 0, 0, 0, 0, 0)
	r.Error(err)
	_, err = New(0, 0, 0, 0, 0, 0, 1.5, 0, 0, 0)
	r.Error(err)

	// Calendar fields are bounded to 32 bits.
	_, err = New(math.Pow(2, 32), 0, 0, 0, 0, 0, 0, 0, 0, 0)
	r.Error(err)

	// The time portion must stay within 2^53-1 seconds.
	_, err = New(0, 0, 0, 0, 0, 0, 9_107_199_254_740_991, 0, 0, 0)
	r.Error(err)
}

func TestNegatedAbs(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	d, err := New(0, 0, 0, -1, -2, 0, 0, 0, 0, 0)
	r.NoError(err)
	a.Equal(options.SignNegative, d.Sign())

	n := d.Negated()
	a.Equal(options.SignPositive, n.Sign())
	a.Equal(1.0, n.Days())
	a.Equal(2.0, n.Hours())
	a.Equal(n, d.Abs())
	a.Equal(options.UnitDay, d.LargestUnit())
}

func TestTimeDurationExact(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	d, err := New(0, 0, 0, 0, 1, 30, 0, 0, 0, 1)
	r.NoError(err)
	td, err := d.TimeDuration()
	r.NoError(err)
	want := i128.FromInt64(90*60_000_000_000 + 1)
	a.Equal(want, td.Ns())

	h, mi, s, ms, us, ns := td.Balance(options.UnitHour)
	a.Equal([6]float64{1, 30, 0, 0, 0, 1}, [6]float64{h, mi, s, ms, us, ns})

	h, mi, s, _, _, _ = td.Balance(options.UnitMinute)
	a.Zero(h)
	a.Equal(90.0, mi)
	a.Zero(s)

	// AddDays overflow detection.
	_, err = td.AddDays(math.MaxInt64)
	r.Error(err)
}

func TestAddSubtract(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	x, err := New(0, 0, 0, 1, 2, 0, 0, 0, 0, 0)
	r.NoError(err)
	y, err := New(0, 0, 0, 0, 23, 0, 0, 0, 0, 0)
	r.NoError(err)

	sum, err := x.Add(y)
	r.NoError(err)
	a.Equal(2.0, sum.Days())
	a.Equal(1.0, sum.Hours())

	diff, err := sum.Subtract(y)
	r.NoError(err)
	a.Equal(1.0, diff.Days())
	a.Equal(2.0, diff.Hours())

	// Calendar units require a relative anchor to add.
	cal, err := New(0, 1, 0, 0, 0, 0, 0, 0, 0, 0)
	r.NoError(err)
	_, err = cal.Add(x)
	r.Error(err)

	cmp, err := x.Compare(y)
	r.NoError(err)
	a.Equal(1, cmp)
}

func TestRoundAbsoluteModes(t *testing.T) {
	t.Parallel()

	mk := func(hours, minutes float64) Duration {
		d, err := New(0, 0, 0, 0, hours, minutes, 0, 0, 0, 0)
		require.NoError(t, err)
		return d
	}

	for _, tc := range []struct {
		name string
		d    Duration
		mode options.RoundingMode
		want float64
	}{
		{"half_expand_up", mk(1, 30), options.RoundHalfExpand, 2},
		{"half_even_tie", mk(1, 30), options.RoundHalfEven, 2},
		{"half_even_tie_even", mk(2, 30), options.RoundHalfEven, 2},
		{"trunc", mk(1, 59), options.RoundTrunc, 1},
		{"ceil", mk(1, 1), options.RoundCeil, 2},
		{"floor_negative", mk(-1, -1), options.RoundFloor, -2},
		{"ceil_negative", mk(-1, -59), options.RoundCeil, -1},
		{"expand_negative", mk(0, -1), options.RoundExpand, -1},
		{"trunc_below_increment", mk(0, 59), options.RoundTrunc, 0},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Round(tc.d, options.RoundingOptions{
				SmallestUnit: options.UnitHour,
				Increment:    options.IncrementOne,
				Mode:         tc.mode,
			}, RelativeTo{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Hours())
		})
	}
}

func TestRoundIncrementValidation(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	d, err := New(0, 0, 0, 0, 1, 0, 0, 0, 0, 0)
	r.NoError(err)

	// 7 does not divide 24.
	_, err = Round(d, options.RoundingOptions{
		SmallestUnit: options.UnitHour, Increment: 7,
	}, RelativeTo{})
	r.Error(err)

	// 6 does.
	_, err = Round(d, options.RoundingOptions{
		SmallestUnit: options.UnitHour, Increment: 6,
	}, RelativeTo{})
	r.NoError(err)

	// Zero increments never validate.
	_, err = Round(d, options.RoundingOptions{
		SmallestUnit: options.UnitMinute, Increment: 0,
	}, RelativeTo{})
	r.Error(err)

	// Smallest larger than largest is inconsistent.
	_, err = Round(d, options.RoundingOptions{
		SmallestUnit: options.UnitHour, LargestUnit: options.UnitMinute,
		Increment: options.IncrementOne,
	}, RelativeTo{})
	r.Error(err)
}

func TestRoundRebalancesToLargest(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	d, err := New(0, 0, 0, 0, 0, 0, 0, 0, 0, 90_000_000_000)
	r.NoError(err)
	out, err := Round(d, options.RoundingOptions{
		SmallestUnit: options.UnitSecond,
		LargestUnit:  options.UnitMinute,
		Increment:    options.IncrementOne,
		Mode:         options.RoundTrunc,
	}, RelativeTo{})
	r.NoError(err)
	a.Equal(1.0, out.Minutes())
	a.Equal(30.0, out.Seconds())
	a.Zero(out.Nanoseconds())

	// Balancing across a day boundary.
	d, err = New(0, 0, 0, 0, 36, 0, 0, 0, 0, 0)
	r.NoError(err)
	out, err = Round(d, options.RoundingOptions{
		SmallestUnit: options.UnitHour,
		LargestUnit:  options.UnitDay,
		Increment:    options.IncrementOne,
		Mode:         options.RoundTrunc,
	}, RelativeTo{})
	r.NoError(err)
	a.Equal(1.0, out.Days())
	a.Equal(12.0, out.Hours())
}

func plainAnchor(t *testing.T, year, month, day int) RelativeTo {
	t.Helper()
	d, err := iso.NewDate(year, month, day)
	require.NoError(t, err)
	return RelativeTo{Plain: &PlainRelative{Date: d, Calendar: calendar.Iso}}
}

func TestRoundRelativeCalendarUnits(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	// 100 days from 2020-01-01 is 3 months and 9 days.
	d, err := New(0, 0, 0, 100, 0, 0, 0, 0, 0, 0)
	r.NoError(err)
	out, err := Round(d, options.RoundingOptions{
		SmallestUnit: options.UnitMonth,
		LargestUnit:  options.UnitYear,
		Increment:    options.IncrementOne,
		Mode:         options.RoundTrunc,
	}, plainAnchor(t, 2020, 1, 1))
	r.NoError(err)
	a.Equal(3.0, out.Months())
	a.Zero(out.Days())

	// Half-expand tips to 4 months once past the midpoint: 110 days is
	// 3 months 19 days against April's 30.
	d, err = New(0, 0, 0, 110, 0, 0, 0, 0, 0, 0)
	r.NoError(err)
	out, err = Round(d, options.RoundingOptions{
		SmallestUnit: options.UnitMonth,
		LargestUnit:  options.UnitYear,
		Increment:    options.IncrementOne,
		Mode:         options.RoundHalfExpand,
	}, plainAnchor(t, 2020, 1, 1))
	r.NoError(err)
	a.Equal(4.0, out.Months())

	// 13 months balances to a year and a month at largest year.
	d, err = New(0, 13, 0, 0, 0, 0, 0, 0, 0, 0)
	r.NoError(err)
	out, err = Round(d, options.RoundingOptions{
		SmallestUnit: options.UnitMonth,
		LargestUnit:  options.UnitYear,
		Increment:    options.IncrementOne,
		Mode:         options.RoundTrunc,
	}, plainAnchor(t, 2020, 1, 1))
	r.NoError(err)
	a.Equal(1.0, out.Years())
	a.Equal(1.0, out.Months())

	// Missing anchor fails.
	_, err = Round(d, options.RoundingOptions{
		SmallestUnit: options.UnitMonth, Increment: options.IncrementOne,
	}, RelativeTo{})
	r.Error(err)
}

func TestRoundRelativeNegative(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	d, err := New(0, 0, 0, -100, 0, 0, 0, 0, 0, 0)
	r.NoError(err)
	out, err := Round(d, options.RoundingOptions{
		SmallestUnit: options.UnitMonth,
		LargestUnit:  options.UnitYear,
		Increment:    options.IncrementOne,
		Mode:         options.RoundTrunc,
	}, plainAnchor(t, 2020, 1, 1))
	r.NoError(err)
	a.Equal(-3.0, out.Months())
	a.Equal(options.SignNegative, out.Sign())
}

func TestTotal(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	d, err := New(0, 0, 0, 1, 12, 0, 0, 0, 0, 0)
	r.NoError(err)
	total, err := Total(d, options.UnitDay, RelativeTo{})
	r.NoError(err)
	a.InDelta(1.5, total, 1e-12)

	// One month over February 2024 is 29 days.
	m, err := New(0, 1, 0, 0, 0, 0, 0, 0, 0, 0)
	r.NoError(err)
	total, err = Total(m, options.UnitDay, plainAnchor(t, 2024, 2, 1))
	r.NoError(err)
	a.InDelta(29, total, 1e-12)

	// 45 days from 2020-01-01 is 1 month (31 days) plus 14/29 of
	// February.
	d, err = New(0, 0, 0, 45, 0, 0, 0, 0, 0, 0)
	r.NoError(err)
	total, err = Total(d, options.UnitMonth, plainAnchor(t, 2020, 1, 1))
	r.NoError(err)
	a.InDelta(1+14.0/29.0, total, 1e-9)
}

func TestFromPartialSigns(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	h := 2.0
	m := -30.0
	_, err := FromPartial(Partial{Hours: &h, Minutes: &m})
	r.Error(err)

	m = 30
	d, err := FromPartial(Partial{Hours: &h, Minutes: &m})
	r.NoError(err)
	r.Equal(2.0, d.Hours())
	r.Equal(30.0, d.Minutes())
}

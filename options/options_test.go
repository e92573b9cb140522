package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitLattice(t *testing.T) {
	t.Parallel()
	a := assert.New(t)

	a.True(UnitNanosecond < UnitMicrosecond)
	a.True(UnitHour < UnitDay)
	a.True(UnitDay < UnitWeek)
	a.True(UnitMonth < UnitYear)
	a.Equal(UnitYear, UnitMonth.Max(UnitYear))

	a.True(UnitWeek.IsCalendarUnit())
	a.False(UnitDay.IsCalendarUnit())
	a.True(UnitDay.IsDateUnit())
	a.True(UnitHour.IsTimeUnit())
	a.False(UnitDay.IsTimeUnit())

	ns, ok := UnitMinute.Nanoseconds()
	a.True(ok)
	a.Equal(int64(60_000_000_000), ns)
	_, ok = UnitMonth.Nanoseconds()
	a.False(ok)
}

func TestUnitStrings(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	for _, name := range []string{"year", "month", "week", "day", "hour",
		"minute", "second", "millisecond", "microsecond", "nanosecond"} {
		u, err := UnitFromString(name)
		r.NoError(err)
		r.Equal(name, u.String())

		plural, err := UnitFromString(name + "s")
		r.NoError(err)
		r.Equal(u, plural)
	}
	_, err := UnitFromString("fortnight")
	r.Error(err)
}

func TestRoundingModeStrings(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	for _, name := range []string{"ceil", "floor", "expand", "trunc",
		"halfCeil", "halfFloor", "halfExpand", "halfTrunc", "halfEven"} {
		m, err := RoundingModeFromString(name)
		r.NoError(err)
		r.Equal(name, m.String())
	}
	_, err := RoundingModeFromString("nearest")
	r.Error(err)
}

func TestModeNegation(t *testing.T) {
	t.Parallel()
	a := assert.New(t)

	a.Equal(RoundFloor, RoundCeil.Negated())
	a.Equal(RoundCeil, RoundFloor.Negated())
	a.Equal(RoundHalfFloor, RoundHalfCeil.Negated())
	a.Equal(RoundTrunc, RoundTrunc.Negated())
	a.Equal(RoundHalfEven, RoundHalfEven.Negated())
}

func TestUnsignedReduction(t *testing.T) {
	t.Parallel()
	a := assert.New(t)

	// Ceil rounds toward +infinity: away from zero for positive values,
	// toward zero for negative ones.
	a.Equal(UnsignedInfinity, RoundCeil.Unsigned(false))
	a.Equal(UnsignedZero, RoundCeil.Unsigned(true))
	a.Equal(UnsignedZero, RoundFloor.Unsigned(false))
	a.Equal(UnsignedInfinity, RoundFloor.Unsigned(true))
	a.Equal(UnsignedInfinity, RoundExpand.Unsigned(false))
	a.Equal(UnsignedInfinity, RoundExpand.Unsigned(true))
	a.Equal(UnsignedHalfEven, RoundHalfEven.Unsigned(true))
	a.Equal(UnsignedHalfInfinity, RoundHalfExpand.Unsigned(false))
	a.Equal(UnsignedHalfInfinity, RoundHalfExpand.Unsigned(true))
}

func TestIncrement(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	inc, err := NewIncrement(15)
	r.NoError(err)
	r.NoError(inc.Validate(60, false))

	// 7 does not divide 60.
	inc, err = NewIncrement(7)
	r.NoError(err)
	r.Error(inc.Validate(60, false))

	// 60 is allowed only inclusively.
	inc, err = NewIncrement(60)
	r.NoError(err)
	r.Error(inc.Validate(60, false))
	r.NoError(inc.Validate(60, true))

	for _, bad := range []float64{0, -1, 1.5, 2e9} {
		_, err := NewIncrement(bad)
		r.Error(err, bad)
	}
}

func TestEnumParsers(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	o, err := OverflowFromString("reject")
	r.NoError(err)
	r.Equal(OverflowReject, o)
	_, err = OverflowFromString("clamp")
	r.Error(err)

	d, err := DisambiguationFromString("later")
	r.NoError(err)
	r.Equal(DisambiguationLater, d)
	_, err = DisambiguationFromString("whatever")
	r.Error(err)

	h, err := OffsetHandlingFromString("prefer")
	r.NoError(err)
	r.Equal(OffsetPrefer, h)
	_, err = OffsetHandlingFromString("maybe")
	r.Error(err)
}

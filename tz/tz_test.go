package tz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theory/temporal/epoch"
	"github.com/theory/temporal/iso"
	"github.com/theory/temporal/options"
)

const (
	est = int64(-5 * 3_600_000_000_000)
	edt = int64(-4 * 3_600_000_000_000)
)

// newYorkProvider carries the real 2016-2017 America/New_York
// transitions plus the standard POSIX fallback rule.
func newYorkProvider() *StaticProvider {
	return NewStaticProvider(map[string]StaticZone{
		"America/New_York": {
			InitialOffsetNs: est,
			Transitions: []Transition{
				{EpochSec: 1457852400, OffsetNs: edt, Dst: true}, // 2016-03-13
				{EpochSec: 1478412000, OffsetNs: est},            // 2016-11-06
				{EpochSec: 1489302000, OffsetNs: edt, Dst: true}, // 2017-03-12
				{EpochSec: 1509861600, OffsetNs: est},            // 2017-11-05
			},
			PosixTZ: "EST5EDT,M3.2.0,M11.1.0",
		},
	})
}

func TestParseOffset(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in   string
		want int64
	}{
		{"+05:30", (5*3600 + 30*60) * 1_000_000_000},
		{"-0930", -(9*3600 + 30*60) * 1_000_000_000},
		{"+14", 14 * 3_600_000_000_000},
		{"-00:00", 0},
		{"+01:02:03", (3600 + 2*60 + 3) * 1_000_000_000},
		{"+00:00:00.5", 500_000_000},
	} {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseOffset(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, bad := range []string{"", "5", "+5", "+24", "+05:60", "+05x", "05:00"} {
		_, err := ParseOffset(bad)
		assert.Error(t, err, bad)
	}
}

func TestOffsetZone(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	z, err := Offset(est)
	r.NoError(err)
	a.False(z.IsIana())
	a.Equal("-05:00", z.Identifier())

	off, err := z.OffsetNanosecondsFor(epoch.FromInt64(0), NoProvider{})
	r.NoError(err)
	a.Equal(est, off)

	possible, err := z.PossibleEpochNanosecondsFor(iso.DateTime{
		Date: iso.Date{Year: 2017, Month: 3, Day: 12},
		Time: iso.Time{Hour: 2, Minute: 30},
	}, NoProvider{})
	r.NoError(err)
	r.Len(possible, 1)

	_, err = Offset(epoch.NsPerDay)
	r.Error(err)
}

func TestSpringForwardGap(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	provider := newYorkProvider()
	z, err := Iana("America/New_York", provider)
	r.NoError(err)

	gap := iso.DateTime{
		Date: iso.Date{Year: 2017, Month: 3, Day: 12},
		Time: iso.Time{Hour: 2, Minute: 30},
	}
	possible, err := z.PossibleEpochNanosecondsFor(gap, provider)
	r.NoError(err)
	a.Empty(possible)

	// Compatible shifts forward to 03:30-04:00.
	resolved, err := z.EpochNanosecondsFor(gap, options.DisambiguationCompatible, provider)
	r.NoError(err)
	a.Equal(0, resolved.Compare(epoch.FromInt64(1_489_303_800_000_000_000)))

	wall, err := z.IsoDateTimeFor(resolved, provider)
	r.NoError(err)
	a.Equal(iso.Time{Hour: 3, Minute: 30}, wall.Time)

	// Earlier shifts backward to 01:30-05:00.
	earlier, err := z.EpochNanosecondsFor(gap, options.DisambiguationEarlier, provider)
	r.NoError(err)
	wall, err = z.IsoDateTimeFor(earlier, provider)
	r.NoError(err)
	a.Equal(iso.Time{Hour: 1, Minute: 30}, wall.Time)

	_, err = z.EpochNanosecondsFor(gap, options.DisambiguationReject, provider)
	r.Error(err)
}

func TestFallBackOverlap(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	provider := newYorkProvider()
	z, err := Iana("America/New_York", provider)
	r.NoError(err)

	overlap := iso.DateTime{
		Date: iso.Date{Year: 2017, Month: 11, Day: 5},
		Time: iso.Time{Hour: 1, Minute: 30},
	}
	possible, err := z.PossibleEpochNanosecondsFor(overlap, provider)
	r.NoError(err)
	r.Len(possible, 2)

	diff := possible[1].Diff(possible[0])
	got, ok := diff.ToInt64()
	r.True(ok)
	a.Equal(int64(3_600_000_000_000), got)

	compatible, err := z.EpochNanosecondsFor(overlap, options.DisambiguationCompatible, provider)
	r.NoError(err)
	a.Equal(0, compatible.Compare(possible[0]))

	later, err := z.EpochNanosecondsFor(overlap, options.DisambiguationLater, provider)
	r.NoError(err)
	a.Equal(0, later.Compare(possible[1]))

	offEarlier, err := z.OffsetNanosecondsFor(possible[0], provider)
	r.NoError(err)
	a.Equal(edt, offEarlier)
	offLater, err := z.OffsetNanosecondsFor(possible[1], provider)
	r.NoError(err)
	a.Equal(est, offLater)

	_, err = z.EpochNanosecondsFor(overlap, options.DisambiguationReject, provider)
	r.Error(err)
}

func TestPosixFallbackPastHorizon(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	provider := newYorkProvider()
	z, err := Iana("America/New_York", provider)
	r.NoError(err)

	// July 2040 is far past the precomputed data and must use the POSIX
	// rule: EDT.
	july2040 := iso.DateTime{Date: iso.Date{Year: 2040, Month: 7, Day: 1}, Time: iso.Time{Hour: 12}}
	ns, err := july2040.EpochNanoseconds()
	r.NoError(err)
	off, err := z.OffsetNanosecondsFor(ns, provider)
	r.NoError(err)
	a.Equal(edt, off)

	// January 2040: EST.
	jan2040 := iso.DateTime{Date: iso.Date{Year: 2040, Month: 1, Day: 1}, Time: iso.Time{Hour: 12}}
	ns, err = jan2040.EpochNanoseconds()
	r.NoError(err)
	off, err = z.OffsetNanosecondsFor(ns, provider)
	r.NoError(err)
	a.Equal(est, off)

	// The 2040 spring-forward gap exists analytically: March 11 at 02:30.
	gap := iso.DateTime{
		Date: iso.Date{Year: 2040, Month: 3, Day: 11},
		Time: iso.Time{Hour: 2, Minute: 30},
	}
	possible, err := z.PossibleEpochNanosecondsFor(gap, provider)
	r.NoError(err)
	a.Empty(possible)
	resolved, err := z.EpochNanosecondsFor(gap, options.DisambiguationCompatible, provider)
	r.NoError(err)
	wall, err := z.IsoDateTimeFor(resolved, provider)
	r.NoError(err)
	a.Equal(iso.Time{Hour: 3, Minute: 30}, wall.Time)
}

func TestTransitionFor(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	provider := newYorkProvider()
	z, err := Iana("America/New_York", provider)
	r.NoError(err)

	// From mid-2017, the next transition is the November fall-back.
	mid := epoch.FromInt64(1_500_000_000 * 1_000_000_000)
	next, ok, err := z.TransitionFor(mid, Next, provider)
	r.NoError(err)
	r.True(ok)
	a.Equal(0, next.Compare(epoch.FromInt64(1_509_861_600*1_000_000_000)))

	prev, ok, err := z.TransitionFor(mid, Previous, provider)
	r.NoError(err)
	r.True(ok)
	a.Equal(0, prev.Compare(epoch.FromInt64(1_489_302_000*1_000_000_000)))

	// Offset zones have no transitions.
	off, err := Offset(est)
	r.NoError(err)
	_, ok, err = z.TransitionFor(mid, Next, provider)
	r.NoError(err)
	r.True(ok)
	_, ok, err = off.TransitionFor(mid, Next, provider)
	r.NoError(err)
	a.False(ok)
}

func TestStartOfDay(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	provider := newYorkProvider()
	z, err := Iana("America/New_York", provider)
	r.NoError(err)

	// An ordinary day starts at wall midnight.
	start, err := z.StartOfDay(iso.Date{Year: 2017, Month: 6, Day: 1}, provider)
	r.NoError(err)
	wall, err := z.IsoDateTimeFor(start, provider)
	r.NoError(err)
	a.Equal(iso.Time{}, wall.Time)
	a.Equal(iso.Date{Year: 2017, Month: 6, Day: 1}, wall.Date)
}

func TestPosixParse(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	z, err := parsePosixTZ("EST5EDT,M3.2.0,M11.1.0")
	r.NoError(err)
	a.Equal(int64(-5*3_600_000_000_000), z.stdNs)
	a.Equal(int64(-4*3_600_000_000_000), z.dstNs)
	a.True(z.hasDst())

	// Lord Howe style fractional offsets.
	z, err = parsePosixTZ("<+1030>-10:30<+11>-11,M10.1.0,M4.1.0")
	r.NoError(err)
	a.Equal(int64(10*3600+1800)*1_000_000_000, z.stdNs)
	a.Equal(int64(11*3600)*1_000_000_000, z.dstNs)

	// Southern-hemisphere rule wraps the new year: January is DST.
	jan := int64(iso.Date{Year: 2030, Month: 1, Day: 15}.EpochDays()) * 86_400
	a.Equal(z.dstNs, z.offsetAt(jan))
	jul := int64(iso.Date{Year: 2030, Month: 7, Day: 15}.EpochDays()) * 86_400
	a.Equal(z.stdNs, z.offsetAt(jul))

	// Constant-offset string.
	z, err = parsePosixTZ("<-07>7")
	r.NoError(err)
	a.False(z.hasDst())
	a.Equal(int64(-7*3_600_000_000_000), z.stdNs)

	for _, bad := range []string{"", "E5", "EST", "EST5EDT,M3.2.0", "EST25"} {
		_, err := parsePosixTZ(bad)
		assert.Error(t, err, bad)
	}
}

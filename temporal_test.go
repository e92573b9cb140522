package temporal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theory/temporal/calendar"
	"github.com/theory/temporal/duration"
	"github.com/theory/temporal/ixdtf"
	"github.com/theory/temporal/options"
	"github.com/theory/temporal/tz"
)

// nyZones is the America/New_York rule set used by the zoned
// scenarios: the real 2016-2017 transitions plus the standard POSIX
// fallback rule.
var nyZones = map[string]tz.StaticZone{
	"America/New_York": {
		InitialOffsetNs: estNs,
		Transitions: []tz.Transition{
			{EpochSec: 1457852400, OffsetNs: edtNs, Dst: true},
			{EpochSec: 1478412000, OffsetNs: estNs},
			{EpochSec: 1489302000, OffsetNs: edtNs, Dst: true},
			{EpochSec: 1509861600, OffsetNs: estNs},
		},
		PosixTZ: "EST5EDT,M3.2.0,M11.1.0",
	},
}

const (
	estNs = int64(-5 * 3_600_000_000_000)
	edtNs = int64(-4 * 3_600_000_000_000)
)

var nyData = tz.NewStaticProvider(nyZones)

func newYork(t *testing.T) tz.Zone {
	t.Helper()
	zone, err := tz.Iana("America/New_York", nyData)
	require.NoError(t, err)
	return zone
}

func TestJapaneseCalendarScenario(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	d, err := NewPlainDate(2025, 3, 3, calendar.Iso)
	r.NoError(err)
	jd := d.WithCalendar(calendar.Japanese)
	a.Equal("reiwa", jd.Era())
	a.Equal(7, jd.EraYear())
	a.Equal(3, jd.Month())
	a.Equal(3, jd.Day())
	a.Equal(2025, jd.Year())
}

func TestParseFormatScenario(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	in := "2025-03-01T11:16:10[u-ca=gregory]"
	dt, err := ParsePlainDateTime(in)
	r.NoError(err)
	a.Equal(2025, dt.Year())
	a.Equal(3, dt.Month())
	a.Equal(1, dt.Day())
	a.Equal(11, dt.Hour())
	a.Equal(16, dt.Minute())
	a.Equal(10, dt.Second())
	a.Equal(calendar.Gregorian, dt.Calendar())

	out := dt.Format(ToStringOptions{Calendar: ixdtf.CalendarAlways})
	a.Equal(in, out)
}

func TestDurationRoundScenario(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	d, err := NewDuration(0, 0, 0, 0, 1, 30, 0, 0, 0, 0)
	r.NoError(err)

	for _, tc := range []struct {
		mode options.RoundingMode
		want float64
	}{
		{options.RoundHalfExpand, 2},
		{options.RoundHalfEven, 2},
		{options.RoundTrunc, 1},
	} {
		got, err := d.Round(options.RoundingOptions{
			SmallestUnit: options.UnitHour,
			Increment:    options.IncrementOne,
			Mode:         tc.mode,
		}, RelativeTo{})
		r.NoError(err)
		r.Equal(tc.want, got.Hours(), tc.mode.String())
		r.Zero(got.Minutes())
	}

	// Increment zero must fail.
	_, err = d.Round(options.RoundingOptions{
		SmallestUnit: options.UnitHour, Increment: 0,
	}, RelativeTo{})
	r.Error(err)
}

func TestSpringForwardScenario(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	zone := newYork(t)
	pdt, err := NewPlainDateTime(2017, 3, 12, 2, 30, 0, 0, 0, 0, calendar.Iso)
	r.NoError(err)

	zdt, err := pdt.ToZonedDateTime(zone, options.DisambiguationCompatible, nyData)
	r.NoError(err)

	wall, err := zdt.ToPlainDateTime(nyData)
	r.NoError(err)
	a.Equal(3, wall.Hour())
	a.Equal(30, wall.Minute())

	offset, err := zdt.Offset(nyData)
	r.NoError(err)
	a.Equal("-04:00", offset)

	ms := zdt.ToInstant().EpochMilliseconds()
	a.Equal(int64(1_489_303_800_000), ms)

	s, err := zdt.String(nyData)
	r.NoError(err)
	a.Equal("2017-03-12T03:30:00-04:00[America/New_York]", s)
}

func TestFallBackScenario(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	zone := newYork(t)
	pdt, err := NewPlainDateTime(2017, 11, 5, 1, 30, 0, 0, 0, 0, calendar.Iso)
	r.NoError(err)

	compatible, err := pdt.ToZonedDateTime(zone, options.DisambiguationCompatible, nyData)
	r.NoError(err)
	later, err := pdt.ToZonedDateTime(zone, options.DisambiguationLater, nyData)
	r.NoError(err)

	offC, err := compatible.Offset(nyData)
	r.NoError(err)
	a.Equal("-04:00", offC)
	offL, err := later.Offset(nyData)
	r.NoError(err)
	a.Equal("-05:00", offL)

	diff := later.EpochNanoseconds().Diff(compatible.EpochNanoseconds())
	got, ok := diff.ToInt64()
	r.True(ok)
	a.Equal(int64(3_600_000_000_000), got)
}

func TestParserCriticalScenario(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	_, err := ParsePlainDate("2020-01-01[!u-ca=bogus]")
	r.Error(err)

	// u-ca is a recognized key, so an invalid value fails even when
	// non-critical.
	_, err = ParsePlainDate("2020-01-01[u-ca=bogus]")
	r.Error(err)

	_, err = ParsePlainDate("2020-01-01[!foo=bar]")
	r.Error(err)

	d, err := ParsePlainDate("2020-01-01[foo=bar]")
	r.NoError(err)
	r.Equal(2020, d.Year())
}

func TestBoundaryDates(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	earliest, err := NewPlainDate(-271821, 4, 20, calendar.Iso)
	r.NoError(err)
	latest, err := NewPlainDate(275760, 9, 13, calendar.Iso)
	r.NoError(err)

	for _, d := range []PlainDate{earliest, latest} {
		back, err := ParsePlainDate(d.String())
		r.NoError(err)
		a.True(d.Equals(back), d.String())
	}

	_, err = NewPlainDate(-271821, 4, 18, calendar.Iso)
	r.Error(err)
	_, err = NewPlainDate(275760, 9, 14, calendar.Iso)
	r.Error(err)
}

func TestConstrainRejectMonthEnd(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	d, err := NewPlainDate(2024, 1, 31, calendar.Iso)
	r.NoError(err)
	oneMonth, err := DurationFromPartial(durationPartial(map[string]float64{"months": 1}))
	r.NoError(err)

	constrained, err := d.Add(oneMonth, options.OverflowConstrain)
	r.NoError(err)
	a.Equal(2, constrained.Month())
	a.Equal(29, constrained.Day())

	_, err = d.Add(oneMonth, options.OverflowReject)
	r.Error(err)
}

func TestAddSubtractInverse(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	dt, err := NewPlainDateTime(2020, 6, 15, 10, 30, 0, 0, 0, 0, calendar.Iso)
	r.NoError(err)
	dur, err := NewDuration(0, 0, 0, 3, 7, 45, 12, 0, 0, 500)
	r.NoError(err)

	fwd, err := dt.Add(dur, options.OverflowConstrain)
	r.NoError(err)
	back, err := fwd.Subtract(dur, options.OverflowConstrain)
	r.NoError(err)
	r.True(dt.Equals(back))
}

func TestUntilAddConsistency(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	for _, pair := range [][2][3]int{
		{{2020, 1, 31}, {2021, 3, 1}},
		{{2024, 2, 29}, {2023, 2, 28}},
		{{2019, 12, 31}, {2020, 3, 1}},
	} {
		a, err := NewPlainDate(pair[0][0], pair[0][1], pair[0][2], calendar.Iso)
		r.NoError(err)
		b, err := NewPlainDate(pair[1][0], pair[1][1], pair[1][2], calendar.Iso)
		r.NoError(err)

		dur, err := a.Until(b, options.RoundingOptions{
			LargestUnit: options.UnitYear,
			Increment:   options.IncrementOne,
		})
		r.NoError(err)
		got, err := a.Add(dur, options.OverflowConstrain)
		r.NoError(err)
		r.True(got.Equals(b), "from %v via %v", a, dur)
	}
}

func TestHoursInDay(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	zone := newYork(t)

	// The spring-forward day has 23 hours.
	pdt, err := NewPlainDateTime(2017, 3, 12, 12, 0, 0, 0, 0, 0, calendar.Iso)
	r.NoError(err)
	zdt, err := pdt.ToZonedDateTime(zone, options.DisambiguationCompatible, nyData)
	r.NoError(err)
	hours, err := zdt.HoursInDay(nyData)
	r.NoError(err)
	a.InDelta(23.0, hours, 1e-9)

	// The fall-back day has 25.
	pdt, err = NewPlainDateTime(2017, 11, 5, 12, 0, 0, 0, 0, 0, calendar.Iso)
	r.NoError(err)
	zdt, err = pdt.ToZonedDateTime(zone, options.DisambiguationCompatible, nyData)
	r.NoError(err)
	hours, err = zdt.HoursInDay(nyData)
	r.NoError(err)
	a.InDelta(25.0, hours, 1e-9)

	// An ordinary day has 24.
	pdt, err = NewPlainDateTime(2017, 6, 1, 12, 0, 0, 0, 0, 0, calendar.Iso)
	r.NoError(err)
	zdt, err = pdt.ToZonedDateTime(zone, options.DisambiguationCompatible, nyData)
	r.NoError(err)
	hours, err = zdt.HoursInDay(nyData)
	r.NoError(err)
	a.InDelta(24.0, hours, 1e-9)
}

func TestZonedArithmeticAcrossDst(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	zone := newYork(t)
	pdt, err := NewPlainDateTime(2017, 3, 11, 12, 0, 0, 0, 0, 0, calendar.Iso)
	r.NoError(err)
	zdt, err := pdt.ToZonedDateTime(zone, options.DisambiguationCompatible, nyData)
	r.NoError(err)

	oneDay, err := DurationFromPartial(durationPartial(map[string]float64{"days": 1}))
	r.NoError(err)
	next, err := zdt.Add(oneDay, options.OverflowConstrain, nyData)
	r.NoError(err)

	// Adding a calendar day preserves the wall clock across the 23-hour
	// day.
	wall, err := next.ToPlainDateTime(nyData)
	r.NoError(err)
	a.Equal(12, wall.Hour())
	a.Equal(12, wall.Day())

	// The exact span is 23 hours.
	span := next.EpochNanoseconds().Diff(zdt.EpochNanoseconds())
	got, ok := span.ToInt64()
	r.True(ok)
	a.Equal(int64(23*3_600_000_000_000), got)

	// A duration difference in days between the two is one day.
	dur, err := zdt.Until(next, options.RoundingOptions{
		LargestUnit: options.UnitDay,
		Increment:   options.IncrementOne,
	}, nyData)
	r.NoError(err)
	a.Equal(1.0, dur.Days())
	a.Zero(dur.Hours())
}

func TestInstantRoundTrip(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	in, err := ParseInstant("2020-01-01T00:00:00Z")
	r.NoError(err)
	a.Equal(int64(1_577_836_800_000), in.EpochMilliseconds())
	a.Equal("2020-01-01T00:00:00Z", in.String())

	// Offsets shift the instant.
	shifted, err := ParseInstant("2020-01-01T05:30:00+05:30")
	r.NoError(err)
	a.True(in.Equals(shifted))

	hour, err := DurationFromPartial(durationPartial(map[string]float64{"hours": 1}))
	r.NoError(err)
	later, err := in.Add(hour)
	r.NoError(err)
	a.Equal("2020-01-01T01:00:00Z", later.String())

	until, err := in.Until(later, options.RoundingOptions{
		LargestUnit: options.UnitHour, Increment: options.IncrementOne,
	})
	r.NoError(err)
	a.Equal(1.0, until.Hours())
}

func TestDurationTotal(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	d, err := NewDuration(0, 0, 0, 1, 12, 0, 0, 0, 0, 0)
	r.NoError(err)
	total, err := d.Total(options.UnitDay, RelativeTo{})
	r.NoError(err)
	a.InDelta(1.5, total, 1e-12)

	total, err = d.Total(options.UnitHour, RelativeTo{})
	r.NoError(err)
	a.InDelta(36, total, 1e-12)

	// Months require an anchor.
	months, err := DurationFromPartial(durationPartial(map[string]float64{"months": 1}))
	r.NoError(err)
	_, err = months.Total(options.UnitDay, RelativeTo{})
	r.Error(err)

	jan, err := NewPlainDate(2024, 1, 1, calendar.Iso)
	r.NoError(err)
	total, err = months.Total(options.UnitDay, RelativeToPlainDate(jan))
	r.NoError(err)
	a.InDelta(31, total, 1e-12)
}

func TestDurationRoundRelative(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	// 100 days from 2020-01-01 is 3 months and change; rounding to
	// months with HalfExpand lands on 3.
	d, err := DurationFromPartial(durationPartial(map[string]float64{"days": 100}))
	r.NoError(err)
	anchor, err := NewPlainDate(2020, 1, 1, calendar.Iso)
	r.NoError(err)
	rounded, err := d.Round(options.RoundingOptions{
		SmallestUnit: options.UnitMonth,
		LargestUnit:  options.UnitYear,
		Increment:    options.IncrementOne,
		Mode:         options.RoundHalfExpand,
	}, RelativeToPlainDate(anchor))
	r.NoError(err)
	a.Equal(3.0, rounded.Months())
	a.Zero(rounded.Days())

	// Without an anchor the same round fails.
	_, err = d.Round(options.RoundingOptions{
		SmallestUnit: options.UnitMonth,
		Increment:    options.IncrementOne,
	}, RelativeTo{})
	r.Error(err)

	// Negative durations keep their sign.
	neg, err := DurationFromPartial(durationPartial(map[string]float64{"days": -100}))
	r.NoError(err)
	rounded, err = neg.Round(options.RoundingOptions{
		SmallestUnit: options.UnitMonth,
		LargestUnit:  options.UnitYear,
		Increment:    options.IncrementOne,
		Mode:         options.RoundHalfExpand,
	}, RelativeToPlainDate(anchor))
	r.NoError(err)
	a.Equal(-3.0, rounded.Months())
}

func TestDurationSignInvariant(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	_, err := NewDuration(1, 0, 0, -1, 0, 0, 0, 0, 0, 0)
	r.Error(err)
	_, err = NewDuration(0, 0, 0, 0, 0, 0, 0, 0, 0, math.NaN())
	r.Error(err)
	_, err = NewDuration(0, 0, 0, 0, 1.5, 0, 0, 0, 0, 0)
	r.Error(err)

	d, err := NewDuration(-1, -2, 0, 0, 0, 0, 0, 0, 0, 0)
	r.NoError(err)
	r.Equal(options.SignNegative, d.Sign())
	r.Equal(options.SignPositive, d.Abs().Sign())
}

func TestRoundingMonotonic(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	modes := []options.RoundingMode{
		options.RoundCeil, options.RoundFloor, options.RoundExpand, options.RoundTrunc,
	}
	values := []float64{0, 10, 29, 30, 31, 59, 60, 90, 119, 120}
	for _, mode := range modes {
		var prev float64
		for i, minutes := range values {
			d, err := NewDuration(0, 0, 0, 0, 0, minutes, 0, 0, 0, 0)
			r.NoError(err)
			rounded, err := d.Round(options.RoundingOptions{
				SmallestUnit: options.UnitHour,
				Increment:    options.IncrementOne,
				Mode:         mode,
			}, RelativeTo{})
			r.NoError(err)
			if i > 0 {
				r.GreaterOrEqual(rounded.Hours(), prev, "mode %s at %v", mode, minutes)
			}
			prev = rounded.Hours()
		}
	}
}

func TestStringRoundTrips(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	for _, s := range []string{
		"2020-01-01",
		"2024-02-29",
		"-000100-05-06",
	} {
		d, err := ParsePlainDate(s)
		r.NoError(err)
		r.Equal(s, d.String())
	}

	for _, s := range []string{
		"12:30:45",
		"23:59:59.999999999",
		"00:00:00",
	} {
		tm, err := ParsePlainTime(s)
		r.NoError(err)
		r.Equal(s, tm.String())
	}

	for _, s := range []string{"P1Y2M3DT4H5M6S", "PT0S", "-P1W"} {
		d, err := ParseDuration(s)
		r.NoError(err)
		r.Equal(s, d.String())
	}
}

func TestYearMonthAndMonthDay(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	ym, err := ParsePlainYearMonth("2024-02")
	r.NoError(err)
	a.Equal(2024, ym.Year())
	a.Equal(2, ym.Month())
	a.Equal(29, ym.DaysInMonth())
	a.Equal("2024-02", ym.String())

	oneMonth, err := DurationFromPartial(durationPartial(map[string]float64{"months": 1}))
	r.NoError(err)
	next, err := ym.Add(oneMonth, options.OverflowConstrain)
	r.NoError(err)
	a.Equal(3, next.Month())

	dur, err := ym.Until(next, options.RoundingOptions{Increment: options.IncrementOne})
	r.NoError(err)
	a.Equal(1.0, dur.Months())

	d, err := ym.ToPlainDate(29, options.OverflowReject)
	r.NoError(err)
	a.Equal(29, d.Day())

	md, err := ParsePlainMonthDay("--12-25")
	r.NoError(err)
	a.Equal("M12", md.MonthCode())
	a.Equal(25, md.Day())
	a.Equal("12-25", md.String())

	fixed, err := md.ToPlainDate(2024, options.OverflowReject)
	r.NoError(err)
	a.Equal(12, fixed.Month())
	a.Equal(25, fixed.Day())
}

// durationPartial builds a duration.Partial from a small map, keeping
// test tables compact.
func durationPartial(fields map[string]float64) (p duration.Partial) {
	for name, v := range fields {
		v := v
		switch name {
		case "years":
			p.Years = &v
		case "months":
			p.Months = &v
		case "weeks":
			p.Weeks = &v
		case "days":
			p.Days = &v
		case "hours":
			p.Hours = &v
		case "minutes":
			p.Minutes = &v
		case "seconds":
			p.Seconds = &v
		}
	}
	return p
}

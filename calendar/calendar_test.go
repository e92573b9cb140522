package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theory/temporal/iso"
	"github.com/theory/temporal/options"
)

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

func TestFromID(t *testing.T) {
	t.Parallel()
	a := assert.New(t)

	for id, want := range map[string]Calendar{
		"iso8601":          Iso,
		"ISO8601":          Iso,
		"gregory":          Gregorian,
		"japanese":         Japanese,
		"hebrew":           Hebrew,
		"islamic-civil":    HijriTabularTypeIIFriday,
		"islamicc":         HijriTabularTypeIIFriday,
		"islamic-umalqura": HijriUmmAlQura,
		"chinese":          Chinese,
		"dangi":            Dangi,
		"ethioaa":          EthiopianAmeteAlem,
	} {
		got, err := FromID(id)
		require.NoError(t, err)
		a.Equal(want, got, id)
	}

	_, err := FromID("discordian")
	require.Error(t, err)
	a.False(IsKnownID("bogus"))
	a.True(IsKnownID("coptic"))
}

func TestMonthCode(t *testing.T) {
	t.Parallel()
	a := assert.New(t)

	mc, err := ParseMonthCode("M05")
	require.NoError(t, err)
	a.Equal(MonthCode{Number: 5}, mc)
	a.Equal("M05", mc.String())

	mc, err = ParseMonthCode("M05L")
	require.NoError(t, err)
	a.Equal(MonthCode{Number: 5, Leap: true}, mc)
	a.Equal("M05L", mc.String())

	for _, bad := range []string{"", "M", "M5", "5", "M0x", "M05X", "M00"} {
		_, err := ParseMonthCode(bad)
		assert.Error(t, err, bad)
	}
}

func TestJapaneseEras(t *testing.T) {
	t.Parallel()
	a := assert.New(t)

	for _, tc := range []struct {
		date    iso.Date
		era     string
		eraYear int
	}{
		{iso.Date{Year: 2025, Month: 3, Day: 3}, "reiwa", 7},
		{iso.Date{Year: 2019, Month: 4, Day: 30}, "heisei", 31},
		{iso.Date{Year: 2019, Month: 5, Day: 1}, "reiwa", 1},
		{iso.Date{Year: 1926, Month: 12, Day: 25}, "showa", 1},
		{iso.Date{Year: 1912, Month: 7, Day: 29}, "meiji", 45},
		{iso.Date{Year: 1800, Month: 1, Day: 1}, "ce", 1800},
	} {
		f := Japanese.FieldsOf(tc.date)
		a.Equal(tc.era, f.Era, tc.date)
		a.Equal(tc.eraYear, f.EraYear, tc.date)
	}

	// Era fields resolve back to the same date.
	d, err := Japanese.DateFromFields(Partial{
		Era: strp("reiwa"), EraYear: intp(7), Month: intp(3), Day: intp(3),
	}, options.OverflowReject)
	require.NoError(t, err)
	a.Equal(iso.Date{Year: 2025, Month: 3, Day: 3}, d)
}

func TestGregorianEras(t *testing.T) {
	t.Parallel()
	a := assert.New(t)

	f := Gregorian.FieldsOf(iso.Date{Year: 2024, Month: 6, Day: 1})
	a.Equal("ce", f.Era)
	a.Equal(2024, f.EraYear)

	f = Gregorian.FieldsOf(iso.Date{Year: 0, Month: 6, Day: 1})
	a.Equal("bce", f.Era)
	a.Equal(1, f.EraYear)

	f = Buddhist.FieldsOf(iso.Date{Year: 2024, Month: 6, Day: 1})
	a.Equal("be", f.Era)
	a.Equal(2567, f.EraYear)

	f = Roc.FieldsOf(iso.Date{Year: 2024, Month: 6, Day: 1})
	a.Equal("roc", f.Era)
	a.Equal(113, f.EraYear)
}

func TestKnownCivilDates(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		cal  Calendar
		date iso.Date
		want civilDate
	}{
		// Ethiopian new year 2017 fell on 2024-09-11.
		{"ethiopic_new_year", Ethiopian, iso.Date{Year: 2024, Month: 9, Day: 11}, civilDate{2017, 1, 1}},
		// Rosh Hashanah 5785 fell on 2024-10-03.
		{"hebrew_new_year", Hebrew, iso.Date{Year: 2024, Month: 10, Day: 3}, civilDate{5785, 1, 1}},
		// Nowruz 1403 fell on 2024-03-20.
		{"persian_new_year", Persian, iso.Date{Year: 2024, Month: 3, Day: 20}, civilDate{1403, 1, 1}},
		// 1 Muharram 1446 in the civil tabular scheme fell on 2024-07-08.
		{"hijri_new_year", HijriTabularTypeIIFriday, iso.Date{Year: 2024, Month: 7, Day: 8}, civilDate{1446, 1, 1}},
		// The Indian national year 1946 began on 2024-03-21 (leap year).
		{"saka_new_year", Indian, iso.Date{Year: 2024, Month: 3, Day: 21}, civilDate{1946, 1, 1}},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := tc.cal.ops().civilFromIso(tc.date)
			assert.Equal(t, tc.want, got)
			back := tc.cal.ops().isoFromCivil(tc.want.Year, tc.want.Month, tc.want.Day)
			assert.Equal(t, tc.date, back)
		})
	}
}

func TestRoundTripAllCalendars(t *testing.T) {
	t.Parallel()

	calendars := []Calendar{
		Iso, Gregorian, Buddhist, Japanese, JapaneseExtended, Roc,
		Persian, Indian, Hebrew, Chinese, Dangi, Coptic, Ethiopian,
		EthiopianAmeteAlem, HijriUmmAlQura, HijriTabularTypeIIFriday,
		HijriTabularTypeIIThursday,
	}

	for _, cal := range calendars {
		cal := cal
		t.Run(cal.ID(), func(t *testing.T) {
			t.Parallel()
			r := require.New(t)
			// Sweep several years at an 11-day stride.
			for days := int32(18500); days < 20600; days += 11 {
				d := iso.DateFromEpochDays(days)
				f := cal.FieldsOf(d)

				back, err := cal.DateFromFields(Partial{
					Year: intp(f.Year), Month: intp(f.Month), Day: intp(f.Day),
				}, options.OverflowReject)
				r.NoError(err, "%s %v", cal, d)
				r.Equal(d, back, "%s %v", cal, d)

				// The month code names the same month.
				code := f.MonthCode.String()
				back, err = cal.DateFromFields(Partial{
					Year: intp(f.Year), MonthCode: &code, Day: intp(f.Day),
				}, options.OverflowReject)
				r.NoError(err, "%s %v", cal, d)
				r.Equal(d, back, "%s %v", cal, d)

				r.GreaterOrEqual(f.DaysInMonth, f.Day)
				r.GreaterOrEqual(f.MonthsInYear, f.Month)
			}
		})
	}
}

func TestDateFromFieldsOverflow(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	// Constrain clamps day 31 in a 30-day Coptic month.
	d, err := Coptic.DateFromFields(Partial{
		Year: intp(1740), Month: intp(1), Day: intp(31),
	}, options.OverflowConstrain)
	r.NoError(err)
	r.Equal(30, Coptic.Day(d))

	_, err = Coptic.DateFromFields(Partial{
		Year: intp(1740), Month: intp(1), Day: intp(31),
	}, options.OverflowReject)
	r.Error(err)

	// Missing fields are type errors.
	_, err = Iso.DateFromFields(Partial{Year: intp(2024), Month: intp(1)}, options.OverflowReject)
	r.Error(err)
	_, err = Iso.DateFromFields(Partial{Month: intp(1), Day: intp(5)}, options.OverflowReject)
	r.Error(err)
}

func TestHebrewLeapMonth(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	// 5784 is year 8 of the metonic cycle, a leap year.
	r.True(hebrewIsLeap(5784))
	r.False(hebrewIsLeap(5785))
	a.Equal(13, Hebrew.ops().monthsInYear(5784))
	a.Equal(12, Hebrew.ops().monthsInYear(5785))

	// Adar I is ordinal 6 with code M05L.
	ord, err := Hebrew.ops().monthCodeToOrdinal(5784, MonthCode{Number: 5, Leap: true})
	r.NoError(err)
	a.Equal(6, ord)
	a.Equal(MonthCode{Number: 5, Leap: true}, Hebrew.ops().ordinalToMonthCode(5784, 6))
	// Adar II keeps code M06 at ordinal 7.
	a.Equal(MonthCode{Number: 6}, Hebrew.ops().ordinalToMonthCode(5784, 7))

	// M05L does not exist in a common year.
	_, err = Hebrew.ops().monthCodeToOrdinal(5785, MonthCode{Number: 5, Leap: true})
	r.Error(err)

	// Elul is ordinal 12 in common years, 13 in leap years.
	ord, err = Hebrew.ops().monthCodeToOrdinal(5784, MonthCode{Number: 12})
	r.NoError(err)
	a.Equal(13, ord)
}

func TestDateAddAcrossCalendars(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	// Adding a Hebrew month from Shevat 5784 lands in Adar I.
	start, err := Hebrew.DateFromFields(Partial{
		Year: intp(5784), MonthCode: strp("M05"), Day: intp(10),
	}, options.OverflowReject)
	r.NoError(err)
	next, err := Hebrew.DateAdd(start, 0, 1, 0, 0, options.OverflowConstrain)
	r.NoError(err)
	r.Equal(MonthCode{Number: 5, Leap: true}, Hebrew.MonthCodeOf(next))

	// Adding a year from Adar I constrains into a common year.
	adarI, err := Hebrew.DateFromFields(Partial{
		Year: intp(5784), MonthCode: strp("M05L"), Day: intp(30),
	}, options.OverflowReject)
	r.NoError(err)
	shifted, err := Hebrew.DateAdd(adarI, 1, 0, 0, 0, options.OverflowConstrain)
	r.NoError(err)
	r.Equal(5785, Hebrew.Year(shifted))

	// ISO largest-unit month difference agrees with AddDate.
	a := iso.Date{Year: 2024, Month: 1, Day: 31}
	b := iso.Date{Year: 2024, Month: 3, Day: 1}
	y, m, w, d, err := Iso.DateUntil(a, b, options.UnitMonth)
	r.NoError(err)
	r.Equal([4]int64{0, 1, 0, 1}, [4]int64{y, m, w, d})
}

func TestDateUntilNonIso(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	// One Coptic month apart.
	a := Coptic.ops().isoFromCivil(1740, 2, 10)
	b := Coptic.ops().isoFromCivil(1740, 3, 10)
	y, m, w, d, err := Coptic.DateUntil(a, b, options.UnitMonth)
	r.NoError(err)
	r.Equal([4]int64{0, 1, 0, 0}, [4]int64{y, m, w, d})

	// A year and change in the Hebrew calendar.
	a = Hebrew.ops().isoFromCivil(5783, 1, 1)
	b = Hebrew.ops().isoFromCivil(5784, 2, 3)
	y, m, w, d, err = Hebrew.DateUntil(a, b, options.UnitYear)
	r.NoError(err)
	r.Equal(int64(1), y)
	r.Equal(int64(1), m)
	r.Equal(int64(2), d)

	// Difference and addition agree.
	got, err := Hebrew.DateAdd(a, y, m, w, d, options.OverflowConstrain)
	r.NoError(err)
	r.Equal(b, got)
}

func TestWeekOfYearOnlyIso(t *testing.T) {
	t.Parallel()
	a := assert.New(t)

	f := Iso.FieldsOf(iso.Date{Year: 2024, Month: 1, Day: 1})
	a.True(f.HasWeek)
	a.Equal(1, f.WeekOfYear)

	f = Hebrew.FieldsOf(iso.Date{Year: 2024, Month: 1, Day: 1})
	a.False(f.HasWeek)
	a.Zero(f.WeekOfYear)
}

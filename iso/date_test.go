package iso

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theory/temporal/options"
)

func TestEpochDaysRoundTrip(t *testing.T) {
	t.Parallel()
	a := assert.New(t)

	for _, tc := range []struct {
		date Date
		days int32
	}{
		{Date{1970, 1, 1}, 0},
		{Date{1969, 12, 31}, -1},
		{Date{2000, 3, 1}, 11017},
		{Date{2024, 2, 29}, 19782},
		{Date{1600, 1, 1}, -135140},
		{Date{-271821, 4, 20}, -100_000_000},
		{Date{275760, 9, 13}, 100_000_000},
	} {
		tc := tc
		t.Run(fmt.Sprintf("%d-%02d-%02d", tc.date.Year, tc.date.Month, tc.date.Day), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.days, tc.date.EpochDays())
			assert.Equal(t, tc.date, DateFromEpochDays(tc.days))
		})
	}

	// Exhaustive round trip across a span covering leap-century rules.
	for days := int32(-200_000); days <= 200_000; days += 37 {
		d := DateFromEpochDays(days)
		a.Equal(days, d.EpochDays())
		a.True(IsValidDate(int(d.Year), int(d.Month), int(d.Day)))
	}
}

func TestBalanceDate(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name    string
		y, m, d int
		want    Date
	}{
		{"identity", 2024, 2, 29, Date{2024, 2, 29}},
		{"month_carry", 2024, 13, 1, Date{2025, 1, 1}},
		{"month_borrow", 2024, 0, 1, Date{2023, 12, 1}},
		{"day_carry", 2024, 1, 32, Date{2024, 2, 1}},
		{"day_borrow", 2024, 3, 0, Date{2024, 2, 29}},
		{"big_day_carry", 2023, 1, 400, Date{2024, 2, 4}},
		{"negative_day", 2024, 1, -30, Date{2023, 12, 1}},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, BalanceDate(tc.y, tc.m, tc.d))
		})
	}
}

func TestRegulateDate(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	d, err := RegulateDate(2024, 2, 31, options.OverflowConstrain)
	r.NoError(err)
	r.Equal(Date{2024, 2, 29}, d)

	d, err = RegulateDate(2024, 14, 5, options.OverflowConstrain)
	r.NoError(err)
	r.Equal(Date{2024, 12, 5}, d)

	_, err = RegulateDate(2024, 2, 31, options.OverflowReject)
	r.Error(err)

	_, err = RegulateDate(300_000, 1, 1, options.OverflowReject)
	r.Error(err)
}

func TestAddDate(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name       string
		start      Date
		y, m, w, d int64
		overflow   options.Overflow
		want       Date
		wantErr    bool
	}{
		{
			name: "simple_days", start: Date{2024, 1, 1}, d: 31,
			overflow: options.OverflowConstrain, want: Date{2024, 2, 1},
		},
		{
			name: "month_end_constrain", start: Date{2024, 1, 31}, m: 1,
			overflow: options.OverflowConstrain, want: Date{2024, 2, 29},
		},
		{
			name: "month_end_reject", start: Date{2024, 1, 31}, m: 1,
			overflow: options.OverflowReject, wantErr: true,
		},
		{
			name: "years_and_weeks", start: Date{2020, 2, 29}, y: 1, w: 2,
			overflow: options.OverflowConstrain, want: Date{2021, 3, 14},
		},
		{
			name: "negative_months", start: Date{2024, 3, 31}, m: -1,
			overflow: options.OverflowConstrain, want: Date{2024, 2, 29},
		},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := tc.start.AddDate(tc.y, tc.m, tc.w, tc.d, tc.overflow)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDateUntil(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name       string
		a, b       Date
		largest    options.Unit
		y, m, w, d int64
	}{
		{name: "zero", a: Date{2024, 5, 5}, b: Date{2024, 5, 5}, largest: options.UnitYear},
		{
			name: "days_only", a: Date{2024, 1, 1}, b: Date{2024, 3, 1},
			largest: options.UnitDay, d: 60,
		},
		{
			name: "weeks", a: Date{2024, 1, 1}, b: Date{2024, 1, 16},
			largest: options.UnitWeek, w: 2, d: 1,
		},
		{
			name: "borrow_from_month", a: Date{2024, 1, 31}, b: Date{2024, 3, 1},
			largest: options.UnitMonth, m: 1, d: 1,
		},
		{
			name: "years_months", a: Date{2020, 3, 15}, b: Date{2023, 5, 20},
			largest: options.UnitYear, y: 3, m: 2, d: 5,
		},
		{
			name: "negative", a: Date{2024, 3, 15}, b: Date{2024, 1, 15},
			largest: options.UnitMonth, m: -2,
		},
		{
			name: "negative_borrow", a: Date{2024, 3, 31}, b: Date{2024, 1, 30},
			largest: options.UnitMonth, m: -2, d: -1,
		},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			y, m, w, d := tc.a.DateUntil(tc.b, tc.largest)
			assert.Equal(t, [4]int64{tc.y, tc.m, tc.w, tc.d}, [4]int64{y, m, w, d})

			// Until and AddDate must agree.
			back, err := tc.a.AddDate(y, m, w, d, options.OverflowConstrain)
			require.NoError(t, err)
			assert.Equal(t, tc.b, back)
		})
	}
}

func TestDayOfWeekYear(t *testing.T) {
	t.Parallel()
	a := assert.New(t)

	// 1970-01-01 was a Thursday.
	a.Equal(4, Date{1970, 1, 1}.DayOfWeek())
	// 2017-03-12 was a Sunday.
	a.Equal(7, Date{2017, 3, 12}.DayOfWeek())
	a.Equal(1, Date{2024, 1, 1}.DayOfWeek())

	a.Equal(1, Date{2024, 1, 1}.DayOfYear())
	a.Equal(366, Date{2024, 12, 31}.DayOfYear())
	a.Equal(365, Date{2023, 12, 31}.DayOfYear())
}

func TestWeekOfYear(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		date Date
		week int
		year int
	}{
		// 2021-01-01 is a Friday, so it falls in 2020's week 53.
		{Date{2021, 1, 1}, 53, 2020},
		{Date{2024, 1, 1}, 1, 2024},
		// 2019-12-30 is a Monday and begins 2020's week 1.
		{Date{2019, 12, 30}, 1, 2020},
		{Date{2020, 6, 15}, 25, 2020},
	} {
		tc := tc
		t.Run(fmt.Sprintf("%d-%02d-%02d", tc.date.Year, tc.date.Month, tc.date.Day), func(t *testing.T) {
			t.Parallel()
			week, year := tc.date.WeekOfYear()
			assert.Equal(t, tc.week, week)
			assert.Equal(t, tc.year, year)
		})
	}
}

func TestLeapYears(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	a.True(IsLeapYear(2024))
	a.True(IsLeapYear(2000))
	a.False(IsLeapYear(1900))
	a.False(IsLeapYear(2023))
	a.Equal(29, DaysInMonth(2024, 2))
	a.Equal(28, DaysInMonth(1900, 2))
	a.Equal(31, DaysInMonth(2024, 12))
	a.Equal(366, DaysInYear(2000))
}

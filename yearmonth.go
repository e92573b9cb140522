package temporal

import (
	"fmt"

	"github.com/theory/temporal/calendar"
	"github.com/theory/temporal/duration"
	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/iso"
	"github.com/theory/temporal/ixdtf"
	"github.com/theory/temporal/options"
)

// PlainYearMonth names a month of a calendar year. The underlying ISO
// date pins the first day of the month.
type PlainYearMonth struct {
	date iso.Date
	cal  calendar.Calendar
}

// NewPlainYearMonth builds a year-month from ISO components.
func NewPlainYearMonth(year, month int, cal calendar.Calendar) (PlainYearMonth, error) {
	d, err := iso.NewDate(year, month, 1)
	if err != nil {
		return PlainYearMonth{}, err
	}
	return PlainYearMonth{date: d, cal: cal}, nil
}

// PlainYearMonthFromFields resolves calendar fields to a year-month.
func PlainYearMonthFromFields(cal calendar.Calendar, fields calendar.Partial, overflow options.Overflow) (PlainYearMonth, error) {
	d, err := cal.YearMonthFromFields(fields, overflow)
	if err != nil {
		return PlainYearMonth{}, err
	}
	return PlainYearMonth{date: d, cal: cal}, nil
}

// ParsePlainYearMonth parses a year-month string.
func ParsePlainYearMonth(s string) (PlainYearMonth, error) {
	res, err := ixdtf.ParseYearMonth(s)
	if err != nil {
		return PlainYearMonth{}, err
	}
	cal, err := calendarFromAnnotation(res)
	if err != nil {
		return PlainYearMonth{}, err
	}
	d, err := iso.NewDate(res.Date.Year, res.Date.Month, res.Date.Day)
	if err != nil {
		return PlainYearMonth{}, err
	}
	if cal != calendar.Iso {
		// Non-ISO year-months anchor at the first day of their own month.
		f := cal.FieldsOf(d)
		code := f.MonthCode.String()
		one := 1
		d, err = cal.DateFromFields(calendar.Partial{
			Year: &f.Year, MonthCode: &code, Day: &one,
		}, options.OverflowConstrain)
		if err != nil {
			return PlainYearMonth{}, err
		}
	}
	return PlainYearMonth{date: d, cal: cal}, nil
}

// Calendar returns the calendar.
func (ym PlainYearMonth) Calendar() calendar.Calendar { return ym.cal }

// Year returns the calendar year.
func (ym PlainYearMonth) Year() int { return ym.cal.Year(ym.date) }

// Month returns the one-based month ordinal.
func (ym PlainYearMonth) Month() int { return ym.cal.Month(ym.date) }

// MonthCode returns the month code.
func (ym PlainYearMonth) MonthCode() string { return ym.cal.MonthCodeOf(ym.date).String() }

// Era returns the era name.
func (ym PlainYearMonth) Era() string { return ym.cal.FieldsOf(ym.date).Era }

// EraYear returns the year within the era.
func (ym PlainYearMonth) EraYear() int { return ym.cal.FieldsOf(ym.date).EraYear }

// DaysInMonth returns the month's length.
func (ym PlainYearMonth) DaysInMonth() int { return ym.cal.FieldsOf(ym.date).DaysInMonth }

// DaysInYear returns the year's length.
func (ym PlainYearMonth) DaysInYear() int { return ym.cal.FieldsOf(ym.date).DaysInYear }

// MonthsInYear returns the number of months in the year.
func (ym PlainYearMonth) MonthsInYear() int { return ym.cal.FieldsOf(ym.date).MonthsInYear }

// InLeapYear reports whether the year is a leap year.
func (ym PlainYearMonth) InLeapYear() bool { return ym.cal.FieldsOf(ym.date).InLeapYear }

// With derives a year-month with the partial's fields replaced.
func (ym PlainYearMonth) With(partial calendar.Partial, overflow options.Overflow) (PlainYearMonth, error) {
	f := ym.cal.FieldsOf(ym.date)
	if partial.Year == nil && (partial.Era == nil || partial.EraYear == nil) {
		partial.Year = &f.Year
	}
	if partial.Month == nil && partial.MonthCode == nil {
		code := f.MonthCode.String()
		partial.MonthCode = &code
	}
	return PlainYearMonthFromFields(ym.cal, partial, overflow)
}

// Add adds a duration's year and month fields; smaller fields must
// balance away to whole months of zero.
func (ym PlainYearMonth) Add(dur Duration, overflow options.Overflow) (PlainYearMonth, error) {
	dd, err := dur.inner.DateDuration()
	if err != nil {
		return PlainYearMonth{}, err
	}
	td, err := dur.inner.TimeDuration()
	if err != nil {
		return PlainYearMonth{}, err
	}
	if dd.Weeks != 0 || dd.Days != 0 || !td.IsZero() {
		return PlainYearMonth{}, errs.Range("year-month arithmetic accepts only years and months")
	}
	// Adding a negative span anchors at the last day of the month so a
	// short target month cannot pull the result back an extra month.
	anchor := ym.date
	if dd.Sign() == options.SignNegative {
		f := ym.cal.FieldsOf(ym.date)
		code := f.MonthCode.String()
		anchor, err = ym.cal.DateFromFields(calendar.Partial{
			Year: &f.Year, MonthCode: &code, Day: &f.DaysInMonth,
		}, options.OverflowConstrain)
		if err != nil {
			return PlainYearMonth{}, err
		}
	}
	nd, err := ym.cal.DateAdd(anchor, dd.Years, dd.Months, 0, 0, overflow)
	if err != nil {
		return PlainYearMonth{}, err
	}
	f := ym.cal.FieldsOf(nd)
	code := f.MonthCode.String()
	one := 1
	first, err := ym.cal.DateFromFields(calendar.Partial{
		Year: &f.Year, MonthCode: &code, Day: &one,
	}, options.OverflowConstrain)
	if err != nil {
		return PlainYearMonth{}, err
	}
	return PlainYearMonth{date: first, cal: ym.cal}, nil
}

// Subtract is Add of the negation.
func (ym PlainYearMonth) Subtract(dur Duration, overflow options.Overflow) (PlainYearMonth, error) {
	return ym.Add(dur.Negated(), overflow)
}

// Until returns the duration from ym to other in months or years.
func (ym PlainYearMonth) Until(other PlainYearMonth, opts options.RoundingOptions) (Duration, error) {
	if ym.cal != other.cal {
		return Duration{}, errs.Generic("cannot difference values in different calendars")
	}
	if opts.LargestUnit == options.UnitAuto {
		opts.LargestUnit = options.UnitYear
	}
	if opts.LargestUnit < options.UnitMonth ||
		(opts.SmallestUnit != options.UnitAuto && opts.SmallestUnit < options.UnitMonth) {
		return Duration{}, errs.Range("year-month difference units must be months or years")
	}
	if opts.SmallestUnit == options.UnitAuto {
		opts.SmallestUnit = options.UnitMonth
	}
	y, m, _, _, err := ym.cal.DateUntil(ym.date, other.date, opts.LargestUnit)
	if err != nil {
		return Duration{}, err
	}
	dur, err := duration.FromDateAndTime(
		duration.DateDuration{Years: y, Months: m},
		duration.TimeDuration{}, options.UnitHour,
	)
	if err != nil {
		return Duration{}, err
	}
	if opts.SmallestUnit == options.UnitMonth && opts.Increment == options.IncrementOne {
		return Duration{inner: dur}, nil
	}
	rounded, err := duration.Round(dur, opts, duration.RelativeTo{
		Plain: &duration.PlainRelative{Date: ym.date, Calendar: ym.cal},
	})
	if err != nil {
		return Duration{}, err
	}
	return Duration{inner: rounded}, nil
}

// Since returns the duration from other to ym.
func (ym PlainYearMonth) Since(other PlainYearMonth, opts options.RoundingOptions) (Duration, error) {
	opts.Mode = opts.Mode.Negated()
	dur, err := ym.Until(other, opts)
	if err != nil {
		return Duration{}, err
	}
	return dur.Negated(), nil
}

// ToPlainDate fixes a day of month within the year-month.
func (ym PlainYearMonth) ToPlainDate(day int, overflow options.Overflow) (PlainDate, error) {
	f := ym.cal.FieldsOf(ym.date)
	code := f.MonthCode.String()
	return PlainDateFromFields(ym.cal, calendar.Partial{
		Year: &f.Year, MonthCode: &code, Day: &day,
	}, overflow)
}

// Equals reports field equality.
func (ym PlainYearMonth) Equals(other PlainYearMonth) bool {
	return ym.date == other.date && ym.cal == other.cal
}

// Compare orders the underlying ISO dates.
func (ym PlainYearMonth) Compare(other PlainYearMonth) int {
	return ym.date.Compare(other.date)
}

// String formats the year-month; non-ISO calendars include the anchor
// day and annotation.
func (ym PlainYearMonth) String() string { return ym.Format(ToStringOptions{}) }

// Format formats the year-month under the given options.
func (ym PlainYearMonth) Format(opts ToStringOptions) string {
	if ym.cal == calendar.Iso && opts.Calendar != ixdtf.CalendarAlways &&
		opts.Calendar != ixdtf.CalendarCritical {
		return fmt.Sprintf("%s-%02d", ixdtf.FormatYear(int(ym.date.Year)), ym.date.Month)
	}
	return ixdtf.FormatDate(int(ym.date.Year), int(ym.date.Month), int(ym.date.Day)) +
		ixdtf.FormatCalendarAnnotation(ym.cal.ID(), opts.Calendar)
}

package temporal

import (
	"fmt"

	"github.com/theory/temporal/calendar"
	"github.com/theory/temporal/iso"
	"github.com/theory/temporal/ixdtf"
	"github.com/theory/temporal/options"
)

// PlainMonthDay names a month and day without a year, anchored at a
// reference year internally.
type PlainMonthDay struct {
	date iso.Date
	cal  calendar.Calendar
}

// NewPlainMonthDay builds a month-day from ISO components.
func NewPlainMonthDay(month, day int, cal calendar.Calendar) (PlainMonthDay, error) {
	d, err := iso.NewDate(1972, month, day)
	if err != nil {
		return PlainMonthDay{}, err
	}
	return PlainMonthDay{date: d, cal: cal}, nil
}

// PlainMonthDayFromFields resolves calendar fields to a month-day.
func PlainMonthDayFromFields(cal calendar.Calendar, fields calendar.Partial, overflow options.Overflow) (PlainMonthDay, error) {
	d, err := cal.MonthDayFromFields(fields, overflow)
	if err != nil {
		return PlainMonthDay{}, err
	}
	return PlainMonthDay{date: d, cal: cal}, nil
}

// ParsePlainMonthDay parses a month-day string.
func ParsePlainMonthDay(s string) (PlainMonthDay, error) {
	res, err := ixdtf.ParseMonthDay(s)
	if err != nil {
		return PlainMonthDay{}, err
	}
	cal, err := calendarFromAnnotation(res)
	if err != nil {
		return PlainMonthDay{}, err
	}
	d, err := iso.NewDate(res.Date.Year, res.Date.Month, res.Date.Day)
	if err != nil {
		return PlainMonthDay{}, err
	}
	return PlainMonthDay{date: d, cal: cal}, nil
}

// Calendar returns the calendar.
func (md PlainMonthDay) Calendar() calendar.Calendar { return md.cal }

// MonthCode returns the month code.
func (md PlainMonthDay) MonthCode() string { return md.cal.MonthCodeOf(md.date).String() }

// Day returns the day of month.
func (md PlainMonthDay) Day() int { return md.cal.Day(md.date) }

// With derives a month-day with the partial's fields replaced.
func (md PlainMonthDay) With(partial calendar.Partial, overflow options.Overflow) (PlainMonthDay, error) {
	f := md.cal.FieldsOf(md.date)
	if partial.Month == nil && partial.MonthCode == nil {
		code := f.MonthCode.String()
		partial.MonthCode = &code
	}
	if partial.Day == nil {
		partial.Day = &f.Day
	}
	return PlainMonthDayFromFields(md.cal, partial, overflow)
}

// ToPlainDate fixes the month-day in a year.
func (md PlainMonthDay) ToPlainDate(year int, overflow options.Overflow) (PlainDate, error) {
	code := md.MonthCode()
	day := md.Day()
	return PlainDateFromFields(md.cal, calendar.Partial{
		Year: &year, MonthCode: &code, Day: &day,
	}, overflow)
}

// Equals reports field equality.
func (md PlainMonthDay) Equals(other PlainMonthDay) bool {
	return md.date == other.date && md.cal == other.cal
}

// String formats the month-day; non-ISO calendars include the reference
// year and annotation.
func (md PlainMonthDay) String() string { return md.Format(ToStringOptions{}) }

// Format formats the month-day under the given options.
func (md PlainMonthDay) Format(opts ToStringOptions) string {
	if md.cal == calendar.Iso && opts.Calendar != ixdtf.CalendarAlways &&
		opts.Calendar != ixdtf.CalendarCritical {
		return fmt.Sprintf("%02d-%02d", md.date.Month, md.date.Day)
	}
	return ixdtf.FormatDate(int(md.date.Year), int(md.date.Month), int(md.date.Day)) +
		ixdtf.FormatCalendarAnnotation(md.cal.ID(), opts.Calendar)
}

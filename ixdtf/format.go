package ixdtf

import (
	"fmt"
	"strings"
)

// Precision selects sub-second digits when formatting times.
type Precision struct {
	// Minute truncates at the minute.
	Minute bool
	// Digits is the fixed fraction width when Set.
	Digits uint8
	Set    bool
}

// DisplayCalendar selects the calendar annotation policy.
type DisplayCalendar uint8

// Calendar display policies.
const (
	CalendarAuto DisplayCalendar = iota
	CalendarAlways
	CalendarNever
	CalendarCritical
)

// FormatYear renders the year in its 4-digit or signed 6-digit form.
func FormatYear(year int) string {
	if year >= 0 && year <= 9999 {
		return fmt.Sprintf("%04d", year)
	}
	sign := "+"
	if year < 0 {
		sign = "-"
		year = -year
	}
	return fmt.Sprintf("%s%06d", sign, year)
}

// FormatDate renders the extended calendar date form.
func FormatDate(year, month, day int) string {
	return fmt.Sprintf("%s-%02d-%02d", FormatYear(year), month, day)
}

// FormatTime renders the time under the precision policy.
func FormatTime(t TimeRecord, precision Precision) string {
	if precision.Minute {
		return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
	}
	out := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	ns := t.Millisecond*1_000_000 + t.Microsecond*1_000 + t.Nanosecond
	frac := fmt.Sprintf("%09d", ns)
	switch {
	case precision.Set:
		if precision.Digits > 0 {
			out += "." + frac[:precision.Digits]
		}
	case ns != 0:
		out += "." + strings.TrimRight(frac, "0")
	}
	return out
}

// FormatOffsetMinutes renders an offset rounded to minute precision, the
// form used for ZonedDateTime offsets.
func FormatOffsetMinutes(offsetNs int64) string {
	sign := "+"
	v := offsetNs
	if v < 0 {
		sign = "-"
		v = -v
	}
	minutes := (v + 30_000_000_000) / 60_000_000_000
	return fmt.Sprintf("%s%02d:%02d", sign, minutes/60, minutes%60)
}

// FormatOffsetFull renders an offset with sub-minute components when
// present.
func FormatOffsetFull(offsetNs int64) string {
	sign := "+"
	v := offsetNs
	if v < 0 {
		sign = "-"
		v = -v
	}
	ns := v % 1_000_000_000
	v /= 1_000_000_000
	seconds := v % 60
	v /= 60
	out := fmt.Sprintf("%s%02d:%02d", sign, v/60, v%60)
	if seconds != 0 || ns != 0 {
		out += fmt.Sprintf(":%02d", seconds)
		if ns != 0 {
			out += strings.TrimRight(fmt.Sprintf(".%09d", ns), "0")
		}
	}
	return out
}

// FormatCalendarAnnotation renders the u-ca annotation under the display
// policy. With Auto, only non-ISO calendars are shown.
func FormatCalendarAnnotation(id string, display DisplayCalendar) string {
	switch display {
	case CalendarNever:
		return ""
	case CalendarAuto:
		if id == "iso8601" {
			return ""
		}
		return "[u-ca=" + id + "]"
	case CalendarCritical:
		return "[!u-ca=" + id + "]"
	default:
		return "[u-ca=" + id + "]"
	}
}

// FormatTimeZoneAnnotation renders the bracketed time zone annotation.
func FormatTimeZoneAnnotation(id string, critical bool) string {
	if critical {
		return "[!" + id + "]"
	}
	return "[" + id + "]"
}

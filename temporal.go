// Package temporal provides calendar-, time zone-, and rounding-aware
// date/time value types with the semantics of the ECMAScript Temporal
// proposal: PlainDate, PlainTime, PlainDateTime, PlainYearMonth,
// PlainMonthDay, Instant, ZonedDateTime, and Duration.
//
// Values are immutable; every operation derives a new value. Operations
// that resolve IANA time zones take a [tz.Provider]; everything else is
// a pure function of its inputs.
package temporal

import (
	"github.com/theory/temporal/calendar"
	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/ixdtf"
	"github.com/theory/temporal/options"
)

// ToStringOptions controls formatting of the component types.
type ToStringOptions struct {
	// Precision selects sub-second digits: automatic when unset.
	Precision ixdtf.Precision
	// RoundingMode applies when precision drops sub-second digits; the
	// zero value is options.RoundCeil.
	RoundingMode options.RoundingMode
	// Calendar selects the u-ca annotation policy.
	Calendar ixdtf.DisplayCalendar
	// HideOffset suppresses the ZonedDateTime offset.
	HideOffset bool
	// TimeZone selects the time zone annotation policy.
	TimeZone options.DisplayTimeZone
}

// precisionIncrement returns the nanosecond rounding increment implied
// by the precision, or 1 for full precision.
func precisionIncrement(p ixdtf.Precision) uint32 {
	if !p.Set {
		return 1
	}
	inc := uint32(1)
	for i := p.Digits; i < 9; i++ {
		inc *= 10
	}
	return inc
}

// calendarFromAnnotation validates a parsed u-ca annotation, defaulting
// to the ISO calendar when absent.
func calendarFromAnnotation(res ixdtf.Result) (calendar.Calendar, error) {
	if res.Calendar == "" {
		return calendar.Iso, nil
	}
	cal, err := calendar.FromID(res.Calendar)
	if err != nil {
		return calendar.Iso, errs.Rangef("unknown calendar %q", res.Calendar)
	}
	return cal, nil
}

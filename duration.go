package temporal

import (
	"github.com/theory/temporal/duration"
	"github.com/theory/temporal/ixdtf"
	"github.com/theory/temporal/options"
	"github.com/theory/temporal/tz"
)

// Duration is a signed span of time in ten fields sharing one sign.
type Duration struct {
	inner duration.Duration
}

// NewDuration validates the ten fields and returns the Duration.
func NewDuration(years, months, weeks, days, hours, minutes, seconds, ms, us, ns float64) (Duration, error) {
	d, err := duration.New(years, months, weeks, days, hours, minutes, seconds, ms, us, ns)
	if err != nil {
		return Duration{}, err
	}
	return Duration{inner: d}, nil
}

// DurationFromPartial builds a Duration from a partial record.
func DurationFromPartial(p duration.Partial) (Duration, error) {
	d, err := duration.FromPartial(p)
	if err != nil {
		return Duration{}, err
	}
	return Duration{inner: d}, nil
}

// ParseDuration parses an ISO 8601 duration string.
func ParseDuration(s string) (Duration, error) {
	rec, err := ixdtf.ParseDuration(s)
	if err != nil {
		return Duration{}, err
	}
	return NewDuration(
		rec.Years, rec.Months, rec.Weeks, rec.Days, rec.Hours,
		rec.Minutes, rec.Seconds, rec.Milliseconds, rec.Microseconds,
		rec.Nanoseconds,
	)
}

// Field accessors.

// Years returns the years field.
func (d Duration) Years() float64 { return d.inner.Years() }

// Months returns the months field.
func (d Duration) Months() float64 { return d.inner.Months() }

// Weeks returns the weeks field.
func (d Duration) Weeks() float64 { return d.inner.Weeks() }

// Days returns the days field.
func (d Duration) Days() float64 { return d.inner.Days() }

// Hours returns the hours field.
func (d Duration) Hours() float64 { return d.inner.Hours() }

// Minutes returns the minutes field.
func (d Duration) Minutes() float64 { return d.inner.Minutes() }

// Seconds returns the seconds field.
func (d Duration) Seconds() float64 { return d.inner.Seconds() }

// Milliseconds returns the milliseconds field.
func (d Duration) Milliseconds() float64 { return d.inner.Milliseconds() }

// Microseconds returns the microseconds field.
func (d Duration) Microseconds() float64 { return d.inner.Microseconds() }

// Nanoseconds returns the nanoseconds field.
func (d Duration) Nanoseconds() float64 { return d.inner.Nanoseconds() }

// Sign returns the duration's shared sign.
func (d Duration) Sign() options.Sign { return d.inner.Sign() }

// IsZero reports whether every field is zero.
func (d Duration) IsZero() bool { return d.inner.IsZero() }

// Abs returns the duration with every field non-negative.
func (d Duration) Abs() Duration { return Duration{inner: d.inner.Abs()} }

// Negated returns the duration with every field negated.
func (d Duration) Negated() Duration { return Duration{inner: d.inner.Negated()} }

// Add sums two calendar-free durations; use a RelativeTo-aware
// component operation to add calendar units.
func (d Duration) Add(other Duration) (Duration, error) {
	sum, err := d.inner.Add(other.inner)
	if err != nil {
		return Duration{}, err
	}
	return Duration{inner: sum}, nil
}

// Subtract is Add of the negation.
func (d Duration) Subtract(other Duration) (Duration, error) {
	diff, err := d.inner.Subtract(other.inner)
	if err != nil {
		return Duration{}, err
	}
	return Duration{inner: diff}, nil
}

// RelativeTo anchors duration rounding at a date or zoned date-time.
type RelativeTo struct {
	inner duration.RelativeTo
}

// RelativeToPlainDate anchors at a calendar date.
func RelativeToPlainDate(d PlainDate) RelativeTo {
	return RelativeTo{inner: duration.RelativeTo{
		Plain: &duration.PlainRelative{Date: d.date, Calendar: d.cal},
	}}
}

// RelativeToZonedDateTime anchors at an exact instant in a zone, so day
// lengths follow the zone. The provider resolves the zone's transitions.
func RelativeToZonedDateTime(z ZonedDateTime, provider tz.Provider) RelativeTo {
	return RelativeTo{inner: duration.RelativeTo{
		Zoned: &duration.ZonedRelative{
			Epoch: z.ns, Zone: z.zone, Calendar: z.cal, Provider: provider,
		},
	}}
}

// Round rounds and rebalances the duration per opts; calendar units
// require a relative anchor.
func (d Duration) Round(opts options.RoundingOptions, rel RelativeTo) (Duration, error) {
	out, err := duration.Round(d.inner, opts, rel.inner)
	if err != nil {
		return Duration{}, err
	}
	return Duration{inner: out}, nil
}

// Total returns the signed fractional count of unit in the duration.
func (d Duration) Total(unit options.Unit, rel RelativeTo) (float64, error) {
	return duration.Total(d.inner, unit, rel.inner)
}

// Compare orders two calendar-free durations by their exact spans.
func (d Duration) Compare(other Duration) (int, error) {
	return d.inner.Compare(other.inner)
}

// String formats the canonical ISO 8601 form.
func (d Duration) String() string {
	return ixdtf.FormatDuration(ixdtf.DurationRecord{
		Years: d.Years(), Months: d.Months(), Weeks: d.Weeks(), Days: d.Days(),
		Hours: d.Hours(), Minutes: d.Minutes(), Seconds: d.Seconds(),
		Milliseconds: d.Milliseconds(), Microseconds: d.Microseconds(),
		Nanoseconds: d.Nanoseconds(),
	}, ixdtf.Precision{})
}

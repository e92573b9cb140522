package temporal

import (
	"github.com/theory/temporal/calendar"
	"github.com/theory/temporal/duration"
	"github.com/theory/temporal/epoch"
	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/iso"
	"github.com/theory/temporal/ixdtf"
	"github.com/theory/temporal/options"
	"github.com/theory/temporal/tz"
)

// ZonedDateTime is an exact instant paired with a time zone and a
// calendar, so it has both a time line position and a wall-clock
// reading.
type ZonedDateTime struct {
	ns   epoch.Nanoseconds
	zone tz.Zone
	cal  calendar.Calendar
}

// NewZonedDateTime validates the epoch count and pairs it with the zone
// and calendar.
func NewZonedDateTime(ns epoch.Nanoseconds, zone tz.Zone, cal calendar.Calendar) (ZonedDateTime, error) {
	if err := ns.Check(); err != nil {
		return ZonedDateTime{}, err
	}
	return ZonedDateTime{ns: ns, zone: zone, cal: cal}, nil
}

// ZonedFromPlainDateTime resolves a wall date-time in a zone.
func ZonedFromPlainDateTime(dt PlainDateTime, zone tz.Zone, disambiguation options.Disambiguation, provider tz.Provider) (ZonedDateTime, error) {
	return dt.ToZonedDateTime(zone, disambiguation, provider)
}

// ParseZonedDateTime parses an RFC 9557 string with a time zone
// annotation. The offset option reconciles a numeric offset in the
// string with the annotated zone.
func ParseZonedDateTime(s string, disambiguation options.Disambiguation, offsetOption options.OffsetHandling, provider tz.Provider) (ZonedDateTime, error) {
	res, err := ixdtf.ParseZonedDateTime(s)
	if err != nil {
		return ZonedDateTime{}, err
	}
	cal, err := calendarFromAnnotation(res)
	if err != nil {
		return ZonedDateTime{}, err
	}

	var zone tz.Zone
	if res.TimeZone.IsOffset {
		zone, err = tz.Offset(res.TimeZone.OffsetNs)
	} else {
		zone, err = tz.Iana(res.TimeZone.Name, provider)
	}
	if err != nil {
		return ZonedDateTime{}, err
	}

	pdt, err := dateTimeFromRecords(res, cal)
	if err != nil {
		return ZonedDateTime{}, err
	}

	// A Z designator means the wall time is UTC regardless of the zone.
	if res.HasUTCDesignator {
		utc, err := pdt.dt.EpochNanoseconds()
		if err != nil {
			return ZonedDateTime{}, err
		}
		return NewZonedDateTime(utc, zone, cal)
	}

	if res.OffsetNs != nil && offsetOption != options.OffsetIgnore {
		utc, err := pdt.dt.EpochNanoseconds()
		if err != nil {
			return ZonedDateTime{}, err
		}
		exact, err := utc.AddInt64(-*res.OffsetNs)
		if err != nil {
			return ZonedDateTime{}, err
		}
		switch offsetOption {
		case options.OffsetUse:
			return NewZonedDateTime(exact, zone, cal)
		default:
			// Prefer and Reject check the offset against the zone.
			possible, err := zone.PossibleEpochNanosecondsFor(pdt.dt, provider)
			if err != nil {
				return ZonedDateTime{}, err
			}
			for _, candidate := range possible {
				off, err := zone.OffsetNanosecondsFor(candidate, provider)
				if err != nil {
					return ZonedDateTime{}, err
				}
				if off == *res.OffsetNs {
					return NewZonedDateTime(candidate, zone, cal)
				}
			}
			if offsetOption == options.OffsetReject {
				return ZonedDateTime{}, errs.Rangef(
					"offset %s is not valid for %s", ixdtf.FormatOffsetFull(*res.OffsetNs), zone.Identifier())
			}
		}
	}

	ns, err := zone.EpochNanosecondsFor(pdt.dt, disambiguation, provider)
	if err != nil {
		return ZonedDateTime{}, err
	}
	return NewZonedDateTime(ns, zone, cal)
}

// EpochNanoseconds returns the exact instant.
func (z ZonedDateTime) EpochNanoseconds() epoch.Nanoseconds { return z.ns }

// TimeZone returns the zone.
func (z ZonedDateTime) TimeZone() tz.Zone { return z.zone }

// Calendar returns the calendar.
func (z ZonedDateTime) Calendar() calendar.Calendar { return z.cal }

// ToInstant drops the zone and calendar.
func (z ZonedDateTime) ToInstant() Instant { return Instant{ns: z.ns} }

// OffsetNanoseconds returns the zone's UTC offset at the instant.
func (z ZonedDateTime) OffsetNanoseconds(provider tz.Provider) (int64, error) {
	return z.zone.OffsetNanosecondsFor(z.ns, provider)
}

// Offset returns the formatted UTC offset at the instant.
func (z ZonedDateTime) Offset(provider tz.Provider) (string, error) {
	off, err := z.OffsetNanoseconds(provider)
	if err != nil {
		return "", err
	}
	return ixdtf.FormatOffsetFull(off), nil
}

// wallDateTime projects the instant to the zone's wall clock.
func (z ZonedDateTime) wallDateTime(provider tz.Provider) (iso.DateTime, error) {
	return z.zone.IsoDateTimeFor(z.ns, provider)
}

// ToPlainDateTime returns the wall date-time.
func (z ZonedDateTime) ToPlainDateTime(provider tz.Provider) (PlainDateTime, error) {
	dt, err := z.wallDateTime(provider)
	if err != nil {
		return PlainDateTime{}, err
	}
	return PlainDateTime{dt: dt, cal: z.cal}, nil
}

// ToPlainDate returns the wall date.
func (z ZonedDateTime) ToPlainDate(provider tz.Provider) (PlainDate, error) {
	dt, err := z.wallDateTime(provider)
	if err != nil {
		return PlainDate{}, err
	}
	return PlainDate{date: dt.Date, cal: z.cal}, nil
}

// ToPlainTime returns the wall time.
func (z ZonedDateTime) ToPlainTime(provider tz.Provider) (PlainTime, error) {
	dt, err := z.wallDateTime(provider)
	if err != nil {
		return PlainTime{}, err
	}
	return PlainTime{time: dt.Time}, nil
}

// WithTimeZone reinterprets the same instant in another zone.
func (z ZonedDateTime) WithTimeZone(zone tz.Zone) ZonedDateTime {
	return ZonedDateTime{ns: z.ns, zone: zone, cal: z.cal}
}

// WithCalendar reinterprets the same instant in another calendar.
func (z ZonedDateTime) WithCalendar(cal calendar.Calendar) ZonedDateTime {
	return ZonedDateTime{ns: z.ns, zone: z.zone, cal: cal}
}

// With derives a value with wall-clock fields replaced, resolving the
// new wall time in the zone.
func (z ZonedDateTime) With(partial PartialDateTime, overflow options.Overflow, disambiguation options.Disambiguation, provider tz.Provider) (ZonedDateTime, error) {
	pdt, err := z.ToPlainDateTime(provider)
	if err != nil {
		return ZonedDateTime{}, err
	}
	updated, err := pdt.With(partial, overflow)
	if err != nil {
		return ZonedDateTime{}, err
	}
	return updated.ToZonedDateTime(z.zone, disambiguation, provider)
}

// Add adds a duration: the date portion in wall-clock space under
// Compatible disambiguation, then the time portion in epoch space.
func (z ZonedDateTime) Add(dur Duration, overflow options.Overflow, provider tz.Provider) (ZonedDateTime, error) {
	dd, err := dur.inner.DateDuration()
	if err != nil {
		return ZonedDateTime{}, err
	}
	td, err := dur.inner.TimeDuration()
	if err != nil {
		return ZonedDateTime{}, err
	}

	ns := z.ns
	if !dd.IsZero() {
		wall, err := z.wallDateTime(provider)
		if err != nil {
			return ZonedDateTime{}, err
		}
		added, err := z.cal.DateAdd(wall.Date, dd.Years, dd.Months, dd.Weeks, dd.Days, overflow)
		if err != nil {
			return ZonedDateTime{}, err
		}
		ns, err = z.zone.EpochNanosecondsFor(
			iso.DateTime{Date: added, Time: wall.Time},
			options.DisambiguationCompatible, provider,
		)
		if err != nil {
			return ZonedDateTime{}, err
		}
	}
	ns, err = ns.Add(td.Ns())
	if err != nil {
		return ZonedDateTime{}, err
	}
	return NewZonedDateTime(ns, z.zone, z.cal)
}

// Subtract is Add of the negation.
func (z ZonedDateTime) Subtract(dur Duration, overflow options.Overflow, provider tz.Provider) (ZonedDateTime, error) {
	return z.Add(dur.Negated(), overflow, provider)
}

// Until returns the duration from z to other, rounded per opts. Largest
// units above hours produce calendar differences in z's zone.
func (z ZonedDateTime) Until(other ZonedDateTime, opts options.RoundingOptions, provider tz.Provider) (Duration, error) {
	return zonedUntil(z, other, opts, provider)
}

// Since returns the duration from other to z, rounded per opts.
func (z ZonedDateTime) Since(other ZonedDateTime, opts options.RoundingOptions, provider tz.Provider) (Duration, error) {
	opts.Mode = opts.Mode.Negated()
	d, err := zonedUntil(z, other, opts, provider)
	if err != nil {
		return Duration{}, err
	}
	return d.Negated(), nil
}

func zonedUntil(a, b ZonedDateTime, opts options.RoundingOptions, provider tz.Provider) (Duration, error) {
	if a.cal != b.cal {
		return Duration{}, errs.Generic("cannot difference values in different calendars")
	}
	if opts.LargestUnit == options.UnitAuto {
		opts.LargestUnit = options.UnitHour.Max(opts.SmallestUnit)
	}
	if opts.SmallestUnit == options.UnitAuto {
		opts.SmallestUnit = options.UnitNanosecond
	}

	// Pure time units reduce to the instant difference.
	if opts.LargestUnit.IsTimeUnit() {
		return instantUntil(Instant{ns: a.ns}, Instant{ns: b.ns}, opts)
	}
	if !a.zone.Equals(b.zone) {
		return Duration{}, errs.Range(
			"date difference between zoned values requires matching time zones")
	}

	// Date portion in wall-clock space, remainder in epoch space.
	wallA, err := a.wallDateTime(provider)
	if err != nil {
		return Duration{}, err
	}
	wallB, err := b.wallDateTime(provider)
	if err != nil {
		return Duration{}, err
	}
	diff, err := iso.DiffDateTime(wallA, wallB, opts.LargestUnit, a.cal.DateUntil)
	if err != nil {
		return Duration{}, err
	}

	// Recompute the day span against the zone so variable-length days
	// stay exact: land the date portion, then take the leftover time.
	dd := duration.DateDuration{
		Years: diff.Years, Months: diff.Months, Weeks: diff.Weeks, Days: diff.Days,
	}
	intermediate, err := a.cal.DateAdd(wallA.Date, dd.Years, dd.Months, dd.Weeks, dd.Days, options.OverflowConstrain)
	if err != nil {
		return Duration{}, err
	}
	landed, err := a.zone.EpochNanosecondsFor(
		iso.DateTime{Date: intermediate, Time: wallA.Time},
		options.DisambiguationCompatible, provider,
	)
	if err != nil {
		return Duration{}, err
	}
	remainder, err := duration.NewTimeDuration(b.ns.Diff(landed))
	if err != nil {
		return Duration{}, err
	}

	dur, err := duration.FromDateAndTime(dd, remainder, options.UnitHour)
	if err != nil {
		return Duration{}, err
	}
	if opts.SmallestUnit == options.UnitNanosecond && opts.Increment == options.IncrementOne {
		return Duration{inner: dur}, nil
	}
	rounded, err := duration.Round(dur, opts, duration.RelativeTo{
		Zoned: &duration.ZonedRelative{
			Epoch: a.ns, Zone: a.zone, Calendar: a.cal, Provider: provider,
		},
	})
	if err != nil {
		return Duration{}, err
	}
	return Duration{inner: rounded}, nil
}

// Round rounds the wall-clock reading; rounding to days uses the actual
// day length in the zone.
func (z ZonedDateTime) Round(opts options.RoundingOptions, provider tz.Provider) (ZonedDateTime, error) {
	if opts.SmallestUnit == options.UnitAuto {
		return ZonedDateTime{}, errs.Range("round requires a smallest unit")
	}
	wall, err := z.wallDateTime(provider)
	if err != nil {
		return ZonedDateTime{}, err
	}

	if opts.SmallestUnit == options.UnitDay {
		if err := opts.Increment.Validate(1, true); err != nil {
			return ZonedDateTime{}, err
		}
		start, err := z.zone.StartOfDay(wall.Date, provider)
		if err != nil {
			return ZonedDateTime{}, err
		}
		nextDate := iso.BalanceDate(int(wall.Date.Year), int(wall.Date.Month), int(wall.Date.Day)+1)
		end, err := z.zone.StartOfDay(nextDate, provider)
		if err != nil {
			return ZonedDateTime{}, err
		}
		// Position within the day decides the rounding direction.
		num := z.ns.Diff(start)
		den := end.Diff(start)
		rounded, err := epoch.RoundNumberToIncrement(num, den, opts.Mode)
		if err != nil {
			return ZonedDateTime{}, err
		}
		if rounded.IsZero() {
			return NewZonedDateTime(start, z.zone, z.cal)
		}
		return NewZonedDateTime(end, z.zone, z.cal)
	}

	if max, bounded := opts.SmallestUnit.MaxIncrement(); bounded {
		if err := opts.Increment.Validate(max, false); err != nil {
			return ZonedDateTime{}, err
		}
	} else {
		return ZonedDateTime{}, errs.Rangef("invalid unit for rounding: %s", opts.SmallestUnit)
	}
	roundedWall, err := wall.Round(opts.SmallestUnit, opts.Increment, opts.Mode)
	if err != nil {
		return ZonedDateTime{}, err
	}
	ns, err := z.zone.EpochNanosecondsFor(roundedWall, options.DisambiguationCompatible, provider)
	if err != nil {
		return ZonedDateTime{}, err
	}
	return NewZonedDateTime(ns, z.zone, z.cal)
}

// StartOfDay returns the first instant of the value's wall date.
func (z ZonedDateTime) StartOfDay(provider tz.Provider) (ZonedDateTime, error) {
	wall, err := z.wallDateTime(provider)
	if err != nil {
		return ZonedDateTime{}, err
	}
	ns, err := z.zone.StartOfDay(wall.Date, provider)
	if err != nil {
		return ZonedDateTime{}, err
	}
	return NewZonedDateTime(ns, z.zone, z.cal)
}

// HoursInDay returns the length of the value's wall day in hours, which
// is non-integral across DST transitions.
func (z ZonedDateTime) HoursInDay(provider tz.Provider) (float64, error) {
	wall, err := z.wallDateTime(provider)
	if err != nil {
		return 0, err
	}
	start, err := z.zone.StartOfDay(wall.Date, provider)
	if err != nil {
		return 0, err
	}
	nextDate := iso.BalanceDate(int(wall.Date.Year), int(wall.Date.Month), int(wall.Date.Day)+1)
	end, err := z.zone.StartOfDay(nextDate, provider)
	if err != nil {
		return 0, err
	}
	span := end.Diff(start)
	return span.Float64() / 3_600_000_000_000, nil
}

// Equals reports whether both values name the same instant in the same
// zone and calendar.
func (z ZonedDateTime) Equals(other ZonedDateTime) bool {
	return z.ns.Compare(other.ns) == 0 && z.zone.Equals(other.zone) && z.cal == other.cal
}

// Compare orders the instants, ignoring zones and calendars.
func (z ZonedDateTime) Compare(other ZonedDateTime) int { return z.ns.Compare(other.ns) }

// String formats the value with its offset and annotations.
func (z ZonedDateTime) String(provider tz.Provider) (string, error) {
	return z.Format(ToStringOptions{}, provider)
}

// Format formats the value under the given options.
func (z ZonedDateTime) Format(opts ToStringOptions, provider tz.Provider) (string, error) {
	offset, err := z.OffsetNanoseconds(provider)
	if err != nil {
		return "", err
	}
	wall, err := z.wallDateTime(provider)
	if err != nil {
		return "", err
	}
	if inc := precisionIncrement(opts.Precision); inc > 1 {
		if rounded, err := wall.Round(options.UnitNanosecond, options.Increment(inc), opts.RoundingMode); err == nil {
			wall = rounded
		}
	}

	out := ixdtf.FormatDate(int(wall.Date.Year), int(wall.Date.Month), int(wall.Date.Day)) +
		"T" + ixdtf.FormatTime(timeRecord(wall.Time), opts.Precision)
	if !opts.HideOffset {
		out += ixdtf.FormatOffsetMinutes(offset)
	}
	if opts.TimeZone != options.DisplayTimeZoneNever {
		out += ixdtf.FormatTimeZoneAnnotation(
			z.zone.Identifier(), opts.TimeZone == options.DisplayTimeZoneCritical)
	}
	return out + ixdtf.FormatCalendarAnnotation(z.cal.ID(), opts.Calendar), nil
}

package temporal

import (
	"github.com/theory/temporal/calendar"
	"github.com/theory/temporal/duration"
	"github.com/theory/temporal/epoch"
	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/internal/i128"
	"github.com/theory/temporal/iso"
	"github.com/theory/temporal/ixdtf"
	"github.com/theory/temporal/options"
	"github.com/theory/temporal/tz"
)

// Instant is an exact point on the time line, a 128-bit epoch
// nanosecond count with no calendar or time zone.
type Instant struct {
	ns epoch.Nanoseconds
}

// NewInstant validates the epoch count against the instant window.
func NewInstant(ns epoch.Nanoseconds) (Instant, error) {
	if err := ns.Check(); err != nil {
		return Instant{}, err
	}
	return Instant{ns: ns}, nil
}

// InstantFromEpochMilliseconds builds an Instant from Unix milliseconds.
func InstantFromEpochMilliseconds(ms int64) (Instant, error) {
	v, over := i128.FromInt64(ms).Mul64(1_000_000)
	if over {
		return Instant{}, errs.Range("epoch milliseconds out of range")
	}
	return NewInstant(epoch.New(v))
}

// ParseInstant parses an RFC 9557 exact-time string; the offset or Z is
// required.
func ParseInstant(s string) (Instant, error) {
	res, err := ixdtf.ParseInstant(s)
	if err != nil {
		return Instant{}, err
	}
	if _, err := calendarFromAnnotation(res); err != nil {
		return Instant{}, err
	}
	dt, err := dateTimeFromRecords(res, calendar.Iso)
	if err != nil {
		return Instant{}, err
	}
	utc, err := dt.dt.EpochNanoseconds()
	if err != nil {
		return Instant{}, err
	}
	var offset int64
	if res.OffsetNs != nil {
		offset = *res.OffsetNs
	}
	ns, err := utc.AddInt64(-offset)
	if err != nil {
		return Instant{}, err
	}
	return NewInstant(ns)
}

// EpochNanoseconds returns the epoch count.
func (in Instant) EpochNanoseconds() epoch.Nanoseconds { return in.ns }

// EpochMilliseconds returns the epoch count in milliseconds, truncated
// toward the beginning of time.
func (in Instant) EpochMilliseconds() int64 {
	q, r := in.ns.Value().DivMod(i128.FromInt64(1_000_000))
	ms, _ := q.ToInt64()
	if r.Sign() < 0 {
		ms--
	}
	return ms
}

// Add adds a calendar-free duration.
func (in Instant) Add(d Duration) (Instant, error) {
	if d.inner.HasCalendarUnits() || d.inner.Days() != 0 {
		return Instant{}, errs.Range("instant arithmetic accepts time units only")
	}
	td, err := d.inner.TimeDuration()
	if err != nil {
		return Instant{}, err
	}
	ns, err := in.ns.Add(td.Ns())
	if err != nil {
		return Instant{}, err
	}
	return Instant{ns: ns}, nil
}

// Subtract is Add of the negation.
func (in Instant) Subtract(d Duration) (Instant, error) {
	return in.Add(d.Negated())
}

// Until returns the duration from in to other in time units, rounded
// per opts. The largest unit defaults to seconds.
func (in Instant) Until(other Instant, opts options.RoundingOptions) (Duration, error) {
	return instantUntil(in, other, opts)
}

// Since returns the duration from other to in, rounded per opts.
func (in Instant) Since(other Instant, opts options.RoundingOptions) (Duration, error) {
	opts.Mode = opts.Mode.Negated()
	d, err := instantUntil(in, other, opts)
	if err != nil {
		return Duration{}, err
	}
	return d.Negated(), nil
}

func instantUntil(a, b Instant, opts options.RoundingOptions) (Duration, error) {
	if opts.LargestUnit == options.UnitAuto {
		opts.LargestUnit = options.UnitSecond.Max(opts.SmallestUnit)
	}
	if !opts.LargestUnit.IsTimeUnit() ||
		(opts.SmallestUnit != options.UnitAuto && !opts.SmallestUnit.IsTimeUnit()) {
		return Duration{}, errs.Range("instant difference units must be hours or smaller")
	}
	diff, err := duration.NewTimeDuration(b.ns.Diff(a.ns))
	if err != nil {
		return Duration{}, err
	}
	d, err := duration.FromDateAndTime(duration.DateDuration{}, diff, options.UnitHour)
	if err != nil {
		return Duration{}, err
	}
	out, err := duration.Round(d, opts, duration.RelativeTo{})
	if err != nil {
		return Duration{}, err
	}
	return Duration{inner: out}, nil
}

// Round rounds the instant; the increment times the unit must divide a
// 24-hour day.
func (in Instant) Round(opts options.RoundingOptions) (Instant, error) {
	if opts.SmallestUnit == options.UnitAuto {
		return Instant{}, errs.Range("round requires a smallest unit")
	}
	unitNs, ok := opts.SmallestUnit.Nanoseconds()
	if !ok || opts.SmallestUnit == options.UnitDay {
		return Instant{}, errs.Rangef("invalid unit for instant rounding: %s", opts.SmallestUnit)
	}
	// The increment may reach a full day, but must divide it evenly.
	if opts.Increment < 1 {
		return Instant{}, errs.Range("rounding increment must be at least 1")
	}
	total := unitNs * int64(opts.Increment)
	if total > epoch.NsPerDay || epoch.NsPerDay%total != 0 {
		return Instant{}, errs.Rangef(
			"increment %d %ss does not divide a day", opts.Increment, opts.SmallestUnit)
	}
	incNs := i128.FromInt64(total)
	ns, err := in.ns.RoundToIncrement(incNs, opts.Mode)
	if err != nil {
		return Instant{}, err
	}
	return Instant{ns: ns}, nil
}

// Equals reports whether both instants name the same moment.
func (in Instant) Equals(other Instant) bool { return in.ns.Compare(other.ns) == 0 }

// Compare orders instants chronologically.
func (in Instant) Compare(other Instant) int { return in.ns.Compare(other.ns) }

// ToZonedDateTime pairs the instant with a zone and calendar.
func (in Instant) ToZonedDateTime(zone tz.Zone, cal calendar.Calendar) ZonedDateTime {
	return ZonedDateTime{ns: in.ns, zone: zone, cal: cal}
}

// String formats the instant in UTC with a Z designator.
func (in Instant) String() string { return in.Format(ToStringOptions{}) }

// Format formats the instant under the given options, always in UTC.
func (in Instant) Format(opts ToStringOptions) string {
	ns := in.ns
	if inc := precisionIncrement(opts.Precision); inc > 1 {
		if rounded, err := ns.RoundToIncrement(i128.FromInt64(int64(inc)), opts.RoundingMode); err == nil {
			ns = rounded
		}
	}
	dt, err := iso.DateTimeFromEpoch(ns, 0)
	if err != nil {
		return "<instant out of range>"
	}
	return ixdtf.FormatDate(int(dt.Date.Year), int(dt.Date.Month), int(dt.Date.Day)) +
		"T" + ixdtf.FormatTime(timeRecord(dt.Time), opts.Precision) + "Z"
}

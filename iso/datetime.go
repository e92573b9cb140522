package iso

import (
	"github.com/theory/temporal/epoch"
	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/internal/i128"
	"github.com/theory/temporal/options"
)

// DateTime is the canonical wall representation: a Date plus a Time.
type DateTime struct {
	Date Date
	Time Time
}

// NewDateTime validates that the combination lies within the valid
// date-time window.
func NewDateTime(d Date, t Time) (DateTime, error) {
	if !dateTimeWithinLimits(d, t) {
		return DateTime{}, errs.Range("date-time outside of valid ISO range")
	}
	return DateTime{Date: d, Time: t}, nil
}

// Compare orders dt against other chronologically.
func (dt DateTime) Compare(other DateTime) int {
	if c := dt.Date.Compare(other.Date); c != 0 {
		return c
	}
	return dt.Time.Compare(other.Time)
}

// WithinLimits reports whether dt lies inside the valid date-time window,
// the instant window padded by one day on each side.
func (dt DateTime) WithinLimits() bool {
	return dateTimeWithinLimits(dt.Date, dt.Time)
}

// EpochNanoseconds interprets dt as UTC and returns its epoch count.
func (dt DateTime) EpochNanoseconds() (epoch.Nanoseconds, error) {
	return epoch.FromParts(int64(dt.Date.EpochDays()), dt.Time.NanosecondsInDay())
}

// BalanceDateTime balances arbitrary signed components into a DateTime.
func BalanceDateTime(year, month, day int, hour, minute, second, ms, us, ns int64) DateTime {
	carry, t := BalanceTime(hour, minute, second, ms, us, ns)
	d := BalanceDate(year, month, day+int(carry))
	return DateTime{Date: d, Time: t}
}

// DateTimeFromEpoch converts an epoch nanosecond count to the wall
// date-time at the given offset from UTC.
func DateTimeFromEpoch(ns epoch.Nanoseconds, offsetNs int64) (DateTime, error) {
	local, over := ns.Value().Add(i128.FromInt64(offsetNs))
	if over {
		return DateTime{}, errs.Range("epoch nanoseconds out of range")
	}
	days, rem := local.DivMod(i128.FromInt64(epoch.NsPerDay))
	dayCount, ok := days.ToInt64()
	if !ok {
		return DateTime{}, errs.Range("epoch nanoseconds out of range")
	}
	inDay, _ := rem.ToInt64()
	if inDay < 0 {
		dayCount--
		inDay += epoch.NsPerDay
	}
	if dayCount > maxBalanceDays || dayCount < -maxBalanceDays {
		return DateTime{}, errs.Range("epoch nanoseconds out of range")
	}
	return DateTime{
		Date: dateFromEpochDaysI64(dayCount),
		Time: timeFromNanosecondsInDay(inDay),
	}, nil
}

// AddTime applies a nanosecond delta to the time portion, balancing the
// day carry into the date.
func (dt DateTime) AddTime(ns i128.Int128) (DateTime, error) {
	carry, t := dt.Time.Add(ns)
	d := BalanceDate(int(dt.Date.Year), int(dt.Date.Month), int(dt.Date.Day)+int(carry))
	return NewDateTime(d, t)
}

// Round rounds the time portion, balancing any day carry into the date.
func (dt DateTime) Round(smallest options.Unit, inc options.Increment, mode options.RoundingMode) (DateTime, error) {
	carry, t, err := dt.Time.Round(smallest, inc, mode)
	if err != nil {
		return DateTime{}, err
	}
	d := BalanceDate(int(dt.Date.Year), int(dt.Date.Month), int(dt.Date.Day)+int(carry))
	return NewDateTime(d, t)
}

// DateUntilFunc computes a calendar-aware date difference; the ISO
// reference implementation is [Date.DateUntil], and non-ISO calendars
// substitute their own.
type DateUntilFunc func(a, b Date, largest options.Unit) (years, months, weeks, days int64, err error)

// DiffResult is the two-part difference produced by [DiffDateTime].
type DiffResult struct {
	Years  int64
	Months int64
	Weeks  int64
	Days   int64
	// TimeNs is the sub-day remainder in nanoseconds.
	TimeNs i128.Int128
}

// DiffDateTime computes other - dt as a date part in calendar units up to
// largest plus a nanosecond remainder, adjusting the intermediate date so
// the two parts never disagree in sign.
func DiffDateTime(dt, other DateTime, largest options.Unit, dateUntil DateUntilFunc) (DiffResult, error) {
	h, mi, s, ms, us, ns := dt.Time.Diff(other.Time)
	timeNs := i128.FromInt64(((int64(h)*60+int64(mi))*60+int64(s))*1_000_000_000 +
		int64(ms)*1_000_000 + int64(us)*1_000 + int64(ns))

	timeSign := timeNs.Sign()
	dateSign := other.Date.Compare(dt.Date)
	adjusted := other.Date
	if timeSign == -dateSign && timeSign != 0 {
		adjusted = BalanceDate(int(adjusted.Year), int(adjusted.Month), int(adjusted.Day)+timeSign)
		withDays, over := timeNs.Add(i128.FromInt64(int64(-timeSign) * epoch.NsPerDay))
		if over {
			return DiffResult{}, errs.Range("date-time difference out of range")
		}
		timeNs = withDays
	}

	dateLargest := largest.Max(options.UnitDay)
	y, mo, w, d, err := dateUntil(dt.Date, adjusted, dateLargest)
	if err != nil {
		return DiffResult{}, err
	}

	if largest != dateLargest {
		// Sub-day largest unit: fold the day difference into nanoseconds.
		dayNs, over := i128.FromInt64(d).Mul64(epoch.NsPerDay)
		if over {
			return DiffResult{}, errs.Range("date-time difference out of range")
		}
		timeNs, over = timeNs.Add(dayNs)
		if over {
			return DiffResult{}, errs.Range("date-time difference out of range")
		}
		d = 0
	}

	return DiffResult{Years: y, Months: mo, Weeks: w, Days: d, TimeNs: timeNs}, nil
}

func dateTimeWithinLimits(d Date, t Time) bool {
	days := epochDaysFor(int(d.Year), int(d.Month), int(d.Day))
	if days > maxBalanceDays || days < -maxBalanceDays {
		return false
	}
	ns, err := epoch.FromParts(days, t.NanosecondsInDay())
	if err != nil {
		return false
	}
	limit, over := i128.FromInt64(epoch.NsPerDay).Mul64(100_000_000)
	if over {
		return false
	}
	limit, over = limit.Add(i128.FromInt64(epoch.NsPerDay))
	if over {
		return false
	}
	return ns.Value().Abs().Cmp(limit) <= 0
}

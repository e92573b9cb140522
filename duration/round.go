package duration

import (
	"math"

	"github.com/theory/temporal/calendar"
	"github.com/theory/temporal/epoch"
	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/internal/i128"
	"github.com/theory/temporal/iso"
	"github.com/theory/temporal/options"
	"github.com/theory/temporal/tz"
)

// PlainRelative anchors calendar-unit rounding at a calendar date.
type PlainRelative struct {
	Date     iso.Date
	Time     iso.Time
	Calendar calendar.Calendar
}

// ZonedRelative anchors rounding at an exact instant in a time zone, so
// day lengths follow the zone's transitions.
type ZonedRelative struct {
	Epoch    epoch.Nanoseconds
	Zone     tz.Zone
	Calendar calendar.Calendar
	Provider tz.Provider
}

// RelativeTo is the optional anchor for rounding and totaling. At most
// one of the two fields is set.
type RelativeTo struct {
	Plain *PlainRelative
	Zoned *ZonedRelative
}

// IsZero reports whether no anchor was provided.
func (r RelativeTo) IsZero() bool { return r.Plain == nil && r.Zoned == nil }

// resolved rounding options for a duration operation.
type resolvedRound struct {
	smallest options.Unit
	largest  options.Unit
	inc      options.Increment
	mode     options.RoundingMode
}

func resolveRound(d Duration, opts options.RoundingOptions) (resolvedRound, error) {
	smallest := opts.SmallestUnit
	if smallest == options.UnitAuto {
		smallest = options.UnitNanosecond
	}
	largest := opts.LargestUnit
	if largest == options.UnitAuto {
		largest = d.LargestUnit().Max(smallest)
	}
	if smallest > largest {
		return resolvedRound{}, errs.Rangef(
			"smallest unit %s exceeds largest unit %s", smallest, largest)
	}
	inc := opts.Increment
	if inc < 1 {
		return resolvedRound{}, errs.Range("rounding increment must be at least 1")
	}
	if max, bounded := smallest.MaxIncrement(); bounded {
		if err := inc.Validate(max, false); err != nil {
			return resolvedRound{}, err
		}
	}
	return resolvedRound{smallest: smallest, largest: largest, inc: inc, mode: opts.Mode}, nil
}

// Round rounds and rebalances d under the provided options. Calendar
// units, and day rounding under a time zone, require a relative anchor.
func Round(d Duration, opts options.RoundingOptions, rel RelativeTo) (Duration, error) {
	res, err := resolveRound(d, opts)
	if err != nil {
		return Duration{}, err
	}

	needsRelative := d.HasCalendarUnits() ||
		res.largest.IsCalendarUnit() || res.smallest.IsCalendarUnit()
	if needsRelative && rel.IsZero() {
		return Duration{}, errs.Range("rounding across calendar units requires relativeTo")
	}

	if rel.IsZero() {
		return roundAbsolute(d, res)
	}
	return roundRelative(d, res, rel)
}

// roundAbsolute is the calendar-free fast path: days fold into the time
// portion, which rounds by increment and balances back out.
func roundAbsolute(d Duration, res resolvedRound) (Duration, error) {
	td, err := d.TimeDuration()
	if err != nil {
		return Duration{}, err
	}
	days, err := Finite(d.Days()).asInt64()
	if err != nil {
		return Duration{}, err
	}
	norm, err := td.AddDays(days)
	if err != nil {
		return Duration{}, err
	}

	unitNs, ok := res.smallest.Nanoseconds()
	if !ok {
		return Duration{}, errs.Assert("absolute rounding with calendar unit")
	}
	incNs, over := i128.FromInt64(unitNs).Mul64(int64(res.inc))
	if over {
		return Duration{}, errs.Range("rounding increment out of range")
	}
	rounded, err := norm.RoundToIncrement(incNs, res.mode)
	if err != nil {
		return Duration{}, err
	}

	if res.largest >= options.UnitDay {
		outDays, rem := rounded.DaysAndRemainder()
		return FromDateAndTime(DateDuration{Days: outDays}, rem, options.UnitHour)
	}
	return FromDateAndTime(DateDuration{}, rounded, res.largest)
}

// relativeAnchor is the resolved rounding anchor.
type relativeAnchor struct {
	dt       iso.DateTime
	cal      calendar.Calendar
	zone     *tz.Zone
	provider tz.Provider
	epochNs  i128.Int128
}

func resolveAnchor(rel RelativeTo) (relativeAnchor, error) {
	if rel.Zoned != nil {
		z := rel.Zoned
		offset, err := z.Zone.OffsetNanosecondsFor(z.Epoch, z.Provider)
		if err != nil {
			return relativeAnchor{}, err
		}
		dt, err := iso.DateTimeFromEpoch(z.Epoch, offset)
		if err != nil {
			return relativeAnchor{}, err
		}
		return relativeAnchor{
			dt: dt, cal: z.Calendar, zone: &z.Zone,
			provider: z.Provider, epochNs: z.Epoch.Value(),
		}, nil
	}
	dt, err := iso.NewDateTime(rel.Plain.Date, rel.Plain.Time)
	if err != nil {
		return relativeAnchor{}, err
	}
	ns, err := dt.EpochNanoseconds()
	if err != nil {
		return relativeAnchor{}, err
	}
	return relativeAnchor{dt: dt, cal: rel.Plain.Calendar, epochNs: ns.Value()}, nil
}

// epochFor projects a wall date-time through the anchor's zone, or
// interprets it as UTC for plain anchors.
func (an *relativeAnchor) epochFor(dt iso.DateTime) (i128.Int128, error) {
	if an.zone != nil {
		ns, err := an.zone.EpochNanosecondsFor(dt, options.DisambiguationCompatible, an.provider)
		if err != nil {
			return i128.Zero, err
		}
		return ns.Value(), nil
	}
	ns, err := dt.EpochNanoseconds()
	if err != nil {
		return i128.Zero, err
	}
	return ns.Value(), nil
}

// addToAnchor adds a two-part duration to the anchor's wall date-time:
// date fields through the calendar, then the time portion.
func (an *relativeAnchor) addToAnchor(date DateDuration, time TimeDuration) (iso.DateTime, error) {
	carry, t := an.dt.Time.Add(time.Ns())
	added, err := an.cal.DateAdd(
		an.dt.Date, date.Years, date.Months, date.Weeks, date.Days+carry,
		options.OverflowConstrain,
	)
	if err != nil {
		return iso.DateTime{}, err
	}
	return iso.DateTime{Date: added, Time: t}, nil
}

// destEpoch computes the exact epoch target of anchor + duration.
func (an *relativeAnchor) destEpoch(date DateDuration, time TimeDuration) (i128.Int128, error) {
	if an.zone != nil {
		// Date portion in wall-clock space, then time in epoch space.
		wall, err := an.addToAnchor(date, TimeDuration{})
		if err != nil {
			return i128.Zero, err
		}
		ns, err := an.epochFor(wall)
		if err != nil {
			return i128.Zero, err
		}
		sum, over := ns.Add(time.Ns())
		if over {
			return i128.Zero, errs.Range("duration addition out of range")
		}
		return sum, nil
	}
	dt, err := an.addToAnchor(date, time)
	if err != nil {
		return i128.Zero, err
	}
	return an.epochFor(dt)
}

func roundRelative(d Duration, res resolvedRound, rel RelativeTo) (Duration, error) {
	an, err := resolveAnchor(rel)
	if err != nil {
		return Duration{}, err
	}
	date, err := d.DateDuration()
	if err != nil {
		return Duration{}, err
	}
	time, err := d.TimeDuration()
	if err != nil {
		return Duration{}, err
	}
	rec, err := newNormalized(date, time)
	if err != nil {
		return Duration{}, err
	}

	dest, err := an.destEpoch(date, time)
	if err != nil {
		return Duration{}, err
	}

	// A sub-day largest unit collapses the whole duration into the real
	// span between the anchor and the target instant.
	if res.largest < options.UnitDay {
		span, over := dest.Sub(an.epochNs)
		if over {
			return Duration{}, errs.Range("duration span out of range")
		}
		td, err := NewTimeDuration(span)
		if err != nil {
			return Duration{}, err
		}
		unitNs, _ := res.smallest.Nanoseconds()
		incNs, over := i128.FromInt64(unitNs).Mul64(int64(res.inc))
		if over {
			return Duration{}, errs.Range("rounding increment out of range")
		}
		rounded, err := td.RoundToIncrement(incNs, res.mode)
		if err != nil {
			return Duration{}, err
		}
		return FromDateAndTime(DateDuration{}, rounded, res.largest)
	}

	// Re-express the duration as the anchor-to-target difference at the
	// largest unit, the form the nudge works on.
	rec, err = an.differenceToDest(dest, res.largest)
	if err != nil {
		return Duration{}, err
	}

	out, err := roundRelativeRecord(rec, dest, &an, res)
	if err != nil {
		return Duration{}, err
	}
	return FromDateAndTime(out.date, out.time, options.UnitHour)
}

// differenceToDest computes the two-part difference from the anchor to
// the target instant with calendar fields up to largest.
func (an *relativeAnchor) differenceToDest(dest i128.Int128, largest options.Unit) (normalized, error) {
	var wallTarget iso.DateTime
	var err error
	if an.zone != nil {
		wallTarget, err = an.zone.IsoDateTimeFor(epoch.New(dest), an.provider)
	} else {
		wallTarget, err = iso.DateTimeFromEpoch(epoch.New(dest), 0)
	}
	if err != nil {
		return normalized{}, err
	}

	diff, err := iso.DiffDateTime(an.dt, wallTarget, largest.Max(options.UnitDay), an.cal.DateUntil)
	if err != nil {
		return normalized{}, err
	}
	dd := DateDuration{Years: diff.Years, Months: diff.Months, Weeks: diff.Weeks, Days: diff.Days}

	if an.zone == nil {
		rem, err := NewTimeDuration(diff.TimeNs)
		if err != nil {
			return normalized{}, err
		}
		return newNormalized(dd, rem)
	}

	// Under a zone the remainder is measured in epoch space; a DST shift
	// can make the wall-clock date difference overshoot, in which case a
	// day comes back off.
	sign := dd.Sign()
	var rem TimeDuration
	for attempt := 0; ; attempt++ {
		landed, err := an.destEpoch(dd, TimeDuration{})
		if err != nil {
			return normalized{}, err
		}
		remNs, over := dest.Sub(landed)
		if over {
			return normalized{}, errs.Range("duration difference out of range")
		}
		rem, err = NewTimeDuration(remNs)
		if err != nil {
			return normalized{}, err
		}
		// The wall-clock diff can overshoot by at most one day across a
		// transition; give it back when the remainder flips sign.
		if attempt > 1 || sign == options.SignZero || remNs.IsZero() ||
			options.Sign(remNs.Sign()) == sign {
			break
		}
		dd.Days -= int64(sign)
	}
	return newNormalized(dd, rem)
}

// nudgeResult carries a nudged record and its landing instant.
type nudgeResult struct {
	rec      normalized
	nudgedNs i128.Int128
	total    float64
	hasTotal bool
	expanded bool
}

// roundRelativeRecord nudges the duration at the smallest unit and
// bubbles expansion through the larger calendar units.
func roundRelativeRecord(rec normalized, dest i128.Int128, an *relativeAnchor, res resolvedRound) (normalized, error) {
	sign := rec.sign()
	if sign == options.SignZero {
		sign = options.SignPositive
	}

	irregular := res.smallest.IsCalendarUnit() ||
		(an.zone != nil && res.smallest == options.UnitDay)

	var nudge nudgeResult
	var err error
	switch {
	case irregular:
		nudge, err = nudgeCalendarUnit(rec, sign, dest, an, res)
	case an.zone != nil:
		nudge, err = nudgeZonedTime(rec, sign, an, res)
	default:
		nudge, err = nudgeDayOrTime(rec, dest, res)
	}
	if err != nil {
		return normalized{}, err
	}

	out := nudge.rec
	if nudge.expanded && res.smallest != options.UnitWeek {
		startUnit := res.smallest.Max(options.UnitDay)
		out, err = bubbleRelative(out, sign, nudge.nudgedNs, an, res.largest, startUnit)
		if err != nil {
			return normalized{}, err
		}
	}
	return out, nil
}

// nudgeCalendarUnit rounds the smallest calendar (or zoned-day) unit by
// bracketing the target between two candidate durations and measuring
// the exact progress between their instants.
func nudgeCalendarUnit(rec normalized, sign options.Sign, dest i128.Int128, an *relativeAnchor, res resolvedRound) (nudgeResult, error) {
	inc := int64(res.inc)
	signMul := int64(sign)

	truncTo := func(v int64) int64 { return (v / inc) * inc }

	var r1, r2 int64
	var startDur, endDur DateDuration
	switch res.smallest {
	case options.UnitYear:
		r1 = truncTo(rec.date.Years)
		r2 = r1 + inc*signMul
		startDur = DateDuration{Years: r1}
		endDur = DateDuration{Years: r2}
	case options.UnitMonth:
		r1 = truncTo(rec.date.Months)
		r2 = r1 + inc*signMul
		startDur = DateDuration{Years: rec.date.Years, Months: r1}
		endDur = DateDuration{Years: rec.date.Years, Months: r2}
	case options.UnitWeek:
		// Measure the whole-week span the days add before rounding.
		base, err := an.cal.DateAdd(
			an.dt.Date, rec.date.Years, rec.date.Months, 0, 0, options.OverflowConstrain)
		if err != nil {
			return nudgeResult{}, err
		}
		withDays, err := an.cal.DateAdd(
			base, 0, 0, 0, rec.date.Days, options.OverflowConstrain)
		if err != nil {
			return nudgeResult{}, err
		}
		_, _, weeks, _, err := an.cal.DateUntil(base, withDays, options.UnitWeek)
		if err != nil {
			return nudgeResult{}, err
		}
		r1 = truncTo(rec.date.Weeks + weeks)
		r2 = r1 + inc*signMul
		startDur = DateDuration{Years: rec.date.Years, Months: rec.date.Months, Weeks: r1}
		endDur = DateDuration{Years: rec.date.Years, Months: rec.date.Months, Weeks: r2}
	case options.UnitDay:
		r1 = truncTo(rec.date.Days)
		r2 = r1 + inc*signMul
		startDur = DateDuration{
			Years: rec.date.Years, Months: rec.date.Months,
			Weeks: rec.date.Weeks, Days: r1,
		}
		endDur = DateDuration{
			Years: rec.date.Years, Months: rec.date.Months,
			Weeks: rec.date.Weeks, Days: r2,
		}
	default:
		return nudgeResult{}, errs.Assert("nudgeCalendarUnit with non-calendar unit")
	}

	startNs, err := an.destEpoch(startDur, TimeDuration{})
	if err != nil {
		return nudgeResult{}, err
	}
	endNs, err := an.destEpoch(endDur, TimeDuration{})
	if err != nil {
		return nudgeResult{}, err
	}
	if startNs.Cmp(endNs) == 0 {
		return nudgeResult{}, errs.Range("relativeTo brackets an empty unit span")
	}

	num, _ := dest.Sub(startNs)
	den, _ := endNs.Sub(startNs)
	progress := num.Float64() / den.Float64()
	total := float64(r1) + progress*float64(inc)*float64(signMul)

	roundedUnit := roundFloatToIncrement(total, inc, res.mode)

	if roundedUnit == r2 {
		rec, err := newNormalized(endDur, TimeDuration{})
		if err != nil {
			return nudgeResult{}, err
		}
		return nudgeResult{
			rec: rec, nudgedNs: endNs, total: total, hasTotal: true, expanded: true,
		}, nil
	}
	out, err := newNormalized(startDur, TimeDuration{})
	if err != nil {
		return nudgeResult{}, err
	}
	return nudgeResult{
		rec: out, nudgedNs: startNs, total: total, hasTotal: true, expanded: false,
	}, nil
}

// nudgeZonedTime rounds a time-unit smallest unit against the variable
// length of the anchor's day.
func nudgeZonedTime(rec normalized, sign options.Sign, an *relativeAnchor, res resolvedRound) (nudgeResult, error) {
	start, err := an.cal.DateAdd(
		an.dt.Date, rec.date.Years, rec.date.Months, rec.date.Weeks, rec.date.Days,
		options.OverflowConstrain,
	)
	if err != nil {
		return nudgeResult{}, err
	}
	startDt := iso.DateTime{Date: start, Time: an.dt.Time}
	endDate := iso.BalanceDate(int(start.Year), int(start.Month), int(start.Day)+int(sign))
	endDt := iso.DateTime{Date: endDate, Time: an.dt.Time}

	startNs, err := an.epochFor(startDt)
	if err != nil {
		return nudgeResult{}, err
	}
	endNs, err := an.epochFor(endDt)
	if err != nil {
		return nudgeResult{}, err
	}
	daySpan, _ := endNs.Sub(startNs)

	unitNs, _ := res.smallest.Nanoseconds()
	incNs, over := i128.FromInt64(unitNs).Mul64(int64(res.inc))
	if over {
		return nudgeResult{}, errs.Range("rounding increment out of range")
	}
	roundedTime, err := rec.time.RoundToIncrement(incNs, res.mode)
	if err != nil {
		return nudgeResult{}, err
	}

	beyond, over := roundedTime.Ns().Sub(daySpan)
	if over {
		return nudgeResult{}, errs.Range("duration rounding out of range")
	}

	var expanded bool
	var dayDelta int64
	var nudgedNs i128.Int128
	if options.Sign(beyond.Sign()) != sign.Negated() {
		expanded = true
		dayDelta = int64(sign)
		rt, err := NewTimeDuration(beyond)
		if err != nil {
			return nudgeResult{}, err
		}
		roundedTime, err = rt.RoundToIncrement(incNs, res.mode)
		if err != nil {
			return nudgeResult{}, err
		}
		nudgedNs, over = roundedTime.Ns().Add(endNs)
	} else {
		nudgedNs, over = roundedTime.Ns().Add(startNs)
	}
	if over {
		return nudgeResult{}, errs.Range("duration rounding out of range")
	}

	date := rec.date
	date.Days += dayDelta
	out, err := newNormalized(date, roundedTime)
	if err != nil {
		return nudgeResult{}, err
	}
	return nudgeResult{rec: out, nudgedNs: nudgedNs, expanded: expanded}, nil
}

// nudgeDayOrTime rounds fixed-length day and time units directly in
// nanoseconds.
func nudgeDayOrTime(rec normalized, dest i128.Int128, res resolvedRound) (nudgeResult, error) {
	norm, err := rec.time.AddDays(rec.date.Days)
	if err != nil {
		return nudgeResult{}, err
	}

	unitNs, ok := res.smallest.Nanoseconds()
	if !ok {
		return nudgeResult{}, errs.Assert("nudgeDayOrTime with calendar unit")
	}
	total := divFloat(norm.Ns(), unitNs)
	incNs, over := i128.FromInt64(unitNs).Mul64(int64(res.inc))
	if over {
		return nudgeResult{}, errs.Range("rounding increment out of range")
	}
	rounded, err := norm.RoundToIncrement(incNs, res.mode)
	if err != nil {
		return nudgeResult{}, err
	}

	diff, _ := rounded.Ns().Sub(norm.Ns())
	wholeDays, _ := norm.DaysAndRemainder()
	roundedDays, roundedRem := rounded.DaysAndRemainder()
	expanded := sgn(roundedDays-wholeDays) == norm.Sign() && roundedDays != wholeDays

	nudgedNs, over := diff.Add(dest)
	if over {
		return nudgeResult{}, errs.Range("duration rounding out of range")
	}

	days := int64(0)
	remainder := rounded
	if res.largest >= options.UnitDay {
		days = roundedDays
		remainder = roundedRem
	}
	date := rec.date
	date.Days = days
	out, err := newNormalized(date, remainder)
	if err != nil {
		return nudgeResult{}, err
	}
	return nudgeResult{
		rec: out, nudgedNs: nudgedNs, total: total, hasTotal: true, expanded: expanded,
	}, nil
}

// bubbleRelative promotes an expanded smallest unit through the larger
// units while the nudged instant reaches past each unit's boundary.
func bubbleRelative(rec normalized, sign options.Sign, nudgedNs i128.Int128, an *relativeAnchor, largest, smallest options.Unit) (normalized, error) {
	if smallest == options.UnitYear {
		return rec, nil
	}
	signMul := int64(sign)

	for unit := smallest + 1; unit <= largest; unit++ {
		if unit == options.UnitWeek && largest != options.UnitWeek {
			continue
		}

		var endDur DateDuration
		switch unit {
		case options.UnitYear:
			endDur = DateDuration{Years: rec.date.Years + signMul}
		case options.UnitMonth:
			endDur = DateDuration{Years: rec.date.Years, Months: rec.date.Months + signMul}
		case options.UnitWeek:
			endDur = DateDuration{
				Years: rec.date.Years, Months: rec.date.Months,
				Weeks: rec.date.Weeks + signMul,
			}
		case options.UnitDay:
			endDur = DateDuration{
				Years: rec.date.Years, Months: rec.date.Months,
				Weeks: rec.date.Weeks, Days: rec.date.Days + signMul,
			}
		default:
			return rec, errs.Assert("bubble into non-date unit")
		}

		endNs, err := an.destEpoch(endDur, TimeDuration{})
		if err != nil {
			return rec, err
		}
		beyond, _ := nudgedNs.Sub(endNs)
		if options.Sign(beyond.Sign()) != sign.Negated() {
			rec, err = newNormalized(endDur, TimeDuration{})
			if err != nil {
				return rec, err
			}
		} else {
			break
		}
	}
	return rec, nil
}

// Total returns the signed, possibly fractional count of unit spanned by
// the duration, anchored at rel for calendar units.
func Total(d Duration, unit options.Unit, rel RelativeTo) (float64, error) {
	if unit == options.UnitAuto {
		return 0, errs.Range("total requires a unit")
	}

	needsRelative := d.HasCalendarUnits() || unit.IsCalendarUnit()
	if !needsRelative && rel.IsZero() {
		td, err := d.TimeDuration()
		if err != nil {
			return 0, err
		}
		days, err := Finite(d.Days()).asInt64()
		if err != nil {
			return 0, err
		}
		norm, err := td.AddDays(days)
		if err != nil {
			return 0, err
		}
		unitNs, _ := unit.Nanoseconds()
		return divFloat(norm.Ns(), unitNs), nil
	}
	if rel.IsZero() {
		return 0, errs.Range("total across calendar units requires relativeTo")
	}

	an, err := resolveAnchor(rel)
	if err != nil {
		return 0, err
	}
	date, err := d.DateDuration()
	if err != nil {
		return 0, err
	}
	time, err := d.TimeDuration()
	if err != nil {
		return 0, err
	}
	dest, err := an.destEpoch(date, time)
	if err != nil {
		return 0, err
	}
	// Re-express against the anchor so the unit field carries the whole
	// span before measuring progress.
	rec, err := an.differenceToDest(dest, unit.Max(options.UnitDay))
	if err != nil {
		return 0, err
	}

	res := resolvedRound{
		smallest: unit, largest: unit,
		inc: options.IncrementOne, mode: options.RoundTrunc,
	}
	sign := rec.sign()
	if sign == options.SignZero {
		sign = options.SignPositive
	}

	if unit.IsCalendarUnit() || (an.zone != nil && unit == options.UnitDay) {
		nudge, err := nudgeCalendarUnit(rec, sign, dest, &an, res)
		if err != nil {
			return 0, err
		}
		return nudge.total, nil
	}
	// Fixed-length units measure the exact span between the anchor and
	// the target instant.
	span, _ := dest.Sub(an.epochNs)
	unitNs, _ := unit.Nanoseconds()
	return divFloat(span, unitNs), nil
}

// divFloat converts the rational ns/unit to float64 as the float of the
// exact quotient plus the remainder fraction; with two roundings the
// result is not always the nearest float64.
func divFloat(ns i128.Int128, unit int64) float64 {
	q, r := ns.DivMod(i128.FromInt64(unit))
	return q.Float64() + r.Float64()/float64(unit)
}

// roundFloatToIncrement rounds value to a multiple of inc, applying the
// unsigned mode reduction to the magnitude of the quotient.
func roundFloatToIncrement(value float64, inc int64, mode options.RoundingMode) int64 {
	negative := value < 0
	q := math.Abs(value) / float64(inc)
	floor := math.Floor(q)
	ceil := math.Ceil(q)

	var rounded float64
	if q == floor {
		rounded = floor
	} else {
		switch mode.Unsigned(negative) {
		case options.UnsignedZero:
			rounded = floor
		case options.UnsignedInfinity:
			rounded = ceil
		default:
			d1 := q - floor
			d2 := ceil - q
			switch {
			case d1 < d2:
				rounded = floor
			case d2 < d1:
				rounded = ceil
			default:
				switch mode.Unsigned(negative) {
				case options.UnsignedHalfZero:
					rounded = floor
				case options.UnsignedHalfInfinity:
					rounded = ceil
				default:
					if math.Mod(floor, 2) == 0 {
						rounded = floor
					} else {
						rounded = ceil
					}
				}
			}
		}
	}
	result := int64(rounded) * inc
	if negative {
		result = -result
	}
	return result
}

func sgn(v int64) options.Sign {
	switch {
	case v < 0:
		return options.SignNegative
	case v > 0:
		return options.SignPositive
	default:
		return options.SignZero
	}
}

package tz

import (
	"fmt"
	"math"
	"strings"

	"github.com/theory/temporal/epoch"
	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/internal/i128"
	"github.com/theory/temporal/iso"
	"github.com/theory/temporal/options"
)

// Zone is a time zone: either a constant UTC offset or an IANA
// identifier resolved through a Provider. The zero value is UTC.
type Zone struct {
	name     string
	offsetNs int64
}

// Direction selects which transition to find relative to an instant.
type Direction uint8

// Transition directions.
const (
	Next Direction = iota
	Previous
)

// UTC is the zero-offset zone.
var UTC = Zone{}

// Offset returns a constant-offset zone. The offset may carry sub-minute
// precision.
func Offset(offsetNs int64) (Zone, error) {
	if offsetNs <= -epoch.NsPerDay || offsetNs >= epoch.NsPerDay {
		return Zone{}, errs.Range("UTC offset must be smaller than a day")
	}
	return Zone{offsetNs: offsetNs}, nil
}

// Iana returns a zone for an IANA identifier, normalized through the
// provider.
func Iana(id string, provider Provider) (Zone, error) {
	normalized, isIANA, _, err := provider.NormalizeIdentifier(id)
	if err != nil {
		return Zone{}, err
	}
	if !isIANA {
		return Zone{}, errs.Rangef("%q is not an IANA time zone", id)
	}
	return Zone{name: normalized}, nil
}

// FromString parses "Z", an offset of the form ±HH[:MM[:SS[.fffffffff]]],
// or an IANA identifier validated through the provider.
func FromString(s string, provider Provider) (Zone, error) {
	if s == "Z" || s == "z" {
		return UTC, nil
	}
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		offset, err := ParseOffset(s)
		if err != nil {
			return Zone{}, err
		}
		return Offset(offset)
	}
	return Iana(s, provider)
}

// ParseOffset parses a signed UTC offset string to nanoseconds.
func ParseOffset(s string) (int64, error) {
	if len(s) < 3 || (s[0] != '+' && s[0] != '-') {
		return 0, errs.Syntaxf("invalid UTC offset %q", s)
	}
	sign := int64(1)
	if s[0] == '-' {
		sign = -1
	}
	rest := s[1:]

	digits := func(in string) (int64, string, error) {
		if len(in) < 2 || in[0] < '0' || in[0] > '9' || in[1] < '0' || in[1] > '9' {
			return 0, "", errs.Syntaxf("invalid UTC offset %q", s)
		}
		return int64(in[0]-'0')*10 + int64(in[1]-'0'), in[2:], nil
	}

	hours, rest, err := digits(rest)
	if err != nil {
		return 0, err
	}
	if hours > 23 {
		return 0, errs.Syntaxf("offset hours out of range in %q", s)
	}
	var minutes, seconds, nanos int64
	if rest != "" {
		rest = strings.TrimPrefix(rest, ":")
		minutes, rest, err = digits(rest)
		if err != nil {
			return 0, err
		}
		if minutes > 59 {
			return 0, errs.Syntaxf("offset minutes out of range in %q", s)
		}
	}
	if rest != "" {
		rest = strings.TrimPrefix(rest, ":")
		seconds, rest, err = digits(rest)
		if err != nil {
			return 0, err
		}
		if seconds > 59 {
			return 0, errs.Syntaxf("offset seconds out of range in %q", s)
		}
	}
	if rest != "" {
		if rest[0] != '.' && rest[0] != ',' {
			return 0, errs.Syntaxf("invalid UTC offset %q", s)
		}
		frac := rest[1:]
		if frac == "" || len(frac) > 9 {
			return 0, errs.Syntaxf("invalid UTC offset %q", s)
		}
		scale := int64(100_000_000)
		for i := 0; i < len(frac); i++ {
			if frac[i] < '0' || frac[i] > '9' {
				return 0, errs.Syntaxf("invalid UTC offset %q", s)
			}
			nanos += int64(frac[i]-'0') * scale
			scale /= 10
		}
	}
	total := ((hours*60+minutes)*60+seconds)*1_000_000_000 + nanos
	return sign * total, nil
}

// IsIana reports whether the zone is identifier-based.
func (z Zone) IsIana() bool { return z.name != "" }

// Name returns the IANA identifier, or the empty string for offset zones.
func (z Zone) Name() string { return z.name }

// OffsetNs returns the constant offset of an offset zone.
func (z Zone) OffsetNs() int64 { return z.offsetNs }

// Identifier formats the zone: the IANA name, or the canonical ±HH:MM
// offset (extended with seconds and fraction only when present).
func (z Zone) Identifier() string {
	if z.IsIana() {
		return z.name
	}
	return FormatOffset(z.offsetNs)
}

// Equals compares zones structurally.
func (z Zone) Equals(other Zone) bool { return z == other }

// FormatOffset renders a UTC offset in the canonical ±HH:MM[:SS[.f]]
// form.
func FormatOffset(offsetNs int64) string {
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
	minutes := v % 60
	hours := v / 60
	out := fmt.Sprintf("%s%02d:%02d", sign, hours, minutes)
	if seconds != 0 || ns != 0 {
		out += fmt.Sprintf(":%02d", seconds)
		if ns != 0 {
			out += strings.TrimRight(fmt.Sprintf(".%09d", ns), "0")
		}
	}
	return out
}

// lookupWindowSec brackets queries so that any zone's neighborhood
// includes at least one transition entry.
const lookupWindowSec = 500 * 86_400

// OffsetNanosecondsFor returns the zone's UTC offset at an instant.
func (z Zone) OffsetNanosecondsFor(at epoch.Nanoseconds, provider Provider) (int64, error) {
	if !z.IsIana() {
		return z.offsetNs, nil
	}
	sec := epochSeconds(at.Value())
	return z.offsetAtSec(sec, provider)
}

func (z Zone) offsetAtSec(sec int64, provider Provider) (int64, error) {
	lo := sec - lookupWindowSec
	trans, horizon, err := provider.TransitionsFor(z.name, lo, sec)
	if err != nil {
		return 0, err
	}
	if sec > horizon {
		if rule, ok, err := z.posixRule(provider); err != nil {
			return 0, err
		} else if ok {
			return rule.offsetAt(sec), nil
		}
	}
	if len(trans) == 0 {
		return 0, errs.Rangef("no offset data for zone %s", z.name)
	}
	offset := trans[0].OffsetNs
	for _, tr := range trans {
		if tr.EpochSec <= sec {
			offset = tr.OffsetNs
		}
	}
	return offset, nil
}

func (z Zone) posixRule(provider Provider) (*posixZone, bool, error) {
	s, ok, err := provider.PosixTZFor(z.name)
	if err != nil || !ok {
		return nil, false, err
	}
	rule, err := parsePosixTZ(s)
	if err != nil {
		return nil, false, err
	}
	return rule, true, nil
}

// PossibleEpochNanosecondsFor returns the 0, 1, or 2 instants whose wall
// projection in the zone equals dt.
func (z Zone) PossibleEpochNanosecondsFor(dt iso.DateTime, provider Provider) ([]epoch.Nanoseconds, error) {
	if !z.IsIana() {
		shifted, err := dt.AddTime(i128.FromInt64(-z.offsetNs))
		if err != nil {
			return nil, err
		}
		if err := iso.CheckDateRange(shifted.Date); err != nil {
			return nil, err
		}
		ns, err := shifted.EpochNanoseconds()
		if err != nil {
			return nil, err
		}
		return []epoch.Nanoseconds{ns}, nil
	}

	if err := iso.CheckDateRange(dt.Date); err != nil {
		return nil, err
	}
	wall, err := dt.EpochNanoseconds()
	if err != nil {
		return nil, err
	}
	wallSec := epochSeconds(wall.Value())

	// Candidate offsets are those in effect one day either side of the
	// wall instant.
	offBefore, err := z.offsetAtSec(wallSec-86_400, provider)
	if err != nil {
		return nil, err
	}
	offAfter, err := z.offsetAtSec(wallSec+86_400, provider)
	if err != nil {
		return nil, err
	}
	candidates := []int64{offBefore}
	if offAfter != offBefore {
		candidates = append(candidates, offAfter)
	}

	var out []epoch.Nanoseconds
	for _, off := range candidates {
		ns, err := wall.AddInt64(-off)
		if err != nil {
			return nil, err
		}
		actual, err := z.offsetAtSec(epochSeconds(ns.Value()), provider)
		if err != nil {
			return nil, err
		}
		if actual == off {
			out = append(out, ns)
		}
	}
	// Order candidates chronologically.
	if len(out) == 2 && out[0].Compare(out[1]) > 0 {
		out[0], out[1] = out[1], out[0]
	}
	return out, nil
}

// Disambiguate selects one instant from the candidates for dt under the
// given policy, shifting through a gap when there are none.
func (z Zone) Disambiguate(dt iso.DateTime, candidates []epoch.Nanoseconds, disambiguation options.Disambiguation, provider Provider) (epoch.Nanoseconds, error) {
	switch n := len(candidates); {
	case n == 1:
		return candidates[0], nil
	case n > 1:
		switch disambiguation {
		case options.DisambiguationCompatible, options.DisambiguationEarlier:
			return candidates[0], nil
		case options.DisambiguationLater:
			return candidates[n-1], nil
		default:
			return epoch.Nanoseconds{}, errs.Range("ambiguous wall-clock time")
		}
	}
	if disambiguation == options.DisambiguationReject {
		return epoch.Nanoseconds{}, errs.Range("wall-clock time does not exist")
	}

	// Measure the gap from the offsets a few hours either side.
	const probeNs = 3 * 3_600_000_000_000
	before, err := dt.AddTime(i128.FromInt64(-probeNs))
	if err != nil {
		return epoch.Nanoseconds{}, err
	}
	after, err := dt.AddTime(i128.FromInt64(probeNs))
	if err != nil {
		return epoch.Nanoseconds{}, err
	}
	beforePossible, err := z.PossibleEpochNanosecondsFor(before, provider)
	if err != nil {
		return epoch.Nanoseconds{}, err
	}
	afterPossible, err := z.PossibleEpochNanosecondsFor(after, provider)
	if err != nil {
		return epoch.Nanoseconds{}, err
	}
	if len(beforePossible) == 0 || len(afterPossible) == 0 {
		return epoch.Nanoseconds{}, errs.Assert("gap probe found no instants")
	}
	offBefore, err := z.OffsetNanosecondsFor(beforePossible[0], provider)
	if err != nil {
		return epoch.Nanoseconds{}, err
	}
	offAfter, err := z.OffsetNanosecondsFor(afterPossible[len(afterPossible)-1], provider)
	if err != nil {
		return epoch.Nanoseconds{}, err
	}
	gap := offAfter - offBefore

	if disambiguation == options.DisambiguationEarlier {
		shifted, err := dt.AddTime(i128.FromInt64(-gap))
		if err != nil {
			return epoch.Nanoseconds{}, err
		}
		possible, err := z.PossibleEpochNanosecondsFor(shifted, provider)
		if err != nil {
			return epoch.Nanoseconds{}, err
		}
		if len(possible) == 0 {
			return epoch.Nanoseconds{}, errs.Assert("gap shift found no instants")
		}
		return possible[0], nil
	}
	// Compatible and Later both shift forward.
	shifted, err := dt.AddTime(i128.FromInt64(gap))
	if err != nil {
		return epoch.Nanoseconds{}, err
	}
	possible, err := z.PossibleEpochNanosecondsFor(shifted, provider)
	if err != nil {
		return epoch.Nanoseconds{}, err
	}
	if len(possible) == 0 {
		return epoch.Nanoseconds{}, errs.Assert("gap shift found no instants")
	}
	return possible[len(possible)-1], nil
}

// EpochNanosecondsFor resolves a wall date-time to a single instant.
func (z Zone) EpochNanosecondsFor(dt iso.DateTime, disambiguation options.Disambiguation, provider Provider) (epoch.Nanoseconds, error) {
	possible, err := z.PossibleEpochNanosecondsFor(dt, provider)
	if err != nil {
		return epoch.Nanoseconds{}, err
	}
	return z.Disambiguate(dt, possible, disambiguation, provider)
}

// IsoDateTimeFor projects an instant to the zone's wall clock.
func (z Zone) IsoDateTimeFor(at epoch.Nanoseconds, provider Provider) (iso.DateTime, error) {
	offset, err := z.OffsetNanosecondsFor(at, provider)
	if err != nil {
		return iso.DateTime{}, err
	}
	return iso.DateTimeFromEpoch(at, offset)
}

// StartOfDay returns the first instant of the wall date in the zone,
// shifting through a gap when midnight does not exist.
func (z Zone) StartOfDay(date iso.Date, provider Provider) (epoch.Nanoseconds, error) {
	dt := iso.DateTime{Date: date}
	possible, err := z.PossibleEpochNanosecondsFor(dt, provider)
	if err != nil {
		return epoch.Nanoseconds{}, err
	}
	if len(possible) > 0 {
		return possible[0], nil
	}
	// Midnight falls in a gap; the day starts at the transition instant.
	return z.Disambiguate(dt, nil, options.DisambiguationCompatible, provider)
}

// TransitionFor returns the zone's next or previous offset transition
// relative to the instant, when one exists.
func (z Zone) TransitionFor(at epoch.Nanoseconds, direction Direction, provider Provider) (epoch.Nanoseconds, bool, error) {
	if !z.IsIana() {
		return epoch.Nanoseconds{}, false, nil
	}
	sec := epochSeconds(at.Value())

	if direction == Next {
		lo := sec - lookupWindowSec
		for hi := sec + lookupWindowSec; ; hi += 100 * lookupWindowSec {
			trans, horizon, err := provider.TransitionsFor(z.name, lo, hi)
			if err != nil {
				return epoch.Nanoseconds{}, false, err
			}
			for _, tr := range trans {
				if tr.EpochSec > sec && !isSyntheticEntry(tr, lo) {
					return epochFromSeconds(tr.EpochSec), true, nil
				}
			}
			if hi >= horizon || horizon == math.MaxInt64 {
				// Past the precomputed data: the POSIX rule supplies the
				// recurring transitions analytically.
				rule, ok, err := z.posixRule(provider)
				if err != nil {
					return epoch.Nanoseconds{}, false, err
				}
				if !ok || !rule.hasDst() {
					return epoch.Nanoseconds{}, false, nil
				}
				from := sec
				if horizon != math.MaxInt64 && horizon > from {
					from = horizon
				}
				next, ok := rule.nextTransition(from)
				if !ok {
					return epoch.Nanoseconds{}, false, nil
				}
				return epochFromSeconds(next), true, nil
			}
		}
	}

	// Previous: expand the window backward until a transition precedes
	// the instant.
	hi := sec
	for lo := sec - lookupWindowSec; ; lo -= 100 * lookupWindowSec {
		trans, horizon, err := provider.TransitionsFor(z.name, lo, hi)
		if err != nil {
			return epoch.Nanoseconds{}, false, err
		}
		if sec > horizon {
			if rule, ok, err := z.posixRule(provider); err != nil {
				return epoch.Nanoseconds{}, false, err
			} else if ok && rule.hasDst() {
				if prev, ok := rule.prevTransition(sec); ok && prev > horizon {
					return epochFromSeconds(prev), true, nil
				}
			}
		}
		var best int64
		found := false
		for _, tr := range trans {
			if tr.EpochSec < sec && !isSyntheticEntry(tr, lo) {
				best, found = tr.EpochSec, true
			}
		}
		if found {
			return epochFromSeconds(best), true, nil
		}
		if len(trans) <= 1 && lo < -lookupWindowSec*200 {
			return epoch.Nanoseconds{}, false, nil
		}
	}
}

// isSyntheticEntry reports whether the entry is the synthetic window
// opener rather than a real transition.
func isSyntheticEntry(tr Transition, lo int64) bool { return tr.EpochSec == lo }

// epochFromSeconds widens a second count to epoch nanoseconds without
// overflowing int64.
func epochFromSeconds(sec int64) epoch.Nanoseconds {
	ns, _ := i128.FromInt64(sec).Mul64(1_000_000_000)
	return epoch.New(ns)
}

// epochSeconds floors a nanosecond count to seconds.
func epochSeconds(ns i128.Int128) int64 {
	q, r := ns.DivMod(i128.FromInt64(1_000_000_000))
	sec, _ := q.ToInt64()
	if r.Sign() < 0 {
		sec--
	}
	return sec
}

// Package tz implements time zones: constant UTC offsets, IANA zones
// resolved through a Provider, wall-clock to instant resolution under DST
// gaps and overlaps, and the POSIX TZ fallback used when a zone's
// precomputed transitions run out.
package tz

import (
	"math"

	"github.com/theory/temporal/errs"
)

// Transition is one offset change in a zone's history. The offset
// applies from EpochSec until the next transition.
type Transition struct {
	// EpochSec is the instant of the change in Unix seconds.
	EpochSec int64
	// OffsetNs is the UTC offset in effect from this instant.
	OffsetNs int64
	// Dst reports whether the interval is daylight-saving time.
	Dst bool
}

// Provider supplies IANA zone data. Implementations must be safe for
// concurrent readers and referentially transparent: the same query always
// yields the same answer.
type Provider interface {
	// NormalizeIdentifier validates an identifier and returns its
	// normalized spelling, whether it names an IANA zone, and the primary
	// identifier it resolves to.
	NormalizeIdentifier(id string) (normalized string, isIANA bool, primary string, err error)

	// TransitionsFor returns the zone's transitions with instants in
	// [lo, hi], preceded by a synthetic entry at lo carrying the offset
	// in effect at lo. The horizon result is the instant of the zone's
	// final precomputed transition; queries past it must fall back to
	// the POSIX TZ rule. Zones with no transitions report math.MaxInt64.
	TransitionsFor(id string, lo, hi int64) (transitions []Transition, horizon int64, err error)

	// PosixTZFor returns the zone's POSIX TZ string, if any.
	PosixTZFor(id string) (string, bool, error)
}

// NoProvider is the provider used when only offset zones are in play.
// Every IANA lookup fails.
type NoProvider struct{}

// NormalizeIdentifier rejects every identifier.
func (NoProvider) NormalizeIdentifier(id string) (string, bool, string, error) {
	return "", false, "", errs.Rangef("no time zone provider for %q", id)
}

// TransitionsFor rejects every zone.
func (NoProvider) TransitionsFor(id string, _, _ int64) ([]Transition, int64, error) {
	return nil, 0, errs.Rangef("no time zone provider for %q", id)
}

// PosixTZFor rejects every zone.
func (NoProvider) PosixTZFor(id string) (string, bool, error) {
	return "", false, errs.Rangef("no time zone provider for %q", id)
}

// UTCProvider serves the single zone "UTC" without any on-disk data, so
// the package works stand-alone in tests and offset-only programs.
type UTCProvider struct{}

// NormalizeIdentifier accepts "UTC" in any case.
func (UTCProvider) NormalizeIdentifier(id string) (string, bool, string, error) {
	if equalsIgnoreCase(id, "utc") {
		return "UTC", true, "UTC", nil
	}
	return "", false, "", errs.Rangef("unknown time zone %q", id)
}

// TransitionsFor returns the constant zero offset.
func (UTCProvider) TransitionsFor(id string, lo, _ int64) ([]Transition, int64, error) {
	if id != "UTC" {
		return nil, 0, errs.Rangef("unknown time zone %q", id)
	}
	return []Transition{{EpochSec: lo}}, math.MaxInt64, nil
}

// PosixTZFor returns no rule; UTC never needs one.
func (UTCProvider) PosixTZFor(string) (string, bool, error) { return "", false, nil }

func equalsIgnoreCase(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

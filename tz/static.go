package tz

import (
	"math"
	"sort"

	"github.com/theory/temporal/errs"
)

// StaticZone is the precompiled rule set for one zone: its transitions,
// the offset in effect before the first one, and the POSIX TZ rule that
// extends past the last.
type StaticZone struct {
	InitialOffsetNs int64
	InitialDst      bool
	Transitions     []Transition
	PosixTZ         string
}

// StaticProvider serves zones from tables embedded at build time. It is
// the compiled-data counterpart to [FsProvider] and is safe for
// concurrent readers; the tables are never mutated after construction.
type StaticProvider struct {
	zones map[string]StaticZone
}

// NewStaticProvider copies the zone tables into a provider. Transitions
// must be ordered by instant.
func NewStaticProvider(zones map[string]StaticZone) *StaticProvider {
	copied := make(map[string]StaticZone, len(zones))
	for id, z := range zones {
		z.Transitions = append([]Transition(nil), z.Transitions...)
		copied[id] = z
	}
	return &StaticProvider{zones: copied}
}

// NormalizeIdentifier accepts exactly the embedded identifiers.
func (p *StaticProvider) NormalizeIdentifier(id string) (string, bool, string, error) {
	if _, ok := p.zones[id]; !ok {
		return "", false, "", errs.Rangef("unknown time zone %q", id)
	}
	return id, true, id, nil
}

// TransitionsFor returns the transitions in [lo, hi] behind a synthetic
// entry at lo, plus the final-transition horizon.
func (p *StaticProvider) TransitionsFor(id string, lo, hi int64) ([]Transition, int64, error) {
	z, ok := p.zones[id]
	if !ok {
		return nil, 0, errs.Rangef("unknown time zone %q", id)
	}
	horizon := int64(math.MaxInt64)
	if len(z.Transitions) > 0 {
		horizon = z.Transitions[len(z.Transitions)-1].EpochSec
	}

	at := Transition{OffsetNs: z.InitialOffsetNs, Dst: z.InitialDst}
	first := sort.Search(len(z.Transitions), func(i int) bool {
		return z.Transitions[i].EpochSec > lo
	})
	if first > 0 {
		at = z.Transitions[first-1]
	}
	out := []Transition{{EpochSec: lo, OffsetNs: at.OffsetNs, Dst: at.Dst}}
	for i := first; i < len(z.Transitions) && z.Transitions[i].EpochSec <= hi; i++ {
		out = append(out, z.Transitions[i])
	}
	return out, horizon, nil
}

// PosixTZFor returns the zone's embedded POSIX TZ rule.
func (p *StaticProvider) PosixTZFor(id string) (string, bool, error) {
	z, ok := p.zones[id]
	if !ok {
		return "", false, errs.Rangef("unknown time zone %q", id)
	}
	return z.PosixTZ, z.PosixTZ != "", nil
}

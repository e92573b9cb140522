package tz

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/theory/temporal/errs"
)

// FsProvider reads TZif files from a zoneinfo directory at runtime.
// Parsed zones are cached; the cache is safe for concurrent readers and
// lookups are referentially transparent for a fixed directory.
type FsProvider struct {
	dir   string
	mu    sync.RWMutex
	zones map[string]*tzifZone
}

// DefaultZoneinfoDir is the conventional zoneinfo location.
const DefaultZoneinfoDir = "/usr/share/zoneinfo"

// NewFsProvider returns a provider rooted at dir, defaulting to
// [DefaultZoneinfoDir] when dir is empty.
func NewFsProvider(dir string) *FsProvider {
	if dir == "" {
		dir = DefaultZoneinfoDir
	}
	return &FsProvider{dir: dir, zones: make(map[string]*tzifZone)}
}

// tzifZone is a parsed TZif file.
type tzifZone struct {
	// Transition instants in seconds, ascending.
	times []int64
	// offsets[i] applies from times[i]; initial applies before times[0].
	offsets []zoneOffset
	initial zoneOffset
	footer  string
}

type zoneOffset struct {
	offsetSec int32
	dst       bool
}

// NormalizeIdentifier validates the identifier's syntax and confirms the
// zone exists. Identifiers are returned as given; canonicalization across
// links is not performed here.
func (p *FsProvider) NormalizeIdentifier(id string) (string, bool, string, error) {
	if err := validateZoneID(id); err != nil {
		return "", false, "", err
	}
	if _, err := p.load(id); err != nil {
		return "", false, "", err
	}
	return id, true, id, nil
}

// TransitionsFor returns the zone's transitions in [lo, hi] behind a
// synthetic entry at lo, plus the final-transition horizon.
func (p *FsProvider) TransitionsFor(id string, lo, hi int64) ([]Transition, int64, error) {
	z, err := p.load(id)
	if err != nil {
		return nil, 0, err
	}
	horizon := int64(math.MaxInt64)
	if len(z.times) > 0 {
		horizon = z.times[len(z.times)-1]
	}

	at := z.offsetAt(lo)
	out := []Transition{{EpochSec: lo, OffsetNs: int64(at.offsetSec) * 1_000_000_000, Dst: at.dst}}
	first := sort.Search(len(z.times), func(i int) bool { return z.times[i] > lo })
	for i := first; i < len(z.times) && z.times[i] <= hi; i++ {
		out = append(out, Transition{
			EpochSec: z.times[i],
			OffsetNs: int64(z.offsets[i].offsetSec) * 1_000_000_000,
			Dst:      z.offsets[i].dst,
		})
	}
	return out, horizon, nil
}

// PosixTZFor returns the zone's TZif footer string.
func (p *FsProvider) PosixTZFor(id string) (string, bool, error) {
	z, err := p.load(id)
	if err != nil {
		return "", false, err
	}
	return z.footer, z.footer != "", nil
}

func (z *tzifZone) offsetAt(sec int64) zoneOffset {
	idx := sort.Search(len(z.times), func(i int) bool { return z.times[i] > sec })
	if idx == 0 {
		return z.initial
	}
	return z.offsets[idx-1]
}

func (p *FsProvider) load(id string) (*tzifZone, error) {
	p.mu.RLock()
	z, ok := p.zones[id]
	p.mu.RUnlock()
	if ok {
		return z, nil
	}

	raw, err := os.ReadFile(filepath.Join(p.dir, filepath.FromSlash(id)))
	if err != nil {
		return nil, errs.Rangef("unknown time zone %q", id)
	}
	z, err = parseTzif(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: zone %q", err, id)
	}

	p.mu.Lock()
	p.zones[id] = z
	p.mu.Unlock()
	return z, nil
}

// validateZoneID applies the IANA naming constraints and refuses path
// escapes.
func validateZoneID(id string) error {
	if id == "" || strings.HasPrefix(id, "/") || strings.HasSuffix(id, "/") {
		return errs.Rangef("invalid time zone identifier %q", id)
	}
	for _, part := range strings.Split(id, "/") {
		if part == "" || part == "." || part == ".." {
			return errs.Rangef("invalid time zone identifier %q", id)
		}
		for i := 0; i < len(part); i++ {
			c := part[i]
			ok := c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' ||
				c >= '0' && c <= '9' || c == '_' || c == '-' || c == '+' || c == '.'
			if !ok {
				return errs.Rangef("invalid time zone identifier %q", id)
			}
		}
	}
	return nil
}

// tzif header lengths.
const tzifHeaderLen = 44

// parseTzif reads a version 1, 2, or 3 TZif payload. For version 2 and
// later the 64-bit block supersedes the 32-bit one.
func parseTzif(raw []byte) (*tzifZone, error) {
	version, body, err := parseTzifHeader(raw)
	if err != nil {
		return nil, err
	}

	if version == 0 {
		z, _, err := parseTzifBlock(body, 4)
		return z, err
	}

	// Skip the legacy 32-bit block, then read the 64-bit one.
	_, rest, err := parseTzifBlock(body, 4)
	if err != nil {
		return nil, err
	}
	_, rest, err = parseTzifHeaderBytes(rest)
	if err != nil {
		return nil, err
	}
	z, rest, err := parseTzifBlock(rest, 8)
	if err != nil {
		return nil, err
	}

	// Footer: newline, TZ string, newline.
	if len(rest) >= 2 && rest[0] == '\n' {
		if end := strings.IndexByte(string(rest[1:]), '\n'); end >= 0 {
			z.footer = string(rest[1 : 1+end])
		}
	}
	return z, nil
}

func parseTzifHeader(raw []byte) (byte, []byte, error) {
	if len(raw) < tzifHeaderLen || string(raw[:4]) != "TZif" {
		return 0, nil, errs.Syntax("not a TZif file")
	}
	version := raw[4]
	if version != 0 && version != '2' && version != '3' && version != '4' {
		return 0, nil, errs.Syntaxf("unsupported TZif version %q", version)
	}
	return version, raw[tzifHeaderLen-24:], nil
}

// parseTzifHeaderBytes reads an interior (second) header.
func parseTzifHeaderBytes(raw []byte) ([6]uint32, []byte, error) {
	var counts [6]uint32
	if len(raw) < tzifHeaderLen || string(raw[:4]) != "TZif" {
		return counts, nil, errs.Syntax("missing TZif v2 header")
	}
	for i := range counts {
		counts[i] = binary.BigEndian.Uint32(raw[20+4*i:])
	}
	return counts, raw[tzifHeaderLen-24:], nil
}

// parseTzifBlock reads one data block. The leading 24 bytes of counts
// are expected at the start of body.
func parseTzifBlock(body []byte, timeSize int) (*tzifZone, []byte, error) {
	if len(body) < 24 {
		return nil, nil, errs.Syntax("truncated TZif header")
	}
	isutcnt := int(binary.BigEndian.Uint32(body[0:]))
	isstdcnt := int(binary.BigEndian.Uint32(body[4:]))
	leapcnt := int(binary.BigEndian.Uint32(body[8:]))
	timecnt := int(binary.BigEndian.Uint32(body[12:]))
	typecnt := int(binary.BigEndian.Uint32(body[16:]))
	charcnt := int(binary.BigEndian.Uint32(body[20:]))
	body = body[24:]

	need := timecnt*timeSize + timecnt + typecnt*6 + charcnt +
		leapcnt*(timeSize+4) + isstdcnt + isutcnt
	if typecnt == 0 || len(body) < need {
		return nil, nil, errs.Syntax("truncated TZif data")
	}

	z := &tzifZone{times: make([]int64, timecnt)}
	for i := 0; i < timecnt; i++ {
		if timeSize == 4 {
			z.times[i] = int64(int32(binary.BigEndian.Uint32(body[i*4:])))
		} else {
			z.times[i] = int64(binary.BigEndian.Uint64(body[i*8:]))
		}
	}
	body = body[timecnt*timeSize:]

	idx := body[:timecnt]
	body = body[timecnt:]

	types := make([]zoneOffset, typecnt)
	for i := 0; i < typecnt; i++ {
		types[i] = zoneOffset{
			offsetSec: int32(binary.BigEndian.Uint32(body[i*6:])),
			dst:       body[i*6+4] != 0,
		}
	}
	body = body[typecnt*6+charcnt:]
	body = body[leapcnt*(timeSize+4)+isstdcnt+isutcnt:]

	z.offsets = make([]zoneOffset, timecnt)
	for i, t := range idx {
		if int(t) >= typecnt {
			return nil, nil, errs.Syntax("TZif type index out of range")
		}
		z.offsets[i] = types[t]
	}

	// The offset before the first transition is the first standard-time
	// type, or the first type when all are daylight types.
	z.initial = types[0]
	for _, t := range types {
		if !t.dst {
			z.initial = t
			break
		}
	}
	return z, body, nil
}

package tz

import (
	"strings"

	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/iso"
)

// posixZone is a parsed POSIX TZ string: a standard offset, an optional
// daylight offset, and the recurring rule for switching between them.
type posixZone struct {
	stdName  string
	stdNs    int64 // UTC offset, east positive
	dstName  string
	dstNs    int64
	dst      bool
	start    posixDate
	startSec int64 // local seconds after midnight, may be negative or > 86400
	end      posixDate
	endSec   int64
}

// posixDate is one of the three POSIX rule date forms.
type posixDate struct {
	form  byte // 'M', 'J', or 'n'
	month int  // M form
	week  int  // M form: 1..5, 5 meaning last
	day   int  // M form: weekday 0=Sunday; J and n forms: day number
}

func (p *posixZone) hasDst() bool { return p.dst }

// parsePosixTZ parses the subset of POSIX TZ syntax that appears in TZif
// footers: names or <quoted> names, offsets with optional minutes and
// seconds, and M/J/n rules with optional /time suffixes.
func parsePosixTZ(s string) (*posixZone, error) {
	if s == "" {
		return nil, errs.Syntax("empty POSIX TZ string")
	}
	z := &posixZone{}
	rest := s

	var err error
	z.stdName, rest, err = posixName(rest)
	if err != nil {
		return nil, err
	}
	var offset int64
	offset, rest, err = posixOffset(rest, false)
	if err != nil {
		return nil, err
	}
	// POSIX offsets are west-positive; flip to the east-positive form
	// used everywhere else.
	z.stdNs = -offset

	if rest == "" {
		return z, nil
	}
	if rest[0] != ',' {
		z.dstName, rest, err = posixName(rest)
		if err != nil {
			return nil, err
		}
		if rest != "" && rest[0] != ',' {
			offset, rest, err = posixOffset(rest, false)
			if err != nil {
				return nil, err
			}
			z.dstNs = -offset
		} else {
			// Daylight time defaults to one hour ahead of standard.
			z.dstNs = z.stdNs + 3_600_000_000_000
		}
		z.dst = true
	}
	if rest == "" {
		if z.dst {
			// A DST name without rules applies the implementation
			// default rule; TZif footers always carry explicit rules,
			// so reject instead of guessing.
			return nil, errs.Syntaxf("POSIX TZ %q has DST but no rule", s)
		}
		return z, nil
	}
	if rest[0] != ',' {
		return nil, errs.Syntaxf("malformed POSIX TZ %q", s)
	}
	z.start, z.startSec, rest, err = posixRule(rest[1:])
	if err != nil {
		return nil, err
	}
	if rest == "" || rest[0] != ',' {
		return nil, errs.Syntaxf("malformed POSIX TZ %q", s)
	}
	z.end, z.endSec, rest, err = posixRule(rest[1:])
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, errs.Syntaxf("trailing input in POSIX TZ %q", s)
	}
	return z, nil
}

func posixName(s string) (string, string, error) {
	if s == "" {
		return "", "", errs.Syntax("missing zone name in POSIX TZ")
	}
	if s[0] == '<' {
		end := strings.IndexByte(s, '>')
		if end < 0 {
			return "", "", errs.Syntax("unterminated quoted name in POSIX TZ")
		}
		return s[1:end], s[end+1:], nil
	}
	i := 0
	for i < len(s) && (s[i] >= 'A' && s[i] <= 'Z' || s[i] >= 'a' && s[i] <= 'z') {
		i++
	}
	if i < 3 {
		return "", "", errs.Syntax("zone name too short in POSIX TZ")
	}
	return s[:i], s[i:], nil
}

// posixOffset parses [+-]hh[:mm[:ss]] into nanoseconds. Extended rule
// times allow hours up to 167.
func posixOffset(s string, extended bool) (int64, string, error) {
	sign := int64(1)
	switch {
	case s == "":
		return 0, "", errs.Syntax("missing offset in POSIX TZ")
	case s[0] == '-':
		sign = -1
		s = s[1:]
	case s[0] == '+':
		s = s[1:]
	}
	digitRun := func(in string) (int64, string, bool) {
		i := 0
		var v int64
		for i < len(in) && in[i] >= '0' && in[i] <= '9' {
			v = v*10 + int64(in[i]-'0')
			i++
		}
		return v, in[i:], i > 0
	}
	hours, rest, ok := digitRun(s)
	if !ok {
		return 0, "", errs.Syntax("missing offset digits in POSIX TZ")
	}
	maxHours := int64(24)
	if extended {
		maxHours = 167
	}
	if hours > maxHours {
		return 0, "", errs.Syntax("offset hours out of range in POSIX TZ")
	}
	var minutes, seconds int64
	if len(rest) > 0 && rest[0] == ':' {
		minutes, rest, ok = digitRun(rest[1:])
		if !ok || minutes > 59 {
			return 0, "", errs.Syntax("offset minutes out of range in POSIX TZ")
		}
		if len(rest) > 0 && rest[0] == ':' {
			seconds, rest, ok = digitRun(rest[1:])
			if !ok || seconds > 59 {
				return 0, "", errs.Syntax("offset seconds out of range in POSIX TZ")
			}
		}
	}
	return sign * ((hours*60+minutes)*60 + seconds) * 1_000_000_000, rest, nil
}

// posixRule parses a transition date with its optional /time suffix.
func posixRule(s string) (posixDate, int64, string, error) {
	var d posixDate
	var err error
	switch {
	case s == "":
		return d, 0, "", errs.Syntax("missing rule in POSIX TZ")
	case s[0] == 'M':
		d.form = 'M'
		parts := [3]int{}
		rest := s[1:]
		for i := 0; i < 3; i++ {
			v := 0
			j := 0
			for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
				v = v*10 + int(rest[j]-'0')
				j++
			}
			if j == 0 {
				return d, 0, "", errs.Syntax("malformed M rule in POSIX TZ")
			}
			parts[i] = v
			rest = rest[j:]
			if i < 2 {
				if len(rest) == 0 || rest[0] != '.' {
					return d, 0, "", errs.Syntax("malformed M rule in POSIX TZ")
				}
				rest = rest[1:]
			}
		}
		if parts[0] < 1 || parts[0] > 12 || parts[1] < 1 || parts[1] > 5 || parts[2] > 6 {
			return d, 0, "", errs.Syntax("M rule out of range in POSIX TZ")
		}
		d.month, d.week, d.day = parts[0], parts[1], parts[2]
		s = rest
	case s[0] == 'J':
		d.form = 'J'
		v, rest, ok := digits(s[1:])
		if !ok || v < 1 || v > 365 {
			return d, 0, "", errs.Syntax("J rule out of range in POSIX TZ")
		}
		d.day = v
		s = rest
	default:
		d.form = 'n'
		v, rest, ok := digits(s)
		if !ok || v > 365 {
			return d, 0, "", errs.Syntax("day rule out of range in POSIX TZ")
		}
		d.day = v
		s = rest
	}

	// Transition time defaults to 02:00 local.
	timeSec := int64(2 * 3600)
	if len(s) > 0 && s[0] == '/' {
		var ns int64
		var err2 error
		ns, s, err2 = posixOffset(s[1:], true)
		if err2 != nil {
			return d, 0, "", err2
		}
		timeSec = ns / 1_000_000_000
	}
	return d, timeSec, s, err
}

func digits(s string) (int, string, bool) {
	i, v := 0, 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		v = v*10 + int(s[i]-'0')
		i++
	}
	return v, s[i:], i > 0
}

// ruleDayInYear resolves the rule to an epoch day number within year.
func (d posixDate) ruleDayInYear(year int) int64 {
	switch d.form {
	case 'J':
		// Day 59 is always February 28; leap days are skipped.
		day := d.day
		if day > 59 && iso.IsLeapYear(year) {
			day++
		}
		return int64(iso.Date{Year: int32(year), Month: 1, Day: 1}.EpochDays()) + int64(day-1)
	case 'n':
		return int64(iso.Date{Year: int32(year), Month: 1, Day: 1}.EpochDays()) + int64(d.day)
	default:
		// Month-week-day: the d.week'th d.day of the month, 5 = last.
		first := iso.Date{Year: int32(year), Month: uint8(d.month), Day: 1}
		firstDays := int64(first.EpochDays())
		// ISO weekday Monday=1..Sunday=7; POSIX counts Sunday=0.
		firstDow := first.DayOfWeek() % 7
		offset := int64((d.day - firstDow + 7) % 7)
		day := firstDays + offset + int64(d.week-1)*7
		limit := firstDays + int64(iso.DaysInMonth(year, d.month)) - 1
		for day > limit {
			day -= 7
		}
		return day
	}
}

// transitionEpoch returns the UTC instant of the rule in the given year.
// The local wall time of the transition uses the offset in effect before
// it.
func (p *posixZone) transitionEpoch(d posixDate, localSec int64, year int, offsetBeforeNs int64) int64 {
	day := d.ruleDayInYear(year)
	return day*86_400 + localSec - offsetBeforeNs/1_000_000_000
}

// dstBoundsFor returns the UTC instants of the DST start and end in the
// given year.
func (p *posixZone) dstBoundsFor(year int) (start, end int64) {
	start = p.transitionEpoch(p.start, p.startSec, year, p.stdNs)
	end = p.transitionEpoch(p.end, p.endSec, year, p.dstNs)
	return start, end
}

// offsetAt returns the UTC offset in effect at the instant.
func (p *posixZone) offsetAt(sec int64) int64 {
	if !p.dst {
		return p.stdNs
	}
	year := yearOfEpochSec(sec)
	start, end := p.dstBoundsFor(year)
	if start <= end {
		// Northern-style rule: DST within the year.
		if sec >= start && sec < end {
			return p.dstNs
		}
		return p.stdNs
	}
	// Southern-style rule: DST wraps the new year.
	if sec >= start || sec < end {
		return p.dstNs
	}
	return p.stdNs
}

// nextTransition returns the first transition instant strictly after sec.
func (p *posixZone) nextTransition(sec int64) (int64, bool) {
	if !p.dst {
		return 0, false
	}
	year := yearOfEpochSec(sec)
	for y := year - 1; y <= year+2; y++ {
		start, end := p.dstBoundsFor(y)
		lo, hi := start, end
		if lo > hi {
			lo, hi = hi, lo
		}
		if lo > sec {
			return lo, true
		}
		if hi > sec {
			return hi, true
		}
	}
	return 0, false
}

// prevTransition returns the last transition instant strictly before sec.
func (p *posixZone) prevTransition(sec int64) (int64, bool) {
	if !p.dst {
		return 0, false
	}
	year := yearOfEpochSec(sec)
	for y := year + 1; y >= year-2; y-- {
		start, end := p.dstBoundsFor(y)
		lo, hi := start, end
		if lo > hi {
			lo, hi = hi, lo
		}
		if hi < sec {
			return hi, true
		}
		if lo < sec {
			return lo, true
		}
	}
	return 0, false
}

// yearOfEpochSec returns the UTC calendar year containing the instant.
func yearOfEpochSec(sec int64) int {
	days := floorDivI64(sec, 86_400)
	return int(iso.DateFromEpochDays(int32(days)).Year)
}

func floorDivI64(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

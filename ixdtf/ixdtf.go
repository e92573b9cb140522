// Package ixdtf parses and formats RFC 9557 Internet Extended Date/Time
// strings: the ISO 8601 profile plus bracketed time zone and key-value
// annotations with critical flags. The parser is strict; anything the
// grammar does not allow is a syntax error.
//
// Parsing produces plain component records. Semantic validation against
// calendars and time zone data belongs to the caller.
package ixdtf

import (
	"github.com/theory/temporal/errs"
)

// DateRecord is a parsed calendar date.
type DateRecord struct {
	Year  int
	Month int
	Day   int
}

// TimeRecord is a parsed wall-clock time. A leap second collapses to 59
// during parsing.
type TimeRecord struct {
	Hour        int
	Minute      int
	Second      int
	Millisecond int
	Microsecond int
	Nanosecond  int
}

// TimeZoneRecord is a bracketed time zone annotation.
type TimeZoneRecord struct {
	// Name is the IANA identifier when the annotation is not an offset.
	Name string
	// IsOffset marks an offset annotation, with OffsetNs set.
	IsOffset bool
	OffsetNs int64
	Critical bool
}

// Result is the outcome of parsing a date/time production.
type Result struct {
	Date *DateRecord
	Time *TimeRecord
	// OffsetNs is the numeric UTC offset, when present.
	OffsetNs *int64
	// OffsetSubMinute reports whether the offset carried seconds or
	// finer.
	OffsetSubMinute bool
	// HasUTCDesignator reports a Z suffix.
	HasUTCDesignator bool
	TimeZone         *TimeZoneRecord
	// Calendar is the u-ca annotation value, when present.
	Calendar         string
	CalendarCritical bool
}

// parser is a byte cursor over the input.
type parser struct {
	in  string
	pos int
}

func (p *parser) done() bool { return p.pos >= len(p.in) }

func (p *parser) peek() byte {
	if p.done() {
		return 0
	}
	return p.in[p.pos]
}

func (p *parser) take(c byte) bool {
	if p.peek() == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) digits(n int) (int, error) {
	v := 0
	for i := 0; i < n; i++ {
		c := p.peek()
		if c < '0' || c > '9' {
			return 0, errs.Syntaxf("expected digit at position %d in %q", p.pos, p.in)
		}
		v = v*10 + int(c-'0')
		p.pos++
	}
	return v, nil
}

func (p *parser) hasDigit() bool {
	c := p.peek()
	return c >= '0' && c <= '9'
}

func (p *parser) fail(msg string) error {
	return errs.Syntaxf("%s at position %d in %q", msg, p.pos, p.in)
}

// parseFlags select the production being parsed.
type parseFlags struct {
	timeRequired   bool
	offsetRequired bool // offset or Z
	zoneRequired   bool
	rejectZ        bool
}

// ParseDateTime parses a date with optional time, offset, and
// annotations: the production for PlainDate and PlainDateTime. A UTC
// designator is rejected because the result has no exact-time meaning.
func ParseDateTime(s string) (Result, error) {
	return parse(s, parseFlags{rejectZ: true})
}

// ParseInstant parses a date-time that pins an exact instant: time and a
// numeric offset or Z are required.
func ParseInstant(s string) (Result, error) {
	return parse(s, parseFlags{timeRequired: true, offsetRequired: true})
}

// ParseZonedDateTime parses a date-time with a required time zone
// annotation.
func ParseZonedDateTime(s string) (Result, error) {
	return parse(s, parseFlags{zoneRequired: true})
}

// ParseYearMonth parses a year-month, or any full date production.
func ParseYearMonth(s string) (Result, error) {
	var p parser
	p.in = s
	year, extended, err := p.year()
	if err == nil {
		sep := p.take('-')
		month, merr := p.digits(2)
		atEnd := p.done() || p.peek() == '['
		if merr == nil && atEnd && month >= 1 && month <= 12 && (!extended || sep) {
			res := Result{Date: &DateRecord{Year: year, Month: month, Day: 1}}
			if err := p.annotations(&res); err != nil {
				return Result{}, err
			}
			if !p.done() {
				return Result{}, p.fail("unexpected trailing input")
			}
			return res, nil
		}
	}
	return parse(s, parseFlags{rejectZ: true})
}

// ParseMonthDay parses a month-day, with or without the leading "--", or
// any full date production.
func ParseMonthDay(s string) (Result, error) {
	var p parser
	p.in = s
	if p.take('-') && !p.take('-') {
		return Result{}, p.fail("expected '--' prefix")
	}
	if month, err := p.digits(2); err == nil {
		p.take('-')
		if day, derr := p.digits(2); derr == nil && (p.done() || p.peek() == '[') &&
			month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			res := Result{Date: &DateRecord{Year: 1972, Month: month, Day: day}}
			if err := p.annotations(&res); err != nil {
				return Result{}, err
			}
			if !p.done() {
				return Result{}, p.fail("unexpected trailing input")
			}
			return res, nil
		}
	}
	return parse(s, parseFlags{rejectZ: true})
}

// ParseTime parses a time with optional leading T and annotations, or a
// full date-time carrying a time.
func ParseTime(s string) (Result, error) {
	var p parser
	p.in = s
	if !p.take('T') {
		p.take('t')
	}
	t, err := p.time()
	if err == nil {
		res := Result{Time: t}
		if perr := p.finish(&res, parseFlags{rejectZ: true}); perr == nil {
			return res, nil
		}
	}
	res, err := parse(s, parseFlags{timeRequired: true, rejectZ: true})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// parse runs the full date-time production under flags.
func parse(s string, flags parseFlags) (Result, error) {
	var p parser
	p.in = s
	var res Result

	year, _, err := p.year()
	if err != nil {
		return Result{}, err
	}
	extendedDate := p.take('-')
	month, err := p.digits(2)
	if err != nil {
		return Result{}, err
	}
	if extendedDate && !p.take('-') {
		return Result{}, p.fail("expected '-' before day")
	}
	day, err := p.digits(2)
	if err != nil {
		return Result{}, err
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return Result{}, p.fail("calendar date out of range")
	}
	res.Date = &DateRecord{Year: year, Month: month, Day: day}

	if p.take('T') || p.take('t') {
		t, err := p.time()
		if err != nil {
			return Result{}, err
		}
		res.Time = t
	} else if flags.timeRequired {
		return Result{}, p.fail("expected time")
	}

	if err := p.finish(&res, flags); err != nil {
		return Result{}, err
	}
	return res, nil
}

// finish consumes the optional offset, the annotations, and end of
// input.
func (p *parser) finish(res *Result, flags parseFlags) error {
	switch {
	case p.take('Z') || p.take('z'):
		if flags.rejectZ {
			return p.fail("UTC designator not allowed here")
		}
		res.HasUTCDesignator = true
	case p.peek() == '+' || p.peek() == '-':
		if res.Time == nil {
			return p.fail("offset requires a time")
		}
		offset, subMinute, err := p.offset()
		if err != nil {
			return err
		}
		res.OffsetNs = &offset
		res.OffsetSubMinute = subMinute
	default:
		if flags.offsetRequired {
			return p.fail("expected UTC offset or Z")
		}
	}
	if flags.offsetRequired && res.OffsetNs == nil && !res.HasUTCDesignator {
		return p.fail("expected UTC offset or Z")
	}

	if err := p.annotations(res); err != nil {
		return err
	}
	if flags.zoneRequired && res.TimeZone == nil {
		return p.fail("expected time zone annotation")
	}
	if !p.done() {
		return p.fail("unexpected trailing input")
	}
	return nil
}

// year parses a 4-digit year or a signed 6-digit extended year. The
// second result reports the extended form.
func (p *parser) year() (int, bool, error) {
	if p.peek() == '+' || p.peek() == '-' {
		neg := p.peek() == '-'
		p.pos++
		v, err := p.digits(6)
		if err != nil {
			return 0, false, err
		}
		if neg {
			if v == 0 {
				return 0, false, p.fail("negative year zero is not allowed")
			}
			v = -v
		}
		return v, true, nil
	}
	v, err := p.digits(4)
	if err != nil {
		return 0, false, err
	}
	return v, false, nil
}

// time parses HH[:MM[:SS[.fraction]]], with or without separators. A
// second of 60 collapses to 59.
func (p *parser) time() (*TimeRecord, error) {
	hour, err := p.digits(2)
	if err != nil {
		return nil, err
	}
	t := &TimeRecord{Hour: hour}
	sep := p.take(':')
	if !p.hasDigit() {
		if sep {
			return nil, p.fail("expected minutes")
		}
		return t.check(p)
	}
	t.Minute, err = p.digits(2)
	if err != nil {
		return nil, err
	}
	if sep && !p.take(':') {
		if p.hasDigit() {
			return nil, p.fail("inconsistent time separators")
		}
		return t.check(p)
	}
	if !p.hasDigit() {
		return t.check(p)
	}
	t.Second, err = p.digits(2)
	if err != nil {
		return nil, err
	}
	if p.peek() == '.' || p.peek() == ',' {
		p.pos++
		frac, err := p.fraction()
		if err != nil {
			return nil, err
		}
		t.Millisecond = int(frac / 1_000_000)
		t.Microsecond = int(frac / 1_000 % 1_000)
		t.Nanosecond = int(frac % 1_000)
	}
	return t.check(p)
}

func (t *TimeRecord) check(p *parser) (*TimeRecord, error) {
	if t.Second == 60 {
		// Leap seconds are accepted on input and smoothed away.
		t.Second = 59
	}
	if t.Hour > 23 || t.Minute > 59 || t.Second > 59 {
		return nil, p.fail("time component out of range")
	}
	return t, nil
}

// fraction parses 1 to 9 fractional digits into nanoseconds.
func (p *parser) fraction() (int64, error) {
	if !p.hasDigit() {
		return 0, p.fail("expected fractional digits")
	}
	var v int64
	n := 0
	for p.hasDigit() && n < 9 {
		v = v*10 + int64(p.in[p.pos]-'0')
		p.pos++
		n++
	}
	if p.hasDigit() {
		return 0, p.fail("fraction exceeds nanosecond precision")
	}
	for ; n < 9; n++ {
		v *= 10
	}
	return v, nil
}

// offset parses a signed UTC offset with optional sub-minute precision.
func (p *parser) offset() (int64, bool, error) {
	sign := int64(1)
	if p.take('-') {
		sign = -1
	} else if !p.take('+') {
		return 0, false, p.fail("expected offset sign")
	}
	hours, err := p.digits(2)
	if err != nil {
		return 0, false, err
	}
	if hours > 23 {
		return 0, false, p.fail("offset hours out of range")
	}
	var minutes, seconds int
	var frac int64
	subMinute := false
	sep := p.take(':')
	if p.hasDigit() {
		minutes, err = p.digits(2)
		if err != nil {
			return 0, false, err
		}
		if minutes > 59 {
			return 0, false, p.fail("offset minutes out of range")
		}
	} else if sep {
		return 0, false, p.fail("expected offset minutes")
	}
	if sep && p.take(':') || !sep && p.hasDigit() {
		subMinute = true
		seconds, err = p.digits(2)
		if err != nil {
			return 0, false, err
		}
		if seconds > 59 {
			return 0, false, p.fail("offset seconds out of range")
		}
		if p.peek() == '.' || p.peek() == ',' {
			p.pos++
			frac, err = p.fraction()
			if err != nil {
				return 0, false, err
			}
		}
	}
	total := (int64(hours)*3600+int64(minutes)*60+int64(seconds))*1_000_000_000 + frac
	return sign * total, subMinute, nil
}

// annotations parses the bracketed suffixes: an optional time zone
// followed by key-value annotations.
func (p *parser) annotations(res *Result) error {
	seen := map[string]bool{}
	first := true
	for p.take('[') {
		critical := p.take('!')

		if first && p.looksLikeTimeZone() {
			tz, err := p.timeZoneAnnotation(critical)
			if err != nil {
				return err
			}
			res.TimeZone = tz
			first = false
			continue
		}
		first = false

		key, err := p.annotationKey()
		if err != nil {
			return err
		}
		if !p.take('=') {
			return p.fail("expected '=' in annotation")
		}
		value, err := p.annotationValue()
		if err != nil {
			return err
		}
		if !p.take(']') {
			return p.fail("unterminated annotation")
		}

		switch key {
		case "u-ca":
			if seen[key] {
				if critical || res.CalendarCritical {
					return p.fail("duplicate critical u-ca annotation")
				}
				// First occurrence wins.
				continue
			}
			seen[key] = true
			res.Calendar = value
			res.CalendarCritical = critical
		default:
			// Unknown annotations are ignored unless critical.
			if critical {
				return p.fail("unknown critical annotation " + key)
			}
			seen[key] = true
		}
	}
	return nil
}

// looksLikeTimeZone distinguishes a time zone annotation from a
// key-value annotation: time zones have no '=' before the closing
// bracket.
func (p *parser) looksLikeTimeZone() bool {
	for i := p.pos; i < len(p.in); i++ {
		switch p.in[i] {
		case ']':
			return true
		case '=':
			return false
		}
	}
	return false
}

func (p *parser) timeZoneAnnotation(critical bool) (*TimeZoneRecord, error) {
	if p.peek() == '+' || p.peek() == '-' {
		offset, _, err := p.offset()
		if err != nil {
			return nil, err
		}
		if !p.take(']') {
			return nil, p.fail("unterminated time zone annotation")
		}
		return &TimeZoneRecord{IsOffset: true, OffsetNs: offset, Critical: critical}, nil
	}
	start := p.pos
	for !p.done() && p.peek() != ']' {
		c := p.peek()
		ok := c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' ||
			c >= '0' && c <= '9' || c == '_' || c == '-' || c == '+' || c == '.' || c == '/'
		if !ok {
			return nil, p.fail("invalid character in time zone annotation")
		}
		p.pos++
	}
	if p.pos == start || !p.take(']') {
		return nil, p.fail("unterminated time zone annotation")
	}
	return &TimeZoneRecord{Name: p.in[start : p.pos-1], Critical: critical}, nil
}

func (p *parser) annotationKey() (string, error) {
	start := p.pos
	c := p.peek()
	if !(c >= 'a' && c <= 'z' || c == '_') {
		return "", p.fail("invalid annotation key")
	}
	for !p.done() {
		c = p.peek()
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-' || c == '_' {
			p.pos++
			continue
		}
		break
	}
	return p.in[start:p.pos], nil
}

func (p *parser) annotationValue() (string, error) {
	start := p.pos
	for !p.done() {
		c := p.peek()
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return "", p.fail("empty annotation value")
	}
	return p.in[start:p.pos], nil
}

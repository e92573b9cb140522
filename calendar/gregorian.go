package calendar

import (
	"github.com/theory/temporal/errs"
	"github.com/theory/temporal/iso"
)

// eraRule selects the era mapping layered over proleptic Gregorian
// arithmetic.
type eraRule uint8

const (
	eraRuleIso eraRule = iota
	eraRuleGregory
	eraRuleBuddhist
	eraRuleJapanese
	eraRuleRoc
)

// gregorianOps serves every calendar whose months are the ISO months:
// iso8601, gregory, buddhist, japanese, japanext, and roc differ only in
// their era mapping.
type gregorianOps struct {
	era eraRule
}

func (g *gregorianOps) civilFromIso(d iso.Date) civilDate {
	return civilDate{Year: int(d.Year), Month: int(d.Month), Day: int(d.Day)}
}

func (g *gregorianOps) isoFromCivil(year, month, day int) iso.Date {
	return iso.BalanceDate(year, month, day)
}

func (g *gregorianOps) monthsInYear(int) int { return 12 }

func (g *gregorianOps) daysInMonth(year, month int) int { return iso.DaysInMonth(year, month) }

func (g *gregorianOps) daysInYear(year int) int { return iso.DaysInYear(year) }

func (g *gregorianOps) inLeapYear(year int) bool { return iso.IsLeapYear(year) }

func (g *gregorianOps) monthCodeToOrdinal(year int, code MonthCode) (int, error) {
	if code.Leap || code.Number < 1 || code.Number > 12 {
		return 0, errs.Rangef("month code %s not valid for calendar", code)
	}
	return code.Number, nil
}

func (g *gregorianOps) ordinalToMonthCode(_, month int) MonthCode {
	return MonthCode{Number: month}
}

// japaneseEra is an imperial era with its Gregorian start date.
type japaneseEra struct {
	name  string
	start iso.Date
}

// The modern eras recognized by the japanese calendar. Dates before Meiji
// fall back to the common era.
var japaneseEras = []japaneseEra{
	{"meiji", iso.Date{Year: 1868, Month: 9, Day: 8}},
	{"taisho", iso.Date{Year: 1912, Month: 7, Day: 30}},
	{"showa", iso.Date{Year: 1926, Month: 12, Day: 25}},
	{"heisei", iso.Date{Year: 1989, Month: 1, Day: 8}},
	{"reiwa", iso.Date{Year: 2019, Month: 5, Day: 1}},
}

func (g *gregorianOps) eraOf(d civilDate) (string, int) {
	switch g.era {
	case eraRuleIso:
		return "", 0
	case eraRuleGregory:
		if d.Year > 0 {
			return "ce", d.Year
		}
		return "bce", 1 - d.Year
	case eraRuleBuddhist:
		return "be", d.Year + 543
	case eraRuleRoc:
		if d.Year > 1911 {
			return "roc", d.Year - 1911
		}
		return "broc", 1912 - d.Year
	default:
		date := iso.Date{Year: int32(d.Year), Month: uint8(d.Month), Day: uint8(d.Day)}
		for i := len(japaneseEras) - 1; i >= 0; i-- {
			era := japaneseEras[i]
			if date.Compare(era.start) >= 0 {
				return era.name, d.Year - int(era.start.Year) + 1
			}
		}
		if d.Year > 0 {
			return "ce", d.Year
		}
		return "bce", 1 - d.Year
	}
}

func (g *gregorianOps) yearFromEra(era string, eraYear int) (int, error) {
	switch g.era {
	case eraRuleIso:
		return 0, errs.Generic("iso8601 calendar has no eras")
	case eraRuleGregory:
		switch era {
		case "ce", "ad", "gregory":
			return eraYear, nil
		case "bce", "bc", "gregory-inverse":
			return 1 - eraYear, nil
		}
	case eraRuleBuddhist:
		if era == "be" || era == "buddhist" {
			return eraYear - 543, nil
		}
	case eraRuleRoc:
		switch era {
		case "roc", "minguo":
			return eraYear + 1911, nil
		case "broc", "roc-inverse", "before-roc":
			return 1912 - eraYear, nil
		}
	default:
		for _, je := range japaneseEras {
			if era == je.name {
				return int(je.start.Year) + eraYear - 1, nil
			}
		}
		switch era {
		case "ce", "ad", "japanese":
			return eraYear, nil
		case "bce", "bc", "japanese-inverse":
			return 1 - eraYear, nil
		}
	}
	return 0, errs.Rangef("unknown era %q", era)
}

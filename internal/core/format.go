package core

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency selects the display unit for monetary amounts. Amounts are stored
// in Ariary; Fmg is rendered through the fixed multiplier only.
type Currency string

const (
	CurrencyAriary Currency = "MGA"
	CurrencyFmg    Currency = "Fmg"
)

func (c Currency) IsValid() bool {
	return c == CurrencyAriary || c == CurrencyFmg
}

// SupportedLocales lists the display languages the formatters understand.
var SupportedLocales = []language.Tag{language.English, language.French}

var monthNamesFR = [13]string{"",
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

var shortMonthNamesFR = [13]string{"",
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

func isFrench(tag language.Tag) bool {
	base, _ := tag.Base()
	return base.String() == "fr"
}

// FormatMoney renders an amount in the requested display unit with
// locale-aware digit grouping.
func FormatMoney(m Money, cur Currency, tag language.Tag) string {
	p := message.NewPrinter(tag)
	if cur == CurrencyFmg {
		return p.Sprintf("%d Fmg", m.Fmg())
	}
	return p.Sprintf("Ar %d", int64(m))
}

// MonthName returns the localized full month name for a 1-12 month.
func MonthName(month int, tag language.Tag) string {
	if month < 1 || month > 12 {
		return ""
	}
	if isFrench(tag) {
		return monthNamesFR[month]
	}
	return NewDate(2025, month, 1).Month().String()
}

// FormatDate renders a calendar date for display. The open-ended lease
// sentinel renders as a "present" label instead of a 9999 date.
func FormatDate(d Date, tag language.Tag) string {
	if d.IsOngoing() {
		if isFrench(tag) {
			return "en cours"
		}
		return "present"
	}
	if isFrench(tag) {
		return fmt.Sprintf("%d %s %d", d.Day(), shortMonthNamesFR[int(d.Month())], d.Year())
	}
	return d.Format("Jan 2, 2006")
}

// FormatPeriod renders a month or an inclusive month range, e.g.
// "March 2024" or "March 2024 – May 2024". Years keep plain digits; only
// monetary amounts get locale grouping.
func FormatPeriod(startYear, startMonth, endYear, endMonth int, tag language.Tag) string {
	if startYear == endYear && startMonth == endMonth {
		return fmt.Sprintf("%s %d", MonthName(startMonth, tag), startYear)
	}
	return fmt.Sprintf("%s %d – %s %d",
		MonthName(startMonth, tag), startYear,
		MonthName(endMonth, tag), endYear)
}

// Package core implements the status/aggregation engine of the rental
// dashboard: price history resolution, lease interval tests, per-apartment
// monthly status and single-month/range summaries. Everything in this
// package is pure; inputs are never mutated.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Money is a monetary amount in whole Ariary. The Malagasy Ariary carries no
// usable subunit, so amounts stay integral; Fmg is a display unit only.
type Money int64

// FmgPerAriary is the fixed display multiplier between the two supported
// currency units (1 Ariary = 5 Fmg).
const FmgPerAriary = 5

// Fmg returns the amount expressed in Fmg.
func (m Money) Fmg() int64 {
	return int64(m) * FmgPerAriary
}

// ParseMoney converts a decimal string to whole Ariary with half-up rounding
// on the first fractional digit. Both dot and comma separators are accepted.
// Negative values are rejected; zero is allowed (a rent of 0 is legal input).
//
// Examples:
//
//	ParseMoney("1200")    -> 1200, nil
//	ParseMoney("1200,4")  -> 1200, nil
//	ParseMoney("1200.5")  -> 1201, nil
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if len(fracPart) > 0 && fracPart[0] >= '5' {
		v++
	}
	return Money(v), nil
}

package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"rentalflow/internal/core"
)

// parseYearMonth extracts year and month from query parameters, defaulting
// to the current UTC month.
func parseYearMonth(r *http.Request) (year, month int) {
	now := time.Now().UTC()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			month = m
		}
	}
	return year, month
}

// parseMonthRange extracts an inclusive month range. The end defaults to the
// start, so a plain year/month query behaves like the single-month endpoint.
// Reversed bounds are swapped rather than rejected.
func parseMonthRange(r *http.Request) (startYear, startMonth, endYear, endMonth int) {
	startYear, startMonth = parseYearMonth(r)
	endYear, endMonth = startYear, startMonth

	if v := strings.TrimSpace(r.URL.Query().Get("endYear")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			endYear = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("endMonth")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			endMonth = m
		}
	}

	if endYear*12+endMonth < startYear*12+startMonth {
		startYear, startMonth, endYear, endMonth = endYear, endMonth, startYear, startMonth
	}
	return startYear, startMonth, endYear, endMonth
}

func validMonth(month int) bool {
	return month >= 1 && month <= 12
}

// displayOptions resolves the currency and language for formatted output
// from query parameters, falling back to the server defaults.
func (s *Server) displayOptions(r *http.Request) (core.Currency, language.Tag) {
	cur := s.cfg.DefaultCurrency
	if v := core.Currency(strings.TrimSpace(r.URL.Query().Get("currency"))); v.IsValid() {
		cur = v
	}

	tag := s.cfg.DefaultLocale
	switch strings.TrimSpace(r.URL.Query().Get("lang")) {
	case "fr":
		tag = language.French
	case "en":
		tag = language.English
	}
	return cur, tag
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

package core

import (
	"testing"

	"golang.org/x/text/language"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name string
		m    Money
		cur  Currency
		tag  language.Tag
		want string
	}{
		{"ariary english grouping", 1200000, CurrencyAriary, language.English, "Ar 1,200,000"},
		{"fmg applies fixed multiplier", 1200, CurrencyFmg, language.English, "6,000 Fmg"},
		{"small amount no grouping", 950, CurrencyAriary, language.English, "Ar 950"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatMoney(tt.m, tt.cur, tt.tag)
			if got != tt.want {
				t.Errorf("FormatMoney() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMonthName(t *testing.T) {
	if got := MonthName(3, language.English); got != "March" {
		t.Errorf("MonthName(3, en) = %q, want March", got)
	}
	if got := MonthName(3, language.French); got != "mars" {
		t.Errorf("MonthName(3, fr) = %q, want mars", got)
	}
	if got := MonthName(0, language.English); got != "" {
		t.Errorf("MonthName(0) = %q, want empty", got)
	}
}

func TestFormatDate(t *testing.T) {
	d := NewDate(2024, 3, 5)
	if got := FormatDate(d, language.English); got != "Mar 5, 2024" {
		t.Errorf("FormatDate(en) = %q, want Mar 5, 2024", got)
	}
	if got := FormatDate(d, language.French); got != "5 mars 2024" {
		t.Errorf("FormatDate(fr) = %q, want 5 mars 2024", got)
	}
}

func TestFormatDateOngoing(t *testing.T) {
	if got := FormatDate(OngoingEnd(), language.English); got != "present" {
		t.Errorf("FormatDate(sentinel, en) = %q, want present", got)
	}
	if got := FormatDate(OngoingEnd(), language.French); got != "en cours" {
		t.Errorf("FormatDate(sentinel, fr) = %q, want en cours", got)
	}
}

func TestFormatPeriod(t *testing.T) {
	if got := FormatPeriod(2024, 3, 2024, 3, language.English); got != "March 2024" {
		t.Errorf("single month = %q, want March 2024", got)
	}
	if got := FormatPeriod(2024, 3, 2024, 5, language.English); got != "March 2024 – May 2024" {
		t.Errorf("range = %q", got)
	}
}

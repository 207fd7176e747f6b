package core

import (
	"errors"
	"testing"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    Money
		wantErr bool
	}{
		{"1200", 1200, false},
		{" 1200 ", 1200, false},
		{"1200.4", 1200, false},
		{"1200,4", 1200, false},
		{"1200.5", 1201, false},
		{"0", 0, false},
		{"", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"12a", 0, true},
		{"1.2.3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMoney(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("ParseMoney(%q) error = %v, want ErrInvalidAmount", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMoney(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMoney(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMoneyFmg(t *testing.T) {
	if got := Money(1200).Fmg(); got != 6000 {
		t.Errorf("Fmg() = %d, want 6000", got)
	}
}

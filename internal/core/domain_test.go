package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-31")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if d.Year() != 2024 || int(d.Month()) != 3 || d.Day() != 31 {
		t.Errorf("ParseDate() = %s, want 2024-03-31", d)
	}
	if loc := d.Location().String(); loc != "UTC" {
		t.Errorf("location = %s, want UTC", loc)
	}

	if _, err := ParseDate("31/03/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("ParseDate(non-ISO) error = %v, want ErrInvalidDate", err)
	}
}

func TestOngoingSentinel(t *testing.T) {
	if !OngoingEnd().IsOngoing() {
		t.Error("OngoingEnd().IsOngoing() = false")
	}
	if NewDate(2024, 12, 31).IsOngoing() {
		t.Error("regular date flagged as ongoing")
	}
	if OngoingEnd().String() != "9999-12-31" {
		t.Errorf("sentinel = %s, want 9999-12-31", OngoingEnd())
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	lease := Lease{
		ID:          "l1",
		ApartmentID: "a1",
		StartDate:   NewDate(2024, 1, 1),
		EndDate:     OngoingEnd(),
	}
	raw, err := json.Marshal(lease)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Lease
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.StartDate.Equal(lease.StartDate.Time) || !back.EndDate.IsOngoing() {
		t.Errorf("round trip = %+v, want %+v", back, lease)
	}
}

func TestApartmentValidate(t *testing.T) {
	valid := Apartment{
		ID:   "a1",
		Name: "Apt 4B",
		PriceHistory: []PriceEntry{
			{ID: "p1", Price: 1000, EffectiveDate: NewDate(2024, 1, 1)},
		},
	}

	tests := []struct {
		name    string
		mutate  func(*Apartment)
		wantErr error
	}{
		{"valid", func(*Apartment) {}, nil},
		{"blank name", func(a *Apartment) { a.Name = "  " }, ErrEmptyName},
		{"no price history", func(a *Apartment) { a.PriceHistory = nil }, ErrEmptyPriceHistory},
		{"negative price", func(a *Apartment) { a.PriceHistory[0].Price = -1 }, ErrInvalidAmount},
		{"zero effective date", func(a *Apartment) { a.PriceHistory[0].EffectiveDate = Date{} }, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apt := valid
			apt.PriceHistory = append([]PriceEntry(nil), valid.PriceHistory...)
			tt.mutate(&apt)
			if err := apt.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLeaseValidate(t *testing.T) {
	valid := Lease{
		ID:          "l1",
		ApartmentID: "a1",
		StartDate:   NewDate(2024, 1, 1),
		EndDate:     NewDate(2024, 12, 31),
	}

	tests := []struct {
		name    string
		mutate  func(*Lease)
		wantErr error
	}{
		{"valid", func(*Lease) {}, nil},
		{"ongoing end", func(l *Lease) { l.EndDate = OngoingEnd() }, nil},
		{"missing apartment", func(l *Lease) { l.ApartmentID = "" }, ErrEmptyApartmentID},
		{"end before start", func(l *Lease) { l.EndDate = NewDate(2023, 12, 31) }, ErrEndBeforeStart},
		{"zero start", func(l *Lease) { l.StartDate = Date{} }, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lease := valid
			tt.mutate(&lease)
			if err := lease.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPaymentValidate(t *testing.T) {
	valid := Payment{
		ID:      "pay1",
		LeaseID: "l1",
		Amount:  1000,
		Date:    NewDate(2024, 3, 5),
	}

	tests := []struct {
		name    string
		mutate  func(*Payment)
		wantErr error
	}{
		{"valid", func(*Payment) {}, nil},
		{"explicit target", func(p *Payment) { p.TargetYear = 2024; p.TargetMonth = 2 }, nil},
		{"missing lease", func(p *Payment) { p.LeaseID = "" }, ErrEmptyLeaseID},
		{"negative amount", func(p *Payment) { p.Amount = -5 }, ErrInvalidAmount},
		{"target month without year", func(p *Payment) { p.TargetMonth = 2 }, ErrHalfTargetPeriod},
		{"target year without month", func(p *Payment) { p.TargetYear = 2024 }, ErrHalfTargetPeriod},
		{"target month out of range", func(p *Payment) { p.TargetYear = 2024; p.TargetMonth = 13 }, ErrInvalidMonth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

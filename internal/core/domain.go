package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusVacant  Status = "vacant"
	StatusPaid    Status = "paid"
	StatusDeficit Status = "deficit"
)

type (
	// Status is the derived occupancy/payment state of an apartment for a
	// month or a month range.
	Status string

	// Date is a calendar date pinned to UTC midnight. All interval math in
	// this package runs through Date so that ISO date-only strings never
	// shift by a day under a local time zone.
	Date struct {
		time.Time
	}

	// PriceEntry is one step of an apartment's rent history. The price
	// applies from EffectiveDate until superseded by a later entry.
	PriceEntry struct {
		ID            string `json:"id"`
		Price         Money  `json:"price"`
		EffectiveDate Date   `json:"effectiveDate"`
	}

	Apartment struct {
		ID           string       `json:"id"`
		Name         string       `json:"name"`
		PriceHistory []PriceEntry `json:"priceHistory"`
	}

	// Lease is a tenant occupancy interval, inclusive on both ends. An end
	// date equal to the ongoing sentinel means the lease has no fixed end.
	Lease struct {
		ID          string `json:"id"`
		ApartmentID string `json:"apartmentId"`
		StartDate   Date   `json:"startDate"`
		EndDate     Date   `json:"endDate"`
		TenantName  string `json:"tenantName,omitempty"`
	}

	// Payment settles (part of) one billing month of a lease. TargetYear and
	// TargetMonth, when both set, override the billing period otherwise
	// inferred from Date.
	Payment struct {
		ID            string `json:"id"`
		LeaseID       string `json:"leaseId"`
		Amount        Money  `json:"amount"`
		Date          Date   `json:"date"`
		IsFullPayment bool   `json:"isFullPayment"`
		TargetMonth   int    `json:"targetMonth,omitempty"`
		TargetYear    int    `json:"targetYear,omitempty"`
	}
)

var (
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyName         = errors.New("empty apartment name")
	ErrEmptyPriceHistory = errors.New("empty price history")
	ErrEmptyApartmentID  = errors.New("empty apartment id")
	ErrEmptyLeaseID      = errors.New("empty lease id")
	ErrEndBeforeStart    = errors.New("end date before start date")
	ErrHalfTargetPeriod  = errors.New("target month and year must be set together")
)

const dateLayout = "2006-01-02"

// ongoingYear marks the sentinel end date for open-ended leases.
const ongoingYear = 9999

// OngoingEnd is the literal 9999-12-31 sentinel stored on leases with no
// fixed end. It must render as an "ongoing" label, never as a calendar date.
func OngoingEnd() Date {
	return NewDate(ongoingYear, 12, 31)
}

// Today returns the current calendar date in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// NewDate creates a Date from year, month (1-12) and day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO date-only string (2006-01-02) as UTC midnight.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// IsOngoing reports whether the date is the open-ended lease sentinel.
func (d Date) IsOngoing() bool {
	return d.Year() == ongoingYear
}

func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON encodes the date as an ISO date-only string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON decodes an ISO date-only string in UTC.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (a Apartment) Validate() error {
	if len(strings.TrimSpace(a.Name)) == 0 {
		return ErrEmptyName
	}
	if len(a.PriceHistory) == 0 {
		return ErrEmptyPriceHistory
	}
	for _, e := range a.PriceHistory {
		if e.Price < 0 {
			return ErrInvalidAmount
		}
		if err := e.EffectiveDate.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (l Lease) Validate() error {
	if strings.TrimSpace(l.ApartmentID) == "" {
		return ErrEmptyApartmentID
	}
	if err := l.StartDate.Validate(); err != nil {
		return err
	}
	if err := l.EndDate.Validate(); err != nil {
		return err
	}
	if l.EndDate.Before(l.StartDate.Time) {
		return ErrEndBeforeStart
	}
	return nil
}

func (p Payment) Validate() error {
	if strings.TrimSpace(p.LeaseID) == "" {
		return ErrEmptyLeaseID
	}
	if p.Amount < 0 {
		return ErrInvalidAmount
	}
	if err := p.Date.Validate(); err != nil {
		return err
	}
	// Dual addressing: either both target fields carry a billing period or
	// neither does and the period is inferred from Date.
	if (p.TargetMonth == 0) != (p.TargetYear == 0) {
		return ErrHalfTargetPeriod
	}
	if p.TargetMonth < 0 || p.TargetMonth > 12 {
		return ErrInvalidMonth
	}
	return nil
}

package core

import (
	"sort"
	"time"
)

// BillingPeriod is the (year, month) pair a payment settles.
type BillingPeriod struct {
	Year  int `json:"year"`
	Month int `json:"month"` // 1-12
}

// ApartmentStatusInfo is the derived state of one apartment for one month.
// It is a transient computation result and is never persisted.
type ApartmentStatusInfo struct {
	Apartment    Apartment `json:"apartment"`
	Status       Status    `json:"status"`
	Lease        *Lease    `json:"lease,omitempty"`
	Payments     []Payment `json:"payments"`
	TotalPaid    Money     `json:"totalPaid"`
	Deficit      Money     `json:"deficit"`
	RentForMonth Money     `json:"rentForMonth"`
}

// monthBounds returns the first and last instant of a month in UTC. The end
// instant is day 0 of the following month at 23:59:59.999 so that a lease
// ending on the last calendar day still covers the whole month.
func monthBounds(year, month int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year, time.Month(month)+1, 0, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	return start, end
}

// endOfDay forces a date's time component to 23:59:59.999 UTC so inclusive
// end dates cover their entire final day.
func endOfDay(d Date) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

// IsLeaseActiveInMonth reports whether the lease interval overlaps any part
// of the given month. Standard interval-overlap test: the lease starts no
// later than the month ends and ends no earlier than the month starts.
func IsLeaseActiveInMonth(lease Lease, year, month int) bool {
	monthStart, monthEnd := monthBounds(year, month)
	leaseStart := lease.StartDate.Time
	leaseEnd := endOfDay(lease.EndDate)
	return !leaseStart.After(monthEnd) && !leaseEnd.Before(monthStart)
}

// PriceForMonth resolves the rent in effect for a month from a price history.
// The history is copied and sorted by effective date descending; the first
// entry effective on or before the month's first instant wins. A month that
// predates the whole history falls back to the oldest entry. An empty
// history resolves to 0.
//
// Entries sharing an effective date resolve to the one appearing first in
// the input (stable sort).
func PriceForMonth(history []PriceEntry, year, month int) Money {
	if len(history) == 0 {
		return 0
	}
	monthStart, _ := monthBounds(year, month)

	sorted := make([]PriceEntry, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EffectiveDate.After(sorted[j].EffectiveDate.Time)
	})

	for _, e := range sorted {
		if !e.EffectiveDate.After(monthStart) {
			return e.Price
		}
	}
	// Month predates all history: use the oldest known price.
	return sorted[len(sorted)-1].Price
}

// ResolveBillingPeriod returns the billing period a payment counts against:
// the explicit target month/year when both are present, otherwise the period
// inferred from the payment date. The precedence rule lives only here.
func ResolveBillingPeriod(p Payment) BillingPeriod {
	if p.TargetYear != 0 && p.TargetMonth != 0 {
		return BillingPeriod{Year: p.TargetYear, Month: p.TargetMonth}
	}
	return BillingPeriod{Year: p.Date.Year(), Month: int(p.Date.Month())}
}

// CalculateApartmentStatus derives one apartment's status for a month.
//
// The first lease in input order that is active for the month is used;
// overlapping leases for the same apartment are a data-entry anomaly and are
// not deduplicated here (see FindLeaseOverlaps). Without an active lease the
// apartment is vacant but the resolved rent is still reported. With one, the
// lease's payments for the billing period are summed; a full-payment flag
// settles the month regardless of amount.
func CalculateApartmentStatus(apartment Apartment, leases []Lease, payments []Payment, year, month int) ApartmentStatusInfo {
	rent := PriceForMonth(apartment.PriceHistory, year, month)

	var active *Lease
	for i := range leases {
		if leases[i].ApartmentID == apartment.ID && IsLeaseActiveInMonth(leases[i], year, month) {
			lease := leases[i]
			active = &lease
			break
		}
	}

	if active == nil {
		return ApartmentStatusInfo{
			Apartment:    apartment,
			Status:       StatusVacant,
			Payments:     []Payment{},
			RentForMonth: rent,
		}
	}

	period := BillingPeriod{Year: year, Month: month}
	matched := []Payment{}
	var totalPaid Money
	hasFullPayment := false
	for _, p := range payments {
		if p.LeaseID != active.ID || ResolveBillingPeriod(p) != period {
			continue
		}
		matched = append(matched, p)
		totalPaid += p.Amount
		if p.IsFullPayment {
			hasFullPayment = true
		}
	}

	status := StatusDeficit
	if hasFullPayment || totalPaid >= rent {
		status = StatusPaid
	}
	deficit := rent - totalPaid
	if deficit < 0 {
		deficit = 0
	}

	return ApartmentStatusInfo{
		Apartment:    apartment,
		Status:       status,
		Lease:        active,
		Payments:     matched,
		TotalPaid:    totalPaid,
		Deficit:      deficit,
		RentForMonth: rent,
	}
}

// LeaseOverlap flags two leases of the same apartment whose intervals share
// at least one day. Which of the two the calculators pick for an overlapping
// month depends on input order, so callers should surface these as warnings.
type LeaseOverlap struct {
	ApartmentID  string `json:"apartmentId"`
	LeaseID      string `json:"leaseId"`
	OtherLeaseID string `json:"otherLeaseId"`
}

// FindLeaseOverlaps reports every overlapping lease pair per apartment.
func FindLeaseOverlaps(leases []Lease) []LeaseOverlap {
	var overlaps []LeaseOverlap
	for i := 0; i < len(leases); i++ {
		for j := i + 1; j < len(leases); j++ {
			a, b := leases[i], leases[j]
			if a.ApartmentID != b.ApartmentID {
				continue
			}
			if !a.StartDate.After(endOfDay(b.EndDate)) && !endOfDay(a.EndDate).Before(b.StartDate.Time) {
				overlaps = append(overlaps, LeaseOverlap{
					ApartmentID:  a.ApartmentID,
					LeaseID:      a.ID,
					OtherLeaseID: b.ID,
				})
			}
		}
	}
	return overlaps
}

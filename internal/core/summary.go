package core

// DashboardSummary aggregates the per-apartment statuses of a single month
// into dashboard totals. Statuses carries the full per-row detail so the UI
// renders both without recomputing.
type DashboardSummary struct {
	Statuses       []ApartmentStatusInfo `json:"statuses"`
	ExpectedIncome Money                 `json:"expectedIncome"`
	Collected      Money                 `json:"collected"`
	Missing        Money                 `json:"missing"`
	OccupiedCount  int                   `json:"occupiedCount"`
	VacantCount    int                   `json:"vacantCount"`
	PaidCount      int                   `json:"paidCount"`
	DeficitCount   int                   `json:"deficitCount"`
}

// ApartmentPeriodInfo is the multi-month counterpart of ApartmentStatusInfo.
// RentForPeriod is the sum of monthly rents over the occupied months of the
// range; it is deliberately a distinct field rather than a reinterpretation
// of RentForMonth.
type ApartmentPeriodInfo struct {
	Apartment     Apartment `json:"apartment"`
	Status        Status    `json:"status"`
	Lease         *Lease    `json:"lease,omitempty"`
	Payments      []Payment `json:"payments"`
	TotalPaid     Money     `json:"totalPaid"`
	Deficit       Money     `json:"deficit"`
	RentForPeriod Money     `json:"rentForPeriod"`
}

// RangeSummary aggregates per-apartment period totals over an inclusive
// month range.
type RangeSummary struct {
	Statuses       []ApartmentPeriodInfo `json:"statuses"`
	ExpectedIncome Money                 `json:"expectedIncome"`
	Collected      Money                 `json:"collected"`
	Missing        Money                 `json:"missing"`
	OccupiedCount  int                   `json:"occupiedCount"`
	VacantCount    int                   `json:"vacantCount"`
	PaidCount      int                   `json:"paidCount"`
	DeficitCount   int                   `json:"deficitCount"`
}

// CalculateDashboardSummary maps CalculateApartmentStatus over every
// apartment for the given month and reduces to dashboard totals. Expected
// income counts occupied apartments only; collected counts everything;
// missing counts deficits only, so an overpayment in one apartment never
// offsets a shortfall in another.
func CalculateDashboardSummary(apartments []Apartment, leases []Lease, payments []Payment, year, month int) DashboardSummary {
	statuses := make([]ApartmentStatusInfo, 0, len(apartments))
	for _, apt := range apartments {
		statuses = append(statuses, CalculateApartmentStatus(apt, leases, payments, year, month))
	}

	summary := DashboardSummary{Statuses: statuses}
	for _, s := range statuses {
		summary.Collected += s.TotalPaid
		switch s.Status {
		case StatusVacant:
			summary.VacantCount++
			continue
		case StatusPaid:
			summary.PaidCount++
		case StatusDeficit:
			summary.DeficitCount++
			summary.Missing += s.Deficit
		}
		summary.OccupiedCount++
		summary.ExpectedIncome += s.RentForMonth
	}
	if summary.Missing < 0 {
		summary.Missing = 0
	}
	return summary
}

// CalculateRangeSummary rolls up every calendar month from (startYear,
// startMonth) through (endYear, endMonth) inclusive. Rent accrues only for
// months the apartment was occupied; payments accumulate across the whole
// range; the reported lease is the one from the first occupied month. The
// period status is re-derived from the totals, not taken from any single
// month. A start after the end produces the degenerate all-vacant result;
// callers are expected to order the bounds.
func CalculateRangeSummary(apartments []Apartment, leases []Lease, payments []Payment, startYear, startMonth, endYear, endMonth int) RangeSummary {
	entries := make([]ApartmentPeriodInfo, len(apartments))
	for i, apt := range apartments {
		entries[i] = ApartmentPeriodInfo{Apartment: apt, Payments: []Payment{}}
	}

	start := startYear*12 + (startMonth - 1)
	end := endYear*12 + (endMonth - 1)
	for cur := start; cur <= end; cur++ {
		year := cur / 12
		month := cur%12 + 1
		for i, apt := range apartments {
			monthly := CalculateApartmentStatus(apt, leases, payments, year, month)
			entries[i].TotalPaid += monthly.TotalPaid
			entries[i].Payments = append(entries[i].Payments, monthly.Payments...)
			if monthly.Status == StatusVacant {
				continue
			}
			entries[i].RentForPeriod += monthly.RentForMonth
			if entries[i].Lease == nil {
				entries[i].Lease = monthly.Lease
			}
		}
	}

	summary := RangeSummary{Statuses: entries}
	for i := range entries {
		e := &entries[i]
		switch {
		case e.RentForPeriod == 0:
			e.Status = StatusVacant
		case e.TotalPaid >= e.RentForPeriod:
			e.Status = StatusPaid
		default:
			e.Status = StatusDeficit
		}
		if d := e.RentForPeriod - e.TotalPaid; d > 0 {
			e.Deficit = d
		}

		summary.Collected += e.TotalPaid
		switch e.Status {
		case StatusVacant:
			summary.VacantCount++
			continue
		case StatusPaid:
			summary.PaidCount++
		case StatusDeficit:
			summary.DeficitCount++
			summary.Missing += e.Deficit
		}
		summary.OccupiedCount++
		summary.ExpectedIncome += e.RentForPeriod
	}
	return summary
}

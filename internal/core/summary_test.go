package core

import (
	"reflect"
	"testing"
)

func summaryFixture() ([]Apartment, []Lease, []Payment) {
	apartments := []Apartment{
		apartmentWithPrice("a1", 1200, NewDate(2024, 1, 1)),
		apartmentWithPrice("a2", 1550, NewDate(2024, 1, 1)),
		apartmentWithPrice("a3", 950, NewDate(2024, 1, 1)),
	}
	leases := []Lease{
		{ID: "l1", ApartmentID: "a1", TenantName: "Alice Johnson", StartDate: NewDate(2024, 1, 1), EndDate: NewDate(2024, 12, 31)},
		{ID: "l2", ApartmentID: "a2", TenantName: "Bob Williams", StartDate: NewDate(2023, 6, 1), EndDate: OngoingEnd()},
	}
	payments := []Payment{
		{ID: "pay1", LeaseID: "l1", Amount: 1200, Date: NewDate(2024, 7, 1), IsFullPayment: true},
		{ID: "pay2", LeaseID: "l2", Amount: 800, Date: NewDate(2024, 7, 3)},
	}
	return apartments, leases, payments
}

func TestCalculateDashboardSummary(t *testing.T) {
	apartments, leases, payments := summaryFixture()

	got := CalculateDashboardSummary(apartments, leases, payments, 2024, 7)

	if got.ExpectedIncome != 1200+1550 {
		t.Errorf("expectedIncome = %d, want %d", got.ExpectedIncome, 1200+1550)
	}
	if got.Collected != 2000 {
		t.Errorf("collected = %d, want 2000", got.Collected)
	}
	if got.Missing != 750 {
		t.Errorf("missing = %d, want 750", got.Missing)
	}
	if got.OccupiedCount != 2 || got.VacantCount != 1 {
		t.Errorf("occupancy = %d/%d, want 2/1", got.OccupiedCount, got.VacantCount)
	}
	if got.PaidCount != 1 || got.DeficitCount != 1 {
		t.Errorf("paid/deficit = %d/%d, want 1/1", got.PaidCount, got.DeficitCount)
	}
	if len(got.Statuses) != 3 {
		t.Errorf("statuses = %d rows, want 3", len(got.Statuses))
	}
}

func TestCalculateDashboardSummaryIdempotent(t *testing.T) {
	apartments, leases, payments := summaryFixture()

	first := CalculateDashboardSummary(apartments, leases, payments, 2024, 7)
	second := CalculateDashboardSummary(apartments, leases, payments, 2024, 7)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls differ:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestOverpaymentDoesNotOffsetDeficit(t *testing.T) {
	apartments, leases, _ := summaryFixture()
	payments := []Payment{
		// a1 overpays by 800, a2 underpays by 550.
		{ID: "pay1", LeaseID: "l1", Amount: 2000, Date: NewDate(2024, 7, 1)},
		{ID: "pay2", LeaseID: "l2", Amount: 1000, Date: NewDate(2024, 7, 3)},
	}

	got := CalculateDashboardSummary(apartments, leases, payments, 2024, 7)

	if got.Missing != 550 {
		t.Errorf("missing = %d, want 550 (overpayment must not offset deficit)", got.Missing)
	}
	if got.ExpectedIncome-got.Collected == got.Missing {
		t.Errorf("expected-collected (%d) accidentally equals missing (%d); fixture lost its point",
			got.ExpectedIncome-got.Collected, got.Missing)
	}
}

func TestCalculateRangeSummarySingleMonthMatchesDashboard(t *testing.T) {
	apartments, leases, payments := summaryFixture()

	month := CalculateDashboardSummary(apartments, leases, payments, 2024, 7)
	period := CalculateRangeSummary(apartments, leases, payments, 2024, 7, 2024, 7)

	if period.ExpectedIncome != month.ExpectedIncome ||
		period.Collected != month.Collected ||
		period.Missing != month.Missing ||
		period.OccupiedCount != month.OccupiedCount ||
		period.VacantCount != month.VacantCount ||
		period.PaidCount != month.PaidCount ||
		period.DeficitCount != month.DeficitCount {
		t.Errorf("scalar mismatch:\nmonth  %+v\nperiod %+v", month, period)
	}

	for i := range month.Statuses {
		m, p := month.Statuses[i], period.Statuses[i]
		if m.Status != p.Status || m.TotalPaid != p.TotalPaid || m.Deficit != p.Deficit {
			t.Errorf("row %d mismatch: month %s/%d/%d period %s/%d/%d", i,
				m.Status, m.TotalPaid, m.Deficit, p.Status, p.TotalPaid, p.Deficit)
		}
		if m.RentForMonth != p.RentForPeriod {
			t.Errorf("row %d rent mismatch: month %d period %d", i, m.RentForMonth, p.RentForPeriod)
		}
	}
}

func TestCalculateRangeSummaryAccumulates(t *testing.T) {
	apt := Apartment{
		ID:   "a1",
		Name: "Apt a1",
		PriceHistory: []PriceEntry{
			{ID: "p1", Price: 1000, EffectiveDate: NewDate(2024, 1, 1)},
			{ID: "p2", Price: 1200, EffectiveDate: NewDate(2024, 3, 1)},
		},
	}
	lease := Lease{ID: "l1", ApartmentID: "a1", StartDate: NewDate(2024, 2, 1), EndDate: OngoingEnd()}
	payments := []Payment{
		{ID: "pay1", LeaseID: "l1", Amount: 1000, Date: NewDate(2024, 2, 5)},
		{ID: "pay2", LeaseID: "l1", Amount: 600, Date: NewDate(2024, 3, 5)},
		// Paid in April but targeted at March.
		{ID: "pay3", LeaseID: "l1", Amount: 600, Date: NewDate(2024, 4, 2), TargetYear: 2024, TargetMonth: 3},
	}

	// January (vacant), February (rent 1000), March (rent 1200).
	got := CalculateRangeSummary([]Apartment{apt}, []Lease{lease}, payments, 2024, 1, 2024, 3)

	if len(got.Statuses) != 1 {
		t.Fatalf("statuses = %d rows, want 1", len(got.Statuses))
	}
	row := got.Statuses[0]
	if row.RentForPeriod != 2200 {
		t.Errorf("rentForPeriod = %d, want 2200 (vacant january excluded)", row.RentForPeriod)
	}
	if row.TotalPaid != 2200 {
		t.Errorf("totalPaid = %d, want 2200", row.TotalPaid)
	}
	if row.Status != StatusPaid || row.Deficit != 0 {
		t.Errorf("got %s deficit=%d, want paid/0", row.Status, row.Deficit)
	}
	if len(row.Payments) != 3 {
		t.Errorf("payments = %d, want 3 (each matched exactly once)", len(row.Payments))
	}
	if row.Lease == nil || row.Lease.ID != "l1" {
		t.Errorf("lease = %v, want l1 captured from first occupied month", row.Lease)
	}
	if got.ExpectedIncome != 2200 || got.Collected != 2200 || got.Missing != 0 {
		t.Errorf("totals = %d/%d/%d, want 2200/2200/0",
			got.ExpectedIncome, got.Collected, got.Missing)
	}
}

func TestCalculateRangeSummaryPeriodStatusRederived(t *testing.T) {
	apt := apartmentWithPrice("a1", 1000, NewDate(2024, 1, 1))
	lease := Lease{ID: "l1", ApartmentID: "a1", StartDate: NewDate(2024, 1, 1), EndDate: OngoingEnd()}
	payments := []Payment{
		// February fully paid, March unpaid: the period is a deficit even
		// though one month was settled.
		{ID: "pay1", LeaseID: "l1", Amount: 1000, Date: NewDate(2024, 2, 5)},
	}

	got := CalculateRangeSummary([]Apartment{apt}, []Lease{lease}, payments, 2024, 2, 2024, 3)

	row := got.Statuses[0]
	if row.Status != StatusDeficit {
		t.Errorf("status = %s, want deficit", row.Status)
	}
	if row.Deficit != 1000 {
		t.Errorf("deficit = %d, want 1000", row.Deficit)
	}
}

func TestCalculateRangeSummaryYearBoundary(t *testing.T) {
	apt := apartmentWithPrice("a1", 1000, NewDate(2023, 1, 1))
	lease := Lease{ID: "l1", ApartmentID: "a1", StartDate: NewDate(2023, 1, 1), EndDate: OngoingEnd()}

	got := CalculateRangeSummary([]Apartment{apt}, []Lease{lease}, nil, 2023, 11, 2024, 2)

	if got.Statuses[0].RentForPeriod != 4000 {
		t.Errorf("rentForPeriod = %d, want 4000 over nov-feb", got.Statuses[0].RentForPeriod)
	}
}

func TestCalculateRangeSummaryDegenerateBounds(t *testing.T) {
	apartments, leases, payments := summaryFixture()

	// Start after end: no months iterate, everything reads vacant.
	got := CalculateRangeSummary(apartments, leases, payments, 2024, 8, 2024, 7)

	if got.VacantCount != len(apartments) {
		t.Errorf("vacantCount = %d, want %d", got.VacantCount, len(apartments))
	}
	if got.ExpectedIncome != 0 || got.Collected != 0 || got.Missing != 0 {
		t.Errorf("totals = %d/%d/%d, want all zero",
			got.ExpectedIncome, got.Collected, got.Missing)
	}
}

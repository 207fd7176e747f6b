package http

import (
	"net/http/httptest"
	"strings"
	"testing"

	"rentalflow/internal/core"
)

func parserFor(t *testing.T, contentType, body string) *requestBodyParser {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	p := newRequestBodyParser(req)
	if p.Err() != nil {
		t.Fatalf("parse body: %v", p.Err())
	}
	return p
}

func TestParserReadsJSONAndForm(t *testing.T) {
	jsonP := parserFor(t, "application/json", `{"leaseId":"7","amount":"500","isFullPayment":true}`)
	if !jsonP.IsJSON() {
		t.Fatal("expected JSON body to be detected")
	}
	if got := jsonP.Get("leaseId"); got != "7" {
		t.Errorf("Get(leaseId) = %q", got)
	}
	if !jsonP.GetBool("isFullPayment") {
		t.Error("GetBool(isFullPayment) = false")
	}

	formP := parserFor(t, "application/x-www-form-urlencoded", "leaseId=7&amount=500&isFullPayment=on")
	if formP.IsJSON() {
		t.Fatal("form body detected as JSON")
	}
	if got := formP.Get("leaseId"); got != "7" {
		t.Errorf("Get(leaseId) = %q", got)
	}
	if !formP.GetBool("isFullPayment") {
		t.Error("checkbox 'on' should read as true")
	}
}

func TestParserSanitizesValues(t *testing.T) {
	p := parserFor(t, "application/x-www-form-urlencoded", "name=%20Villa%00Vanille%20")
	if got := p.Get("name"); got != "VillaVanille" {
		t.Errorf("Get(name) = %q, want control chars and padding stripped", got)
	}
}

func TestParserRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	if p := newRequestBodyParser(req); p.Err() == nil {
		t.Fatal("expected error for truncated JSON")
	}
}

func TestLeaseFromBodyDefaultsToOngoing(t *testing.T) {
	p := parserFor(t, "application/x-www-form-urlencoded",
		"apartmentId=3&startDate=2024-02-01&tenantName=Hanta")
	lease, err := leaseFromBody(p)
	if err != nil {
		t.Fatalf("leaseFromBody: %v", err)
	}
	if !lease.EndDate.IsOngoing() {
		t.Errorf("EndDate = %s, want ongoing sentinel", lease.EndDate)
	}
	if lease.StartDate != core.NewDate(2024, 2, 1) {
		t.Errorf("StartDate = %s", lease.StartDate)
	}
}

func TestLeaseFromBodyExplicitEnd(t *testing.T) {
	p := parserFor(t, "application/json",
		`{"apartmentId":"3","startDate":"2024-02-01","endDate":"2024-08-31"}`)
	lease, err := leaseFromBody(p)
	if err != nil {
		t.Fatalf("leaseFromBody: %v", err)
	}
	if lease.EndDate != core.NewDate(2024, 8, 31) {
		t.Errorf("EndDate = %s", lease.EndDate)
	}
}

func TestPaymentFromBodyDefaultsDateToToday(t *testing.T) {
	p := parserFor(t, "application/x-www-form-urlencoded", "leaseId=1&amount=500")
	payment, err := paymentFromBody(p)
	if err != nil {
		t.Fatalf("paymentFromBody: %v", err)
	}
	if payment.Date != core.Today() {
		t.Errorf("Date = %s, want today", payment.Date)
	}
	if payment.TargetMonth != 0 || payment.TargetYear != 0 {
		t.Errorf("target period should stay unset, got %d-%d", payment.TargetYear, payment.TargetMonth)
	}
}

func TestPaymentFromBodyTargetPeriod(t *testing.T) {
	p := parserFor(t, "application/json",
		`{"leaseId":"1","amount":"500","date":"2024-04-02","targetMonth":3,"targetYear":2024}`)
	payment, err := paymentFromBody(p)
	if err != nil {
		t.Fatalf("paymentFromBody: %v", err)
	}
	if payment.TargetMonth != 3 || payment.TargetYear != 2024 {
		t.Errorf("target = %d-%d, want 2024-3", payment.TargetYear, payment.TargetMonth)
	}
}

func TestPaymentFromBodyRejectsBadAmount(t *testing.T) {
	p := parserFor(t, "application/x-www-form-urlencoded", "leaseId=1&amount=abc")
	if _, err := paymentFromBody(p); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}
}

func TestApartmentFromFormBuildsSingleEntryHistory(t *testing.T) {
	p := parserFor(t, "application/x-www-form-urlencoded",
		"name=Villa+Rose&price=120000&effectiveDate=2024-01-01")
	apt, err := apartmentFromBody(p)
	if err != nil {
		t.Fatalf("apartmentFromBody: %v", err)
	}
	if apt.Name != "Villa Rose" {
		t.Errorf("Name = %q", apt.Name)
	}
	if len(apt.PriceHistory) != 1 || apt.PriceHistory[0].Price != 120000 {
		t.Errorf("PriceHistory = %+v", apt.PriceHistory)
	}
}

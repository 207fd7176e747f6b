package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/text/language"

	"rentalflow/internal/core"
)

// handleIndex renders the dashboard page shell; the summary itself is pulled
// in by the page as an HTML partial.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	year, month := parseYearMonth(r)
	data := struct {
		Year  int
		Month int
	}{Year: year, Month: month}

	if err := s.templates.ExecuteTemplate(w, "dashboard_page", data); err != nil {
		slog.ErrorContext(r.Context(), "Dashboard template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReadyz reports readiness by touching the repository.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := s.service.ListApartments(ctx); err != nil {
		slog.ErrorContext(ctx, "Readiness check failed", "error", err)
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// statusRow is one apartment line of the rendered summary.
type statusRow struct {
	ApartmentID   string
	ApartmentName string
	Status        string
	Tenant        string
	LeasePeriod   string
	Rent          string
	Paid          string
	Deficit       string
}

// summaryView is the template model for the dashboard partial, with all
// monetary amounts and dates preformatted for the requested locale.
type summaryView struct {
	PeriodLabel   string
	Expected      string
	Collected     string
	Missing       string
	OccupiedCount int
	VacantCount   int
	PaidCount     int
	DeficitCount  int
	Rows          []statusRow
}

// handleDashboardPartial renders the month (or month range) summary as an
// HTML fragment for HTMX swaps.
func (s *Server) handleDashboardPartial(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	startYear, startMonth, endYear, endMonth := parseMonthRange(r)
	if !validMonth(startMonth) || !validMonth(endMonth) {
		ErrorResponse(http.StatusBadRequest, "month must be between 1 and 12").Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	cur, tag := s.displayOptions(r)

	var view summaryView
	if startYear == endYear && startMonth == endMonth {
		summary, err := s.dashboardSummary(ctx, startYear, startMonth)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to compute dashboard summary",
				"error", err, "year", startYear, "month", startMonth)
			ErrorResponse(http.StatusInternalServerError, "Failed to load dashboard").Write(w)
			return
		}
		view = monthView(summary, startYear, startMonth, cur, tag)
	} else {
		summary, err := s.rangeSummary(ctx, startYear, startMonth, endYear, endMonth)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to compute range summary",
				"error", err, "start_year", startYear, "start_month", startMonth,
				"end_year", endYear, "end_month", endMonth)
			ErrorResponse(http.StatusInternalServerError, "Failed to load dashboard").Write(w)
			return
		}
		view = rangeView(summary, startYear, startMonth, endYear, endMonth, cur, tag)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "dashboard_summary", view); err != nil {
		slog.ErrorContext(ctx, "Summary template failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func monthView(summary core.DashboardSummary, year, month int, cur core.Currency, tag language.Tag) summaryView {
	view := summaryView{
		PeriodLabel:   core.FormatPeriod(year, month, year, month, tag),
		Expected:      core.FormatMoney(summary.ExpectedIncome, cur, tag),
		Collected:     core.FormatMoney(summary.Collected, cur, tag),
		Missing:       core.FormatMoney(summary.Missing, cur, tag),
		OccupiedCount: summary.OccupiedCount,
		VacantCount:   summary.VacantCount,
		PaidCount:     summary.PaidCount,
		DeficitCount:  summary.DeficitCount,
	}
	for _, info := range summary.Statuses {
		view.Rows = append(view.Rows, buildRow(
			info.Apartment, info.Status, info.Lease,
			info.RentForMonth, info.TotalPaid, info.Deficit, cur, tag))
	}
	return view
}

func rangeView(summary core.RangeSummary, startYear, startMonth, endYear, endMonth int, cur core.Currency, tag language.Tag) summaryView {
	view := summaryView{
		PeriodLabel:   core.FormatPeriod(startYear, startMonth, endYear, endMonth, tag),
		Expected:      core.FormatMoney(summary.ExpectedIncome, cur, tag),
		Collected:     core.FormatMoney(summary.Collected, cur, tag),
		Missing:       core.FormatMoney(summary.Missing, cur, tag),
		OccupiedCount: summary.OccupiedCount,
		VacantCount:   summary.VacantCount,
		PaidCount:     summary.PaidCount,
		DeficitCount:  summary.DeficitCount,
	}
	for _, info := range summary.Statuses {
		view.Rows = append(view.Rows, buildRow(
			info.Apartment, info.Status, info.Lease,
			info.RentForPeriod, info.TotalPaid, info.Deficit, cur, tag))
	}
	return view
}

func buildRow(apt core.Apartment, status core.Status, lease *core.Lease, rent, paid, deficit core.Money, cur core.Currency, tag language.Tag) statusRow {
	row := statusRow{
		ApartmentID:   apt.ID,
		ApartmentName: apt.Name,
		Status:        string(status),
		Rent:          core.FormatMoney(rent, cur, tag),
		Paid:          core.FormatMoney(paid, cur, tag),
		Deficit:       core.FormatMoney(deficit, cur, tag),
	}
	if lease != nil {
		row.Tenant = lease.TenantName
		row.LeasePeriod = core.FormatDate(lease.StartDate, tag) + " – " + core.FormatDate(lease.EndDate, tag)
	}
	return row
}

// handleAPIDashboard returns the raw month summary as JSON.
func (s *Server) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	year, month := parseYearMonth(r)
	if !validMonth(month) {
		jsonError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	summary, err := s.dashboardSummary(ctx, year, month)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to compute dashboard summary",
			"error", err, "year", year, "month", month)
		jsonError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Year  int `json:"year"`
		Month int `json:"month"`
		core.DashboardSummary
	}{Year: year, Month: month, DashboardSummary: summary})
}

// handleAPIDashboardRange returns the raw month-range summary as JSON.
func (s *Server) handleAPIDashboardRange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	startYear, startMonth, endYear, endMonth := parseMonthRange(r)
	if !validMonth(startMonth) || !validMonth(endMonth) {
		jsonError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	summary, err := s.rangeSummary(ctx, startYear, startMonth, endYear, endMonth)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to compute range summary",
			"error", err, "start_year", startYear, "start_month", startMonth,
			"end_year", endYear, "end_month", endMonth)
		jsonError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		StartYear  int `json:"startYear"`
		StartMonth int `json:"startMonth"`
		EndYear    int `json:"endYear"`
		EndMonth   int `json:"endMonth"`
		core.RangeSummary
	}{
		StartYear: startYear, StartMonth: startMonth,
		EndYear: endYear, EndMonth: endMonth,
		RangeSummary: summary,
	})
}

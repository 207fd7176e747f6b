// Request body parsing for the CRUD endpoints. Bodies arrive either as JSON
// (API clients) or form-encoded data (HTMX forms); the parser reads the body
// once and serves both shapes through the same accessors.
package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"rentalflow/internal/core"
)

type requestBodyParser struct {
	body     []byte
	jsonData map[string]interface{}
	formData url.Values
	err      error
}

func newRequestBodyParser(r *http.Request) *requestBodyParser {
	p := &requestBodyParser{}
	p.body, p.err = io.ReadAll(r.Body)
	if p.err != nil {
		return p
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return p
	}

	if p.body[0] == '{' || p.body[0] == '[' {
		p.jsonData = make(map[string]interface{})
		p.err = json.Unmarshal(p.body, &p.jsonData)
		return p
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p
}

func (p *requestBodyParser) Err() error {
	return p.err
}

// IsJSON reports whether the body parsed as a JSON object.
func (p *requestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func (p *requestBodyParser) Raw() []byte {
	return p.body
}

// Get returns a sanitized string value from the parsed body.
func (p *requestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// GetInt returns an integer value, 0 when absent or malformed.
func (p *requestBodyParser) GetInt(key string) int {
	n, _ := strconv.Atoi(p.Get(key))
	return n
}

// GetBool interprets checkbox and JSON boolean values.
func (p *requestBodyParser) GetBool(key string) bool {
	switch strings.ToLower(p.Get(key)) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// apartmentFromBody decodes an apartment. JSON bodies may carry the full
// price history; form bodies create a single-entry history from the initial
// price and its effective date.
func apartmentFromBody(p *requestBodyParser) (core.Apartment, error) {
	if p.IsJSON() {
		var a core.Apartment
		if err := json.Unmarshal(p.Raw(), &a); err != nil {
			return core.Apartment{}, err
		}
		a.Name = sanitizeInput(a.Name)
		return a, nil
	}

	price, err := core.ParseMoney(p.Get("price"))
	if err != nil {
		return core.Apartment{}, err
	}
	effective, err := parseDateField(p.Get("effectiveDate"))
	if err != nil {
		return core.Apartment{}, err
	}
	return core.Apartment{
		ID:   p.Get("id"),
		Name: p.Get("name"),
		PriceHistory: []core.PriceEntry{
			{Price: price, EffectiveDate: effective},
		},
	}, nil
}

// leaseFromBody decodes a lease. An absent or "ongoing" end date becomes the
// open-ended sentinel.
func leaseFromBody(p *requestBodyParser) (core.Lease, error) {
	start, err := parseDateField(p.Get("startDate"))
	if err != nil {
		return core.Lease{}, err
	}

	end := core.OngoingEnd()
	if v := p.Get("endDate"); v != "" && v != "ongoing" {
		end, err = parseDateField(v)
		if err != nil {
			return core.Lease{}, err
		}
	}

	return core.Lease{
		ID:          p.Get("id"),
		ApartmentID: p.Get("apartmentId"),
		StartDate:   start,
		EndDate:     end,
		TenantName:  p.Get("tenantName"),
	}, nil
}

// paymentFromBody decodes a payment. The payment date defaults to today;
// target month and year are optional and only meaningful together.
func paymentFromBody(p *requestBodyParser) (core.Payment, error) {
	amount, err := core.ParseMoney(p.Get("amount"))
	if err != nil {
		return core.Payment{}, err
	}

	date := core.Today()
	if v := p.Get("date"); v != "" {
		date, err = parseDateField(v)
		if err != nil {
			return core.Payment{}, err
		}
	}

	return core.Payment{
		ID:            p.Get("id"),
		LeaseID:       p.Get("leaseId"),
		Amount:        amount,
		Date:          date,
		IsFullPayment: p.GetBool("isFullPayment"),
		TargetMonth:   p.GetInt("targetMonth"),
		TargetYear:    p.GetInt("targetYear"),
	}, nil
}

func parseDateField(s string) (core.Date, error) {
	return core.ParseDate(s)
}

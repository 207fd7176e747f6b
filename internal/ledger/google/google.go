// Package google implements the ledger writer on top of a Google Sheets
// spreadsheet, one row per payment, one sheet per year.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"rentalflow/internal/ledger"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// Base name without year (e.g. "Ledger"); code prefixes the year.
	sheetBase string
}

var _ ledger.Writer = (*Client)(nil)

// New creates a ledger client using a service account key file. An empty
// keyFile falls back to GOOGLE_SERVICE_ACCOUNT_JSON or
// GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID, sheetBase, keyFile string) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetBase = strings.TrimSpace(sheetBase)
	if sheetBase == "" {
		sheetBase = "Ledger"
	}

	svc, err := newSheetsService(ctx, keyFile)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetBase:     sheetBase,
	}, nil
}

func newSheetsService(ctx context.Context, keyFile string) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	if keyFile == "" {
		keyFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case keyFile != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", keyFile)
		credentialsJSON, err = os.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	case serviceAccountJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_KEY_FILE, GOOGLE_SERVICE_ACCOUNT_JSON, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created successfully")
	return service, nil
}

// AppendPayment writes the entry as the next free row of the year's ledger
// sheet. Columns: payment ID, date, apartment, tenant, amount, period.
func (c *Client) AppendPayment(ctx context.Context, e ledger.Entry) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	sheetName := c.sheetName(e.PeriodYear)

	// Find the next empty row by reading the ID column.
	rng := fmt.Sprintf("%s!A:A", sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get sheet dimensions for %s: %w", sheetName, err)
	}
	nextRow := len(resp.Values) + 1

	period := fmt.Sprintf("%04d-%02d", e.PeriodYear, e.PeriodMonth)
	dataRange := fmt.Sprintf("%s!A%d:F%d", sheetName, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{{
		e.PaymentID,
		e.Date.Format("2006-01-02"),
		e.ApartmentName,
		e.TenantName,
		int64(e.Amount),
		period,
	}}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to update %s: %w", dataRange, err)
	}

	return dataRange, nil
}

// RemovePayment clears the row whose ID column matches the payment ID. Rows
// are filed under the payment's billing-period year, which the delete event
// does not carry, so the lookup scans every ledger sheet in the spreadsheet.
func (c *Client) RemovePayment(ctx context.Context, paymentID string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("list ledger sheets: %w", err)
	}

	for _, sh := range meta.Sheets {
		if sh.Properties == nil || !c.isLedgerSheet(sh.Properties.Title) {
			continue
		}
		cleared, err := c.clearRowByID(ctx, sh.Properties.Title, paymentID)
		if err != nil {
			return err
		}
		if cleared {
			return nil
		}
	}

	slog.WarnContext(ctx, "Payment not found in ledger, nothing to remove", "payment_id", paymentID)
	return nil
}

// isLedgerSheet reports whether a sheet title is one of ours: the bare base
// name or a "<year> <base>" produced by sheetName.
func (c *Client) isLedgerSheet(title string) bool {
	base := strings.TrimSpace(c.sheetBase)
	title = strings.TrimSpace(title)
	if title == base {
		return true
	}
	if len(title) >= 5 && title[4] == ' ' {
		if y, err := strconv.Atoi(title[:4]); err == nil && y > 1900 && y < 3000 {
			return strings.TrimSpace(title[5:]) == base
		}
	}
	return false
}

func (c *Client) clearRowByID(ctx context.Context, sheetName, paymentID string) (bool, error) {
	rng := fmt.Sprintf("%s!A:A", sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		// A missing sheet for the probed year is not an error.
		if strings.Contains(err.Error(), "Unable to parse range") {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", rng, err)
	}

	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) != paymentID {
			continue
		}
		clearRange := fmt.Sprintf("%s!A%d:F%d", sheetName, i+1, i+1)
		_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
			Context(ctx).Do()
		if err != nil {
			return false, fmt.Errorf("clear %s: %w", clearRange, err)
		}
		return true, nil
	}
	return false, nil
}

// sheetName returns "<year> <base>" unless base already starts with a 4-digit year.
func (c *Client) sheetName(year int) string {
	base := strings.TrimSpace(c.sheetBase)
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}

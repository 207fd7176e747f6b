// Package ledger defines the outbound port for mirroring payments to an
// external rent ledger, plus an Entry type shared by its adapters.
package ledger

import (
	"context"

	"rentalflow/internal/core"
)

// Entry is one mirrored ledger row. ApartmentName and TenantName are
// denormalized so the sheet is readable without the database.
type Entry struct {
	PaymentID     string
	ApartmentName string
	TenantName    string
	Amount        core.Money
	Date          core.Date
	PeriodYear    int
	PeriodMonth   int
}

// Writer mirrors payment events to the external ledger.
type Writer interface {
	// AppendPayment adds a row for the payment and returns a row reference.
	AppendPayment(ctx context.Context, e Entry) (rowRef string, err error)

	// RemovePayment removes the row previously written for the payment ID.
	// Removing an unknown ID is not an error.
	RemovePayment(ctx context.Context, paymentID string) error
}

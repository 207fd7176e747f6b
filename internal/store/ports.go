// Package store defines the repository ports the dashboard core is fed
// from. Every backend (memory, sqlite, mongo) implements the same contract:
// snapshot list reads plus create/update/delete mutators whose effects are
// visible to the next read.
package store

import (
	"context"
	"errors"

	"rentalflow/internal/core"
)

// ErrNotFound is returned by mutators addressing an id that does not exist.
var ErrNotFound = errors.New("entity not found")

type (
	ApartmentStore interface {
		ListApartments(ctx context.Context) ([]core.Apartment, error)
		// CreateApartment stores the apartment and returns its assigned id.
		CreateApartment(ctx context.Context, a core.Apartment) (string, error)
		UpdateApartment(ctx context.Context, a core.Apartment) error
		// DeleteApartment removes the apartment and cascades to its leases
		// and their payments.
		DeleteApartment(ctx context.Context, id string) error
	}

	LeaseStore interface {
		ListLeases(ctx context.Context) ([]core.Lease, error)
		CreateLease(ctx context.Context, l core.Lease) (string, error)
		UpdateLease(ctx context.Context, l core.Lease) error
		// DeleteLease removes the lease and cascades to its payments.
		DeleteLease(ctx context.Context, id string) error
	}

	PaymentStore interface {
		ListPayments(ctx context.Context) ([]core.Payment, error)
		CreatePayment(ctx context.Context, p core.Payment) (string, error)
		UpdatePayment(ctx context.Context, p core.Payment) error
		DeletePayment(ctx context.Context, id string) error
		// GetPayment loads a single payment, used by the ledger worker.
		GetPayment(ctx context.Context, id string) (core.Payment, error)
	}

	// Repository is the unified port handed to the HTTP layer and workers.
	Repository interface {
		ApartmentStore
		LeaseStore
		PaymentStore
		Close() error
	}
)

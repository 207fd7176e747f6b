// Package sqlite persists apartments, leases and payments in a local SQLite
// database. Cascade deletes are handled by the schema's foreign keys.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"rentalflow/internal/core"
	"rentalflow/internal/store"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

var _ store.Repository = (*Repository)(nil)

func New(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// The pragma has to ride in the DSN: SQLite pragmas are per-connection,
	// and the pool opens new connections at will. A one-off Exec would leave
	// later connections with foreign_keys=0 and cascades silently disabled.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, store.ErrNotFound
	}
	return n, nil
}

const dateLayout = "2006-01-02"

func scanDate(s string) (core.Date, error) {
	return core.ParseDate(s)
}

func (r *Repository) ListApartments(ctx context.Context) ([]core.Apartment, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM apartments ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list apartments: %w", err)
	}
	defer rows.Close()

	var apartments []core.Apartment
	index := map[int64]int{}
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan apartment: %w", err)
		}
		index[id] = len(apartments)
		apartments = append(apartments, core.Apartment{
			ID:   strconv.FormatInt(id, 10),
			Name: name,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate apartments: %w", err)
	}

	prices, err := r.db.QueryContext(ctx,
		"SELECT id, apartment_id, price, effective_date FROM price_history ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list price history: %w", err)
	}
	defer prices.Close()

	for prices.Next() {
		var id, aptID, price int64
		var effective string
		if err := prices.Scan(&id, &aptID, &price, &effective); err != nil {
			return nil, fmt.Errorf("scan price entry: %w", err)
		}
		i, ok := index[aptID]
		if !ok {
			continue
		}
		date, err := scanDate(effective)
		if err != nil {
			return nil, fmt.Errorf("parse effective date: %w", err)
		}
		apartments[i].PriceHistory = append(apartments[i].PriceHistory, core.PriceEntry{
			ID:            strconv.FormatInt(id, 10),
			Price:         core.Money(price),
			EffectiveDate: date,
		})
	}
	if err := prices.Err(); err != nil {
		return nil, fmt.Errorf("iterate price history: %w", err)
	}

	return apartments, nil
}

func (r *Repository) CreateApartment(ctx context.Context, a core.Apartment) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "INSERT INTO apartments (name) VALUES (?)", a.Name)
	if err != nil {
		return "", fmt.Errorf("insert apartment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("apartment id: %w", err)
	}

	if err := insertPriceHistory(ctx, tx, id, a.PriceHistory); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Apartment saved to SQLite", "id", id, "name", a.Name)
	return strconv.FormatInt(id, 10), nil
}

func (r *Repository) UpdateApartment(ctx context.Context, a core.Apartment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	id, err := parseID(a.ID)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "UPDATE apartments SET name = ? WHERE id = ?", a.Name, id)
	if err != nil {
		return fmt.Errorf("update apartment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}

	// Replace the price history wholesale; entries are few.
	if _, err := tx.ExecContext(ctx, "DELETE FROM price_history WHERE apartment_id = ?", id); err != nil {
		return fmt.Errorf("clear price history: %w", err)
	}
	if err := insertPriceHistory(ctx, tx, id, a.PriceHistory); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertPriceHistory(ctx context.Context, tx *sql.Tx, aptID int64, history []core.PriceEntry) error {
	for _, entry := range history {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO price_history (apartment_id, price, effective_date) VALUES (?, ?, ?)",
			aptID, int64(entry.Price), entry.EffectiveDate.Format(dateLayout))
		if err != nil {
			return fmt.Errorf("insert price entry: %w", err)
		}
	}
	return nil
}

func (r *Repository) DeleteApartment(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM apartments WHERE id = ?", n)
	if err != nil {
		return fmt.Errorf("delete apartment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) ListLeases(ctx context.Context) ([]core.Lease, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, apartment_id, start_date, end_date, tenant_name FROM leases ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list leases: %w", err)
	}
	defer rows.Close()

	var leases []core.Lease
	for rows.Next() {
		var id, aptID int64
		var start, end, tenant string
		if err := rows.Scan(&id, &aptID, &start, &end, &tenant); err != nil {
			return nil, fmt.Errorf("scan lease: %w", err)
		}
		startDate, err := scanDate(start)
		if err != nil {
			return nil, fmt.Errorf("parse start date: %w", err)
		}
		endDate, err := scanDate(end)
		if err != nil {
			return nil, fmt.Errorf("parse end date: %w", err)
		}
		leases = append(leases, core.Lease{
			ID:          strconv.FormatInt(id, 10),
			ApartmentID: strconv.FormatInt(aptID, 10),
			StartDate:   startDate,
			EndDate:     endDate,
			TenantName:  tenant,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leases: %w", err)
	}
	return leases, nil
}

func (r *Repository) CreateLease(ctx context.Context, l core.Lease) (string, error) {
	if err := l.Validate(); err != nil {
		return "", err
	}
	aptID, err := parseID(l.ApartmentID)
	if err != nil {
		return "", err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO leases (apartment_id, start_date, end_date, tenant_name) VALUES (?, ?, ?, ?)",
		aptID, l.StartDate.Format(dateLayout), l.EndDate.Format(dateLayout), l.TenantName)
	if err != nil {
		return "", fmt.Errorf("insert lease: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("lease id: %w", err)
	}
	slog.InfoContext(ctx, "Lease saved to SQLite", "id", id, "apartment_id", aptID, "tenant", l.TenantName)
	return strconv.FormatInt(id, 10), nil
}

func (r *Repository) UpdateLease(ctx context.Context, l core.Lease) error {
	if err := l.Validate(); err != nil {
		return err
	}
	id, err := parseID(l.ID)
	if err != nil {
		return err
	}
	aptID, err := parseID(l.ApartmentID)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE leases SET apartment_id = ?, start_date = ?, end_date = ?, tenant_name = ? WHERE id = ?",
		aptID, l.StartDate.Format(dateLayout), l.EndDate.Format(dateLayout), l.TenantName, id)
	if err != nil {
		return fmt.Errorf("update lease: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteLease(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM leases WHERE id = ?", n)
	if err != nil {
		return fmt.Errorf("delete lease: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) ListPayments(ctx context.Context) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, lease_id, amount, paid_on, is_full_payment, target_month, target_year FROM payments ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []core.Payment
	for rows.Next() {
		p, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return payments, nil
}

func scanPayment(scan func(...any) error) (core.Payment, error) {
	var id, leaseID, amount int64
	var paidOn string
	var isFull bool
	var targetMonth, targetYear sql.NullInt64
	if err := scan(&id, &leaseID, &amount, &paidOn, &isFull, &targetMonth, &targetYear); err != nil {
		return core.Payment{}, fmt.Errorf("scan payment: %w", err)
	}
	date, err := scanDate(paidOn)
	if err != nil {
		return core.Payment{}, fmt.Errorf("parse payment date: %w", err)
	}
	p := core.Payment{
		ID:            strconv.FormatInt(id, 10),
		LeaseID:       strconv.FormatInt(leaseID, 10),
		Amount:        core.Money(amount),
		Date:          date,
		IsFullPayment: isFull,
	}
	if targetMonth.Valid {
		p.TargetMonth = int(targetMonth.Int64)
	}
	if targetYear.Valid {
		p.TargetYear = int(targetYear.Int64)
	}
	return p, nil
}

func (r *Repository) CreatePayment(ctx context.Context, p core.Payment) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	leaseID, err := parseID(p.LeaseID)
	if err != nil {
		return "", err
	}
	var targetMonth, targetYear sql.NullInt64
	if p.TargetMonth != 0 && p.TargetYear != 0 {
		targetMonth = sql.NullInt64{Int64: int64(p.TargetMonth), Valid: true}
		targetYear = sql.NullInt64{Int64: int64(p.TargetYear), Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO payments (lease_id, amount, paid_on, is_full_payment, target_month, target_year) VALUES (?, ?, ?, ?, ?, ?)",
		leaseID, int64(p.Amount), p.Date.Format(dateLayout), p.IsFullPayment, targetMonth, targetYear)
	if err != nil {
		return "", fmt.Errorf("insert payment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("payment id: %w", err)
	}
	slog.InfoContext(ctx, "Payment saved to SQLite", "id", id, "lease_id", leaseID, "amount", p.Amount)
	return strconv.FormatInt(id, 10), nil
}

func (r *Repository) UpdatePayment(ctx context.Context, p core.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	id, err := parseID(p.ID)
	if err != nil {
		return err
	}
	leaseID, err := parseID(p.LeaseID)
	if err != nil {
		return err
	}
	var targetMonth, targetYear sql.NullInt64
	if p.TargetMonth != 0 && p.TargetYear != 0 {
		targetMonth = sql.NullInt64{Int64: int64(p.TargetMonth), Valid: true}
		targetYear = sql.NullInt64{Int64: int64(p.TargetYear), Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE payments SET lease_id = ?, amount = ?, paid_on = ?, is_full_payment = ?, target_month = ?, target_year = ? WHERE id = ?",
		leaseID, int64(p.Amount), p.Date.Format(dateLayout), p.IsFullPayment, targetMonth, targetYear, id)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) DeletePayment(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM payments WHERE id = ?", n)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) GetPayment(ctx context.Context, id string) (core.Payment, error) {
	n, err := parseID(id)
	if err != nil {
		return core.Payment{}, err
	}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, lease_id, amount, paid_on, is_full_payment, target_month, target_year FROM payments WHERE id = ?", n)
	p, err := scanPayment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Payment{}, store.ErrNotFound
	}
	if err != nil {
		return core.Payment{}, err
	}
	return p, nil
}

// Package mongo persists the rental dataset in MongoDB. Price history is
// embedded in the apartment document; leases and payments live in their own
// collections, with cascading deletes done application-side.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rentalflow/internal/core"
	"rentalflow/internal/store"
)

type Repository struct {
	client     *mongo.Client
	apartments *mongo.Collection
	leases     *mongo.Collection
	payments   *mongo.Collection
}

var _ store.Repository = (*Repository)(nil)

func New(ctx context.Context, uri, database string) (*Repository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(database)
	return &Repository{
		client:     client,
		apartments: db.Collection("apartments"),
		leases:     db.Collection("leases"),
		payments:   db.Collection("payments"),
	}, nil
}

func (r *Repository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

type priceEntryDoc struct {
	ID            primitive.ObjectID `bson:"_id"`
	Price         int64              `bson:"price"`
	EffectiveDate time.Time          `bson:"effectiveDate"`
}

type apartmentDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	PriceHistory []priceEntryDoc    `bson:"priceHistory"`
}

type leaseDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ApartmentID string             `bson:"apartmentId"`
	StartDate   time.Time          `bson:"startDate"`
	EndDate     time.Time          `bson:"endDate"`
	TenantName  string             `bson:"tenantName"`
}

type paymentDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	LeaseID       string             `bson:"leaseId"`
	Amount        int64              `bson:"amount"`
	Date          time.Time          `bson:"date"`
	IsFullPayment bool               `bson:"isFullPayment"`
	TargetMonth   *int               `bson:"targetMonth,omitempty"`
	TargetYear    *int               `bson:"targetYear,omitempty"`
}

func parseOID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, store.ErrNotFound
	}
	return oid, nil
}

func toUTCDate(t time.Time) core.Date {
	u := t.UTC()
	return core.NewDate(u.Year(), int(u.Month()), u.Day())
}

func apartmentFromDoc(d apartmentDoc) core.Apartment {
	a := core.Apartment{
		ID:   d.ID.Hex(),
		Name: d.Name,
	}
	for _, e := range d.PriceHistory {
		a.PriceHistory = append(a.PriceHistory, core.PriceEntry{
			ID:            e.ID.Hex(),
			Price:         core.Money(e.Price),
			EffectiveDate: toUTCDate(e.EffectiveDate),
		})
	}
	return a
}

func apartmentToDoc(a core.Apartment) apartmentDoc {
	d := apartmentDoc{Name: a.Name}
	for _, e := range a.PriceHistory {
		entry := priceEntryDoc{
			Price:         int64(e.Price),
			EffectiveDate: e.EffectiveDate.Time,
		}
		if oid, err := primitive.ObjectIDFromHex(e.ID); err == nil {
			entry.ID = oid
		} else {
			entry.ID = primitive.NewObjectID()
		}
		d.PriceHistory = append(d.PriceHistory, entry)
	}
	return d
}

func (r *Repository) ListApartments(ctx context.Context) ([]core.Apartment, error) {
	cur, err := r.apartments.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find apartments: %w", err)
	}
	defer cur.Close(ctx)

	var apartments []core.Apartment
	for cur.Next(ctx) {
		var d apartmentDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode apartment: %w", err)
		}
		apartments = append(apartments, apartmentFromDoc(d))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate apartments: %w", err)
	}
	return apartments, nil
}

func (r *Repository) CreateApartment(ctx context.Context, a core.Apartment) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	res, err := r.apartments.InsertOne(ctx, apartmentToDoc(a))
	if err != nil {
		return "", fmt.Errorf("insert apartment: %w", err)
	}
	id := res.InsertedID.(primitive.ObjectID).Hex()
	slog.InfoContext(ctx, "Apartment saved to MongoDB", "id", id, "name", a.Name)
	return id, nil
}

func (r *Repository) UpdateApartment(ctx context.Context, a core.Apartment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	oid, err := parseOID(a.ID)
	if err != nil {
		return err
	}
	doc := apartmentToDoc(a)
	res, err := r.apartments.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"name":         doc.Name,
		"priceHistory": doc.PriceHistory,
	}})
	if err != nil {
		return fmt.Errorf("update apartment: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteApartment(ctx context.Context, id string) error {
	oid, err := parseOID(id)
	if err != nil {
		return err
	}
	res, err := r.apartments.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete apartment: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}

	// Cascade: collect the apartment's leases, then remove them and their payments.
	cur, err := r.leases.Find(ctx, bson.M{"apartmentId": id})
	if err != nil {
		return fmt.Errorf("find leases for cascade: %w", err)
	}
	var leaseIDs []string
	for cur.Next(ctx) {
		var d leaseDoc
		if err := cur.Decode(&d); err != nil {
			cur.Close(ctx)
			return fmt.Errorf("decode lease: %w", err)
		}
		leaseIDs = append(leaseIDs, d.ID.Hex())
	}
	cur.Close(ctx)

	if _, err := r.leases.DeleteMany(ctx, bson.M{"apartmentId": id}); err != nil {
		return fmt.Errorf("cascade delete leases: %w", err)
	}
	if len(leaseIDs) > 0 {
		if _, err := r.payments.DeleteMany(ctx, bson.M{"leaseId": bson.M{"$in": leaseIDs}}); err != nil {
			return fmt.Errorf("cascade delete payments: %w", err)
		}
	}
	return nil
}

func (r *Repository) ListLeases(ctx context.Context) ([]core.Lease, error) {
	cur, err := r.leases.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find leases: %w", err)
	}
	defer cur.Close(ctx)

	var leases []core.Lease
	for cur.Next(ctx) {
		var d leaseDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode lease: %w", err)
		}
		leases = append(leases, core.Lease{
			ID:          d.ID.Hex(),
			ApartmentID: d.ApartmentID,
			StartDate:   toUTCDate(d.StartDate),
			EndDate:     toUTCDate(d.EndDate),
			TenantName:  d.TenantName,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate leases: %w", err)
	}
	return leases, nil
}

func (r *Repository) CreateLease(ctx context.Context, l core.Lease) (string, error) {
	if err := l.Validate(); err != nil {
		return "", err
	}
	res, err := r.leases.InsertOne(ctx, leaseDoc{
		ApartmentID: l.ApartmentID,
		StartDate:   l.StartDate.Time,
		EndDate:     l.EndDate.Time,
		TenantName:  l.TenantName,
	})
	if err != nil {
		return "", fmt.Errorf("insert lease: %w", err)
	}
	id := res.InsertedID.(primitive.ObjectID).Hex()
	slog.InfoContext(ctx, "Lease saved to MongoDB", "id", id, "apartment_id", l.ApartmentID)
	return id, nil
}

func (r *Repository) UpdateLease(ctx context.Context, l core.Lease) error {
	if err := l.Validate(); err != nil {
		return err
	}
	oid, err := parseOID(l.ID)
	if err != nil {
		return err
	}
	res, err := r.leases.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"apartmentId": l.ApartmentID,
		"startDate":   l.StartDate.Time,
		"endDate":     l.EndDate.Time,
		"tenantName":  l.TenantName,
	}})
	if err != nil {
		return fmt.Errorf("update lease: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteLease(ctx context.Context, id string) error {
	oid, err := parseOID(id)
	if err != nil {
		return err
	}
	res, err := r.leases.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete lease: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	if _, err := r.payments.DeleteMany(ctx, bson.M{"leaseId": id}); err != nil {
		return fmt.Errorf("cascade delete payments: %w", err)
	}
	return nil
}

func paymentFromDoc(d paymentDoc) core.Payment {
	p := core.Payment{
		ID:            d.ID.Hex(),
		LeaseID:       d.LeaseID,
		Amount:        core.Money(d.Amount),
		Date:          toUTCDate(d.Date),
		IsFullPayment: d.IsFullPayment,
	}
	if d.TargetMonth != nil {
		p.TargetMonth = *d.TargetMonth
	}
	if d.TargetYear != nil {
		p.TargetYear = *d.TargetYear
	}
	return p
}

func (r *Repository) ListPayments(ctx context.Context) ([]core.Payment, error) {
	cur, err := r.payments.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find payments: %w", err)
	}
	defer cur.Close(ctx)

	var payments []core.Payment
	for cur.Next(ctx) {
		var d paymentDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode payment: %w", err)
		}
		payments = append(payments, paymentFromDoc(d))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return payments, nil
}

func (r *Repository) CreatePayment(ctx context.Context, p core.Payment) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	doc := paymentDoc{
		LeaseID:       p.LeaseID,
		Amount:        int64(p.Amount),
		Date:          p.Date.Time,
		IsFullPayment: p.IsFullPayment,
	}
	if p.TargetMonth != 0 && p.TargetYear != 0 {
		doc.TargetMonth = &p.TargetMonth
		doc.TargetYear = &p.TargetYear
	}
	res, err := r.payments.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert payment: %w", err)
	}
	id := res.InsertedID.(primitive.ObjectID).Hex()
	slog.InfoContext(ctx, "Payment saved to MongoDB", "id", id, "lease_id", p.LeaseID, "amount", p.Amount)
	return id, nil
}

func (r *Repository) UpdatePayment(ctx context.Context, p core.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	oid, err := parseOID(p.ID)
	if err != nil {
		return err
	}
	set := bson.M{
		"leaseId":       p.LeaseID,
		"amount":        int64(p.Amount),
		"date":          p.Date.Time,
		"isFullPayment": p.IsFullPayment,
	}
	update := bson.M{"$set": set}
	if p.TargetMonth != 0 && p.TargetYear != 0 {
		set["targetMonth"] = p.TargetMonth
		set["targetYear"] = p.TargetYear
	} else {
		update["$unset"] = bson.M{"targetMonth": "", "targetYear": ""}
	}
	res, err := r.payments.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) DeletePayment(ctx context.Context, id string) error {
	oid, err := parseOID(id)
	if err != nil {
		return err
	}
	res, err := r.payments.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) GetPayment(ctx context.Context, id string) (core.Payment, error) {
	oid, err := parseOID(id)
	if err != nil {
		return core.Payment{}, err
	}
	var d paymentDoc
	err = r.payments.FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.Payment{}, store.ErrNotFound
	}
	if err != nil {
		return core.Payment{}, fmt.Errorf("find payment: %w", err)
	}
	return paymentFromDoc(d), nil
}

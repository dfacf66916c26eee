package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/maraseel/shipping-site/internal/core/domain"
)

const (
	collectionQuotes   = "quotes"
	collectionContacts = "contacts"
)

type QuoteRepository struct {
	col *mongo.Collection
}

func NewQuoteRepository(db *mongo.Database) *QuoteRepository {
	return &QuoteRepository{col: db.Collection(collectionQuotes)}
}

// Create inserts the quote and stores the generated id on q.
func (r *QuoteRepository) Create(ctx context.Context, q *domain.Quote) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, q)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	q.ID = insertedID(res)
	return nil
}

type ContactRepository struct {
	col *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{col: db.Collection(collectionContacts)}
}

func (r *ContactRepository) Create(ctx context.Context, m *domain.ContactMessage) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, m)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	m.ID = insertedID(res)
	return nil
}

func insertedID(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	if s, ok := res.InsertedID.(string); ok {
		return s
	}
	return ""
}

package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/maraseel/shipping-site/internal/core/domain"
)

func TestShipmentRepository_FindByTrackingNumber(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		updated := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "site.shipments", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "tracking_number", Value: "MRS-2024-001234"},
			{Key: "status", Value: "in_transit"},
			{Key: "origin_city", Value: "Jubail"},
			{Key: "destination_city", Value: "Riyadh"},
			{Key: "weight", Value: 2.5},
			{Key: "updated_at", Value: updated},
		}))

		repo := NewShipmentRepository(mt.DB)
		got, err := repo.FindByTrackingNumber(context.Background(), "MRS-2024-001234")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != domain.StatusInTransit || got.OriginCity != "Jubail" || got.WeightKg != 2.5 {
			t.Fatalf("unexpected shipment %+v", got)
		}
		if !got.UpdatedAt.Equal(updated) {
			t.Fatalf("updated_at = %v, want %v", got.UpdatedAt, updated)
		}
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "site.shipments", mtest.FirstBatch))

		repo := NewShipmentRepository(mt.DB)
		_, err := repo.FindByTrackingNumber(context.Background(), "MRS-0000")
		if !errors.Is(err, domain.ErrShipmentNotFound) {
			t.Fatalf("expected ErrShipmentNotFound, got %v", err)
		}
	})
}

func TestQuoteRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("stores id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		repo := NewQuoteRepository(mt.DB)
		q := &domain.Quote{Name: "Amal", Email: "a@example.com", WeightKg: 2, EstimatedPrice: 80}
		if err := repo.Create(context.Background(), q); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.ID == "" {
			t.Fatalf("expected generated id")
		}
	})

	mt.Run("write error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		repo := NewQuoteRepository(mt.DB)
		if err := repo.Create(context.Background(), &domain.Quote{Name: "Amal"}); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestContactRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("stores id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		repo := NewContactRepository(mt.DB)
		m := &domain.ContactMessage{Name: "Amal", Email: "a@example.com", Message: "hello"}
		if err := repo.Create(context.Background(), m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.ID == "" {
			t.Fatalf("expected generated id")
		}
	})
}

package ports

import (
	"context"

	"github.com/maraseel/shipping-site/internal/core/domain"
)

// ShipmentRepository reads public tracking records.
type ShipmentRepository interface {
	// FindByTrackingNumber returns domain.ErrShipmentNotFound when absent.
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error)
}

// QuoteRepository persists quote requests.
type QuoteRepository interface {
	Create(ctx context.Context, q *domain.Quote) error
}

// ContactRepository persists contact form messages.
type ContactRepository interface {
	Create(ctx context.Context, m *domain.ContactMessage) error
}

// QuoteInput carries a quote request from the website.
type QuoteInput struct {
	Name         string
	Email        string
	Origin       string
	Destination  string
	WeightKg     float64
	ShipmentType string
}

// ContactInput carries a contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// SiteService covers the public website endpoints.
type SiteService interface {
	Track(ctx context.Context, trackingNumber string) (*domain.Shipment, error)
	RequestQuote(ctx context.Context, in QuoteInput) (*domain.Quote, error)
	SubmitContact(ctx context.Context, in ContactInput) error
}

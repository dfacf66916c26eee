package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/maraseel/shipping-site/internal/api/metrics"
	"github.com/maraseel/shipping-site/internal/core/domain"
	"github.com/maraseel/shipping-site/internal/core/ports"
)

// Site validation failures. Each wraps domain.ErrValidation.
var (
	ErrTrackingNumberRequired = fmt.Errorf("%w: tracking number is required", domain.ErrValidation)
	ErrQuoteFieldsRequired    = fmt.Errorf("%w: all fields are required", domain.ErrValidation)
	ErrContactFieldsRequired  = fmt.Errorf("%w: name, email, and message are required", domain.ErrValidation)
	ErrInvalidEmail           = fmt.Errorf("%w: invalid email format", domain.ErrValidation)
)

// SiteService serves the public website: tracking, quotes and contact.
type SiteService struct {
	shipments ports.ShipmentRepository
	quotes    ports.QuoteRepository
	contacts  ports.ContactRepository
	logger    zerolog.Logger
	now       func() time.Time
}

func NewSiteService(
	shipments ports.ShipmentRepository,
	quotes ports.QuoteRepository,
	contacts ports.ContactRepository,
	logger zerolog.Logger,
) *SiteService {
	return &SiteService{
		shipments: shipments,
		quotes:    quotes,
		contacts:  contacts,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *SiteService) Track(ctx context.Context, trackingNumber string) (*domain.Shipment, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, ErrTrackingNumberRequired
	}

	sh, err := s.shipments.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, domain.ErrShipmentNotFound) {
			metrics.TrackingLookupsTotal.WithLabelValues("not_found").Inc()
			return nil, err
		}
		return nil, fmt.Errorf("track shipment: %w", err)
	}
	metrics.TrackingLookupsTotal.WithLabelValues("found").Inc()
	return sh, nil
}

// RequestQuote prices and stores a quote request. Unknown shipment types are
// stored as given and priced as standard.
func (s *SiteService) RequestQuote(ctx context.Context, in ports.QuoteInput) (*domain.Quote, error) {
	if in.Name == "" || in.Email == "" || in.Origin == "" || in.Destination == "" || in.WeightKg <= 0 {
		return nil, ErrQuoteFieldsRequired
	}
	shipmentType := in.ShipmentType
	if shipmentType == "" {
		shipmentType = domain.ShipmentTypeStandard
	}

	q := &domain.Quote{
		Name:           in.Name,
		Email:          in.Email,
		Origin:         in.Origin,
		Destination:    in.Destination,
		WeightKg:       in.WeightKg,
		ShipmentType:   shipmentType,
		EstimatedPrice: domain.EstimatePrice(in.WeightKg, shipmentType),
		Currency:       domain.QuoteCurrency,
		CreatedAt:      s.now(),
	}
	if err := s.quotes.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("store quote: %w", err)
	}

	metrics.QuotesRequestedTotal.WithLabelValues(shipmentTypeLabel(shipmentType)).Inc()
	s.logger.Info().Str("quote_id", q.ID).Float64("estimated_price", q.EstimatedPrice).Msg("quote generated")
	return q, nil
}

func (s *SiteService) SubmitContact(ctx context.Context, in ports.ContactInput) error {
	if in.Name == "" || in.Email == "" || in.Message == "" {
		return ErrContactFieldsRequired
	}
	if !validEmail(in.Email) {
		return ErrInvalidEmail
	}

	m := &domain.ContactMessage{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Message:   in.Message,
		CreatedAt: s.now(),
	}
	if err := s.contacts.Create(ctx, m); err != nil {
		return fmt.Errorf("store contact message: %w", err)
	}

	metrics.ContactMessagesTotal.Inc()
	s.logger.Info().Str("contact_id", m.ID).Msg("contact message received")
	return nil
}

var fieldValidator = validator.New()

func validEmail(email string) bool {
	return fieldValidator.Var(email, "email") == nil
}

// shipmentTypeLabel bounds the metric label cardinality.
func shipmentTypeLabel(t string) string {
	switch t {
	case domain.ShipmentTypeExpress, domain.ShipmentTypeEconomy:
		return t
	default:
		return domain.ShipmentTypeStandard
	}
}

package handler

import "github.com/maraseel/shipping-site/internal/core/domain"

// toShipmentResponse maps a tracking record to the public JSON contract.
func toShipmentResponse(s *domain.Shipment) shipmentResponse {
	history := make([]statusHistoryItemResponse, 0, len(s.StatusHistory))
	for _, h := range s.StatusHistory {
		history = append(history, statusHistoryItemResponse{
			Status:    string(h.Status),
			Timestamp: h.Timestamp,
			Location:  h.Location,
		})
	}

	return shipmentResponse{
		TrackingNumber:     s.TrackingNumber,
		Status:             string(s.Status),
		OriginCity:         s.OriginCity,
		OriginCountry:      s.OriginCountry,
		DestinationCity:    s.DestinationCity,
		DestinationCountry: s.DestinationCountry,
		Weight:             s.WeightKg,
		EstimatedDelivery:  s.EstimatedDelivery,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
		StatusHistory:      history,
	}
}

package handler

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// siteErrorResponse is the error envelope of the public website endpoints.
type siteErrorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type trackingRequest struct {
	TrackingNumber string `json:"trackingNumber"`
}

// weight accepts both JSON numbers and numeric strings, as sent by the
// quote form.
type weight float64

func (w *weight) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*w = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*w = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*w = weight(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*w = weight(f)
	return nil
}

type quoteRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	Weight       weight `json:"weight" swaggertype:"number"`
	ShipmentType string `json:"shipmentType"`
}

type quoteResponse struct {
	Success        bool    `json:"success"`
	EstimatedPrice float64 `json:"estimatedPrice"`
	Currency       string  `json:"currency"`
	Message        string  `json:"message"`
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type contactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Response-only types owned by the transport layer, kept apart from the
// domain so the tracking page contract does not move with storage changes.

type statusHistoryItemResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Location  string    `json:"location,omitempty"`
}

type shipmentResponse struct {
	TrackingNumber     string                      `json:"tracking_number"`
	Status             string                      `json:"status"`
	OriginCity         string                      `json:"origin_city"`
	OriginCountry      string                      `json:"origin_country"`
	DestinationCity    string                      `json:"destination_city"`
	DestinationCountry string                      `json:"destination_country"`
	Weight             float64                     `json:"weight"`
	EstimatedDelivery  *time.Time                  `json:"estimated_delivery,omitempty"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
	StatusHistory      []statusHistoryItemResponse `json:"status_history"`
}

type trackingResponse struct {
	Success  bool             `json:"success"`
	Shipment shipmentResponse `json:"shipment"`
}

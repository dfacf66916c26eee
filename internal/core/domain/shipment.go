package domain

import (
	"errors"
	"time"
)

// ShipmentStatus represents the lifecycle state of a shipment as shown to
// customers on the tracking page.
type ShipmentStatus string

const (
	StatusCreated     ShipmentStatus = "created"
	StatusPickedUp    ShipmentStatus = "picked_up"
	StatusInWarehouse ShipmentStatus = "in_warehouse"
	StatusInTransit   ShipmentStatus = "in_transit"
	StatusDelivered   ShipmentStatus = "delivered"
	StatusCancelled   ShipmentStatus = "cancelled"
)

var ErrShipmentNotFound = errors.New("shipment not found")

// StatusHistoryEntry records a single status change on a shipment.
type StatusHistoryEntry struct {
	Status    ShipmentStatus `json:"status" bson:"status"`
	Timestamp time.Time      `json:"timestamp" bson:"timestamp"`
	Location  string         `json:"location,omitempty" bson:"location,omitempty"`
}

// Shipment is the public tracking record. Operations staff write these
// documents; the site only reads them.
type Shipment struct {
	ID                 string               `json:"-" bson:"_id,omitempty"`
	TrackingNumber     string               `json:"tracking_number" bson:"tracking_number"`
	Status             ShipmentStatus       `json:"status" bson:"status"`
	OriginCity         string               `json:"origin_city" bson:"origin_city"`
	OriginCountry      string               `json:"origin_country" bson:"origin_country"`
	DestinationCity    string               `json:"destination_city" bson:"destination_city"`
	DestinationCountry string               `json:"destination_country" bson:"destination_country"`
	WeightKg           float64              `json:"weight" bson:"weight"`
	EstimatedDelivery  *time.Time           `json:"estimated_delivery,omitempty" bson:"estimated_delivery,omitempty"`
	CreatedAt          time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at" bson:"updated_at"`
	StatusHistory      []StatusHistoryEntry `json:"status_history,omitempty" bson:"status_history,omitempty"`
}

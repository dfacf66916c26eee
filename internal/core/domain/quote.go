package domain

import (
	"math"
	"time"
)

const (
	ShipmentTypeStandard = "standard"
	ShipmentTypeExpress  = "express"
	ShipmentTypeEconomy  = "economy"
)

// Pricing constants, in QuoteCurrency.
const (
	QuoteBasePrice  = 50.0
	QuotePricePerKg = 15.0
	QuoteCurrency   = "SAR"
)

// Quote is a persisted price estimate requested from the website.
type Quote struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	Name           string    `json:"name" bson:"name"`
	Email          string    `json:"email" bson:"email"`
	Origin         string    `json:"origin" bson:"origin"`
	Destination    string    `json:"destination" bson:"destination"`
	WeightKg       float64   `json:"weight" bson:"weight"`
	ShipmentType   string    `json:"shipment_type" bson:"shipment_type"`
	EstimatedPrice float64   `json:"estimated_price" bson:"estimated_price"`
	Currency       string    `json:"currency" bson:"currency"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// EstimatePrice returns base + per-kg price adjusted for the shipment type,
// rounded to two decimals. Unknown types are priced as standard.
func EstimatePrice(weightKg float64, shipmentType string) float64 {
	price := QuoteBasePrice + weightKg*QuotePricePerKg
	switch shipmentType {
	case ShipmentTypeExpress:
		price *= 1.5
	case ShipmentTypeEconomy:
		price *= 0.8
	}
	return math.Round(price*100) / 100
}

package models

import (
	"time"
)

// PriceWatch tracks an item the user flagged on a receipt. Watches are
// created automatically when a receipt is saved with price_track items and
// expire after 30 days unless refreshed by a newer receipt.
type PriceWatch struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id"`
	ItemName       string    `json:"item_name"`
	NormalizedName string    `json:"normalized_name"`
	Category       string    `json:"category"`
	LastPrice      float64   `json:"last_price"`
	StoreName      string    `json:"store_name"`
	Active         bool      `json:"active"`
	ExpiresAt      time.Time `json:"expires_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

package models

import (
	"time"
)

// Receipt is a confirmed receipt saved from a reviewed scan draft or manual
// entry.
type Receipt struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	StoreName     string    `json:"store_name"`
	StoreAddress  *string   `json:"store_address,omitempty"`
	ReceiptDate   time.Time `json:"receipt_date"`
	Subtotal      float64   `json:"subtotal"`
	Tax           float64   `json:"tax"`
	Tip           float64   `json:"tip"`
	Total         float64   `json:"total"`
	OCRMethod     string    `json:"ocr_method"`
	OCRConfidence int       `json:"ocr_confidence"`
	ImageBucket   *string   `json:"image_bucket,omitempty"`
	ImageKey      *string   `json:"image_key,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ReceiptWithItems includes the line items and, when an image was uploaded,
// a presigned URL for it.
type ReceiptWithItems struct {
	Receipt
	Items    []ReceiptItem `json:"items"`
	ImageURL *string       `json:"image_url,omitempty"`
}

// ReceiptItem is a confirmed line item. NormalizedName and Category are
// filled by the normalizer and categorizer when the receipt is saved.
type ReceiptItem struct {
	ID             int       `json:"id"`
	ReceiptID      int       `json:"receipt_id"`
	Name           string    `json:"name"`
	NormalizedName string    `json:"normalized_name"`
	Category       string    `json:"category"`
	TotalPrice     float64   `json:"total_price"`
	Quantity       int       `json:"quantity"`
	PriceTrack     bool      `json:"price_track"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateReceiptRequest is the reviewed draft the client submits.
type CreateReceiptRequest struct {
	StoreName     string             `json:"store_name"`
	StoreAddress  *string            `json:"store_address,omitempty"`
	ReceiptDate   *time.Time         `json:"receipt_date,omitempty"`
	Items         []ReceiptItemInput `json:"items"`
	Tax           float64            `json:"tax"`
	Tip           float64            `json:"tip"`
	OCRMethod     string             `json:"ocr_method"`
	OCRConfidence int                `json:"ocr_confidence"`
	ImageBucket   *string            `json:"image_bucket,omitempty"`
	ImageKey      *string            `json:"image_key,omitempty"`
}

// ReceiptItemInput is one line item as submitted by the client.
type ReceiptItemInput struct {
	Name       string  `json:"name"`
	TotalPrice float64 `json:"total_price"`
	Quantity   int     `json:"quantity"`
	PriceTrack bool    `json:"price_track"`
}

// UpdateReceiptRequest replaces the editable fields of a receipt. Items, when
// present, replace the existing line items and the totals are re-derived.
type UpdateReceiptRequest struct {
	StoreName    *string            `json:"store_name,omitempty"`
	StoreAddress *string            `json:"store_address,omitempty"`
	ReceiptDate  *time.Time         `json:"receipt_date,omitempty"`
	Items        []ReceiptItemInput `json:"items,omitempty"`
	Tax          *float64           `json:"tax,omitempty"`
	Tip          *float64           `json:"tip,omitempty"`
}

// ReceiptListParams contains parameters for listing receipts
type ReceiptListParams struct {
	UserID    int
	StoreName *string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// SpendingSummary represents monthly spending aggregations
type SpendingSummary struct {
	Months         []MonthlySpending `json:"months"`
	GrandTotal     float64           `json:"grand_total"`
	AverageMonthly float64           `json:"average_monthly"`
}

// MonthlySpending represents spending for a single month
type MonthlySpending struct {
	Month        string  `json:"month"`
	Total        float64 `json:"total"`
	ReceiptCount int     `json:"receipt_count"`
}

// CategorySpend represents spending within one item category
type CategorySpend struct {
	Category  string  `json:"category"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
}

// StoreSpend represents spending at a specific store
type StoreSpend struct {
	StoreName    string  `json:"store_name"`
	Total        float64 `json:"total"`
	ReceiptCount int     `json:"receipt_count"`
}

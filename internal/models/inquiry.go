package models

import (
	"time"

	"github.com/foxxcyber/bid-pricing/internal/pricing"
)

// Inquiry is a persisted pricing request and its reconciled result
type Inquiry struct {
	ID              int            `json:"id"`
	ProductList     []string       `json:"productList"`
	QuantityDetails string         `json:"quantityDetails"`
	Result          pricing.Result `json:"result"`
	TotalAmount     float64        `json:"totalAmount"`
	ItemCount       int            `json:"itemCount"`
	Drafter         string         `json:"drafter"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// InquirySummary is the list view of an inquiry
type InquirySummary struct {
	ID          int       `json:"id"`
	ProductList []string  `json:"productList"`
	TotalAmount float64   `json:"totalAmount"`
	ItemCount   int       `json:"itemCount"`
	Drafter     string    `json:"drafter"`
	CreatedAt   time.Time `json:"createdAt"`
}

// InquiryListParams contains parameters for listing inquiries
type InquiryListParams struct {
	Limit  int
	Offset int
}

// PricingResponse is returned by the pricing endpoint. InquiryID is omitted
// when persistence is disabled.
type PricingResponse struct {
	InquiryID   *int                 `json:"inquiryId,omitempty"`
	PricedItems []pricing.PricedItem `json:"pricedItems"`
	TotalAmount float64              `json:"totalAmount"`
}

// ReconcileResponse is returned when a caller-supplied draft is reconciled
type ReconcileResponse struct {
	PricedItems   []pricing.PricedItem  `json:"pricedItems"`
	TotalAmount   float64               `json:"totalAmount"`
	Discrepancies []pricing.Discrepancy `json:"discrepancies"`
}

// ShareLinkResponse carries a freshly issued share token
type ShareLinkResponse struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

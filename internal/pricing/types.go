// Package pricing reconciles AI-drafted product pricing into authoritative
// per-item subtotals and a grand total.
package pricing

// NotNumericallySpecified is the identified quantity used when no quantity
// could be matched for a product.
const NotNumericallySpecified = "Not numerically specified"

// Request is a single pricing inquiry
type Request struct {
	ProductList     []string `json:"productList" validate:"required,min=1,max=50,dive,required,max=200"`
	QuantityDetails string   `json:"quantityDetails" validate:"max=4000"`
}

// Draft is the unvalidated pricing proposed by the upstream generator
type Draft struct {
	Items         []DraftItem `json:"pricedItems"`
	ProposedTotal *float64    `json:"totalAmount,omitempty"`
}

// DraftItem is one proposed line of a draft
type DraftItem struct {
	Name               string       `json:"name"`
	IdentifiedQuantity string       `json:"identifiedQuantity"`
	Rate               *float64     `json:"rate,omitempty"`
	WebsiteLink        string       `json:"websiteLink,omitempty"`
	VendorContactInfo  string       `json:"vendorContactInfo,omitempty"`
	Subtotal           *float64     `json:"subtotal,omitempty"`
	Offers             []DraftOffer `json:"offers,omitempty"`
}

// DraftOffer is a vendor offer proposed for a draft item
type DraftOffer struct {
	VendorName        string   `json:"vendorName,omitempty"`
	Rate              *float64 `json:"rate,omitempty"`
	WebsiteLink       string   `json:"websiteLink,omitempty"`
	ContactOrQuoteURL string   `json:"contactOrQuoteUrl,omitempty"`
	Subtotal          *float64 `json:"subtotal,omitempty"`
}

// PricedItem is a reconciled pricing line
type PricedItem struct {
	Name               string  `json:"name"`
	IdentifiedQuantity string  `json:"identifiedQuantity"`
	Rate               float64 `json:"rate"`
	WebsiteLink        string  `json:"websiteLink,omitempty"`
	VendorContactInfo  string  `json:"vendorContactInfo,omitempty"`
	Subtotal           float64 `json:"subtotal"`
	Offers             []Offer `json:"offers,omitempty"`
}

// Offer is a reconciled vendor offer
type Offer struct {
	VendorName        string  `json:"vendorName,omitempty"`
	Rate              float64 `json:"rate"`
	WebsiteLink       string  `json:"websiteLink,omitempty"`
	ContactOrQuoteURL string  `json:"contactOrQuoteUrl,omitempty"`
	Subtotal          float64 `json:"subtotal"`
}

// Result is the authoritative pricing for a request
type Result struct {
	PricedItems []PricedItem `json:"pricedItems"`
	TotalAmount float64      `json:"totalAmount"`
}

// Float returns a pointer to v. Handy when building drafts.
func Float(v float64) *float64 {
	return &v
}

package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/foxxcyber/bid-pricing/internal/pricing"
)

// BuildPricingPrompt renders the drafting instructions for one request.
// offers maps product names to searched offers and may be nil.
func BuildPricingPrompt(req pricing.Request, offers map[string][]SearchResult) (string, error) {
	var b strings.Builder
	b.WriteString(`You are a procurement research assistant.

Your task:
- For each product, identify its quantity from the quantity details.
- Pick up to three vendor offers with the lowest per-unit rate, cheapest first.
- Output MUST be valid JSON matching the response schema.
- NO explanations.
- NO markdown.

Product List:
`)
	for _, p := range req.ProductList {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	fmt.Fprintf(&b, "\nQuantity Details: %q\n", req.QuantityDetails)

	b.WriteString(`
Rules:
1. Return exactly one entry in "pricedItems" per product, in the same order, with "name" set to the product name.
2. "identifiedQuantity" is the quantity with its unit, e.g. "500 units" or "200 sticks".
   If no quantity is given for a product, use "` + pricing.NotNumericallySpecified + `".
3. "rate" is the per-unit price of the cheapest offer. Use 0 when no price is known.
4. "subtotal" is rate multiplied by the number in identifiedQuantity, or 0 if either is missing.
5. "totalAmount" is the sum of all subtotals.
6. "websiteLink" and "vendorContactInfo" describe the cheapest offer.
`)

	if len(offers) > 0 {
		b.WriteString("\nSearch results per product (prices in USD):\n")
		for _, p := range req.ProductList {
			encoded, err := json.Marshal(offers[p])
			if err != nil {
				return "", fmt.Errorf("encoding offers for %q: %w", p, err)
			}
			fmt.Fprintf(&b, "%s: %s\n", p, encoded)
		}
		b.WriteString("Only use rates and links that appear in these results.\n")
	} else {
		b.WriteString("\nNo search results are available. Use rate 0 unless the price is well known.\n")
	}
	return b.String(), nil
}

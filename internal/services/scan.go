package services

import (
	"errors"
	"strings"

	"github.com/foxxcyber/bid-pricing/internal/pricing"
)

var ErrEmptyImage = errors.New("image is empty")

// OCRResult contains the OCR processing result
type OCRResult struct {
	Text string
}

// TextExtractor turns an image into text
type TextExtractor interface {
	ProcessImage(imageBytes []byte) (*OCRResult, error)
}

// ScanResult is a scanned quantity sheet ready to be used as quantityDetails
type ScanResult struct {
	QuantityDetails string           `json:"quantityDetails"`
	Clauses         []QuantityClause `json:"clauses"`
	Products        []ScannedProduct `json:"products,omitempty"`
}

// ScannedProduct is the quantity the sheet gives for one requested product
type ScannedProduct struct {
	Product            string       `json:"product"`
	IdentifiedQuantity string       `json:"identifiedQuantity"`
	Match              *ClauseMatch `json:"match,omitempty"`
}

// ScanQuantitySheet extracts text from an image and splits it into
// quantity clauses. When products are given each one is matched to a clause.
func ScanQuantitySheet(extractor TextExtractor, parser *QuantityParser, matcher *ProductMatcher, imageBytes []byte, products []string) (*ScanResult, error) {
	ocr, err := extractor.ProcessImage(imageBytes)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, line := range strings.Split(ocr.Text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	details := strings.Join(lines, "\n")

	clauses := parser.Parse(details)
	if clauses == nil {
		clauses = []QuantityClause{}
	}
	result := &ScanResult{QuantityDetails: details, Clauses: clauses}
	if len(products) == 0 {
		return result, nil
	}

	result.Products = make([]ScannedProduct, len(products))
	for i, m := range matcher.MatchAll(products, clauses) {
		scanned := ScannedProduct{Product: products[i], IdentifiedQuantity: pricing.NotNumericallySpecified}
		if m != nil {
			scanned.IdentifiedQuantity = m.Clause.Describe()
			scanned.Match = m
		}
		result.Products[i] = scanned
	}
	return result, nil
}

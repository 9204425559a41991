package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/foxxcyber/bid-pricing/internal/models"
)

const notApplicable = "N/A"

var csvHeader = []string{"Product", "Identified Quantity", "Rate", "Subtotal", "Vendor", "Website"}

// RenderCSV renders an inquiry as one row per priced item and a total row
func RenderCSV(inquiry *models.Inquiry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, item := range inquiry.Result.PricedItems {
		row := []string{
			csvText(item.Name),
			csvText(item.IdentifiedQuantity),
			formatMoney(item.Rate),
			formatSubtotal(item.Subtotal),
			csvText(item.VendorContactInfo),
			csvText(item.WebsiteLink),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing csv row: %w", err)
		}
	}
	if err := w.Write([]string{"Total", "", "", formatMoney(inquiry.Result.TotalAmount), "", ""}); err != nil {
		return nil, fmt.Errorf("writing csv total: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportObjectKey names the stored object for an inquiry export
func ExportObjectKey(inquiryID int, format string, at time.Time) string {
	return fmt.Sprintf("inquiries/%d/%s.%s", inquiryID, at.UTC().Format("20060102T150405Z"), format)
}

func formatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return notApplicable
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// csvText keeps spreadsheet apps from evaluating user or model supplied text
// as a formula
func csvText(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

// A zero subtotal means the quantity or rate was unknown
func formatSubtotal(v float64) string {
	if v == 0 {
		return notApplicable
	}
	return formatMoney(v)
}

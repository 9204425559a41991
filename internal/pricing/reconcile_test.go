package pricing

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDraft() *Draft {
	return &Draft{
		Items: []DraftItem{
			{
				Name:               "Intel i9-9700K Processors",
				IdentifiedQuantity: "300 Processors",
				Rate:               Float(250.00),
				WebsiteLink:        "https://example.com/i9",
				VendorContactInfo:  "sales@example.com",
				Subtotal:           Float(1),
			},
			{
				Name:               "Network Management",
				IdentifiedQuantity: NotNumericallySpecified,
				Rate:               Float(0),
			},
		},
		ProposedTotal: Float(123),
	}
}

func TestReconcileEndToEndScenario(t *testing.T) {
	result, err := Reconcile(sampleDraft())
	require.NoError(t, err)
	require.Len(t, result.PricedItems, 2)

	assert.Equal(t, 75000.00, result.PricedItems[0].Subtotal)
	assert.Equal(t, 0.0, result.PricedItems[1].Subtotal)
	assert.Equal(t, 75000.00, result.TotalAmount)

	first := result.PricedItems[0]
	assert.Equal(t, "Intel i9-9700K Processors", first.Name)
	assert.Equal(t, "300 Processors", first.IdentifiedQuantity)
	assert.Equal(t, 250.00, first.Rate)
	assert.Equal(t, "https://example.com/i9", first.WebsiteLink)
	assert.Equal(t, "sales@example.com", first.VendorContactInfo)
}

func TestReconcileMissingDraft(t *testing.T) {
	result, err := Reconcile(nil)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUpstreamDraftMissing)
}

func TestReconcilePreservesOrderAndCardinality(t *testing.T) {
	names := []string{"b", "a", "c", "a", ""}
	draft := &Draft{}
	for i, n := range names {
		draft.Items = append(draft.Items, DraftItem{Name: n, IdentifiedQuantity: "10 units", Rate: Float(float64(i))})
	}

	result, err := Reconcile(draft)
	require.NoError(t, err)
	require.Len(t, result.PricedItems, len(names))
	for i, n := range names {
		assert.Equal(t, n, result.PricedItems[i].Name)
	}
}

func TestReconcileTotalIgnoresProposedTotal(t *testing.T) {
	draft := &Draft{
		Items: []DraftItem{
			{IdentifiedQuantity: "3 units", Rate: Float(0.1), Subtotal: Float(99)},
			{IdentifiedQuantity: "7 units", Rate: Float(0.2)},
			{IdentifiedQuantity: "none", Rate: Float(1000)},
			{IdentifiedQuantity: "4 units"},
		},
		ProposedTotal: Float(1e9),
	}

	result, err := Reconcile(draft)
	require.NoError(t, err)

	sum := 0.0
	for _, item := range result.PricedItems {
		sum += item.Subtotal
		assert.GreaterOrEqual(t, item.Subtotal, 0.0)
		assert.GreaterOrEqual(t, item.Rate, 0.0)
	}
	assert.Equal(t, sum, result.TotalAmount)
	assert.Equal(t, 0.0, result.PricedItems[2].Subtotal)
	assert.Equal(t, 1000.0, result.PricedItems[2].Rate)
	assert.Equal(t, 0.0, result.PricedItems[3].Rate)
}

func TestReconcileCoercesInvalidRates(t *testing.T) {
	draft := &Draft{Items: []DraftItem{
		{IdentifiedQuantity: "5", Rate: Float(-4)},
		{IdentifiedQuantity: "5", Rate: Float(math.NaN())},
		{IdentifiedQuantity: "5", Rate: Float(math.Inf(1))},
	}}

	result, err := Reconcile(draft)
	require.NoError(t, err)
	for _, item := range result.PricedItems {
		assert.Equal(t, 0.0, item.Rate)
		assert.Equal(t, 0.0, item.Subtotal)
	}
	assert.Equal(t, 0.0, result.TotalAmount)
}

func TestReconcileOverflowStaysEncodable(t *testing.T) {
	draft := &Draft{Items: []DraftItem{
		{IdentifiedQuantity: "10 units", Rate: Float(1e308)},
		{IdentifiedQuantity: "1 unit", Rate: Float(math.MaxFloat64)},
		{IdentifiedQuantity: "1 unit", Rate: Float(math.MaxFloat64)},
	}}

	result, err := Reconcile(draft)
	require.NoError(t, err)
	assert.Equal(t, 1e308, result.PricedItems[0].Rate)
	assert.Equal(t, 0.0, result.PricedItems[0].Subtotal)
	assert.Equal(t, math.MaxFloat64, result.PricedItems[1].Subtotal)
	assert.Equal(t, 0.0, result.TotalAmount)

	_, err = json.Marshal(result)
	assert.NoError(t, err)
}

func TestReconcileIsIdempotent(t *testing.T) {
	draft := sampleDraft()
	draft.Items[0].Offers = []DraftOffer{
		{VendorName: "B", Rate: Float(260)},
		{VendorName: "A", Rate: Float(240)},
	}

	first, err := Reconcile(draft)
	require.NoError(t, err)
	second, err := Reconcile(draft)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestReconcileDoesNotMutateDraft(t *testing.T) {
	draft := sampleDraft()
	draft.Items[0].Offers = []DraftOffer{
		{VendorName: "B", Rate: Float(260)},
		{VendorName: "A", Rate: Float(240)},
	}
	before, err := json.Marshal(draft)
	require.NoError(t, err)

	result, err := Reconcile(draft)
	require.NoError(t, err)
	result.PricedItems[0].Name = "changed"
	result.PricedItems[0].Offers[0].VendorName = "changed"

	after, err := json.Marshal(draft)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestReconcileSortsOffersCheapestFirst(t *testing.T) {
	draft := &Draft{Items: []DraftItem{{
		IdentifiedQuantity: "10 units",
		Offers: []DraftOffer{
			{VendorName: "none"},
			{VendorName: "pricey", Rate: Float(30), Subtotal: Float(1)},
			{VendorName: "cheap", Rate: Float(10)},
			{VendorName: "zero", Rate: Float(0)},
		},
	}}}

	result, err := Reconcile(draft)
	require.NoError(t, err)

	offers := result.PricedItems[0].Offers
	require.Len(t, offers, 4)
	assert.Equal(t, "cheap", offers[0].VendorName)
	assert.Equal(t, 100.0, offers[0].Subtotal)
	assert.Equal(t, "pricey", offers[1].VendorName)
	assert.Equal(t, 300.0, offers[1].Subtotal)
	assert.Equal(t, "none", offers[2].VendorName)
	assert.Equal(t, "zero", offers[3].VendorName)

	// offers never feed the total; the item rate does
	assert.Equal(t, 0.0, result.TotalAmount)
}

func TestDiscrepancies(t *testing.T) {
	draft := sampleDraft()
	draft.Items[1].Offers = []DraftOffer{{VendorName: "x", Rate: Float(5), Subtotal: Float(50)}}

	result, err := Reconcile(draft)
	require.NoError(t, err)

	found := Discrepancies(draft, result)
	require.Len(t, found, 3)

	assert.Equal(t, "subtotal", found[0].Field)
	assert.Equal(t, 0, found[0].Item)
	assert.Equal(t, 1.0, found[0].Proposed)
	assert.Equal(t, 75000.0, found[0].Computed)

	assert.Equal(t, "offer_subtotal", found[1].Field)
	assert.Equal(t, 1, found[1].Item)
	assert.Equal(t, 0, found[1].Offer)
	assert.Equal(t, 0.0, found[1].Computed)

	assert.Equal(t, "total", found[2].Field)
	assert.Equal(t, 123.0, found[2].Proposed)
	assert.Contains(t, found[2].String(), "total")
}

func TestDiscrepanciesNoneWhenDraftAgrees(t *testing.T) {
	draft := &Draft{
		Items:         []DraftItem{{IdentifiedQuantity: "2 units", Rate: Float(3), Subtotal: Float(6)}},
		ProposedTotal: Float(6),
	}
	result, err := Reconcile(draft)
	require.NoError(t, err)
	assert.Empty(t, Discrepancies(draft, result))
	assert.Empty(t, Discrepancies(nil, result))
}

func TestDraftErrorMatchesSentinel(t *testing.T) {
	cause := errors.New("boom")
	err := error(&DraftError{Reason: ReasonGeneratorError, Err: cause})

	assert.ErrorIs(t, err, ErrUpstreamDraftMissing)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), ReasonGeneratorError)

	var de *DraftError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ReasonGeneratorError, de.Reason)
}

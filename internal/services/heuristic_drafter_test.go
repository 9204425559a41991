package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/bid-pricing/internal/pricing"
)

func TestHeuristicDrafterWithoutSearch(t *testing.T) {
	d := NewHeuristicDrafter(nil, nil)

	draft, err := d.GenerateDraft(context.Background(), pricing.Request{
		ProductList:     []string{"SATA 2 HDD", "Office Chairs"},
		QuantityDetails: "500 SATA 2 HDD units",
	})
	require.NoError(t, err)
	require.Len(t, draft.Items, 2)

	assert.Equal(t, "SATA 2 HDD", draft.Items[0].Name)
	assert.Equal(t, "500 units", draft.Items[0].IdentifiedQuantity)
	require.NotNil(t, draft.Items[0].Rate)
	assert.Equal(t, 0.0, *draft.Items[0].Rate)
	assert.Equal(t, pricing.NotNumericallySpecified, draft.Items[1].IdentifiedQuantity)

	result, err := pricing.Reconcile(draft)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.TotalAmount)
}

func TestHeuristicDrafterUsesCheapestOffer(t *testing.T) {
	searcher := &fakeSearcher{
		results: map[string][]SearchResult{
			"SATA 2 HDD": {
				{SourceName: "Bulk Drives", Link: "https://bulk.example/hdd", ExtractedPrice: 10},
				{SourceName: "Drive Depot", Link: "https://depot.example/hdd", ExtractedPrice: 12.5},
			},
		},
		errs: map[string]error{"Office Chairs": errors.New("boom")},
	}
	d := NewHeuristicDrafter(searcher, nil)

	draft, err := d.GenerateDraft(context.Background(), pricing.Request{
		ProductList:     []string{"SATA 2 HDD", "Office Chairs"},
		QuantityDetails: "500 SATA 2 HDD units",
	})
	require.NoError(t, err)

	require.Len(t, searcher.calls, 2)
	assert.Equal(t, searchCall{product: "SATA 2 HDD", quantity: 500}, searcher.calls[0])
	assert.Equal(t, searchCall{product: "Office Chairs", quantity: 1}, searcher.calls[1])

	item := draft.Items[0]
	assert.Equal(t, 10.0, *item.Rate)
	assert.Equal(t, "https://bulk.example/hdd", item.WebsiteLink)
	assert.Equal(t, "Bulk Drives", item.VendorContactInfo)
	require.Len(t, item.Offers, 2)
	assert.Equal(t, "Drive Depot", item.Offers[1].VendorName)

	assert.Equal(t, 0.0, *draft.Items[1].Rate)
	assert.Empty(t, draft.Items[1].Offers)

	result, err := pricing.Reconcile(draft)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, result.PricedItems[0].Subtotal)
	assert.Equal(t, 5000.0, result.TotalAmount)
	assert.Equal(t, 6250.0, result.PricedItems[0].Offers[1].Subtotal)
}

func TestHeuristicDrafterHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHeuristicDrafter(nil, nil).GenerateDraft(ctx, pricing.Request{ProductList: []string{"x"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOffersFromResultsFallsBackToTitle(t *testing.T) {
	offers := OffersFromResults([]SearchResult{{Title: "Widget listing", ExtractedPrice: 3}})
	require.Len(t, offers, 1)
	assert.Equal(t, "Widget listing", offers[0].VendorName)
	assert.Nil(t, OffersFromResults(nil))
}

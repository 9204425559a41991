package services

import (
	"context"

	"github.com/foxxcyber/bid-pricing/internal/logger"
	"github.com/foxxcyber/bid-pricing/internal/pricing"
)

// HeuristicDrafter drafts without a language model. Quantities come from the
// quantity details text and rates from the cheapest searched offer.
type HeuristicDrafter struct {
	parser   *QuantityParser
	matcher  *ProductMatcher
	searcher ProductSearcher
	logg     *logger.Logger
}

// NewHeuristicDrafter creates a drafter. searcher may be nil, in which case
// every rate is 0.
func NewHeuristicDrafter(searcher ProductSearcher, logg *logger.Logger) *HeuristicDrafter {
	if logg == nil {
		logg = logger.Nop()
	}
	return &HeuristicDrafter{
		parser:   NewQuantityParser(),
		matcher:  NewProductMatcher(),
		searcher: searcher,
		logg:     logg,
	}
}

// GenerateDraft implements pricing.DraftGenerator
func (h *HeuristicDrafter) GenerateDraft(ctx context.Context, req pricing.Request) (*pricing.Draft, error) {
	clauses := h.parser.Parse(req.QuantityDetails)
	matches := h.matcher.MatchAll(req.ProductList, clauses)

	draft := &pricing.Draft{Items: make([]pricing.DraftItem, len(req.ProductList))}
	for i, product := range req.ProductList {
		item := pricing.DraftItem{
			Name:               product,
			IdentifiedQuantity: pricing.NotNumericallySpecified,
		}
		if m := matches[i]; m != nil {
			item.IdentifiedQuantity = m.Clause.Describe()
			h.logg.Debug(h.logg.WithFields(ctx, map[string]any{
				"product":     product,
				"match_level": m.Level,
			}), "quantity matched")
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h.attachOffers(ctx, &item)
		draft.Items[i] = item
	}
	return draft, nil
}

// attachOffers fills rate and offers from search. Search failures leave the
// item unpriced.
func (h *HeuristicDrafter) attachOffers(ctx context.Context, item *pricing.DraftItem) {
	if h.searcher == nil {
		item.Rate = pricing.Float(0)
		return
	}

	qty := pricing.ExtractQuantity(item.IdentifiedQuantity)
	if qty < 1 {
		qty = 1
	}
	results, err := h.searcher.Search(ctx, item.Name, qty)
	if err != nil {
		h.logg.Warn(h.logg.WithField(ctx, "product", item.Name), "product search failed: "+err.Error())
		item.Rate = pricing.Float(0)
		return
	}

	item.Offers = OffersFromResults(results)
	if len(results) == 0 {
		item.Rate = pricing.Float(0)
		return
	}
	best := results[0]
	item.Rate = pricing.Float(best.ExtractedPrice)
	item.WebsiteLink = best.Link
	item.VendorContactInfo = best.SourceName
}

// OffersFromResults converts ranked search results into draft offers
func OffersFromResults(results []SearchResult) []pricing.DraftOffer {
	if len(results) == 0 {
		return nil
	}
	offers := make([]pricing.DraftOffer, 0, len(results))
	for _, r := range results {
		name := r.SourceName
		if name == "" {
			name = r.Title
		}
		offers = append(offers, pricing.DraftOffer{
			VendorName:  name,
			Rate:        pricing.Float(r.ExtractedPrice),
			WebsiteLink: r.Link,
		})
	}
	return offers
}

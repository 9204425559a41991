package pricing

import (
	"fmt"
	"sort"
)

// Reconcile recomputes every subtotal and the total of a draft. Quantity,
// rate, links and contact details pass through; any proposed subtotal or
// total is discarded. The draft is not modified.
func Reconcile(draft *Draft) (*Result, error) {
	if draft == nil {
		return nil, ErrUpstreamDraftMissing
	}

	items := make([]PricedItem, len(draft.Items))
	for i, d := range draft.Items {
		items[i] = reconcileItem(d)
	}

	return &Result{
		PricedItems: items,
		TotalAmount: Total(items),
	}, nil
}

func reconcileItem(d DraftItem) PricedItem {
	qty := ExtractQuantity(d.IdentifiedQuantity)
	rate := rateOf(d.Rate)

	item := PricedItem{
		Name:               d.Name,
		IdentifiedQuantity: d.IdentifiedQuantity,
		Rate:               rate,
		WebsiteLink:        d.WebsiteLink,
		VendorContactInfo:  d.VendorContactInfo,
		Subtotal:           Subtotal(qty, rate),
	}

	if len(d.Offers) > 0 {
		item.Offers = make([]Offer, len(d.Offers))
		for i, o := range d.Offers {
			offerRate := rateOf(o.Rate)
			item.Offers[i] = Offer{
				VendorName:        o.VendorName,
				Rate:              offerRate,
				WebsiteLink:       o.WebsiteLink,
				ContactOrQuoteURL: o.ContactOrQuoteURL,
				Subtotal:          Subtotal(qty, offerRate),
			}
		}
		sortOffers(item.Offers)
	}

	return item
}

// sortOffers orders offers cheapest first. Offers without a rate go last.
func sortOffers(offers []Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		a, b := offers[i].Rate, offers[j].Rate
		switch {
		case a == 0:
			return false
		case b == 0:
			return true
		default:
			return a < b
		}
	})
}

// Discrepancy is a value the upstream proposed that reconciliation overrode
type Discrepancy struct {
	Field    string  `json:"field"`
	Item     int     `json:"item"`
	Offer    int     `json:"offer"`
	Proposed float64 `json:"proposed"`
	Computed float64 `json:"computed"`
}

func (d Discrepancy) String() string {
	switch d.Field {
	case "total":
		return fmt.Sprintf("total: proposed %v, computed %v", d.Proposed, d.Computed)
	case "offer_subtotal":
		return fmt.Sprintf("item %d offer %d subtotal: proposed %v, computed %v", d.Item, d.Offer, d.Proposed, d.Computed)
	default:
		return fmt.Sprintf("item %d subtotal: proposed %v, computed %v", d.Item, d.Proposed, d.Computed)
	}
}

// Discrepancies lists the proposed subtotals and total that differ from the
// reconciled result. Values the upstream left unset are not reported.
func Discrepancies(draft *Draft, result *Result) []Discrepancy {
	if draft == nil || result == nil {
		return nil
	}

	var out []Discrepancy
	for i, d := range draft.Items {
		if i >= len(result.PricedItems) {
			break
		}
		computed := result.PricedItems[i].Subtotal
		if d.Subtotal != nil && *d.Subtotal != computed {
			out = append(out, Discrepancy{
				Field:    "subtotal",
				Item:     i,
				Offer:    -1,
				Proposed: *d.Subtotal,
				Computed: computed,
			})
		}
		qty := ExtractQuantity(d.IdentifiedQuantity)
		for j, o := range d.Offers {
			want := Subtotal(qty, rateOf(o.Rate))
			if o.Subtotal != nil && *o.Subtotal != want {
				out = append(out, Discrepancy{
					Field:    "offer_subtotal",
					Item:     i,
					Offer:    j,
					Proposed: *o.Subtotal,
					Computed: want,
				})
			}
		}
	}

	if draft.ProposedTotal != nil && *draft.ProposedTotal != result.TotalAmount {
		out = append(out, Discrepancy{
			Field:    "total",
			Item:     -1,
			Offer:    -1,
			Proposed: *draft.ProposedTotal,
			Computed: result.TotalAmount,
		})
	}

	return out
}

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/bid-pricing/internal/models"
	"github.com/foxxcyber/bid-pricing/internal/pricing"
)

// PriceProducts drafts and reconciles pricing for a product list
func (h *Handler) PriceProducts(c *fiber.Ctx) error {
	var req pricing.Request
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return Error(c, fiber.StatusBadRequest, validationMessage(err))
	}

	ctx := c.UserContext()
	result, err := h.pricer.Price(ctx, req)
	if err != nil {
		if errors.Is(err, pricing.ErrUpstreamDraftMissing) {
			return Error(c, fiber.StatusBadGateway, "pricing draft unavailable from upstream")
		}
		h.logg.Error(ctx, "pricing failed", err)
		return Error(c, fiber.StatusInternalServerError, "failed to price products")
	}

	resp := models.PricingResponse{
		PricedItems: result.PricedItems,
		TotalAmount: result.TotalAmount,
	}

	// Persistence is best effort; the priced result is still returned
	if h.store != nil {
		inquiry := &models.Inquiry{
			ProductList:     req.ProductList,
			QuantityDetails: req.QuantityDetails,
			Result:          *result,
			TotalAmount:     result.TotalAmount,
			ItemCount:       len(result.PricedItems),
			Drafter:         h.drafterName,
		}
		if err := h.store.CreateInquiry(ctx, inquiry); err != nil {
			h.logg.Error(ctx, "failed to persist inquiry", err)
		} else {
			resp.InquiryID = &inquiry.ID
		}
	}

	return Success(c, resp)
}

// ReconcileDraft recomputes a caller-supplied draft and reports which
// proposed values were overridden
func (h *Handler) ReconcileDraft(c *fiber.Ctx) error {
	// A JSON null leaves draft nil, which Reconcile rejects
	var draft *pricing.Draft
	if err := c.BodyParser(&draft); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := pricing.Reconcile(draft)
	if err != nil {
		if errors.Is(err, pricing.ErrUpstreamDraftMissing) {
			return Error(c, fiber.StatusBadRequest, "draft is required")
		}
		h.logg.Error(c.UserContext(), "reconcile failed", err)
		return Error(c, fiber.StatusInternalServerError, "failed to reconcile draft")
	}

	discrepancies := pricing.Discrepancies(draft, result)
	if discrepancies == nil {
		discrepancies = []pricing.Discrepancy{}
	}

	return Success(c, models.ReconcileResponse{
		PricedItems:   result.PricedItems,
		TotalAmount:   result.TotalAmount,
		Discrepancies: discrepancies,
	})
}

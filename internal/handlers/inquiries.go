package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/bid-pricing/internal/database"
	"github.com/foxxcyber/bid-pricing/internal/models"
)

const maxListLimit = 100

// ListInquiries returns stored inquiries, newest first
func (h *Handler) ListInquiries(c *fiber.Ctx) error {
	if h.store == nil {
		return storeUnavailable(c)
	}

	params := &models.InquiryListParams{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if params.Limit <= 0 || params.Limit > maxListLimit {
		params.Limit = 20
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	inquiries, total, err := h.store.ListInquiries(c.UserContext(), params)
	if err != nil {
		h.logg.Error(c.UserContext(), "failed to list inquiries", err)
		return Error(c, fiber.StatusInternalServerError, "failed to fetch inquiries")
	}

	return SuccessWithMeta(c, inquiries, total, params.Limit, params.Offset)
}

// GetInquiry returns one inquiry with its priced items
func (h *Handler) GetInquiry(c *fiber.Ctx) error {
	if h.store == nil {
		return storeUnavailable(c)
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid inquiry ID")
	}

	inquiry, err := h.store.GetInquiryByID(c.UserContext(), id)
	if err != nil {
		return h.inquiryLookupError(c, err)
	}

	return Success(c, inquiry)
}

// DeleteInquiry removes an inquiry and its exported files
func (h *Handler) DeleteInquiry(c *fiber.Ctx) error {
	if h.store == nil {
		return storeUnavailable(c)
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid inquiry ID")
	}

	ctx := h.logg.WithInquiryID(c.UserContext(), id)

	var keys []string
	if h.objects != nil {
		exports, err := h.store.ListExportsForInquiry(ctx, id)
		if err != nil {
			h.logg.Error(ctx, "failed to list exports", err)
			return Error(c, fiber.StatusInternalServerError, "failed to delete inquiry")
		}
		for _, e := range exports {
			keys = append(keys, e.ObjectKey)
		}
	}

	if err := h.store.DeleteInquiry(ctx, id); err != nil {
		return h.inquiryLookupError(c, err)
	}

	if len(keys) > 0 {
		if err := h.objects.DeleteMultiple(ctx, keys); err != nil {
			h.logg.Warn(ctx, "failed to delete export objects: "+err.Error())
		}
	}

	return Success(c, fiber.Map{"message": "inquiry deleted"})
}

func (h *Handler) inquiryLookupError(c *fiber.Ctx, err error) error {
	if errors.Is(err, database.ErrInquiryNotFound) {
		return Error(c, fiber.StatusNotFound, "inquiry not found")
	}
	h.logg.Error(c.UserContext(), "inquiry lookup failed", err)
	return Error(c, fiber.StatusInternalServerError, "failed to fetch inquiry")
}

package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/bid-pricing/internal/middleware"
	"github.com/foxxcyber/bid-pricing/internal/models"
)

// CreateShareLink issues a read-only link to an inquiry
func (h *Handler) CreateShareLink(c *fiber.Ctx) error {
	if h.store == nil {
		return storeUnavailable(c)
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid inquiry ID")
	}

	// Only share inquiries that exist
	if _, err := h.store.GetInquiryByID(c.UserContext(), id); err != nil {
		return h.inquiryLookupError(c, err)
	}

	token, expiresAt, err := h.shares.Issue(id)
	if err != nil {
		h.logg.Error(h.logg.WithInquiryID(c.UserContext(), id), "failed to issue share token", err)
		return Error(c, fiber.StatusInternalServerError, "failed to create share link")
	}

	return Success(c, models.ShareLinkResponse{
		Token:     token,
		URL:       h.publicURL() + "/api/share/" + token,
		ExpiresAt: expiresAt,
	})
}

// GetSharedInquiry returns the inquiry granted by a share token
func (h *Handler) GetSharedInquiry(c *fiber.Ctx) error {
	if h.store == nil {
		return storeUnavailable(c)
	}

	id := middleware.GetSharedInquiryID(c)
	if id == 0 {
		return Error(c, fiber.StatusUnauthorized, "invalid or expired share link")
	}

	inquiry, err := h.store.GetInquiryByID(c.UserContext(), id)
	if err != nil {
		return h.inquiryLookupError(c, err)
	}

	return Success(c, inquiry)
}

func (h *Handler) publicURL() string {
	if h.cfg == nil {
		return ""
	}
	return strings.TrimRight(h.cfg.App.PublicURL, "/")
}

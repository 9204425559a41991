package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/bid-pricing/internal/middleware"
)

// Register mounts the API routes on app
func (h *Handler) Register(app *fiber.App) {
	app.Get("/health", h.Health)

	api := app.Group("/api")

	pricingRoutes := api.Group("/pricing")
	pricingRoutes.Post("/", h.PriceProducts)
	pricingRoutes.Post("/reconcile", h.ReconcileDraft)
	pricingRoutes.Post("/scan", h.ScanQuantitySheet)

	inquiries := api.Group("/inquiries")
	inquiries.Get("/", h.ListInquiries)
	inquiries.Get("/:id", h.GetInquiry)
	inquiries.Delete("/:id", h.DeleteInquiry)
	inquiries.Post("/:id/share", h.CreateShareLink)
	inquiries.Post("/:id/export", h.ExportInquiry)
	inquiries.Get("/:id/exports", h.ListExports)

	// Public share routes
	share := api.Group("/share")
	share.Get("/:token", middleware.ShareTokenRequired(h.shares), h.GetSharedInquiry)
}

package handlers

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/bid-pricing/internal/services"
)

const maxScanBytes = 10 * 1024 * 1024

// ScanQuantitySheet OCRs an uploaded quantity sheet into quantityDetails text.
// An optional products field matches each product to a scanned quantity.
func (h *Handler) ScanQuantitySheet(c *fiber.Ctx) error {
	if h.ocr == nil {
		return Error(c, fiber.StatusServiceUnavailable, "OCR is not available")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "file is required")
	}

	// Validate file type
	contentType := file.Header.Get("Content-Type")
	if !isValidImageType(contentType) {
		return Error(c, fiber.StatusBadRequest, "invalid image type. Supported: JPEG, PNG, WebP, TIFF")
	}

	// Validate file size (max 10MB)
	if file.Size > maxScanBytes {
		return Error(c, fiber.StatusBadRequest, "file too large. Maximum size is 10MB")
	}

	src, err := file.Open()
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read file")
	}
	defer src.Close()

	imageBytes, err := io.ReadAll(src)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read file")
	}

	result, err := services.ScanQuantitySheet(h.ocr, h.parser, h.matcher, imageBytes, formProducts(c.FormValue("products")))
	if err != nil {
		h.logg.Error(c.UserContext(), "OCR processing failed", err)
		return Error(c, fiber.StatusUnprocessableEntity, "OCR processing failed")
	}

	return Success(c, result)
}

// formProducts splits the optional comma separated products field
func formProducts(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// isValidImageType checks if the content type is a valid image
func isValidImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png", "image/webp", "image/tiff":
		return true
	}
	return false
}

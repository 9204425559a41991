package handlers

import (
	"bytes"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/bid-pricing/internal/models"
	"github.com/foxxcyber/bid-pricing/internal/services"
)

const defaultExportURLExpiry = time.Hour

// ExportInquiry renders an inquiry as CSV, stores it and returns a
// temporary download URL
func (h *Handler) ExportInquiry(c *fiber.Ctx) error {
	if h.store == nil {
		return storeUnavailable(c)
	}
	if h.objects == nil {
		return Error(c, fiber.StatusServiceUnavailable, "export storage is not configured")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid inquiry ID")
	}
	ctx := h.logg.WithInquiryID(c.UserContext(), id)

	inquiry, err := h.store.GetInquiryByID(ctx, id)
	if err != nil {
		return h.inquiryLookupError(c, err)
	}

	body, err := services.RenderCSV(inquiry)
	if err != nil {
		h.logg.Error(ctx, "failed to render export", err)
		return Error(c, fiber.StatusInternalServerError, "failed to render export")
	}

	key := services.ExportObjectKey(id, models.ExportFormatCSV, time.Now())
	if _, err := h.objects.Upload(ctx, key, bytes.NewReader(body), int64(len(body)), "text/csv"); err != nil {
		h.logg.Error(ctx, "failed to upload export", err)
		return Error(c, fiber.StatusInternalServerError, "failed to store export")
	}

	export := &models.Export{
		InquiryID: id,
		ObjectKey: key,
		Format:    models.ExportFormatCSV,
		SizeBytes: int64(len(body)),
	}
	if err := h.store.CreateExport(ctx, export); err != nil {
		// Clean up the object on failure
		if deleteErr := h.objects.Delete(ctx, key); deleteErr != nil {
			h.logg.Warn(ctx, "failed to clean up export object "+key+": "+deleteErr.Error())
		}
		h.logg.Error(ctx, "failed to record export", err)
		return Error(c, fiber.StatusInternalServerError, "failed to record export")
	}

	url, err := h.objects.GetPresignedURL(ctx, key, h.exportURLExpiry())
	if err != nil {
		h.logg.Error(ctx, "failed to presign export", err)
		return Error(c, fiber.StatusInternalServerError, "failed to generate download URL")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    models.ExportResponse{Export: *export, DownloadURL: url},
	})
}

// ListExports returns the exports of an inquiry with fresh download URLs
func (h *Handler) ListExports(c *fiber.Ctx) error {
	if h.store == nil {
		return storeUnavailable(c)
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid inquiry ID")
	}
	ctx := h.logg.WithInquiryID(c.UserContext(), id)

	exports, err := h.store.ListExportsForInquiry(ctx, id)
	if err != nil {
		h.logg.Error(ctx, "failed to list exports", err)
		return Error(c, fiber.StatusInternalServerError, "failed to fetch exports")
	}

	out := make([]models.ExportResponse, 0, len(exports))
	for _, e := range exports {
		resp := models.ExportResponse{Export: *e}
		if h.objects != nil {
			if url, err := h.objects.GetPresignedURL(ctx, e.ObjectKey, h.exportURLExpiry()); err == nil {
				resp.DownloadURL = url
			}
		}
		out = append(out, resp)
	}

	return Success(c, out)
}

func (h *Handler) exportURLExpiry() time.Duration {
	if h.cfg == nil || h.cfg.Storage.URLExpiry <= 0 {
		return defaultExportURLExpiry
	}
	return h.cfg.Storage.URLExpiry
}

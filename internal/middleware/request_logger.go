package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/foxxcyber/bid-pricing/internal/logger"
)

const RequestIDHeader = "X-Request-Id"

// RequestID propagates or generates a request id and stores it in the
// request's user context for logging.
func RequestID(logg *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := c.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(RequestIDHeader, reqID)

		if logg != nil {
			c.SetUserContext(logg.WithRequestID(c.UserContext(), reqID))
		}
		return c.Next()
	}
}

// RequestLogger logs request.start and request.complete with status and
// duration. Handler errors are rendered here so the logged status is final.
func RequestLogger(logg *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if logg == nil {
			return c.Next()
		}

		ctx := logg.WithFields(c.UserContext(), map[string]any{
			"method": c.Method(),
			"path":   c.Path(),
		})
		c.SetUserContext(ctx)

		start := time.Now()
		logg.Info(ctx, "request.start")

		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		ctx = logg.WithFields(ctx, map[string]any{
			"status":      c.Response().StatusCode(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		logg.Info(ctx, "request.complete")
		return nil
	}
}

package middleware

import (
	"github.com/gofiber/fiber/v2"
)

const shareInquiryKey = "share_inquiry_id"

// ShareTokenParser validates share tokens
type ShareTokenParser interface {
	Parse(token string) (int, error)
}

// ShareTokenRequired checks the :token path parameter and exposes the
// inquiry it grants access to
func ShareTokenRequired(parser ShareTokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Params("token")
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing share token")
		}

		inquiryID, err := parser.Parse(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired share link")
		}

		c.Locals(shareInquiryKey, inquiryID)
		return c.Next()
	}
}

// GetSharedInquiryID returns the inquiry granted by the share token, or 0
func GetSharedInquiryID(c *fiber.Ctx) int {
	id, _ := c.Locals(shareInquiryKey).(int)
	return id
}

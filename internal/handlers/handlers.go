package handlers

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/bid-pricing/internal/config"
	"github.com/foxxcyber/bid-pricing/internal/logger"
	"github.com/foxxcyber/bid-pricing/internal/models"
	"github.com/foxxcyber/bid-pricing/internal/pricing"
	"github.com/foxxcyber/bid-pricing/internal/services"
)

const healthCheckTimeout = 2 * time.Second

// Pricer drafts and reconciles a pricing request
type Pricer interface {
	Price(ctx context.Context, req pricing.Request) (*pricing.Result, error)
}

// Pinger is a backend that can report its health
type Pinger interface {
	Ping(ctx context.Context) error
}

// InquiryStore persists inquiries and their exports
type InquiryStore interface {
	Pinger
	CreateInquiry(ctx context.Context, inquiry *models.Inquiry) error
	GetInquiryByID(ctx context.Context, id int) (*models.Inquiry, error)
	ListInquiries(ctx context.Context, params *models.InquiryListParams) ([]*models.InquirySummary, int, error)
	DeleteInquiry(ctx context.Context, id int) error
	CreateExport(ctx context.Context, export *models.Export) error
	ListExportsForInquiry(ctx context.Context, inquiryID int) ([]*models.Export, error)
}

// Deps are the collaborators of Handler. Store, Cache, Objects and OCR may
// be nil when the matching backend is not configured.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Pricer      Pricer
	DrafterName string
	Store       InquiryStore
	Cache       Pinger
	Shares      *services.ShareTokenService
	Objects     services.ObjectStore
	OCR         services.TextExtractor
}

// Handler holds all handler dependencies
type Handler struct {
	cfg         *config.Config
	logg        *logger.Logger
	pricer      Pricer
	drafterName string
	store       InquiryStore
	cache       Pinger
	shares      *services.ShareTokenService
	objects     services.ObjectStore
	ocr         services.TextExtractor
	parser      *services.QuantityParser
	matcher     *services.ProductMatcher
	validate    *validator.Validate
}

// New creates a new Handler instance
func New(deps Deps) *Handler {
	logg := deps.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Handler{
		cfg:         deps.Config,
		logg:        logg,
		pricer:      deps.Pricer,
		drafterName: deps.DrafterName,
		store:       deps.Store,
		cache:       deps.Cache,
		shares:      deps.Shares,
		objects:     deps.Objects,
		ocr:         deps.OCR,
		parser:      services.NewQuantityParser(),
		matcher:     services.NewProductMatcher(),
		validate:    newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// validationMessage flattens validator errors into one message
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return "validation failed"
	}
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "min":
			msg = fmt.Sprintf("must be at least %s", fe.Param())
		case "max":
			msg = fmt.Sprintf("must be at most %s", fe.Param())
		default:
			msg = "is invalid"
		}
		parts = append(parts, fe.Field()+" "+msg)
	}
	return strings.Join(parts, "; ")
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Default to 500
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	// Check if it's a Fiber error
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return Error(c, code, message)
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta contains pagination metadata
type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMeta returns a successful response with pagination
func SuccessWithMeta(c *fiber.Ctx, data interface{}, total, limit, offset int) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:  total,
			Limit:  limit,
			Offset: offset,
		},
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// Health pings the configured backends. Any failing backend makes the
// service report degraded with 503.
func (h *Handler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	healthy := true
	checks := fiber.Map{}
	ping := func(name string, backend Pinger) {
		if backend == nil {
			checks[name] = "disabled"
			return
		}
		if err := backend.Ping(ctx); err != nil {
			h.logg.Warn(h.logg.WithField(ctx, "backend", name), "health check failed: "+err.Error())
			checks[name] = "down"
			healthy = false
			return
		}
		checks[name] = "ok"
	}
	ping("database", h.store)
	ping("cache", h.cache)

	status, code := "ok", fiber.StatusOK
	if !healthy {
		status, code = "degraded", fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":  status,
		"drafter": h.drafterName,
		"checks":  checks,
		"exports": h.objects != nil,
		"ocr":     h.ocr != nil,
	})
}

func storeUnavailable(c *fiber.Ctx) error {
	return Error(c, fiber.StatusServiceUnavailable, "inquiry storage is not configured")
}

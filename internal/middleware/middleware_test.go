package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/bid-pricing/internal/logger"
)

func TestRequestIDGeneratesAndPropagates(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID(logger.Nop()))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	generated := resp.Header.Get(RequestIDHeader)
	_, err = uuid.Parse(generated)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "req-123", resp.Header.Get(RequestIDHeader))
}

func TestRequestLoggerRecordsFinalStatus(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusTeapot).SendString(err.Error())
		},
	})
	app.Use(RequestID(logg))
	app.Use(RequestLogger(logg))
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(RequestIDHeader, "req-9")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

	var entries []map[string]any
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.Len(t, entries, 2)
	assert.Equal(t, "request.start", entries[0]["message"])
	assert.Equal(t, "request.complete", entries[1]["message"])
	assert.Equal(t, "/boom", entries[1]["path"])
	assert.Equal(t, "req-9", entries[1]["request_id"])
	assert.EqualValues(t, fiber.StatusTeapot, entries[1]["status"])
}

type parserFunc func(token string) (int, error)

func (f parserFunc) Parse(token string) (int, error) { return f(token) }

func TestShareTokenRequired(t *testing.T) {
	parser := parserFunc(func(token string) (int, error) {
		if token == "good" {
			return 42, nil
		}
		return 0, errors.New("bad token")
	})

	app := fiber.New()
	app.Get("/share/:token", ShareTokenRequired(parser), func(c *fiber.Ctx) error {
		return c.SendString(strconv.Itoa(GetSharedInquiryID(c)))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/share/good", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := new(bytes.Buffer)
	_, _ = body.ReadFrom(resp.Body)
	assert.Equal(t, "42", body.String())

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/share/bad", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

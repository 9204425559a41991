package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/bid-pricing/internal/models"
	"github.com/foxxcyber/bid-pricing/internal/pricing"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BIDPRICING_DRAFTER", "heuristic")
	t.Setenv("BIDPRICING_SERP_API_KEY", "")
	t.Setenv("BIDPRICING_REDIS_URL", "")
	t.Setenv("BIDPRICING_REDIS_ADDR", "")

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestReconcileFromStdin(t *testing.T) {
	out, err := runCLI(t, `{"pricedItems":[{"name":"Widget","identifiedQuantity":"4 units","rate":2.5,"subtotal":99}],"totalAmount":99}`,
		"reconcile", "--draft", "-")
	require.NoError(t, err)

	var resp models.ReconcileResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 10.0, resp.TotalAmount)
	assert.Equal(t, 10.0, resp.PricedItems[0].Subtotal)
	assert.Len(t, resp.Discrepancies, 2)
}

func TestReconcileFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pricedItems":[{"name":"Chair","identifiedQuantity":"Not numerically specified","rate":80}]}`), 0o600))

	out, err := runCLI(t, "", "reconcile", "--draft", path)
	require.NoError(t, err)

	var resp models.ReconcileResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 0.0, resp.TotalAmount)
	assert.Empty(t, resp.Discrepancies)
}

func TestReconcileRejectsBadJSON(t *testing.T) {
	_, err := runCLI(t, "{nope", "reconcile", "--draft", "-")
	assert.Error(t, err)
}

func TestReconcileRejectsNullDraft(t *testing.T) {
	out, err := runCLI(t, "null", "reconcile", "--draft", "-")
	assert.ErrorIs(t, err, pricing.ErrUpstreamDraftMissing)
	assert.Empty(t, out)
}

func TestPriceWithHeuristicDrafter(t *testing.T) {
	out, err := runCLI(t, "", "price", "--products", "Widget, Gadget", "--quantities", "3 widgets, 2 gadgets", "--no-cache")
	require.NoError(t, err)

	var resp struct {
		PricedItems []struct {
			Name               string  `json:"name"`
			IdentifiedQuantity string  `json:"identifiedQuantity"`
			Subtotal           float64 `json:"subtotal"`
		} `json:"pricedItems"`
		TotalAmount float64 `json:"totalAmount"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.PricedItems, 2)
	assert.Equal(t, "Widget", resp.PricedItems[0].Name)
	assert.Equal(t, "3 units", resp.PricedItems[0].IdentifiedQuantity)
	assert.Equal(t, 0.0, resp.TotalAmount)
}

package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/bid-pricing/internal/config"
)

func TestSearchQuery(t *testing.T) {
	assert.Equal(t, "buy SATA 2 HDD quantity 500 wholesale", SearchQuery("SATA 2 HDD", 500))
	assert.Equal(t, "buy Office Chairs best price", SearchQuery("Office Chairs", 1))
	assert.Equal(t, "buy Office Chairs best price", SearchQuery("Office Chairs", 0))
}

func TestSearchRanksAndTrimsResults(t *testing.T) {
	var gotQuery, gotEngine, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotEngine = r.URL.Query().Get("engine")
		gotKey = r.URL.Query().Get("api_key")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"shopping_results": []map[string]any{
				{"source": "A", "title": "Acme Widget", "link": "https://a.example/w", "extracted_price": 30},
				{"source": "B", "title": "Acme Widget", "link": "https://b.example/w", "extracted_price": 10},
				{"source": "C", "title": "Acme Widget", "link": "https://c.example/w", "price": "$0"},
				{"source": "D", "title": "Acme Widget", "link": "https://d.example/w", "price": "$20.00"},
			},
			"organic_results": []map[string]any{
				{"title": "Acme widget deal", "link": "https://shop.example.com/w", "snippet": "Only $5.50 each"},
				{"title": "Acme widget again", "link": "https://late.example.com/w", "snippet": "$1"},
			},
		})
	}))
	defer srv.Close()

	client := NewSerpAPIClient(config.SearchConfig{SerpAPIKey: "k", BaseURL: srv.URL})
	results, err := client.Search(context.Background(), "Acme Widget", 50)
	require.NoError(t, err)

	assert.Equal(t, "buy Acme Widget quantity 50 wholesale", gotQuery)
	assert.Equal(t, "google_shopping", gotEngine)
	assert.Equal(t, "k", gotKey)

	require.Len(t, results, 3)
	assert.Equal(t, 5.5, results[0].ExtractedPrice)
	assert.Equal(t, "shop.example.com", results[0].SourceName)
	assert.Equal(t, "USD", results[0].PriceCurrency)
	assert.Equal(t, 10.0, results[1].ExtractedPrice)
	assert.Equal(t, "B", results[1].SourceName)
	assert.Equal(t, 20.0, results[2].ExtractedPrice)
	assert.Contains(t, results[2].QuantityContext, "Required: 50")
}

func TestSearchOrganicRelevanceCheck(t *testing.T) {
	var sr serpResponse
	require.NoError(t, json.Unmarshal([]byte(`{"organic_results":[{"title":"Unrelated gadget $3","link":"https://x.example"}]}`), &sr))

	assert.Empty(t, collectResults(sr, "Acme Widget", 1))
}

func TestSearchErrors(t *testing.T) {
	_, err := NewSerpAPIClient(config.SearchConfig{}).Search(context.Background(), "x", 1)
	assert.ErrorIs(t, err, ErrSearchNotConfigured)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer failing.Close()

	_, err = NewSerpAPIClient(config.SearchConfig{SerpAPIKey: "k", BaseURL: failing.URL}).Search(context.Background(), "x", 1)
	assert.ErrorIs(t, err, ErrSearchAPIError)

	apiErr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Invalid API key."}`))
	}))
	defer apiErr.Close()

	_, err = NewSerpAPIClient(config.SearchConfig{SerpAPIKey: "k", BaseURL: apiErr.URL}).Search(context.Background(), "x", 1)
	assert.ErrorIs(t, err, ErrSearchAPIError)
}

func TestParseLoosePrice(t *testing.T) {
	assert.Equal(t, 1299.0, parseLoosePrice(json.RawMessage(`"$1,299.00"`)))
	assert.Equal(t, 12.5, parseLoosePrice(json.RawMessage(`12.5`)))
	assert.Equal(t, 0.0, parseLoosePrice(nil))
	assert.Equal(t, 0.0, parseLoosePrice(json.RawMessage(`"call"`)))
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/foxxcyber/bid-pricing/internal/config"
)

const (
	serpAPIURL         = "https://serpapi.com/search.json"
	defaultTimeout     = 15 * time.Second
	searchEngine       = "google_shopping"
	searchResultsAsked = 10
	maxCollected       = 5
	maxReturned        = 3
)

var (
	ErrSearchNotConfigured = errors.New("product search api key not configured")
	ErrSearchAPIError      = errors.New("product search api error")
)

var organicPricePattern = regexp.MustCompile(`\$?([0-9,]+\.?[0-9]*)`)

// ProductSearcher finds web offers for a product
type ProductSearcher interface {
	Search(ctx context.Context, productName string, quantity int64) ([]SearchResult, error)
}

// SearchResult is one offer found online
type SearchResult struct {
	SourceName      string  `json:"sourceName,omitempty"`
	Title           string  `json:"title,omitempty"`
	Link            string  `json:"link,omitempty"`
	ExtractedPrice  float64 `json:"extractedPrice,omitempty"`
	PriceCurrency   string  `json:"priceCurrency,omitempty"`
	Snippet         string  `json:"snippet,omitempty"`
	QuantityContext string  `json:"quantityContext,omitempty"`
}

// SerpAPIClient queries Google Shopping through SerpAPI
type SerpAPIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type serpResponse struct {
	Error           string `json:"error,omitempty"`
	ShoppingResults []struct {
		Source         string          `json:"source"`
		Title          string          `json:"title"`
		Link           string          `json:"link"`
		ProductLink    string          `json:"product_link"`
		Price          json.RawMessage `json:"price"`
		ExtractedPrice float64         `json:"extracted_price"`
		Currency       string          `json:"currency"`
		Snippet        string          `json:"snippet"`
	} `json:"shopping_results"`
	OrganicResults []struct {
		Source  string `json:"source"`
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

// NewSerpAPIClient creates a new SerpAPIClient instance
func NewSerpAPIClient(cfg config.SearchConfig) *SerpAPIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = serpAPIURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &SerpAPIClient{
		apiKey:  cfg.SerpAPIKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Configured reports whether an API key is present
func (s *SerpAPIClient) Configured() bool {
	return s != nil && s.apiKey != ""
}

// SearchQuery builds the query string sent for a product
func SearchQuery(productName string, quantity int64) string {
	if quantity > 1 {
		return fmt.Sprintf("buy %s quantity %d wholesale", productName, quantity)
	}
	return fmt.Sprintf("buy %s best price", productName)
}

// Search returns up to three priced offers, cheapest first
func (s *SerpAPIClient) Search(ctx context.Context, productName string, quantity int64) ([]SearchResult, error) {
	if !s.Configured() {
		return nil, ErrSearchNotConfigured
	}

	params := url.Values{}
	params.Set("q", SearchQuery(productName, quantity))
	params.Set("api_key", s.apiKey)
	params.Set("engine", searchEngine)
	params.Set("num", strconv.Itoa(searchResultsAsked))

	reqURL := s.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrSearchAPIError, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var searchResp serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if searchResp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrSearchAPIError, searchResp.Error)
	}

	return rankResults(collectResults(searchResp, productName, quantity)), nil
}

// collectResults gathers shopping results first, then relevant organic ones
func collectResults(sr serpResponse, productName string, quantity int64) []SearchResult {
	required := quantity
	if required < 1 {
		required = 1
	}

	results := make([]SearchResult, 0, maxCollected)
	for _, item := range sr.ShoppingResults {
		if len(results) >= maxCollected {
			break
		}
		price := item.ExtractedPrice
		if price == 0 {
			price = parseLoosePrice(item.Price)
		}
		currency := item.Currency
		if currency == "" {
			currency = "USD"
		}
		link := item.Link
		if link == "" {
			link = item.ProductLink
		}
		results = append(results, SearchResult{
			SourceName:      item.Source,
			Title:           item.Title,
			Link:            link,
			ExtractedPrice:  price,
			PriceCurrency:   currency,
			Snippet:         item.Snippet,
			QuantityContext: fmt.Sprintf("Required: %d. Source: Shopping result. Verify bulk availability.", required),
		})
	}

	firstWord := ""
	if words := strings.Fields(strings.ToLower(productName)); len(words) > 0 {
		firstWord = words[0]
	}

	for _, item := range sr.OrganicResults {
		if len(results) >= maxCollected {
			break
		}
		if !strings.Contains(strings.ToLower(item.Title), firstWord) {
			continue
		}
		price := matchPrice(item.Snippet)
		if price == 0 {
			price = matchPrice(item.Title)
		}
		source := item.Source
		if source == "" {
			if u, err := url.Parse(item.Link); err == nil {
				source = u.Hostname()
			}
		}
		results = append(results, SearchResult{
			SourceName:      source,
			Title:           item.Title,
			Link:            item.Link,
			ExtractedPrice:  price,
			PriceCurrency:   "USD",
			Snippet:         item.Snippet,
			QuantityContext: fmt.Sprintf("Required: %d. Source: Organic result. Verify price and bulk availability.", required),
		})
	}
	return results
}

// rankResults drops unpriced offers and keeps the cheapest few
func rankResults(results []SearchResult) []SearchResult {
	priced := make([]SearchResult, 0, len(results))
	for _, r := range results {
		if r.ExtractedPrice > 0 {
			priced = append(priced, r)
		}
	}
	sort.SliceStable(priced, func(i, j int) bool {
		return priced[i].ExtractedPrice < priced[j].ExtractedPrice
	})
	if len(priced) > maxReturned {
		priced = priced[:maxReturned]
	}
	return priced
}

func matchPrice(s string) float64 {
	m := organicPricePattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// parseLoosePrice handles "price" given as a number or as "$1,299.00"
func parseLoosePrice(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/foxxcyber/bid-pricing/internal/config"
	"github.com/foxxcyber/bid-pricing/internal/logger"
	"github.com/foxxcyber/bid-pricing/internal/pricing"
)

var (
	ErrMissingGeminiKey  = errors.New("gemini api key is required")
	ErrEmptyModelReply   = errors.New("empty gemini response")
	ErrNonJSONModelReply = errors.New("gemini returned non-json output")
)

// contentGenerator is the subset of *genai.Models used for drafting
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiDrafter drafts pricing with Gemini, grounded on searched offers
type GeminiDrafter struct {
	models      contentGenerator
	model       string
	temperature float32
	timeout     time.Duration
	searcher    ProductSearcher
	parser      *QuantityParser
	matcher     *ProductMatcher
	logg        *logger.Logger
}

// NewGeminiDrafter creates a Gemini-backed drafter. searcher may be nil.
func NewGeminiDrafter(ctx context.Context, cfg config.GeminiConfig, searcher ProductSearcher, logg *logger.Logger) (*GeminiDrafter, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingGeminiKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGeminiDrafter(client.Models, cfg, searcher, logg), nil
}

func newGeminiDrafter(models contentGenerator, cfg config.GeminiConfig, searcher ProductSearcher, logg *logger.Logger) *GeminiDrafter {
	if logg == nil {
		logg = logger.Nop()
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiDrafter{
		models:      models,
		model:       model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		searcher:    searcher,
		parser:      NewQuantityParser(),
		matcher:     NewProductMatcher(),
		logg:        logg,
	}
}

// GenerateDraft implements pricing.DraftGenerator
func (g *GeminiDrafter) GenerateDraft(ctx context.Context, req pricing.Request) (*pricing.Draft, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	prompt, err := BuildPricingPrompt(req, g.gatherOffers(ctx, req))
	if err != nil {
		return nil, err
	}

	temperature := g.temperature
	resp, err := g.models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			Temperature:      &temperature,
			ResponseMIMEType: "application/json",
			ResponseSchema:   draftSchema(),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, ErrEmptyModelReply
	}

	raw := extractJSON(text)
	if !json.Valid([]byte(raw)) {
		return nil, ErrNonJSONModelReply
	}

	var draft pricing.Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, fmt.Errorf("decoding gemini draft: %w", err)
	}
	return &draft, nil
}

// gatherOffers searches every product up front, using the quantity found in
// the details text or 1. A product whose search fails is drafted without offers.
func (g *GeminiDrafter) gatherOffers(ctx context.Context, req pricing.Request) map[string][]SearchResult {
	if g.searcher == nil {
		return nil
	}
	matches := g.matcher.MatchAll(req.ProductList, g.parser.Parse(req.QuantityDetails))
	offers := make(map[string][]SearchResult, len(req.ProductList))
	for i, product := range req.ProductList {
		qty := int64(1)
		if m := matches[i]; m != nil {
			if n := pricing.ExtractQuantity(m.Clause.Describe()); n > 1 {
				qty = n
			}
		}
		results, err := g.searcher.Search(ctx, product, qty)
		if err != nil {
			if errors.Is(err, ErrSearchNotConfigured) {
				return nil
			}
			g.logg.Warn(g.logg.WithField(ctx, "product", product), "product search failed: "+err.Error())
			continue
		}
		offers[product] = results
	}
	return offers
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(b.String())
}

// extractJSON strips markdown fences some models wrap around JSON
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

func draftSchema() *genai.Schema {
	offer := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"vendorName":        {Type: genai.TypeString},
			"rate":              {Type: genai.TypeNumber},
			"websiteLink":       {Type: genai.TypeString},
			"contactOrQuoteUrl": {Type: genai.TypeString},
			"subtotal":          {Type: genai.TypeNumber},
		},
		Required: []string{"rate"},
	}
	item := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":               {Type: genai.TypeString},
			"identifiedQuantity": {Type: genai.TypeString},
			"rate":               {Type: genai.TypeNumber},
			"websiteLink":        {Type: genai.TypeString},
			"vendorContactInfo":  {Type: genai.TypeString},
			"subtotal":           {Type: genai.TypeNumber},
			"offers":             {Type: genai.TypeArray, Items: offer},
		},
		Required: []string{"name", "identifiedQuantity", "rate", "subtotal"},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"pricedItems": {Type: genai.TypeArray, Items: item},
			"totalAmount": {Type: genai.TypeNumber},
		},
		Required: []string{"pricedItems", "totalAmount"},
	}
}

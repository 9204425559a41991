package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/foxxcyber/bid-pricing/internal/config"
	"github.com/foxxcyber/bid-pricing/internal/logger"
	"github.com/foxxcyber/bid-pricing/internal/pricing"
)

const (
	DrafterAuto      = "auto"
	DrafterGemini    = "gemini"
	DrafterHeuristic = "heuristic"
)

// ResolveDrafterName picks the concrete drafter for the configured mode
func ResolveDrafterName(cfg *config.Config) (string, error) {
	switch mode := strings.ToLower(strings.TrimSpace(cfg.App.Drafter)); mode {
	case "", DrafterAuto:
		if cfg.Gemini.APIKey != "" {
			return DrafterGemini, nil
		}
		return DrafterHeuristic, nil
	case DrafterGemini, DrafterHeuristic:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown drafter %q", cfg.App.Drafter)
	}
}

// BuildDrafter assembles the draft generator chain: the base drafter, an
// upstream rate limit and, when store is non-nil, the draft cache.
func BuildDrafter(ctx context.Context, cfg *config.Config, store DraftStore, logg *logger.Logger) (pricing.DraftGenerator, string, error) {
	name, err := ResolveDrafterName(cfg)
	if err != nil {
		return nil, "", err
	}

	var searcher ProductSearcher
	if serp := NewSerpAPIClient(cfg.Search); serp.Configured() {
		searcher = serp
	}

	var base pricing.DraftGenerator
	switch name {
	case DrafterGemini:
		g, err := NewGeminiDrafter(ctx, cfg.Gemini, searcher, logg)
		if err != nil {
			return nil, "", err
		}
		base = g
	default:
		base = NewHeuristicDrafter(searcher, logg)
	}

	gen := pricing.DraftGenerator(NewThrottledDrafter(base, cfg.Throttle))
	if store != nil {
		gen = NewCachedDrafter(gen, store, cfg.Redis.DraftTTL, name, logg)
	}
	return gen, name, nil
}

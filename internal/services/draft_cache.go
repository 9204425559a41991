package services

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/foxxcyber/bid-pricing/internal/cache"
	"github.com/foxxcyber/bid-pricing/internal/logger"
	"github.com/foxxcyber/bid-pricing/internal/pricing"
)

// DraftStore is the cache surface used by CachedDrafter
type DraftStore interface {
	GetBytes(ctx context.Context, key string) ([]byte, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DraftKey(fingerprint string) string
}

// CachedDrafter serves repeated requests from a draft cache. Only the draft is
// cached; reconciliation still runs on every request.
type CachedDrafter struct {
	next  pricing.DraftGenerator
	store DraftStore
	ttl   time.Duration
	scope string
	logg  *logger.Logger
}

// NewCachedDrafter wraps next. scope separates caches of different drafters.
func NewCachedDrafter(next pricing.DraftGenerator, store DraftStore, ttl time.Duration, scope string, logg *logger.Logger) *CachedDrafter {
	if logg == nil {
		logg = logger.Nop()
	}
	return &CachedDrafter{next: next, store: store, ttl: ttl, scope: scope, logg: logg}
}

// GenerateDraft implements pricing.DraftGenerator
func (c *CachedDrafter) GenerateDraft(ctx context.Context, req pricing.Request) (*pricing.Draft, error) {
	key := c.store.DraftKey(Fingerprint(c.scope, req))
	ctx = c.logg.WithField(ctx, "draft_key", key)

	cached, err := c.store.GetBytes(ctx, key)
	switch {
	case err == nil:
		var draft pricing.Draft
		if jerr := json.Unmarshal(cached, &draft); jerr == nil {
			c.logg.Debug(ctx, "draft cache hit")
			return &draft, nil
		}
		c.logg.Warn(ctx, "discarding undecodable cached draft")
		if derr := c.store.Delete(ctx, key); derr != nil {
			c.logg.Warn(ctx, "draft cache evict failed: "+derr.Error())
		}
	case !errors.Is(err, cache.ErrMiss):
		c.logg.Warn(ctx, "draft cache read failed: "+err.Error())
	}

	draft, err := c.next.GenerateDraft(ctx, req)
	if err != nil || draft == nil || len(draft.Items) != len(req.ProductList) {
		return draft, err
	}

	encoded, err := json.Marshal(draft)
	if err != nil {
		c.logg.Warn(ctx, "encoding draft for cache failed: "+err.Error())
		return draft, nil
	}
	if err := c.store.SetBytes(ctx, key, encoded, c.ttl); err != nil {
		c.logg.Warn(ctx, "draft cache write failed: "+err.Error())
	}
	return draft, nil
}

// Fingerprint is the BLAKE2b-256 hex digest of the normalised request.
// Product names are trimmed and case-folded; order is significant.
func Fingerprint(scope string, req pricing.Request) string {
	products := make([]string, len(req.ProductList))
	for i, p := range req.ProductList {
		products[i] = strings.ToLower(strings.TrimSpace(p))
	}
	normalized, _ := json.Marshal(struct {
		Scope    string   `json:"s"`
		Products []string `json:"p"`
		Details  string   `json:"q"`
	}{
		Scope:    scope,
		Products: products,
		Details:  strings.Join(strings.Fields(req.QuantityDetails), " "),
	})
	sum := blake2b.Sum256(normalized)
	return hex.EncodeToString(sum[:])
}

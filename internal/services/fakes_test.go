package services

import (
	"context"
	"sync"
	"time"

	"github.com/foxxcyber/bid-pricing/internal/cache"
	"github.com/foxxcyber/bid-pricing/internal/pricing"
)

type searchCall struct {
	product  string
	quantity int64
}

type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]SearchResult
	errs    map[string]error
	calls   []searchCall
}

func (f *fakeSearcher) Search(ctx context.Context, productName string, quantity int64) ([]SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, searchCall{product: productName, quantity: quantity})
	if err := f.errs[productName]; err != nil {
		return nil, err
	}
	return f.results[productName], nil
}

type fakeDraftStore struct {
	data    map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	deleted []string
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeDraftStore) GetBytes(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (f *fakeDraftStore) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeDraftStore) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
		f.deleted = append(f.deleted, k)
	}
	return nil
}

func (f *fakeDraftStore) DraftKey(fingerprint string) string {
	return "test:" + fingerprint
}

type countingGenerator struct {
	mu    sync.Mutex
	calls int
	draft func(req pricing.Request) *pricing.Draft
	err   error
}

func (g *countingGenerator) GenerateDraft(ctx context.Context, req pricing.Request) (*pricing.Draft, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return g.draft(req), nil
}

func (g *countingGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// echoDraft proposes rate 10 for every product
func echoDraft(req pricing.Request) *pricing.Draft {
	d := &pricing.Draft{}
	for _, p := range req.ProductList {
		d.Items = append(d.Items, pricing.DraftItem{Name: p, IdentifiedQuantity: "2 units", Rate: pricing.Float(10)})
	}
	return d
}

package pricing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	mu            sync.Mutex
	observed      int
	lastTotal     float64
	discrepancies []string
	failures      []string
}

func (f *fakeRecorder) ObserveReconciliation(items int, total float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observed++
	f.lastTotal = total
}

func (f *fakeRecorder) IncDiscrepancy(field string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discrepancies = append(f.discrepancies, field)
}

func (f *fakeRecorder) IncUpstreamFailure(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, reason)
}

func staticDraft(d *Draft, err error) DraftGeneratorFunc {
	return func(ctx context.Context, req Request) (*Draft, error) {
		return d, err
	}
}

func TestServicePrice(t *testing.T) {
	rec := &fakeRecorder{}
	svc := NewService(staticDraft(sampleDraft(), nil), nil, rec)

	result, err := svc.Price(context.Background(), Request{
		ProductList:     []string{"Intel i9-9700K Processors", "Network Management"},
		QuantityDetails: "300 Intel i9-9700K Processors",
	})
	require.NoError(t, err)
	assert.Equal(t, 75000.0, result.TotalAmount)
	assert.Equal(t, 1, rec.observed)
	assert.Equal(t, 75000.0, rec.lastTotal)
	assert.Equal(t, []string{"subtotal", "total"}, rec.discrepancies)
}

func TestServiceEchoesProductNames(t *testing.T) {
	draft := sampleDraft()
	draft.Items[0].Name = "i9 CPUs"

	svc := NewService(staticDraft(draft, nil), nil, nil)
	result, err := svc.Price(context.Background(), Request{
		ProductList: []string{"Intel i9-9700K Processors", "Network Management"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Intel i9-9700K Processors", result.PricedItems[0].Name)
	assert.Equal(t, "i9 CPUs", draft.Items[0].Name, "draft must not be modified")
}

func TestServiceMissingDraft(t *testing.T) {
	products := []string{"a", "b"}
	cases := []struct {
		name   string
		gen    DraftGeneratorFunc
		reason string
	}{
		{"generator error", staticDraft(nil, errors.New("model unavailable")), ReasonGeneratorError},
		{"nil draft", staticDraft(nil, nil), ReasonNilDraft},
		{"short draft", staticDraft(&Draft{Items: []DraftItem{{Name: "a"}}}, nil), ReasonItemCountMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			svc := NewService(tc.gen, nil, rec)

			result, err := svc.Price(context.Background(), Request{ProductList: products})
			assert.Nil(t, result)
			require.ErrorIs(t, err, ErrUpstreamDraftMissing)

			var de *DraftError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tc.reason, de.Reason)
			assert.Equal(t, []string{tc.reason}, rec.failures)
			assert.Zero(t, rec.observed)
		})
	}
}

func TestServiceEmptyProductListSkipsUpstream(t *testing.T) {
	called := false
	svc := NewService(DraftGeneratorFunc(func(ctx context.Context, req Request) (*Draft, error) {
		called = true
		return nil, nil
	}), nil, nil)

	result, err := svc.Price(context.Background(), Request{})
	require.NoError(t, err)
	assert.False(t, called)
	assert.Empty(t, result.PricedItems)
	assert.Equal(t, 0.0, result.TotalAmount)
}

func TestServiceConcurrentCalls(t *testing.T) {
	svc := NewService(DraftGeneratorFunc(func(ctx context.Context, req Request) (*Draft, error) {
		return sampleDraft(), nil
	}), nil, nil)

	var wg sync.WaitGroup
	results := make([]*Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := svc.Price(context.Background(), Request{ProductList: []string{"x", "y"}})
			if err == nil {
				results[i] = r
			}
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, 75000.0, r.TotalAmount)
		assert.Equal(t, "x", r.PricedItems[0].Name)
	}
}

package pricing

import (
	"context"
	"fmt"

	"github.com/foxxcyber/bid-pricing/internal/logger"
)

// DraftGenerator proposes a draft for a request. Implementations must return
// one item per product, in product order.
type DraftGenerator interface {
	GenerateDraft(ctx context.Context, req Request) (*Draft, error)
}

// DraftGeneratorFunc adapts a function to DraftGenerator
type DraftGeneratorFunc func(ctx context.Context, req Request) (*Draft, error)

func (f DraftGeneratorFunc) GenerateDraft(ctx context.Context, req Request) (*Draft, error) {
	return f(ctx, req)
}

// Recorder receives reconciliation measurements
type Recorder interface {
	ObserveReconciliation(items int, total float64)
	IncDiscrepancy(field string)
	IncUpstreamFailure(reason string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveReconciliation(int, float64) {}
func (nopRecorder) IncDiscrepancy(string)              {}
func (nopRecorder) IncUpstreamFailure(string)          {}

// Service prices requests by drafting with a generator and reconciling the draft
type Service struct {
	generator DraftGenerator
	logg      *logger.Logger
	recorder  Recorder
}

// NewService creates a pricing service. A nil logger or recorder is allowed.
func NewService(generator DraftGenerator, logg *logger.Logger, recorder Recorder) *Service {
	if logg == nil {
		logg = logger.Nop()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		generator: generator,
		logg:      logg,
		recorder:  recorder,
	}
}

// Price drafts and reconciles a request. Any failure to obtain a usable draft
// is reported as a *DraftError matching ErrUpstreamDraftMissing.
func (s *Service) Price(ctx context.Context, req Request) (*Result, error) {
	if len(req.ProductList) == 0 {
		return &Result{PricedItems: []PricedItem{}}, nil
	}

	ctx = s.logg.WithField(ctx, "products", len(req.ProductList))

	draft, err := s.generator.GenerateDraft(ctx, req)
	if err != nil {
		return nil, s.fail(ctx, &DraftError{Reason: ReasonGeneratorError, Err: err})
	}
	if draft == nil {
		return nil, s.fail(ctx, &DraftError{Reason: ReasonNilDraft})
	}
	if len(draft.Items) != len(req.ProductList) {
		return nil, s.fail(ctx, &DraftError{
			Reason: ReasonItemCountMismatch,
			Err:    fmt.Errorf("draft has %d items for %d products", len(draft.Items), len(req.ProductList)),
		})
	}

	aligned := alignNames(draft, req.ProductList)
	result, err := Reconcile(aligned)
	if err != nil {
		return nil, err
	}

	for _, d := range Discrepancies(aligned, result) {
		s.recorder.IncDiscrepancy(d.Field)
		s.logg.Warn(s.logg.WithField(ctx, "discrepancy", d.String()), "pricing.discrepancy")
	}
	s.recorder.ObserveReconciliation(len(result.PricedItems), result.TotalAmount)

	return result, nil
}

func (s *Service) fail(ctx context.Context, err *DraftError) error {
	s.recorder.IncUpstreamFailure(err.Reason)
	s.logg.Error(ctx, "pricing.upstream_draft_missing", err)
	return err
}

// alignNames returns a copy of draft whose item names echo the request.
func alignNames(draft *Draft, products []string) *Draft {
	out := &Draft{
		Items:         make([]DraftItem, len(draft.Items)),
		ProposedTotal: draft.ProposedTotal,
	}
	copy(out.Items, draft.Items)
	for i := range out.Items {
		out.Items[i].Name = products[i]
	}
	return out
}

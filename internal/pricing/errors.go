package pricing

import (
	"errors"
	"fmt"
)

// ErrUpstreamDraftMissing means the draft generator produced no usable draft.
var ErrUpstreamDraftMissing = errors.New("upstream draft missing")

// Reasons recorded on a DraftError
const (
	ReasonGeneratorError    = "generator_error"
	ReasonNilDraft          = "nil_draft"
	ReasonItemCountMismatch = "item_count_mismatch"
)

// DraftError describes why no draft could be used. It matches
// ErrUpstreamDraftMissing with errors.Is and unwraps to the generator error.
type DraftError struct {
	Reason string
	Err    error
}

func (e *DraftError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", ErrUpstreamDraftMissing, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s (%s)", ErrUpstreamDraftMissing, e.Reason)
}

func (e *DraftError) Is(target error) bool {
	return target == ErrUpstreamDraftMissing
}

func (e *DraftError) Unwrap() error {
	return e.Err
}

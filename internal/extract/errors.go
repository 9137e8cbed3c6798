package extract

import (
	"errors"
	"fmt"
)

// Categorized extraction failures. Callers branch on these with errors.Is
// rather than by parsing message text.
var (
	// ErrSectionNotFound means the structural anchor (holdings table
	// header, account table header) is absent, most likely the wrong
	// document type.
	ErrSectionNotFound = errors.New("section not found")

	// ErrSectionUnparsable means the anchor was found but no usable
	// content followed it, most likely a source format change.
	ErrSectionUnparsable = errors.New("section unparsable")

	// ErrNoIndicators means none of the net-worth markers appear in the
	// text; the scan is rejected before any pass runs.
	ErrNoIndicators = errors.New("no net worth indicators")
)

// ExtractionError wraps one of the sentinel failure reasons with detail
// about what was being looked for.
type ExtractionError struct {
	Reason error
	Detail string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%v: %s", e.Reason, e.Detail)
}

func (e *ExtractionError) Unwrap() error { return e.Reason }

func failf(reason error, format string, args ...any) error {
	return &ExtractionError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

package md2slides

import "errors"

// Sentinel errors for library operations.
var (
	// Conversion errors. Any of these aborts the whole conversion.
	ErrUnsupportedBlockKind  = errors.New("unsupported Markdown block")
	ErrUnsupportedInlineKind = errors.New("unsupported Markdown inline")

	// Text layout errors.
	ErrBlockquoteRange = errors.New("blockquote range bookkeeping out of bounds")

	// Backend contract errors. The deck does not have what the generator expects.
	ErrMissingLayout      = errors.New("presentation missing layout")
	ErrMissingPlaceholder = errors.New("slide missing placeholder")
	ErrMissingSlide       = errors.New("created slide not found in presentation")

	// Transport and authentication failures reported by a Backend.
	ErrBackendCommunication = errors.New("presentation backend request failed")

	// Caller errors.
	ErrNilPresentation = errors.New("presentation data cannot be nil")
	ErrNilBackend      = errors.New("backend cannot be nil")
)

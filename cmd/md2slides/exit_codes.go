package main

import (
	"errors"
	"os"

	md2slides "github.com/alnah/go-md2slides"
	"github.com/alnah/go-md2slides/internal/auth"
	"github.com/alnah/go-md2slides/internal/config"
	"github.com/alnah/go-md2slides/internal/fileutil"
)

// Exit codes for md2slides CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or credentials setup
	ExitIO      = 3 // Source not found, unreadable, or not fetchable
	ExitBackend = 4 // Google Slides API or authorization errors
	ExitContent = 5 // Markdown that cannot become slides
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Content errors (exit 5)
	if errors.Is(err, md2slides.ErrUnsupportedBlockKind) ||
		errors.Is(err, md2slides.ErrUnsupportedInlineKind) ||
		errors.Is(err, md2slides.ErrBlockquoteRange) ||
		errors.Is(err, ErrNoSlides) {
		return ExitContent
	}

	// Backend errors (exit 4)
	if errors.Is(err, md2slides.ErrBackendCommunication) ||
		errors.Is(err, md2slides.ErrMissingLayout) ||
		errors.Is(err, md2slides.ErrMissingPlaceholder) ||
		errors.Is(err, md2slides.ErrMissingSlide) ||
		errors.Is(err, auth.ErrAuthorization) {
		return ExitBackend
	}

	// Usage/config errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, auth.ErrClientSecret) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrTooManyInputs) ||
		errors.Is(err, ErrConflictingFlags) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrUnknownCommand) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, fileutil.ErrSourceFetch) ||
		errors.Is(err, fileutil.ErrSourceTooLarge) ||
		errors.Is(err, auth.ErrTokenCache) {
		return ExitIO
	}

	return ExitGeneral
}

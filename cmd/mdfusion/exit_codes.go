package main

import (
	"errors"
	"os"

	"github.com/alnah/go-mdfusion"
	"github.com/alnah/go-mdfusion/internal/assets"
	"github.com/alnah/go-mdfusion/internal/config"
	"github.com/alnah/go-mdfusion/internal/dateutil"
)

// Exit codes for mdfusion CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful fusion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Root not found, unreadable document, unwritable output
	ExitRender  = 4 // pandoc, LaTeX, or browser failure
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Render errors (exit 4)
	if errors.Is(err, mdfusion.ErrRender) ||
		errors.Is(err, mdfusion.ErrMissingDependency) ||
		errors.Is(err, mdfusion.ErrLaTeXHeader) ||
		errors.Is(err, mdfusion.ErrHTMLConversion) ||
		errors.Is(err, mdfusion.ErrBundle) ||
		errors.Is(err, mdfusion.ErrBrowserConnect) ||
		errors.Is(err, mdfusion.ErrPageCreate) ||
		errors.Is(err, mdfusion.ErrPageLoad) ||
		errors.Is(err, mdfusion.ErrPDFGeneration) {
		return ExitRender
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrTooManyArgs) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrInvalidEnvValue) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigInvalid) ||
		errors.Is(err, config.ErrUnknownFormat) ||
		errors.Is(err, mdfusion.ErrInvalidOutput) ||
		errors.Is(err, mdfusion.ErrInvalidEngine) ||
		errors.Is(err, mdfusion.ErrInvalidMargin) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, assets.ErrInvalidBasePath) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, mdfusion.ErrRootNotFound) ||
		errors.Is(err, mdfusion.ErrNoDocuments) ||
		errors.Is(err, mdfusion.ErrReadDocument) ||
		errors.Is(err, mdfusion.ErrWriteArtifact) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	return ExitGeneral
}

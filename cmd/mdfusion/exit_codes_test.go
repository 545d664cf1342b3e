package main

// Notes:
// - exitCodeFor: we test the sentinel errors of the mdfusion, config, dateutil
//   and assets packages, plus wrapped and typed errors to verify the errors.Is chain.
// - Exit code constants: we verify Unix conventions (0=success, 1=general, 2=usage)
//   and custom codes are below 126.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/alnah/go-mdfusion"
	"github.com/alnah/go-mdfusion/internal/assets"
	"github.com/alnah/go-mdfusion/internal/config"
	"github.com/alnah/go-mdfusion/internal/dateutil"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	renderErr := &mdfusion.RenderError{Tool: "pandoc", Stderr: "boom", Err: errors.New("exit status 43")}
	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},

		// Render errors (exit 4)
		{"render error", renderErr, ExitRender},
		{"directive error", &mdfusion.DirectiveError{Directive: "--bogus", Render: renderErr}, ExitRender},
		{"missing dependency", &mdfusion.MissingDependencyError{Tools: []string{"pandoc"}}, ExitRender},
		{"latex header", mdfusion.ErrLaTeXHeader, ExitRender},
		{"html conversion", mdfusion.ErrHTMLConversion, ExitRender},
		{"bundle", mdfusion.ErrBundle, ExitRender},
		{"browser connect", mdfusion.ErrBrowserConnect, ExitRender},
		{"page create", mdfusion.ErrPageCreate, ExitRender},
		{"page load", mdfusion.ErrPageLoad, ExitRender},
		{"pdf generation", mdfusion.ErrPDFGeneration, ExitRender},
		{"wrapped browser connect", fmt.Errorf("failed: %w", mdfusion.ErrBrowserConnect), ExitRender},

		// I/O errors (exit 3)
		{"root not found", mdfusion.ErrRootNotFound, ExitIO},
		{"no documents", mdfusion.ErrNoDocuments, ExitIO},
		{"read document", mdfusion.ErrReadDocument, ExitIO},
		{"write artifact", mdfusion.ErrWriteArtifact, ExitIO},
		{"read css", ErrReadCSS, ExitIO},
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"wrapped root not found", fmt.Errorf("scan: %w", mdfusion.ErrRootNotFound), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"usage", ErrUsage, ExitUsage},
		{"no input", ErrNoInput, ExitUsage},
		{"too many args", ErrTooManyArgs, ExitUsage},
		{"invalid timeout", ErrInvalidTimeout, ExitUsage},
		{"invalid env value", ErrInvalidEnvValue, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"config invalid", config.ErrConfigInvalid, ExitUsage},
		{"config format", config.ErrUnknownFormat, ExitUsage},
		{"invalid output", mdfusion.ErrInvalidOutput, ExitUsage},
		{"invalid engine", mdfusion.ErrInvalidEngine, ExitUsage},
		{"invalid margin", mdfusion.ErrInvalidMargin, ExitUsage},
		{"invalid date format", dateutil.ErrInvalidDateFormat, ExitUsage},
		{"invalid asset path", assets.ErrInvalidBasePath, ExitUsage},
		{"wrapped config parse", fmt.Errorf("loading: %w", config.ErrConfigParse), ExitUsage},

		// General errors (exit 1)
		{"canceled", context.Canceled, ExitGeneral},
		{"unknown error", errors.New("something unexpected"), ExitGeneral},
		{"wrapped unknown", fmt.Errorf("context: %w", errors.New("unknown")), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodeConstants - Unix conventions
// ---------------------------------------------------------------------------

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
	if ExitGeneral != 1 {
		t.Errorf("ExitGeneral = %d, want 1", ExitGeneral)
	}
	if ExitUsage != 2 {
		t.Errorf("ExitUsage = %d, want 2", ExitUsage)
	}

	codes := map[string]int{"ExitIO": ExitIO, "ExitRender": ExitRender}
	seen := map[int]string{}
	for name, code := range codes {
		if code <= ExitUsage || code >= 126 {
			t.Errorf("%s = %d, want a custom code in (2, 126)", name, code)
		}
		if other, ok := seen[code]; ok {
			t.Errorf("%s and %s share code %d", name, other, code)
		}
		seen[code] = name
	}
}

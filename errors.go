package mdfusion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-mdfusion/internal/pipeline"
)

// Input errors, shared with the merge pipeline.
var (
	ErrRootNotFound  = pipeline.ErrRootNotFound
	ErrNoDocuments   = pipeline.ErrNoDocuments
	ErrReadDocument  = pipeline.ErrReadDocument
	ErrWriteArtifact = pipeline.ErrWriteArtifact
)

// Sentinel errors for rendering.
var (
	ErrRender            = errors.New("rendering failed")
	ErrUnknownDirective  = errors.New("unrecognized directive")
	ErrMissingDependency = errors.New("missing dependency")
	ErrInvalidOutput     = errors.New("invalid output path")
	ErrInvalidEngine     = errors.New("invalid engine")
	ErrInvalidMargin     = errors.New("invalid margin")
	ErrHTMLConversion    = pipeline.ErrHTMLConversion
	ErrLaTeXHeader       = errors.New("failed to build LaTeX header")
	ErrBundle            = errors.New("failed to bundle presentation")

	// Browser errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)

// RenderError reports a rendering tool that exited with an error.
// Stderr holds the tool's diagnostic output verbatim.
type RenderError struct {
	Tool   string
	Args   []string
	Stderr string
	Err    error
}

func (e *RenderError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Tool, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\n" + s
	}
	return msg
}

// Unwrap exposes both ErrRender and the process error.
func (e *RenderError) Unwrap() []error {
	return []error{ErrRender, e.Err}
}

// DirectiveError reports an option the rendering tool did not recognize.
// It separates "my directive was wrong" from a failure of the tool itself.
type DirectiveError struct {
	Directive string
	Render    *RenderError
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("argument '%s' not recognized", e.Directive)
}

// Unwrap exposes ErrUnknownDirective and the underlying RenderError.
func (e *DirectiveError) Unwrap() []error {
	return []error{ErrUnknownDirective, e.Render}
}

// MissingDependencyError names external tools that could not be found.
type MissingDependencyError struct {
	Tools []string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("%v: %s not found on PATH", ErrMissingDependency, strings.Join(e.Tools, ", "))
}

// Unwrap exposes ErrMissingDependency.
func (e *MissingDependencyError) Unwrap() error {
	return ErrMissingDependency
}

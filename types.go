package mdfusion

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alnah/go-mdfusion/internal/assets"
	"github.com/alnah/go-mdfusion/internal/pipeline"
)

// Document is a Markdown source file found under the root directory.
type Document = pipeline.Document

// Metadata is the title block written at the top of the merged document.
type Metadata = pipeline.Metadata

// Engine selects how paginated documents are typeset.
type Engine string

// Supported engines.
const (
	EnginePandoc Engine = "pandoc" // pandoc + XeLaTeX
	EngineChrome Engine = "chrome" // goldmark + headless Chrome
)

// Validate checks that e names a known engine. Empty means EnginePandoc.
func (e Engine) Validate() error {
	switch e {
	case "", EnginePandoc, EngineChrome:
		return nil
	}
	return fmt.Errorf("%w: %q (want %s or %s)", ErrInvalidEngine, string(e), EnginePandoc, EngineChrome)
}

// RevealURL is the reveal.js distribution used by presentations.
const RevealURL = "https://cdn.jsdelivr.net/npm/reveal.js@4"

// Style tunes the page layout shared by both engines.
type Style struct {
	Margin         string // page margin with unit: "1in", "2cm", "15mm"
	CenterHeadings *bool  // nil means centered
	HeadingSize    int    // section heading size in points
	CSS            string // extra CSS for the Chrome engine
}

// Layout defaults.
const (
	DefaultMargin      = "1in"
	DefaultHeadingSize = 16
)

// centered reports whether section headings are centered.
func (s Style) centered() bool {
	return s.CenterHeadings == nil || *s.CenterHeadings
}

func (s Style) margin() string {
	if s.Margin == "" {
		return DefaultMargin
	}
	return s.Margin
}

func (s Style) headingSize() int {
	if s.HeadingSize == 0 {
		return DefaultHeadingSize
	}
	return s.HeadingSize
}

// Params describes one fusion run.
type Params struct {
	RootDir      string   // directory scanned for Markdown documents
	Output       string   // output path; defaults to <rootname>.pdf (.html for presentations)
	NoTOC        bool     // omit the table of contents
	TitlePage    bool     // write a title block even without explicit title or author
	Title        string   // defaults to the root directory name
	Author       string   // defaults to the current OS user
	Date         string   // literal, "auto" or "auto:FORMAT"; defaults to "auto"
	ExtraArgs    []string // extra arguments passed to pandoc verbatim
	HeaderTex    string   // user LaTeX header; defaults to ./header.tex when present
	Debug        bool     // verbose pandoc and collaborator output
	Presentation bool     // render a reveal.js slide deck
	Engine       Engine   // typesetting engine for paginated output
	Style        Style
}

// Result describes the artifacts of a successful run.
type Result struct {
	Output      string        // primary artifact
	PDF         string        // printed presentation, empty otherwise
	Documents   int           // number of merged documents
	MergedBytes int           // size of the merged Markdown
	Command     []string      // pandoc command line, when pandoc ran
	Diagnostics string        // collaborator output, collected in debug mode
	Duration    time.Duration // wall time of the run
}

// Option configures a Fuser.
type Option func(*Fuser)

// fuserConfig holds settings applied by options.
type fuserConfig struct {
	timeout   time.Duration
	assetPath string
	debugOut  io.Writer
	now       func() time.Time
	userName  func() string
	cwd       func() (string, error)
}

// defaultTimeout bounds a whole run, typesetting included.
const defaultTimeout = 5 * time.Minute

// WithTimeout bounds the duration of a run. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(f *Fuser) {
		f.cfg.timeout = d
	}
}

// WithAssetPath overrides built-in styles and templates with files from dir.
func WithAssetPath(dir string) Option {
	return func(f *Fuser) {
		f.cfg.assetPath = dir
	}
}

// WithAssetLoader replaces the asset loader.
func WithAssetLoader(l assets.AssetLoader) Option {
	return func(f *Fuser) {
		f.assets = l
	}
}

// WithDebugOutput receives "[DEBUG]" lines and tool output in debug mode.
func WithDebugOutput(w io.Writer) Option {
	return func(f *Fuser) {
		f.cfg.debugOut = w
	}
}

// WithCommandRunner replaces the runner used to invoke pandoc.
func WithCommandRunner(r CommandRunner) Option {
	return func(f *Fuser) {
		f.runner = r
	}
}

// WithClock replaces the clock used to resolve "auto" dates.
func WithClock(now func() time.Time) Option {
	return func(f *Fuser) {
		f.cfg.now = now
	}
}

// withPDFRenderer injects the browser renderer (tests).
func withPDFRenderer(r pdfRenderer) Option {
	return func(f *Fuser) {
		f.pdf = r
	}
}

// withUserName replaces the default author lookup (tests).
func withUserName(fn func() string) Option {
	return func(f *Fuser) {
		f.cfg.userName = fn
	}
}

// withWorkingDir replaces the directory searched for header.tex (tests).
func withWorkingDir(fn func() (string, error)) Option {
	return func(f *Fuser) {
		f.cfg.cwd = fn
	}
}

// argsString quotes args for debug output.
func argsString(name string, args []string) string {
	quoted := make([]string, 0, len(args)+1)
	quoted = append(quoted, name)
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			a = fmt.Sprintf("%q", a)
		}
		quoted = append(quoted, a)
	}
	return strings.Join(quoted, " ")
}

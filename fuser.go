package mdfusion

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdfusion/internal/assets"
	"github.com/alnah/go-mdfusion/internal/dateutil"
	"github.com/alnah/go-mdfusion/internal/fileutil"
	"github.com/alnah/go-mdfusion/internal/pipeline"
)

// mergedFileName is the merged Markdown inside the work directory.
const mergedFileName = "merged.md"

// Fuser merges a Markdown tree and renders it.
// A Fuser reuses one browser across runs; it is not safe for concurrent use.
type Fuser struct {
	cfg       fuserConfig
	assets    assets.AssetLoader
	runner    CommandRunner
	pdf       pdfRenderer
	html      pipeline.HTMLConverter
	preflight bool // check tools on PATH before running
}

// NewFuser creates a Fuser. Without options it runs pandoc from PATH, uses
// the embedded assets and launches Chrome on first use.
func NewFuser(opts ...Option) (*Fuser, error) {
	f := &Fuser{
		cfg: fuserConfig{
			timeout:  defaultTimeout,
			debugOut: io.Discard,
			now:      time.Now,
			userName: currentUserName,
			cwd:      os.Getwd,
		},
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.assets == nil {
		resolver, err := assets.NewAssetResolver(f.cfg.assetPath)
		if err != nil {
			return nil, err
		}
		f.assets = resolver
	}
	if f.runner == nil {
		f.runner = &ExecRunner{}
		f.preflight = true
	}
	if f.pdf == nil {
		f.pdf = newRodRenderer(f.cfg.timeout)
	}
	if f.cfg.debugOut == nil {
		f.cfg.debugOut = io.Discard
	}
	f.html = pipeline.NewGoldmarkConverter()
	return f, nil
}

// Close releases the browser, if one was started.
func (f *Fuser) Close() error {
	if f.pdf != nil {
		return f.pdf.Close()
	}
	return nil
}

// Run discovers the documents under p.RootDir, merges them and renders the
// result. The work directory is removed before Run returns.
func (f *Fuser) Run(ctx context.Context, p Params) (*Result, error) {
	start := f.cfg.now()

	if err := p.Engine.Validate(); err != nil {
		return nil, err
	}
	if p.Style.Margin != "" {
		if _, err := parseLength(p.Style.Margin); err != nil {
			return nil, err
		}
	}

	resolved, err := f.resolveParams(p)
	if err != nil {
		return nil, err
	}
	if resolved.Presentation && !fileutil.HasExtension(resolved.Output, ".html") {
		return nil, fmt.Errorf("%w: presentation output must end in .html: %s", ErrInvalidOutput, resolved.Output)
	}
	if f.preflight {
		if err := CheckRequirements(RequiredTools(resolved)...); err != nil {
			return nil, err
		}
	}

	docs, err := pipeline.Discover(resolved.RootDir)
	if err != nil {
		return nil, err
	}
	f.debugf(resolved, "Found %d documents under %s", len(docs), resolved.RootDir)

	meta, err := f.metadata(p, resolved)
	if err != nil {
		return nil, err
	}

	if f.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.timeout)
		defer cancel()
	}

	workDir, cleanup, err := fileutil.MakeWorkDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	merged := filepath.Join(workDir, mergedFileName)
	size, err := MergeFile(merged, docs, meta)
	if err != nil {
		return nil, err
	}
	f.debugf(resolved, "Merged %d bytes into %s", size, merged)

	out, err := f.renderer(resolved).Render(ctx, &RenderJob{
		Merged:  merged,
		WorkDir: workDir,
		Output:  resolved.Output,
		Docs:    docs,
		Params:  resolved,
		Meta:    meta,
	})
	if err != nil {
		return nil, err
	}

	res := &Result{
		Output:      resolved.Output,
		Documents:   len(docs),
		MergedBytes: size,
		Command:     out.Command,
		Diagnostics: out.Diagnostics,
		Duration:    f.cfg.now().Sub(start),
	}
	if len(out.Outputs) > 1 {
		res.PDF = out.Outputs[1]
	}
	return res, nil
}

// renderer picks the collaborator for p.
func (f *Fuser) renderer(p Params) Renderer {
	switch {
	case p.Presentation:
		return &presentationRenderer{runner: f.runner, assets: f.assets, pdf: f.pdf, debug: f.cfg.debugOut}
	case p.Engine == EngineChrome:
		return &chromeRenderer{assets: f.assets, converter: f.html, pdf: f.pdf, debug: f.cfg.debugOut}
	default:
		return &pandocRenderer{runner: f.runner, assets: f.assets, debug: f.cfg.debugOut}
	}
}

// resolveParams fills in the root, output and header defaults.
func (f *Fuser) resolveParams(p Params) (Params, error) {
	cwd, err := f.cfg.cwd()
	if err != nil {
		return p, fmt.Errorf("getting working directory: %w", err)
	}

	root := p.RootDir
	if root == "" {
		root = "."
	}
	p.RootDir = absFrom(cwd, root)

	if p.Output == "" {
		ext := ".pdf"
		if p.Presentation {
			ext = ".html"
		}
		p.Output = filepath.Base(p.RootDir) + ext
	}
	p.Output = absFrom(cwd, p.Output)

	if p.HeaderTex == "" {
		if candidate := filepath.Join(cwd, headerFileName); fileutil.FileExists(candidate) {
			p.HeaderTex = candidate
		}
	} else {
		p.HeaderTex = absFrom(cwd, p.HeaderTex)
	}

	if p.Engine == "" {
		p.Engine = EnginePandoc
	}
	return p, nil
}

// metadata returns the title block for a run, or nil when raw asked for none.
// Defaults apply only once a title block is requested.
func (f *Fuser) metadata(raw, resolved Params) (*Metadata, error) {
	if !raw.TitlePage && raw.Title == "" && raw.Author == "" {
		return nil, nil
	}

	meta := &Metadata{Title: raw.Title, Author: raw.Author}
	if meta.Title == "" {
		meta.Title = filepath.Base(resolved.RootDir)
	}
	if meta.Author == "" {
		meta.Author = f.cfg.userName()
	}

	date := raw.Date
	if date == "" {
		date = dateutil.Auto
	}
	resolvedDate, err := dateutil.ResolveDate(date, f.cfg.now())
	if err != nil {
		return nil, err
	}
	meta.Date = resolvedDate
	return meta, nil
}

func (f *Fuser) debugf(p Params, format string, args ...any) {
	if p.Debug {
		fmt.Fprintf(f.cfg.debugOut, "[DEBUG] "+format+"\n", args...)
	}
}

// absFrom resolves path against dir unless it is already absolute.
func absFrom(dir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(dir, path)
}

// currentUserName returns the login name of the current OS user.
func currentUserName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		name := u.Username
		// Windows reports DOMAIN\user.
		if i := strings.LastIndex(name, `\`); i >= 0 {
			name = name[i+1:]
		}
		return name
	}
	for _, key := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

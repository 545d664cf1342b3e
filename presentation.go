package mdfusion

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alnah/go-mdfusion/internal/assets"
	"github.com/alnah/go-mdfusion/internal/fileutil"
)

// Print settings for reveal.js decks.
const (
	revealPrintQuery = "print-pdf"
	revealReady      = ".reveal.ready"
)

// presentationRenderer renders reveal.js slides with pandoc, bundles them
// into one self-contained HTML file and prints that file to PDF.
type presentationRenderer struct {
	runner CommandRunner
	assets assets.AssetLoader
	pdf    pdfRenderer
	debug  io.Writer
}

var _ Renderer = (*presentationRenderer)(nil)

func (r *presentationRenderer) Render(ctx context.Context, job *RenderJob) (*RenderOutput, error) {
	if !fileutil.HasExtension(job.Output, ".html") {
		return nil, fmt.Errorf("%w: presentation output must end in .html: %s", ErrInvalidOutput, job.Output)
	}

	header, err := r.writeAsset(job.WorkDir, assets.RevealHeaderName, revealHeadFile)
	if err != nil {
		return nil, err
	}
	footer, err := r.writeAsset(job.WorkDir, assets.RevealFooterName, revealFootFile)
	if err != nil {
		return nil, err
	}

	args := pandocArgs(job, "", revealArgs(header, footer))
	out, err := runPandoc(ctx, r.runner, r.debug, job.Params.Debug, args)
	if err != nil {
		return nil, err
	}

	if err := bundleHTML(ctx, job.Output, job.Output); err != nil {
		return nil, err
	}

	pdfPath := fileutil.ReplaceExtension(job.Output, ".pdf")
	pdf, err := r.pdf.RenderFile(ctx, job.Output, &printOptions{
		Query:             revealPrintQuery,
		WaitSelector:      revealReady,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, err
	}
	if err := fileutil.WriteFileAtomic(pdfPath, pdf, mergedFilePerm); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteArtifact, err)
	}
	if job.Params.Debug && r.debug != nil {
		fmt.Fprintf(r.debug, "[DEBUG] Printed %s\n", pdfPath)
	}

	out.Outputs = []string{job.Output, pdfPath}
	return out, nil
}

// revealArgs selects the reveal.js writer and wraps the slides with the
// header and footer snippets.
func revealArgs(header, footer string) []string {
	return []string{
		"-t", "revealjs",
		"-V", "revealjs-url=" + RevealURL,
		"-H", header,
		"-A", footer,
	}
}

// writeAsset copies a template asset into the work directory.
func (r *presentationRenderer) writeAsset(dir, name, file string) (string, error) {
	content, err := r.assets.Load(assets.KindTemplate, name)
	if err != nil {
		return "", fmt.Errorf("loading %s: %w", name, err)
	}
	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, []byte(content), workFilePerm); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrWriteArtifact, path, err)
	}
	return path, nil
}

package mdfusion

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdfusion/internal/assets"
	"github.com/alnah/go-mdfusion/internal/fileutil"
	"github.com/alnah/go-mdfusion/internal/pipeline"
)

// mergedHTMLName is the intermediate page printed by the browser.
const mergedHTMLName = "merged.html"

// tocDepth limits the table of contents to h1-h3.
const (
	tocMinDepth = 1
	tocMaxDepth = 3
)

// chromeRenderer typesets the merged document without LaTeX: goldmark
// renders HTML and headless Chrome prints it.
type chromeRenderer struct {
	assets    assets.AssetLoader
	converter pipeline.HTMLConverter
	pdf       pdfRenderer
	debug     io.Writer
}

var _ Renderer = (*chromeRenderer)(nil)

func (r *chromeRenderer) Render(ctx context.Context, job *RenderJob) (*RenderOutput, error) {
	margin, err := parseLength(job.Params.Style.margin())
	if err != nil {
		return nil, err
	}

	page, err := r.buildPage(ctx, job)
	if err != nil {
		return nil, err
	}

	htmlPath := filepath.Join(job.WorkDir, mergedHTMLName)
	if err := os.WriteFile(htmlPath, []byte(page), workFilePerm); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWriteArtifact, htmlPath, err)
	}
	if job.Params.Debug && r.debug != nil {
		fmt.Fprintf(r.debug, "[DEBUG] Wrote %s (%d bytes)\n", htmlPath, len(page))
	}

	out := &RenderOutput{Outputs: []string{job.Output}}
	if fileutil.HasExtension(job.Output, ".html") {
		if err := bundleHTML(ctx, htmlPath, job.Output); err != nil {
			return nil, err
		}
		return out, nil
	}

	pdf, err := r.pdf.RenderFile(ctx, htmlPath, &printOptions{MarginInches: margin})
	if err != nil {
		return nil, err
	}
	if err := fileutil.WriteFileAtomic(job.Output, pdf, mergedFilePerm); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteArtifact, err)
	}
	return out, nil
}

// buildPage turns the merged Markdown into a styled standalone page.
func (r *chromeRenderer) buildPage(ctx context.Context, job *RenderJob) (string, error) {
	raw, err := os.ReadFile(job.Merged) // #nosec G304 -- path created by the fuser
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrReadDocument, job.Merged, err)
	}

	meta, body, err := pipeline.ParseMetadataHeader(string(raw))
	if err != nil {
		return "", err
	}
	title := filepath.Base(job.Params.RootDir)
	if meta != nil && meta.Title != "" {
		title = meta.Title
	}

	pre := &pipeline.MergedPreprocessor{}
	body = pre.PreprocessMarkdown(ctx, body)

	page, err := r.converter.ToHTML(ctx, body, title)
	if err != nil {
		return "", err
	}
	if page, err = pipeline.ImageSourcesToFileURLs(page, ""); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	page = pipeline.ConvertPageBreaks(page)

	css, err := r.stylesheet(job.Params.Style)
	if err != nil {
		return "", err
	}
	page = (&pipeline.CSSInjection{}).InjectCSS(ctx, page, css)

	tmpl, err := r.assets.Load(assets.KindTemplate, assets.TitleTemplateName)
	if err != nil {
		return "", fmt.Errorf("loading title template: %w", err)
	}
	titles, err := pipeline.NewTitleInjection(tmpl)
	if err != nil {
		return "", err
	}
	if page, err = titles.InjectTitle(ctx, page, meta); err != nil {
		return "", err
	}

	if !job.Params.NoTOC {
		toc := &pipeline.TOCData{MinDepth: tocMinDepth, MaxDepth: tocMaxDepth}
		if page, err = pipeline.NewTOCInjection().InjectTOC(ctx, page, toc); err != nil {
			return "", err
		}
	}
	return page, nil
}

// stylesheet concatenates the base style, highlighting rules, the heading
// rule derived from style and the user's CSS.
func (r *chromeRenderer) stylesheet(style Style) (string, error) {
	base, err := r.assets.Load(assets.KindStyle, assets.DefaultStyleName)
	if err != nil {
		return "", fmt.Errorf("loading style: %w", err)
	}
	highlight, err := pipeline.HighlightCSS()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n")
	b.WriteString(highlight)
	b.WriteString("\n")
	b.WriteString(headingCSS(style))
	if style.CSS != "" {
		b.WriteString("\n")
		b.WriteString(style.CSS)
	}
	return b.String(), nil
}

// headingCSS mirrors the sectsty settings of the LaTeX header.
func headingCSS(style Style) string {
	size := style.headingSize()
	align := "left"
	if style.centered() {
		align = "center"
	}
	return fmt.Sprintf("h1 { text-align: %s; font-size: %dpt; line-height: %dpt; }\n", align, size, size+2)
}

package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// pageBreakPlaceholder stands in for a page-break line while Goldmark runs.
// It is a Private Use Area rune, so Goldmark passes it through untouched
// and raw HTML never has to be enabled.
const pageBreakPlaceholder = "\uE002"

// PageBreakHTML is the element that replaces each page-break marker.
const PageBreakHTML = `<div class="page-break"></div>`

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// pageBreakLine matches a line holding only the page-break marker.
	pageBreakLine = regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(PageBreak) + `[ \t]*$`)

	// pageBreakParagraph matches the placeholder once Goldmark wrapped it.
	pageBreakParagraph = regexp.MustCompile(`<p>\s*` + pageBreakPlaceholder + `\s*</p>`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// MergedPreprocessor prepares a merged artifact for the HTML pipeline.
type MergedPreprocessor struct{}

// PreprocessMarkdown normalizes line endings, swaps page-break lines for
// placeholders and limits runs of blank lines.
func (p *MergedPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = crlfOrCR.ReplaceAllString(content, "\n")
	content = pageBreakLine.ReplaceAllString(content, pageBreakPlaceholder)
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// ConvertPageBreaks turns page-break placeholders in HTML into PageBreakHTML.
// A placeholder Goldmark merged into a larger paragraph is dropped.
func ConvertPageBreaks(htmlContent string) string {
	htmlContent = pageBreakParagraph.ReplaceAllString(htmlContent, PageBreakHTML)
	return strings.ReplaceAll(htmlContent, pageBreakPlaceholder, "")
}

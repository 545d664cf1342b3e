package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"

	nethtml "golang.org/x/net/html"
)

// ErrTitleRender indicates the title block template failed to render.
var ErrTitleRender = errors.New("title block rendering failed")

// titleEndMarker closes the title block; the TOC is inserted after it.
// A span survives html/template, which strips comments.
var titleEndMarker = regexp.MustCompile(`(?i)<span[^>]*data-title-end[^>]*>\s*</span>`)

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, after <body>, or at the
// start of the content, whichever is found first.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"

	if idx := strings.Index(strings.ToLower(htmlContent), "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}
	return insertAfterBody(htmlContent, styleBlock)
}

// sanitizeCSS escapes "</" so the CSS cannot close its <style> element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// insertAfterBody inserts fragment right after the opening body tag,
// or prepends it when there is none.
func insertAfterBody(htmlContent, fragment string) string {
	if idx := strings.Index(strings.ToLower(htmlContent), "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			pos := idx + closeIdx + 1
			return htmlContent[:pos] + fragment + htmlContent[pos:]
		}
	}
	return fragment + htmlContent
}

// TitleInjector defines the contract for title block injection.
type TitleInjector interface {
	InjectTitle(ctx context.Context, htmlContent string, meta *Metadata) (string, error)
}

// TitleInjection renders document metadata as a title page.
type TitleInjection struct {
	tmpl *template.Template
}

// NewTitleInjection parses the title block template.
func NewTitleInjection(tmplContent string) (*TitleInjection, error) {
	tmpl, err := template.New("title").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing title template: %w", err)
	}
	return &TitleInjection{tmpl: tmpl}, nil
}

// InjectTitle renders meta and inserts it at the start of the body.
// Nil or empty metadata leaves the content unchanged.
func (t *TitleInjection) InjectTitle(ctx context.Context, htmlContent string, meta *Metadata) (string, error) {
	if meta.IsZero() {
		return htmlContent, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, meta); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTitleRender, err)
	}
	return insertAfterBody(htmlContent, buf.String()), nil
}

// TOCData configures table of contents generation.
type TOCData struct {
	Title    string // optional heading above the list
	MinDepth int    // shallowest heading level included
	MaxDepth int    // deepest heading level included
}

// TOCInjector defines the contract for TOC injection into HTML.
type TOCInjector interface {
	InjectTOC(ctx context.Context, htmlContent string, data *TOCData) (string, error)
}

// TOCInjection builds a nested table of contents from heading elements.
type TOCInjection struct{}

// NewTOCInjection creates a new TOC injector.
func NewTOCInjection() *TOCInjection {
	return &TOCInjection{}
}

// heading is a heading element that carries an id.
type heading struct {
	Level int
	ID    string
	Text  string
}

// InjectTOC inserts a <nav id="TOC"> after the title block, or at the start
// of the body when there is none. Nil data or a document without headings
// leaves the content unchanged.
func (t *TOCInjection) InjectTOC(ctx context.Context, htmlContent string, data *TOCData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	headings, err := extractHeadings(htmlContent, data.MinDepth, data.MaxDepth)
	if err != nil {
		return "", fmt.Errorf("extracting headings: %w", err)
	}
	if len(headings) == 0 {
		return htmlContent, nil
	}

	toc := buildTOC(headings, data.Title)
	if loc := titleEndMarker.FindStringIndex(htmlContent); loc != nil {
		return htmlContent[:loc[1]] + toc + htmlContent[loc[1]:], nil
	}
	return insertAfterBody(htmlContent, toc), nil
}

// extractHeadings returns h1-h6 elements with an id whose level lies in
// [minDepth, maxDepth], in document order.
func extractHeadings(htmlContent string, minDepth, maxDepth int) ([]heading, error) {
	doc, _, err := parseHTML(htmlContent)
	if err != nil {
		return nil, err
	}

	var out []heading
	var walk func(*nethtml.Node)
	walk = func(n *nethtml.Node) {
		if level := headingLevel(n); level >= minDepth && level <= maxDepth && level > 0 {
			if id := attr(n, "id"); id != "" {
				out = append(out, heading{Level: level, ID: id, Text: strings.TrimSpace(textContent(n))})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

// headingLevel returns 1-6 for h1-h6 elements and 0 otherwise.
func headingLevel(n *nethtml.Node) int {
	if n.Type != nethtml.ElementNode || len(n.Data) != 2 || n.Data[0] != 'h' {
		return 0
	}
	if d := n.Data[1]; d >= '1' && d <= '6' {
		return int(d - '0')
	}
	return 0
}

func attr(n *nethtml.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *nethtml.Node) string {
	if n.Type == nethtml.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

// buildTOC renders headings as nested lists. Skipped levels (h1 then h3)
// nest one step only, and the shallowest heading seen opens the outer list.
func buildTOC(headings []heading, title string) string {
	var buf strings.Builder
	buf.WriteString(`<nav id="TOC" role="doc-toc">`)
	if title != "" {
		buf.WriteString(`<h2 class="toc-title">` + html.EscapeString(title) + `</h2>`)
	}

	// stack holds the heading level that opened each open <ul>.
	var stack []int
	for _, h := range headings {
		if len(stack) == 0 {
			buf.WriteString("<ul>")
			stack = append(stack, h.Level)
		} else {
			for len(stack) > 1 && h.Level < stack[len(stack)-1] {
				buf.WriteString("</li></ul>")
				stack = stack[:len(stack)-1]
			}
			if h.Level > stack[len(stack)-1] {
				buf.WriteString("<ul>")
				stack = append(stack, h.Level)
			} else {
				buf.WriteString("</li>")
			}
		}
		buf.WriteString(`<li><a href="#` + html.EscapeString(h.ID) + `">` + html.EscapeString(h.Text) + `</a>`)
	}
	for range stack {
		buf.WriteString("</li></ul>")
	}

	buf.WriteString(`</nav>`)
	return buf.String()
}

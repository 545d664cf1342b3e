// Package bundle turns an HTML page into a single self-contained file.
// Images become data URIs; stylesheets and scripts are inlined.
package bundle

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-mdfusion/internal/fileutil"
)

// Sentinel errors for bundling.
var (
	ErrParse    = errors.New("failed to parse HTML")
	ErrResource = errors.New("failed to fetch resource")
)

// Defaults for remote fetching.
const (
	DefaultConcurrency = 4
	DefaultTimeout     = 30 * time.Second
	userAgent          = "mdfusion-bundler"
)

// cssURLPattern matches url(...) references inside a stylesheet.
var cssURLPattern = regexp.MustCompile(`url\(\s*(['"]?)([^'")]+)(['"]?)\s*\)`)

// resourceKind selects how a fetched resource replaces its element.
type resourceKind int

const (
	kindImage resourceKind = iota
	kindStylesheet
	kindScript
)

// resource is one external reference found in the page.
type resource struct {
	sel  *goquery.Selection
	kind resourceKind
	ref  string // absolute URL or absolute file path

	data        []byte
	contentType string
}

// Bundler inlines external resources of HTML pages.
type Bundler struct {
	baseDir     string
	client      *http.Client
	concurrency int
}

// Option configures a Bundler.
type Option func(*Bundler)

// WithHTTPClient sets the client used for remote resources.
func WithHTTPClient(c *http.Client) Option {
	return func(b *Bundler) { b.client = c }
}

// WithConcurrency caps parallel fetches. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(b *Bundler) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// New creates a Bundler that resolves relative references against baseDir.
func New(baseDir string, opts ...Option) *Bundler {
	b := &Bundler{
		baseDir:     baseDir,
		client:      &http.Client{Timeout: DefaultTimeout},
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BundleFile reads the page at in, inlines its resources (relative references
// resolve against the page's directory) and writes the result to out.
func BundleFile(ctx context.Context, in, out string, opts ...Option) error {
	page, err := os.ReadFile(in) // #nosec G304 -- path produced by the renderer
	if err != nil {
		return fmt.Errorf("reading %s: %w", in, err)
	}

	bundled, err := New(filepath.Dir(in), opts...).Bundle(ctx, page)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(out, bundled, 0o644)
}

// Bundle returns page with every image, stylesheet link and external script
// inlined. Any resource that cannot be fetched fails the whole bundle.
func (b *Bundler) Bundle(ctx context.Context, page []byte) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	res := b.collect(doc)
	if err := b.fetchAll(ctx, res); err != nil {
		return nil, err
	}

	for _, r := range res {
		if err := b.apply(r); err != nil {
			return nil, err
		}
	}

	out, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return []byte(out), nil
}

// collect lists the resources to inline in document order.
func (b *Bundler) collect(doc *goquery.Document) []*resource {
	var res []*resource
	add := func(sel *goquery.Selection, kind resourceKind, attr string) {
		raw, _ := sel.Attr(attr)
		if ref, ok := b.resolve(raw); ok {
			res = append(res, &resource{sel: sel, kind: kind, ref: ref})
		}
	}

	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		add(s, kindImage, "src")
	})
	doc.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		if rel, _ := s.Attr("rel"); strings.EqualFold(strings.TrimSpace(rel), "stylesheet") {
			add(s, kindStylesheet, "href")
		}
	})
	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		add(s, kindScript, "src")
	})
	return res
}

// resolve turns a reference into an absolute URL or file path.
func (b *Bundler) resolve(raw string) (string, bool) {
	return resolveRef(b.baseDir, raw)
}

// resolveRef resolves raw against baseDir.
// Data URIs, fragments and unknown schemes are skipped.
func resolveRef(baseDir, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "", strings.HasPrefix(raw, "#"), strings.HasPrefix(raw, "data:"):
		return "", false
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw, true
	case fileutil.IsURL(raw):
		return raw, true
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	switch {
	case u.Scheme == "file":
		return filepath.FromSlash(u.Path), true
	case len(u.Scheme) > 1:
		return "", false
	}

	p, err := url.PathUnescape(stripQuery(raw))
	if err != nil {
		p = stripQuery(raw)
	}
	p = filepath.FromSlash(p)
	if !filepath.IsAbs(p) {
		p = filepath.Join(baseDir, p)
	}
	return p, true
}

// fetchAll loads every resource with bounded concurrency.
func (b *Bundler) fetchAll(ctx context.Context, res []*resource) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for _, r := range res {
		g.Go(func() error {
			data, ctype, err := b.fetch(gctx, r.ref)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrResource, r.ref, err)
			}
			r.data, r.contentType = data, ctype
			return nil
		})
	}
	return g.Wait()
}

// fetch reads a local file or downloads a remote URL.
func (b *Bundler) fetch(ctx context.Context, ref string) ([]byte, string, error) {
	if !fileutil.IsURL(ref) {
		data, err := os.ReadFile(ref) // #nosec G304 -- referenced by the page being bundled
		if err != nil {
			return nil, "", err
		}
		return data, contentTypeOf(ref, data), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("HTTP status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	ctype := resp.Header.Get("Content-Type")
	if ctype == "" {
		ctype = contentTypeOf(ref, data)
	}
	return data, ctype, nil
}

// apply replaces the element of r with its inlined form.
func (b *Bundler) apply(r *resource) error {
	switch r.kind {
	case kindImage:
		r.sel.SetAttr("src", dataURI(r.contentType, r.data))
	case kindStylesheet:
		css, err := rebaseCSS(string(r.data), r.ref)
		if err != nil {
			return err
		}
		style := rawTextNode(atom.Style, css)
		if media, ok := r.sel.Attr("media"); ok {
			style.Attr = append(style.Attr, html.Attribute{Key: "media", Val: media})
		}
		r.sel.ReplaceWithNodes(style)
	case kindScript:
		r.sel.RemoveAttr("src")
		r.sel.Empty()
		r.sel.AppendNodes(&html.Node{Type: html.TextNode, Data: escapeScript(string(r.data))})
	}
	return nil
}

// rebaseCSS fixes url(...) references of an inlined stylesheet. Remote
// targets become absolute URLs; local files are embedded as data URIs.
func rebaseCSS(css, sheetRef string) (string, error) {
	var firstErr error
	out := cssURLPattern.ReplaceAllStringFunc(css, func(match string) string {
		sub := cssURLPattern.FindStringSubmatch(match)
		target := sub[2]
		if strings.HasPrefix(target, "data:") || strings.HasPrefix(target, "#") {
			return match
		}

		if fileutil.IsURL(sheetRef) {
			base, err := url.Parse(sheetRef)
			if err != nil {
				return match
			}
			ref, err := url.Parse(target)
			if err != nil {
				return match
			}
			return "url(" + sub[1] + base.ResolveReference(ref).String() + sub[3] + ")"
		}

		ref, ok := resolveRef(filepath.Dir(sheetRef), target)
		if !ok {
			return match
		}
		if fileutil.IsURL(ref) {
			return "url(" + sub[1] + ref + sub[3] + ")"
		}
		data, err := os.ReadFile(ref) // #nosec G304 -- referenced by an inlined stylesheet
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: %s: %v", ErrResource, ref, err)
			}
			return match
		}
		return "url(" + sub[1] + dataURI(contentTypeOf(ref, data), data) + sub[3] + ")"
	})
	return out, firstErr
}

// rawTextNode builds a <style> or <script> element holding text.
func rawTextNode(a atom.Atom, text string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

// escapeScript keeps inlined code from closing its own <script> element.
func escapeScript(js string) string {
	return strings.ReplaceAll(js, "</script", `<\/script`)
}

func dataURI(contentType string, data []byte) string {
	if i := strings.IndexByte(contentType, ';'); i != -1 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// contentTypeOf guesses the media type from the extension, then the content.
func contentTypeOf(name string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

func stripQuery(s string) string {
	if i := strings.IndexAny(s, "?#"); i != -1 {
		return s[:i]
	}
	return s
}

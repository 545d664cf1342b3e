package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ImageSourcesToFileURLs rewrites local img[src] values to file:// URLs so
// a browser loading the page from a temp directory still finds them.
// Absolute paths are converted as is; relative ones are first resolved
// against baseDir. With an empty baseDir relative sources are left alone.
// External sources (http, data, protocol-relative, fragments) never change.
func ImageSourcesToFileURLs(htmlContent, baseDir string) (string, error) {
	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	walkImages(doc, func(n *html.Node) {
		for i, attr := range n.Attr {
			if attr.Key != "src" {
				continue
			}
			if u, ok := localFileURL(attr.Val, baseDir); ok {
				n.Attr[i].Val = u
			}
		}
	})

	return renderHTML(doc, isFragment)
}

// localFileURL maps a local image source to a file:// URL.
func localFileURL(src, baseDir string) (string, bool) {
	if src == "" || IsExternal(src) {
		return "", false
	}

	// Goldmark percent-encodes destinations.
	path := src
	if decoded, err := url.PathUnescape(src); err == nil {
		path = decoded
	}
	path = filepath.FromSlash(path)

	if !filepath.IsAbs(path) {
		if baseDir == "" {
			return "", false
		}
		path = ResolveResource(baseDir, path)
	}
	return FileURL(path), true
}

// walkImages calls fn for every img element under n.
func walkImages(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkImages(c, fn)
	}
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	lower := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragments parse in body context so no html/body wrapper is added.
	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders the document back to string.
// Fragments render their children only.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if !isFragment {
		if err := html.Render(&buf, doc); err != nil {
			return "", err
		}
		return buf.String(), nil
	}

	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// FileURL converts an absolute path to a file:// URL.
// Windows paths gain a leading slash: C:\a\b.png -> file:///C:/a/b.png.
func FileURL(absPath string) string {
	p := filepath.ToSlash(absPath)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}

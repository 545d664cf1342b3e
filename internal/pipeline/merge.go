package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"unicode/utf8"
)

// PageBreak is the marker written before every document in a merge.
// LaTeX honors it natively; the HTML pipeline converts it to a CSS break.
const PageBreak = `\newpage`

// ReadDocument returns the UTF-8 text of d.
func ReadDocument(d Document) (string, error) {
	data, err := os.ReadFile(d.AbsPath) // #nosec G304 -- path comes from Discover
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrReadDocument, d.AbsPath, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s: invalid UTF-8", ErrReadDocument, d.AbsPath)
	}
	return string(data), nil
}

// Merge concatenates docs, in the given order, into w.
// The metadata header (if any) comes first; each document is preceded by
// a page break and followed by a blank line. Image targets are rewritten
// relative to the directory of the document they appear in.
//
// Every document is read before anything is written, so a read failure
// leaves w untouched.
func Merge(w io.Writer, docs []Document, meta *Metadata) error {
	var buf bytes.Buffer

	header, err := MetadataHeader(meta)
	if err != nil {
		return err
	}
	buf.WriteString(header)

	for _, d := range docs {
		text, err := ReadDocument(d)
		if err != nil {
			return err
		}
		buf.WriteString(PageBreak)
		buf.WriteString("\n\n")
		buf.WriteString(RewriteImageLinks(text, d.Dir()))
		buf.WriteString("\n\n")
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteArtifact, err)
	}
	return nil
}

// ResourceDirs returns the distinct directories of docs, sorted.
// Renderers use it as a search path for resources that are not rewritten.
func ResourceDirs(docs []Document) []string {
	seen := make(map[string]bool, len(docs))
	var dirs []string
	for _, d := range docs {
		dir := d.Dir()
		if seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

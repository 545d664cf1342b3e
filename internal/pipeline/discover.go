package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Document is a Markdown source file found under a scan root.
type Document struct {
	AbsPath string // absolute path of the file
	RelPath string // path relative to the scan root, OS separators
}

// Dir returns the absolute directory containing the document.
func (d Document) Dir() string {
	return filepath.Dir(d.AbsPath)
}

// IsMarkdownFile reports whether path has a .md or .markdown extension.
func IsMarkdownFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Discover recursively finds Markdown documents under root and returns them
// in natural order of their root-relative paths.
// Returns ErrRootNotFound if root is missing and ErrNoDocuments if nothing matched.
func Discover(root string) ([]Document, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRootNotFound, root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRootNotFound, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}

	var docs []Document
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !IsMarkdownFile(path) {
			return nil
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		docs = append(docs, Document{AbsPath: path, RelPath: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDocuments, root)
	}

	SortDocuments(docs)
	return docs, nil
}

// SortDocuments orders docs in place by natural order of RelPath.
func SortDocuments(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return NaturalLess(docs[i].RelPath, docs[j].RelPath)
	})
}

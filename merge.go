package mdfusion

import (
	"bytes"
	"fmt"
	"io"

	"github.com/alnah/go-mdfusion/internal/fileutil"
	"github.com/alnah/go-mdfusion/internal/pipeline"
)

// mergedFilePerm is the mode of merged artifacts.
const mergedFilePerm = 0o644

// Discover returns the Markdown documents under root in natural order of
// their root-relative paths.
func Discover(root string) ([]Document, error) {
	return pipeline.Discover(root)
}

// Merge writes the combined document for docs to w: the metadata header
// when meta is set, then every document behind a page break with its local
// image references made absolute.
func Merge(w io.Writer, docs []Document, meta *Metadata) error {
	return pipeline.Merge(w, docs, meta)
}

// MergeFile merges docs into the file at path. The file only appears once
// the merge has fully succeeded.
func MergeFile(path string, docs []Document, meta *Metadata) (int, error) {
	var buf bytes.Buffer
	if err := pipeline.Merge(&buf, docs, meta); err != nil {
		return 0, err
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), mergedFilePerm); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWriteArtifact, err)
	}
	return buf.Len(), nil
}

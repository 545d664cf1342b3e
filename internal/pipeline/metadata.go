package pipeline

import (
	"fmt"

	"github.com/alnah/go-mdfusion/internal/yamlutil"
)

// Metadata describes the merged document as a whole.
// Empty fields are omitted from the rendered header.
type Metadata struct {
	Title  string `yaml:"title,omitempty"`
	Author string `yaml:"author,omitempty"`
	Date   string `yaml:"date,omitempty"`
}

// IsZero reports whether no field is set.
func (m *Metadata) IsZero() bool {
	return m == nil || (m.Title == "" && m.Author == "" && m.Date == "")
}

// MetadataHeader renders meta as a front-matter block.
// Returns an empty string for nil or empty metadata.
func MetadataHeader(meta *Metadata) (string, error) {
	if meta.IsZero() {
		return "", nil
	}
	b, err := yamlutil.FrontMatter(meta)
	if err != nil {
		return "", fmt.Errorf("rendering metadata header: %w", err)
	}
	return string(b), nil
}

// ParseMetadataHeader extracts metadata from the front-matter block at the
// start of content. Returns nil metadata when content has no block.
func ParseMetadataHeader(content string) (*Metadata, string, error) {
	header, body := yamlutil.SplitFrontMatter([]byte(content))
	if header == nil {
		return nil, content, nil
	}
	var meta Metadata
	if len(header) > 0 {
		if err := yamlutil.Unmarshal(header, &meta); err != nil {
			return nil, content, fmt.Errorf("parsing metadata header: %w", err)
		}
	}
	return &meta, string(body), nil
}

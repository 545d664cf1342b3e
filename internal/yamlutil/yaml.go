// Package yamlutil wraps YAML parsing to isolate the external dependency.
// It also reads and writes the front-matter blocks used as document metadata.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

// frontMatterDelim opens and closes a front-matter block.
const frontMatterDelim = "---"

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// FrontMatter renders v as a front-matter block:
//
//	---
//	key: value
//	---
//
// followed by one blank line.
func FrontMatter(v any) ([]byte, error) {
	body, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(frontMatterDelim + "\n")
	buf.Write(body)
	if !bytes.HasSuffix(body, []byte("\n")) {
		buf.WriteByte('\n')
	}
	buf.WriteString(frontMatterDelim + "\n\n")
	return buf.Bytes(), nil
}

// SplitFrontMatter separates a leading front-matter block from content.
// Returns the YAML body (without delimiters) and the remaining content.
// If content has no front matter, header is nil and body is content.
func SplitFrontMatter(content []byte) (header, body []byte) {
	open := []byte(frontMatterDelim + "\n")
	if !bytes.HasPrefix(content, open) {
		return nil, content
	}

	rest := content[len(open):]
	closing := []byte("\n" + frontMatterDelim + "\n")
	idx := bytes.Index(rest, closing)
	if idx == -1 {
		return nil, content
	}

	header = rest[:idx+1]
	body = bytes.TrimLeft(rest[idx+len(closing):], "\n")
	return header, body
}

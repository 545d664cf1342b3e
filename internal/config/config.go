// Package config loads mdfusion settings from a TOML or YAML file.
//
// Settings live under an "mdfusion" table:
//
//	[mdfusion]
//	title = "Handbook"
//	title_page = true
//	pandoc_args = ["--number-sections"]
//
// The YAML form uses an "mdfusion" mapping with the same keys.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/alnah/go-mdfusion/internal/fileutil"
	"github.com/alnah/go-mdfusion/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrConfigInvalid  = errors.New("invalid config")
	ErrUnknownFormat  = errors.New("unsupported config format")
)

// FileBaseName is the base name searched for in standard locations.
const FileBaseName = "mdfusion"

// searchExtensions lists the accepted config extensions in search order.
var searchExtensions = []string{".toml", ".yaml", ".yml"}

// Config holds the settings a config file may provide.
// Zero values mean "not set" and leave defaults in place.
type Config struct {
	RootDir      string      `toml:"root_dir" yaml:"root_dir" validate:"max=4096"`
	Output       string      `toml:"output" yaml:"output" validate:"max=4096"`
	NoTOC        bool        `toml:"no_toc" yaml:"no_toc"`
	TitlePage    bool        `toml:"title_page" yaml:"title_page"`
	Title        string      `toml:"title" yaml:"title" validate:"max=200"`
	Author       string      `toml:"author" yaml:"author" validate:"max=100"`
	Date         string      `toml:"date" yaml:"date" validate:"max=50"`
	PandocArgs   []string    `toml:"-" yaml:"-" validate:"max=100,dive,max=4096"`
	HeaderTex    string      `toml:"header_tex" yaml:"header_tex" validate:"max=4096"`
	Debug        bool        `toml:"debug" yaml:"debug"`
	Presentation bool        `toml:"presentation" yaml:"presentation"`
	Engine       string      `toml:"engine" yaml:"engine" validate:"omitempty,oneof=pandoc chrome"`
	Timeout      string      `toml:"timeout" yaml:"timeout" validate:"max=20"`
	Assets       string      `toml:"assets" yaml:"assets" validate:"max=4096"`
	Style        StyleConfig `toml:"style" yaml:"style"`

	// RawPandocArgs accepts either a list or a whitespace-separated string.
	RawPandocArgs any `toml:"pandoc_args" yaml:"pandoc_args" validate:"-"`
}

// StyleConfig controls page layout shared by both engines.
type StyleConfig struct {
	Margin         string `toml:"margin" yaml:"margin" validate:"omitempty,max=20"`
	CenterHeadings *bool  `toml:"center_headings" yaml:"center_headings"`
	HeadingSize    int    `toml:"heading_size" yaml:"heading_size" validate:"omitempty,min=6,max=72"`
	CSS            string `toml:"css" yaml:"css" validate:"max=4096"`
}

// document is the top level of a config file.
type document struct {
	Mdfusion Config `toml:"mdfusion" yaml:"mdfusion"`
}

var validate = validator.New()

// Validate checks field bounds and enumerations.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrConfigInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	return nil
}

// Load reads the config file at path. The format follows the extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes config data. ext selects the format (".toml", ".yaml", ".yml").
// Unknown keys are rejected.
func Parse(data []byte, ext string) (*Config, error) {
	var doc document

	switch strings.ToLower(ext) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	case ".yaml", ".yml":
		if len(bytes.TrimSpace(data)) > 0 {
			if err := yamlutil.UnmarshalStrict(data, &doc); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	cfg := &doc.Mdfusion
	args, err := normalizeArgs(cfg.RawPandocArgs)
	if err != nil {
		return nil, fmt.Errorf("%w: pandoc_args: %v", ErrConfigParse, err)
	}
	cfg.PandocArgs = args
	cfg.RawPandocArgs = nil

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalizeArgs converts a decoded pandoc_args value to a slice.
func normalizeArgs(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return strings.Fields(v), nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d is %T, want string", i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("got %T, want string or list", raw)
	}
}

// Find returns the first config file found in the current directory, then in
// the user config directory (<UserConfigDir>/mdfusion/).
// Returns ErrConfigNotFound listing the tried paths when none exists.
func Find() (string, error) {
	dirs := []string{"."}
	if userDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(userDir, FileBaseName))
	}
	return findIn(dirs)
}

func findIn(dirs []string) (string, error) {
	tried := make([]string, 0, len(dirs)*len(searchExtensions))
	for _, dir := range dirs {
		for _, ext := range searchExtensions {
			p := filepath.Join(dir, FileBaseName+ext)
			if fileutil.FileExists(p) {
				return p, nil
			}
			tried = append(tried, p)
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

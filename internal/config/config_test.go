package config

// Notes:
// - Find is tested through findIn with explicit directories; the user config
//   directory varies by platform and is not touched by tests.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestParse - TOML and YAML decoding
// ---------------------------------------------------------------------------

func TestParse_TOML(t *testing.T) {
	t.Parallel()

	data := []byte(`
[mdfusion]
root_dir = "docs"
output = "book.pdf"
no_toc = true
title_page = true
title = "Handbook"
author = "Ada"
pandoc_args = ["--number-sections", "-V", "fontsize=12pt"]
header_tex = "header.tex"
engine = "chrome"

[mdfusion.style]
margin = "2cm"
center_headings = false
heading_size = 18
`)

	cfg, err := Parse(data, ".toml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.RootDir != "docs" || cfg.Output != "book.pdf" || cfg.Title != "Handbook" || cfg.Author != "Ada" {
		t.Errorf("Parse() strings = %+v", cfg)
	}
	if !cfg.NoTOC || !cfg.TitlePage {
		t.Errorf("Parse() bools NoTOC=%v TitlePage=%v, want true", cfg.NoTOC, cfg.TitlePage)
	}
	if got := strings.Join(cfg.PandocArgs, " "); got != "--number-sections -V fontsize=12pt" {
		t.Errorf("PandocArgs = %q", got)
	}
	if cfg.Engine != "chrome" {
		t.Errorf("Engine = %q, want chrome", cfg.Engine)
	}
	if cfg.Style.Margin != "2cm" || cfg.Style.HeadingSize != 18 {
		t.Errorf("Style = %+v", cfg.Style)
	}
	if cfg.Style.CenterHeadings == nil || *cfg.Style.CenterHeadings {
		t.Errorf("CenterHeadings = %v, want explicit false", cfg.Style.CenterHeadings)
	}
}

func TestParse_YAML(t *testing.T) {
	t.Parallel()

	data := []byte(`mdfusion:
  title: Slides
  presentation: true
  pandoc_args: "--slide-level 2"
`)

	for _, ext := range []string{".yaml", ".yml", ".YAML"} {
		cfg, err := Parse(data, ext)
		if err != nil {
			t.Fatalf("Parse(%s) error = %v", ext, err)
		}
		if cfg.Title != "Slides" || !cfg.Presentation {
			t.Errorf("Parse(%s) = %+v", ext, cfg)
		}
		if got := strings.Join(cfg.PandocArgs, "|"); got != "--slide-level|2" {
			t.Errorf("Parse(%s) PandocArgs = %q, want split on whitespace", ext, got)
		}
	}
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	for _, ext := range []string{".toml", ".yaml"} {
		cfg, err := Parse(nil, ext)
		if err != nil {
			t.Fatalf("Parse(nil, %s) error = %v", ext, err)
		}
		if cfg.Title != "" || cfg.PandocArgs != nil {
			t.Errorf("Parse(nil, %s) = %+v, want zero config", ext, cfg)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		ext     string
		wantErr error
	}{
		{name: "unknown TOML key", data: "[mdfusion]\ncolour = \"red\"\n", ext: ".toml", wantErr: ErrConfigParse},
		{name: "malformed TOML", data: "[mdfusion\n", ext: ".toml", wantErr: ErrConfigParse},
		{name: "unknown YAML key", data: "mdfusion:\n  colour: red\n", ext: ".yaml", wantErr: ErrConfigParse},
		{name: "pandoc_args wrong type", data: "[mdfusion]\npandoc_args = 3\n", ext: ".toml", wantErr: ErrConfigParse},
		{name: "pandoc_args mixed list", data: "[mdfusion]\npandoc_args = [\"a\", 1]\n", ext: ".toml", wantErr: ErrConfigParse},
		{name: "bad engine", data: "[mdfusion]\nengine = \"latex\"\n", ext: ".toml", wantErr: ErrConfigInvalid},
		{name: "heading size out of range", data: "[mdfusion.style]\nheading_size = 200\n", ext: ".toml", wantErr: ErrConfigInvalid},
		{name: "title too long", data: "[mdfusion]\ntitle = \"" + strings.Repeat("x", 201) + "\"\n", ext: ".toml", wantErr: ErrConfigInvalid},
		{name: "unknown extension", data: "{}", ext: ".json", wantErr: ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data), tt.ext)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLoad - Reading from disk
// ---------------------------------------------------------------------------

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "mdfusion.toml")
	if err := os.WriteFile(path, []byte("[mdfusion]\nauthor = \"Ada\"\n"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Author != "Ada" {
		t.Errorf("Author = %q, want Ada", cfg.Author)
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoad_ErrorNamesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mdfusion.yaml")
	if err := os.WriteFile(path, []byte("mdfusion:\n  nope: 1\n"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrConfigParse) {
		t.Fatalf("Load() error = %v, want ErrConfigParse", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not name the file", err)
	}
}

// ---------------------------------------------------------------------------
// TestFindIn - Search order
// ---------------------------------------------------------------------------

func TestFindIn(t *testing.T) {
	t.Parallel()

	first, second := t.TempDir(), t.TempDir()
	write := func(dir, name string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(""), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		return p
	}

	want := write(second, "mdfusion.yml")
	got, err := findIn([]string{first, second})
	if err != nil || got != want {
		t.Fatalf("findIn() = %q, %v; want %q", got, err, want)
	}

	// TOML wins over YAML, and earlier directories win over later ones.
	write(first, "mdfusion.yaml")
	want = write(first, "mdfusion.toml")
	got, err = findIn([]string{first, second})
	if err != nil || got != want {
		t.Fatalf("findIn() = %q, %v; want %q", got, err, want)
	}
}

func TestFindIn_NotFound(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := findIn([]string{dir})
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("findIn() error = %v, want ErrConfigNotFound", err)
	}
	if !strings.Contains(err.Error(), filepath.Join(dir, "mdfusion.toml")) {
		t.Errorf("error %q does not list tried paths", err)
	}
}

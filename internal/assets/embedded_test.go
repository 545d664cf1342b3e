package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestEmbeddedLoader_Load(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name        string
		kind        Kind
		asset       string
		wantErr     error
		wantContain string
	}{
		{
			name:        "default style",
			kind:        KindStyle,
			asset:       DefaultStyleName,
			wantContain: ".page-break",
		},
		{
			name:        "title template",
			kind:        KindTemplate,
			asset:       TitleTemplateName,
			wantContain: "data-title-end",
		},
		{
			name:        "reveal header",
			kind:        KindTemplate,
			asset:       RevealHeaderName,
			wantContain: "<style>",
		},
		{
			name:        "reveal footer",
			kind:        KindTemplate,
			asset:       RevealFooterName,
			wantContain: "Reveal.configure",
		},
		{
			name:        "latex header",
			kind:        KindLaTeX,
			asset:       LaTeXHeaderName,
			wantContain: `\usepackage{sectsty}`,
		},
		{
			name:    "missing style",
			kind:    KindStyle,
			asset:   "nonexistent-style-xyz",
			wantErr: ErrStyleNotFound,
		},
		{
			name:    "missing template",
			kind:    KindTemplate,
			asset:   "nonexistent-template-xyz",
			wantErr: ErrTemplateNotFound,
		},
		{
			name:    "missing latex",
			kind:    KindLaTeX,
			asset:   "nonexistent",
			wantErr: ErrLaTeXNotFound,
		},
		{
			name:    "empty name",
			kind:    KindStyle,
			asset:   "",
			wantErr: ErrInvalidAssetName,
		},
		{
			name:    "path traversal",
			kind:    KindTemplate,
			asset:   "../secret",
			wantErr: ErrInvalidAssetName,
		},
		{
			name:    "backslash traversal",
			kind:    KindStyle,
			asset:   "..\\secret",
			wantErr: ErrInvalidAssetName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.Load(tt.kind, tt.asset)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Load(%s, %q) error = %v, want %v", tt.kind, tt.asset, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load(%s, %q) unexpected error: %v", tt.kind, tt.asset, err)
			}
			if !strings.Contains(got, tt.wantContain) {
				t.Errorf("Load(%s, %q) content should contain %q", tt.kind, tt.asset, tt.wantContain)
			}
		})
	}
}

func TestEmbeddedLoader_BuiltinNames(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	builtins := []struct {
		kind Kind
		name string
	}{
		{KindStyle, DefaultStyleName},
		{KindTemplate, TitleTemplateName},
		{KindTemplate, RevealHeaderName},
		{KindTemplate, RevealFooterName},
		{KindLaTeX, LaTeXHeaderName},
	}

	for _, b := range builtins {
		got, err := loader.Load(b.kind, b.name)
		if err != nil || got == "" {
			t.Errorf("Load(%s, %q) = %d bytes, %v, want content", b.kind, b.name, len(got), err)
		}
	}
}

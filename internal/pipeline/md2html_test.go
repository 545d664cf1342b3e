package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestGoldmarkConverter_ToHTML(t *testing.T) {
	t.Parallel()

	conv := NewGoldmarkConverter()

	tests := []struct {
		name         string
		input        string
		title        string
		wantContains []string
	}{
		{
			name:         "heading gets id",
			input:        "# Hello World",
			wantContains: []string{`<h1 id="hello-world">Hello World</h1>`},
		},
		{
			name:         "title escaped",
			input:        "x",
			title:        "A & B",
			wantContains: []string{"<title>A &amp; B</title>"},
		},
		{
			name:         "GFM table",
			input:        "| a | b |\n|---|---|\n| 1 | 2 |",
			wantContains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:         "footnote",
			input:        "text[^1]\n\n[^1]: note",
			wantContains: []string{`class="footnotes"`},
		},
		{
			name:         "highlighted code uses classes",
			input:        "```go\nfunc main() {}\n```",
			wantContains: []string{`class="chroma"`},
		},
		{
			name:         "raw HTML escaped",
			input:        "<script>alert(1)</script>",
			wantContains: []string{"<!-- raw HTML omitted -->"},
		},
		{
			name:         "page break placeholder survives",
			input:        pageBreakPlaceholder + "\n\n# A",
			wantContains: []string{"<p>" + pageBreakPlaceholder + "</p>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := conv.ToHTML(context.Background(), tt.input, tt.title)
			if err != nil {
				t.Fatalf("ToHTML() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("ToHTML() missing %q in:\n%s", want, got)
				}
			}
		})
	}
}

func TestGoldmarkConverter_RewrittenImageInSpacedDir(t *testing.T) {
	t.Parallel()

	for _, dir := range []string{"My Notes", "draft (1)"} {
		t.Run(dir, func(t *testing.T) {
			t.Parallel()

			docDir := filepath.Join(t.TempDir(), dir)
			md := RewriteImageLinks("![pic](img.png)", docDir)

			got, err := NewGoldmarkConverter().ToHTML(context.Background(), md, "")
			if err != nil {
				t.Fatalf("ToHTML() error = %v", err)
			}
			if !strings.Contains(got, "<img ") {
				t.Errorf("ToHTML(%q) has no <img>:\n%s", md, got)
			}
			if strings.Contains(got, "![pic]") {
				t.Errorf("ToHTML(%q) kept image syntax as text:\n%s", md, got)
			}
		})
	}
}

func TestGoldmarkConverter_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewGoldmarkConverter().ToHTML(ctx, "# x", ""); err == nil {
		t.Error("ToHTML() with cancelled context expected error")
	}
}

func TestHighlightCSS(t *testing.T) {
	t.Parallel()

	css, err := HighlightCSS()
	if err != nil {
		t.Fatalf("HighlightCSS() error = %v", err)
	}
	if !strings.Contains(css, ".chroma") {
		t.Errorf("HighlightCSS() = %q, want .chroma rules", css)
	}
}

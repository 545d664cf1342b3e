package pipeline

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRewriteImageLinks - Local image targets become absolute
// ---------------------------------------------------------------------------

func TestRewriteImageLinks(t *testing.T) {
	t.Parallel()

	docDir := "/docs/ch1"
	if runtime.GOOS == "windows" {
		docDir = `C:\docs\ch1`
	}
	abs := func(rel string) string { return filepath.Join(docDir, filepath.FromSlash(rel)) }

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "relative image",
			in:   "![fig](img/a.png)",
			want: "![fig](" + abs("img/a.png") + ")",
		},
		{
			name: "dot segments cleaned",
			in:   "![](./img/../img/a.png)",
			want: "![](" + abs("img/a.png") + ")",
		},
		{
			name: "parent directory",
			in:   "![x](../shared/logo.png)",
			want: "![x](" + filepath.Join(filepath.Dir(docDir), "shared", "logo.png") + ")",
		},
		{
			name: "title preserved",
			in:   `![x](img/a.png "Figure 1")`,
			want: "![x](" + abs("img/a.png") + ` "Figure 1")`,
		},
		{
			name: "angle brackets preserved",
			in:   "![x](<img/my pic.png>)",
			want: "![x](<" + abs("img/my pic.png") + ">)",
		},
		{
			name: "http unchanged",
			in:   "![x](http://example.com/a.png)",
			want: "![x](http://example.com/a.png)",
		},
		{
			name: "https unchanged",
			in:   "![x](https://example.com/a.png)",
			want: "![x](https://example.com/a.png)",
		},
		{
			name: "data URI unchanged",
			in:   "![x](data:image/png;base64,AAAA)",
			want: "![x](data:image/png;base64,AAAA)",
		},
		{
			name: "protocol relative unchanged",
			in:   "![x](//cdn.example.com/a.png)",
			want: "![x](//cdn.example.com/a.png)",
		},
		{
			name: "fragment unchanged",
			in:   "![x](#fig)",
			want: "![x](#fig)",
		},
		{
			name: "plain link unchanged",
			in:   "[see](img/a.png)",
			want: "[see](img/a.png)",
		},
		{
			name: "surrounding text kept",
			in:   "before ![a](a.png) middle ![b](https://x.y/b.png) after",
			want: "before ![a](" + abs("a.png") + ") middle ![b](https://x.y/b.png) after",
		},
		{
			name: "no images",
			in:   "# Title\n\nJust text.\n",
			want: "# Title\n\nJust text.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := RewriteImageLinks(tt.in, docDir)
			if got != tt.want {
				t.Errorf("RewriteImageLinks(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRewriteImageLinks_Idempotent(t *testing.T) {
	t.Parallel()

	docDir := t.TempDir()
	in := "![a](img/a.png) ![b](../b.png \"t\") ![c](https://x.y/c.png)"

	once := RewriteImageLinks(in, docDir)
	twice := RewriteImageLinks(once, docDir)
	if once != twice {
		t.Errorf("second rewrite changed output:\n once  = %q\n twice = %q", once, twice)
	}
}

func TestRewriteImageLinks_SameNameDistinctDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	a := RewriteImageLinks("![](img/fig.png)", filepath.Join(root, "a"))
	b := RewriteImageLinks("![](img/fig.png)", filepath.Join(root, "b"))
	if a == b {
		t.Errorf("identically named images resolved to the same target: %q", a)
	}
}

// ---------------------------------------------------------------------------
// TestRewriteImageLinks_BracketsUnsafePaths - Spaces and parentheses in dirs
// ---------------------------------------------------------------------------

func TestRewriteImageLinks_BracketsUnsafePaths(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	tests := []struct {
		name   string
		dir    string
		in     string
		target string
		rest   string
	}{
		{name: "space in directory", dir: "My Notes", in: "![pic](img.png)", target: "img.png"},
		{name: "parentheses in directory", dir: "draft (1)", in: "![pic](img.png)", target: "img.png"},
		{name: "title kept", dir: "My Notes", in: `![pic](img.png "Cover")`, target: "img.png", rest: ` "Cover"`},
		{name: "tab in file name", dir: "notes", in: "![pic](<a\tb.png>)", target: "a\tb.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			docDir := filepath.Join(root, tt.dir)
			want := "![pic](<" + filepath.Join(docDir, tt.target) + ">" + tt.rest + ")"

			got := RewriteImageLinks(tt.in, docDir)
			if got != want {
				t.Errorf("RewriteImageLinks(%q) = %q, want %q", tt.in, got, want)
			}
			if again := RewriteImageLinks(got, docDir); again != got {
				t.Errorf("second rewrite changed output:\n once  = %q\n twice = %q", got, again)
			}
		})
	}
}

func TestRewriteImageLinks_PlainPathStaysBare(t *testing.T) {
	t.Parallel()

	docDir := filepath.Join(t.TempDir(), "notes")
	got := RewriteImageLinks("![pic](img.png)", docDir)
	if strings.Contains(got, "<") {
		t.Errorf("RewriteImageLinks() = %q, want destination without brackets", got)
	}
}

// ---------------------------------------------------------------------------
// TestRewriteImageLinks_SkipsCode - Code spans and fences are verbatim
// ---------------------------------------------------------------------------

func TestRewriteImageLinks_SkipsCode(t *testing.T) {
	t.Parallel()

	docDir := filepath.Join(t.TempDir(), "ch1")
	abs := filepath.Join(docDir, "a.png")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "inline code span",
			in:   "Write `![x](y.png)` to embed.",
			want: "Write `![x](y.png)` to embed.",
		},
		{
			name: "double backtick span",
			in:   "``a ` ![x](y.png)`` and ![a](a.png)",
			want: "``a ` ![x](y.png)`` and ![a](" + abs + ")",
		},
		{
			name: "unmatched backtick is literal",
			in:   "a ` b ![a](a.png)",
			want: "a ` b ![a](" + abs + ")",
		},
		{
			name: "backtick fence",
			in:   "```md\n![x](y.png)\n```\n![a](a.png)\n",
			want: "```md\n![x](y.png)\n```\n![a](" + abs + ")\n",
		},
		{
			name: "tilde fence",
			in:   "~~~\n![x](y.png)\n~~~\n",
			want: "~~~\n![x](y.png)\n~~~\n",
		},
		{
			name: "shorter closer does not end fence",
			in:   "````\n```\n![x](y.png)\n````\n",
			want: "````\n```\n![x](y.png)\n````\n",
		},
		{
			name: "unclosed fence runs to end",
			in:   "![a](a.png)\n```\n![x](y.png)\n",
			want: "![a](" + abs + ")\n```\n![x](y.png)\n",
		},
		{
			name: "backticks inside fence do not open spans",
			in:   "```\n`\n```\n![a](a.png) `c`\n",
			want: "```\n`\n```\n![a](" + abs + ") `c`\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := RewriteImageLinks(tt.in, docDir)
			if got != tt.want {
				t.Errorf("RewriteImageLinks(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveResource - Symlinks and absolute targets
// ---------------------------------------------------------------------------

func TestResolveResource_Symlink(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on Windows")
	}

	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}
	real := filepath.Join(root, "real.png")
	if err := os.WriteFile(real, []byte("png"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Symlink(real, filepath.Join(root, "link.png")); err != nil {
		t.Fatalf("Symlink: %v", err)
	}

	if got := ResolveResource(root, "link.png"); got != real {
		t.Errorf("ResolveResource() = %q, want %q", got, real)
	}
}

func TestResolveResource_MissingTargetStillAbsolute(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	got := ResolveResource(root, "missing/x.png")
	if !filepath.IsAbs(got) {
		t.Errorf("ResolveResource() = %q, want absolute path", got)
	}
	if !strings.HasSuffix(filepath.ToSlash(got), "missing/x.png") {
		t.Errorf("ResolveResource() = %q, want suffix missing/x.png", got)
	}
}

// ---------------------------------------------------------------------------
// TestIsExternal
// ---------------------------------------------------------------------------

func TestIsExternal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		target string
		want   bool
	}{
		{"http://a/b.png", true},
		{"HTTPS://a/b.png", true},
		{"ftp://a/b.png", true},
		{"mailto:x@y.z", true},
		{"//cdn/b.png", true},
		{"#anchor", true},
		{"img/a.png", false},
		{"/abs/a.png", false},
		{`C:\img\a.png`, false},
		{"a:b.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			t.Parallel()

			if got := IsExternal(tt.target); got != tt.want {
				t.Errorf("IsExternal(%q) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

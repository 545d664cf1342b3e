package pipeline

import (
	"path/filepath"
	"regexp"
	"strings"
)

// imagePattern matches Markdown image syntax: ![alt](target).
// A bracketed target <...> may hold parentheses and escaped angle brackets.
// Go's regexp has no lookahead, so external targets are filtered in code.
var imagePattern = regexp.MustCompile(`!\[([^\]]*)\]\((<(?:\\.|[^>\\\n])*>[^)]*|[^)]+)\)`)

// schemePattern matches a URL scheme prefix of two or more characters.
// Single letters are left out so Windows drive letters (C:\) stay local.
var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]+:`)

// IsExternal reports whether an image target points outside the filesystem:
// a URL with a scheme, a protocol-relative URL, or a fragment.
func IsExternal(target string) bool {
	return strings.HasPrefix(target, "//") ||
		strings.HasPrefix(target, "#") ||
		schemePattern.MatchString(target)
}

// ResolveResource returns the absolute, cleaned path of target as seen from docDir.
// Absolute targets are only cleaned, so resolving twice yields the same path.
// Symlinks are resolved when the target exists.
func ResolveResource(docDir, target string) string {
	p := filepath.FromSlash(target)
	if !filepath.IsAbs(p) {
		p = filepath.Join(docDir, p)
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		abs = filepath.Clean(p)
	}

	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

// RewriteImageLinks replaces every local image target in text with its
// absolute path relative to docDir. External targets, non-image links and
// image syntax inside code spans or fenced code blocks are left byte-for-byte
// unchanged.
func RewriteImageLinks(text, docDir string) string {
	code := codeRanges(text)

	var b strings.Builder
	last := 0
	for _, m := range imagePattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		if insideRanges(code, start) {
			continue
		}
		b.WriteString(text[last:start])
		b.WriteString(rewriteImage(text[start:end], text[m[2]:m[3]], text[m[4]:m[5]], docDir))
		last = end
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

func rewriteImage(match, alt, target, docDir string) string {
	dest, rest, angled := splitTarget(target)
	if dest == "" || IsExternal(dest) {
		return match
	}

	resolved := ResolveResource(docDir, dest)
	if angled || needsBrackets(resolved) {
		resolved = "<" + bracketEscaper.Replace(resolved) + ">"
	}
	return "![" + alt + "](" + resolved + rest + ")"
}

// needsBrackets reports whether dest is not a valid bare link destination.
func needsBrackets(dest string) bool {
	return strings.ContainsAny(dest, " \t()<>")
}

var (
	bracketEscaper   = strings.NewReplacer("<", `\<`, ">", `\>`)
	bracketUnescaper = strings.NewReplacer(`\<`, "<", `\>`, ">")
)

// splitTarget separates the destination of an image target from an optional
// title. "<a b.png> \"t\"" yields ("a b.png", " \"t\"", true).
func splitTarget(target string) (dest, rest string, angled bool) {
	trimmed := strings.TrimLeft(target, " \t")

	if strings.HasPrefix(trimmed, "<") {
		if end := closingBracket(trimmed); end > 0 {
			return bracketUnescaper.Replace(trimmed[1:end]), trimmed[end+1:], true
		}
	}

	if idx := strings.IndexAny(trimmed, " \t"); idx != -1 {
		return trimmed[:idx], trimmed[idx:], false
	}
	return trimmed, "", false
}

// closingBracket returns the index of the first unescaped '>' in s, or -1.
func closingBracket(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '>':
			return i
		}
	}
	return -1
}

// codeRanges returns the byte ranges of fenced code blocks and inline code
// spans in text, in ascending order.
func codeRanges(text string) [][2]int {
	var ranges [][2]int
	var fence string
	fenceStart, proseStart := 0, 0

	pos := 0
	for pos < len(text) {
		lineEnd := strings.IndexByte(text[pos:], '\n')
		if lineEnd == -1 {
			lineEnd = len(text)
		} else {
			lineEnd += pos + 1
		}
		line := text[pos:lineEnd]

		if fence != "" {
			if closesFence(line, fence) {
				ranges = append(ranges, [2]int{fenceStart, lineEnd})
				fence = ""
				proseStart = lineEnd
			}
		} else if f := openingFence(line); f != "" {
			ranges = append(ranges, codeSpans(text, proseStart, pos)...)
			fence, fenceStart = f, pos
		}
		pos = lineEnd
	}

	if fence != "" {
		// An unclosed fence runs to the end of the document.
		return append(ranges, [2]int{fenceStart, len(text)})
	}
	return append(ranges, codeSpans(text, proseStart, len(text))...)
}

// codeSpans finds backtick code spans in text[from:to]. A run of n backticks
// opens a span closed by the next run of exactly n backticks.
func codeSpans(text string, from, to int) [][2]int {
	var spans [][2]int
	for i := from; i < to; {
		if text[i] != '`' {
			i++
			continue
		}
		n := backtickRun(text, i, to)
		closing := -1
		for j := i + n; j < to; {
			if text[j] != '`' {
				j++
				continue
			}
			m := backtickRun(text, j, to)
			if m == n {
				closing = j
				break
			}
			j += m
		}
		if closing == -1 {
			i += n
			continue
		}
		spans = append(spans, [2]int{i, closing + n})
		i = closing + n
	}
	return spans
}

func backtickRun(text string, i, to int) int {
	n := 0
	for i+n < to && text[i+n] == '`' {
		n++
	}
	return n
}

// openingFence returns the fence marker (``` or ~~~, possibly longer) that
// line opens, or "" when line is not a fence.
func openingFence(line string) string {
	trimmed, ok := trimIndent(line)
	if !ok || len(trimmed) < 3 || (trimmed[0] != '`' && trimmed[0] != '~') {
		return ""
	}
	c := trimmed[0]
	n := 0
	for n < len(trimmed) && trimmed[n] == c {
		n++
	}
	if n < 3 {
		return ""
	}
	if c == '`' && strings.ContainsRune(trimmed[n:], '`') {
		return ""
	}
	return trimmed[:n]
}

func closesFence(line, fence string) bool {
	trimmed, ok := trimIndent(line)
	if !ok {
		return false
	}
	c := fence[0]
	n := 0
	for n < len(trimmed) && trimmed[n] == c {
		n++
	}
	return n >= len(fence) && strings.TrimSpace(trimmed[n:]) == ""
}

// trimIndent strips up to three leading spaces. More makes an indented line.
func trimIndent(line string) (string, bool) {
	for i := 0; i < 4 && i < len(line); i++ {
		if line[i] != ' ' {
			return line[i:], true
		}
	}
	if strings.HasPrefix(line, "    ") {
		return "", false
	}
	return strings.TrimLeft(line, " "), true
}

func insideRanges(ranges [][2]int, pos int) bool {
	for _, r := range ranges {
		if pos < r[0] {
			return false
		}
		if pos < r[1] {
			return true
		}
	}
	return false
}

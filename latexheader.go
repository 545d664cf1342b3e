package mdfusion

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"github.com/alnah/go-mdfusion/internal/assets"
)

// User header markers, kept so the composed file stays readable.
const (
	userHeaderBegin = "% --- begin user header.tex ---"
	userHeaderEnd   = "% --- end user header.tex ---"
)

// lengthPattern matches a TeX/CSS length with one of the units both accept.
var lengthPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)(in|cm|mm|pt)$`)

// pointsPerUnit converts supported units to points.
var pointsPerUnit = map[string]float64{
	"in": 72,
	"cm": 72 / 2.54,
	"mm": 72 / 25.4,
	"pt": 1,
}

// latexHeaderData fills the built-in LaTeX header template.
type latexHeaderData struct {
	Margin         string
	CenterHeadings bool
	HeadingSize    int
	HeadingLeading int
}

// parseLength returns the value of a length such as "1in" in inches.
func parseLength(s string) (float64, error) {
	m := lengthPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("%w: %q (want a number with in, cm, mm or pt)", ErrInvalidMargin, s)
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidMargin, s, err)
	}
	return v * pointsPerUnit[m[2]] / pointsPerUnit["in"], nil
}

// buildLaTeXHeader renders the built-in header for style and appends the
// user header file, when given, between marker comments.
func buildLaTeXHeader(loader assets.AssetLoader, style Style, userHeader string) (string, error) {
	margin := style.margin()
	if _, err := parseLength(margin); err != nil {
		return "", err
	}

	src, err := loader.Load(assets.KindLaTeX, assets.LaTeXHeaderName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLaTeXHeader, err)
	}
	tmpl, err := template.New("header").Delims("<<", ">>").Parse(src)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLaTeXHeader, err)
	}

	size := style.headingSize()
	var b strings.Builder
	err = tmpl.Execute(&b, latexHeaderData{
		Margin:         margin,
		CenterHeadings: style.centered(),
		HeadingSize:    size,
		HeadingLeading: size + 2,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLaTeXHeader, err)
	}

	if userHeader != "" {
		content, err := os.ReadFile(userHeader) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: reading %s: %w", ErrLaTeXHeader, userHeader, err)
		}
		b.WriteString("\n" + userHeaderBegin + "\n")
		b.Write(content)
		b.WriteString("\n" + userHeaderEnd + "\n")
	}
	return b.String(), nil
}

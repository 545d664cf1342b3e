// Package dateutil resolves the document date: literal values pass through,
// "auto" values become today's date in a chosen layout.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// Auto requests the current date in DefaultDateFormat.
const Auto = "auto"

// autoPrefix introduces a custom format: "auto:DD/MM/YYYY".
const autoPrefix = Auto + ":"

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// DefaultDateFormat is used for a bare "auto".
const DefaultDateFormat = "YYYY-MM-DD"

// dateTokens maps format tokens to Go layout elements.
// Longer tokens come first so "MMMM" is not read as two "MM".
var dateTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"dddd", "Monday"},
	{"MMM", "Jan"},
	{"ddd", "Mon"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// ParseDateFormat converts a format string to a Go time layout.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, dddd, ddd.
// Text in brackets is literal: "[Week of] MMM D".
// Other characters are copied as is.
func ParseDateFormat(format string) (string, error) {
	switch {
	case format == "":
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	case len(format) > MaxDateFormatLength:
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var layout strings.Builder
	rest := format
	for rest != "" {
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, len(format)-len(rest))
			}
			layout.WriteString(rest[1:end])
			rest = rest[end+1:]
			continue
		}

		n := writeToken(&layout, rest)
		if n == 0 {
			layout.WriteByte(rest[0])
			n = 1
		}
		rest = rest[n:]
	}
	return layout.String(), nil
}

// writeToken writes the layout of the token at the start of s and returns
// its length, or 0 if s does not start with a token.
func writeToken(b *strings.Builder, s string) int {
	for _, t := range dateTokens {
		if strings.HasPrefix(s, t.token) {
			b.WriteString(t.layout)
			return len(t.token)
		}
	}
	return 0
}

// IsAuto reports whether value asks for the current date.
func IsAuto(value string) bool {
	lower := strings.ToLower(value)
	return lower == Auto || strings.HasPrefix(lower, autoPrefix)
}

// ResolveDate resolves a date setting at time now:
//   - "auto": now as YYYY-MM-DD
//   - "auto:FORMAT": now in a custom format ("auto:DD/MM/YYYY")
//   - "auto:PRESET": now in a named preset (iso, european, us, long)
//   - anything else: returned unchanged
func ResolveDate(value string, now time.Time) (string, error) {
	lower := strings.ToLower(value)

	switch {
	case lower == Auto:
		return format(now, DefaultDateFormat)
	case strings.HasPrefix(lower, autoPrefix):
		// Tokens are case-sensitive, so slice the original value.
		pattern := value[len(autoPrefix):]
		if pattern == "" {
			return "", fmt.Errorf("%w: format cannot be empty after %q", ErrInvalidDateFormat, autoPrefix)
		}
		if preset, ok := DatePresets[strings.ToLower(pattern)]; ok {
			pattern = preset
		}
		return format(now, pattern)
	case strings.HasPrefix(lower, Auto) && len(lower) > len(Auto) && isLetterOrDigit(lower[len(Auto)]):
		// "automatic", "auto2" are literal text.
		return value, nil
	case strings.HasPrefix(lower, Auto):
		return "", fmt.Errorf("%w: invalid auto syntax %q, use %q or %q", ErrInvalidDateFormat, value, Auto, autoPrefix+"FORMAT")
	}
	return value, nil
}

func format(now time.Time, pattern string) (string, error) {
	layout, err := ParseDateFormat(pattern)
	if err != nil {
		return "", err
	}
	return now.Format(layout), nil
}

func isLetterOrDigit(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

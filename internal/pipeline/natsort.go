package pipeline

import (
	"strings"
)

// keyPart is one run of a SortKey: either a digit run or a text run.
type keyPart struct {
	value string // lower-cased text, or digits with leading zeros stripped
	isNum bool
}

// SortKey is the natural ordering key of a string.
// It alternates text and digit runs, always starting with a (possibly empty)
// text run, so two keys can be compared run by run.
type SortKey []keyPart

// NewSortKey splits s into alternating text and digit runs.
// Digit runs compare by numeric value, text runs case-insensitively.
func NewSortKey(s string) SortKey {
	key := make(SortKey, 0, 4)
	var run strings.Builder
	inDigits := false

	flush := func() {
		if inDigits {
			digits := strings.TrimLeft(run.String(), "0")
			key = append(key, keyPart{value: digits, isNum: true})
		} else {
			key = append(key, keyPart{value: strings.ToLower(run.String())})
		}
		run.Reset()
	}

	for i := 0; i < len(s); i++ {
		isDigit := s[i] >= '0' && s[i] <= '9'
		if isDigit != inDigits {
			flush()
			inDigits = isDigit
		}
		run.WriteByte(s[i])
	}
	flush()

	return key
}

// Compare returns -1, 0 or +1 comparing k to other.
// A key that is a strict prefix of the other sorts first.
func (k SortKey) Compare(other SortKey) int {
	for i := 0; i < len(k) && i < len(other); i++ {
		if c := comparePart(k[i], other[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(k) < len(other):
		return -1
	case len(k) > len(other):
		return 1
	}
	return 0
}

// comparePart compares two runs at the same position.
// Positions always hold the same kind of run, so mixed kinds never occur
// for keys built by NewSortKey.
func comparePart(a, b keyPart) int {
	if a.isNum && b.isNum {
		// Arbitrary length: shorter digit string (without leading zeros) is smaller.
		if len(a.value) != len(b.value) {
			if len(a.value) < len(b.value) {
				return -1
			}
			return 1
		}
	}
	return strings.Compare(a.value, b.value)
}

// NaturalLess reports whether a sorts before b in natural order.
// Strings with equal keys ("f01" and "f1") are ordered by their raw bytes,
// which keeps the ordering total.
func NaturalLess(a, b string) bool {
	if c := NewSortKey(a).Compare(NewSortKey(b)); c != 0 {
		return c < 0
	}
	return a < b
}

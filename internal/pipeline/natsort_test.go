package pipeline

import (
	"sort"
	"testing"
)

// ---------------------------------------------------------------------------
// TestNaturalLess - Digit runs compare by value
// ---------------------------------------------------------------------------

func TestNaturalLess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "numeric not lexicographic", a: "f2.md", b: "f10.md", want: true},
		{name: "reverse numeric", a: "f10.md", b: "f2.md", want: false},
		{name: "case insensitive text", a: "Alpha.md", b: "beta.md", want: true},
		{name: "leading zeros equal value broken by raw", a: "f01.md", b: "f1.md", want: true},
		{name: "leading zeros reverse", a: "f1.md", b: "f01.md", want: false},
		{name: "prefix sorts first", a: "ch", b: "ch1", want: true},
		{name: "nested dirs", a: "part2/a.md", b: "part10/a.md", want: true},
		{name: "digits longer than int64", a: "v99999999999999999999.md", b: "v100000000000000000000.md", want: true},
		{name: "identical", a: "a.md", b: "a.md", want: false},
		{name: "digits before letters at start", a: "1-intro.md", b: "intro.md", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NaturalLess(tt.a, tt.b); got != tt.want {
				t.Errorf("NaturalLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNaturalLess_SortsSlice(t *testing.T) {
	t.Parallel()

	got := []string{"ch10.md", "ch2.md", "Ch1.md", "appendix.md", "ch2/b.md", "ch2/a.md"}
	sort.Slice(got, func(i, j int) bool { return NaturalLess(got[i], got[j]) })

	want := []string{"appendix.md", "Ch1.md", "ch2.md", "ch2/a.md", "ch2/b.md", "ch10.md"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestSortKey_Compare - Key structure and comparison
// ---------------------------------------------------------------------------

func TestSortKey_Compare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "equal", a: "a1", b: "A1", want: 0},
		{name: "zero padded equal", a: "a007", b: "a7", want: 0},
		{name: "smaller number", a: "a7", b: "a8", want: -1},
		{name: "larger number", a: "a80", b: "a8", want: 1},
		{name: "shorter key", a: "a", b: "a1", want: -1},
		{name: "empty strings", a: "", b: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := NewSortKey(tt.a).Compare(NewSortKey(tt.b))
			if got != tt.want {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNewSortKey_StartsWithText(t *testing.T) {
	t.Parallel()

	key := NewSortKey("10abc")
	if len(key) != 3 {
		t.Fatalf("len(key) = %d, want 3", len(key))
	}
	if key[0].isNum || key[0].value != "" {
		t.Errorf("key[0] = %+v, want empty text run", key[0])
	}
	if !key[1].isNum || key[1].value != "10" {
		t.Errorf("key[1] = %+v, want number 10", key[1])
	}
}

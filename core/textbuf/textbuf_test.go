package textbuf

import (
	"testing"

	"github.com/dlclark/regexp2"

	"github.com/FocuswithJustin/ProseMark/core/errors"
)

var word = regexp2.MustCompile(`\w+`, regexp2.None)

// TestRegionPredicates verifies the Region helper methods.
func TestRegionPredicates(t *testing.T) {
	tests := []struct {
		name       string
		r          Region
		isNone     bool
		empty      bool
		length     int
	}{
		{"none sentinel", None, true, true, 0},
		{"empty at origin", Region{0, 0}, false, true, 0},
		{"empty mid-buffer", Region{5, 5}, false, true, 0},
		{"normal", Region{2, 7}, false, false, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.IsNone(); got != tt.isNone {
				t.Errorf("IsNone() = %v, want %v", got, tt.isNone)
			}
			if got := tt.r.Empty(); got != tt.empty {
				t.Errorf("Empty() = %v, want %v", got, tt.empty)
			}
			if got := tt.r.Len(); got != tt.length {
				t.Errorf("Len() = %d, want %d", got, tt.length)
			}
		})
	}
}

// TestRegionIntersects verifies overlap detection, including the sentinel
// and touching-but-disjoint cases the exclusion sets rely on.
func TestRegionIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Region
		want bool
	}{
		{"overlapping", Region{0, 5}, Region{3, 8}, true},
		{"contained", Region{0, 10}, Region{3, 5}, true},
		{"adjacent", Region{0, 5}, Region{5, 8}, false},
		{"disjoint", Region{0, 3}, Region{7, 9}, false},
		{"none never intersects", None, Region{0, 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Intersects(tt.a); got != tt.want {
				t.Errorf("Intersects() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestBufferRuneOffsets verifies that positions count runes, not bytes,
// so multi-byte punctuation does not skew offsets.
func TestBufferRuneOffsets(t *testing.T) {
	b := New("a…b“c”")
	if got := b.Len(); got != 6 {
		t.Fatalf("Len() = %d, want 6", got)
	}
	if got := b.At(1); got != '…' {
		t.Errorf("At(1) = %q, want %q", got, '…')
	}
	if got := b.Substring(Region{2, 4}); got != "b“" {
		t.Errorf("Substring = %q, want %q", got, "b“")
	}
}

// TestBufferFind verifies position-indexed search.
func TestBufferFind(t *testing.T) {
	b := New("one two three")

	tests := []struct {
		name string
		from int
		want Region
	}{
		{"from start", 0, Region{0, 3}},
		{"mid first word", 1, Region{1, 3}},
		{"from second word", 4, Region{4, 7}},
		{"past last word", 13, None},
		{"beyond buffer", 99, None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Find(word, tt.from); got != tt.want {
				t.Errorf("Find() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestBufferFindAll verifies document-order enumeration of matches.
func TestBufferFindAll(t *testing.T) {
	b := New("one two three")
	got := b.FindAll(word, 0)
	want := []Region{{0, 3}, {4, 7}, {8, 13}}
	if len(got) != len(want) {
		t.Fatalf("FindAll() returned %d matches, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("match %d = %v, want %v", i, got[i], want[i])
		}
	}
}

// TestBufferReplace verifies the splice, the position shift, and the
// version bump.
func TestBufferReplace(t *testing.T) {
	b := New("abcdef")
	if b.Version() != 0 {
		t.Fatalf("fresh buffer version = %d, want 0", b.Version())
	}

	if err := b.Replace(Region{2, 4}, "XYZ"); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if got := b.String(); got != "abXYZef" {
		t.Errorf("String() = %q, want %q", got, "abXYZef")
	}
	if b.Version() != 1 {
		t.Errorf("version = %d, want 1", b.Version())
	}
}

// TestBufferReplaceBounds verifies rejection of regions that do not fit
// the buffer.
func TestBufferReplaceBounds(t *testing.T) {
	tests := []struct {
		name string
		r    Region
	}{
		{"sentinel", None},
		{"past end", Region{0, 99}},
		{"inverted", Region{4, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("abcdef")
			err := b.Replace(tt.r, "x")
			if !errors.Is(err, errors.ErrInvalidRegion) {
				t.Errorf("Replace() error = %v, want ErrInvalidRegion", err)
			}
			if b.String() != "abcdef" {
				t.Errorf("buffer mutated on failed replace: %q", b.String())
			}
			if b.Version() != 0 {
				t.Errorf("version bumped on failed replace: %d", b.Version())
			}
		})
	}
}

// TestBufferReplaceAt verifies that stale regions are rejected instead of
// being applied to a document that shifted under them.
func TestBufferReplaceAt(t *testing.T) {
	b := New("abcdef")
	stamp := b.Version()

	if err := b.Replace(Region{0, 1}, "A"); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	err := b.ReplaceAt(stamp, Region{2, 4}, "x")
	if !errors.Is(err, errors.ErrStaleRegion) {
		t.Fatalf("ReplaceAt() error = %v, want ErrStaleRegion", err)
	}
	if b.String() != "Abcdef" {
		t.Errorf("buffer mutated by stale replace: %q", b.String())
	}

	if err := b.ReplaceAt(b.Version(), Region{2, 4}, "x"); err != nil {
		t.Errorf("ReplaceAt() with current version failed: %v", err)
	}
	if got := b.String(); got != "Abxef" {
		t.Errorf("String() = %q, want %q", got, "Abxef")
	}
}

// Package textbuf provides the versioned, position-indexed text buffer the
// boundary scanner and tag balancer operate on.
//
// Positions and regions are rune offsets, not byte offsets: the prose this
// system edits contains multi-byte punctuation (ellipses, curly quotes) and
// the regexp2 engine reports match indexes in runes. Every mutation bumps
// the buffer version; callers holding regions from before a mutation must
// re-resolve them (see ReplaceAt).
package textbuf

import (
	"fmt"

	"github.com/dlclark/regexp2"

	"github.com/FocuswithJustin/ProseMark/core/errors"
)

// Region is a half-open [Begin, End) rune range within a buffer.
type Region struct {
	Begin int
	End   int
}

// None is the sentinel region meaning "no match".
var None = Region{Begin: -1, End: -1}

// IsNone reports whether r is the no-match sentinel.
func (r Region) IsNone() bool {
	return r.Begin < 0
}

// Empty reports whether r covers no characters.
func (r Region) Empty() bool {
	return r.Begin >= r.End
}

// Len returns the number of runes covered by r.
func (r Region) Len() int {
	if r.Empty() {
		return 0
	}
	return r.End - r.Begin
}

// Contains reports whether pos lies inside r.
func (r Region) Contains(pos int) bool {
	return pos >= r.Begin && pos < r.End
}

// Intersects reports whether r and o share at least one position.
func (r Region) Intersects(o Region) bool {
	if r.IsNone() || o.IsNone() {
		return false
	}
	return r.Begin < o.End && o.Begin < r.End
}

func (r Region) String() string {
	return fmt.Sprintf("[%d,%d)", r.Begin, r.End)
}

// Buffer is a mutable document snapshot with a version stamp.
//
// The buffer is the single shared resource of the whole system; it assumes
// exclusive access by one caller at a time. Each Replace is one atomic
// splice, so no operation ever observes a partially mutated document.
type Buffer struct {
	runes   []rune
	version uint64
}

// New creates a buffer holding text.
func New(text string) *Buffer {
	return &Buffer{runes: []rune(text)}
}

// Len returns the document length in runes.
func (b *Buffer) Len() int {
	return len(b.runes)
}

// Version returns the current version stamp. It increases by one on every
// successful Replace.
func (b *Buffer) Version() uint64 {
	return b.version
}

// String returns the full document text.
func (b *Buffer) String() string {
	return string(b.runes)
}

// At returns the rune at pos, or 0 when pos is out of range.
func (b *Buffer) At(pos int) rune {
	if pos < 0 || pos >= len(b.runes) {
		return 0
	}
	return b.runes[pos]
}

// Substring returns the text inside r, clamped to the buffer bounds.
// Sentinel and empty regions yield "".
func (b *Buffer) Substring(r Region) string {
	if r.IsNone() || r.Begin >= len(b.runes) {
		return ""
	}
	end := r.End
	if end > len(b.runes) {
		end = len(b.runes)
	}
	if r.Begin >= end {
		return ""
	}
	return string(b.runes[r.Begin:end])
}

// Find returns the leftmost match of re beginning at or after from, or
// None when no match remains before the end of the document.
func (b *Buffer) Find(re *regexp2.Regexp, from int) Region {
	if from < 0 {
		from = 0
	}
	if from > len(b.runes) {
		return None
	}
	m, err := re.FindRunesMatchStartingAt(b.runes, from)
	if err != nil || m == nil {
		return None
	}
	return Region{Begin: m.Index, End: m.Index + m.Length}
}

// FindAll returns every non-overlapping match of re at or after from, in
// document order.
func (b *Buffer) FindAll(re *regexp2.Regexp, from int) []Region {
	var out []Region
	for {
		r := b.Find(re, from)
		if r.IsNone() {
			return out
		}
		out = append(out, r)
		if r.Empty() {
			from = r.End + 1 // zero-width match, force progress
		} else {
			from = r.End
		}
	}
}

// Replace swaps the text inside r for repl and bumps the version. All
// positions at or beyond r.End shift by len(repl) - r.Len().
func (b *Buffer) Replace(r Region, repl string) error {
	if r.IsNone() || r.Begin > r.End || r.End > len(b.runes) {
		return &errors.RegionBoundsError{Begin: r.Begin, End: r.End, Len: len(b.runes)}
	}
	ins := []rune(repl)
	out := make([]rune, 0, len(b.runes)-r.Len()+len(ins))
	out = append(out, b.runes[:r.Begin]...)
	out = append(out, ins...)
	out = append(out, b.runes[r.End:]...)
	b.runes = out
	b.version++
	return nil
}

// ReplaceAt is Replace with a staleness check: version must be the buffer
// version r was computed against. A mismatch means some edit landed in
// between and r no longer points where the caller thinks it does.
func (b *Buffer) ReplaceAt(version uint64, r Region, repl string) error {
	if version != b.version {
		return &errors.StaleRegionError{Have: version, Want: b.version}
	}
	return b.Replace(r, repl)
}

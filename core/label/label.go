// Package label wraps sentence regions in identified span markers and
// renumbers marker ids in document order.
//
// A freshly created marker always carries the placeholder id s00000; ids
// only become unique and ordered after RenumberAll, which is the sole
// source of identifier order in the system.
package label

import (
	"fmt"
	"log/slog"

	"github.com/dlclark/regexp2"

	"github.com/FocuswithJustin/ProseMark/core/errors"
	"github.com/FocuswithJustin/ProseMark/core/locate"
	"github.com/FocuswithJustin/ProseMark/core/textbuf"
)

// Placeholder is the id every marker carries at creation time.
const Placeholder = "s00000"

// markerIDDigits is the fixed width of a marker sequence number.
const markerIDDigits = 5

var (
	markerOpenText = `<span id="` + Placeholder + `">`

	// markerOpen matches any marker opening tag, placeholder or numbered.
	markerOpen = regexp2.MustCompile(`<span id="s\d{5}">`, regexp2.None)
	// markerClose matches a marker closing tag.
	markerClose = regexp2.MustCompile(`</span>`, regexp2.None)
	// markerID matches the digits of a marker id, for renumbering.
	markerID = regexp2.MustCompile(`(?<="s)\d{5}`, regexp2.None)
	// forbidden matches tags that cannot legally nest inside a marker:
	// wrapping across a paragraph, division, or line break would produce
	// invalid structure.
	forbidden = regexp2.MustCompile(`</?(?:p|div|br)\b[^>]*>`, regexp2.None)
)

// Labeler wraps regions of a buffer in marker spans.
type Labeler struct {
	buf *textbuf.Buffer
	log *slog.Logger
}

// NewLabeler creates a labeler over buf. A nil logger falls back to the
// default.
func NewLabeler(buf *textbuf.Buffer, logger *slog.Logger) *Labeler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Labeler{buf: buf, log: logger}
}

// Label wraps s in a marker span carrying the placeholder id. It refuses
// empty regions, regions that are already labeled, regions containing tags
// that cannot nest inside a span, and sentences located before an
// intervening edit. On refusal the document is left untouched; on success
// exactly one atomic replace is performed and every position after
// s.Begin is invalidated.
func (l *Labeler) Label(s locate.Sentence) error {
	if err := l.check(s.Region); err != nil {
		return err
	}
	text := l.buf.Substring(s.Region)
	if err := l.buf.ReplaceAt(s.Version, s.Region, markerOpenText+text+"</span>"); err != nil {
		return err
	}
	l.log.Debug("sentence labeled", "begin", s.Begin, "end", s.End)
	return nil
}

// LabelRegion wraps an arbitrary region as it stands right now, stamping
// it with the current buffer version.
func (l *Labeler) LabelRegion(r textbuf.Region) error {
	return l.Label(locate.Sentence{Region: r, Version: l.buf.Version()})
}

// check validates that r may legally be wrapped.
func (l *Labeler) check(r textbuf.Region) error {
	if r.IsNone() || r.Empty() {
		return errors.Wrapf(errors.ErrEmptyRegion, "label %s", r)
	}
	if m := l.buf.Find(markerOpen, r.Begin); !m.IsNone() && m.End <= r.End {
		return errors.NewConflict("region already contains a marker", r.Begin, r.End)
	}
	if l.insideMarker(r) {
		return errors.NewConflict("region is already wrapped by a marker", r.Begin, r.End)
	}
	if m := l.buf.Find(forbidden, r.Begin); !m.IsNone() && m.End <= r.End {
		return errors.NewConflict(
			fmt.Sprintf("region crosses %s", l.buf.Substring(m)), r.Begin, r.End)
	}
	return nil
}

// insideMarker reports whether r is immediately preceded by a marker open
// tag whose span also contains r, meaning r is the already-labeled text of
// an existing marker.
func (l *Labeler) insideMarker(r textbuf.Region) bool {
	openLen := len(markerOpenText)
	if r.Begin < openLen {
		return false
	}
	open := l.buf.Find(markerOpen, r.Begin-openLen)
	if open.IsNone() || open.End != r.Begin {
		return false
	}
	closing := l.buf.Find(markerClose, r.End)
	return !closing.IsNone()
}

// Renumberer reassigns marker ids sequentially in document order.
type Renumberer struct {
	buf *textbuf.Buffer
	log *slog.Logger
}

// NewRenumberer creates a renumberer over buf. A nil logger falls back to
// the default.
func NewRenumberer(buf *textbuf.Buffer, logger *slog.Logger) *Renumberer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renumberer{buf: buf, log: logger}
}

// RenumberAll rewrites every marker id in the document to its 1-based
// document-order sequence number, zero-padded to five digits, and returns
// how many markers were renumbered. It is a no-op when no markers exist
// and idempotent when they are already sequential.
//
// The counter is not cached anywhere: each call rescans the whole document,
// so ids are never stale with respect to edits made in between.
func (r *Renumberer) RenumberAll() (int, error) {
	ids := r.buf.FindAll(markerID, 0)
	for i, id := range ids {
		seq := i + 1
		if seq >= pow10(markerIDDigits) {
			// A sixth digit would change marker length and shift every
			// position after it.
			return i, errors.NewConflict("marker id space exhausted", id.Begin, id.End)
		}
		if err := r.buf.Replace(id, fmt.Sprintf("%0*d", markerIDDigits, seq)); err != nil {
			return i, errors.Wrapf(err, "renumbering marker %d", seq)
		}
	}
	if len(ids) > 0 {
		r.log.Info("markers renumbered", "count", len(ids))
	}
	return len(ids), nil
}

func pow10(n int) int {
	out := 1
	for i := 0; i < n; i++ {
		out *= 10
	}
	return out
}

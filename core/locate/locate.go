// Package locate composes boundary classification and tag balancing into
// whole-sentence lookup: from a point or a previous sentence, it returns
// the next structurally valid sentence region.
package locate

import (
	"log/slog"
	"unicode"

	"github.com/dlclark/regexp2"

	"github.com/FocuswithJustin/ProseMark/core/balance"
	"github.com/FocuswithJustin/ProseMark/core/boundary"
	"github.com/FocuswithJustin/ProseMark/core/errors"
	"github.com/FocuswithJustin/ProseMark/core/textbuf"
)

// interveningSnippetMax caps how much unexpected text an error reports.
const interveningSnippetMax = 40

var (
	// firstWord finds the first capital or digit of the sentence, used by
	// the single-letter abbreviation correction.
	firstWord = regexp2.MustCompile(`[A-Z0-9]`, regexp2.None)
	// trailingClose matches a run of closing quotes and parentheses
	// sitting just past the terminal punctuation.
	trailingClose = regexp2.MustCompile(`[”’"')]+`, regexp2.None)
)

// Sentence is a located sentence region stamped with the buffer version it
// was computed against. The stamp lets the labeler reject it after any
// intervening edit.
type Sentence struct {
	textbuf.Region
	Version uint64
}

// Locator finds complete, tag-balanced sentences in a buffer.
type Locator struct {
	buf *textbuf.Buffer
	cls *boundary.Classifier
	bal *balance.Balancer
	log *slog.Logger
}

// New creates a locator over buf. A nil logger falls back to the default.
func New(buf *textbuf.Buffer, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{
		buf: buf,
		cls: boundary.New(buf),
		bal: balance.New(buf, logger),
		log: logger,
	}
}

// NextFromPoint returns the first complete sentence beginning at or after
// point. The returned region is tag-balanced and includes any closing
// quote or parenthesis run trailing the terminal punctuation. A NotFound
// error means the end of the document was reached.
func (l *Locator) NextFromPoint(point int) (Sentence, error) {
	start := l.cls.NextStart(point)
	if start < 0 {
		return none(), errors.Wrap(errors.ErrNotFound, "no sentence start after point")
	}
	return l.resolve(start)
}

// NextFromRegion returns the sentence following r. It fails with an
// InterveningTextError when non-space, non-markup text sits between r.End
// and the resolved sentence start: skipping such prose silently would
// leave it unlabeled between two labeled sentences.
func (l *Locator) NextFromRegion(r textbuf.Region) (Sentence, error) {
	start := l.cls.NextStart(r.End)
	if start < 0 {
		return none(), errors.Wrap(errors.ErrNotFound, "no sentence start after region")
	}
	if text := l.interveningText(r.End, start); text != "" {
		return none(), errors.NewInterveningText(r.End, start, text)
	}
	return l.resolve(start)
}

// resolve turns a sentence start into a full validated sentence.
func (l *Locator) resolve(start int) (Sentence, error) {
	end := l.cls.EndAfter(start)
	if end < 0 {
		return none(), errors.Wrap(errors.ErrNotFound, "no sentence end after start")
	}

	// An end two characters past the first capital is a single-letter
	// abbreviation ("A. First example"), not a real ending.
	if first := l.buf.Find(firstWord, start); !first.IsNone() && end-first.Begin == 2 {
		end = l.cls.EndAfter(end)
		if end < 0 {
			return none(), errors.Wrap(errors.ErrNotFound, "no sentence end past abbreviation")
		}
	}

	// Absorbing a trailing quote can expose new tags to balance and
	// balancing can expose new trailing quotes, so run both to a fixed
	// point. Expansion is monotonic, so this terminates.
	region := textbuf.Region{Begin: start, End: end}
	for {
		expanded, unbalanced := l.bal.Expand(region)
		for _, u := range unbalanced {
			l.log.Warn("sentence region has unpaired tag", "tag", u.Name, "pos", u.Pos, "closing", u.Closing)
		}
		expanded = l.absorbTrailing(expanded)
		if expanded == region {
			break
		}
		region = expanded
	}

	l.log.Debug("sentence located", "begin", region.Begin, "end", region.End)
	return Sentence{Region: region, Version: l.buf.Version()}, nil
}

// absorbTrailing extends the region end over a run of closing quotes and
// parentheses immediately after it. Such punctuation conventionally
// belongs to the sentence even though it sits outside the raw match.
func (l *Locator) absorbTrailing(r textbuf.Region) textbuf.Region {
	m := l.buf.Find(trailingClose, r.End)
	if !m.IsNone() && m.Begin == r.End {
		r.End = m.End
	}
	return r
}

// interveningText returns the first stretch of non-space, non-markup text
// between from and to, or "" when the gap is clean. Tags do not count:
// paragraph breaks between sentences are structure, not prose.
func (l *Locator) interveningText(from, to int) string {
	i := from
	for i < to && i < l.buf.Len() {
		r := l.buf.At(i)
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '<':
			for i < to && l.buf.At(i) != '>' {
				i++
			}
			i++
		default:
			end := i
			for end < to && end-i < interveningSnippetMax &&
				!unicode.IsSpace(l.buf.At(end)) && l.buf.At(end) != '<' {
				end++
			}
			return l.buf.Substring(textbuf.Region{Begin: i, End: end})
		}
	}
	return ""
}

func none() Sentence {
	return Sentence{Region: textbuf.None}
}

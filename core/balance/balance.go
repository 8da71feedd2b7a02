// Package balance expands a text region until the XML tags inside it pair
// up: every tag opened strictly inside the region closes strictly inside
// it, and vice versa.
//
// There is no parse tree. Tags are lexical occurrences matched by name
// only, and nesting of same-named tags is resolved by an exclusion search:
// each pairing claims the span it covers, and later searches skip claimed
// spans, so closing tags bind innermost first.
package balance

import (
	"log/slog"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/FocuswithJustin/ProseMark/core/errors"
	"github.com/FocuswithJustin/ProseMark/core/textbuf"
)

// backwardWindow is how many runes each backward search step covers when
// looking for an opening tag before a closing tag.
const backwardWindow = 100

var (
	// openingTag matches one opening tag, e.g. <p> or <span id="s00001">.
	openingTag = regexp2.MustCompile(`<(?!/)[^>]+>`, regexp2.None)
	// closingTag matches one closing tag, e.g. </p>.
	closingTag = regexp2.MustCompile(`</[^>]+>`, regexp2.None)
	// tagName extracts the name from either kind of tag.
	tagName = regexp2.MustCompile(`\w+`, regexp2.None)
)

// Balancer expands regions over a text buffer. It never mutates the buffer.
type Balancer struct {
	buf   *textbuf.Buffer
	log   *slog.Logger
	named map[string]*namedPatterns
}

type namedPatterns struct {
	open  *regexp2.Regexp
	close *regexp2.Regexp
}

// New creates a balancer over buf. A nil logger falls back to the default.
func New(buf *textbuf.Buffer, logger *slog.Logger) *Balancer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Balancer{buf: buf, log: logger, named: make(map[string]*namedPatterns)}
}

// Expand grows r until tag nesting is self-consistent and returns the
// result together with any tags that could not be paired before a document
// boundary. The output always contains the input; unpairable tags are
// reported and skipped rather than aborting the pass.
//
// Extending forward to close a tag can pull in new opening tags whose own
// closers lie further out, so the two passes repeat until a fixed point.
// Each iteration strictly enlarges the region, so termination is bounded
// by the document length.
func (b *Balancer) Expand(r textbuf.Region) (textbuf.Region, []errors.UnbalancedTagError) {
	var unbalanced []errors.UnbalancedTagError
	for {
		unbalanced = unbalanced[:0]
		grown := b.encloseClosing(r, &unbalanced)
		grown = b.encloseOpening(grown, &unbalanced)
		if grown == r {
			return grown, unbalanced
		}
		r = grown
	}
}

// encloseClosing extends the end of r so that every tag opened inside also
// closes inside. Opening tags are walked in reverse document order so each
// claims the first unclaimed closing tag of its name: with same-named
// nesting, the innermost opening tag claims the nearest close.
func (b *Balancer) encloseClosing(r textbuf.Region, unbalanced *[]errors.UnbalancedTagError) textbuf.Region {
	opens := b.matchesIn(openingTag, r)
	var exclusions []textbuf.Region
	end := r.End
	for i := len(opens) - 1; i >= 0; i-- {
		open := opens[i]
		if b.selfClosing(open) {
			continue
		}
		name := b.nameOf(open)
		if name == "" {
			continue
		}
		closing := b.firstClosingAfter(name, open.End, exclusions)
		if closing.IsNone() {
			*unbalanced = append(*unbalanced, *errors.NewUnbalancedTag(name, open.Begin, false))
			b.log.Warn("no closing tag before end of document", "tag", name, "pos", open.Begin)
			continue
		}
		exclusions = append(exclusions, textbuf.Region{Begin: open.Begin, End: closing.End})
		if closing.End > end {
			end = closing.End
		}
	}
	return textbuf.Region{Begin: r.Begin, End: end}
}

// encloseOpening extends the beginning of r so that every tag closed
// inside also opens inside. Closing tags are walked in forward document
// order; each claims the rightmost unclaimed opening tag of its name found
// by scanning backward toward the document start.
func (b *Balancer) encloseOpening(r textbuf.Region, unbalanced *[]errors.UnbalancedTagError) textbuf.Region {
	closes := b.matchesIn(closingTag, r)
	var exclusions []textbuf.Region
	begin := r.Begin
	for _, closing := range closes {
		name := b.nameOf(closing)
		if name == "" {
			continue
		}
		open := b.lastOpeningBefore(name, closing.Begin, exclusions)
		if open.IsNone() {
			*unbalanced = append(*unbalanced, *errors.NewUnbalancedTag(name, closing.Begin, true))
			b.log.Warn("no opening tag before start of document", "tag", name, "pos", closing.Begin)
			continue
		}
		exclusions = append(exclusions, textbuf.Region{Begin: open.Begin, End: closing.End})
		if open.Begin < begin {
			begin = open.Begin
		}
	}
	return textbuf.Region{Begin: begin, End: r.End}
}

// matchesIn returns the matches of re lying entirely inside r, in document
// order.
func (b *Balancer) matchesIn(re *regexp2.Regexp, r textbuf.Region) []textbuf.Region {
	var out []textbuf.Region
	from := r.Begin
	for {
		m := b.buf.Find(re, from)
		if m.IsNone() || m.End > r.End {
			return out
		}
		out = append(out, m)
		from = m.End
	}
}

// firstClosingAfter returns the first closing tag of name at or after from
// that does not intersect a claimed span.
func (b *Balancer) firstClosingAfter(name string, from int, exclusions []textbuf.Region) textbuf.Region {
	re := b.patterns(name).close
	for {
		m := b.buf.Find(re, from)
		if m.IsNone() || !intersectsAny(m, exclusions) {
			return m
		}
		from = m.End
	}
}

// lastOpeningBefore returns the rightmost opening tag of name beginning
// before end that does not intersect a claimed span. The search walks
// backward in fixed-size windows so that a match close to the closing tag
// is found without rescanning the whole document.
func (b *Balancer) lastOpeningBefore(name string, end int, exclusions []textbuf.Region) textbuf.Region {
	re := b.patterns(name).open
	windowEnd := end
	for {
		windowStart := windowEnd - backwardWindow
		if windowStart < 0 {
			windowStart = 0
		}
		window := textbuf.Region{Begin: windowStart, End: windowEnd}
		if m := b.lastMatchIn(re, window, exclusions); !m.IsNone() {
			return m
		}
		if windowStart == 0 {
			return textbuf.None
		}
		windowEnd = windowStart
	}
}

// lastMatchIn returns the rightmost match of re beginning inside r that
// does not intersect a claimed span, or None.
func (b *Balancer) lastMatchIn(re *regexp2.Regexp, r textbuf.Region, exclusions []textbuf.Region) textbuf.Region {
	var matches []textbuf.Region
	from := r.Begin
	for {
		m := b.buf.Find(re, from)
		if m.IsNone() || m.Begin > r.End {
			break
		}
		matches = append(matches, m)
		from = m.End
	}
	for i := len(matches) - 1; i >= 0; i-- {
		if !intersectsAny(matches[i], exclusions) {
			return matches[i]
		}
	}
	return textbuf.None
}

// nameOf returns the tag name of the tag occupying r.
func (b *Balancer) nameOf(r textbuf.Region) string {
	m := b.buf.Find(tagName, r.Begin)
	if m.IsNone() || m.Begin >= r.End {
		return ""
	}
	return b.buf.Substring(m)
}

// selfClosing reports whether the tag occupying r closes itself (<br/>).
func (b *Balancer) selfClosing(r textbuf.Region) bool {
	return strings.HasSuffix(b.buf.Substring(r), "/>")
}

// patterns returns the cached name-specific tag patterns, compiling them
// on first use.
func (b *Balancer) patterns(name string) *namedPatterns {
	if p, ok := b.named[name]; ok {
		return p
	}
	quoted := regexp2.Escape(name)
	p := &namedPatterns{
		open:  regexp2.MustCompile(`<`+quoted+`\b[^>]*>`, regexp2.None),
		close: regexp2.MustCompile(`</`+quoted+`\s*>`, regexp2.None),
	}
	b.named[name] = p
	return p
}

func intersectsAny(r textbuf.Region, regions []textbuf.Region) bool {
	for _, o := range regions {
		if r.Intersects(o) {
			return true
		}
	}
	return false
}

// Package boundary classifies sentence boundaries in XML-tagged prose.
//
// Punctuation alone does not delimit sentences in literary text:
// abbreviations ("Mr."), spaced initials ("J. K."), trailing ellipses and
// interrupted dialogue all produce false endings, and sentence starts can
// hide inside markup. The classifier resolves these with lookaround
// assertions and a restart loop rather than a grammar.
package boundary

import (
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"

	"github.com/FocuswithJustin/ProseMark/core/textbuf"
)

var (
	// sentenceEnd matches terminal punctuation together with an optional
	// closing quote and closing parenthesis. The lookbehinds keep dots
	// after titles and initials from ending a sentence; the trailing
	// lookaheads reject matches glued to a word and the first dot of
	// spaced initials such as "J. K. Rowling".
	sentenceEnd = regexp2.MustCompile(
		`(?:`+
			`(?:`+
			`(?<!Mr)(?<!Mrs)(?<!Ms)(?<!Dr)(?<!Sr)(?<!Jr)`+
			`(?<![A-Z]\.[A-Z])(?<![A-Z]\.\s[A-Z])`+
			`\.+`+
			`|[?!]+`+
			`|…`+
			`)`+
			`|\s[-—–]`+
			`)[”’"']?\)?`+
			`(?!\w)(?! [A-Z]\.)`,
		regexp2.None)

	// sentenceStart matches the first capital letter or digit that can
	// open a sentence, optionally preceded by an opening quote or
	// parenthesis. Reporting verbs written as a one-word sentence
	// ("Said.", "Asked.") continue dialogue rather than start a sentence.
	sentenceStart = regexp2.MustCompile(`[“‘"(]?[A-Z0-9](?!(?:aid|sked)\.)`, regexp2.None)

	// anyTag matches one complete tag, opening or closing.
	anyTag = regexp2.MustCompile(`<[^>]+>`, regexp2.None)

	// paragraphClose bounds the mid-paragraph dash check.
	paragraphClose = regexp2.MustCompile(`</(?:p|div)\s*>`, regexp2.None)
)

// Classifier locates sentence starts and ends over a text buffer. It never
// mutates the buffer.
type Classifier struct {
	buf *textbuf.Buffer
}

// New creates a classifier over buf.
func New(buf *textbuf.Buffer) *Classifier {
	return &Classifier{buf: buf}
}

// NextStart returns the position where the next sentence begins at or
// after p, or -1 when no candidate exists before the end of the document.
// A sentence can only begin in an XML text region, outside any tag.
func (c *Classifier) NextStart(p int) int {
	if tag := c.enclosingTag(p); !tag.IsNone() {
		p = tag.End
	}
	for p <= c.buf.Len() {
		cand := c.buf.Find(sentenceStart, p)
		if cand.IsNone() {
			return -1
		}
		tag := c.buf.Find(anyTag, p)
		if tag.IsNone() || cand.Begin < tag.Begin {
			// Candidate sits before the next tag, so it is outside markup.
			return cand.Begin
		}
		// Candidate lies inside upcoming markup; resume past the tag.
		p = tag.End
	}
	return -1
}

// EndAfter returns the position just past the punctuation ending the
// sentence whose scan starts at s, or -1 when no ending remains.
func (c *Classifier) EndAfter(s int) int {
	from := s
	for from <= c.buf.Len() {
		m := c.buf.Find(sentenceEnd, from)
		if m.IsNone() {
			return -1
		}
		text := c.buf.Substring(m)
		switch {
		case endsInDash(text):
			// A bare space-dash with prose still to come before the
			// paragraph closes is an interruption, not a sentence end.
			if c.proseBeforeParagraphClose(m.End) {
				from = m.End
				continue
			}
		case softEnding(text):
			// Ellipses, close quotes and bangs only end the sentence when
			// what follows could start a new one.
			if !c.followedBySentenceStart(m.End) {
				from = m.End
				continue
			}
		}
		return m.End
	}
	return -1
}

// enclosingTag returns the tag whose angle brackets surround p, or None.
func (c *Classifier) enclosingTag(p int) textbuf.Region {
	if p <= 0 || p >= c.buf.Len() {
		return textbuf.None
	}
	begin := -1
	for i := p - 1; i >= 0; i-- {
		switch c.buf.At(i) {
		case '>':
			return textbuf.None
		case '<':
			begin = i
		}
		if begin >= 0 {
			break
		}
	}
	if begin < 0 {
		return textbuf.None
	}
	for i := p; i < c.buf.Len(); i++ {
		switch c.buf.At(i) {
		case '<':
			return textbuf.None
		case '>':
			return textbuf.Region{Begin: begin, End: i + 1}
		}
	}
	return textbuf.None
}

// proseBeforeParagraphClose reports whether any non-space, non-markup text
// sits between pos and the next paragraph or division close tag.
func (c *Classifier) proseBeforeParagraphClose(pos int) bool {
	limit := c.buf.Len()
	if pc := c.buf.Find(paragraphClose, pos); !pc.IsNone() {
		limit = pc.Begin
	}
	i := pos
	for i < limit {
		r := c.buf.At(i)
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '<':
			for i < limit && c.buf.At(i) != '>' {
				i++
			}
			i++
		default:
			return true
		}
	}
	return false
}

// followedBySentenceStart reports whether the first non-space, non-markup
// position at or after pos can start a sentence. Closing quotes and
// parentheses are transparent here: they trail the sentence being ended
// and are absorbed by the locator. End of document counts as a valid
// follow-up: the last sentence has nothing after it.
func (c *Classifier) followedBySentenceStart(pos int) bool {
	i := pos
	for i < c.buf.Len() {
		r := c.buf.At(i)
		switch {
		case unicode.IsSpace(r) || isTrailingClose(r):
			i++
		case r == '<':
			for i < c.buf.Len() && c.buf.At(i) != '>' {
				i++
			}
			i++
		default:
			m := c.buf.Find(sentenceStart, i)
			return !m.IsNone() && m.Begin == i
		}
	}
	return true
}

// isTrailingClose reports whether r is a closing quote or parenthesis of
// the kind that trails terminal punctuation.
func isTrailingClose(r rune) bool {
	switch r {
	case '”', '’', '"', '\'', ')':
		return true
	}
	return false
}

// endsInDash reports whether the raw match text ends in a dash. A dash
// already closed by a quote is a dialogue cutoff, not an interruption, and
// is handled as a soft ending instead.
func endsInDash(text string) bool {
	runes := []rune(text)
	if len(runes) == 0 {
		return false
	}
	switch runes[len(runes)-1] {
	case '-', '—', '–':
		return true
	}
	return false
}

// softEnding reports whether the match text ends in an ellipsis, closing
// quote, or bang, all of which need a following sentence start to count.
func softEnding(text string) bool {
	trimmed := strings.TrimRight(text, ")")
	runes := []rune(trimmed)
	if len(runes) == 0 {
		return false
	}
	switch runes[len(runes)-1] {
	case '…', '”', '’', '"', '\'', '!':
		return true
	}
	return false
}

package cpp

// The cursor implements translation phases 1 and 2 over decoded source:
// trigraph replacement, line splicing and universal-character-names.
//
// Translation happens lazily. Every translated character is remembered
// together with the span of source it came from, so the lexer can retreat
// over any number of characters and so raw string bodies can switch to
// reading the untranslated source mid buffer.

import (
	"unicode/utf8"

	"github.com/andrewchambers/cxxpp/source"
)

// endOfInput is returned by the cursor once the source is exhausted.
const endOfInput = source.EndOfInput

type unit struct {
	r rune
	// Span [start, end) of the untranslated source. start is the
	// character itself, after any splices were skipped.
	start, end int
}

type Cursor struct {
	src   []rune
	units []unit
	// Index into units of the current character.
	pos int
	// Source index the next unit is translated from.
	next int
	raw  bool
}

func NewCursor(src []rune) *Cursor {
	return &Cursor{src: src}
}

// Peek returns the current character without consuming it.
func (c *Cursor) Peek() rune {
	c.fill()
	return c.units[c.pos].r
}

// Advance consumes and returns the current character.
// Advancing at end of input is allowed and can be retreated.
func (c *Cursor) Advance() rune {
	c.fill()
	r := c.units[c.pos].r
	c.pos += 1
	return r
}

// Retreat undoes the last Advance.
func (c *Cursor) Retreat() {
	if c.pos == 0 {
		panic("internal error - retreat before start of input")
	}
	c.pos -= 1
}

// Mark returns the current position for a later Reset.
func (c *Cursor) Mark() int {
	return c.pos
}

// Reset moves back (or forward) to a position returned by Mark.
func (c *Cursor) Reset(mark int) {
	if mark < 0 || mark > len(c.units) {
		panic("internal error - bad cursor mark")
	}
	c.pos = mark
}

// Offset is the source index of the current character.
func (c *Cursor) Offset() int {
	c.fill()
	return c.units[c.pos].start
}

// SetRawMode switches between translated and verbatim reading. Lookahead
// already translated under the previous mode is discarded and reading
// resumes right after the last consumed character.
func (c *Cursor) SetRawMode(raw bool) {
	if c.raw == raw {
		return
	}
	c.raw = raw
	c.units = c.units[:c.pos]
	if c.pos == 0 {
		c.next = 0
	} else {
		c.next = c.units[c.pos-1].end
	}
}

func (c *Cursor) fill() {
	for c.pos >= len(c.units) {
		if c.raw {
			c.units = append(c.units, c.readRaw())
		} else {
			c.units = append(c.units, c.translate())
		}
	}
}

func (c *Cursor) at(i int) rune {
	if i < len(c.src) {
		return c.src[i]
	}
	return endOfInput
}

func (c *Cursor) readRaw() unit {
	i := c.next
	if i >= len(c.src) {
		return unit{endOfInput, len(c.src), len(c.src)}
	}
	c.next = i + 1
	return unit{c.src[i], i, i + 1}
}

func (c *Cursor) translate() unit {
	i := c.next
	for {
		if i >= len(c.src) {
			c.next = len(c.src)
			return unit{endOfInput, len(c.src), len(c.src)}
		}
		r := c.src[i]
		end := i + 1
		if r == '?' && c.at(i+1) == '?' {
			if t, ok := trigraph(c.at(i + 2)); ok {
				r = t
				end = i + 3
			}
		}
		if r == '\\' {
			switch c.at(end) {
			case '\n':
				// Splice, then keep translating from the next line.
				i = end + 1
				continue
			case 'u':
				if v, ok := c.hexValue(end+1, 4); ok {
					r = v
					end += 5
				}
			case 'U':
				if v, ok := c.hexValue(end+1, 8); ok {
					r = v
					end += 9
				}
			}
		}
		c.next = end
		return unit{r, i, end}
	}
}

// hexValue reads the code point named by a UCN. Values outside the
// Unicode range and surrogates are not code points, those UCNs are
// left untranslated.
func (c *Cursor) hexValue(i, ndigits int) (rune, bool) {
	var v uint32
	for j := i; j < i+ndigits; j++ {
		d := hexDigitValue(c.at(j))
		if d < 0 {
			return 0, false
		}
		v = v<<4 | uint32(d)
	}
	if v > utf8.MaxRune || !utf8.ValidRune(rune(v)) {
		return 0, false
	}
	return rune(v), true
}

func trigraph(r rune) (rune, bool) {
	switch r {
	case '=':
		return '#', true
	case '/':
		return '\\', true
	case '\'':
		return '^', true
	case '(':
		return '[', true
	case ')':
		return ']', true
	case '!':
		return '|', true
	case '<':
		return '{', true
	case '>':
		return '}', true
	case '-':
		return '~', true
	}
	return 0, false
}

func hexDigitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	}
	return -1
}

// Translate runs the translation phases over a whole buffer.
func Translate(src []rune) []rune {
	c := NewCursor(src)
	var ret []rune
	for {
		r := c.Advance()
		if r == endOfInput {
			return ret
		}
		ret = append(ret, r)
	}
}

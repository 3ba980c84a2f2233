package cpp

import (
	"bytes"
	"sort"

	"github.com/andrewchambers/cxxpp/source"
	"github.com/pkg/errors"
)

type Lexer struct {
	cur   *Cursor
	fname string
	// Source index of the first character of every line.
	lines []int
	// Source index where the token being read started.
	markedOffset int
	// At the beginning of a line, ignoring whitespace.
	bol bool
	// Set to true once the EOF token has been sent.
	eof bool
	// Tokens read but not yet returned by Next.
	pending []*Token

	err error
}

type breakout struct{}

// Lex creates a lexer over decoded source text.
// fname is used for error messages when showing the source location.
// No macro expansion is done, this is just pure tokenizing of the
// translated source. A newline is appended to non empty source that
// does not already end in one.
func Lex(fname string, src []rune) *Lexer {
	src = source.AppendNewline(src)
	lx := new(Lexer)
	lx.fname = fname
	lx.cur = NewCursor(src)
	lx.lines = []int{0}
	for i, r := range src {
		if r == '\n' && i+1 < len(src) {
			lx.lines = append(lx.lines, i+1)
		}
	}
	lx.bol = true
	return lx
}

// Next returns the next preprocessing token. After the EOF token
// every call returns EOF again. Errors are fatal, once one is
// returned it is returned for every later call.
func (lx *Lexer) Next() (*Token, error) {
	for len(lx.pending) == 0 {
		if lx.err != nil {
			return &Token{Kind: EOF, Pos: lx.posOf(lx.markedOffset)}, lx.err
		}
		if lx.eof {
			return &Token{Kind: EOF, Pos: lx.posOf(lx.markedOffset)}, nil
		}
		lx.lex()
	}
	tok := lx.pending[0]
	lx.pending = lx.pending[1:]
	return tok, nil
}

// Tokenize reads every token up to and including EOF.
func Tokenize(lx *Lexer) ([]*Token, error) {
	var ret []*Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		ret = append(ret, tok)
		if tok.Kind == EOF {
			return ret, nil
		}
	}
}

func (lx *Lexer) posOf(offset int) FilePos {
	line := sort.Search(len(lx.lines), func(i int) bool { return lx.lines[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return FilePos{
		File: lx.fname,
		Line: line + 1,
		Col:  offset - lx.lines[line] + 1,
	}
}

func (lx *Lexer) markPos() {
	lx.markedOffset = lx.cur.Offset()
}

func (lx *Lexer) sendTok(kind TokenKind, val string) {
	var tok Token
	tok.Kind = kind
	tok.Val = val
	tok.Pos = lx.posOf(lx.markedOffset)
	tok.hs = emptyHS
	switch kind {
	case NEWLINE:
		lx.bol = true
	case WHITESPACE:
		// Does not change the start of line state.
	default:
		lx.bol = false
	}
	lx.pending = append(lx.pending, &tok)
}

// Error aborts lexing. kind is one of the Err* values in error.go.
func (lx *Lexer) Error(kind error, format string, args ...interface{}) {
	lx.err = ErrWithLoc(errors.Wrapf(kind, format, args...), lx.posOf(lx.markedOffset))
	lx.pending = nil
	// recover exits the lexer cleanly
	panic(&breakout{})
}

// lex reads at least one token into the pending list.
func (lx *Lexer) lex() {
	defer func() {
		if e := recover(); e != nil {
			_ = e.(*breakout) // Will re-panic if not a breakout.
		}
	}()

	lx.markPos()
	first := lx.cur.Peek()
	switch {
	case first == endOfInput:
		lx.sendTok(EOF, "")
		lx.eof = true
	case isValidIdentStart(first):
		lx.readIdentOrLiteral()
	case first == '"':
		lx.finishLiteral(lx.readQuoted('"'), STRING_LITERAL, UD_STRING_LITERAL)
	case first == '\'':
		lx.finishLiteral(lx.readCChar(), CHAR_LITERAL, UD_CHAR_LITERAL)
	case isNumeric(first) || (first == '.' && isNumeric(lx.peekSecond())):
		lx.readPPNumber()
	case lx.atWhiteSpace():
		lx.readWhiteSpace()
	case first == '\n':
		lx.cur.Advance()
		lx.sendTok(NEWLINE, "\n")
	case isPunctuatorStart(first):
		lx.readOperator()
	default:
		lx.cur.Advance()
		lx.sendTok(NON_WHITESPACE, string(first))
	}
}

func (lx *Lexer) peekSecond() rune {
	lx.cur.Advance()
	r := lx.cur.Peek()
	lx.cur.Retreat()
	return r
}

func (lx *Lexer) readIdentOrLiteral() {
	id := lx.matchIdentifier()
	next := lx.cur.Peek()
	switch {
	case rawPrefixes[id] && next == '"':
		lx.finishLiteral(id+lx.readRawString(), STRING_LITERAL, UD_STRING_LITERAL)
	case encodingPrefixes[id] && next == '"':
		lx.finishLiteral(id+lx.readQuoted('"'), STRING_LITERAL, UD_STRING_LITERAL)
	case encodingPrefixes[id] && id != "u8" && next == '\'':
		lx.finishLiteral(id+lx.readCChar(), CHAR_LITERAL, UD_CHAR_LITERAL)
	case altOperators[id]:
		lx.sendTok(PUNCTUATOR, id)
	default:
		lx.sendTok(IDENT, id)
	}
}

// finishLiteral sends lit, fused with an immediately following
// identifier as a user defined literal suffix.
func (lx *Lexer) finishLiteral(lit string, kind, udKind TokenKind) {
	if isValidIdentStart(lx.cur.Peek()) {
		mark := lx.cur.Mark()
		suffix := lx.matchIdentifier()
		if !altOperators[suffix] {
			lx.sendTok(udKind, lit+suffix)
			return
		}
		lx.cur.Reset(mark)
	}
	lx.sendTok(kind, lit)
}

func (lx *Lexer) matchIdentifier() string {
	var buff bytes.Buffer
	first := lx.cur.Advance()
	if !isValidIdentStart(first) {
		panic("internal error")
	}
	buff.WriteRune(first)
	for isValidIdentTail(lx.cur.Peek()) {
		buff.WriteRune(lx.cur.Advance())
	}
	return buff.String()
}

func (lx *Lexer) readCChar() string {
	lit, n := lx.matchQuoted('\'')
	if n == 0 {
		lx.Error(ErrEmptyCharLiteral, "empty character literal")
	}
	return lit
}

func (lx *Lexer) readQuoted(quote rune) string {
	lit, _ := lx.matchQuoted(quote)
	return lit
}

// matchQuoted reads a string or character literal body, returning the
// literal text and the number of characters between the quotes.
func (lx *Lexer) matchQuoted(quote rune) (string, int) {
	var buff bytes.Buffer
	buff.WriteRune(lx.cur.Advance())
	n := 0
	for {
		switch lx.cur.Peek() {
		case endOfInput, '\n':
			if quote == '"' {
				lx.Error(ErrUnterminatedLiteral, "unterminated string literal")
			}
			lx.Error(ErrUnterminatedLiteral, "unterminated character literal")
		case quote:
			buff.WriteRune(lx.cur.Advance())
			return buff.String(), n
		case '\\':
			lx.matchEscape(&buff)
		default:
			buff.WriteRune(lx.cur.Advance())
		}
		n += 1
	}
}

func (lx *Lexer) matchEscape(buff *bytes.Buffer) {
	buff.WriteRune(lx.cur.Advance())
	r := lx.cur.Peek()
	switch {
	case isSimpleEscape(r):
		buff.WriteRune(lx.cur.Advance())
	case r == 'x':
		buff.WriteRune(lx.cur.Advance())
		if !isHexDigit(lx.cur.Peek()) {
			lx.Error(ErrBadEscapeSequence, "\\x used with no following hex digits")
		}
		for isHexDigit(lx.cur.Peek()) {
			buff.WriteRune(lx.cur.Advance())
		}
	case isOctalDigit(r):
		for i := 0; i < 3 && isOctalDigit(lx.cur.Peek()); i++ {
			buff.WriteRune(lx.cur.Advance())
		}
	case r == endOfInput || r == '\n':
		lx.Error(ErrBadEscapeSequence, "backslash at end of line")
	default:
		lx.Error(ErrBadEscapeSequence, "unknown escape sequence \\%c", r)
	}
}

// Example: R"abc(xx)abc". The prefix has been read, the cursor is
// on the opening quote. The body is read untranslated.
func (lx *Lexer) readRawString() string {
	var buff bytes.Buffer
	buff.WriteRune(lx.cur.Advance())
	var delim []rune
	for isDChar(lx.cur.Peek()) {
		delim = append(delim, lx.cur.Advance())
	}
	if lx.cur.Peek() != '(' {
		lx.Error(ErrMalformedRawString, "invalid character in raw string delimiter")
	}
	if len(delim) > 16 {
		lx.Error(ErrMalformedRawString, "raw string delimiter longer than 16 characters")
	}
	buff.WriteString(source.Encode(delim))
	buff.WriteRune(lx.cur.Advance())
	lx.cur.SetRawMode(true)
	for {
		r := lx.cur.Advance()
		if r == endOfInput {
			lx.Error(ErrMalformedRawString, "unterminated raw string literal")
		}
		buff.WriteRune(r)
		if r == ')' && lx.matchRawTerminator(delim) {
			break
		}
	}
	buff.WriteString(source.Encode(delim))
	buff.WriteRune('"')
	lx.cur.SetRawMode(false)
	return buff.String()
}

// matchRawTerminator consumes delim followed by a quote, or nothing.
func (lx *Lexer) matchRawTerminator(delim []rune) bool {
	mark := lx.cur.Mark()
	for _, d := range delim {
		if lx.cur.Advance() != d {
			lx.cur.Reset(mark)
			return false
		}
	}
	if lx.cur.Advance() != '"' {
		lx.cur.Reset(mark)
		return false
	}
	return true
}

func (lx *Lexer) readPPNumber() {
	var buff bytes.Buffer
	if lx.cur.Peek() == '.' {
		buff.WriteRune(lx.cur.Advance())
	}
	last := lx.cur.Advance()
	buff.WriteRune(last)
	for {
		r := lx.cur.Peek()
		switch {
		case isNumeric(r) || isNonDigit(r) || isIdentUCN(r) || r == '.':
		case (r == '+' || r == '-') && (last == 'e' || last == 'E'):
		default:
			lx.sendTok(PP_NUMBER, buff.String())
			return
		}
		last = lx.cur.Advance()
		buff.WriteRune(last)
	}
}

// atWhiteSpace reports whether the cursor is on whitespace other than
// a newline, or on the start of a comment.
func (lx *Lexer) atWhiteSpace() bool {
	r := lx.cur.Peek()
	if isWhiteSpace(r) {
		return true
	}
	if r != '/' {
		return false
	}
	second := lx.peekSecond()
	return second == '*' || second == '/'
}

// skipComment consumes a comment starting at the cursor.
// A line comment stops before its newline.
func (lx *Lexer) skipComment() {
	tokStart := lx.markedOffset
	// Errors point at the comment, not the whitespace before it.
	lx.markPos()
	lx.cur.Advance()
	if lx.cur.Advance() == '/' {
		for r := lx.cur.Peek(); r != '\n' && r != endOfInput; r = lx.cur.Peek() {
			lx.cur.Advance()
		}
	} else {
		for {
			c := lx.cur.Advance()
			if c == endOfInput {
				lx.Error(ErrUnterminatedComment, "unclosed comment")
			}
			if c == '*' && lx.cur.Peek() == '/' {
				lx.cur.Advance()
				break
			}
		}
	}
	lx.markedOffset = tokStart
}

func (lx *Lexer) readOperator() {
	atLineStart := lx.bol
	op := lx.matchOperator()
	lx.sendTok(PUNCTUATOR, op)
	if atLineStart && (op == "#" || op == "%:") {
		lx.readDirectiveName()
	}
}

// matchOperator reads the longest punctuator at the cursor.
func (lx *Lexer) matchOperator() string {
	start := lx.cur.Mark()
	best, bestMark := "", start
	var buff []rune
	for lx.cur.Peek() != endOfInput {
		buff = append(buff, lx.cur.Advance())
		s := string(buff)
		if punctuators[s] {
			best, bestMark = s, lx.cur.Mark()
		}
		if !punctuatorPrefixes[s] {
			break
		}
	}
	lx.cur.Reset(bestMark)
	// <:: is < followed by :: unless the next character is : or >.
	if best == "<:" && lx.cur.Peek() == ':' {
		lx.cur.Advance()
		third := lx.cur.Peek()
		lx.cur.Retreat()
		if third != ':' && third != '>' {
			lx.cur.Reset(start)
			lx.cur.Advance()
			best = "<"
		}
	}
	if best == "" {
		panic("internal error - no punctuator at cursor")
	}
	return best
}

// readWhiteSpace reads a maximal run of whitespace and comments as
// one token. Each comment counts as a single space.
func (lx *Lexer) readWhiteSpace() {
	var buff bytes.Buffer
	for lx.atWhiteSpace() {
		if isWhiteSpace(lx.cur.Peek()) {
			buff.WriteRune(lx.cur.Advance())
			continue
		}
		lx.skipComment()
		buff.WriteRune(' ')
	}
	lx.sendTok(WHITESPACE, buff.String())
}

// readDirectiveName runs after a # that starts a line. Only the
// include directive needs help from the lexer, its operand is a
// header name rather than a string literal or a < operator.
func (lx *Lexer) readDirectiveName() {
	lx.markPos()
	if lx.atWhiteSpace() {
		lx.readWhiteSpace()
	}
	if !isValidIdentStart(lx.cur.Peek()) {
		return
	}
	lx.markPos()
	mark := lx.cur.Mark()
	if lx.matchIdentifier() != "include" {
		lx.cur.Reset(mark)
		return
	}
	lx.sendTok(IDENT, "include")
	lx.markPos()
	if lx.atWhiteSpace() {
		lx.readWhiteSpace()
	}
	switch lx.cur.Peek() {
	case '"', '<':
		lx.markPos()
		lx.readHeaderName()
	}
}

func (lx *Lexer) readHeaderName() {
	var buff bytes.Buffer
	opening := lx.cur.Advance()
	terminator := '>'
	if opening == '"' {
		terminator = '"'
	}
	buff.WriteRune(opening)
	for {
		c := lx.cur.Peek()
		if c == '\n' || c == endOfInput {
			lx.Error(ErrUnterminatedLiteral, "unterminated header name")
		}
		buff.WriteRune(lx.cur.Advance())
		if c == terminator {
			break
		}
	}
	lx.sendTok(HEADER_NAME, buff.String())
}

package cpp

import (
	"fmt"
	"io"
)

// Sink receives the preprocessing token stream, one method per
// token kind. Methods taking data are passed the token text.
type Sink interface {
	EmitWhitespaceSequence()
	EmitNewLine()
	EmitHeaderName(data string)
	EmitIdentifier(data string)
	EmitPPNumber(data string)
	EmitCharacterLiteral(data string)
	EmitUserDefinedCharacterLiteral(data string)
	EmitStringLiteral(data string)
	EmitUserDefinedStringLiteral(data string)
	EmitPreprocessingOpOrPunc(data string)
	EmitNonWhitespaceChar(data string)
	EmitEOF()
}

// Emit sends t to the sink method for its kind.
func Emit(out Sink, t *Token) {
	switch t.Kind {
	case WHITESPACE:
		out.EmitWhitespaceSequence()
	case NEWLINE:
		out.EmitNewLine()
	case HEADER_NAME:
		out.EmitHeaderName(t.Val)
	case IDENT:
		out.EmitIdentifier(t.Val)
	case PP_NUMBER:
		out.EmitPPNumber(t.Val)
	case CHAR_LITERAL:
		out.EmitCharacterLiteral(t.Val)
	case UD_CHAR_LITERAL:
		out.EmitUserDefinedCharacterLiteral(t.Val)
	case STRING_LITERAL:
		out.EmitStringLiteral(t.Val)
	case UD_STRING_LITERAL:
		out.EmitUserDefinedStringLiteral(t.Val)
	case PUNCTUATOR:
		out.EmitPreprocessingOpOrPunc(t.Val)
	case NON_WHITESPACE:
		out.EmitNonWhitespaceChar(t.Val)
	case EOF:
		out.EmitEOF()
	default:
		panic(fmt.Sprintf("internal error - bad token kind %d", t.Kind))
	}
}

// DebugSink writes one line per token: the kind, the byte length of
// the text and the text. Whitespace and newlines are written with a
// zero length, end of file as a bare "eof".
type DebugSink struct {
	w   io.Writer
	err error
}

func NewDebugSink(w io.Writer) *DebugSink {
	return &DebugSink{w: w}
}

// Err returns the first write error, if any.
func (ds *DebugSink) Err() error {
	return ds.err
}

func (ds *DebugSink) printf(format string, args ...interface{}) {
	if ds.err != nil {
		return
	}
	_, ds.err = fmt.Fprintf(ds.w, format, args...)
}

func (ds *DebugSink) write(kind TokenKind, data string) {
	ds.printf("%s %d %s\n", kind, len(data), data)
}

func (ds *DebugSink) EmitWhitespaceSequence() { ds.printf("%s 0 \n", WHITESPACE) }
func (ds *DebugSink) EmitNewLine() { ds.printf("%s 0 \n", NEWLINE) }
func (ds *DebugSink) EmitEOF() { ds.printf("%s\n", EOF) }

func (ds *DebugSink) EmitHeaderName(data string) { ds.write(HEADER_NAME, data) }
func (ds *DebugSink) EmitIdentifier(data string) { ds.write(IDENT, data) }
func (ds *DebugSink) EmitPPNumber(data string) { ds.write(PP_NUMBER, data) }
func (ds *DebugSink) EmitCharacterLiteral(data string) {
	ds.write(CHAR_LITERAL, data)
}
func (ds *DebugSink) EmitUserDefinedCharacterLiteral(data string) {
	ds.write(UD_CHAR_LITERAL, data)
}
func (ds *DebugSink) EmitStringLiteral(data string) { ds.write(STRING_LITERAL, data) }
func (ds *DebugSink) EmitUserDefinedStringLiteral(data string) {
	ds.write(UD_STRING_LITERAL, data)
}
func (ds *DebugSink) EmitPreprocessingOpOrPunc(data string) { ds.write(PUNCTUATOR, data) }
func (ds *DebugSink) EmitNonWhitespaceChar(data string) { ds.write(NON_WHITESPACE, data) }

// TextSink writes the tokens back out as source text. Whitespace
// sequences become a single space.
type TextSink struct {
	w   io.Writer
	err error
}

func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

func (ts *TextSink) Err() error {
	return ts.err
}

func (ts *TextSink) text(s string) {
	if ts.err != nil {
		return
	}
	_, ts.err = io.WriteString(ts.w, s)
}

func (ts *TextSink) EmitWhitespaceSequence() { ts.text(" ") }
func (ts *TextSink) EmitNewLine() { ts.text("\n") }
func (ts *TextSink) EmitEOF() {}
func (ts *TextSink) EmitHeaderName(data string) { ts.text(data) }
func (ts *TextSink) EmitIdentifier(data string) { ts.text(data) }
func (ts *TextSink) EmitPPNumber(data string) { ts.text(data) }
func (ts *TextSink) EmitCharacterLiteral(data string) { ts.text(data) }
func (ts *TextSink) EmitUserDefinedCharacterLiteral(data string) { ts.text(data) }
func (ts *TextSink) EmitStringLiteral(data string) { ts.text(data) }
func (ts *TextSink) EmitUserDefinedStringLiteral(data string) { ts.text(data) }
func (ts *TextSink) EmitPreprocessingOpOrPunc(data string) { ts.text(data) }
func (ts *TextSink) EmitNonWhitespaceChar(data string) { ts.text(data) }

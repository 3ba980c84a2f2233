package cpp

import (
	"fmt"
)

// The list of preprocessing token kinds.
const (
	WHITESPACE TokenKind = iota
	NEWLINE
	HEADER_NAME
	IDENT
	PP_NUMBER
	CHAR_LITERAL
	UD_CHAR_LITERAL
	STRING_LITERAL
	UD_STRING_LITERAL
	PUNCTUATOR
	NON_WHITESPACE
	EOF
)

var tokenKindToStr = [...]string{
	WHITESPACE:        "whitespace-sequence",
	NEWLINE:           "new-line",
	HEADER_NAME:       "header-name",
	IDENT:             "identifier",
	PP_NUMBER:         "pp-number",
	CHAR_LITERAL:      "character-literal",
	UD_CHAR_LITERAL:   "user-defined-character-literal",
	STRING_LITERAL:    "string-literal",
	UD_STRING_LITERAL: "user-defined-string-literal",
	PUNCTUATOR:        "preprocessing-op-or-punc",
	NON_WHITESPACE:    "non-whitespace-character",
	EOF:               "eof",
}

// Identifier spellings of operators. An identifier matching one of these
// is lexed as a PUNCTUATOR, and never becomes a user-defined literal suffix.
var altOperators = map[string]bool{
	"new":    true,
	"delete": true,
	"and":    true,
	"and_eq": true,
	"bitand": true,
	"bitor":  true,
	"compl":  true,
	"not":    true,
	"not_eq": true,
	"or":     true,
	"or_eq":  true,
	"xor":    true,
	"xor_eq": true,
}

// Every punctuator, digraphs included.
var punctuators = map[string]bool{
	"{": true, "}": true, "[": true, "]": true, "#": true, "##": true,
	"(": true, ")": true, "<:": true, ":>": true, "<%": true, "%>": true,
	"%:": true, "%:%:": true, ";": true, ":": true, "...": true, "?": true,
	"::": true, ".": true, ".*": true, "+": true, "-": true, "*": true,
	"/": true, "%": true, "^": true, "&": true, "|": true, "~": true,
	"!": true, "=": true, "<": true, ">": true, "+=": true, "-=": true,
	"*=": true, "/=": true, "%=": true, "^=": true, "&=": true, "|=": true,
	"<<": true, ">>": true, ">>=": true, "<<=": true, "==": true, "!=": true,
	"<=": true, ">=": true, "&&": true, "||": true, "++": true, "--": true,
	",": true, "->*": true, "->": true,
}

// Every proper prefix of a punctuator, so the longest-match scan knows
// when to keep reading past a non-punctuator such as ".." or "%:%".
var punctuatorPrefixes = func() map[string]bool {
	ret := make(map[string]bool)
	for p := range punctuators {
		for i := 1; i < len(p); i++ {
			ret[p[:i]] = true
		}
	}
	return ret
}()

type TokenKind uint32

func (tk TokenKind) String() string {
	if uint32(tk) >= uint32(len(tokenKindToStr)) {
		return "Unknown"
	}
	ret := tokenKindToStr[tk]
	if ret == "" {
		return "Unknown"
	}
	return ret
}

type FilePos struct {
	File string
	Line int
	Col  int
}

func (pos FilePos) String() string {
	return fmt.Sprintf("%s:%d:%d", pos.File, pos.Line, pos.Col)
}

// Token is a preprocessing token. Val is the reconstructed source text
// after translation, delimiters included.
//
// Tokens are never mutated once lexed. Macro expansion copies them.
type Token struct {
	Kind TokenKind
	Val  string
	Pos  FilePos
	hs   *hideset
}

func (t *Token) copy() *Token {
	ret := *t
	return &ret
}

// Is reports whether t is the punctuator p.
func (t *Token) Is(p string) bool {
	return t.Kind == PUNCTUATOR && t.Val == p
}

func (t *Token) isHash() bool {
	return t.Is("#") || t.Is("%:")
}

func (t Token) String() string {
	return fmt.Sprintf("%s at %s", t.Val, t.Pos)
}

package cpp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lexStrings tokenizes src and describes every token, whitespace as
// "ws", newlines as "nl".
func lexStrings(t *testing.T, src string) []string {
	t.Helper()
	toks, err := Tokenize(Lex("test.cpp", []rune(src)))
	require.NoError(t, err)
	var ret []string
	for _, tok := range toks {
		switch tok.Kind {
		case WHITESPACE:
			ret = append(ret, "ws")
		case NEWLINE:
			ret = append(ret, "nl")
		case EOF:
			ret = append(ret, "eof")
		default:
			ret = append(ret, fmt.Sprintf("%s %s", tok.Kind, tok.Val))
		}
	}
	return ret
}

func TestLexTokens(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"empty", "", []string{"eof"}},
		{"newline appended", "x", []string{"identifier x", "nl", "eof"}},
		{"ucn identifier", "caf\\u00e9", []string{"identifier café", "nl", "eof"}},
		{"out of range ucn", "a \\UFFFFFFFF b", []string{
			"identifier a", "ws", "non-whitespace-character \\", "identifier UFFFFFFFF", "ws", "identifier b", "nl", "eof",
		}},
		{"negative ucn", "\\U80000000", []string{"non-whitespace-character \\", "identifier U80000000", "nl", "eof"}},
		{"alternative operator", "a and b", []string{"identifier a", "ws", "preprocessing-op-or-punc and", "ws", "identifier b", "nl", "eof"}},
		{"prefixed literals", "u8\"s\" u'c' L\"w\" U'x'", []string{
			"string-literal u8\"s\"", "ws", "character-literal u'c'", "ws",
			"string-literal L\"w\"", "ws", "character-literal U'x'", "nl", "eof",
		}},
		{"u8 is no char prefix", "u8'c'", []string{"identifier u8", "character-literal 'c'", "nl", "eof"}},
		{"user defined literals", "\"abc\"_x 'a'km \"s\"and", []string{
			"user-defined-string-literal \"abc\"_x", "ws",
			"user-defined-character-literal 'a'km", "ws",
			"string-literal \"s\"", "preprocessing-op-or-punc and", "nl", "eof",
		}},
		{"escapes", `"\x41\101\n\?\\" '\''`, []string{`string-literal "\x41\101\n\?\\"`, "ws", `character-literal '\''`, "nl", "eof"}},
		{"raw string", `R"(a"b)"`, []string{`string-literal R"(a"b)"`, "nl", "eof"}},
		{"raw string delimiter", `R"xy(a)x")xy"`, []string{`string-literal R"xy(a)x")xy"`, "nl", "eof"}},
		{"raw string untranslated", `R"(??=\u0041)"`, []string{`string-literal R"(??=\u0041)"`, "nl", "eof"}},
		{"raw string multiline", "R\"(a\nb)\" x", []string{"string-literal R\"(a\nb)\"", "ws", "identifier x", "nl", "eof"}},
		{"prefixed raw string", `u8R"(x)"_s LR"(y)"`, []string{`user-defined-string-literal u8R"(x)"_s`, "ws", `string-literal LR"(y)"`, "nl", "eof"}},
		{"R alone", "R x", []string{"identifier R", "ws", "identifier x", "nl", "eof"}},
		{"pp numbers", "1.5e+10 .5 1..2 12ab_c 0x1p-3", []string{
			"pp-number 1.5e+10", "ws", "pp-number .5", "ws", "pp-number 1..2", "ws",
			"pp-number 12ab_c", "ws", "pp-number 0x1p", "preprocessing-op-or-punc -", "pp-number 3", "nl", "eof",
		}},
		{"sign ends number", "1+2", []string{"pp-number 1", "preprocessing-op-or-punc +", "pp-number 2", "nl", "eof"}},
		{"longest operator", "a->*b>>=c...d..e", []string{
			"identifier a", "preprocessing-op-or-punc ->*", "identifier b", "preprocessing-op-or-punc >>=",
			"identifier c", "preprocessing-op-or-punc ...", "identifier d", "preprocessing-op-or-punc .",
			"preprocessing-op-or-punc .", "identifier e", "nl", "eof",
		}},
		{"digraphs", "<% %> <: :> %:%: %:", []string{
			"preprocessing-op-or-punc <%", "ws", "preprocessing-op-or-punc %>", "ws",
			"preprocessing-op-or-punc <:", "ws", "preprocessing-op-or-punc :>", "ws",
			"preprocessing-op-or-punc %:%:", "ws", "preprocessing-op-or-punc %:", "nl", "eof",
		}},
		{"less colon colon", "a<::b", []string{"identifier a", "preprocessing-op-or-punc <", "preprocessing-op-or-punc ::", "identifier b", "nl", "eof"}},
		{"less colon colon greater", "a<::>", []string{"identifier a", "preprocessing-op-or-punc <:", "preprocessing-op-or-punc :>", "nl", "eof"}},
		{"less colon colon colon", "a<:::", []string{"identifier a", "preprocessing-op-or-punc <:", "preprocessing-op-or-punc ::", "nl", "eof"}},
		{"comments are whitespace", "a/*x*/b // c", []string{"identifier a", "ws", "identifier b", "ws", "nl", "eof"}},
		{"comment and spaces merge", "a /* x */ /**/ b", []string{"identifier a", "ws", "identifier b", "nl", "eof"}},
		{"block comment spans lines", "a/*\n*/b", []string{"identifier a", "ws", "identifier b", "nl", "eof"}},
		{"division", "a / b", []string{"identifier a", "ws", "preprocessing-op-or-punc /", "ws", "identifier b", "nl", "eof"}},
		{"non whitespace", "@ `", []string{"non-whitespace-character @", "ws", "non-whitespace-character `", "nl", "eof"}},
		{"include angled", "#include <a.h>", []string{"preprocessing-op-or-punc #", "identifier include", "ws", "header-name <a.h>", "nl", "eof"}},
		{"include quoted", "  # include \"x.h\"", []string{"ws", "preprocessing-op-or-punc #", "ws", "identifier include", "ws", "header-name \"x.h\"", "nl", "eof"}},
		{"include digraph", "%:include<y>", []string{"preprocessing-op-or-punc %:", "identifier include", "header-name <y>", "nl", "eof"}},
		{"include after comment", "/**/#/**/include<y>", []string{"ws", "preprocessing-op-or-punc #", "ws", "identifier include", "header-name <y>", "nl", "eof"}},
		{"include mid line", "x #include <a>", []string{
			"identifier x", "ws", "preprocessing-op-or-punc #", "identifier include", "ws",
			"preprocessing-op-or-punc <", "identifier a", "preprocessing-op-or-punc >", "nl", "eof",
		}},
		{"header name no escapes", "#include \"a\\b.h\"", []string{"preprocessing-op-or-punc #", "identifier include", "ws", "header-name \"a\\b.h\"", "nl", "eof"}},
		{"trigraph directive", "??=define X 1", []string{
			"preprocessing-op-or-punc #", "identifier define", "ws", "identifier X", "ws", "pp-number 1", "nl", "eof",
		}},
		{"spliced directive", "#def\\\nine X 1", []string{
			"preprocessing-op-or-punc #", "identifier define", "ws", "identifier X", "ws", "pp-number 1", "nl", "eof",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lexStrings(t, tt.src))
		})
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind error
		pos  string
	}{
		{"unterminated string", "x \"abc", ErrUnterminatedLiteral, "test.cpp:1:3"},
		{"string ends at newline", "\"a\nb\"", ErrUnterminatedLiteral, "test.cpp:1:1"},
		{"unterminated char", "'a", ErrUnterminatedLiteral, "test.cpp:1:1"},
		{"empty char", "''", ErrEmptyCharLiteral, "test.cpp:1:1"},
		{"unknown escape", "\n \"\\q\"", ErrBadEscapeSequence, "test.cpp:2:2"},
		{"hex escape without digits", "\"\\x\"", ErrBadEscapeSequence, "test.cpp:1:1"},
		{"unterminated comment", "a  /* x", ErrUnterminatedComment, "test.cpp:1:4"},
		{"raw string bad delimiter", "R\" x(a) x\"", ErrMalformedRawString, "test.cpp:1:1"},
		{"raw string no paren", "R\"abc", ErrMalformedRawString, "test.cpp:1:1"},
		{"raw string long delimiter", "R\"12345678901234567(x)12345678901234567\"", ErrMalformedRawString, "test.cpp:1:1"},
		{"unterminated raw string", "R\"(abc", ErrMalformedRawString, "test.cpp:1:1"},
		{"unterminated header name", "#include <a.h", ErrUnterminatedLiteral, "test.cpp:1:10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(Lex("test.cpp", []rune(tt.src)))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
			var loc ErrorLoc
			require.True(t, errors.As(err, &loc))
			assert.Equal(t, tt.pos, loc.Pos.String())
		})
	}
}

func TestLexErrorIsSticky(t *testing.T) {
	lx := Lex("test.cpp", []rune("a \"b"))
	tok, err := lx.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", tok.Val)
	tok, err = lx.Next()
	require.NoError(t, err)
	assert.Equal(t, WHITESPACE, tok.Kind)
	_, err = lx.Next()
	require.Error(t, err)
	_, err2 := lx.Next()
	assert.Equal(t, err, err2)
}

func TestLexEOFRepeats(t *testing.T) {
	lx := Lex("test.cpp", nil)
	for i := 0; i < 3; i++ {
		tok, err := lx.Next()
		require.NoError(t, err)
		assert.Equal(t, EOF, tok.Kind)
	}
}

func TestLexPositions(t *testing.T) {
	toks, err := Tokenize(Lex("p.cpp", []rune("a\\\nb c\n\tdd")))
	require.NoError(t, err)
	var got []string
	for _, tok := range toks {
		if tok.Kind == IDENT {
			got = append(got, fmt.Sprintf("%s@%d:%d", tok.Val, tok.Pos.Line, tok.Pos.Col))
		}
	}
	assert.Equal(t, []string{"ab@1:1", "c@2:3", "dd@3:2"}, got)
}

// Every character of the source ends up in exactly one token.
func TestLexTotality(t *testing.T) {
	src := "#include <x>\nint main(){ return u8\"é\"[0] + 0x1F; } // done\n"
	toks, err := Tokenize(Lex("t.cpp", []rune(src)))
	require.NoError(t, err)
	rebuilt := ""
	for _, tok := range toks {
		rebuilt += tok.Val
	}
	assert.Equal(t, "#include <x>\nint main(){ return u8\"é\"[0] + 0x1F; }  \n", rebuilt)
}

// Invalid UCNs stay as written and nothing after them is lost.
func TestLexInvalidUCNTotality(t *testing.T) {
	for _, src := range []string{
		"a \\UFFFFFFFF b c d\n",
		"x = \\U80000000 + \\uDFFF;\n",
	} {
		toks, err := Tokenize(Lex("t.cpp", []rune(src)))
		require.NoError(t, err)
		rebuilt := ""
		for _, tok := range toks {
			rebuilt += tok.Val
		}
		assert.Equal(t, src, rebuilt)
	}
}

package cpp

import (
	"github.com/pkg/errors"
)

type DirectiveKind int

// A group is either a single directive line or a run of text lines.
const (
	DIR_TEXT DirectiveKind = iota
	DIR_NULL
	DIR_DEFINE
	DIR_UNDEF
	DIR_IF
	DIR_IFDEF
	DIR_IFNDEF
	DIR_ELIF
	DIR_ELSE
	DIR_ENDIF
	DIR_INCLUDE
	DIR_LINE
	DIR_ERROR
	DIR_PRAGMA
)

var directiveKeywords = map[string]DirectiveKind{
	"define":  DIR_DEFINE,
	"undef":   DIR_UNDEF,
	"if":      DIR_IF,
	"ifdef":   DIR_IFDEF,
	"ifndef":  DIR_IFNDEF,
	"elif":    DIR_ELIF,
	"else":    DIR_ELSE,
	"endif":   DIR_ENDIF,
	"include": DIR_INCLUDE,
	"line":    DIR_LINE,
	"error":   DIR_ERROR,
	"pragma":  DIR_PRAGMA,
}

var directiveKindToStr = [...]string{
	DIR_TEXT:    "text",
	DIR_NULL:    "null",
	DIR_DEFINE:  "define",
	DIR_UNDEF:   "undef",
	DIR_IF:      "if",
	DIR_IFDEF:   "ifdef",
	DIR_IFNDEF:  "ifndef",
	DIR_ELIF:    "elif",
	DIR_ELSE:    "else",
	DIR_ENDIF:   "endif",
	DIR_INCLUDE: "include",
	DIR_LINE:    "line",
	DIR_ERROR:   "error",
	DIR_PRAGMA:  "pragma",
}

func (dk DirectiveKind) String() string {
	if dk < 0 || int(dk) >= len(directiveKindToStr) {
		return "Unknown"
	}
	return directiveKindToStr[dk]
}

type Group struct {
	Kind DirectiveKind
	// A directive holds the tokens between its two newlines, the
	// newlines excluded. Text holds whole lines, newlines included.
	Toks []*Token
	Pos  FilePos
}

// Classify splits a token sequence, as returned by Tokenize, into
// directive lines and runs of text lines. The EOF token belongs to
// no group.
func Classify(toks []*Token) ([]*Group, error) {
	var ret []*Group
	var text *Group
	i := 0
	for i < len(toks) && toks[i].Kind != EOF {
		end := i
		for end < len(toks) && toks[end].Kind != NEWLINE && toks[end].Kind != EOF {
			end += 1
		}
		next := end
		if next < len(toks) && toks[next].Kind == NEWLINE {
			next += 1
		}
		first := skipWhite(toks[:end], i)
		if first < end && toks[first].isHash() {
			kind, err := classifyDirective(toks[first:end])
			if err != nil {
				return nil, err
			}
			ret = append(ret, &Group{Kind: kind, Toks: toks[i:end:end], Pos: toks[first].Pos})
			text = nil
		} else {
			if text == nil {
				text = &Group{Kind: DIR_TEXT, Pos: toks[i].Pos}
				ret = append(ret, text)
			}
			text.Toks = append(text.Toks, toks[i:next]...)
		}
		i = next
	}
	return ret, nil
}

// classifyDirective looks at the name following the #.
func classifyDirective(line []*Token) (DirectiveKind, error) {
	i := skipWhite(line, 1)
	if i == len(line) {
		return DIR_NULL, nil
	}
	t := line[i]
	if t.Kind != IDENT {
		return 0, ErrWithLoc(errors.Wrapf(ErrBadDirectiveSyntax, "expected a directive name, found %q", t.Val), t.Pos)
	}
	kind, ok := directiveKeywords[t.Val]
	if !ok {
		return 0, ErrWithLoc(errors.Wrapf(ErrBadDirectiveSyntax, "unknown directive #%s", t.Val), t.Pos)
	}
	return kind, nil
}

func skipWhite(toks []*Token, i int) int {
	for i < len(toks) && toks[i].Kind == WHITESPACE {
		i += 1
	}
	return i
}

func trimWhite(toks []*Token) []*Token {
	start := skipWhite(toks, 0)
	end := len(toks)
	for end > start && toks[end-1].Kind == WHITESPACE {
		end -= 1
	}
	return toks[start:end:end]
}

// directiveOperand returns the index of the first token after the
// directive name.
func directiveOperand(g *Group) int {
	i := skipWhite(g.Toks, 0)
	i = skipWhite(g.Toks, i+1)
	return i + 1
}

func badDirective(g *Group, toks []*Token, i int, format string, args ...interface{}) error {
	pos := g.Pos
	if i < len(toks) {
		pos = toks[i].Pos
	}
	return ErrWithLoc(errors.Wrapf(ErrBadDirectiveSyntax, format, args...), pos)
}

// parseDefine reads a #define line into a macro.
//
//	# define name replacement-list
//	# define name( params ) replacement-list
//
// The parameter list only counts when the ( follows the name
// without whitespace.
func parseDefine(g *Group) (*Macro, error) {
	toks := g.Toks
	i := skipWhite(toks, directiveOperand(g))
	if i >= len(toks) || toks[i].Kind != IDENT {
		return nil, badDirective(g, toks, i, "macro name missing in #define")
	}
	m := &Macro{Name: toks[i].Val, Kind: OBJECT_MACRO}
	i += 1
	if i < len(toks) && toks[i].Is("(") {
		m.Kind = FUNC_MACRO
		m.Params = make(map[string]int)
		var err error
		i, err = parseParams(g, m, i+1)
		if err != nil {
			return nil, err
		}
	}
	m.Tokens = trimWhite(toks[i:])
	return m, nil
}

// parseParams reads the parameter list of a function like macro,
// starting after the opening paren. It returns the index after the
// closing paren.
func parseParams(g *Group, m *Macro, i int) (int, error) {
	toks := g.Toks
	i = skipWhite(toks, i)
	if i < len(toks) && toks[i].Is(")") {
		return i + 1, nil
	}
	for {
		if i >= len(toks) {
			return 0, badDirective(g, toks, i, "missing ) in parameter list of %s", m.Name)
		}
		t := toks[i]
		switch {
		case t.Kind == IDENT:
			if _, dup := m.Params[t.Val]; dup || t.Val == vaArgs {
				return 0, badDirective(g, toks, i, "duplicate macro parameter %s", t.Val)
			}
			m.Params[t.Val] = m.NParams
		case t.Is("..."):
			m.Params[vaArgs] = m.NParams
			m.Variadic = true
		default:
			return 0, badDirective(g, toks, i, "expected parameter name, found %q", t.Val)
		}
		m.NParams += 1
		i = skipWhite(toks, i+1)
		if i >= len(toks) {
			return 0, badDirective(g, toks, i, "missing ) in parameter list of %s", m.Name)
		}
		if toks[i].Is(")") {
			return i + 1, nil
		}
		if !toks[i].Is(",") || m.Variadic {
			return 0, badDirective(g, toks, i, "expected , or ) in parameter list of %s, found %q", m.Name, toks[i].Val)
		}
		i = skipWhite(toks, i+1)
	}
}

// parseUndef returns the macro name of an #undef line.
func parseUndef(g *Group) (string, error) {
	toks := g.Toks
	i := skipWhite(toks, directiveOperand(g))
	if i >= len(toks) || toks[i].Kind != IDENT {
		return "", badDirective(g, toks, i, "macro name missing in #undef")
	}
	name := toks[i].Val
	if extra := skipWhite(toks, i+1); extra < len(toks) {
		return "", badDirective(g, toks, extra, "extra tokens at end of #undef directive")
	}
	return name, nil
}

package cpp

import (
	"github.com/pkg/errors"
)

// Expander performs macro replacement on runs of text lines.
//
// Every token carries a hideset naming the macros it was produced by.
// An identifier is never replaced by a macro in its own hideset, and
// replacement only ever adds to hidesets, so expansion terminates even
// for self referential macros.
type Expander struct {
	macros *MacroTable
}

func NewExpander(macros *MacroTable) *Expander {
	return &Expander{macros: macros}
}

type cppbreakout struct {
	err error
}

func (ex *Expander) cppError(kind error, pos FilePos, format string, args ...interface{}) {
	panic(&cppbreakout{
		err: ErrWithLoc(errors.Wrapf(kind, format, args...), pos),
	})
}

// Expand returns toks with every macro invocation replaced.
func (ex *Expander) Expand(toks []*Token) (ret []*Token, err error) {
	defer func() {
		if e := recover(); e != nil {
			b := e.(*cppbreakout)
			ret = nil
			err = b.err
		}
	}()
	return ex.expand(toks), nil
}

func (ex *Expander) expand(toks []*Token) []*Token {
	tl := newTokenList(toks)
	out := make([]*Token, 0, len(toks))
	for !tl.isEmpty() {
		t := tl.popFront()
		if t.Kind != IDENT {
			out = append(out, t)
			continue
		}
		macro := ex.macros.Lookup(t.Val)
		if macro == nil || t.hs.contains(macro) {
			out = append(out, t)
			continue
		}
		hs := t.hs.add(macro)
		if macro.Kind == OBJECT_MACRO {
			replacement := make([]*Token, len(macro.Tokens))
			for i, rt := range macro.Tokens {
				replacement[i] = stamp(rt, hs)
				replacement[i].Pos = t.Pos
			}
			tl.prependList(replacement)
			continue
		}
		if !openParenFollows(tl) {
			out = append(out, t)
			continue
		}
		args := ex.readMacroInvokeArguments(tl, macro, t)
		tl.prependList(ex.subst(macro, args, hs, t.Pos))
	}
	return out
}

// stamp returns a copy of t with hs added to its hideset.
func stamp(t *Token, hs *hideset) *Token {
	ret := t.copy()
	if ret.Kind == IDENT {
		ret.hs = ret.hs.union(hs)
	}
	return ret
}

// openParenFollows consumes whitespace and a ( if the next
// significant token is a (. Otherwise nothing is consumed.
func openParenFollows(tl *tokenList) bool {
	n := 0
	for {
		t := tl.peek(n)
		if t == nil {
			return false
		}
		if t.Kind == WHITESPACE || t.Kind == NEWLINE {
			n += 1
			continue
		}
		if !t.Is("(") {
			return false
		}
		for i := 0; i <= n; i++ {
			tl.popFront()
		}
		return true
	}
}

// readMacroInvokeArguments reads the arguments of a macro invocation
// whose opening paren has already been consumed. The closing paren is
// consumed but belongs to no argument. Nested parens are kept.
// It returns one token list per argument with surrounding whitespace trimmed.
// e.g. FOO(BAR,(A,B),C)  -> { <BAR> , <(A,B)> , <C> }
// A variadic parameter takes every remaining argument, commas included.
func (ex *Expander) readMacroInvokeArguments(tl *tokenList, macro *Macro, name *Token) [][]*Token {
	parenDepth := 1
	args := make([][]*Token, 1, 4)
	for {
		if tl.isEmpty() {
			ex.cppError(ErrUnbalancedMacroArguments, name.Pos, "unterminated argument list invoking macro %s", macro.Name)
		}
		t := tl.popFront()
		if t.Kind == NEWLINE {
			t = &Token{Kind: WHITESPACE, Val: " ", Pos: t.Pos, hs: emptyHS}
		}
		argIdx := len(args) - 1
		switch {
		case t.Is("("):
			parenDepth += 1
			args[argIdx] = append(args[argIdx], t)
		case t.Is(")"):
			parenDepth -= 1
			if parenDepth == 0 {
				return ex.checkArgs(macro, name, args)
			}
			args[argIdx] = append(args[argIdx], t)
		case t.Is(",") && parenDepth == 1 && !(macro.Variadic && len(args) == macro.NParams):
			args = append(args, nil)
		default:
			args[argIdx] = append(args[argIdx], t)
		}
	}
}

func (ex *Expander) checkArgs(macro *Macro, name *Token, args [][]*Token) [][]*Token {
	for i := range args {
		args[i] = trimWhite(args[i])
	}
	if macro.NParams == 0 && len(args) == 1 && len(args[0]) == 0 {
		return nil
	}
	if macro.Variadic && len(args) == macro.NParams-1 {
		args = append(args, nil)
	}
	if len(args) != macro.NParams {
		ex.cppError(ErrMacroArgumentCount, name.Pos, "macro %s invoked with %d arguments but %d were expected", macro.Name, len(args), macro.NParams)
	}
	return args
}

// subst builds the replacement of a function like macro invocation.
// Each argument is fully macro expanded on its own before it is
// substituted for its parameter.
func (ex *Expander) subst(macro *Macro, args [][]*Token, hs *hideset, invokePos FilePos) []*Token {
	expanded := make([][]*Token, len(args))
	done := make([]bool, len(args))
	ret := make([]*Token, 0, len(macro.Tokens))
	for _, t := range macro.Tokens {
		idx, isArg := macro.paramIndex(t)
		if isArg {
			if !done[idx] {
				expanded[idx] = ex.expand(args[idx])
				done[idx] = true
			}
			for _, at := range expanded[idx] {
				ret = append(ret, stamp(at, hs))
			}
			continue
		}
		tcpy := stamp(t, hs)
		tcpy.Pos = invokePos
		ret = append(ret, tcpy)
	}
	return ret
}

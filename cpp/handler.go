package cpp

type DirectiveHandler interface {
	// HandleDirective is invoked, in source order, for every directive line
	// other than #define, #undef and the null directive.
	// g.Toks holds the line between its two newlines, starting at the #.
	// A returned error aborts preprocessing.
	HandleDirective(g *Group) error
}

// DirectiveFunc adapts a plain function to a DirectiveHandler.
type DirectiveFunc func(g *Group) error

func (f DirectiveFunc) HandleDirective(g *Group) error {
	return f(g)
}

// DirectiveRecorder keeps every directive it is handed.
type DirectiveRecorder struct {
	Groups []*Group
}

func (dr *DirectiveRecorder) HandleDirective(g *Group) error {
	dr.Groups = append(dr.Groups, g)
	return nil
}

// Operand returns the tokens after the directive name, surrounding
// whitespace trimmed. For #include "foo.h" this is the header name.
func (g *Group) Operand() []*Token {
	if g.Kind == DIR_TEXT || g.Kind == DIR_NULL {
		return nil
	}
	i := directiveOperand(g)
	if i > len(g.Toks) {
		return nil
	}
	return trimWhite(g.Toks[i:])
}

package cpp

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Preprocessor runs one translation unit through the pipeline:
// lex, classify into directive lines and text, apply #define and
// #undef, expand text and emit the result to a Sink.
type Preprocessor struct {
	lx     *Lexer
	macros *MacroTable
	ex     *Expander
	dh     DirectiveHandler
	log    logrus.FieldLogger
}

type Option func(*Preprocessor)

// WithLogger sets the logger macro definitions and directive hand offs
// are reported to at debug level.
func WithLogger(log logrus.FieldLogger) Option {
	return func(pp *Preprocessor) {
		pp.log = log
	}
}

// New creates a preprocessor reading from l. Directives other than
// #define and #undef are passed to dh, which may be nil to drop them.
func New(l *Lexer, dh DirectiveHandler, opts ...Option) *Preprocessor {
	ret := new(Preprocessor)
	ret.lx = l
	ret.dh = dh
	ret.macros = NewMacroTable()
	ret.ex = NewExpander(ret.macros)
	ret.log = logrus.StandardLogger()
	for _, o := range opts {
		o(ret)
	}
	return ret
}

func (pp *Preprocessor) Macros() *MacroTable {
	return pp.macros
}

// Define adds an object like macro as if the line
//
//	#define name value
//
// preceded the source.
func (pp *Preprocessor) Define(name, value string) error {
	line := "#define " + name + " " + value + "\n"
	toks, err := Tokenize(Lex("<command line>", []rune(line)))
	if err != nil {
		return err
	}
	groups, err := Classify(toks)
	if err != nil {
		return err
	}
	if len(groups) != 1 || groups[0].Kind != DIR_DEFINE {
		return errors.Wrapf(ErrBadDirectiveSyntax, "bad macro definition %s=%s", name, value)
	}
	return pp.handleDefine(groups[0])
}

func (pp *Preprocessor) Undef(name string) {
	if pp.macros.Undef(name) {
		pp.log.WithField("macro", name).Debug("undefined macro")
	}
}

// Run preprocesses the whole unit. Output stops at the first error,
// tokens already emitted are not retracted.
func (pp *Preprocessor) Run(out Sink) error {
	toks, err := Tokenize(pp.lx)
	if err != nil {
		return err
	}
	groups, err := Classify(toks)
	if err != nil {
		return err
	}
	for _, g := range groups {
		switch g.Kind {
		case DIR_TEXT:
			expanded, err := pp.ex.Expand(g.Toks)
			if err != nil {
				return err
			}
			for _, t := range expanded {
				Emit(out, t)
			}
		case DIR_DEFINE:
			err = pp.handleDefine(g)
		case DIR_UNDEF:
			err = pp.handleUndef(g)
		case DIR_NULL:
		default:
			err = pp.handOff(g)
		}
		if err != nil {
			return err
		}
	}
	out.EmitEOF()
	return nil
}

func (pp *Preprocessor) handleDefine(g *Group) error {
	m, err := parseDefine(g)
	if err != nil {
		return err
	}
	pp.macros.Define(m)
	pp.log.WithFields(logrus.Fields{
		"macro":  m.Name,
		"params": m.NParams,
		"pos":    g.Pos.String(),
	}).Debug("defined macro")
	return nil
}

func (pp *Preprocessor) handleUndef(g *Group) error {
	name, err := parseUndef(g)
	if err != nil {
		return err
	}
	pp.Undef(name)
	return nil
}

func (pp *Preprocessor) handOff(g *Group) error {
	pp.log.WithFields(logrus.Fields{
		"directive": g.Kind.String(),
		"pos":       g.Pos.String(),
	}).Debug("passing directive on")
	if pp.dh == nil {
		return nil
	}
	return pp.dh.HandleDirective(g)
}

package cpp

import "sort"

// Data structures representing macros inside the preprocessor.
// These should be immutable once defined.

type MacroKind int

const (
	OBJECT_MACRO MacroKind = iota
	FUNC_MACRO
)

// The identifier naming the variadic parameter inside a replacement list.
const vaArgs = "__VA_ARGS__"

type Macro struct {
	Name string
	Kind MacroKind
	// Map of parameter name to parameter position, 0 based.
	// A variadic parameter is stored under __VA_ARGS__.
	Params   map[string]int
	NParams  int
	Variadic bool
	// Replacement list.
	Tokens []*Token
}

// paramIndex reports which parameter t refers to, if any.
func (m *Macro) paramIndex(t *Token) (int, bool) {
	if m.Kind != FUNC_MACRO || t.Kind != IDENT {
		return 0, false
	}
	idx, ok := m.Params[t.Val]
	return idx, ok
}

// MacroTable holds the macros of one translation unit.
type MacroTable struct {
	macros map[string]*Macro
}

func NewMacroTable() *MacroTable {
	return &MacroTable{macros: make(map[string]*Macro)}
}

// Define adds m, replacing any previous macro of the same name.
func (mt *MacroTable) Define(m *Macro) {
	mt.macros[m.Name] = m
}

// Undef removes the named macro. It reports whether it was defined.
func (mt *MacroTable) Undef(name string) bool {
	_, ok := mt.macros[name]
	delete(mt.macros, name)
	return ok
}

func (mt *MacroTable) Lookup(name string) *Macro {
	return mt.macros[name]
}

func (mt *MacroTable) IsDefined(name string) bool {
	_, ok := mt.macros[name]
	return ok
}

func (mt *MacroTable) Len() int {
	return len(mt.macros)
}

// Names returns the defined macro names in sorted order.
func (mt *MacroTable) Names() []string {
	ret := make([]string, 0, len(mt.macros))
	for name := range mt.macros {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/andrewchambers/cxxpp/cpp"
	"github.com/fatih/color"
	"github.com/pkg/errors"
)

// reportError prints err and, when it carries a position inside file,
// the offending source line with a caret under the column.
func reportError(w io.Writer, err error, file string, src []rune) {
	red := color.New(color.FgRed, color.Bold)
	green := color.New(color.FgGreen)

	red.Fprint(w, "error: ")
	fmt.Fprintln(w, err)

	var errLoc cpp.ErrorLoc
	if !errors.As(err, &errLoc) {
		return
	}
	pos := errLoc.Pos
	if pos.File != file || src == nil {
		return
	}
	line, ok := sourceLine(src, pos.Line)
	if !ok {
		return
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, string(line))
	var caret strings.Builder
	for i := 0; i < pos.Col-1 && i < len(line); i++ {
		// Keep tabs so the caret lines up however they are displayed.
		if line[i] == '\t' {
			caret.WriteByte('\t')
		} else {
			caret.WriteByte(' ')
		}
	}
	fmt.Fprint(w, caret.String())
	green.Fprintln(w, "^")
}

// sourceLine returns line number lineno, 1 based, without its newline.
func sourceLine(src []rune, lineno int) ([]rune, bool) {
	cur := 1
	start := 0
	for i, r := range src {
		if r != '\n' {
			continue
		}
		if cur == lineno {
			return src[start:i], true
		}
		cur += 1
		start = i + 1
	}
	if cur == lineno && start < len(src) {
		return src[start:], true
	}
	return nil, false
}

package cpp

// tokenList is the expansion worklist. Replacement lists are pushed
// onto the front as whole runs, so a prepend does not copy the tokens
// already pending.
type tokenList struct {
	// The last run is the front of the list.
	runs [][]*Token
}

func newTokenList(toks []*Token) *tokenList {
	return &tokenList{runs: [][]*Token{toks}}
}

func (tl *tokenList) isEmpty() bool {
	for len(tl.runs) > 0 && len(tl.runs[len(tl.runs)-1]) == 0 {
		tl.runs = tl.runs[:len(tl.runs)-1]
	}
	return len(tl.runs) == 0
}

func (tl *tokenList) popFront() *Token {
	if tl.isEmpty() {
		panic("internal error")
	}
	front := tl.runs[len(tl.runs)-1]
	tl.runs[len(tl.runs)-1] = front[1:]
	return front[0]
}

// peek returns the n'th pending token, 0 being the front, or nil.
func (tl *tokenList) peek(n int) *Token {
	for i := len(tl.runs) - 1; i >= 0; i-- {
		if n < len(tl.runs[i]) {
			return tl.runs[i][n]
		}
		n -= len(tl.runs[i])
	}
	return nil
}

func (tl *tokenList) prependList(toks []*Token) {
	if len(toks) == 0 {
		return
	}
	tl.runs = append(tl.runs, toks)
}

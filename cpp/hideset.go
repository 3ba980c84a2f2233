package cpp

// The hideset of a token is the set of macros whose expansion resulted in the token.
//
// Hidesets prevent infinite macro expansion.
// It is implemented as an immutable singly linked list, so adding a macro
// allocates one node and shares the rest with every other token stamped
// from the same expansion. Hidesets are small in practice.

type hideset struct {
	r   *hideset
	val *Macro
}

var emptyHS *hideset = nil

func (hs *hideset) rest() *hideset {
	if hs == emptyHS {
		return emptyHS
	}
	return hs.r
}

func (hs *hideset) len() int {
	n := 0
	for ; hs != emptyHS; hs = hs.r {
		n += 1
	}
	return n
}

func (hs *hideset) contains(m *Macro) bool {
	for ; hs != emptyHS; hs = hs.r {
		if hs.val == m {
			return true
		}
	}
	return false
}

func (hs *hideset) add(m *Macro) *hideset {
	if hs.contains(m) {
		return hs
	}
	return &hideset{
		r:   hs,
		val: m,
	}
}

// union returns a set holding the members of both hs and b.
// The result shares structure with b.
func (hs *hideset) union(b *hideset) *hideset {
	if hs == emptyHS {
		return b
	}
	if b == emptyHS {
		return hs
	}
	for hs != emptyHS {
		b = b.add(hs.val)
		hs = hs.rest()
	}
	return b
}

package cpp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHideset(t *testing.T) {
	a := &Macro{Name: "A"}
	b := &Macro{Name: "B"}
	c := &Macro{Name: "C"}

	hs := emptyHS
	assert.Equal(t, 0, hs.len())
	assert.False(t, hs.contains(a))

	hsA := hs.add(a)
	hsAB := hsA.add(b)
	assert.True(t, hsAB.contains(a))
	assert.True(t, hsAB.contains(b))
	assert.False(t, hsAB.contains(c))
	assert.Equal(t, 2, hsAB.len())

	// Adding never modifies the set added to.
	assert.Equal(t, 1, hsA.len())
	assert.False(t, hsA.contains(b))

	// Adding a member is a no-op.
	assert.Same(t, hsAB, hsAB.add(a))

	// Same name, different definition.
	a2 := &Macro{Name: "A"}
	assert.False(t, hsA.contains(a2))
}

func TestHidesetUnion(t *testing.T) {
	a := &Macro{Name: "A"}
	b := &Macro{Name: "B"}
	c := &Macro{Name: "C"}

	left := emptyHS.add(a).add(b)
	right := emptyHS.add(b).add(c)
	u := left.union(right)
	assert.Equal(t, 3, u.len())
	for _, m := range []*Macro{a, b, c} {
		assert.True(t, u.contains(m), m.Name)
	}
	assert.Equal(t, 2, left.len())
	assert.Equal(t, 2, right.len())

	assert.Same(t, right, emptyHS.union(right))
	assert.Same(t, left, left.union(emptyHS))
	assert.Same(t, right, emptyHS.add(c).union(right))
}

package cpp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"plain", "int x;", "int x;"},
		{"trigraphs", "??=??(??)??<??>??!??'??-", "#[]{}|^~"},
		{"trigraph define", "??=define X 1\n", "#define X 1\n"},
		{"not a trigraph", "??x ?? ?", "??x ?? ?"},
		{"question marks before trigraph", "???=", "?#"},
		{"splice", "#def\\\nine X 1\n", "#define X 1\n"},
		{"double splice", "a\\\n\\\nb", "ab"},
		{"trigraph splice", "a??/\nb", "ab"},
		{"backslash not before newline", "a\\ \nb", "a\\ \nb"},
		{"splice at end", "a\\\n", "a"},
		{"short ucn", "\\u00e9", "é"},
		{"long ucn", "\\U0001F600", "\U0001F600"},
		{"ucn after trigraph backslash", "??/u0041", "A"},
		{"incomplete ucn", "\\u12G4", "\\u12G4"},
		{"ucn past unicode range", "\\UFFFFFFFF x", "\\UFFFFFFFF x"},
		{"ucn with high bit set", "\\U80000000", "\\U80000000"},
		{"ucn just past max", "\\U00110000", "\\U00110000"},
		{"ucn surrogate", "\\uD800", "\\uD800"},
		{"ucn max", "\\U0010FFFF", "\U0010FFFF"},
		{"ucn split by splice is not decoded", "\\u00\\\ne9", "\\u00e9"},
		{"other escapes untouched", "\"\\n\\t\"", "\"\\n\\t\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(Translate([]rune(tt.src))))
		})
	}
}

func TestTranslateIdempotent(t *testing.T) {
	for _, src := range []string{
		"int main() { return 0; }\n",
		"#define F(x) x+x\nF(F(1))\n",
		"s = \"é\" 'x' ?? ?",
	} {
		once := Translate([]rune(src))
		assert.Equal(t, string(once), string(Translate(once)), src)
	}
}

func TestCursorRetreat(t *testing.T) {
	c := NewCursor([]rune("a??=b"))
	assert.Equal(t, 'a', c.Advance())
	assert.Equal(t, '#', c.Advance())
	c.Retreat()
	assert.Equal(t, '#', c.Peek())
	assert.Equal(t, 1, c.Offset())
	c.Advance()
	assert.Equal(t, 4, c.Offset())
	assert.Equal(t, 'b', c.Advance())

	assert.Equal(t, endOfInput, c.Advance())
	assert.Equal(t, endOfInput, c.Advance())
	c.Retreat()
	c.Retreat()
	assert.Equal(t, endOfInput, c.Peek())
	c.Retreat()
	assert.Equal(t, 'b', c.Peek())
}

func TestCursorMarkReset(t *testing.T) {
	c := NewCursor([]rune("abc"))
	c.Advance()
	mark := c.Mark()
	c.Advance()
	c.Advance()
	assert.Equal(t, endOfInput, c.Peek())
	c.Reset(mark)
	assert.Equal(t, 'b', c.Peek())
}

func TestCursorRetreatAtStartPanics(t *testing.T) {
	c := NewCursor([]rune("a"))
	assert.Panics(t, func() { c.Retreat() })
}

func TestCursorRawMode(t *testing.T) {
	c := NewCursor([]rune("a??=\\u0041\\\nb"))
	require.Equal(t, 'a', c.Advance())
	// Translated lookahead is discarded by the switch.
	require.Equal(t, '#', c.Peek())
	c.SetRawMode(true)
	var raw []rune
	for i := 0; i < 11; i++ {
		raw = append(raw, c.Advance())
	}
	assert.Equal(t, "??=\\u0041\\\n", string(raw))
	c.SetRawMode(false)
	assert.Equal(t, 'b', c.Advance())
	assert.Equal(t, endOfInput, c.Peek())
}

func TestCursorRawModeResumesAfterTranslatedUnit(t *testing.T) {
	c := NewCursor([]rune("??=??="))
	require.Equal(t, '#', c.Advance())
	c.SetRawMode(true)
	assert.Equal(t, 3, c.Offset())
	assert.Equal(t, '?', c.Advance())
	c.SetRawMode(false)
	// The remaining "?=" is no trigraph.
	assert.Equal(t, '?', c.Advance())
	assert.Equal(t, '=', c.Advance())
}

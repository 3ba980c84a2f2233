package cpp

import "sort"

type runeRange struct {
	lo, hi rune
}

// Characters allowed in identifiers, C++11 Annex E.1.
var identAllowed = []runeRange{
	{0xA8, 0xA8}, {0xAA, 0xAA}, {0xAD, 0xAD}, {0xAF, 0xAF},
	{0xB2, 0xB5}, {0xB7, 0xBA}, {0xBC, 0xBE}, {0xC0, 0xD6},
	{0xD8, 0xF6}, {0xF8, 0xFF}, {0x100, 0x167F}, {0x1681, 0x180D},
	{0x180F, 0x1FFF}, {0x200B, 0x200D}, {0x202A, 0x202E}, {0x203F, 0x2040},
	{0x2054, 0x2054}, {0x2060, 0x206F}, {0x2070, 0x218F}, {0x2460, 0x24FF},
	{0x2776, 0x2793}, {0x2C00, 0x2DFF}, {0x2E80, 0x2FFF}, {0x3004, 0x3007},
	{0x3021, 0x302F}, {0x3031, 0x303F}, {0x3040, 0xD7FF}, {0xF900, 0xFD3D},
	{0xFD40, 0xFDCF}, {0xFDF0, 0xFE44}, {0xFE47, 0xFFFD},
	{0x10000, 0x1FFFD}, {0x20000, 0x2FFFD}, {0x30000, 0x3FFFD}, {0x40000, 0x4FFFD},
	{0x50000, 0x5FFFD}, {0x60000, 0x6FFFD}, {0x70000, 0x7FFFD}, {0x80000, 0x8FFFD},
	{0x90000, 0x9FFFD}, {0xA0000, 0xAFFFD}, {0xB0000, 0xBFFFD}, {0xC0000, 0xCFFFD},
	{0xD0000, 0xDFFFD}, {0xE0000, 0xEFFFD},
}

// Characters not allowed to start an identifier, C++11 Annex E.2.
var identDisallowedInitially = []runeRange{
	{0x300, 0x36F}, {0x1DC0, 0x1DFF}, {0x20D0, 0x20FF}, {0xFE20, 0xFE2F},
}

func inRanges(ranges []runeRange, r rune) bool {
	i := sort.Search(len(ranges), func(i int) bool { return ranges[i].hi >= r })
	return i < len(ranges) && ranges[i].lo <= r
}

func isIdentUCN(r rune) bool {
	return inRanges(identAllowed, r)
}

func isValidIdentStart(r rune) bool {
	if isNonDigit(r) {
		return true
	}
	return isIdentUCN(r) && !inRanges(identDisallowedInitially, r)
}

func isValidIdentTail(r rune) bool {
	return isNonDigit(r) || isNumeric(r) || isIdentUCN(r)
}

func isNonDigit(r rune) bool {
	return r == '_' || isAlpha(r)
}

func isAlpha(r rune) bool {
	if r >= 'a' && r <= 'z' {
		return true
	}
	if r >= 'A' && r <= 'Z' {
		return true
	}
	return false
}

func isNumeric(r rune) bool {
	return r >= '0' && r <= '9'
}

func isOctalDigit(r rune) bool {
	return r >= '0' && r <= '7'
}

func isHexDigit(r rune) bool {
	return hexDigitValue(r) >= 0
}

// Newlines are not whitespace here, they are tokens of their own.
func isWhiteSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\v' || r == '\f' || r == '\r'
}

func isPunctuatorStart(r rune) bool {
	switch r {
	case '{', '}', '[', ']', '#', '(', ')', '<', '>', '%', ':', ';', '.',
		'?', '+', '-', '*', '/', '^', '&', '|', '~', '!', '=', ',':
		return true
	}
	return false
}

// d-char: a raw string delimiter character.
func isDChar(r rune) bool {
	if r < 0 || r > 0x7e {
		return false
	}
	switch r {
	case ' ', '(', ')', '\\', '\t', '\v', '\f', '\n':
		return false
	}
	return isBasicSourceChar(r)
}

func isBasicSourceChar(r rune) bool {
	if isAlpha(r) || isNumeric(r) {
		return true
	}
	switch r {
	case '_', '{', '}', '[', ']', '#', '(', ')', '<', '>', '%', ':', ';',
		'.', '?', '*', '+', '-', '/', '^', '&', '|', '~', '!', '=', ',',
		'"', '\'', ' ', '\t', '\v', '\f', '\n', '\\':
		return true
	}
	return false
}

var encodingPrefixes = map[string]bool{
	"u8": true,
	"u":  true,
	"U":  true,
	"L":  true,
}

var rawPrefixes = map[string]bool{
	"u8R": true,
	"uR":  true,
	"UR":  true,
	"LR":  true,
	"R":   true,
}

func isSimpleEscape(r rune) bool {
	switch r {
	case '\'', '"', '?', '\\', 'a', 'b', 'f', 'n', 'r', 't', 'v':
		return true
	}
	return false
}

// Package source converts between source file bytes and the code
// points the preprocessor works on.
package source

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// UTF8BOM is the utf-8 byte-order marker
var UTF8BOM = []byte{'\xef', '\xbb', '\xbf'}

var (
	ErrBadEncoding     = errors.New("bad source encoding")
	ErrUnknownEncoding = errors.New("unknown source encoding")
)

// EndOfInput is the code point marking the end of the source. It is
// never produced by Decode and never encoded.
const EndOfInput rune = -1

// Decode converts content into code points. label names the source
// encoding: "" or "utf-8" for strict UTF-8, "auto" to detect it, or
// any label known to golang.org/x/net/html/charset such as "latin1"
// or "shift_jis".
func Decode(content []byte, label string) ([]rune, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "auto" {
		detected, err := DetectEncoding(content)
		if err != nil {
			return nil, errors.Wrap(ErrUnknownEncoding, err.Error())
		}
		label = strings.ToLower(detected)
	}
	switch label {
	case "", "utf-8", "utf8":
		return decodeUTF8(RemoveBOM(content))
	}
	enc, name := charset.Lookup(label)
	if enc == nil {
		return nil, errors.Wrapf(ErrUnknownEncoding, "%q", label)
	}
	if name == "utf-8" {
		return decodeUTF8(RemoveBOM(content))
	}
	result, n, err := transform.Bytes(enc.NewDecoder(), content)
	if err != nil {
		return nil, errors.Wrapf(ErrBadEncoding, "cannot decode %s at byte %d: %s", name, n, err)
	}
	return decodeUTF8(RemoveBOM(result))
}

func decodeUTF8(content []byte) ([]rune, error) {
	ret := make([]rune, 0, len(content))
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError && size <= 1 {
			return nil, errors.Wrapf(ErrBadEncoding, "invalid utf-8 at byte %d", i)
		}
		ret = append(ret, r)
		i += size
	}
	return ret, nil
}

// RemoveBOM drops a leading UTF-8 BOM.
func RemoveBOM(content []byte) []byte {
	if len(content) > 2 && bytes.Equal(content[0:3], UTF8BOM) {
		return content[3:]
	}
	return content
}

// DetectEncoding guesses the encoding of content. Valid UTF-8 is
// always reported as "UTF-8".
func DetectEncoding(content []byte) (string, error) {
	if utf8.Valid(content) {
		return "UTF-8", nil
	}

	textDetector := chardet.NewTextDetector()
	var detectContent []byte
	if len(content) < 1024 {
		// The detector needs a reasonable amount of input to be stable.
		times := 1024 / len(content)
		detectContent = make([]byte, 0, times*len(content))
		for i := 0; i < times; i++ {
			detectContent = append(detectContent, content...)
		}
	} else {
		detectContent = content
	}
	result, err := textDetector.DetectBest(detectContent)
	if err != nil {
		return "", err
	}
	return result.Charset, nil
}

// Encode converts code points back to UTF-8 text.
func Encode(cps []rune) string {
	var buf strings.Builder
	buf.Grow(len(cps))
	for _, r := range cps {
		if r == EndOfInput {
			continue
		}
		buf.WriteRune(r)
	}
	return buf.String()
}

// AppendNewline returns cps ending in a newline. Empty input is left
// empty.
func AppendNewline(cps []rune) []rune {
	if len(cps) == 0 || cps[len(cps)-1] == '\n' {
		return cps
	}
	return append(cps[:len(cps):len(cps)], '\n')
}

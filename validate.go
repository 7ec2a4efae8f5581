package cvpdf

import (
	"strings"
	"unicode/utf8"
)

const (
	minBinarySample = 64
	maxControlPct   = 2
)

// ValidateInput returns an error if the input is not valid UTF-8 or appears binary.
func ValidateInput(src []byte) error {
	if !utf8.Valid(src) {
		return ErrInvalidUTF8
	}
	var total, control int
	for _, b := range src {
		total++
		if b == 0x00 {
			return ErrBinaryInput
		}
		if isControlByte(b) {
			control++
		}
	}
	if total >= minBinarySample && control*100 >= total*maxControlPct {
		return ErrBinaryInput
	}
	return nil
}

func isControlByte(b byte) bool {
	if b < 0x09 {
		return true
	}
	if b > 0x0D && b < 0x20 {
		return true
	}
	if b == 0x7F {
		return true
	}
	return false
}

func isControlRune(r rune) bool {
	if r == '\n' || r == '\t' {
		return false
	}
	if r < 0x20 || r == 0x7F {
		return true
	}
	return false
}

// normalizeInput folds CRLF and lone CR line endings to LF and drops
// invalid bytes and control runes other than tab and newline.
func normalizeInput(src string) string {
	if strings.IndexByte(src, '\r') >= 0 {
		src = strings.ReplaceAll(src, "\r\n", "\n")
		src = strings.ReplaceAll(src, "\r", "\n")
	}
	clean := true
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		if (r == utf8.RuneError && size == 1) || isControlRune(r) || r == '\uFEFF' {
			clean = false
			break
		}
		i += size
	}
	if clean {
		return src
	}
	var b strings.Builder
	b.Grow(len(src))
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		if (r == utf8.RuneError && size == 1) || isControlRune(r) || r == '\uFEFF' {
			i += size
			continue
		}
		b.WriteString(src[i : i+size])
		i += size
	}
	return b.String()
}

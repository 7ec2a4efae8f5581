package cvpdf

import (
	"strings"
	"unicode/utf8"

	"github.com/muesli/reflow/ansi"
)

// WidthFunc returns the drawn width of text in the current font.
type WidthFunc func(text string) float64

// TextMeasurer predicts how many lines text occupies when wrapped to width.
// Implementations must use the same font metrics and wrapping rule as the
// canvas that later draws the text.
type TextMeasurer interface {
	WrappedLineCount(text string, width float64) int
}

// WrapText greedily breaks text into lines no wider than width. Words keep
// their trailing whitespace, so the lines concatenate back to text. A word
// wider than a whole line is split between runes. At least one line is
// returned.
func WrapText(text string, width float64, measure WidthFunc) []string {
	var (
		lines []string
		line  strings.Builder
		lineW float64
	)
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineW = 0
	}
	for _, seg := range splitWords(text) {
		word := strings.TrimRight(seg, " \t")
		wordW := measure(word)
		if lineW > 0 && lineW+wordW > width {
			flush()
		}
		if wordW > width && lineW == 0 {
			parts := splitRunesToWidth(word, width, measure)
			for _, part := range parts[:len(parts)-1] {
				line.WriteString(part)
				flush()
			}
			seg = parts[len(parts)-1] + seg[len(word):]
		}
		line.WriteString(seg)
		lineW += measure(seg)
	}
	if line.Len() > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// splitWords splits text into words, each carrying the whitespace that
// follows it. Leading whitespace forms its own segment.
func splitWords(text string) []string {
	var out []string
	start := 0
	inSpace := false
	for i, r := range text {
		space := r == ' ' || r == '\t'
		if !space && inSpace && i > start {
			out = append(out, text[start:i])
			start = i
		}
		inSpace = space
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

// splitRunesToWidth cuts a single word into chunks no wider than width; a
// chunk always holds at least one rune.
func splitRunesToWidth(word string, width float64, measure WidthFunc) []string {
	var parts []string
	start := 0
	for start < len(word) {
		end := start
		for end < len(word) {
			_, size := utf8.DecodeRuneInString(word[end:])
			if end > start && measure(word[start:end+size]) > width {
				break
			}
			end += size
		}
		parts = append(parts, word[start:end])
		start = end
	}
	if len(parts) == 0 {
		parts = append(parts, "")
	}
	return parts
}

// ColumnMeasurer measures text on a fixed-pitch grid: every printable cell
// is CharWidth units wide. It wraps with the same rule as WrapText.
type ColumnMeasurer struct {
	CharWidth float64
}

// StringWidth returns the width of text in units.
func (m ColumnMeasurer) StringWidth(text string) float64 {
	return float64(ansi.PrintableRuneWidth(text)) * m.CharWidth
}

// WrappedLineCount implements TextMeasurer.
func (m ColumnMeasurer) WrappedLineCount(text string, width float64) int {
	return len(WrapText(text, width, m.StringWidth))
}

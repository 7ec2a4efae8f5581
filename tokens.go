package cvpdf

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// RunStyle identifies how a run of inline text is drawn.
type RunStyle uint8

const (
	// RunPlain is regular body text.
	RunPlain RunStyle = iota
	// RunBold is text wrapped in **double asterisks**.
	RunBold
	// RunLink is an explicit [label](target) link.
	RunLink
	// RunAutoLink is a URL, e-mail address or phone number detected in raw text.
	RunAutoLink
)

func (s RunStyle) String() string {
	switch s {
	case RunPlain:
		return "plain"
	case RunBold:
		return "bold"
	case RunLink:
		return "link"
	case RunAutoLink:
		return "autolink"
	default:
		return "unknown"
	}
}

// Run is a contiguous span of a line sharing one inline style.
//
// Text is the visible text, Raw the exact source span it was scanned from.
// Concatenating Raw over all runs of a line yields the line; concatenating
// Text yields the line with Markdown delimiters removed.
type Run struct {
	Text   string
	Raw    string
	Style  RunStyle
	Target string
}

// IsLink reports whether the run carries a link target.
func (r Run) IsLink() bool {
	return r.Style == RunLink || r.Style == RunAutoLink
}

// Rules are anchored and tried in order at every position; the first one that
// matches consumes its span.
var (
	linkPattern  = regexp.MustCompile(`^\[(.*?)\]\((.*?)\)`)
	boldPattern  = regexp.MustCompile(`^\*\*(.*?)\*\*`)
	urlPattern   = regexp.MustCompile(`^https?://[^\s)\]]+`)
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`^\+\d(?: *\d)*`)
)

type runRule func(s string) (Run, int, bool)

var runRules = []runRule{
	matchLink,
	matchBold,
	matchURL,
	matchEmail,
	matchPhone,
}

// Tokenize splits a line into typed runs. It never fails: text no rule
// claims becomes RunPlain.
func Tokenize(line string) []Run {
	var (
		runs  []Run
		plain strings.Builder
	)
	flushPlain := func() {
		if plain.Len() == 0 {
			return
		}
		text := plain.String()
		runs = append(runs, Run{Text: text, Raw: text, Style: RunPlain})
		plain.Reset()
	}
	for i := 0; i < len(line); {
		if run, n, ok := matchRun(line[i:]); ok {
			flushPlain()
			runs = append(runs, run)
			i += n
			continue
		}
		_, size := utf8.DecodeRuneInString(line[i:])
		plain.WriteString(line[i : i+size])
		i += size
	}
	flushPlain()
	return runs
}

func matchRun(s string) (Run, int, bool) {
	for _, rule := range runRules {
		if run, n, ok := rule(s); ok {
			return run, n, true
		}
	}
	return Run{}, 0, false
}

// PlainText returns the visible text of a line with link and bold markup
// removed.
func PlainText(line string) string {
	runs := Tokenize(line)
	if len(runs) == 1 {
		return runs[0].Text
	}
	var b strings.Builder
	b.Grow(len(line))
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

func matchLink(s string) (Run, int, bool) {
	m := linkPattern.FindStringSubmatchIndex(s)
	if m == nil {
		return Run{}, 0, false
	}
	return Run{
		Text:   s[m[2]:m[3]],
		Raw:    s[:m[1]],
		Style:  RunLink,
		Target: s[m[4]:m[5]],
	}, m[1], true
}

func matchBold(s string) (Run, int, bool) {
	m := boldPattern.FindStringSubmatchIndex(s)
	if m == nil {
		return Run{}, 0, false
	}
	return Run{Text: s[m[2]:m[3]], Raw: s[:m[1]], Style: RunBold}, m[1], true
}

func matchURL(s string) (Run, int, bool) {
	n := len(urlPattern.FindString(s))
	if n == 0 {
		return Run{}, 0, false
	}
	return Run{Text: s[:n], Raw: s[:n], Style: RunAutoLink, Target: s[:n]}, n, true
}

func matchEmail(s string) (Run, int, bool) {
	n := len(emailPattern.FindString(s))
	if n == 0 {
		return Run{}, 0, false
	}
	return Run{Text: s[:n], Raw: s[:n], Style: RunAutoLink, Target: "mailto:" + s[:n]}, n, true
}

// Phone numbers carry this many digits after the plus sign.
const (
	minPhoneDigits = 8
	maxPhoneDigits = 16
)

// matchPhone takes the longest run of digits and spaces after a plus sign;
// it is a phone number only when the digit count is in range.
func matchPhone(s string) (Run, int, bool) {
	n := len(phonePattern.FindString(s))
	if n == 0 {
		return Run{}, 0, false
	}
	digits := phoneDigits(s[:n])
	if d := len(digits) - 1; d < minPhoneDigits || d > maxPhoneDigits {
		return Run{}, 0, false
	}
	return Run{Text: s[:n], Raw: s[:n], Style: RunAutoLink, Target: "tel:" + digits}, n, true
}

func phoneDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

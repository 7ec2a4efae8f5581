package cvpdf

import "strings"

// LineKind classifies a raw Markdown line.
type LineKind uint8

const (
	LineBlank LineKind = iota
	LineRule
	LineHeading2
	LineHeading3
	LineListItem
	LineParagraph
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineRule:
		return "rule"
	case LineHeading2:
		return "heading2"
	case LineHeading3:
		return "heading3"
	case LineListItem:
		return "list-item"
	case LineParagraph:
		return "paragraph"
	default:
		return "unknown"
	}
}

// RawLine is one source line and its classification.
type RawLine struct {
	Text string
	Kind LineKind
}

// Trimmed returns the line without surrounding whitespace.
func (l RawLine) Trimmed() string {
	return strings.TrimSpace(l.Text)
}

// Content returns the trimmed line without its block marker.
func (l RawLine) Content() string {
	t := l.Trimmed()
	switch l.Kind {
	case LineHeading2:
		return strings.TrimSpace(strings.TrimPrefix(t, "## "))
	case LineHeading3:
		return strings.TrimSpace(strings.TrimPrefix(t, "### "))
	case LineListItem:
		return strings.TrimPrefix(t, "- ")
	default:
		return t
	}
}

// ClassifyLine returns the kind of a raw line. Prefixes are matched on the
// trimmed text in a fixed order and the first match wins.
func ClassifyLine(text string) LineKind {
	t := strings.TrimSpace(text)
	switch {
	case t == "":
		return LineBlank
	case strings.HasPrefix(t, "---"):
		return LineRule
	case strings.HasPrefix(t, "## "):
		return LineHeading2
	case strings.HasPrefix(t, "### "):
		return LineHeading3
	case strings.HasPrefix(t, "- "):
		return LineListItem
	default:
		return LineParagraph
	}
}

func newRawLine(text string) RawLine {
	return RawLine{Text: text, Kind: ClassifyLine(text)}
}

// Section is a level-2 heading and the body lines up to the next one. The
// leading section of a document may have no heading.
type Section struct {
	Heading *RawLine
	Body    []RawLine
}

// Lines returns the heading, if any, followed by the body.
func (s Section) Lines() []RawLine {
	if s.Heading == nil {
		return s.Body
	}
	out := make([]RawLine, 0, len(s.Body)+1)
	out = append(out, *s.Heading)
	return append(out, s.Body...)
}

// Title returns the heading text without its marker, or "".
func (s Section) Title() string {
	if s.Heading == nil {
		return ""
	}
	return s.Heading.Content()
}

// Document is the parsed résumé: header lines above the first rule and the
// sections below it. It is not modified after Build returns.
type Document struct {
	Meta     Meta
	Header   []RawLine
	Sections []Section
}

// Name returns the text of the first "# " header line, or "".
func (d Document) Name() string {
	for _, l := range d.Header {
		t := l.Trimmed()
		if strings.HasPrefix(t, "# ") {
			return strings.TrimSpace(t[2:])
		}
	}
	return ""
}

const fence = "```"

// StripFence removes one code fence wrapping the whole text. The opening
// fence line (with any info string) and a closing fence are both required;
// otherwise only surrounding whitespace is trimmed.
func StripFence(text string) string {
	clean := strings.TrimSpace(text)
	if !strings.HasPrefix(clean, fence) {
		return clean
	}
	nl := strings.IndexByte(clean, '\n')
	if nl < 0 {
		return clean
	}
	inner := strings.TrimSpace(clean[nl:])
	if !strings.HasSuffix(inner, fence) {
		return clean
	}
	return strings.TrimSpace(strings.TrimSuffix(inner, fence))
}

// Build parses Markdown text into a Document. It never fails: input without
// a rule line becomes a header with no sections.
func Build(markdown string) Document {
	text := StripFence(normalizeInput(markdown))
	meta, text := splitFrontMatter(text)

	var doc Document
	doc.Meta = meta
	lines := strings.Split(text, "\n")
	bodyStart := len(lines)
	for i, l := range lines {
		raw := newRawLine(l)
		if raw.Kind == LineRule {
			bodyStart = i + 1
			break
		}
		doc.Header = append(doc.Header, raw)
	}
	if bodyStart >= len(lines) {
		return doc
	}

	var current *Section
	for _, l := range lines[bodyStart:] {
		raw := newRawLine(l)
		if raw.Kind == LineHeading2 {
			if current != nil {
				doc.Sections = append(doc.Sections, *current)
			}
			heading := raw
			current = &Section{Heading: &heading}
			continue
		}
		if current == nil {
			current = &Section{}
		}
		current.Body = append(current.Body, raw)
	}
	if current != nil {
		doc.Sections = append(doc.Sections, *current)
	}
	return doc
}

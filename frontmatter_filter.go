package cvpdf

import (
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Meta is document metadata lifted from a leading YAML front-matter block.
type Meta struct {
	Title    string   `yaml:"title,omitempty"`
	Author   string   `yaml:"author,omitempty"`
	Subject  string   `yaml:"subject,omitempty"`
	Keywords []string `yaml:"keywords,omitempty"`
	Creator  string   `yaml:"creator,omitempty"`
}

// IsZero reports whether no metadata field is set.
func (m Meta) IsZero() bool {
	return m.Title == "" && m.Author == "" && m.Subject == "" && len(m.Keywords) == 0 && m.Creator == ""
}

const frontMatterDelimiter = "---"

// splitFrontMatter removes a leading front-matter block and decodes it.
// The block is kept as document text unless it decodes into Meta with only
// known keys and sets at least one field; a résumé may open with a rule
// followed by a "Label: value" line.
func splitFrontMatter(text string) (Meta, string) {
	openLine, rest, ok := cutLine(text)
	if !ok || strings.TrimSpace(openLine) != frontMatterDelimiter {
		return Meta{}, text
	}
	secondLine, _, _ := cutLine(rest)
	if !frontMatterMetadataLikely(secondLine) {
		return Meta{}, text
	}
	block, body, found := findClosingFrontMatterDelimiter(rest)
	if !found {
		return Meta{}, text
	}
	var meta Meta
	dec := yaml.NewDecoder(strings.NewReader(block))
	dec.KnownFields(true)
	if err := dec.Decode(&meta); err != nil || meta.IsZero() {
		return Meta{}, text
	}
	return meta, body
}

func cutLine(text string) (line, rest string, ok bool) {
	if text == "" {
		return "", "", false
	}
	line, rest, found := strings.Cut(text, "\n")
	if !found {
		return line, "", true
	}
	return line, rest, true
}

func frontMatterMetadataLikely(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	key, _, found := strings.Cut(trimmed, ":")
	return found && key != "" && !strings.ContainsAny(key, " \t#[*")
}

func findClosingFrontMatterDelimiter(text string) (block, body string, found bool) {
	for idx := 0; idx < len(text); {
		line, _, _ := cutLine(text[idx:])
		next := idx + len(line) + 1
		if strings.TrimSpace(line) == frontMatterDelimiter {
			if next > len(text) {
				next = len(text)
			}
			return text[:idx], text[next:], true
		}
		idx = next
	}
	return "", "", false
}

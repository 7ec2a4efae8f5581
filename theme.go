package cvpdf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Color is an RGB colour with 0-255 components.
type Color struct {
	R, G, B int
}

// RGB returns the components in canvas order.
func (c Color) RGB() (int, int, int) {
	return c.R, c.G, c.B
}

// Hex formats the colour as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColor parses #rrggbb or rrggbb.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid colour %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// Theme holds the colours used to draw a résumé.
type Theme struct {
	Name       string
	Text       Color
	Header     Color
	Heading    Color
	Link       Color
	Rule       Color
	Background Color
}

var white = Color{255, 255, 255}

// ColorOverrides replaces individual theme colours. Values are #rrggbb;
// empty fields keep the theme's colour.
type ColorOverrides struct {
	Text       string `yaml:"text,omitempty"`
	Header     string `yaml:"header,omitempty"`
	Heading    string `yaml:"heading,omitempty"`
	Link       string `yaml:"link,omitempty"`
	Rule       string `yaml:"rule,omitempty"`
	Background string `yaml:"background,omitempty"`
}

// WithOverrides returns a copy of t with the set colours of o applied.
func (t Theme) WithOverrides(o ColorOverrides) (Theme, error) {
	for _, f := range []struct {
		name  string
		value string
		dst   *Color
	}{
		{"text", o.Text, &t.Text},
		{"header", o.Header, &t.Header},
		{"heading", o.Heading, &t.Heading},
		{"link", o.Link, &t.Link},
		{"rule", o.Rule, &t.Rule},
		{"background", o.Background, &t.Background},
	} {
		if f.value == "" {
			continue
		}
		c, err := ParseColor(f.value)
		if err != nil {
			return Theme{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = c
	}
	return t, nil
}

var builtinThemes = map[string]Theme{
	"default": {
		Name:       "default",
		Text:       Color{0, 0, 0},
		Header:     Color{44, 62, 80},
		Heading:    Color{41, 128, 185},
		Link:       Color{41, 128, 185},
		Rule:       Color{200, 200, 200},
		Background: white,
	},
	"slate": {
		Name:       "slate",
		Text:       Color{33, 37, 41},
		Header:     Color{52, 58, 64},
		Heading:    Color{73, 80, 87},
		Link:       Color{13, 110, 253},
		Rule:       Color{206, 212, 218},
		Background: white,
	},
	"forest": {
		Name:       "forest",
		Text:       Color{20, 20, 20},
		Header:     Color{27, 67, 50},
		Heading:    Color{45, 106, 79},
		Link:       Color{64, 145, 108},
		Rule:       Color{183, 228, 199},
		Background: white,
	},
	"mono": {
		Name:       "mono",
		Text:       Color{0, 0, 0},
		Header:     Color{0, 0, 0},
		Heading:    Color{0, 0, 0},
		Link:       Color{0, 0, 0},
		Rule:       Color{160, 160, 160},
		Background: white,
	},
}

// AvailableThemes returns the names of built-in themes.
func AvailableThemes() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme by name.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return builtinThemes["default"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	theme, ok := builtinThemes[normalized]
	return theme, ok
}

// DefaultTheme returns the default built-in theme.
func DefaultTheme() Theme {
	return builtinThemes["default"]
}

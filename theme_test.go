package cvpdf

import (
	"strings"
	"testing"
)

func TestThemeByName(t *testing.T) {
	for _, name := range []string{"default", "slate", "forest", "mono"} {
		theme, ok := ThemeByName(name)
		if !ok {
			t.Fatalf("expected theme %q to be available", name)
		}
		if theme.Name != name {
			t.Fatalf("theme %q reports name %q", name, theme.Name)
		}
		if theme.Background != white {
			t.Fatalf("theme %q background %+v", name, theme.Background)
		}
	}
	if _, ok := ThemeByName(" Forest "); !ok {
		t.Fatalf("lookup should ignore case and spaces")
	}
	if theme, ok := ThemeByName(""); !ok || theme.Name != "default" {
		t.Fatalf("empty name should select the default theme")
	}
	if _, ok := ThemeByName("neon"); ok {
		t.Fatalf("unknown theme resolved")
	}

	available := AvailableThemes()
	for i := 1; i < len(available); i++ {
		if available[i-1] >= available[i] {
			t.Fatalf("themes not sorted: %v", available)
		}
	}
}

func TestDefaultThemeColors(t *testing.T) {
	theme := DefaultTheme()
	if theme.Header != (Color{44, 62, 80}) || theme.Heading != (Color{41, 128, 185}) || theme.Rule != (Color{200, 200, 200}) {
		t.Fatalf("unexpected default colours: %+v", theme)
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#2980b9")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	if c != (Color{41, 128, 185}) || c.Hex() != "#2980b9" {
		t.Fatalf("unexpected colour %+v", c)
	}
	if _, err := ParseColor("2C3E50"); err != nil {
		t.Fatalf("ParseColor without hash: %v", err)
	}
	for _, bad := range []string{"", "#fff", "#zzzzzz", "#12345678"} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestThemeWithOverrides(t *testing.T) {
	base, _ := ThemeByName("slate")
	got, err := base.WithOverrides(ColorOverrides{Heading: "#aa0000", Background: "fdf6e3"})
	if err != nil {
		t.Fatalf("WithOverrides: %v", err)
	}
	if got.Heading != (Color{170, 0, 0}) || got.Background != (Color{253, 246, 227}) {
		t.Fatalf("overrides not applied: %+v", got)
	}
	if got.Text != base.Text || got.Link != base.Link || got.Name != "slate" {
		t.Fatalf("unset colours changed: %+v", got)
	}
	if same, err := base.WithOverrides(ColorOverrides{}); err != nil || same != base {
		t.Fatalf("empty overrides changed the theme: %+v %v", same, err)
	}
	if _, err := base.WithOverrides(ColorOverrides{Rule: "grey"}); err == nil || !strings.HasPrefix(err.Error(), "rule:") {
		t.Fatalf("expected a rule colour error, got %v", err)
	}
}

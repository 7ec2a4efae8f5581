package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/rupor-github/gencfg"
	"gopkg.in/yaml.v3"

	"pkt.systems/cvpdf"
)

// ErrInvalidConfig is returned when a Config cannot be rendered with.
var ErrInvalidConfig = errors.New("invalid pdf configuration")

// Config holds PDF rendering settings. Page dimensions are millimetres.
type Config struct {
	PageSize   string  `yaml:"page_size" validate:"required,oneof=A3 A4 A5 Letter Legal"`
	Margin     float64 `yaml:"margin" validate:"gte=0,lt=60"`
	LineHeight float64 `yaml:"line_height" validate:"gte=0,lte=20"`
	// FontFamily is empty for the embedded Go fonts, a core PDF family
	// (Helvetica, Times, Courier) or the name to register RegularFont and
	// BoldFont under.
	FontFamily  string `yaml:"font_family,omitempty"`
	RegularFont string `yaml:"regular_font,omitempty"`
	BoldFont    string `yaml:"bold_font,omitempty"`
	// Font bytes take precedence over font paths.
	RegularFontBytes []byte `yaml:"-"`
	BoldFontBytes    []byte `yaml:"-"`

	Theme string `yaml:"theme,omitempty"`
	// Colors overrides individual colours of Theme.
	Colors cvpdf.ColorOverrides `yaml:"colors,omitempty"`

	PhotoWidth     float64 `yaml:"photo_width" validate:"gte=0,lte=100"`
	PhotoMaxPixels int     `yaml:"photo_max_pixels" validate:"gte=0"`
	JPEGQuality    int     `yaml:"jpeg_quality" validate:"omitempty,min=40,max=100"`
	IconDir        string  `yaml:"icon_dir,omitempty"`
	IconPixels     int     `yaml:"icon_pixels" validate:"gte=0"`

	// Meta supplies document metadata where front matter leaves it unset.
	Meta cvpdf.Meta `yaml:"meta,omitempty"`
}

// DefaultConfig returns a baseline configuration: A4, 15 mm margins and the
// embedded Go fonts.
func DefaultConfig() Config {
	return Config{
		PageSize:       "A4",
		Margin:         15,
		LineHeight:     cvpdf.BaseLineHeight,
		Theme:          "default",
		PhotoWidth:     cvpdf.DefaultPhotoWidth,
		PhotoMaxPixels: 600,
		JPEGQuality:    85,
		IconPixels:     64,
		Meta:           cvpdf.Meta{Creator: "cvpdf"},
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Unknown keys are
// rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return DecodeConfig(data)
}

// DecodeConfig decodes YAML over DefaultConfig and validates the result.
func DecodeConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: failed to decode configuration data: %w", ErrInvalidConfig, err)
	}
	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ValidateConfig checks field constraints and font settings.
func ValidateConfig(cfg Config) error {
	if err := gencfg.Validate(&cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := cfg.theme(); err != nil {
		return err
	}
	hasPath := cfg.RegularFont != "" || cfg.BoldFont != ""
	hasBytes := len(cfg.RegularFontBytes) > 0 || len(cfg.BoldFontBytes) > 0
	if (hasPath || hasBytes) && cfg.FontFamily == "" {
		return fmt.Errorf("%w: font family required with custom fonts", ErrInvalidConfig)
	}
	if !hasPath && !hasBytes && cfg.FontFamily != "" && !isCoreFont(cfg.FontFamily) {
		return fmt.Errorf("%w: core font family required when font paths are empty", ErrInvalidConfig)
	}
	return nil
}

// DumpConfig marshals cfg as YAML.
func DumpConfig(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

func applyConfig(dst *Config, src Config) {
	if src.PageSize != "" {
		dst.PageSize = src.PageSize
	}
	if src.Margin > 0 {
		dst.Margin = src.Margin
	}
	if src.LineHeight > 0 {
		dst.LineHeight = src.LineHeight
	}
	if src.FontFamily != "" {
		dst.FontFamily = src.FontFamily
	}
	if src.RegularFont != "" {
		dst.RegularFont = src.RegularFont
	}
	if src.BoldFont != "" {
		dst.BoldFont = src.BoldFont
	}
	if len(src.RegularFontBytes) > 0 {
		dst.RegularFontBytes = src.RegularFontBytes
	}
	if len(src.BoldFontBytes) > 0 {
		dst.BoldFontBytes = src.BoldFontBytes
	}
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	dst.Colors = mergeColors(src.Colors, dst.Colors)
	if src.PhotoWidth > 0 {
		dst.PhotoWidth = src.PhotoWidth
	}
	if src.PhotoMaxPixels > 0 {
		dst.PhotoMaxPixels = src.PhotoMaxPixels
	}
	if src.JPEGQuality > 0 {
		dst.JPEGQuality = src.JPEGQuality
	}
	if src.IconDir != "" {
		dst.IconDir = src.IconDir
	}
	if src.IconPixels > 0 {
		dst.IconPixels = src.IconPixels
	}
	dst.Meta = mergeMeta(src.Meta, dst.Meta)
}

// theme resolves the named theme with the colour overrides applied.
func (c Config) theme() (cvpdf.Theme, error) {
	base, ok := cvpdf.ThemeByName(c.Theme)
	if !ok {
		return cvpdf.Theme{}, fmt.Errorf("%w: unknown theme %q", ErrInvalidConfig, c.Theme)
	}
	theme, err := base.WithOverrides(c.Colors)
	if err != nil {
		return cvpdf.Theme{}, fmt.Errorf("%w: colors: %w", ErrInvalidConfig, err)
	}
	return theme, nil
}

// mergeColors fills the unset fields of o from fallback.
func mergeColors(o, fallback cvpdf.ColorOverrides) cvpdf.ColorOverrides {
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&o.Text, fallback.Text},
		{&o.Header, fallback.Header},
		{&o.Heading, fallback.Heading},
		{&o.Link, fallback.Link},
		{&o.Rule, fallback.Rule},
		{&o.Background, fallback.Background},
	} {
		if *f.dst == "" {
			*f.dst = f.src
		}
	}
	return o
}

// mergeMeta fills the unset fields of m from fallback.
func mergeMeta(m, fallback cvpdf.Meta) cvpdf.Meta {
	if m.Title == "" {
		m.Title = fallback.Title
	}
	if m.Author == "" {
		m.Author = fallback.Author
	}
	if m.Subject == "" {
		m.Subject = fallback.Subject
	}
	if len(m.Keywords) == 0 {
		m.Keywords = fallback.Keywords
	}
	if m.Creator == "" {
		m.Creator = fallback.Creator
	}
	return m
}

func isCoreFont(name string) bool {
	switch name {
	case "Courier", "Helvetica", "Times":
		return true
	default:
		return false
	}
}

func (c Config) metrics(pageW, pageH float64) cvpdf.PageMetrics {
	return cvpdf.PageMetrics{
		PageWidth:  pageW,
		PageHeight: pageH,
		Top:        c.Margin,
		Left:       c.Margin,
		Right:      c.Margin,
		Bottom:     c.Margin,
		LineHeight: c.LineHeight,
	}
}

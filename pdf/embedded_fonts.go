package pdf

import (
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// EmbeddedFontFamily is the family the embedded Go fonts are registered
// under.
const EmbeddedFontFamily = "GoFont"

// EmbeddedFonts returns the regular and bold Go font TTF bytes.
func EmbeddedFonts() (regular, bold []byte) {
	return goregular.TTF, gobold.TTF
}

// fontSet is the family text is drawn with and whether it is a core font
// that needs cp1252 translation.
type fontSet struct {
	family string
	core   bool
}

// setupFonts registers the configured fonts. A font file that cannot be
// read falls back to the embedded fonts with a warning.
func setupFonts(doc *gofpdf.Fpdf, cfg Config, log *zap.Logger) fontSet {
	regular, bold := cfg.RegularFontBytes, cfg.BoldFontBytes
	if len(regular) == 0 && len(bold) == 0 && (cfg.RegularFont != "" || cfg.BoldFont != "") {
		var err error
		if regular, bold, err = readFontFiles(cfg.RegularFont, cfg.BoldFont); err != nil {
			log.Warn("Unable to load font, using embedded fonts", zap.String("family", cfg.FontFamily), zap.Error(err))
			regular, bold = nil, nil
		}
	}
	if len(regular) > 0 {
		if len(bold) == 0 {
			bold = regular
		}
		doc.AddUTF8FontFromBytes(cfg.FontFamily, "", regular)
		doc.AddUTF8FontFromBytes(cfg.FontFamily, "B", bold)
		return fontSet{family: cfg.FontFamily}
	}
	if isCoreFont(cfg.FontFamily) {
		return fontSet{family: cfg.FontFamily, core: true}
	}
	regular, bold = EmbeddedFonts()
	doc.AddUTF8FontFromBytes(EmbeddedFontFamily, "", regular)
	doc.AddUTF8FontFromBytes(EmbeddedFontFamily, "B", bold)
	return fontSet{family: EmbeddedFontFamily}
}

func readFontFiles(regularPath, boldPath string) (regular, bold []byte, err error) {
	if regularPath == "" {
		return nil, nil, fmt.Errorf("regular font path is empty")
	}
	if regular, err = os.ReadFile(regularPath); err != nil {
		return nil, nil, fmt.Errorf("regular font missing: %w", err)
	}
	if boldPath == "" {
		return regular, regular, nil
	}
	if bold, err = os.ReadFile(boldPath); err != nil {
		return nil, nil, fmt.Errorf("bold font missing: %w", err)
	}
	return regular, bold, nil
}

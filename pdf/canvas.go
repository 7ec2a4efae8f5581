package pdf

import (
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"pkt.systems/cvpdf"
)

// baselineRatio places the text baseline inside a line box the way gofpdf
// cells do: half the box height plus this fraction of the font size.
const baselineRatio = 0.3

var white = cvpdf.Color{R: 255, G: 255, B: 255}

// canvas adapts a gofpdf document to cvpdf.Canvas. Images must be
// registered before layout starts; DrawImage never touches the filesystem.
type canvas struct {
	doc        *gofpdf.Fpdf
	fonts      fontSet
	tr         func(string) string
	font       cvpdf.Font
	background cvpdf.Color
	images     map[string]bool
	pageW      float64
	pageH      float64
	lastY      float64
	log        *zap.Logger
}

func newCanvas(doc *gofpdf.Fpdf, fonts fontSet, background cvpdf.Color, log *zap.Logger) *canvas {
	c := &canvas{
		doc:        doc,
		fonts:      fonts,
		tr:         dropUnmapped,
		background: background,
		images:     make(map[string]bool),
		log:        log,
	}
	if fonts.core {
		c.tr = doc.UnicodeTranslatorFromDescriptor("")
	}
	c.pageW, c.pageH = doc.GetPageSize()
	c.SetFont(cvpdf.Font{Style: cvpdf.FontRegular, Size: cvpdf.BodyFontSize})
	return c
}

// dropUnmapped removes runes outside the Basic Multilingual Plane and emoji
// variation selectors; gofpdf maps UTF-8 font glyphs for the BMP only.
func dropUnmapped(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF || r == '\uFE0F' {
			return -1
		}
		return r
	}, s)
}

// registered marks name as drawable.
func (c *canvas) registered(name string) {
	c.images[name] = true
}

func (c *canvas) NewPage() {
	c.doc.AddPage()
	if c.background != white {
		c.doc.SetFillColor(c.background.RGB())
		c.doc.Rect(0, 0, c.pageW, c.pageH, "F")
	}
	c.lastY = 0
	c.SetFont(c.font)
}

func (c *canvas) SetFont(f cvpdf.Font) {
	c.font = f
	style := ""
	if f.Style == cvpdf.FontBold {
		style = "B"
	}
	c.doc.SetFont(c.fonts.family, style, f.Size)
}

func (c *canvas) SetColor(col cvpdf.Color) {
	c.doc.SetTextColor(col.RGB())
	c.doc.SetDrawColor(col.RGB())
}

func (c *canvas) StringWidth(text string) float64 {
	return c.doc.GetStringWidth(c.tr(text))
}

// WrappedLineCount measures with the regular body font whatever font is
// selected, then restores the selection.
func (c *canvas) WrappedLineCount(text string, width float64) int {
	current := c.font
	c.SetFont(cvpdf.Font{Style: cvpdf.FontRegular, Size: cvpdf.BodyFontSize})
	n := len(cvpdf.WrapText(text, width, c.StringWidth))
	c.SetFont(current)
	return n
}

func (c *canvas) DrawText(x, y, h float64, text string) {
	_, unitSize := c.doc.GetFontSize()
	c.doc.Text(x, y+h/2+baselineRatio*unitSize, c.tr(text))
	c.lastY = y + h
}

func (c *canvas) DrawLink(x, y, w, h float64, target string) {
	c.doc.LinkString(x, y, w, h, target)
}

func (c *canvas) DrawImage(name string, x, y, w, h float64) {
	if !c.images[name] {
		c.log.Warn("Image not registered, skipping", zap.String("image", name))
		return
	}
	c.doc.ImageOptions(name, x, y, w, h, false, gofpdf.ImageOptions{}, 0, "")
}

func (c *canvas) DrawLine(x1, y1, x2, y2 float64) {
	c.doc.Line(x1, y1, x2, y2)
}

func (c *canvas) CurrentY() float64 {
	return c.lastY
}

func (c *canvas) Err() error {
	if err := c.doc.Error(); err != nil {
		return fmt.Errorf("pdf canvas: %w", err)
	}
	return nil
}

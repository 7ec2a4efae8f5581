package cvpdf

// FontStyle selects the regular or bold face of the body font family.
type FontStyle uint8

const (
	FontRegular FontStyle = iota
	FontBold
)

// Font is a face and a size in points.
type Font struct {
	Style FontStyle
	Size  float64
}

// Font sizes in points.
const (
	BodyFontSize     = 11.0
	NameFontSize     = 18.0
	Heading2FontSize = 14.0
	Heading3FontSize = 12.0
	PayloadFontSize  = 1.0
)

var (
	bodyFont     = Font{Style: FontRegular, Size: BodyFontSize}
	boldBodyFont = Font{Style: FontBold, Size: BodyFontSize}
	nameFont     = Font{Style: FontBold, Size: NameFontSize}
	heading2Font = Font{Style: FontBold, Size: Heading2FontSize}
	heading3Font = Font{Style: FontBold, Size: Heading3FontSize}
	payloadFont  = Font{Style: FontRegular, Size: PayloadFontSize}
)

// Canvas is the drawing surface the renderer writes to. Coordinates are page
// units from the top-left corner of the current page.
//
// WrappedLineCount must measure with the regular body font and wrap with
// WrapText, whatever font is currently selected, so estimates agree with
// what DrawText later produces.
type Canvas interface {
	TextMeasurer

	// NewPage starts a page; the first call starts the first page.
	NewPage()
	SetFont(f Font)
	// SetColor sets the colour for subsequent text and lines.
	SetColor(c Color)
	// StringWidth measures text in the current font.
	StringWidth(text string) float64
	// DrawText draws text left-aligned in a line box of height h whose top
	// edge is at y.
	DrawText(x, y, h float64, text string)
	// DrawLink makes the rectangle a clickable link to target.
	DrawLink(x, y, w, h float64, target string)
	// DrawImage places a previously registered image. A zero w or h keeps
	// the aspect ratio.
	DrawImage(name string, x, y, w, h float64)
	DrawLine(x1, y1, x2, y2 float64)
	// CurrentY is the bottom of the last line box drawn.
	CurrentY() float64
	// Err returns the first error the canvas ran into.
	Err() error
}

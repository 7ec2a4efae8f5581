package cvpdf

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Horizontal offsets from the left margin and vertical spacing, in page
// units.
const (
	DefaultPhotoWidth = 35.0

	photoGap          = 5.0
	photoBlockHeight  = 42.0
	headerGap         = 5.0
	nameLineHeight    = 10.0
	headingLineHeight = 8.0
	heading2Gap       = 2.0
	iconInset         = 1.0
	iconTop           = 1.0
	iconHeight        = 6.0
	iconTextInset     = 9.0
	listMarkerInset   = 5.0
	listIndent        = 10.0
	payloadLineHeight = 1.0
)

// RenderRequest is one document to lay out.
type RenderRequest struct {
	Document Document
	// Photo names an image already registered with the canvas; empty for
	// none.
	Photo      string
	PhotoWidth float64
	// Payload is drawn after all content in the background colour.
	Payload string
}

// SectionPlacement records where a section started.
type SectionPlacement struct {
	Title     string
	Page      int
	Y         float64
	Estimate  float64
	Remaining float64
	PageBreak bool
	Rule      bool
}

// Layout summarises a finished render.
type Layout struct {
	Pages    int
	Sections []SectionPlacement
	End      Cursor
}

// Renderer lays a Document out onto a Canvas. A Renderer may be reused but
// not shared by concurrent renders; each Render call owns its cursor and
// pager.
type Renderer struct {
	canvas  Canvas
	metrics PageMetrics
	theme   Theme
	icons   *IconResolver
	log     *zap.Logger
}

// NewRenderer returns a renderer drawing to canvas.
func NewRenderer(canvas Canvas, opts ...RenderOption) *Renderer {
	r := &Renderer{
		canvas:  canvas,
		metrics: DefaultMetrics(),
		theme:   DefaultTheme(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws the document. Errors reported by the canvas wrap
// ErrRenderFailed.
func (r *Renderer) Render(req RenderRequest) (Layout, error) {
	if r.canvas == nil {
		return Layout{}, fmt.Errorf("%w: canvas is nil", ErrRenderFailed)
	}
	pager := NewPager(r.metrics)
	p := &pass{
		r:      r,
		canvas: r.canvas,
		m:      pager.Metrics(),
		pager:  pager,
	}
	p.canvas.NewPage()
	p.layout.Pages = 1

	c := r.metrics.Start()
	c = p.header(c, req)
	last := len(req.Document.Sections) - 1
	for i, s := range req.Document.Sections {
		c = p.section(c, s, i < last)
	}
	if req.Payload != "" {
		c = p.payload(c, req.Payload)
	}
	p.layout.End = c
	r.log.Debug("Layout finished",
		zap.Int("pages", p.layout.Pages),
		zap.Int("sections", len(p.layout.Sections)),
		zap.Float64("y", c.Y),
		zap.Float64("canvas_y", p.canvas.CurrentY()))
	if err := p.canvas.Err(); err != nil {
		return p.layout, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	return p.layout, nil
}

// pass is the state of one Render call.
type pass struct {
	r      *Renderer
	canvas Canvas
	m      PageMetrics
	pager  *Pager
	layout Layout
}

func (p *pass) newPage(to Cursor) Cursor {
	p.canvas.NewPage()
	p.layout.Pages++
	return to
}

func (p *pass) ensureLine(c Cursor) Cursor {
	if next, broke := p.pager.EnsureLineRoom(c); broke {
		next.Left = c.Left
		return p.newPage(next)
	}
	return c
}

func (p *pass) header(c Cursor, req RenderRequest) Cursor {
	start := c
	top := c.Y
	infoX := p.m.Left
	if req.Photo != "" {
		w := req.PhotoWidth
		if w <= 0 {
			w = DefaultPhotoWidth
		}
		p.canvas.DrawImage(req.Photo, p.m.Left, top, w, 0)
		infoX = p.m.Left + w + photoGap
	}
	c = c.WithLeft(infoX)
	for _, l := range req.Document.Header {
		text := l.Trimmed()
		if text == "" {
			continue
		}
		c = p.ensureLine(c)
		if strings.HasPrefix(text, "# ") {
			c = p.blockLines(c, strings.TrimSpace(text[2:]), infoX, nameFont, p.r.theme.Header, nameLineHeight)
			continue
		}
		c = p.styledLine(c, text, infoX, p.r.theme.Header)
	}
	c = c.WithLeft(p.m.Left)
	if req.Photo != "" && c.Page == start.Page && c.Y < top+photoBlockHeight {
		c.Y = top + photoBlockHeight
		return c
	}
	return c.Advance(headerGap)
}

func (p *pass) section(c Cursor, s Section, more bool) Cursor {
	estimate := estimateSection(s, p.m.ContentWidth(), p.m.LineHeight, p.canvas)
	next, plan := p.pager.BeginSection(c, estimate)
	if plan.PageBreak {
		p.r.log.Debug("Page break before section",
			zap.String("section", s.Title()),
			zap.Float64("estimate", estimate),
			zap.Float64("remaining", plan.Remaining))
		next = p.newPage(next)
	}
	if plan.DrawRule {
		p.canvas.SetColor(p.r.theme.Rule)
		p.canvas.DrawLine(p.m.Left, plan.RuleY, p.m.ContentRight(), plan.RuleY)
	}
	p.layout.Sections = append(p.layout.Sections, SectionPlacement{
		Title:     s.Title(),
		Page:      next.Page,
		Y:         next.Y,
		Estimate:  estimate,
		Remaining: plan.Remaining,
		PageBreak: plan.PageBreak,
		Rule:      plan.DrawRule,
	})

	c = next
	inList := false
	for _, l := range s.Lines() {
		c, inList = p.line(c, l, inList)
	}
	if more {
		p.pager.ScheduleRule()
	}
	return c
}

func (p *pass) line(c Cursor, l RawLine, inList bool) (Cursor, bool) {
	theme := p.r.theme
	switch l.Kind {
	case LineBlank:
		if _, full := p.pager.EnsureLineRoom(c); full {
			return c, false
		}
		return c.Advance(blankHeight), false
	case LineRule:
		p.pager.ScheduleRule()
		return c, false
	case LineHeading2:
		c = p.ensureLine(c).Advance(heading2Gap)
		text := l.Content()
		x := p.m.Left
		if path, glyph, ok := p.r.icons.Resolve(text); ok {
			text = StripGlyph(text, glyph)
			p.canvas.DrawImage(path, p.m.Left+iconInset, c.Y+iconTop, 0, iconHeight)
			x = p.m.Left + iconTextInset
		}
		return p.blockLines(c, text, x, heading2Font, theme.Heading, headingLineHeight), false
	case LineHeading3:
		c = p.ensureLine(c)
		return p.blockLines(c, l.Content(), p.m.Left, heading3Font, theme.Text, headingLineHeight), false
	case LineListItem:
		c = p.ensureLine(c)
		p.canvas.SetFont(bodyFont)
		p.canvas.SetColor(theme.Text)
		p.canvas.DrawText(p.m.Left+listMarkerInset, c.Y, p.m.LineHeight, "- ")
		return p.styledLine(c, l.Content(), p.m.Left+listIndent, theme.Text), true
	default:
		c = p.ensureLine(c)
		left := p.m.Left
		if inList {
			left += listIndent
		}
		return p.styledLine(c, l.Trimmed(), left, theme.Text), inList
	}
}

// blockLines draws single-style text wrapped between x and the right margin,
// h units per line.
func (p *pass) blockLines(c Cursor, text string, x float64, font Font, color Color, h float64) Cursor {
	p.canvas.SetFont(font)
	p.canvas.SetColor(color)
	for i, line := range WrapText(text, p.m.ContentRight()-x, p.canvas.StringWidth) {
		if i > 0 {
			c = p.ensureLine(c)
		}
		p.canvas.DrawText(x, c.Y, h, line)
		c = c.Advance(h)
	}
	p.canvas.SetFont(bodyFont)
	return c
}

// styledLine draws one line of inline-styled text flowing from left to the
// right margin and moves the cursor one line below its last line.
func (p *pass) styledLine(c Cursor, text string, left float64, base Color) Cursor {
	saved := c.Left
	c = c.WithLeft(left)
	right := p.m.ContentRight()
	h := p.m.LineHeight
	x := left
	wrap := func() {
		c = p.ensureLine(c.Advance(h))
		x = left
	}
	for _, run := range Tokenize(text) {
		font := bodyFont
		if run.Style == RunBold {
			font = boldBodyFont
		}
		color := base
		if run.IsLink() {
			color = p.r.theme.Link
		}
		p.canvas.SetFont(font)
		p.canvas.SetColor(color)
		for _, seg := range splitWords(run.Text) {
			word := strings.TrimRight(seg, " \t")
			if word == "" {
				x += p.canvas.StringWidth(seg)
				continue
			}
			wordW := p.canvas.StringWidth(word)
			if x > left && x+wordW > right {
				wrap()
			}
			if wordW > right-left {
				parts := splitRunesToWidth(word, right-left, p.canvas.StringWidth)
				for _, part := range parts[:len(parts)-1] {
					p.drawRun(x, c.Y, h, part, run)
					wrap()
				}
				seg = parts[len(parts)-1] + seg[len(word):]
			}
			x += p.drawRun(x, c.Y, h, seg, run)
		}
	}
	p.canvas.SetFont(bodyFont)
	c = c.Advance(h)
	return c.WithLeft(saved)
}

func (p *pass) drawRun(x, y, h float64, text string, run Run) float64 {
	if text == "" {
		return 0
	}
	p.canvas.DrawText(x, y, h, text)
	w := p.canvas.StringWidth(text)
	if run.IsLink() && run.Target != "" {
		p.canvas.DrawLink(x, y, p.canvas.StringWidth(strings.TrimRight(text, " \t")), h, run.Target)
	}
	return w
}

// payload draws text invisibly after all content: every draw call uses the
// background colour. Lines are cut from text without dropping bytes other
// than newlines.
func (p *pass) payload(c Cursor, text string) Cursor {
	p.canvas.SetFont(payloadFont)
	p.canvas.SetColor(p.r.theme.Background)
	for _, para := range strings.Split(text, "\n") {
		for _, line := range WrapText(para, p.m.ContentWidth(), p.canvas.StringWidth) {
			if next, broke := p.pager.EnsureRoom(c, payloadLineHeight); broke {
				c = p.newPage(next)
			}
			if line != "" {
				p.canvas.DrawText(p.m.Left, c.Y, payloadLineHeight, line)
			}
			c = c.Advance(payloadLineHeight)
		}
	}
	p.canvas.SetFont(bodyFont)
	return c
}

package cvpdf

import (
	"strings"
	"testing"
)

type drawOp uint8

const (
	opPage drawOp = iota
	opText
	opLink
	opImage
	opLine
)

type drawCall struct {
	op     drawOp
	page   int
	x, y   float64
	w, h   float64
	text   string
	font   Font
	color  Color
	target string
}

// recordingCanvas is a Canvas that records draw calls on a fixed-pitch
// grid. Every font measures the same, so estimates and drawing agree.
type recordingCanvas struct {
	ColumnMeasurer
	calls []drawCall
	page  int
	font  Font
	color Color
	lastY float64
	err   error
}

func newRecordingCanvas() *recordingCanvas {
	return &recordingCanvas{
		ColumnMeasurer: ColumnMeasurer{CharWidth: 2},
		page:           -1,
		font:           bodyFont,
	}
}

func (c *recordingCanvas) NewPage() {
	c.page++
	c.lastY = 0
	c.calls = append(c.calls, drawCall{op: opPage, page: c.page})
}

func (c *recordingCanvas) SetFont(f Font)     { c.font = f }
func (c *recordingCanvas) SetColor(col Color) { c.color = col }

func (c *recordingCanvas) DrawText(x, y, h float64, text string) {
	c.calls = append(c.calls, drawCall{op: opText, page: c.page, x: x, y: y, h: h, text: text, font: c.font, color: c.color})
	c.lastY = y + h
}

func (c *recordingCanvas) DrawLink(x, y, w, h float64, target string) {
	c.calls = append(c.calls, drawCall{op: opLink, page: c.page, x: x, y: y, w: w, h: h, target: target})
}

func (c *recordingCanvas) DrawImage(name string, x, y, w, h float64) {
	c.calls = append(c.calls, drawCall{op: opImage, page: c.page, x: x, y: y, w: w, h: h, text: name})
}

func (c *recordingCanvas) DrawLine(x1, y1, x2, y2 float64) {
	c.calls = append(c.calls, drawCall{op: opLine, page: c.page, x: x1, y: y1, w: x2 - x1, h: y2 - y1, color: c.color})
}

func (c *recordingCanvas) CurrentY() float64 { return c.lastY }
func (c *recordingCanvas) Err() error        { return c.err }

func (c *recordingCanvas) ops(op drawOp) []drawCall {
	var out []drawCall
	for _, call := range c.calls {
		if call.op == op {
			out = append(out, call)
		}
	}
	return out
}

// textOn returns the text drawn on page joined without separators.
func (c *recordingCanvas) textOn(page int) string {
	var b strings.Builder
	for _, call := range c.ops(opText) {
		if call.page == page {
			b.WriteString(call.text)
		}
	}
	return b.String()
}

func (c *recordingCanvas) allText() string {
	var b strings.Builder
	for _, call := range c.ops(opText) {
		b.WriteString(call.text)
	}
	return b.String()
}

func renderMarkdown(t *testing.T, src string, opts ...RenderOption) (*recordingCanvas, Layout) {
	t.Helper()
	return renderRequest(t, RenderRequest{Document: Build(src)}, opts...)
}

func renderRequest(t *testing.T, req RenderRequest, opts ...RenderOption) (*recordingCanvas, Layout) {
	t.Helper()
	canvas := newRecordingCanvas()
	layout, err := NewRenderer(canvas, opts...).Render(req)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return canvas, layout
}

// lines returns n copies of line joined by newlines.
func lines(line string, n int) string {
	return strings.TrimSuffix(strings.Repeat(line+"\n", n), "\n")
}

package cvpdf

// BaseLineHeight is the height of one line of body text in page units.
const BaseLineHeight = 6.0

const (
	// A section that fits a fresh page with this much to spare is moved to
	// the next page instead of being split.
	freshPageSlack = 30.0
	// Lines drawn below UsableHeight-lineSafetyMargin start a new page.
	lineSafetyMargin = 10.0
	// The pending rule is skipped while the cursor is within this distance of
	// the top margin.
	ruleSkip = 15.0
	// Rule stroke offset below the cursor and the space it consumes.
	ruleOffset  = 2.0
	ruleAdvance = 4.0
)

// PageMetrics are the fixed page dimensions, in page units.
type PageMetrics struct {
	PageWidth  float64
	PageHeight float64
	Top        float64
	Left       float64
	Right      float64
	Bottom     float64
	LineHeight float64
}

// DefaultMetrics returns A4 portrait in millimetres with 15 mm margins.
func DefaultMetrics() PageMetrics {
	return PageMetrics{
		PageWidth:  210,
		PageHeight: 297,
		Top:        15,
		Left:       15,
		Right:      15,
		Bottom:     15,
		LineHeight: BaseLineHeight,
	}
}

// ContentWidth is the width between the left and right margins.
func (m PageMetrics) ContentWidth() float64 {
	return m.PageWidth - m.Left - m.Right
}

// ContentRight is the x coordinate of the right margin.
func (m PageMetrics) ContentRight() float64 {
	return m.PageWidth - m.Right
}

// UsableHeight is the page height minus the top and bottom margins. Cursor
// positions are compared against it directly.
func (m PageMetrics) UsableHeight() float64 {
	return m.PageHeight - m.Top - m.Bottom
}

// Remaining is the vertical budget left below the cursor.
func (m PageMetrics) Remaining(c Cursor) float64 {
	return m.UsableHeight() - c.Y
}

// Cursor is the layout position. Layout functions take a Cursor and return
// the updated one; nothing else holds it.
type Cursor struct {
	Page int
	Y    float64
	Left float64
}

// Start returns the cursor at the top of the first page.
func (m PageMetrics) Start() Cursor {
	return Cursor{Page: 0, Y: m.Top, Left: m.Left}
}

// Advance moves the cursor down by dy.
func (c Cursor) Advance(dy float64) Cursor {
	c.Y += dy
	return c
}

// WithLeft returns the cursor with its left edge moved to x.
func (c Cursor) WithLeft(x float64) Cursor {
	c.Left = x
	return c
}

type pagerState uint8

const (
	pagerNormal pagerState = iota
	pagerPendingRule
)

// SectionPlan is the pagination decision taken before a section is drawn.
type SectionPlan struct {
	Estimate  float64
	Remaining float64
	PageBreak bool
	DrawRule  bool
	RuleY     float64
}

// Pager decides where pages break. It owns the pending-rule state of one
// render and must not be shared between renders.
type Pager struct {
	metrics PageMetrics
	state   pagerState
}

// NewPager returns a pager in the normal state.
func NewPager(metrics PageMetrics) *Pager {
	return &Pager{metrics: metrics}
}

// Metrics returns the page metrics the pager works with.
func (p *Pager) Metrics() PageMetrics {
	return p.metrics
}

// PendingRule reports whether a separator is waiting for the next section.
func (p *Pager) PendingRule() bool {
	return p.state == pagerPendingRule
}

// NextPage returns the cursor at the top of the following page.
func (p *Pager) NextPage(c Cursor) Cursor {
	return Cursor{Page: c.Page + 1, Y: p.metrics.Top, Left: p.metrics.Left}
}

// ShouldBreakBefore reports whether a section of the given estimated height
// belongs on a fresh page: it does not fit below c but fits a new page with
// room to spare. Larger sections are split where they stand.
func (p *Pager) ShouldBreakBefore(c Cursor, estimate float64) bool {
	return estimate > p.metrics.Remaining(c) && estimate <= p.metrics.UsableHeight()-freshPageSlack
}

// BeginSection applies the section-level decision and the pending rule. The
// returned cursor is where the section's first line starts.
func (p *Pager) BeginSection(c Cursor, estimate float64) (Cursor, SectionPlan) {
	plan := SectionPlan{Estimate: estimate, Remaining: p.metrics.Remaining(c)}
	if p.ShouldBreakBefore(c, estimate) {
		c = p.NextPage(c)
		plan.PageBreak = true
		p.state = pagerNormal
	}
	if p.state == pagerPendingRule && c.Y > p.metrics.Top+ruleSkip {
		plan.DrawRule = true
		plan.RuleY = c.Y + ruleOffset
		c = c.Advance(ruleAdvance)
	}
	p.state = pagerNormal
	return c, plan
}

// ScheduleRule defers a separator until the next section starts.
func (p *Pager) ScheduleRule() {
	p.state = pagerPendingRule
}

// EnsureLineRoom breaks the page when c is too close to the bottom to start
// another line. It reports whether a break happened.
func (p *Pager) EnsureLineRoom(c Cursor) (Cursor, bool) {
	if c.Y > p.metrics.UsableHeight()-lineSafetyMargin {
		return p.NextPage(c), true
	}
	return c, false
}

// EnsureRoom breaks the page when a block of height h starting at c would
// end below UsableHeight.
func (p *Pager) EnsureRoom(c Cursor, h float64) (Cursor, bool) {
	if c.Y+h > p.metrics.UsableHeight() {
		return p.NextPage(c), true
	}
	return c, false
}

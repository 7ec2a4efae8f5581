package cvpdf

// Vertical space, in page units, charged per line kind when estimating.
const (
	sectionLeadIn  = 5.0
	blankHeight    = 1.0
	ruleHeight     = 8.0
	heading2Height = 15.0
	heading3Height = 10.0
)

// EstimateSection returns the vertical space the section will take when
// rendered with text wrapped to width and the base line height. It only
// reads its arguments and is safe to call before deciding whether to break
// the page.
func EstimateSection(section Section, width float64, measure TextMeasurer) float64 {
	return estimateSection(section, width, BaseLineHeight, measure)
}

func estimateSection(section Section, width float64, lineHeight float64, measure TextMeasurer) float64 {
	h := sectionLeadIn
	for _, line := range section.Lines() {
		h += estimateLine(line, width, lineHeight, measure)
	}
	return h
}

func estimateLine(line RawLine, width float64, lineHeight float64, measure TextMeasurer) float64 {
	switch line.Kind {
	case LineBlank:
		return blankHeight
	case LineRule:
		return ruleHeight
	case LineHeading2:
		return heading2Height
	case LineHeading3:
		return heading3Height
	default:
		n := measure.WrappedLineCount(PlainText(line.Trimmed()), width)
		if n < 1 {
			n = 1
		}
		return float64(n) * lineHeight
	}
}

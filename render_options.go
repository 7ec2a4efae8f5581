package cvpdf

import "go.uber.org/zap"

// RenderOption configures a Renderer.
type RenderOption func(*Renderer)

// WithMetrics sets the page geometry. The default is DefaultMetrics.
func WithMetrics(m PageMetrics) RenderOption {
	return func(r *Renderer) {
		r.metrics = m
	}
}

// WithTheme sets the colours.
func WithTheme(t Theme) RenderOption {
	return func(r *Renderer) {
		r.theme = t
	}
}

// WithIcons sets the store section icons are resolved from.
func WithIcons(store IconStore) RenderOption {
	return func(r *Renderer) {
		r.icons = NewIconResolver(store)
	}
}

// WithLogger sets the logger layout decisions are reported to.
func WithLogger(log *zap.Logger) RenderOption {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

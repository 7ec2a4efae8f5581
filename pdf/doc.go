// Package pdf renders résumé Markdown to PDF using the cvpdf layout engine
// and gofpdf.
//
// Fonts, the photo and section icons are loaded once before layout starts.
// A font, photo or icon that cannot be loaded is logged and skipped; only
// output failures and invalid input or configuration are returned as errors.
//
// Example:
//
//	cfg := pdf.DefaultConfig()
//	cfg.IconDir = "assets/icons"
//
//	_, err := pdf.RenderFile("resume.pdf", pdf.RenderRequest{
//		Markdown: src,
//		Photo:    "me.jpg",
//		Config:   cfg,
//		Logger:   log,
//	})
//	if err != nil {
//		log.Fatal("render failed", zap.Error(err))
//	}
//
// RenderFile writes atomically; Render writes to any io.Writer and writes
// nothing when rendering fails.
package pdf

// Package cvpdf lays out a résumé written in a small Markdown dialect onto
// fixed-size pages.
//
// The dialect is line oriented. Lines above the first "---" rule form the
// header (a "# " name line followed by contact lines). Below it, each "## "
// heading opens a section that the pagination controller tries to keep on
// one page: before a section is drawn its height is estimated with the same
// wrapping rule the canvas uses, and if it does not fit in the space left
// (but would fit on an empty page) a new page is started.
//
// Core pieces:
//   - Tokenize splits a line into plain, bold, link, URL, email and phone runs
//   - Build parses text into a Document of header lines and sections
//   - EstimateSection predicts the height of a section
//   - Pager decides page breaks and separator rules
//   - IconResolver maps a heading's first pictograph to an image
//   - Renderer drives a Canvas through the whole document
//
// The package draws through the Canvas interface and carries no PDF code;
// package pkt.systems/cvpdf/pdf provides a gofpdf-backed canvas and a
// one-call Render.
//
// Example:
//
//	doc := cvpdf.Build(markdown)
//	layout, err := cvpdf.NewRenderer(canvas,
//		cvpdf.WithTheme(cvpdf.DefaultTheme()),
//	).Render(cvpdf.RenderRequest{Document: doc})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println("pages:", layout.Pages)
package cvpdf

package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"pkt.systems/cvpdf"
)

// RenderRequest contains inputs for PDF rendering.
type RenderRequest struct {
	// Markdown is the résumé source. Reader is read when Markdown is empty.
	Markdown string
	Reader   io.Reader
	Writer   io.Writer
	// Photo is an image file drawn at the top left of the header.
	Photo string
	// Payload is drawn invisibly after all content.
	Payload string
	Config  Config
	Logger  *zap.Logger
}

// Render converts a résumé to PDF and writes it to req.Writer. Nothing is
// written when rendering fails.
func Render(req RenderRequest) (cvpdf.Layout, error) {
	if req.Writer == nil {
		return cvpdf.Layout{}, fmt.Errorf("pdf render: writer is nil")
	}
	var buf bytes.Buffer
	layout, err := render(req, &buf)
	if err != nil {
		return layout, err
	}
	if _, err := buf.WriteTo(req.Writer); err != nil {
		return layout, fmt.Errorf("pdf render: output: %w: %w", cvpdf.ErrRenderFailed, err)
	}
	return layout, nil
}

// RenderFile renders to path atomically: the PDF is written to a temporary
// file in the same directory and renamed over path on success. On failure
// no file is left behind.
func RenderFile(path string, req RenderRequest) (layout cvpdf.Layout, err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return layout, fmt.Errorf("pdf render: %w: %w", cvpdf.ErrRenderFailed, err)
	}
	defer func() {
		if err != nil {
			if rerr := os.Remove(tmp.Name()); rerr != nil && !os.IsNotExist(rerr) {
				err = multierr.Append(err, rerr)
			}
		}
	}()

	layout, err = render(req, tmp)
	if cerr := tmp.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("pdf render: output: %w: %w", cvpdf.ErrRenderFailed, cerr)
	}
	if err != nil {
		return layout, err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return layout, fmt.Errorf("pdf render: output: %w: %w", cvpdf.ErrRenderFailed, err)
	}
	return layout, nil
}

func render(req RenderRequest, w io.Writer) (cvpdf.Layout, error) {
	log := req.Logger
	if log == nil {
		log = zap.NewNop()
	}
	src, err := readSource(req)
	if err != nil {
		return cvpdf.Layout{}, err
	}
	cfg := DefaultConfig()
	applyConfig(&cfg, req.Config)
	if err := ValidateConfig(cfg); err != nil {
		return cvpdf.Layout{}, fmt.Errorf("pdf render: %w", err)
	}
	theme, err := cfg.theme()
	if err != nil {
		return cvpdf.Layout{}, fmt.Errorf("pdf render: %w", err)
	}
	d := cvpdf.Build(norm.NFC.String(string(src)))

	doc := gofpdf.New("P", "mm", cfg.PageSize, "")
	doc.SetMargins(cfg.Margin, cfg.Margin, cfg.Margin)
	doc.SetAutoPageBreak(false, cfg.Margin)
	fonts := setupFonts(doc, cfg, log)
	if err := doc.Error(); err != nil {
		return cvpdf.Layout{}, fmt.Errorf("pdf render: font setup failed: %w", err)
	}
	setMetadata(doc, d, cfg.Meta)

	cv := newCanvas(doc, fonts, theme.Background, log)
	photo := preparePhoto(doc, cv, req.Photo, cfg, log)
	var dir cvpdf.IconMap
	if cfg.IconDir != "" {
		if dir, err = cvpdf.OpenIconDir(cfg.IconDir); err != nil {
			log.Warn("Unable to open icon directory, rendering without icons", zap.String("dir", cfg.IconDir), zap.Error(err))
		}
	}
	icons := preloadIcons(doc, cv, d, dir, cfg, log)
	if err := doc.Error(); err != nil {
		return cvpdf.Layout{}, fmt.Errorf("pdf render: %w: image setup failed: %w", cvpdf.ErrRenderFailed, err)
	}

	pageW, pageH := doc.GetPageSize()
	r := cvpdf.NewRenderer(cv,
		cvpdf.WithMetrics(cfg.metrics(pageW, pageH)),
		cvpdf.WithTheme(theme),
		cvpdf.WithIcons(icons),
		cvpdf.WithLogger(log),
	)
	layout, err := r.Render(cvpdf.RenderRequest{
		Document:   d,
		Photo:      photo,
		PhotoWidth: cfg.PhotoWidth,
		Payload:    req.Payload,
	})
	if err != nil {
		return layout, fmt.Errorf("pdf render: %w", err)
	}
	if err := doc.Output(w); err != nil {
		return layout, fmt.Errorf("pdf render: output: %w: %w", cvpdf.ErrRenderFailed, err)
	}
	log.Debug("PDF rendered", zap.Int("pages", layout.Pages), zap.Int("sections", len(layout.Sections)))
	return layout, nil
}

func readSource(req RenderRequest) ([]byte, error) {
	src := []byte(req.Markdown)
	if req.Markdown == "" && req.Reader != nil {
		var err error
		if src, err = io.ReadAll(req.Reader); err != nil {
			return nil, fmt.Errorf("pdf render: read input: %w", err)
		}
	}
	if err := cvpdf.ValidateInput(src); err != nil {
		return nil, fmt.Errorf("pdf render: %w", err)
	}
	return src, nil
}

// setMetadata writes document properties. Front matter wins over the
// configured defaults; the title falls back to the résumé name.
func setMetadata(doc *gofpdf.Fpdf, d cvpdf.Document, defaults cvpdf.Meta) {
	meta := mergeMeta(d.Meta, defaults)
	if meta.Title == "" {
		meta.Title = d.Name()
	}
	if meta.Author == "" {
		meta.Author = d.Name()
	}
	if meta.Title != "" {
		doc.SetTitle(meta.Title, true)
	}
	if meta.Author != "" {
		doc.SetAuthor(meta.Author, true)
	}
	if meta.Subject != "" {
		doc.SetSubject(meta.Subject, true)
	}
	if len(meta.Keywords) > 0 {
		doc.SetKeywords(strings.Join(meta.Keywords, ", "), true)
	}
	if meta.Creator != "" {
		doc.SetCreator(meta.Creator, true)
	}
}

package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"github.com/jung-kurt/gofpdf"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"go.uber.org/zap"

	"pkt.systems/cvpdf"
)

const photoImageName = "photo"

// preparePhoto decodes the photo, applies its EXIF orientation, downscales
// it to maxPixels wide and registers it as a JPEG. Any failure is logged and
// the header is rendered without a photo.
func preparePhoto(doc *gofpdf.Fpdf, cv *canvas, path string, cfg Config, log *zap.Logger) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("Unable to read photo, rendering without it", zap.String("path", path), zap.Error(err))
		return ""
	}
	if !filetype.IsImage(data) {
		log.Warn("Photo is not an image, rendering without it", zap.String("path", path))
		return ""
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		log.Warn("Unable to decode photo, rendering without it", zap.String("path", path), zap.Error(err))
		return ""
	}
	if cfg.PhotoMaxPixels > 0 && img.Bounds().Dx() > cfg.PhotoMaxPixels {
		img = imaging.Resize(img, cfg.PhotoMaxPixels, 0, imaging.Lanczos)
	}
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(cfg.JPEGQuality)); err != nil {
		log.Warn("Unable to encode photo, rendering without it", zap.String("path", path), zap.Error(err))
		return ""
	}
	doc.RegisterImageOptionsReader(photoImageName, gofpdf.ImageOptions{ImageType: "JPG"}, buf)
	cv.registered(photoImageName)
	log.Debug("Photo prepared", zap.String("path", path),
		zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	return photoImageName
}

// preloadIcons registers the icons the document's headings refer to and
// returns a store holding only those that loaded. Icons are read once,
// before layout.
func preloadIcons(doc *gofpdf.Fpdf, cv *canvas, d cvpdf.Document, dir cvpdf.IconMap, cfg Config, log *zap.Logger) cvpdf.IconMap {
	loaded := make(cvpdf.IconMap)
	if len(dir) == 0 {
		return loaded
	}
	resolver := cvpdf.NewIconResolver(dir)
	for _, s := range d.Sections {
		if s.Heading == nil {
			continue
		}
		path, glyph, ok := resolver.Resolve(s.Heading.Content())
		if !ok {
			continue
		}
		key := cvpdf.IconKey(glyph)
		if _, done := loaded[key]; done {
			continue
		}
		data, err := loadIcon(path, cfg.IconPixels)
		if err != nil {
			log.Warn("Unable to load icon, heading rendered without it", zap.String("path", path), zap.Error(err))
			continue
		}
		doc.RegisterImageOptionsReader(path, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(data))
		cv.registered(path)
		loaded[key] = path
	}
	return loaded
}

// loadIcon returns the icon at path as PNG bytes. SVG icons are rasterised
// to fit a pixels square.
func loadIcon(path string, pixels int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var img image.Image
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		if img, err = rasterizeSVG(data, pixels); err != nil {
			return nil, fmt.Errorf("unable to rasterize svg: %w", err)
		}
	} else {
		if !filetype.IsImage(data) {
			return nil, fmt.Errorf("not an image")
		}
		if img, err = imaging.Decode(bytes.NewReader(data)); err != nil {
			return nil, err
		}
	}
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// rasterizeSVG draws an SVG fitted into a size square, keeping its aspect
// ratio, on a transparent background.
func rasterizeSVG(data []byte, size int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = 64
	}
	intrW, intrH := icon.ViewBox.W, icon.ViewBox.H
	if intrW <= 0 || intrH <= 0 {
		intrW, intrH = float64(size), float64(size)
	}
	scale := math.Min(float64(size)/intrW, float64(size)/intrH)
	w := max(int(math.Round(intrW*scale)), 1)
	h := max(int(math.Round(intrH*scale)), 1)

	icon.SetTarget(0, 0, float64(w), float64(h))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.Transparent}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return dst, nil
}

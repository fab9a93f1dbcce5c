// Package raster renders pages to pixel images using gg.
//
// One Renderer type covers the three pixel outputs. They share the painting
// code and differ only in the final encoding step:
//
//   - FormatPNG: raw PNG bytes
//   - FormatPNGBase64: a data:image/png;base64 URI, as text
//   - FormatTIFF: Deflate-compressed TIFF with associated alpha
//
// # Example
//
//	r := raster.New(raster.FormatPNG)
//	if err := r.Render(page, 2); err != nil {
//	    return err
//	}
//	os.WriteFile("page.png", r.Bytes(), 0o644)
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/gogpu/gd/backend"
	"github.com/gogpu/gd/internal/rasterimg"
	"github.com/gogpu/gd/scene"
)

// Format selects the output encoding.
type Format uint8

// Output formats.
const (
	FormatPNG Format = iota
	FormatPNGBase64
	FormatTIFF
)

// Renderer metadata for registration.
var (
	PNGInfo = backend.Info{
		ID:          "png",
		MIME:        "image/png",
		Ext:         ".png",
		Name:        "PNG",
		Type:        backend.CategoryRaster,
		Description: "Portable Network Graphics (PNG).",
	}
	PNGBase64Info = backend.Info{
		ID:          "png-base64",
		MIME:        "text/plain",
		Ext:         ".txt",
		Name:        "Base64 PNG",
		Type:        backend.CategoryRaster,
		Text:        true,
		Description: "Base64 encoded Portable Network Graphics (PNG) data URI.",
	}
	TIFFInfo = backend.Info{
		ID:          "tiff",
		MIME:        "image/tiff",
		Ext:         ".tiff",
		Name:        "TIFF",
		Type:        backend.CategoryRaster,
		Description: "Tagged Image File Format (TIFF).",
	}
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithCompression sets the PNG compression level.
func WithCompression(level png.CompressionLevel) Option {
	return func(r *Renderer) {
		r.compression = level
	}
}

// Renderer paints a page into a gg pixmap and encodes it.
type Renderer struct {
	format      Format
	compression png.CompressionLevel
	img         *image.NRGBA
	out         []byte
}

var _ backend.Renderer = (*Renderer)(nil)

// New creates a renderer for the given output format.
func New(format Format, opts ...Option) *Renderer {
	r := &Renderer{format: format, compression: png.DefaultCompression}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewPNG creates a PNG renderer.
func NewPNG(opts ...Option) *Renderer { return New(FormatPNG, opts...) }

// NewPNGBase64 creates a base64 PNG data URI renderer.
func NewPNGBase64(opts ...Option) *Renderer { return New(FormatPNGBase64, opts...) }

// NewTIFF creates a TIFF renderer.
func NewTIFF(opts ...Option) *Renderer { return New(FormatTIFF, opts...) }

// PixelSize returns the pixel dimensions of a page rendered at scale.
func PixelSize(size scene.Size, scale float64) (w, h int) {
	w = int(size.W * scale)
	h = int(size.H * scale)
	return max(w, 1), max(h, 1)
}

// Render implements backend.Renderer.
func (r *Renderer) Render(p *scene.Page, scale float64) error {
	r.out = nil
	r.img = nil
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return fmt.Errorf("raster: invalid scale %v", scale)
	}

	w, h := PixelSize(p.Size, scale)
	pt := newPainter(w, h, scale)
	err := scene.Dispatch(p, pt)
	if cerr := pt.close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	img := pt.dst
	out, err := r.encode(img)
	if err != nil {
		return err
	}
	r.img = img
	r.out = out
	return nil
}

func (r *Renderer) encode(img *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	switch r.format {
	case FormatPNG, FormatPNGBase64:
		enc := png.Encoder{CompressionLevel: r.compression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("raster: encode png: %w", err)
		}
		if r.format == FormatPNGBase64 {
			return []byte(rasterimg.DataURI(buf.Bytes())), nil
		}
	case FormatTIFF:
		// image.RGBA is written with the associated-alpha extra sample.
		pre := image.NewRGBA(img.Rect)
		xdraw.Draw(pre, pre.Rect, img, image.Point{}, xdraw.Src)
		opts := &tiff.Options{Compression: tiff.Deflate, Predictor: true}
		if err := tiff.Encode(&buf, pre, opts); err != nil {
			return nil, fmt.Errorf("raster: encode tiff: %w", err)
		}
	default:
		return nil, fmt.Errorf("raster: unknown format %d", r.format)
	}
	return buf.Bytes(), nil
}

// Bytes implements backend.Renderer.
func (r *Renderer) Bytes() []byte { return r.out }

// Image returns the straight-alpha pixels of the last successful render.
func (r *Renderer) Image() *image.NRGBA { return r.img }

// Package pdf renders pages to single-page PDF documents.
//
// Geometry is written as vector operators through fpdf. Page units are
// points; one page unit maps to one point at scale 1. Clip regions become
// rectangular clipping paths, colour alpha is applied through graphics state
// dictionaries, text uses the standard Helvetica, Times and Courier faces
// and raster images are embedded as PNG.
package pdf

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gogpu/gd/backend"
	"github.com/gogpu/gd/scene"
)

// Info is the renderer metadata for registration.
var Info = backend.Info{
	ID:          "pdf",
	MIME:        "application/pdf",
	Ext:         ".pdf",
	Name:        "PDF",
	Type:        backend.CategoryVector,
	Description: "Adobe Portable Document Format (PDF).",
}

// epoch is written as the creation and modification date so that identical
// pages produce identical files.
var epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Option configures a Renderer.
type Option func(*Renderer)

// WithCompression toggles deflate compression of the page content stream.
// Compression is on by default.
func WithCompression(on bool) Option {
	return func(r *Renderer) {
		r.compress = on
	}
}

// Renderer writes a page as PDF.
type Renderer struct {
	compress bool
	out      []byte
}

var _ backend.Renderer = (*Renderer)(nil)

// New creates a PDF renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{compress: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render implements backend.Renderer.
func (r *Renderer) Render(p *scene.Page, scale float64) error {
	r.out = nil
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return fmt.Errorf("pdf: invalid scale %v", scale)
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: p.Size.W * scale, Ht: p.Size.H * scale},
	})
	doc.SetCompression(r.compress)
	doc.SetCreationDate(epoch)
	doc.SetModificationDate(epoch)
	doc.SetCatalogSort(true)
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	w := &writer{doc: doc, s: scale}
	err := scene.Dispatch(p, w)
	w.endClip()
	if err != nil {
		return err
	}
	if err := doc.Error(); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return fmt.Errorf("pdf: output: %w", err)
	}
	r.out = buf.Bytes()
	return nil
}

// Bytes implements backend.Renderer.
func (r *Renderer) Bytes() []byte { return r.out }

// Package ps renders pages to PostScript and Encapsulated PostScript.
//
// The output is plain language level 2 PostScript written directly,
// without a library. Page coordinates are flipped once at the top of the
// page so draw calls keep their top-left origin. Text is set in the
// standard Helvetica, Times and Courier faces re-encoded to ISO Latin-1.
//
// PostScript has no transparency. Colours are painted opaque, except that a
// fully transparent colour paints nothing. Raster images are flattened over
// white.
package ps

import (
	"bytes"
	"fmt"
	"math"

	"github.com/gogpu/gd/backend"
	"github.com/gogpu/gd/scene"
)

// Renderer metadata for registration.
var (
	Info = backend.Info{
		ID:          "ps",
		MIME:        "application/postscript",
		Ext:         ".ps",
		Name:        "PS",
		Type:        backend.CategoryVector,
		Text:        true,
		Description: "PostScript (PS).",
	}
	EPSInfo = backend.Info{
		ID:          "eps",
		MIME:        "application/postscript",
		Ext:         ".eps",
		Name:        "EPS",
		Type:        backend.CategoryVector,
		Text:        true,
		Description: "Encapsulated PostScript (EPS).",
	}
)

// Renderer writes a page as PostScript.
type Renderer struct {
	eps bool
	out []byte
}

var _ backend.Renderer = (*Renderer)(nil)

// New creates a PostScript renderer.
func New() *Renderer { return &Renderer{} }

// NewEPS creates an Encapsulated PostScript renderer.
func NewEPS() *Renderer { return &Renderer{eps: true} }

// Render implements backend.Renderer.
func (r *Renderer) Render(p *scene.Page, scale float64) error {
	r.out = nil
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return fmt.Errorf("ps: invalid scale %v", scale)
	}

	w := &writer{s: scale}
	w.header(p, r.eps)
	if err := scene.Dispatch(p, w); err != nil {
		return err
	}
	w.trailer()
	r.out = bytes.Clone(w.buf.Bytes())
	return nil
}

// Bytes implements backend.Renderer.
func (r *Renderer) Bytes() []byte { return r.out }

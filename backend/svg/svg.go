// Package svg renders pages to SVG markup.
//
// Two presentation modes are available. The style-sheet mode declares
// default stroke and fill values once in an embedded <style> element and
// only writes differences on each shape. The portable mode writes every
// property as an attribute and suffixes each clip-path id with a token that
// is unique per render, so several documents can be inlined into one HTML
// page without id collisions.
//
// Both modes have a gzip-compressed counterpart.
package svg

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gogpu/gd/backend"
	"github.com/gogpu/gd/scene"
)

// Renderer metadata for registration.
var (
	Info = backend.Info{
		ID:          "svg",
		MIME:        "image/svg+xml",
		Ext:         ".svg",
		Name:        "SVG",
		Type:        backend.CategoryVector,
		Text:        true,
		Description: "Scalable Vector Graphics (SVG).",
	}
	PortableInfo = backend.Info{
		ID:          "svgp",
		MIME:        "image/svg+xml",
		Ext:         ".svg",
		Name:        "Portable SVG",
		Type:        backend.CategoryVector,
		Text:        true,
		Description: "Version of the SVG renderer that produces portable SVGs.",
	}
	CompressedInfo = backend.Info{
		ID:          "svgz",
		MIME:        "image/svg+xml",
		Ext:         ".svgz",
		Name:        "SVGZ",
		Type:        backend.CategoryVector,
		Description: "Compressed Scalable Vector Graphics (SVGZ).",
	}
	CompressedPortableInfo = backend.Info{
		ID:          "svgzp",
		MIME:        "image/svg+xml",
		Ext:         ".svgz",
		Name:        "Portable SVGZ",
		Type:        backend.CategoryVector,
		Description: "Version of the SVG renderer that produces portable SVGZs.",
	}
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithExtraCSS injects rules verbatim into the style sheet. It has no
// effect in portable mode.
func WithExtraCSS(css string) Option {
	return func(r *Renderer) {
		r.extraCSS = css
	}
}

// WithCompression gzips the markup.
func WithCompression() Option {
	return func(r *Renderer) {
		r.compress = true
	}
}

// WithToken fixes the clip-path id suffix used in portable mode. By default
// a fresh random token is generated for every render.
func WithToken(token string) Option {
	return func(r *Renderer) {
		r.token = token
	}
}

// Renderer writes a page as SVG.
type Renderer struct {
	portable bool
	compress bool
	extraCSS string
	token    string
	out      []byte
}

var _ backend.Renderer = (*Renderer)(nil)

// New creates a style-sheet mode renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewPortable creates a portable mode renderer.
func NewPortable(opts ...Option) *Renderer {
	r := New(opts...)
	r.portable = true
	return r
}

// Render implements backend.Renderer.
func (r *Renderer) Render(p *scene.Page, scale float64) error {
	r.out = nil

	var v visitor
	if r.portable {
		token := r.token
		if token == "" {
			token = uuid.NewString()
		}
		v = &attrVisitor{token: token}
	} else {
		v = &styleVisitor{extraCSS: r.extraCSS}
	}
	var b strings.Builder
	v.begin(&b, p, scale)
	if err := scene.Dispatch(p, v); err != nil {
		return err
	}
	b.WriteString("</g>\n</svg>")

	if !r.compress {
		r.out = []byte(b.String())
		return nil
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(b.String())); err != nil {
		return fmt.Errorf("svg: compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("svg: compress: %w", err)
	}
	r.out = buf.Bytes()
	return nil
}

// Bytes implements backend.Renderer.
func (r *Renderer) Bytes() []byte { return r.out }

// visitor is a scene.Visitor that also writes the document head.
type visitor interface {
	scene.Visitor
	begin(b *strings.Builder, p *scene.Page, scale float64)
}

const svgOpen = `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" class="httpgd" `

func writeHeader(b *strings.Builder, p *scene.Page, scale float64) {
	b.WriteString(svgOpen)
	fmt.Fprintf(b, `width="%.2f" height="%.2f" viewBox="0 0 %.2f %.2f">`,
		p.Size.W*scale, p.Size.H*scale, p.Size.W, p.Size.H)
	b.WriteString("\n<defs>\n")
}

func writeClipPath(b *strings.Builder, id string, r scene.Bounds) {
	fmt.Fprintf(b, `<clipPath id="%s"><rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"/></clipPath>`+"\n",
		id, r.X, r.Y, r.W, r.H)
}

// clipGroup opens the group for a clip run, closing the previous one.
func clipGroup(b *strings.Builder, first *bool, id string) {
	if *first {
		*first = false
	} else {
		b.WriteString("</g>")
	}
	fmt.Fprintf(b, `<g clip-path="url(#%s)">`+"\n", id)
}

func writePoints(b *strings.Builder, pts []scene.Point) {
	for i, pt := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(b, "%.2f,%.2f", pt.X, pt.Y)
	}
}

func writePathData(b *strings.Builder, p *scene.Path) {
	for _, sub := range p.SubPaths() {
		for i, pt := range sub {
			if i == 0 {
				fmt.Fprintf(b, "M%.2f %.2f", pt.X, pt.Y)
			} else {
				fmt.Fprintf(b, "L%.2f %.2f", pt.X, pt.Y)
			}
		}
		b.WriteByte('Z')
	}
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escape(s string) string { return escaper.Replace(s) }

// textOpen writes the shared head of a text element up to the style or
// attribute list.
func textOpen(b *strings.Builder, t *scene.Text) {
	b.WriteString("<g><text ")
	if t.Rot == 0 {
		fmt.Fprintf(b, `x="%.2f" y="%.2f" `, t.Pos.X, t.Pos.Y)
	} else {
		fmt.Fprintf(b, `transform="translate(%.2f,%.2f) rotate(%.2f)" `, t.Pos.X, t.Pos.Y, -t.Rot)
	}
	switch t.HAdj {
	case 0.5:
		b.WriteString(`text-anchor="middle" `)
	case 1:
		b.WriteString(`text-anchor="end" `)
	}
}

func textClose(b *strings.Builder, t *scene.Text) {
	b.WriteByte('>')
	b.WriteString(escape(t.Str))
	b.WriteString("</text></g>")
}

func writeImage(b *strings.Builder, r *scene.Raster) error {
	data, err := rasterBase64(r)
	if err != nil {
		return err
	}
	b.WriteString("<g><image ")
	fmt.Fprintf(b, ` x="%.2f" y="%.2f" width="%.2f" height="%.2f" `,
		r.Bounds.X, r.Bounds.Y, r.Bounds.W, r.Bounds.H)
	b.WriteString(`preserveAspectRatio="none" `)
	if !r.Interpolate {
		b.WriteString(`image-rendering="pixelated" `)
	}
	if r.Rot != 0 {
		fmt.Fprintf(b, `transform="rotate(%.2f,%.2f,%.2f)" `, -r.Rot, r.Bounds.X, r.Bounds.Y)
	}
	b.WriteString(` xlink:href="data:image/png;base64,`)
	b.WriteString(data)
	b.WriteString(`"/></g>`)
	return nil
}

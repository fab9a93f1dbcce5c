package pdf

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/gogpu/gd/internal/fonts"
	"github.com/gogpu/gd/internal/rasterimg"
	"github.com/gogpu/gd/scene"
)

// minRadius is the smallest circle radius drawn.
const minRadius = 0.5

// writer emits draw calls as PDF operators. fpdf writes every state change
// it is given, so each shape sets its full state. That keeps the output
// correct across the q/Q pairs that delimit clip regions.
type writer struct {
	doc     *fpdf.Fpdf
	s       float64
	clipped bool
	images  int
}

var _ scene.Visitor = (*writer)(nil)

func (w *writer) endClip() {
	if w.clipped {
		w.doc.ClipEnd()
		w.clipped = false
	}
}

// fill sets the fill state and reports whether c paints anything.
func (w *writer) fill(c scene.Color) bool {
	if c.Transparent() {
		return false
	}
	w.doc.SetFillColor(int(c.Red()), int(c.Green()), int(c.Blue()))
	w.doc.SetAlpha(c.Opacity(), "Normal")
	return true
}

// stroke sets the stroke state and reports whether l paints anything.
func (w *writer) stroke(l scene.LineInfo) bool {
	if !l.Visible() {
		return false
	}
	d := w.doc
	d.SetDrawColor(int(l.Col.Red()), int(l.Col.Green()), int(l.Col.Blue()))
	d.SetAlpha(l.Col.Opacity(), "Normal")
	d.SetLineWidth(l.StrokeWidth() * w.s)
	d.SetLineCapStyle(lineCap(l.Cap))
	d.SetLineJoinStyle(lineJoin(l.Join))
	if l.Join == scene.JoinMiter {
		d.RawWriteStr(fmt.Sprintf("%.2f M", l.Miter))
	}
	d.SetDashPattern(l.DashArray(scene.PointsPerPixel*w.s), 0)
	return true
}

func lineCap(c scene.LineCap) string {
	switch c {
	case scene.CapButt:
		return "butt"
	case scene.CapSquare:
		return "square"
	}
	return "round"
}

func lineJoin(j scene.LineJoin) string {
	switch j {
	case scene.JoinMiter:
		return "miter"
	case scene.JoinBevel:
		return "bevel"
	}
	return "round"
}

// trace adds sub-paths to the current path.
func (w *writer) trace(subs [][]scene.Point, closed bool) {
	for _, sub := range subs {
		if len(sub) == 0 {
			continue
		}
		w.doc.MoveTo(sub[0].X*w.s, sub[0].Y*w.s)
		for _, pt := range sub[1:] {
			w.doc.LineTo(pt.X*w.s, pt.Y*w.s)
		}
		if closed {
			w.doc.ClosePath()
		}
	}
}

// shape fills and then strokes a closed outline. fillOp selects the fill
// rule.
func (w *writer) shape(subs [][]scene.Point, fill scene.Color, line scene.LineInfo, fillOp string) {
	if w.fill(fill) {
		w.trace(subs, true)
		w.doc.DrawPath(fillOp)
	}
	if w.stroke(line) {
		w.trace(subs, true)
		w.doc.DrawPath("D")
	}
}

func (w *writer) Background(p *scene.Page) error {
	if w.fill(p.Fill) {
		w.doc.Rect(0, 0, p.Size.W*w.s, p.Size.H*w.s, "F")
	}
	return nil
}

func (w *writer) SetClip(c scene.Clip) error {
	w.endClip()
	r := c.Rect
	w.doc.ClipRect(r.X*w.s, r.Y*w.s, r.W*w.s, r.H*w.s, false)
	w.clipped = true
	return nil
}

func (w *writer) Rect(r *scene.Rect) error {
	b := r.Bounds
	x, y, bw, bh := b.X*w.s, b.Y*w.s, b.W*w.s, b.H*w.s
	if w.fill(r.Fill) {
		w.doc.Rect(x, y, bw, bh, "F")
	}
	if w.stroke(r.Line) {
		w.doc.Rect(x, y, bw, bh, "D")
	}
	return nil
}

func (w *writer) Circle(c *scene.Circle) error {
	x, y, rad := c.Center.X*w.s, c.Center.Y*w.s, max(c.Radius, minRadius)*w.s
	if w.fill(c.Fill) {
		w.doc.Circle(x, y, rad, "F")
	}
	if w.stroke(c.Line) {
		w.doc.Circle(x, y, rad, "D")
	}
	return nil
}

func (w *writer) Line(l *scene.Line) error {
	if w.stroke(l.Line) {
		w.doc.Line(l.From.X*w.s, l.From.Y*w.s, l.To.X*w.s, l.To.Y*w.s)
	}
	return nil
}

func (w *writer) Polyline(l *scene.Polyline) error {
	if w.stroke(l.Line) {
		w.trace([][]scene.Point{l.Points}, false)
		w.doc.DrawPath("D")
	}
	return nil
}

func (w *writer) Polygon(g *scene.Polygon) error {
	w.shape([][]scene.Point{g.Points}, g.Fill, g.Line, "F")
	return nil
}

func (w *writer) Path(p *scene.Path) error {
	op := "F*"
	if p.Winding {
		op = "F"
	}
	w.shape(p.SubPaths(), p.Fill, p.Line, op)
	return nil
}

func (w *writer) Raster(r *scene.Raster) error {
	if r.Width == 0 || r.Height == 0 {
		return nil
	}
	data, err := rasterimg.EncodePNG(rasterimg.NRGBA(r.Width, r.Height, r.Pixels))
	if err != nil {
		return fmt.Errorf("pdf: raster: %w", err)
	}
	w.images++
	name := fmt.Sprintf("raster%d", w.images)
	opts := fpdf.ImageOptions{ImageType: "png", AllowNegativePosition: true}
	w.doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))

	b := r.Bounds
	x, y := b.X*w.s, b.Y*w.s
	w.doc.SetAlpha(1, "Normal")
	if r.Rot != 0 {
		w.doc.TransformBegin()
		w.doc.TransformRotate(r.Rot, x, y)
	}
	w.doc.ImageOptions(name, x, y, b.W*w.s, b.H*w.s, false, opts, 0, "")
	if r.Rot != 0 {
		w.doc.TransformEnd()
	}
	return w.doc.Error()
}

func (w *writer) Text(t *scene.Text) error {
	if t.Col.Transparent() {
		return nil
	}
	d := w.doc
	family, style := fonts.PDF(t.Font)
	d.SetFont(family, style, t.Font.Size*w.s)
	d.SetTextColor(int(t.Col.Red()), int(t.Col.Green()), int(t.Col.Blue()))
	d.SetAlpha(t.Col.Opacity(), "Normal")

	// fpdf sets up the standard fonts with the cp1252 encoding.
	str := fonts.Encode(charmap.Windows1252, t.Str)
	width := t.Font.Width * w.s
	if width <= 0 {
		width = d.GetStringWidth(str)
	}
	x, y := t.Pos.X*w.s, t.Pos.Y*w.s
	if t.Rot != 0 {
		d.TransformBegin()
		d.TransformRotate(t.Rot, x, y)
	}
	d.Text(x-t.HAdj*width, y, str)
	if t.Rot != 0 {
		d.TransformEnd()
	}
	return nil
}

package raster

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/gd/internal/fonts"
	"github.com/gogpu/gd/internal/rasterimg"
	"github.com/gogpu/gd/scene"
)

// minRadius is the smallest circle radius painted.
const minRadius = 0.5

// painter walks a page onto a gg context. Coordinates are scaled by hand so
// the context matrix stays the identity and stroke widths and dashes are in
// pixels.
//
// Each run of calls sharing a clip is painted onto a transparent layer, which
// is composited over the page inside the clip rectangle when the clip changes.
// Source-over is associative, so this matches painting in place.
type painter struct {
	dc    *gg.Context
	layer *gg.Pixmap
	src   *image.RGBA // premultiplied view of layer
	dst   *image.NRGBA
	scale float64
	clip  image.Rectangle
	mask  *image.Alpha // partial coverage of clip edges, nil when pixel aligned
	dirty bool
}

var _ scene.Visitor = (*painter)(nil)

func newPainter(w, h int, scale float64) *painter {
	layer := gg.NewPixmap(w, h)
	bounds := image.Rect(0, 0, w, h)
	return &painter{
		dc:    gg.NewContext(w, h, gg.WithPixmap(layer)),
		layer: layer,
		src:   &image.RGBA{Pix: layer.Data(), Stride: w * 4, Rect: bounds},
		dst:   image.NewNRGBA(bounds),
		scale: scale,
		clip:  bounds,
	}
}

// flush composites the layer over the page inside the active clip and
// clears it.
func (p *painter) flush() {
	if !p.dirty {
		return
	}
	if p.mask != nil {
		xdraw.DrawMask(p.dst, p.clip, p.src, p.clip.Min, p.mask, p.clip.Min, xdraw.Over)
	} else {
		xdraw.Draw(p.dst, p.clip, p.src, p.clip.Min, xdraw.Over)
	}
	p.layer.Clear(gg.RGBA{})
	p.dirty = false
}

func (p *painter) close() error {
	p.flush()
	return p.dc.Close()
}

func (p *painter) setColor(c scene.Color) {
	p.dc.SetRGBA(
		float64(c.Red())/255,
		float64(c.Green())/255,
		float64(c.Blue())/255,
		c.Opacity(),
	)
}

func (p *painter) setLine(l scene.LineInfo) {
	p.setColor(l.Col)
	p.dc.SetLineWidth(l.StrokeWidth() * p.scale)
	p.dc.SetLineCap(lineCap(l.Cap))
	p.dc.SetLineJoin(lineJoin(l.Join))
	p.dc.SetMiterLimit(l.Miter)
	if d := l.DashArray(scene.PointsPerPixel * p.scale); len(d) > 0 {
		p.dc.SetDash(d...)
	} else {
		p.dc.ClearDash()
	}
}

// paint fills and then strokes the current path, skipping invisible steps.
func (p *painter) paint(fill scene.Color, line scene.LineInfo, closed bool) error {
	stroke := line.Visible()
	if closed && !fill.Transparent() {
		p.setColor(fill)
		var err error
		if stroke {
			err = p.dc.FillPreserve()
		} else {
			err = p.dc.Fill()
		}
		if err != nil {
			return fmt.Errorf("raster: fill: %w", err)
		}
	}
	if stroke {
		p.setLine(line)
		if err := p.dc.Stroke(); err != nil {
			return fmt.Errorf("raster: stroke: %w", err)
		}
	}
	p.dc.ClearPath()
	p.dirty = true
	return nil
}

func (p *painter) Background(pg *scene.Page) error {
	if pg.Fill.Transparent() {
		return nil
	}
	xdraw.Draw(p.dst, p.dst.Rect, image.NewUniform(pg.Fill.NRGBA()), image.Point{}, xdraw.Src)
	return nil
}

func (p *painter) SetClip(c scene.Clip) error {
	p.flush()
	s := p.scale
	r := c.Rect
	x0, x1 := r.X*s, (r.X+r.W)*s
	y0, y1 := r.Y*s, (r.Y+r.H)*s
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	p.clip = image.Rect(
		int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x1)), int(math.Ceil(y1)),
	).Intersect(p.dst.Rect)
	p.mask = edgeMask(p.clip, x0, y0, x1, y1)
	return nil
}

// edgeMask returns the coverage of each pixel of px by the rectangle
// [x0,x1)x[y0,y1), or nil when every pixel of px is fully covered.
func edgeMask(px image.Rectangle, x0, y0, x1, y1 float64) *image.Alpha {
	if px.Empty() {
		return nil
	}
	cover := func(i int, lo, hi float64) float64 {
		return math.Max(0, math.Min(float64(i+1), hi)-math.Max(float64(i), lo))
	}
	full := true
	for _, v := range []float64{
		cover(px.Min.X, x0, x1), cover(px.Max.X-1, x0, x1),
		cover(px.Min.Y, y0, y1), cover(px.Max.Y-1, y0, y1),
	} {
		if v < 1 {
			full = false
		}
	}
	if full {
		return nil
	}
	m := image.NewAlpha(px)
	for y := px.Min.Y; y < px.Max.Y; y++ {
		cy := cover(y, y0, y1)
		for x := px.Min.X; x < px.Max.X; x++ {
			a := cover(x, x0, x1) * cy
			m.Pix[m.PixOffset(x, y)] = uint8(math.Round(a * 255))
		}
	}
	return m
}

func (p *painter) Rect(r *scene.Rect) error {
	s := p.scale
	b := r.Bounds
	p.dc.DrawRectangle(b.X*s, b.Y*s, b.W*s, b.H*s)
	return p.paint(r.Fill, r.Line, true)
}

func (p *painter) Circle(c *scene.Circle) error {
	s := p.scale
	p.dc.DrawCircle(c.Center.X*s, c.Center.Y*s, math.Max(c.Radius, minRadius)*s)
	return p.paint(c.Fill, c.Line, true)
}

func (p *painter) Line(l *scene.Line) error {
	if !l.Line.Visible() {
		return nil
	}
	s := p.scale
	p.dc.MoveTo(l.From.X*s, l.From.Y*s)
	p.dc.LineTo(l.To.X*s, l.To.Y*s)
	return p.paint(scene.Transparent, l.Line, false)
}

func (p *painter) polyline(pts []scene.Point, closed bool) {
	s := p.scale
	for i, pt := range pts {
		if i == 0 {
			p.dc.MoveTo(pt.X*s, pt.Y*s)
		} else {
			p.dc.LineTo(pt.X*s, pt.Y*s)
		}
	}
	if closed {
		p.dc.ClosePath()
	}
}

func (p *painter) Polyline(l *scene.Polyline) error {
	if !l.Line.Visible() {
		return nil
	}
	p.polyline(l.Points, false)
	return p.paint(scene.Transparent, l.Line, false)
}

func (p *painter) Polygon(g *scene.Polygon) error {
	p.dc.SetFillRule(gg.FillRuleNonZero)
	p.polyline(g.Points, true)
	return p.paint(g.Fill, g.Line, true)
}

func (p *painter) Path(pa *scene.Path) error {
	if pa.Winding {
		p.dc.SetFillRule(gg.FillRuleNonZero)
	} else {
		p.dc.SetFillRule(gg.FillRuleEvenOdd)
	}
	for _, sub := range pa.SubPaths() {
		p.polyline(sub, true)
	}
	return p.paint(pa.Fill, pa.Line, true)
}

func (p *painter) Raster(r *scene.Raster) error {
	if r.Width <= 0 || r.Height <= 0 {
		return nil
	}
	src := rasterimg.Premultiplied(r.Width, r.Height, r.Pixels)

	s := p.scale
	theta := -r.Rot * math.Pi / 180
	sin, cos := math.Sincos(theta)
	sx := r.Bounds.W / float64(r.Width)
	sy := r.Bounds.H / float64(r.Height)
	m := f64.Aff3{
		s * cos * sx, -s * sin * sy, s * r.Bounds.X,
		s * sin * sx, s * cos * sy, s * r.Bounds.Y,
	}
	var k xdraw.Transformer = xdraw.NearestNeighbor
	if r.Interpolate {
		k = xdraw.BiLinear
	}
	k.Transform(p.src, m, src, src.Bounds(), xdraw.Over, nil)
	p.dirty = true
	return nil
}

func (p *painter) Text(t *scene.Text) error {
	if t.Col.Transparent() || t.Str == "" || t.Font.Size <= 0 {
		return nil
	}
	fs, err := fonts.Source(t.Font)
	if err != nil {
		return fmt.Errorf("raster: font: %w", err)
	}
	s := p.scale
	face := fs.Face(t.Font.Size * s)
	metrics := face.Metrics()

	measured := face.Advance(t.Str)
	adv := t.Font.Width * s
	if adv <= 0 {
		adv = measured
	}
	const pad = 2
	w := int(math.Ceil(measured)) + 2*pad
	h := int(math.Ceil(metrics.Ascent+metrics.Descent)) + 2*pad
	if w <= 0 || h <= 0 {
		return nil
	}
	glyphs := image.NewRGBA(image.Rect(0, 0, w, h))
	text.Draw(glyphs, t.Str, face, pad, pad+metrics.Ascent, t.Col.NRGBA())

	theta := -t.Rot * math.Pi / 180
	sin, cos := math.Sincos(theta)
	ox := -pad - t.HAdj*adv
	oy := -pad - metrics.Ascent
	px, py := t.Pos.X*s, t.Pos.Y*s
	m := f64.Aff3{
		cos, -sin, px + cos*ox - sin*oy,
		sin, cos, py + sin*ox + cos*oy,
	}
	xdraw.BiLinear.Transform(p.src, m, glyphs, glyphs.Bounds(), xdraw.Over, nil)
	p.dirty = true
	return nil
}

func lineCap(c scene.LineCap) gg.LineCap {
	switch c {
	case scene.CapButt:
		return gg.LineCapButt
	case scene.CapSquare:
		return gg.LineCapSquare
	default:
		return gg.LineCapRound
	}
}

func lineJoin(j scene.LineJoin) gg.LineJoin {
	switch j {
	case scene.JoinMiter:
		return gg.LineJoinMiter
	case scene.JoinBevel:
		return gg.LineJoinBevel
	default:
		return gg.LineJoinRound
	}
}

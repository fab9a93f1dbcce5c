package ps

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/encoding/charmap"

	"github.com/gogpu/gd/internal/fonts"
	"github.com/gogpu/gd/scene"
)

// minRadius is the smallest circle radius drawn.
const minRadius = 0.5

// hexLine is the number of image bytes per line of hex data.
const hexLine = 36

// prolog defines gdfont, which selects a standard font re-encoded to
// ISOLatin1Encoding: size /Name gdfont.
const prolog = `%%BeginProlog
/gdfont {
  findfont dup length dict begin
    { 1 index /FID ne { def } { pop pop } ifelse } forall
    /Encoding ISOLatin1Encoding def
    currentdict
  end
  /gdtmp exch definefont exch scalefont setfont
} bind def
%%EndProlog
`

// writer emits PostScript operators for a page.
//
// Each clip run is wrapped in gsave/grestore, so every shape writes the
// state it needs.
type writer struct {
	buf     bytes.Buffer
	s       float64
	clipped bool
}

var _ scene.Visitor = (*writer)(nil)

// op writes an operator with its operands on one line.
func (w *writer) op(operands, operator string) {
	if operands != "" {
		w.buf.WriteString(operands)
		w.buf.WriteByte(' ')
	}
	w.buf.WriteString(operator)
	w.buf.WriteByte('\n')
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (w *writer) pt(p scene.Point) string {
	return num(p.X*w.s) + " " + num(p.Y*w.s)
}

func (w *writer) header(p *scene.Page, eps bool) {
	width, height := p.Size.W*w.s, p.Size.H*w.s
	if eps {
		w.op("", "%!PS-Adobe-3.0 EPSF-3.0")
	} else {
		w.op("", "%!PS-Adobe-3.0")
	}
	fmt.Fprintf(&w.buf, "%%%%BoundingBox: 0 0 %d %d\n", int(math.Ceil(width)), int(math.Ceil(height)))
	fmt.Fprintf(&w.buf, "%%%%HiResBoundingBox: 0 0 %s %s\n", num(width), num(height))
	w.op("", "%%Creator: gd")
	w.op("", "%%LanguageLevel: 2")
	w.op("", "%%Pages: 1")
	w.op("", "%%EndComments")
	w.buf.WriteString(prolog)
	w.op("", "%%Page: 1 1")
	if !eps {
		w.op("<< /PageSize ["+num(width)+" "+num(height)+"] >>", "setpagedevice")
	}
	w.op("", "gsave")
	w.op("0 "+num(height)+" translate 1 -1", "scale")
}

func (w *writer) trailer() {
	w.endClip()
	w.op("", "grestore")
	w.op("", "showpage")
	w.op("", "%%EOF")
}

func (w *writer) endClip() {
	if w.clipped {
		w.op("", "grestore")
		w.clipped = false
	}
}

func (w *writer) setColor(c scene.Color) {
	w.op(fmt.Sprintf("%.3f %.3f %.3f",
		float64(c.Red())/255, float64(c.Green())/255, float64(c.Blue())/255), "setrgbcolor")
}

// stroke sets the stroke state and reports whether l paints anything.
func (w *writer) stroke(l scene.LineInfo) bool {
	if !l.Visible() {
		return false
	}
	w.setColor(l.Col)
	w.op(num(l.StrokeWidth()*w.s), "setlinewidth")
	w.op(strconv.Itoa(lineCap(l.Cap)), "setlinecap")
	w.op(strconv.Itoa(lineJoin(l.Join)), "setlinejoin")
	if l.Join == scene.JoinMiter {
		w.op(num(l.Miter), "setmiterlimit")
	}
	var dash bytes.Buffer
	dash.WriteByte('[')
	for i, d := range l.DashArray(scene.PointsPerPixel * w.s) {
		if i > 0 {
			dash.WriteByte(' ')
		}
		dash.WriteString(num(d))
	}
	dash.WriteString("] 0")
	w.op(dash.String(), "setdash")
	return true
}

func lineCap(c scene.LineCap) int {
	switch c {
	case scene.CapButt:
		return 0
	case scene.CapSquare:
		return 2
	}
	return 1
}

func lineJoin(j scene.LineJoin) int {
	switch j {
	case scene.JoinMiter:
		return 0
	case scene.JoinBevel:
		return 2
	}
	return 1
}

func (w *writer) trace(subs [][]scene.Point, closed bool) {
	w.op("", "newpath")
	for _, sub := range subs {
		for i, p := range sub {
			if i == 0 {
				w.op(w.pt(p), "moveto")
			} else {
				w.op(w.pt(p), "lineto")
			}
		}
		if closed && len(sub) > 0 {
			w.op("", "closepath")
		}
	}
}

// paint fills and strokes the current path, then discards it.
func (w *writer) paint(fill scene.Color, line scene.LineInfo, fillOp string) {
	if !fill.Transparent() {
		w.op("", "gsave")
		w.setColor(fill)
		w.op("", fillOp)
		w.op("", "grestore")
	}
	if w.stroke(line) {
		w.op("", "stroke")
	} else {
		w.op("", "newpath")
	}
}

func (w *writer) Background(p *scene.Page) error {
	if p.Fill.Transparent() {
		return nil
	}
	w.setColor(p.Fill)
	w.op("0 0 "+num(p.Size.W*w.s)+" "+num(p.Size.H*w.s), "rectfill")
	return nil
}

func (w *writer) SetClip(c scene.Clip) error {
	w.endClip()
	w.op("", "gsave")
	r := c.Rect
	w.op(num(r.X*w.s)+" "+num(r.Y*w.s)+" "+num(r.W*w.s)+" "+num(r.H*w.s), "rectclip")
	w.clipped = true
	return nil
}

func corners(b scene.Bounds) []scene.Point {
	return []scene.Point{
		{X: b.X, Y: b.Y},
		{X: b.X + b.W, Y: b.Y},
		{X: b.X + b.W, Y: b.Y + b.H},
		{X: b.X, Y: b.Y + b.H},
	}
}

func (w *writer) Rect(r *scene.Rect) error {
	w.trace([][]scene.Point{corners(r.Bounds)}, true)
	w.paint(r.Fill, r.Line, "fill")
	return nil
}

func (w *writer) Circle(c *scene.Circle) error {
	w.op("", "newpath")
	w.op(w.pt(c.Center)+" "+num(max(c.Radius, minRadius)*w.s)+" 0 360", "arc")
	w.op("", "closepath")
	w.paint(c.Fill, c.Line, "fill")
	return nil
}

func (w *writer) Line(l *scene.Line) error {
	if !l.Line.Visible() {
		return nil
	}
	w.trace([][]scene.Point{{l.From, l.To}}, false)
	w.stroke(l.Line)
	w.op("", "stroke")
	return nil
}

func (w *writer) Polyline(l *scene.Polyline) error {
	if !l.Line.Visible() {
		return nil
	}
	w.trace([][]scene.Point{l.Points}, false)
	w.stroke(l.Line)
	w.op("", "stroke")
	return nil
}

func (w *writer) Polygon(g *scene.Polygon) error {
	w.trace([][]scene.Point{g.Points}, true)
	w.paint(g.Fill, g.Line, "fill")
	return nil
}

func (w *writer) Path(p *scene.Path) error {
	w.trace(p.SubPaths(), true)
	op := "eofill"
	if p.Winding {
		op = "fill"
	}
	w.paint(p.Fill, p.Line, op)
	return nil
}

// Raster writes the image as RGB hex data composited over white.
func (w *writer) Raster(r *scene.Raster) error {
	if r.Width == 0 || r.Height == 0 {
		return nil
	}
	b := r.Bounds
	w.op("", "gsave")
	w.op(w.pt(scene.Point{X: b.X, Y: b.Y}), "translate")
	if r.Rot != 0 {
		w.op(num(-r.Rot), "rotate")
	}
	w.op(num(b.W*w.s)+" "+num(b.H*w.s), "scale")
	w.op(fmt.Sprintf("/gdrow %d string", r.Width*3), "def")
	w.op("/DeviceRGB", "setcolorspace")
	w.op(fmt.Sprintf("<< /ImageType 1 /Width %d /Height %d /BitsPerComponent 8 /Decode [0 1 0 1 0 1]"+
		" /ImageMatrix [%d 0 0 %d 0 0] /DataSource { currentfile gdrow readhexstring pop } /Interpolate %t >>",
		r.Width, r.Height, r.Width, r.Height, r.Interpolate), "image")

	rgb := make([]byte, 0, len(r.Pixels)*3)
	for _, c := range r.Pixels {
		a := uint32(c.Alpha())
		over := func(v uint8) byte {
			return byte((uint32(v)*a + 255*(255-a) + 127) / 255)
		}
		rgb = append(rgb, over(c.Red()), over(c.Green()), over(c.Blue()))
	}
	for len(rgb) > 0 {
		n := min(hexLine, len(rgb))
		w.buf.WriteString(hex.EncodeToString(rgb[:n]))
		w.buf.WriteByte('\n')
		rgb = rgb[n:]
	}
	w.op("", "grestore")
	return nil
}

// Text sets the string with the origin at the anchor. The flip is undone
// locally so glyphs are upright.
func (w *writer) Text(t *scene.Text) error {
	if t.Col.Transparent() {
		return nil
	}
	str := literal(fonts.Encode(charmap.ISO8859_1, t.Str))
	w.op("", "gsave")
	w.setColor(t.Col)
	w.op(num(t.Font.Size*w.s)+" /"+fonts.PostScript(t.Font), "gdfont")
	w.op(w.pt(t.Pos), "translate")
	w.op("1 -1", "scale")
	if t.Rot != 0 {
		w.op(num(t.Rot), "rotate")
	}
	switch {
	case t.HAdj == 0:
		w.op("0 0", "moveto")
	case t.Font.Width > 0:
		w.op(num(-t.HAdj*t.Font.Width*w.s)+" 0", "moveto")
	default:
		w.op(str+" stringwidth pop "+num(t.HAdj)+" mul neg 0", "moveto")
	}
	w.op(str, "show")
	w.op("", "grestore")
	return nil
}

// literal quotes s as a PostScript string.
func literal(s string) string {
	var b bytes.Buffer
	b.WriteByte('(')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '(' || c == ')' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < 0x20 || c >= 0x7F:
			fmt.Fprintf(&b, "\\%03o", c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(')')
	return b.String()
}

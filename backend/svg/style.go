package svg

import (
	"fmt"
	"strings"

	"github.com/gogpu/gd/internal/rasterimg"
	"github.com/gogpu/gd/scene"
)

const styleSheet = `  <style type='text/css'><![CDATA[
    .httpgd line, .httpgd polyline, .httpgd polygon, .httpgd path, .httpgd rect, .httpgd circle {
      fill: none;
      stroke: #000000;
      stroke-linecap: round;
      stroke-linejoin: round;
      stroke-miterlimit: 10.00;
    }
`

// styleMiterLimit is the miter limit declared in the style sheet.
const styleMiterLimit = 10.0

// styleVisitor writes shapes whose styling differs from the style sheet
// defaults as inline style declarations.
type styleVisitor struct {
	b        *strings.Builder
	extraCSS string
	first    bool
}

func (v *styleVisitor) begin(b *strings.Builder, p *scene.Page, scale float64) {
	v.b = b
	v.first = true
	writeHeader(b, p, scale)
	b.WriteString(styleSheet)
	if v.extraCSS != "" {
		b.WriteString(v.extraCSS)
		b.WriteByte('\n')
	}
	b.WriteString("  ]]></style>\n")
	for _, c := range p.Clips {
		writeClipPath(b, fmt.Sprintf("c%d", c.ID), c.Rect)
	}
	b.WriteString("</defs>\n")
}

func (v *styleVisitor) Background(p *scene.Page) error {
	v.b.WriteString(`<rect width="100%" height="100%" style="stroke: none;`)
	cssFillOrNone(v.b, p.Fill)
	v.b.WriteString("\"/>\n")
	return nil
}

func (v *styleVisitor) SetClip(c scene.Clip) error {
	clipGroup(v.b, &v.first, fmt.Sprintf("c%d", c.ID))
	return nil
}

func (v *styleVisitor) Rect(r *scene.Rect) error {
	b := v.b
	fmt.Fprintf(b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" style="`,
		r.Bounds.X, r.Bounds.Y, r.Bounds.W, r.Bounds.H)
	cssLine(b, r.Line)
	cssFillOrOmit(b, r.Fill)
	b.WriteString("\"/>\n")
	return nil
}

func (v *styleVisitor) Text(t *scene.Text) error {
	b := v.b
	textOpen(b, t)
	fmt.Fprintf(b, `style="font-family: %s;font-size: %.2fpx;`, escape(t.Font.Family), t.Font.Size)
	switch t.Font.Weight {
	case 400:
	case 700:
		b.WriteString("font-weight: bold;")
	default:
		fmt.Fprintf(b, "font-weight: %d;", t.Font.Weight)
	}
	if t.Font.Italic {
		b.WriteString("font-style: italic;")
	}
	if t.Col != scene.Black {
		cssFillOrNone(b, t.Col)
	}
	if t.Font.Features != "" {
		fmt.Fprintf(b, "font-feature-settings: %s;", escape(t.Font.Features))
	}
	b.WriteByte('"')
	if t.Font.Width > 0 {
		fmt.Fprintf(b, ` textLength="%.2fpx" lengthAdjust="spacingAndGlyphs"`, t.Font.Width)
	}
	textClose(b, t)
	b.WriteByte('\n')
	return nil
}

func (v *styleVisitor) Circle(c *scene.Circle) error {
	b := v.b
	fmt.Fprintf(b, `<circle cx="%.2f" cy="%.2f" r="%.2f" style="`, c.Center.X, c.Center.Y, c.Radius)
	cssLine(b, c.Line)
	cssFillOrOmit(b, c.Fill)
	b.WriteString("\"/>\n")
	return nil
}

func (v *styleVisitor) Line(l *scene.Line) error {
	b := v.b
	fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" style="`,
		l.From.X, l.From.Y, l.To.X, l.To.Y)
	cssLine(b, l.Line)
	b.WriteString("\"/>\n")
	return nil
}

func (v *styleVisitor) Polyline(l *scene.Polyline) error {
	b := v.b
	b.WriteString(`<polyline points="`)
	writePoints(b, l.Points)
	b.WriteString(`" style="`)
	cssLine(b, l.Line)
	b.WriteString("\"/>\n")
	return nil
}

func (v *styleVisitor) Polygon(g *scene.Polygon) error {
	b := v.b
	b.WriteString(`<polygon points="`)
	writePoints(b, g.Points)
	b.WriteString(`" style="`)
	cssLine(b, g.Line)
	cssFillOrOmit(b, g.Fill)
	b.WriteString("\"/>\n")
	return nil
}

func (v *styleVisitor) Path(p *scene.Path) error {
	b := v.b
	b.WriteString(`<path d="`)
	writePathData(b, p)
	b.WriteString(`" style="`)
	cssLine(b, p.Line)
	cssFillOrOmit(b, p.Fill)
	b.WriteString("fill-rule: ")
	b.WriteString(fillRule(p.Winding))
	b.WriteString(";\"/>\n")
	return nil
}

func (v *styleVisitor) Raster(r *scene.Raster) error {
	if err := writeImage(v.b, r); err != nil {
		return err
	}
	v.b.WriteByte('\n')
	return nil
}

func cssFillOrNone(b *strings.Builder, c scene.Color) {
	if c.Transparent() {
		b.WriteString("fill: none;")
		return
	}
	cssFillOrOmit(b, c)
}

func cssFillOrOmit(b *strings.Builder, c scene.Color) {
	if c.Transparent() {
		return
	}
	fmt.Fprintf(b, "fill: %s;", c.Hex())
	if !c.Opaque() {
		fmt.Fprintf(b, "fill-opacity: %.2f;", c.Opacity())
	}
}

// cssLine writes stroke declarations that differ from the style sheet.
func cssLine(b *strings.Builder, l scene.LineInfo) {
	fmt.Fprintf(b, "stroke-width: %.2f;", l.Width*scene.PointsPerPixel)

	switch {
	case l.Type == scene.LineTypeBlank, l.Col.Transparent():
		b.WriteString("stroke: none;")
	case l.Col != scene.Black:
		fmt.Fprintf(b, "stroke: %s;", l.Col.Hex())
		if !l.Col.Opaque() {
			fmt.Fprintf(b, "stroke-opacity: %.2f;", l.Col.Opacity())
		}
	}

	if d := l.DashArray(1); len(d) > 0 {
		b.WriteString(" stroke-dasharray: ")
		writeDashes(b, d)
		b.WriteByte(';')
	}

	switch l.Cap {
	case scene.CapButt:
		b.WriteString("stroke-linecap: butt;")
	case scene.CapSquare:
		b.WriteString("stroke-linecap: square;")
	}

	switch l.Join {
	case scene.JoinBevel:
		b.WriteString("stroke-linejoin: bevel;")
	case scene.JoinMiter:
		b.WriteString("stroke-linejoin: miter;")
		if !nearly(l.Miter, styleMiterLimit) {
			fmt.Fprintf(b, "stroke-miterlimit: %.2f;", l.Miter)
		}
	}
}

func writeDashes(b *strings.Builder, d []float64) {
	for i, v := range d {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%.2f", v)
	}
}

func nearly(a, b float64) bool {
	d := a - b
	return d < 1e-3 && d > -1e-3
}

func fillRule(winding bool) string {
	if winding {
		return "nonzero"
	}
	return "evenodd"
}

func rasterBase64(r *scene.Raster) (string, error) {
	s, err := rasterimg.Base64PNG(r.Width, r.Height, r.Pixels)
	if err != nil {
		return "", fmt.Errorf("svg: %w", err)
	}
	return s, nil
}

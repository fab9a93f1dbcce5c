package svg

import (
	"fmt"
	"strings"

	"github.com/gogpu/gd/scene"
)

// svgMiterLimit is the SVG initial value of stroke-miterlimit.
const svgMiterLimit = 4.0

// attrVisitor writes every style property as an attribute. Clip ids carry a
// per-render token.
type attrVisitor struct {
	b     *strings.Builder
	token string
	first bool
}

func (v *attrVisitor) clipID(id int) string {
	return fmt.Sprintf("c%d-%s", id, v.token)
}

func (v *attrVisitor) begin(b *strings.Builder, p *scene.Page, scale float64) {
	v.b = b
	v.first = true
	writeHeader(b, p, scale)
	for _, c := range p.Clips {
		writeClipPath(b, v.clipID(c.ID), c.Rect)
	}
	b.WriteString("</defs>\n")
}

func (v *attrVisitor) Background(p *scene.Page) error {
	v.b.WriteString(`<rect width="100%" height="100%" stroke="none"`)
	attrFillOrNone(v.b, p.Fill)
	v.b.WriteString("/>\n")
	return nil
}

func (v *attrVisitor) SetClip(c scene.Clip) error {
	clipGroup(v.b, &v.first, v.clipID(c.ID))
	return nil
}

func (v *attrVisitor) Rect(r *scene.Rect) error {
	b := v.b
	fmt.Fprintf(b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" `,
		r.Bounds.X, r.Bounds.Y, r.Bounds.W, r.Bounds.H)
	attrLine(b, r.Line)
	attrFillOrNone(b, r.Fill)
	b.WriteString("/>\n")
	return nil
}

func (v *attrVisitor) Text(t *scene.Text) error {
	b := v.b
	textOpen(b, t)
	fmt.Fprintf(b, `font-family="%s" font-size="%.2fpx"`, escape(t.Font.Family), t.Font.Size)
	switch t.Font.Weight {
	case 400:
	case 700:
		b.WriteString(` font-weight="bold"`)
	default:
		fmt.Fprintf(b, ` font-weight="%d"`, t.Font.Weight)
	}
	if t.Font.Italic {
		b.WriteString(` font-style="italic"`)
	}
	if t.Col != scene.Black {
		attrFillOrNone(b, t.Col)
	}
	if t.Font.Features != "" {
		fmt.Fprintf(b, ` font-feature-settings="%s"`, escape(t.Font.Features))
	}
	if t.Font.Width > 0 {
		fmt.Fprintf(b, ` textLength="%.2fpx" lengthAdjust="spacingAndGlyphs"`, t.Font.Width)
	}
	textClose(b, t)
	b.WriteByte('\n')
	return nil
}

func (v *attrVisitor) Circle(c *scene.Circle) error {
	b := v.b
	fmt.Fprintf(b, `<circle cx="%.2f" cy="%.2f" r="%.2f" `, c.Center.X, c.Center.Y, c.Radius)
	attrLine(b, c.Line)
	attrFillOrNone(b, c.Fill)
	b.WriteString("/>\n")
	return nil
}

func (v *attrVisitor) Line(l *scene.Line) error {
	b := v.b
	fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" `,
		l.From.X, l.From.Y, l.To.X, l.To.Y)
	attrLine(b, l.Line)
	b.WriteString("/>\n")
	return nil
}

func (v *attrVisitor) Polyline(l *scene.Polyline) error {
	b := v.b
	b.WriteString(`<polyline points="`)
	writePoints(b, l.Points)
	b.WriteString(`" fill="none" `)
	attrLine(b, l.Line)
	b.WriteString("/>\n")
	return nil
}

func (v *attrVisitor) Polygon(g *scene.Polygon) error {
	b := v.b
	b.WriteString(`<polygon points="`)
	writePoints(b, g.Points)
	b.WriteString(`" `)
	attrLine(b, g.Line)
	attrFillOrNone(b, g.Fill)
	b.WriteString("/>\n")
	return nil
}

func (v *attrVisitor) Path(p *scene.Path) error {
	b := v.b
	b.WriteString(`<path d="`)
	writePathData(b, p)
	b.WriteString(`" `)
	attrLine(b, p.Line)
	attrFillOrNone(b, p.Fill)
	fmt.Fprintf(b, ` fill-rule="%s"/>`+"\n", fillRule(p.Winding))
	return nil
}

func (v *attrVisitor) Raster(r *scene.Raster) error {
	if err := writeImage(v.b, r); err != nil {
		return err
	}
	v.b.WriteByte('\n')
	return nil
}

// attrFillOrNone writes fill="none" for transparent colours, which is the
// only way to suppress the SVG default black fill without a style sheet.
func attrFillOrNone(b *strings.Builder, c scene.Color) {
	if c.Transparent() {
		b.WriteString(` fill="none"`)
		return
	}
	fmt.Fprintf(b, ` fill="%s"`, c.Hex())
	if !c.Opaque() {
		fmt.Fprintf(b, ` fill-opacity="%.2f"`, c.Opacity())
	}
}

// attrLine writes stroke attributes. Butt caps and miter joins are the SVG
// initial values and are omitted.
func attrLine(b *strings.Builder, l scene.LineInfo) {
	fmt.Fprintf(b, `stroke-width="%.2f"`, l.Width*scene.PointsPerPixel)

	if l.Visible() {
		fmt.Fprintf(b, ` stroke="%s"`, l.Col.Hex())
		if !l.Col.Opaque() {
			fmt.Fprintf(b, ` stroke-opacity="%.2f"`, l.Col.Opacity())
		}
	}

	if d := l.DashArray(1); len(d) > 0 {
		b.WriteString(` stroke-dasharray="`)
		writeDashes(b, d)
		b.WriteByte('"')
	}

	switch l.Cap {
	case scene.CapRound:
		b.WriteString(` stroke-linecap="round"`)
	case scene.CapSquare:
		b.WriteString(` stroke-linecap="square"`)
	}

	switch l.Join {
	case scene.JoinRound:
		b.WriteString(` stroke-linejoin="round"`)
	case scene.JoinBevel:
		b.WriteString(` stroke-linejoin="bevel"`)
	case scene.JoinMiter:
		if !nearly(l.Miter, svgMiterLimit) {
			fmt.Fprintf(b, ` stroke-miterlimit="%.2f"`, l.Miter)
		}
	}
}

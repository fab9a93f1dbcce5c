// Package structured serializes pages to a JSON record and reads them back.
//
// The record mirrors the page model one to one: page size and fill, the
// clip list, and every draw call with its clip id and style. Numbers are
// written with two decimals and colours as #RRGGBB strings. A colour that is
// not fully opaque gets a sibling "<name>_alpha" field holding its alpha
// channel; readers that ignore the extension see the colour as opaque.
//
// Decode accepts any record produced by Renderer and ignores unknown fields,
// which lets the record double as an interchange format for tests and the
// command line tool.
package structured

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gogpu/gd/backend"
	"github.com/gogpu/gd/internal/rasterimg"
	"github.com/gogpu/gd/scene"
)

// Info is the renderer metadata for registration.
var Info = backend.Info{
	ID:          "json",
	MIME:        "application/json",
	Ext:         ".json",
	Name:        "JSON",
	Type:        backend.CategoryText,
	Text:        true,
	Description: "Plot data serialized to JSON format.",
}

// Renderer writes a page as a JSON record.
type Renderer struct {
	out []byte
}

var _ backend.Renderer = (*Renderer)(nil)

// New creates a JSON renderer.
func New() *Renderer { return &Renderer{} }

// Render implements backend.Renderer.
func (r *Renderer) Render(p *scene.Page, scale float64) error {
	r.out = nil

	fill, fillAlpha := colour(p.Fill)
	rec := pageRecord{
		ID:        strconv.FormatUint(uint64(p.ID), 10),
		W:         number(p.Size.W),
		H:         number(p.Size.H),
		Scale:     number(scale),
		Fill:      fill,
		FillAlpha: fillAlpha,
		Clips:     make([]clipRecord, 0, len(p.Clips)),
		DrawCalls: make([]any, 0, len(p.Calls)),
	}
	for _, c := range p.Clips {
		rec.Clips = append(rec.Clips, clipRecord{
			ID: c.ID,
			X:  number(c.Rect.X),
			Y:  number(c.Rect.Y),
			W:  number(c.Rect.W),
			H:  number(c.Rect.H),
		})
	}

	enc := &encoder{calls: rec.DrawCalls}
	if err := scene.Dispatch(p, enc); err != nil {
		return err
	}
	rec.DrawCalls = enc.calls

	var buf bytes.Buffer
	je := json.NewEncoder(&buf)
	je.SetEscapeHTML(false)
	je.SetIndent("", " ")
	if err := je.Encode(rec); err != nil {
		return fmt.Errorf("structured: encode: %w", err)
	}
	r.out = bytes.TrimRight(buf.Bytes(), "\n")
	return nil
}

// Bytes implements backend.Renderer.
func (r *Renderer) Bytes() []byte { return r.out }

// encoder collects one record per draw call in paint order.
type encoder struct {
	calls []any
}

func head(kind scene.Kind, dc scene.DrawCall) header {
	return header{Type: kind.String(), ClipID: dc.Clip()}
}

func (e *encoder) Background(*scene.Page) error { return nil }

func (e *encoder) SetClip(scene.Clip) error { return nil }

func (e *encoder) Rect(r *scene.Rect) error {
	fill, alpha := colour(r.Fill)
	e.calls = append(e.calls, rectRecord{
		header:    head(scene.KindRect, r),
		X:         number(r.Bounds.X),
		Y:         number(r.Bounds.Y),
		W:         number(r.Bounds.W),
		H:         number(r.Bounds.H),
		Fill:      fill,
		FillAlpha: alpha,
		Line:      encodeLine(r.Line),
	})
	return nil
}

func (e *encoder) Text(t *scene.Text) error {
	col, alpha := colour(t.Col)
	e.calls = append(e.calls, textRecord{
		header:     head(scene.KindText, t),
		X:          number(t.Pos.X),
		Y:          number(t.Pos.Y),
		Rot:        number(t.Rot),
		HAdj:       number(t.HAdj),
		Col:        col,
		ColAlpha:   alpha,
		Str:        t.Str,
		Weight:     t.Font.Weight,
		Features:   t.Font.Features,
		FontFamily: t.Font.Family,
		FontSize:   number(t.Font.Size),
		Italic:     t.Font.Italic,
		TxtWidth:   number(t.Font.Width),
	})
	return nil
}

func (e *encoder) Circle(c *scene.Circle) error {
	fill, alpha := colour(c.Fill)
	e.calls = append(e.calls, circleRecord{
		header:    head(scene.KindCircle, c),
		X:         number(c.Center.X),
		Y:         number(c.Center.Y),
		R:         number(c.Radius),
		Fill:      fill,
		FillAlpha: alpha,
		Line:      encodeLine(c.Line),
	})
	return nil
}

func (e *encoder) Line(l *scene.Line) error {
	e.calls = append(e.calls, lineSegRecord{
		header: head(scene.KindLine, l),
		X0:     number(l.From.X),
		Y0:     number(l.From.Y),
		X1:     number(l.To.X),
		Y1:     number(l.To.Y),
		Line:   encodeLine(l.Line),
	})
	return nil
}

func (e *encoder) Polyline(l *scene.Polyline) error {
	e.calls = append(e.calls, polylineRecord{
		header: head(scene.KindPolyline, l),
		Line:   encodeLine(l.Line),
		Points: encodePoints(l.Points),
	})
	return nil
}

func (e *encoder) Polygon(g *scene.Polygon) error {
	fill, alpha := colour(g.Fill)
	e.calls = append(e.calls, polygonRecord{
		header:    head(scene.KindPolygon, g),
		Fill:      fill,
		FillAlpha: alpha,
		Line:      encodeLine(g.Line),
		Points:    encodePoints(g.Points),
	})
	return nil
}

func (e *encoder) Path(p *scene.Path) error {
	fill, alpha := colour(p.Fill)
	e.calls = append(e.calls, pathRecord{
		header:    head(scene.KindPath, p),
		Fill:      fill,
		FillAlpha: alpha,
		Line:      encodeLine(p.Line),
		NPer:      append([]int{}, p.NPer...),
		Winding:   p.Winding,
		Points:    encodePoints(p.Points),
	})
	return nil
}

func (e *encoder) Raster(r *scene.Raster) error {
	data, err := rasterimg.Base64PNG(r.Width, r.Height, r.Pixels)
	if err != nil {
		return fmt.Errorf("structured: raster: %w", err)
	}
	e.calls = append(e.calls, rasterRecord{
		header:      head(scene.KindRaster, r),
		X:           number(r.Bounds.X),
		Y:           number(r.Bounds.Y),
		W:           number(r.Bounds.W),
		H:           number(r.Bounds.H),
		Rot:         number(r.Rot),
		Interpolate: r.Interpolate,
		Raster:      rasterImage{W: r.Width, H: r.Height, Data: data},
	})
	return nil
}

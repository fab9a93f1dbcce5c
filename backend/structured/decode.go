package structured

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/gogpu/gd/internal/rasterimg"
	"github.com/gogpu/gd/scene"
)

// ErrMalformed is returned when a record cannot be turned into a page.
var ErrMalformed = errors.New("structured: malformed record")

// decodedPage mirrors pageRecord with raw draw calls.
type decodedPage struct {
	ID        json.RawMessage   `json:"id"`
	W         float64           `json:"w"`
	H         float64           `json:"h"`
	Fill      string            `json:"fill"`
	FillAlpha *uint8            `json:"fill_alpha"`
	Clips     []clipRecord      `json:"clips"`
	DrawCalls []json.RawMessage `json:"draw_calls"`
}

// Decode reads a record written by Renderer back into a page. The scale
// field is ignored. The page is validated before it is returned.
func Decode(data []byte) (*scene.Page, error) {
	var rec decodedPage
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	id, err := parseID(rec.ID)
	if err != nil {
		return nil, err
	}
	fill, err := parseColour(rec.Fill, rec.FillAlpha)
	if err != nil {
		return nil, err
	}

	p := &scene.Page{
		ID:   id,
		Size: scene.Size{W: rec.W, H: rec.H},
		Fill: fill,
	}
	for _, c := range rec.Clips {
		p.Clips = append(p.Clips, scene.Clip{
			ID:   c.ID,
			Rect: scene.Bounds{X: float64(c.X), Y: float64(c.Y), W: float64(c.W), H: float64(c.H)},
		})
	}
	if len(p.Clips) == 0 {
		p.AddClip(scene.Bounds{W: rec.W, H: rec.H})
	}
	for i, raw := range rec.DrawCalls {
		dc, err := decodeCall(raw)
		if err != nil {
			return nil, fmt.Errorf("draw call %d: %w", i, err)
		}
		p.Append(dc)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// parseID accepts the id as a string or a bare number.
func parseID(raw json.RawMessage) (scene.PageID, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
	}
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: page id %s", ErrMalformed, raw)
	}
	return scene.PageID(v), nil
}

func decodeCall(raw json.RawMessage) (scene.DrawCall, error) {
	var h header
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	kind, ok := scene.ParseKind(h.Type)
	if !ok {
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformed, h.Type)
	}
	base := scene.Base{ClipID: h.ClipID}

	switch kind {
	case scene.KindRect:
		var r rectRecord
		if err := unmarshal(raw, &r); err != nil {
			return nil, err
		}
		fill, err := parseColour(r.Fill, r.FillAlpha)
		if err != nil {
			return nil, err
		}
		line, err := decodeLine(r.Line)
		if err != nil {
			return nil, err
		}
		return &scene.Rect{
			Base:   base,
			Bounds: scene.Bounds{X: float64(r.X), Y: float64(r.Y), W: float64(r.W), H: float64(r.H)},
			Fill:   fill,
			Line:   line,
		}, nil

	case scene.KindText:
		var t textRecord
		if err := unmarshal(raw, &t); err != nil {
			return nil, err
		}
		col, err := parseColour(t.Col, t.ColAlpha)
		if err != nil {
			return nil, err
		}
		return &scene.Text{
			Base: base,
			Pos:  scene.Point{X: float64(t.X), Y: float64(t.Y)},
			Rot:  float64(t.Rot),
			HAdj: float64(t.HAdj),
			Col:  col,
			Str:  t.Str,
			Font: scene.FontInfo{
				Family:   t.FontFamily,
				Weight:   t.Weight,
				Italic:   t.Italic,
				Size:     float64(t.FontSize),
				Features: t.Features,
				Width:    float64(t.TxtWidth),
			},
		}, nil

	case scene.KindCircle:
		var c circleRecord
		if err := unmarshal(raw, &c); err != nil {
			return nil, err
		}
		fill, err := parseColour(c.Fill, c.FillAlpha)
		if err != nil {
			return nil, err
		}
		line, err := decodeLine(c.Line)
		if err != nil {
			return nil, err
		}
		return &scene.Circle{
			Base:   base,
			Center: scene.Point{X: float64(c.X), Y: float64(c.Y)},
			Radius: float64(c.R),
			Fill:   fill,
			Line:   line,
		}, nil

	case scene.KindLine:
		var l lineSegRecord
		if err := unmarshal(raw, &l); err != nil {
			return nil, err
		}
		line, err := decodeLine(l.Line)
		if err != nil {
			return nil, err
		}
		return &scene.Line{
			Base: base,
			From: scene.Point{X: float64(l.X0), Y: float64(l.Y0)},
			To:   scene.Point{X: float64(l.X1), Y: float64(l.Y1)},
			Line: line,
		}, nil

	case scene.KindPolyline:
		var l polylineRecord
		if err := unmarshal(raw, &l); err != nil {
			return nil, err
		}
		line, err := decodeLine(l.Line)
		if err != nil {
			return nil, err
		}
		return &scene.Polyline{Base: base, Points: decodePoints(l.Points), Line: line}, nil

	case scene.KindPolygon:
		var g polygonRecord
		if err := unmarshal(raw, &g); err != nil {
			return nil, err
		}
		fill, err := parseColour(g.Fill, g.FillAlpha)
		if err != nil {
			return nil, err
		}
		line, err := decodeLine(g.Line)
		if err != nil {
			return nil, err
		}
		return &scene.Polygon{Base: base, Points: decodePoints(g.Points), Fill: fill, Line: line}, nil

	case scene.KindPath:
		var pr pathRecord
		if err := unmarshal(raw, &pr); err != nil {
			return nil, err
		}
		fill, err := parseColour(pr.Fill, pr.FillAlpha)
		if err != nil {
			return nil, err
		}
		line, err := decodeLine(pr.Line)
		if err != nil {
			return nil, err
		}
		return &scene.Path{
			Base:    base,
			Points:  decodePoints(pr.Points),
			NPer:    pr.NPer,
			Winding: pr.Winding,
			Fill:    fill,
			Line:    line,
		}, nil

	case scene.KindRaster:
		var r rasterRecord
		if err := unmarshal(raw, &r); err != nil {
			return nil, err
		}
		out := &scene.Raster{
			Base:        base,
			Bounds:      scene.Bounds{X: float64(r.X), Y: float64(r.Y), W: float64(r.W), H: float64(r.H)},
			Rot:         float64(r.Rot),
			Interpolate: r.Interpolate,
		}
		if r.Raster.Data == "" {
			return out, nil
		}
		w, h, px, err := rasterimg.DecodeBase64PNG(r.Raster.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if w != r.Raster.W || h != r.Raster.H {
			return nil, fmt.Errorf("%w: raster is %dx%d, record says %dx%d", ErrMalformed, w, h, r.Raster.W, r.Raster.H)
		}
		out.Width, out.Height, out.Pixels = w, h, px
		return out, nil
	}
	return nil, fmt.Errorf("%w: unsupported type %q", ErrMalformed, h.Type)
}

func unmarshal(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return nil
}

package structured

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/gd/scene"
)

// number is a float written with two decimals.
type number float64

// MarshalJSON implements json.Marshaler. Non-finite values are written as 0
// since JSON has no representation for them.
func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	return strconv.AppendFloat(nil, f, 'f', 2, 64), nil
}

type point [2]number

type pageRecord struct {
	ID        string       `json:"id"`
	W         number       `json:"w"`
	H         number       `json:"h"`
	Scale     number       `json:"scale"`
	Fill      string       `json:"fill"`
	FillAlpha *uint8       `json:"fill_alpha,omitempty"`
	Clips     []clipRecord `json:"clips"`
	DrawCalls []any        `json:"draw_calls"`
}

type clipRecord struct {
	ID int    `json:"id"`
	X  number `json:"x"`
	Y  number `json:"y"`
	W  number `json:"w"`
	H  number `json:"h"`
}

type lineRecord struct {
	Col      string `json:"col"`
	ColAlpha *uint8 `json:"col_alpha,omitempty"`
	LWD      number `json:"lwd"`
	LTY      int32  `json:"lty"`
	LEnd     int    `json:"lend"`
	LJoin    int    `json:"ljoin"`
	LMitre   number `json:"lmitre"`
}

// header holds the fields shared by every draw call record.
type header struct {
	Type   string `json:"type"`
	ClipID int    `json:"clip_id"`
}

type rectRecord struct {
	header
	X         number     `json:"x"`
	Y         number     `json:"y"`
	W         number     `json:"w"`
	H         number     `json:"h"`
	Fill      string     `json:"fill"`
	FillAlpha *uint8     `json:"fill_alpha,omitempty"`
	Line      lineRecord `json:"line"`
}

type textRecord struct {
	header
	X          number `json:"x"`
	Y          number `json:"y"`
	Rot        number `json:"rot"`
	HAdj       number `json:"hadj"`
	Col        string `json:"col"`
	ColAlpha   *uint8 `json:"col_alpha,omitempty"`
	Str        string `json:"str"`
	Weight     int    `json:"weight"`
	Features   string `json:"features"`
	FontFamily string `json:"font_family"`
	FontSize   number `json:"fontsize"`
	Italic     bool   `json:"italic"`
	TxtWidth   number `json:"txtwidth_px"`
}

type circleRecord struct {
	header
	X         number     `json:"x"`
	Y         number     `json:"y"`
	R         number     `json:"r"`
	Fill      string     `json:"fill"`
	FillAlpha *uint8     `json:"fill_alpha,omitempty"`
	Line      lineRecord `json:"line"`
}

type lineSegRecord struct {
	header
	X0   number     `json:"x0"`
	Y0   number     `json:"y0"`
	X1   number     `json:"x1"`
	Y1   number     `json:"y1"`
	Line lineRecord `json:"line"`
}

type polylineRecord struct {
	header
	Line   lineRecord `json:"line"`
	Points []point    `json:"points"`
}

type polygonRecord struct {
	header
	Fill      string     `json:"fill"`
	FillAlpha *uint8     `json:"fill_alpha,omitempty"`
	Line      lineRecord `json:"line"`
	Points    []point    `json:"points"`
}

type pathRecord struct {
	header
	Fill      string     `json:"fill"`
	FillAlpha *uint8     `json:"fill_alpha,omitempty"`
	Line      lineRecord `json:"line"`
	NPer      []int      `json:"nper"`
	Winding   bool       `json:"winding"`
	Points    []point    `json:"points"`
}

type rasterRecord struct {
	header
	X           number      `json:"x"`
	Y           number      `json:"y"`
	W           number      `json:"w"`
	H           number      `json:"h"`
	Rot         number      `json:"rot"`
	Interpolate bool        `json:"interpolate"`
	Raster      rasterImage `json:"raster"`
}

type rasterImage struct {
	W    int    `json:"w"`
	H    int    `json:"h"`
	Data string `json:"data"`
}

// colour splits c into its hex form and, for non-opaque colours, the alpha
// extension value.
func colour(c scene.Color) (string, *uint8) {
	if c.Opaque() {
		return c.Hex(), nil
	}
	a := c.Alpha()
	return c.Hex(), &a
}

// parseColour reverses colour. A missing alpha means opaque.
func parseColour(hex string, alpha *uint8) (scene.Color, error) {
	s, ok := strings.CutPrefix(hex, "#")
	if !ok || len(s) != 6 {
		return 0, fmt.Errorf("%w: colour %q", ErrMalformed, hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: colour %q", ErrMalformed, hex)
	}
	a := uint8(0xFF)
	if alpha != nil {
		a = *alpha
	}
	return scene.RGBA(uint8(v>>16), uint8(v>>8), uint8(v), a), nil
}

func encodeLine(l scene.LineInfo) lineRecord {
	col, alpha := colour(l.Col)
	return lineRecord{
		Col:      col,
		ColAlpha: alpha,
		LWD:      number(l.Width),
		LTY:      int32(l.Type),
		LEnd:     int(l.Cap),
		LJoin:    int(l.Join),
		LMitre:   number(l.Miter),
	}
}

func decodeLine(r lineRecord) (scene.LineInfo, error) {
	col, err := parseColour(r.Col, r.ColAlpha)
	if err != nil {
		return scene.LineInfo{}, err
	}
	return scene.LineInfo{
		Col:   col,
		Width: float64(r.LWD),
		Type:  scene.LineType(r.LTY),
		Cap:   scene.LineCap(r.LEnd),
		Join:  scene.LineJoin(r.LJoin),
		Miter: float64(r.LMitre),
	}, nil
}

func encodePoints(pts []scene.Point) []point {
	out := make([]point, len(pts))
	for i, p := range pts {
		out[i] = point{number(p.X), number(p.Y)}
	}
	return out
}

func decodePoints(pts []point) []scene.Point {
	out := make([]scene.Point, len(pts))
	for i, p := range pts {
		out[i] = scene.Point{X: float64(p[0]), Y: float64(p[1])}
	}
	return out
}

package scene

// Kind identifies the variant of a DrawCall.
type Kind uint8

// Draw call kinds.
const (
	KindRect Kind = iota
	KindText
	KindCircle
	KindLine
	KindPolyline
	KindPolygon
	KindPath
	KindRaster
)

var kindNames = [...]string{
	KindRect:     "rect",
	KindText:     "text",
	KindCircle:   "circle",
	KindLine:     "line",
	KindPolyline: "polyline",
	KindPolygon:  "polygon",
	KindPath:     "path",
	KindRaster:   "raster",
}

// String returns the lower-case kind name used by the structured format.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// Point is a position in device units.
type Point struct {
	X, Y float64
}

// Bounds is an axis-aligned rectangle with its origin at the top-left corner.
type Bounds struct {
	X, Y, W, H float64
}

// Size is a page extent in device units.
type Size struct {
	W, H float64
}

// DrawCall is one recorded drawing operation. The set of implementations is
// closed: *Rect, *Text, *Circle, *Line, *Polyline, *Polygon, *Path and *Raster.
type DrawCall interface {
	// Kind returns the variant tag.
	Kind() Kind
	// Clip returns the id of the clip region the call is drawn in.
	Clip() int

	drawCall()
}

// Base carries the fields shared by every DrawCall.
type Base struct {
	ClipID int
}

// Clip implements DrawCall.
func (b Base) Clip() int { return b.ClipID }

func (Base) drawCall() {}

// Rect is a filled and stroked axis-aligned rectangle.
type Rect struct {
	Base
	Bounds Bounds
	Fill   Color
	Line   LineInfo
}

// Kind implements DrawCall.
func (*Rect) Kind() Kind { return KindRect }

// FontInfo describes the face used to draw a Text call.
type FontInfo struct {
	Family   string
	Weight   int
	Italic   bool
	Size     float64
	Features string
	// Width is the advance of the string in device units, as measured by
	// the host. Zero means unknown.
	Width float64
}

// Bold reports whether the weight selects a bold face.
func (f FontInfo) Bold() bool { return f.Weight >= 700 }

// Text is a single string anchored at Pos.
type Text struct {
	Base
	Pos  Point
	Rot  float64 // degrees, counter-clockwise
	HAdj float64 // 0 start, 0.5 middle, 1 end
	Col  Color
	Str  string
	Font FontInfo
}

// Kind implements DrawCall.
func (*Text) Kind() Kind { return KindText }

// Circle is a filled and stroked circle.
type Circle struct {
	Base
	Center Point
	Radius float64
	Fill   Color
	Line   LineInfo
}

// Kind implements DrawCall.
func (*Circle) Kind() Kind { return KindCircle }

// Line is a single stroked segment.
type Line struct {
	Base
	From, To Point
	Line     LineInfo
}

// Kind implements DrawCall.
func (*Line) Kind() Kind { return KindLine }

// Polyline is an open stroked path of at least two points.
type Polyline struct {
	Base
	Points []Point
	Line   LineInfo
}

// Kind implements DrawCall.
func (*Polyline) Kind() Kind { return KindPolyline }

// Polygon is a closed shape of at least three points.
type Polygon struct {
	Base
	Points []Point
	Fill   Color
	Line   LineInfo
}

// Kind implements DrawCall.
func (*Polygon) Kind() Kind { return KindPolygon }

// Path is a set of closed sub-paths. NPer holds the point count of each
// sub-path; the counts sum to len(Points).
type Path struct {
	Base
	Points  []Point
	NPer    []int
	Winding bool // true selects nonzero, false even-odd
	Fill    Color
	Line    LineInfo
}

// Kind implements DrawCall.
func (*Path) Kind() Kind { return KindPath }

// SubPaths splits Points according to NPer.
func (p *Path) SubPaths() [][]Point {
	out := make([][]Point, 0, len(p.NPer))
	off := 0
	for _, n := range p.NPer {
		if n < 0 || off+n > len(p.Points) {
			break
		}
		out = append(out, p.Points[off:off+n])
		off += n
	}
	return out
}

// Raster is a pixel image placed into Bounds and rotated about its origin.
type Raster struct {
	Base
	Bounds      Bounds
	Rot         float64 // degrees, counter-clockwise
	Width       int
	Height      int
	Pixels      []Color // row-major, Width*Height entries
	Interpolate bool
}

// Kind implements DrawCall.
func (*Raster) Kind() Kind { return KindRaster }

// clone returns a deep copy of the call.
func clone(dc DrawCall) DrawCall {
	switch c := dc.(type) {
	case *Rect:
		v := *c
		return &v
	case *Text:
		v := *c
		return &v
	case *Circle:
		v := *c
		return &v
	case *Line:
		v := *c
		return &v
	case *Polyline:
		v := *c
		v.Points = append([]Point(nil), c.Points...)
		return &v
	case *Polygon:
		v := *c
		v.Points = append([]Point(nil), c.Points...)
		return &v
	case *Path:
		v := *c
		v.Points = append([]Point(nil), c.Points...)
		v.NPer = append([]int(nil), c.NPer...)
		return &v
	case *Raster:
		v := *c
		v.Pixels = append([]Color(nil), c.Pixels...)
		return &v
	}
	return dc
}

package scene

// LineType is a packed dash code. Each 4-bit nibble, read from the low end,
// is a dash or gap length in 1/96 inch; the first zero nibble ends the pattern.
type LineType int32

// Reserved line types.
const (
	LineTypeBlank LineType = -1
	LineTypeSolid LineType = 0
)

// MaxDashes is the maximum number of dash entries encoded in a LineType.
const MaxDashes = 8

// Dashes decodes the nibble lengths of the dash pattern. It returns nil for
// solid and blank line types. At most MaxDashes entries are returned.
func (lt LineType) Dashes() []int {
	if lt == LineTypeSolid || lt == LineTypeBlank {
		return nil
	}
	u := uint32(lt)
	var out []int
	for i := 0; i < MaxDashes && u&0xF != 0; i++ {
		out = append(out, int(u&0xF))
		u >>= 4
	}
	return out
}

// LineCap is the shape of stroke end points.
type LineCap uint8

// Line caps.
const (
	CapRound LineCap = iota + 1
	CapButt
	CapSquare
)

// String implements fmt.Stringer.
func (c LineCap) String() string {
	switch c {
	case CapRound:
		return "round"
	case CapButt:
		return "butt"
	case CapSquare:
		return "square"
	default:
		return "unknown"
	}
}

// LineJoin is the shape of stroke corners.
type LineJoin uint8

// Line joins.
const (
	JoinRound LineJoin = iota + 1
	JoinMiter
	JoinBevel
)

// String implements fmt.Stringer.
func (j LineJoin) String() string {
	switch j {
	case JoinRound:
		return "round"
	case JoinMiter:
		return "miter"
	case JoinBevel:
		return "bevel"
	default:
		return "unknown"
	}
}

// PointsPerPixel converts device units (1/96 inch) into points (1/72 inch).
const PointsPerPixel = 72.0 / 96.0

// minLineWidth is the smallest stroke width painted by any backend.
const minLineWidth = 0.01

// LineInfo bundles stroke styling.
type LineInfo struct {
	Col   Color
	Width float64 // device units, 1/96 inch
	Type  LineType
	Cap   LineCap
	Join  LineJoin
	Miter float64
}

// DefaultLine returns a solid one-unit black line with round caps and joins.
func DefaultLine() LineInfo {
	return LineInfo{
		Col:   Black,
		Width: 1,
		Type:  LineTypeSolid,
		Cap:   CapRound,
		Join:  JoinRound,
		Miter: 10,
	}
}

// Visible reports whether a stroke with this style paints anything.
func (l LineInfo) Visible() bool {
	return !l.Col.Transparent() && l.Type != LineTypeBlank
}

// StrokeWidth returns the stroke width in points, clamping tiny widths.
func (l LineInfo) StrokeWidth() float64 {
	w := l.Width
	if w <= minLineWidth {
		w = minLineWidth
	}
	return w * PointsPerPixel
}

// DashArray returns the dash lengths scaled by max(Width, 1) and by unit.
// Solid and blank line types yield nil.
func (l LineInfo) DashArray(unit float64) []float64 {
	d := l.Type.Dashes()
	if len(d) == 0 {
		return nil
	}
	lwd := l.Width
	if lwd < 1 {
		lwd = 1
	}
	out := make([]float64, len(d))
	for i, n := range d {
		out[i] = float64(n) * lwd * unit
	}
	return out
}

package scene

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestColorChannels(t *testing.T) {
	c := RGBA(0x11, 0x22, 0x33, 0x44)
	if uint32(c) != 0x44332211 {
		t.Fatalf("packed = %#x, want %#x", uint32(c), 0x44332211)
	}
	if c.Red() != 0x11 || c.Green() != 0x22 || c.Blue() != 0x33 || c.Alpha() != 0x44 {
		t.Errorf("channels = %d %d %d %d", c.Red(), c.Green(), c.Blue(), c.Alpha())
	}
	if got := c.Hex(); got != "#112233" {
		t.Errorf("Hex() = %q, want %q", got, "#112233")
	}
	if !Transparent.Transparent() || Black.Transparent() {
		t.Error("Transparent() mismatch")
	}
	if !White.Opaque() || c.Opaque() {
		t.Error("Opaque() mismatch")
	}
}

func TestColorPremultiplied(t *testing.T) {
	tests := []struct {
		in   Color
		want [4]uint8
	}{
		{RGB(200, 100, 50), [4]uint8{200, 100, 50, 255}},
		{RGBA(255, 255, 255, 128), [4]uint8{128, 128, 128, 128}},
		{RGBA(255, 0, 0, 0), [4]uint8{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		p := tt.in.Premultiplied()
		got := [4]uint8{p.R, p.G, p.B, p.A}
		if got != tt.want {
			t.Errorf("%v.Premultiplied() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLineTypeDashes(t *testing.T) {
	tests := []struct {
		lt   LineType
		want []int
	}{
		{LineTypeSolid, nil},
		{LineTypeBlank, nil},
		{0x44, []int{4, 4}},
		{0x3313, []int{3, 1, 3, 3}},
		{0x1343, []int{3, 4, 3, 1}},
		{0x0404, []int{4}},
		{0x7FFFFFFF, []int{15, 15, 15, 15, 15, 15, 15, 7}},
	}
	for _, tt := range tests {
		got := tt.lt.Dashes()
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("LineType(%#x).Dashes() mismatch (-want +got):\n%s", int32(tt.lt), diff)
		}
	}
}

func TestLineTypeDashesTotal(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 10000 {
		lt := LineType(int32(r.Uint32()))
		d := lt.Dashes()
		if len(d) > MaxDashes {
			t.Fatalf("LineType(%#x) decoded %d entries", int32(lt), len(d))
		}
		for _, n := range d {
			if n < 1 || n > 15 {
				t.Fatalf("LineType(%#x) decoded nibble %d", int32(lt), n)
			}
		}
	}
}

func TestLineInfoDashArray(t *testing.T) {
	l := DefaultLine()
	l.Type = 0x44
	l.Width = 2
	got := l.DashArray(1)
	if diff := cmp.Diff([]float64{8, 8}, got); diff != "" {
		t.Errorf("DashArray mismatch (-want +got):\n%s", diff)
	}
	l.Width = 0.25
	got = l.DashArray(PointsPerPixel)
	if diff := cmp.Diff([]float64{3, 3}, got); diff != "" {
		t.Errorf("thin DashArray mismatch (-want +got):\n%s", diff)
	}
	if w := (LineInfo{Width: 0}).StrokeWidth(); w != 0.01*PointsPerPixel {
		t.Errorf("StrokeWidth() = %v, want %v", w, 0.01*PointsPerPixel)
	}
}

func TestPageAddClip(t *testing.T) {
	p := NewPage(1, Size{W: 100, H: 50}, White)
	if p.CurrentClip() != 0 {
		t.Fatalf("CurrentClip() = %d, want 0", p.CurrentClip())
	}
	a := p.AddClip(Bounds{10, 10, 20, 20})
	b := p.AddClip(Bounds{10, 10, 20, 20})
	if a != 1 || b != 1 {
		t.Errorf("ids = %d, %d, want 1, 1", a, b)
	}
	c := p.AddClip(Bounds{W: 100, H: 50})
	if c != 2 {
		t.Errorf("id = %d, want 2", c)
	}
	if len(p.Clips) != 3 {
		t.Errorf("len(Clips) = %d, want 3", len(p.Clips))
	}
}

func TestPageClone(t *testing.T) {
	p := NewPage(7, Size{W: 10, H: 10}, White)
	p.Append(&Polygon{Points: []Point{{0, 0}, {1, 0}, {1, 1}}, Fill: Black, Line: DefaultLine()})
	c := p.Clone()
	c.Calls[0].(*Polygon).Points[0].X = 99
	c.Clips[0].Rect.W = 1
	if p.Calls[0].(*Polygon).Points[0].X != 0 {
		t.Error("Clone shares point storage")
	}
	if p.Clips[0].Rect.W != 10 {
		t.Error("Clone shares clip storage")
	}
}

func TestPageValidate(t *testing.T) {
	tests := []struct {
		name string
		call DrawCall
		want error
	}{
		{"ok rect", &Rect{}, nil},
		{"unknown clip", &Rect{Base: Base{ClipID: 5}}, ErrUnknownClip},
		{"short polyline", &Polyline{Points: []Point{{0, 0}}}, ErrInvalidPage},
		{"short polygon", &Polygon{Points: []Point{{0, 0}, {1, 1}}}, ErrInvalidPage},
		{"nper mismatch", &Path{Points: make([]Point, 5), NPer: []int{2, 2}}, ErrInvalidPage},
		{"nper small", &Path{Points: make([]Point, 3), NPer: []int{1, 2}}, ErrInvalidPage},
		{"nper ok", &Path{Points: make([]Point, 7), NPer: []int{4, 3}}, nil},
		{"raster size", &Raster{Width: 2, Height: 2, Pixels: make([]Color, 3)}, ErrInvalidPage},
		{"nil call", nil, ErrInvalidPage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage(1, Size{W: 10, H: 10}, White)
			p.Append(tt.call)
			err := p.Validate()
			if tt.want == nil && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}

	empty := &Page{Size: Size{W: 1, H: 1}}
	if err := empty.Validate(); !errors.Is(err, ErrInvalidPage) {
		t.Errorf("Validate() without clips = %v, want %v", err, ErrInvalidPage)
	}
}

func TestPathSubPaths(t *testing.T) {
	p := &Path{Points: make([]Point, 7), NPer: []int{4, 3}}
	sp := p.SubPaths()
	if len(sp) != 2 || len(sp[0]) != 4 || len(sp[1]) != 3 {
		t.Errorf("SubPaths() lengths = %v", sp)
	}
}

// traceVisitor records every visitor call as a short string.
type traceVisitor struct {
	log    []string
	failOn Kind
	fail   bool
}

func (v *traceVisitor) record(s string) { v.log = append(v.log, s) }

func (v *traceVisitor) shape(k Kind) error {
	v.record(k.String())
	if v.fail && k == v.failOn {
		return errors.New("boom")
	}
	return nil
}

func (v *traceVisitor) Background(*Page) error   { v.record("bg"); return nil }
func (v *traceVisitor) SetClip(c Clip) error     { v.record(fmt.Sprintf("clip%d", c.ID)); return nil }
func (v *traceVisitor) Rect(*Rect) error         { return v.shape(KindRect) }
func (v *traceVisitor) Text(*Text) error         { return v.shape(KindText) }
func (v *traceVisitor) Circle(*Circle) error     { return v.shape(KindCircle) }
func (v *traceVisitor) Line(*Line) error         { return v.shape(KindLine) }
func (v *traceVisitor) Polyline(*Polyline) error { return v.shape(KindPolyline) }
func (v *traceVisitor) Polygon(*Polygon) error   { return v.shape(KindPolygon) }
func (v *traceVisitor) Path(*Path) error         { return v.shape(KindPath) }
func (v *traceVisitor) Raster(*Raster) error     { return v.shape(KindRaster) }

func TestDispatchClipChanges(t *testing.T) {
	p := NewPage(1, Size{W: 100, H: 100}, White)
	c1 := p.AddClip(Bounds{0, 0, 50, 50})
	c2 := p.AddClip(Bounds{50, 50, 50, 50})
	p.Append(&Rect{Base: Base{ClipID: c1}})
	p.Append(&Circle{Base: Base{ClipID: c2}})
	p.Append(&Line{Base: Base{ClipID: c2}})
	p.Append(&Text{Base: Base{ClipID: c1}})

	v := &traceVisitor{}
	if err := Dispatch(p, v); err != nil {
		t.Fatalf("Dispatch() = %v", err)
	}
	got := strings.Join(v.log, " ")
	want := "bg clip0 clip1 rect clip2 circle line clip1 text"
	if got != want {
		t.Errorf("trace = %q, want %q", got, want)
	}
}

func TestDispatchEveryKind(t *testing.T) {
	p := NewPage(1, Size{W: 10, H: 10}, White)
	p.Append(&Rect{})
	p.Append(&Text{})
	p.Append(&Circle{})
	p.Append(&Line{})
	p.Append(&Polyline{Points: make([]Point, 2)})
	p.Append(&Polygon{Points: make([]Point, 3)})
	p.Append(&Path{Points: make([]Point, 2), NPer: []int{2}})
	p.Append(&Raster{})

	v := &traceVisitor{}
	if err := Dispatch(p, v); err != nil {
		t.Fatalf("Dispatch() = %v", err)
	}
	want := []string{"bg", "clip0", "rect", "text", "circle", "line", "polyline", "polygon", "path", "raster"}
	if diff := cmp.Diff(want, v.log); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchErrors(t *testing.T) {
	p := NewPage(1, Size{W: 10, H: 10}, White)
	p.Append(&Rect{Base: Base{ClipID: 3}})
	v := &traceVisitor{}
	if err := Dispatch(p, v); !errors.Is(err, ErrUnknownClip) {
		t.Fatalf("Dispatch() = %v, want %v", err, ErrUnknownClip)
	}
	if len(v.log) != 0 {
		t.Errorf("visitor called %v before failing", v.log)
	}

	p = NewPage(1, Size{W: 10, H: 10}, White)
	p.Append(&Rect{})
	p.Append(&Circle{})
	p.Append(&Line{})
	v = &traceVisitor{fail: true, failOn: KindCircle}
	if err := Dispatch(p, v); err == nil {
		t.Fatal("Dispatch() = nil, want error")
	}
	if got := v.log[len(v.log)-1]; got != "circle" {
		t.Errorf("last call = %q, want %q", got, "circle")
	}
}

func TestParseKind(t *testing.T) {
	for k := KindRect; k <= KindRaster; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("ellipse"); ok {
		t.Error("ParseKind(ellipse) succeeded")
	}
}

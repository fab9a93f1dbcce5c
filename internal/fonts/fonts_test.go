package fonts

import (
	"testing"

	"golang.org/x/text/encoding/charmap"

	"github.com/gogpu/gd/scene"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		family string
		want   Class
	}{
		{"", Sans},
		{"sans", Sans},
		{"Helvetica", Sans},
		{"serif", Serif},
		{"Times New Roman", Serif},
		{"mono", Mono},
		{"Courier New", Mono},
		{"DejaVu Sans Mono", Mono},
		{"Liberation Sans", Sans},
	}
	for _, tt := range tests {
		if got := Classify(tt.family); got != tt.want {
			t.Errorf("Classify(%q) = %d, want %d", tt.family, got, tt.want)
		}
	}
}

func TestPostScript(t *testing.T) {
	tests := []struct {
		fi   scene.FontInfo
		want string
	}{
		{scene.FontInfo{Family: "sans", Weight: 400}, "Helvetica"},
		{scene.FontInfo{Family: "sans", Weight: 700}, "Helvetica-Bold"},
		{scene.FontInfo{Family: "serif", Italic: true}, "Times-Italic"},
		{scene.FontInfo{Family: "mono", Weight: 900, Italic: true}, "Courier-BoldOblique"},
	}
	for _, tt := range tests {
		if got := PostScript(tt.fi); got != tt.want {
			t.Errorf("PostScript(%+v) = %q, want %q", tt.fi, got, tt.want)
		}
	}
}

func TestPDF(t *testing.T) {
	fam, st := PDF(scene.FontInfo{Family: "serif", Weight: 700, Italic: true})
	if fam != "Times" || st != "BI" {
		t.Errorf("PDF() = %q, %q, want Times, BI", fam, st)
	}
	fam, st = PDF(scene.FontInfo{Family: "Arial"})
	if fam != "Helvetica" || st != "" {
		t.Errorf("PDF() = %q, %q, want Helvetica, \"\"", fam, st)
	}
}

func TestSourceCached(t *testing.T) {
	fi := scene.FontInfo{Family: "mono", Weight: 700}
	a, err := Source(fi)
	if err != nil {
		t.Fatalf("Source() error = %v", err)
	}
	b, _ := Source(fi)
	if a != b {
		t.Error("Source() did not reuse the cached font source")
	}
	face := a.Face(12)
	if face.Advance("MM") <= 0 {
		t.Error("Advance() <= 0")
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		cm   *charmap.Charmap
		in   string
		want string
	}{
		{charmap.ISO8859_1, "abc", "abc"},
		{charmap.ISO8859_1, "caf\u00e9", "caf\xe9"},
		{charmap.ISO8859_1, "\u20ac5", "?5"},
		{charmap.Windows1252, "\u20ac5", "\x805"},
		{charmap.Windows1252, "\u03c0", "?"},
	}
	for _, tt := range tests {
		if got := Encode(tt.cm, tt.in); got != tt.want {
			t.Errorf("Encode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

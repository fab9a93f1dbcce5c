// Package fonts maps captured font descriptors to concrete faces: Go fonts
// for painted output and the standard core font names for PDF and
// PostScript.
package fonts

import (
	"strings"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/encoding/charmap"

	"github.com/gogpu/gd/scene"
)

// Class is the generic family a descriptor resolves to.
type Class uint8

// Generic families.
const (
	Sans Class = iota
	Serif
	Mono
)

// Classify resolves a family name to a generic class.
func Classify(family string) Class {
	f := strings.ToLower(family)
	switch {
	case strings.Contains(f, "mono"), strings.Contains(f, "courier"):
		return Mono
	case strings.Contains(f, "sans"), strings.Contains(f, "helvetica"), strings.Contains(f, "arial"):
		return Sans
	case strings.Contains(f, "serif"), strings.Contains(f, "times"):
		return Serif
	}
	return Sans
}

// style indexes the four faces of a family.
func style(fi scene.FontInfo) int {
	i := 0
	if fi.Bold() {
		i |= 1
	}
	if fi.Italic {
		i |= 2
	}
	return i
}

var (
	ttf = [2][4][]byte{
		{goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF},
		{gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF},
	}

	mu      sync.Mutex
	sources = map[[2]int]*text.FontSource{}
)

// Source returns the shared Go font source for a descriptor. Serif
// descriptors fall back to the proportional Go face.
func Source(fi scene.FontInfo) (*text.FontSource, error) {
	fam := 0
	if Classify(fi.Family) == Mono {
		fam = 1
	}
	key := [2]int{fam, style(fi)}

	mu.Lock()
	defer mu.Unlock()
	if s, ok := sources[key]; ok {
		return s, nil
	}
	s, err := text.NewFontSource(ttf[fam][key[1]])
	if err != nil {
		return nil, err
	}
	sources[key] = s
	return s, nil
}

// PDF returns the core font family and style string understood by PDF
// writers, for example "Helvetica" and "BI".
func PDF(fi scene.FontInfo) (family, styleStr string) {
	switch Classify(fi.Family) {
	case Mono:
		family = "Courier"
	case Serif:
		family = "Times"
	default:
		family = "Helvetica"
	}
	if fi.Bold() {
		styleStr += "B"
	}
	if fi.Italic {
		styleStr += "I"
	}
	return family, styleStr
}

var postScriptNames = [3][4]string{
	Sans:  {"Helvetica", "Helvetica-Bold", "Helvetica-Oblique", "Helvetica-BoldOblique"},
	Serif: {"Times-Roman", "Times-Bold", "Times-Italic", "Times-BoldItalic"},
	Mono:  {"Courier", "Courier-Bold", "Courier-Oblique", "Courier-BoldOblique"},
}

// PostScript returns the name of the standard PostScript font closest to
// the descriptor.
func PostScript(fi scene.FontInfo) string {
	return postScriptNames[Classify(fi.Family)][style(fi)]
}

// Encode converts s to the single-byte charset cm used by the standard
// fonts. Runes the charset cannot represent become '?'.
func Encode(cm *charmap.Charmap, s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		c, ok := cm.EncodeRune(r)
		if !ok {
			c = '?'
		}
		b.WriteByte(c)
	}
	return b.String()
}

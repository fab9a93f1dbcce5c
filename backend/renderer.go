package backend

import (
	"github.com/gogpu/gd/scene"
)

// Renderer converts one page into an output buffer.
//
// A Renderer instance renders exactly one page. Render must be called
// before Bytes; after a failed Render, Bytes returns nil.
type Renderer interface {
	// Render draws p with all coordinates multiplied by scale.
	Render(p *scene.Page, scale float64) error

	// Bytes returns the encoded output of the last successful Render.
	Bytes() []byte
}

// Category groups renderers by the kind of output they produce.
type Category uint8

// Renderer categories.
const (
	CategoryRaster Category = iota
	CategoryVector
	CategoryText
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryRaster:
		return "raster"
	case CategoryVector:
		return "vector"
	case CategoryText:
		return "text"
	default:
		return "unknown"
	}
}

// Info describes a registered renderer.
type Info struct {
	// ID is the stable identifier used in render requests.
	ID string
	// MIME is the media type of the output.
	MIME string
	// Ext is the file extension including the leading dot.
	Ext string
	// Name is a short display name.
	Name string
	// Type is the output category.
	Type Category
	// Text reports whether the output is valid UTF-8 text.
	Text bool
	// Description is a one-line human description.
	Description string
}

// Factory creates a fresh renderer instance.
type Factory func() Renderer

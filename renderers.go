package gd

import (
	"slices"

	"github.com/gogpu/gd/backend"
	"github.com/gogpu/gd/backend/pdf"
	"github.com/gogpu/gd/backend/ps"
	"github.com/gogpu/gd/backend/raster"
	"github.com/gogpu/gd/backend/structured"
	"github.com/gogpu/gd/backend/svg"
)

// NewRegistry returns a registry holding every built-in renderer. svgOpts
// apply to the four SVG renderers.
func NewRegistry(svgOpts ...svg.Option) *backend.Registry {
	r := backend.NewRegistry()
	RegisterBuiltins(r, svgOpts...)
	return r
}

// RegisterBuiltins adds the built-in renderers to r. It panics if any of
// their ids is already registered.
func RegisterBuiltins(r *backend.Registry, svgOpts ...svg.Option) {
	gzipped := append(slices.Clip(svgOpts), svg.WithCompression())

	r.Register(raster.PNGInfo, func() backend.Renderer { return raster.NewPNG() })
	r.Register(raster.PNGBase64Info, func() backend.Renderer { return raster.NewPNGBase64() })
	r.Register(raster.TIFFInfo, func() backend.Renderer { return raster.NewTIFF() })
	r.Register(pdf.Info, func() backend.Renderer { return pdf.New() })
	r.Register(ps.Info, func() backend.Renderer { return ps.New() })
	r.Register(ps.EPSInfo, func() backend.Renderer { return ps.NewEPS() })
	r.Register(svg.Info, func() backend.Renderer { return svg.New(svgOpts...) })
	r.Register(svg.PortableInfo, func() backend.Renderer { return svg.NewPortable(svgOpts...) })
	r.Register(svg.CompressedInfo, func() backend.Renderer { return svg.New(gzipped...) })
	r.Register(svg.CompressedPortableInfo, func() backend.Renderer { return svg.NewPortable(gzipped...) })
	r.Register(structured.Info, func() backend.Renderer { return structured.New() })
}

// Package backend defines the Renderer contract shared by every output
// format and the Registry that maps renderer ids to factories.
//
// # Registration
//
// Renderers are registered on an explicit Registry value, never on package
// state:
//
//	reg := backend.NewRegistry()
//	reg.Register(svg.Info, func() backend.Renderer { return svg.New() })
//
//	r, err := reg.New("svg")
//	if err != nil {
//	    // errors.Is(err, backend.ErrUnknownRenderer)
//	}
//	if err := r.Render(page, 1); err != nil {
//	    // ...
//	}
//	out := r.Bytes()
//
// # Implementations
//
// Subpackages provide the concrete formats:
//   - raster: PNG, base64 PNG data URI and TIFF, painted with gg
//   - pdf: PDF documents
//   - ps: PostScript and EPS documents
//   - svg: style-sheet and portable SVG with gzip variants
//   - structured: JSON records for remote clients
package backend

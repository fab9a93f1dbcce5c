// Package gd is a graphics device core: it records drawing as replayable
// pages and renders stored pages to image, document and text formats.
//
// # Overview
//
// A host that produces drawing events (a plotting runtime, a chart
// library, a remote client) builds pages through a [Device]. Each page is
// a list of draw calls with the clip regions they refer to. Finished pages
// are kept in a history, and any stored page can be rendered at any size
// to any registered format.
//
// # Quick Start
//
//	import "github.com/gogpu/gd"
//
//	dev := gd.NewDevice()
//	dev.NewPage(scene.Size{W: 720, H: 576}, scene.White)
//	dev.Draw(&scene.Circle{Center: scene.Point{X: 360, Y: 288}, Radius: 100,
//	    Fill: scene.RGB(255, 0, 0), Line: scene.DefaultLine()})
//
//	res, err := dev.Render(0, -1, -1, 1, "svg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("plot.svg", res.Data, 0o644)
//
// # Renderers
//
// [NewRegistry] returns a registry holding every built-in renderer:
//
//	png, png-base64, tiff    raster images (backend/raster)
//	pdf                      PDF document (backend/pdf)
//	ps, eps                  PostScript (backend/ps)
//	svg, svgp, svgz, svgzp   SVG, style sheet or portable, plain or gzip (backend/svg)
//	json                     structured page description (backend/structured)
//
// Programs may register their own renderers on the same registry and pass
// it to a device with [WithRegistry].
//
// # Coordinate System
//
// Draw calls use device units of 1/96 inch:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Rotation angles in degrees, counter-clockwise
//
// # Concurrency
//
// A Device performs no locking. Hosts whose render requests arrive on
// other goroutines route them through a [Queue] drained by the goroutine
// that owns the device.
package gd

// Package scene holds the captured page model and the dispatcher that feeds
// a page to an output backend.
//
// A Page is an ordered list of DrawCall values. Each call references one of
// the page's Clip regions by id. Pages are built by appending and, once
// stored, are treated as read-only.
//
// # Dispatch
//
// Dispatch walks a page in paint order and calls the matching Visitor
// method for each draw call. The active clip is switched only when a call's
// clip id differs from the previous one:
//
//	err := scene.Dispatch(page, backend)
//
// # Colours and lines
//
// Color packs red in the low byte and alpha in the high byte. LineInfo
// carries stroke styling in device units of 1/96 inch; backends convert to
// points with PointsPerPixel.
package scene

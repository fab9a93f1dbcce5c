package gd

import (
	"github.com/gogpu/gd/backend"
	"github.com/gogpu/gd/scene"
)

// Option configures a Device during creation.
//
// Example:
//
//	// Built-in renderers, unlimited history
//	dev := gd.NewDevice()
//
//	// Custom registry, keep the last 50 pages
//	dev := gd.NewDevice(gd.WithRegistry(reg), gd.WithMaxHistory(50))
type Option func(*options)

// Resizer rebuilds a page for a new size in device units. Hosts that can
// replay their drawing at any size supply one; returning p unchanged keeps
// the page's natural layout.
type Resizer func(p *scene.Page, size scene.Size) *scene.Page

// options holds optional configuration for Device creation.
type options struct {
	registry   *backend.Registry
	resizer    Resizer
	maxHistory int
}

// defaultOptions returns the default device options.
func defaultOptions() options {
	return options{
		registry:   nil, // NewRegistry() if nil
		resizer:    nil, // pages render at their natural size
		maxHistory: 0,   // unlimited
	}
}

// WithRegistry sets the renderer registry used by render requests.
//
// Example:
//
//	reg := gd.NewRegistry()
//	reg.Register(myInfo, myFactory)
//	dev := gd.NewDevice(gd.WithRegistry(reg))
func WithRegistry(r *backend.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithResizer sets the function that adapts a stored page to the size of a
// render request. It is called only when the request gives a positive
// width and height that differ from the page size.
func WithResizer(fn Resizer) Option {
	return func(o *options) {
		o.resizer = fn
	}
}

// WithMaxHistory limits the number of stored pages. When a new page would
// exceed the limit, the oldest pages are dropped. n <= 0 means unlimited.
func WithMaxHistory(n int) Option {
	return func(o *options) {
		o.maxHistory = max(n, 0)
	}
}

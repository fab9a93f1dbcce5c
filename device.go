package gd

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/gogpu/gd/backend"
	"github.com/gogpu/gd/history"
	"github.com/gogpu/gd/scene"
)

// Device builds pages from drawing calls, keeps them in a history and
// renders stored pages on request.
//
// History entries are addressed by index, oldest first. Removing an entry
// shifts the indices of the entries after it; page ids never change. A
// negative index counts from the newest entry, so -1 is the latest page.
//
// A Device is not safe for concurrent use. See [Queue].
type Device struct {
	opts     options
	registry *backend.Registry
	store    *history.Store
	order    []scene.PageID

	cur    *scene.Page
	dirty  bool
	active bool
	nextID scene.PageID
	upid   uint64
}

// NewDevice creates a device with an empty history.
func NewDevice(opts ...Option) *Device {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	reg := o.registry
	if reg == nil {
		reg = NewRegistry()
	}
	return &Device{
		opts:     o,
		registry: reg,
		store:    history.NewStore(),
	}
}

// Registry returns the registry used by render requests.
func (d *Device) Registry() *backend.Registry { return d.registry }

// State summarises the history.
type State struct {
	// HSize is the number of stored pages.
	HSize int
	// UPID increases on every change to the history or the open page.
	UPID uint64
	// Active reports whether a page is open for drawing.
	Active bool
}

// QueryResult is the answer to a history query.
type QueryResult struct {
	State State
	IDs   []scene.PageID
}

// Result is the output of a render request.
type Result struct {
	Info backend.Info
	Data []byte
}

// String returns the output as text. It is meaningful when Info.Text is set.
func (r Result) String() string { return string(r.Data) }

// surface exposes the open page to the history store.
type surface struct{ d *Device }

func (s surface) Snapshot() (*scene.Page, bool) {
	if s.d.cur == nil {
		return nil, false
	}
	return s.d.cur.Clone(), true
}

func (s surface) Replay(p *scene.Page) {
	s.d.cur = p
	s.d.dirty = false
}

// NewPage stores the open page and starts a new one. The new page becomes
// the newest history entry.
func (d *Device) NewPage(size scene.Size, fill scene.Color) scene.PageID {
	d.sync()
	d.nextID++
	d.cur = scene.NewPage(d.nextID, size, fill)
	d.store.Put(int(d.nextID), d.cur.Clone())
	d.order = append(d.order, d.nextID)
	d.active = true
	d.upid++
	Logger().Debug("gd: new page", "id", d.nextID, "index", len(d.order)-1, "size", size)
	d.evict()
	return d.nextID
}

// AddClip registers a clip region on the open page and returns its id.
func (d *Device) AddClip(r scene.Bounds) (int, error) {
	if d.cur == nil {
		return -1, ErrNoPage
	}
	id := d.cur.AddClip(r)
	d.dirty = true
	return id, nil
}

// Draw appends a draw call to the open page. The call's clip id must name
// a clip already added to the page.
func (d *Device) Draw(dc scene.DrawCall) error {
	if d.cur == nil {
		return ErrNoPage
	}
	if dc == nil {
		return fmt.Errorf("%w: nil draw call", scene.ErrInvalidPage)
	}
	if _, ok := d.cur.FindClip(dc.Clip()); !ok {
		return fmt.Errorf("%w %d", scene.ErrUnknownClip, dc.Clip())
	}
	d.cur.Append(dc)
	d.dirty = true
	d.upid++
	return nil
}

// Redraw replaces the open page with p, keeping the open page's id. Hosts
// call it after replaying their drawing, for example at a new size.
func (d *Device) Redraw(p *scene.Page) error {
	if d.cur == nil {
		return ErrNoPage
	}
	id := d.cur.ID
	d.cur = p.Clone()
	d.cur.ID = id
	d.store.PutLast(int(id), surface{d})
	d.dirty = false
	d.upid++
	return nil
}

// Restore reopens the page at index for drawing.
func (d *Device) Restore(index int) error {
	d.sync()
	id, err := d.idAt(index)
	if err != nil {
		return err
	}
	if !d.store.Play(int(id), surface{d}) {
		return fmt.Errorf("%w: id %d", ErrPageNotFound, id)
	}
	// The reopened page becomes the entry Redraw replaces.
	d.store.PutCurrent(int(id), surface{d})
	d.active = true
	d.upid++
	Logger().Debug("gd: restore page", "id", id, "index", index)
	return nil
}

// Close stores the open page and ends drawing. Stored pages remain
// available for rendering.
func (d *Device) Close() {
	d.sync()
	d.cur = nil
	d.active = false
	d.upid++
}

// sync copies pending changes of the open page into the history.
func (d *Device) sync() {
	if d.cur == nil || !d.dirty {
		return
	}
	d.dirty = false
	if _, ok := d.store.Get(int(d.cur.ID)); !ok {
		return
	}
	d.store.PutCurrent(int(d.cur.ID), surface{d})
}

func (d *Device) evict() {
	for d.opts.maxHistory > 0 && len(d.order) > d.opts.maxHistory {
		id := d.order[0]
		d.store.Remove(int(id))
		d.order = d.order[1:]
		Logger().Info("gd: history limit reached, dropped page", "id", id, "limit", d.opts.maxHistory)
	}
}

func (d *Device) idAt(index int) (scene.PageID, error) {
	i := index
	if i < 0 {
		i += len(d.order)
	}
	if i < 0 || i >= len(d.order) {
		return 0, fmt.Errorf("%w: index %d", ErrPageNotFound, index)
	}
	return d.order[i], nil
}

// Page returns the stored page at index. The page belongs to the history
// and must not be modified.
func (d *Device) Page(index int) (*scene.Page, error) {
	d.sync()
	id, err := d.idAt(index)
	if err != nil {
		return nil, err
	}
	p, ok := d.store.Get(int(id))
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrPageNotFound, id)
	}
	return p, nil
}

// Find returns the history index of the page with the given id.
func (d *Device) Find(id scene.PageID) (int, error) {
	if i := slices.Index(d.order, id); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("%w: %d", ErrPlotNotFound, id)
}

// Remove deletes the page at index. Removing the open page ends drawing.
func (d *Device) Remove(index int) error {
	d.sync()
	id, err := d.idAt(index)
	if err != nil {
		return err
	}
	d.store.Remove(int(id))
	d.order = slices.DeleteFunc(d.order, func(v scene.PageID) bool { return v == id })
	if d.cur != nil && d.cur.ID == id {
		d.cur = nil
		d.active = false
	}
	d.upid++
	Logger().Debug("gd: remove page", "id", id, "index", index)
	return nil
}

// RemoveID deletes the page with the given id.
func (d *Device) RemoveID(id scene.PageID) error {
	i, err := d.Find(id)
	if err != nil {
		return err
	}
	return d.Remove(i)
}

// Clear deletes every stored page and ends drawing.
func (d *Device) Clear() {
	d.store.Clear()
	d.order = nil
	d.cur = nil
	d.dirty = false
	d.active = false
	d.upid++
	Logger().Debug("gd: clear history")
}

// State returns the current history summary.
func (d *Device) State() State {
	return State{HSize: len(d.order), UPID: d.upid, Active: d.active}
}

// Query returns the history summary and the ids of up to limit pages
// starting at index. A limit of 0 or less returns every page from index
// on. An index outside the history yields no ids.
func (d *Device) Query(index, limit int) QueryResult {
	res := QueryResult{State: d.State()}
	i := index
	if i < 0 {
		i += len(d.order)
	}
	if i < 0 || i >= len(d.order) {
		return res
	}
	end := len(d.order)
	if limit > 0 {
		end = min(end, i+limit)
	}
	res.IDs = slices.Clone(d.order[i:end])
	return res
}

// Render draws the page at index with the renderer registered under id.
//
// width and height give the target size in output units. The page is
// rendered at width/zoom by height/zoom device units scaled by zoom. A
// negative width or height selects the page's own size and forces zoom
// to 1. A zero width or height keeps the page size at the given zoom.
func (d *Device) Render(index int, width, height, zoom float64, id string) (Result, error) {
	if width < 0 || height < 0 {
		zoom = 1
	}
	if !(zoom > 0) || math.IsInf(zoom, 0) {
		return Result{}, fmt.Errorf("gd: invalid zoom %v", zoom)
	}
	info, factory, err := d.registry.Lookup(id)
	if err != nil {
		return Result{}, err
	}
	p, err := d.Page(index)
	if err != nil {
		return Result{}, err
	}
	if width > 0 && height > 0 && d.opts.resizer != nil {
		size := scene.Size{W: width / zoom, H: height / zoom}
		if size != p.Size {
			p = d.opts.resizer(p.Clone(), size)
		}
	}

	start := time.Now()
	r := factory()
	if err := r.Render(p, zoom); err != nil {
		Logger().Warn("gd: render failed", "index", index, "renderer", id, "err", err)
		return Result{}, fmt.Errorf("gd: render %s: %w", id, err)
	}
	data := r.Bytes()
	Logger().Debug("gd: render",
		"index", index,
		"renderer", id,
		"zoom", zoom,
		"bytes", len(data),
		"elapsed", time.Since(start))
	return Result{Info: info, Data: data}, nil
}

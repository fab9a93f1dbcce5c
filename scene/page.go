package scene

import (
	"errors"
	"fmt"
)

// Errors reported by page validation and dispatch.
var (
	// ErrInvalidPage is returned when a page violates a structural rule.
	ErrInvalidPage = errors.New("scene: invalid page")

	// ErrUnknownClip is returned when a draw call references a clip id that
	// the page does not contain.
	ErrUnknownClip = errors.New("scene: unknown clip")
)

// PageID identifies a page across history operations.
type PageID uint64

// Clip is a rectangular clip region.
type Clip struct {
	ID   int
	Rect Bounds
}

// Page is an ordered, replayable list of draw calls. Call order is paint
// order. The first clip covers the page bounds.
type Page struct {
	ID    PageID
	Size  Size
	Fill  Color
	Clips []Clip
	Calls []DrawCall
}

// NewPage creates an empty page whose first clip covers the whole page.
func NewPage(id PageID, size Size, fill Color) *Page {
	p := &Page{ID: id, Size: size, Fill: fill}
	p.AddClip(Bounds{W: size.W, H: size.H})
	return p
}

// AddClip registers a clip region and returns its id. When the most recently
// added clip has identical bounds, its id is returned instead.
func (p *Page) AddClip(r Bounds) int {
	if n := len(p.Clips); n > 0 && p.Clips[n-1].Rect == r {
		return p.Clips[n-1].ID
	}
	id := 0
	if n := len(p.Clips); n > 0 {
		id = p.Clips[n-1].ID + 1
	}
	p.Clips = append(p.Clips, Clip{ID: id, Rect: r})
	return id
}

// CurrentClip returns the id of the most recently added clip, or -1.
func (p *Page) CurrentClip() int {
	if len(p.Clips) == 0 {
		return -1
	}
	return p.Clips[len(p.Clips)-1].ID
}

// Append adds a draw call to the end of the page.
func (p *Page) Append(dc DrawCall) {
	p.Calls = append(p.Calls, dc)
}

// FindClip returns the clip with the given id.
func (p *Page) FindClip(id int) (Clip, bool) {
	for _, c := range p.Clips {
		if c.ID == id {
			return c, true
		}
	}
	return Clip{}, false
}

// Clear removes all draw calls and clips and starts a fresh page-bounds clip.
func (p *Page) Clear() {
	p.Calls = nil
	p.Clips = nil
	p.AddClip(Bounds{W: p.Size.W, H: p.Size.H})
}

// Clone returns a deep copy of the page.
func (p *Page) Clone() *Page {
	c := &Page{
		ID:    p.ID,
		Size:  p.Size,
		Fill:  p.Fill,
		Clips: append([]Clip(nil), p.Clips...),
		Calls: make([]DrawCall, len(p.Calls)),
	}
	for i, dc := range p.Calls {
		c.Calls[i] = clone(dc)
	}
	return c
}

// Validate checks the structural rules every backend relies on.
func (p *Page) Validate() error {
	if len(p.Clips) == 0 {
		return fmt.Errorf("%w: no clip regions", ErrInvalidPage)
	}
	seen := make(map[int]struct{}, len(p.Clips))
	for _, c := range p.Clips {
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: duplicate clip id %d", ErrInvalidPage, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	for i, dc := range p.Calls {
		if dc == nil {
			return fmt.Errorf("%w: call %d is nil", ErrInvalidPage, i)
		}
		if _, ok := seen[dc.Clip()]; !ok {
			return fmt.Errorf("%w: call %d references clip %d", ErrUnknownClip, i, dc.Clip())
		}
		if err := validateCall(dc); err != nil {
			return fmt.Errorf("%w: call %d (%s): %v", ErrInvalidPage, i, dc.Kind(), err)
		}
	}
	return nil
}

func validateCall(dc DrawCall) error {
	switch c := dc.(type) {
	case *Polyline:
		if len(c.Points) < 2 {
			return fmt.Errorf("%d points, need at least 2", len(c.Points))
		}
	case *Polygon:
		if len(c.Points) < 3 {
			return fmt.Errorf("%d points, need at least 3", len(c.Points))
		}
	case *Path:
		sum := 0
		for _, n := range c.NPer {
			if n < 2 {
				return fmt.Errorf("sub-path with %d points", n)
			}
			sum += n
		}
		if sum != len(c.Points) {
			return fmt.Errorf("sub-path counts sum to %d, have %d points", sum, len(c.Points))
		}
	case *Raster:
		if c.Width < 0 || c.Height < 0 || len(c.Pixels) != c.Width*c.Height {
			return fmt.Errorf("%d pixels for a %dx%d image", len(c.Pixels), c.Width, c.Height)
		}
	}
	return nil
}

package scene

import "fmt"

// Visitor receives the contents of a page in paint order. Each method may
// return an error, which stops the walk.
type Visitor interface {
	// Background is called once before any clip or draw call. The visitor
	// decides whether the page fill needs painting.
	Background(p *Page) error
	// SetClip makes c the active clip region.
	SetClip(c Clip) error

	Rect(r *Rect) error
	Text(t *Text) error
	Circle(c *Circle) error
	Line(l *Line) error
	Polyline(l *Polyline) error
	Polygon(g *Polygon) error
	Path(p *Path) error
	Raster(r *Raster) error
}

// Dispatch validates p and feeds it to v. The first clip is activated before
// the first call; afterwards SetClip is invoked whenever a call's clip id
// differs from the active one. Calls are never regrouped, so an interleaving
// such as 1,2,1 activates clip 1 twice.
func Dispatch(p *Page, v Visitor) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := v.Background(p); err != nil {
		return err
	}
	active := p.Clips[0]
	if err := v.SetClip(active); err != nil {
		return err
	}
	for i, dc := range p.Calls {
		if id := dc.Clip(); id != active.ID {
			c, ok := p.FindClip(id)
			if !ok {
				return fmt.Errorf("%w: call %d references clip %d", ErrUnknownClip, i, id)
			}
			if err := v.SetClip(c); err != nil {
				return err
			}
			active = c
		}
		if err := visit(dc, v); err != nil {
			return err
		}
	}
	return nil
}

func visit(dc DrawCall, v Visitor) error {
	switch c := dc.(type) {
	case *Rect:
		return v.Rect(c)
	case *Text:
		return v.Text(c)
	case *Circle:
		return v.Circle(c)
	case *Line:
		return v.Line(c)
	case *Polyline:
		return v.Polyline(c)
	case *Polygon:
		return v.Polygon(c)
	case *Path:
		return v.Path(c)
	case *Raster:
		return v.Raster(c)
	}
	return fmt.Errorf("scene: unsupported draw call %T", dc)
}

package history

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/gd/scene"
)

type fakeSurface struct {
	page     *scene.Page
	replayed []*scene.Page
}

func (f *fakeSurface) Snapshot() (*scene.Page, bool) {
	if f.page == nil {
		return nil, false
	}
	return f.page.Clone(), true
}

func (f *fakeSurface) Replay(p *scene.Page) {
	f.replayed = append(f.replayed, p)
	f.page = p
}

func page(id scene.PageID) *scene.Page {
	return scene.NewPage(id, scene.Size{W: 10, H: 10}, scene.White)
}

func TestStorePutGetRemoveClear(t *testing.T) {
	s := NewStore()
	a := page(1)
	s.Put(5, a)
	if got, ok := s.Get(5); !ok || got != a {
		t.Fatalf("Get(5) = %v, %v, want page A", got, ok)
	}
	if !s.Remove(5) {
		t.Fatal("Remove(5) = false, want true")
	}
	if _, ok := s.Get(5); ok {
		t.Fatal("Get(5) after Remove succeeded")
	}
	if s.Remove(5) {
		t.Error("second Remove(5) = true, want false")
	}

	s.Put(0, page(2))
	s.Put(3, page(3))
	s.Put(9, page(4))
	s.Remove(3)
	if diff := cmp.Diff([]int{0, 9}, s.Indices()); diff != "" {
		t.Errorf("Indices() mismatch (-want +got):\n%s", diff)
	}
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", s.Len())
	}
	for _, i := range []int{0, 3, 5, 9} {
		if _, ok := s.Get(i); ok {
			t.Errorf("Get(%d) after Clear succeeded", i)
		}
	}
}

func TestStoreZeroValue(t *testing.T) {
	var s Store
	if _, ok := s.Get(0); ok {
		t.Error("Get on zero Store succeeded")
	}
	s.Put(1, page(1))
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStorePutCurrent(t *testing.T) {
	s := NewStore()
	if s.PutCurrent(0, &fakeSurface{}) {
		t.Fatal("PutCurrent with empty surface = true")
	}
	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", s.Len())
	}
	sf := &fakeSurface{page: page(4)}
	if !s.PutCurrent(2, sf) {
		t.Fatal("PutCurrent = false")
	}
	got, _ := s.Get(2)
	if got.ID != 4 {
		t.Errorf("stored ID = %d, want 4", got.ID)
	}
	if got == sf.page {
		t.Error("PutCurrent stored the live page instead of a snapshot")
	}
}

func TestStorePutLast(t *testing.T) {
	s := NewStore()
	sf := &fakeSurface{page: page(1)}
	s.PutLast(7, sf)
	if _, ok := s.Get(7); !ok {
		t.Fatal("PutLast on empty store did not insert at index")
	}

	s.Put(2, page(2))
	sf.page = page(3)
	s.PutLast(100, sf)
	if got, _ := s.Get(2); got.ID != 3 {
		t.Errorf("Get(2).ID = %d, want 3", got.ID)
	}
	if _, ok := s.Get(100); ok {
		t.Error("PutLast inserted at the given index instead of replacing")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestStorePlay(t *testing.T) {
	s := NewStore()
	sf := &fakeSurface{}
	if s.Play(3, sf) {
		t.Fatal("Play on absent index = true")
	}
	if len(sf.replayed) != 0 || sf.page != nil {
		t.Fatal("Play on absent index touched the surface")
	}

	p := page(9)
	p.Append(&scene.Rect{Fill: scene.Black})
	s.Put(3, p)
	if !s.Play(3, sf) {
		t.Fatal("Play = false")
	}
	if len(sf.replayed) != 1 || sf.replayed[0].ID != 9 {
		t.Fatalf("replayed = %v", sf.replayed)
	}
	sf.replayed[0].Append(&scene.Rect{})
	if len(p.Calls) != 1 {
		t.Error("replay shares storage with the stored page")
	}
}

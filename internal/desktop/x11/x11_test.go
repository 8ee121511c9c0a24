package x11

import (
	"context"
	"errors"
	"testing"

	"quadterm/internal/desktop"
	"quadterm/internal/layout"
)

type fakeProperties struct {
	clients  []desktop.WindowID
	names    map[desktop.WindowID]string
	heads    []layout.Rect
	headsErr error
	root     layout.Screen
	listErr  error
}

func (f *fakeProperties) ClientList() ([]desktop.WindowID, error) {
	return f.clients, f.listErr
}

func (f *fakeProperties) WindowName(id desktop.WindowID) (string, error) {
	name, ok := f.names[id]
	if !ok {
		return "", errors.New("BadWindow")
	}
	return name, nil
}

func (f *fakeProperties) Heads() ([]layout.Rect, error) { return f.heads, f.headsErr }
func (f *fakeProperties) Root() layout.Screen { return f.root }
func (f *fakeProperties) Close() {}

func TestFinderSearchExactTitle(t *testing.T) {
	props := &fakeProperties{
		clients: []desktop.WindowID{10, 11, 12, 13},
		names: map[desktop.WindowID]string{
			10: "Terminal 1",
			11: "Terminal 10",
			13: "Terminal 1",
		},
	}
	finder := newFinder(props)

	ids, err := finder.Search(context.Background(), "Terminal 1")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(ids) != 2 || ids[0] != 10 || ids[1] != 13 {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestFinderSearchErrors(t *testing.T) {
	finder := newFinder(&fakeProperties{listErr: errors.New("no EWMH")})
	if _, err := finder.Search(context.Background(), "x"); err == nil {
		t.Fatalf("expected list error")
	}
	if _, err := finder.Search(context.Background(), " "); err == nil {
		t.Fatalf("expected error for empty title")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	finder = newFinder(&fakeProperties{clients: []desktop.WindowID{1}})
	if _, err := finder.Search(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFinderScreenSize(t *testing.T) {
	finder := newFinder(&fakeProperties{
		heads: []layout.Rect{{Width: 2560, Height: 1440}, {X: 2560, Width: 1920, Height: 1080}},
		root:  layout.Screen{Width: 4480, Height: 1440},
	})
	screen, err := finder.ScreenSize()
	if err != nil {
		t.Fatalf("screen size: %v", err)
	}
	if screen != (layout.Screen{Width: 2560, Height: 1440}) {
		t.Fatalf("expected first head, got %v", screen)
	}

	finder = newFinder(&fakeProperties{headsErr: errors.New("no xinerama"), root: layout.Screen{Width: 1920, Height: 1080}})
	screen, err = finder.ScreenSize()
	if err != nil || screen != layout.DefaultScreen {
		t.Fatalf("expected root size, got %v (%v)", screen, err)
	}

	finder = newFinder(&fakeProperties{headsErr: errors.New("no xinerama")})
	if _, err := finder.ScreenSize(); err == nil {
		t.Fatalf("expected error for empty root")
	}
}

func TestDecodeWindowList(t *testing.T) {
	value := []byte{0x03, 0x00, 0xc0, 0x03, 0x01, 0x00, 0x00, 0x00, 0xff}
	ids := decodeWindowList(value)
	if len(ids) != 2 || ids[0] != 0x03c00003 || ids[1] != 1 {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestDecodeName(t *testing.T) {
	if got := decodeName([]byte("Terminal 3\x00\x00")); got != "Terminal 3" {
		t.Fatalf("unexpected name %q", got)
	}
}

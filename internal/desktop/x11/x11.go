// Package x11 talks to the X server directly to find windows by title and to
// read the screen size. It is an alternative to shelling out to xdotool.
package x11

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xinerama"
	xp "github.com/BurntSushi/xgb/xproto"

	"quadterm/internal/desktop"
	"quadterm/internal/layout"
)

// properties is the slice of the X protocol the finder needs.
type properties interface {
	ClientList() ([]desktop.WindowID, error)
	WindowName(id desktop.WindowID) (string, error)
	Heads() ([]layout.Rect, error)
	Root() layout.Screen
	Close()
}

// Finder looks windows up by their EWMH name.
type Finder struct {
	mu    sync.Mutex
	props properties
}

// Open connects to display, or $DISPLAY when display is empty.
func Open(display string) (*Finder, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("connect to X display: %w", err)
	}
	source, err := newConnProperties(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &Finder{props: source}, nil
}

func newFinder(props properties) *Finder {
	return &Finder{props: props}
}

func (f *Finder) Close() {
	if f == nil || f.props == nil {
		return
	}
	f.props.Close()
}

// Search returns managed windows whose name is exactly title.
func (f *Finder) Search(ctx context.Context, title string) ([]desktop.WindowID, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("window title is required")
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	clients, err := f.props.ClientList()
	if err != nil {
		return nil, err
	}
	var matches []desktop.WindowID
	for _, id := range clients {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		name, err := f.props.WindowName(id)
		if err != nil {
			// Windows can vanish between listing and reading.
			continue
		}
		if name == title {
			matches = append(matches, id)
		}
	}
	return matches, nil
}

// ScreenSize reports the first monitor when Xinerama is available, else the
// root window.
func (f *Finder) ScreenSize() (layout.Screen, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	heads, err := f.props.Heads()
	if err == nil && len(heads) > 0 && !heads[0].Empty() {
		return layout.Screen{Width: heads[0].Width, Height: heads[0].Height}, nil
	}
	root := f.props.Root()
	if !root.Valid() {
		return layout.Screen{}, errors.New("X server reported an empty root window")
	}
	return root, nil
}

type connProperties struct {
	conn          *xgb.Conn
	root          xp.Window
	rootSize      layout.Screen
	xinerama      bool
	atomClients   xp.Atom
	atomNetWMName xp.Atom
	atomWMName    xp.Atom
}

func newConnProperties(conn *xgb.Conn) (*connProperties, error) {
	screen := xp.Setup(conn).DefaultScreen(conn)
	p := &connProperties{
		conn:     conn,
		root:     screen.Root,
		rootSize: layout.Screen{Width: int(screen.WidthInPixels), Height: int(screen.HeightInPixels)},
		xinerama: xinerama.Init(conn) == nil,
	}
	var err error
	if p.atomClients, err = p.internAtom("_NET_CLIENT_LIST"); err != nil {
		return nil, err
	}
	if p.atomNetWMName, err = p.internAtom("_NET_WM_NAME"); err != nil {
		return nil, err
	}
	if p.atomWMName, err = p.internAtom("WM_NAME"); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *connProperties) internAtom(name string) (xp.Atom, error) {
	r, err := xp.InternAtom(p.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("intern atom %s: %w", name, err)
	}
	return r.Atom, nil
}

func (p *connProperties) property(win xp.Window, atom xp.Atom) ([]byte, error) {
	reply, err := xp.GetProperty(p.conn, false, win, atom, xp.GetPropertyTypeAny, 0, 1<<32-1).Reply()
	if err != nil {
		return nil, err
	}
	if reply == nil {
		return nil, nil
	}
	return reply.Value, nil
}

func (p *connProperties) ClientList() ([]desktop.WindowID, error) {
	value, err := p.property(p.root, p.atomClients)
	if err != nil {
		return nil, fmt.Errorf("read _NET_CLIENT_LIST: %w", err)
	}
	return decodeWindowList(value), nil
}

func (p *connProperties) WindowName(id desktop.WindowID) (string, error) {
	for _, atom := range []xp.Atom{p.atomNetWMName, p.atomWMName} {
		value, err := p.property(xp.Window(id), atom)
		if err != nil {
			return "", err
		}
		if name := decodeName(value); name != "" {
			return name, nil
		}
	}
	return "", nil
}

func (p *connProperties) Heads() ([]layout.Rect, error) {
	if !p.xinerama {
		return nil, errors.New("xinerama unavailable")
	}
	reply, err := xinerama.QueryScreens(p.conn).Reply()
	if err != nil {
		return nil, err
	}
	heads := make([]layout.Rect, 0, len(reply.ScreenInfo))
	for _, si := range reply.ScreenInfo {
		heads = append(heads, layout.Rect{
			X:      int(si.XOrg),
			Y:      int(si.YOrg),
			Width:  int(si.Width),
			Height: int(si.Height),
		})
	}
	return heads, nil
}

func (p *connProperties) Root() layout.Screen {
	return p.rootSize
}

func (p *connProperties) Close() {
	p.conn.Close()
}

// decodeWindowList reads a 32-bit WINDOW array.
func decodeWindowList(value []byte) []desktop.WindowID {
	ids := make([]desktop.WindowID, 0, len(value)/4)
	for v := value; len(v) >= 4; v = v[4:] {
		ids = append(ids, desktop.WindowID(xgb.Get32(v)))
	}
	return ids
}

// decodeName strips the trailing NULs some clients leave in the property.
func decodeName(value []byte) string {
	return strings.TrimRight(string(value), "\x00")
}

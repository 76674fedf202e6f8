// Package tray puts the event stream under a system tray icon using
// getlantern/systray.
package tray

import (
	"github.com/getlantern/systray"
)

// MenuItem is one entry in the tray menu.
type MenuItem struct {
	ID       int
	Title    string
	Callback func()
	item     *systray.MenuItem
}

// Tray manages the system tray icon and menu.
type Tray struct {
	items   []*MenuItem
	onReady func()
	onExit  func()
	readyCh chan struct{}
	quitCh  chan struct{}
}

// New creates a tray with the given tooltip. Menu items must be added
// before Run.
func New(tooltip string) *Tray {
	t := &Tray{
		items:   make([]*MenuItem, 0),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}

	t.onReady = func() {
		systray.SetTitle("Input Hub")
		systray.SetTooltip(tooltip)
		systray.SetIcon(trayIcon())
		close(t.readyCh)
	}
	t.onExit = func() {
		close(t.quitCh)
	}
	return t
}

// AddMenuItem appends a clickable menu item and returns its id.
func (t *Tray) AddMenuItem(title string, callback func()) int {
	id := len(t.items)
	t.items = append(t.items, &MenuItem{
		ID:       id,
		Title:    title,
		Callback: callback,
	})
	return id
}

// AddSeparator appends a menu separator.
func (t *Tray) AddSeparator() {
	t.items = append(t.items, nil) // nil indicates separator
}

// SetItemChecked sets the checked state of a menu item.
func (t *Tray) SetItemChecked(id int, checked bool) {
	if id >= 0 && id < len(t.items) && t.items[id] != nil {
		if t.items[id].item != nil {
			if checked {
				t.items[id].item.Check()
			} else {
				t.items[id].item.Uncheck()
			}
		}
	}
}

// Run starts the tray event loop and blocks until Stop.
func (t *Tray) Run() {
	systray.Run(t.setupMenu, t.onExit)
}

// setupMenu is called once systray is ready.
func (t *Tray) setupMenu() {
	t.onReady()
	<-t.readyCh

	for _, menuItem := range t.items {
		if menuItem == nil {
			systray.AddSeparator()
			continue
		}
		item := systray.AddMenuItem(menuItem.Title, "")
		menuItem.item = item

		if menuItem.Callback != nil {
			go func(mi *MenuItem) {
				for {
					select {
					case <-mi.item.ClickedCh:
						mi.Callback()
					case <-t.quitCh:
						return
					}
				}
			}(menuItem)
		}
	}
}

// Stop ends the tray event loop.
func (t *Tray) Stop() {
	systray.Quit()
}

// trayIcon builds a valid 16x16 32-bit ICO in memory. The pixel data is
// left transparent; platforms that require an icon accept it.
func trayIcon() []byte {
	icon := make([]byte, 1118)
	// ICO header
	copy(icon[0:6], []byte{0x00, 0x00, 0x01, 0x00, 0x01, 0x00})
	// Icon directory
	copy(icon[6:22], []byte{
		0x10, 0x10, 0x00, 0x00, 0x01, 0x00, 0x20, 0x00,
		0x48, 0x04, 0x00, 0x00, // 1024 pixel bytes + 40 header + 32 mask
		0x16, 0x00, 0x00, 0x00, // offset
	})
	// DIB header
	copy(icon[22:62], []byte{
		0x28, 0x00, 0x00, 0x00, // size
		0x10, 0x00, 0x00, 0x00, // width
		0x20, 0x00, 0x00, 0x00, // height, doubled for the mask
		0x01, 0x00, // planes
		0x20, 0x00, // bpp
		0x00, 0x00, 0x00, 0x00, // compression
		0x00, 0x04, 0x00, 0x00, // image size
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	})
	return icon
}

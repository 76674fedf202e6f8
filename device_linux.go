//go:build linux

package inputhub

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"inputhub/internal/eventio"
	"inputhub/internal/ff"
)

// charDevSource reads fixed-width records straight from an evdev
// character device.
type charDevSource struct {
	path string
	f    *os.File
}

func (s *charDevSource) Open() error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsPermission(err) {
			return errors.Wrapf(ErrPermissionDenied, "%s (is your user in the input group?)", s.path)
		}
		return errors.Wrapf(err, "failed to open %s", s.path)
	}
	s.f = f
	return nil
}

func (s *charDevSource) ReadBatch() ([]eventio.Record, error) {
	buf := make([]byte, eventio.RecordSize)
	if _, err := io.ReadFull(s.f, buf); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", s.path)
	}
	rec, err := eventio.Decode(buf)
	if err != nil {
		return nil, err
	}
	return []eventio.Record{rec}, nil
}

func (s *charDevSource) Close() error {
	if s.f == nil {
		return nil
	}
	return s.f.Close()
}

// gamepadState carries the rumble upload state for Linux gamepads.
type gamepadState struct {
	charPath string

	ffMu     sync.Mutex
	ffFile   *os.File
	effectID int16
}

// newLinuxDevice builds a device over a character device node. path is
// the discovery identity; charPath is the resolved node actually opened.
func newLinuxDevice(kind DeviceKind, path, charPath string, logger *zap.SugaredLogger) Device {
	core := eventDevice{
		path:        path,
		kind:        kind,
		logger:      logger,
		src:         &charDevSource{path: charPath},
		resolveName: func() string { return sysfsDeviceName(charPath) },
	}
	dev := wrapDevice(kind, core)
	if gp, ok := dev.(*GamePad); ok {
		gp.charPath = charPath
		gp.effectID = -1
	}
	return dev
}

// sysfsDeviceName reads the kernel's name entry for a character device
// node.
func sysfsDeviceName(charPath string) string {
	nameFile := filepath.Join("/sys/class/input", filepath.Base(charPath), "device", "name")
	data, err := os.ReadFile(nameFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetVibration uploads a rumble effect with the left ratio on the strong
// motor and the right on the weak one, then starts playback. Ratios are
// clamped to [0, 1]. Re-invoking replaces the previous effect in place.
func (g *GamePad) SetVibration(left, right float64) error {
	g.ffMu.Lock()
	defer g.ffMu.Unlock()

	if g.ffFile == nil {
		f, err := os.OpenFile(g.charPath, os.O_RDWR, 0)
		if err != nil {
			if os.IsPermission(err) {
				return errors.Wrapf(ErrPermissionDenied, "%s", g.charPath)
			}
			return errors.Wrapf(err, "failed to open %s for rumble", g.charPath)
		}
		g.ffFile = f
	}

	id, err := ff.Upload(g.ffFile, g.effectID, ff.Rumble{
		Strong: motorSpeed(left),
		Weak:   motorSpeed(right),
	})
	if err != nil {
		return err
	}
	g.effectID = id

	sec, usec := eventio.Now()
	return ff.Play(g.ffFile, id, sec, usec)
}

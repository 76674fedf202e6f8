package inputhub

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"inputhub/internal/eventio"
)

// ledCodes maps a sysfs LED function name to its event code.
var ledCodes = map[string]uint16{
	"numlock":    0x00,
	"capslock":   0x01,
	"scrolllock": 0x02,
	"compose":    0x03,
	"kana":       0x04,
	"sleep":      0x05,
	"suspend":    0x06,
	"mute":       0x07,
	"misc":       0x08,
	"mail":       0x09,
	"charging":   0x0a,
}

// LED is one system LED tied to an input device, like a keyboard's caps
// lock light. Brightness reads go through sysfs; switching the LED
// writes an event to the owning device node.
type LED struct {
	sysDir string
	number int
	name   string
	logger *zap.SugaredLogger

	// devInput locates event nodes for the owning input device; it is a
	// field so tests can point LEDs at a scratch tree.
	devInput string
}

// parseLEDName splits a sysfs LED directory name like "input3::capslock"
// into the input device number and the LED function name.
func parseLEDName(base string) (int, string, error) {
	head, name, ok := strings.Cut(base, "::")
	if !ok || !strings.HasPrefix(head, "input") {
		return 0, "", errors.Errorf("%q is not an input device led", base)
	}
	number, err := strconv.Atoi(strings.TrimPrefix(head, "input"))
	if err != nil {
		return 0, "", errors.Wrapf(err, "%q is not an input device led", base)
	}
	return number, name, nil
}

func newLED(sysDir string, logger *zap.SugaredLogger) (*LED, error) {
	number, name, err := parseLEDName(filepath.Base(sysDir))
	if err != nil {
		return nil, err
	}
	return &LED{
		sysDir:   sysDir,
		number:   number,
		name:     name,
		logger:   logger,
		devInput: "/sys/class/input",
	}, nil
}

// Name is the LED's function name, like "capslock".
func (l *LED) Name() string { return l.name }

// Brightness reads the LED's current brightness level.
func (l *LED) Brightness() (int, error) {
	return l.readInt("brightness")
}

// MaxBrightness reads the LED's maximum brightness level.
func (l *LED) MaxBrightness() (int, error) {
	return l.readInt("max_brightness")
}

// Status reports whether the LED is currently lit.
func (l *LED) Status() (bool, error) {
	level, err := l.Brightness()
	if err != nil {
		return false, err
	}
	return level > 0, nil
}

// On lights the LED.
func (l *LED) On() error { return l.set(1) }

// Off extinguishes the LED.
func (l *LED) Off() error { return l.set(0) }

func (l *LED) readInt(file string) (int, error) {
	raw, err := os.ReadFile(filepath.Join(l.sysDir, file))
	if err != nil {
		return 0, errors.Wrapf(err, "led %s", l.name)
	}
	value, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, errors.Wrapf(err, "led %s", l.name)
	}
	return value, nil
}

// set writes an LED event followed by a sync marker to the owning
// device node. The kernel flips the light in response.
func (l *LED) set(value int32) error {
	code, ok := ledCodes[l.name]
	if !ok {
		return errors.Errorf("led %s has no event code", l.name)
	}
	devPath, err := l.devicePath()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(devPath, os.O_WRONLY, 0)
	if err != nil {
		if os.IsPermission(err) {
			return errors.Wrapf(ErrPermissionDenied, "open %s", devPath)
		}
		return errors.Wrapf(err, "led %s", l.name)
	}
	defer f.Close()

	now := time.Now()
	sec := now.Unix()
	usec := int64(now.Nanosecond() / 1000)
	data := eventio.Marshal([]eventio.Record{
		{Sec: sec, Usec: usec, Type: eventio.TypeLED, Code: code, Value: value},
		{Sec: sec, Usec: usec, Type: eventio.TypeSync},
	})
	if _, err := f.Write(data); err != nil {
		return errors.Wrapf(err, "led %s", l.name)
	}
	return nil
}

// devicePath locates the event node of the input device the LED belongs
// to by scanning its sysfs directory.
func (l *LED) devicePath() (string, error) {
	dir := filepath.Join(l.devInput, "input"+strconv.Itoa(l.number))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.Wrapf(err, "led %s", l.name)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "event") {
			return filepath.Join("/dev/input", entry.Name()), nil
		}
	}
	return "", errors.Errorf("led %s: no event node under %s", l.name, dir)
}

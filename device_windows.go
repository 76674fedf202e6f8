//go:build windows

package inputhub

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"inputhub/internal/eventio"
	"inputhub/internal/listener"
	"inputhub/internal/xinput"
)

// pollInterval is the delay between gamepad state samples. 4ms keeps
// diff latency under half a frame without pinning a core.
const pollInterval = 4 * time.Millisecond

// gamepadState is empty on Windows; vibration goes through the slot.
type gamepadState struct{}

// pollSource synthesizes records by differencing consecutive XInput
// samples. The native API exposes state, not events, so discrete records
// exist only as the delta between the last sample and the current one.
type pollSource struct {
	slot int
	clk  clock.Clock
	last xinput.Sample
}

func (s *pollSource) Open() error {
	sample, err := xinput.GetState(s.slot)
	if err != nil {
		return mapUnplugged(err)
	}
	s.last = sample
	return nil
}

// ReadBatch polls until a sample differs from the previous one and
// returns the synthesized records for that delta, sync marker included.
func (s *pollSource) ReadBatch() ([]eventio.Record, error) {
	ticker := s.clk.Ticker(pollInterval)
	defer ticker.Stop()

	for {
		sample, err := xinput.GetState(s.slot)
		if err != nil {
			return nil, mapUnplugged(err)
		}
		sec, usec := eventio.Now()
		records := xinput.Diff(s.last, sample, sec, usec)
		s.last = sample
		if records != nil {
			return records, nil
		}
		<-ticker.C
	}
}

func (s *pollSource) Close() error { return nil }

// mapUnplugged converts the native not-connected result into the
// user-actionable unplugged condition; other native failures stay fatal.
func mapUnplugged(err error) error {
	if errors.Is(err, xinput.ErrNotConnected) {
		return errors.Wrapf(ErrUnplugged, "%v", err)
	}
	return err
}

// newWinDevice builds a keyboard or mouse device over a low-level hook
// listener.
func newWinDevice(kind DeviceKind, path, name string, logger *zap.SugaredLogger) Device {
	lk := listener.Keyboard
	if kind == KindMouse {
		lk = listener.Mouse
	}
	return wrapDevice(kind, eventDevice{
		path:   path,
		kind:   kind,
		name:   name,
		logger: logger,
		src:    &listenerSource{kind: lk, logger: logger},
	})
}

// newWinGamepad builds a gamepad device over the differential poller for
// one controller slot.
func newWinGamepad(slot int, path, name string, logger *zap.SugaredLogger, clk clock.Clock) Device {
	dev := wrapDevice(KindGamepad, eventDevice{
		path:   path,
		kind:   KindGamepad,
		name:   name,
		logger: logger,
		src:    &pollSource{slot: slot, clk: clk},
	})
	dev.(*GamePad).slot = slot
	return dev
}

// SetVibration scales both ratios to the native 16-bit motor range and
// issues one state upload. Ratios are clamped to [0, 1].
func (g *GamePad) SetVibration(left, right float64) error {
	return mapUnplugged(xinput.SetVibration(g.slot, motorSpeed(left), motorSpeed(right)))
}

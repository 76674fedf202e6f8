//go:build !linux && !windows && !darwin

package inputhub

import (
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"inputhub/internal/eventio"
)

type gamepadState struct{}

type unsupportedSource struct{}

func (unsupportedSource) Open() error {
	return errors.Errorf("input capture not supported on %s", runtime.GOOS)
}

func (unsupportedSource) ReadBatch() ([]eventio.Record, error) {
	return nil, errors.Errorf("input capture not supported on %s", runtime.GOOS)
}

func (unsupportedSource) Close() error { return nil }

func newStubDevice(kind DeviceKind, path, name string, logger *zap.SugaredLogger) Device {
	return wrapDevice(kind, eventDevice{
		path:   path,
		kind:   kind,
		name:   name,
		logger: logger,
		src:    unsupportedSource{},
	})
}

func (g *GamePad) SetVibration(left, right float64) error {
	return errors.Errorf("vibration not supported on %s", runtime.GOOS)
}

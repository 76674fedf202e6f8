//go:build !windows && !darwin

package listener

import (
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Linux reads input character devices directly, so no capture listener
// exists there or on any other platform without a native hook API.
func newListener(kind Kind, logger *zap.SugaredLogger) (Listener, error) {
	return nil, errors.Errorf("no native %s capture on %s", kind, runtime.GOOS)
}

package inputhub

import (
	"github.com/pkg/errors"

	"inputhub/internal/evcode"
)

// Sentinel errors callers are expected to test with errors.Is. They are
// returned wrapped with the device or value that triggered them.
var (
	// ErrPermissionDenied reports that the OS refused access to an
	// input device. The fix is group membership, not a retry.
	ErrPermissionDenied = errors.New("permission denied reading input device")

	// ErrUnplugged reports that a device class has no members or that a
	// previously responsive gamepad slot disconnected.
	ErrUnplugged = errors.New("device not plugged in")

	// ErrWatchUnsupported reports that the platform has no watchable
	// device discovery surface.
	ErrWatchUnsupported = errors.New("device watching not supported")

	// ErrUnknownEventType reports a raw category integer outside the
	// canonical set. Category resolution is always strict.
	ErrUnknownEventType = evcode.ErrUnknownType

	// ErrUnknownEventCode reports a code with no symbolic name in its
	// category.
	ErrUnknownEventCode = evcode.ErrUnknownCode
)

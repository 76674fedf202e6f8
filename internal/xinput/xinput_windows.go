//go:build windows

package xinput

import (
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
)

// errorDeviceNotConnected is the native result code for an empty slot;
// any other non-zero result is a genuine failure.
const errorDeviceNotConnected = 1167

// xinputDLL loads the newest available XInput runtime. 1.4 ships with
// Windows 8 and later, 1.3 with the DirectX runtime, 9.1.0 with Vista.
var xinputDLL = func() *syscall.LazyDLL {
	for _, name := range []string{"xinput1_4.dll", "xinput1_3.dll", "xinput9_1_0.dll"} {
		dll := syscall.NewLazyDLL(name)
		if dll.Load() == nil {
			return dll
		}
	}
	// Leave the default name in place; calls will surface the load error.
	return syscall.NewLazyDLL("xinput1_4.dll")
}()

var (
	xinputGetState = xinputDLL.NewProc("XInputGetState")
	xinputSetState = xinputDLL.NewProc("XInputSetState")
)

// xinputGamepad mirrors XINPUT_GAMEPAD.
type xinputGamepad struct {
	Buttons      uint16
	LeftTrigger  uint8
	RightTrigger uint8
	ThumbLX      int16
	ThumbLY      int16
	ThumbRX      int16
	ThumbRY      int16
}

// xinputState mirrors XINPUT_STATE.
type xinputState struct {
	PacketNumber uint32
	Gamepad      xinputGamepad
}

// xinputVibration mirrors XINPUT_VIBRATION.
type xinputVibration struct {
	LeftMotorSpeed  uint16
	RightMotorSpeed uint16
}

// GetState polls one controller slot. An empty slot reports
// ErrNotConnected; any other native failure is fatal.
func GetState(slot int) (Sample, error) {
	var state xinputState
	ret, _, _ := xinputGetState.Call(uintptr(slot), uintptr(unsafe.Pointer(&state)))
	switch ret {
	case 0:
	case errorDeviceNotConnected:
		return Sample{}, errors.Wrapf(ErrNotConnected, "slot %d", slot)
	default:
		return Sample{}, errors.Errorf("XInputGetState(%d) failed with code %d", slot, ret)
	}
	return Sample{
		Packet:       state.PacketNumber,
		Buttons:      state.Gamepad.Buttons,
		LeftTrigger:  state.Gamepad.LeftTrigger,
		RightTrigger: state.Gamepad.RightTrigger,
		ThumbLX:      state.Gamepad.ThumbLX,
		ThumbLY:      state.Gamepad.ThumbLY,
		ThumbRX:      state.Gamepad.ThumbRX,
		ThumbRY:      state.Gamepad.ThumbRY,
	}, nil
}

// SetVibration sets both rumble motor speeds, each in the native 16-bit
// range.
func SetVibration(slot int, leftMotor, rightMotor uint16) error {
	vib := xinputVibration{LeftMotorSpeed: leftMotor, RightMotorSpeed: rightMotor}
	ret, _, _ := xinputSetState.Call(uintptr(slot), uintptr(unsafe.Pointer(&vib)))
	switch ret {
	case 0:
		return nil
	case errorDeviceNotConnected:
		return errors.Wrapf(ErrNotConnected, "slot %d", slot)
	default:
		return errors.Errorf("XInputSetState(%d) failed with code %d", slot, ret)
	}
}

package evcode

// xpadButtons maps XInput button bit positions (least significant bit
// first, numbered from 1) to canonical codes. The four direction-pad bits
// map to the hat axes because the pad is historically reported as an
// analog hat even though the bits are binary.
var xpadButtons = map[int]uint16{
	1:  0x11,  // dpad up       -> ABS_HAT0Y
	2:  0x11,  // dpad down     -> ABS_HAT0Y
	3:  0x10,  // dpad left     -> ABS_HAT0X
	4:  0x10,  // dpad right    -> ABS_HAT0X
	5:  0x13a, // start         -> BTN_SELECT
	6:  0x13b, // back          -> BTN_START
	7:  0x13d, // left thumb    -> BTN_THUMBL
	8:  0x13e, // right thumb   -> BTN_THUMBR
	9:  0x136, // left shoulder -> BTN_TL
	10: 0x137, // right shoulder-> BTN_TR
	13: 0x130, // A             -> BTN_SOUTH
	14: 0x131, // B             -> BTN_EAST
	15: 0x134, // X             -> BTN_WEST
	16: 0x133, // Y             -> BTN_NORTH
}

// xpadAxes maps the six analog sample fields to canonical absolute axis
// codes.
var xpadAxes = map[string]uint16{
	"l_thumb_x":     0x00,
	"l_thumb_y":     0x01,
	"left_trigger":  0x02,
	"r_thumb_x":     0x03,
	"r_thumb_y":     0x04,
	"right_trigger": 0x05,
}

// XpadButton resolves an XInput bit position to its canonical code. ok is
// false for bit positions with no mapping (the guide button and the
// reserved bit); those are skipped rather than surfaced, since the pair
// would be unresolvable downstream.
func XpadButton(bit int) (uint16, bool) {
	code, ok := xpadButtons[bit]
	return code, ok
}

// XpadHatBit reports whether a bit position belongs to the direction pad,
// which emits Absolute records with a signed direction instead of Key
// records. up and left press as -1, down and right as +1.
func XpadHatBit(bit int) (negative bool, isHat bool) {
	switch bit {
	case 1, 3:
		return true, true
	case 2, 4:
		return false, true
	}
	return false, false
}

// XpadAxis resolves an analog sample field name to its canonical absolute
// axis code.
func XpadAxis(name string) (uint16, bool) {
	code, ok := xpadAxes[name]
	return code, ok
}

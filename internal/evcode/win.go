package evcode

// Message ids delivered by the Win32 low-level keyboard and mouse hooks.
const (
	WinMsgKeyDown    = 0x0100 // WM_KEYDOWN
	WinMsgKeyUp      = 0x0101 // WM_KEYUP
	WinMsgSysKeyDown = 0x0104 // WM_SYSKEYDOWN
	WinMsgSysKeyUp   = 0x0105 // WM_SYSKEYUP

	WinMsgMouseMove   = 0x0200 // WM_MOUSEMOVE
	WinMsgMouseWheel  = 0x020a // WM_MOUSEWHEEL
	WinMsgXButtonDown = 0x020b // WM_XBUTTONDOWN
	WinMsgXButtonUp   = 0x020c // WM_XBUTTONUP
	WinMsgMouseHWheel = 0x020e // WM_MOUSEHWHEEL
)

// winKeyStates maps hook keyboard message ids to the boolean key state.
var winKeyStates = map[uint32]int32{
	WinMsgKeyDown:    1,
	WinMsgKeyUp:      0,
	WinMsgSysKeyDown: 1,
	WinMsgSysKeyUp:   0,
}

// WinKeyState reports the key state for a hook keyboard message. ok is
// false for message ids the keyboard hook is not expected to deliver;
// treating those as down or up would corrupt consumer key state, so the
// listener fails loudly instead.
func WinKeyState(msg uint32) (int32, bool) {
	v, ok := winKeyStates[msg]
	return v, ok
}

// WinButton describes the canonical press synthesized for one mouse hook
// message id.
type WinButton struct {
	Code  uint16
	Value int32
	Scan  int32
}

// winMouseButtons maps mouse hook message ids to canonical presses. The
// two X buttons share one message id pair on the wire; the listener
// shifts in the button number from the message data to form the two
// synthetic ids at the bottom.
var winMouseButtons = map[uint32]WinButton{
	0x0201: {0x110, 1, 589825}, // WM_LBUTTONDOWN -> BTN_LEFT
	0x0202: {0x110, 0, 589825}, // WM_LBUTTONUP   -> BTN_LEFT
	0x0204: {0x111, 1, 589826}, // WM_RBUTTONDOWN -> BTN_RIGHT
	0x0205: {0x111, 0, 589826}, // WM_RBUTTONUP   -> BTN_RIGHT
	0x0207: {0x112, 1, 589827}, // WM_MBUTTONDOWN -> BTN_MIDDLE
	0x0208: {0x112, 0, 589827}, // WM_MBUTTONUP   -> BTN_MIDDLE
	0x020b: {0x113, 1, 589828}, // WM_XBUTTONDOWN -> BTN_SIDE
	0x020c: {0x113, 0, 589828}, // WM_XBUTTONUP   -> BTN_SIDE
	0x20b2: {0x114, 1, 589829}, // XBUTTON2 down  -> BTN_EXTRA
	0x20c2: {0x114, 0, 589829}, // XBUTTON2 up    -> BTN_EXTRA
}

// WinXButton2 rewrites an X-button message id to its synthetic second-
// button form.
func WinXButton2(msg uint32) uint32 { return msg<<4 | 0x2 }

// WinMouseButton resolves a mouse hook message id to a canonical press.
func WinMouseButton(msg uint32) (WinButton, bool) {
	b, ok := winMouseButtons[msg]
	return b, ok
}

package evcode

// Native macOS event type ids, shared between Quartz event taps and AppKit
// monitors.
const (
	MacEventLeftMouseDown     = 1
	MacEventLeftMouseUp       = 2
	MacEventRightMouseDown    = 3
	MacEventRightMouseUp      = 4
	MacEventMouseMoved        = 5
	MacEventLeftMouseDragged  = 6
	MacEventRightMouseDragged = 7
	MacEventKeyDown           = 10
	MacEventKeyUp             = 11
	MacEventFlagsChanged      = 12
	MacEventScrollWheel       = 22
	MacEventOtherMouseDown    = 25
	MacEventOtherMouseUp      = 26
	MacEventOtherMouseDragged = 27
)

// MacNonCoalescedFlag is set in every modifier flags mask; a mask equal to
// exactly this bit means no modifier is held.
const MacNonCoalescedFlag = 0x100

// MacButton describes the canonical press for one native mouse event type.
type MacButton struct {
	Code  uint16
	Value int32
	Scan  int32
}

// macMouseButtons keys are (event type, button number). Types 1 through 4
// carry the button identity in the type itself and ignore the number.
// Types 25/26 share one id for the middle, side and extra buttons and are
// disambiguated only by the native button-number field.
var macMouseButtons = map[[2]int]MacButton{
	{1, 0}:  {0x110, 1, 589825}, // left down
	{2, 0}:  {0x110, 0, 589825}, // left up
	{3, 0}:  {0x111, 1, 589826}, // right down
	{4, 0}:  {0x111, 0, 589826}, // right up
	{25, 2}: {0x112, 1, 589827}, // middle down
	{25, 3}: {0x113, 1, 589828}, // side down
	{25, 4}: {0x114, 1, 589829}, // extra down
	{26, 2}: {0x112, 0, 589827}, // middle up
	{26, 3}: {0x113, 0, 589828}, // side up
	{26, 4}: {0x114, 0, 589829}, // extra up
}

// MacMouseButton resolves a native mouse event type plus button number to
// a canonical press. ok is false for types carrying no button identity
// (moves, drags, gestures) and for unknown button numbers.
func MacMouseButton(evType, button int) (MacButton, bool) {
	if evType == MacEventOtherMouseDown || evType == MacEventOtherMouseUp {
		b, ok := macMouseButtons[[2]int{evType, button}]
		return b, ok
	}
	b, ok := macMouseButtons[[2]int{evType, 0}]
	return b, ok
}

// MacKeyValue infers the boolean key state for a native keyboard event
// type. FlagsChanged events carry no explicit state; release is inferred
// from the flags mask collapsing to the bare non-coalesced bit, which
// cannot distinguish two modifiers changing in one event. Unknown types
// report -1.
func MacKeyValue(evType int, flags uint64) int32 {
	switch evType {
	case MacEventKeyDown:
		return 1
	case MacEventKeyUp:
		return 0
	case MacEventFlagsChanged:
		if flags == MacNonCoalescedFlag {
			return 0
		}
		return 1
	default:
		return -1
	}
}

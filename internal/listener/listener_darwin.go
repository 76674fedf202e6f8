//go:build darwin

package listener

/*
#cgo darwin LDFLAGS: -framework CoreGraphics -framework ApplicationServices
#include <ApplicationServices/ApplicationServices.h>
#include <CoreFoundation/CoreFoundation.h>
#include <stdint.h>

extern CGEventRef goHandleTapEvent(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *userInfo);

static CFRunLoopSourceRef startEventTap(uintptr_t handle, CGEventMask mask, CFMachPortRef *tapOut) {
	CFMachPortRef tap = CGEventTapCreate(kCGSessionEventTap,
	                                     kCGHeadInsertEventTap,
	                                     kCGEventTapOptionListenOnly,
	                                     mask,
	                                     goHandleTapEvent,
	                                     (void *)handle);
	if (tap == NULL) {
		return NULL;
	}
	CGEventTapEnable(tap, true);
	CFRunLoopSourceRef source = CFMachPortCreateRunLoopSource(kCFAllocatorDefault, tap, 0);
	*tapOut = tap;
	return source;
}

static CGEventMask cgEventMaskBit(CGEventType type) {
	return ((CGEventMask)1) << type;
}

static CFRunLoopRef currentRunLoop(void) {
	return CFRunLoopGetCurrent();
}

static void addSourceToRunLoop(CFRunLoopRef loop, CFRunLoopSourceRef source) {
	CFRunLoopAddSource(loop, source, kCFRunLoopCommonModes);
}

static void runCurrentRunLoop(void) {
	CFRunLoopRun();
}

static void stopRunLoop(CFRunLoopRef loop) {
	CFRunLoopStop(loop);
}

static int64_t cgEventGetX(CGEventRef event) {
	CGPoint point = CGEventGetLocation(event);
	return (int64_t)point.x;
}

static int64_t cgEventGetY(CGEventRef event) {
	CGPoint point = CGEventGetLocation(event);
	return (int64_t)point.y;
}

static int64_t cgEventField(CGEventRef event, CGEventField field) {
	return CGEventGetIntegerValueField(event, field);
}

static uint64_t cgEventFlags(CGEventRef event) {
	return (uint64_t)CGEventGetFlags(event);
}
*/
import "C"

import (
	"runtime"
	"runtime/cgo"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"inputhub/internal/evcode"
)

// macOS scroll wheels report click counts directly, so deltas pass
// through unscaled.
const macWheelDivisor = 1

type darwinListener struct {
	kind    Kind
	logger  *zap.SugaredLogger
	emitter *Emitter
	batches chan []byte

	mu      sync.Mutex
	running bool
	loop    C.CFRunLoopRef
}

func newListener(kind Kind, logger *zap.SugaredLogger) (Listener, error) {
	return &darwinListener{
		kind:    kind,
		logger:  logger,
		emitter: NewEmitter(macWheelDivisor),
		batches: make(chan []byte, batchBuffer),
	}, nil
}

// Start creates the event tap from a dedicated thread and waits until its
// run loop source is registered, so a returned nil means capture is live.
func (l *darwinListener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return errors.Errorf("%s listener already running", l.kind)
	}

	ready := make(chan error, 1)
	go l.runLoop(ready)
	if err := <-ready; err != nil {
		return err
	}

	l.running = true
	return nil
}

func (l *darwinListener) Batches() <-chan []byte {
	return l.batches
}

// Stop unwinds the run loop, which tears down the tap.
func (l *darwinListener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return
	}
	l.running = false

	if l.loop != 0 {
		C.stopRunLoop(l.loop)
		l.loop = 0
	}
}

// eventMask selects the native event types for this listener's class.
func (l *darwinListener) eventMask() C.CGEventMask {
	if l.kind == Keyboard {
		return C.cgEventMaskBit(C.kCGEventKeyDown) |
			C.cgEventMaskBit(C.kCGEventKeyUp) |
			C.cgEventMaskBit(C.kCGEventFlagsChanged)
	}
	return C.cgEventMaskBit(C.kCGEventLeftMouseDown) |
		C.cgEventMaskBit(C.kCGEventLeftMouseUp) |
		C.cgEventMaskBit(C.kCGEventRightMouseDown) |
		C.cgEventMaskBit(C.kCGEventRightMouseUp) |
		C.cgEventMaskBit(C.kCGEventOtherMouseDown) |
		C.cgEventMaskBit(C.kCGEventOtherMouseUp) |
		C.cgEventMaskBit(C.kCGEventMouseMoved) |
		C.cgEventMaskBit(C.kCGEventLeftMouseDragged) |
		C.cgEventMaskBit(C.kCGEventRightMouseDragged) |
		C.cgEventMaskBit(C.kCGEventOtherMouseDragged) |
		C.cgEventMaskBit(C.kCGEventScrollWheel)
}

// runLoop installs the tap and runs the native run loop until Stop. The
// tap delivers callbacks on the run loop's thread, and CFRunLoopRun is
// the only entry point the API offers, so the goroutine stays locked to
// one OS thread for its whole life.
func (l *darwinListener) runLoop(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	handle := cgo.NewHandle(l)
	defer handle.Delete()

	var tap C.CFMachPortRef
	source := C.startEventTap(C.uintptr_t(handle), l.eventMask(), &tap)
	if source == 0 {
		ready <- errors.Errorf("failed to create %s event tap (missing accessibility permission?)", l.kind)
		return
	}
	defer C.CFRelease(C.CFTypeRef(source))
	defer C.CFRelease(C.CFTypeRef(tap))

	loop := C.currentRunLoop()
	l.mu.Lock()
	l.loop = loop
	l.mu.Unlock()

	C.addSourceToRunLoop(loop, source)
	ready <- nil
	l.logger.Debugw("event tap installed", "listener", l.kind.String())

	C.runCurrentRunLoop()

	l.logger.Debugw("run loop exiting", "listener", l.kind.String())
	close(l.batches)
}

// deliver hands the flushed batch to the consumer, dropping it whole if
// the consumer has fallen batchBuffer batches behind.
func (l *darwinListener) deliver() {
	batch := l.emitter.Flush()
	if batch == nil {
		return
	}
	select {
	case l.batches <- batch:
	default:
		l.logger.Warnw("batch buffer full, dropping batch", "listener", l.kind.String())
	}
}

// handleKeyboard translates one native keyboard event. FlagsChanged
// events carry no up/down state, so it is inferred from the flags mask;
// two modifiers changing in the same native event are not detected.
func (l *darwinListener) handleKeyboard(evType int, event C.CGEventRef) {
	value := evcode.MacKeyValue(evType, uint64(C.cgEventFlags(event)))
	if value < 0 {
		// The keyboard mask covers exactly three event types. Anything
		// else means the tap contract changed underneath us.
		l.logger.Panicf("unhandled keyboard event type %d", evType)
	}

	keycode := int64(C.cgEventField(event, C.kCGKeyboardEventKeycode))
	code, ok := evcode.MacKeyCode(uint16(keycode))
	if !ok {
		code = 0
	}

	l.emitter.UpdateTimeval()
	l.emitter.EmulatePress(code, int32(keycode), value)
	l.emitter.SyncMarker()
	l.deliver()
}

// handleMouse translates one native mouse event. Every batch ends with
// the absolute cursor position and a sync marker; moves and drags emit
// only those, scrolls prepend the wheel records, buttons prepend scan and
// key records.
func (l *darwinListener) handleMouse(evType int, event C.CGEventRef) {
	l.emitter.UpdateTimeval()

	switch evType {
	case evcode.MacEventMouseMoved,
		evcode.MacEventLeftMouseDragged,
		evcode.MacEventRightMouseDragged,
		evcode.MacEventOtherMouseDragged:
		// Position alone.
	case evcode.MacEventScrollWheel:
		if dy := int32(C.cgEventField(event, C.kCGScrollWheelEventDeltaAxis1)); dy != 0 {
			l.emitter.EmulateWheel(dy, WheelY)
		}
		if dx := int32(C.cgEventField(event, C.kCGScrollWheelEventDeltaAxis2)); dx != 0 {
			l.emitter.EmulateWheel(dx, WheelX)
		}
	default:
		// Types 25 and 26 cover the middle, side and extra buttons and
		// carry the button identity only in the button-number field.
		button := int(C.cgEventField(event, C.kCGMouseEventButtonNumber))
		btn, ok := evcode.MacMouseButton(evType, button)
		if !ok {
			l.logger.Debugw("unmapped mouse button", "type", evType, "button", button)
			break
		}
		l.emitter.EmulatePress(btn.Code, btn.Scan, btn.Value)
	}

	l.emitter.EmulateAbs(int32(C.cgEventGetX(event)), int32(C.cgEventGetY(event)))
	l.emitter.SyncMarker()
	l.deliver()
}

//export goHandleTapEvent
func goHandleTapEvent(_ C.CGEventTapProxy, eventType C.CGEventType, event C.CGEventRef, userInfo unsafe.Pointer) C.CGEventRef {
	handle := cgo.Handle(uintptr(userInfo))
	l, ok := handle.Value().(*darwinListener)
	if !ok {
		return event
	}

	evType := int(eventType)
	if l.kind == Keyboard {
		l.handleKeyboard(evType, event)
	} else {
		l.handleMouse(evType, event)
	}
	return event
}

//go:build windows

package listener

import (
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"inputhub/internal/evcode"
)

// Hook ids and loop control messages.
const (
	whKeyboardLL = 13
	whMouseLL    = 14
	wmQuit       = 0x0012
)

// winWheelDivisor is the detent size hooks report per wheel click.
const winWheelDivisor = 120

var (
	user32   = syscall.NewLazyDLL("user32.dll")
	kernel32 = syscall.NewLazyDLL("kernel32.dll")

	setWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	unhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	callNextHookEx      = user32.NewProc("CallNextHookEx")
	getMessage          = user32.NewProc("GetMessageW")
	translateMessage    = user32.NewProc("TranslateMessage")
	dispatchMessage     = user32.NewProc("DispatchMessageW")
	postThreadMessage   = user32.NewProc("PostThreadMessageW")
	getCurrentThreadID  = kernel32.NewProc("GetCurrentThreadId")
)

type point struct {
	X, Y int32
}

type msg struct {
	Hwnd    syscall.Handle
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

// kbdllHookStruct mirrors KBDLLHOOKSTRUCT.
type kbdllHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

// msllHookStruct mirrors MSLLHOOKSTRUCT. The high word of MouseData
// carries the wheel delta or the extended button number.
type msllHookStruct struct {
	Pt          point
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type winListener struct {
	kind    Kind
	logger  *zap.SugaredLogger
	emitter *Emitter
	batches chan []byte

	mu       sync.Mutex
	running  bool
	hook     syscall.Handle
	threadID uint32
}

func newListener(kind Kind, logger *zap.SugaredLogger) (Listener, error) {
	return &winListener{
		kind:    kind,
		logger:  logger,
		emitter: NewEmitter(winWheelDivisor),
		batches: make(chan []byte, batchBuffer),
	}, nil
}

// Start installs the hook from a dedicated thread and waits until it is
// in place, so a returned nil means capture is live.
func (l *winListener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return errors.Errorf("%s listener already running", l.kind)
	}

	ready := make(chan error, 1)
	go l.messageLoop(ready)
	if err := <-ready; err != nil {
		return err
	}

	l.running = true
	return nil
}

func (l *winListener) Batches() <-chan []byte {
	return l.batches
}

// Stop removes the hook and unblocks the message loop.
func (l *winListener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return
	}
	l.running = false

	if l.hook != 0 {
		unhookWindowsHookEx.Call(uintptr(l.hook))
		l.hook = 0
	}
	if l.threadID != 0 {
		postThreadMessage.Call(uintptr(l.threadID), wmQuit, 0, 0)
	}
}

// messageLoop installs the hook and pumps messages until WM_QUIT. Low
// level hooks deliver callbacks on the thread that installed them, so the
// loop stays locked to one OS thread for its whole life.
func (l *winListener) messageLoop(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var proc uintptr
	var hookID uintptr
	if l.kind == Keyboard {
		proc = syscall.NewCallback(l.keyboardHookProc)
		hookID = whKeyboardLL
	} else {
		proc = syscall.NewCallback(l.mouseHookProc)
		hookID = whMouseLL
	}

	hook, _, err := setWindowsHookEx.Call(hookID, proc, 0, 0)
	if hook == 0 {
		ready <- errors.Wrapf(err, "failed to install %s hook", l.kind)
		return
	}

	tid, _, _ := getCurrentThreadID.Call()

	l.mu.Lock()
	l.hook = syscall.Handle(hook)
	l.threadID = uint32(tid)
	l.mu.Unlock()

	ready <- nil
	l.logger.Debugw("hook installed", "listener", l.kind.String())

	var m msg
	for {
		ret, _, _ := getMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(ret) <= 0 {
			break
		}
		translateMessage.Call(uintptr(unsafe.Pointer(&m)))
		dispatchMessage.Call(uintptr(unsafe.Pointer(&m)))
	}

	l.logger.Debugw("message loop exiting", "listener", l.kind.String())
	close(l.batches)
}

// deliver hands the flushed batch to the consumer, dropping it whole if
// the consumer has fallen batchBuffer batches behind.
func (l *winListener) deliver() {
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

// keyboardHookProc handles one low-level keyboard callback. The key
// record carries the virtual-key code as delivered; translation to the
// canonical code space happens at read time.
func (l *winListener) keyboardHookProc(nCode int32, wparam, lparam uintptr) uintptr {
	if nCode >= 0 {
		hs := (*kbdllHookStruct)(unsafe.Pointer(lparam))

		value, ok := evcode.WinKeyState(uint32(wparam))
		if !ok {
			// Only the four down/up messages are hookable. Anything else
			// means the hook contract changed underneath us.
			l.logger.Panicf("unhandled keyboard message 0x%04x", wparam)
		}

		l.emitter.UpdateTimeval()
		l.emitter.EmulatePress(uint16(hs.VkCode), int32(hs.ScanCode), value)
		l.emitter.SyncMarker()
		l.deliver()
	}

	ret, _, _ := callNextHookEx.Call(0, uintptr(nCode), wparam, lparam)
	return ret
}

// mouseHookProc handles one low-level mouse callback. Every batch ends
// with the absolute cursor position and a sync marker; moves emit only
// those, wheels prepend the scroll record, buttons prepend scan and key
// records.
func (l *winListener) mouseHookProc(nCode int32, wparam, lparam uintptr) uintptr {
	if nCode >= 0 {
		hs := (*msllHookStruct)(unsafe.Pointer(lparam))
		data := int32(int16(hs.MouseData >> 16))

		l.emitter.UpdateTimeval()

		message := uint32(wparam)
		switch message {
		case evcode.WinMsgMouseMove:
			// Position alone.
		case evcode.WinMsgMouseWheel:
			l.emitter.EmulateWheel(data, WheelY)
		case evcode.WinMsgMouseHWheel:
			l.emitter.EmulateWheel(data, WheelX)
		default:
			// The second extended button shares the message ids of the
			// first and is distinguished by the data word.
			if (message == evcode.WinMsgXButtonDown || message == evcode.WinMsgXButtonUp) && data == 2 {
				message = evcode.WinXButton2(message)
			}
			btn, ok := evcode.WinMouseButton(message)
			if !ok {
				l.logger.Panicf("unhandled mouse message 0x%04x", message)
			}
			l.emitter.EmulatePress(btn.Code, btn.Scan, btn.Value)
		}

		l.emitter.EmulateAbs(hs.Pt.X, hs.Pt.Y)
		l.emitter.SyncMarker()
		l.deliver()
	}

	ret, _, _ := callNextHookEx.Call(0, uintptr(nCode), wparam, lparam)
	return ret
}

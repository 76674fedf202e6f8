// Package listener captures native input on platforms without readable
// input character devices and repackages it as canonical event batches.
// Each listener pins a native message loop to one OS thread and delivers
// every native callback's records as a single encoded batch.
package listener

import "go.uber.org/zap"

// Kind selects which native input class a listener captures.
type Kind int

const (
	Keyboard Kind = iota
	Mouse
)

func (k Kind) String() string {
	if k == Keyboard {
		return "keyboard"
	}
	return "mouse"
}

// batchBuffer bounds the in-flight encoded batches per listener. A
// consumer that falls this far behind loses whole batches, never partial
// ones.
const batchBuffer = 256

// A Listener captures one class of native input in a background message
// loop.
type Listener interface {
	// Start installs the native capture and begins delivering batches.
	Start() error

	// Batches returns the channel of encoded batches. The channel is
	// closed after Stop once the message loop unwinds.
	Batches() <-chan []byte

	// Stop tears down the native capture.
	Stop()
}

// New returns the platform listener for kind.
func New(kind Kind, logger *zap.SugaredLogger) (Listener, error) {
	return newListener(kind, logger)
}

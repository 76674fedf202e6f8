package inputhub

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"inputhub/internal/evcode"
	"inputhub/internal/eventio"
	"inputhub/internal/listener"
)

// DeviceKind classifies a device once at discovery time.
type DeviceKind int

const (
	KindKeyboard DeviceKind = iota
	KindMouse
	KindGamepad
	KindOther
)

func (k DeviceKind) String() string {
	switch k {
	case KindKeyboard:
		return "keyboard"
	case KindMouse:
		return "mouse"
	case KindGamepad:
		return "gamepad"
	default:
		return "other"
	}
}

// A Device is an infinite pull-based sequence of canonical events from
// one physical input source.
type Device interface {
	// Path is the device's stable identity: on Linux the by-id or
	// by-path symlink it was discovered under, elsewhere a synthesized
	// path in the same shape.
	Path() string

	// Name is the human readable device name.
	Name() string

	// Kind is the classification decided at discovery time.
	Kind() DeviceKind

	// Read blocks until the next event is available. The underlying
	// native resource is opened on the first call and lives for the
	// process lifetime. Devices never legitimately reach end of stream
	// while plugged in, so any error is an anomaly for the caller.
	Read() (Event, error)
}

// recordSource supplies batches of canonical records from one native
// byte stream. Open runs lazily on the first read.
type recordSource interface {
	Open() error
	ReadBatch() ([]eventio.Record, error)
	Close() error
}

// eventDevice is the shared device core: a lazily opened record source
// plus the queue of records decoded from the last batch.
type eventDevice struct {
	path   string
	kind   DeviceKind
	logger *zap.SugaredLogger

	nameOnce    sync.Once
	name        string
	resolveName func() string

	mu      sync.Mutex
	opened  bool
	src     recordSource
	pending []eventio.Record

	// self points at the concrete wrapper so events reference the type
	// the consumer received from discovery.
	self Device
}

func (d *eventDevice) Path() string     { return d.path }
func (d *eventDevice) Kind() DeviceKind { return d.kind }

func (d *eventDevice) Name() string {
	d.nameOnce.Do(func() {
		if d.name == "" && d.resolveName != nil {
			d.name = d.resolveName()
		}
		if d.name == "" {
			d.name = "Unknown Device"
		}
	})
	return d.name
}

// Read returns the next event, opening the native resource on first use.
// A batch from the source may hold several records; they are handed out
// one at a time in order.
func (d *eventDevice) Read() (Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.opened {
		if err := d.src.Open(); err != nil {
			return Event{}, err
		}
		d.opened = true
	}

	for len(d.pending) == 0 {
		batch, err := d.src.ReadBatch()
		if err != nil {
			return Event{}, err
		}
		d.pending = batch
	}

	rec := d.pending[0]
	d.pending = d.pending[1:]
	return d.makeEvent(rec)
}

// makeEvent resolves a raw record into a typed event. A record whose
// category or code has no symbolic name is a hard error, never a
// silently dropped event.
func (d *eventDevice) makeEvent(rec eventio.Record) (Event, error) {
	typeName, err := evcode.TypeName(rec.Type)
	if err != nil {
		return Event{}, errors.Wrapf(err, "record from %s", d.path)
	}
	codeName, err := eventString(typeName, rec.Code)
	if err != nil {
		return Event{}, errors.Wrapf(err, "record from %s", d.path)
	}
	return Event{
		Sec:     rec.Sec,
		Usec:    rec.Usec,
		Type:    typeName,
		Code:    codeName,
		Value:   rec.Value,
		RawType: rec.Type,
		RawCode: rec.Code,
		Device:  d.self,
	}, nil
}

// Keyboard is a keyboard-class device.
type Keyboard struct {
	eventDevice
}

// Mouse is a pointing device.
type Mouse struct {
	eventDevice
}

// OtherDevice is an input source outside the three main classes.
type OtherDevice struct {
	eventDevice
}

// GamePad is a game controller. Beyond the event stream it exposes
// rumble control through SetVibration.
type GamePad struct {
	eventDevice

	// slot is the controller's native poll slot where polling applies.
	slot int

	gamepadState
}

// wrapDevice builds the concrete device type for a kind around a shared
// core and fixes up the event back-reference.
func wrapDevice(kind DeviceKind, core eventDevice) Device {
	switch kind {
	case KindKeyboard:
		d := &Keyboard{eventDevice: core}
		d.self = d
		return d
	case KindMouse:
		d := &Mouse{eventDevice: core}
		d.self = d
		return d
	case KindGamepad:
		d := &GamePad{eventDevice: core}
		d.self = d
		return d
	default:
		d := &OtherDevice{eventDevice: core}
		d.self = d
		return d
	}
}

// listenerSource bridges a background hook or tap listener. One batch
// arrives per native notification, already whole, so a read never holds
// partial records across batches.
type listenerSource struct {
	kind   listener.Kind
	logger *zap.SugaredLogger
	l      listener.Listener
}

func (s *listenerSource) Open() error {
	l, err := listener.New(s.kind, s.logger)
	if err != nil {
		return err
	}
	if err := l.Start(); err != nil {
		return err
	}
	s.l = l
	return nil
}

func (s *listenerSource) ReadBatch() ([]eventio.Record, error) {
	batch, ok := <-s.l.Batches()
	if !ok {
		return nil, errors.Errorf("%s listener stopped", s.kind)
	}
	records, err := eventio.Records(batch)
	if err != nil {
		return nil, errors.Wrapf(err, "bad batch from %s listener", s.kind)
	}
	return records, nil
}

func (s *listenerSource) Close() error {
	if s.l != nil {
		s.l.Stop()
	}
	return nil
}

// motorSpeed scales a [0, 1] vibration ratio to the native 16-bit motor
// speed range, clamping out-of-range input.
func motorSpeed(ratio float64) uint16 {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return uint16(ratio * 0xffff)
}

package listener

import (
	"inputhub/internal/evcode"
	"inputhub/internal/eventio"
)

// WheelAxis selects which scroll axis a wheel event reports.
type WheelAxis int

const (
	WheelY WheelAxis = iota // the common vertical wheel
	WheelX                  // horizontal scroll
	WheelZ
)

// Codes used by the emulation helpers.
const (
	codeScan   = 0x04 // MSC_SCAN
	codeWheelX = 0x06 // REL_HWHEEL
	codeWheelZ = 0x07 // REL_DIAL
	codeWheelY = 0x08 // REL_WHEEL
	codeAbsX   = 0x00 // ABS_X
	codeAbsY   = 0x01 // ABS_Y
	codeRepeat = 0x02 // REP_CNT
)

// Emitter builds the encoded record batch for one native callback. The
// timeval is captured once per callback so every record in a batch
// carries the same timestamp.
type Emitter struct {
	sec  int64
	usec int64

	// wheelDivisor scales native wheel deltas. Windows hooks deliver
	// multiples of 120 per detent; other platforms deliver click counts.
	wheelDivisor int32

	batch []eventio.Record
}

// NewEmitter returns an emitter that scales wheel deltas by wheelDivisor.
// A divisor below one means no scaling.
func NewEmitter(wheelDivisor int32) *Emitter {
	if wheelDivisor < 1 {
		wheelDivisor = 1
	}
	return &Emitter{wheelDivisor: wheelDivisor}
}

// UpdateTimeval stamps the batch under construction with the current
// time.
func (e *Emitter) UpdateTimeval() {
	e.sec, e.usec = eventio.Now()
}

// SetTimeval stamps the batch under construction with a caller-supplied
// time.
func (e *Emitter) SetTimeval(sec, usec int64) {
	e.sec, e.usec = sec, usec
}

// MakeEvent builds one record in the named category. Category resolution
// is strict: a name outside the canonical set is an error, not a guess.
func (e *Emitter) MakeEvent(category string, code uint16, value int32) (eventio.Record, error) {
	raw, err := evcode.TypeCode(category)
	if err != nil {
		return eventio.Record{}, err
	}
	return e.record(raw, code, value), nil
}

func (e *Emitter) record(rawType, code uint16, value int32) eventio.Record {
	return eventio.Record{Sec: e.sec, Usec: e.usec, Type: rawType, Code: code, Value: value}
}

func (e *Emitter) append(rawType, code uint16, value int32) {
	e.batch = append(e.batch, e.record(rawType, code, value))
}

// EmulatePress appends the scan record then the key record for one key or
// button transition. code is the platform key code as delivered, scan the
// platform scan code, value 1 for press and 0 for release.
func (e *Emitter) EmulatePress(code uint16, scan, value int32) {
	e.append(eventio.TypeMisc, codeScan, scan)
	e.append(eventio.TypeKey, code, value)
}

// EmulateWheel appends a scroll record on the given axis, scaling the
// delta by the emitter's divisor with floor semantics so a partial detent
// in either direction still registers.
func (e *Emitter) EmulateWheel(delta int32, axis WheelAxis) {
	var code uint16
	switch axis {
	case WheelX:
		code = codeWheelX
	case WheelZ:
		code = codeWheelZ
	default:
		code = codeWheelY
	}
	if e.wheelDivisor > 1 {
		delta = floorDiv(delta, e.wheelDivisor)
	}
	e.append(eventio.TypeRelative, code, delta)
}

// EmulateRel appends one relative movement record.
func (e *Emitter) EmulateRel(code uint16, value int32) {
	e.append(eventio.TypeRelative, code, value)
}

// EmulateAbs appends the absolute cursor position as an x record then a y
// record.
func (e *Emitter) EmulateAbs(x, y int32) {
	e.append(eventio.TypeAbsolute, codeAbsX, x)
	e.append(eventio.TypeAbsolute, codeAbsY, y)
}

// EmulateRepeat appends a key repeat record. value carries the repeat
// count the platform reported.
func (e *Emitter) EmulateRepeat(value int32) {
	e.append(eventio.TypeRepeat, codeRepeat, value)
}

// SyncMarker appends the record that terminates a batch.
func (e *Emitter) SyncMarker() {
	e.append(eventio.TypeSync, 0, 0)
}

// Len returns the number of records in the batch under construction.
func (e *Emitter) Len() int {
	return len(e.batch)
}

// Flush encodes the batch, resets the emitter for the next callback, and
// returns the encoded bytes. A batch with no records flushes to nil.
func (e *Emitter) Flush() []byte {
	if len(e.batch) == 0 {
		return nil
	}
	out := eventio.Marshal(e.batch)
	e.batch = e.batch[:0]
	return out
}

// floorDiv divides rounding toward negative infinity, so -130 detent
// units divided by 120 is -2, not -1.
func floorDiv(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

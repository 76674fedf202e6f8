// Package xinput models XInput gamepad state and turns consecutive state
// samples into canonical event records. The native API is poll-based, so
// discrete events exist only as the difference between two samples.
package xinput

import (
	"github.com/pkg/errors"

	"inputhub/internal/evcode"
	"inputhub/internal/eventio"
)

// Slots is the number of controller slots the native API exposes.
const Slots = 4

// ErrNotConnected reports a slot with no controller attached.
var ErrNotConnected = errors.New("controller not connected")

// Sample is one polled controller state: a packet sequence number, the
// 16-bit button bitmask, two trigger values and four thumbstick axes.
type Sample struct {
	Packet       uint32
	Buttons      uint16
	LeftTrigger  uint8
	RightTrigger uint8
	ThumbLX      int16
	ThumbLY      int16
	ThumbRX      int16
	ThumbRY      int16
}

// axisField pairs an analog sample field with its translation-table name.
type axisField struct {
	name  string
	value func(Sample) int32
}

// axisFields lists the six analog fields in emission order.
var axisFields = []axisField{
	{"left_trigger", func(s Sample) int32 { return int32(s.LeftTrigger) }},
	{"right_trigger", func(s Sample) int32 { return int32(s.RightTrigger) }},
	{"l_thumb_x", func(s Sample) int32 { return int32(s.ThumbLX) }},
	{"l_thumb_y", func(s Sample) int32 { return int32(s.ThumbLY) }},
	{"r_thumb_x", func(s Sample) int32 { return int32(s.ThumbRX) }},
	{"r_thumb_y", func(s Sample) int32 { return int32(s.ThumbRY) }},
}

// Diff compares two consecutive samples and synthesizes the records that
// an event-based driver would have emitted between them, all stamped with
// the given time. Identical samples produce no records; any difference
// produces the per-field records followed by one sync report.
//
// Direction-pad bits emit Absolute hat records with a signed direction;
// the remaining buttons emit Key records; analog values are passed
// through raw, since deadzone filtering is a consumer concern.
func Diff(prev, cur Sample, sec, usec int64) []eventio.Record {
	var out []eventio.Record

	changed := prev.Buttons ^ cur.Buttons
	for bit := 1; bit <= 16; bit++ {
		mask := uint16(1) << (bit - 1)
		if changed&mask == 0 {
			continue
		}
		code, ok := evcode.XpadButton(bit)
		if !ok {
			continue
		}
		pressed := cur.Buttons&mask != 0
		rec := eventio.Record{Sec: sec, Usec: usec, Code: code}
		if negative, isHat := evcode.XpadHatBit(bit); isHat {
			rec.Type = eventio.TypeAbsolute
			if pressed {
				if negative {
					rec.Value = -1
				} else {
					rec.Value = 1
				}
			}
		} else {
			rec.Type = eventio.TypeKey
			if pressed {
				rec.Value = 1
			}
		}
		out = append(out, rec)
	}

	for _, f := range axisFields {
		old, now := f.value(prev), f.value(cur)
		if old == now {
			continue
		}
		code, ok := evcode.XpadAxis(f.name)
		if !ok {
			continue
		}
		out = append(out, eventio.Record{
			Sec: sec, Usec: usec,
			Type: eventio.TypeAbsolute, Code: code, Value: now,
		})
	}

	if len(out) == 0 {
		return nil
	}
	return append(out, eventio.Record{Sec: sec, Usec: usec, Type: eventio.TypeSync})
}

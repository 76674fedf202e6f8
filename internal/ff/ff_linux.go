//go:build linux

// Package ff uploads rumble force-feedback effects to Linux input
// character devices and starts their playback.
package ff

import (
	"encoding/binary"
	"os"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"inputhub/internal/eventio"
)

// ffRumble is the FF_RUMBLE effect type from the kernel's input space.
const ffRumble = 0x50

// Ioctl request numbers for the 64-bit ff_effect layout.
const (
	eviocsFF  = 0x402c4580 // EVIOCSFF, upload effect
	eviocrmFF = 0x40044581 // EVIOCRMFF, remove effect
)

// effectSize is the size of struct ff_effect on 64-bit kernels.
const effectSize = 44

// Rumble is a two-motor vibration effect. Strong drives the heavy
// low-frequency motor, Weak the light high-frequency one, both in the
// native 16-bit magnitude range.
type Rumble struct {
	Strong uint16
	Weak   uint16
}

// Upload sends a rumble effect to the device and returns the kernel's
// effect id. Passing the id of a previous upload replaces that effect in
// place; passing -1 allocates a new slot.
func Upload(f *os.File, id int16, r Rumble) (int16, error) {
	// struct ff_effect: type, id, direction, trigger{button, interval},
	// replay{length, delay}, then the union at offset 16 holding
	// ff_rumble_effect{strong_magnitude, weak_magnitude}.
	var effect [effectSize]byte
	binary.LittleEndian.PutUint16(effect[0:2], ffRumble)
	binary.LittleEndian.PutUint16(effect[2:4], uint16(id))
	binary.LittleEndian.PutUint16(effect[16:18], r.Strong)
	binary.LittleEndian.PutUint16(effect[18:20], r.Weak)

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), eviocsFF, uintptr(unsafe.Pointer(&effect[0])))
	if errno != 0 {
		return -1, errors.Wrapf(errno, "failed to upload rumble effect to %s", f.Name())
	}
	// The kernel writes the allocated id back into the struct.
	return int16(binary.LittleEndian.Uint16(effect[2:4])), nil
}

// Play writes the force-feedback record that starts playback of an
// uploaded effect.
func Play(f *os.File, id int16, sec, usec int64) error {
	rec := eventio.Record{
		Sec:   sec,
		Usec:  usec,
		Type:  eventio.TypeForceFeedback,
		Code:  uint16(id),
		Value: 1,
	}
	if _, err := f.Write(eventio.Append(nil, rec)); err != nil {
		return errors.Wrapf(err, "failed to start effect %d on %s", id, f.Name())
	}
	return nil
}

// Remove frees an uploaded effect slot.
func Remove(f *os.File, id int16) error {
	arg := int32(id)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), eviocrmFF, uintptr(unsafe.Pointer(&arg)))
	if errno != 0 {
		return errors.Wrapf(errno, "failed to remove effect %d from %s", id, f.Name())
	}
	return nil
}

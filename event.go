package inputhub

// Event is one canonical input occurrence. Type and Code are the
// symbolic names resolved through the code tables; every event handed to
// a consumer resolved successfully, so both are always non-empty.
type Event struct {
	// Sec and Usec split the timestamp into whole seconds and
	// microseconds since the epoch. Within one device's stream
	// timestamps never decrease.
	Sec  int64
	Usec int64

	// Type is the event category, such as Key, Relative or Sync.
	Type string

	// Code names the specific key, button or axis within the category.
	Code string

	// Value is the category-dependent payload: 0/1 for buttons, a raw
	// magnitude for axes, a signed delta for wheels.
	Value int32

	// RawType and RawCode are the integers the symbols resolved from.
	RawType uint16
	RawCode uint16

	// Device is the source this event was read from. Events do not own
	// the device's lifetime.
	Device Device
}

// Timestamp returns the event time as fractional seconds since the
// epoch.
func (e Event) Timestamp() float64 {
	return float64(e.Sec) + float64(e.Usec)/1e6
}

package eventio

import (
	"math"
	"time"
)

// Split breaks a float seconds-since-epoch timestamp into whole seconds
// and microseconds. Both halves floor, so the sub-microsecond remainder
// is dropped rather than rounded up.
func Split(seconds float64) (sec, usec int64) {
	frac, whole := math.Modf(seconds)
	sec = int64(math.Floor(whole))
	usec = int64(math.Floor(frac * 1000000))
	return sec, usec
}

// Now returns the current time split for a record timestamp.
func Now() (sec, usec int64) {
	return Split(float64(time.Now().UnixNano()) / 1e9)
}

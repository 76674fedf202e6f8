// Package stream publishes a machine's canonical input events to remote
// consumers over WebSocket, with an optional binary UDP fast path for
// latency-sensitive followers.
package stream

// MessageType discriminates WebSocket messages.
type MessageType string

const (
	// TypeAuth is sent by a client right after connecting.
	TypeAuth MessageType = "auth"

	// TypeEvent carries one input event.
	TypeEvent MessageType = "event"

	// TypeDevices carries the device inventory snapshot.
	TypeDevices MessageType = "devices"

	// TypePing is an application-level heartbeat.
	TypePing MessageType = "ping"
)

// Message is the generic container for all WebSocket messages.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// AuthPayload is the payload for TypeAuth.
type AuthPayload struct {
	Token         string `json:"token"`
	ClientName    string `json:"client_name"`
	ClientVersion string `json:"client_version"`
}

// EventPayload is the payload for TypeEvent: one resolved input event
// plus the identity of the device it came from.
type EventPayload struct {
	Device  string `json:"device"`
	Kind    string `json:"kind"`
	Sec     int64  `json:"sec"`
	Usec    int64  `json:"usec"`
	Type    string `json:"type"`
	Code    string `json:"code"`
	Value   int32  `json:"value"`
	RawType uint16 `json:"raw_type"`
	RawCode uint16 `json:"raw_code"`
}

// DeviceInfo is one device in a TypeDevices snapshot.
type DeviceInfo struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// DevicesPayload is the payload for TypeDevices.
type DevicesPayload struct {
	Devices []DeviceInfo `json:"devices"`
}

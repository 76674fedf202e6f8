package stream

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"inputhub/internal/eventio"
)

// UDP packet types.
const (
	packetEvent     uint8 = 0x01
	packetRegister  uint8 = 0x10
	packetHeartbeat uint8 = 0x11
	packetAck       uint8 = 0x12 // publisher -> follower: UDP path is open
)

// Header: [type(1)] [seq(4)] = 5 bytes. An event packet carries one
// encoded record after the header; control packets are header-only.
const (
	udpHeaderSize     = 5
	udpEventSize      = udpHeaderSize + eventio.RecordSize
	maxUDPPacket      = 64
	dedupWindow       = 512
	eventRedundancy   = 2
	controlRedundancy = 1
)

// udpPacket is one decoded UDP datagram.
type udpPacket struct {
	Type   uint8
	Seq    uint32
	Record eventio.Record
}

// encodeUDPPacket serializes a packet to wire format.
func encodeUDPPacket(pkt *udpPacket) []byte {
	size := udpHeaderSize
	if pkt.Type == packetEvent {
		size = udpEventSize
	}
	buf := make([]byte, udpHeaderSize, size)
	buf[0] = pkt.Type
	binary.BigEndian.PutUint32(buf[1:5], pkt.Seq)
	if pkt.Type == packetEvent {
		buf = eventio.Append(buf, pkt.Record)
	}
	return buf
}

// decodeUDPPacket deserializes wire bytes into a packet.
func decodeUDPPacket(data []byte) (*udpPacket, error) {
	if len(data) < udpHeaderSize {
		return nil, errors.New("udp: packet too short")
	}
	pkt := &udpPacket{
		Type: data[0],
		Seq:  binary.BigEndian.Uint32(data[1:5]),
	}
	switch pkt.Type {
	case packetEvent:
		if len(data) < udpEventSize {
			return nil, errors.New("udp: event payload too short")
		}
		rec, err := eventio.Decode(data[udpHeaderSize:udpEventSize])
		if err != nil {
			return nil, errors.Wrap(err, "udp")
		}
		pkt.Record = rec
	case packetRegister, packetHeartbeat, packetAck:
		// header only
	default:
		return nil, errors.Errorf("udp: unknown packet type 0x%02x", pkt.Type)
	}
	return pkt, nil
}

// seqDedup tracks recently seen sequence numbers so redundant resends of
// the same event are delivered once. Fixed-size ring, O(1) lookup.
type seqDedup struct {
	ring [dedupWindow]uint32
	pos  int
	seen map[uint32]struct{}
}

func newSeqDedup() seqDedup {
	return seqDedup{seen: make(map[uint32]struct{}, dedupWindow)}
}

func (d *seqDedup) isDuplicate(seq uint32) bool {
	if _, ok := d.seen[seq]; ok {
		return true
	}
	old := d.ring[d.pos]
	if old != 0 {
		delete(d.seen, old)
	}
	d.ring[d.pos] = seq
	d.seen[seq] = struct{}{}
	d.pos = (d.pos + 1) % len(d.ring)
	return false
}

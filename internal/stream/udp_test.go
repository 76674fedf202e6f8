package stream

import (
	"testing"

	"inputhub/internal/eventio"
)

// TestUDPEventRoundTrip checks that an event packet survives the wire
// encoding.
func TestUDPEventRoundTrip(t *testing.T) {
	in := &udpPacket{
		Type: packetEvent,
		Seq:  7,
		Record: eventio.Record{
			Sec: 1588502403, Usec: 457323, Type: 0x01, Code: 0x1e, Value: 1,
		},
	}
	data := encodeUDPPacket(in)
	if len(data) != udpEventSize {
		t.Fatalf("encoded length = %d, want %d", len(data), udpEventSize)
	}

	out, err := decodeUDPPacket(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Type != in.Type || out.Seq != in.Seq || out.Record != in.Record {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

// TestUDPControlPackets checks that control packets are header-only.
func TestUDPControlPackets(t *testing.T) {
	for _, pktType := range []uint8{packetRegister, packetHeartbeat, packetAck} {
		data := encodeUDPPacket(&udpPacket{Type: pktType, Seq: 3})
		if len(data) != udpHeaderSize {
			t.Errorf("type 0x%02x encoded length = %d, want %d", pktType, len(data), udpHeaderSize)
		}
		out, err := decodeUDPPacket(data)
		if err != nil {
			t.Errorf("type 0x%02x decode: %v", pktType, err)
			continue
		}
		if out.Type != pktType || out.Seq != 3 {
			t.Errorf("type 0x%02x round trip = %+v", pktType, out)
		}
	}
}

// TestUDPDecodeErrors checks the malformed packet cases.
func TestUDPDecodeErrors(t *testing.T) {
	cases := [][]byte{
		nil,
		{0x01},
		{0x01, 0, 0, 0, 1}, // event with no record
		{0x7f, 0, 0, 0, 1}, // unknown type
		make([]byte, udpEventSize-1),
	}
	for i, data := range cases {
		if _, err := decodeUDPPacket(data); err == nil {
			t.Errorf("case %d: decode succeeded for malformed packet", i)
		}
	}
}

// TestSeqDedup checks duplicate suppression and ring eviction.
func TestSeqDedup(t *testing.T) {
	d := newSeqDedup()
	if d.isDuplicate(1) {
		t.Error("first sighting of seq 1 reported duplicate")
	}
	if !d.isDuplicate(1) {
		t.Error("second sighting of seq 1 not reported duplicate")
	}

	// Push the first entry out of the window.
	for seq := uint32(2); seq < dedupWindow+2; seq++ {
		d.isDuplicate(seq)
	}
	if d.isDuplicate(1) {
		t.Error("evicted seq 1 still reported duplicate")
	}
}

package stream

import (
	"testing"
	"time"

	"inputhub/internal/eventio"
	"inputhub/internal/logging"
)

// TestUDPRelayDelivers checks the full relay path over loopback: the
// receiver probes and registers, the sender relays a record, and the
// receiver's callback fires with that record despite the redundant
// resends.
func TestUDPRelayDelivers(t *testing.T) {
	logger := logging.NewTestLogger(t)

	sender, err := NewUDPSender("127.0.0.1:0", nil, logger)
	if err != nil {
		t.Fatalf("NewUDPSender: %v", err)
	}
	if err := sender.Start(); err != nil {
		t.Fatalf("sender start: %v", err)
	}
	defer sender.Stop()

	receiver := NewUDPReceiver(sender.conn.LocalAddr().String(), logger)
	if !receiver.Probe() {
		t.Fatal("probe got no ack from loopback sender")
	}

	got := make(chan eventio.Record, 16)
	receiver.OnRecord = func(rec eventio.Record) { got <- rec }
	if err := receiver.Start(); err != nil {
		t.Fatalf("receiver start: %v", err)
	}
	defer receiver.Stop()

	want := eventio.Record{Sec: 100, Usec: 1, Type: 0x01, Code: 0x1e, Value: 1}

	// Registration is async; resend until the callback fires.
	deadline := time.After(5 * time.Second)
	for {
		sender.SendRecord(want)
		select {
		case rec := <-got:
			if rec != want {
				t.Fatalf("relayed record = %+v, want %+v", rec, want)
			}
			return
		case <-time.After(50 * time.Millisecond):
		case <-deadline:
			t.Fatal("callback never fired")
		}
	}
}

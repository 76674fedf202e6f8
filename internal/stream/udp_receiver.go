package stream

import (
	"net"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"inputhub/internal/eventio"
)

// UDPReceiver is the follower-side UDP listener. It registers with a
// publisher, keeps the registration alive with heartbeats, and hands
// each received event record to OnRecord exactly once.
type UDPReceiver struct {
	logger   *zap.SugaredLogger
	hostAddr string
	conn     *net.UDPConn
	done     chan struct{}

	// OnRecord is called for each event record, duplicates removed.
	OnRecord func(rec eventio.Record)

	dedup seqDedup
}

// NewUDPReceiver creates a receiver for the publisher at hostAddr
// ("ip:port", matching the publisher's stream address).
func NewUDPReceiver(hostAddr string, logger *zap.SugaredLogger) *UDPReceiver {
	return &UDPReceiver{
		logger:   logger,
		hostAddr: hostAddr,
		done:     make(chan struct{}),
		dedup:    newSeqDedup(),
	}
}

// Probe checks whether a UDP path to the publisher is open by sending
// register packets and waiting briefly for an ack.
func (r *UDPReceiver) Probe() bool {
	hostUDP, err := net.ResolveUDPAddr("udp", r.hostAddr)
	if err != nil {
		r.logger.Warnw("udp probe: cannot resolve publisher", "addr", r.hostAddr, "error", err)
		return false
	}
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: 0})
	if err != nil {
		r.logger.Warnw("udp probe: cannot bind", "error", err)
		return false
	}
	defer conn.Close()

	buf := make([]byte, maxUDPPacket)
	for attempt := 0; attempt < 3; attempt++ {
		conn.WriteToUDP(encodeUDPPacket(&udpPacket{Type: packetRegister}), hostUDP)

		conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			continue
		}
		resp, err := decodeUDPPacket(buf[:n])
		if err != nil {
			continue
		}
		if resp.Type == packetAck {
			r.logger.Infow("udp path open", "attempt", attempt+1)
			return true
		}
	}
	r.logger.Infow("udp path blocked, no ack from publisher")
	return false
}

// Start opens a socket, registers with the publisher, and begins
// receiving. Call Probe first to verify connectivity.
func (r *UDPReceiver) Start() error {
	hostUDP, err := net.ResolveUDPAddr("udp", r.hostAddr)
	if err != nil {
		return errors.Wrapf(err, "udp publisher %q", r.hostAddr)
	}
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: 0})
	if err != nil {
		return errors.Wrap(err, "udp bind")
	}
	r.conn = conn
	conn.SetReadBuffer(1 << 20)

	r.sendControl(packetRegister, hostUDP)
	go r.heartbeatLoop(hostUDP)
	go r.readLoop()
	return nil
}

func (r *UDPReceiver) heartbeatLoop(hostAddr *net.UDPAddr) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.sendControl(packetHeartbeat, hostAddr)
		case <-r.done:
			return
		}
	}
}

func (r *UDPReceiver) sendControl(pktType uint8, addr *net.UDPAddr) {
	r.conn.WriteToUDP(encodeUDPPacket(&udpPacket{Type: pktType}), addr)
}

func (r *UDPReceiver) readLoop() {
	buf := make([]byte, maxUDPPacket)
	for {
		r.conn.SetReadDeadline(time.Time{})
		n, _, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-r.done:
				return
			default:
				continue
			}
		}
		pkt, err := decodeUDPPacket(buf[:n])
		if err != nil {
			continue
		}
		if pkt.Type != packetEvent {
			continue
		}
		if r.dedup.isDuplicate(pkt.Seq) {
			continue
		}
		if r.OnRecord != nil {
			r.OnRecord(pkt.Record)
		}
	}
}

// Stop shuts the receiver down.
func (r *UDPReceiver) Stop() {
	close(r.done)
	if r.conn != nil {
		r.conn.Close()
	}
}

package stream

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"inputhub/internal/eventio"
)

// UDPSender is the publisher-side UDP relay. It binds next to the HTTP
// listener and resends each event as a small binary datagram to every
// registered follower and every statically configured peer.
type UDPSender struct {
	logger  *zap.SugaredLogger
	conn    *net.UDPConn
	addr    string
	peers   []*net.UDPAddr
	peersMu sync.RWMutex
	agents  map[string]*udpAgent
	mu      sync.RWMutex
	seq     uint32
	done    chan struct{}
}

type udpAgent struct {
	addr     *net.UDPAddr
	lastSeen time.Time
}

// NewUDPSender creates a sender that will listen on addr. staticPeers
// are "host:port" strings that receive events without registering.
func NewUDPSender(addr string, staticPeers []string, logger *zap.SugaredLogger) (*UDPSender, error) {
	s := &UDPSender{
		logger: logger,
		addr:   addr,
		agents: make(map[string]*udpAgent),
		done:   make(chan struct{}),
	}
	for _, peer := range staticPeers {
		resolved, err := net.ResolveUDPAddr("udp", peer)
		if err != nil {
			return nil, errors.Wrapf(err, "udp peer %q", peer)
		}
		s.peers = append(s.peers, resolved)
	}
	return s, nil
}

// Start binds the UDP socket and begins accepting registrations.
func (s *UDPSender) Start() error {
	udpAddr, err := net.ResolveUDPAddr("udp", s.addr)
	if err != nil {
		return errors.Wrapf(err, "udp listen addr %q", s.addr)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return errors.Wrap(err, "udp listen")
	}
	s.conn = conn

	// 1 MB write buffer for burst writes
	conn.SetWriteBuffer(1 << 20)
	conn.SetReadBuffer(1 << 16)

	s.logger.Infow("udp relay listening", "addr", conn.LocalAddr().String())

	go s.readLoop()
	go s.cleanupLoop()
	return nil
}

// readLoop accepts register and heartbeat packets from followers.
func (s *UDPSender) readLoop() {
	buf := make([]byte, maxUDPPacket)
	for {
		n, remoteAddr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}
		pkt, err := decodeUDPPacket(buf[:n])
		if err != nil {
			continue
		}

		switch pkt.Type {
		case packetRegister:
			s.track(remoteAddr)
			ack := encodeUDPPacket(&udpPacket{Type: packetAck})
			s.conn.WriteToUDP(ack, remoteAddr)
		case packetHeartbeat:
			s.track(remoteAddr)
		}
	}
}

func (s *UDPSender) track(addr *net.UDPAddr) {
	key := addr.String()
	s.mu.Lock()
	if _, exists := s.agents[key]; !exists {
		s.logger.Infow("udp follower registered", "addr", key)
	}
	s.agents[key] = &udpAgent{addr: addr, lastSeen: time.Now()}
	s.mu.Unlock()
}

// cleanupLoop drops followers whose heartbeats stopped.
func (s *UDPSender) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			for key, agent := range s.agents {
				if time.Since(agent.lastSeen) > 30*time.Second {
					s.logger.Infow("dropping stale udp follower", "addr", key)
					delete(s.agents, key)
				}
			}
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// SendRecord relays one event record to every follower and static peer.
// Events are sent more than once; UDP has no delivery guarantee and the
// receiver deduplicates by sequence number.
func (s *UDPSender) SendRecord(rec eventio.Record) {
	seq := atomic.AddUint32(&s.seq, 1)
	data := encodeUDPPacket(&udpPacket{Type: packetEvent, Seq: seq, Record: rec})
	s.broadcast(data, eventRedundancy)
}

func (s *UDPSender) broadcast(data []byte, redundancy int) {
	s.mu.RLock()
	for _, agent := range s.agents {
		for i := 0; i < redundancy; i++ {
			s.conn.WriteToUDP(data, agent.addr)
		}
	}
	s.mu.RUnlock()

	s.peersMu.RLock()
	for _, peer := range s.peers {
		for i := 0; i < redundancy; i++ {
			s.conn.WriteToUDP(data, peer)
		}
	}
	s.peersMu.RUnlock()
}

// HasFollowers reports whether anyone is listening.
func (s *UDPSender) HasFollowers() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.agents) > 0 {
		return true
	}
	s.peersMu.RLock()
	defer s.peersMu.RUnlock()
	return len(s.peers) > 0
}

// Stop shuts the sender down.
func (s *UDPSender) Stop() {
	close(s.done)
	if s.conn != nil {
		s.conn.Close()
	}
}

package stream

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"inputhub"
	"inputhub/internal/eventio"
)

// Config holds the stream service settings.
type Config struct {
	// ListenAddr is the "host:port" the HTTP listener binds to.
	ListenAddr string

	// AuthToken, when set, is required as a bearer token on every
	// endpoint except the health check.
	AuthToken string

	// UDPEnabled turns on the binary UDP relay next to the WebSocket
	// stream.
	UDPEnabled bool

	// UDPPeers are "host:port" targets that receive UDP events without
	// registering first.
	UDPPeers []string
}

// Server publishes the machine's input events. Every discovered device
// gets a reader goroutine; events fan out to WebSocket subscribers and,
// when enabled, to UDP followers.
type Server struct {
	logger  *zap.SugaredLogger
	manager *inputhub.DeviceManager
	cfg     Config
	hub     *Hub
	udp     *UDPSender
	paused  atomic.Bool
	httpSrv *http.Server
}

// NewServer wires a stream server over an existing device manager.
func NewServer(manager *inputhub.DeviceManager, cfg Config, logger *zap.SugaredLogger) (*Server, error) {
	s := &Server{
		logger:  logger,
		manager: manager,
		cfg:     cfg,
		hub:     newHub(logger),
	}
	if cfg.UDPEnabled {
		udp, err := NewUDPSender(cfg.ListenAddr, cfg.UDPPeers, logger)
		if err != nil {
			return nil, err
		}
		s.udp = udp
	}
	return s, nil
}

// Handler builds the HTTP handler with auth and panic recovery applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.hub.handleWebSocket)
	mux.HandleFunc("/api/devices", s.handleDevices)
	mux.HandleFunc("/health", s.handleHealth)
	return s.authMiddleware(s.recoverMiddleware(mux))
}

// Run starts the hub, the UDP relay, and one reader per device, then
// serves HTTP until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	go s.hub.run()
	defer s.hub.stop()

	if s.udp != nil {
		if err := s.udp.Start(); err != nil {
			return err
		}
		defer s.udp.Stop()
	}

	for _, dev := range s.manager.AllDevices() {
		go s.readDevice(dev)
	}
	if added, err := s.manager.Watch(ctx); err == nil {
		go func() {
			for dev := range added {
				s.logger.Infow("streaming hotplugged device", "path", dev.Path())
				go s.readDevice(dev)
			}
		}()
	} else if !errors.Is(err, inputhub.ErrWatchUnsupported) {
		s.logger.Warnw("hotplug watch unavailable", "error", err)
	}

	// tcp4 keeps Windows from binding IPv6-only.
	ln, err := net.Listen("tcp4", s.cfg.ListenAddr)
	if err != nil {
		return errors.Wrapf(err, "stream listen on %s", s.cfg.ListenAddr)
	}
	s.logger.Infow("stream server listening", "addr", ln.Addr().String())

	s.httpSrv = &http.Server{Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		s.httpSrv.Close()
	}()
	if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "stream server")
	}
	return nil
}

// Pause stops publishing events; device readers keep draining so no
// backlog builds up.
func (s *Server) Pause() { s.paused.Store(true) }

// Resume restarts publishing after a Pause.
func (s *Server) Resume() { s.paused.Store(false) }

// Paused reports whether publishing is suspended.
func (s *Server) Paused() bool { return s.paused.Load() }

// readDevice pumps one device's events into the hub and UDP relay for
// the life of the process. A read error ends the stream for that device
// only.
func (s *Server) readDevice(dev inputhub.Device) {
	for {
		ev, err := dev.Read()
		if err != nil {
			s.logger.Warnw("device stream ended", "path", dev.Path(), "error", err)
			return
		}
		if s.paused.Load() {
			continue
		}
		s.hub.Broadcast(Message{
			Type: TypeEvent,
			Payload: EventPayload{
				Device:  dev.Path(),
				Kind:    dev.Kind().String(),
				Sec:     ev.Sec,
				Usec:    ev.Usec,
				Type:    ev.Type,
				Code:    ev.Code,
				Value:   ev.Value,
				RawType: ev.RawType,
				RawCode: ev.RawCode,
			},
		})
		if s.udp != nil {
			s.udp.SendRecord(eventio.Record{
				Sec:   ev.Sec,
				Usec:  ev.Usec,
				Type:  ev.RawType,
				Code:  ev.RawCode,
				Value: ev.Value,
			})
		}
	}
}

// recoverMiddleware keeps a handler panic from taking down the server.
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Errorw("handler panic", "path", r.URL.Path, "panic", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authMiddleware enforces the bearer token when one is configured. The
// health check stays open for monitoring.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		if s.cfg.AuthToken != "" {
			if r.Header.Get("Authorization") != "Bearer "+s.cfg.AuthToken {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// handleDevices handles GET /api/devices: the current inventory.
func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	devices := s.manager.AllDevices()
	payload := DevicesPayload{Devices: make([]DeviceInfo, 0, len(devices))}
	for _, dev := range devices {
		payload.Devices = append(payload.Devices, DeviceInfo{
			Path: dev.Path(),
			Name: dev.Name(),
			Kind: dev.Kind().String(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":      "ok",
		"paused":      s.Paused(),
		"subscribers": s.hub.subscriberCount(),
	})
}

// Close releases the server's listeners.
func (s *Server) Close() error {
	var err error
	if s.httpSrv != nil {
		err = multierr.Append(err, s.httpSrv.Close())
	}
	return err
}

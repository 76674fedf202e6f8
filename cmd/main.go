// Input Hub - cross-platform input device capture and streaming.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"inputhub"
	"inputhub/internal/autostart"
	"inputhub/internal/config"
	"inputhub/internal/eventio"
	"inputhub/internal/logging"
	"inputhub/internal/stream"
	"inputhub/internal/tray"
)

var (
	version  = "0.3.0"
	listDevs = flag.Bool("list", false, "List detected input devices and exit")
	serve    = flag.Bool("serve", false, "Publish events over the network stream")
	trayMode = flag.Bool("tray", false, "Run the stream server under a system tray icon")
	vibrate  = flag.String("vibrate", "", "Rumble the first gamepad: strong,weak ratios in [0,1], e.g. 0.8,0.4")
	follow   = flag.String("follow", "", "Subscribe to a remote publisher at host:port and print its events")
	showVer  = flag.Bool("version", false, "Show version")
	debug    = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("inputhub version %s\n", version)
		return
	}

	logger := logging.NewLogger("inputhub")
	if *debug {
		logger = logging.NewDebugLogger("inputhub")
	}

	cfgMgr, err := config.NewManager()
	if err != nil {
		logger.Fatalw("cannot initialize config", "error", err)
	}
	if err := cfgMgr.Load(); err != nil {
		logger.Warnw("cannot load config, using defaults", "error", err)
	}
	if *debug {
		cfg := cfgMgr.Get()
		cfg.Debug = true
		cfgMgr.Set(cfg)
	}

	if *follow != "" {
		runFollow(logger, *follow, cfgMgr.Get().Stream.AuthToken)
		return
	}

	manager := inputhub.NewDeviceManager(logger)

	switch {
	case *listDevs:
		listDevices(manager)
	case *vibrate != "":
		runVibrate(logger, manager, *vibrate)
	case *trayMode:
		runTray(logger, cfgMgr, manager)
	case *serve:
		runServe(signalContext(), logger, cfgMgr, manager)
	default:
		runMonitor(signalContext(), logger, manager)
	}
}

// signalContext returns a context canceled by SIGINT or SIGTERM.
func signalContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx
}

func listDevices(manager *inputhub.DeviceManager) {
	fmt.Println("Input Devices:")
	fmt.Println("--------------")
	for _, dev := range manager.AllDevices() {
		fmt.Printf("%-8s  %s\n", dev.Kind().String(), dev.Path())
		fmt.Printf("          %s\n", dev.Name())
	}
	if leds := manager.LEDs(); len(leds) > 0 {
		fmt.Println()
		fmt.Println("LEDs:")
		fmt.Println("-----")
		for _, led := range leds {
			status := "?"
			if on, err := led.Status(); err == nil {
				status = "off"
				if on {
					status = "on"
				}
			}
			fmt.Printf("%-12s  %s\n", led.Name(), status)
		}
	}
}

func runVibrate(logger *zap.SugaredLogger, manager *inputhub.DeviceManager, spec string) {
	parts := strings.SplitN(spec, ",", 2)
	strong, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		logger.Fatalw("bad vibrate value", "value", parts[0], "error", err)
	}
	weak := strong
	if len(parts) == 2 {
		if weak, err = strconv.ParseFloat(parts[1], 64); err != nil {
			logger.Fatalw("bad vibrate value", "value", parts[1], "error", err)
		}
	}

	gamepads := manager.Gamepads()
	if len(gamepads) == 0 {
		logger.Fatalw("no gamepad found")
	}
	pad, ok := gamepads[0].(*inputhub.GamePad)
	if !ok {
		logger.Fatalw("device is not a gamepad", "path", gamepads[0].Path())
	}
	logger.Infow("rumbling", "path", pad.Path(), "strong", strong, "weak", weak)
	if err := pad.SetVibration(strong, weak); err != nil {
		logger.Fatalw("vibration failed", "error", err)
	}
	time.Sleep(1200 * time.Millisecond)
}

// runMonitor prints every event from every device until interrupted.
func runMonitor(ctx context.Context, logger *zap.SugaredLogger, manager *inputhub.DeviceManager) {
	devices := manager.AllDevices()
	if len(devices) == 0 {
		logger.Fatalw("no input devices found")
	}
	for _, dev := range devices {
		go func(dev inputhub.Device) {
			for {
				ev, err := dev.Read()
				if err != nil {
					logger.Warnw("device read failed", "path", dev.Path(), "error", err)
					return
				}
				fmt.Printf("%d.%06d  %-10s  %-18s  %d\n",
					ev.Sec, ev.Usec, ev.Type, ev.Code, ev.Value)
			}
		}(dev)
	}

	if added, err := manager.Watch(ctx); err == nil {
		go func() {
			for dev := range added {
				logger.Infow("device plugged in", "path", dev.Path())
			}
		}()
	}

	logger.Infow("monitoring input devices", "count", len(devices))
	<-ctx.Done()
}

// runServe publishes the event stream until interrupted.
func runServe(ctx context.Context, logger *zap.SugaredLogger, cfgMgr *config.Manager, manager *inputhub.DeviceManager) {
	cfg := cfgMgr.Get()
	srv, err := stream.NewServer(manager, stream.Config{
		ListenAddr: cfg.Stream.ListenAddr,
		AuthToken:  cfg.Stream.AuthToken,
		UDPEnabled: cfg.Stream.UDPEnabled,
		UDPPeers:   cfg.Stream.UDPPeers,
	}, logger)
	if err != nil {
		logger.Fatalw("cannot create stream server", "error", err)
	}
	if err := srv.Run(ctx); err != nil {
		logger.Fatalw("stream server failed", "error", err)
	}
}

// runFollow subscribes to a remote publisher and prints its events,
// over UDP when the publisher offers it and over the websocket stream
// otherwise.
func runFollow(logger *zap.SugaredLogger, hostAddr, token string) {
	ctx := signalContext()

	// Prefer the low-latency UDP path. Exactly one of the two paths
	// prints, so a publisher relaying on both never double-reports.
	udpLive := false
	receiver := stream.NewUDPReceiver(hostAddr, logger)
	if receiver.Probe() {
		receiver.OnRecord = func(rec eventio.Record) {
			typeName, err := inputhub.EventType(rec.Type)
			if err != nil {
				logger.Debugw("unresolvable relayed record", "error", err)
				return
			}
			codeName, err := inputhub.EventString(rec.Type, rec.Code)
			if err != nil {
				logger.Debugw("unresolvable relayed record", "error", err)
				return
			}
			fmt.Printf("%d.%06d  %-10s  %-18s  %d\n",
				rec.Sec, rec.Usec, typeName, codeName, rec.Value)
		}
		if err := receiver.Start(); err != nil {
			logger.Warnw("udp receive failed, staying on websocket", "error", err)
		} else {
			udpLive = true
			defer receiver.Stop()
		}
	}

	client := stream.NewClient(hostAddr, token, logger)
	if !udpLive {
		client.OnEvent = func(ev stream.EventPayload) {
			fmt.Printf("%d.%06d  %-10s  %-18s  %d\n",
				ev.Sec, ev.Usec, ev.Type, ev.Code, ev.Value)
		}
	}
	client.Start()
	defer client.Close()

	<-ctx.Done()
}

// runTray runs the stream server behind a tray icon with pause, resume
// and login integration.
func runTray(logger *zap.SugaredLogger, cfgMgr *config.Manager, manager *inputhub.DeviceManager) {
	cfg := cfgMgr.Get()
	srv, err := stream.NewServer(manager, stream.Config{
		ListenAddr: cfg.Stream.ListenAddr,
		AuthToken:  cfg.Stream.AuthToken,
		UDPEnabled: cfg.Stream.UDPEnabled,
		UDPPeers:   cfg.Stream.UDPPeers,
	}, logger)
	if err != nil {
		logger.Fatalw("cannot create stream server", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := srv.Run(ctx); err != nil {
			logger.Errorw("stream server failed", "error", err)
		}
	}()

	t := tray.New("Input Hub - input event stream")
	var pausedID int
	pausedID = t.AddMenuItem("Pause streaming", func() {
		if srv.Paused() {
			srv.Resume()
			t.SetItemChecked(pausedID, false)
		} else {
			srv.Pause()
			t.SetItemChecked(pausedID, true)
		}
	})

	var loginID int
	loginID = t.AddMenuItem("Start on login", func() {
		if autostart.IsEnabled() {
			if err := autostart.Disable(); err != nil {
				logger.Warnw("cannot disable autostart", "error", err)
				return
			}
			t.SetItemChecked(loginID, false)
			updateStartOnLogin(cfgMgr, false)
		} else {
			if err := autostart.Enable(); err != nil {
				logger.Warnw("cannot enable autostart", "error", err)
				return
			}
			t.SetItemChecked(loginID, true)
			updateStartOnLogin(cfgMgr, true)
		}
	})

	t.AddSeparator()
	t.AddMenuItem("Quit", func() {
		cancel()
		t.Stop()
	})

	if autostart.IsEnabled() {
		t.SetItemChecked(loginID, true)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		cancel()
		t.Stop()
	}()

	t.Run()
}

func updateStartOnLogin(cfgMgr *config.Manager, enabled bool) {
	cfg := cfgMgr.Get()
	cfg.Tray.StartOnLogin = enabled
	cfgMgr.Set(cfg)
	cfgMgr.Save()
}

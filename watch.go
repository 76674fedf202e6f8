package inputhub

import (
	"context"
	"runtime"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// debounceDelay coalesces the burst of symlink churn that one plug or
// unplug produces into a single rescan.
const debounceDelay = 500 * time.Millisecond

// Watch rescans for devices when the discovery directories change and
// delivers newly appeared devices on the returned channel. The channel
// closes when ctx ends. Platforms without discovery directories return
// ErrWatchUnsupported.
func (m *DeviceManager) Watch(ctx context.Context) (<-chan Device, error) {
	dirs := m.watchDirs()
	if len(dirs) == 0 {
		return nil, errors.Wrapf(ErrWatchUnsupported, "on %s", runtime.GOOS)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "starting device watch")
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "watching %s", dir)
		}
	}
	added := make(chan Device, 8)
	go m.watchLoop(ctx, watcher, added)
	return added, nil
}

func (m *DeviceManager) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, added chan<- Device) {
	defer watcher.Close()
	defer close(added)

	timer := m.clk.Timer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounceDelay)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			m.logger.Warnw("device watch error", "error", err)
		case <-timer.C:
			for _, dev := range m.rescan() {
				select {
				case added <- dev:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// rescan reruns discovery and returns the devices that appeared since
// the last scan. Known devices keep their slot; nothing is removed.
func (m *DeviceManager) rescan() []Device {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.all)
	m.discover()
	fresh := make([]Device, len(m.all)-before)
	copy(fresh, m.all[before:])
	return fresh
}

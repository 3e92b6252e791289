package depgraph

import (
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"forecast-backend/internal/shared/telemetry"
)

// Provider hands out the current graph snapshot. Reload swaps in a whole
// new snapshot atomically, so readers always see a complete graph and never
// a partially-updated one. Reads are lock-free.
type Provider struct {
	path     string
	snapshot atomic.Pointer[Snapshot]
	watcher  *fsnotify.Watcher
}

// NewProvider loads the graph at path and returns a provider serving it.
// If the initial load fails the provider starts with an empty snapshot; the
// error is reported so the caller can log it.
func NewProvider(path string) (*Provider, error) {
	p := &Provider{path: path}
	snap, err := LoadFile(path)
	if err != nil {
		p.snapshot.Store(EmptySnapshot())
		return p, err
	}
	p.snapshot.Store(snap)
	return p, nil
}

// NewStaticProvider wraps a fixed snapshot, useful in tests.
func NewStaticProvider(snap *Snapshot) *Provider {
	p := &Provider{}
	p.snapshot.Store(snap)
	return p
}

// Snapshot returns the current graph snapshot.
func (p *Provider) Snapshot() *Snapshot {
	return p.snapshot.Load()
}

// Reload re-reads the graph file and swaps the snapshot. On failure the
// previous snapshot stays in place.
func (p *Provider) Reload() error {
	snap, err := LoadFile(p.path)
	if err != nil {
		return err
	}
	p.snapshot.Store(snap)
	return nil
}

// Watch reloads the snapshot whenever the graph file is written or
// recreated. It runs until Close is called. Editors that replace the file
// emit Create rather than Write, so both trigger a reload.
func (p *Provider) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return err
	}
	p.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(p.path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := p.Reload(); err != nil {
					telemetry.Error("depgraph.reload_failed", map[string]any{
						"path":  p.path,
						"error": err.Error(),
					})
					continue
				}
				telemetry.Info("depgraph.reloaded", map[string]any{
					"path":     p.path,
					"services": p.Snapshot().Len(),
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				telemetry.Error("depgraph.watch_error", map[string]any{
					"path":  p.path,
					"error": err.Error(),
				})
			}
		}
	}()
	return nil
}

// Close stops the file watcher if one is running.
func (p *Provider) Close() error {
	if p.watcher == nil {
		return nil
	}
	return p.watcher.Close()
}

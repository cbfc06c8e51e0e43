package rules

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Store holds the active ruleset and swaps it atomically when the overlay
// file changes on disk. Readers always see a complete, validated ruleset.
type Store struct {
	mu      sync.RWMutex
	current *Ruleset
	path    string
	log     *slog.Logger
}

// NewStore builds a store seeded from path, or from the defaults when path
// is empty.
func NewStore(path string, log *slog.Logger) (*Store, error) {
	s := &Store{path: path, log: log}
	if path == "" {
		s.current = Default()
		return s, nil
	}
	rs, err := Load(path)
	if err != nil {
		return nil, err
	}
	s.current = rs
	return s, nil
}

// Current returns the active ruleset. The returned value must be treated as
// read-only; a reload replaces the pointer, never the contents.
func (s *Store) Current() *Ruleset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Watch reloads the overlay whenever the file is rewritten. A reload that
// fails validation is logged and discarded, keeping the previous ruleset
// active. Watch blocks until ctx is done; call it in its own goroutine.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files on save and
	// the inode-level watch would be lost.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return err
	}
	target := filepath.Base(s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			s.reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("rules watcher error", "error", err)
		}
	}
}

func (s *Store) reload() {
	rs, err := Load(s.path)
	if err != nil {
		s.log.Warn("rules reload rejected", "path", s.path, "error", err)
		return
	}
	s.mu.Lock()
	s.current = rs
	s.mu.Unlock()
	s.log.Info("rules reloaded", "path", s.path)
}

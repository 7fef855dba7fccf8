// Package watcher re-runs the assistant whenever the cue sheet
// document changes on disk.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Service watches one cue sheet document and invokes a run callback
// after changes settle.
type Service struct {
	document string
	runFn    func(ctx context.Context) error
	logger   *slog.Logger
	debounce time.Duration
}

// NewService creates a watcher for the given document path.
func NewService(document string, runFn func(ctx context.Context) error, logger *slog.Logger) *Service {
	return &Service{
		document: document,
		runFn:    runFn,
		logger:   logger.With(slog.String("component", "watcher")),
		debounce: 2 * time.Second,
	}
}

// SetDebounce overrides the default debounce interval (for testing).
func (s *Service) SetDebounce(d time.Duration) {
	s.debounce = d
}

// Start blocks until ctx is canceled, watching the document's parent
// directory and invoking the run callback after edits settle. Editors
// save through renames, so the watch covers the directory rather than
// the file itself.
func (s *Service) Start(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close() //nolint:errcheck

	dir := filepath.Dir(s.document)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	s.logger.Info("watching cue sheet", slog.String("document", s.document))

	// Debounce timer coalesces editor save bursts into one run.
	// Starts stopped; reset on each document event.
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("watcher stopping")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !s.isDocumentEvent(ev) {
				continue
			}
			s.logger.Debug("cue sheet changed", slog.String("op", ev.Op.String()))
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(s.debounce)
			pending = true

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watch error", "error", err)

		case <-timer.C:
			if pending {
				pending = false
				s.logger.Info("cue sheet changed, rerunning pipeline")
				if err := s.runFn(ctx); err != nil {
					s.logger.Error("rerun failed", "error", err)
				}
			}
		}
	}
}

// isDocumentEvent reports whether the event concerns the watched
// document being written, created, or renamed into place.
func (s *Service) isDocumentEvent(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return filepath.Clean(ev.Name) == filepath.Clean(s.document)
}

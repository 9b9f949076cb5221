// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package watch re-extracts a document each time it is saved.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"thainame-scan/internal/engine"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the burst of events editors emit for one save.
const DefaultDebounce = 200 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *log.Logger
	// OnResult receives the state after each extraction, including the
	// initial one. It runs on the watcher goroutine.
	OnResult func(engine.State, error)
}

// Watcher follows one document through its session.
type Watcher struct {
	session *engine.Session
	source  engine.TextSource
	path    string
	opts    Options
}

// New creates a watcher for path. Extraction results go into session.
func New(session *engine.Session, source engine.TextSource, path string, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Watcher{session: session, source: source, path: abs, opts: opts}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run extracts once, then again after every change to the document, until
// ctx is cancelled. The parent directory is watched so editors that save by
// rename are followed.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}

	w.extract(ctx)

	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.opts.Logger.Debug("document changed", "file", event.Name, "op", event.Op.String())
			timer.Reset(w.opts.Debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.opts.Logger.Warn("watch error", "err", err)

		case <-timer.C:
			w.extract(ctx)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (w *Watcher) extract(ctx context.Context) {
	st, err := w.session.ExtractFile(ctx, w.source, w.path)
	switch {
	case err == nil:
		w.opts.Logger.Info("extracted", "file", w.path, "names", len(st.Result.Entries), "occurrences", st.Result.Total())
	case errors.Is(err, engine.ErrNoMatches):
		w.opts.Logger.Warn("no names found", "file", w.path)
	default:
		w.opts.Logger.Error("extraction failed", "file", w.path, "err", err)
	}
	if err == nil || errors.Is(err, engine.ErrNoMatches) {
		for _, notice := range st.Notices {
			w.opts.Logger.Warn(notice, "file", w.path)
		}
	}
	if w.opts.OnResult != nil {
		w.opts.OnResult(st, err)
	}
}

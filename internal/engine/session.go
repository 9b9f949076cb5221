// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"thainame-scan/internal/aggregate"
	"thainame-scan/internal/view"

	"golang.org/x/sync/semaphore"
)

// Session holds one State for adapters that serve several callers, such as
// the web server and the file watcher. At most one extraction runs at a time;
// readers see the previous result until the new one is complete.
type Session struct {
	engine     *Engine
	extracting *semaphore.Weighted
	mu         sync.Mutex // serializes state transitions
	state      atomic.Pointer[State]
}

// NewSession creates a session with no result.
func NewSession(e *Engine) *Session {
	s := &Session{
		engine:     e,
		extracting: semaphore.NewWeighted(1),
	}
	st := NewState()
	s.state.Store(&st)
	return s
}

// State returns the current state snapshot.
func (s *Session) State() State {
	return *s.state.Load()
}

// Entries returns a copy of the current aggregated list.
func (s *Session) Entries() []aggregate.NameEntry {
	return s.State().Entries()
}

// Extract replaces the session result with the names in text.
func (s *Session) Extract(text, source string) (State, error) {
	if !s.extracting.TryAcquire(1) {
		return s.State(), ErrExtractionInProgress
	}
	defer s.extracting.Release(1)

	res := s.engine.timedAggregate(text, source)
	next := s.swap(func(st State) State { return st.WithResult(res, source) })
	if res.Empty() {
		return next, ErrNoMatches
	}
	return next, nil
}

// ExtractFile reads path and replaces the session result. On a read error the
// previous result stays in place.
func (s *Session) ExtractFile(ctx context.Context, src TextSource, path string) (State, error) {
	if !s.extracting.TryAcquire(1) {
		return s.State(), ErrExtractionInProgress
	}
	defer s.extracting.Release(1)

	doc, err := src.ReadText(ctx, path)
	if err != nil {
		return s.State(), err
	}
	res := s.engine.timedAggregate(doc.Text, path)
	notices := doc.Notices()
	next := s.swap(func(st State) State { return st.WithResult(res, path).WithNotices(notices) })
	if res.Empty() {
		return next, ErrNoMatches
	}
	return next, nil
}

// Filter updates the search term and returns the state it produced. Callers
// render that state rather than rereading State, which another request may
// already have changed.
func (s *Session) Filter(term string) State {
	return s.swap(func(st State) State {
		st, _ = Filter(st, term)
		return st
	})
}

// Sort requests a sort on col and returns the state it produced.
func (s *Session) Sort(col view.Column) State {
	return s.swap(func(st State) State {
		st, _ = Sort(st, col)
		return st
	})
}

func (s *Session) swap(fn func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := fn(*s.state.Load())
	s.state.Store(&next)
	return next
}

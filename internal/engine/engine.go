// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package engine ties the matcher, normalizer, aggregator and view layer
// together behind the three caller operations: extract, filter and sort.
package engine

import (
	"context"
	"errors"

	"thainame-scan/internal/aggregate"
	"thainame-scan/internal/docreader"
	"thainame-scan/internal/extractor"
	"thainame-scan/internal/observability"
	"thainame-scan/internal/view"
)

var (
	// ErrNoMatches is returned together with a valid, empty state when the
	// text contained no names. It is a warning, not a failure.
	ErrNoMatches = errors.New("no names found in document")

	// ErrExtractionInProgress rejects an extraction that would overlap
	// another one on the same Session.
	ErrExtractionInProgress = errors.New("an extraction is already in progress")
)

// TextSource supplies the plain text of a document.
type TextSource interface {
	ReadText(ctx context.Context, path string) (*docreader.Document, error)
}

// State is the caller-owned extraction state. Operations take a State and
// return the updated one; a State is never modified in place.
type State struct {
	// Source is the path of the document the result came from, if any.
	Source string
	// Extracted is false until the first extraction completes, which tells
	// "not run yet" apart from "ran and found nothing".
	Extracted bool
	Result    aggregate.Result
	View      view.State
	// Notices are reader warnings about the text the result came from, such
	// as pages that were not read. They are replaced with every result.
	Notices []string
}

// NewState returns the state before any extraction.
func NewState() State {
	return State{
		Result: aggregate.Result{Entries: []aggregate.NameEntry{}},
		View:   view.NewState(),
	}
}

// Entries returns a copy of the full aggregated list in key order.
func (s State) Entries() []aggregate.NameEntry {
	return s.Result.Clone()
}

// Visible returns the current filtered and sorted view.
func (s State) Visible() []aggregate.NameEntry {
	return s.View.Apply(s.Result.Entries)
}

// WithResult replaces the aggregated list wholesale. The search term and
// per-column sort directions carry over; an applied sort does not.
func (s State) WithResult(res aggregate.Result, source string) State {
	s.Source = source
	s.Extracted = true
	s.Result = res
	s.View = s.View.SetSearch(s.View.Search)
	s.Notices = nil
	return s
}

// WithNotices returns s with the given reader notices attached.
func (s State) WithNotices(notices []string) State {
	s.Notices = append([]string(nil), notices...)
	return s
}

// Options configures an Engine.
type Options struct {
	Observer *observability.StandardObserver
}

// Engine holds the compiled matcher. It is safe for concurrent use.
type Engine struct {
	matcher  *extractor.Matcher
	observer *observability.StandardObserver
}

// New creates an Engine.
func New(opts Options) *Engine {
	return &Engine{
		matcher:  extractor.NewMatcher(),
		observer: opts.Observer,
	}
}

// Scan returns the raw matches of text with their offsets.
func (e *Engine) Scan(text string) []extractor.RawMatch {
	return e.matcher.MatchAll(text)
}

// Aggregate runs matcher, normalizer and aggregator over text.
func (e *Engine) Aggregate(text string) aggregate.Result {
	return aggregate.Aggregate(extractor.NormalizeAll(e.matcher.Match(text)))
}

// Extract replaces the state's result with the names found in text. When no
// names are found the returned state holds the empty result and the error is
// ErrNoMatches.
func (e *Engine) Extract(st State, text string) (State, error) {
	return e.extract(st, text, "")
}

func (e *Engine) extract(st State, text, source string) (State, error) {
	res := e.timedAggregate(text, source)
	next := st.WithResult(res, source)
	if res.Empty() {
		return next, ErrNoMatches
	}
	return next, nil
}

func (e *Engine) timedAggregate(text, source string) aggregate.Result {
	finish := e.observer.StartTiming("engine", "extract", source)
	res := e.Aggregate(text)
	finish(true, map[string]interface{}{
		"match_count":    res.Matches,
		"discarded":      res.Discarded,
		"distinct_names": len(res.Entries),
		"content_length": len(text),
	})
	return res
}

// ExtractFile reads path through src and extracts from its text. A read
// failure returns st unchanged with the *docreader.ReadError.
func (e *Engine) ExtractFile(ctx context.Context, st State, src TextSource, path string) (State, error) {
	doc, err := src.ReadText(ctx, path)
	if err != nil {
		return st, err
	}
	return e.ExtractDocument(st, doc)
}

// ExtractDocument extracts from a document that has already been read.
// Notices of an incompletely read document are attached to the state.
func (e *Engine) ExtractDocument(st State, doc *docreader.Document) (State, error) {
	next, err := e.extract(st, doc.Text, doc.Path)
	return next.WithNotices(doc.Notices()), err
}

// Filter sets the search term and returns the filtered list in key order.
func Filter(st State, term string) (State, []aggregate.NameEntry) {
	st.View = st.View.SetSearch(term)
	return st, st.Visible()
}

// Sort applies the stored direction of col to the filtered list and flips
// that column's direction for the next request.
func Sort(st State, col view.Column) (State, []aggregate.NameEntry) {
	st.View = st.View.RequestSort(col)
	return st, st.Visible()
}

package pdfexport

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lvillar/deckforge"
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
)

// Session is an export running in the background.
type Session struct {
	ID      string
	Title   string
	Started time.Time

	cancel context.CancelCauseFunc
	done   chan struct{}

	mu       sync.Mutex
	progress Progress
	data     []byte
	err      error
	finished time.Time
}

// Start begins exporting a snapshot of doc and returns immediately. Later
// changes to doc do not affect the export.
func (e *Exporter) Start(ctx context.Context, doc *document.Document, style document.StyleConfig, profile geom.Profile) *Session {
	ctx, cancel := context.WithCancelCause(ctx)
	snapshot := doc.Clone()
	s := &Session{
		ID:      uuid.NewString(),
		Title:   snapshot.Title(),
		Started: time.Now(),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	if snapshot != nil {
		s.progress.Total = len(snapshot.Pages)
	}
	go func() {
		defer close(s.done)
		defer cancel(nil)
		data, err := e.render(ctx, snapshot, style, profile, s.observe)
		s.mu.Lock()
		s.data, s.err, s.finished = data, err, time.Now()
		s.mu.Unlock()
	}()
	return s
}

func (s *Session) observe(p Progress) {
	s.mu.Lock()
	s.progress = p
	s.mu.Unlock()
}

// Progress returns the latest progress snapshot.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Done is closed when the export has finished, successfully or not.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Abort cancels the export. In-flight work is discarded and the session
// fails with deckforge.ErrExportAborted. Aborting a finished session does
// nothing.
func (s *Session) Abort() {
	s.cancel(deckforge.ErrExportAborted)
}

// Result returns the PDF or the single error that ended the export. ok is
// false while the export is still running.
func (s *Session) Result() (data []byte, ok bool, err error) {
	select {
	case <-s.done:
	default:
		return nil, false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data, true, s.err
}

// Wait blocks until the export finishes or ctx ends.
func (s *Session) Wait(ctx context.Context) ([]byte, error) {
	select {
	case <-s.done:
		data, _, err := s.Result()
		return data, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Elapsed is the running time, or the total time once finished.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished.IsZero() {
		return time.Since(s.Started)
	}
	return s.finished.Sub(s.Started)
}

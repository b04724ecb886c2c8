package server

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lvillar/deckforge"
	"github.com/lvillar/deckforge/deckexport"
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/metrics"
	"github.com/lvillar/deckforge/pdfexport"
)

// Job states reported by the API.
const (
	statusRunning = "running"
	statusDone    = "done"
	statusFailed  = "failed"
	statusAborted = "aborted"
)

// job is one export started through the API. PDF jobs follow a
// pdfexport.Session; deck jobs run deckexport.Build directly and count
// slides as they are drawn.
type job struct {
	ID      string
	Format  string
	Title   string
	Profile geom.Profile
	Started time.Time

	session *pdfexport.Session
	cancel  context.CancelCauseFunc
	done    chan struct{}

	mu       sync.Mutex
	slides   int
	total    int
	data     []byte
	err      error
	finished time.Time
}

// jobView is the JSON form of a job.
type jobView struct {
	ID        string  `json:"id"`
	Format    string  `json:"format"`
	Title     string  `json:"title"`
	Profile   string  `json:"profile"`
	Status    string  `json:"status"`
	State     string  `json:"state,omitempty"`
	Page      int     `json:"page,omitempty"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Bytes     int     `json:"bytes,omitempty"`
	Error     string  `json:"error,omitempty"`
	Elapsed   float64 `json:"elapsedSeconds"`
}

func (j *job) finish(data []byte, err error) {
	j.mu.Lock()
	j.data, j.err, j.finished = data, err, time.Now()
	j.mu.Unlock()
	close(j.done)
}

func (j *job) finishedAt() (time.Time, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.finished, !j.finished.IsZero()
}

// result returns the artifact once the job is over.
func (j *job) result() (data []byte, ok bool, err error) {
	select {
	case <-j.done:
	default:
		return nil, false, nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.data, true, j.err
}

func (j *job) abort() {
	if j.session != nil {
		j.session.Abort()
		return
	}
	j.cancel(deckforge.ErrExportAborted)
}

func (j *job) view() jobView {
	v := jobView{
		ID:      j.ID,
		Format:  j.Format,
		Title:   j.Title,
		Profile: string(j.Profile.Format),
		Status:  statusRunning,
	}
	if j.session != nil {
		p := j.session.Progress()
		v.State, v.Page, v.Completed, v.Total = p.State.String(), p.Page, p.Completed, p.Total
	}

	j.mu.Lock()
	if j.session == nil {
		v.Completed, v.Total = j.slides, j.total
	}
	end := j.finished
	data, err := j.data, j.err
	j.mu.Unlock()

	if end.IsZero() {
		v.Elapsed = time.Since(j.Started).Seconds()
		return v
	}
	v.Elapsed = end.Sub(j.Started).Seconds()
	switch {
	case errors.Is(err, deckforge.ErrExportAborted):
		v.Status, v.Error = statusAborted, err.Error()
	case err != nil:
		v.Status, v.Error = statusFailed, err.Error()
	default:
		v.Status, v.Bytes = statusDone, len(data)
	}
	return v
}

// exports tracks running and finished export jobs. Finished jobs are
// dropped ttl after they end.
type exports struct {
	pdf  *pdfexport.Exporter
	deck *deckexport.Exporter
	ttl  time.Duration
	now  func() time.Time

	mu   sync.Mutex
	jobs map[string]*job
}

func newExports(pdf *pdfexport.Exporter, deck *deckexport.Exporter, ttl time.Duration) *exports {
	return &exports{pdf: pdf, deck: deck, ttl: ttl, now: time.Now, jobs: make(map[string]*job)}
}

// start launches an export of doc. The job outlives the request that
// started it, so it runs on its own context.
func (x *exports) start(format string, doc *document.Document, style document.StyleConfig, profile geom.Profile) *job {
	var j *job
	switch format {
	case metrics.FormatPPTX:
		ctx, cancel := context.WithCancelCause(context.Background())
		snapshot := doc.Clone()
		j = &job{
			ID:      uuid.NewString(),
			Format:  format,
			Title:   snapshot.Title(),
			Profile: profile,
			Started: time.Now(),
			cancel:  cancel,
			done:    make(chan struct{}),
		}
		if snapshot != nil {
			j.total = len(snapshot.Pages)
		}
		go func() {
			defer cancel(nil)
			data, _, err := x.deck.Build(ctx, snapshot, style, profile, deckexport.OnSlide(func(done, _ int) {
				j.mu.Lock()
				j.slides = done
				j.mu.Unlock()
			}))
			j.finish(data, err)
		}()
	default:
		s := x.pdf.Start(context.Background(), doc, style, profile)
		j = &job{
			ID:      s.ID,
			Format:  metrics.FormatPDF,
			Title:   s.Title,
			Profile: profile,
			Started: s.Started,
			session: s,
			done:    make(chan struct{}),
		}
		go func() {
			<-s.Done()
			data, _, err := s.Result()
			j.finish(data, err)
		}()
	}

	x.mu.Lock()
	x.sweep()
	x.jobs[j.ID] = j
	x.mu.Unlock()
	return j
}

func (x *exports) get(id string) (*job, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.sweep()
	j, ok := x.jobs[id]
	return j, ok
}

// remove aborts a running job and forgets it.
func (x *exports) remove(id string) (*job, bool) {
	x.mu.Lock()
	j, ok := x.jobs[id]
	delete(x.jobs, id)
	x.mu.Unlock()
	if ok {
		j.abort()
	}
	return j, ok
}

func (x *exports) list() []*job {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.sweep()
	out := make([]*job, 0, len(x.jobs))
	for _, j := range x.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Started.Before(out[b].Started) })
	return out
}

// abortAll stops every running job.
func (x *exports) abortAll() {
	for _, j := range x.list() {
		j.abort()
	}
}

// sweep drops expired jobs. x.mu is held.
func (x *exports) sweep() {
	if x.ttl <= 0 {
		return
	}
	now := x.now()
	for id, j := range x.jobs {
		if end, ok := j.finishedAt(); ok && now.Sub(end) > x.ttl {
			delete(x.jobs, id)
		}
	}
}

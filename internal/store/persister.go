package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dshills/imagetoolkit/internal/settings"
)

// ErrPersisterClosed is reported for snapshots submitted after Close.
var ErrPersisterClosed = errors.New("persister closed")

// DefaultWriteTimeout bounds a single save.
const DefaultWriteTimeout = 10 * time.Second

// Saver writes a complete record.
type Saver interface {
	Save(ctx context.Context, rec settings.Settings) error
}

// Request identifies one submitted snapshot.
type Request struct {
	// ID correlates the request with log lines and error reports.
	ID uuid.UUID
	// Seq increases with every submission; zero means the request was
	// rejected.
	Seq uint64
}

// ErrorHandler receives save failures. It runs on the persister goroutine.
type ErrorHandler func(req Request, err error)

// Persister saves record snapshots in the background.
//
// Submit never blocks on I/O. Snapshots are written in submission order by
// a single goroutine; a snapshot still waiting when a newer one arrives is
// superseded and never written. Because every snapshot is the complete
// record, the file always ends up holding the most recent submission.
// Failed writes are reported and not retried.
type Persister struct {
	saver   Saver
	log     zerolog.Logger
	onError ErrorHandler
	timeout time.Duration

	mu        sync.Mutex
	pending   *job
	seq       uint64
	completed uint64
	lastErr   error
	waiters   []waiter
	closed    bool

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

type job struct {
	req      Request
	snapshot settings.Settings
}

type waiter struct {
	seq uint64
	ch  chan error
}

// PersisterOption configures a Persister.
type PersisterOption func(*Persister)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) PersisterOption {
	return func(p *Persister) {
		p.log = log
	}
}

// WithErrorHandler sets the handler for failed saves.
func WithErrorHandler(h ErrorHandler) PersisterOption {
	return func(p *Persister) {
		p.onError = h
	}
}

// WithWriteTimeout bounds each save.
func WithWriteTimeout(d time.Duration) PersisterOption {
	return func(p *Persister) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// NewPersister starts a persister writing through saver.
func NewPersister(saver Saver, opts ...PersisterOption) *Persister {
	p := &Persister{
		saver:   saver,
		log:     zerolog.Nop(),
		timeout: DefaultWriteTimeout,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.wg.Add(1)
	go p.run()
	return p
}

// Submit queues a snapshot and returns immediately.
func (p *Persister) Submit(snapshot settings.Settings) Request {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		req := Request{ID: uuid.New()}
		p.log.Warn().Str("request", req.ID.String()).Msg("settings save dropped: persister closed")
		if p.onError != nil {
			go p.onError(req, ErrPersisterClosed)
		}
		return req
	}

	p.seq++
	req := Request{ID: uuid.New(), Seq: p.seq}
	if p.pending != nil {
		p.log.Debug().
			Str("request", p.pending.req.ID.String()).
			Str("superseded_by", req.ID.String()).
			Msg("settings save superseded")
	}
	p.pending = &job{req: req, snapshot: snapshot}

	select {
	case p.wake <- struct{}{}:
	default:
	}
	return req
}

// Flush waits until every snapshot submitted before the call has been
// written or has failed. It returns the error of the write that covered
// the last submission, or ctx's error.
func (p *Persister) Flush(ctx context.Context) error {
	p.mu.Lock()
	target := p.seq
	if p.completed >= target {
		err := p.lastErr
		p.mu.Unlock()
		return err
	}
	ch := make(chan error, 1)
	p.waiters = append(p.waiters, waiter{seq: target, ch: ch})
	p.mu.Unlock()

	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending reports whether a submitted snapshot has not been written yet.
func (p *Persister) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed < p.seq
}

// Close writes any pending snapshot, stops the goroutine and rejects
// further submissions. Safe to call multiple times.
func (p *Persister) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.done)
	p.wg.Wait()
}

func (p *Persister) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.wake:
			p.writePending()
		case <-p.done:
			p.writePending()
			return
		}
	}
}

func (p *Persister) writePending() {
	p.mu.Lock()
	j := p.pending
	p.pending = nil
	p.mu.Unlock()

	if j == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	start := time.Now()
	err := p.saver.Save(ctx, j.snapshot)
	cancel()

	if err != nil {
		p.log.Error().Err(err).
			Str("request", j.req.ID.String()).
			Uint64("seq", j.req.Seq).
			Msg("settings save failed")
		if p.onError != nil {
			p.onError(j.req, err)
		}
	} else {
		p.log.Debug().
			Str("request", j.req.ID.String()).
			Uint64("seq", j.req.Seq).
			Dur("took", time.Since(start)).
			Msg("settings saved")
	}

	p.mu.Lock()
	p.completed = j.req.Seq
	p.lastErr = err
	remaining := p.waiters[:0]
	for _, w := range p.waiters {
		if w.seq <= p.completed {
			w.ch <- err
			continue
		}
		remaining = append(remaining, w)
	}
	p.waiters = remaining
	p.mu.Unlock()
}

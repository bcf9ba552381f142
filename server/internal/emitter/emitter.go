package emitter

import (
	"context"
	"errors"
	"sync"

	"github.com/hedisam/entrymeta/server/internal/store"
)

var (
	ErrClosed = errors.New("emitter closed")
)

const defaultBufferSize = 16

// Emitter queues records of objects whose blobs are no longer referenced by the catalog. The janitor
// drains the queue from Chan.
type Emitter struct {
	ch     chan *store.ObjectRecord
	mu     sync.RWMutex
	closed bool
	done   chan struct{}
	once   sync.Once
}

type Option func(*options)

type options struct {
	bufferSize int
}

// WithBufferSize sets how many records can be queued before Emit blocks.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.bufferSize = n
		}
	}
}

func New(opts ...Option) *Emitter {
	o := options{bufferSize: defaultBufferSize}
	for _, opt := range opts {
		opt(&o)
	}

	return &Emitter{
		ch:   make(chan *store.ObjectRecord, o.bufferSize),
		done: make(chan struct{}),
	}
}

// Emit queues obj. It blocks while the queue is full until ctx is done or the emitter is closed.
func (e *Emitter) Emit(ctx context.Context, obj *store.ObjectRecord) error {
	// holding the read lock keeps Close from closing ch under a blocked send
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return ErrClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return ErrClosed
	case e.ch <- obj:
		return nil
	}
}

func (e *Emitter) Chan() <-chan *store.ObjectRecord {
	return e.ch
}

// Pending returns the number of queued records not yet received.
func (e *Emitter) Pending() int {
	return len(e.ch)
}

// Close unblocks pending Emit calls and closes the queue once they return. Records already queued
// can still be received from Chan.
func (e *Emitter) Close() {
	e.once.Do(func() {
		close(e.done)

		e.mu.Lock()
		defer e.mu.Unlock()
		e.closed = true
		close(e.ch)
	})
}

// Package matchloop provides a single-owner concurrency wrapper around the
// pattern trie: one goroutine owns the trie and serially drains a queue of
// register/match requests in small batches, replying per request. Because the
// loop applies requests in arrival order, every registration drained before a
// match happens-before that match.
package matchloop

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/patternmesh/patternmesh-go/pkg/pattern"
)

var (
	// ErrNotStarted is returned when submitting requests before Start
	ErrNotStarted = errors.New("match loop not started")
	// ErrAlreadyStarted is returned when Start is called twice
	ErrAlreadyStarted = errors.New("match loop already started")
	// ErrLoopClosed is returned when the loop has been closed
	ErrLoopClosed = errors.New("match loop is closed")
)

const (
	// DefaultBatchSize bounds how many queued requests one wakeup drains.
	DefaultBatchSize = 32

	// DefaultQueueSize is the request channel capacity.
	DefaultQueueSize = 256
)

// Config holds tunables for a Loop.
type Config struct {
	// BatchSize is the maximum number of requests drained per wakeup.
	BatchSize int

	// QueueSize is the capacity of the request queue.
	QueueSize int

	// Logger receives lifecycle and batch events.
	Logger zerolog.Logger
}

// SetDefaults fills zero-valued fields with safe defaults.
func (c *Config) SetDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
}

type request[T any] struct {
	register bool
	pattern  string // pattern for register, topic for match
	id       T
	reply    chan response[T]
}

type response[T any] struct {
	matches []pattern.Match[T]
	err     error
}

// Loop owns a pattern trie behind a request queue. All trie access happens on
// the loop goroutine, so the trie needs no locking. Safe for concurrent use by
// any number of callers.
type Loop[T any] struct {
	mu      sync.Mutex
	config  Config
	logger  zerolog.Logger
	trie    *pattern.Trie[T]
	queue   chan request[T]
	done    chan struct{}
	stopped sync.WaitGroup
	started bool
	closed  bool
}

// New creates a Loop with the given configuration. Call Start before use.
func New[T any](config Config) *Loop[T] {
	config.SetDefaults()
	return &Loop[T]{
		config: config,
		logger: config.Logger.With().Str("component", "matchloop").Logger(),
		trie:   pattern.New[T](),
		queue:  make(chan request[T], config.QueueSize),
		done:   make(chan struct{}),
	}
}

// Start launches the owner goroutine.
func (l *Loop[T]) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrLoopClosed
	}
	if l.started {
		return ErrAlreadyStarted
	}
	l.started = true

	l.stopped.Add(1)
	go l.run()

	l.logger.Info().
		Int("batch_size", l.config.BatchSize).
		Int("queue_size", l.config.QueueSize).
		Msg("match loop started")
	return nil
}

// Close stops the owner goroutine and rejects further requests. Requests
// already queued receive ErrLoopClosed. Close is idempotent.
func (l *Loop[T]) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	started := l.started
	l.mu.Unlock()

	close(l.done)
	if started {
		l.stopped.Wait()
	}

	l.logger.Info().Msg("match loop closed")
	return nil
}

// Register submits a pattern registration and waits for the loop to apply it.
func (l *Loop[T]) Register(ctx context.Context, topicPattern string, id T) error {
	resp, err := l.submit(ctx, request[T]{
		register: true,
		pattern:  topicPattern,
		id:       id,
		reply:    make(chan response[T], 1),
	})
	if err != nil {
		return err
	}
	return resp.err
}

// Match submits a topic lookup and waits for the result.
func (l *Loop[T]) Match(ctx context.Context, topic string) ([]pattern.Match[T], error) {
	resp, err := l.submit(ctx, request[T]{
		pattern: topic,
		reply:   make(chan response[T], 1),
	})
	if err != nil {
		return nil, err
	}
	return resp.matches, resp.err
}

func (l *Loop[T]) submit(ctx context.Context, req request[T]) (response[T], error) {
	l.mu.Lock()
	if !l.started {
		l.mu.Unlock()
		return response[T]{}, ErrNotStarted
	}
	if l.closed {
		l.mu.Unlock()
		return response[T]{}, ErrLoopClosed
	}
	l.mu.Unlock()

	select {
	case l.queue <- req:
	case <-l.done:
		return response[T]{}, ErrLoopClosed
	case <-ctx.Done():
		return response[T]{}, ctx.Err()
	}

	// The reply channel is buffered, so the loop never blocks on a caller
	// that gave up.
	select {
	case resp := <-req.reply:
		return resp, nil
	case <-l.done:
		return response[T]{}, ErrLoopClosed
	case <-ctx.Done():
		return response[T]{}, ctx.Err()
	}
}

// run is the owner goroutine: wake on a request, drain a small batch, serve
// each in order, repeat.
func (l *Loop[T]) run() {
	defer l.stopped.Done()

	batch := make([]request[T], 0, l.config.BatchSize)
	for {
		select {
		case <-l.done:
			return
		case req := <-l.queue:
			batch = append(batch[:0], req)
		drain:
			for len(batch) < l.config.BatchSize {
				select {
				case more := <-l.queue:
					batch = append(batch, more)
				default:
					break drain
				}
			}
			for _, r := range batch {
				r.reply <- l.serve(r)
			}
			l.logger.Debug().Int("batch", len(batch)).Msg("drained request batch")
		}
	}
}

func (l *Loop[T]) serve(req request[T]) response[T] {
	if req.register {
		return response[T]{err: l.trie.Register(req.pattern, req.id)}
	}
	matches, err := l.trie.Match(req.pattern)
	return response[T]{matches: matches, err: err}
}

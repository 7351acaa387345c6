// Package eventloop provides the host work queue that owns a thread.Manager.
//
// A Loop runs posted work items one at a time on a single goroutine, in
// the order they were posted. It also acts as the device event bus: events
// posted with PostEvent are delivered to every handler registered with
// OnEvent, on the loop goroutine.
package eventloop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mash-protocol/mash-thread/pkg/thread"
)

// ErrStopped is returned by Call when the loop is not running.
var ErrStopped = errors.New("event loop stopped")

// EventHandler receives device events.
type EventHandler func(ev thread.Event)

// Config configures a Loop.
type Config struct {
	// Logger is used for debug logging.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// Loop is a single-goroutine work queue. Post and PostEvent never block and
// never run work inline, so they are safe to call from work items.
type Loop struct {
	mu       sync.Mutex
	queue    []func()
	wake     chan struct{}
	handlers []EventHandler

	// lifecycle serializes Start and Stop. ctx and cancel are guarded by mu.
	lifecycle sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	running   atomic.Bool

	logger *slog.Logger
}

var (
	_ thread.Scheduler   = (*Loop)(nil)
	_ thread.EventPoster = (*Loop)(nil)
)

// New creates a stopped Loop.
func New(config Config) *Loop {
	return &Loop{
		wake:   make(chan struct{}, 1),
		logger: config.Logger,
	}
}

// Start begins processing work on a new goroutine.
func (l *Loop) Start() {
	l.lifecycle.Lock()
	defer l.lifecycle.Unlock()
	if l.running.Load() {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.mu.Lock()
	l.ctx, l.cancel = ctx, cancel
	l.running.Store(true)
	l.mu.Unlock()

	l.wg.Add(1)
	go l.run(ctx)
}

// Stop ends processing and waits for the current work item to finish.
// Work still queued is discarded.
func (l *Loop) Stop() {
	l.lifecycle.Lock()
	defer l.lifecycle.Unlock()
	if !l.running.Load() {
		return
	}

	l.mu.Lock()
	l.running.Store(false)
	cancel := l.cancel
	l.mu.Unlock()

	cancel()
	l.wg.Wait()

	l.mu.Lock()
	dropped := len(l.queue)
	l.queue = nil
	l.mu.Unlock()
	l.debugLog("event loop stopped", "dropped", dropped)
}

// Running reports whether the loop is processing work.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// Post queues fn to run on the loop goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Call runs fn on the loop goroutine and waits for it to return. It must
// not be called from a work item.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	l.mu.Lock()
	running, loopCtx := l.running.Load(), l.ctx
	l.mu.Unlock()
	if !running {
		return ErrStopped
	}
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-loopCtx.Done():
		return ErrStopped
	}
}

// CallErr runs fn on the loop goroutine and returns its error. If ctx ends
// first, fn may still run later; its result is then discarded.
func (l *Loop) CallErr(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	if err := l.Call(ctx, func() { result <- fn() }); err != nil {
		return err
	}
	return <-result
}

// OnEvent registers h for device events.
func (l *Loop) OnEvent(h EventHandler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers = append(l.handlers, h)
}

// PostEvent queues delivery of ev to all handlers.
func (l *Loop) PostEvent(ev thread.Event) {
	l.Post(func() {
		l.mu.Lock()
		handlers := make([]EventHandler, len(l.handlers))
		copy(handlers, l.handlers)
		l.mu.Unlock()

		l.debugLog("device event", "type", ev.Type, "role", ev.Role, "attached", ev.Attached)
		for _, h := range handlers {
			h(ev)
		}
	})
}

func (l *Loop) run(ctx context.Context) {
	defer l.wg.Done()
	for {
		for {
			fn := l.next()
			if fn == nil {
				break
			}
			fn()
			if ctx.Err() != nil {
				return
			}
		}

		select {
		case <-l.wake:
		case <-ctx.Done():
			return
		}
	}
}

func (l *Loop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}

// debugLog logs a debug message if logging is enabled.
func (l *Loop) debugLog(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Debug(msg, args...)
	}
}

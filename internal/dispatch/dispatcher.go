package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/nikbrunner/synthcache/internal/analyzer"
	"github.com/nikbrunner/synthcache/internal/model"
)

// ErrClosed is returned when submitting to a stopped dispatcher.
var ErrClosed = errors.New("dispatcher is closed")

// ErrQueueFull is returned by TrySubmit when the buffer is full.
var ErrQueueFull = errors.New("dispatch queue is full")

// EventKind distinguishes the sources of analysis work.
type EventKind int

const (
	// PageLoaded carries a signal already extracted from a loaded page.
	PageLoaded EventKind = iota
	// BookmarkCreated carries only a URL; the page has to be fetched.
	BookmarkCreated
)

func (k EventKind) String() string {
	switch k {
	case PageLoaded:
		return "page_loaded"
	case BookmarkCreated:
		return "bookmark_created"
	default:
		return "unknown"
	}
}

// Event is one unit of work for the dispatcher.
type Event struct {
	Kind     EventKind
	URL      string
	Mode     model.PrivacyMode
	Signal   analyzer.PageSignal
	HasVideo bool
}

// Handler runs the analysis pipeline for one event.
type Handler interface {
	HandleEvent(ctx context.Context, ev Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, ev Event) error

func (f HandlerFunc) HandleEvent(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Dispatcher feeds events to a handler from a single goroutine, so at most
// one analysis runs at a time.
type Dispatcher struct {
	events  chan Event
	handler Handler
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewDispatcher creates a Dispatcher with room for buffer pending events.
func NewDispatcher(handler Handler, buffer int, logger *slog.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		events:  make(chan Event, buffer),
		handler: handler,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Submit queues ev, blocking while the buffer is full.
func (d *Dispatcher) Submit(ctx context.Context, ev Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	select {
	case d.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySubmit queues ev without blocking.
func (d *Dispatcher) TrySubmit(ev Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	select {
	case d.events <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run consumes events until ctx is cancelled or Close is called and the
// buffer has drained. Handler errors are logged and never stop the loop.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-d.events:
			if !ok {
				return nil
			}
			if err := d.handler.HandleEvent(ctx, ev); err != nil {
				d.logger.Error("event failed", "event", ev.Kind.String(), "url", ev.URL, "error", err)
			}
		}
	}
}

// Close stops accepting events. Run returns once pending events are handled.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	close(d.events)
}

// Done is closed when Run returns.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

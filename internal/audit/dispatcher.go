package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/BruksfildServices01/stay-booking/internal/models"
	"github.com/BruksfildServices01/stay-booking/internal/query"
)

type Event struct {
	ActorID  string
	Action   string
	Entity   string
	EntityID string
	Metadata any
}

// Recorder accepts audit events without blocking the caller.
type Recorder interface {
	Dispatch(ev Event)
}

// Sink persists a single event.
type Sink interface {
	Log(ctx context.Context, ev Event) error
}

// Reader lists stored events. q carries the caller's filters, sort and page.
type Reader interface {
	Find(ctx context.Context, q query.Query) ([]models.AuditLog, error)
}

type Dispatcher struct {
	sink  Sink
	queue chan Event
	log   *slog.Logger
	wg    sync.WaitGroup

	// mu guards closed and the close of queue against concurrent sends.
	mu     sync.RWMutex
	closed bool
}

const queueSize = 100

func NewDispatcher(sink Sink, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, queueSize),
		log:   log,
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.sink.Log(ctx, ev); err != nil {
			d.log.Error("audit error", "action", ev.Action, "entity", ev.Entity, "err", err)
		}
		cancel()
	}
}

// Dispatch never blocks; a full queue drops the event. Events sent after Close
// are dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", "action", ev.Action, "entity", ev.Entity)
	}
}

// Close stops accepting events and waits for queued ones to be written.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

type Discard struct{}

func (Discard) Dispatch(Event) {}

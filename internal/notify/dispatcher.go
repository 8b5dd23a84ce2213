package notify

import (
	"context"
	"time"

	"doctrack-go/internal/platform/metrics"
	"doctrack-go/pkg/logger"
	"github.com/google/uuid"
)

const (
	defaultBufferSize = 256
	emitTimeout       = 5 * time.Second
)

// Publisher is the contract domain services publish through. Publishing must
// never block the write path that triggered the event.
type Publisher interface {
	Publish(event Event)
}

// Dispatcher buffers events and delivers them to a sink from a background
// worker. A full buffer drops the event; delivery is best-effort by contract.
type Dispatcher struct {
	sink    Sink
	log     logger.Logger
	metrics *metrics.Metrics
	inbox   chan Event
}

func NewDispatcher(sink Sink, bufferSize int, log logger.Logger, m *metrics.Metrics) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Dispatcher{
		sink:    sink,
		log:     log,
		metrics: m,
		inbox:   make(chan Event, bufferSize),
	}
}

func (d *Dispatcher) Publish(event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	select {
	case d.inbox <- event:
		if d.metrics != nil {
			d.metrics.NotificationsPublished.Inc()
		}
	default:
		if d.metrics != nil {
			d.metrics.NotificationsDropped.Inc()
		}
		d.log.Warn("notify: buffer full, event dropped",
			"kind", event.Kind,
			"target_user_id", event.TargetUserID,
		)
	}
}

// Run drains the inbox until the context is cancelled. Sink failures are
// logged and the worker moves on; nothing is retried.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-d.inbox:
			emitCtx, cancel := context.WithTimeout(context.Background(), emitTimeout)
			if err := d.sink.Emit(emitCtx, event); err != nil {
				d.log.Error("notify: emit failed",
					"err", err,
					"kind", event.Kind,
					"target_user_id", event.TargetUserID,
				)
			}
			cancel()
		}
	}
}

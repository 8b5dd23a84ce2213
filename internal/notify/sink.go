package notify

import (
	"context"
	"sync"

	"doctrack-go/pkg/logger"
)

// Sink accepts events for delivery. Implementations must not be relied on
// for correctness of the write path that produced the event.
type Sink interface {
	Emit(ctx context.Context, event Event) error
}

// LogSink records events in the application log. It is the fallback when no
// outbox backend is configured.
type LogSink struct {
	log logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Emit(_ context.Context, event Event) error {
	s.log.Info("notify: event",
		"event_id", event.ID,
		"target_user_id", event.TargetUserID,
		"kind", event.Kind,
	)
	return nil
}

// MemorySink collects events for assertions in tests.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Emit(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

package notify

import (
	"context"
	"testing"
	"time"

	"doctrack-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSink(t *testing.T) {
	sink := NewMemorySink()
	d := NewDispatcher(sink, 8, logger.NewNop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	d.Publish(Event{TargetUserID: "user-b", Kind: KindConnectionRequest})

	require.Eventually(t, func() bool {
		return len(sink.Events()) == 1
	}, time.Second, 10*time.Millisecond)

	event := sink.Events()[0]
	assert.Equal(t, "user-b", event.TargetUserID)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestPublishNeverBlocksOnFullBuffer(t *testing.T) {
	sink := NewMemorySink()
	d := NewDispatcher(sink, 1, logger.NewNop(), nil)

	// No worker running: the second publish must drop, not block.
	done := make(chan struct{})
	go func() {
		d.Publish(Event{TargetUserID: "user-a", Kind: KindDocumentShared})
		d.Publish(Event{TargetUserID: "user-b", Kind: KindDocumentShared})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on full buffer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	require.Eventually(t, func() bool {
		return len(sink.Events()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "user-a", sink.Events()[0].TargetUserID)
}

func TestRunStopsOnCancel(t *testing.T) {
	d := NewDispatcher(NewMemorySink(), 1, logger.NewNop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

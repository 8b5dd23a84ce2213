package connection

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetByID(ctx context.Context, id string) (*Connection, error)
	Create(ctx context.Context, conn *Connection) error
	// MarkAccepted transitions a row to accepted only while it is still
	// pending; it reports whether a row actually changed. The pending row is
	// the concurrency token for competing accepts.
	MarkAccepted(ctx context.Context, id string, acceptedAt time.Time) (bool, error)
	// DeletePending removes a row only while it is still pending.
	DeletePending(ctx context.Context, id string) (bool, error)
	// DeleteBetween removes every directional row linking the two users.
	DeleteBetween(ctx context.Context, userA, userB string) error
	ExistsBetween(ctx context.Context, userA, userB string) (bool, error)
	ListAccepted(ctx context.Context, ownerID string) ([]Connection, error)
	ListPendingIncoming(ctx context.Context, peerID string) ([]Connection, error)
}

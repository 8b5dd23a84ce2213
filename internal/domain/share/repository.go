package share

import "context"

type Repository interface {
	// Upsert creates the grant or, when one exists for the same
	// (document, recipient) pair, updates its permission and message. The
	// stored row is returned either way.
	Upsert(ctx context.Context, grant *SharedDocument) (*SharedDocument, error)
	GetByID(ctx context.Context, id string) (*SharedDocument, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListForRecipient(ctx context.Context, userID string) ([]IncomingShare, error)
	ListForOwner(ctx context.Context, userID string) ([]OutgoingShare, error)
}

// DocumentStore is the external ownership oracle. The core never writes
// documents; it only asks who owns one at grant time.
type DocumentStore interface {
	OwnerOf(ctx context.Context, documentID string) (string, error)
}

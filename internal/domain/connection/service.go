package connection

import (
	"context"
	"fmt"
	"time"

	"doctrack-go/internal/notify"
	"doctrack-go/internal/platform/metrics"
	"doctrack-go/pkg/logger"
	"github.com/google/uuid"
)

// IdentityLookup resolves a user-facing identifier (email) to a user id.
type IdentityLookup interface {
	ResolveIdentifier(ctx context.Context, identifier string) (string, error)
}

type Service struct {
	repo      Repository
	identity  IdentityLookup
	publisher notify.Publisher
	metrics   *metrics.Metrics
	log       logger.Logger
}

func NewService(repo Repository, identity IdentityLookup, publisher notify.Publisher, m *metrics.Metrics, log logger.Logger) *Service {
	return &Service{
		repo:      repo,
		identity:  identity,
		publisher: publisher,
		metrics:   m,
		log:       log,
	}
}

// SendRequest creates a single pending row from the requester to the resolved
// target. An existing edge in either direction, pending or accepted, is a
// conflict: a reverse pending request is not auto-accepted, the caller is
// expected to accept the inbound request instead.
func (s *Service) SendRequest(ctx context.Context, requesterID, targetIdentifier, kind string) (*Connection, error) {
	if !ValidKind(kind) {
		return nil, ErrInvalidKind
	}

	targetID, err := s.identity.ResolveIdentifier(ctx, targetIdentifier)
	if err != nil {
		return nil, fmt.Errorf("resolve target: %w", err)
	}
	if targetID == requesterID {
		return nil, ErrSelfConnection
	}

	exists, err := s.repo.ExistsBetween(ctx, requesterID, targetID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConnectionExists
	}

	conn := Connection{
		ID:      uuid.NewString(),
		OwnerID: requesterID,
		PeerID:  targetID,
		Kind:    kind,
		Status:  StatusPending,
	}
	if err := s.repo.Create(ctx, &conn); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ConnectionRequests.Inc()
	}
	s.publish(notify.Event{
		TargetUserID: targetID,
		Kind:         notify.KindConnectionRequest,
		Payload: map[string]any{
			"connection_id": conn.ID,
			"requester_id":  requesterID,
			"relationship":  kind,
		},
	})

	return &conn, nil
}

// Accept transitions the pending row and creates the mirror row as one
// transaction. Rolling both into the same unit is what keeps the graph
// symmetric: a transition without a mirror is never visible.
func (s *Service) Accept(ctx context.Context, connectionID, actingUserID string) (*Connection, error) {
	var result Connection
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		conn, err := tx.GetByID(ctx, connectionID)
		if err != nil {
			return err
		}
		if conn.PeerID != actingUserID {
			return ErrNotInvitee
		}
		if conn.Status != StatusPending {
			return ErrAlreadyResolved
		}

		now := time.Now().UTC()
		transitioned, err := tx.MarkAccepted(ctx, conn.ID, now)
		if err != nil {
			return err
		}
		if !transitioned {
			return ErrAlreadyResolved
		}

		mirror := Connection{
			ID:         uuid.NewString(),
			OwnerID:    conn.PeerID,
			PeerID:     conn.OwnerID,
			Kind:       mirrorKind(conn.Kind),
			Status:     StatusAccepted,
			AcceptedAt: &now,
		}
		if err := tx.Create(ctx, &mirror); err != nil {
			return err
		}

		conn.Status = StatusAccepted
		conn.AcceptedAt = &now
		result = *conn
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ConnectionsAccepted.Inc()
	}
	return &result, nil
}

// Decline deletes the lone pending row. No mirror ever existed, so there is
// nothing symmetric to clean up.
func (s *Service) Decline(ctx context.Context, connectionID, actingUserID string) error {
	conn, err := s.repo.GetByID(ctx, connectionID)
	if err != nil {
		return err
	}
	if conn.PeerID != actingUserID {
		return ErrNotInvitee
	}
	if conn.Status != StatusPending {
		return ErrAlreadyResolved
	}

	deleted, err := s.repo.DeletePending(ctx, connectionID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrAlreadyResolved
	}
	return nil
}

// Remove deletes both directional rows between the endpoints of the
// referenced row, whichever direction was passed in.
func (s *Service) Remove(ctx context.Context, connectionID, actingUserID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		conn, err := tx.GetByID(ctx, connectionID)
		if err != nil {
			return err
		}
		if conn.OwnerID != actingUserID && conn.PeerID != actingUserID {
			return ErrNotParticipant
		}
		return tx.DeleteBetween(ctx, conn.OwnerID, conn.PeerID)
	})
}

func (s *Service) publish(event notify.Event) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(event)
}

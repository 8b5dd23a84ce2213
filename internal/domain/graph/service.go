package graph

import (
	"context"

	"doctrack-go/internal/domain/connection"
	"doctrack-go/internal/domain/household"
	"doctrack-go/internal/domain/share"
	"doctrack-go/internal/domain/user"
)

// Read-side composition over the write-side stores. Nothing here mutates
// state or raises domain errors; it only reflects what the write paths left
// behind.

type ConnectionReader interface {
	ListAccepted(ctx context.Context, ownerID string) ([]connection.Connection, error)
	ListPendingIncoming(ctx context.Context, peerID string) ([]connection.Connection, error)
}

type ProfileReader interface {
	GetSummaries(ctx context.Context, userIDs []string) (map[string]user.Summary, error)
}

type HouseholdReader interface {
	ListForUser(ctx context.Context, userID string) ([]household.Household, error)
}

type ShareReader interface {
	ListForRecipient(ctx context.Context, userID string) ([]share.IncomingShare, error)
}

// ConnectionView is an accepted edge with the peer's profile attached.
type ConnectionView struct {
	Connection connection.Connection
	Peer       user.Summary
}

// PendingView is an incoming request with the requester's profile attached.
type PendingView struct {
	Connection connection.Connection
	Requester  user.Summary
}

// Overview carries the dashboard counts.
type Overview struct {
	Connections     int `json:"connections"`
	PendingIncoming int `json:"pending_incoming"`
	Households      int `json:"households"`
	SharedWithMe    int `json:"shared_with_me"`
}

type Service struct {
	connections ConnectionReader
	profiles    ProfileReader
	households  HouseholdReader
	shares      ShareReader
}

func NewService(connections ConnectionReader, profiles ProfileReader, households HouseholdReader, shares ShareReader) *Service {
	return &Service{
		connections: connections,
		profiles:    profiles,
		households:  households,
		shares:      shares,
	}
}

// Connections lists who the user is connected to. Accepted rows owned by the
// user are, by mirror symmetry, exactly the accepted relationships regardless
// of who initiated.
func (s *Service) Connections(ctx context.Context, userID string) ([]ConnectionView, error) {
	rows, err := s.connections.ListAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}

	peerIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		peerIDs = append(peerIDs, row.PeerID)
	}
	summaries, err := s.profiles.GetSummaries(ctx, peerIDs)
	if err != nil {
		return nil, err
	}

	views := make([]ConnectionView, 0, len(rows))
	for _, row := range rows {
		peer, ok := summaries[row.PeerID]
		if !ok {
			peer = user.Summary{UserID: row.PeerID}
		}
		views = append(views, ConnectionView{Connection: row, Peer: peer})
	}
	return views, nil
}

// PendingIncoming lists requests awaiting the user's decision.
func (s *Service) PendingIncoming(ctx context.Context, userID string) ([]PendingView, error) {
	rows, err := s.connections.ListPendingIncoming(ctx, userID)
	if err != nil {
		return nil, err
	}

	requesterIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		requesterIDs = append(requesterIDs, row.OwnerID)
	}
	summaries, err := s.profiles.GetSummaries(ctx, requesterIDs)
	if err != nil {
		return nil, err
	}

	views := make([]PendingView, 0, len(rows))
	for _, row := range rows {
		requester, ok := summaries[row.OwnerID]
		if !ok {
			requester = user.Summary{UserID: row.OwnerID}
		}
		views = append(views, PendingView{Connection: row, Requester: requester})
	}
	return views, nil
}

func (s *Service) Overview(ctx context.Context, userID string) (*Overview, error) {
	accepted, err := s.connections.ListAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}
	pending, err := s.connections.ListPendingIncoming(ctx, userID)
	if err != nil {
		return nil, err
	}
	households, err := s.households.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	incoming, err := s.shares.ListForRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Connections:     len(accepted),
		PendingIncoming: len(pending),
		Households:      len(households),
		SharedWithMe:    len(incoming),
	}, nil
}

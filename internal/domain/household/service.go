package household

import (
	"context"
	"strings"
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

// Create writes the household, the creator's admin membership and every
// resolved member as one transaction, so a household is never visible without
// its admin. Identifiers that do not resolve are collected on the result
// instead of failing the whole creation.
func (s *Service) Create(ctx context.Context, creatorID, name string, memberIdentifiers []string) (*CreateResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	memberIDs := make([]string, 0, len(memberIdentifiers))
	seen := map[string]struct{}{creatorID: {}}
	var unresolved []string

	for _, identifier := range memberIdentifiers {
		identifier = strings.TrimSpace(identifier)
		if identifier == "" {
			continue
		}
		userID, err := s.identity.ResolveIdentifier(ctx, identifier)
		if err != nil {
			s.log.BusinessError("household: member identifier unresolved", err, "identifier", identifier)
			unresolved = append(unresolved, identifier)
			continue
		}
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}
		memberIDs = append(memberIDs, userID)
	}

	result := CreateResult{Unresolved: unresolved}
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		h := Household{
			ID:        uuid.NewString(),
			Name:      name,
			CreatedBy: creatorID,
		}
		if err := tx.CreateHousehold(ctx, &h); err != nil {
			return err
		}

		now := time.Now().UTC()
		admin := Member{HouseholdID: h.ID, UserID: creatorID, Role: RoleAdmin, JoinedAt: now}
		if err := tx.AddMember(ctx, &admin); err != nil {
			return err
		}
		members := []Member{admin}

		for _, userID := range memberIDs {
			member := Member{HouseholdID: h.ID, UserID: userID, Role: RoleMember, JoinedAt: now}
			if err := tx.AddMember(ctx, &member); err != nil {
				return err
			}
			members = append(members, member)
		}

		result.Household = h
		result.Members = members
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.HouseholdsCreated.Inc()
	}
	for _, userID := range memberIDs {
		s.publish(notify.Event{
			TargetUserID: userID,
			Kind:         notify.KindHouseholdAdded,
			Payload: map[string]any{
				"household_id":   result.Household.ID,
				"household_name": result.Household.Name,
				"added_by":       creatorID,
			},
		})
	}

	return &result, nil
}

// ListForUser returns every household the user belongs to, with full member
// lists.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Summary, error) {
	households, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(households))
	for _, h := range households {
		members, err := s.repo.ListMembers(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, Summary{Household: h, Members: members})
	}
	return summaries, nil
}

func (s *Service) publish(event notify.Event) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(event)
}

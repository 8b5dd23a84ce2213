package user

import (
	"context"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ResolveIdentifier maps a user-facing identifier (email) to an internal
// user id.
func (s *Service) ResolveIdentifier(ctx context.Context, identifier string) (string, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" {
		return "", ErrIdentifierRequired
	}

	profile, err := s.repo.GetByEmail(ctx, identifier)
	if err != nil {
		return "", err
	}
	return profile.UserID, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpsertProfile records the profile attributes the auth layer saw on the
// token. Empty fields stay untouched on conflict.
func (s *Service) UpsertProfile(ctx context.Context, userID, email, displayName, avatarURL string) error {
	if userID == "" {
		return ErrIdentifierRequired
	}

	profile := Profile{UserID: userID}
	if email != "" {
		lowered := strings.ToLower(email)
		profile.Email = &lowered
	}
	if displayName != "" {
		profile.DisplayName = &displayName
	}
	if avatarURL != "" {
		profile.AvatarURL = &avatarURL
	}

	return s.repo.UpsertProfile(ctx, &profile)
}

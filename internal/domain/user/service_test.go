package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	profiles map[string]*Profile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{profiles: make(map[string]*Profile)}
}

func (r *fakeUserRepo) UpsertProfile(_ context.Context, profile *Profile) error {
	existing, ok := r.profiles[profile.UserID]
	if !ok {
		clone := *profile
		r.profiles[profile.UserID] = &clone
		return nil
	}
	if profile.Email != nil {
		existing.Email = profile.Email
	}
	if profile.DisplayName != nil {
		existing.DisplayName = profile.DisplayName
	}
	if profile.AvatarURL != nil {
		existing.AvatarURL = profile.AvatarURL
	}
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*Profile, error) {
	for _, profile := range r.profiles {
		if profile.Email != nil && *profile.Email == email {
			return profile, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID string) (*Profile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return profile, nil
}

func (r *fakeUserRepo) GetSummaries(_ context.Context, userIDs []string) (map[string]Summary, error) {
	out := make(map[string]Summary)
	for _, id := range userIDs {
		if profile, ok := r.profiles[id]; ok {
			out[id] = Summary{
				UserID:      profile.UserID,
				Email:       profile.Email,
				DisplayName: profile.DisplayName,
				AvatarURL:   profile.AvatarURL,
			}
		}
	}
	return out, nil
}

func TestResolveIdentifierNormalizesEmail(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := NewService(repo)

	require.NoError(t, svc.UpsertProfile(ctx, "user-a", "Ada@Example.com", "Ada", ""))

	resolved, err := svc.ResolveIdentifier(ctx, "  ADA@example.COM  ")
	require.NoError(t, err)
	assert.Equal(t, "user-a", resolved)
}

func TestResolveIdentifierUnknown(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeUserRepo())

	_, err := svc.ResolveIdentifier(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestResolveIdentifierBlank(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeUserRepo())

	_, err := svc.ResolveIdentifier(ctx, "   ")
	assert.ErrorIs(t, err, ErrIdentifierRequired)
}

func TestUpsertProfileKeepsExistingFields(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := NewService(repo)

	require.NoError(t, svc.UpsertProfile(ctx, "user-a", "ada@example.com", "Ada", "https://example.com/a.png"))
	require.NoError(t, svc.UpsertProfile(ctx, "user-a", "", "", ""))

	profile, err := svc.GetProfile(ctx, "user-a")
	require.NoError(t, err)
	require.NotNil(t, profile.Email)
	assert.Equal(t, "ada@example.com", *profile.Email)
	require.NotNil(t, profile.DisplayName)
	assert.Equal(t, "Ada", *profile.DisplayName)
}

func TestUpsertProfileRequiresUserID(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeUserRepo())

	err := svc.UpsertProfile(ctx, "", "ada@example.com", "", "")
	assert.ErrorIs(t, err, ErrIdentifierRequired)
}

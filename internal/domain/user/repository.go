package user

import "context"

type Repository interface {
	UpsertProfile(ctx context.Context, profile *Profile) error
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	GetByID(ctx context.Context, userID string) (*Profile, error)
	GetSummaries(ctx context.Context, userIDs []string) (map[string]Summary, error)
}

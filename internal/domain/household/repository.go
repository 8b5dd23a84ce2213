package household

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateHousehold(ctx context.Context, h *Household) error
	AddMember(ctx context.Context, member *Member) error
	ListForUser(ctx context.Context, userID string) ([]Household, error)
	ListMembers(ctx context.Context, householdID string) ([]MemberProfile, error)
}

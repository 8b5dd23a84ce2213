package household

import (
	"context"

	domain "doctrack-go/internal/domain/household"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateHousehold(ctx context.Context, h *domain.Household) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *domain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID string) ([]domain.Household, error) {
	var households []domain.Household
	err := r.db.WithContext(ctx).
		Table("households").
		Joins("join household_members on household_members.household_id = households.id").
		Where("household_members.user_id = ?", userID).
		Order("households.created_at asc").
		Find(&households).Error
	if err != nil {
		return nil, err
	}
	return households, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, householdID string) ([]domain.MemberProfile, error) {
	var members []domain.MemberProfile
	err := r.db.WithContext(ctx).
		Table("household_members").
		Select("household_members.user_id, household_members.role, household_members.joined_at, user_profiles.email, user_profiles.display_name, user_profiles.avatar_url").
		Joins("left join user_profiles on user_profiles.user_id = household_members.user_id").
		Where("household_members.household_id = ?", householdID).
		Order("household_members.joined_at asc").
		Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

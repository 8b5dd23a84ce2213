package household

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type Household struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	CreatedBy string    `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type Member struct {
	HouseholdID string    `gorm:"type:uuid;primaryKey"`
	UserID      string    `gorm:"type:uuid;primaryKey;index"`
	Role        string    `gorm:"type:varchar(16);not null"`
	JoinedAt    time.Time `gorm:"autoCreateTime"`
}

func (Member) TableName() string {
	return "household_members"
}

// MemberProfile is a member row joined with the user's profile.
type MemberProfile struct {
	UserID      string    `json:"user_id"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
	Email       *string   `json:"email"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
}

// Summary is a household with its full member list.
type Summary struct {
	Household Household
	Members   []MemberProfile
}

// CreateResult carries the created household together with the identifiers
// that could not be resolved. Unresolved entries do not fail the creation;
// callers surface them to the user.
type CreateResult struct {
	Household  Household
	Members    []Member
	Unresolved []string
}

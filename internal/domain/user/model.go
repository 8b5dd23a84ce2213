package user

import "time"

type Profile struct {
	UserID      string    `gorm:"type:uuid;primaryKey"`
	Email       *string   `gorm:"type:text;index"`
	DisplayName *string   `gorm:"type:text"`
	AvatarURL   *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Summary is the embeddable slice of a profile that list endpoints attach to
// connections, household members and shared documents.
type Summary struct {
	UserID      string  `json:"user_id"`
	Email       *string `json:"email"`
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

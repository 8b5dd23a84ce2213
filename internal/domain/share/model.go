package share

import "time"

const (
	PermissionView = "view"
	PermissionEdit = "edit"
)

// SharedDocument is a capability grant: it allows RecipientID to act on
// DocumentID with the given permission. At most one row exists per
// (DocumentID, RecipientID); re-sharing updates it.
type SharedDocument struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	DocumentID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_share_target"`
	RecipientID string    `gorm:"type:uuid;not null;index;uniqueIndex:idx_share_target"`
	OwnerID     string    `gorm:"type:uuid;not null;index"`
	Permission  string    `gorm:"type:varchar(8);not null"`
	Message     *string   `gorm:"type:text"`
	SharedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func ValidPermission(permission string) bool {
	return permission == PermissionView || permission == PermissionEdit
}

// DocumentSummary is the slice of a document embedded in share listings.
type DocumentSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// PersonSummary identifies the counterparty of a share.
type PersonSummary struct {
	UserID      string  `json:"user_id"`
	Email       *string `json:"email"`
	DisplayName *string `json:"display_name"`
}

// IncomingShare is a grant as seen by its recipient.
type IncomingShare struct {
	Share    SharedDocument
	Document DocumentSummary
	Owner    PersonSummary
}

// OutgoingShare is a grant as seen by its owner.
type OutgoingShare struct {
	Share     SharedDocument
	Document  DocumentSummary
	Recipient PersonSummary
}

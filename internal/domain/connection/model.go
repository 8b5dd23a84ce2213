package connection

import "time"

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
)

const (
	KindSpouse  = "spouse"
	KindParent  = "parent"
	KindChild   = "child"
	KindSibling = "sibling"
	KindFriend  = "friend"
	KindOther   = "other"
)

// Connection is a directed edge. An accepted relationship is always stored as
// two rows, one per direction; a lone pending row is an outstanding request
// from OwnerID to PeerID and is never mutual.
type Connection struct {
	ID         string     `gorm:"type:uuid;primaryKey"`
	OwnerID    string     `gorm:"type:uuid;not null;index;uniqueIndex:idx_connection_edge"`
	PeerID     string     `gorm:"type:uuid;not null;index;uniqueIndex:idx_connection_edge"`
	Kind       string     `gorm:"type:varchar(16);not null"`
	Status     string     `gorm:"type:varchar(16);not null"`
	CreatedAt  time.Time  `gorm:"autoCreateTime"`
	AcceptedAt *time.Time `gorm:"type:timestamptz"`
}

func ValidKind(kind string) bool {
	switch kind {
	case KindSpouse, KindParent, KindChild, KindSibling, KindFriend, KindOther:
		return true
	}
	return false
}

// mirrorKind is the relationship as seen from the other endpoint.
func mirrorKind(kind string) string {
	switch kind {
	case KindParent:
		return KindChild
	case KindChild:
		return KindParent
	default:
		return kind
	}
}

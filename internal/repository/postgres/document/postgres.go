package document

import (
	"context"
	"errors"

	sharedomain "doctrack-go/internal/domain/share"
	"gorm.io/gorm"
)

// The documents table is owned by the capture/storage side of the product;
// this repository only answers the ownership question the grant path needs.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) OwnerOf(ctx context.Context, documentID string) (string, error) {
	var ownerID string
	err := s.db.WithContext(ctx).
		Table("documents").
		Select("owner_id").
		Where("id = ?", documentID).
		Take(&ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", sharedomain.ErrDocumentNotFound
	}
	if err != nil {
		return "", err
	}
	return ownerID, nil
}

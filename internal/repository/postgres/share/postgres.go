package share

import (
	"context"
	"errors"
	"time"

	domain "doctrack-go/internal/domain/share"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, grant *domain.SharedDocument) (*domain.SharedDocument, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "document_id"}, {Name: "recipient_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"permission": grant.Permission,
				"message":    grant.Message,
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(grant).Error
	if err != nil {
		return nil, err
	}

	// On conflict the original row keeps its id; re-read by the natural key.
	var saved domain.SharedDocument
	err = r.db.WithContext(ctx).
		Where("document_id = ? AND recipient_id = ?", grant.DocumentID, grant.RecipientID).
		First(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.SharedDocument, error) {
	var grant domain.SharedDocument
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&grant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrShareNotFound
		}
		return nil, err
	}
	return &grant, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.SharedDocument{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

type shareRow struct {
	ID               string    `gorm:"column:id"`
	DocumentID       string    `gorm:"column:document_id"`
	RecipientID      string    `gorm:"column:recipient_id"`
	OwnerID          string    `gorm:"column:owner_id"`
	Permission       string    `gorm:"column:permission"`
	Message          *string   `gorm:"column:message"`
	SharedAt         time.Time `gorm:"column:shared_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
	DocumentTitle    string    `gorm:"column:document_title"`
	OtherEmail       *string   `gorm:"column:other_email"`
	OtherDisplayName *string   `gorm:"column:other_display_name"`
}

func (row shareRow) grant() domain.SharedDocument {
	return domain.SharedDocument{
		ID:          row.ID,
		DocumentID:  row.DocumentID,
		RecipientID: row.RecipientID,
		OwnerID:     row.OwnerID,
		Permission:  row.Permission,
		Message:     row.Message,
		SharedAt:    row.SharedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func (r *PostgresRepository) ListForRecipient(ctx context.Context, userID string) ([]domain.IncomingShare, error) {
	var rows []shareRow
	err := r.db.WithContext(ctx).
		Table("shared_documents").
		Select("shared_documents.*, documents.title as document_title, user_profiles.email as other_email, user_profiles.display_name as other_display_name").
		Joins("left join documents on documents.id = shared_documents.document_id").
		Joins("left join user_profiles on user_profiles.user_id = shared_documents.owner_id").
		Where("shared_documents.recipient_id = ?", userID).
		Order("shared_documents.shared_at desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	shares := make([]domain.IncomingShare, 0, len(rows))
	for _, row := range rows {
		shares = append(shares, domain.IncomingShare{
			Share:    row.grant(),
			Document: domain.DocumentSummary{ID: row.DocumentID, Title: row.DocumentTitle},
			Owner: domain.PersonSummary{
				UserID:      row.OwnerID,
				Email:       row.OtherEmail,
				DisplayName: row.OtherDisplayName,
			},
		})
	}
	return shares, nil
}

func (r *PostgresRepository) ListForOwner(ctx context.Context, userID string) ([]domain.OutgoingShare, error) {
	var rows []shareRow
	err := r.db.WithContext(ctx).
		Table("shared_documents").
		Select("shared_documents.*, documents.title as document_title, user_profiles.email as other_email, user_profiles.display_name as other_display_name").
		Joins("left join documents on documents.id = shared_documents.document_id").
		Joins("left join user_profiles on user_profiles.user_id = shared_documents.recipient_id").
		Where("shared_documents.owner_id = ?", userID).
		Order("shared_documents.shared_at desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	shares := make([]domain.OutgoingShare, 0, len(rows))
	for _, row := range rows {
		shares = append(shares, domain.OutgoingShare{
			Share:    row.grant(),
			Document: domain.DocumentSummary{ID: row.DocumentID, Title: row.DocumentTitle},
			Recipient: domain.PersonSummary{
				UserID:      row.RecipientID,
				Email:       row.OtherEmail,
				DisplayName: row.OtherDisplayName,
			},
		})
	}
	return shares, nil
}

package connection

import (
	"context"
	"errors"
	"time"

	domain "doctrack-go/internal/domain/connection"
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

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Connection, error) {
	var conn domain.Connection
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&conn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrConnectionNotFound
		}
		return nil, err
	}
	return &conn, nil
}

func (r *PostgresRepository) Create(ctx context.Context, conn *domain.Connection) error {
	return r.db.WithContext(ctx).Create(conn).Error
}

func (r *PostgresRepository) MarkAccepted(ctx context.Context, id string, acceptedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Connection{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]interface{}{
			"status":      domain.StatusAccepted,
			"accepted_at": acceptedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) DeletePending(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Delete(&domain.Connection{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) DeleteBetween(ctx context.Context, userA, userB string) error {
	return r.db.WithContext(ctx).
		Where("(owner_id = ? AND peer_id = ?) OR (owner_id = ? AND peer_id = ?)", userA, userB, userB, userA).
		Delete(&domain.Connection{}).Error
}

func (r *PostgresRepository) ExistsBetween(ctx context.Context, userA, userB string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Connection{}).
		Where("(owner_id = ? AND peer_id = ?) OR (owner_id = ? AND peer_id = ?)", userA, userB, userB, userA).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ListAccepted(ctx context.Context, ownerID string) ([]domain.Connection, error) {
	var rows []domain.Connection
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, domain.StatusAccepted).
		Order("accepted_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) ListPendingIncoming(ctx context.Context, peerID string) ([]domain.Connection, error) {
	var rows []domain.Connection
	err := r.db.WithContext(ctx).
		Where("peer_id = ? AND status = ?", peerID, domain.StatusPending).
		Order("created_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

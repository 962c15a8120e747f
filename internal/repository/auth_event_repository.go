package repository

import (
	"context"

	"gorm.io/gorm"

	"garage/internal/model"
)

// AuthEventRepository defines auth audit persistence operations.
type AuthEventRepository interface {
	Create(ctx context.Context, event *model.AuthEvent) error
	CreateBatch(ctx context.Context, events []model.AuthEvent) error
	ListByEmail(ctx context.Context, email string, limit int) ([]model.AuthEvent, error)
}

type authEventRepository struct {
	db *gorm.DB
}

// NewAuthEventRepository creates a new auth event repository.
func NewAuthEventRepository(db *gorm.DB) AuthEventRepository {
	return &authEventRepository{db: db}
}

// Create creates a new auth event entry.
func (r *authEventRepository) Create(ctx context.Context, event *model.AuthEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// CreateBatch creates multiple auth event entries in a single transaction.
func (r *authEventRepository) CreateBatch(ctx context.Context, events []model.AuthEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(events, 100).Error
}

// ListByEmail returns the most recent events for email, newest first.
func (r *authEventRepository) ListByEmail(ctx context.Context, email string, limit int) ([]model.AuthEvent, error) {
	var events []model.AuthEvent
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

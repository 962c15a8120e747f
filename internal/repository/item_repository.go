package repository

import (
	"context"

	"gorm.io/gorm"

	"garage/internal/model"
)

// ItemRepository defines item persistence operations.
type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	Update(ctx context.Context, item *model.Item) error
	FindByID(ctx context.Context, id uint) (*model.Item, error)
	FindByName(ctx context.Context, name string) (*model.Item, error)
	List(ctx context.Context, offset, limit int) ([]model.Item, error)
	Delete(ctx context.Context, id uint) error
}

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository.
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

// Create creates a new item.
func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Update writes every column of an existing item. It returns
// gorm.ErrRecordNotFound when the item no longer exists.
func (r *itemRepository) Update(ctx context.Context, item *model.Item) error {
	res := r.db.WithContext(ctx).Model(item).Select("*").Omit("created_at").Updates(item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID finds an item by ID.
func (r *itemRepository) FindByID(ctx context.Context, id uint) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByName finds the first item with the given name.
func (r *itemRepository) FindByName(ctx context.Context, name string) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).Where("name = ?", name).Order("id").First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns a page of items ordered by ID.
func (r *itemRepository) List(ctx context.Context, offset, limit int) ([]model.Item, error) {
	items := make([]model.Item, 0, limit)
	if err := r.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes an item. It returns gorm.ErrRecordNotFound when nothing was deleted.
func (r *itemRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Item{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

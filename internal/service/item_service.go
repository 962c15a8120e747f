package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"garage/internal/cache"
	apperrors "garage/internal/errors"
	"garage/internal/model"
	"garage/internal/repository"
)

const (
	itemCacheTTL = 5 * time.Minute

	// DefaultListLimit is used when the client sends no limit.
	DefaultListLimit = 100
	// MaxListLimit caps every page.
	MaxListLimit = 100
)

// ItemInput holds submitted item fields. Nil fields are left unchanged on update.
type ItemInput struct {
	Name        *string
	Description *string
	Category    *model.ItemCategory
	Price       *decimal.Decimal
	Quantity    *int
}

// ItemService handles the item catalogue.
type ItemService interface {
	Create(ctx context.Context, in ItemInput) (*model.Item, error)
	List(ctx context.Context, offset, limit int) ([]model.Item, error)
	Get(ctx context.Context, id uint) (*model.Item, error)
	Update(ctx context.Context, id uint, in ItemInput) (*model.Item, error)
	Delete(ctx context.Context, id uint) error
	// Seed upserts items by name.
	Seed(ctx context.Context, items []model.Item) (created, updated int, err error)
}

type itemService struct {
	repo  repository.ItemRepository
	cache *cache.Client
}

// NewItemService creates a new item service. A nil cache disables caching.
func NewItemService(repo repository.ItemRepository, cache *cache.Client) ItemService {
	return &itemService{
		repo:  repo,
		cache: cache,
	}
}

func (s *itemService) cacheKey(id uint) string {
	return fmt.Sprintf("item:%d", id)
}

func (s *itemService) Create(ctx context.Context, in ItemInput) (*model.Item, error) {
	item := &model.Item{Category: model.ItemCategoryPart}
	in.apply(item)
	if err := validateItem(item); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

// List returns a page ordered by id. Limits above MaxListLimit are clamped.
func (s *itemService) List(ctx context.Context, offset, limit int) ([]model.Item, error) {
	if offset < 0 || limit < 1 {
		return nil, apperrors.ErrInvalidPaging
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	items, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Get retrieves an item by ID with caching.
func (s *itemService) Get(ctx context.Context, id uint) (*model.Item, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Item
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(item); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, itemCacheTTL)
	}
	return item, nil
}

// Update merges in onto the stored item and persists it.
func (s *itemService) Update(ctx context.Context, id uint, in ItemInput) (*model.Item, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	in.apply(item)
	if err := validateItem(item); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = s.cache.Delete(ctx, s.cacheKey(id))
			return nil, apperrors.ErrItemNotFound
		}
		return nil, fmt.Errorf("update item %d: %w", id, err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return item, nil
}

func (s *itemService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrItemNotFound
		}
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func (s *itemService) Seed(ctx context.Context, items []model.Item) (created, updated int, err error) {
	for i := range items {
		item := items[i]
		if err := validateItem(&item); err != nil {
			return created, updated, fmt.Errorf("seed item %q: %w", item.Name, err)
		}

		existing, err := s.repo.FindByName(ctx, item.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, updated, fmt.Errorf("seed item %q: %w", item.Name, err)
		}

		if existing != nil {
			existing.Description = item.Description
			existing.Category = item.Category
			existing.Price = item.Price
			existing.Quantity = item.Quantity
			if err := s.repo.Update(ctx, existing); err != nil {
				return created, updated, fmt.Errorf("update item %q: %w", item.Name, err)
			}
			_ = s.cache.Delete(ctx, s.cacheKey(existing.ID))
			updated++
			continue
		}

		item.ID = 0
		if err := s.repo.Create(ctx, &item); err != nil {
			return created, updated, fmt.Errorf("create item %q: %w", item.Name, err)
		}
		created++
	}
	return created, updated, nil
}

func (s *itemService) find(ctx context.Context, id uint) (*model.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, fmt.Errorf("find item %d: %w", id, err)
	}
	return item, nil
}

func (in ItemInput) apply(item *model.Item) {
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
}

func validateItem(item *model.Item) error {
	if item.Name == "" {
		return apperrors.ErrNameRequired
	}
	if item.Category == "" {
		item.Category = model.ItemCategoryPart
	}
	if !item.Category.Valid() {
		return apperrors.ErrInvalidCategory
	}
	if item.Price.IsNegative() || item.Quantity < 0 {
		return apperrors.ErrInvalidAmount
	}
	return nil
}

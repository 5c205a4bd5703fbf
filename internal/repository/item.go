package repository

import (
	"context"

	"github.com/ErlanBelekov/item-tracker/internal/domain"
)

// ItemRepository persists items. Every method that targets a single row
// filters by id AND owner in one operation; a miss of either is
// domain.ErrItemNotFound.
type ItemRepository interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Item, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*domain.Item, error)
	Insert(ctx context.Context, item *domain.Item) (*domain.Item, error)
	// Save overwrites name, description and updated_at of the row matching
	// item.ID and item.CreatedBy.
	Save(ctx context.Context, item *domain.Item) (*domain.Item, error)
	DeleteByIDAndOwner(ctx context.Context, id, ownerID int64) error
}

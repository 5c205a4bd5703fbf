package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ErlanBelekov/item-tracker/internal/domain"
	"github.com/ErlanBelekov/item-tracker/internal/metrics"
	"github.com/ErlanBelekov/item-tracker/internal/repository"
)

// ItemUsecase scopes every operation to the calling user. Items owned by
// someone else are reported as domain.ErrItemNotFound.
type ItemUsecase struct {
	repo repository.ItemRepository
	now  func() time.Time
}

func NewItemUsecase(repo repository.ItemRepository) *ItemUsecase {
	return &ItemUsecase{repo: repo, now: time.Now}
}

type CreateItemInput struct {
	UserID      int64
	Name        string
	Description string
}

type UpdateItemInput struct {
	ID          int64
	UserID      int64
	Name        string
	Description string
}

func (u *ItemUsecase) ListItems(ctx context.Context, userID int64) ([]*domain.Item, error) {
	items, err := u.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (u *ItemUsecase) GetItem(ctx context.Context, id, userID int64) (*domain.Item, error) {
	item, err := u.repo.FindByIDAndOwner(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (u *ItemUsecase) CreateItem(ctx context.Context, input CreateItemInput) (*domain.Item, error) {
	if err := domain.ValidateItemFields(input.Name, input.Description); err != nil {
		return nil, err
	}

	created, err := u.repo.Insert(ctx, &domain.Item{
		Name:        input.Name,
		Description: input.Description,
		CreatedBy:   input.UserID,
		CreatedAt:   u.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	metrics.ItemMutationsTotal.WithLabelValues("create").Inc()
	return created, nil
}

// UpdateItem overwrites name and description and stamps UpdatedAt. The
// ownership check and the write happen in the same store call.
func (u *ItemUsecase) UpdateItem(ctx context.Context, input UpdateItemInput) (*domain.Item, error) {
	if err := domain.ValidateItemFields(input.Name, input.Description); err != nil {
		return nil, err
	}

	now := u.now().UTC()
	saved, err := u.repo.Save(ctx, &domain.Item{
		ID:          input.ID,
		Name:        input.Name,
		Description: input.Description,
		CreatedBy:   input.UserID,
		UpdatedAt:   &now,
	})
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	metrics.ItemMutationsTotal.WithLabelValues("update").Inc()
	return saved, nil
}

func (u *ItemUsecase) DeleteItem(ctx context.Context, id, userID int64) error {
	if err := u.repo.DeleteByIDAndOwner(ctx, id, userID); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	metrics.ItemMutationsTotal.WithLabelValues("delete").Inc()
	return nil
}

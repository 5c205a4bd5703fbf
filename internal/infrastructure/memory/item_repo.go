package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ErlanBelekov/item-tracker/internal/domain"
)

// ItemRepository keys items by owner first and item id second, so a
// lookup can only ever reach rows belonging to the given owner.
type ItemRepository struct {
	mu     sync.RWMutex
	nextID int64
	owners map[int64]map[int64]*domain.Item
	users  *UserRepository
}

func NewItemRepository(users *UserRepository) *ItemRepository {
	return &ItemRepository{
		owners: make(map[int64]map[int64]*domain.Item),
		users:  users,
	}
}

func (r *ItemRepository) ListByOwner(_ context.Context, ownerID int64) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := r.owners[ownerID]
	items := make([]*domain.Item, 0, len(owned))
	for _, it := range owned {
		items = append(items, r.withOwnerName(it))
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (r *ItemRepository) FindByIDAndOwner(_ context.Context, id, ownerID int64) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.owners[ownerID][id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return r.withOwnerName(it), nil
}

func (r *ItemRepository) Insert(_ context.Context, item *domain.Item) (*domain.Item, error) {
	if _, ok := r.users.fullName(item.CreatedBy); !ok {
		return nil, fmt.Errorf("insert item: owner %d does not exist", item.CreatedBy)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := &domain.Item{
		ID:          r.nextID,
		Name:        item.Name,
		Description: item.Description,
		CreatedBy:   item.CreatedBy,
		CreatedAt:   item.CreatedAt,
	}

	owned, ok := r.owners[item.CreatedBy]
	if !ok {
		owned = make(map[int64]*domain.Item)
		r.owners[item.CreatedBy] = owned
	}
	owned[stored.ID] = stored

	return r.withOwnerName(stored), nil
}

func (r *ItemRepository) Save(_ context.Context, item *domain.Item) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.owners[item.CreatedBy][item.ID]
	if !ok {
		return nil, domain.ErrItemNotFound
	}

	stored.Name = item.Name
	stored.Description = item.Description
	if item.UpdatedAt != nil {
		t := *item.UpdatedAt
		stored.UpdatedAt = &t
	}
	return r.withOwnerName(stored), nil
}

func (r *ItemRepository) DeleteByIDAndOwner(_ context.Context, id, ownerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owned := r.owners[ownerID]
	if _, ok := owned[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(owned, id)
	return nil
}

// withOwnerName returns a copy of it with CreatedByName resolved.
func (r *ItemRepository) withOwnerName(it *domain.Item) *domain.Item {
	cp := *it
	if it.UpdatedAt != nil {
		t := *it.UpdatedAt
		cp.UpdatedAt = &t
	}
	cp.CreatedByName, _ = r.users.fullName(it.CreatedBy)
	return &cp
}

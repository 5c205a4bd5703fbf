package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/item-tracker/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ItemRepository struct {
	pool *pgxpool.Pool
}

func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{pool: pool}
}

// Every query below returns rows joined with the owner's full_name, in the
// column order scanItem expects.

func (r *ItemRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Item, error) {
	query := `
		SELECT i.id, i.name, i.description, i.created_by, u.full_name,
		       i.created_at, i.updated_at
		FROM items i
		JOIN users u ON u.id = i.created_by
		WHERE i.created_by = $1
		ORDER BY i.created_at ASC, i.id ASC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (r *ItemRepository) FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*domain.Item, error) {
	query := `
		SELECT i.id, i.name, i.description, i.created_by, u.full_name,
		       i.created_at, i.updated_at
		FROM items i
		JOIN users u ON u.id = i.created_by
		WHERE i.id = $1 AND i.created_by = $2`

	return scanItem(r.pool.QueryRow(ctx, query, id, ownerID))
}

func (r *ItemRepository) Insert(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	query := `
		WITH inserted AS (
			INSERT INTO items (name, description, created_by, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id, name, description, created_by, created_at, updated_at
		)
		SELECT i.id, i.name, i.description, i.created_by, u.full_name,
		       i.created_at, i.updated_at
		FROM inserted i
		JOIN users u ON u.id = i.created_by`

	created, err := scanItem(r.pool.QueryRow(ctx, query,
		item.Name, item.Description, item.CreatedBy, item.CreatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return created, nil
}

func (r *ItemRepository) Save(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	query := `
		WITH updated AS (
			UPDATE items
			SET    name        = $3,
			       description = $4,
			       updated_at  = $5
			WHERE  id = $1 AND created_by = $2
			RETURNING id, name, description, created_by, created_at, updated_at
		)
		SELECT i.id, i.name, i.description, i.created_by, u.full_name,
		       i.created_at, i.updated_at
		FROM updated i
		JOIN users u ON u.id = i.created_by`

	return scanItem(r.pool.QueryRow(ctx, query,
		item.ID, item.CreatedBy, item.Name, item.Description, item.UpdatedAt,
	))
}

func (r *ItemRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM items WHERE id = $1 AND created_by = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// pgx.Row and pgx.Rows both implement this.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var it domain.Item
	err := row.Scan(
		&it.ID, &it.Name, &it.Description, &it.CreatedBy, &it.CreatedByName,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return &it, nil
}

package repository

import (
	"context"

	"storebot/internal/domain/item"
	"storebot/internal/infra"
	"storebot/internal/infra/db"
	"storebot/internal/usecase/shared"
)

type ItemRepository struct{}

func NewItemRepository() *ItemRepository {
	return &ItemRepository{}
}

func (r *ItemRepository) Upsert(ctx context.Context, dbtx db.DBTX, it *item.Item) error {
	const q = `
		INSERT INTO items (id, name, emoji, price_cents, quantity, max_capacity)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    emoji = EXCLUDED.emoji,
		    price_cents = EXCLUDED.price_cents,
		    quantity = EXCLUDED.quantity,
		    max_capacity = EXCLUDED.max_capacity,
		    updated_at = now()`

	_, err := dbtx.Exec(ctx, q,
		it.ID().String(),
		it.Name(),
		it.Emoji(),
		it.Price().Cents(),
		it.Quantity(),
		it.MaxCapacity(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert item", err)
	}
	return nil
}

// AdjustStock moves quantity by delta in one statement so concurrent
// purchases cannot oversell. A zero-row update means the move would have
// left [0, max_capacity] or the item does not exist.
func (r *ItemRepository) AdjustStock(ctx context.Context, dbtx db.DBTX, id item.ID, delta int) (bool, error) {
	const q = `
		UPDATE items
		SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1
		  AND quantity + $2 >= 0
		  AND quantity + $2 <= max_capacity`

	tag, err := dbtx.Exec(ctx, q, id.String(), delta)
	if err != nil {
		return false, infra.WrapRepoErr("failed to adjust item stock", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ItemRepository) Delete(ctx context.Context, dbtx db.DBTX, id item.ID) error {
	tag, err := dbtx.Exec(ctx, `DELETE FROM items WHERE id = $1`, id.String())
	if err != nil {
		return infra.WrapRepoErr("failed to delete item", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("item not found", nil, infra.KindNotFound)
	}
	return nil
}

var _ shared.ItemRepository = (*ItemRepository)(nil)

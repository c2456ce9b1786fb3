package readstore

import (
	"context"

	"storebot/internal/infra"
	"storebot/internal/infra/db"
	"storebot/internal/pkg/pgconv"
	"storebot/internal/usecase/queries"
)

type ItemReadStore struct {
	db db.DBTX
}

func NewItemReadStore(dbtx db.DBTX) *ItemReadStore {
	return &ItemReadStore{db: dbtx}
}

const itemColumns = `id, name, emoji, price_cents, quantity, max_capacity, updated_at`

func (r *ItemReadStore) FindByID(ctx context.Context, id string) (*queries.ItemView, error) {
	row := r.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)

	view, err := scanItemView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("item not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find item by ID", err)
	}
	return view, nil
}

func (r *ItemReadStore) List(ctx context.Context) ([]*queries.ItemView, error) {
	rows, err := r.db.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY name`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list items", err)
	}
	defer rows.Close()

	var result []*queries.ItemView
	for rows.Next() {
		view, err := scanItemView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan item row", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate item rows", err)
	}
	return result, nil
}

func (r *ItemReadStore) ListInStock(ctx context.Context) ([]*queries.ItemView, error) {
	rows, err := r.db.Query(ctx, `SELECT `+itemColumns+` FROM items WHERE quantity > 0 ORDER BY name`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list in-stock items", err)
	}
	defer rows.Close()

	var result []*queries.ItemView
	for rows.Next() {
		view, err := scanItemView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan item row", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate item rows", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItemView(row rowScanner) (*queries.ItemView, error) {
	var v queries.ItemView
	err := row.Scan(&v.ID, &v.Name, &v.Emoji, &v.PriceCents, &v.Quantity, &v.MaxCapacity, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

package readstore

import (
	"context"

	"storebot/internal/infra"
	"storebot/internal/infra/db"
	"storebot/internal/pkg/pgconv"
	"storebot/internal/usecase/queries"
)

type ReviewReadStore struct {
	db db.DBTX
}

func NewReviewReadStore(dbtx db.DBTX) *ReviewReadStore {
	return &ReviewReadStore{db: dbtx}
}

const reviewColumns = `id, order_id, buyer_ref, rating, comment, created_at`

func (r *ReviewReadStore) FindByOrderID(ctx context.Context, orderID int64) (*queries.ReviewView, error) {
	row := r.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE order_id = $1`, orderID)

	var v queries.ReviewView
	err := row.Scan(&v.ID, &v.OrderID, &v.BuyerRef, &v.Rating, &v.Comment, &v.CreatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("review not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find review by order ID", err)
	}
	return &v, nil
}

func (r *ReviewReadStore) ListRecent(ctx context.Context, limit int32) ([]*queries.ReviewView, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reviewColumns+` FROM reviews ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reviews", err)
	}
	defer rows.Close()

	var result []*queries.ReviewView
	for rows.Next() {
		var v queries.ReviewView
		if err := rows.Scan(&v.ID, &v.OrderID, &v.BuyerRef, &v.Rating, &v.Comment, &v.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan review row", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate review rows", err)
	}
	return result, nil
}

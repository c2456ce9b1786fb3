package repository

import (
	"context"

	"github.com/google/uuid"

	"storebot/internal/domain/review"
	"storebot/internal/infra"
	"storebot/internal/infra/db"
	"storebot/internal/usecase/shared"
)

type ReviewRepository struct{}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

// Create relies on the unique index on order_id: a second review for the
// same order surfaces as KindDuplicateKey.
func (r *ReviewRepository) Create(ctx context.Context, dbtx db.DBTX, rev *review.Review) (uuid.UUID, error) {
	const q = `
		INSERT INTO reviews (id, order_id, buyer_ref, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id uuid.UUID
	err := dbtx.QueryRow(ctx, q,
		rev.ID(),
		rev.OrderID(),
		rev.BuyerRef(),
		rev.Rating().Value(),
		rev.Comment().String(),
		rev.CreatedAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create review", err)
	}
	return id, nil
}

var _ shared.ReviewRepository = (*ReviewRepository)(nil)

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"storebot/internal/domain/gift"
	"storebot/internal/domain/item"
	"storebot/internal/infra"
	"storebot/internal/infra/db"
	"storebot/internal/pkg/pgconv"
	"storebot/internal/usecase/shared"
)

type GiftRepository struct{}

func NewGiftRepository() *GiftRepository {
	return &GiftRepository{}
}

func (r *GiftRepository) Create(ctx context.Context, dbtx db.DBTX, g *gift.Gift) (uuid.UUID, error) {
	const q = `
		INSERT INTO gift_codes (id, code, item_id, redeemed)
		VALUES ($1, $2, $3, false)
		RETURNING id`

	var id uuid.UUID
	err := dbtx.QueryRow(ctx, q, g.ID(), g.Code(), g.ItemID().String()).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create gift code", err)
	}
	return id, nil
}

// Redeem flips the redeemed flag in the same statement that checks it.
// Redemption is write-once: the second caller sees ok=false.
func (r *GiftRepository) Redeem(ctx context.Context, dbtx db.DBTX, code, redeemedBy string, at time.Time) (*shared.GiftSnapshot, bool, error) {
	const q = `
		UPDATE gift_codes
		SET redeemed = true, redeemed_by = $2, redeemed_at = $3
		WHERE code = $1 AND NOT redeemed
		RETURNING id, code, item_id, redeemed`

	var (
		snap   shared.GiftSnapshot
		itemID string
	)
	err := dbtx.QueryRow(ctx, q, code, redeemedBy, at).Scan(
		&snap.ID,
		&snap.Code,
		&itemID,
		&snap.Redeemed,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, false, nil
		}
		return nil, false, infra.WrapRepoErr("failed to redeem gift code", err)
	}
	snap.ItemID = item.ID(itemID)
	return &snap, true, nil
}

var _ shared.GiftRepository = (*GiftRepository)(nil)

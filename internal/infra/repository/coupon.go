package repository

import (
	"context"

	"github.com/google/uuid"

	"storebot/internal/domain/coupon"
	"storebot/internal/infra"
	"storebot/internal/infra/db"
	"storebot/internal/pkg/pgconv"
	"storebot/internal/usecase/shared"
)

type CouponRepository struct{}

func NewCouponRepository() *CouponRepository {
	return &CouponRepository{}
}

func (r *CouponRepository) Create(ctx context.Context, dbtx db.DBTX, c *coupon.Coupon) (uuid.UUID, error) {
	const q = `
		INSERT INTO coupons (id, code, discount_percent, uses_left, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id uuid.UUID
	err := dbtx.QueryRow(ctx, q,
		c.ID(),
		c.Code().String(),
		c.DiscountPercent(),
		c.UsesLeft(),
		c.Active(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create coupon", err)
	}
	return id, nil
}

// Redeem decrements uses_left in the same statement that checks it, so
// two buyers racing for the last use cannot both win.
func (r *CouponRepository) Redeem(ctx context.Context, dbtx db.DBTX, code string) (*shared.CouponSnapshot, bool, error) {
	const q = `
		UPDATE coupons
		SET uses_left = uses_left - 1, updated_at = now()
		WHERE code = $1 AND active AND uses_left > 0
		RETURNING id, code, discount_percent, uses_left, active`

	var snap shared.CouponSnapshot
	err := dbtx.QueryRow(ctx, q, code).Scan(
		&snap.ID,
		&snap.Code,
		&snap.DiscountPercent,
		&snap.UsesLeft,
		&snap.Active,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, false, nil
		}
		return nil, false, infra.WrapRepoErr("failed to redeem coupon", err)
	}
	return &snap, true, nil
}

func (r *CouponRepository) SetActive(ctx context.Context, dbtx db.DBTX, id uuid.UUID, active bool) error {
	tag, err := dbtx.Exec(ctx, `UPDATE coupons SET active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return infra.WrapRepoErr("failed to update coupon state", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CouponRepository) Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	tag, err := dbtx.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}

var _ shared.CouponRepository = (*CouponRepository)(nil)

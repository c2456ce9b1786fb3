package readstore

import (
	"context"

	"storebot/internal/infra"
	"storebot/internal/infra/db"
	"storebot/internal/pkg/pgconv"
	"storebot/internal/usecase/queries"
)

type CouponReadStore struct {
	db db.DBTX
}

func NewCouponReadStore(dbtx db.DBTX) *CouponReadStore {
	return &CouponReadStore{db: dbtx}
}

const couponColumns = `id, code, discount_percent, uses_left, active, created_at`

func (r *CouponReadStore) FindByCode(ctx context.Context, code string) (*queries.CouponView, error) {
	row := r.db.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code)

	var v queries.CouponView
	err := row.Scan(&v.ID, &v.Code, &v.DiscountPercent, &v.UsesLeft, &v.Active, &v.CreatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}
	return &v, nil
}

func (r *CouponReadStore) List(ctx context.Context) ([]*queries.CouponView, error) {
	rows, err := r.db.Query(ctx, `SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons", err)
	}
	defer rows.Close()

	var result []*queries.CouponView
	for rows.Next() {
		var v queries.CouponView
		if err := rows.Scan(&v.ID, &v.Code, &v.DiscountPercent, &v.UsesLeft, &v.Active, &v.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan coupon row", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate coupon rows", err)
	}
	return result, nil
}

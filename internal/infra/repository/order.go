package repository

import (
	"context"

	"storebot/internal/domain/order"
	"storebot/internal/infra"
	"storebot/internal/infra/db"
	"storebot/internal/usecase/shared"
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func (r *OrderRepository) Create(ctx context.Context, dbtx db.DBTX, o *order.Order) (int64, error) {
	const q = `
		INSERT INTO orders (
			buyer_ref, item_id, item_name, quantity, unit_price_cents,
			discount_percent, coupon_code, status, ticket_channel_id,
			delivery_channel_id, photo_ref, note
		)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, ''))
		RETURNING id`

	var id int64
	err := dbtx.QueryRow(ctx, q,
		o.BuyerRef(),
		o.ItemID().String(),
		o.ItemName(),
		o.Quantity(),
		o.UnitPrice().Cents(),
		o.DiscountPercent(),
		o.CouponCode(),
		o.Status().String(),
		o.TicketChannelID(),
		o.DeliveryChannelID(),
		o.PhotoRef(),
		o.Note(),
	).Scan(&id)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to create order", err)
	}
	return id, nil
}

// UpdateStatus is a compare-and-swap on the status column. Concurrent
// lifecycle actors race through here; the loser sees updated=false.
func (r *OrderRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, id int64, from, to order.Status) (bool, error) {
	const q = `
		UPDATE orders
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`

	tag, err := dbtx.Exec(ctx, q, id, from.String(), to.String())
	if err != nil {
		return false, infra.WrapRepoErr("failed to update order status", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OrderRepository) SetTicketChannel(ctx context.Context, dbtx db.DBTX, id int64, channelID string) error {
	return r.setColumn(ctx, dbtx, id, "ticket_channel_id", channelID, "failed to set ticket channel")
}

func (r *OrderRepository) SetDeliveryChannel(ctx context.Context, dbtx db.DBTX, id int64, channelID string) error {
	return r.setColumn(ctx, dbtx, id, "delivery_channel_id", channelID, "failed to set delivery channel")
}

func (r *OrderRepository) SetProof(ctx context.Context, dbtx db.DBTX, id int64, photoRef, note string) error {
	q := `UPDATE orders SET photo_ref = $2, note = NULLIF($3, ''), updated_at = now() WHERE id = $1`

	tag, err := dbtx.Exec(ctx, q, id, photoRef, note)
	if err != nil {
		return infra.WrapRepoErr("failed to set proof reference", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *OrderRepository) setColumn(ctx context.Context, dbtx db.DBTX, id int64, column, value, errMsg string) error {
	// column comes from a fixed caller-side set, never user input
	q := `UPDATE orders SET ` + column + ` = $2, updated_at = now() WHERE id = $1`

	tag, err := dbtx.Exec(ctx, q, id, value)
	if err != nil {
		return infra.WrapRepoErr(errMsg, err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *OrderRepository) SetCoupon(ctx context.Context, dbtx db.DBTX, id int64, code string, discountPercent int) error {
	const q = `
		UPDATE orders
		SET coupon_code = $2, discount_percent = $3, updated_at = now()
		WHERE id = $1 AND coupon_code IS NULL`

	tag, err := dbtx.Exec(ctx, q, id, code, discountPercent)
	if err != nil {
		return infra.WrapRepoErr("failed to set order coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found or coupon already applied", nil, infra.KindConflict)
	}
	return nil
}

var _ shared.OrderRepository = (*OrderRepository)(nil)

package readstore

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"storebot/internal/domain/order"
	"storebot/internal/infra"
	"storebot/internal/infra/db"
	"storebot/internal/pkg/pgconv"
	"storebot/internal/usecase/queries"
)

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(dbtx db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: dbtx}
}

const orderColumns = `
	id, buyer_ref, item_id, item_name, quantity, unit_price_cents,
	discount_percent, coupon_code, status, ticket_channel_id,
	delivery_channel_id, photo_ref, note, created_at, updated_at`

func (r *OrderReadStore) FindByID(ctx context.Context, id int64) (*queries.OrderView, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	view, err := scanOrderView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order by ID", err)
	}
	return view, nil
}

func (r *OrderReadStore) ListByBuyer(ctx context.Context, buyerRef string) ([]*queries.OrderView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE buyer_ref = $1 ORDER BY created_at DESC`, buyerRef)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders by buyer", err)
	}
	return collectOrderViews(rows)
}

func (r *OrderReadStore) ListByStatus(ctx context.Context, status order.Status) ([]*queries.OrderView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY created_at DESC`, status.String())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders by status", err)
	}
	return collectOrderViews(rows)
}

func (r *OrderReadStore) List(ctx context.Context, limit, offset int32) ([]*queries.OrderView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	return collectOrderViews(rows)
}

func collectOrderViews(rows interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}) ([]*queries.OrderView, error) {
	defer rows.Close()

	var result []*queries.OrderView
	for rows.Next() {
		view, err := scanOrderView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan order row", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order rows", err)
	}
	return result, nil
}

func scanOrderView(row rowScanner) (*queries.OrderView, error) {
	var (
		v      queries.OrderView
		status string

		couponCode, ticketChannel, deliveryChannel, photoRef, note pgtype.Text
		createdAt, updatedAt                                       pgtype.Timestamptz
	)
	err := row.Scan(
		&v.ID, &v.BuyerRef, &v.ItemID, &v.ItemName, &v.Quantity, &v.UnitPriceCents,
		&v.DiscountPercent, &couponCode, &status, &ticketChannel,
		&deliveryChannel, &photoRef, &note, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	v.CouponCode = pgconv.StringPtrFromPgtype(couponCode)
	v.TicketChannelID = pgconv.StringPtrFromPgtype(ticketChannel)
	v.DeliveryChannelID = pgconv.StringPtrFromPgtype(deliveryChannel)
	v.PhotoRef = pgconv.StringPtrFromPgtype(photoRef)
	v.Note = pgconv.StringPtrFromPgtype(note)
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)

	st := order.Status(status)
	v.Status = st.String()
	v.StatusCode = st.Code()

	total := v.UnitPriceCents * int64(v.Quantity)
	if v.DiscountPercent > 0 {
		total -= total * int64(v.DiscountPercent) / 100
	}
	v.TotalCents = total

	return &v, nil
}

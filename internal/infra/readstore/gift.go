package readstore

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"storebot/internal/infra"
	"storebot/internal/infra/db"
	"storebot/internal/pkg/pgconv"
	"storebot/internal/usecase/queries"
)

type GiftReadStore struct {
	db db.DBTX
}

func NewGiftReadStore(dbtx db.DBTX) *GiftReadStore {
	return &GiftReadStore{db: dbtx}
}

const giftColumns = `id, code, item_id, redeemed, redeemed_by, redeemed_at, created_at`

func (r *GiftReadStore) FindByCode(ctx context.Context, code string) (*queries.GiftView, error) {
	row := r.db.QueryRow(ctx, `SELECT `+giftColumns+` FROM gift_codes WHERE code = $1`, code)

	v, err := scanGiftView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("gift code not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find gift code", err)
	}
	return v, nil
}

func (r *GiftReadStore) List(ctx context.Context) ([]*queries.GiftView, error) {
	rows, err := r.db.Query(ctx, `SELECT `+giftColumns+` FROM gift_codes ORDER BY created_at DESC`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list gift codes", err)
	}
	defer rows.Close()

	var result []*queries.GiftView
	for rows.Next() {
		v, err := scanGiftView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan gift code row", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate gift code rows", err)
	}
	return result, nil
}

func scanGiftView(row rowScanner) (*queries.GiftView, error) {
	var (
		v          queries.GiftView
		redeemedBy pgtype.Text
		redeemedAt pgtype.Timestamptz
		createdAt  pgtype.Timestamptz
	)
	if err := row.Scan(&v.ID, &v.Code, &v.ItemID, &v.Redeemed, &redeemedBy, &redeemedAt, &createdAt); err != nil {
		return nil, err
	}
	v.RedeemedBy = pgconv.StringPtrFromPgtype(redeemedBy)
	v.RedeemedAt = pgconv.TimePtrFromPgtype(redeemedAt)
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	return &v, nil
}

package readstore

import (
	"context"

	"storebot/internal/infra"
	"storebot/internal/infra/db"
	"storebot/internal/usecase/queries"
)

// Orders count toward sales once they reach a paid status; abandoned and
// still-pending tickets are excluded.
const settledStatuses = `('paid', 'proof_requested', 'delivered_pending_review', 'closed', 'manual_recovery')`

type StatsReadStore struct {
	db db.DBTX
}

func NewStatsReadStore(dbtx db.DBTX) *StatsReadStore {
	return &StatsReadStore{db: dbtx}
}

func (r *StatsReadStore) SalesStats(ctx context.Context) (*queries.SalesStats, error) {
	stats := &queries.SalesStats{}

	const totalsQ = `
		SELECT
			COALESCE(SUM(unit_price_cents * quantity * (100 - discount_percent) / 100), 0),
			COALESCE(SUM(quantity), 0),
			COUNT(*)
		FROM orders
		WHERE status IN ` + settledStatuses

	err := r.db.QueryRow(ctx, totalsQ).Scan(&stats.TotalRevenueCents, &stats.ItemsSold, &stats.OrderCount)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to aggregate sales totals", err)
	}
	if stats.OrderCount > 0 {
		stats.AvgTicketCents = stats.TotalRevenueCents / stats.OrderCount
	}

	const byDateQ = `
		SELECT
			to_char(created_at::date, 'YYYY-MM-DD'),
			COUNT(*),
			COALESCE(SUM(unit_price_cents * quantity * (100 - discount_percent) / 100), 0)
		FROM orders
		WHERE status IN ` + settledStatuses + `
		GROUP BY created_at::date
		ORDER BY created_at::date DESC
		LIMIT 30`

	rows, err := r.db.Query(ctx, byDateQ)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to aggregate sales by date", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d queries.DailySales
		if err := rows.Scan(&d.Date, &d.OrderCount, &d.RevenueCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan daily sales row", err)
		}
		stats.SalesByDate = append(stats.SalesByDate, d)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate daily sales rows", err)
	}

	const topQ = `
		SELECT
			item_id,
			item_name,
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(unit_price_cents * quantity * (100 - discount_percent) / 100), 0)
		FROM orders
		WHERE status IN ` + settledStatuses + `
		GROUP BY item_id, item_name
		ORDER BY SUM(quantity) DESC
		LIMIT 5`

	topRows, err := r.db.Query(ctx, topQ)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to aggregate top products", err)
	}
	defer topRows.Close()

	for topRows.Next() {
		var p queries.ProductSales
		if err := topRows.Scan(&p.ItemID, &p.ItemName, &p.UnitsSold, &p.RevenueCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan product sales row", err)
		}
		stats.TopProducts = append(stats.TopProducts, p)
	}
	if err := topRows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate product sales rows", err)
	}

	return stats, nil
}

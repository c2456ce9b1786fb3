package queries

import (
	"context"

	"storebot/internal/domain/order"
)

type OrderQueries interface {
	GetByID(ctx context.Context, id int64) (*OrderView, error)
	ListByBuyer(ctx context.Context, buyerRef string) ([]*OrderView, error)
	ListByStatus(ctx context.Context, status order.Status) ([]*OrderView, error)
	List(ctx context.Context, limit, offset int) ([]*OrderView, error)
}

type OrderViewRepo interface {
	FindByID(ctx context.Context, id int64) (*OrderView, error)
	ListByBuyer(ctx context.Context, buyerRef string) ([]*OrderView, error)
	ListByStatus(ctx context.Context, status order.Status) ([]*OrderView, error)
	List(ctx context.Context, limit, offset int32) ([]*OrderView, error)
}

type orderQueriesImpl struct {
	repo OrderViewRepo
}

func NewOrderQueries(repo OrderViewRepo) OrderQueries {
	return &orderQueriesImpl{repo: repo}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, id int64) (*OrderView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *orderQueriesImpl) ListByBuyer(ctx context.Context, buyerRef string) ([]*OrderView, error) {
	return q.repo.ListByBuyer(ctx, buyerRef)
}

func (q *orderQueriesImpl) ListByStatus(ctx context.Context, status order.Status) ([]*OrderView, error) {
	return q.repo.ListByStatus(ctx, status)
}

func (q *orderQueriesImpl) List(ctx context.Context, limit, offset int) ([]*OrderView, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return q.repo.List(ctx, int32(limit), int32(offset))
}

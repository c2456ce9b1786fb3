package queries

import (
	"context"
)

type CatalogQueries interface {
	ListItems(ctx context.Context) ([]*ItemView, error)
	ListInStock(ctx context.Context) ([]*ItemView, error)
	GetItem(ctx context.Context, id string) (*ItemView, error)
}

type ItemViewRepo interface {
	FindByID(ctx context.Context, id string) (*ItemView, error)
	List(ctx context.Context) ([]*ItemView, error)
	ListInStock(ctx context.Context) ([]*ItemView, error)
}

type catalogQueriesImpl struct {
	repo ItemViewRepo
}

func NewCatalogQueries(repo ItemViewRepo) CatalogQueries {
	return &catalogQueriesImpl{repo: repo}
}

func (q *catalogQueriesImpl) ListItems(ctx context.Context) ([]*ItemView, error) {
	return q.repo.List(ctx)
}

func (q *catalogQueriesImpl) ListInStock(ctx context.Context) ([]*ItemView, error) {
	return q.repo.ListInStock(ctx)
}

func (q *catalogQueriesImpl) GetItem(ctx context.Context, id string) (*ItemView, error) {
	return q.repo.FindByID(ctx, id)
}

package queries

import (
	"context"
)

type CouponQueries interface {
	List(ctx context.Context) ([]*CouponView, error)
}

type CouponViewRepo interface {
	FindByCode(ctx context.Context, code string) (*CouponView, error)
	List(ctx context.Context) ([]*CouponView, error)
}

type couponQueriesImpl struct {
	repo CouponViewRepo
}

func NewCouponQueries(repo CouponViewRepo) CouponQueries {
	return &couponQueriesImpl{repo: repo}
}

func (q *couponQueriesImpl) List(ctx context.Context) ([]*CouponView, error) {
	return q.repo.List(ctx)
}

type GiftQueries interface {
	List(ctx context.Context) ([]*GiftView, error)
}

type GiftViewRepo interface {
	FindByCode(ctx context.Context, code string) (*GiftView, error)
	List(ctx context.Context) ([]*GiftView, error)
}

type giftQueriesImpl struct {
	repo GiftViewRepo
}

func NewGiftQueries(repo GiftViewRepo) GiftQueries {
	return &giftQueriesImpl{repo: repo}
}

func (q *giftQueriesImpl) List(ctx context.Context) ([]*GiftView, error) {
	return q.repo.List(ctx)
}

type StatsQueries interface {
	SalesStats(ctx context.Context) (*SalesStats, error)
}

type StatsViewRepo interface {
	SalesStats(ctx context.Context) (*SalesStats, error)
}

type statsQueriesImpl struct {
	repo StatsViewRepo
}

func NewStatsQueries(repo StatsViewRepo) StatsQueries {
	return &statsQueriesImpl{repo: repo}
}

func (q *statsQueriesImpl) SalesStats(ctx context.Context) (*SalesStats, error) {
	return q.repo.SalesStats(ctx)
}

type ReviewQueries interface {
	ListRecent(ctx context.Context, limit int) ([]*ReviewView, error)
}

type ReviewViewRepo interface {
	FindByOrderID(ctx context.Context, orderID int64) (*ReviewView, error)
	ListRecent(ctx context.Context, limit int32) ([]*ReviewView, error)
}

type reviewQueriesImpl struct {
	repo ReviewViewRepo
}

func NewReviewQueries(repo ReviewViewRepo) ReviewQueries {
	return &reviewQueriesImpl{repo: repo}
}

func (q *reviewQueriesImpl) ListRecent(ctx context.Context, limit int) ([]*ReviewView, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return q.repo.ListRecent(ctx, int32(limit))
}

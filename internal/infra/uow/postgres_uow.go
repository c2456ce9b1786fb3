package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storebot/internal/domain/item"
	"storebot/internal/domain/order"
	"storebot/internal/infra/db"
	"storebot/internal/infra/readstore"
	"storebot/internal/infra/repository"
	"storebot/internal/pkg/errs"
	"storebot/internal/usecase/shared"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// Read-only transaction for consistent multi-table snapshots
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return u.runReadOnlyTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, u.pool)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{dbtx: u.pool}
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{dbtx: pgxTx}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func (u *PostgresUoW) runReadOnlyTx(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	defer func() {
		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("failed to rollback read-only transaction", "error", rollbackErr.Error())
			}
		}
	}()

	if err := fn(ctx, pgxTx); err != nil {
		return err
	}

	return pgxTx.Commit(ctx)
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	orderRepo    shared.OrderRepository
	itemRepo     shared.ItemRepository
	couponRepo   shared.CouponRepository
	giftRepo     shared.GiftRepository
	reviewRepo   shared.ReviewRepository
	commandReads shared.CommandReads
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}

func (t *pgTx) Orders() shared.OrderRepository {
	if t.orderRepo == nil {
		t.orderRepo = repository.NewOrderRepository()
	}
	return t.orderRepo
}

func (t *pgTx) Items() shared.ItemRepository {
	if t.itemRepo == nil {
		t.itemRepo = repository.NewItemRepository()
	}
	return t.itemRepo
}

func (t *pgTx) Coupons() shared.CouponRepository {
	if t.couponRepo == nil {
		t.couponRepo = repository.NewCouponRepository()
	}
	return t.couponRepo
}

func (t *pgTx) Gifts() shared.GiftRepository {
	if t.giftRepo == nil {
		t.giftRepo = repository.NewGiftRepository()
	}
	return t.giftRepo
}

func (t *pgTx) Reviews() shared.ReviewRepository {
	if t.reviewRepo == nil {
		t.reviewRepo = repository.NewReviewRepository()
	}
	return t.reviewRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{dbtx: t.dbtx}
	}
	return t.commandReads
}

type commandReads struct {
	dbtx db.DBTX

	// Lazy-initialized readstores
	itemStore   *readstore.ItemReadStore
	orderStore  *readstore.OrderReadStore
	couponStore *readstore.CouponReadStore
	giftStore   *readstore.GiftReadStore
}

func (r *commandReads) ItemByID(ctx context.Context, id item.ID) (*shared.ItemSnapshot, error) {
	if r.itemStore == nil {
		r.itemStore = readstore.NewItemReadStore(r.dbtx)
	}

	it, err := r.itemStore.FindByID(ctx, id.String())
	if err != nil {
		return nil, err
	}

	snapshot := &shared.ItemSnapshot{
		ID:          item.ID(it.ID),
		Name:        it.Name,
		Emoji:       it.Emoji,
		PriceCents:  it.PriceCents,
		Quantity:    it.Quantity,
		MaxCapacity: it.MaxCapacity,
	}
	return snapshot, nil
}

func (r *commandReads) OrderByID(ctx context.Context, id int64) (*shared.OrderSnapshot, error) {
	if r.orderStore == nil {
		r.orderStore = readstore.NewOrderReadStore(r.dbtx)
	}

	o, err := r.orderStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := &shared.OrderSnapshot{
		ID:              o.ID,
		BuyerRef:        o.BuyerRef,
		ItemID:          item.ID(o.ItemID),
		ItemName:        o.ItemName,
		Quantity:        o.Quantity,
		UnitPriceCents:  o.UnitPriceCents,
		DiscountPercent: o.DiscountPercent,
		Status:          order.Status(o.Status),
		CreatedAt:       o.CreatedAt,
	}
	if o.CouponCode != nil {
		snapshot.CouponCode = *o.CouponCode
	}
	if o.TicketChannelID != nil {
		snapshot.TicketChannelID = *o.TicketChannelID
	}
	if o.DeliveryChannelID != nil {
		snapshot.DeliveryChannelID = *o.DeliveryChannelID
	}
	if o.PhotoRef != nil {
		snapshot.PhotoRef = *o.PhotoRef
	}
	if o.Note != nil {
		snapshot.Note = *o.Note
	}
	return snapshot, nil
}

func (r *commandReads) CouponByCode(ctx context.Context, code string) (*shared.CouponSnapshot, error) {
	if r.couponStore == nil {
		r.couponStore = readstore.NewCouponReadStore(r.dbtx)
	}

	c, err := r.couponStore.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	snapshot := &shared.CouponSnapshot{
		ID:              c.ID,
		Code:            c.Code,
		DiscountPercent: c.DiscountPercent,
		UsesLeft:        c.UsesLeft,
		Active:          c.Active,
	}
	return snapshot, nil
}

func (r *commandReads) GiftByCode(ctx context.Context, code string) (*shared.GiftSnapshot, error) {
	if r.giftStore == nil {
		r.giftStore = readstore.NewGiftReadStore(r.dbtx)
	}

	g, err := r.giftStore.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	snapshot := &shared.GiftSnapshot{
		ID:       g.ID,
		Code:     g.Code,
		ItemID:   item.ID(g.ItemID),
		Redeemed: g.Redeemed,
	}
	return snapshot, nil
}

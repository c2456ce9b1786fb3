package shared

import (
	"context"
	"time"

	"github.com/google/uuid"

	"storebot/internal/domain/coupon"
	"storebot/internal/domain/gift"
	"storebot/internal/domain/item"
	"storebot/internal/domain/order"
	"storebot/internal/domain/review"
	"storebot/internal/infra/db"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Orders() OrderRepository
	Items() ItemRepository
	Coupons() CouponRepository
	Gifts() GiftRepository
	Reviews() ReviewRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	ItemByID(ctx context.Context, id item.ID) (*ItemSnapshot, error)
	OrderByID(ctx context.Context, id int64) (*OrderSnapshot, error)
	CouponByCode(ctx context.Context, code string) (*CouponSnapshot, error)
	GiftByCode(ctx context.Context, code string) (*GiftSnapshot, error)
}

// Minimal snapshots for command read operations

type ItemSnapshot struct {
	ID          item.ID
	Name        string
	Emoji       string
	PriceCents  int64
	Quantity    int
	MaxCapacity int
}

type OrderSnapshot struct {
	ID                int64
	BuyerRef          string
	ItemID            item.ID
	ItemName          string
	Quantity          int
	UnitPriceCents    int64
	DiscountPercent   int
	CouponCode        string
	Status            order.Status
	TicketChannelID   string
	DeliveryChannelID string
	PhotoRef          string
	Note              string
	CreatedAt         time.Time
}

type CouponSnapshot struct {
	ID              uuid.UUID
	Code            string
	DiscountPercent int
	UsesLeft        int
	Active          bool
}

type GiftSnapshot struct {
	ID       uuid.UUID
	Code     string
	ItemID   item.ID
	Redeemed bool
}

type OrderRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, o *order.Order) (int64, error)
	// UpdateStatus compares-and-swaps the status column; it reports false
	// when the order was not in the expected state.
	UpdateStatus(ctx context.Context, dbtx db.DBTX, id int64, from, to order.Status) (bool, error)
	SetTicketChannel(ctx context.Context, dbtx db.DBTX, id int64, channelID string) error
	SetDeliveryChannel(ctx context.Context, dbtx db.DBTX, id int64, channelID string) error
	SetProof(ctx context.Context, dbtx db.DBTX, id int64, photoRef, note string) error
	SetCoupon(ctx context.Context, dbtx db.DBTX, id int64, code string, discountPercent int) error
}

type ItemRepository interface {
	Upsert(ctx context.Context, dbtx db.DBTX, it *item.Item) error
	// AdjustStock atomically moves the quantity by delta within
	// [0, max_capacity]; it reports false when the move would leave range.
	AdjustStock(ctx context.Context, dbtx db.DBTX, id item.ID, delta int) (bool, error)
	Delete(ctx context.Context, dbtx db.DBTX, id item.ID) error
}

type CouponRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, c *coupon.Coupon) (uuid.UUID, error)
	// Redeem atomically decrements uses_left for an active coupon with
	// uses remaining, returning the state after the decrement. It reports
	// false when the coupon could not be redeemed.
	Redeem(ctx context.Context, dbtx db.DBTX, code string) (*CouponSnapshot, bool, error)
	SetActive(ctx context.Context, dbtx db.DBTX, id uuid.UUID, active bool) error
	Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error
}

type GiftRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, g *gift.Gift) (uuid.UUID, error)
	// Redeem marks an unredeemed code as consumed, returning the gift's
	// item. It reports false when the code is unknown or already used.
	Redeem(ctx context.Context, dbtx db.DBTX, code, redeemedBy string, at time.Time) (*GiftSnapshot, bool, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, r *review.Review) (uuid.UUID, error)
}

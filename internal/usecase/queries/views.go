package queries

import (
	"time"

	"github.com/google/uuid"
)

type ItemView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Emoji       string    `json:"emoji"`
	PriceCents  int64     `json:"price_cents"`
	Quantity    int       `json:"quantity"`
	MaxCapacity int       `json:"max_capacity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type OrderView struct {
	ID                int64      `json:"id"`
	BuyerRef          string     `json:"buyer_ref"`
	ItemID            string     `json:"item_id"`
	ItemName          string     `json:"item_name"`
	Quantity          int        `json:"quantity"`
	UnitPriceCents    int64      `json:"unit_price_cents"`
	DiscountPercent   int        `json:"discount_percent"`
	CouponCode        *string    `json:"coupon_code,omitempty"`
	Status            string     `json:"status"`
	StatusCode        int        `json:"status_code"`
	TotalCents        int64      `json:"total_cents"`
	TicketChannelID   *string    `json:"ticket_channel_id,omitempty"`
	DeliveryChannelID *string    `json:"delivery_channel_id,omitempty"`
	PhotoRef          *string    `json:"photo_ref,omitempty"`
	Note              *string    `json:"note,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type CouponView struct {
	ID              uuid.UUID `json:"id"`
	Code            string    `json:"code"`
	DiscountPercent int       `json:"discount_percent"`
	UsesLeft        int       `json:"uses_left"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

type GiftView struct {
	ID         uuid.UUID  `json:"id"`
	Code       string     `json:"code"`
	ItemID     string     `json:"item_id"`
	Redeemed   bool       `json:"redeemed"`
	RedeemedBy *string    `json:"redeemed_by,omitempty"`
	RedeemedAt *time.Time `json:"redeemed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type ReviewView struct {
	ID        uuid.UUID `json:"id"`
	OrderID   int64     `json:"order_id"`
	BuyerRef  string    `json:"buyer_ref"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type DailySales struct {
	Date         string `json:"date"`
	OrderCount   int64  `json:"order_count"`
	RevenueCents int64  `json:"revenue_cents"`
}

type ProductSales struct {
	ItemID       string `json:"item_id"`
	ItemName     string `json:"item_name"`
	UnitsSold    int64  `json:"units_sold"`
	RevenueCents int64  `json:"revenue_cents"`
}

// SalesStats aggregates settled orders for the admin dashboard. Only
// orders that reached a paid state count toward revenue.
type SalesStats struct {
	TotalRevenueCents int64          `json:"total_revenue_cents"`
	ItemsSold         int64          `json:"items_sold"`
	OrderCount        int64          `json:"order_count"`
	AvgTicketCents    int64          `json:"avg_ticket_cents"`
	SalesByDate       []DailySales   `json:"sales_by_date"`
	TopProducts       []ProductSales `json:"top_products"`
}

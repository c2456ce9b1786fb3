package response

import (
	"time"

	"github.com/google/uuid"

	"storebot/internal/usecase/queries"
)

type ItemResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji,omitempty"`
	PriceCents  int64  `json:"priceCents"`
	Quantity    int    `json:"quantity"`
	MaxCapacity int    `json:"maxCapacity"`
}

func FromItemView(v *queries.ItemView) *ItemResponse {
	return &ItemResponse{
		ID:          v.ID,
		Name:        v.Name,
		Emoji:       v.Emoji,
		PriceCents:  v.PriceCents,
		Quantity:    v.Quantity,
		MaxCapacity: v.MaxCapacity,
	}
}

func FromItemList(items []*queries.ItemView) []*ItemResponse {
	result := make([]*ItemResponse, len(items))
	for i, v := range items {
		result[i] = FromItemView(v)
	}
	return result
}

type OrderResponse struct {
	ID                int64     `json:"id"`
	BuyerRef          string    `json:"buyerRef"`
	ItemID            string    `json:"itemId"`
	ItemName          string    `json:"itemName"`
	Quantity          int       `json:"quantity"`
	UnitPriceCents    int64     `json:"unitPriceCents"`
	DiscountPercent   int       `json:"discountPercent,omitempty"`
	CouponCode        *string   `json:"couponCode,omitempty"`
	Status            string    `json:"status"`
	StatusCode        int       `json:"statusCode"`
	TotalCents        int64     `json:"totalCents"`
	TicketChannelID   *string   `json:"ticketChannelId,omitempty"`
	DeliveryChannelID *string   `json:"deliveryChannelId,omitempty"`
	PhotoRef          *string   `json:"photoRef,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func FromOrderView(v *queries.OrderView) *OrderResponse {
	return &OrderResponse{
		ID:                v.ID,
		BuyerRef:          v.BuyerRef,
		ItemID:            v.ItemID,
		ItemName:          v.ItemName,
		Quantity:          v.Quantity,
		UnitPriceCents:    v.UnitPriceCents,
		DiscountPercent:   v.DiscountPercent,
		CouponCode:        v.CouponCode,
		Status:            v.Status,
		StatusCode:        v.StatusCode,
		TotalCents:        v.TotalCents,
		TicketChannelID:   v.TicketChannelID,
		DeliveryChannelID: v.DeliveryChannelID,
		PhotoRef:          v.PhotoRef,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
}

func FromOrderList(orders []*queries.OrderView) []*OrderResponse {
	result := make([]*OrderResponse, len(orders))
	for i, v := range orders {
		result[i] = FromOrderView(v)
	}
	return result
}

type CouponResponse struct {
	ID              uuid.UUID `json:"id"`
	Code            string    `json:"code"`
	DiscountPercent int       `json:"discountPercent"`
	UsesLeft        int       `json:"usesLeft"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
}

func FromCouponView(v *queries.CouponView) *CouponResponse {
	return &CouponResponse{
		ID:              v.ID,
		Code:            v.Code,
		DiscountPercent: v.DiscountPercent,
		UsesLeft:        v.UsesLeft,
		Active:          v.Active,
		CreatedAt:       v.CreatedAt,
	}
}

func FromCouponList(coupons []*queries.CouponView) []*CouponResponse {
	result := make([]*CouponResponse, len(coupons))
	for i, v := range coupons {
		result[i] = FromCouponView(v)
	}
	return result
}

type GiftResponse struct {
	ID         uuid.UUID  `json:"id"`
	Code       string     `json:"code"`
	ItemID     string     `json:"itemId"`
	Redeemed   bool       `json:"redeemed"`
	RedeemedBy *string    `json:"redeemedBy,omitempty"`
	RedeemedAt *time.Time `json:"redeemedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func FromGiftView(v *queries.GiftView) *GiftResponse {
	return &GiftResponse{
		ID:         v.ID,
		Code:       v.Code,
		ItemID:     v.ItemID,
		Redeemed:   v.Redeemed,
		RedeemedBy: v.RedeemedBy,
		RedeemedAt: v.RedeemedAt,
		CreatedAt:  v.CreatedAt,
	}
}

func FromGiftList(gifts []*queries.GiftView) []*GiftResponse {
	result := make([]*GiftResponse, len(gifts))
	for i, v := range gifts {
		result[i] = FromGiftView(v)
	}
	return result
}

package request

type UpsertItemRequest struct {
	Name  string `json:"name" binding:"required"`
	Emoji string `json:"emoji"`
	// Pointer so a free (zero-price) item passes the required check.
	PriceCents  *int64 `json:"price_cents" binding:"required,min=0"`
	Quantity    int    `json:"quantity" binding:"min=0"`
	MaxCapacity int    `json:"max_capacity" binding:"required,min=1"`
}

type CreateCouponRequest struct {
	Code            string `json:"code" binding:"required"`
	DiscountPercent int    `json:"discount_percent" binding:"required,min=1,max=100"`
	Uses            int    `json:"uses" binding:"required,min=1"`
}

type SetCouponActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type CreateGiftRequest struct {
	ItemID string `json:"item_id" binding:"required"`
}

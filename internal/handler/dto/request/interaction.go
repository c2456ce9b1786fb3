package request

// InteractionRequest is one component activation relayed from the chat
// platform. Values carries modal inputs and select-menu choices keyed by
// the component's field name.
type InteractionRequest struct {
	CustomID string            `json:"custom_id" binding:"required"`
	UserRef  string            `json:"user_ref" binding:"required"`
	Values   map[string]string `json:"values"`
}

// Well-known Values keys.
const (
	ValueItemID   = "item_id"
	ValueQuantity = "quantity"
	ValueCoupon   = "coupon_code"
	ValueGiftCode = "gift_code"
)

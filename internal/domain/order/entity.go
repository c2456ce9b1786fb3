package order

import (
	"errors"
	"time"

	"storebot/internal/domain/item"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrEmptyBuyer        = errors.New("buyer reference cannot be empty")
	ErrAlreadyFinalized  = errors.New("order is already finalized")
)

type Order struct {
	id                int64
	buyerRef          string
	itemID            item.ID
	itemName          string
	quantity          int
	unitPrice         item.Money
	discountPercent   int
	couponCode        string
	status            Status
	ticketChannelID   string
	deliveryChannelID string
	photoRef          string
	note              string
	createdAt         time.Time
	updatedAt         time.Time
}

func NewOrder(buyerRef string, it *item.Item, quantity int) (*Order, error) {
	if buyerRef == "" {
		return nil, ErrEmptyBuyer
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if quantity > it.Quantity() {
		return nil, item.ErrInsufficientStock
	}

	return &Order{
		buyerRef:  buyerRef,
		itemID:    it.ID(),
		itemName:  it.Name(),
		quantity:  quantity,
		unitPrice: it.Price(),
		status:    StatusCreated,
	}, nil
}

// NewGiftOrder builds an order already settled by a redeemed gift code.
// Gift orders skip the payment leg entirely.
func NewGiftOrder(buyerRef string, it *item.Item) (*Order, error) {
	o, err := NewOrder(buyerRef, it, 1)
	if err != nil {
		return nil, err
	}
	o.status = StatusPaid
	o.note = "gift redemption"
	return o, nil
}

// NewManualOrder builds a single-unit recovery order for a delivery whose
// original record is missing. It enters the lifecycle at ManualRecovery.
func NewManualOrder(buyerRef string, it *item.Item) (*Order, error) {
	if buyerRef == "" {
		return nil, ErrEmptyBuyer
	}

	return &Order{
		buyerRef:  buyerRef,
		itemID:    it.ID(),
		itemName:  it.Name(),
		quantity:  1,
		unitPrice: it.Price(),
		status:    StatusManualRecovery,
		note:      "manual recovery",
	}, nil
}

func ReconstructOrder(
	id int64,
	buyerRef string,
	itemID item.ID,
	itemName string,
	quantity int,
	unitPrice item.Money,
	discountPercent int,
	couponCode string,
	status Status,
	ticketChannelID, deliveryChannelID string,
	photoRef, note string,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:                id,
		buyerRef:          buyerRef,
		itemID:            itemID,
		itemName:          itemName,
		quantity:          quantity,
		unitPrice:         unitPrice,
		discountPercent:   discountPercent,
		couponCode:        couponCode,
		status:            status,
		ticketChannelID:   ticketChannelID,
		deliveryChannelID: deliveryChannelID,
		photoRef:          photoRef,
		note:              note,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

// TransitionTo moves the order forward in the lifecycle, rejecting any
// step the state machine does not allow.
func (o *Order) TransitionTo(next Status) error {
	if o.status.Finalized() && !o.status.CanTransitionTo(next) {
		return ErrAlreadyFinalized
	}
	if !o.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	o.status = next
	return nil
}

// ApplyCoupon records a percent discount. Coupons attach once; reapplying
// replaces nothing and is rejected by the caller before reaching here.
func (o *Order) ApplyCoupon(code string, percent int) {
	o.couponCode = code
	o.discountPercent = percent
}

// TotalCents is the payable amount: unit price times quantity, less any
// coupon discount.
func (o *Order) TotalCents() int64 {
	return o.Total().Cents()
}

func (o *Order) Total() item.Money {
	return o.unitPrice.MulQuantity(o.quantity).ApplyPercentOff(o.discountPercent)
}

func (o *Order) AttachTicketChannel(channelID string)   { o.ticketChannelID = channelID }
func (o *Order) AttachDeliveryChannel(channelID string) { o.deliveryChannelID = channelID }
func (o *Order) AttachProof(photoRef string)            { o.photoRef = photoRef }

func (o *Order) ID() int64                 { return o.id }
func (o *Order) BuyerRef() string          { return o.buyerRef }
func (o *Order) ItemID() item.ID           { return o.itemID }
func (o *Order) ItemName() string          { return o.itemName }
func (o *Order) Quantity() int             { return o.quantity }
func (o *Order) UnitPrice() item.Money     { return o.unitPrice }
func (o *Order) DiscountPercent() int      { return o.discountPercent }
func (o *Order) CouponCode() string        { return o.couponCode }
func (o *Order) Status() Status            { return o.status }
func (o *Order) TicketChannelID() string   { return o.ticketChannelID }
func (o *Order) DeliveryChannelID() string { return o.deliveryChannelID }
func (o *Order) PhotoRef() string          { return o.photoRef }
func (o *Order) Note() string              { return o.note }
func (o *Order) CreatedAt() time.Time      { return o.createdAt }
func (o *Order) UpdatedAt() time.Time      { return o.updatedAt }

package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCouponInactive  = errors.New("coupon is inactive")
	ErrCouponExhausted = errors.New("coupon has no uses left")
	ErrInvalidPercent  = errors.New("discount percent must be between 1 and 100")
	ErrInvalidUses     = errors.New("uses left cannot be negative")
)

type Coupon struct {
	id              uuid.UUID
	code            Code
	discountPercent int
	usesLeft        int
	active          bool
	createdAt       time.Time
	updatedAt       time.Time
}

func NewCoupon(code string, discountPercent, usesLeft int) (*Coupon, error) {
	couponCode, err := NewCode(code)
	if err != nil {
		return nil, err
	}
	if discountPercent < 1 || discountPercent > 100 {
		return nil, ErrInvalidPercent
	}
	if usesLeft < 0 {
		return nil, ErrInvalidUses
	}

	return &Coupon{
		id:              uuid.New(),
		code:            couponCode,
		discountPercent: discountPercent,
		usesLeft:        usesLeft,
		active:          true,
	}, nil
}

func ReconstructCoupon(
	id uuid.UUID,
	code Code,
	discountPercent, usesLeft int,
	active bool,
	createdAt, updatedAt time.Time,
) *Coupon {
	return &Coupon{
		id:              id,
		code:            code,
		discountPercent: discountPercent,
		usesLeft:        usesLeft,
		active:          active,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (c *Coupon) Redeemable() error {
	if !c.active {
		return ErrCouponInactive
	}
	if c.usesLeft <= 0 {
		return ErrCouponExhausted
	}
	return nil
}

func (c *Coupon) Deactivate() { c.active = false }
func (c *Coupon) Activate()   { c.active = true }

func (c *Coupon) ID() uuid.UUID        { return c.id }
func (c *Coupon) Code() Code           { return c.code }
func (c *Coupon) DiscountPercent() int { return c.discountPercent }
func (c *Coupon) UsesLeft() int        { return c.usesLeft }
func (c *Coupon) Active() bool         { return c.active }
func (c *Coupon) CreatedAt() time.Time { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time { return c.updatedAt }

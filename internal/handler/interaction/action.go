// Package interaction maps the chat platform's component identifiers to
// typed actions. Buttons, select menus and modals carry a custom_id; the
// suffix encodes the order, item or buyer the component is bound to.
package interaction

import (
	"strconv"
	"strings"

	"storebot/internal/pkg/errs"
)

type Kind string

const (
	KindBuyButton       Kind = "buy_item_button"
	KindSelectItem      Kind = "select_item_to_buy"
	KindQuantityModal   Kind = "quantity_modal"
	KindApplyCoupon     Kind = "apply_coupon"
	KindCouponModal     Kind = "coupon_modal"
	KindConfirmDelivery Kind = "confirm_delivery"
	KindManualDelivery  Kind = "manual_delivery"
	KindAdminConfirm    Kind = "admin_confirm_delivery"
	KindRedeemGift      Kind = "redeem_gift_button"
	KindGiftModal       Kind = "redeem_gift_modal"
	KindSelectGiftItem  Kind = "select_gift_item"
	KindCloseTicket     Kind = "close_ticket"
)

var ErrUnknownAction = errs.New("unknown interaction custom_id")

// Action is one decoded component activation.
type Action struct {
	Kind Kind
	// OrderID is set for actions bound to an order.
	OrderID int64
	// ItemID is set for actions bound to a catalog item.
	ItemID string
	// TargetRef is set for actions bound to a user (manual recovery).
	TargetRef string
}

// suffix kinds, longest prefix first so admin_confirm_delivery does not
// match confirm_delivery.
var orderSuffixed = []Kind{KindAdminConfirm, KindConfirmDelivery, KindApplyCoupon, KindCouponModal, KindCloseTicket}

// ParseCustomID decodes a component custom_id into a typed Action.
func ParseCustomID(customID string) (Action, error) {
	switch Kind(customID) {
	case KindBuyButton, KindSelectItem, KindRedeemGift, KindGiftModal, KindSelectGiftItem:
		return Action{Kind: Kind(customID)}, nil
	}

	for _, kind := range orderSuffixed {
		prefix := string(kind) + "_"
		if rest, ok := strings.CutPrefix(customID, prefix); ok {
			orderID, err := strconv.ParseInt(rest, 10, 64)
			if err != nil {
				return Action{}, errs.Wrapf(ErrUnknownAction, "bad order id in %q", customID)
			}
			return Action{Kind: kind, OrderID: orderID}, nil
		}
	}

	if rest, ok := strings.CutPrefix(customID, string(KindQuantityModal)+"_"); ok && rest != "" {
		return Action{Kind: KindQuantityModal, ItemID: rest}, nil
	}

	if rest, ok := strings.CutPrefix(customID, string(KindManualDelivery)+"_"); ok && rest != "" {
		return Action{Kind: KindManualDelivery, TargetRef: rest}, nil
	}

	return Action{}, errs.Wrapf(ErrUnknownAction, "custom_id %q", customID)
}

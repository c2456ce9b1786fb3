//go:build unit

package interaction_test

import (
	"testing"

	"storebot/internal/handler/interaction"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCustomID(t *testing.T) {
	cases := []struct {
		customID string
		want     interaction.Action
		wantErr  bool
	}{
		{customID: "buy_item_button", want: interaction.Action{Kind: interaction.KindBuyButton}},
		{customID: "select_item_to_buy", want: interaction.Action{Kind: interaction.KindSelectItem}},
		{customID: "redeem_gift_button", want: interaction.Action{Kind: interaction.KindRedeemGift}},
		{customID: "redeem_gift_modal", want: interaction.Action{Kind: interaction.KindGiftModal}},
		{customID: "select_gift_item", want: interaction.Action{Kind: interaction.KindSelectGiftItem}},
		{customID: "quantity_modal_MANGO", want: interaction.Action{Kind: interaction.KindQuantityModal, ItemID: "MANGO"}},
		{customID: "apply_coupon_445", want: interaction.Action{Kind: interaction.KindApplyCoupon, OrderID: 445}},
		{customID: "coupon_modal_445", want: interaction.Action{Kind: interaction.KindCouponModal, OrderID: 445}},
		{customID: "confirm_delivery_445", want: interaction.Action{Kind: interaction.KindConfirmDelivery, OrderID: 445}},
		{customID: "admin_confirm_delivery_445", want: interaction.Action{Kind: interaction.KindAdminConfirm, OrderID: 445}},
		{customID: "close_ticket_7", want: interaction.Action{Kind: interaction.KindCloseTicket, OrderID: 7}},
		{customID: "manual_delivery_user-123", want: interaction.Action{Kind: interaction.KindManualDelivery, TargetRef: "user-123"}},
		{customID: "confirm_delivery_", wantErr: true},
		{customID: "confirm_delivery_abc", wantErr: true},
		{customID: "quantity_modal_", wantErr: true},
		{customID: "manual_delivery_", wantErr: true},
		{customID: "", wantErr: true},
		{customID: "unknown_button", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.customID, func(t *testing.T) {
			got, err := interaction.ParseCustomID(tc.customID)
			if tc.wantErr {
				assert.ErrorIs(t, err, interaction.ErrUnknownAction)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Action mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

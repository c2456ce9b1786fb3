//go:build unit

package commands_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"storebot/internal/domain/order"
	"storebot/internal/pkg/clock"
	"storebot/internal/pkg/config"
	"storebot/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	store     *fakeStore
	chat      *fakeChat
	payment   *fakePayment
	scheduler *fakeScheduler
	cfg       config.Config
	now       time.Time
	orders    commands.OrderCommands
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	f := &orderFixture{
		store:     newFakeStore(),
		chat:      newFakeChat(),
		payment:   &fakePayment{},
		scheduler: newFakeScheduler(),
		cfg:       config.NewTestConfig(),
		now:       time.Unix(1700000000, 0),
	}
	f.cfg.Lifecycle.CleanupGrace = 0
	f.store.addItem("MANGO", 70, 260, 500)

	f.orders = commands.NewOrderUseCase(
		&fakeUoW{store: f.store},
		f.chat,
		f.payment,
		f.scheduler,
		clock.NewMockClock(f.now),
		f.cfg,
	)
	return f
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path opens a ticket and requests payment", func(t *testing.T) {
		f := newOrderFixture(t)

		result, err := f.orders.CreateOrder(ctx, "buyer-1", "MANGO", 10)
		require.NoError(t, err)

		assert.Equal(t, int64(700), result.TotalCents)
		assert.Equal(t, "ticket-1", result.TicketChannelID)
		require.NotNil(t, result.Charge)
		assert.Equal(t, fmt.Sprintf("TICKET1-%d", f.now.UnixMilli()), result.Charge.TxID)

		snap := f.store.orders[result.OrderID]
		require.NotNil(t, snap)
		assert.Equal(t, order.StatusPendingPayment, snap.Status)
		assert.Equal(t, "ticket-1", snap.TicketChannelID)

		assert.Equal(t, 260, f.store.items["MANGO"].Quantity, "stock is untouched until payment")
		assert.Len(t, f.chat.sent["ticket-1"], 1, "payment instructions should be posted")
		assert.Contains(t, f.scheduler.callbacks, result.OrderID)
	})

	t.Run("unknown item", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.orders.CreateOrder(ctx, "buyer-1", "DURIAN", 1)
		assert.ErrorIs(t, err, commands.ErrItemNotFound)
	})

	t.Run("zero quantity", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.orders.CreateOrder(ctx, "buyer-1", "MANGO", 0)
		assert.ErrorIs(t, err, commands.ErrInvalidQuantity)
	})

	t.Run("quantity above stock", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.orders.CreateOrder(ctx, "buyer-1", "MANGO", 261)
		assert.ErrorIs(t, err, commands.ErrInsufficientStock)
	})

	t.Run("channel failure abandons the order", func(t *testing.T) {
		f := newOrderFixture(t)
		f.chat.failTicketChannel = true

		_, err := f.orders.CreateOrder(ctx, "buyer-1", "MANGO", 10)
		assert.ErrorIs(t, err, commands.ErrChannelFailed)
		assert.ErrorIs(t, err, errFakeChat, "cause must stay in the chain")

		assert.Equal(t, order.StatusAbandoned, f.store.orders[1].Status)
	})

	t.Run("charge failure degrades to manual payment", func(t *testing.T) {
		f := newOrderFixture(t)
		f.payment.failCharge = true

		result, err := f.orders.CreateOrder(ctx, "buyer-1", "MANGO", 10)
		require.NoError(t, err)
		assert.Nil(t, result.Charge)

		snap := f.store.orders[result.OrderID]
		assert.Equal(t, order.StatusPendingPayment, snap.Status, "ticket stays open")
		assert.Contains(t, f.scheduler.callbacks, result.OrderID, "payment timer still runs")

		require.Len(t, f.chat.sent["ticket-1"], 1)
		msg := f.chat.sent["ticket-1"][0]
		require.Len(t, msg.Embeds, 1)
		assert.Contains(t, msg.Embeds[0].Description, "could not generate a payment code")
	})
}

func TestPaymentTimeout(t *testing.T) {
	ctx := context.Background()

	t.Run("unpaid order expires", func(t *testing.T) {
		f := newOrderFixture(t)

		result, err := f.orders.CreateOrder(ctx, "buyer-1", "MANGO", 10)
		require.NoError(t, err)

		require.True(t, f.scheduler.fire(ctx, result.OrderID))

		assert.Equal(t, order.StatusAbandoned, f.store.orders[result.OrderID].Status)
		assert.Equal(t, 260, f.store.items["MANGO"].Quantity, "no stock ever left the shelf")
		assert.Contains(t, f.chat.deleted, "ticket-1")
	})

	t.Run("late fire after payment is a no-op", func(t *testing.T) {
		f := newOrderFixture(t)

		result, err := f.orders.CreateOrder(ctx, "buyer-1", "MANGO", 10)
		require.NoError(t, err)

		// Simulate the timer surviving in a stale reference after payment.
		f.store.orders[result.OrderID].Status = order.StatusPaid

		f.scheduler.fire(ctx, result.OrderID)

		assert.Equal(t, order.StatusPaid, f.store.orders[result.OrderID].Status)
		assert.Empty(t, f.chat.deleted)
	})
}

func TestApplyCoupon(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*orderFixture, int64) {
		f := newOrderFixture(t)
		f.store.addCoupon("PROMO10", 10, 3, true)
		result, err := f.orders.CreateOrder(ctx, "buyer-1", "MANGO", 90)
		require.NoError(t, err)
		return f, result.OrderID
	}

	t.Run("discount recomputes the total", func(t *testing.T) {
		f, orderID := setup(t)

		result, err := f.orders.ApplyCoupon(ctx, orderID, "buyer-1", "PROMO10")
		require.NoError(t, err)

		assert.Equal(t, "PROMO10", result.CouponCode)
		assert.Equal(t, int64(5670), result.TotalCents)
		assert.Equal(t, 2, f.store.coupons["PROMO10"].UsesLeft)
		assert.Equal(t, "PROMO10", f.store.orders[orderID].CouponCode)
	})

	t.Run("only the buyer may apply", func(t *testing.T) {
		f, orderID := setup(t)
		_, err := f.orders.ApplyCoupon(ctx, orderID, "someone-else", "PROMO10")
		assert.ErrorIs(t, err, commands.ErrNotOrderOwner)
	})

	t.Run("second coupon rejected", func(t *testing.T) {
		f, orderID := setup(t)
		_, err := f.orders.ApplyCoupon(ctx, orderID, "buyer-1", "PROMO10")
		require.NoError(t, err)

		_, err = f.orders.ApplyCoupon(ctx, orderID, "buyer-1", "PROMO10")
		assert.ErrorIs(t, err, commands.ErrCouponAlreadyApplied)
		assert.Equal(t, 2, f.store.coupons["PROMO10"].UsesLeft, "uses must not decrement twice")
	})

	t.Run("inactive coupon rejected", func(t *testing.T) {
		f, orderID := setup(t)
		f.store.coupons["PROMO10"].Active = false
		_, err := f.orders.ApplyCoupon(ctx, orderID, "buyer-1", "PROMO10")
		assert.ErrorIs(t, err, commands.ErrCouponNotRedeemable)
	})

	t.Run("exhausted coupon rejected", func(t *testing.T) {
		f, orderID := setup(t)
		f.store.coupons["PROMO10"].UsesLeft = 0
		_, err := f.orders.ApplyCoupon(ctx, orderID, "buyer-1", "PROMO10")
		assert.ErrorIs(t, err, commands.ErrCouponNotRedeemable)
	})

	t.Run("unknown order", func(t *testing.T) {
		f, _ := setup(t)
		_, err := f.orders.ApplyCoupon(ctx, 999, "buyer-1", "PROMO10")
		assert.ErrorIs(t, err, commands.ErrOrderNotFound)
	})
}

func TestMarkPaid(t *testing.T) {
	ctx := context.Background()

	t.Run("settles a pending order once", func(t *testing.T) {
		f := newOrderFixture(t)
		result, err := f.orders.CreateOrder(ctx, "buyer-1", "MANGO", 10)
		require.NoError(t, err)

		settled, err := f.orders.MarkPaid(ctx, result.OrderID)
		require.NoError(t, err)
		assert.True(t, settled)

		snap := f.store.orders[result.OrderID]
		assert.Equal(t, order.StatusPaid, snap.Status)
		assert.Equal(t, "delivery-1", snap.DeliveryChannelID)
		assert.Equal(t, 250, f.store.items["MANGO"].Quantity, "stock leaves at settlement")
		assert.Contains(t, f.chat.rolesGranted, "buyer-1")
		assert.Contains(t, f.scheduler.cancelled, result.OrderID, "payment timer must stop")

		// Second webhook delivery for the same charge.
		settled, err = f.orders.MarkPaid(ctx, result.OrderID)
		require.NoError(t, err)
		assert.False(t, settled)
		assert.Equal(t, 250, f.store.items["MANGO"].Quantity, "stock must not decrement twice")
	})

	t.Run("settlement survives exhausted stock", func(t *testing.T) {
		f := newOrderFixture(t)
		result, err := f.orders.CreateOrder(ctx, "buyer-1", "MANGO", 10)
		require.NoError(t, err)

		f.store.items["MANGO"].Quantity = 3

		settled, err := f.orders.MarkPaid(ctx, result.OrderID)
		require.NoError(t, err)
		assert.True(t, settled, "payment already happened")
		assert.Equal(t, order.StatusPaid, f.store.orders[result.OrderID].Status)
		assert.Equal(t, 3, f.store.items["MANGO"].Quantity)
	})

	t.Run("delivery channel failure keeps the order paid", func(t *testing.T) {
		f := newOrderFixture(t)
		result, err := f.orders.CreateOrder(ctx, "buyer-1", "MANGO", 10)
		require.NoError(t, err)

		f.chat.failDeliveryChannel = true
		settled, err := f.orders.MarkPaid(ctx, result.OrderID)
		require.NoError(t, err)
		assert.True(t, settled)
		assert.Equal(t, order.StatusPaid, f.store.orders[result.OrderID].Status)
	})

	t.Run("unknown order settles nothing", func(t *testing.T) {
		f := newOrderFixture(t)
		settled, err := f.orders.MarkPaid(ctx, 999)
		require.NoError(t, err)
		assert.False(t, settled)
	})
}

func TestConfirmDelivery(t *testing.T) {
	ctx := context.Background()

	paidOrder := func(t *testing.T, f *orderFixture) int64 {
		result, err := f.orders.CreateOrder(ctx, "buyer-1", "MANGO", 10)
		require.NoError(t, err)
		settled, err := f.orders.MarkPaid(ctx, result.OrderID)
		require.NoError(t, err)
		require.True(t, settled)
		return result.OrderID
	}

	t.Run("owner requests proof", func(t *testing.T) {
		f := newOrderFixture(t)
		orderID := paidOrder(t, f)

		result, err := f.orders.ConfirmDelivery(ctx, orderID, "owner-1")
		require.NoError(t, err)

		assert.Equal(t, order.StatusProofRequested, f.store.orders[orderID].Status)
		assert.Contains(t, result.ProofURL, "/api/orders/")
	})

	t.Run("non admin rejected", func(t *testing.T) {
		f := newOrderFixture(t)
		orderID := paidOrder(t, f)

		_, err := f.orders.ConfirmDelivery(ctx, orderID, "buyer-1")
		assert.ErrorIs(t, err, commands.ErrNotAdmin)
	})

	t.Run("unpaid order cannot be confirmed", func(t *testing.T) {
		f := newOrderFixture(t)
		result, err := f.orders.CreateOrder(ctx, "buyer-1", "MANGO", 10)
		require.NoError(t, err)

		_, err = f.orders.ConfirmDelivery(ctx, result.OrderID, "owner-1")
		assert.ErrorIs(t, err, commands.ErrOrderNotPaid)
	})

	t.Run("missing order reported as unpaid", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.orders.ConfirmDelivery(ctx, 999, "owner-1")
		assert.ErrorIs(t, err, commands.ErrOrderNotPaid)
	})
}

func TestManualDelivery(t *testing.T) {
	ctx := context.Background()

	t.Run("synthesizes a recovery order", func(t *testing.T) {
		f := newOrderFixture(t)

		result, err := f.orders.ManualDelivery(ctx, "buyer-1", "MANGO", "owner-1")
		require.NoError(t, err)

		snap := f.store.orders[result.OrderID]
		require.NotNil(t, snap)
		assert.Equal(t, order.StatusManualRecovery, snap.Status)
		assert.Equal(t, 1, snap.Quantity)
		assert.Equal(t, "buyer-1", snap.BuyerRef)
	})

	t.Run("admin only", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.orders.ManualDelivery(ctx, "buyer-1", "MANGO", "buyer-1")
		assert.ErrorIs(t, err, commands.ErrNotAdmin)
	})

	t.Run("unknown item", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.orders.ManualDelivery(ctx, "buyer-1", "DURIAN", "owner-1")
		assert.ErrorIs(t, err, commands.ErrItemNotFound)
	})
}

func TestSubmitProof(t *testing.T) {
	ctx := context.Background()

	proofRequested := func(t *testing.T, f *orderFixture) int64 {
		result, err := f.orders.CreateOrder(ctx, "buyer-1", "MANGO", 10)
		require.NoError(t, err)
		_, err = f.orders.MarkPaid(ctx, result.OrderID)
		require.NoError(t, err)
		_, err = f.orders.ConfirmDelivery(ctx, result.OrderID, "owner-1")
		require.NoError(t, err)
		return result.OrderID
	}

	t.Run("proof completes the delivery", func(t *testing.T) {
		f := newOrderFixture(t)
		orderID := proofRequested(t, f)

		require.NoError(t, f.orders.SubmitProof(ctx, orderID, "https://cdn.example/proof.png", ""))

		snap := f.store.orders[orderID]
		assert.Equal(t, order.StatusDeliveredPendingReview, snap.Status)
		assert.Equal(t, "https://cdn.example/proof.png", snap.PhotoRef)
		assert.Len(t, f.chat.reviewsPosts, 1)
		assert.Contains(t, f.scheduler.callbacks, orderID, "review timer must start")
	})

	t.Run("optional note is recorded", func(t *testing.T) {
		f := newOrderFixture(t)
		orderID := proofRequested(t, f)

		require.NoError(t, f.orders.SubmitProof(ctx, orderID, "https://cdn.example/proof.png", "left at the door"))

		assert.Equal(t, "left at the door", f.store.orders[orderID].Note)
		require.Len(t, f.chat.reviewsPosts, 1)
		fields := f.chat.reviewsPosts[0].Embeds[0].Fields
		require.NotEmpty(t, fields)
		assert.Equal(t, "left at the door", fields[len(fields)-1].Value)
	})

	t.Run("manual recovery orders accept proof", func(t *testing.T) {
		f := newOrderFixture(t)
		result, err := f.orders.ManualDelivery(ctx, "buyer-1", "MANGO", "owner-1")
		require.NoError(t, err)

		require.NoError(t, f.orders.SubmitProof(ctx, result.OrderID, "https://cdn.example/proof.png", ""))
		assert.Equal(t, order.StatusDeliveredPendingReview, f.store.orders[result.OrderID].Status)
	})

	t.Run("pending orders reject proof", func(t *testing.T) {
		f := newOrderFixture(t)
		result, err := f.orders.CreateOrder(ctx, "buyer-1", "MANGO", 10)
		require.NoError(t, err)

		err = f.orders.SubmitProof(ctx, result.OrderID, "https://cdn.example/proof.png", "")
		assert.ErrorIs(t, err, commands.ErrOrderNotAwaitingProof)
	})

	t.Run("review timeout closes the order", func(t *testing.T) {
		f := newOrderFixture(t)
		orderID := proofRequested(t, f)
		require.NoError(t, f.orders.SubmitProof(ctx, orderID, "https://cdn.example/proof.png", ""))

		require.True(t, f.scheduler.fire(ctx, orderID))

		assert.Equal(t, order.StatusClosed, f.store.orders[orderID].Status)
		assert.Contains(t, f.chat.deleted, "ticket-1")
		assert.Contains(t, f.chat.deleted, "delivery-1")
	})
}

func TestCloseTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("buyer abandons a pending order", func(t *testing.T) {
		f := newOrderFixture(t)
		result, err := f.orders.CreateOrder(ctx, "buyer-1", "MANGO", 10)
		require.NoError(t, err)

		require.NoError(t, f.orders.CloseTicket(ctx, result.OrderID, "buyer-1"))

		assert.Equal(t, order.StatusAbandoned, f.store.orders[result.OrderID].Status)
		assert.Contains(t, f.chat.deleted, "ticket-1")
		assert.Contains(t, f.scheduler.cancelled, result.OrderID)
	})

	t.Run("owner may close any ticket", func(t *testing.T) {
		f := newOrderFixture(t)
		result, err := f.orders.CreateOrder(ctx, "buyer-1", "MANGO", 10)
		require.NoError(t, err)

		assert.NoError(t, f.orders.CloseTicket(ctx, result.OrderID, "owner-1"))
	})

	t.Run("strangers may not", func(t *testing.T) {
		f := newOrderFixture(t)
		result, err := f.orders.CreateOrder(ctx, "buyer-1", "MANGO", 10)
		require.NoError(t, err)

		err = f.orders.CloseTicket(ctx, result.OrderID, "someone-else")
		assert.ErrorIs(t, err, commands.ErrNotOrderOwner)
	})

	t.Run("paid orders cannot be abandoned", func(t *testing.T) {
		f := newOrderFixture(t)
		result, err := f.orders.CreateOrder(ctx, "buyer-1", "MANGO", 10)
		require.NoError(t, err)
		_, err = f.orders.MarkPaid(ctx, result.OrderID)
		require.NoError(t, err)

		err = f.orders.CloseTicket(ctx, result.OrderID, "buyer-1")
		assert.ErrorIs(t, err, commands.ErrOrderNotPayable)
	})
}

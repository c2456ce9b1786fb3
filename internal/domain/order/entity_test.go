//go:build unit

package order_test

import (
	"testing"

	"storebot/internal/domain/item"
	"storebot/internal/domain/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(t *testing.T, qty int) *item.Item {
	t.Helper()
	price, err := item.NewMoney(70)
	require.NoError(t, err)
	it, err := item.NewItem("mango", "🥭", price, qty, 500)
	require.NoError(t, err)
	return it
}

func TestNewOrder(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		o, err := order.NewOrder("buyer-1", newTestItem(t, 260), 10)
		require.NoError(t, err)

		assert.Equal(t, order.StatusCreated, o.Status())
		assert.Equal(t, "buyer-1", o.BuyerRef())
		assert.Equal(t, 10, o.Quantity())
		assert.Equal(t, int64(700), o.TotalCents())
		assert.Equal(t, "7.00", o.Total().String())
	})

	t.Run("empty buyer", func(t *testing.T) {
		_, err := order.NewOrder("", newTestItem(t, 10), 1)
		assert.ErrorIs(t, err, order.ErrEmptyBuyer)
	})

	t.Run("non positive quantity", func(t *testing.T) {
		_, err := order.NewOrder("b", newTestItem(t, 10), 0)
		assert.ErrorIs(t, err, order.ErrInvalidQuantity)
	})

	t.Run("quantity above stock", func(t *testing.T) {
		_, err := order.NewOrder("b", newTestItem(t, 10), 11)
		assert.ErrorIs(t, err, item.ErrInsufficientStock)
	})

	t.Run("gift orders start settled", func(t *testing.T) {
		o, err := order.NewGiftOrder("b", newTestItem(t, 10))
		require.NoError(t, err)
		assert.Equal(t, order.StatusPaid, o.Status())
		assert.Equal(t, 1, o.Quantity())
	})

	t.Run("manual orders start in recovery", func(t *testing.T) {
		o, err := order.NewManualOrder("b", newTestItem(t, 0))
		require.NoError(t, err)
		assert.Equal(t, order.StatusManualRecovery, o.Status())
		assert.Equal(t, 1, o.Quantity())
	})
}

func TestOrderCoupon(t *testing.T) {
	o, err := order.NewOrder("buyer-1", newTestItem(t, 260), 90)
	require.NoError(t, err)
	assert.Equal(t, int64(6300), o.TotalCents())

	o.ApplyCoupon("PROMO10", 10)
	assert.Equal(t, "PROMO10", o.CouponCode())
	assert.Equal(t, int64(5670), o.TotalCents())
	assert.Equal(t, "56.70", o.Total().String())
}

func TestOrderTransitions(t *testing.T) {
	t.Run("happy path to closed", func(t *testing.T) {
		o, err := order.NewOrder("b", newTestItem(t, 10), 1)
		require.NoError(t, err)

		for _, next := range []order.Status{
			order.StatusPendingPayment,
			order.StatusPaid,
			order.StatusProofRequested,
			order.StatusDeliveredPendingReview,
			order.StatusClosed,
		} {
			require.NoError(t, o.TransitionTo(next))
		}
		assert.Equal(t, order.StatusClosed, o.Status())
	})

	t.Run("no path backward", func(t *testing.T) {
		o, err := order.NewOrder("b", newTestItem(t, 10), 1)
		require.NoError(t, err)
		require.NoError(t, o.TransitionTo(order.StatusPendingPayment))
		assert.ErrorIs(t, o.TransitionTo(order.StatusCreated), order.ErrInvalidTransition)
	})

	t.Run("abandoned is terminal", func(t *testing.T) {
		o, err := order.NewOrder("b", newTestItem(t, 10), 1)
		require.NoError(t, err)
		require.NoError(t, o.TransitionTo(order.StatusAbandoned))
		assert.ErrorIs(t, o.TransitionTo(order.StatusPendingPayment), order.ErrAlreadyFinalized)
	})

	t.Run("cannot skip payment", func(t *testing.T) {
		o, err := order.NewOrder("b", newTestItem(t, 10), 1)
		require.NoError(t, err)
		assert.ErrorIs(t, o.TransitionTo(order.StatusPaid), order.ErrInvalidTransition)
	})
}

func TestStatus(t *testing.T) {
	t.Run("codes", func(t *testing.T) {
		cases := map[order.Status]int{
			order.StatusCreated:                100,
			order.StatusPendingPayment:         102,
			order.StatusPaid:                   200,
			order.StatusProofRequested:         201,
			order.StatusDeliveredPendingReview: 202,
			order.StatusClosed:                 204,
			order.StatusManualRecovery:         300,
			order.StatusAbandoned:              408,
		}
		for s, want := range cases {
			assert.Equal(t, want, s.Code(), s.String())
		}
		assert.Equal(t, 0, order.Status("bogus").Code())
	})

	t.Run("finalized", func(t *testing.T) {
		assert.True(t, order.StatusClosed.Finalized())
		assert.True(t, order.StatusAbandoned.Finalized())
		assert.True(t, order.StatusDeliveredPendingReview.Finalized())
		assert.False(t, order.StatusPaid.Finalized())
	})

	t.Run("delivered still closes", func(t *testing.T) {
		assert.True(t, order.StatusDeliveredPendingReview.CanTransitionTo(order.StatusClosed))
	})

	t.Run("validity", func(t *testing.T) {
		assert.True(t, order.StatusManualRecovery.IsValid())
		assert.False(t, order.Status("bogus").IsValid())
	})
}

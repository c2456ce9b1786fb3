//go:build unit

package commands_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"storebot/internal/domain/order"
	"storebot/internal/pkg/clock"
	"storebot/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type giftFixture struct {
	store *fakeStore
	chat  *fakeChat
	gifts commands.GiftCommands
}

func newGiftFixture(t *testing.T) *giftFixture {
	t.Helper()

	f := &giftFixture{
		store: newFakeStore(),
		chat:  newFakeChat(),
	}
	f.store.addItem("MANGO", 70, 5, 500)
	f.gifts = commands.NewGiftUseCase(&fakeUoW{store: f.store}, f.chat, clock.NewMockClock(time.Now()))
	return f
}

func TestCreateGift(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a fresh code", func(t *testing.T) {
		f := newGiftFixture(t)

		result, err := f.gifts.CreateGift(ctx, "MANGO")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(result.Code, "PRESENTE-"))
		assert.Contains(t, f.store.gifts, result.Code)
	})

	t.Run("unknown item", func(t *testing.T) {
		f := newGiftFixture(t)
		_, err := f.gifts.CreateGift(ctx, "durian")
		assert.ErrorIs(t, err, commands.ErrItemNotFound)
	})
}

func TestRedeemGift(t *testing.T) {
	ctx := context.Background()

	t.Run("redemption produces a settled order", func(t *testing.T) {
		f := newGiftFixture(t)
		f.store.addGift("PRESENTE-DEADBEEF", "MANGO")

		result, err := f.gifts.RedeemGift(ctx, "buyer-1", "presente-deadbeef")
		require.NoError(t, err)

		snap := f.store.orders[result.OrderID]
		require.NotNil(t, snap)
		assert.Equal(t, order.StatusPaid, snap.Status)
		assert.Equal(t, 1, snap.Quantity)
		assert.Equal(t, 4, f.store.items["MANGO"].Quantity)
		assert.True(t, f.store.gifts["PRESENTE-DEADBEEF"].Redeemed)
		assert.Contains(t, f.chat.rolesGranted, "buyer-1")
	})

	t.Run("second redemption fails", func(t *testing.T) {
		f := newGiftFixture(t)
		f.store.addGift("PRESENTE-DEADBEEF", "MANGO")

		_, err := f.gifts.RedeemGift(ctx, "buyer-1", "PRESENTE-DEADBEEF")
		require.NoError(t, err)

		_, err = f.gifts.RedeemGift(ctx, "buyer-2", "PRESENTE-DEADBEEF")
		assert.ErrorIs(t, err, commands.ErrGiftNotRedeemable)
		assert.Equal(t, 4, f.store.items["MANGO"].Quantity, "stock must not decrement twice")
	})

	t.Run("malformed code", func(t *testing.T) {
		f := newGiftFixture(t)
		_, err := f.gifts.RedeemGift(ctx, "buyer-1", "GIFT-123")
		assert.ErrorIs(t, err, commands.ErrGiftNotRedeemable)
	})

	t.Run("unknown code", func(t *testing.T) {
		f := newGiftFixture(t)
		_, err := f.gifts.RedeemGift(ctx, "buyer-1", "PRESENTE-00000000")
		assert.ErrorIs(t, err, commands.ErrGiftNotRedeemable)
	})

	t.Run("last unit can be gifted", func(t *testing.T) {
		f := newGiftFixture(t)
		f.store.items["MANGO"].Quantity = 1
		f.store.addGift("PRESENTE-DEADBEEF", "MANGO")

		result, err := f.gifts.RedeemGift(ctx, "buyer-1", "PRESENTE-DEADBEEF")
		require.NoError(t, err)
		assert.Equal(t, 0, f.store.items["MANGO"].Quantity)
		assert.Equal(t, order.StatusPaid, f.store.orders[result.OrderID].Status)
	})

	t.Run("out of stock", func(t *testing.T) {
		f := newGiftFixture(t)
		f.store.items["MANGO"].Quantity = 0
		f.store.addGift("PRESENTE-DEADBEEF", "MANGO")

		_, err := f.gifts.RedeemGift(ctx, "buyer-1", "PRESENTE-DEADBEEF")
		assert.ErrorIs(t, err, commands.ErrGiftOutOfStock)
	})
}

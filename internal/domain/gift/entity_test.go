//go:build unit

package gift_test

import (
	"regexp"
	"testing"
	"time"

	"storebot/internal/domain/gift"
	"storebot/internal/domain/item"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	pattern := regexp.MustCompile(`^PRESENTE-[0-9A-F]{8}$`)

	seen := make(map[string]bool)
	for range 100 {
		code := gift.GenerateCode()
		assert.Regexp(t, pattern, code)
		assert.False(t, seen[code], "generated a duplicate code: %s", code)
		seen[code] = true
	}
}

func TestValidateCode(t *testing.T) {
	t.Run("normalizes case and whitespace", func(t *testing.T) {
		code, err := gift.ValidateCode("  presente-deadbeef ")
		require.NoError(t, err)
		assert.Equal(t, "PRESENTE-DEADBEEF", code)
	})

	t.Run("rejects malformed codes", func(t *testing.T) {
		for _, bad := range []string{"", "DEADBEEF", "PRESENTE-", "PRESENTE-SHORT", "GIFT-DEADBEEF"} {
			_, err := gift.ValidateCode(bad)
			assert.ErrorIs(t, err, gift.ErrInvalidGiftCode, bad)
		}
	})
}

func TestRedeem(t *testing.T) {
	now := time.Now()

	t.Run("first redemption succeeds", func(t *testing.T) {
		g := gift.NewGift(item.NewID("Mango"))
		require.NoError(t, g.Redeem("buyer-1", now))

		assert.True(t, g.Redeemed())
		assert.Equal(t, "buyer-1", g.RedeemedBy())
		require.NotNil(t, g.RedeemedAt())
		assert.Equal(t, now, *g.RedeemedAt())
	})

	t.Run("redemption is write once", func(t *testing.T) {
		g := gift.NewGift(item.NewID("Mango"))
		require.NoError(t, g.Redeem("buyer-1", now))

		err := g.Redeem("buyer-2", now.Add(time.Minute))
		assert.ErrorIs(t, err, gift.ErrAlreadyRedeemed)
		assert.Equal(t, "buyer-1", g.RedeemedBy())
	})

	t.Run("empty redeemer rejected", func(t *testing.T) {
		g := gift.NewGift(item.NewID("Mango"))
		assert.ErrorIs(t, g.Redeem("", now), gift.ErrEmptyRedeemer)
	})
}

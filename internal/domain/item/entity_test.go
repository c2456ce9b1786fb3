//go:build unit

package item_test

import (
	"testing"

	"storebot/internal/domain/item"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, cents int64) item.Money {
	t.Helper()
	m, err := item.NewMoney(cents)
	require.NoError(t, err)
	return m
}

func TestNewItem(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		it, err := item.NewItem("Mango Juice", "🥭", mustMoney(t, 70), 260, 500)
		require.NoError(t, err)

		assert.Equal(t, "MANGO_JUICE", it.ID().String())
		assert.Equal(t, "Mango Juice", it.Name())
		assert.Equal(t, "🥭", it.Emoji())
		assert.Equal(t, int64(70), it.Price().Cents())
		assert.Equal(t, 260, it.Quantity())
		assert.Equal(t, 500, it.MaxCapacity())
		assert.True(t, it.InStock())
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name     string
			itemName string
			quantity int
			capacity int
			errIs    error
		}{
			{name: "empty name", itemName: "   ", quantity: 1, capacity: 10, errIs: item.ErrEmptyName},
			{name: "negative quantity", itemName: "x", quantity: -1, capacity: 10, errIs: item.ErrNegativeQuantity},
			{name: "zero capacity", itemName: "x", quantity: 0, capacity: 0, errIs: item.ErrInvalidCapacity},
			{name: "quantity above capacity", itemName: "x", quantity: 11, capacity: 10, errIs: item.ErrInvalidCapacity},
			{name: "quantity at capacity", itemName: "x", quantity: 10, capacity: 10},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := item.NewItem(tc.itemName, "", mustMoney(t, 100), tc.quantity, tc.capacity)
				if tc.errIs != nil {
					assert.ErrorIs(t, err, tc.errIs)
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})
}

func TestItemStock(t *testing.T) {
	newItem := func(t *testing.T, qty int) *item.Item {
		it, err := item.NewItem("mango", "🥭", mustMoney(t, 70), qty, 500)
		require.NoError(t, err)
		return it
	}

	t.Run("reserve reduces quantity", func(t *testing.T) {
		it := newItem(t, 5)
		require.NoError(t, it.Reserve(3))
		assert.Equal(t, 2, it.Quantity())
	})

	t.Run("reserve beyond stock fails", func(t *testing.T) {
		it := newItem(t, 5)
		assert.ErrorIs(t, it.Reserve(6), item.ErrInsufficientStock)
		assert.Equal(t, 5, it.Quantity())
	})

	t.Run("restock beyond capacity fails", func(t *testing.T) {
		it := newItem(t, 499)
		assert.ErrorIs(t, it.Restock(2), item.ErrCapacityExceeded)
	})

	t.Run("sold out items are not in stock", func(t *testing.T) {
		it := newItem(t, 1)
		require.NoError(t, it.Reserve(1))
		assert.False(t, it.InStock())
	})
}

func TestID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Mango Juice", "MANGO_JUICE"},
		{"  mango  ", "MANGO"},
		{"two  spaces", "TWO_SPACES"},
		{"ALREADY_ID", "ALREADY_ID"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, item.NewID(tc.in).String())
	}
}

func TestMoney(t *testing.T) {
	t.Run("negative amounts are rejected", func(t *testing.T) {
		_, err := item.NewMoney(-1)
		assert.ErrorIs(t, err, item.ErrNegativeMoney)
	})

	t.Run("string rendering", func(t *testing.T) {
		cases := []struct {
			cents int64
			want  string
		}{
			{70, "0.70"},
			{6300, "63.00"},
			{7005, "70.05"},
			{0, "0.00"},
		}
		for _, tc := range cases {
			assert.Equal(t, tc.want, mustMoney(t, tc.cents).String())
		}
	})

	t.Run("quantity multiplication", func(t *testing.T) {
		total := mustMoney(t, 70).MulQuantity(90)
		assert.Equal(t, int64(6300), total.Cents())
	})

	t.Run("percent off truncates", func(t *testing.T) {
		discounted := mustMoney(t, 6300).ApplyPercentOff(10)
		assert.Equal(t, int64(5670), discounted.Cents())

		// 1% of 99 cents is fractional; the remainder truncates.
		discounted = mustMoney(t, 99).ApplyPercentOff(1)
		assert.Equal(t, int64(99), discounted.Cents())
	})
}

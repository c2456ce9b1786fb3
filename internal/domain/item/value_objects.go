package item

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNegativeMoney = errors.New("money cannot be negative")

// ID is a stable identifier derived from the item name: uppercased with
// spaces collapsed to underscores. "Fresh Mango" and "fresh mango" map to
// the same item.
type ID string

func NewID(name string) ID {
	name = normalizeName(name)
	return ID(strings.ReplaceAll(strings.ToUpper(name), " ", "_"))
}

func (id ID) String() string {
	return string(id)
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(name)), " ")
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeMoney
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) MulQuantity(qty int) Money {
	return Money{cents: m.cents * int64(qty)}
}

// ApplyPercentOff deducts a whole-percent discount, truncating fractional cents.
func (m Money) ApplyPercentOff(percent int) Money {
	if percent <= 0 {
		return m
	}
	if percent >= 100 {
		return Money{}
	}
	off := m.cents * int64(percent) / 100
	return Money{cents: m.cents - off}
}

// String renders the amount with two decimal places, e.g. 630 -> "6.30".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}

package item

import (
	"errors"
	"time"
)

var (
	ErrEmptyName         = errors.New("item name cannot be empty")
	ErrNegativeQuantity  = errors.New("item quantity cannot be negative")
	ErrInvalidCapacity   = errors.New("max capacity must cover current quantity")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCapacityExceeded  = errors.New("restock exceeds max capacity")
)

type Item struct {
	id          ID
	name        string
	emoji       string
	price       Money
	quantity    int
	maxCapacity int
	createdAt   time.Time
	updatedAt   time.Time
}

func NewItem(name, emoji string, price Money, quantity, maxCapacity int) (*Item, error) {
	name = normalizeName(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	if maxCapacity < 1 || maxCapacity < quantity {
		return nil, ErrInvalidCapacity
	}

	return &Item{
		id:          NewID(name),
		name:        name,
		emoji:       emoji,
		price:       price,
		quantity:    quantity,
		maxCapacity: maxCapacity,
	}, nil
}

func ReconstructItem(
	id ID,
	name, emoji string,
	price Money,
	quantity, maxCapacity int,
	createdAt, updatedAt time.Time,
) *Item {
	return &Item{
		id:          id,
		name:        name,
		emoji:       emoji,
		price:       price,
		quantity:    quantity,
		maxCapacity: maxCapacity,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Reserve removes qty units from stock. The caller persists the result.
func (i *Item) Reserve(qty int) error {
	if qty <= 0 {
		return ErrNegativeQuantity
	}
	if qty > i.quantity {
		return ErrInsufficientStock
	}
	i.quantity -= qty
	return nil
}

// Restock returns qty units to stock, capped by max capacity.
func (i *Item) Restock(qty int) error {
	if qty <= 0 {
		return ErrNegativeQuantity
	}
	if i.quantity+qty > i.maxCapacity {
		return ErrCapacityExceeded
	}
	i.quantity += qty
	return nil
}

func (i *Item) InStock() bool {
	return i.quantity > 0
}

func (i *Item) ID() ID                { return i.id }
func (i *Item) Name() string          { return i.name }
func (i *Item) Emoji() string         { return i.emoji }
func (i *Item) Price() Money          { return i.price }
func (i *Item) Quantity() int         { return i.quantity }
func (i *Item) MaxCapacity() int      { return i.maxCapacity }
func (i *Item) CreatedAt() time.Time  { return i.createdAt }
func (i *Item) UpdatedAt() time.Time  { return i.updatedAt }

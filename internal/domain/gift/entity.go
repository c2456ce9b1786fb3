package gift

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"storebot/internal/domain/item"
)

var (
	ErrAlreadyRedeemed = errors.New("gift code already redeemed")
	ErrEmptyRedeemer   = errors.New("redeemer reference cannot be empty")
	ErrInvalidGiftCode = errors.New("invalid gift code format")
)

const codePrefix = "PRESENTE-"

// GenerateCode produces a fresh gift code: the fixed prefix followed by
// eight uppercase hex characters.
func GenerateCode() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return codePrefix + strings.ToUpper(hex.EncodeToString(b))
}

func ValidateCode(code string) (string, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !strings.HasPrefix(code, codePrefix) || len(code) != len(codePrefix)+8 {
		return "", ErrInvalidGiftCode
	}
	return code, nil
}

type Gift struct {
	id         uuid.UUID
	code       string
	itemID     item.ID
	redeemed   bool
	redeemedBy string
	redeemedAt *time.Time
	createdAt  time.Time
}

func NewGift(itemID item.ID) *Gift {
	return &Gift{
		id:     uuid.New(),
		code:   GenerateCode(),
		itemID: itemID,
	}
}

func ReconstructGift(
	id uuid.UUID,
	code string,
	itemID item.ID,
	redeemed bool,
	redeemedBy string,
	redeemedAt *time.Time,
	createdAt time.Time,
) *Gift {
	return &Gift{
		id:         id,
		code:       code,
		itemID:     itemID,
		redeemed:   redeemed,
		redeemedBy: redeemedBy,
		redeemedAt: redeemedAt,
		createdAt:  createdAt,
	}
}

// Redeem marks the code consumed. Redemption is write-once.
func (g *Gift) Redeem(by string, at time.Time) error {
	if by == "" {
		return ErrEmptyRedeemer
	}
	if g.redeemed {
		return ErrAlreadyRedeemed
	}
	g.redeemed = true
	g.redeemedBy = by
	g.redeemedAt = &at
	return nil
}

func (g *Gift) ID() uuid.UUID          { return g.id }
func (g *Gift) Code() string           { return g.code }
func (g *Gift) ItemID() item.ID        { return g.itemID }
func (g *Gift) Redeemed() bool         { return g.redeemed }
func (g *Gift) RedeemedBy() string     { return g.redeemedBy }
func (g *Gift) RedeemedAt() *time.Time { return g.redeemedAt }
func (g *Gift) CreatedAt() time.Time   { return g.createdAt }

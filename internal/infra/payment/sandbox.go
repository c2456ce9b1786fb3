package payment

import (
	"context"
	"fmt"
	"time"

	"storebot/internal/pkg/clock"
	"storebot/internal/pkg/config"
	"storebot/internal/usecase/commands"
)

// SandboxGateway issues fake charges for local development and tests.
// The copy-paste payload is deterministic so flows can be exercised
// without provider credentials.
type SandboxGateway struct {
	cfg   config.PaymentConfig
	clock clock.Clock
}

func NewSandboxGateway(cfg config.PaymentConfig, clk clock.Clock) *SandboxGateway {
	return &SandboxGateway{cfg: cfg, clock: clk}
}

func (g *SandboxGateway) CreateCharge(_ context.Context, txid string, amountCents int64, _ string) (*commands.Charge, error) {
	return &commands.Charge{
		TxID:        txid,
		QRCodeText:  fmt.Sprintf("sandbox-pix-%s-%d", txid, amountCents),
		AmountCents: amountCents,
		ExpiresAt:   g.clock.Now().Add(time.Duration(g.cfg.ChargeExpiry) * time.Second),
	}, nil
}

var _ commands.PaymentGateway = (*SandboxGateway)(nil)

package bootstrap

import (
	"storebot/internal/infra/chat"
	"storebot/internal/infra/payment"
	"storebot/internal/pkg/clock"
	"storebot/internal/pkg/config"
	"storebot/internal/usecase/commands"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateways",
	fx.Provide(
		fx.Annotate(
			NewChatGateway,
			fx.As(new(commands.ChatGateway)),
		),
		NewPaymentGateway,
	),
)

func NewChatGateway(cfg config.Config) *chat.Client {
	return chat.NewClient(cfg.Chat)
}

// NewPaymentGateway picks the provider client. Sandbox mode swaps the
// real PIX API for deterministic local charges.
func NewPaymentGateway(cfg config.Config, clk clock.Clock) commands.PaymentGateway {
	if cfg.Payment.Sandbox {
		return payment.NewSandboxGateway(cfg.Payment, clk)
	}
	return payment.NewPixClient(cfg.Payment, clk)
}

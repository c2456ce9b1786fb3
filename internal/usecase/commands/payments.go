package commands

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
)

// Payment providers echo the charge's txid back on the webhook. Charges
// are issued as TICKET<order id>-<timestamp>, so the order is recovered
// from the txid alone; anything else on the webhook body is untrusted.
var ticketTxIDPattern = regexp.MustCompile(`^TICKET(\d+)`)

const sandboxProbeTxID = "teste_webhook"

type PaymentCommands interface {
	// HandlePaymentEvent correlates a provider webhook with an order and
	// settles it. Events that match no order are ignored, not errors: the
	// provider retries on non-2xx and an unknown txid never becomes known.
	HandlePaymentEvent(ctx context.Context, txid string) error
}

type paymentUseCaseImpl struct {
	orders OrderCommands
}

func NewPaymentUseCase(orders OrderCommands) PaymentCommands {
	return &paymentUseCaseImpl{orders: orders}
}

func (u *paymentUseCaseImpl) HandlePaymentEvent(ctx context.Context, txid string) error {
	if txid == sandboxProbeTxID {
		// Provider connectivity probe, not a payment.
		return nil
	}

	m := ticketTxIDPattern.FindStringSubmatch(txid)
	if m == nil {
		slog.Info("ignoring payment event with unrecognized txid", "txid", txid)
		return nil
	}

	orderID, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		slog.Info("ignoring payment event with unparseable order id", "txid", txid)
		return nil
	}

	settled, err := u.orders.MarkPaid(ctx, orderID)
	if err != nil {
		return err
	}
	if !settled {
		slog.Info("payment event for already-settled order", "order_id", orderID)
	}
	return nil
}

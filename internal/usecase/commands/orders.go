package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"storebot/internal/domain/item"
	"storebot/internal/domain/order"
	"storebot/internal/infra"
	"storebot/internal/pkg/clock"
	"storebot/internal/pkg/config"
	"storebot/internal/pkg/errs"
	"storebot/internal/usecase/shared"
)

var (
	ErrItemNotFound          = errs.New("item not found")
	ErrItemInUse             = errs.New("item is referenced by orders or gift codes")
	ErrOrderNotFound         = errs.New("order not found")
	ErrInsufficientStock     = errs.New("insufficient stock")
	ErrInvalidQuantity       = errs.New("invalid quantity")
	ErrOrderNotPayable       = errs.New("order is not awaiting payment")
	ErrOrderNotPaid          = errs.New("order is not in a paid state")
	ErrOrderNotAwaitingProof = errs.New("order is not awaiting delivery proof")
	ErrNotOrderOwner         = errs.New("actor does not own this order")
	ErrNotAdmin              = errs.New("actor is not the store administrator")
	ErrCouponAlreadyApplied  = errs.New("order already has a coupon")
	ErrCouponNotRedeemable   = errs.New("coupon cannot be redeemed")
	ErrChannelFailed         = errs.New("failed to create chat channel")
)

const (
	colorPending   = 0xF1C40F
	colorPaid      = 0x2ECC71
	colorDelivered = 0x3498DB
	colorAbandoned = 0xE74C3C
)

type CreateOrderResult struct {
	OrderID         int64
	TicketChannelID string
	TotalCents      int64
	Charge          *Charge
}

type ApplyCouponResult struct {
	CouponCode      string
	DiscountPercent int
	TotalCents      int64
}

type ConfirmDeliveryResult struct {
	OrderID  int64
	ProofURL string
}

type OrderCommands interface {
	CreateOrder(ctx context.Context, buyerRef, itemID string, quantity int) (*CreateOrderResult, error)
	ApplyCoupon(ctx context.Context, orderID int64, buyerRef, code string) (*ApplyCouponResult, error)
	// MarkPaid settles the order. It is idempotent: the second call for
	// the same order reports settled=false with no error.
	MarkPaid(ctx context.Context, orderID int64) (bool, error)
	ConfirmDelivery(ctx context.Context, orderID int64, actorRef string) (*ConfirmDeliveryResult, error)
	// ManualDelivery recovers a delivery whose order record is missing by
	// synthesizing a fresh single-unit order for the buyer.
	ManualDelivery(ctx context.Context, buyerRef, itemID, actorRef string) (*ConfirmDeliveryResult, error)
	// SubmitProof records the delivery proof photo plus an optional
	// courier note for the audit trail.
	SubmitProof(ctx context.Context, orderID int64, photoRef, note string) error
	CloseTicket(ctx context.Context, orderID int64, actorRef string) error
}

type orderUseCaseImpl struct {
	uow       shared.UnitOfWork
	chat      ChatGateway
	payment   PaymentGateway
	scheduler TimerScheduler
	clock     clock.Clock
	server    config.ServerConfig
	chatCfg   config.ChatConfig
	lifecycle config.LifecycleConfig
}

func NewOrderUseCase(
	uow shared.UnitOfWork,
	chat ChatGateway,
	payment PaymentGateway,
	scheduler TimerScheduler,
	clk clock.Clock,
	cfg config.Config,
) OrderCommands {
	return &orderUseCaseImpl{
		uow:       uow,
		chat:      chat,
		payment:   payment,
		scheduler: scheduler,
		clock:     clk,
		server:    cfg.Server,
		chatCfg:   cfg.Chat,
		lifecycle: cfg.Lifecycle,
	}
}

func (u *orderUseCaseImpl) CreateOrder(ctx context.Context, buyerRef, itemID string, quantity int) (*CreateOrderResult, error) {
	snap, err := u.uow.CommandReads().ItemByID(ctx, item.ID(itemID))
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	it, err := reconstructItem(snap)
	if err != nil {
		return nil, err
	}

	orderEntity, err := order.NewOrder(buyerRef, it, quantity)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidQuantity):
			return nil, ErrInvalidQuantity
		case errors.Is(err, item.ErrInsufficientStock):
			return nil, ErrInsufficientStock
		default:
			return nil, err
		}
	}

	var orderID int64
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		orderID, err = tx.Orders().Create(ctx, tx.DB(), orderEntity)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &CreateOrderResult{
		OrderID:    orderID,
		TotalCents: orderEntity.TotalCents(),
	}

	channelID, err := u.chat.CreateTicketChannel(ctx, buyerRef, orderID)
	if err != nil {
		u.abandonOrder(ctx, orderID, order.StatusCreated)
		return nil, errs.Mark(err, ErrChannelFailed)
	}
	result.TicketChannelID = channelID

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Orders().SetTicketChannel(ctx, tx.DB(), orderID, channelID)
	})
	if err != nil {
		return nil, err
	}

	// Charge creation is fallible by contract: when the payment provider
	// is down the ticket stays open with manual-payment instructions
	// instead of failing the purchase.
	txid := fmt.Sprintf("TICKET%d-%d", orderID, u.clock.Now().UnixMilli())
	charge, chargeErr := u.payment.CreateCharge(ctx, txid, result.TotalCents, orderEntity.ItemName())
	if chargeErr != nil {
		slog.Warn("failed to create payment charge", "order_id", orderID, "error", chargeErr.Error())
		charge = nil
	}
	result.Charge = charge

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ok, err := tx.Orders().UpdateStatus(ctx, tx.DB(), orderID, order.StatusCreated, order.StatusPendingPayment)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOrderNotPayable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	msg := manualPaymentMessage(orderEntity, u.lifecycle.PaymentTimeout)
	if charge != nil {
		msg = paymentRequestMessage(orderEntity, charge, u.lifecycle.PaymentTimeout)
	}
	if sendErr := u.chat.SendMessage(ctx, channelID, msg); sendErr != nil {
		slog.Warn("failed to post payment instructions", "order_id", orderID, "error", sendErr.Error())
	}

	u.scheduler.Schedule(orderID, u.lifecycle.PaymentTimeout, func(ctx context.Context) {
		u.expireUnpaidOrder(ctx, orderID, channelID)
	})

	return result, nil
}

func (u *orderUseCaseImpl) ApplyCoupon(ctx context.Context, orderID int64, buyerRef, code string) (*ApplyCouponResult, error) {
	snap, err := u.uow.CommandReads().OrderByID(ctx, orderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if snap.BuyerRef != buyerRef {
		return nil, ErrNotOrderOwner
	}
	if snap.Status != order.StatusPendingPayment {
		return nil, ErrOrderNotPayable
	}
	if snap.CouponCode != "" {
		return nil, ErrCouponAlreadyApplied
	}

	var result *ApplyCouponResult
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		couponSnap, ok, err := tx.Coupons().Redeem(ctx, tx.DB(), code)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCouponNotRedeemable
		}

		if err := tx.Orders().SetCoupon(ctx, tx.DB(), orderID, couponSnap.Code, couponSnap.DiscountPercent); err != nil {
			return err
		}

		total := snap.UnitPriceCents * int64(snap.Quantity)
		total -= total * int64(couponSnap.DiscountPercent) / 100

		result = &ApplyCouponResult{
			CouponCode:      couponSnap.Code,
			DiscountPercent: couponSnap.DiscountPercent,
			TotalCents:      total,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (u *orderUseCaseImpl) MarkPaid(ctx context.Context, orderID int64) (bool, error) {
	snap, err := u.uow.CommandReads().OrderByID(ctx, orderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return false, nil
		}
		return false, err
	}

	var settled, stocked bool
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ok, err := tx.Orders().UpdateStatus(ctx, tx.DB(), orderID, order.StatusPendingPayment, order.StatusPaid)
		if err != nil {
			return err
		}
		settled = ok
		if !ok {
			return nil
		}
		// Stock leaves the shelf at settlement, not at checkout.
		stocked, err = tx.Items().AdjustStock(ctx, tx.DB(), snap.ItemID, -snap.Quantity)
		return err
	})
	if err != nil {
		return false, err
	}
	if !settled {
		// Already paid, abandoned, or unknown: nothing to do.
		return false, nil
	}
	if !stocked {
		// The payment already happened; settle anyway and flag the drift.
		slog.Warn("stock exhausted before settlement", "order_id", orderID, "item_id", snap.ItemID)
	}

	u.scheduler.Cancel(orderID)

	if snap.TicketChannelID != "" {
		msg := paidConfirmationMessage(snap)
		if sendErr := u.chat.SendMessage(ctx, snap.TicketChannelID, msg); sendErr != nil {
			slog.Warn("failed to post payment confirmation", "order_id", orderID, "error", sendErr.Error())
		}
	}

	// Delivery channel and role grant are conveniences, not lifecycle
	// steps: the order stays paid even when the platform rejects them.
	deliveryID, chanErr := u.chat.CreateDeliveryChannel(ctx, snap.BuyerRef, orderID)
	if chanErr != nil {
		slog.Warn("failed to create delivery channel", "order_id", orderID, "error", chanErr.Error())
	} else {
		err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Orders().SetDeliveryChannel(ctx, tx.DB(), orderID, deliveryID)
		})
		if err != nil {
			slog.Warn("failed to persist delivery channel", "order_id", orderID, "error", err.Error())
		}
	}

	if roleErr := u.chat.GrantClientRole(ctx, snap.BuyerRef); roleErr != nil {
		slog.Warn("failed to grant client role", "buyer_ref", snap.BuyerRef, "error", roleErr.Error())
	}

	return true, nil
}

func (u *orderUseCaseImpl) ConfirmDelivery(ctx context.Context, orderID int64, actorRef string) (*ConfirmDeliveryResult, error) {
	if actorRef != u.chatCfg.OwnerUserID {
		return nil, ErrNotAdmin
	}

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ok, err := tx.Orders().UpdateStatus(ctx, tx.DB(), orderID, order.StatusPaid, order.StatusProofRequested)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOrderNotPaid
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ConfirmDeliveryResult{
		OrderID:  orderID,
		ProofURL: u.proofURL(orderID),
	}, nil
}

func (u *orderUseCaseImpl) ManualDelivery(ctx context.Context, buyerRef, itemID, actorRef string) (*ConfirmDeliveryResult, error) {
	if actorRef != u.chatCfg.OwnerUserID {
		return nil, ErrNotAdmin
	}

	snap, err := u.uow.CommandReads().ItemByID(ctx, item.ID(itemID))
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	it, err := reconstructItem(snap)
	if err != nil {
		return nil, err
	}

	orderEntity, err := order.NewManualOrder(buyerRef, it)
	if err != nil {
		return nil, err
	}

	var orderID int64
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		orderID, err = tx.Orders().Create(ctx, tx.DB(), orderEntity)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &ConfirmDeliveryResult{
		OrderID:  orderID,
		ProofURL: u.proofURL(orderID),
	}, nil
}

func (u *orderUseCaseImpl) SubmitProof(ctx context.Context, orderID int64, photoRef, note string) error {
	snap, err := u.uow.CommandReads().OrderByID(ctx, orderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	from := snap.Status
	if from != order.StatusProofRequested && from != order.StatusManualRecovery {
		return ErrOrderNotAwaitingProof
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ok, err := tx.Orders().UpdateStatus(ctx, tx.DB(), orderID, from, order.StatusDeliveredPendingReview)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOrderNotAwaitingProof
		}
		return tx.Orders().SetProof(ctx, tx.DB(), orderID, photoRef, note)
	})
	if err != nil {
		return err
	}

	if sendErr := u.chat.SendToReviews(ctx, deliveredMessage(snap, photoRef, note)); sendErr != nil {
		slog.Warn("failed to post delivery notice", "order_id", orderID, "error", sendErr.Error())
	}

	u.scheduler.Schedule(orderID, u.lifecycle.ReviewTimeout, func(ctx context.Context) {
		u.closeUnreviewedOrder(ctx, orderID)
	})

	return nil
}

func (u *orderUseCaseImpl) CloseTicket(ctx context.Context, orderID int64, actorRef string) error {
	snap, err := u.uow.CommandReads().OrderByID(ctx, orderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	if actorRef != snap.BuyerRef && actorRef != u.chatCfg.OwnerUserID {
		return ErrNotOrderOwner
	}

	from := snap.Status
	if from != order.StatusCreated && from != order.StatusPendingPayment {
		return ErrOrderNotPayable
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ok, err := tx.Orders().UpdateStatus(ctx, tx.DB(), orderID, from, order.StatusAbandoned)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOrderNotPayable
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.scheduler.Cancel(orderID)
	u.cleanupChannels(ctx, snap.TicketChannelID, "")
	return nil
}

// expireUnpaidOrder is the payment-timeout callback. The CAS makes a
// late fire a no-op: an order that was paid in the meantime is left
// untouched.
func (u *orderUseCaseImpl) expireUnpaidOrder(ctx context.Context, orderID int64, channelID string) {
	var expired bool
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ok, err := tx.Orders().UpdateStatus(ctx, tx.DB(), orderID, order.StatusPendingPayment, order.StatusAbandoned)
		if err != nil {
			return err
		}
		expired = ok
		return nil
	})
	if err != nil {
		slog.Error("failed to expire unpaid order", "order_id", orderID, "error", err.Error())
		return
	}
	if !expired {
		return
	}

	if channelID != "" {
		msg := Message{Embeds: []Embed{{
			Title:       "Order expired",
			Description: "Payment was not received in time. This ticket will be removed shortly.",
			Color:       colorAbandoned,
		}}}
		if sendErr := u.chat.SendMessage(ctx, channelID, msg); sendErr != nil {
			slog.Warn("failed to post expiry notice", "order_id", orderID, "error", sendErr.Error())
		}
		time.Sleep(u.lifecycle.CleanupGrace)
		if delErr := u.chat.DeleteChannel(ctx, channelID); delErr != nil {
			slog.Warn("failed to delete expired ticket channel", "order_id", orderID, "error", delErr.Error())
		}
	}
}

// closeUnreviewedOrder is the review-timeout callback.
func (u *orderUseCaseImpl) closeUnreviewedOrder(ctx context.Context, orderID int64) {
	var closed bool
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ok, err := tx.Orders().UpdateStatus(ctx, tx.DB(), orderID, order.StatusDeliveredPendingReview, order.StatusClosed)
		if err != nil {
			return err
		}
		closed = ok
		return nil
	})
	if err != nil {
		slog.Error("failed to close unreviewed order", "order_id", orderID, "error", err.Error())
		return
	}
	if !closed {
		return
	}

	snap, err := u.uow.CommandReads().OrderByID(ctx, orderID)
	if err != nil {
		slog.Warn("failed to read order for channel cleanup", "order_id", orderID, "error", err.Error())
		return
	}
	u.cleanupChannels(ctx, snap.TicketChannelID, snap.DeliveryChannelID)
}

func (u *orderUseCaseImpl) cleanupChannels(ctx context.Context, channelIDs ...string) {
	for _, id := range channelIDs {
		if id == "" {
			continue
		}
		if err := u.chat.DeleteChannel(ctx, id); err != nil {
			slog.Warn("failed to delete channel", "channel_id", id, "error", err.Error())
		}
	}
}

func (u *orderUseCaseImpl) abandonOrder(ctx context.Context, orderID int64, from order.Status) {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Orders().UpdateStatus(ctx, tx.DB(), orderID, from, order.StatusAbandoned)
		return err
	})
	if err != nil {
		slog.Error("failed to abandon order", "order_id", orderID, "error", err.Error())
	}
}

func (u *orderUseCaseImpl) proofURL(orderID int64) string {
	return fmt.Sprintf("%s/api/orders/%d/proof", u.server.BaseURL, orderID)
}

func reconstructItem(snap *shared.ItemSnapshot) (*item.Item, error) {
	price, err := item.NewMoney(snap.PriceCents)
	if err != nil {
		return nil, err
	}
	return item.ReconstructItem(
		snap.ID, snap.Name, snap.Emoji, price,
		snap.Quantity, snap.MaxCapacity,
		time.Time{}, time.Time{},
	), nil
}

func paymentRequestMessage(o *order.Order, charge *Charge, timeout time.Duration) Message {
	total := o.Total()
	return Message{Embeds: []Embed{{
		Title:       "Payment requested",
		Description: fmt.Sprintf("Pay within %d seconds or this ticket closes automatically.", int(timeout.Seconds())),
		Color:       colorPending,
		ImageURL:    charge.QRCodeImage,
		Fields: []EmbedField{
			{Name: "Item", Value: fmt.Sprintf("%dx %s", o.Quantity(), o.ItemName()), Inline: true},
			{Name: "Total", Value: total.String(), Inline: true},
			{Name: "Copy and paste", Value: charge.QRCodeText},
		},
	}}}
}

func manualPaymentMessage(o *order.Order, timeout time.Duration) Message {
	total := o.Total()
	return Message{Embeds: []Embed{{
		Title:       "Payment requested",
		Description: fmt.Sprintf("We could not generate a payment code. Please contact an administrator to pay directly. The ticket closes in %d seconds without payment.", int(timeout.Seconds())),
		Color:       colorPending,
		Fields: []EmbedField{
			{Name: "Item", Value: fmt.Sprintf("%dx %s", o.Quantity(), o.ItemName()), Inline: true},
			{Name: "Total", Value: total.String(), Inline: true},
		},
	}}}
}

func paidConfirmationMessage(snap *shared.OrderSnapshot) Message {
	return Message{Embeds: []Embed{{
		Title:       "Payment confirmed",
		Description: "Your payment was received. Delivery is on the way.",
		Color:       colorPaid,
		Fields: []EmbedField{
			{Name: "Order", Value: fmt.Sprintf("#%d", snap.ID), Inline: true},
			{Name: "Item", Value: fmt.Sprintf("%dx %s", snap.Quantity, snap.ItemName), Inline: true},
		},
	}}}
}

func deliveredMessage(snap *shared.OrderSnapshot, photoRef, note string) Message {
	fields := []EmbedField{
		{Name: "Item", Value: fmt.Sprintf("%dx %s", snap.Quantity, snap.ItemName), Inline: true},
	}
	if note != "" {
		fields = append(fields, EmbedField{Name: "Note", Value: note})
	}
	return Message{Embeds: []Embed{{
		Title:       "Order delivered",
		Description: fmt.Sprintf("Order #%d was delivered and awaits a review.", snap.ID),
		Color:       colorDelivered,
		ImageURL:    photoRef,
		Fields:      fields,
	}}}
}

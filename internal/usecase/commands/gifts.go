package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"storebot/internal/domain/gift"
	"storebot/internal/domain/item"
	"storebot/internal/domain/order"
	"storebot/internal/infra"
	"storebot/internal/pkg/clock"
	"storebot/internal/pkg/errs"
	"storebot/internal/usecase/shared"
)

var (
	ErrGiftNotRedeemable = errs.New("gift code is invalid or already redeemed")
	ErrGiftOutOfStock    = errs.New("gifted item is out of stock")
)

type CreateGiftResult struct {
	GiftID uuid.UUID
	Code   string
}

type RedeemGiftResult struct {
	OrderID  int64
	ItemName string
}

type GiftCommands interface {
	CreateGift(ctx context.Context, itemID string) (*CreateGiftResult, error)
	// RedeemGift consumes a gift code and produces an already-settled
	// single-unit order for the redeemer.
	RedeemGift(ctx context.Context, buyerRef, code string) (*RedeemGiftResult, error)
}

type giftUseCaseImpl struct {
	uow   shared.UnitOfWork
	chat  ChatGateway
	clock clock.Clock
}

func NewGiftUseCase(uow shared.UnitOfWork, chat ChatGateway, clk clock.Clock) GiftCommands {
	return &giftUseCaseImpl{uow: uow, chat: chat, clock: clk}
}

func (u *giftUseCaseImpl) CreateGift(ctx context.Context, itemID string) (*CreateGiftResult, error) {
	if _, err := u.uow.CommandReads().ItemByID(ctx, item.ID(itemID)); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	g := gift.NewGift(item.ID(itemID))

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Gifts().Create(ctx, tx.DB(), g)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &CreateGiftResult{GiftID: g.ID(), Code: g.Code()}, nil
}

func (u *giftUseCaseImpl) RedeemGift(ctx context.Context, buyerRef, code string) (*RedeemGiftResult, error) {
	normalized, err := gift.ValidateCode(code)
	if err != nil {
		return nil, ErrGiftNotRedeemable
	}

	var result *RedeemGiftResult
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		giftSnap, ok, err := tx.Gifts().Redeem(ctx, tx.DB(), normalized, buyerRef, u.clock.Now())
		if err != nil {
			return err
		}
		if !ok {
			return ErrGiftNotRedeemable
		}

		itemSnap, err := tx.Reads().ItemByID(ctx, giftSnap.ItemID)
		if err != nil {
			return err
		}

		it, err := reconstructItem(itemSnap)
		if err != nil {
			return err
		}

		ok, err = tx.Items().AdjustStock(ctx, tx.DB(), giftSnap.ItemID, -1)
		if err != nil {
			return err
		}
		if !ok {
			return ErrGiftOutOfStock
		}

		orderEntity, err := order.NewGiftOrder(buyerRef, it)
		if err != nil {
			return err
		}

		orderID, err := tx.Orders().Create(ctx, tx.DB(), orderEntity)
		if err != nil {
			return err
		}

		result = &RedeemGiftResult{OrderID: orderID, ItemName: it.Name()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Delivery channel and role are best-effort; redemption already stands.
	channelID, chanErr := u.chat.CreateDeliveryChannel(ctx, buyerRef, result.OrderID)
	if chanErr != nil {
		slog.Warn("failed to create gift delivery channel", "order_id", result.OrderID, "error", chanErr.Error())
	} else {
		err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Orders().SetDeliveryChannel(ctx, tx.DB(), result.OrderID, channelID)
		})
		if err != nil {
			slog.Warn("failed to persist gift delivery channel", "order_id", result.OrderID, "error", err.Error())
		}

		msg := Message{Embeds: []Embed{{
			Title:       "Gift redeemed",
			Description: fmt.Sprintf("Your gift was accepted. Order #%d: %s.", result.OrderID, result.ItemName),
			Color:       colorPaid,
		}}}
		if sendErr := u.chat.SendMessage(ctx, channelID, msg); sendErr != nil {
			slog.Warn("failed to post gift confirmation", "order_id", result.OrderID, "error", sendErr.Error())
		}
	}

	if roleErr := u.chat.GrantClientRole(ctx, buyerRef); roleErr != nil {
		slog.Warn("failed to grant client role", "buyer_ref", buyerRef, "error", roleErr.Error())
	}

	return result, nil
}

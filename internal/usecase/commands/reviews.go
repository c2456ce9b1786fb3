package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"storebot/internal/domain/order"
	"storebot/internal/domain/review"
	"storebot/internal/infra"
	"storebot/internal/pkg/clock"
	"storebot/internal/pkg/errs"
	"storebot/internal/usecase/shared"
)

var (
	ErrOrderNotReviewable = errs.New("order is not awaiting a review")
	ErrDuplicateReview    = errs.New("order already has a review")
)

type SubmitReviewResult struct {
	ReviewID uuid.UUID
	Stars    string
}

type ReviewCommands interface {
	// SubmitReview closes the order. One review per order; the buyer who
	// placed the order is the only eligible reviewer.
	SubmitReview(ctx context.Context, orderID int64, buyerRef string, rating int, comment string) (*SubmitReviewResult, error)
}

type reviewUseCaseImpl struct {
	uow       shared.UnitOfWork
	chat      ChatGateway
	scheduler TimerScheduler
	clock     clock.Clock
}

func NewReviewUseCase(uow shared.UnitOfWork, chat ChatGateway, scheduler TimerScheduler, clk clock.Clock) ReviewCommands {
	return &reviewUseCaseImpl{uow: uow, chat: chat, scheduler: scheduler, clock: clk}
}

func (u *reviewUseCaseImpl) SubmitReview(ctx context.Context, orderID int64, buyerRef string, rating int, comment string) (*SubmitReviewResult, error) {
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
	if snap.Status != order.StatusDeliveredPendingReview {
		return nil, ErrOrderNotReviewable
	}

	reviewEntity, err := review.NewReview(orderID, buyerRef, rating, comment, u.clock.Now())
	if err != nil {
		return nil, err
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Reviews().Create(ctx, tx.DB(), reviewEntity); err != nil {
			return err
		}

		ok, err := tx.Orders().UpdateStatus(ctx, tx.DB(), orderID, order.StatusDeliveredPendingReview, order.StatusClosed)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOrderNotReviewable
		}
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	u.scheduler.Cancel(orderID)

	stars := reviewEntity.Rating().Stars()
	msg := Message{Embeds: []Embed{{
		Title:       "New review",
		Description: fmt.Sprintf("%s\n\n%s", stars, reviewEntity.Comment().String()),
		Color:       colorDelivered,
		Fields: []EmbedField{
			{Name: "Order", Value: fmt.Sprintf("#%d", orderID), Inline: true},
			{Name: "Item", Value: snap.ItemName, Inline: true},
		},
	}}}
	if sendErr := u.chat.SendToReviews(ctx, msg); sendErr != nil {
		slog.Warn("failed to post review", "order_id", orderID, "error", sendErr.Error())
	}

	for _, channelID := range []string{snap.TicketChannelID, snap.DeliveryChannelID} {
		if channelID == "" {
			continue
		}
		if delErr := u.chat.DeleteChannel(ctx, channelID); delErr != nil {
			slog.Warn("failed to delete channel after review", "channel_id", channelID, "error", delErr.Error())
		}
	}

	return &SubmitReviewResult{ReviewID: reviewEntity.ID(), Stars: stars}, nil
}

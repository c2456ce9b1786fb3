package commands

import (
	"context"

	"github.com/google/uuid"

	"storebot/internal/domain/coupon"
	"storebot/internal/infra"
	"storebot/internal/pkg/errs"
	"storebot/internal/usecase/shared"
)

var (
	ErrCouponNotFound  = errs.New("coupon not found")
	ErrDuplicateCoupon = errs.New("coupon code already exists")
)

type CouponCommands interface {
	CreateCoupon(ctx context.Context, code string, discountPercent, uses int) (uuid.UUID, error)
	SetCouponActive(ctx context.Context, id uuid.UUID, active bool) error
	DeleteCoupon(ctx context.Context, id uuid.UUID) error
}

type couponUseCaseImpl struct {
	uow shared.UnitOfWork
}

func NewCouponUseCase(uow shared.UnitOfWork) CouponCommands {
	return &couponUseCaseImpl{uow: uow}
}

func (u *couponUseCaseImpl) CreateCoupon(ctx context.Context, code string, discountPercent, uses int) (uuid.UUID, error) {
	c, err := coupon.NewCoupon(code, discountPercent, uses)
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err = tx.Coupons().Create(ctx, tx.DB(), c)
		return err
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, ErrDuplicateCoupon
		}
		return uuid.Nil, err
	}
	return id, nil
}

func (u *couponUseCaseImpl) SetCouponActive(ctx context.Context, id uuid.UUID, active bool) error {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Coupons().SetActive(ctx, tx.DB(), id, active)
	})
	if infra.IsKind(err, infra.KindNotFound) {
		return ErrCouponNotFound
	}
	return err
}

func (u *couponUseCaseImpl) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Coupons().Delete(ctx, tx.DB(), id)
	})
	if infra.IsKind(err, infra.KindNotFound) {
		return ErrCouponNotFound
	}
	return err
}

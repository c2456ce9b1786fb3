package commands

import (
	"context"

	"storebot/internal/domain/item"
	"storebot/internal/infra"
	"storebot/internal/usecase/shared"
)

type ItemCommands interface {
	UpsertItem(ctx context.Context, name, emoji string, priceCents int64, quantity, maxCapacity int) (string, error)
	DeleteItem(ctx context.Context, id string) error
	// SeedDefaults installs the default catalog on an empty store. It is
	// safe to run on every boot.
	SeedDefaults(ctx context.Context) error
}

type itemUseCaseImpl struct {
	uow shared.UnitOfWork
}

func NewItemUseCase(uow shared.UnitOfWork) ItemCommands {
	return &itemUseCaseImpl{uow: uow}
}

func (u *itemUseCaseImpl) UpsertItem(ctx context.Context, name, emoji string, priceCents int64, quantity, maxCapacity int) (string, error) {
	price, err := item.NewMoney(priceCents)
	if err != nil {
		return "", err
	}

	it, err := item.NewItem(name, emoji, price, quantity, maxCapacity)
	if err != nil {
		return "", err
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Items().Upsert(ctx, tx.DB(), it)
	})
	if err != nil {
		return "", err
	}
	return it.ID().String(), nil
}

func (u *itemUseCaseImpl) DeleteItem(ctx context.Context, id string) error {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Items().Delete(ctx, tx.DB(), item.ID(id))
	})
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return ErrItemNotFound
	case infra.IsKind(err, infra.KindForeignKeyViolated):
		// Orders and gift codes reference items; the audit trail wins.
		return ErrItemInUse
	}
	return err
}

func (u *itemUseCaseImpl) SeedDefaults(ctx context.Context) error {
	defaults := []struct {
		name     string
		emoji    string
		cents    int64
		quantity int
		capacity int
	}{
		{"MANGO", "🥭", 70, 260, 500},
	}

	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		for _, d := range defaults {
			if _, err := tx.Reads().ItemByID(ctx, item.NewID(d.name)); err == nil {
				// Already present; never clobber a live stock count.
				continue
			} else if !infra.IsKind(err, infra.KindNotFound) {
				return err
			}

			price, err := item.NewMoney(d.cents)
			if err != nil {
				return err
			}
			it, err := item.NewItem(d.name, d.emoji, price, d.quantity, d.capacity)
			if err != nil {
				return err
			}
			if err := tx.Items().Upsert(ctx, tx.DB(), it); err != nil {
				return err
			}
		}
		return nil
	})
}

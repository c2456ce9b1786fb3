package bootstrap

import (
	"context"

	"storebot/internal/scheduler"
	"storebot/internal/usecase/commands"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		fx.Annotate(
			NewScheduler,
			fx.As(new(commands.TimerScheduler)),
		),
	),
)

func NewScheduler(lc fx.Lifecycle) *scheduler.Scheduler {
	s := scheduler.New()

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			s.Stop()
			return nil
		},
	})

	return s
}

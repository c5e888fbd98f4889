package bootstrap

import (
	"context"
	"log/slog"
	"sync"

	"cng-slot-booking/internal/infra/mq"
	"cng-slot-booking/internal/pkg/clock"
	"cng-slot-booking/internal/pkg/config"
	"cng-slot-booking/internal/usecase/shared"
	"cng-slot-booking/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Invoke(
		StartExpirySweep,
		StartOutboxRelay,
	),
)

func StartExpirySweep(lc fx.Lifecycle, cfg config.Config, uow shared.UnitOfWork, clk clock.Clock, logger *slog.Logger) {
	if !cfg.Sweep.Enabled {
		logger.Info("expiry sweep disabled")
		return
	}
	sweeper := worker.NewExpirySweeper(uow, clk, cfg.Sweep.Interval)
	runInBackground(lc, sweeper.Run, nil)
}

// StartOutboxRelay leaves jobs queued in the database when MQ_URL is empty.
func StartOutboxRelay(lc fx.Lifecycle, cfg config.Config, uow shared.UnitOfWork, clk clock.Clock, logger *slog.Logger) error {
	if cfg.MQ.URL == "" {
		logger.Info("MQ_URL not set, outbox relay disabled")
		return nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
	if err != nil {
		return err
	}
	relay := worker.NewOutboxRelay(uow, publisher, clk, cfg.MQ.PollInterval, cfg.MQ.BatchSize)
	runInBackground(lc, relay.Run, publisher.Close)
	return nil
}

func runInBackground(lc fx.Lifecycle, run func(ctx context.Context), cleanup func() error) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				run(ctx)
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			wg.Wait()
			if cleanup != nil {
				return cleanup()
			}
			return nil
		},
	})
}

package worker

import (
	"context"
	"log/slog"
	"time"

	"cng-slot-booking/internal/pkg/clock"
	"cng-slot-booking/internal/usecase/shared"
)

const (
	relayBaseBackoff = 10 * time.Second
	relayMaxBackoff  = 30 * time.Minute
)

type Publisher interface {
	Publish(ctx context.Context, routingKey, messageID string, body []byte) error
}

// OutboxRelay drains notification_jobs to the message broker. Delivery is at least once;
// consumers dedupe on the message id, which is the job id.
type OutboxRelay struct {
	uow       shared.UnitOfWork
	publisher Publisher
	clock     clock.Clock
	interval  time.Duration
	batchSize int32
}

func NewOutboxRelay(uow shared.UnitOfWork, publisher Publisher, clk clock.Clock, interval time.Duration, batchSize int32) *OutboxRelay {
	return &OutboxRelay{
		uow:       uow,
		publisher: publisher,
		clock:     clk,
		interval:  interval,
		batchSize: batchSize,
	}
}

// RelayOnce returns how many jobs were published.
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	sent := 0

	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sent = 0
		now := r.clock.Now()

		jobs, err := tx.Notifications().ClaimDue(ctx, now, r.batchSize)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			pubErr := r.publisher.Publish(ctx, job.Topic, job.ID.String(), job.Payload)
			if pubErr != nil {
				slog.Warn("failed to publish notification job",
					"job_id", job.ID,
					"kind", job.Kind,
					"attempts", job.Attempts,
					"error", pubErr.Error())
				if err := tx.Notifications().MarkFailed(ctx, job.ID, pubErr.Error(), now.Add(retryBackoff(job.Attempts))); err != nil {
					return err
				}
				continue
			}

			if err := tx.Notifications().MarkSent(ctx, job.ID, now); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return sent, nil
}

func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	slog.Info("outbox relay started", "interval", r.interval.String(), "batch_size", r.batchSize)
	for {
		select {
		case <-ctx.Done():
			slog.Info("outbox relay stopped")
			return
		case <-ticker.C:
			n, err := r.RelayOnce(ctx)
			if err != nil {
				slog.Error("outbox relay failed", "error", err.Error())
				continue
			}
			if n > 0 {
				slog.Debug("relayed notification jobs", "count", n)
			}
		}
	}
}

func retryBackoff(attempts int32) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	if attempts > 12 {
		return relayMaxBackoff
	}
	d := relayBaseBackoff * time.Duration(1<<(attempts-1))
	if d > relayMaxBackoff {
		return relayMaxBackoff
	}
	return d
}

package worker

import (
	"context"
	"log/slog"
	"time"

	"cng-slot-booking/internal/pkg/clock"
	"cng-slot-booking/internal/usecase/shared"
)

type SweepResult struct {
	Overdue   int64
	Cancelled int64
}

// ExpirySweeper moves valid tokens to expired once their expiry passed or their booking was cancelled.
// Redemption checks the clock itself; this only keeps stored status honest.
type ExpirySweeper struct {
	uow      shared.UnitOfWork
	clock    clock.Clock
	interval time.Duration
}

func NewExpirySweeper(uow shared.UnitOfWork, clk clock.Clock, interval time.Duration) *ExpirySweeper {
	return &ExpirySweeper{uow: uow, clock: clk, interval: interval}
}

func (s *ExpirySweeper) SweepOnce(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	now := s.clock.Now()

	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		overdue, err := tx.Tokens().ExpireOverdue(ctx, now)
		if err != nil {
			return err
		}
		cancelled, err := tx.Tokens().ExpireCancelled(ctx)
		if err != nil {
			return err
		}
		res = SweepResult{Overdue: overdue, Cancelled: cancelled}
		return nil
	})
	if err != nil {
		return SweepResult{}, err
	}
	return res, nil
}

func (s *ExpirySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("expiry sweep started", "interval", s.interval.String())
	for {
		select {
		case <-ctx.Done():
			slog.Info("expiry sweep stopped")
			return
		case <-ticker.C:
			res, err := s.SweepOnce(ctx)
			if err != nil {
				slog.Error("expiry sweep failed", "error", err.Error())
				continue
			}
			if res.Overdue > 0 || res.Cancelled > 0 {
				slog.Info("expired stale tokens",
					"overdue", res.Overdue,
					"cancelled_bookings", res.Cancelled)
			}
		}
	}
}

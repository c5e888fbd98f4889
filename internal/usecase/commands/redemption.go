package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"cng-slot-booking/internal/domain/booking"
	"cng-slot-booking/internal/domain/scan"
	"cng-slot-booking/internal/domain/token"
	"cng-slot-booking/internal/domain/user"
	"cng-slot-booking/internal/infra"
	"cng-slot-booking/internal/pkg/clock"
	"cng-slot-booking/internal/pkg/errs"
	"cng-slot-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	maxAuditCodeLength   = 64
	topicTokenRedeemed   = "token.redeemed"
	defaultAuditDeadline = 2 * time.Second
)

var (
	ErrRedemptionStorage = errs.New("redemption storage failure")

	errRedemptionRaced = errs.New("token changed state during redemption")
)

// Actor is the authenticated caller, resolved by the transport layer.
type Actor struct {
	UserID uuid.UUID
	Role   user.Role
}

// RedeemTokenRequest carries a code candidate already extracted from the scanned payload.
type RedeemTokenRequest struct {
	Code   string
	PumpID uuid.UUID
}

// RedemptionResult is returned for every expected outcome; only storage failures are errors.
type RedemptionResult struct {
	Result          scan.Result
	TokenID         *uuid.UUID
	Booking         *shared.BookingSnapshot
	EarliestValidAt *time.Time
}

type RedemptionCommands interface {
	Redeem(ctx context.Context, actor Actor, req RedeemTokenRequest) (*RedemptionResult, error)
}

type redemptionCommandsImpl struct {
	uow          shared.UnitOfWork
	audit        shared.ScanAuditLog
	window       token.WindowPolicy
	clock        clock.Clock
	auditTimeout time.Duration
}

func NewRedemptionCommands(
	uow shared.UnitOfWork,
	audit shared.ScanAuditLog,
	window token.WindowPolicy,
	clk clock.Clock,
	auditTimeout time.Duration,
) RedemptionCommands {
	if auditTimeout <= 0 {
		auditTimeout = defaultAuditDeadline
	}
	return &redemptionCommandsImpl{
		uow:          uow,
		audit:        audit,
		window:       window,
		clock:        clk,
		auditTimeout: auditTimeout,
	}
}

func (uc *redemptionCommandsImpl) Redeem(ctx context.Context, actor Actor, req RedeemTokenRequest) (*RedemptionResult, error) {
	code, err := token.ParseCode(req.Code)
	if err != nil {
		return uc.finish(ctx, actor, req, nil, &RedemptionResult{Result: scan.ResultInvalidFormat}), nil
	}
	submitted := code.String()
	reads := uc.uow.CommandReads()

	granted, err := reads.HasPumpGrant(ctx, actor.UserID, req.PumpID)
	if err != nil {
		return nil, errs.Mark(err, ErrRedemptionStorage)
	}
	if !granted {
		return uc.finish(ctx, actor, req, nil, &RedemptionResult{Result: scan.ResultUnauthorizedPump}), nil
	}

	snap, err := reads.TokenByCode(ctx, submitted)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return uc.finish(ctx, actor, req, nil, &RedemptionResult{Result: scan.ResultNotFound}), nil
		}
		return nil, errs.Mark(err, ErrRedemptionStorage)
	}
	tokenID := snap.ID

	if snap.Booking.PumpID != req.PumpID {
		return uc.finish(ctx, actor, req, &tokenID, &RedemptionResult{Result: scan.ResultWrongPump}), nil
	}

	tok, err := restoreToken(snap)
	if err != nil {
		return nil, errs.Mark(err, ErrRedemptionStorage)
	}
	b, err := restoreBooking(&snap.Booking)
	if err != nil {
		return nil, errs.Mark(err, ErrRedemptionStorage)
	}

	switch tok.Status() {
	case token.StatusUsed:
		return uc.finish(ctx, actor, req, &tokenID, &RedemptionResult{Result: scan.ResultAlreadyUsed}), nil
	case token.StatusExpired:
		return uc.finish(ctx, actor, req, &tokenID, &RedemptionResult{Result: scan.ResultExpired}), nil
	}

	slotStart := b.Slot().At(uc.window.Location)
	now := uc.clock.Now()

	switch uc.window.Check(now, slotStart, tok.ExpiryTime()) {
	case token.WindowExpired:
		uc.expireLate(ctx, tok)
		return uc.finish(ctx, actor, req, &tokenID, &RedemptionResult{Result: scan.ResultExpired}), nil
	case token.WindowTooEarly:
		earliest := uc.window.EarliestScan(slotStart)
		return uc.finish(ctx, actor, req, &tokenID, &RedemptionResult{
			Result:          scan.ResultTooEarly,
			EarliestValidAt: &earliest,
		}), nil
	}

	// A booking that left confirmed while its token stayed valid lost a race with cancel or completion.
	if tok.MarkUsed(now) != nil || b.Complete() != nil {
		return uc.finish(ctx, actor, req, &tokenID, &RedemptionResult{Result: scan.ResultRaceCondition}), nil
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		won, txErr := tx.Tokens().MarkUsed(ctx, tok.ID(), *tok.ScanTime())
		if txErr != nil {
			return txErr
		}
		if !won {
			return errRedemptionRaced
		}

		completed, txErr := tx.Bookings().TransitionStatus(ctx, b.ID(), booking.StatusConfirmed, b.Status())
		if txErr != nil {
			return txErr
		}
		if !completed {
			slog.Warn("booking left confirmed state during redemption",
				"booking_id", snap.BookingID,
				"token_id", snap.ID)
			return errRedemptionRaced
		}

		payload, txErr := json.Marshal(tokenRedeemedEvent{
			TokenID:   snap.ID,
			BookingID: snap.BookingID,
			PumpID:    req.PumpID,
			ScannedBy: actor.UserID,
			ScannedAt: now,
		})
		if txErr != nil {
			return txErr
		}
		return tx.Notifications().CreateJob(ctx, shared.JobTokenRedeemed, topicTokenRedeemed, payload, now)
	})
	if err != nil {
		if errs.Is(err, errRedemptionRaced) {
			return uc.finish(ctx, actor, req, &tokenID, &RedemptionResult{Result: scan.ResultRaceCondition}), nil
		}
		return nil, errs.Mark(err, ErrRedemptionStorage)
	}

	completedBooking := snap.Booking
	completedBooking.Status = b.Status().String()
	return uc.finish(ctx, actor, req, &tokenID, &RedemptionResult{
		Result:  scan.ResultSuccess,
		Booking: &completedBooking,
	}), nil
}

// expireLate persists the wall-clock expiry. Losing the CAS is fine: the token is terminal either way.
func (uc *redemptionCommandsImpl) expireLate(ctx context.Context, tok *token.Token) {
	if tok.Expire() != nil {
		return
	}
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Tokens().Expire(ctx, tok.ID())
		return err
	})
	if err != nil {
		slog.Error("failed to expire overdue token", "token_id", tok.ID(), "error", err.Error())
	}
}

// finish writes the audit row and hands the result back. The write survives caller cancellation.
func (uc *redemptionCommandsImpl) finish(ctx context.Context, actor Actor, req RedeemTokenRequest, tokenID *uuid.UUID, res *RedemptionResult) *RedemptionResult {
	res.TokenID = tokenID

	attempt := scan.NewAttempt(tokenID, req.PumpID, actor.UserID, res.Result, auditCode(req.Code), uc.clock.Now())

	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.auditTimeout)
	defer cancel()

	if err := uc.audit.Append(auditCtx, attempt); err != nil {
		slog.Error("failed to write scan audit",
			"result", res.Result.String(),
			"pump_id", req.PumpID,
			"scanned_by", actor.UserID,
			"error", err.Error())
	}

	return res
}

func auditCode(raw string) string {
	runes := []rune(raw)
	if len(runes) > maxAuditCodeLength {
		return string(runes[:maxAuditCodeLength])
	}
	return raw
}

type tokenRedeemedEvent struct {
	TokenID   uuid.UUID `json:"tokenId"`
	BookingID uuid.UUID `json:"bookingId"`
	PumpID    uuid.UUID `json:"pumpId"`
	ScannedBy uuid.UUID `json:"scannedBy"`
	ScannedAt time.Time `json:"scannedAt"`
}

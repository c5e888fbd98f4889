package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"cng-slot-booking/internal/domain/booking"
	"cng-slot-booking/internal/domain/token"
	"cng-slot-booking/internal/infra"
	"cng-slot-booking/internal/pkg/clock"
	"cng-slot-booking/internal/pkg/errs"
	"cng-slot-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultCodeMaxAttempts = 5

	topicBookingCreated   = "booking.created"
	topicBookingCancelled = "booking.cancelled"
)

var (
	ErrPumpNotFound         = errs.New("pump not found")
	ErrPumpClosed           = errs.New("pump is closed")
	ErrBookingNotFound      = errs.New("booking not found")
	ErrBookingAccessDenied  = errs.New("booking access denied")
	ErrBookingNotActive     = errs.New("booking is no longer confirmed")
	ErrTokenCodeExhausted   = errs.New("could not allocate a unique token code")
	ErrTokenIssueFailed     = errs.New("token issuance failed")
	ErrConfirmationRejected = errs.New("confirmation must be coming or not_coming")
)

type CreateBookingRequest struct {
	PumpID       uuid.UUID
	SlotDate     string
	SlotTime     string
	FuelQuantity decimal.Decimal
	Amount       decimal.Decimal
}

type CreateBookingResult struct {
	BookingID  uuid.UUID
	TokenID    uuid.UUID
	TokenCode  string
	QRData     string
	ExpiryTime time.Time
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, actor Actor, req CreateBookingRequest) (*CreateBookingResult, error)
	CancelBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) error
	UpdateConfirmation(ctx context.Context, actor Actor, bookingID uuid.UUID, confirmation string) error
}

type bookingCommandsImpl struct {
	uow         shared.UnitOfWork
	generator   token.Generator
	window      token.WindowPolicy
	clock       clock.Clock
	maxAttempts int
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	generator token.Generator,
	window token.WindowPolicy,
	clk clock.Clock,
	maxAttempts int,
) BookingCommands {
	if maxAttempts <= 0 {
		maxAttempts = DefaultCodeMaxAttempts
	}
	return &bookingCommandsImpl{
		uow:         uow,
		generator:   generator,
		window:      window,
		clock:       clk,
		maxAttempts: maxAttempts,
	}
}

func (uc *bookingCommandsImpl) CreateBooking(ctx context.Context, actor Actor, req CreateBookingRequest) (*CreateBookingResult, error) {
	slot, err := booking.NewSlot(req.SlotDate, req.SlotTime)
	if err != nil {
		return nil, err
	}
	fuel, err := booking.NewFuelQuantity(req.FuelQuantity)
	if err != nil {
		return nil, err
	}
	amount, err := booking.NewAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	pump, err := uc.uow.CommandReads().PumpByID(ctx, req.PumpID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPumpNotFound
		}
		return nil, err
	}
	if !pump.IsOpen {
		return nil, ErrPumpClosed
	}

	now := uc.clock.Now()
	b, err := booking.NewBooking(actor.UserID, req.PumpID, slot, fuel, amount, now, uc.window.Location)
	if err != nil {
		return nil, err
	}
	expiry := uc.window.ExpiryFor(slot.At(uc.window.Location))

	var issued *token.Token
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if txErr := tx.Bookings().Create(ctx, b); txErr != nil {
			return txErr
		}

		tok, txErr := uc.issueToken(ctx, tx, b.ID(), expiry, now)
		if txErr != nil {
			return txErr
		}

		payload, txErr := json.Marshal(bookingEvent{
			BookingID: b.ID(),
			UserID:    b.UserID(),
			PumpID:    b.PumpID(),
			SlotDate:  slot.Date(),
			SlotTime:  slot.Time(),
			TokenCode: tok.Code().String(),
		})
		if txErr != nil {
			return txErr
		}
		if txErr = tx.Notifications().CreateJob(ctx, shared.JobBookingCreated, topicBookingCreated, payload, now); txErr != nil {
			return txErr
		}

		issued = tok
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CreateBookingResult{
		BookingID:  b.ID(),
		TokenID:    issued.ID(),
		TokenCode:  issued.Code().String(),
		QRData:     issued.QRPayload(),
		ExpiryTime: issued.ExpiryTime(),
	}, nil
}

// issueToken draws codes until one is free, giving up after maxAttempts.
func (uc *bookingCommandsImpl) issueToken(ctx context.Context, tx shared.Tx, bookingID uuid.UUID, expiry, now time.Time) (*token.Token, error) {
	var tok *token.Token
	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		code, err := uc.generator.Generate()
		if err != nil {
			return nil, errs.Mark(err, ErrTokenIssueFailed)
		}

		if tok == nil {
			tok, err = token.NewToken(bookingID, code, expiry, now)
			if err != nil {
				return nil, errs.Mark(err, ErrTokenIssueFailed)
			}
		} else {
			tok.WithCode(code)
		}

		inserted, err := tx.Tokens().InsertIfAbsent(ctx, tok)
		if err != nil {
			return nil, err
		}
		if inserted {
			return tok, nil
		}

		slog.Warn("token code collision",
			"booking_id", bookingID,
			"attempt", attempt)
	}

	slog.Error("token code space exhausted for booking",
		"booking_id", bookingID,
		"attempts", uc.maxAttempts)
	return nil, ErrTokenCodeExhausted
}

func (uc *bookingCommandsImpl) CancelBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) error {
	now := uc.clock.Now()

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := uc.loadForActor(ctx, tx.Reads(), actor, bookingID, true)
		if err != nil {
			return err
		}
		if err := b.Cancel(); err != nil {
			return ErrBookingNotActive
		}

		cancelled, err := tx.Bookings().Cancel(ctx, bookingID)
		if err != nil {
			return err
		}
		if !cancelled {
			return ErrBookingNotActive
		}

		// The token and the booking change together so a cancelled booking never keeps a valid code.
		expired, err := tx.Tokens().ExpireByBookingID(ctx, bookingID)
		if err != nil {
			return err
		}
		if !expired {
			slog.Warn("cancelled booking had no valid token", "booking_id", bookingID)
		}

		payload, err := json.Marshal(bookingEvent{
			BookingID:   bookingID,
			UserID:      b.UserID(),
			PumpID:      b.PumpID(),
			SlotDate:    b.Slot().Date(),
			SlotTime:    b.Slot().Time(),
			CancelledBy: &actor.UserID,
		})
		if err != nil {
			return err
		}
		return tx.Notifications().CreateJob(ctx, shared.JobBookingCancelled, topicBookingCancelled, payload, now)
	})
}

func (uc *bookingCommandsImpl) UpdateConfirmation(ctx context.Context, actor Actor, bookingID uuid.UUID, confirmation string) error {
	c, err := booking.NewConfirmationStatus(confirmation)
	if err != nil {
		return err
	}
	if c == nil || *c == booking.ConfirmationPending {
		return ErrConfirmationRejected
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := uc.loadForActor(ctx, tx.Reads(), actor, bookingID, false)
		if err != nil {
			return err
		}
		if err := b.Confirm(*c); err != nil {
			if errs.Is(err, booking.ErrNotConfirmed) {
				return ErrBookingNotActive
			}
			return err
		}

		updated, err := tx.Bookings().UpdateConfirmation(ctx, bookingID, *b.Confirmation())
		if err != nil {
			return err
		}
		if !updated {
			return ErrBookingNotActive
		}
		return nil
	})
}

// loadForActor returns the booking when actor owns it, or, with allowStaff, holds a grant for its pump.
func (uc *bookingCommandsImpl) loadForActor(ctx context.Context, reads shared.CommandReads, actor Actor, bookingID uuid.UUID, allowStaff bool) (*booking.Booking, error) {
	snap, err := reads.BookingByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	b, err := restoreBooking(snap)
	if err != nil {
		return nil, err
	}

	if b.IsOwnedBy(actor.UserID) {
		return b, nil
	}
	if !allowStaff || !actor.Role.IsStaff() {
		return nil, ErrBookingAccessDenied
	}

	granted, err := reads.HasPumpGrant(ctx, actor.UserID, b.PumpID())
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, ErrBookingAccessDenied
	}
	return b, nil
}

type bookingEvent struct {
	BookingID   uuid.UUID  `json:"bookingId"`
	UserID      uuid.UUID  `json:"userId"`
	PumpID      uuid.UUID  `json:"pumpId"`
	SlotDate    string     `json:"slotDate"`
	SlotTime    string     `json:"slotTime"`
	TokenCode   string     `json:"tokenCode,omitempty"`
	CancelledBy *uuid.UUID `json:"cancelledBy,omitempty"`
}

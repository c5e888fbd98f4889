package commands

import (
	"cng-slot-booking/internal/domain/booking"
	"cng-slot-booking/internal/domain/token"
	"cng-slot-booking/internal/pkg/errs"
	"cng-slot-booking/internal/usecase/shared"
)

// restoreBooking rebuilds the aggregate so state changes go through its transition rules
// before the matching conditional write runs.
func restoreBooking(snap *shared.BookingSnapshot) (*booking.Booking, error) {
	slot, err := booking.NewSlot(snap.SlotDate, snap.SlotTime)
	if err != nil {
		return nil, errs.Wrap(err, "stored slot is unreadable")
	}
	status, err := booking.NewStatus(snap.Status)
	if err != nil {
		return nil, errs.Wrap(err, "stored booking status is unreadable")
	}

	var confirmation *booking.ConfirmationStatus
	if snap.ConfirmationStatus != nil {
		confirmation, err = booking.NewConfirmationStatus(*snap.ConfirmationStatus)
		if err != nil {
			return nil, errs.Wrap(err, "stored confirmation is unreadable")
		}
	}

	return booking.Reconstruct(
		snap.ID, snap.UserID, snap.PumpID,
		slot,
		snap.FuelQuantity, snap.Amount,
		status,
		confirmation,
		snap.CreatedAt, snap.UpdatedAt,
	), nil
}

func restoreToken(snap *shared.TokenSnapshot) (*token.Token, error) {
	code, err := token.NewCode(snap.Code)
	if err != nil {
		return nil, errs.Wrap(err, "stored token code is unreadable")
	}
	status, err := token.NewStatus(snap.Status)
	if err != nil {
		return nil, errs.Wrap(err, "stored token status is unreadable")
	}
	return token.Reconstruct(snap.ID, snap.BookingID, code, status, snap.ExpiryTime, snap.ScanTime, snap.CreatedAt), nil
}

package api

import (
	"net/http"

	"cng-slot-booking/internal/domain/booking"
	"cng-slot-booking/internal/pkg/errs"
	"cng-slot-booking/internal/usecase/commands"
	"cng-slot-booking/internal/usecase/queries"
)

type errorMapping struct {
	target error
	status int
	msg    string
}

var errorMappings = []errorMapping{
	{booking.ErrInvalidSlotDate, http.StatusBadRequest, "Invalid slot date"},
	{booking.ErrInvalidSlotTime, http.StatusBadRequest, "Invalid slot time"},
	{booking.ErrInvalidFuelQuantity, http.StatusBadRequest, "Fuel quantity must be greater than 0 and at most 50"},
	{booking.ErrInvalidAmount, http.StatusBadRequest, "Amount must be greater than 0"},
	{booking.ErrSlotInPast, http.StatusBadRequest, "Slot is in the past"},
	{booking.ErrInvalidConfirmation, http.StatusBadRequest, "Invalid confirmation status"},
	{commands.ErrConfirmationRejected, http.StatusBadRequest, "Confirmation must be coming or not_coming"},

	{commands.ErrBookingAccessDenied, http.StatusForbidden, "Access denied"},
	{queries.ErrAccessDenied, http.StatusForbidden, "Access denied"},

	{commands.ErrPumpNotFound, http.StatusNotFound, "Pump not found"},
	{queries.ErrPumpNotFound, http.StatusNotFound, "Pump not found"},
	{commands.ErrBookingNotFound, http.StatusNotFound, "Booking not found"},
	{queries.ErrBookingNotFound, http.StatusNotFound, "Booking not found"},
	{queries.ErrTokenNotFound, http.StatusNotFound, "Token not found"},

	{commands.ErrPumpClosed, http.StatusConflict, "Pump is closed"},
	{commands.ErrBookingNotActive, http.StatusConflict, "Booking is no longer confirmed"},
}

// statusFor maps a usecase error to an HTTP status and public message.
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errs.Is(err, m.target) {
			return m.status, m.msg
		}
	}
	return http.StatusInternalServerError, "Internal error"
}

package request

import (
	"cng-slot-booking/internal/domain/booking"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds slotdate and slottime to gin's validator. Safe to call more than once.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("slotdate", validateSlotDate); err != nil {
		return err
	}
	return v.RegisterValidation("slottime", validateSlotTime)
}

func validateSlotDate(fl validator.FieldLevel) bool {
	_, err := booking.NewSlot(fl.Field().String(), "00:00")
	return err == nil
}

func validateSlotTime(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != len(booking.SlotTimeLayout) {
		return false
	}
	_, err := booking.NewSlot("2000-01-01", s)
	return err == nil
}

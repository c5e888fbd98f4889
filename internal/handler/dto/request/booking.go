package request

import (
	"cng-slot-booking/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	PumpID       string          `json:"pumpId" binding:"required,uuid"`
	SlotDate     string          `json:"slotDate" binding:"required,slotdate"`
	SlotTime     string          `json:"slotTime" binding:"required,slottime"`
	FuelQuantity decimal.Decimal `json:"fuelQuantity"`
	Amount       decimal.Decimal `json:"amount"`
}

func (r CreateBookingRequest) ToCommand() (commands.CreateBookingRequest, error) {
	pumpID, err := uuid.Parse(r.PumpID)
	if err != nil {
		return commands.CreateBookingRequest{}, err
	}
	return commands.CreateBookingRequest{
		PumpID:       pumpID,
		SlotDate:     r.SlotDate,
		SlotTime:     r.SlotTime,
		FuelQuantity: r.FuelQuantity,
		Amount:       r.Amount,
	}, nil
}

type UpdateConfirmationRequest struct {
	Status string `json:"status" binding:"required,oneof=coming not_coming"`
}

package response

import (
	"time"

	"cng-slot-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

// Placeholders staff see when the customer never filled in a profile field.
const (
	unknownCustomerName = "Unknown"
	notAvailable        = "N/A"
)

// RedeemedBooking is what the attendant needs to fill the vehicle.
type RedeemedBooking struct {
	ID            uuid.UUID `json:"id"`
	SlotDate      string    `json:"slotDate"`
	SlotTime      string    `json:"slotTime"`
	FuelQuantity  string    `json:"fuelQuantity"`
	Amount        string    `json:"amount"`
	CustomerName  string    `json:"customerName"`
	VehicleNumber string    `json:"vehicleNumber" copier:"-"`
	Phone         string    `json:"phone" copier:"-"`
}

type RedeemSuccessResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Booking *RedeemedBooking `json:"booking"`
}

type RedeemFailureResponse struct {
	Success         bool       `json:"success"`
	Error           string     `json:"error"`
	Result          string     `json:"result,omitempty"`
	EarliestValidAt *time.Time `json:"earliestValidAt,omitempty"`
}

func FromRedemptionSuccess(r *commands.RedemptionResult) (*RedeemSuccessResponse, error) {
	var booking RedeemedBooking
	if err := copyInto(&booking, r.Booking); err != nil {
		return nil, err
	}
	if booking.CustomerName == "" {
		booking.CustomerName = unknownCustomerName
	}
	booking.VehicleNumber = orNotAvailable(r.Booking.VehicleNumber)
	booking.Phone = orNotAvailable(r.Booking.Phone)
	return &RedeemSuccessResponse{
		Success: true,
		Message: r.Result.Message(),
		Booking: &booking,
	}, nil
}

func RedeemFailure(msg string) *RedeemFailureResponse {
	return &RedeemFailureResponse{Success: false, Error: msg}
}

func FromRedemptionFailure(r *commands.RedemptionResult) *RedeemFailureResponse {
	msg := r.Result.Message()
	if r.EarliestValidAt != nil {
		// earliest is already in the pump's zone
		msg = msg + ". Scan after " + r.EarliestValidAt.Format("15:04")
	}
	return &RedeemFailureResponse{
		Success:         false,
		Error:           msg,
		Result:          r.Result.String(),
		EarliestValidAt: r.EarliestValidAt,
	}
}

func orNotAvailable(v *string) string {
	if v == nil || *v == "" {
		return notAvailable
	}
	return *v
}

package response

import (
	"time"

	"cng-slot-booking/internal/usecase/commands"
	"cng-slot-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID                 uuid.UUID `json:"id"`
	PumpID             uuid.UUID `json:"pumpId"`
	PumpName           string    `json:"pumpName"`
	SlotDate           string    `json:"slotDate"`
	SlotTime           string    `json:"slotTime"`
	FuelQuantity       string    `json:"fuelQuantity"`
	Amount             string    `json:"amount"`
	BookingStatus      string    `json:"bookingStatus"`
	ConfirmationStatus *string   `json:"confirmationStatus,omitempty"`
	TokenCode          *string   `json:"tokenCode,omitempty"`
	TokenStatus        *string   `json:"tokenStatus,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type CreateBookingResponse struct {
	BookingID  uuid.UUID `json:"bookingId"`
	TokenCode  string    `json:"tokenCode"`
	QRData     string    `json:"qrData"`
	ExpiryTime time.Time `json:"expiryTime"`
}

func FromBookingView(v *queries.BookingView) (*BookingResponse, error) {
	var res BookingResponse
	if err := copyInto(&res, v); err != nil {
		return nil, err
	}
	return &res, nil
}

func FromBookingList(views []*queries.BookingView) ([]*BookingResponse, error) {
	out := make([]*BookingResponse, 0, len(views))
	for _, v := range views {
		res, err := FromBookingView(v)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func FromCreateBookingResult(r *commands.CreateBookingResult) *CreateBookingResponse {
	return &CreateBookingResponse{
		BookingID:  r.BookingID,
		TokenCode:  r.TokenCode,
		QRData:     r.QRData,
		ExpiryTime: r.ExpiryTime,
	}
}

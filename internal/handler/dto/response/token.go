package response

import (
	"time"

	"cng-slot-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type TokenResponse struct {
	ID         uuid.UUID  `json:"id"`
	BookingID  uuid.UUID  `json:"bookingId"`
	TokenCode  string     `json:"tokenCode"`
	Status     string     `json:"status"`
	QRData     string     `json:"qrData"`
	ExpiryTime time.Time  `json:"expiryTime"`
	ScanTime   *time.Time `json:"scanTime,omitempty"`
	PumpName   string     `json:"pumpName"`
	SlotDate   string     `json:"slotDate"`
	SlotTime   string     `json:"slotTime"`
}

func FromTokenView(v *queries.TokenView) (*TokenResponse, error) {
	var res TokenResponse
	if err := copyInto(&res, v); err != nil {
		return nil, err
	}
	return &res, nil
}

type ScanAttemptResponse struct {
	ID            uuid.UUID  `json:"id"`
	TokenID       *uuid.UUID `json:"tokenId,omitempty"`
	ScannedBy     uuid.UUID  `json:"scannedBy"`
	ScannedByName string     `json:"scannedByName"`
	Result        string     `json:"result"`
	TokenCode     *string    `json:"tokenCode,omitempty"`
	ScanTime      time.Time  `json:"scanTime"`
}

func FromScanList(views []*queries.ScanAttemptView) ([]*ScanAttemptResponse, error) {
	out := make([]*ScanAttemptResponse, 0, len(views))
	if err := copyInto(&out, views); err != nil {
		return nil, err
	}
	return out, nil
}

package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuthorizedUserView represents read-optimized user data with authorization info
type AuthorizedUserView struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	FullName      string    `json:"full_name"`
	VehicleNumber *string   `json:"vehicle_number,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	IsActive      bool      `json:"is_active"`
}

// TokenView joins a token with its booking, pump and customer
type TokenView struct {
	ID                 uuid.UUID       `json:"id"`
	BookingID          uuid.UUID       `json:"booking_id"`
	TokenCode          string          `json:"token_code"`
	Status             string          `json:"status"`
	QRData             string          `json:"qr_data"`
	ExpiryTime         time.Time       `json:"expiry_time"`
	ScanTime           *time.Time      `json:"scan_time,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UserID             uuid.UUID       `json:"user_id"`
	PumpID             uuid.UUID       `json:"pump_id"`
	PumpName           string          `json:"pump_name"`
	SlotDate           string          `json:"slot_date"`
	SlotTime           string          `json:"slot_time"`
	FuelQuantity       decimal.Decimal `json:"fuel_quantity"`
	Amount             decimal.Decimal `json:"amount"`
	BookingStatus      string          `json:"booking_status"`
	ConfirmationStatus *string         `json:"confirmation_status,omitempty"`
	CustomerName       string          `json:"customer_name"`
	VehicleNumber      *string         `json:"vehicle_number,omitempty"`
	Phone              *string         `json:"phone,omitempty"`
}

// BookingView is the customer-facing booking with its token summary
type BookingView struct {
	ID                 uuid.UUID       `json:"id"`
	UserID             uuid.UUID       `json:"user_id"`
	PumpID             uuid.UUID       `json:"pump_id"`
	PumpName           string          `json:"pump_name"`
	SlotDate           string          `json:"slot_date"`
	SlotTime           string          `json:"slot_time"`
	FuelQuantity       decimal.Decimal `json:"fuel_quantity"`
	Amount             decimal.Decimal `json:"amount"`
	BookingStatus      string          `json:"booking_status"`
	ConfirmationStatus *string         `json:"confirmation_status,omitempty"`
	TokenCode          *string         `json:"token_code,omitempty"`
	TokenStatus        *string         `json:"token_status,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type PumpView struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
	City    string    `json:"city"`
	IsOpen  bool      `json:"is_open"`
}

// ScanAttemptView is one audit row for staff dashboards
type ScanAttemptView struct {
	ID            uuid.UUID  `json:"id"`
	TokenID       *uuid.UUID `json:"token_id,omitempty"`
	PumpID        uuid.UUID  `json:"pump_id"`
	ScannedBy     uuid.UUID  `json:"scanned_by"`
	ScannedByName string     `json:"scanned_by_name"`
	Result        string     `json:"result"`
	TokenCode     *string    `json:"token_code,omitempty"`
	ScanTime      time.Time  `json:"scan_time"`
}

package shared

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingSnapshot carries the customer details staff see after a successful scan.
type BookingSnapshot struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	PumpID             uuid.UUID
	SlotDate           string
	SlotTime           string
	FuelQuantity       decimal.Decimal
	Amount             decimal.Decimal
	Status             string
	ConfirmationStatus *string
	CustomerName       string
	VehicleNumber      *string
	Phone              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type TokenSnapshot struct {
	ID         uuid.UUID
	BookingID  uuid.UUID
	Code       string
	QRData     string
	Status     string
	ExpiryTime time.Time
	ScanTime   *time.Time
	CreatedAt  time.Time
	Booking    BookingSnapshot
}

type PumpSnapshot struct {
	ID     uuid.UUID
	Name   string
	IsOpen bool
}

type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	Attempts int32
}

// Outbox job kinds
const (
	JobBookingCreated   = "booking_created"
	JobBookingCancelled = "booking_cancelled"
	JobTokenRedeemed    = "token_redeemed"
)

//go:build unit || e2e

package builder

import (
	"time"

	reqdto "cng-slot-booking/internal/handler/dto/request"
	"cng-slot-booking/internal/usecase/commands"
	"cng-slot-booking/internal/usecase/queries"
	"cng-slot-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingBuilder struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	PumpID       uuid.UUID
	PumpName     string
	SlotDate     string
	SlotTime     string
	FuelQuantity decimal.Decimal
	Amount       decimal.Decimal
	Status       string
	TokenCode    string
	TokenStatus  string
	Expiry       time.Time
	CustomerName string
	Vehicle      *string
	Phone        *string
}

func NewBookingBuilder() *BookingBuilder {
	vehicle := "KA01AB1234"
	phone := "+919800000000"
	return &BookingBuilder{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		PumpID:       uuid.New(),
		PumpName:     "Ring Road CNG",
		SlotDate:     "2024-06-01",
		SlotTime:     "14:30",
		FuelQuantity: decimal.RequireFromString("10.5"),
		Amount:       decimal.RequireFromString("892.50"),
		Status:       "confirmed",
		TokenCode:    "CNG-AB3XK9",
		TokenStatus:  "valid",
		Expiry:       time.Date(2024, 6, 1, 9, 20, 0, 0, time.UTC),
		CustomerName: "Test Customer",
		Vehicle:      &vehicle,
		Phone:        &phone,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithOwner(userID uuid.UUID) *BookingBuilder {
	b.UserID = userID
	return b
}

func (b *BookingBuilder) WithPump(pumpID uuid.UUID) *BookingBuilder {
	b.PumpID = pumpID
	return b
}

func (b *BookingBuilder) WithSlot(date, clock string) *BookingBuilder {
	b.SlotDate = date
	b.SlotTime = clock
	return b
}

func (b *BookingBuilder) WithCode(code string) *BookingBuilder {
	b.TokenCode = code
	return b
}

func (b *BookingBuilder) WithStatus(status string) *BookingBuilder {
	b.Status = status
	return b
}

func (b *BookingBuilder) WithTokenStatus(status string) *BookingBuilder {
	b.TokenStatus = status
	return b
}

func (b *BookingBuilder) WithExpiry(expiry time.Time) *BookingBuilder {
	b.Expiry = expiry
	return b
}

// Build methods
func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		PumpID:       b.PumpID.String(),
		SlotDate:     b.SlotDate,
		SlotTime:     b.SlotTime,
		FuelQuantity: b.FuelQuantity,
		Amount:       b.Amount,
	}
}

func (b *BookingBuilder) BuildCreateResult() *commands.CreateBookingResult {
	return &commands.CreateBookingResult{
		BookingID:  b.ID,
		TokenID:    uuid.New(),
		TokenCode:  b.TokenCode,
		QRData:     `{"bookingId":"` + b.ID.String() + `","tokenCode":"` + b.TokenCode + `"}`,
		ExpiryTime: b.Expiry,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	code := b.TokenCode
	status := b.TokenStatus
	return &queries.BookingView{
		ID:            b.ID,
		UserID:        b.UserID,
		PumpID:        b.PumpID,
		PumpName:      b.PumpName,
		SlotDate:      b.SlotDate,
		SlotTime:      b.SlotTime,
		FuelQuantity:  b.FuelQuantity,
		Amount:        b.Amount,
		BookingStatus: b.Status,
		TokenCode:     &code,
		TokenStatus:   &status,
	}
}

func (b *BookingBuilder) BuildTokenView() *queries.TokenView {
	return &queries.TokenView{
		ID:            uuid.New(),
		BookingID:     b.ID,
		TokenCode:     b.TokenCode,
		Status:        b.TokenStatus,
		QRData:        `{"bookingId":"` + b.ID.String() + `","tokenCode":"` + b.TokenCode + `"}`,
		ExpiryTime:    b.Expiry,
		UserID:        b.UserID,
		PumpID:        b.PumpID,
		PumpName:      b.PumpName,
		SlotDate:      b.SlotDate,
		SlotTime:      b.SlotTime,
		FuelQuantity:  b.FuelQuantity,
		Amount:        b.Amount,
		BookingStatus: b.Status,
		CustomerName:  b.CustomerName,
		VehicleNumber: b.Vehicle,
		Phone:         b.Phone,
	}
}

func (b *BookingBuilder) BuildSnapshot() shared.BookingSnapshot {
	return shared.BookingSnapshot{
		ID:            b.ID,
		UserID:        b.UserID,
		PumpID:        b.PumpID,
		SlotDate:      b.SlotDate,
		SlotTime:      b.SlotTime,
		FuelQuantity:  b.FuelQuantity,
		Amount:        b.Amount,
		Status:        b.Status,
		CustomerName:  b.CustomerName,
		VehicleNumber: b.Vehicle,
		Phone:         b.Phone,
	}
}

func (b *BookingBuilder) BuildTokenSnapshot() *shared.TokenSnapshot {
	return &shared.TokenSnapshot{
		ID:         uuid.New(),
		BookingID:  b.ID,
		Code:       b.TokenCode,
		Status:     b.TokenStatus,
		ExpiryTime: b.Expiry,
		Booking:    b.BuildSnapshot(),
	}
}

package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidStatus       = errors.New("invalid booking status")
	ErrInvalidConfirmation = errors.New("invalid confirmation status")
	ErrSlotInPast          = errors.New("slot is in the past")
	ErrNotConfirmed        = errors.New("booking is not in confirmed state")
	ErrNotOwner            = errors.New("booking belongs to another customer")
)

type Booking struct {
	id           uuid.UUID
	userID       uuid.UUID
	pumpID       uuid.UUID
	slot         Slot
	fuelQuantity FuelQuantity
	amount       Amount
	status       Status
	confirmation *ConfirmationStatus
	createdAt    time.Time
	updatedAt    time.Time
}

// NewBooking rejects slots that already started in loc.
func NewBooking(
	userID, pumpID uuid.UUID,
	slot Slot,
	fuel FuelQuantity,
	amount Amount,
	now time.Time,
	loc *time.Location,
) (*Booking, error) {
	if slot.At(loc).Before(now) {
		return nil, ErrSlotInPast
	}

	pending := ConfirmationPending
	return &Booking{
		id:           uuid.New(),
		userID:       userID,
		pumpID:       pumpID,
		slot:         slot,
		fuelQuantity: fuel,
		amount:       amount,
		status:       StatusConfirmed,
		confirmation: &pending,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a stored booking. Quantities are trusted as persisted.
func Reconstruct(
	id, userID, pumpID uuid.UUID,
	slot Slot,
	fuel, amount decimal.Decimal,
	status Status,
	confirmation *ConfirmationStatus,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:           id,
		userID:       userID,
		pumpID:       pumpID,
		slot:         slot,
		fuelQuantity: FuelQuantity{value: fuel},
		amount:       Amount{value: amount},
		status:       status,
		confirmation: confirmation,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (b *Booking) Cancel() error {
	if b.status != StatusConfirmed {
		return ErrNotConfirmed
	}
	notComing := ConfirmationNotComing
	b.status = StatusCancelled
	b.confirmation = &notComing
	return nil
}

func (b *Booking) Complete() error {
	if b.status != StatusConfirmed {
		return ErrNotConfirmed
	}
	b.status = StatusCompleted
	return nil
}

func (b *Booking) Confirm(c ConfirmationStatus) error {
	if b.status != StatusConfirmed {
		return ErrNotConfirmed
	}
	if !c.IsValid() {
		return ErrInvalidConfirmation
	}
	b.confirmation = &c
	return nil
}

func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.userID == userID
}

func (b *Booking) ID() uuid.UUID                     { return b.id }
func (b *Booking) UserID() uuid.UUID                 { return b.userID }
func (b *Booking) PumpID() uuid.UUID                 { return b.pumpID }
func (b *Booking) Slot() Slot                        { return b.slot }
func (b *Booking) FuelQuantity() FuelQuantity        { return b.fuelQuantity }
func (b *Booking) Amount() Amount                    { return b.amount }
func (b *Booking) Status() Status                    { return b.status }
func (b *Booking) Confirmation() *ConfirmationStatus { return b.confirmation }
func (b *Booking) CreatedAt() time.Time              { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time              { return b.updatedAt }

package repository

import (
	"context"

	"cng-slot-booking/internal/domain/booking"
	"cng-slot-booking/internal/infra"
	"cng-slot-booking/internal/infra/db"

	"github.com/google/uuid"
)

const (
	// decimals and slot parts travel as text and are cast server side
	createBookingSQL = `
INSERT INTO bookings (
    id, user_id, pump_id, slot_date, slot_time, fuel_quantity, amount,
    booking_status, confirmation_status, created_at, updated_at
) VALUES (
    $1, $2, $3, $4::text::date, $5::text::time, $6::text::numeric, $7::text::numeric,
    $8, $9, $10, $10
)`

	transitionBookingStatusSQL = `
UPDATE bookings SET booking_status = $3, updated_at = now()
WHERE id = $1 AND booking_status = $2`

	cancelBookingSQL = `
UPDATE bookings SET booking_status = 'cancelled', confirmation_status = 'not_coming', updated_at = now()
WHERE id = $1 AND booking_status = 'confirmed'`

	updateConfirmationSQL = `
UPDATE bookings SET confirmation_status = $2, updated_at = now()
WHERE id = $1 AND booking_status = 'confirmed'`
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(db db.DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	var confirmation *string
	if c := b.Confirmation(); c != nil {
		s := c.String()
		confirmation = &s
	}

	_, err := r.db.Exec(ctx, createBookingSQL,
		b.ID(),
		b.UserID(),
		b.PumpID(),
		b.Slot().Date(),
		b.Slot().Time(),
		b.FuelQuantity().String(),
		b.Amount().String(),
		b.Status().String(),
		confirmation,
		b.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to booking.Status) (bool, error) {
	tag, err := r.db.Exec(ctx, transitionBookingStatusSQL, id, from.String(), to.String())
	if err != nil {
		return false, infra.WrapRepoErr("failed to transition booking status", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BookingRepository) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, cancelBookingSQL, id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to cancel booking", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BookingRepository) UpdateConfirmation(ctx context.Context, id uuid.UUID, c booking.ConfirmationStatus) (bool, error) {
	tag, err := r.db.Exec(ctx, updateConfirmationSQL, id, c.String())
	if err != nil {
		return false, infra.WrapRepoErr("failed to update confirmation status", err)
	}
	return tag.RowsAffected() == 1, nil
}

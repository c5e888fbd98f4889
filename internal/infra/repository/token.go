package repository

import (
	"context"
	"time"

	"cng-slot-booking/internal/domain/token"
	"cng-slot-booking/internal/infra"
	"cng-slot-booking/internal/infra/db"

	"github.com/google/uuid"
)

const (
	insertTokenIfAbsentSQL = `
INSERT INTO tokens (id, booking_id, token_code, qr_data, expiry_time, status, created_at)
VALUES ($1, $2, $3, $4, $5, 'valid', $6)
ON CONFLICT (token_code) DO NOTHING`

	// The status predicate is the compare-and-swap; at most one caller sees a row affected.
	markTokenUsedSQL = `
UPDATE tokens SET status = 'used', scan_time = $2
WHERE id = $1 AND status = 'valid'`

	expireTokenSQL = `
UPDATE tokens SET status = 'expired'
WHERE id = $1 AND status = 'valid'`

	expireTokenByBookingSQL = `
UPDATE tokens SET status = 'expired'
WHERE booking_id = $1 AND status = 'valid'`

	expireOverdueTokensSQL = `
UPDATE tokens SET status = 'expired'
WHERE status = 'valid' AND expiry_time < $1`

	expireCancelledTokensSQL = `
UPDATE tokens t SET status = 'expired'
FROM bookings b
WHERE t.booking_id = b.id AND b.booking_status = 'cancelled' AND t.status = 'valid'`
)

type TokenRepository struct {
	db db.DBTX
}

func NewTokenRepository(db db.DBTX) *TokenRepository {
	return &TokenRepository{db: db}
}

// InsertIfAbsent returns false when the code is already taken. A second token
// for the same booking is still a DUPLICATE_KEY error.
func (r *TokenRepository) InsertIfAbsent(ctx context.Context, t *token.Token) (bool, error) {
	tag, err := r.db.Exec(ctx, insertTokenIfAbsentSQL,
		t.ID(),
		t.BookingID(),
		t.Code().String(),
		t.QRPayload(),
		t.ExpiryTime(),
		t.CreatedAt(),
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to insert token", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *TokenRepository) MarkUsed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, markTokenUsedSQL, id, at)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark token used", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *TokenRepository) Expire(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, expireTokenSQL, id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to expire token", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *TokenRepository) ExpireByBookingID(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, expireTokenByBookingSQL, bookingID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to expire token by booking", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *TokenRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, expireOverdueTokensSQL, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to expire overdue tokens", err)
	}
	return tag.RowsAffected(), nil
}

func (r *TokenRepository) ExpireCancelled(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, expireCancelledTokensSQL)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to expire tokens of cancelled bookings", err)
	}
	return tag.RowsAffected(), nil
}

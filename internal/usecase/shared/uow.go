package shared

import (
	"context"
	"time"

	"cng-slot-booking/internal/domain/booking"
	"cng-slot-booking/internal/domain/scan"
	"cng-slot-booking/internal/domain/token"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Non-transactional reads; results may be stale by the time a write runs
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Tokens() TokenRepository
	Notifications() NotificationRepository
	Users() UserRepository
	Reads() CommandReads
}

type CommandReads interface {
	TokenByCode(ctx context.Context, code string) (*TokenSnapshot, error)
	TokenByBookingID(ctx context.Context, bookingID uuid.UUID) (*TokenSnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	PumpByID(ctx context.Context, id uuid.UUID) (*PumpSnapshot, error)
	HasPumpGrant(ctx context.Context, userID, pumpID uuid.UUID) (bool, error)
}

// Conditional writes report (false, nil) when the expected prior state no longer holds.
type TokenRepository interface {
	InsertIfAbsent(ctx context.Context, t *token.Token) (bool, error)
	MarkUsed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	Expire(ctx context.Context, id uuid.UUID) (bool, error)
	ExpireByBookingID(ctx context.Context, bookingID uuid.UUID) (bool, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
	ExpireCancelled(ctx context.Context) (int64, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to booking.Status) (bool, error)
	Cancel(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateConfirmation(ctx context.Context, id uuid.UUID, c booking.ConfirmationStatus) (bool, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
	ClaimDue(ctx context.Context, now time.Time, limit int32) ([]NotificationJob, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string, retryAt time.Time) error
}

type UserRepository interface {
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error
}

// ScanAuditLog is append-only and written outside any transaction.
type ScanAuditLog interface {
	Append(ctx context.Context, attempt scan.Attempt) error
}

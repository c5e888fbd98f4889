package token

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus     = errors.New("invalid token status")
	ErrInvalidTransition = errors.New("token status transition not allowed")
	ErrMissingBooking    = errors.New("token requires a booking")
)

type Token struct {
	id         uuid.UUID
	bookingID  uuid.UUID
	code       Code
	status     Status
	expiryTime time.Time
	scanTime   *time.Time
	createdAt  time.Time
}

// NewToken issues a valid token for a freshly created booking.
func NewToken(bookingID uuid.UUID, code Code, expiryTime, now time.Time) (*Token, error) {
	if bookingID == uuid.Nil {
		return nil, ErrMissingBooking
	}
	if code.IsZero() {
		return nil, ErrInvalidCodeFormat
	}

	return &Token{
		id:         uuid.New(),
		bookingID:  bookingID,
		code:       code,
		status:     StatusValid,
		expiryTime: expiryTime,
		createdAt:  now,
	}, nil
}

func Reconstruct(
	id, bookingID uuid.UUID,
	code Code,
	status Status,
	expiryTime time.Time,
	scanTime *time.Time,
	createdAt time.Time,
) *Token {
	return &Token{
		id:         id,
		bookingID:  bookingID,
		code:       code,
		status:     status,
		expiryTime: expiryTime,
		scanTime:   scanTime,
		createdAt:  createdAt,
	}
}

// WithCode swaps the code before the token is persisted (collision retry).
func (t *Token) WithCode(code Code) {
	t.code = code
}

func (t *Token) MarkUsed(at time.Time) error {
	if !t.status.CanTransitionTo(StatusUsed) {
		return ErrInvalidTransition
	}
	t.status = StatusUsed
	t.scanTime = &at
	return nil
}

func (t *Token) Expire() error {
	if !t.status.CanTransitionTo(StatusExpired) {
		return ErrInvalidTransition
	}
	t.status = StatusExpired
	return nil
}

func (t *Token) QRPayload() string {
	return EncodePayload(t.code, t.bookingID)
}

func (t *Token) ID() uuid.UUID         { return t.id }
func (t *Token) BookingID() uuid.UUID  { return t.bookingID }
func (t *Token) Code() Code            { return t.code }
func (t *Token) Status() Status        { return t.status }
func (t *Token) ExpiryTime() time.Time { return t.expiryTime }
func (t *Token) ScanTime() *time.Time  { return t.scanTime }
func (t *Token) CreatedAt() time.Time  { return t.createdAt }

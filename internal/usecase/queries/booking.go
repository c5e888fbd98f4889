package queries

import (
	"context"

	"cng-slot-booking/internal/infra"
	"cng-slot-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	DefaultBookingPageSize = 20
	MaxBookingPageSize     = 100
)

var ErrBookingNotFound = errs.New("booking not found")

type BookingQueries interface {
	GetBooking(ctx context.Context, viewer Viewer, bookingID uuid.UUID) (*BookingView, error)
	ListMyBookings(ctx context.Context, viewer Viewer, limit, offset int32) ([]*BookingView, error)
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]*BookingView, error)
}

type bookingQueriesImpl struct {
	bookings BookingReadStore
	pumps    PumpReadStore
}

func NewBookingQueries(bookings BookingReadStore, pumps PumpReadStore) BookingQueries {
	return &bookingQueriesImpl{bookings: bookings, pumps: pumps}
}

func (q *bookingQueriesImpl) GetBooking(ctx context.Context, viewer Viewer, bookingID uuid.UUID) (*BookingView, error) {
	view, err := q.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if err := authorize(ctx, q.pumps, viewer, view.UserID, view.PumpID); err != nil {
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListMyBookings(ctx context.Context, viewer Viewer, limit, offset int32) ([]*BookingView, error) {
	if limit <= 0 {
		limit = DefaultBookingPageSize
	}
	if limit > MaxBookingPageSize {
		limit = MaxBookingPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return q.bookings.ListByUser(ctx, viewer.UserID, limit, offset)
}

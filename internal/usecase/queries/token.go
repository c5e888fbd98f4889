package queries

import (
	"context"

	"cng-slot-booking/internal/infra"
	"cng-slot-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrTokenNotFound = errs.New("token not found")

type TokenQueries interface {
	GetByBooking(ctx context.Context, viewer Viewer, bookingID uuid.UUID) (*TokenView, error)
	RenderQR(ctx context.Context, viewer Viewer, bookingID uuid.UUID, size int) ([]byte, error)
}

type TokenReadStore interface {
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*TokenView, error)
}

type QRRenderer interface {
	RenderPNG(content string, size int) ([]byte, error)
}

type tokenQueriesImpl struct {
	tokens   TokenReadStore
	pumps    PumpReadStore
	renderer QRRenderer
}

func NewTokenQueries(tokens TokenReadStore, pumps PumpReadStore, renderer QRRenderer) TokenQueries {
	return &tokenQueriesImpl{tokens: tokens, pumps: pumps, renderer: renderer}
}

func (q *tokenQueriesImpl) GetByBooking(ctx context.Context, viewer Viewer, bookingID uuid.UUID) (*TokenView, error) {
	view, err := q.tokens.FindByBookingID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	if err := authorize(ctx, q.pumps, viewer, view.UserID, view.PumpID); err != nil {
		return nil, err
	}
	return view, nil
}

// RenderQR encodes the stored payload, so the image always matches what the scanner expects.
func (q *tokenQueriesImpl) RenderQR(ctx context.Context, viewer Viewer, bookingID uuid.UUID, size int) ([]byte, error) {
	view, err := q.GetByBooking(ctx, viewer, bookingID)
	if err != nil {
		return nil, err
	}
	png, err := q.renderer.RenderPNG(view.QRData, size)
	if err != nil {
		return nil, errs.Wrap(err, "failed to render qr code")
	}
	return png, nil
}

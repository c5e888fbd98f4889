package readstore

import (
	"context"

	"cng-slot-booking/internal/infra"
	"cng-slot-booking/internal/infra/db"
	"cng-slot-booking/internal/pkg/pgconv"
	"cng-slot-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const selectBookingViewSQL = `
SELECT
    b.id, b.user_id, b.pump_id, p.name,
    to_char(b.slot_date, 'YYYY-MM-DD'), to_char(b.slot_time, 'HH24:MI'),
    b.fuel_quantity::text, b.amount::text, b.booking_status, b.confirmation_status,
    t.token_code, t.status, b.created_at, b.updated_at
FROM bookings b
JOIN pumps p ON p.id = b.pump_id
LEFT JOIN tokens t ON t.booking_id = b.id`

const (
	findBookingByIDSQL = selectBookingViewSQL + ` WHERE b.id = $1`

	listBookingsByUserSQL = selectBookingViewSQL + `
WHERE b.user_id = $1
ORDER BY b.slot_date DESC, b.slot_time DESC
LIMIT $2 OFFSET $3`
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(db db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: db}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	view, err := scanBookingView(r.db.QueryRow(ctx, findBookingByIDSQL, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return view, nil
}

func (r *BookingReadStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]*queries.BookingView, error) {
	rows, err := r.db.Query(ctx, listBookingsByUserSQL, userID, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	views := make([]*queries.BookingView, 0)
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return views, nil
}

func scanBookingView(row pgx.Row) (*queries.BookingView, error) {
	var v queries.BookingView
	err := row.Scan(
		&v.ID, &v.UserID, &v.PumpID, &v.PumpName,
		&v.SlotDate, &v.SlotTime,
		&v.FuelQuantity, &v.Amount, &v.BookingStatus, &v.ConfirmationStatus,
		&v.TokenCode, &v.TokenStatus, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

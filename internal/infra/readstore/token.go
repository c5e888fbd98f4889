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

const selectTokenViewSQL = `
SELECT
    t.id, t.booking_id, t.token_code, t.status, t.qr_data, t.expiry_time, t.scan_time, t.created_at,
    b.user_id, b.pump_id, p.name,
    to_char(b.slot_date, 'YYYY-MM-DD'), to_char(b.slot_time, 'HH24:MI'),
    b.fuel_quantity::text, b.amount::text, b.booking_status, b.confirmation_status,
    u.full_name, u.vehicle_number, u.phone
FROM tokens t
JOIN bookings b ON b.id = t.booking_id
JOIN pumps p ON p.id = b.pump_id
JOIN users u ON u.id = b.user_id`

const (
	// token_code is UNIQUE, so this is an index lookup
	findTokenByCodeSQL      = selectTokenViewSQL + ` WHERE t.token_code = $1`
	findTokenByBookingIDSQL = selectTokenViewSQL + ` WHERE t.booking_id = $1`
)

type TokenReadStore struct {
	db db.DBTX
}

func NewTokenReadStore(db db.DBTX) *TokenReadStore {
	return &TokenReadStore{db: db}
}

func (r *TokenReadStore) FindByCode(ctx context.Context, code string) (*queries.TokenView, error) {
	view, err := scanTokenView(r.db.QueryRow(ctx, findTokenByCodeSQL, code))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("token not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find token by code", err)
	}
	return view, nil
}

func (r *TokenReadStore) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*queries.TokenView, error) {
	view, err := scanTokenView(r.db.QueryRow(ctx, findTokenByBookingIDSQL, bookingID))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("token not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find token by booking", err)
	}
	return view, nil
}

func scanTokenView(row pgx.Row) (*queries.TokenView, error) {
	var v queries.TokenView
	err := row.Scan(
		&v.ID, &v.BookingID, &v.TokenCode, &v.Status, &v.QRData, &v.ExpiryTime, &v.ScanTime, &v.CreatedAt,
		&v.UserID, &v.PumpID, &v.PumpName,
		&v.SlotDate, &v.SlotTime,
		&v.FuelQuantity, &v.Amount, &v.BookingStatus, &v.ConfirmationStatus,
		&v.CustomerName, &v.VehicleNumber, &v.Phone,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

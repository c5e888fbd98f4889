package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"cng-slot-booking/internal/infra/db"
	"cng-slot-booking/internal/infra/readstore"
	"cng-slot-booking/internal/infra/repository"
	"cng-slot-booking/internal/pkg/errs"
	"cng-slot-booking/internal/usecase/queries"
	"cng-slot-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{
		pool: pool,
	}
}

// ReadCommitted is enough here: every state change is a conditional UPDATE,
// and Postgres re-checks the WHERE clause against the latest committed row.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{dbtx: u.pool}
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 50 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{dbtx: pgxTx}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries && isRetryableError(err) {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	// mask the sign bit before converting
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	bookingRepo      shared.BookingRepository
	tokenRepo        shared.TokenRepository
	notificationRepo shared.NotificationRepository
	userRepo         shared.UserRepository
	commandReads     shared.CommandReads
}

func (t *pgTx) Bookings() shared.BookingRepository {
	if t.bookingRepo == nil {
		t.bookingRepo = repository.NewBookingRepository(t.dbtx)
	}
	return t.bookingRepo
}

func (t *pgTx) Tokens() shared.TokenRepository {
	if t.tokenRepo == nil {
		t.tokenRepo = repository.NewTokenRepository(t.dbtx)
	}
	return t.tokenRepo
}

func (t *pgTx) Notifications() shared.NotificationRepository {
	if t.notificationRepo == nil {
		t.notificationRepo = repository.NewNotificationRepository(t.dbtx)
	}
	return t.notificationRepo
}

func (t *pgTx) Users() shared.UserRepository {
	if t.userRepo == nil {
		t.userRepo = repository.NewUserRepository(t.dbtx)
	}
	return t.userRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{dbtx: t.dbtx}
	}
	return t.commandReads
}

type commandReads struct {
	dbtx db.DBTX

	// Lazy-initialized readstores
	tokenStore   *readstore.TokenReadStore
	bookingStore *readstore.BookingReadStore
	pumpStore    *readstore.PumpReadStore
}

func (r *commandReads) tokens() *readstore.TokenReadStore {
	if r.tokenStore == nil {
		r.tokenStore = readstore.NewTokenReadStore(r.dbtx)
	}
	return r.tokenStore
}

func (r *commandReads) pumps() *readstore.PumpReadStore {
	if r.pumpStore == nil {
		r.pumpStore = readstore.NewPumpReadStore(r.dbtx)
	}
	return r.pumpStore
}

func (r *commandReads) TokenByCode(ctx context.Context, code string) (*shared.TokenSnapshot, error) {
	view, err := r.tokens().FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return toTokenSnapshot(view), nil
}

func (r *commandReads) TokenByBookingID(ctx context.Context, bookingID uuid.UUID) (*shared.TokenSnapshot, error) {
	view, err := r.tokens().FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return toTokenSnapshot(view), nil
}

func (r *commandReads) BookingByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	if r.bookingStore == nil {
		r.bookingStore = readstore.NewBookingReadStore(r.dbtx)
	}

	view, err := r.bookingStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := &shared.BookingSnapshot{
		ID:                 view.ID,
		UserID:             view.UserID,
		PumpID:             view.PumpID,
		SlotDate:           view.SlotDate,
		SlotTime:           view.SlotTime,
		FuelQuantity:       view.FuelQuantity,
		Amount:             view.Amount,
		Status:             view.BookingStatus,
		ConfirmationStatus: view.ConfirmationStatus,
		CreatedAt:          view.CreatedAt,
		UpdatedAt:          view.UpdatedAt,
	}
	return snapshot, nil
}

func (r *commandReads) PumpByID(ctx context.Context, id uuid.UUID) (*shared.PumpSnapshot, error) {
	pump, err := r.pumps().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &shared.PumpSnapshot{ID: pump.ID, Name: pump.Name, IsOpen: pump.IsOpen}, nil
}

func (r *commandReads) HasPumpGrant(ctx context.Context, userID, pumpID uuid.UUID) (bool, error) {
	return r.pumps().HasGrant(ctx, userID, pumpID)
}

func toTokenSnapshot(v *queries.TokenView) *shared.TokenSnapshot {
	return &shared.TokenSnapshot{
		ID:         v.ID,
		BookingID:  v.BookingID,
		Code:       v.TokenCode,
		QRData:     v.QRData,
		Status:     v.Status,
		ExpiryTime: v.ExpiryTime,
		ScanTime:   v.ScanTime,
		CreatedAt:  v.CreatedAt,
		Booking: shared.BookingSnapshot{
			ID:                 v.BookingID,
			UserID:             v.UserID,
			PumpID:             v.PumpID,
			SlotDate:           v.SlotDate,
			SlotTime:           v.SlotTime,
			FuelQuantity:       v.FuelQuantity,
			Amount:             v.Amount,
			Status:             v.BookingStatus,
			ConfirmationStatus: v.ConfirmationStatus,
			CustomerName:       v.CustomerName,
			VehicleNumber:      v.VehicleNumber,
			Phone:              v.Phone,
		},
	}
}

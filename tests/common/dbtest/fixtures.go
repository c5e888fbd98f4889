//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TestPassword matches testPasswordHash.
const (
	TestPassword     = "password123"
	testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."
)

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, `INSERT INTO users (id, email, password_hash, role, full_name, vehicle_number, phone, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true) ON CONFLICT (email) DO NOTHING`,
		userID, email, testPasswordHash, role, "Test "+role, "KA01AB1234", "+919800000000")
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

func CreateTestPump(t *testing.T, db DBLike, name string, isOpen bool) uuid.UUID {
	t.Helper()

	pumpID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO pumps (id, name, address, city, is_open) VALUES ($1, $2, 'Ring Road', 'Bengaluru', $3)",
		pumpID, name, isOpen)
	require.NoError(t, err)
	return pumpID
}

func GrantPump(t *testing.T, db DBLike, userID, pumpID uuid.UUID) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"INSERT INTO pump_admins (user_id, pump_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		userID, pumpID)
	require.NoError(t, err)
}

// InsertBookingWithToken writes a confirmed booking and its valid token directly,
// so tests can place slots anywhere in time.
func InsertBookingWithToken(t *testing.T, db DBLike, userID, pumpID uuid.UUID, slot time.Time, code string, expiry time.Time) (bookingID, tokenID uuid.UUID) {
	t.Helper()

	ctx := context.Background()
	bookingID = uuid.New()
	tokenID = uuid.New()

	_, err := db.Exec(ctx, `INSERT INTO bookings (id, user_id, pump_id, slot_date, slot_time, fuel_quantity, amount)
		VALUES ($1, $2, $3, $4, $5, 10, 850)`,
		bookingID, userID, pumpID, slot.Format("2006-01-02"), slot.Format("15:04"))
	require.NoError(t, err)

	_, err = db.Exec(ctx, `INSERT INTO tokens (id, booking_id, token_code, qr_data, expiry_time)
		VALUES ($1, $2, $3, $4, $5)`,
		tokenID, bookingID, code, code, expiry)
	require.NoError(t, err)

	return bookingID, tokenID
}

func CountScans(t *testing.T, db DBLike, pumpID uuid.UUID, result string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM token_scans WHERE pump_id = $1 AND result = $2", pumpID, result).Scan(&n)
	require.NoError(t, err)
	return n
}

func TokenStatus(t *testing.T, db DBLike, tokenID uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), "SELECT status FROM tokens WHERE id = $1", tokenID).Scan(&status)
	require.NoError(t, err)
	return status
}

func BookingStatus(t *testing.T, db DBLike, bookingID uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), "SELECT booking_status FROM bookings WHERE id = $1", bookingID).Scan(&status)
	require.NoError(t, err)
	return status
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO pumps (id, name, address, city) VALUES
		    (gen_random_uuid(), 'Default Pump', 'MG Road', 'Bengaluru');
	`)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}

package readstore

import (
	"context"

	"cng-slot-booking/internal/infra"
	"cng-slot-booking/internal/infra/db"
	"cng-slot-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

const listScansByPumpSQL = `
SELECT s.id, s.token_id, s.pump_id, s.scanned_by, COALESCE(u.full_name, ''), s.result, s.token_code, s.scan_time
FROM token_scans s
LEFT JOIN users u ON u.id = s.scanned_by
WHERE s.pump_id = $1
ORDER BY s.scan_time DESC
LIMIT $2`

type ScanReadStore struct {
	db db.DBTX
}

func NewScanReadStore(db db.DBTX) *ScanReadStore {
	return &ScanReadStore{db: db}
}

func (r *ScanReadStore) ListByPump(ctx context.Context, pumpID uuid.UUID, limit int32) ([]*queries.ScanAttemptView, error) {
	rows, err := r.db.Query(ctx, listScansByPumpSQL, pumpID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list scan attempts", err)
	}
	defer rows.Close()

	views := make([]*queries.ScanAttemptView, 0)
	for rows.Next() {
		var v queries.ScanAttemptView
		if err := rows.Scan(&v.ID, &v.TokenID, &v.PumpID, &v.ScannedBy, &v.ScannedByName, &v.Result, &v.TokenCode, &v.ScanTime); err != nil {
			return nil, infra.WrapRepoErr("failed to scan scan attempt", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate scan attempts", err)
	}
	return views, nil
}

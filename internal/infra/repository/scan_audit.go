package repository

import (
	"context"

	"cng-slot-booking/internal/domain/scan"
	"cng-slot-booking/internal/infra"
	"cng-slot-booking/internal/infra/db"
)

const appendScanAttemptSQL = `
INSERT INTO token_scans (id, token_id, pump_id, scanned_by, result, token_code, scan_time)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// ScanAuditRepository only ever inserts; the table rejects updates and deletes.
type ScanAuditRepository struct {
	db db.DBTX
}

func NewScanAuditRepository(db db.DBTX) *ScanAuditRepository {
	return &ScanAuditRepository{db: db}
}

func (r *ScanAuditRepository) Append(ctx context.Context, a scan.Attempt) error {
	var code *string
	if a.TokenCode != "" {
		code = &a.TokenCode
	}

	_, err := r.db.Exec(ctx, appendScanAttemptSQL,
		a.ID,
		a.TokenID,
		a.PumpID,
		a.ScannedBy,
		a.Result.String(),
		code,
		a.ScannedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append scan attempt", err)
	}
	return nil
}

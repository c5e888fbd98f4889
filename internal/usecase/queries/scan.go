package queries

import (
	"context"

	"cng-slot-booking/internal/infra"
	"cng-slot-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	DefaultScanPageSize = 50
	MaxScanPageSize     = 200
)

var ErrPumpNotFound = errs.New("pump not found")

type ScanQueries interface {
	ListByPump(ctx context.Context, viewer Viewer, pumpID uuid.UUID, limit int32) ([]*ScanAttemptView, error)
}

type ScanReadStore interface {
	ListByPump(ctx context.Context, pumpID uuid.UUID, limit int32) ([]*ScanAttemptView, error)
}

type scanQueriesImpl struct {
	scans ScanReadStore
	pumps PumpReadStore
}

func NewScanQueries(scans ScanReadStore, pumps PumpReadStore) ScanQueries {
	return &scanQueriesImpl{scans: scans, pumps: pumps}
}

func (q *scanQueriesImpl) ListByPump(ctx context.Context, viewer Viewer, pumpID uuid.UUID, limit int32) ([]*ScanAttemptView, error) {
	if _, err := q.pumps.FindByID(ctx, pumpID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPumpNotFound
		}
		return nil, err
	}

	if err := requireGrant(ctx, q.pumps, viewer, pumpID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultScanPageSize
	}
	if limit > MaxScanPageSize {
		limit = MaxScanPageSize
	}
	return q.scans.ListByPump(ctx, pumpID, limit)
}

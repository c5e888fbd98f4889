package readstore

import (
	"context"

	"cng-slot-booking/internal/infra"
	"cng-slot-booking/internal/infra/db"
	"cng-slot-booking/internal/pkg/pgconv"
	"cng-slot-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

const (
	findPumpByIDSQL = `SELECT id, name, address, city, is_open FROM pumps WHERE id = $1`

	hasPumpGrantSQL = `SELECT EXISTS (SELECT 1 FROM pump_admins WHERE user_id = $1 AND pump_id = $2)`
)

type PumpReadStore struct {
	db db.DBTX
}

func NewPumpReadStore(db db.DBTX) *PumpReadStore {
	return &PumpReadStore{db: db}
}

func (r *PumpReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.PumpView, error) {
	var v queries.PumpView
	err := r.db.QueryRow(ctx, findPumpByIDSQL, id).Scan(&v.ID, &v.Name, &v.Address, &v.City, &v.IsOpen)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("pump not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find pump", err)
	}
	return &v, nil
}

// HasGrant is the staff-to-pump capability check.
func (r *PumpReadStore) HasGrant(ctx context.Context, userID, pumpID uuid.UUID) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(ctx, hasPumpGrantSQL, userID, pumpID).Scan(&ok); err != nil {
		return false, infra.WrapRepoErr("failed to check pump grant", err)
	}
	return ok, nil
}

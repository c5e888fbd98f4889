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
	findUserByIDSQL = `
SELECT id, email, role, full_name, vehicle_number, phone, is_active
FROM users WHERE id = $1`

	findUserByEmailSQL = `
SELECT id, email, role, full_name, vehicle_number, phone, is_active, password_hash
FROM users WHERE lower(email) = lower($1)`
)

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(db db.DBTX) *UserReadStore {
	return &UserReadStore{
		db: db,
	}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	var v queries.AuthorizedUserView
	err := r.db.QueryRow(ctx, findUserByIDSQL, id).
		Scan(&v.ID, &v.Email, &v.Role, &v.FullName, &v.VehicleNumber, &v.Phone, &v.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	return &v, nil
}

func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	var (
		v    queries.AuthorizedUserView
		hash string
	)
	err := r.db.QueryRow(ctx, findUserByEmailSQL, email).
		Scan(&v.ID, &v.Email, &v.Role, &v.FullName, &v.VehicleNumber, &v.Phone, &v.IsActive, &hash)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}
	return &v, hash, nil
}

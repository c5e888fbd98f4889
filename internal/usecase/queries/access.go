package queries

import (
	"context"

	"cng-slot-booking/internal/domain/user"
	"cng-slot-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrAccessDenied = errs.New("access denied")

// Viewer is the authenticated caller of a read.
type Viewer struct {
	UserID uuid.UUID
	Role   user.Role
}

type PumpReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PumpView, error)
	HasGrant(ctx context.Context, userID, pumpID uuid.UUID) (bool, error)
}

// authorize lets the owner through, and staff holding a grant for pumpID.
func authorize(ctx context.Context, pumps PumpReadStore, viewer Viewer, ownerID, pumpID uuid.UUID) error {
	if viewer.UserID == ownerID {
		return nil
	}
	return requireGrant(ctx, pumps, viewer, pumpID)
}

func requireGrant(ctx context.Context, pumps PumpReadStore, viewer Viewer, pumpID uuid.UUID) error {
	if !viewer.Role.IsStaff() {
		return ErrAccessDenied
	}
	granted, err := pumps.HasGrant(ctx, viewer.UserID, pumpID)
	if err != nil {
		return err
	}
	if !granted {
		return ErrAccessDenied
	}
	return nil
}

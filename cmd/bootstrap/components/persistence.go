package components

import (
	"cng-slot-booking/internal/infra/db"
	"cng-slot-booking/internal/infra/readstore"
	"cng-slot-booking/internal/infra/uow"
	"cng-slot-booking/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	unitOfWorkModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// User
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
		// Booking
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		// Token
		fx.Annotate(
			readstore.NewTokenReadStore,
			fx.As(new(queries.TokenReadStore)),
		),
		// Pump
		fx.Annotate(
			readstore.NewPumpReadStore,
			fx.As(new(queries.PumpReadStore)),
		),
		// Scan
		fx.Annotate(
			readstore.NewScanReadStore,
			fx.As(new(queries.ScanReadStore)),
		),
	),
)

var unitOfWorkModule = fx.Module("persistence/uow",
	fx.Provide(
		uow.NewPostgresUoW,
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

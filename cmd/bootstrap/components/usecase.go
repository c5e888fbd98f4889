package components

import (
	"cng-slot-booking/internal/domain/token"
	"cng-slot-booking/internal/pkg/clock"
	"cng-slot-booking/internal/pkg/config"
	"cng-slot-booking/internal/pkg/jwt"
	"cng-slot-booking/internal/usecase"
	"cng-slot-booking/internal/usecase/commands"
	"cng-slot-booking/internal/usecase/queries"
	"cng-slot-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		token.NewRandomGenerator,
		fx.As(new(token.Generator)),
	),
	NewWindowPolicy,
	func(s *jwt.Service) commands.TokenIssuer {
		return s
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		NewBookingCommands,
		NewRedemptionCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewBookingQueries,
		queries.NewTokenQueries,
		queries.NewScanQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

// NewWindowPolicy is the only place the scan window durations are read.
func NewWindowPolicy(cfg config.Config) (token.WindowPolicy, error) {
	loc, err := cfg.Token.Location()
	if err != nil {
		return token.WindowPolicy{}, err
	}
	return token.WindowPolicy{
		EarlyLead:   cfg.Token.EarlyScanWindow,
		ExpiryGrace: cfg.Token.ExpiryGrace,
		Location:    loc,
	}, nil
}

func NewBookingCommands(uow shared.UnitOfWork, gen token.Generator, window token.WindowPolicy, clk clock.Clock, cfg config.Config) commands.BookingCommands {
	return commands.NewBookingCommands(uow, gen, window, clk, cfg.Token.CodeMaxAttempts)
}

func NewRedemptionCommands(uow shared.UnitOfWork, audit shared.ScanAuditLog, window token.WindowPolicy, clk clock.Clock, cfg config.Config) commands.RedemptionCommands {
	return commands.NewRedemptionCommands(uow, audit, window, clk, cfg.Token.AuditWriteTimeout)
}

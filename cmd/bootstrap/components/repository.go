package components

import (
	"cng-slot-booking/internal/handler/middleware"
	"cng-slot-booking/internal/infra/qrcode"
	"cng-slot-booking/internal/infra/ratelimit"
	"cng-slot-booking/internal/infra/repository"
	"cng-slot-booking/internal/pkg/config"
	"cng-slot-booking/internal/usecase/queries"
	"cng-slot-booking/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// RepositoryModule holds adapters that live outside the unit of work.
var RepositoryModule = fx.Module("repository",
	fx.Provide(
		// Scan audit writes autocommit so a rolled back redemption still leaves its row.
		fx.Annotate(
			repository.NewScanAuditRepository,
			fx.As(new(shared.ScanAuditLog)),
		),
		fx.Annotate(
			qrcode.NewPNGRenderer,
			fx.As(new(queries.QRRenderer)),
		),
		NewRateLimiter,
	),
)

func NewRateLimiter(client *redis.Client, cfg config.Config) middleware.RateLimiter {
	return ratelimit.NewRedisRateLimiter(client, cfg.RateLimit.KeyPrefix)
}

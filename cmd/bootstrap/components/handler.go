package components

import (
	"cng-slot-booking/internal/handler"
	"cng-slot-booking/internal/handler/api"
	"cng-slot-booking/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewBookingHandler,
		api.NewRedemptionHandler,
		api.NewScanHandler,
		middleware.NewAuthMiddleware,
		func(auth *api.AuthHandler, booking *api.BookingHandler, redemption *api.RedemptionHandler, scan *api.ScanHandler) handler.Handlers {
			return handler.Handlers{
				Auth:       auth,
				Booking:    booking,
				Redemption: redemption,
				Scan:       scan,
			}
		},
	),
	fx.Invoke(handler.NewRouter),
)

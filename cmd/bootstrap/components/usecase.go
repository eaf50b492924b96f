package components

import (
	"slotlink/internal/pkg/clock"
	"slotlink/internal/pkg/config"
	"slotlink/internal/usecase"
	"slotlink/internal/usecase/commands"
	"slotlink/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	NewScheduleClock,
)

// NewScheduleClock pins all slot arithmetic to the configured schedule
// timezone; the server's own zone never reaches the calculator.
func NewScheduleClock(cfg config.Config) (clock.Clock, error) {
	loc, err := cfg.Schedule.Location()
	if err != nil {
		return nil, err
	}
	return clock.NewRealClockIn(loc), nil
}

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewBookingQueries,
		queries.NewSettingsQueries,
		queries.NewAvailabilityQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		NewBookingCommands,
		commands.NewSettingsCommands,
	),
)

func NewBookingCommands(
	bookings commands.BookingRepository,
	notifications commands.NotificationRepository,
	settings queries.SettingsReadStore,
	bookingViews queries.BookingQueries,
	pool *pgxpool.Pool,
	clk clock.Clock,
	cfg config.Config,
) commands.BookingCommands {
	return commands.NewBookingCommands(bookings, notifications, settings, bookingViews, pool, clk, cfg.Booking)
}

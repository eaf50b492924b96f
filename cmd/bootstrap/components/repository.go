package components

import (
	"slotlink/internal/infra/readstore"
	repo_impl "slotlink/internal/infra/repository"
	"slotlink/internal/pkg/config"
	"slotlink/internal/usecase/commands"
	"slotlink/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		// Write side
		fx.Annotate(
			repo_impl.NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
		),
		fx.Annotate(
			repo_impl.NewSettingsRepository,
			fx.As(new(commands.SettingsRepository)),
		),
		fx.Annotate(
			repo_impl.NewNotificationRepository,
			fx.As(new(commands.NotificationRepository)),
		),
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(commands.UserRepository)),
		),
		// Read side
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		fx.Annotate(
			NewSettingsReadStore,
			fx.As(new(queries.SettingsReadStore)),
			fx.As(new(commands.SettingsCacheInvalidator)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
	),
)

func NewSettingsReadStore(pool *pgxpool.Pool, cache *redis.Client, cfg config.Config) *readstore.SettingsReadStore {
	return readstore.NewSettingsReadStore(pool, cache, cfg.Redis.CacheTTL)
}

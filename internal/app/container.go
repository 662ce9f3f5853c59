// Package app wires the application together: storage backend, event
// publisher, cache, and the command and query handlers.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/praxis/internal/booking/application/commands"
	"github.com/felixgeelhaar/praxis/internal/booking/application/conflict"
	"github.com/felixgeelhaar/praxis/internal/booking/application/queries"
	"github.com/felixgeelhaar/praxis/internal/booking/application/refresh"
	bookingDomain "github.com/felixgeelhaar/praxis/internal/booking/domain"
	bookingPersistence "github.com/felixgeelhaar/praxis/internal/booking/infrastructure/persistence"
	"github.com/felixgeelhaar/praxis/internal/booking/infrastructure/rest"
	locationDomain "github.com/felixgeelhaar/praxis/internal/location/domain"
	locationCache "github.com/felixgeelhaar/praxis/internal/location/infrastructure/cache"
	locationPersistence "github.com/felixgeelhaar/praxis/internal/location/infrastructure/persistence"
	"github.com/felixgeelhaar/praxis/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/praxis/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// Container holds the wired application.
type Container struct {
	Store      bookingDomain.Store
	Directory  locationDomain.Directory
	HoursCache *locationCache.HoursCache
	Publisher  eventbus.Publisher
	Refresh    *refresh.Coordinator

	CreateBookingHandler     *commands.CreateBookingHandler
	CreateRecurringHandler   *commands.CreateRecurringHandler
	RescheduleBookingHandler *commands.RescheduleBookingHandler
	UpdateRowHandler         *commands.UpdateRowHandler
	CancelBookingHandler     *commands.CancelBookingHandler

	DayScheduleHandler  *queries.GetDayScheduleHandler
	ListBookingsHandler *queries.ListBookingsHandler

	db          *sql.DB
	pool        *pgxpool.Pool
	redisClient *redis.Client
	amqpPub     *eventbus.RabbitMQPublisher
	logger      *slog.Logger
}

// NewContainer builds the application for the configured backend. The
// confirm function handles overlap prompts; pass nil to always decline.
func NewContainer(ctx context.Context, cfg *config.Config, confirm conflict.ConfirmFunc, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{logger: logger, Refresh: refresh.NewCoordinator()}

	// The overlap prompt is an open edit surface: reloads requested while
	// it is up wait until the user answers.
	if confirm != nil {
		confirm = c.Refresh.Guard(confirm)
	}

	// The location directory always lives in the local SQLite database,
	// even when bookings are remote or in Postgres.
	if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	c.db = db

	directory, err := locationPersistence.NewSQLiteLocationRepository(db)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Directory = directory

	if err := c.initStore(ctx, cfg); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initPublisher(cfg); err != nil {
		c.Close()
		return nil, err
	}
	c.initCache(cfg)

	c.CreateBookingHandler = commands.NewCreateBookingHandler(c.Store, confirm, c.Publisher, logger)
	c.CreateRecurringHandler = commands.NewCreateRecurringHandler(c.Store, logger)
	c.RescheduleBookingHandler = commands.NewRescheduleBookingHandler(c.Store, confirm, c.Publisher, logger)
	c.UpdateRowHandler = commands.NewUpdateRowHandler(c.Store)
	c.CancelBookingHandler = commands.NewCancelBookingHandler(c.Store, c.Publisher, logger)

	c.DayScheduleHandler = queries.NewGetDayScheduleHandler(c.Store, c.Directory)
	if c.HoursCache != nil {
		c.DayScheduleHandler.WithHoursResolver(c.HoursCache)
	}
	c.ListBookingsHandler = queries.NewListBookingsHandler(c.Store)

	return c, nil
}

func (c *Container) initStore(ctx context.Context, cfg *config.Config) error {
	switch cfg.StoreBackend {
	case "sqlite":
		store, err := bookingPersistence.NewSQLiteBookingRepository(c.db)
		if err != nil {
			return err
		}
		c.Store = store
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		c.pool = pool
		store := bookingPersistence.NewPostgresBookingRepository(pool)
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		c.Store = store
	case "remote":
		if cfg.RemoteURL == "" {
			return fmt.Errorf("remote store requires PRAXIS_REMOTE_URL")
		}
		c.Store = rest.NewClient(cfg.RemoteURL, cfg.RemoteTimeout)
	default:
		return fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	return nil
}

func (c *Container) initPublisher(cfg *config.Config) error {
	if !cfg.EventsEnabled {
		return nil
	}
	if cfg.RabbitMQURL == "" {
		c.Publisher = eventbus.NewInProcessBus(c.logger)
		return nil
	}
	pub, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, c.logger)
	if err != nil {
		return err
	}
	c.amqpPub = pub
	c.Publisher = pub
	return nil
}

func (c *Container) initCache(cfg *config.Config) {
	if cfg.RedisURL == "" {
		return
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		c.logger.Warn("invalid REDIS_URL, hours cache disabled", "error", err)
		return
	}
	c.redisClient = redis.NewClient(opts)
	c.HoursCache = locationCache.NewHoursCache(c.redisClient, cfg.HoursCacheTTL, c.logger)
}

// InvalidateHours drops cached hours envelopes after a location edit.
func (c *Container) InvalidateHours(ctx context.Context) {
	if c.HoursCache != nil {
		c.HoursCache.Invalidate(ctx)
	}
}

// Close releases every resource the container owns.
func (c *Container) Close() {
	if c.amqpPub != nil {
		if err := c.amqpPub.Close(); err != nil {
			c.logger.Warn("failed to close RabbitMQ publisher", "error", err)
		}
	}
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			c.logger.Warn("failed to close Redis client", "error", err)
		}
	}
	if c.pool != nil {
		c.pool.Close()
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Warn("failed to close database", "error", err)
		}
	}
}

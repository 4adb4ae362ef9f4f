package container

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"weblibrary/internal/config"
	bookHandler "weblibrary/internal/domains/book/handler"
	bookRepo "weblibrary/internal/domains/book/repository"
	bookService "weblibrary/internal/domains/book/service"
	infraCache "weblibrary/internal/infrastructure/cache"
	"weblibrary/internal/infrastructure/database"
	"weblibrary/pkg/cache"
	"weblibrary/pkg/logger"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every long-lived dependency of the API process.
// Build order: config, database, cache, repository, service, handler.
type Container struct {
	// Infrastructure
	Config   *config.Config
	SQL      *sql.DB
	Dialect  database.Dialect
	Postgres *database.PostgresDB // nil when running on SQLite
	Cache    cache.Cache

	// Book domain
	BookRepo    bookRepo.RepositoryInterface
	BookService bookService.ServiceInterface
	BookHandler *bookHandler.Handler
}

// ========================================
// CONSTRUCTOR
// ========================================

// NewContainerWithConfig wires the application from a loaded config.
func NewContainerWithConfig(cfg *config.Config) (*Container, error) {
	log.Info().Msg("initializing DI container")

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: DATABASE
	// ========================================
	if err := c.initDatabase(); err != nil {
		c.Cleanup()
		return nil, err
	}

	// ========================================
	// STEP 2: CACHE
	// ========================================
	c.initCache()

	// ========================================
	// STEP 3: DOMAIN LAYERS
	// ========================================
	c.BookRepo = bookRepo.NewSQLRepository(c.SQL, c.Dialect)
	c.BookService = bookService.NewService(c.BookRepo, c.Cache, cfg.Redis.TTL)
	c.BookHandler = bookHandler.NewHandler(c.BookService)

	log.Info().
		Str("driver", string(c.Dialect)).
		Bool("cache", cfg.Redis.Enabled).
		Msg("DI container initialized")
	return c, nil
}

func (c *Container) initDatabase() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch c.Config.Database.Driver {
	case config.DriverSQLite:
		log.Info().Str("path", c.Config.Database.SQLitePath).Msg("opening SQLite database")

		db, err := database.OpenSQLite(c.Config.Database.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open sqlite: %w", err)
		}
		c.SQL = db
		c.Dialect = database.DialectSQLite

	default:
		dbConfig, err := config.LoadDatabaseConfig(c.Config.Database)
		if err != nil {
			return fmt.Errorf("failed to load database config: %w", err)
		}

		pg := database.NewPostgresDB(dbConfig)
		if err := pg.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		c.Postgres = pg
		if err := pg.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}
		c.SQL = pg.SQLDB()
		c.Dialect = database.DialectPostgres
	}

	if err := database.EnsureSchema(ctx, c.SQL, c.Dialect); err != nil {
		return err
	}
	return nil
}

// initCache falls back to a no-op cache when Redis is disabled or unreachable.
func (c *Container) initCache() {
	c.Cache = cache.NoopCache{}
	if !c.Config.Redis.Enabled {
		logger.Debug("redis disabled, using no-op cache")
		return
	}

	rc := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rc.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis connection failed (non-critical), caching disabled")
		_ = rc.Close()
		return
	}

	// entries may predate writes made while this process was down
	if err := rc.DeletePattern(ctx, "books:*"); err != nil {
		log.Warn().Err(err).Msg("failed to flush stale book cache")
	}
	c.Cache = rc
}

// ========================================
// HEALTH
// ========================================

// Health reports the state of each dependency. ok is false when the database is down.
func (c *Container) Health(ctx context.Context) (map[string]interface{}, bool) {
	status := map[string]interface{}{
		"status":   "ok",
		"driver":   string(c.Dialect),
		"database": "up",
		"cache":    "disabled",
	}
	ok := true

	if err := database.Ping(ctx, c.SQL); err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
		ok = false
	}

	if c.Postgres != nil {
		if stats, err := c.Postgres.Stats(); err == nil {
			status["pool"] = stats
		}
	}

	if _, isRedis := c.Cache.(*infraCache.RedisCache); isRedis {
		status["cache"] = "up"
		if err := c.Cache.Ping(ctx); err != nil {
			status["cache"] = err.Error()
		}
	}

	return status, ok
}

// Cleanup releases database and cache connections. Safe to call twice.
func (c *Container) Cleanup() {
	log.Info().Msg("cleaning up container resources")

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close Redis")
		}
		c.Cache = cache.NoopCache{}
	}

	if c.Postgres != nil {
		_ = c.Postgres.Close()
	} else if c.SQL != nil {
		if err := c.SQL.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close database")
		}
	}
	c.SQL = nil
	c.Postgres = nil
}

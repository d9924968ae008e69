package app

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/keeplater/internal/auth"
	"github.com/MrSnakeDoc/keeplater/internal/config"
	"github.com/MrSnakeDoc/keeplater/internal/httpserver"
	"github.com/MrSnakeDoc/keeplater/internal/httpserver/deps"
	"github.com/MrSnakeDoc/keeplater/internal/intake"
	"github.com/MrSnakeDoc/keeplater/internal/logger"
	"github.com/MrSnakeDoc/keeplater/internal/redis"
	"github.com/MrSnakeDoc/keeplater/internal/scheduler"
	"github.com/MrSnakeDoc/keeplater/internal/store"
	"github.com/MrSnakeDoc/keeplater/internal/store/database"
	redisstore "github.com/MrSnakeDoc/keeplater/internal/store/redis"
	"github.com/MrSnakeDoc/keeplater/internal/utils"
	"github.com/MrSnakeDoc/keeplater/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	store    store.Store
	redis    *redisstore.Store
	importer *scheduler.Importer

	// cancels the JWKS background refresh
	stopKeys context.CancelFunc
}

// StoreOptions maps the database section of cfg onto store options.
func StoreOptions(cfg *config.Config) database.Options {
	return database.Options{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		SlowQuery:       cfg.DBSlowQuery,
	}
}

// OpenStore opens the entry store and migrates it when migrate is true.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.Logger, migrate bool) (store.Store, database.Driver, error) {
	s, driver, err := store.Open(StoreOptions(cfg), log)
	if err != nil {
		return nil, "", err
	}
	if migrate {
		if err := s.Migrate(ctx); err != nil {
			utils.Close(s, log, "database")
			return nil, "", err
		}
		log.Info("database schema up to date", logger.String("driver", string(driver)))
	}
	return s, driver, nil
}

func redisOptions(cfg *config.Config) redis.ConnectOptions {
	return redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}
}

// ConnectGuard connects to Redis and returns the share guard option.
// It returns a nil store and no options when Redis is not configured.
func ConnectGuard(ctx context.Context, cfg *config.Config, log logger.Logger) (*redisstore.Store, []intake.Option, error) {
	if !cfg.RedisEnabled() {
		log.Info("redis not configured, share guard disabled")
		return nil, nil, nil
	}

	log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	client, err := redis.Connect(ctx, redisOptions(cfg), log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	rs := redisstore.NewStore(client, log)
	log.Info("share guard enabled",
		logger.Duration("lock_ttl", cfg.ShareLockTTL),
		logger.Duration("lock_wait", cfg.ShareLockWait))
	return rs, []intake.Option{intake.WithGuard(redisstore.NewShareGuard(rs, cfg.ShareLockTTL, cfg.ShareLockWait))}, nil
}

// New wires every component. Any failure releases what was already opened.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: log}
	ok := false
	defer func() {
		if !ok {
			a.close()
		}
	}()

	var err error

	var driver database.Driver
	a.store, driver, err = OpenStore(ctx, cfg, log, cfg.DBAutoMigrate)
	if err != nil {
		return nil, err
	}

	var opts []intake.Option
	a.redis, opts, err = ConnectGuard(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	ingestor := intake.NewIngestor(a.store, log, opts...)

	keysCtx, stopKeys := context.WithCancel(context.Background())
	a.stopKeys = stopKeys
	keyfunc, err := auth.NewKeyfunc(keysCtx, cfg.JWKSURI)
	if err != nil {
		return nil, err
	}

	var trigger chan struct{}
	if cfg.SeedFile != "" {
		log.Info("seed file configured, initializing importer",
			logger.String("file", cfg.SeedFile))
		trigger = make(chan struct{}, 1)
		a.importer = scheduler.NewImporter(cfg.SeedFile, ingestor, log, cfg.ImportInterval, trigger)
	}

	d := deps.Deps{
		Logger:       log,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		TimeNow:      time.Now,
		AllowedHosts: cfg.AllowedHosts,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		CORSOrigins:  cfg.CORSOrigins,

		Ingestor: ingestor,
		Database: a.store,
		DBDriver: string(driver),
		Redis:    a.redis,

		Keyfunc: keyfunc,
		AuthOptions: auth.Options{
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
			Leeway:   cfg.JWTLeeway,
		},

		ShareRateBurst:  cfg.ShareRateBurst,
		ShareRatePerMin: cfg.ShareRatePerMin,

		Importer:      a.importer,
		ImportTrigger: trigger,
	}

	a.server = httpserver.New(cfg, log, d)
	ok = true
	return a, nil
}

// Run serves until ctx is canceled or the server fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting KeepLater v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())
	defer a.close()

	if a.importer != nil {
		a.importer.Start(ctx)
		// stopped before the deferred close releases the store
		defer a.importer.Stop()
		a.logger.Info("seed importer started",
			logger.Duration("interval", a.cfg.ImportInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ KeepLater stopped cleanly")
	return nil
}

func (a *App) close() {
	if a.stopKeys != nil {
		a.stopKeys()
	}
	if a.redis != nil {
		utils.Close(a.redis, a.logger, "redis")
	}
	if a.store != nil {
		utils.Close(a.store, a.logger, "database")
	}
}

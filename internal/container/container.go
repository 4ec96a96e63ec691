package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"shipping/estimator/internal/api"
	"shipping/estimator/internal/client"
	"shipping/estimator/internal/config"
	"shipping/estimator/internal/domain"
	"shipping/estimator/internal/proxy"
	"shipping/estimator/internal/repository"
	"shipping/estimator/internal/service"
	"shipping/estimator/internal/stats"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const Version = "v4 (prior knowledge first)"

// Container holds all initialized components
type Container struct {
	Config    *config.Config
	Resolver  *stats.Resolver
	Predictor client.Predictor
	Images    client.ImageFetcher
	Estimator *service.Estimator
	Server    *http.Server

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	source, err := container.statsSource(ctx)
	if err != nil {
		container.Close()
		return nil, err
	}

	entries, err := source.LoadStats(ctx)
	if err != nil {
		container.Close()
		return nil, domain.NewError(domain.KindConfig, "failed to load category stats", err)
	}

	table := stats.NewTable(entries)
	log.WithFields(log.Fields{
		"source":     cfg.Stats.Source,
		"categories": table.Len(),
	}).Info("📊 Category stats loaded")

	container.Resolver = stats.NewResolver(table, stats.NewPathParser(cfg.Stats.RootLabels))

	proxySupplier := proxy.NewSupplier(ctx, cfg.Image.Proxies, cfg.Image.ProbeURL)
	container.Images = client.NewImageFetcher(cfg.Image, proxySupplier)

	if cfg.Predictor.APIKey == "" {
		log.Warn("⚠️ Predictor API key is not set, requests will fall back to category averages")
	}
	container.Predictor = client.NewChatPredictor(cfg.Predictor)

	container.Estimator = service.NewEstimator(container.Resolver, container.Predictor, container.Images)

	handler := api.NewHandler(container.Estimator, api.Info{
		Model:   container.Predictor.Model(),
		Port:    cfg.Server.Port,
		Version: Version,
	})

	container.Server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return container, nil
}

func (c *Container) statsSource(ctx context.Context) (repository.StatsSource, error) {
	cfg := c.Config

	switch cfg.Stats.Source {
	case config.StatsSourcePostgres:
		db, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		c.db = db

		if err := db.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		log.Info("✅ Connected to PostgreSQL successfully")

		return repository.NewPostgresStatsSource(db, cfg.Database.Table), nil

	case config.StatsSourceRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		c.redis = rdb

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		return repository.NewRedisStatsSource(rdb, cfg.Redis.Key), nil

	default:
		return repository.NewFileStatsSource(cfg.Stats.File), nil
	}
}

// Run serves HTTP until ctx is cancelled, then shuts the server down gracefully
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("addr", c.Server.Addr).Info("🚀 Listening")
		if err := c.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.Config.Server.ShutdownTimeout)
		defer cancel()

		log.Info("🛑 Shutting down HTTP server...")
		return c.Server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		c.redis.Close()
	}

	log.Info("Container shut down successfully")
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/qinghao1/gojek/internal/adapter/handler"
	"github.com/qinghao1/gojek/internal/adapter/logger"
	natspub "github.com/qinghao1/gojek/internal/adapter/messaging/nats"
	"github.com/qinghao1/gojek/internal/adapter/messaging/rabbitmq"
	"github.com/qinghao1/gojek/internal/adapter/spatial"
	"github.com/qinghao1/gojek/internal/adapter/storage/memory"
	mongostore "github.com/qinghao1/gojek/internal/adapter/storage/mongo"
	"github.com/qinghao1/gojek/internal/adapter/storage/postgres"
	redisstore "github.com/qinghao1/gojek/internal/adapter/storage/redis"
	"github.com/qinghao1/gojek/internal/adapter/websocket"
	"github.com/qinghao1/gojek/internal/config"
	"github.com/qinghao1/gojek/internal/core/port"
	"github.com/qinghao1/gojek/internal/core/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type closer func(context.Context)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLogger.Sync()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, appLogger); err != nil {
		appLogger.Fatal("server exited with error", zap.Error(err))
	}
	appLogger.Info("server exiting")
}

func run(cfg config.Config, appLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []closer
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i](shutdownCtx)
		}
	}()

	repo, closeRepo, err := openRepository(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	closers = append(closers, closeRepo)

	publisher, closePublisher, err := openPublisher(cfg, appLogger)
	if err != nil {
		return err
	}
	closers = append(closers, closePublisher)

	index := spatial.NewIndex(cfg.IndexMinChildren, cfg.IndexMaxChildren)
	store := service.NewPositionStore(repo, index, appLogger)

	warmed, err := store.Warm(ctx)
	if err != nil {
		return fmt.Errorf("warm proximity index: %w", err)
	}
	appLogger.Info("proximity index ready", zap.Int("drivers", warmed))

	locations := service.NewLocationService(store, publisher, appLogger)
	queries := service.NewQueryService(index)
	hub := websocket.NewHub(locations, appLogger)

	r := handler.NewRouter(handler.Routes{
		Drivers: handler.NewDriverHandler(locations, queries, appLogger).WithStream(hub),
		Hub:     hub,
		Health: func() gin.H {
			return gin.H{
				"env":       cfg.Env,
				"storage":   cfg.StorageDriver,
				"indexed":   store.Indexed(),
				"connected": hub.Connected(),
			}
		},
	}, appLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		appLogger.Info("starting server", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func openRepository(ctx context.Context, cfg config.Config, appLogger *zap.Logger) (port.LocationRepository, closer, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		dbConfig, err := pgxpool.ParseConfig(cfg.DBUrl)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to parse db config: %w", err)
		}
		pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to create db pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("cannot connect to db: %w", err)
		}

		store := postgres.NewLocationStore(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		appLogger.Info("connected to database via pgxpool")
		return store, func(context.Context) { pool.Close() }, nil

	case config.StorageRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("cannot connect to redis: %w", err)
		}
		appLogger.Info("connected to redis", zap.String("key", cfg.RedisKey))
		return redisstore.NewLocationStore(client, cfg.RedisKey), func(context.Context) { _ = client.Close() }, nil

	case config.StorageMongo:
		client, db, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		appLogger.Info("connected to mongodb", zap.String("database", cfg.MongoDatabase))
		return mongostore.NewLocationStore(db), func(ctx context.Context) {
			if err := client.Disconnect(ctx); err != nil {
				appLogger.Warn("mongodb disconnect failed", zap.Error(err))
			}
		}, nil

	default:
		appLogger.Info("using in-memory storage")
		return memory.NewLocationStore(), func(context.Context) {}, nil
	}
}

func openPublisher(cfg config.Config, appLogger *zap.Logger) (port.LocationPublisher, closer, error) {
	switch cfg.Publisher {
	case config.PublisherNATS:
		conn, err := natspub.Connect(cfg.NatsURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to nats: %w", err)
		}
		appLogger.Info("publishing location updates to nats", zap.String("subject", cfg.NatsSubject))
		return natspub.NewPublisher(conn, cfg.NatsSubject), func(context.Context) {
			if err := conn.Drain(); err != nil {
				conn.Close()
			}
		}, nil

	case config.PublisherAMQP:
		conn, ch, err := rabbitmq.Dial(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, nil, err
		}
		appLogger.Info("publishing location updates to rabbitmq", zap.String("exchange", cfg.AMQPExchange))
		return rabbitmq.NewPublisher(ch, cfg.AMQPExchange), func(context.Context) {
			_ = ch.Close()
			_ = conn.Close()
		}, nil

	default:
		return port.NopPublisher{}, func(context.Context) {}, nil
	}
}

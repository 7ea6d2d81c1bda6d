// cmd/order-service/main.go

// main 是 order-service 的组装根：创建并装配全部依赖，然后启动
// 命令消费循环和运维端口（/healthz、/metrics），最后负责优雅关停。
// 业务侧不暴露 HTTP 接口，准入与状态流转都由命令主题驱动。
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"tienda/internal/pkg/config"
	"tienda/internal/pkg/logger"
	"tienda/internal/pkg/mq"
	"tienda/internal/pkg/tracing"
	"tienda/internal/service/order/application"
	"tienda/internal/service/order/infrastructure/adapter"
	"tienda/internal/service/order/infrastructure/persistence"
	"tienda/internal/service/order/interfaces"
)

const serviceName = "order-service"

func main() {
	logger.Init(serviceName)

	cfg, err := config.Load(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to load config")
	}

	tp, err := tracing.InitTracerProvider(serviceName, cfg.Jaeger.Endpoint)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	db, err := persistence.Open(cfg.MySQL.DSN)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to connect to mysql")
	}
	if err := persistence.Migrate(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to run migrations")
	}
	uow := persistence.NewUnitOfWork(db)

	eventWriter := mq.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.EventTopic)
	defer eventWriter.Close()
	events := adapter.NewEventKafkaAdapter(eventWriter)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	defer redisClient.Close()
	cache := adapter.NewStockCacheRedisAdapter(redisClient)

	admission := application.NewAdmissionService(uow, events, cache)
	lifecycle := application.NewLifecycleService(uow, events, cache)

	commandReader := mq.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.CommandTopic, cfg.Kafka.GroupID)
	defer commandReader.Close()
	consumer := interfaces.NewCommandConsumer(commandReader, admission, lifecycle)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.Port), Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Logger.Info().Str("topic", cfg.Kafka.CommandTopic).Msg("command consumer started")
		return consumer.Run(gctx)
	})
	g.Go(func() error {
		logger.Logger.Info().Int("port", cfg.Server.Port).Msg("ops server started")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Logger.Error().Err(err).Msg("service exited with error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("failed to shut down tracer provider")
	}
	logger.Logger.Info().Msg("service gracefully shut down")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

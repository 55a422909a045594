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

	"go-gin-airport/config"
	"go-gin-airport/internal/cache"
	"go-gin-airport/internal/database"
	"go-gin-airport/internal/handler"
	"go-gin-airport/internal/health"
	"go-gin-airport/internal/queue"
	"go-gin-airport/internal/repository"
	"go-gin-airport/internal/service"
	"go-gin-airport/internal/worker"
	"go-gin-airport/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func main() {
	flagSet := pflag.NewFlagSet("airport", pflag.ContinueOnError)
	configPath := flagSet.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML config file")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(*configPath); err != nil {
		logger.L.Fatal("server error", zap.Error(err))
	}
}

func run(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Server.LogLevel)
	defer logger.L.Sync()
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.InitDatabase(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	rdb, err := database.InitRedis(ctx, &cfg.Redis)
	if err != nil {
		return fmt.Errorf("initialize redis: %w", err)
	}
	defer rdb.Close()

	eventQueue, err := newOrderEventQueue(ctx, cfg, rdb)
	if err != nil {
		return fmt.Errorf("initialize order event queue: %w", err)
	}
	defer eventQueue.Close()

	var listCache cache.FlightListCache
	if cfg.Cache.Enabled {
		listCache = cache.NewRedisFlightListCache(rdb, cfg.Cache.FlightTTL)
	}

	// Repositories
	airportRepository := repository.NewAirportRepository(pool)
	routeRepository := repository.NewRouteRepository(pool)
	airplaneTypeRepository := repository.NewAirplaneTypeRepository(pool)
	airplaneRepository := repository.NewAirplaneRepository(pool)
	crewRepository := repository.NewCrewRepository(pool)
	flightRepository := repository.NewFlightRepository(pool)
	orderRepository := repository.NewOrderRepository(pool)
	ticketRepository := repository.NewTicketRepository(pool)
	userRepository := repository.NewUserRepository(pool)

	// Services
	airportService := service.NewAirportService(airportRepository)
	routeService := service.NewRouteService(routeRepository, airportRepository)
	airplaneTypeService := service.NewAirplaneTypeService(airplaneTypeRepository)
	airplaneService := service.NewAirplaneService(airplaneRepository, airplaneTypeRepository)
	crewService := service.NewCrewService(crewRepository)
	flightService := service.NewFlightService(pool, flightRepository, routeRepository, airplaneRepository, crewRepository, listCache, nil)
	orderService := service.NewOrderService(pool, orderRepository, ticketRepository, flightRepository, userRepository, eventQueue)
	ticketService := service.NewTicketService(pool, ticketRepository, flightRepository, orderRepository, eventQueue)

	router := handler.NewRouter(&cfg.Auth,
		handler.NewAirportHandler(airportService),
		handler.NewRouteHandler(routeService),
		handler.NewAirplaneTypeHandler(airplaneTypeService),
		handler.NewAirplaneHandler(airplaneService),
		handler.NewCrewHandler(crewService),
		handler.NewFlightHandler(flightService),
		handler.NewOrderHandler(orderService),
		handler.NewTicketHandler(ticketService),
	)

	workerDone, err := worker.NewOrderEventWorker(flightService, eventQueue).Start(ctx)
	if err != nil {
		return fmt.Errorf("start order event worker: %w", err)
	}

	errCh := make(chan error, 2)

	if cfg.GRPC.Address != "" {
		healthServer := health.NewServer(map[string]health.Checker{
			"postgres": pool.Ping,
			"redis": func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		}, health.DefaultInterval)
		go func() {
			if err := healthServer.Run(ctx, cfg.GRPC.Address); err != nil {
				errCh <- fmt.Errorf("grpc health: %w", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.L.Info("http server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.L.Info("shutting down")
	case err = <-errCh:
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.L.Error("http shutdown failed", zap.Error(shutdownErr))
	}

	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		logger.L.Warn("order event worker did not stop in time")
	}
	return err
}

// newOrderEventQueue picks the order event transport named by the queue backend.
func newOrderEventQueue(ctx context.Context, cfg *config.Config, rdb *redis.Client) (queue.OrderEventQueue, error) {
	switch cfg.Queue.Backend {
	case "", "memory":
		return queue.NewOrderEventQueue(cfg.Queue.BufferSize), nil
	case "redis":
		consumerID := cfg.Queue.ConsumerID
		if consumerID == "" {
			consumerID, _ = os.Hostname()
		}
		return queue.NewRedisStreamOrderEventQueue(ctx, rdb, consumerID, nil)
	case "kafka":
		return queue.NewKafkaOrderEventQueue(queue.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		})
	default:
		return nil, fmt.Errorf("unknown queue backend %q", cfg.Queue.Backend)
	}
}

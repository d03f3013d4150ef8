package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/auth"
	cartcache "github.com/owaisraza72/Full-Stack-E-Commerce/internal/cart/cache"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/cart/poller"
	cartrepo "github.com/owaisraza72/Full-Stack-E-Commerce/internal/cart/repository"
	cartservice "github.com/owaisraza72/Full-Stack-E-Commerce/internal/cart/service"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/config"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/database"
	api "github.com/owaisraza72/Full-Stack-E-Commerce/internal/http"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/orders/publisher"
	orderrepo "github.com/owaisraza72/Full-Stack-E-Commerce/internal/orders/repository"
	orderservice "github.com/owaisraza72/Full-Stack-E-Commerce/internal/orders/service"
	productrepo "github.com/owaisraza72/Full-Stack-E-Commerce/internal/products/repository"
	userrepo "github.com/owaisraza72/Full-Stack-E-Commerce/internal/users/repository"
	"github.com/owaisraza72/Full-Stack-E-Commerce/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("storefront stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Options{
		Service: "storefront",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// MongoDB: carts, users and (by default) orders
	mongoDB, err := database.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		return err
	}
	defer func() {
		_ = mongoDB.Client().Disconnect(context.Background())
	}()
	log.Info("connected to MongoDB", "db", cfg.MongoDBName)

	carts := cartrepo.NewMongoRepository(mongoDB)
	users := userrepo.NewMongoRepository(mongoDB)
	indexed := []database.IndexCreator{carts, users}

	var orders orderrepo.OrderRepository
	switch cfg.OrdersBackend {
	case config.OrdersBackendPostgres:
		cred := &orderrepo.Credentials{
			Host:              cfg.Postgres.Host,
			Port:              cfg.Postgres.Port,
			User:              cfg.Postgres.User,
			Password:          cfg.Postgres.Password,
			DBName:            cfg.Postgres.DBName,
			MigrationsDirPath: cfg.OrdersMigrationsPath,
		}
		pg, err := orderrepo.NewPostgresRepository(ctx, cred)
		if err != nil {
			return err
		}
		defer pg.Close()
		if err := pg.RunMigrations(cred); err != nil {
			return err
		}
		orders = pg
		log.Info("orders stored in PostgreSQL", "host", cfg.Postgres.Host)
	default:
		mongoOrders := orderrepo.NewMongoRepository(mongoDB)
		indexed = append(indexed, mongoOrders)
		orders = mongoOrders
	}

	if err := database.EnsureIndexes(ctx, indexed...); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}

	// Redis cart cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// The cache is optional; the breaker keeps requests on MongoDB.
		log.Warn("redis ping failed", "addr", cfg.RedisAddr, "error", err)
	}
	cache := cartcache.NewBreakerCache(cartcache.NewRedisCache(redisClient), log)

	// Product catalog
	products, err := productrepo.NewRepository(cfg.ProductsDBPath)
	if err != nil {
		return err
	}
	defer products.Close()
	if err := products.RunMigrations(cfg.ProductsMigrationsPath); err != nil {
		return err
	}

	// Order events
	var pub publisher.Publisher = publisher.Noop{}
	var cartPoller *poller.Poller
	if len(cfg.KafkaBrokers) > 0 {
		pub = publisher.NewKafkaPublisher(cfg.KafkaBrokers...)
		cartPoller = poller.NewPoller(carts, cache, log, cfg.KafkaBrokers...)
		log.Info("order events enabled", "brokers", cfg.KafkaBrokers)
	}
	defer pub.Close()

	cartSvc := cartservice.NewCartService(carts, cache, products, log)
	orderSvc := orderservice.NewOrderService(orders, cartSvc, pub, log)
	authSvc := auth.NewService(users, auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL), log)

	router := api.NewRouter(
		api.RouterConfig{
			CORSOrigins:        cfg.CORSOrigins,
			RequestTimeout:     cfg.RequestTimeout,
			MaxRequestBodySize: cfg.MaxRequestBodySize,
		},
		authSvc,
		api.Handlers{
			Auth:     api.NewAuthHandler(authSvc, cfg.CookieSecure, cfg.RequestTimeout),
			Products: api.NewProductHandler(products, cfg.RequestTimeout),
			Cart:     api.NewCartHandler(cartSvc, cfg.RequestTimeout),
			Orders:   api.NewOrdersHandler(orderSvc, cfg.RequestTimeout),
			Admin:    api.NewAdminHandler(users, authSvc, cfg.RequestTimeout),
		},
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("storefront listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if cartPoller != nil {
		g.Go(func() error {
			cartPoller.Run(gctx)
			return cartPoller.Close()
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server exited")
	return nil
}

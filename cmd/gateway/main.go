package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	cartapp "github.com/dwikikusuma/buensabor-storefront/internal/cart/app"
	carthttp "github.com/dwikikusuma/buensabor-storefront/internal/cart/http"
	cartmem "github.com/dwikikusuma/buensabor-storefront/internal/cart/infra/memory"
	cartredis "github.com/dwikikusuma/buensabor-storefront/internal/cart/infra/redis"

	catalogapp "github.com/dwikikusuma/buensabor-storefront/internal/catalog/app"
	cataloghttp "github.com/dwikikusuma/buensabor-storefront/internal/catalog/http"
	catalogredis "github.com/dwikikusuma/buensabor-storefront/internal/catalog/infra/redis"
	catalogrest "github.com/dwikikusuma/buensabor-storefront/internal/catalog/infra/rest"

	checkoutapp "github.com/dwikikusuma/buensabor-storefront/internal/checkout/app"
	checkouthttp "github.com/dwikikusuma/buensabor-storefront/internal/checkout/http"
	checkoutadapter "github.com/dwikikusuma/buensabor-storefront/internal/checkout/infra/adapter"
	checkoutkafka "github.com/dwikikusuma/buensabor-storefront/internal/checkout/infra/kafka"
	"github.com/dwikikusuma/buensabor-storefront/internal/checkout/infra/notify"
	checkoutpg "github.com/dwikikusuma/buensabor-storefront/internal/checkout/infra/postgres"
	checkoutrest "github.com/dwikikusuma/buensabor-storefront/internal/checkout/infra/rest"

	customerapp "github.com/dwikikusuma/buensabor-storefront/internal/customer/app"
	customerhttp "github.com/dwikikusuma/buensabor-storefront/internal/customer/http"
	customerrest "github.com/dwikikusuma/buensabor-storefront/internal/customer/infra/rest"

	orderapp "github.com/dwikikusuma/buensabor-storefront/internal/order/app"
	orderhttp "github.com/dwikikusuma/buensabor-storefront/internal/order/http"
	orderrest "github.com/dwikikusuma/buensabor-storefront/internal/order/infra/rest"

	cart "github.com/dwikikusuma/buensabor-storefront/internal/cart/domain"
	"github.com/dwikikusuma/buensabor-storefront/pkg/config"
	"github.com/dwikikusuma/buensabor-storefront/pkg/httpx"
	"github.com/dwikikusuma/buensabor-storefront/pkg/logger"
	"github.com/dwikikusuma/buensabor-storefront/pkg/postgres"
	"github.com/dwikikusuma/buensabor-storefront/pkg/restclient"
	"github.com/dwikikusuma/buensabor-storefront/pkg/shutdown"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	stopTimeout = 10 * time.Second
	inboxSize   = 20
)

func main() {
	cfg, cfgErr := config.Load()
	log := logger.New(logger.Options{Service: "storefront", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})
	if cfgErr != nil {
		log.Warn("config partially ignored", slog.Any("err", cfgErr))
	}

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	backend := restclient.New(cfg.BackendURL, cfg.BackendTimeout, log)

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Error("redis ping failed", slog.Any("err", err), slog.String("addr", cfg.RedisAddr))
			os.Exit(1)
		}
		defer rdb.Close()
	}

	// Catalog
	var catalogBackend catalogapp.Backend = catalogrest.NewCatalogClient(backend)
	var catalogCache *catalogredis.Cache
	if rdb != nil {
		catalogCache = catalogredis.NewCache(catalogBackend, rdb, cfg.CatalogCacheTTL, log)
		catalogBackend = catalogCache
	}
	catalogSvc := catalogapp.NewService(catalogBackend, cfg.OrganizationID)
	catalogHandler := cataloghttp.NewHandler(catalogSvc)
	if catalogCache != nil {
		catalogHandler.WithCache(catalogCache)
	}

	// Cart
	var cartRepo cartapp.StateRepo = cartmem.NewStateRepo()
	if rdb != nil {
		cartRepo = cartredis.NewStateRepo(rdb, cfg.SessionTTL)
	}
	cartSvc := cartapp.NewService(cartRepo)

	// Customer and orders
	customerSvc := customerapp.NewService(customerrest.NewClientRegistry(backend), log)
	orderSvc := orderapp.NewService(orderrest.NewOrderGateway(backend))
	pricing := cart.Pricing{SurchargePercent: cfg.DeliverySurchargePercent}
	composer := orderapp.NewComposer(customerSvc, pricing)

	// Checkout
	inbox := notify.NewInbox(inboxSize)
	opts := []checkoutapp.Option{
		checkoutapp.WithPayments(checkoutrest.NewPaymentClient(backend, cfg.PaymentRedirectURL)),
	}

	var ledger *checkoutpg.Ledger
	if cfg.PostgresDSN != "" {
		db := mustDB(ctx, log, cfg.PostgresDSN)
		defer db.Close()
		ledger = checkoutpg.NewLedger(db)
		if err := ledger.EnsureSchema(ctx); err != nil {
			log.Error("ledger schema failed", slog.Any("err", err))
			os.Exit(1)
		}
		opts = append(opts, checkoutapp.WithLedger(ledger))
	}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		pub := checkoutkafka.NewPublisher(brokers, cfg.KafkaCheckoutTopic)
		defer pub.Close()
		opts = append(opts, checkoutapp.WithPublisher(pub))
	}

	checkoutSvc := checkoutapp.NewService(
		checkoutadapter.NewCartServiceStore(cartSvc),
		checkoutadapter.NewCatalogServiceReader(catalogSvc),
		composer,
		orderSvc,
		notify.Fanout{notify.NewLog(log), inbox},
		checkoutapp.Config{Currency: cfg.Currency, MaxConcurrent: cfg.MaxConcurrent, Pricing: pricing},
		log,
		opts...,
	)

	var attempts checkouthttp.Attempts
	if ledger != nil {
		attempts = ledger
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer, middleware.RealIP, httpx.RequestID, httpx.Session, httpx.Logger(log))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", readyz(rdb))
	r.Route("/api/v1", func(r chi.Router) {
		catalogHandler.Routes(r)
		carthttp.NewHandler(cartSvc, catalogSvc).OnForget(catalogSvc.ForgetSession).Routes(r)
		customerhttp.NewHandler(customerSvc, cartSvc).Routes(r)
		orderhttp.NewHandler(orderSvc, cartSvc).Routes(r)
		checkouthttp.NewHandler(checkoutSvc, inbox, attempts).Routes(r)
	})

	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              httpAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Error("listen failed", slog.Any("err", err), slog.String("addr", grpcAddr))
		os.Exit(1)
	}
	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("storefront", healthpb.HealthCheckResponse_SERVING)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server starting", slog.String("addr", httpAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Info("grpc health starting", slog.String("addr", grpcAddr))
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")
		healthSrv.Shutdown()

		if err := shutdown.Bounded(stopTimeout, server.Shutdown, func() { _ = server.Close() }); err != nil {
			log.Error("http shutdown error", slog.Any("err", err))
		}
		err := shutdown.Bounded(stopTimeout, func(context.Context) error {
			grpcServer.GracefulStop()
			return nil
		}, func() {
			log.Warn("graceful stop timeout, forcing stop")
			grpcServer.Stop()
		})
		if err != nil {
			log.Error("grpc shutdown error", slog.Any("err", err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", slog.Any("err", err))
	}
	log.Info("bye")
}

func mustDB(ctx context.Context, log *slog.Logger, dsn string) *sql.DB {
	db, err := postgres.Open(ctx, postgres.Config{
		DSN:             dsn,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		log.Error("db open failed", slog.Any("err", err))
		os.Exit(1)
	}
	return db
}

func readyz(rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rdb != nil {
			if err := rdb.Ping(r.Context()).Err(); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}

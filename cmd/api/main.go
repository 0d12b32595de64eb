package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	limiterstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/noah-isme/dessert-shop/internal/cart"
	"github.com/noah-isme/dessert-shop/internal/catalog"
	"github.com/noah-isme/dessert-shop/internal/checkout"
	"github.com/noah-isme/dessert-shop/internal/common"
	"github.com/noah-isme/dessert-shop/internal/config"
	"github.com/noah-isme/dessert-shop/internal/health"
	"github.com/noah-isme/dessert-shop/internal/obs"
	"github.com/noah-isme/dessert-shop/internal/order"
	"github.com/noah-isme/dessert-shop/internal/promo"
	"github.com/noah-isme/dessert-shop/internal/queue"
)

func main() {
	cfg := config.MustLoad()

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	catalogSvc := catalog.NewService(catalog.DefaultProducts())
	catalogHandler := &catalog.Handler{Service: catalogSvc}

	promos, err := promo.ParseRules(cfg.PromoCodes)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse promo codes")
	}
	registry := promo.NewRegistry(promos)

	domainMetrics := obs.NewDomainMetrics("dessert", nil)

	cartStore := &cart.Store{R: redisClient, TTL: cfg.CartTTL, Logger: logger}
	cartSvc := &cart.Service{
		Store:   cartStore,
		Catalog: catalogSvc,
		Promos:  registry,
		Rates:   cfg.Rates,
		Logger:  logger,
		Metrics: domainMetrics,
	}
	cartHandler := &cart.Handler{Svc: cartSvc, Currency: cfg.CurrencyCode}

	orderStore := &order.Store{R: redisClient, TTL: cfg.OrderTTL}
	orderHandler := &order.Handler{Store: orderStore}

	taskClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisOpts.Addr, Password: redisOpts.Password, DB: redisOpts.DB})
	defer func() {
		if err := taskClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close task client")
		}
	}()

	checkoutSvc := &checkout.Service{
		Carts:    cartSvc,
		Orders:   orderStore,
		Tasks:    queue.Enqueuer{Client: taskClient, ConfirmDelay: cfg.OrderConfirmDelay},
		Validate: validator.New(),
		Currency: cfg.CurrencyCode,
		Metrics:  domainMetrics,
	}
	checkoutHandler := &checkout.Handler{Svc: checkoutSvc}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}

	buckets := obs.ParseBucketsCSV(cfg.MetricsBucketsCSV)
	httpMetrics := obs.NewHTTPMetrics("dessert", buckets, nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	rateLimitMiddleware, err := newRateLimit(cfg, redisClient)
	if err != nil {
		logger.Fatal().Err(err).Str("rate_limit", cfg.RateLimit).Msg("configure rate limiter")
	}
	if rateLimitMiddleware != nil {
		r.Use(rateLimitMiddleware)
	}

	r.Handle("/metrics", promhttp.Handler())

	healthHandler := health.Handler{
		Checker:      readinessChecker{redis: redisClient},
		RedisTimeout: 300 * time.Millisecond,
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/products", catalogHandler.Products)
		v.Get("/products/{id}", catalogHandler.ProductDetail)

		v.Route("/carts", func(c chi.Router) {
			c.Post("/", cartHandler.Create)
			c.Get("/{id}", cartHandler.Get)
			c.Post("/{id}/items", cartHandler.AddItem)
			c.Patch("/{id}/items/{index}", cartHandler.UpdateItem)
			c.Delete("/{id}/items/{index}", cartHandler.RemoveItem)
			c.Delete("/{id}/items", cartHandler.Clear)
			c.Post("/{id}/promo-code", cartHandler.ApplyPromo)
			c.Delete("/{id}/promo-code", cartHandler.RemovePromo)
		})

		v.With(idem.Middleware).Post("/checkout", checkoutHandler.Create)

		v.Get("/orders/{number}", orderHandler.Get)
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		health.SetReady(false)
		drainCtx, drainCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer drainCancel()
		if err := srv.Shutdown(drainCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown server")
		}
	}()

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
	logger.Info().Msg("server shutdown complete")
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

// newRateLimit builds the rate limiting middleware. An empty RATE_LIMIT
// disables it; a malformed value is an error so config typos fail startup
// instead of silently removing the limit.
func newRateLimit(cfg *config.Config, rdb *redis.Client) (func(http.Handler) http.Handler, error) {
	if strings.TrimSpace(cfg.RateLimit) == "" {
		return nil, nil
	}
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("parse rate limit: %w", err)
	}
	store, err := limiterredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: "ratelimit"})
	if err != nil {
		return nil, fmt.Errorf("rate limiter store: %w", err)
	}
	mw := limiterstdlib.NewMiddleware(limiter.New(store, rate))
	return mw.Handler, nil
}

type readinessChecker struct {
	redis *redis.Client
}

func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.redis == nil {
		return errors.New("redis not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(ctx).Err()
}

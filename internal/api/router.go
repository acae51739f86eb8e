package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	_ "loan-offers/docs"
	"loan-offers/internal/api/handler"
	mw "loan-offers/internal/api/middleware"
	"loan-offers/internal/config"
	"loan-offers/internal/domain/lending"
	"loan-offers/internal/domain/offer"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const statusMessage = "The service is ready to receive requests."

// SetupRouter wires every HTTP route. redisClient may be nil unless the rate
// limiter backend is redis. ctx bounds background work owned by middleware.
func SetupRouter(ctx context.Context, offerService offer.OfferService, lendingService lending.Service, cfg *config.Config, redisClient redis.UniversalClient, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(ctx, router, cfg, redisClient, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupProbeRoutes(router)
	setupAuthRoutes(router, cfg, logger)
	setupOfferRoutes(router, offerService, cfg, logger)
	setupLoanRoutes(router, lendingService, logger)
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(ctx context.Context, router *chi.Mux, cfg *config.Config, redisClient redis.UniversalClient, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(rateLimiter(ctx, cfg.Server.RateLimit, redisClient, logger))
	router.Use(mw.MetricsMiddleware())
}

func rateLimiter(ctx context.Context, cfg config.RateLimitConfig, redisClient redis.UniversalClient, logger *slog.Logger) func(http.Handler) http.Handler {
	if cfg.Backend == config.RateLimitBackendRedis {
		return mw.NewRedisRateLimiterMiddleware(cfg, redisClient, logger).Middleware
	}
	return mw.NewRateLimiterMiddleware(ctx, cfg, logger).Middleware
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupProbeRoutes(router *chi.Mux) {
	router.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(statusMessage))
	})
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAuthRoutes(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	authHandler := handler.NewAuthHandler(cfg.Server.Auth, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})
}

func setupOfferRoutes(router *chi.Mux, svc offer.OfferService, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewOfferHandler(svc, cfg.Server.MaxOfferUpload, logger)

	router.Route("/offers", func(r chi.Router) {
		r.With(mw.AuthMiddleware(cfg.Server.Auth, logger)).Post("/", h.IngestOffers)
		r.Get("/", h.ListOffers)
	})
	router.Get("/get_offers", h.ListOffers)
}

func setupLoanRoutes(router *chi.Mux, svc lending.Service, logger *slog.Logger) {
	h := handler.NewLoanHandler(svc, logger)

	router.Route("/customers/{msisdn}/loans", func(r chi.Router) {
		r.Post("/", h.AssignOffer)
		r.Get("/", h.GetAssignedLoan)
		r.Put("/", h.ApplyTopUp)
	})
}

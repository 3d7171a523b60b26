package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/tripsplit/internal/auth"
	"github.com/mmynk/tripsplit/internal/config"
	"github.com/mmynk/tripsplit/internal/httpapi"
	"github.com/mmynk/tripsplit/internal/middleware"
	"github.com/mmynk/tripsplit/internal/ratelimit"
	"github.com/mmynk/tripsplit/internal/service"
	"github.com/mmynk/tripsplit/internal/storage/sqlstore"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
	"github.com/mmynk/tripsplit/pkg/logging"
)

const (
	version         = "0.1.0"
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup()
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn := cfg.Database.Path
	if cfg.Database.Driver == sqlstore.DriverPostgres {
		dsn = cfg.Database.DSN
	}
	store, err := sqlstore.Open(ctx, cfg.Database.Driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.Database.Driver)

	verifier, err := newVerifier(ctx, cfg.Auth)
	if err != nil {
		return err
	}
	resolver := auth.NewIdentityResolver(store)

	joinLimiter, stopLimiter, err := newJoinLimiter(ctx, cfg.RateLimit)
	if err != nil {
		return err
	}
	defer stopLimiter()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	interceptors := connect.WithInterceptors(
		metrics.Interceptor(),
		middleware.RequireAuth(verifier, resolver),
		middleware.LoggingInterceptor(),
	)

	var services []httpapi.Service
	mount := func(path string, h http.Handler) {
		services = append(services, httpapi.Service{Path: path, Handler: h})
	}
	mount(apiconnect.NewTripServiceHandler(service.NewTripService(store, joinLimiter), interceptors))
	mount(apiconnect.NewBillServiceHandler(service.NewBillService(store), interceptors))
	mount(apiconnect.NewUserServiceHandler(service.NewUserService(store), interceptors))

	staticDir, err := filepath.Abs(cfg.Server.StaticPath)
	if err != nil {
		return fmt.Errorf("failed to resolve static path: %w", err)
	}
	slog.Info("Serving static files", "path", staticDir)

	var webhook *httpapi.WebhookHandler
	if cfg.Server.WebhookSecret != "" {
		if webhook, err = httpapi.NewWebhookHandler(cfg.Server.WebhookSecret, resolver); err != nil {
			return err
		}
	}

	if logging.ParseLevel(cfg.Log.Level) > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewRouter(httpapi.Options{
		Version:     version,
		Services:    services,
		DB:          store,
		Gatherer:    reg,
		Webhook:     webhook,
		StaticPath:  staticDir,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newVerifier(ctx context.Context, cfg config.AuthConfig) (auth.TokenVerifier, error) {
	switch cfg.Provider {
	case config.AuthFirebase:
		v, err := auth.NewFirebaseVerifier(ctx, cfg.FirebaseCredentials)
		if err != nil {
			return nil, err
		}
		slog.Info("Using Firebase identity provider")
		return v, nil
	default:
		slog.Info("Using JWT identity provider", "issuer", cfg.JWTIssuer)
		return auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, 24*time.Hour), nil
	}
}

// newJoinLimiter returns the Redis limiter when an address is configured,
// else an in-process one swept by a cron janitor.
func newJoinLimiter(ctx context.Context, cfg config.RateLimitConfig) (ratelimit.Limiter, func(), error) {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			slog.Warn("Redis unreachable at startup, join limiting will fail open until it recovers", "addr", cfg.RedisAddr, "error", err)
		}
		slog.Info("Join rate limiter using Redis", "addr", cfg.RedisAddr)
		limiter := ratelimit.NewRedis(client, "tripsplit:join", cfg.JoinPerMinute, time.Minute)
		return limiter, func() { client.Close() }, nil
	}

	limiter := ratelimit.NewLocal(cfg.JoinPerMinute, cfg.JoinBurst)
	janitor, err := ratelimit.StartJanitor(limiter, "@every 10m", 30*time.Minute)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start rate limiter janitor: %w", err)
	}
	return limiter, func() { <-janitor.Stop().Done() }, nil
}

package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	storefrontserver "github.com/Apurer/go-gin-storefront/go"

	orderworkflows "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/workflows"
	ordersports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	usersports "github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
	platformmetrics "github.com/Apurer/go-gin-storefront/internal/platform/metrics"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
)

// ServiceName identifies the API process in traces and metrics.
const ServiceName = "storefront-api"

// Run boots the storefront HTTP API with observability, repositories, and workflows wired.
// It returns when ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, ServiceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	container, cleanup, err := NewContainer(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer cleanup()
	if err := container.BootstrapAdmin(ctx, cfg); err != nil {
		logger.Error("failed to bootstrap admin account", slog.String("error", err.Error()))
	}

	workflows, closeWorkflows := newOrderWorkflows(cfg, container.Orders, func() (client.Client, error) {
		return connectTemporalClient(cfg, instruments)
	}, logger)
	defer closeWorkflows()

	if cfg.SessionPurgeIntervalMinute > 0 {
		go purgeSessionsEvery(ctx, container.Users, time.Duration(cfg.SessionPurgeIntervalMinute)*time.Minute, logger)
	}

	handlers := storefrontserver.ApiHandleFunctions{
		OrdersAPI:     storefrontserver.NewOrdersAPI(container.Orders, workflows),
		ReviewsAPI:    storefrontserver.NewReviewsAPI(container.Reviews),
		ContactAPI:    storefrontserver.NewContactAPI(container.Dispatcher),
		AdminAPI:      storefrontserver.NewAdminAPI(container.Orders, container.Activity, nil),
		AuthAPI:       storefrontserver.NewAuthAPI(container.Users),
		Authenticator: storefrontserver.NewAuthenticator(container.Users),
	}

	metrics := platformmetrics.NewHTTP()
	router := storefrontserver.NewRouter(handlers, otelgin.Middleware(ServiceName), metrics.Middleware())
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("Storefront API listening", slog.String("addr", server.Addr), slog.String("store", cfg.StoreBackend))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Storefront API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// newOrderWorkflows picks durable placement when Temporal is reachable and the worker
// can share the API's store. In-memory stores are process-local, so they always
// place orders inline.
func newOrderWorkflows(cfg Config, orders ordersports.Service, dial func() (client.Client, error), logger *slog.Logger) (ordersports.WorkflowOrchestrator, func()) {
	inline := orderworkflows.NewInlineOrderWorkflows(orders)
	if cfg.StoreBackend == BackendMemory {
		logger.Info("in-memory store configured, running inline order placement")
		return inline, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, running inline order placement", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return orderworkflows.NewTemporalOrderWorkflows(temporalClient), temporalClient.Close
}

func purgeSessionsEvery(ctx context.Context, users usersports.Service, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := users.PurgeSessions(ctx)
			if err != nil {
				logger.Warn("session purge failed", slog.String("error", err.Error()))
				continue
			}
			if purged > 0 {
				logger.Info("expired sessions purged", slog.Int64("count", purged))
			}
		}
	}
}

// DialTemporal connects a traced Temporal client using cfg.
func DialTemporal(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(tracerName)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	return DialTemporal(cfg, instruments, "temporal-client")
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-storefront/internal/app/api"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
	orderactivities "github.com/Apurer/go-gin-storefront/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-storefront/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "storefront-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	if cfg.StoreBackend == api.BackendMemory {
		logger.Error("worker requires a shared store; set POSTGRES_DSN or MONGO_URI")
		os.Exit(1)
	}
	container, cleanup, err := api.NewContainer(ctx, cfg, instruments)
	if err != nil {
		logger.Error("failed to wire services", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()
	orderActivities := orderactivities.NewActivities(container.Orders)

	temporalClient, err := api.DialTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.PlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.PlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.PlacementWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.PersistOrder, activity.RegisterOptions{Name: orderactivities.PersistOrderActivityName})
	w.RegisterActivityWithOptions(orderActivities.CompletePlacement, activity.RegisterOptions{Name: orderactivities.CompletePlacementActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.PlacementTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

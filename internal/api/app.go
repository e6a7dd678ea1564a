// Package api is the ticketing API deployment: HTTP endpoints for tickets,
// render triggering, and the render-complete consumer.
package api

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

	"github.com/relecloud/ticketing/config"
	"github.com/relecloud/ticketing/internal/api/handlers"
	"github.com/relecloud/ticketing/internal/api/rendering"
	"github.com/relecloud/ticketing/internal/domain/ticket"
	"github.com/relecloud/ticketing/internal/kafka"
	"github.com/relecloud/ticketing/internal/messaging"
	"github.com/relecloud/ticketing/internal/render"
	ticket_repo "github.com/relecloud/ticketing/internal/repo/ticket"
	"github.com/relecloud/ticketing/internal/storage/s3"
	"github.com/relecloud/ticketing/pkg/health"
	"github.com/relecloud/ticketing/pkg/postgres"
)

const httpShutdownTimeout = 10 * time.Second

func Run(cfg config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pg, err := postgres.New(cfg.PgURL, postgres.MaxPoolSize(cfg.PgPoolMax))
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pg.Close()

	if err := ApplyMigrations(cfg.PgURL, MigrationFS); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	bus, err := kafka.NewBus(cfg.KafkaBrokers, messaging.RetryConfig{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.BaseRetryDelay,
		MaxDelay:   cfg.MaxRetryDelay,
		TryTimeout: cfg.TryTimeout,
	})
	if err != nil {
		return fmt.Errorf("create kafka bus: %w", err)
	}

	ticketService := ticket.NewService(ticket_repo.NewPgTicketRepo(pg))

	// Rendering variants. The local one keeps working when the renderer
	// worker is not deployed; the factory picks per request.
	store, err := s3.New(ctx, s3.Config{
		Bucket:         cfg.S3Bucket,
		Region:         cfg.S3Region,
		AccessKeyID:    cfg.S3AccessKeyID,
		SecretKey:      cfg.S3SecretKey,
		Endpoint:       cfg.S3Endpoint,
		ForcePathStyle: cfg.S3ForcePathStyle,
		KeyPrefix:      cfg.TicketImagePrefix,
	})
	if err != nil {
		return fmt.Errorf("create image storage: %w", err)
	}
	factory, distributed, err := newRenderingFactory(bus, cfg, ticketService,
		render.NewTicketRenderer(store, render.NewRandomBarcodeGenerator()))
	if err != nil {
		return err
	}

	completeHandler := NewRenderCompleteHandler(bus, cfg.RenderCompleteQueue, cfg.CompleteConsumerGroup, ticketService)

	healthRegistry := health.NewRegistry(
		health.NewPostgresChecker(pg.Pool),
		health.NewKafkaChecker(cfg.KafkaBrokers),
	)

	engine := NewGinEngine()
	NewRouter(handlers.NewTicketHandler(ticketService, factory), healthRegistry).SetUp(engine)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}
	go func() {
		slog.Info("Starting API HTTP server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	// Blocks until the shutdown signal, then stops the consumer.
	runErr := messaging.NewRunner(completeHandler).Run(ctx)

	slog.Info("Shutting down API service")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown", "error", err)
	}
	if distributed != nil {
		if err := distributed.Close(shutdownCtx); err != nil {
			slog.Error("Render request sender close", "error", err)
		}
	}

	return runErr
}

// newRenderingFactory wires the per-request rendering variants. An empty
// request queue is a valid deployment without the renderer worker; the
// distributed variant is not built then and every request renders in-process.
func newRenderingFactory(bus messaging.Bus, cfg config.Config, tickets *ticket.Service, r render.Renderer) (*rendering.Factory, *rendering.DistributedRenderingService, error) {
	local := rendering.NewLocalRenderingService(tickets, r)

	var distributed *rendering.DistributedRenderingService
	variant := rendering.Service(local)
	if cfg.RenderRequestQueue != "" {
		d, err := rendering.NewDistributedRenderingService(bus, cfg.RenderRequestQueue, tickets)
		if err != nil {
			return nil, nil, fmt.Errorf("create distributed rendering service: %w", err)
		}
		distributed = d
		variant = d
	}

	features := rendering.StaticFeatureSource{
		rendering.FeatureDistributedRendering: cfg.DistributedRendering && cfg.RenderRequestQueue != "",
	}
	return rendering.NewFactory(features, variant, local), distributed, nil
}

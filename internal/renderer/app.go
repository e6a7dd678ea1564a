// Package renderer is the ticket renderer worker deployment.
package renderer

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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relecloud/ticketing/config"
	"github.com/relecloud/ticketing/internal/kafka"
	"github.com/relecloud/ticketing/internal/messaging"
	"github.com/relecloud/ticketing/internal/render"
	"github.com/relecloud/ticketing/internal/storage/s3"
	"github.com/relecloud/ticketing/pkg/health"
	"github.com/relecloud/ticketing/pkg/logger"
	"github.com/relecloud/ticketing/pkg/metrics"
)

const httpShutdownTimeout = 10 * time.Second

func Run(cfg config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bus, err := kafka.NewBus(cfg.KafkaBrokers, messaging.RetryConfig{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.BaseRetryDelay,
		MaxDelay:   cfg.MaxRetryDelay,
		TryTimeout: cfg.TryTimeout,
	})
	if err != nil {
		return fmt.Errorf("create kafka bus: %w", err)
	}

	storageCfg := s3.Config{
		Bucket:         cfg.S3Bucket,
		Region:         cfg.S3Region,
		AccessKeyID:    cfg.S3AccessKeyID,
		SecretKey:      cfg.S3SecretKey,
		Endpoint:       cfg.S3Endpoint,
		ForcePathStyle: cfg.S3ForcePathStyle,
		KeyPrefix:      cfg.TicketImagePrefix,
	}
	s3Client, err := s3.NewClient(ctx, storageCfg)
	if err != nil {
		return fmt.Errorf("create s3 client: %w", err)
	}
	store, err := s3.New(ctx, storageCfg, s3.WithClient(s3Client))
	if err != nil {
		return fmt.Errorf("create image storage: %w", err)
	}

	ticketRenderer := render.NewTicketRenderer(store, render.NewRandomBarcodeGenerator())
	handler := NewRenderRequestHandler(bus, cfg.RenderRequestQueue, cfg.RenderConsumerGroup,
		cfg.RenderedTicketTopic, ticketRenderer)

	healthRegistry := health.NewRegistry(
		health.NewKafkaChecker(cfg.KafkaBrokers),
		health.NewS3Checker(s3Client, cfg.S3Bucket),
	)

	engine := gin.New()
	engine.Use(logger.CorrelationMiddleware(), metrics.GinMiddleware(), gin.Recovery())
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler(healthRegistry, health.DefaultTimeout))
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}
	go func() {
		slog.Info("Starting renderer HTTP server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	runErr := messaging.NewRunner(handler).Run(ctx)

	slog.Info("Shutting down renderer service")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown", "error", err)
	}

	return runErr
}

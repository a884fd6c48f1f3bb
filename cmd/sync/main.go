package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mirror-factory/event-sync-service/internal/adapter/eventbrite"
	"github.com/mirror-factory/event-sync-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/mirror-factory/event-sync-service/internal/adapter/kafka"
	"github.com/mirror-factory/event-sync-service/internal/adapter/maptiler"
	"github.com/mirror-factory/event-sync-service/internal/adapter/scrape"
	"github.com/mirror-factory/event-sync-service/internal/adapter/serpapi"
	"github.com/mirror-factory/event-sync-service/internal/adapter/ticketmaster"
	"github.com/mirror-factory/event-sync-service/internal/config"
	"github.com/mirror-factory/event-sync-service/internal/domain"
	"github.com/mirror-factory/event-sync-service/internal/observability"
	"github.com/mirror-factory/event-sync-service/internal/pipeline"
	"github.com/mirror-factory/event-sync-service/internal/venues"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	table, err := venues.LoadTable(cfg.VenuesPath)
	if err != nil {
		logger.Error("failed to load canonical venue table", "path", cfg.VenuesPath, "error", err)
		os.Exit(1)
	}
	logger.Info("canonical venue table loaded", "venues", len(table.All()))

	// Geocoding is feature-flagged via MAPTILER_API_KEY; without it, venue
	// resolution stops at the canonical table.
	var geocoder domain.Geocoder
	if cfg.MapTilerKey != "" {
		client := maptiler.NewClient(cfg.MapTilerKey, cfg.RequestTimeout, metrics, logger)
		geocoder = maptiler.NewCachedGeocoder(client, metrics)
		logger.Info("maptiler geocoding enabled")
	} else {
		logger.Info("maptiler geocoding disabled")
	}
	resolver := venues.NewResolver(table, geocoder, logger)

	sources := []pipeline.Source{
		ticketmaster.New(cfg.TicketmasterKey, cfg.RequestTimeout, metrics, logger),
		eventbrite.New(cfg.EventbriteToken, cfg.RequestTimeout, metrics, logger),
		scrape.NewOrlandoWeekly(cfg.RequestTimeout, resolver, metrics, logger),
		scrape.NewCityOfOrlando(cfg.RequestTimeout, resolver, metrics, logger),
		scrape.NewVisitOrlando(cfg.RequestTimeout, resolver, metrics, logger),
		serpapi.New(cfg.SerpAPIKey, cfg.RequestTimeout, resolver, metrics, logger),
		scrape.NewTKX(cfg.RequestTimeout, resolver, metrics, logger),
	}

	var sink pipeline.Sink
	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled() {
		kafkaWriter = kafkaadapter.NewWriter(cfg, logger)
		sink = kafkaWriter
		logger.Info("kafka sink enabled", "topic", cfg.KafkaSinkTopic)
	}

	p := pipeline.New(cfg.EventsPath, sources, sink, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional health/metrics endpoint for the duration of the run.
	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	runErr := p.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("sync run failed", "error", runErr)
		os.Exit(1)
	}
	logger.Info("sync run complete")
}

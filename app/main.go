package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/podracer/app/api"
	"github.com/lysyi3m/podracer/app/cfg"
	"github.com/lysyi3m/podracer/app/episodes"
	"github.com/lysyi3m/podracer/app/feed"
	"github.com/lysyi3m/podracer/app/gpodder"
	"github.com/lysyi3m/podracer/app/recommend"
	"github.com/lysyi3m/podracer/app/similarity"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting Podracer", "version", appCfg.Version, "gpodder", appCfg.GpodderURL)

	settings := appCfg.Settings

	client := gpodder.NewClient(gpodder.Options{
		BaseURL:           appCfg.GpodderURL,
		UserAgent:         appCfg.UserAgent,
		Timeout:           appCfg.RequestTimeout,
		RequestsPerSecond: appCfg.RequestsPerSecond,
	})

	mode, err := episodes.ParseMode(settings.ScheduleMode)
	if err != nil {
		slog.Error("Invalid schedule mode", "error", err)
		os.Exit(1)
	}

	filter := similarity.NewFilter(
		similarity.NewBagOfWords(settings.StopWords),
		similarity.NewKMeans(),
		settings.ClusterCount,
	)

	var enricher recommend.DescriptionEnricher
	if settings.EnrichDescriptions {
		enricher = feed.NewDescriptionFetcher(nil, appCfg.UserAgent, settings.GetEnrichTimeout())
	}

	service := recommend.NewService(client, episodes.NewScheduler(mode), filter, enricher, recommend.Options{
		Window:        settings.Window(),
		CandidatePool: settings.CandidatePool,
		Limit:         settings.MLSuggestions,
	})

	sessions := api.NewSessionStore(appCfg.SessionTTL)
	handler := api.NewHandler(client, service, sessions, settings, appCfg.Version)
	server := api.NewServer(handler, appCfg.Debug)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * appCfg.RequestTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Podracer shutdown complete")
}

package main

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

	"github.com/lysyi3m/agent-radar/internal/api"
	"github.com/lysyi3m/agent-radar/internal/archive"
	"github.com/lysyi3m/agent-radar/internal/cfg"
	"github.com/lysyi3m/agent-radar/internal/feed"
	"github.com/lysyi3m/agent-radar/internal/notify"
	"github.com/lysyi3m/agent-radar/internal/pipeline"
	"github.com/lysyi3m/agent-radar/internal/sources"
	"github.com/lysyi3m/agent-radar/internal/summary"
)

func main() {
	config, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if config == nil {
		return
	}

	setupLogger(config.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch config.Command {
	case cfg.CommandBuild:
		err = runBuild(ctx, config)
	case cfg.CommandServe:
		err = runServe(ctx, config)
	}

	if err != nil {
		slog.Error("Agent Radar failed", "command", string(config.Command), "error", err)
		stop()
		os.Exit(1)
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func runBuild(ctx context.Context, config *cfg.Cfg) error {
	vendors, err := sources.Load(config.SourcesPath)
	if err != nil {
		return err
	}

	slog.Info("Starting build",
		"version", config.Version,
		"vendors", len(vendors),
		"incremental", config.Incremental(),
		"days", config.Days,
		"top", config.Top,
		"workers", config.WorkerCount)

	httpClient := &http.Client{}

	opts := pipeline.Options{
		Vendors:    vendors,
		Fetcher:    feed.NewFetcher(httpClient, config.UserAgent, config.FetchTimeout),
		Summarizer: summary.NewSummarizer(httpClient, config.UserAgent, summary.DefaultTimeout),
		InPath:     config.InPath,
		OutPath:    config.OutPath,
		Days:       config.Days,
		Top:        config.Top,
		Workers:    config.WorkerCount,
	}

	if config.NotifyURL != "" {
		opts.Notifier = notify.NewNotifier(httpClient, config.NotifyURL, notify.DefaultTimeout)
	}

	if config.ArchivePath != "" {
		a, err := archive.Open(config.ArchivePath)
		if err != nil {
			return err
		}
		defer a.Close()
		opts.Archive = a
	}

	_, err = pipeline.New(opts).Run(ctx)
	return err
}

func runServe(ctx context.Context, config *cfg.Cfg) error {
	var stats api.StatsProvider
	if config.ArchivePath != "" {
		a, err := archive.Open(config.ArchivePath)
		if err != nil {
			return err
		}
		defer a.Close()
		stats = a
	}

	generator := api.NewGenerator(config.BaseURL, config.Port, config.Version)
	handler := api.NewHandler(config.SnapshotPath, stats, generator, config.Version)

	httpServer := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", config.Port, "snapshot", config.SnapshotPath, "version", config.Version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down server gracefully")
	case err := <-serverErrChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}

	slog.Info("HTTP server stopped")
	return nil
}

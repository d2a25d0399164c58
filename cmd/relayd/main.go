package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/HMasataka/lookout/internal/config"
	"github.com/HMasataka/lookout/internal/control"
	"github.com/HMasataka/lookout/internal/signaling"
	"github.com/HMasataka/lookout/pkg/retry"
	"github.com/HMasataka/lookout/pkg/rtc"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "", "config file path")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store := signaling.NewRedisStore(conf.Redis)
	defer store.Close()

	// Bootstrap is the only place that retries; sessions fail fast.
	if err := retry.Do(context.Background(), retry.DefaultConfig(), store.Ping); err != nil {
		slog.Error("signaling store unreachable", "addr", conf.Redis.Addr, "error", err)
		os.Exit(1)
	}

	if conf.Turn.Enabled {
		turnServer, err := rtc.NewTurnServer(conf.Turn)
		if err != nil {
			slog.Error("failed to start turn server", "error", err)
			os.Exit(1)
		}
		defer turnServer.Close()
	}

	manager := control.NewManager(conf, store)
	router := control.NewRouter(manager, conf.Control.JWTSecret)

	server := &http.Server{
		Addr:    conf.Control.Addr,
		Handler: router,
	}

	go func() {
		slog.Info("relay daemon starting on", "Addr", conf.Control.Addr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("forced server close", "error", err)
		server.Close()
	}

	manager.StopAll()
}

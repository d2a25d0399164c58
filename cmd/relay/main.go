package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/jessevdk/go-flags"

	"github.com/HMasataka/lookout/internal/app"
	"github.com/HMasataka/lookout/internal/config"
	"github.com/HMasataka/lookout/internal/relay"
	"github.com/HMasataka/lookout/internal/signaling"
	"github.com/HMasataka/lookout/pkg/rtc"
)

type Options struct {
	Config string `long:"config" short:"c" description:"Config file path"`
	UserID string `long:"user" short:"u" description:"Owning user for notifications"`

	Args struct {
		SessionID string `positional-arg-name:"session-id" required:"true"`
	} `positional-args:"true"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	conf, err := config.Load(opts.Config)
	if err != nil {
		slog.Error("failed to load config", "error", err)
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

	store := signaling.NewRedisStore(conf.Redis)
	defer store.Close()

	controller, err := app.NewRelay(conf, store, opts.Args.SessionID, opts.UserID)
	if err != nil {
		slog.Error("failed to assemble relay", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutting down relay...")
		cancel()
	}()

	if err := controller.Run(ctx); err != nil {
		if errors.Is(err, relay.ErrNoInboundOffer) {
			slog.Error("no inbound offer for session", "session_id", opts.Args.SessionID)
		} else {
			slog.Error("relay failed", "session_id", opts.Args.SessionID, "error", err)
		}
		os.Exit(1)
	}
}

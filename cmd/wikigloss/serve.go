package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tbeaumont/wikigloss/internal/api"
	"github.com/tbeaumont/wikigloss/internal/config"
	"github.com/tbeaumont/wikigloss/internal/engine"
	"github.com/tbeaumont/wikigloss/internal/pipeline"
	"github.com/tbeaumont/wikigloss/internal/token"
)

func serveCommand(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server. Configuration comes from the environment.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "listen port, overrides PORT",
			},
		},
		Action: func(c *cli.Context) error {
			return runServe(c.String("port"), log)
		},
	}
}

func runServe(port string, log *slog.Logger) error {
	cfg := config.Load()
	if port != "" {
		cfg.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := engine.New(token.New(), log)

	orch := pipeline.NewOrchestrator(cfg, eng, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting wikigloss", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

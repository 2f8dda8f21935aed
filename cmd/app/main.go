package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/MyAirVault/BruhMCP-sub002/internal/application"
	"github.com/MyAirVault/BruhMCP-sub002/internal/config"
	portstore "github.com/MyAirVault/BruhMCP-sub002/internal/domain/ports/store"
	"github.com/MyAirVault/BruhMCP-sub002/internal/infra/logging"
	red "github.com/MyAirVault/BruhMCP-sub002/internal/infra/redis"
	"github.com/MyAirVault/BruhMCP-sub002/internal/infra/rest"
	"github.com/MyAirVault/BruhMCP-sub002/internal/infra/store"
	"github.com/MyAirVault/BruhMCP-sub002/internal/infra/web"
	"github.com/MyAirVault/BruhMCP-sub002/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, no PII redaction)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)

	// ---- Stores ----
	credStore := store.NewFileStore(cfg.Auth.CredentialsFile)

	var flowStore portstore.FlowStateStore = store.NewMemoryFlowStore()
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		flowStore = red.NewFlowStateRepo(redisClient, cfg.Redis.TTL)
	}

	// ---- API client ----
	client := rest.NewClient(cfg.API, credStore, logger)

	// ---- Use cases ----
	authUC := usecase.NewAuthUseCase(client, credStore, flowStore, cfg.Auth.InitTimeout, cfg.Runtime.Dev, logger)
	client.SetSessionExpiredHandler(authUC.ForceLogout)

	subUC := usecase.NewSubscriptionUseCase(client, logger)
	poller := usecase.NewStatusPoller(client, cfg.Polling, logger)
	payUC := usecase.NewPaymentUseCase(client, poller, logger)

	// ---- Admin/debug server ----
	adminSrv := web.NewServer(cfg.Admin.Port, logger)
	go func() {
		if err := adminSrv.Start(ctx); err != nil {
			logger.Error().Err(err).Msg("admin server stopped")
		}
	}()

	// ---- Console ----
	facade := application.NewConsoleFacade(authUC, subUC, payUC, logger)
	done := make(chan error, 1)
	go func() { done <- facade.Run(ctx, os.Stdin, os.Stdout) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
		payUC.CancelAwait()
		cancel()
	case err := <-done:
		if err != nil && err != context.Canceled {
			logger.Error().Err(err).Msg("console exited")
		}
		cancel()
	}
}

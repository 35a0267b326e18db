package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cp_arena/internal/api"
	"cp_arena/internal/app/service"
	"cp_arena/internal/common/security"
	"cp_arena/internal/domain/repository"
	"cp_arena/internal/platform/chain"
	"cp_arena/internal/platform/config"
	"cp_arena/internal/platform/database"
	"cp_arena/internal/platform/executor"
	"cp_arena/internal/platform/sessionstore"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	db, err := database.Connect(startupCtx, cfg.DBConnStr)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(startupCtx, db); err != nil {
		log.Fatalf("Could not ensure schema: %v", err)
	}
	logger.Info("database connected")

	sessions, err := sessionstore.Connect(startupCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionRetention)
	if err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	defer sessions.Close()
	logger.Info("session store connected")

	// The minter is optional; without chain config the mint endpoint reports
	// a misconfiguration instead of the server refusing to start.
	var minter service.Minter
	if cfg.ChainRPCURL != "" && cfg.ContractAddress != "" && cfg.MinterPrivateKey != "" {
		m, err := chain.NewMinter(startupCtx, cfg.ChainRPCURL, cfg.ContractAddress, cfg.MinterPrivateKey, cfg.ChainID)
		if err != nil {
			log.Fatalf("Could not initialize badge minter: %v", err)
		}
		defer m.Close()
		minter = m
		logger.Info("badge minter connected", "chain_id", cfg.ChainID)
	} else {
		logger.Warn("badge minting disabled: chain config incomplete")
	}

	// Like the minter, the runner is optional at startup; without provider
	// credentials the execute endpoint reports a misconfiguration instead of
	// returning all-failed verdicts full of provider auth errors.
	var runner service.Runner
	if cfg.ExecutorClientID != "" && cfg.ExecutorClientSecret != "" {
		runner = executor.NewClient(
			cfg.ExecutorURL,
			cfg.ExecutorClientID,
			cfg.ExecutorClientSecret,
			cfg.ExecutorLanguage,
			cfg.ExecutorVersionIndex,
		)
	} else {
		logger.Warn("code execution disabled: executor credentials not set")
	}

	tokenAuth := security.NewTokenAuth(cfg.JWTKey)

	contestRepo := repository.NewPgContestRepository(db)
	participationRepo := repository.NewPgParticipationRepository(db)

	authService := service.NewAuthService(tokenAuth, cfg.AuthoringKeyHash, cfg.JWTExp)
	contestService := service.NewContestService(contestRepo)
	participationService := service.NewParticipationService(participationRepo, logger)
	gradingService := service.NewGradingService(contestRepo, runner)
	sessionService := service.NewSessionService(contestRepo, participationService, sessions, logger)
	badgeService := service.NewBadgeService(contestRepo, minter, cfg.BadgeURIBase, logger)

	router := api.NewRouter(
		tokenAuth,
		authService,
		contestService,
		participationService,
		gradingService,
		sessionService,
		badgeService,
	)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()

	<-stop

	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	logger.Info("server stopped gracefully")
}

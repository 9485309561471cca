package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/denis-hade/hade-avatar-server/internal/api/did"
	"github.com/denis-hade/hade-avatar-server/internal/api/voiceflow"
	"github.com/denis-hade/hade-avatar-server/internal/clientkey"
	"github.com/denis-hade/hade-avatar-server/internal/config"
	didfrontdoor "github.com/denis-hade/hade-avatar-server/internal/frontdoor/did"
	vffrontdoor "github.com/denis-hade/hade-avatar-server/internal/frontdoor/voiceflow"
	"github.com/denis-hade/hade-avatar-server/internal/pkg/safehttp"
	"github.com/denis-hade/hade-avatar-server/internal/server"
	"github.com/denis-hade/hade-avatar-server/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	shutdownTracer, err := telemetry.Init(telemetry.Options{
		ServiceName: cfg.Server.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
		SampleRatio: cfg.Telemetry.SampleRatio,
		Logger:      logger,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	httpClient := safehttp.NewClient(
		safehttp.WithTimeout(cfg.Upstream.Timeout),
		safehttp.WithDenyPrivate(cfg.Upstream.DenyPrivate),
	)

	// Missing credentials fail the endpoint that needs them, not startup.
	vfClient := voiceflow.NewClient(cfg.Voiceflow.APIKey,
		voiceflow.WithBaseURL(cfg.Voiceflow.BaseURL),
		voiceflow.WithVersionID(cfg.Voiceflow.VersionID),
		voiceflow.WithHTTPClient(httpClient),
	)
	replyHandler := vffrontdoor.NewHandler(vfClient,
		vffrontdoor.WithFallbackReply(cfg.Voiceflow.FallbackReply),
		vffrontdoor.WithConfigCheck(cfg.Voiceflow.Validate),
	)

	didClient := did.NewClient(cfg.DID.Username, cfg.DID.Password,
		did.WithBaseURL(cfg.DID.BaseURL),
		did.WithHTTPClient(httpClient),
	)
	keys := clientkey.NewService(didClient, did.SplitDomains(cfg.DID.AllowedDomain),
		clientkey.WithCache(clientkey.NewCache(cfg.DID.CacheTTL, nil)),
		clientkey.WithExistsPredicate(clientkey.ContainsMarker(cfg.DID.ExistsMarker)),
		clientkey.WithLogger(logger),
	)
	keyHandler := didfrontdoor.NewHandler(keys, cfg.DID.Validate)

	srv := server.New(server.Options{
		Port:           cfg.Server.Port,
		ServiceName:    cfg.Server.ServiceName,
		AllowedOrigin:  cfg.Server.AllowedOrigin,
		RequestTimeout: cfg.Server.RequestTimeout,
		Logger:         logger,
	})

	srv.Router.Post("/vf/reply", replyHandler.HandleReply)
	srv.Router.Get("/did/client-key", keyHandler.HandleClientKey)
	srv.Router.Post("/did/client-key", keyHandler.HandleClientKey)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutdown signal received, stopping server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server shutdown complete")
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/healthmatters-clinic/board-intake/internal/config"
	"github.com/healthmatters-clinic/board-intake/internal/driveclient"
	"github.com/healthmatters-clinic/board-intake/internal/googleauth"
	"github.com/healthmatters-clinic/board-intake/internal/handlers"
	"github.com/healthmatters-clinic/board-intake/internal/logging"
	"github.com/healthmatters-clinic/board-intake/internal/mailclient"
	"github.com/healthmatters-clinic/board-intake/internal/server"
	"github.com/healthmatters-clinic/board-intake/internal/service"
	"github.com/healthmatters-clinic/board-intake/internal/sheetsclient"
	"github.com/healthmatters-clinic/board-intake/internal/validator"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Missing required configuration is fatal before any request is served.
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("intake"))
	logging.SetDefault(logger)

	slog.Info("Starting intake service",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("log_format", cfg.Logging.Format),
	)
	if *configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", *configPath))
	}

	// External collaborators are configuration-derived singletons built
	// once here and passed in explicitly; they hold no per-submission state.
	tokens, err := googleauth.New(cfg.Google.ServiceAccountBase64, "", cfg.Google.Timeout)
	if err != nil {
		log.Fatalf("Failed to initialize Google credentials: %v", err)
	}

	store := driveclient.New(cfg.Google.DriveUploadURL, cfg.Google.DriveFolderID, tokens, cfg.Google.Timeout)
	ledger := sheetsclient.New(cfg.Google.SheetsURL, cfg.Google.SheetsID, cfg.Google.SheetRange, tokens, cfg.Google.Timeout)
	mailer := mailclient.New(cfg.Mail.APIBaseURL, cfg.Mail.SendGridAPIKey, cfg.Mail.Timeout)

	check := validator.New(cfg.Intake.HoneypotField, cfg.Intake.RequiredFields...)

	intakeService := service.NewIntakeService(store, ledger, mailer, check, service.Options{
		FromEmail:         cfg.Mail.From,
		ToEmail:           cfg.Mail.To,
		OrientationURL:    cfg.Intake.OrientationURL,
		UploadConcurrency: cfg.Intake.UploadConcurrency,
	}, logger)

	handler := handlers.NewApplyHandler(intakeService, cfg.Intake.MaxFileBytes, logger)
	router := server.NewRouter(handler, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Intake service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "bibliotec-gateway/internal/api/http"
	"bibliotec-gateway/internal/cache"
	"bibliotec-gateway/internal/cms"
	"bibliotec-gateway/internal/config"
	"bibliotec-gateway/internal/domain"
	"bibliotec-gateway/internal/lifecycle"
	"bibliotec-gateway/internal/logger"
	"bibliotec-gateway/internal/security"
	"bibliotec-gateway/internal/service"
	"bibliotec-gateway/internal/session"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Bibliotec Gateway...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("CMS configuration", "base_url", cfg.CMS.BaseURL, "timeout_s", cfg.CMS.TimeoutSeconds, "retry_attempts", cfg.CMS.RetryAttempts)

	// Initialize session store
	sessions, err := session.NewStore(cfg.Session.Dir)
	if err != nil {
		logger.Error("Failed to initialize session store", "error", err)
		log.Fatalf("Failed to initialize session store: %v", err)
	}

	// Initialize CMS client and resource services
	client := cms.New(cfg.CMS.BaseURL, cfg.ClientTimeout(), cfg.CMS.RetryAttempts, cfg.RetryDelay(), cfg.CMS.RoleTokens)
	books := cms.NewBooks(client)
	users := cms.NewUsers(client)
	loans := cms.NewLoans(client)
	notifications := cms.NewNotifications(client)
	cmsAuth := cms.NewAuth(client, users)

	// Initialize supporting pieces
	inspector := security.NewInspector()
	bookCache := cache.New(cfg.Cache.MaxEntries, cfg.CacheTTL())
	policy := lifecycle.Policy{
		DailyFineRate:        cfg.Loans.DailyFineRate,
		MaxRenewals:          cfg.Loans.MaxRenewals,
		DefaultLoanDays:      cfg.Loans.DefaultLoanDays,
		MaxRenewalWindowDays: cfg.Loans.MaxRenewalWindowDays,
		MaxActiveLoans:       cfg.Loans.MaxActiveLoans,
	}

	// Initialize Services
	authSvc := service.NewAuthService(cmsAuth, users, sessions, inspector, domain.RoleStaff)
	bookSvc := service.NewBookService(books, bookCache)
	userSvc := service.NewUserService(users)
	loanSvc := service.NewLoanService(loans, books, users, notifications, bookCache, policy)
	noteSvc := service.NewNotificationService(notifications)

	router := httpapi.NewRouter(&httpapi.Services{
		Auth:          authSvc,
		Books:         bookSvc,
		Users:         userSvc,
		Loans:         loanSvc,
		Notifications: noteSvc,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"bibliotec-gateway/internal/cache"
	"bibliotec-gateway/internal/cms"
	"bibliotec-gateway/internal/config"
	"bibliotec-gateway/internal/domain"
	"bibliotec-gateway/internal/jobs"
	"bibliotec-gateway/internal/lifecycle"
	"bibliotec-gateway/internal/logger"
	"bibliotec-gateway/internal/scheduler"
	"bibliotec-gateway/internal/security"
	"bibliotec-gateway/internal/service"
	"bibliotec-gateway/internal/session"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'sweep-overdue-loans', 'all-nightly')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Bibliotec Cronjob Runner...", "log_level", cfg.Log.Level)

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
	authService := service.NewAuthService(cmsAuth, users, sessions, inspector, domain.RoleStaff)
	loanService := service.NewLoanService(loans, books, users, notifications, bookCache, policy)
	emailService := service.NewEmailService(cfg.Email)

	jobServices := &jobs.Services{
		Auth:  authService,
		Loans: loanService,
		Email: emailService,
		Books: books,
		Users: users,
		Notes: notifications,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "sweep-overdue-loans":
		jobRunner.SweepOverdueLoans()
	case "send-due-soon-reminders":
		jobRunner.SendDueSoonReminders()
	case "send-overdue-notices":
		jobRunner.SendOverdueNotices()
	case "audit-inventory":
		jobRunner.AuditInventory()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - sweep-overdue-loans\n")
		fmt.Printf("  - send-due-soon-reminders\n")
		fmt.Printf("  - send-overdue-notices\n")
		fmt.Printf("  - audit-inventory\n")
		fmt.Printf("  - all-nightly\n")
		os.Exit(1)
	}
}

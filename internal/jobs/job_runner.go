package jobs

import (
	"context"

	"bibliotec-gateway/internal/cms"
	"bibliotec-gateway/internal/config"
	"bibliotec-gateway/internal/domain"
	"bibliotec-gateway/internal/logger"
	"bibliotec-gateway/internal/service"
)

// bulkPageSize is the page size bulk reads request. Listing without explicit
// pagination leaves the CMS free to apply its own default page size, which
// would silently truncate a nightly run to the first page.
const bulkPageSize = 100

// JobRunner coordinates all scheduled jobs. Jobs act against the CMS under
// the service credential, so they keep working after the interactive session
// ends as long as a fallback role token is configured.
type JobRunner struct {
	services *Services
	config   *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Auth  service.AuthService
	Loans service.LoanService
	Email service.EmailService
	Books service.BookStore
	Users service.UserStore
	Notes service.NotificationStore
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		config:   cfg,
	}
}

// Config exposes the configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.SweepOverdueLoans()
	jr.SendDueSoonReminders()
	jr.SendOverdueNotices()
	jr.AuditInventory()
}

// collectLoans pages through the loan listing until every matching loan is
// in hand.
func (jr *JobRunner) collectLoans(ctx context.Context, cred cms.Credential, filters map[string]string) ([]domain.Loan, error) {
	var all []domain.Loan
	for page := 1; ; page++ {
		batch, total, err := jr.services.Loans.ListLoans(ctx, cred, filters, page, bulkPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) == 0 || len(all) >= total {
			return all, nil
		}
	}
}

func (jr *JobRunner) collectLoansByBook(ctx context.Context, cred cms.Credential, bookID string) ([]domain.Loan, error) {
	var all []domain.Loan
	for page := 1; ; page++ {
		batch, total, err := jr.services.Loans.GetLoansByBook(ctx, cred, bookID, page, bulkPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) == 0 || len(all) >= total {
			return all, nil
		}
	}
}

func (jr *JobRunner) collectBooks(ctx context.Context, cred cms.Credential) ([]domain.Book, error) {
	var all []domain.Book
	for page := 1; ; page++ {
		batch, total, err := jr.services.Books.List(ctx, cred, nil, page, bulkPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) == 0 || len(all) >= total {
			return all, nil
		}
	}
}

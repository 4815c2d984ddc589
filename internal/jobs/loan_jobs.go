package jobs

import (
	"context"
	"time"

	"bibliotec-gateway/internal/cms"
	"bibliotec-gateway/internal/domain"
	"bibliotec-gateway/internal/logger"
)

// SweepOverdueLoans recomputes overdue status, days and fines for every open
// loan past its due date. Listing through the loan service already persists
// the refreshed snapshots; the job exists so the sweep happens nightly even
// when nobody is browsing.
func (jr *JobRunner) SweepOverdueLoans() {
	jr.runWithRecovery("SweepOverdueLoans", func() {
		ctx := context.Background()
		cred := jr.services.Auth.ServiceCredential()

		loans, err := jr.collectLoans(ctx, cred, nil)
		if err != nil {
			logger.Error("Failed to sweep overdue loans", "error", err)
			return
		}

		count := 0
		for _, loan := range loans {
			if loan.Status == domain.LoanStatusOverdue {
				count++
				logger.Debug("Loan is overdue",
					"loan_id", loan.ID,
					"user_id", loan.UserID,
					"overdue_days", loan.OverdueDays,
					"fine_amount", loan.FineAmount)
			}
		}
		logger.Info("Overdue sweep finished", "total_loans", len(loans), "overdue", count)
	})
}

// SendDueSoonReminders emails every borrower whose loan is due within the
// next 24 hours and records an in-app notification alongside.
func (jr *JobRunner) SendDueSoonReminders() {
	jr.runWithRecovery("SendDueSoonReminders", func() {
		ctx := context.Background()
		cred := jr.services.Auth.ServiceCredential()
		now := time.Now()

		loans, err := jr.collectLoans(ctx, cred, nil)
		if err != nil {
			logger.Error("Failed to list loans for reminders", "error", err)
			return
		}

		sent := 0
		for _, loan := range loans {
			if !loan.Status.Open() {
				continue
			}
			until := loan.DueDate.Sub(now)
			if until <= 0 || until > 24*time.Hour {
				continue
			}

			user, err := jr.services.Users.Get(ctx, cred, loan.UserID)
			if err != nil {
				logger.Error("Failed to load borrower for reminder", "loan_id", loan.ID, "error", err)
				continue
			}
			book, err := jr.services.Books.Get(ctx, cred, loan.BookID)
			if err != nil {
				logger.Error("Failed to load book for reminder", "loan_id", loan.ID, "error", err)
				continue
			}

			if err := jr.services.Email.SendDueSoonReminder(ctx, user.Email, user.Name, book.Title, loan.DueDate); err != nil {
				logger.Error("Failed to send due-soon reminder", "loan_id", loan.ID, "error", err)
				continue
			}
			jr.recordNotification(ctx, cred, user.ID, "Loan due soon",
				book.Title+" is due on "+loan.DueDate.Format("02 Jan 2006"))
			sent++
		}
		logger.Info("Due-soon reminders sent", "count", sent)
	})
}

// SendOverdueNotices emails every borrower holding an overdue loan with the
// current fine. Runs after the sweep so the snapshots are fresh.
func (jr *JobRunner) SendOverdueNotices() {
	jr.runWithRecovery("SendOverdueNotices", func() {
		ctx := context.Background()
		cred := jr.services.Auth.ServiceCredential()

		loans, err := jr.collectLoans(ctx, cred, map[string]string{"status": string(domain.LoanStatusOverdue)})
		if err != nil {
			logger.Error("Failed to list overdue loans", "error", err)
			return
		}

		sent := 0
		for _, loan := range loans {
			user, err := jr.services.Users.Get(ctx, cred, loan.UserID)
			if err != nil {
				logger.Error("Failed to load borrower for overdue notice", "loan_id", loan.ID, "error", err)
				continue
			}
			book, err := jr.services.Books.Get(ctx, cred, loan.BookID)
			if err != nil {
				logger.Error("Failed to load book for overdue notice", "loan_id", loan.ID, "error", err)
				continue
			}

			if err := jr.services.Email.SendOverdueNotice(ctx, user.Email, user.Name, book.Title, loan.OverdueDays, loan.FineAmount); err != nil {
				logger.Error("Failed to send overdue notice", "loan_id", loan.ID, "error", err)
				continue
			}
			jr.recordNotification(ctx, cred, user.ID, "Loan overdue",
				book.Title+" is overdue, please return it")
			sent++
		}
		logger.Info("Overdue notices sent", "count", sent)
	})
}

func (jr *JobRunner) recordNotification(ctx context.Context, cred cms.Credential, userID, title, message string) {
	note := &domain.Notification{UserID: userID, Title: title, Message: message}
	if err := jr.services.Notes.Create(ctx, cred, note); err != nil {
		logger.Debug("Failed to record notification", "user_id", userID, "error", err)
	}
}

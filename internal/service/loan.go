package service

import (
	"context"
	"fmt"
	"time"

	"bibliotec-gateway/internal/cache"
	"bibliotec-gateway/internal/cms"
	"bibliotec-gateway/internal/domain"
	"bibliotec-gateway/internal/lifecycle"
	"bibliotec-gateway/internal/logger"
)

// bulkPageSize is the page size internal bulk reads request. Listing without
// explicit pagination leaves the CMS free to apply its own default page size
// and silently truncate the result.
const bulkPageSize = 100

// loanService is the single writer of loan-state and inventory transitions.
// It applies the pure rules from internal/lifecycle and executes the side
// effects they demand. Inventory reconciliation is best-effort: the loan
// write is the primary operation, and a failed follow-up write is logged,
// surfaced as a warning, and never rolled back.
type loanService struct {
	loanStore LoanStore
	bookStore BookStore
	userStore UserStore
	noteStore NotificationStore
	bookCache *cache.BookCache
	policy    lifecycle.Policy
	now       func() time.Time
}

func NewLoanService(
	loanStore LoanStore,
	bookStore BookStore,
	userStore UserStore,
	noteStore NotificationStore,
	bookCache *cache.BookCache,
	policy lifecycle.Policy,
) LoanService {
	return &loanService{
		loanStore: loanStore,
		bookStore: bookStore,
		userStore: userStore,
		noteStore: noteStore,
		bookCache: bookCache,
		policy:    policy,
		now:       time.Now,
	}
}

func (s *loanService) CreateLoan(ctx context.Context, cred cms.Credential, userID, bookID, campus string, dueDate time.Time, notes string) (*LoanResult, error) {
	book, err := s.bookStore.Get(ctx, cred, bookID)
	if err != nil {
		return nil, err
	}

	openLoans, err := s.countOpenLoans(ctx, cred, userID)
	if err != nil {
		return nil, err
	}

	tr, err := lifecycle.Create(s.policy, book, userID, campus, openLoans, dueDate, s.now())
	if err != nil {
		return nil, err
	}

	loan := tr.Loan
	loan.Notes = notes
	created, err := s.loanStore.Create(ctx, cred, &loan)
	if err != nil {
		return nil, err
	}

	warnings := s.applyEffects(ctx, cred, tr.Effects)
	return &LoanResult{Loan: created, Warnings: warnings}, nil
}

func (s *loanService) RenewLoan(ctx context.Context, cred cms.Credential, loanID string, newDueDate time.Time) (*LoanResult, error) {
	loan, err := s.loanStore.Get(ctx, cred, loanID)
	if err != nil {
		return nil, err
	}

	tr, err := lifecycle.Renew(s.policy, *loan, newDueDate, s.now())
	if err != nil {
		return nil, err
	}

	updated, err := s.loanStore.Update(ctx, cred, &tr.Loan)
	if err != nil {
		return nil, err
	}
	return &LoanResult{Loan: updated}, nil
}

func (s *loanService) ReturnLoan(ctx context.Context, cred cms.Credential, loanID string) (*LoanResult, error) {
	loan, err := s.loanStore.Get(ctx, cred, loanID)
	if err != nil {
		return nil, err
	}

	tr, err := lifecycle.Return(s.policy, *loan, s.now())
	if err != nil {
		return nil, err
	}

	updated, err := s.loanStore.Update(ctx, cred, &tr.Loan)
	if err != nil {
		return nil, err
	}

	warnings := s.applyEffects(ctx, cred, tr.Effects)
	return &LoanResult{Loan: updated, Warnings: warnings}, nil
}

func (s *loanService) MarkLoanLost(ctx context.Context, cred cms.Credential, loanID string) (*LoanResult, error) {
	if !cred.Role.CanManageLoans() {
		return nil, cms.ErrPermission
	}

	loan, err := s.loanStore.Get(ctx, cred, loanID)
	if err != nil {
		return nil, err
	}

	tr, err := lifecycle.MarkLost(s.policy, *loan, s.now())
	if err != nil {
		return nil, err
	}

	updated, err := s.loanStore.Update(ctx, cred, &tr.Loan)
	if err != nil {
		return nil, err
	}
	// Lost is a write-off: no inventory effect, by the lifecycle rules.
	return &LoanResult{Loan: updated}, nil
}

func (s *loanService) RestoreLoan(ctx context.Context, cred cms.Credential, loanID string) (*LoanResult, error) {
	if !cred.Role.CanManageLoans() {
		return nil, cms.ErrPermission
	}

	loan, err := s.loanStore.Get(ctx, cred, loanID)
	if err != nil {
		return nil, err
	}

	tr, err := lifecycle.Restore(*loan)
	if err != nil {
		return nil, err
	}

	updated, err := s.loanStore.Update(ctx, cred, &tr.Loan)
	if err != nil {
		return nil, err
	}
	return &LoanResult{Loan: updated}, nil
}

func (s *loanService) GetLoan(ctx context.Context, cred cms.Credential, id string) (*domain.Loan, error) {
	return s.loanStore.Get(ctx, cred, id)
}

// ListLoans lists loans and refreshes overdue bookkeeping on the way
// through: every open loan past its due date gets days and fine recomputed
// and its status forced to OVERDUE. Persisting the refresh is best-effort;
// the caller always sees the recomputed values.
func (s *loanService) ListLoans(ctx context.Context, cred cms.Credential, filters map[string]string, page, pageSize int) ([]domain.Loan, int, error) {
	loans, total, err := s.loanStore.List(ctx, cred, filters, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return s.refreshOverdue(ctx, cred, loans), total, nil
}

func (s *loanService) GetLoansByBook(ctx context.Context, cred cms.Credential, bookID string, page, pageSize int) ([]domain.Loan, int, error) {
	loans, total, err := s.loanStore.ListByBook(ctx, cred, bookID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return s.refreshOverdue(ctx, cred, loans), total, nil
}

func (s *loanService) GetLoansByUser(ctx context.Context, cred cms.Credential, userID string, page, pageSize int) ([]domain.Loan, int, error) {
	loans, total, err := s.loanStore.ListByUser(ctx, cred, userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return s.refreshOverdue(ctx, cred, loans), total, nil
}

func (s *loanService) refreshOverdue(ctx context.Context, cred cms.Credential, loans []domain.Loan) []domain.Loan {
	now := s.now()
	for i := range loans {
		tr := lifecycle.RefreshOverdue(s.policy, loans[i], now)
		loans[i] = tr.Loan
		if !tr.Changed {
			continue
		}
		if _, err := s.loanStore.Update(ctx, cred, &tr.Loan); err != nil {
			logger.Warn("failed to persist overdue refresh", "loan_id", tr.Loan.ID, "error", err)
		}
	}
	return loans
}

// countOpenLoans pages through the user's full loan history; the max-active
// check must see every open loan, not just the first page.
func (s *loanService) countOpenLoans(ctx context.Context, cred cms.Credential, userID string) (int, error) {
	open, seen := 0, 0
	for page := 1; ; page++ {
		loans, total, err := s.loanStore.ListByUser(ctx, cred, userID, page, bulkPageSize)
		if err != nil {
			return 0, err
		}
		for _, l := range loans {
			if l.Status.Open() {
				open++
			}
		}
		seen += len(loans)
		if len(loans) == 0 || seen >= total {
			return open, nil
		}
	}
}

// applyEffects executes the side effects a lifecycle transition requires.
// Inventory failures produce a warning and an admin notification but never
// fail the primary operation; there is no rollback of the loan write.
func (s *loanService) applyEffects(ctx context.Context, cred cms.Credential, effects []lifecycle.Effect) []string {
	var warnings []string
	for _, effect := range effects {
		switch effect.Kind {
		case lifecycle.EffectAdjustInventory:
			_, err := s.bookStore.AdjustInventory(ctx, cred, effect.BookID, effect.Campus, effect.Delta)
			s.bookCache.Invalidate(effect.BookID)
			if err != nil {
				warning := fmt.Sprintf("inventory update failed for book %s at campus %s: %v", effect.BookID, effect.Campus, err)
				logger.Warn("loan lifecycle partial failure", "book_id", effect.BookID, "campus", effect.Campus, "delta", effect.Delta, "error", err)
				warnings = append(warnings, warning)
				s.notifyAdmins(ctx, cred, effect, err)
			}
		case lifecycle.EffectNotify:
			note := &domain.Notification{
				UserID:  effect.UserID,
				Title:   effect.Title,
				Message: effect.Message,
			}
			if err := s.noteStore.Create(ctx, cred, note); err != nil {
				logger.Debug("failed to create notification", "user_id", effect.UserID, "error", err)
			}
		}
	}
	return warnings
}

func (s *loanService) notifyAdmins(ctx context.Context, cred cms.Credential, effect lifecycle.Effect, cause error) {
	seen := 0
	for page := 1; ; page++ {
		admins, total, err := s.userStore.List(ctx, cred, map[string]string{"role": "admin"}, page, bulkPageSize)
		if err != nil {
			logger.Debug("failed to list admins for drift notice", "error", err)
			return
		}
		for _, admin := range admins {
			note := &domain.Notification{
				UserID:  admin.ID,
				Title:   "Inventory drift",
				Message: fmt.Sprintf("inventory for book %s at campus %s is out of sync: %v", effect.BookID, effect.Campus, cause),
			}
			_ = s.noteStore.Create(ctx, cred, note)
		}
		seen += len(admins)
		if len(admins) == 0 || seen >= total {
			return
		}
	}
}

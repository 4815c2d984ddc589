package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bibliotec-gateway/internal/domain"
)

var testPolicy = Policy{
	DailyFineRate:        5,
	MaxRenewals:          2,
	DefaultLoanDays:      7,
	MaxRenewalWindowDays: 30,
	MaxActiveLoans:       3,
}

func testBook(available int) *domain.Book {
	return &domain.Book{
		ID:    "book-1",
		Title: "The Go Programming Language",
		Inventory: []domain.CampusInventory{
			{Campus: "NORTH", Available: available},
			{Campus: "SOUTH", Available: 2},
		},
	}
}

func TestCreate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		due := now.AddDate(0, 0, 14)
		tr, err := Create(testPolicy, testBook(1), "user-1", "NORTH", 0, due, now)
		require.NoError(t, err)

		assert.Equal(t, domain.LoanStatusActive, tr.Loan.Status)
		assert.Equal(t, "book-1", tr.Loan.BookID)
		assert.Equal(t, "user-1", tr.Loan.UserID)
		assert.Equal(t, "NORTH", tr.Loan.Campus)
		assert.Equal(t, due, tr.Loan.DueDate)
		assert.Equal(t, 0, tr.Loan.RenewalCount)
		assert.Equal(t, 0, tr.Loan.FineAmount)
		assert.True(t, tr.Changed)

		// Exactly one inventory decrement plus the borrower notification.
		require.Len(t, tr.Effects, 2)
		assert.Equal(t, EffectAdjustInventory, tr.Effects[0].Kind)
		assert.Equal(t, -1, tr.Effects[0].Delta)
		assert.Equal(t, "NORTH", tr.Effects[0].Campus)
		assert.Equal(t, EffectNotify, tr.Effects[1].Kind)
	})

	t.Run("Default Due Date", func(t *testing.T) {
		tr, err := Create(testPolicy, testBook(1), "user-1", "NORTH", 0, time.Time{}, now)
		require.NoError(t, err)
		assert.Equal(t, now.AddDate(0, 0, 7), tr.Loan.DueDate)
	})

	t.Run("No Availability", func(t *testing.T) {
		_, err := Create(testPolicy, testBook(0), "user-1", "NORTH", 0, time.Time{}, now)
		assert.ErrorIs(t, err, ErrNoAvailability)
	})

	t.Run("Unknown Campus", func(t *testing.T) {
		_, err := Create(testPolicy, testBook(5), "user-1", "WEST", 0, time.Time{}, now)
		assert.ErrorIs(t, err, ErrNoAvailability)
	})

	t.Run("Open Loan Cap", func(t *testing.T) {
		_, err := Create(testPolicy, testBook(1), "user-1", "NORTH", 3, time.Time{}, now)
		assert.ErrorIs(t, err, ErrTooManyOpenLoans)
	})
}

func TestRenew(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	base := domain.Loan{
		ID:      "loan-1",
		BookID:  "book-1",
		Status:  domain.LoanStatusActive,
		DueDate: now.AddDate(0, 0, 3),
	}

	t.Run("Success", func(t *testing.T) {
		tr, err := Renew(testPolicy, base, now.AddDate(0, 0, 10), now)
		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusRenewed, tr.Loan.Status)
		assert.Equal(t, 1, tr.Loan.RenewalCount)
		assert.Empty(t, tr.Effects)
	})

	t.Run("Second Renewal Allowed", func(t *testing.T) {
		loan := base
		loan.Status = domain.LoanStatusRenewed
		loan.RenewalCount = 1
		tr, err := Renew(testPolicy, loan, now.AddDate(0, 0, 10), now)
		require.NoError(t, err)
		assert.Equal(t, 2, tr.Loan.RenewalCount)
	})

	t.Run("Renewal Limit", func(t *testing.T) {
		loan := base
		loan.RenewalCount = 2
		_, err := Renew(testPolicy, loan, now.AddDate(0, 0, 10), now)
		assert.ErrorIs(t, err, ErrRenewalLimit)
	})

	t.Run("Overdue Not Renewable", func(t *testing.T) {
		loan := base
		loan.Status = domain.LoanStatusOverdue
		_, err := Renew(testPolicy, loan, now.AddDate(0, 0, 10), now)
		assert.ErrorIs(t, err, ErrNotRenewable)
	})

	t.Run("Returned Not Renewable", func(t *testing.T) {
		loan := base
		loan.Status = domain.LoanStatusReturned
		_, err := Renew(testPolicy, loan, now.AddDate(0, 0, 10), now)
		assert.ErrorIs(t, err, ErrNotRenewable)
	})

	t.Run("Due Date In Past", func(t *testing.T) {
		_, err := Renew(testPolicy, base, now.Add(-time.Hour), now)
		assert.ErrorIs(t, err, ErrDueDateInPast)
	})

	t.Run("Due Date Beyond Window", func(t *testing.T) {
		_, err := Renew(testPolicy, base, now.AddDate(0, 0, 31), now)
		assert.ErrorIs(t, err, ErrDueDateTooFar)
	})
}

func TestRefreshOverdue(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	base := domain.Loan{
		ID:      "loan-1",
		Status:  domain.LoanStatusActive,
		DueDate: due,
	}

	t.Run("Marks Overdue And Accrues", func(t *testing.T) {
		now := due.Add(10 * 24 * time.Hour)
		tr := RefreshOverdue(testPolicy, base, now)
		assert.True(t, tr.Changed)
		assert.Equal(t, domain.LoanStatusOverdue, tr.Loan.Status)
		assert.Equal(t, 10, tr.Loan.OverdueDays)
		assert.Equal(t, 50, tr.Loan.FineAmount)
	})

	t.Run("Idempotent For Same Instant", func(t *testing.T) {
		now := due.Add(10 * 24 * time.Hour)
		first := RefreshOverdue(testPolicy, base, now)
		second := RefreshOverdue(testPolicy, first.Loan, now)
		assert.False(t, second.Changed)
		assert.Equal(t, first.Loan, second.Loan)
	})

	t.Run("Not Yet Due", func(t *testing.T) {
		tr := RefreshOverdue(testPolicy, base, due.Add(-time.Hour))
		assert.False(t, tr.Changed)
		assert.Equal(t, base, tr.Loan)
	})

	t.Run("Closed Loans Untouched", func(t *testing.T) {
		loan := base
		loan.Status = domain.LoanStatusReturned
		tr := RefreshOverdue(testPolicy, loan, due.Add(48*time.Hour))
		assert.False(t, tr.Changed)
		assert.Equal(t, 0, tr.Loan.FineAmount)
	})
}

func TestReturn(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	base := domain.Loan{
		ID:      "loan-1",
		BookID:  "book-1",
		Campus:  "NORTH",
		Status:  domain.LoanStatusActive,
		DueDate: due,
	}

	t.Run("On Time", func(t *testing.T) {
		now := due.Add(-time.Hour)
		tr, err := Return(testPolicy, base, now)
		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusReturned, tr.Loan.Status)
		require.NotNil(t, tr.Loan.ReturnDate)
		assert.Equal(t, now, *tr.Loan.ReturnDate)
		assert.Equal(t, 0, tr.Loan.FineAmount)

		// Exactly one increment back to the origin campus.
		require.Len(t, tr.Effects, 1)
		assert.Equal(t, EffectAdjustInventory, tr.Effects[0].Kind)
		assert.Equal(t, +1, tr.Effects[0].Delta)
		assert.Equal(t, "NORTH", tr.Effects[0].Campus)
	})

	t.Run("Late Return Freezes Fine", func(t *testing.T) {
		now := due.Add(10 * 24 * time.Hour)
		tr, err := Return(testPolicy, base, now)
		require.NoError(t, err)
		assert.Equal(t, 10, tr.Loan.OverdueDays)
		assert.Equal(t, 50, tr.Loan.FineAmount)

		// A later refresh must not move the frozen snapshot.
		later := RefreshOverdue(testPolicy, tr.Loan, now.Add(5*24*time.Hour))
		assert.False(t, later.Changed)
		assert.Equal(t, 50, later.Loan.FineAmount)
	})

	t.Run("Already Closed", func(t *testing.T) {
		loan := base
		loan.Status = domain.LoanStatusLost
		_, err := Return(testPolicy, loan, due)
		assert.ErrorIs(t, err, ErrAlreadyClosed)
	})
}

func TestMarkLost(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	base := domain.Loan{
		ID:      "loan-1",
		BookID:  "book-1",
		Campus:  "NORTH",
		Status:  domain.LoanStatusOverdue,
		DueDate: due,
	}

	t.Run("Lost Keeps Unit Out Of Inventory", func(t *testing.T) {
		now := due.Add(3 * 24 * time.Hour)
		tr, err := MarkLost(testPolicy, base, now)
		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusLost, tr.Loan.Status)
		assert.Equal(t, 3, tr.Loan.OverdueDays)
		assert.Equal(t, 15, tr.Loan.FineAmount)
		assert.Empty(t, tr.Effects)
	})

	t.Run("Already Closed", func(t *testing.T) {
		loan := base
		loan.Status = domain.LoanStatusReturned
		_, err := MarkLost(testPolicy, loan, due)
		assert.ErrorIs(t, err, ErrAlreadyClosed)
	})
}

func TestRestore(t *testing.T) {
	returned := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	lost := domain.Loan{
		ID:          "loan-1",
		Status:      domain.LoanStatusLost,
		ReturnDate:  &returned,
		FineAmount:  25,
		OverdueDays: 5,
	}

	t.Run("Success", func(t *testing.T) {
		tr, err := Restore(lost)
		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusActive, tr.Loan.Status)
		assert.Nil(t, tr.Loan.ReturnDate)
		assert.Equal(t, 0, tr.Loan.FineAmount)
		assert.Equal(t, 0, tr.Loan.OverdueDays)
		// Inventory stays as-is: the restore is bookkeeping, not a checkout.
		assert.Empty(t, tr.Effects)
	})

	t.Run("Only Lost Loans", func(t *testing.T) {
		loan := lost
		loan.Status = domain.LoanStatusReturned
		_, err := Restore(loan)
		assert.ErrorIs(t, err, ErrNotLost)
	})
}

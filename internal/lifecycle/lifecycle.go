// Package lifecycle holds the loan state machine as pure functions. Every
// transition returns the next loan snapshot plus the side effects the caller
// must execute (inventory adjustments, notifications). The two legacy
// frontends each re-derived these rules inline at every call site; here the
// loan service is the only caller and the only writer.
//
// States: ACTIVE → {RENEWED, OVERDUE, RETURNED, LOST};
// RENEWED → {RENEWED, OVERDUE, RETURNED, LOST} while renewals remain;
// OVERDUE → {RETURNED, LOST}; RETURNED and LOST are terminal, except that
// LOST may be administratively restored to ACTIVE.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"bibliotec-gateway/internal/domain"
)

var (
	ErrNoAvailability   = errors.New("no available units at campus")
	ErrRenewalLimit     = errors.New("renewal limit reached")
	ErrNotRenewable     = errors.New("loan is not in a renewable state")
	ErrAlreadyClosed    = errors.New("loan is already returned or lost")
	ErrNotLost          = errors.New("loan is not marked lost")
	ErrDueDateInPast    = errors.New("due date must be in the future")
	ErrDueDateTooFar    = errors.New("due date is beyond the renewal window")
	ErrTooManyOpenLoans = errors.New("user has reached the active loan limit")
)

// Policy carries the lending rules from configuration.
type Policy struct {
	DailyFineRate        int
	MaxRenewals          int
	DefaultLoanDays      int
	MaxRenewalWindowDays int
	MaxActiveLoans       int
}

type EffectKind string

const (
	// EffectAdjustInventory asks the caller to change the available count
	// of Delta units for BookID at Campus.
	EffectAdjustInventory EffectKind = "ADJUST_INVENTORY"
	// EffectNotify asks the caller to record a notification for UserID.
	EffectNotify EffectKind = "NOTIFY"
)

type Effect struct {
	Kind    EffectKind
	BookID  string
	Campus  string
	Delta   int
	UserID  string
	Title   string
	Message string
}

// Transition is the outcome of applying a lifecycle rule: the next loan
// snapshot and the side effects it requires. Changed is false when the rule
// was a no-op (only RefreshOverdue produces no-ops).
type Transition struct {
	Loan    domain.Loan
	Effects []Effect
	Changed bool
}

// Create starts a loan for one unit of book at campus. The book must have
// at least one available unit there and the user must be under the open-loan
// cap (openLoans is the user's current count). A zero dueDate defaults to
// now plus the policy's standard loan period.
func Create(p Policy, book *domain.Book, userID, campus string, openLoans int, dueDate, now time.Time) (Transition, error) {
	if book.AvailableAt(campus) < 1 {
		return Transition{}, ErrNoAvailability
	}
	if openLoans >= p.MaxActiveLoans {
		return Transition{}, ErrTooManyOpenLoans
	}
	if dueDate.IsZero() {
		dueDate = now.AddDate(0, 0, p.DefaultLoanDays)
	}

	loan := domain.Loan{
		BookID:       book.ID,
		UserID:       userID,
		LoanDate:     now,
		DueDate:      dueDate,
		Status:       domain.LoanStatusActive,
		RenewalCount: 0,
		FineAmount:   0,
		OverdueDays:  0,
		Campus:       campus,
	}

	return Transition{
		Loan:    loan,
		Changed: true,
		Effects: []Effect{
			{Kind: EffectAdjustInventory, BookID: book.ID, Campus: campus, Delta: -1},
			{
				Kind:    EffectNotify,
				UserID:  userID,
				Title:   "Loan created",
				Message: fmt.Sprintf("%s is due back on %s", book.Title, dueDate.Format("02 Jan 2006")),
			},
		},
	}, nil
}

// Renew extends the due date. Allowed only from ACTIVE or RENEWED, only
// while renewals remain, and only to a date inside the bounded future
// window. Inventory is untouched. On rejection the loan is returned
// unchanged.
func Renew(p Policy, loan domain.Loan, newDueDate, now time.Time) (Transition, error) {
	if loan.Status != domain.LoanStatusActive && loan.Status != domain.LoanStatusRenewed {
		return Transition{Loan: loan}, ErrNotRenewable
	}
	if loan.RenewalCount >= p.MaxRenewals {
		return Transition{Loan: loan}, ErrRenewalLimit
	}
	if !newDueDate.After(now) {
		return Transition{Loan: loan}, ErrDueDateInPast
	}
	if newDueDate.After(now.AddDate(0, 0, p.MaxRenewalWindowDays)) {
		return Transition{Loan: loan}, ErrDueDateTooFar
	}

	loan.DueDate = newDueDate
	loan.RenewalCount++
	loan.Status = domain.LoanStatusRenewed
	return Transition{Loan: loan, Changed: true}, nil
}

// RefreshOverdue recomputes the overdue snapshot for an open loan whose due
// date has passed. The recomputation is unconditional and deterministic:
// running it twice with the same now yields the same loan. Closed loans and
// loans still inside their due date pass through unchanged.
func RefreshOverdue(p Policy, loan domain.Loan, now time.Time) Transition {
	if !loan.Status.Open() {
		return Transition{Loan: loan}
	}
	days := OverdueDays(loan.DueDate, now)
	if days == 0 {
		return Transition{Loan: loan}
	}

	fine := p.Fine(days)
	changed := loan.Status != domain.LoanStatusOverdue || loan.OverdueDays != days || loan.FineAmount != fine
	loan.Status = domain.LoanStatusOverdue
	loan.OverdueDays = days
	loan.FineAmount = fine
	return Transition{Loan: loan, Changed: changed}
}

// Return closes the loan and releases its inventory unit back to the origin
// campus. An overdue loan has its fine finalized at the moment of return;
// accrual stops there.
func Return(p Policy, loan domain.Loan, now time.Time) (Transition, error) {
	if !loan.Status.Open() {
		return Transition{Loan: loan}, ErrAlreadyClosed
	}

	if days := OverdueDays(loan.DueDate, now); days > 0 {
		loan.OverdueDays = days
		loan.FineAmount = p.Fine(days)
	}
	loan.Status = domain.LoanStatusReturned
	loan.ReturnDate = &now

	return Transition{
		Loan:    loan,
		Changed: true,
		Effects: []Effect{
			{Kind: EffectAdjustInventory, BookID: loan.BookID, Campus: loan.Campus, Delta: +1},
		},
	}, nil
}

// MarkLost writes the unit off: the loan closes but the inventory unit is
// never released.
func MarkLost(p Policy, loan domain.Loan, now time.Time) (Transition, error) {
	if !loan.Status.Open() {
		return Transition{Loan: loan}, ErrAlreadyClosed
	}

	if days := OverdueDays(loan.DueDate, now); days > 0 {
		loan.OverdueDays = days
		loan.FineAmount = p.Fine(days)
	}
	loan.Status = domain.LoanStatusLost
	loan.ReturnDate = &now

	return Transition{Loan: loan, Changed: true}, nil
}

// Restore is the administrative override that brings a LOST loan back to
// ACTIVE. Overdue and fine bookkeeping is discarded and inventory is not
// touched in either direction; this is not a financial reversal.
func Restore(loan domain.Loan) (Transition, error) {
	if loan.Status != domain.LoanStatusLost {
		return Transition{Loan: loan}, ErrNotLost
	}

	loan.Status = domain.LoanStatusActive
	loan.ReturnDate = nil
	loan.FineAmount = 0
	loan.OverdueDays = 0
	return Transition{Loan: loan, Changed: true}, nil
}

package cms

import (
	"context"
	"strings"
	"time"

	"bibliotec-gateway/internal/domain"
)

const loansPath = "/api/loans"

// Loans is the resource service for loan records. It only moves bytes; the
// lifecycle rules live in internal/lifecycle and are applied by the loan
// service, the single writer of loan-state transitions.
type Loans struct {
	client *Client
}

func NewLoans(client *Client) *Loans {
	return &Loans{client: client}
}

func (s *Loans) List(ctx context.Context, cred Credential, filters map[string]string, page, pageSize int) ([]domain.Loan, int, error) {
	q := NewQuery().Filters(filters).PopulateAll().Page(page, pageSize).Sort("due_date:asc")
	raw, err := s.client.Get(ctx, loansPath, q.Values(), cred)
	if err != nil {
		return nil, 0, err
	}
	entries, total, err := decodeList(raw)
	if err != nil {
		return nil, 0, err
	}
	loans := make([]domain.Loan, len(entries))
	for i, e := range entries {
		loans[i] = *loanFromRecord(e)
	}
	return loans, total, nil
}

// ListByBook filters server-side on the book relation.
func (s *Loans) ListByBook(ctx context.Context, cred Credential, bookID string, page, pageSize int) ([]domain.Loan, int, error) {
	return s.List(ctx, cred, map[string]string{"book": bookID}, page, pageSize)
}

// ListByUser filters server-side on the user relation.
func (s *Loans) ListByUser(ctx context.Context, cred Credential, userID string, page, pageSize int) ([]domain.Loan, int, error) {
	return s.List(ctx, cred, map[string]string{"user": userID}, page, pageSize)
}

func (s *Loans) Get(ctx context.Context, cred Credential, id string) (*domain.Loan, error) {
	raw, err := s.client.Get(ctx, loansPath+"/"+id, NewQuery().PopulateAll().Values(), cred)
	if err != nil {
		return nil, err
	}
	m, err := flattenRecord(raw)
	if err != nil {
		return nil, err
	}
	return loanFromRecord(m), nil
}

func (s *Loans) Create(ctx context.Context, cred Credential, loan *domain.Loan) (*domain.Loan, error) {
	raw, err := s.client.Post(ctx, loansPath, loanPayload(loan), cred)
	if err != nil {
		return nil, err
	}
	m, err := flattenRecord(raw)
	if err != nil {
		return nil, err
	}
	return loanFromRecord(m), nil
}

func (s *Loans) Update(ctx context.Context, cred Credential, loan *domain.Loan) (*domain.Loan, error) {
	raw, err := s.client.Put(ctx, loansPath+"/"+loan.ID, loanPayload(loan), cred)
	if err != nil {
		return nil, err
	}
	m, err := flattenRecord(raw)
	if err != nil {
		return nil, err
	}
	return loanFromRecord(m), nil
}

func (s *Loans) Delete(ctx context.Context, cred Credential, id string) error {
	return s.client.Delete(ctx, loansPath+"/"+id, cred)
}

func loanFromRecord(m map[string]any) *domain.Loan {
	return &domain.Loan{
		ID:           recordID(m),
		BookID:       relationID(m, "book", "book_id", "bookId"),
		UserID:       relationID(m, "user", "user_id", "userId"),
		LoanDate:     timeField(m, "loan_date", "loanDate"),
		DueDate:      timeField(m, "due_date", "dueDate", "expected_return_date"),
		ReturnDate:   timePtrField(m, "return_date", "returnDate", "actual_return_date"),
		Status:       loanStatusFromRecord(strField(m, "status")),
		RenewalCount: intField(m, "renewal_count", "renewalCount", "renewals"),
		FineAmount:   intField(m, "fine_amount", "fineAmount", "fine"),
		OverdueDays:  intField(m, "overdue_days", "overdueDays"),
		Campus:       strField(m, "campus", "origin_campus"),
		Notes:        strField(m, "notes"),
		CreatedOn:    strField(m, "createdAt", "created_on"),
		UpdatedOn:    strField(m, "updatedAt", "updated_on"),
	}
}

// loanStatusFromRecord folds the casing variants the two frontends stored
// over time into the canonical enum. Unknown values are treated as ACTIVE so
// a bad record still flows through the overdue sweep.
func loanStatusFromRecord(raw string) domain.LoanStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "RENEWED":
		return domain.LoanStatusRenewed
	case "OVERDUE":
		return domain.LoanStatusOverdue
	case "RETURNED":
		return domain.LoanStatusReturned
	case "LOST":
		return domain.LoanStatusLost
	default:
		return domain.LoanStatusActive
	}
}

func loanPayload(l *domain.Loan) map[string]any {
	payload := map[string]any{
		"book":          l.BookID,
		"user":          l.UserID,
		"loan_date":     l.LoanDate.Format(time.RFC3339),
		"due_date":      l.DueDate.Format(time.RFC3339),
		"status":        string(l.Status),
		"renewal_count": l.RenewalCount,
		"fine_amount":   l.FineAmount,
		"overdue_days":  l.OverdueDays,
		"campus":        l.Campus,
		"notes":         l.Notes,
	}
	if l.ReturnDate != nil {
		payload["return_date"] = l.ReturnDate.Format(time.RFC3339)
	} else {
		payload["return_date"] = nil
	}
	return payload
}

package domain

import "time"

type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "ACTIVE"
	LoanStatusRenewed  LoanStatus = "RENEWED"
	LoanStatusOverdue  LoanStatus = "OVERDUE"
	LoanStatusReturned LoanStatus = "RETURNED"
	LoanStatusLost     LoanStatus = "LOST"
)

// Open reports whether the loan still holds an inventory unit against its
// book and campus.
func (s LoanStatus) Open() bool {
	return s == LoanStatusActive || s == LoanStatusRenewed || s == LoanStatusOverdue
}

// Terminal reports whether the loan has reached a final state. LOST is
// terminal except for the administrative restore override.
func (s LoanStatus) Terminal() bool {
	return s == LoanStatusReturned || s == LoanStatusLost
}

type Loan struct {
	ID           string     `json:"id"`
	BookID       string     `json:"book_id"`
	UserID       string     `json:"user_id"`
	LoanDate     time.Time  `json:"loan_date"`
	DueDate      time.Time  `json:"due_date"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`
	Status       LoanStatus `json:"status"`
	RenewalCount int        `json:"renewal_count"`
	// Fine snapshot owned by the loan. FineAmount = OverdueDays * daily rate
	// while the loan is overdue or was returned late; 0 otherwise.
	FineAmount  int    `json:"fine_amount"`
	OverdueDays int    `json:"overdue_days"`
	Campus      string `json:"campus"`
	Notes       string `json:"notes"`
	CreatedOn   string `json:"created_on"`
	UpdatedOn   string `json:"updated_on"`
}

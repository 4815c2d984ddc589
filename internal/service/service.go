package service

import (
	"context"
	"time"

	"bibliotec-gateway/internal/cms"
	"bibliotec-gateway/internal/domain"
	"bibliotec-gateway/internal/session"
)

// Store interfaces consumed by the services. The cms resource services
// satisfy them; tests substitute testify mocks.

type BookStore interface {
	List(ctx context.Context, cred cms.Credential, filters map[string]string, page, pageSize int) ([]domain.Book, int, error)
	Get(ctx context.Context, cred cms.Credential, id string) (*domain.Book, error)
	Create(ctx context.Context, cred cms.Credential, book *domain.Book) (*domain.Book, error)
	Update(ctx context.Context, cred cms.Credential, book *domain.Book) (*domain.Book, error)
	Delete(ctx context.Context, cred cms.Credential, id string) error
	AdjustInventory(ctx context.Context, cred cms.Credential, bookID, campus string, delta int) (*domain.Book, error)
}

type UserStore interface {
	List(ctx context.Context, cred cms.Credential, filters map[string]string, page, pageSize int) ([]domain.User, int, error)
	Get(ctx context.Context, cred cms.Credential, id string) (*domain.User, error)
	Me(ctx context.Context, cred cms.Credential) (*domain.User, error)
	Create(ctx context.Context, cred cms.Credential, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, cred cms.Credential, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, cred cms.Credential, id string) error
}

type LoanStore interface {
	List(ctx context.Context, cred cms.Credential, filters map[string]string, page, pageSize int) ([]domain.Loan, int, error)
	ListByBook(ctx context.Context, cred cms.Credential, bookID string, page, pageSize int) ([]domain.Loan, int, error)
	ListByUser(ctx context.Context, cred cms.Credential, userID string, page, pageSize int) ([]domain.Loan, int, error)
	Get(ctx context.Context, cred cms.Credential, id string) (*domain.Loan, error)
	Create(ctx context.Context, cred cms.Credential, loan *domain.Loan) (*domain.Loan, error)
	Update(ctx context.Context, cred cms.Credential, loan *domain.Loan) (*domain.Loan, error)
	Delete(ctx context.Context, cred cms.Credential, id string) error
}

type NotificationStore interface {
	Create(ctx context.Context, cred cms.Credential, note *domain.Notification) error
	ListByUser(ctx context.Context, cred cms.Credential, userID string, page, pageSize int) ([]domain.Notification, int, error)
	MarkRead(ctx context.Context, cred cms.Credential, id string) error
}

type CMSAuth interface {
	Login(ctx context.Context, identifier, password string) (string, *domain.User, error)
	Register(ctx context.Context, name, email, password string) (string, *domain.User, error)
}

// Service interfaces exposed to the HTTP layer and the jobs.

type AuthService interface {
	Login(ctx context.Context, identifier, password string) (*session.Session, error)
	Register(ctx context.Context, name, email, password string) (*session.Session, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context, cred cms.Credential) (*domain.User, error)
	// ServiceCredential is the credential background jobs act under: the
	// persisted session when one is alive, else the staff fallback token.
	ServiceCredential() cms.Credential
}

type BookService interface {
	ListBooks(ctx context.Context, cred cms.Credential, filters map[string]string, page, pageSize int) ([]domain.Book, int, error)
	GetBook(ctx context.Context, cred cms.Credential, id string) (*domain.Book, error)
	CreateBook(ctx context.Context, cred cms.Credential, book *domain.Book) (*domain.Book, error)
	UpdateBook(ctx context.Context, cred cms.Credential, book *domain.Book) (*domain.Book, error)
	DeleteBook(ctx context.Context, cred cms.Credential, id string) error
}

type UserService interface {
	ListUsers(ctx context.Context, cred cms.Credential, filters map[string]string, page, pageSize int) ([]domain.User, int, error)
	GetUser(ctx context.Context, cred cms.Credential, id string) (*domain.User, error)
	CreateUser(ctx context.Context, cred cms.Credential, user *domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, cred cms.Credential, user *domain.User) (*domain.User, error)
	DeleteUser(ctx context.Context, cred cms.Credential, id string) error
}

// LoanResult is a loan mutation outcome. Warnings carry partial-failure
// notes (an inventory write that failed after the loan write succeeded);
// the primary operation still succeeded.
type LoanResult struct {
	Loan     *domain.Loan
	Warnings []string
}

type LoanService interface {
	ListLoans(ctx context.Context, cred cms.Credential, filters map[string]string, page, pageSize int) ([]domain.Loan, int, error)
	GetLoansByBook(ctx context.Context, cred cms.Credential, bookID string, page, pageSize int) ([]domain.Loan, int, error)
	GetLoansByUser(ctx context.Context, cred cms.Credential, userID string, page, pageSize int) ([]domain.Loan, int, error)
	GetLoan(ctx context.Context, cred cms.Credential, id string) (*domain.Loan, error)
	CreateLoan(ctx context.Context, cred cms.Credential, userID, bookID, campus string, dueDate time.Time, notes string) (*LoanResult, error)
	RenewLoan(ctx context.Context, cred cms.Credential, loanID string, newDueDate time.Time) (*LoanResult, error)
	ReturnLoan(ctx context.Context, cred cms.Credential, loanID string) (*LoanResult, error)
	MarkLoanLost(ctx context.Context, cred cms.Credential, loanID string) (*LoanResult, error)
	RestoreLoan(ctx context.Context, cred cms.Credential, loanID string) (*LoanResult, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, cred cms.Credential, userID string, page, pageSize int) ([]domain.Notification, int, error)
	MarkAsRead(ctx context.Context, cred cms.Credential, id string) error
}

type EmailService interface {
	SendDueSoonReminder(ctx context.Context, email, name, bookTitle string, dueDate time.Time) error
	SendOverdueNotice(ctx context.Context, email, name, bookTitle string, overdueDays, fineAmount int) error
}

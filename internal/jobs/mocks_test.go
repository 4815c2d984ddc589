package jobs

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"bibliotec-gateway/internal/cms"
	"bibliotec-gateway/internal/domain"
	"bibliotec-gateway/internal/service"
	"bibliotec-gateway/internal/session"
)

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, identifier, password string) (*session.Session, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}
func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*session.Session, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}
func (m *MockAuthService) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockAuthService) CurrentUser(ctx context.Context, cred cms.Credential) (*domain.User, error) {
	args := m.Called(ctx, cred)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAuthService) ServiceCredential() cms.Credential {
	args := m.Called()
	return args.Get(0).(cms.Credential)
}

// MockLoanService
type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) ListLoans(ctx context.Context, cred cms.Credential, filters map[string]string, page, pageSize int) ([]domain.Loan, int, error) {
	args := m.Called(ctx, cred, filters, page, pageSize)
	return args.Get(0).([]domain.Loan), args.Int(1), args.Error(2)
}
func (m *MockLoanService) GetLoansByBook(ctx context.Context, cred cms.Credential, bookID string, page, pageSize int) ([]domain.Loan, int, error) {
	args := m.Called(ctx, cred, bookID, page, pageSize)
	return args.Get(0).([]domain.Loan), args.Int(1), args.Error(2)
}
func (m *MockLoanService) GetLoansByUser(ctx context.Context, cred cms.Credential, userID string, page, pageSize int) ([]domain.Loan, int, error) {
	args := m.Called(ctx, cred, userID, page, pageSize)
	return args.Get(0).([]domain.Loan), args.Int(1), args.Error(2)
}
func (m *MockLoanService) GetLoan(ctx context.Context, cred cms.Credential, id string) (*domain.Loan, error) {
	args := m.Called(ctx, cred, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) CreateLoan(ctx context.Context, cred cms.Credential, userID, bookID, campus string, dueDate time.Time, notes string) (*service.LoanResult, error) {
	args := m.Called(ctx, cred, userID, bookID, campus, dueDate, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoanResult), args.Error(1)
}
func (m *MockLoanService) RenewLoan(ctx context.Context, cred cms.Credential, loanID string, newDueDate time.Time) (*service.LoanResult, error) {
	args := m.Called(ctx, cred, loanID, newDueDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoanResult), args.Error(1)
}
func (m *MockLoanService) ReturnLoan(ctx context.Context, cred cms.Credential, loanID string) (*service.LoanResult, error) {
	args := m.Called(ctx, cred, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoanResult), args.Error(1)
}
func (m *MockLoanService) MarkLoanLost(ctx context.Context, cred cms.Credential, loanID string) (*service.LoanResult, error) {
	args := m.Called(ctx, cred, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoanResult), args.Error(1)
}
func (m *MockLoanService) RestoreLoan(ctx context.Context, cred cms.Credential, loanID string) (*service.LoanResult, error) {
	args := m.Called(ctx, cred, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoanResult), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendDueSoonReminder(ctx context.Context, email, name, bookTitle string, dueDate time.Time) error {
	args := m.Called(ctx, email, name, bookTitle, dueDate)
	return args.Error(0)
}
func (m *MockEmailService) SendOverdueNotice(ctx context.Context, email, name, bookTitle string, overdueDays, fineAmount int) error {
	args := m.Called(ctx, email, name, bookTitle, overdueDays, fineAmount)
	return args.Error(0)
}

// MockBookStore
type MockBookStore struct {
	mock.Mock
}

func (m *MockBookStore) List(ctx context.Context, cred cms.Credential, filters map[string]string, page, pageSize int) ([]domain.Book, int, error) {
	args := m.Called(ctx, cred, filters, page, pageSize)
	return args.Get(0).([]domain.Book), args.Int(1), args.Error(2)
}
func (m *MockBookStore) Get(ctx context.Context, cred cms.Credential, id string) (*domain.Book, error) {
	args := m.Called(ctx, cred, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}
func (m *MockBookStore) Create(ctx context.Context, cred cms.Credential, book *domain.Book) (*domain.Book, error) {
	args := m.Called(ctx, cred, book)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}
func (m *MockBookStore) Update(ctx context.Context, cred cms.Credential, book *domain.Book) (*domain.Book, error) {
	args := m.Called(ctx, cred, book)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}
func (m *MockBookStore) Delete(ctx context.Context, cred cms.Credential, id string) error {
	args := m.Called(ctx, cred, id)
	return args.Error(0)
}
func (m *MockBookStore) AdjustInventory(ctx context.Context, cred cms.Credential, bookID, campus string, delta int) (*domain.Book, error) {
	args := m.Called(ctx, cred, bookID, campus, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

// MockUserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) List(ctx context.Context, cred cms.Credential, filters map[string]string, page, pageSize int) ([]domain.User, int, error) {
	args := m.Called(ctx, cred, filters, page, pageSize)
	return args.Get(0).([]domain.User), args.Int(1), args.Error(2)
}
func (m *MockUserStore) Get(ctx context.Context, cred cms.Credential, id string) (*domain.User, error) {
	args := m.Called(ctx, cred, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserStore) Me(ctx context.Context, cred cms.Credential) (*domain.User, error) {
	args := m.Called(ctx, cred)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserStore) Create(ctx context.Context, cred cms.Credential, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, cred, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserStore) Update(ctx context.Context, cred cms.Credential, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, cred, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserStore) Delete(ctx context.Context, cred cms.Credential, id string) error {
	args := m.Called(ctx, cred, id)
	return args.Error(0)
}

// MockNotificationStore
type MockNotificationStore struct {
	mock.Mock
}

func (m *MockNotificationStore) Create(ctx context.Context, cred cms.Credential, note *domain.Notification) error {
	args := m.Called(ctx, cred, note)
	return args.Error(0)
}
func (m *MockNotificationStore) ListByUser(ctx context.Context, cred cms.Credential, userID string, page, pageSize int) ([]domain.Notification, int, error) {
	args := m.Called(ctx, cred, userID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Int(1), args.Error(2)
}
func (m *MockNotificationStore) MarkRead(ctx context.Context, cred cms.Credential, id string) error {
	args := m.Called(ctx, cred, id)
	return args.Error(0)
}

package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"bibliotec-gateway/internal/cms"
	"bibliotec-gateway/internal/domain"
)

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

// MockLoanStore
type MockLoanStore struct {
	mock.Mock
}

func (m *MockLoanStore) List(ctx context.Context, cred cms.Credential, filters map[string]string, page, pageSize int) ([]domain.Loan, int, error) {
	args := m.Called(ctx, cred, filters, page, pageSize)
	return args.Get(0).([]domain.Loan), args.Int(1), args.Error(2)
}
func (m *MockLoanStore) ListByBook(ctx context.Context, cred cms.Credential, bookID string, page, pageSize int) ([]domain.Loan, int, error) {
	args := m.Called(ctx, cred, bookID, page, pageSize)
	return args.Get(0).([]domain.Loan), args.Int(1), args.Error(2)
}
func (m *MockLoanStore) ListByUser(ctx context.Context, cred cms.Credential, userID string, page, pageSize int) ([]domain.Loan, int, error) {
	args := m.Called(ctx, cred, userID, page, pageSize)
	return args.Get(0).([]domain.Loan), args.Int(1), args.Error(2)
}
func (m *MockLoanStore) Get(ctx context.Context, cred cms.Credential, id string) (*domain.Loan, error) {
	args := m.Called(ctx, cred, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanStore) Create(ctx context.Context, cred cms.Credential, loan *domain.Loan) (*domain.Loan, error) {
	args := m.Called(ctx, cred, loan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanStore) Update(ctx context.Context, cred cms.Credential, loan *domain.Loan) (*domain.Loan, error) {
	args := m.Called(ctx, cred, loan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanStore) Delete(ctx context.Context, cred cms.Credential, id string) error {
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

// MockCMSAuth
type MockCMSAuth struct {
	mock.Mock
}

func (m *MockCMSAuth) Login(ctx context.Context, identifier, password string) (string, *domain.User, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
}
func (m *MockCMSAuth) Register(ctx context.Context, name, email, password string) (string, *domain.User, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
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

package service

import (
	"context"

	"bibliotec-gateway/internal/cms"
	"bibliotec-gateway/internal/domain"
	"bibliotec-gateway/internal/logger"
)

type userService struct {
	store UserStore
}

func NewUserService(store UserStore) UserService {
	return &userService{store: store}
}

func (s *userService) ListUsers(ctx context.Context, cred cms.Credential, filters map[string]string, page, pageSize int) ([]domain.User, int, error) {
	if !cred.Role.CanManageUsers() {
		return nil, 0, cms.ErrPermission
	}
	return s.store.List(ctx, cred, filters, page, pageSize)
}

func (s *userService) GetUser(ctx context.Context, cred cms.Credential, id string) (*domain.User, error) {
	return s.store.Get(ctx, cred, id)
}

func (s *userService) CreateUser(ctx context.Context, cred cms.Credential, user *domain.User) (*domain.User, error) {
	if !cred.Role.CanManageUsers() {
		return nil, cms.ErrPermission
	}
	user.Role = domain.NormalizeRole(string(user.Role))
	created, err := s.store.Create(ctx, cred, user)
	if err != nil {
		return nil, err
	}
	logger.Info("user created", "user_id", created.ID, "role", created.Role)
	return created, nil
}

func (s *userService) UpdateUser(ctx context.Context, cred cms.Credential, user *domain.User) (*domain.User, error) {
	if !cred.Role.CanManageUsers() {
		return nil, cms.ErrPermission
	}
	if user.Role != "" {
		user.Role = domain.NormalizeRole(string(user.Role))
	}
	return s.store.Update(ctx, cred, user)
}

func (s *userService) DeleteUser(ctx context.Context, cred cms.Credential, id string) error {
	if !cred.Role.CanManageUsers() {
		return cms.ErrPermission
	}
	return s.store.Delete(ctx, cred, id)
}

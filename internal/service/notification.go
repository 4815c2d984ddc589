package service

import (
	"context"

	"bibliotec-gateway/internal/cms"
	"bibliotec-gateway/internal/domain"
)

type notificationService struct {
	store NotificationStore
}

func NewNotificationService(store NotificationStore) NotificationService {
	return &notificationService{store: store}
}

func (s *notificationService) GetNotifications(ctx context.Context, cred cms.Credential, userID string, page, pageSize int) ([]domain.Notification, int, error) {
	return s.store.ListByUser(ctx, cred, userID, page, pageSize)
}

func (s *notificationService) MarkAsRead(ctx context.Context, cred cms.Credential, id string) error {
	return s.store.MarkRead(ctx, cred, id)
}

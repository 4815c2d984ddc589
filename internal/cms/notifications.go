package cms

import (
	"context"

	"bibliotec-gateway/internal/domain"
)

const notificationsPath = "/api/notifications"

// Notifications is the resource service for in-app notices (lifecycle
// events, reminders, partial-failure warnings).
type Notifications struct {
	client *Client
}

func NewNotifications(client *Client) *Notifications {
	return &Notifications{client: client}
}

func (s *Notifications) Create(ctx context.Context, cred Credential, note *domain.Notification) error {
	payload := map[string]any{
		"user":       note.UserID,
		"title":      note.Title,
		"message":    note.Message,
		"read":       false,
		"attributes": note.Attributes,
	}
	_, err := s.client.Post(ctx, notificationsPath, payload, cred)
	return err
}

func (s *Notifications) ListByUser(ctx context.Context, cred Credential, userID string, page, pageSize int) ([]domain.Notification, int, error) {
	q := NewQuery().FilterEq("user", userID).Page(page, pageSize).Sort("createdAt:desc")
	raw, err := s.client.Get(ctx, notificationsPath, q.Values(), cred)
	if err != nil {
		return nil, 0, err
	}
	entries, total, err := decodeList(raw)
	if err != nil {
		return nil, 0, err
	}
	notes := make([]domain.Notification, len(entries))
	for i, e := range entries {
		notes[i] = domain.Notification{
			ID:        recordID(e),
			UserID:    relationID(e, "user", "user_id"),
			Title:     strField(e, "title"),
			Message:   strField(e, "message"),
			Read:      boolField(e, "read"),
			CreatedOn: strField(e, "createdAt", "created_on"),
		}
	}
	return notes, total, nil
}

func (s *Notifications) MarkRead(ctx context.Context, cred Credential, id string) error {
	_, err := s.client.Put(ctx, notificationsPath+"/"+id, map[string]any{"read": true}, cred)
	return err
}

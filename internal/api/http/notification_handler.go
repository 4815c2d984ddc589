package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"bibliotec-gateway/internal/service"
)

type NotificationHandler struct {
	notifications service.NotificationService
}

func NewNotificationHandler(notifications service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns the caller's own notifications, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := UserFrom(r.Context())
	page, pageSize := pagination(r)

	notes, total, err := h.notifications.GetNotifications(r.Context(), CredentialFrom(r.Context()), caller.ID, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{
		Data: notes,
		Meta: listMeta{Page: page, PageSize: pageSize, Total: total},
	})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.notifications.MarkAsRead(r.Context(), CredentialFrom(r.Context()), id); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// RegisterNotificationRoutes registers the notification endpoints
func RegisterNotificationRoutes(router *mux.Router, notifications service.NotificationService) {
	handler := NewNotificationHandler(notifications)
	router.HandleFunc("/api/v1/notifications", RequireAuth(handler.List)).Methods("GET")
	router.HandleFunc("/api/v1/notifications/{id}/read", RequireAuth(handler.MarkRead)).Methods("POST")
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"bibliotec-gateway/internal/cms"
	"bibliotec-gateway/internal/domain"
	"bibliotec-gateway/internal/service"
)

type UserHandler struct {
	users service.UserService
}

func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	filters := listFilters(r, "email", "control_number", "program")

	users, total, err := h.users.ListUsers(r.Context(), CredentialFrom(r.Context()), filters, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{
		Data: users,
		Meta: listMeta{Page: page, PageSize: pageSize, Total: total},
	})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	// Members may read their own profile; managing other users needs the
	// admin role.
	cred := CredentialFrom(r.Context())
	if caller := UserFrom(r.Context()); caller != nil && caller.ID != id && !cred.Role.CanManageUsers() {
		respondError(w, cms.ErrPermission)
		return
	}

	user, err := h.users.GetUser(r.Context(), cred, id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Data: user})
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if user.Name == "" || user.Email == "" {
		writeError(w, http.StatusBadRequest, "name and email are required")
		return
	}

	created, err := h.users.CreateUser(r.Context(), CredentialFrom(r.Context()), &user)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mutationResponse{Data: created})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user.ID = mux.Vars(r)["id"]

	updated, err := h.users.UpdateUser(r.Context(), CredentialFrom(r.Context()), &user)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Data: updated})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.users.DeleteUser(r.Context(), CredentialFrom(r.Context()), id); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// RegisterUserRoutes registers the member management endpoints
func RegisterUserRoutes(router *mux.Router, users service.UserService) {
	handler := NewUserHandler(users)
	router.HandleFunc("/api/v1/users", RequireAuth(handler.List)).Methods("GET")
	router.HandleFunc("/api/v1/users", RequireAuth(handler.Create)).Methods("POST")
	router.HandleFunc("/api/v1/users/{id}", RequireAuth(handler.Get)).Methods("GET")
	router.HandleFunc("/api/v1/users/{id}", RequireAuth(handler.Update)).Methods("PUT")
	router.HandleFunc("/api/v1/users/{id}", RequireAuth(handler.Delete)).Methods("DELETE")
}

package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"bibliotec-gateway/internal/cms"
	"bibliotec-gateway/internal/service"
)

// LoanHandler exposes the loan lifecycle. All state transitions go through
// the loan service; the handler only parses, authorizes the caller scope,
// and shapes responses.
type LoanHandler struct {
	loans service.LoanService
}

func NewLoanHandler(loans service.LoanService) *LoanHandler {
	return &LoanHandler{loans: loans}
}

type createLoanRequest struct {
	UserID  string `json:"user_id"`
	BookID  string `json:"book_id"`
	Campus  string `json:"campus"`
	DueDate string `json:"due_date"` // RFC3339 or YYYY-MM-DD, optional
	Notes   string `json:"notes"`
}

type renewLoanRequest struct {
	DueDate string `json:"due_date"`
}

func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	cred := CredentialFrom(r.Context())
	page, pageSize := pagination(r)

	// Members only see their own loans; staff see everything.
	if caller := UserFrom(r.Context()); caller != nil && !cred.Role.CanManageLoans() {
		loans, total, err := h.loans.GetLoansByUser(r.Context(), cred, caller.ID, page, pageSize)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listResponse{Data: loans, Meta: listMeta{Page: page, PageSize: pageSize, Total: total}})
		return
	}

	filters := listFilters(r, "status", "campus")
	loans, total, err := h.loans.ListLoans(r.Context(), cred, filters, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: loans, Meta: listMeta{Page: page, PageSize: pageSize, Total: total}})
}

func (h *LoanHandler) ListByBook(w http.ResponseWriter, r *http.Request) {
	cred := CredentialFrom(r.Context())
	if !cred.Role.CanManageLoans() {
		respondError(w, cms.ErrPermission)
		return
	}

	page, pageSize := pagination(r)
	loans, total, err := h.loans.GetLoansByBook(r.Context(), cred, mux.Vars(r)["id"], page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: loans, Meta: listMeta{Page: page, PageSize: pageSize, Total: total}})
}

func (h *LoanHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	cred := CredentialFrom(r.Context())
	userID := mux.Vars(r)["id"]
	if caller := UserFrom(r.Context()); caller != nil && caller.ID != userID && !cred.Role.CanManageLoans() {
		respondError(w, cms.ErrPermission)
		return
	}

	page, pageSize := pagination(r)
	loans, total, err := h.loans.GetLoansByUser(r.Context(), cred, userID, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: loans, Meta: listMeta{Page: page, PageSize: pageSize, Total: total}})
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	cred := CredentialFrom(r.Context())
	loan, err := h.loans.GetLoan(r.Context(), cred, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	if caller := UserFrom(r.Context()); caller != nil && loan.UserID != caller.ID && !cred.Role.CanManageLoans() {
		respondError(w, cms.ErrPermission)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Data: loan})
}

func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BookID == "" || req.Campus == "" {
		writeError(w, http.StatusBadRequest, "book_id and campus are required")
		return
	}
	dueDate, ok := parseDate(req.DueDate)
	if !ok {
		writeError(w, http.StatusBadRequest, "due_date must be RFC3339 or YYYY-MM-DD")
		return
	}

	cred := CredentialFrom(r.Context())
	caller := UserFrom(r.Context())

	// Members borrow for themselves; staff may borrow on behalf of anyone.
	userID := req.UserID
	if userID == "" {
		userID = caller.ID
	}
	if userID != caller.ID && !cred.Role.CanManageLoans() {
		respondError(w, cms.ErrPermission)
		return
	}

	result, err := h.loans.CreateLoan(r.Context(), cred, userID, req.BookID, req.Campus, dueDate, req.Notes)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mutationResponse{Data: result.Loan, Warnings: result.Warnings})
}

func (h *LoanHandler) Renew(w http.ResponseWriter, r *http.Request) {
	var req renewLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dueDate, ok := parseDate(req.DueDate)
	if !ok || dueDate.IsZero() {
		writeError(w, http.StatusBadRequest, "due_date is required")
		return
	}

	cred := CredentialFrom(r.Context())
	if err := h.authorizeLoanAccess(r, cred); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.loans.RenewLoan(r.Context(), cred, mux.Vars(r)["id"], dueDate)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Data: result.Loan, Warnings: result.Warnings})
}

func (h *LoanHandler) Return(w http.ResponseWriter, r *http.Request) {
	cred := CredentialFrom(r.Context())
	if err := h.authorizeLoanAccess(r, cred); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.loans.ReturnLoan(r.Context(), cred, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Data: result.Loan, Warnings: result.Warnings})
}

func (h *LoanHandler) MarkLost(w http.ResponseWriter, r *http.Request) {
	result, err := h.loans.MarkLoanLost(r.Context(), CredentialFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Data: result.Loan, Warnings: result.Warnings})
}

func (h *LoanHandler) Restore(w http.ResponseWriter, r *http.Request) {
	result, err := h.loans.RestoreLoan(r.Context(), CredentialFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Data: result.Loan, Warnings: result.Warnings})
}

// authorizeLoanAccess lets members operate on their own loans and staff on
// any loan.
func (h *LoanHandler) authorizeLoanAccess(r *http.Request, cred cms.Credential) error {
	if cred.Role.CanManageLoans() {
		return nil
	}
	loan, err := h.loans.GetLoan(r.Context(), cred, mux.Vars(r)["id"])
	if err != nil {
		return err
	}
	if caller := UserFrom(r.Context()); caller != nil && loan.UserID != caller.ID {
		return cms.ErrPermission
	}
	return nil
}

// RegisterLoanRoutes registers the loan lifecycle endpoints
func RegisterLoanRoutes(router *mux.Router, loans service.LoanService) {
	handler := NewLoanHandler(loans)
	router.HandleFunc("/api/v1/loans", RequireAuth(handler.List)).Methods("GET")
	router.HandleFunc("/api/v1/loans", RequireAuth(handler.Create)).Methods("POST")
	router.HandleFunc("/api/v1/loans/{id}", RequireAuth(handler.Get)).Methods("GET")
	router.HandleFunc("/api/v1/loans/{id}/renew", RequireAuth(handler.Renew)).Methods("POST")
	router.HandleFunc("/api/v1/loans/{id}/return", RequireAuth(handler.Return)).Methods("POST")
	router.HandleFunc("/api/v1/loans/{id}/lost", RequireAuth(handler.MarkLost)).Methods("POST")
	router.HandleFunc("/api/v1/loans/{id}/restore", RequireAuth(handler.Restore)).Methods("POST")
	router.HandleFunc("/api/v1/books/{id}/loans", RequireAuth(handler.ListByBook)).Methods("GET")
	router.HandleFunc("/api/v1/users/{id}/loans", RequireAuth(handler.ListByUser)).Methods("GET")
}

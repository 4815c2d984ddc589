package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"bibliotec-gateway/internal/domain"
	"bibliotec-gateway/internal/service"
)

// BookHandler exposes catalog management. Inventory counts are read-only
// here; only the loan lifecycle moves them.
type BookHandler struct {
	books service.BookService
}

func NewBookHandler(books service.BookService) *BookHandler {
	return &BookHandler{books: books}
}

// pagination pulls page and page_size query parameters, zero when absent.
func pagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return page, pageSize
}

// listFilters collects whitelisted equality filters from the query string.
func listFilters(r *http.Request, allowed ...string) map[string]string {
	filters := map[string]string{}
	for _, field := range allowed {
		if val := r.URL.Query().Get(field); val != "" {
			filters[field] = val
		}
	}
	return filters
}

func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	filters := listFilters(r, "title", "author", "genre", "catalog_code")

	books, total, err := h.books.ListBooks(r.Context(), CredentialFrom(r.Context()), filters, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{
		Data: books,
		Meta: listMeta{Page: page, PageSize: pageSize, Total: total},
	})
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	book, err := h.books.GetBook(r.Context(), CredentialFrom(r.Context()), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Data: book})
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var book domain.Book
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if book.Title == "" || book.CatalogCode == "" {
		writeError(w, http.StatusBadRequest, "title and catalog_code are required")
		return
	}

	created, err := h.books.CreateBook(r.Context(), CredentialFrom(r.Context()), &book)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mutationResponse{Data: created})
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	var book domain.Book
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	book.ID = mux.Vars(r)["id"]

	updated, err := h.books.UpdateBook(r.Context(), CredentialFrom(r.Context()), &book)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Data: updated})
}

func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.books.DeleteBook(r.Context(), CredentialFrom(r.Context()), id); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// RegisterBookRoutes registers the catalog endpoints
func RegisterBookRoutes(router *mux.Router, books service.BookService) {
	handler := NewBookHandler(books)
	router.HandleFunc("/api/v1/books", RequireAuth(handler.List)).Methods("GET")
	router.HandleFunc("/api/v1/books", RequireAuth(handler.Create)).Methods("POST")
	router.HandleFunc("/api/v1/books/{id}", RequireAuth(handler.Get)).Methods("GET")
	router.HandleFunc("/api/v1/books/{id}", RequireAuth(handler.Update)).Methods("PUT")
	router.HandleFunc("/api/v1/books/{id}", RequireAuth(handler.Delete)).Methods("DELETE")
}

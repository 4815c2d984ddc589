package cms

import (
	"context"
	"fmt"

	"bibliotec-gateway/internal/domain"
)

const booksPath = "/api/books"

// Books is the resource service for the catalog. Inventory counts live on
// the book record and are only ever adjusted through AdjustInventory, which
// the loan lifecycle drives.
type Books struct {
	client *Client
}

func NewBooks(client *Client) *Books {
	return &Books{client: client}
}

func (s *Books) List(ctx context.Context, cred Credential, filters map[string]string, page, pageSize int) ([]domain.Book, int, error) {
	q := NewQuery().Filters(filters).PopulateAll().Page(page, pageSize).Sort("title:asc")
	raw, err := s.client.Get(ctx, booksPath, q.Values(), cred)
	if err != nil {
		return nil, 0, err
	}
	entries, total, err := decodeList(raw)
	if err != nil {
		return nil, 0, err
	}
	books := make([]domain.Book, len(entries))
	for i, e := range entries {
		books[i] = *bookFromRecord(e)
	}
	return books, total, nil
}

func (s *Books) Get(ctx context.Context, cred Credential, id string) (*domain.Book, error) {
	raw, err := s.client.Get(ctx, booksPath+"/"+id, NewQuery().PopulateAll().Values(), cred)
	if err != nil {
		return nil, err
	}
	m, err := flattenRecord(raw)
	if err != nil {
		return nil, err
	}
	return bookFromRecord(m), nil
}

func (s *Books) Create(ctx context.Context, cred Credential, book *domain.Book) (*domain.Book, error) {
	raw, err := s.client.Post(ctx, booksPath, bookPayload(book), cred)
	if err != nil {
		return nil, err
	}
	m, err := flattenRecord(raw)
	if err != nil {
		return nil, err
	}
	return bookFromRecord(m), nil
}

func (s *Books) Update(ctx context.Context, cred Credential, book *domain.Book) (*domain.Book, error) {
	raw, err := s.client.Put(ctx, booksPath+"/"+book.ID, bookPayload(book), cred)
	if err != nil {
		return nil, err
	}
	m, err := flattenRecord(raw)
	if err != nil {
		return nil, err
	}
	return bookFromRecord(m), nil
}

func (s *Books) Delete(ctx context.Context, cred Credential, id string) error {
	return s.client.Delete(ctx, booksPath+"/"+id, cred)
}

// AdjustInventory changes the available count for one campus by delta and
// writes the updated inventory back. Rejects adjustments that would take the
// count negative; the caller sees the current availability in the error.
func (s *Books) AdjustInventory(ctx context.Context, cred Credential, bookID, campus string, delta int) (*domain.Book, error) {
	book, err := s.Get(ctx, cred, bookID)
	if err != nil {
		return nil, err
	}

	next := book.AvailableAt(campus) + delta
	if next < 0 {
		return nil, fmt.Errorf("no available units of book %s at campus %s", bookID, campus)
	}

	found := false
	for i := range book.Inventory {
		if book.Inventory[i].Campus == campus {
			book.Inventory[i].Available = next
			found = true
			break
		}
	}
	if !found {
		book.Inventory = append(book.Inventory, domain.CampusInventory{Campus: campus, Available: next})
	}

	return s.Update(ctx, cred, book)
}

func bookFromRecord(m map[string]any) *domain.Book {
	book := &domain.Book{
		ID:          recordID(m),
		CatalogCode: strField(m, "catalog_code", "catalogCode", "code"),
		Title:       strField(m, "title"),
		Author:      strField(m, "author"),
		Genre:       strField(m, "genre", "classification"),
		CreatedOn:   strField(m, "createdAt", "created_on"),
		UpdatedOn:   strField(m, "updatedAt", "updated_on"),
	}
	if items, ok := m["inventory"].([]any); ok {
		for _, item := range items {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			entry = flattenMap(entry)
			book.Inventory = append(book.Inventory, domain.CampusInventory{
				Campus:    strField(entry, "campus"),
				Available: intField(entry, "available", "units"),
			})
		}
	}
	return book
}

func bookPayload(b *domain.Book) map[string]any {
	inventory := make([]map[string]any, len(b.Inventory))
	for i, inv := range b.Inventory {
		inventory[i] = map[string]any{"campus": inv.Campus, "available": inv.Available}
	}
	return map[string]any{
		"catalog_code": b.CatalogCode,
		"title":        b.Title,
		"author":       b.Author,
		"genre":        b.Genre,
		"inventory":    inventory,
	}
}

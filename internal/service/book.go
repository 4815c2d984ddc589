package service

import (
	"context"

	"bibliotec-gateway/internal/cache"
	"bibliotec-gateway/internal/cms"
	"bibliotec-gateway/internal/domain"
	"bibliotec-gateway/internal/logger"
)

type bookService struct {
	store BookStore
	cache *cache.BookCache
}

func NewBookService(store BookStore, bookCache *cache.BookCache) BookService {
	return &bookService{store: store, cache: bookCache}
}

func (s *bookService) ListBooks(ctx context.Context, cred cms.Credential, filters map[string]string, page, pageSize int) ([]domain.Book, int, error) {
	return s.store.List(ctx, cred, filters, page, pageSize)
}

func (s *bookService) GetBook(ctx context.Context, cred cms.Credential, id string) (*domain.Book, error) {
	if book, ok := s.cache.Get(id); ok {
		return book, nil
	}
	book, err := s.store.Get(ctx, cred, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(book)
	return book, nil
}

func (s *bookService) CreateBook(ctx context.Context, cred cms.Credential, book *domain.Book) (*domain.Book, error) {
	if !cred.Role.CanManageCatalog() {
		return nil, cms.ErrPermission
	}
	created, err := s.store.Create(ctx, cred, book)
	if err != nil {
		return nil, err
	}
	logger.Info("book created", "book_id", created.ID, "catalog_code", created.CatalogCode)
	return created, nil
}

func (s *bookService) UpdateBook(ctx context.Context, cred cms.Credential, book *domain.Book) (*domain.Book, error) {
	if !cred.Role.CanManageCatalog() {
		return nil, cms.ErrPermission
	}
	updated, err := s.store.Update(ctx, cred, book)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(book.ID)
	return updated, nil
}

func (s *bookService) DeleteBook(ctx context.Context, cred cms.Credential, id string) error {
	if !cred.Role.CanManageCatalog() {
		return cms.ErrPermission
	}
	if err := s.store.Delete(ctx, cred, id); err != nil {
		return err
	}
	s.cache.Invalidate(id)
	return nil
}

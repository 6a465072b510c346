// Package service holds the business layer: catalog and reader record
// management plus the lending engine.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/libtrack/lending-service/internal/model"
	"github.com/libtrack/lending-service/internal/repository"
)

// Catalog manages book, author and genre records. Book availability is not
// editable through here: creation always starts available and the update
// request type has no availability field.
type Catalog struct {
	log  *zap.Logger
	repo repository.Repository
}

func NewCatalog(repo repository.Repository, log *zap.Logger) *Catalog {
	return &Catalog{
		log:  log,
		repo: repo,
	}
}

func (s *Catalog) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	return s.repo.CreateBook(ctx, req)
}

func (s *Catalog) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.ListBooks(ctx)
}

func (s *Catalog) UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (model.Book, error) {
	return s.repo.UpdateBook(ctx, id, req)
}

func (s *Catalog) DeleteBook(ctx context.Context, id int64) error {
	return s.repo.DeleteBook(ctx, id)
}

func (s *Catalog) CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error) {
	return s.repo.CreateAuthor(ctx, req)
}

func (s *Catalog) ListAuthors(ctx context.Context) ([]model.Author, error) {
	return s.repo.ListAuthors(ctx)
}

func (s *Catalog) UpdateAuthor(ctx context.Context, id int64, req model.UpdateAuthorRequest) (model.Author, error) {
	return s.repo.UpdateAuthor(ctx, id, req)
}

func (s *Catalog) DeleteAuthor(ctx context.Context, id int64) error {
	return s.repo.DeleteAuthor(ctx, id)
}

func (s *Catalog) CreateGenre(ctx context.Context, req model.CreateGenreRequest) (model.Genre, error) {
	return s.repo.CreateGenre(ctx, req)
}

func (s *Catalog) ListGenres(ctx context.Context) ([]model.Genre, error) {
	return s.repo.ListGenres(ctx)
}

func (s *Catalog) UpdateGenre(ctx context.Context, id int64, req model.UpdateGenreRequest) (model.Genre, error) {
	return s.repo.UpdateGenre(ctx, id, req)
}

func (s *Catalog) DeleteGenre(ctx context.Context, id int64) error {
	return s.repo.DeleteGenre(ctx, id)
}

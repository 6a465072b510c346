package handler

import (
	"context"

	"github.com/libtrack/lending-service/internal/model"
	"github.com/libtrack/lending-service/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type ReaderService interface {
	CreateReader(ctx context.Context, req model.CreateReaderRequest) (model.Reader, error)
	ListReaders(ctx context.Context) ([]model.Reader, error)
	UpdateReader(ctx context.Context, id int64, req model.UpdateReaderRequest) (model.Reader, error)
	DeleteReader(ctx context.Context, id int64) error
}

type CatalogService interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error

	CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error)
	ListAuthors(ctx context.Context) ([]model.Author, error)
	UpdateAuthor(ctx context.Context, id int64, req model.UpdateAuthorRequest) (model.Author, error)
	DeleteAuthor(ctx context.Context, id int64) error

	CreateGenre(ctx context.Context, req model.CreateGenreRequest) (model.Genre, error)
	ListGenres(ctx context.Context) ([]model.Genre, error)
	UpdateGenre(ctx context.Context, id int64, req model.UpdateGenreRequest) (model.Genre, error)
	DeleteGenre(ctx context.Context, id int64) error
}

type LendingService interface {
	Issue(ctx context.Context, req model.IssueBookRequest) (model.Issue, error)
	Return(ctx context.Context, issueID string) (model.Issue, error)
}

var (
	_ ReaderService  = (*service.Readers)(nil)
	_ CatalogService = (*service.Catalog)(nil)
	_ LendingService = (*service.Lending)(nil)
)

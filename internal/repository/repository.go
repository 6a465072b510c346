// Package repository declares the storage contract shared by the in-memory
// and the Postgres implementations. Entity CRUD is plain keyed storage;
// IssueBook and ReturnBook are the two atomic lending transitions and the
// only writers of Book.IsAvailable and Issue.ReturnDate.
package repository

import (
	"context"

	"github.com/libtrack/lending-service/internal/model"
)

type Repository interface {
	CreateReader(ctx context.Context, req model.CreateReaderRequest) (model.Reader, error)
	ListReaders(ctx context.Context) ([]model.Reader, error)
	GetReader(ctx context.Context, id int64) (model.Reader, error)
	UpdateReader(ctx context.Context, id int64, req model.UpdateReaderRequest) (model.Reader, error)
	DeleteReader(ctx context.Context, id int64) error

	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error

	CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error)
	ListAuthors(ctx context.Context) ([]model.Author, error)
	GetAuthor(ctx context.Context, id int64) (model.Author, error)
	UpdateAuthor(ctx context.Context, id int64, req model.UpdateAuthorRequest) (model.Author, error)
	DeleteAuthor(ctx context.Context, id int64) error

	CreateGenre(ctx context.Context, req model.CreateGenreRequest) (model.Genre, error)
	ListGenres(ctx context.Context) ([]model.Genre, error)
	GetGenre(ctx context.Context, id int64) (model.Genre, error)
	UpdateGenre(ctx context.Context, id int64, req model.UpdateGenreRequest) (model.Genre, error)
	DeleteGenre(ctx context.Context, id int64) error

	// IssueBook flips the book to unavailable and creates an open issue as a
	// single atomic step. errs.ErrNotFound if the book does not exist,
	// errs.ErrBookUnavailable if it is already on loan.
	IssueBook(ctx context.Context, readerID, bookID int64) (model.Issue, error)
	// ReturnBook closes an open issue and restores availability atomically.
	// errs.ErrNotFound if the issue or its book does not exist,
	// errs.ErrAlreadyReturned if the issue is already closed.
	ReturnBook(ctx context.Context, issueID string) (model.Issue, error)

	GetIssue(ctx context.Context, issueID string) (model.Issue, error)
	FindOpenIssueByBook(ctx context.Context, bookID int64) (model.Issue, error)
}

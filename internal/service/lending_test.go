package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/libtrack/lending-service/internal/errs"
	"github.com/libtrack/lending-service/internal/model"
	"github.com/libtrack/lending-service/internal/repository/memory"
	"github.com/libtrack/lending-service/internal/service"
)

func TestLending_RoundTrip(t *testing.T) {
	ctx := context.Background()
	log := zap.NewExample()
	repo := memory.NewRepository(log)
	catalog := service.NewCatalog(repo, log)
	lending := service.NewLending(repo, nil, log)

	book, err := catalog.CreateBook(ctx, model.CreateBookRequest{Title: "Dune", Author: "Frank Herbert", Year: 1965})
	require.NoError(t, err)
	require.True(t, book.IsAvailable)

	issue, err := lending.Issue(ctx, model.IssueBookRequest{ReaderID: 7, BookID: book.ID})
	require.NoError(t, err)
	require.Equal(t, int64(7), issue.ReaderID)
	require.Nil(t, issue.ReturnDate)

	books, err := catalog.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.False(t, books[0].IsAvailable)

	returned, err := lending.Return(ctx, issue.ID)
	require.NoError(t, err)
	require.NotNil(t, returned.ReturnDate)
	require.False(t, returned.ReturnDate.Before(returned.IssueDate))

	books, err = catalog.ListBooks(ctx)
	require.NoError(t, err)
	require.True(t, books[0].IsAvailable)
}

func TestLending_IssueConflict(t *testing.T) {
	ctx := context.Background()
	log := zap.NewExample()
	repo := memory.NewRepository(log)
	lending := service.NewLending(repo, nil, log)

	book, err := repo.CreateBook(ctx, model.CreateBookRequest{Title: "Dune"})
	require.NoError(t, err)

	_, err = lending.Issue(ctx, model.IssueBookRequest{ReaderID: 1, BookID: book.ID})
	require.NoError(t, err)

	// another reader asks for the same copy
	_, err = lending.Issue(ctx, model.IssueBookRequest{ReaderID: 2, BookID: book.ID})
	require.ErrorIs(t, err, errs.ErrBookUnavailable)

	got, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.False(t, got.IsAvailable)
}

func TestLending_ReturnErrors(t *testing.T) {
	ctx := context.Background()
	log := zap.NewExample()
	repo := memory.NewRepository(log)
	lending := service.NewLending(repo, nil, log)

	_, err := lending.Return(ctx, "b7a7e9a8-0a62-4b3b-8a7d-0f8f4a1de111")
	require.ErrorIs(t, err, errs.ErrNotFound)

	book, err := repo.CreateBook(ctx, model.CreateBookRequest{Title: "Dune"})
	require.NoError(t, err)
	issue, err := lending.Issue(ctx, model.IssueBookRequest{ReaderID: 1, BookID: book.ID})
	require.NoError(t, err)

	_, err = lending.Return(ctx, issue.ID)
	require.NoError(t, err)
	_, err = lending.Return(ctx, issue.ID)
	require.ErrorIs(t, err, errs.ErrAlreadyReturned)
}

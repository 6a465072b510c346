package memory_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/libtrack/lending-service/internal/errs"
	"github.com/libtrack/lending-service/internal/model"
	"github.com/libtrack/lending-service/internal/repository/memory"
)

func TestRepository_ReaderCRUD(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository(zap.NewExample())

	reader, err := repo.CreateReader(ctx, model.CreateReaderRequest{
		Name:  "Alice",
		Email: "alice@example.com",
		Phone: "+1000000",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), reader.ID)
	require.False(t, reader.RegistrationDate.IsZero())

	name := "Alice B."
	updated, err := repo.UpdateReader(ctx, reader.ID, model.UpdateReaderRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Alice B.", updated.Name)
	// fields absent from the request are preserved
	require.Equal(t, "alice@example.com", updated.Email)
	require.Equal(t, reader.RegistrationDate, updated.RegistrationDate)

	_, err = repo.UpdateReader(ctx, 42, model.UpdateReaderRequest{Name: &name})
	require.ErrorIs(t, err, errs.ErrNotFound)

	readers, err := repo.ListReaders(ctx)
	require.NoError(t, err)
	require.Len(t, readers, 1)

	require.NoError(t, repo.DeleteReader(ctx, reader.ID))
	require.ErrorIs(t, repo.DeleteReader(ctx, reader.ID), errs.ErrNotFound)
}

func TestRepository_IDsNeverReused(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository(zap.NewExample())

	first, err := repo.CreateGenre(ctx, model.CreateGenreRequest{Name: "sci-fi"})
	require.NoError(t, err)
	second, err := repo.CreateGenre(ctx, model.CreateGenreRequest{Name: "fantasy"})
	require.NoError(t, err)
	require.NoError(t, repo.DeleteGenre(ctx, second.ID))

	third, err := repo.CreateGenre(ctx, model.CreateGenreRequest{Name: "poetry"})
	require.NoError(t, err)
	require.Greater(t, third.ID, second.ID)
	require.Greater(t, second.ID, first.ID)
}

func TestRepository_IssueReturn(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository(zap.NewExample())

	book, err := repo.CreateBook(ctx, model.CreateBookRequest{Title: "Dune", Author: "Frank Herbert"})
	require.NoError(t, err)
	require.True(t, book.IsAvailable)

	issue, err := repo.IssueBook(ctx, 1, book.ID)
	require.NoError(t, err)
	require.NotEmpty(t, issue.ID)
	require.Nil(t, issue.ReturnDate)

	got, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.False(t, got.IsAvailable)

	open, err := repo.FindOpenIssueByBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, issue.ID, open.ID)

	// second issue of an on-loan book is a conflict, no new record
	_, err = repo.IssueBook(ctx, 2, book.ID)
	require.ErrorIs(t, err, errs.ErrBookUnavailable)

	returned, err := repo.ReturnBook(ctx, issue.ID)
	require.NoError(t, err)
	require.NotNil(t, returned.ReturnDate)
	require.False(t, returned.ReturnDate.Before(returned.IssueDate))

	got, err = repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.True(t, got.IsAvailable)

	_, err = repo.FindOpenIssueByBook(ctx, book.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)

	// closed issues are immutable
	_, err = repo.ReturnBook(ctx, issue.ID)
	require.ErrorIs(t, err, errs.ErrAlreadyReturned)
}

func TestRepository_IssueBook_MissingBook(t *testing.T) {
	repo := memory.NewRepository(zap.NewExample())

	_, err := repo.IssueBook(context.Background(), 1, 99)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRepository_ReturnBook_MissingIssue(t *testing.T) {
	repo := memory.NewRepository(zap.NewExample())

	_, err := repo.ReturnBook(context.Background(), "2b6ad5f0-23f4-4a8c-9f5c-9d5f8b1f3a11")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRepository_ReturnBook_DanglingBook(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository(zap.NewExample())

	book, err := repo.CreateBook(ctx, model.CreateBookRequest{Title: "Solaris"})
	require.NoError(t, err)
	issue, err := repo.IssueBook(ctx, 1, book.ID)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteBook(ctx, book.ID))

	_, err = repo.ReturnBook(ctx, issue.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)

	// the issue stays open
	got, err := repo.GetIssue(ctx, issue.ID)
	require.NoError(t, err)
	require.Nil(t, got.ReturnDate)
}

func TestRepository_UpdateBook_CannotTouchAvailability(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository(zap.NewExample())

	book, err := repo.CreateBook(ctx, model.CreateBookRequest{Title: "Dune"})
	require.NoError(t, err)
	_, err = repo.IssueBook(ctx, 1, book.ID)
	require.NoError(t, err)

	title := "Dune Messiah"
	updated, err := repo.UpdateBook(ctx, book.ID, model.UpdateBookRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Dune Messiah", updated.Title)
	require.False(t, updated.IsAvailable)
}

func TestRepository_IssueBook_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository(zap.NewExample())

	book, err := repo.CreateBook(ctx, model.CreateBookRequest{Title: "Dune"})
	require.NoError(t, err)

	const n = 32
	var issued, conflicts int64
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		readerID := int64(i + 1)
		g.Go(func() error {
			_, err := repo.IssueBook(ctx, readerID, book.ID)
			switch {
			case err == nil:
				atomic.AddInt64(&issued, 1)
			case errors.Is(err, errs.ErrBookUnavailable):
				atomic.AddInt64(&conflicts, 1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, int64(1), issued)
	require.Equal(t, int64(n-1), conflicts)

	// exactly one open issue exists for the book
	open, err := repo.FindOpenIssueByBook(ctx, book.ID)
	require.NoError(t, err)

	_, err = repo.ReturnBook(ctx, open.ID)
	require.NoError(t, err)
	_, err = repo.FindOpenIssueByBook(ctx, book.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

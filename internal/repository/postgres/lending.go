package postgres

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libtrack/lending-service/internal/errs"
	"github.com/libtrack/lending-service/internal/model"
)

// IssueBook runs the issue transition in one transaction. The availability
// flip is a compare-and-swap: zero rows updated means the book is either
// absent or already on loan, and the follow-up read tells which. No retry on
// conflict.
func (r *repository) IssueBook(ctx context.Context, readerID, bookID int64) (model.Issue, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return model.Issue{}, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx,
		`update books set is_available = false where id = $1 and is_available`, bookID)
	if err != nil {
		return model.Issue{}, err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx,
			`select exists(select 1 from books where id = $1)`, bookID).Scan(&exists); err != nil {
			return model.Issue{}, err
		}
		if !exists {
			return model.Issue{}, errs.ErrNotFound
		}
		return model.Issue{}, errs.ErrBookUnavailable
	}

	query, args, err := qb.Insert(issuesTableName).
		Columns("id", "reader_id", "book_id", "issue_date").
		Values(uuid.New(), readerID, bookID, time.Now().UTC()).
		Suffix("returning " + issueColumns).
		ToSql()
	if err != nil {
		return model.Issue{}, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return model.Issue{}, err
	}
	issue, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Issue])
	if err != nil {
		// the partial unique index on open issues backs the CAS up
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.Issue{}, errs.ErrBookUnavailable
		}
		r.log.Error("IssueBook insert", zap.String("q", query), zap.Any("args", args))
		return model.Issue{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Issue{}, errors.Wrap(err, "commit tx")
	}
	return issue, nil
}

// ReturnBook closes the issue and restores availability in one transaction.
// The return-date write is conditional on the issue still being open, so a
// concurrent double return loses the race and gets ErrAlreadyReturned.
func (r *repository) ReturnBook(ctx context.Context, issueID string) (model.Issue, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return model.Issue{}, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	rows, err := tx.Query(ctx,
		`update issues set return_date = $2
		where id = $1 and return_date is null
		returning `+issueColumns, issueID, time.Now().UTC())
	if err != nil {
		return model.Issue{}, err
	}
	issue, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Issue])
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return model.Issue{}, err
		}
		var exists bool
		if err := tx.QueryRow(ctx,
			`select exists(select 1 from issues where id = $1)`, issueID).Scan(&exists); err != nil {
			return model.Issue{}, err
		}
		if !exists {
			return model.Issue{}, errs.ErrNotFound
		}
		return model.Issue{}, errs.ErrAlreadyReturned
	}

	tag, err := tx.Exec(ctx,
		`update books set is_available = true where id = $1`, issue.BookID)
	if err != nil {
		return model.Issue{}, err
	}
	if tag.RowsAffected() == 0 {
		// dangling book reference; roll back so the issue stays open
		return model.Issue{}, errs.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Issue{}, errors.Wrap(err, "commit tx")
	}
	return issue, nil
}

func (r *repository) GetIssue(ctx context.Context, issueID string) (model.Issue, error) {
	query, args, err := qb.Select(issueColumns).
		From(issuesTableName).
		Where(sq.Eq{"id": issueID}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Issue{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Issue{}, err
	}
	defer rows.Close()
	return collectOne[model.Issue](rows)
}

func (r *repository) FindOpenIssueByBook(ctx context.Context, bookID int64) (model.Issue, error) {
	query, args, err := qb.Select(issueColumns).
		From(issuesTableName).
		Where(sq.Eq{"book_id": bookID}).
		Where("return_date is null").
		Limit(1).
		ToSql()
	if err != nil {
		return model.Issue{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Issue{}, err
	}
	defer rows.Close()
	return collectOne[model.Issue](rows)
}

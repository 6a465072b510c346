// Package postgres is the Repository implementation over pgx. Entity CRUD
// lives here; the atomic lending transitions are in lending.go.
package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libtrack/lending-service/internal/errs"
	"github.com/libtrack/lending-service/internal/model"
)

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	readersTableName = `readers`
	booksTableName   = `books`
	authorsTableName = `authors`
	genresTableName  = `genres`
	issuesTableName  = `issues`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	readerColumns = `id, name, email, phone, registration_date`
	bookColumns   = `id, title, author, genre, year, is_available`
	authorColumns = `id, first_name, last_name, bio`
	genreColumns  = `id, name`
	issueColumns  = `id, reader_id, book_id, issue_date, return_date`
)

func collectOne[T any](rows pgx.Rows) (T, error) {
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		var zero T
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, errs.ErrNotFound
		}
		return zero, err
	}
	return item, nil
}

func (r *repository) CreateReader(ctx context.Context, req model.CreateReaderRequest) (model.Reader, error) {
	query, args, err := qb.Insert(readersTableName).
		Columns("name", "email", "phone").
		Values(req.Name, req.Email, req.Phone).
		Suffix("returning " + readerColumns).
		ToSql()
	if err != nil {
		return model.Reader{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Reader{}, err
	}
	defer rows.Close()
	return collectOne[model.Reader](rows)
}

func (r *repository) ListReaders(ctx context.Context) ([]model.Reader, error) {
	return list[model.Reader](ctx, r.db, readersTableName, readerColumns)
}

func (r *repository) GetReader(ctx context.Context, id int64) (model.Reader, error) {
	return get[model.Reader](ctx, r.db, readersTableName, readerColumns, id)
}

func (r *repository) UpdateReader(ctx context.Context, id int64, req model.UpdateReaderRequest) (model.Reader, error) {
	q := qb.Update(readersTableName).Where(sq.Eq{"id": id}).Suffix("returning " + readerColumns)
	dirty := false
	if req.Name != nil {
		q, dirty = q.Set("name", *req.Name), true
	}
	if req.Email != nil {
		q, dirty = q.Set("email", *req.Email), true
	}
	if req.Phone != nil {
		q, dirty = q.Set("phone", *req.Phone), true
	}
	if !dirty {
		return r.GetReader(ctx, id)
	}
	return update[model.Reader](ctx, r.db, q)
}

func (r *repository) DeleteReader(ctx context.Context, id int64) error {
	return del(ctx, r.db, readersTableName, id)
}

func (r *repository) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	// is_available is not part of the insert: new books default to available
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "genre", "year").
		Values(req.Title, req.Author, req.Genre, req.Year).
		Suffix("returning " + bookColumns).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Book{}, err
	}
	defer rows.Close()
	return collectOne[model.Book](rows)
}

func (r *repository) ListBooks(ctx context.Context) ([]model.Book, error) {
	return list[model.Book](ctx, r.db, booksTableName, bookColumns)
}

func (r *repository) GetBook(ctx context.Context, id int64) (model.Book, error) {
	return get[model.Book](ctx, r.db, booksTableName, bookColumns, id)
}

func (r *repository) UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (model.Book, error) {
	q := qb.Update(booksTableName).Where(sq.Eq{"id": id}).Suffix("returning " + bookColumns)
	dirty := false
	if req.Title != nil {
		q, dirty = q.Set("title", *req.Title), true
	}
	if req.Author != nil {
		q, dirty = q.Set("author", *req.Author), true
	}
	if req.Genre != nil {
		q, dirty = q.Set("genre", *req.Genre), true
	}
	if req.Year != nil {
		q, dirty = q.Set("year", *req.Year), true
	}
	if !dirty {
		return r.GetBook(ctx, id)
	}
	return update[model.Book](ctx, r.db, q)
}

func (r *repository) DeleteBook(ctx context.Context, id int64) error {
	return del(ctx, r.db, booksTableName, id)
}

func (r *repository) CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error) {
	query, args, err := qb.Insert(authorsTableName).
		Columns("first_name", "last_name", "bio").
		Values(req.FirstName, req.LastName, req.Bio).
		Suffix("returning " + authorColumns).
		ToSql()
	if err != nil {
		return model.Author{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Author{}, err
	}
	defer rows.Close()
	return collectOne[model.Author](rows)
}

func (r *repository) ListAuthors(ctx context.Context) ([]model.Author, error) {
	return list[model.Author](ctx, r.db, authorsTableName, authorColumns)
}

func (r *repository) GetAuthor(ctx context.Context, id int64) (model.Author, error) {
	return get[model.Author](ctx, r.db, authorsTableName, authorColumns, id)
}

func (r *repository) UpdateAuthor(ctx context.Context, id int64, req model.UpdateAuthorRequest) (model.Author, error) {
	q := qb.Update(authorsTableName).Where(sq.Eq{"id": id}).Suffix("returning " + authorColumns)
	dirty := false
	if req.FirstName != nil {
		q, dirty = q.Set("first_name", *req.FirstName), true
	}
	if req.LastName != nil {
		q, dirty = q.Set("last_name", *req.LastName), true
	}
	if req.Bio != nil {
		q, dirty = q.Set("bio", *req.Bio), true
	}
	if !dirty {
		return r.GetAuthor(ctx, id)
	}
	return update[model.Author](ctx, r.db, q)
}

func (r *repository) DeleteAuthor(ctx context.Context, id int64) error {
	return del(ctx, r.db, authorsTableName, id)
}

func (r *repository) CreateGenre(ctx context.Context, req model.CreateGenreRequest) (model.Genre, error) {
	query, args, err := qb.Insert(genresTableName).
		Columns("name").
		Values(req.Name).
		Suffix("returning " + genreColumns).
		ToSql()
	if err != nil {
		return model.Genre{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.Genre{}, errs.ErrGenreExists
		}
		return model.Genre{}, err
	}
	defer rows.Close()
	genre, err := collectOne[model.Genre](rows)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.Genre{}, errs.ErrGenreExists
		}
		return model.Genre{}, err
	}
	return genre, nil
}

func (r *repository) ListGenres(ctx context.Context) ([]model.Genre, error) {
	return list[model.Genre](ctx, r.db, genresTableName, genreColumns)
}

func (r *repository) GetGenre(ctx context.Context, id int64) (model.Genre, error) {
	return get[model.Genre](ctx, r.db, genresTableName, genreColumns, id)
}

func (r *repository) UpdateGenre(ctx context.Context, id int64, req model.UpdateGenreRequest) (model.Genre, error) {
	q := qb.Update(genresTableName).Where(sq.Eq{"id": id}).Suffix("returning " + genreColumns)
	if req.Name == nil {
		return r.GetGenre(ctx, id)
	}
	q = q.Set("name", *req.Name)
	return update[model.Genre](ctx, r.db, q)
}

func (r *repository) DeleteGenre(ctx context.Context, id int64) error {
	return del(ctx, r.db, genresTableName, id)
}

func list[T any](ctx context.Context, db *pgxpool.Pool, table, columns string) ([]T, error) {
	query, args, err := qb.Select(columns).From(table).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return items, nil
}

func get[T any](ctx context.Context, db *pgxpool.Pool, table, columns string, id int64) (T, error) {
	var zero T
	query, args, err := qb.Select(columns).From(table).Where(sq.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return zero, err
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return zero, err
	}
	defer rows.Close()
	return collectOne[T](rows)
}

func update[T any](ctx context.Context, db *pgxpool.Pool, q sq.UpdateBuilder) (T, error) {
	var zero T
	query, args, err := q.ToSql()
	if err != nil {
		return zero, err
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return zero, err
	}
	defer rows.Close()
	return collectOne[T](rows)
}

func del(ctx context.Context, db *pgxpool.Pool, table string, id int64) error {
	query, args, err := qb.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Package memory is the in-memory Repository implementation. One mutex
// guards all tables, which also makes each lending transition a single
// critical section.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/libtrack/lending-service/internal/errs"
	"github.com/libtrack/lending-service/internal/model"
)

type repository struct {
	log *zap.Logger

	mu      sync.Mutex
	readers map[int64]model.Reader
	books   map[int64]model.Book
	authors map[int64]model.Author
	genres  map[int64]model.Genre
	issues  map[string]model.Issue

	// id sequences are monotonic and never reused after deletion
	readerSeq int64
	bookSeq   int64
	authorSeq int64
	genreSeq  int64
}

func NewRepository(log *zap.Logger) *repository {
	return &repository{
		log:     log.Named("repo"),
		readers: make(map[int64]model.Reader),
		books:   make(map[int64]model.Book),
		authors: make(map[int64]model.Author),
		genres:  make(map[int64]model.Genre),
		issues:  make(map[string]model.Issue),
	}
}

func (r *repository) CreateReader(_ context.Context, req model.CreateReaderRequest) (model.Reader, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.readerSeq++
	reader := model.Reader{
		ID:               r.readerSeq,
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		RegistrationDate: time.Now().UTC(),
	}
	r.readers[reader.ID] = reader
	return reader, nil
}

func (r *repository) ListReaders(_ context.Context) ([]model.Reader, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]model.Reader, 0, len(r.readers))
	for _, reader := range r.readers {
		items = append(items, reader)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *repository) GetReader(_ context.Context, id int64) (model.Reader, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reader, ok := r.readers[id]
	if !ok {
		return model.Reader{}, errs.ErrNotFound
	}
	return reader, nil
}

func (r *repository) UpdateReader(_ context.Context, id int64, req model.UpdateReaderRequest) (model.Reader, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reader, ok := r.readers[id]
	if !ok {
		return model.Reader{}, errs.ErrNotFound
	}
	if req.Name != nil {
		reader.Name = *req.Name
	}
	if req.Email != nil {
		reader.Email = *req.Email
	}
	if req.Phone != nil {
		reader.Phone = *req.Phone
	}
	r.readers[id] = reader
	return reader, nil
}

func (r *repository) DeleteReader(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.readers[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.readers, id)
	return nil
}

func (r *repository) CreateBook(_ context.Context, req model.CreateBookRequest) (model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bookSeq++
	// a new book is always available, whatever the caller sent
	book := model.Book{
		ID:          r.bookSeq,
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Year:        req.Year,
		IsAvailable: true,
	}
	r.books[book.ID] = book
	return book, nil
}

func (r *repository) ListBooks(_ context.Context) ([]model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]model.Book, 0, len(r.books))
	for _, book := range r.books {
		items = append(items, book)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *repository) GetBook(_ context.Context, id int64) (model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	return book, nil
}

func (r *repository) UpdateBook(_ context.Context, id int64, req model.UpdateBookRequest) (model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Genre != nil {
		book.Genre = *req.Genre
	}
	if req.Year != nil {
		book.Year = *req.Year
	}
	r.books[id] = book
	return book, nil
}

func (r *repository) DeleteBook(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *repository) CreateAuthor(_ context.Context, req model.CreateAuthorRequest) (model.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.authorSeq++
	author := model.Author{
		ID:        r.authorSeq,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	}
	r.authors[author.ID] = author
	return author, nil
}

func (r *repository) ListAuthors(_ context.Context) ([]model.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]model.Author, 0, len(r.authors))
	for _, author := range r.authors {
		items = append(items, author)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *repository) GetAuthor(_ context.Context, id int64) (model.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	author, ok := r.authors[id]
	if !ok {
		return model.Author{}, errs.ErrNotFound
	}
	return author, nil
}

func (r *repository) UpdateAuthor(_ context.Context, id int64, req model.UpdateAuthorRequest) (model.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	author, ok := r.authors[id]
	if !ok {
		return model.Author{}, errs.ErrNotFound
	}
	if req.FirstName != nil {
		author.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		author.LastName = *req.LastName
	}
	if req.Bio != nil {
		author.Bio = *req.Bio
	}
	r.authors[id] = author
	return author, nil
}

func (r *repository) DeleteAuthor(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.authors[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.authors, id)
	return nil
}

func (r *repository) CreateGenre(_ context.Context, req model.CreateGenreRequest) (model.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.genreSeq++
	genre := model.Genre{
		ID:   r.genreSeq,
		Name: req.Name,
	}
	r.genres[genre.ID] = genre
	return genre, nil
}

func (r *repository) ListGenres(_ context.Context) ([]model.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]model.Genre, 0, len(r.genres))
	for _, genre := range r.genres {
		items = append(items, genre)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *repository) GetGenre(_ context.Context, id int64) (model.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	genre, ok := r.genres[id]
	if !ok {
		return model.Genre{}, errs.ErrNotFound
	}
	return genre, nil
}

func (r *repository) UpdateGenre(_ context.Context, id int64, req model.UpdateGenreRequest) (model.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	genre, ok := r.genres[id]
	if !ok {
		return model.Genre{}, errs.ErrNotFound
	}
	if req.Name != nil {
		genre.Name = *req.Name
	}
	r.genres[id] = genre
	return genre, nil
}

func (r *repository) DeleteGenre(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.genres[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.genres, id)
	return nil
}

func (r *repository) IssueBook(_ context.Context, readerID, bookID int64) (model.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[bookID]
	if !ok {
		return model.Issue{}, errs.ErrNotFound
	}
	if !book.IsAvailable {
		return model.Issue{}, errs.ErrBookUnavailable
	}

	book.IsAvailable = false
	r.books[bookID] = book

	issue := model.Issue{
		ID:        uuid.NewString(),
		ReaderID:  readerID,
		BookID:    bookID,
		IssueDate: time.Now().UTC(),
	}
	r.issues[issue.ID] = issue
	return issue, nil
}

func (r *repository) ReturnBook(_ context.Context, issueID string) (model.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	issue, ok := r.issues[issueID]
	if !ok {
		return model.Issue{}, errs.ErrNotFound
	}
	if issue.ReturnDate != nil {
		return model.Issue{}, errs.ErrAlreadyReturned
	}
	book, ok := r.books[issue.BookID]
	if !ok {
		// book was deleted while on loan; leave the issue open
		return model.Issue{}, errs.ErrNotFound
	}

	book.IsAvailable = true
	r.books[issue.BookID] = book

	now := time.Now().UTC()
	issue.ReturnDate = &now
	r.issues[issueID] = issue
	return issue, nil
}

func (r *repository) GetIssue(_ context.Context, issueID string) (model.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	issue, ok := r.issues[issueID]
	if !ok {
		return model.Issue{}, errs.ErrNotFound
	}
	return issue, nil
}

func (r *repository) FindOpenIssueByBook(_ context.Context, bookID int64) (model.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, issue := range r.issues {
		if issue.BookID == bookID && issue.ReturnDate == nil {
			return issue, nil
		}
	}
	return model.Issue{}, errs.ErrNotFound
}

package model

import (
	"time"
)

type Reader struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Email            string    `json:"email" db:"email"`
	Phone            string    `json:"phone" db:"phone"`
	RegistrationDate time.Time `json:"registrationDate" db:"registration_date"`
}

type CreateReaderRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
}

type UpdateReaderRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone"`
}

type Book struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Author      string `json:"author" db:"author"`
	Genre       string `json:"genre" db:"genre"`
	Year        int    `json:"year" db:"year"`
	IsAvailable bool   `json:"isAvailable" db:"is_available"`
}

type CreateBookRequest struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
	Year   int    `json:"year"`
}

// UpdateBookRequest carries no availability field: the flag is written only
// by the lending engine.
type UpdateBookRequest struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Genre  *string `json:"genre"`
	Year   *int    `json:"year"`
}

type Author struct {
	ID        int64  `json:"id" db:"id"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
	Bio       string `json:"bio" db:"bio"`
}

type CreateAuthorRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"`
	Bio       string `json:"bio"`
}

type UpdateAuthorRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Bio       *string `json:"bio"`
}

type Genre struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type CreateGenreRequest struct {
	Name string `json:"name" validate:"required"`
}

type UpdateGenreRequest struct {
	Name *string `json:"name"`
}

// Issue is the record of lending one book to one reader. ReturnDate stays
// nil while the book is on loan and is set exactly once on return.
type Issue struct {
	ID         string     `json:"id" db:"id"`
	ReaderID   int64      `json:"readerId" db:"reader_id"`
	BookID     int64      `json:"bookId" db:"book_id"`
	IssueDate  time.Time  `json:"issueDate" db:"issue_date"`
	ReturnDate *time.Time `json:"returnDate" db:"return_date"`
}

type IssueBookRequest struct {
	ReaderID int64 `json:"readerId" validate:"required"`
	BookID   int64 `json:"bookId" validate:"required"`
}

type EventType string

const (
	EventBookIssued   EventType = "book.issued"
	EventBookReturned EventType = "book.returned"
)

type LendingEvent struct {
	Type     EventType `json:"type"`
	IssueID  string    `json:"issueId"`
	ReaderID int64     `json:"readerId"`
	BookID   int64     `json:"bookId"`
	At       time.Time `json:"at"`
}

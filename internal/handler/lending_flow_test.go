package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/libtrack/lending-service/internal/handler"
	"github.com/libtrack/lending-service/internal/model"
	"github.com/libtrack/lending-service/internal/repository/memory"
	"github.com/libtrack/lending-service/internal/service"
)

// newApp wires the real services over the in-memory repository, so the test
// drives the same stack the binary runs with (minus Postgres and Kafka).
func newApp(t *testing.T) *echo.Echo {
	t.Helper()
	log := zap.NewExample().Named("test")
	repo := memory.NewRepository(log)
	h := handler.New(
		service.NewReaders(repo, log),
		service.NewCatalog(repo, log),
		service.NewLending(repo, nil, log),
		log,
	)
	return h.NewRouter()
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	if out != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

func TestLendingFlow(t *testing.T) {
	e := newApp(t)

	var reader model.Reader
	w := doJSON(t, e, http.MethodPost, "/readers", `{"name":"Paul","email":"paul@arrakis.io"}`, &reader)
	require.Equal(t, http.StatusOK, w.Code)

	var other model.Reader
	w = doJSON(t, e, http.MethodPost, "/readers", `{"name":"Chani"}`, &other)
	require.Equal(t, http.StatusOK, w.Code)

	var book model.Book
	w = doJSON(t, e, http.MethodPost, "/books", `{"title":"Dune"}`, &book)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, book.IsAvailable)

	// issue the book to the first reader
	var issue model.Issue
	w = doJSON(t, e, http.MethodPost, "/issues",
		`{"readerId":`+itoa(reader.ID)+`,"bookId":`+itoa(book.ID)+`}`, &issue)
	require.Equal(t, http.StatusOK, w.Code)
	require.Nil(t, issue.ReturnDate)

	var books []model.Book
	w = doJSON(t, e, http.MethodGet, "/books", "", &books)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, books, 1)
	require.False(t, books[0].IsAvailable)

	// the same book for another reader conflicts
	w = doJSON(t, e, http.MethodPost, "/issues",
		`{"readerId":`+itoa(other.ID)+`,"bookId":`+itoa(book.ID)+`}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "book is not available")

	// return restores availability and closes the issue
	var returned model.Issue
	w = doJSON(t, e, http.MethodPost, "/returns/"+issue.ID, "", &returned)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, returned.ReturnDate)
	require.False(t, returned.ReturnDate.Before(returned.IssueDate))

	w = doJSON(t, e, http.MethodGet, "/books", "", &books)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, books[0].IsAvailable)

	// a second return of the same issue is a conflict
	w = doJSON(t, e, http.MethodPost, "/returns/"+issue.ID, "", nil)
	require.Equal(t, http.StatusConflict, w.Code)

	// returning an unknown issue is not found
	w = doJSON(t, e, http.MethodPost, "/returns/5db5a5a5-6c5f-41b2-a111-c379a5e7a000", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// lenient delete of a missing reader still reports success
	w = doJSON(t, e, http.MethodDelete, "/readers/999", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Reader deleted")
}

func TestCatalogCRUDFlow(t *testing.T) {
	e := newApp(t)

	var author model.Author
	w := doJSON(t, e, http.MethodPost, "/authors", `{"firstName":"Frank","lastName":"Herbert"}`, &author)
	require.Equal(t, http.StatusOK, w.Code)

	var updated model.Author
	w = doJSON(t, e, http.MethodPut, "/authors/"+itoa(author.ID), `{"bio":"wrote Dune"}`, &updated)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Frank", updated.FirstName)
	require.Equal(t, "wrote Dune", updated.Bio)

	w = doJSON(t, e, http.MethodPut, "/authors/999", `{"bio":"nobody"}`, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var genre model.Genre
	w = doJSON(t, e, http.MethodPost, "/genres", `{"name":"sci-fi"}`, &genre)
	require.Equal(t, http.StatusOK, w.Code)

	var genres []model.Genre
	w = doJSON(t, e, http.MethodGet, "/genres", "", &genres)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, genres, 1)

	w = doJSON(t, e, http.MethodDelete, "/genres/"+itoa(genre.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Genre deleted")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/libtrack/lending-service/internal/errs"
	"github.com/libtrack/lending-service/internal/model"
)

// IssueBook hands a book to a reader. An unavailable book is an expected
// outcome, answered with 400, not an error worth a retry.
func (h *Handler) IssueBook(c echo.Context) error {
	var req model.IssueBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	issue, err := h.lendingSvc.Issue(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, errs.ErrBookUnavailable):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, issue)
}

func (h *Handler) ReturnBook(c echo.Context) error {
	issueID := c.Param("id")
	if issueID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "issue id is empty")
	}
	issue, err := h.lendingSvc.Return(c.Request().Context(), issueID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, errs.ErrAlreadyReturned):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, issue)
}

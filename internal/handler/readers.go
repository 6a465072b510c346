package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/libtrack/lending-service/internal/errs"
	"github.com/libtrack/lending-service/internal/model"
)

func (h *Handler) CreateReader(c echo.Context) error {
	var req model.CreateReaderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	reader, err := h.readerSvc.CreateReader(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, reader)
}

func (h *Handler) ListReaders(c echo.Context) error {
	readers, err := h.readerSvc.ListReaders(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, readers)
}

func (h *Handler) UpdateReader(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req model.UpdateReaderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	reader, err := h.readerSvc.UpdateReader(c.Request().Context(), id, req)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, reader)
}

// DeleteReader is lenient: deleting an id that is already gone still reports
// success.
func (h *Handler) DeleteReader(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.readerSvc.DeleteReader(c.Request().Context(), id); err != nil && !errors.Is(err, errs.ErrNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Reader deleted"})
}

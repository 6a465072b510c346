package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/libtrack/lending-service/internal/errs"
	"github.com/libtrack/lending-service/internal/model"
)

func (h *Handler) CreateGenre(c echo.Context) error {
	var req model.CreateGenreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	genre, err := h.catalogSvc.CreateGenre(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, errs.ErrGenreExists) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, genre)
}

func (h *Handler) ListGenres(c echo.Context) error {
	genres, err := h.catalogSvc.ListGenres(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, genres)
}

func (h *Handler) UpdateGenre(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req model.UpdateGenreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	genre, err := h.catalogSvc.UpdateGenre(c.Request().Context(), id, req)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, genre)
}

func (h *Handler) DeleteGenre(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.catalogSvc.DeleteGenre(c.Request().Context(), id); err != nil && !errors.Is(err, errs.ErrNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Genre deleted"})
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	md "github.com/libtrack/lending-service/pkg/middleware"
	"github.com/libtrack/lending-service/pkg/validate"
)

type Handler struct {
	readerSvc  ReaderService
	catalogSvc CatalogService
	lendingSvc LendingService
	log        *zap.Logger
}

func New(readerSvc ReaderService, catalogSvc CatalogService, lendingSvc LendingService, log *zap.Logger) *Handler {
	return &Handler{
		readerSvc:  readerSvc,
		catalogSvc: catalogSvc,
		lendingSvc: lendingSvc,
		log:        log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/readers", h.CreateReader)
	api.GET("/readers", h.ListReaders)
	api.PUT("/readers/:id", h.UpdateReader)
	api.DELETE("/readers/:id", h.DeleteReader)

	api.POST("/books", h.CreateBook)
	api.GET("/books", h.ListBooks)
	api.PUT("/books/:id", h.UpdateBook)
	api.DELETE("/books/:id", h.DeleteBook)

	api.POST("/authors", h.CreateAuthor)
	api.GET("/authors", h.ListAuthors)
	api.PUT("/authors/:id", h.UpdateAuthor)
	api.DELETE("/authors/:id", h.DeleteAuthor)

	api.POST("/genres", h.CreateGenre)
	api.GET("/genres", h.ListGenres)
	api.PUT("/genres/:id", h.UpdateGenre)
	api.DELETE("/genres/:id", h.DeleteGenre)

	api.POST("/issues", h.IssueBook)
	api.POST("/returns/:id", h.ReturnBook)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is invalid")
	}
	return id, nil
}

package router

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/news-aggregator/internal/article"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
)

type SourceRouter struct {
	e        *echo.Echo
	articles *article.Service
}

func NewSourceRouter(e *echo.Echo, articles *article.Service) *SourceRouter {
	return &SourceRouter{e: e, articles: articles}
}

func (r *SourceRouter) Bind() {
	r.e.GET("/api/sources", r.listHandler)
	r.e.GET("/api/sources/:id", r.getHandler)
}

// listHandler godoc
// @Summary List sources
// @Tags Sources
// @Produce json
// @Success 200 {array} domain.SourceWithCount
// @Router /api/sources [get]
func (r *SourceRouter) listHandler(c echo.Context) error {
	sources, err := r.articles.Sources(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sources)
}

// getHandler godoc
// @Summary Get a source
// @Tags Sources
// @Produce json
// @Param id path string true "Source ID"
// @Success 200 {object} domain.SourceWithCount
// @Failure 404 {object} map[string]string
// @Router /api/sources/{id} [get]
func (r *SourceRouter) getHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return storage.ErrNotFound
	}

	src, err := r.articles.SourceByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, src)
}

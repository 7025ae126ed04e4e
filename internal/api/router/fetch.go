package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/article"
)

type FetchRouter struct {
	e           *echo.Echo
	aggregator  article.Aggregator
	requireAuth echo.MiddlewareFunc
}

func NewFetchRouter(e *echo.Echo, aggregator article.Aggregator, requireAuth echo.MiddlewareFunc) *FetchRouter {
	return &FetchRouter{e: e, aggregator: aggregator, requireAuth: requireAuth}
}

func (r *FetchRouter) Bind() {
	r.e.POST("/api/fetch", r.fetchHandler, r.requireAuth)
}

// fetchHandler godoc
// @Summary Fetch from providers
// @Description Runs one aggregation over the selected sources, or all of them when none are given.
// @Tags Fetch
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body FetchRequest false "Fetch parameters"
// @Success 200 {object} domain.FetchStatistics
// @Failure 400 {object} map[string]string
// @Router /api/fetch [post]
func (r *FetchRouter) fetchHandler(c echo.Context) error {
	var req FetchRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return apperr.NewValidationWrap("invalid request body", err)
		}
	}

	keys, params, err := parseFetchRequest(req)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if len(keys) > 0 {
		return c.JSON(http.StatusOK, r.aggregator.RunSelected(ctx, keys, params))
	}
	return c.JSON(http.StatusOK, r.aggregator.RunAll(ctx, params))
}

package router

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/news-aggregator/internal/article"
	"github.com/DjordjeVuckovic/news-aggregator/internal/auth"
	"github.com/DjordjeVuckovic/news-aggregator/internal/preference"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
)

type ArticleRouter struct {
	e           *echo.Echo
	articles    *article.Service
	preferences *preference.Service
	requireAuth echo.MiddlewareFunc
}

func NewArticleRouter(e *echo.Echo, articles *article.Service, preferences *preference.Service, requireAuth echo.MiddlewareFunc) *ArticleRouter {
	return &ArticleRouter{
		e:           e,
		articles:    articles,
		preferences: preferences,
		requireAuth: requireAuth,
	}
}

func (r *ArticleRouter) Bind() {
	g := r.e.Group("/api/articles")
	g.GET("", r.listHandler)
	g.GET("/meta/categories", r.categoriesHandler)
	g.GET("/meta/authors", r.authorsHandler)
	g.GET("/personalized/feed", r.personalizedHandler, r.requireAuth)
	g.GET("/:id", r.getHandler)
}

// listHandler godoc
// @Summary List articles
// @Description Filtered, paginated articles. A search with no stored match fetches from the providers once.
// @Tags Articles
// @Produce json
// @Param search_query query string false "Search in title, description and content"
// @Param from_date query string false "Published on or after (2006-01-02 or RFC3339)"
// @Param to_date query string false "Published on or before (2006-01-02 or RFC3339)"
// @Param article_category query string false "Exact category"
// @Param source_key query string false "Comma separated source keys"
// @Param author_name query string false "Partial author name"
// @Param sort_order query string false "asc or desc" Enums(asc, desc)
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page (max 100)"
// @Success 200 {object} ArticleListResponse
// @Failure 400 {object} map[string]string
// @Router /api/articles [get]
func (r *ArticleRouter) listHandler(c echo.Context) error {
	filter, err := parseArticleFilter(c)
	if err != nil {
		return err
	}

	result, err := r.articles.QueryWithAutoFetch(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	message := "Articles retrieved successfully"
	if result.AutoFetch {
		message = "Articles retrieved successfully (auto-fetched from news sources)"
	}

	return c.JSON(http.StatusOK, ArticleListResponse{
		OffsetResult: pagination.NewOffsetResult(
			newArticleResponses(result.Page.Items), result.Page.Total, filter.Page, filter.PerPage),
		AutoFetch:  result.AutoFetch,
		FetchStats: result.Stats,
		Message:    message,
	})
}

// getHandler godoc
// @Summary Get an article
// @Tags Articles
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} ArticleResponse
// @Failure 404 {object} map[string]string
// @Router /api/articles/{id} [get]
func (r *ArticleRouter) getHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return storage.ErrNotFound
	}

	a, err := r.articles.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newArticleResponse(*a))
}

// categoriesHandler godoc
// @Summary List distinct categories
// @Tags Articles
// @Produce json
// @Success 200 {array} string
// @Router /api/articles/meta/categories [get]
func (r *ArticleRouter) categoriesHandler(c echo.Context) error {
	categories, err := r.articles.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

// authorsHandler godoc
// @Summary List distinct authors
// @Tags Articles
// @Produce json
// @Success 200 {array} string
// @Router /api/articles/meta/authors [get]
func (r *ArticleRouter) authorsHandler(c echo.Context) error {
	authors, err := r.articles.Authors(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authors)
}

// personalizedHandler godoc
// @Summary Personalized feed
// @Description Newest articles matching the saved preferences of the caller.
// @Tags Articles
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page (max 100)"
// @Success 200 {object} pagination.OffsetResult[ArticleResponse]
// @Failure 401 {object} map[string]string
// @Router /api/articles/personalized/feed [get]
func (r *ArticleRouter) personalizedHandler(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return echo.ErrUnauthorized
	}

	page, err := parseOffset(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	prefs, err := r.preferences.Get(ctx, userID)
	if err != nil {
		return err
	}

	result, err := r.articles.Personalized(ctx, prefs, page.Page, page.PerPage)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pagination.NewOffsetResult(
		newArticleResponses(result.Items), result.Total, page.Page, page.PerPage))
}

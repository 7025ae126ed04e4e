package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/auth"
	"github.com/DjordjeVuckovic/news-aggregator/internal/preference"
)

type PreferenceRouter struct {
	e           *echo.Echo
	preferences *preference.Service
	requireAuth echo.MiddlewareFunc
}

func NewPreferenceRouter(e *echo.Echo, preferences *preference.Service, requireAuth echo.MiddlewareFunc) *PreferenceRouter {
	return &PreferenceRouter{e: e, preferences: preferences, requireAuth: requireAuth}
}

func (r *PreferenceRouter) Bind() {
	g := r.e.Group("/api/preferences", r.requireAuth)
	g.GET("", r.getHandler)
	g.PUT("", r.updateHandler)
	g.DELETE("", r.resetHandler)
}

// getHandler godoc
// @Summary Get preferences
// @Tags Preferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} PreferencesResponse
// @Failure 401 {object} map[string]string
// @Router /api/preferences [get]
func (r *PreferenceRouter) getHandler(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return echo.ErrUnauthorized
	}

	prefs, err := r.preferences.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, PreferencesResponse{UserID: userID, Preferences: prefs})
}

// updateHandler godoc
// @Summary Replace preferences
// @Tags Preferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PreferencesRequest true "Preferences"
// @Success 200 {object} PreferencesResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/preferences [put]
func (r *PreferenceRouter) updateHandler(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return echo.ErrUnauthorized
	}

	var req PreferencesRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if req.Preferences == nil {
		return apperr.NewValidation("preferences is required")
	}

	saved, err := r.preferences.Update(c.Request().Context(), userID, *req.Preferences)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, PreferencesResponse{UserID: userID, Preferences: saved})
}

// resetHandler godoc
// @Summary Reset preferences
// @Tags Preferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} map[string]string
// @Router /api/preferences [delete]
func (r *PreferenceRouter) resetHandler(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return echo.ErrUnauthorized
	}

	if err := r.preferences.Reset(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Preferences reset successfully"})
}

// Package main News Aggregator API
// @title News Aggregator API
// @version 1.0
// @description Aggregates articles from NewsAPI, The Guardian and The New York Times behind one searchable API
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"

	_ "github.com/DjordjeVuckovic/news-aggregator/docs"
	"github.com/DjordjeVuckovic/news-aggregator/internal/api/router"
	"github.com/DjordjeVuckovic/news-aggregator/internal/api/server"
	"github.com/DjordjeVuckovic/news-aggregator/internal/app"
	"github.com/DjordjeVuckovic/news-aggregator/internal/auth"
	"github.com/DjordjeVuckovic/news-aggregator/internal/config"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/scheduler"
)

func main() {
	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}
	config.SetupLogger(cfg.Settings.LogLevel)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	verifier, err := auth.NewVerifier(cfg.Settings.Auth.JWTSecret)
	if err != nil {
		slog.Error("Failed to configure authentication", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg.Settings, cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if _, err := a.Sources.Seed(ctx); err != nil {
		slog.Warn("Failed to seed sources, they are created on first fetch", "error", err)
	}

	s := server.New(sCfg, a.Backend).
		SetupHealthChecks("/health").
		SetupMiddlewares().
		SetupErrorHandler().
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "News Aggregator API is running")
	})

	requireAuth := verifier.Middleware()
	router.NewArticleRouter(s.Echo, a.Articles, a.Preferences, requireAuth).Bind()
	router.NewSourceRouter(s.Echo, a.Articles).Bind()
	router.NewPreferenceRouter(s.Echo, a.Preferences, requireAuth).Bind()
	router.NewFetchRouter(s.Echo, a.Aggregator, requireAuth).Bind()

	done := make(chan struct{})
	if fetchCfg := cfg.Settings.Fetch; fetchCfg.Enabled {
		var opts []scheduler.Option
		if fetchCfg.RunOnStart {
			opts = append(opts, scheduler.WithRunOnStart())
		}
		sch := scheduler.New("fetch-articles", func(ctx context.Context) {
			a.Aggregator.RunAll(ctx, domain.FetchParams{})
		}, fetchCfg.Interval, opts...)

		go func() {
			defer close(done)
			sch.Start(s.Context())
		}()
	} else {
		slog.Info("Scheduled fetching disabled")
		close(done)
	}

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	err = s.Start()
	<-done
	if err != nil {
		slog.Error("Failed to start server", "error", err)
		a.Close()
		os.Exit(1)
	}
}

package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appconfig "github.com/novafetch/novafetch/config"
	"github.com/novafetch/novafetch/internal/aggregator"
	"github.com/novafetch/novafetch/internal/cache"
	"github.com/novafetch/novafetch/internal/recommend"
	"github.com/novafetch/novafetch/internal/store"
	"github.com/novafetch/novafetch/provider"
	"github.com/novafetch/novafetch/tools/discussion"
	"github.com/novafetch/novafetch/tools/video"
)

func Run(cfg *appconfig.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler: full detail server-side, static JSON out
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := "Internal server error"
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	if err := cfg.Providers.Gemini.Validate(); err != nil {
		return err
	}
	if err := cfg.Providers.YouTube.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	dsn, err := cfg.Databases.Postgres.DSN()
	if err != nil {
		return err
	}
	if err := Migrate("file://migrations", dsn, "up", 0); err != nil {
		log.Printf("migrate: %v", err)
	}
	st, err := store.NewWithDSN(ctx, dsn)
	if err != nil {
		return err
	}

	// The Redis layer is optional; a nil *Composites is a no-op.
	var hot *cache.Composites
	if cfg.Databases.Redis.Enabled() {
		hot, err = cache.New(ctx, cfg.Databases.Redis.Addr(), cfg.Databases.Redis.Pass, cfg.Databases.Redis.DB)
		if err != nil {
			return err
		}
	}

	llm, err := provider.NewProvider(provider.Gemini,
		cfg.Providers.Gemini.APIKey, cfg.Providers.Gemini.Model, cfg.Providers.Gemini.Timeout)
	if err != nil {
		return err
	}
	disc, err := discussion.NewSearcher(discussion.RedditProvider,
		cfg.Providers.Reddit.BaseURL, cfg.Providers.Reddit.UserAgent)
	if err != nil {
		return err
	}
	vid, err := video.NewSearcher(video.YouTubeProvider,
		cfg.Providers.YouTube.APIKey, cfg.Providers.YouTube.BaseURL)
	if err != nil {
		return err
	}

	agg := &aggregator.Aggregator{
		Discussion: disc,
		Video:      vid,
		LLM:        llm,
		Store:      st,
		Hot:        hot,
		Logger:     log.New(log.Writer(), "[AGG] ", log.LstdFlags),
	}
	eng := &recommend.Engine{Store: st, LLM: llm}

	e.Use(resolveIdentity([]byte(cfg.General.JWTSecret)))
	rh := &ReviewsHandler{
		Agg:    agg,
		Rec:    eng,
		Logger: log.New(log.Writer(), "[API] ", log.LstdFlags),
	}
	rh.Register(e)

	addr := cfg.General.Listen
	if addr == "" {
		addr = ":8080"
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}

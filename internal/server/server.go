// Package server wires the HTTP surface: chat turns, document turns, history
// read-back, and operational endpoints.
package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/jurema-br/nino/config"
	"github.com/jurema-br/nino/internal/chat"
	"github.com/jurema-br/nino/internal/document"
	"github.com/jurema-br/nino/internal/generation"
	"github.com/jurema-br/nino/internal/history"
	"github.com/jurema-br/nino/internal/telemetry"
)

// Run builds the full service from config and serves it on addr (falling back
// to server.address). Blocks until the listener stops.
func Run(cfg *config.Config, addr string) error {
	store, err := history.New(cfg.Storage, retentionTTL(cfg.Retention))
	if err != nil {
		return fmt.Errorf("history store: %w", err)
	}

	engine, err := generation.NewEngine(cfg.LLM)
	if err != nil {
		return fmt.Errorf("generation engine: %w", err)
	}

	metrics := telemetry.New(cfg.Telemetry)
	orch := chat.NewOrchestrator(engine, store, *cfg, metrics, nil)
	preprocessor := document.NewPreprocessor(cfg.Document, nil)

	sweeper, err := history.NewSweeper(store, cfg.Retention, nil)
	if err != nil {
		return fmt.Errorf("retention sweeper: %w", err)
	}
	if sweeper != nil {
		sweeper.Start()
		defer sweeper.Stop()
	}

	e := newEcho(metrics)
	h := &ChatHandler{
		Orch:         orch,
		Store:        store,
		Preprocessor: preprocessor,
	}
	h.Register(e)

	if addr == "" {
		addr = cfg.Server.Address
		if addr == "" {
			addr = ":8000"
		}
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}

// newEcho builds the echo instance with the shared middleware stack.
func newEcho(metrics *telemetry.Telemetry) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
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
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	return e
}

func retentionTTL(cfg config.RetentionConfig) time.Duration {
	if cfg.Enabled {
		return cfg.MaxAge
	}
	return 0
}

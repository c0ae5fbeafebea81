package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/acme/autocert"

	"blogapi/config"
	"blogapi/handler"
	"blogapi/store"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code once every deferred cleanup has run.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Errorf("invalid config: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := store.Open(ctx, store.Config{
		Driver:       cfg.DBDriver,
		DSN:          cfg.DBURL,
		MaxOpenConns: cfg.DBMaxConns,
		Debug:        cfg.LogLevel == log.DEBUG,
	})
	if err != nil {
		log.Errorf("store setup: %v", err)
		return 1
	}
	defer provider.Close()

	e := handler.NewRouter(&handler.Handler{Store: provider}, handler.RouterOptions{AccessLog: true})
	e.Logger.SetLevel(cfg.LogLevel)
	e.Logger.Infof("store ready (driver=%s, env=%s)", provider.Driver(), cfg.Environment)

	go func() {
		if err := start(e, cfg); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Errorf("server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	e.Logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Errorf("shutdown: %v", err)
		return 1
	}
	return 0
}

func start(e *echo.Echo, cfg config.Config) error {
	if !cfg.UseAutoTLS() {
		return e.Start(cfg.Address)
	}
	// Cache certificates to avoid issues with rate limits (https://letsencrypt.org/docs/rate-limits)
	e.AutoTLSManager.Cache = autocert.DirCache(cfg.CertCacheDir)
	if cfg.WhitelistHost != "" {
		e.AutoTLSManager.HostPolicy = autocert.HostWhitelist(cfg.WhitelistHost)
	}
	e.Pre(middleware.HTTPSRedirect())
	return e.StartAutoTLS(":443")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"swarmboard/api"
	"swarmboard/storage"
)

func main() {
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}

	dedupeWindow := 4096
	if v := os.Getenv("DEDUPER_WINDOW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Fatalf("invalid DEDUPER_WINDOW: %v", v)
		}
		dedupeWindow = n
	}
	deduper, err := api.NewLRUDeduper(dedupeWindow)
	if err != nil {
		log.Fatalf("deduper: %v", err)
	}

	store := storage.New()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(api.DecompressRequest())

	logger := log.New()
	api.Register(e, store, api.NewColorAssigner(), deduper, logger)

	if dir := os.Getenv("DASHBOARD_DIR"); dir != "" {
		e.Static("/", dir)
	}

	listenAddr := ":3333"
	if val, ok := os.LookupEnv("DASHBOARD_PORT"); ok {
		listenAddr = ":" + val
	}

	go func() {
		if err := e.Start(listenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()
	log.Infof("dashboard listening on %s", listenAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	// Shutdown clears the board; the dashboard holds nothing across runs.
	store.Reset()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/scenekit/scenekit/internal/config"
	"github.com/scenekit/scenekit/internal/engine"
	"github.com/scenekit/scenekit/internal/export"
	mw "github.com/scenekit/scenekit/internal/middleware"
	"github.com/scenekit/scenekit/internal/primitives"
	"github.com/scenekit/scenekit/internal/typeid"
	"github.com/scenekit/scenekit/internal/viewsync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	defaults, err := primitives.LoadDefaults(cfg.PrimitiveDefaults)
	if err != nil {
		slog.Error("load primitive defaults", "error", err)
		os.Exit(1)
	}
	primitives.SetDefaults(defaults)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := viewsync.NewHub(engine.OptionsFromConfig(cfg, logger))
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hub.Run(ctx)
	}()

	exportHandler := export.NewHandler(hub)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Sessions start when their first viewer connects; this only mints an id.
	r.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"sessionId": typeid.NewSessionID()})
	}).Methods("POST", "OPTIONS")

	r.HandleFunc("/sessions/{sessionId}/measurements", exportHandler.Measurements).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/ws/scene/{sessionId}", hub.ServeWS(cfg.OriginHosts()))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop the sessions first so viewers get a close frame.
		cancel()
		<-hubDone

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/sunghokim128/littlelemon/internal/api"
	"github.com/sunghokim128/littlelemon/internal/config"
	"github.com/sunghokim128/littlelemon/internal/menu"
	"github.com/sunghokim128/littlelemon/internal/session"
	"github.com/sunghokim128/littlelemon/internal/storage/sqlite"
	"github.com/sunghokim128/littlelemon/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	fetcher := menu.NewHTTPFetcher(cfg.MenuURL, &http.Client{Timeout: cfg.FetchTimeout})
	controller := menu.NewController(store, fetcher)

	// A failed bootstrap is not fatal: the service starts queryable-but-empty
	// and POST /api/menu/refresh re-triggers it.
	if err := controller.Activate(context.Background()); err != nil {
		if errors.Is(err, menu.ErrBootstrapFailed) {
			slog.Warn("Menu bootstrap failed, serving without menu data", "error", err)
		} else {
			slog.Error("Failed to activate menu controller", "error", err)
			os.Exit(1)
		}
	}

	sess := session.NewManager(store)

	// Login-state changes arrive by notification, not polling.
	events, unsubscribe := sess.Subscribe()
	defer unsubscribe()
	go func() {
		for loggedIn := range events {
			slog.Info("Login state changed", "logged_in", loggedIn)
		}
	}()

	server := api.NewServer(controller, sess, cfg.ImageBaseURL)

	// h2c allows HTTP/2 without TLS for local clients.
	handler := h2c.NewHandler(server.Router(), &http2.Server{})

	slog.Info("Server starting", "address", cfg.ListenAddr, "menu_url", cfg.MenuURL)
	if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

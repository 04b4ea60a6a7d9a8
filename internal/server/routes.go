package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skyrelay/internal/broadcast"
	"skyrelay/internal/config"
	"skyrelay/internal/db"
	"skyrelay/internal/events"
	"skyrelay/internal/leaderboard"
	"skyrelay/internal/metrics"
	"skyrelay/internal/publish"
	"skyrelay/internal/relay"
	"skyrelay/internal/rooms"
	"skyrelay/internal/wshub"
)

const (
	shutdownTimeout = 10 * time.Second
	recorderBuffer  = 256
)

// Run wires the relay to its optional sinks and serves until SIGINT or
// SIGTERM.
func Run() error {
	appCfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := appCfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	srv := &Server{Metrics: m, Logger: logger}
	rec := &Recorder{Metrics: m, Logger: logger}

	// Optional database connection
	if appCfg.DatabaseURL != "" {
		database, err := db.Connect(appCfg.DatabaseURL, logger)
		if err != nil {
			logger.Warn("database unavailable, running without archive", "err", err)
		} else {
			if err := database.Migrate(); err != nil {
				logger.Error("migration failed", "err", err)
			}
			defer database.Close()
			srv.DB = database
			rec.DB = database
		}
	} else {
		logger.Info("DATABASE_URL not set, running without archive")
	}

	if appCfg.RedisURL != "" {
		board, err := leaderboard.Connect(ctx, appCfg.RedisURL, logger)
		if err != nil {
			logger.Warn("redis unavailable, live leaderboard disabled", "err", err)
		} else {
			defer board.Close()
			srv.Board = board
			rec.Board = board
		}
	}

	if appCfg.NatsURL != "" {
		pub, err := publish.Connect(appCfg.NatsURL, logger)
		if err != nil {
			logger.Warn("nats unavailable, lifecycle events stay local", "err", err)
		} else {
			defer pub.Close()
			rec.Publisher = pub
		}
	}

	bus := events.NewBus()
	registry := rooms.NewRegistry()
	dispatcher := relay.New(registry, appCfg.Rules(),
		relay.WithBus(bus),
		relay.WithLogger(logger),
	)
	hub := wshub.NewHub(dispatcher, registry,
		wshub.WithSweep(appCfg.SweepInterval),
		wshub.WithObserver(m),
		wshub.WithLogger(logger),
	)
	feed := broadcast.NewBroadcaster(bus)
	srv.Hub = hub
	srv.Feed = feed

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	recorded := make(chan struct{})
	go func() {
		defer close(recorded)
		rec.Run(feed.Subscribe(recorderBuffer))
	}()

	httpServer := &http.Server{
		Addr:              "0.0.0.0:" + appCfg.Port,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "err", err)
	}

	// The bus closes only after the hub, its sole publisher, has stopped.
	stopHub()
	<-hub.Done()
	bus.Close()
	for _, stage := range []struct {
		name string
		done <-chan struct{}
	}{
		{"feed", feed.Done()},
		{"recorder", recorded},
	} {
		select {
		case <-stage.done:
		case <-shutdownCtx.Done():
			logger.Warn("did not drain before shutdown", "stage", stage.name)
			return nil
		}
	}
	return nil
}

// Routes builds the HTTP surface.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.Hub.ServeWS)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.Metrics.Handler())
	mux.HandleFunc("GET /rooms", s.handleRooms)
	mux.HandleFunc("GET /rooms/feed", s.handleFeed)
	mux.HandleFunc("GET /leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /players/{id}", s.handlePlayer)
	mux.HandleFunc("GET /games/{id}", s.handleGame)
	return mux
}

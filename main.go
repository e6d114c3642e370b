package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielhkuo/smartvote/cliparse"
	"github.com/danielhkuo/smartvote/db"
	"github.com/danielhkuo/smartvote/metrics"
	"github.com/danielhkuo/smartvote/middleware"
	"github.com/danielhkuo/smartvote/router"
	"github.com/danielhkuo/smartvote/seed"
	"github.com/danielhkuo/smartvote/store"
)

func setupLogger() {
	var h slog.Handler
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		h = slog.NewTextHandler(os.Stderr, nil)
	} else {
		h = slog.NewJSONHandler(os.Stderr, nil)
	}
	slog.SetDefault(slog.New(h))
}

// seedIfEmpty loads the dataset unless the database already holds an
// election.
func seedIfEmpty(ctx context.Context, st *store.Store, path string) error {
	if _, err := st.Election(ctx); !errors.Is(err, store.ErrNoElection) {
		if err == nil {
			slog.Info("Existing election found, skipping seed")
		}
		return err
	}
	d, err := seed.Load(path)
	if err != nil {
		return err
	}
	if err := d.Apply(ctx, st); err != nil {
		return err
	}
	slog.Info("Seed data loaded",
		"election", d.Election.Name,
		"posts", len(d.Posts),
		"voters", len(d.Voters),
		"candidates", len(d.Candidates),
	)
	return nil
}

func main() {
	var err error
	setupLogger()
	ctx := context.Background()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Open SQLite and create schema
	dbConn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		slog.Error("database open failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()
	slog.Info("Database schema ready", "database", cfg.DatabaseURL)

	st := store.New(dbConn)
	if err := seedIfEmpty(ctx, st, cfg.SeedFile); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	m, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		slog.Error("metrics registration failed", "error", err)
		os.Exit(1)
	}
	if e, err := st.Election(ctx); err == nil {
		m.Phase(e.Phase)
	}
	if total, voted, err := st.Turnout(ctx); err == nil {
		m.Turnout(total, voted)
	}

	// Create router
	mux := router.NewRouter(st, m, prometheus.DefaultGatherer, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "simulate_latency", cfg.SimulateLatency)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// Package server parses server command configuration and runs the HTTP API.
package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"creaturelab/internal/battle"
	"creaturelab/internal/bestiary"
	"creaturelab/internal/creature"
	"creaturelab/internal/platform/config"
	platformotel "creaturelab/internal/platform/otel"
	"creaturelab/internal/roster"
	"creaturelab/internal/storage"
	"creaturelab/internal/storage/sqlite"
)

const shutdownTimeout = 5 * time.Second

// Config holds server command configuration.
type Config struct {
	Port          int           `env:"CREATURES_PORT" envDefault:"8080"`
	AllowedOrigin string        `env:"CREATURES_ALLOWED_ORIGIN" envDefault:"http://localhost:3000"`
	BestiaryDir   string        `env:"CREATURES_BESTIARY_DIR" envDefault:"data/bestiary"`
	DBPath        string        `env:"CREATURES_DB_PATH"`
	ReferenceDate creature.Date `env:"CREATURES_REFERENCE_DATE" envDefault:"2025-01-23"`
	HistorySize   int           `env:"CREATURES_HISTORY_SIZE" envDefault:"5"`
	Tracing       platformotel.Config
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The HTTP server port")
	fs.StringVar(&cfg.AllowedOrigin, "allowed-origin", cfg.AllowedOrigin, "Origin allowed by CORS")
	fs.StringVar(&cfg.BestiaryDir, "bestiary", cfg.BestiaryDir, "Directory of YAML creature definitions")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path (empty keeps creatures in memory)")
	fs.TextVar(&cfg.ReferenceDate, "reference-date", cfg.ReferenceDate, "Date ages are computed against (YYYY-MM-DD)")
	fs.IntVar(&cfg.HistorySize, "history", cfg.HistorySize, "Number of recent actions kept")
	fs.StringVar(&cfg.Tracing.Endpoint, "otel-endpoint", cfg.Tracing.Endpoint, "OTLP/HTTP endpoint for traces (empty disables tracing)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.HistorySize < 1 {
		return Config{}, fmt.Errorf("history size must be positive, got %d", cfg.HistorySize)
	}
	if err := cfg.Tracing.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// App is the assembled server: roster, engine and optional store.
type App struct {
	Engine  *battle.Engine
	Handler http.Handler

	closers []func(context.Context) error
}

// Open builds the app. The roster is loaded from the database when one is
// configured and seeded from the bestiary when it is empty.
func Open(ctx context.Context, cfg Config) (_ *App, err error) {
	app := &App{}
	defer func() {
		if err != nil {
			_ = app.Close(context.Background())
		}
	}()

	shutdownTracing, err := platformotel.Setup(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}
	app.closers = append(app.closers, shutdownTracing)

	var store storage.CreatureStore
	if cfg.DBPath != "" {
		s, err := sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open creature store: %w", err)
		}
		app.closers = append(app.closers, func(context.Context) error { return s.Close() })
		store = s
		log.Printf("Using creature database %s", cfg.DBPath)
	}

	opts := []creature.Option{creature.WithReferenceDate(cfg.ReferenceDate)}
	r := roster.NewInMemoryRoster(store, opts...)
	if err := r.Load(ctx); err != nil {
		return nil, err
	}

	if len(r.List(ctx)) == 0 {
		entries, loadErr := bestiary.LoadDir(cfg.BestiaryDir)
		if loadErr != nil {
			log.Printf("Warning: bestiary %s: %v", cfg.BestiaryDir, loadErr)
		}
		if len(entries) == 0 {
			log.Println("Using built-in creatures.")
			entries = bestiary.Default()
		}
		added, err := bestiary.Seed(ctx, r, entries, opts...)
		if err != nil {
			return nil, fmt.Errorf("seed roster: %w", err)
		}
		log.Printf("Seeded %d creature(s).", added)
	}

	app.Engine = battle.NewEngine(r, battle.WithHistorySize(cfg.HistorySize))
	app.Handler = NewHandler(app.Engine, cfg.AllowedOrigin, opts...)
	return app, nil
}

// Close releases the app's resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Run starts the server and blocks until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	app, err := Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(context.Background()); err != nil {
			log.Printf("close: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (allowing origin %s)", srv.Addr, cfg.AllowedOrigin)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return nil
}

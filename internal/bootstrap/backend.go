// Package bootstrap opens the configured storage backend and email sender
// for the server and the admin CLI.
package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"gudlft/internal/adapters/email"
	"gudlft/internal/adapters/http/perf"
	"gudlft/internal/adapters/storage"
	bookingStore "gudlft/internal/adapters/storage/booking"
	clubStore "gudlft/internal/adapters/storage/club"
	competitionStore "gudlft/internal/adapters/storage/competition"
	"gudlft/internal/adapters/storage/jsondoc"
	"gudlft/internal/config"
)

// Backend is one set of stores over a single storage backend.
type Backend struct {
	Kind         string
	Clubs        clubStore.Store
	Competitions competitionStore.Store
	Bookings     bookingStore.Store

	db *sql.DB
}

// Open opens the backend selected by cfg.Storage.
// PRE: cfg has been validated
// POST: Returns a ready backend; the caller must Close it
func Open(cfg config.Config, collector *perf.Collector) (*Backend, error) {
	if cfg.Storage == config.StorageSQLite {
		return OpenSQLite(cfg.DBPath, collector, cfg.SlowQueryMs)
	}
	return OpenJSON(cfg.DataDir, collector), nil
}

// OpenJSON returns stores over the JSON documents in dir.
func OpenJSON(dir string, collector *perf.Collector) *Backend {
	repo := jsondoc.NewRepository(dir)
	if collector != nil {
		repo.Instrument(collector)
	}
	return &Backend{
		Kind:         config.StorageJSON,
		Clubs:        clubStore.NewJSONStore(repo),
		Competitions: competitionStore.NewJSONStore(repo),
		Bookings:     bookingStore.NewJSONStore(repo),
	}
}

// OpenSQLite opens (and if needed creates) the database at path.
// PRE: path is writable
// POST: Schema exists; queries are timed against slowQueryMs
func OpenSQLite(path string, collector *perf.Collector, slowQueryMs int) (*Backend, error) {
	db, err := sql.Open("sqlite", storage.DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	if err := storage.InitDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	timed := storage.NewTimedDB(db, collector, slowQueryMs)
	return &Backend{
		Kind:         config.StorageSQLite,
		Clubs:        clubStore.NewSQLiteStore(timed),
		Competitions: competitionStore.NewSQLiteStore(timed),
		Bookings:     bookingStore.NewSQLiteStore(timed),
		db:           db,
	}, nil
}

// Close releases the database, if any.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

// EmailSender returns a Resend sender when an API key is configured and a
// logging no-op sender otherwise.
func EmailSender(cfg config.Config) email.Sender {
	if cfg.ResendKey != "" {
		slog.Info("email_sender", "provider", "resend", "from", cfg.EmailFrom)
		return email.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
	}
	if cfg.IsProduction() {
		slog.Warn("email_sender", "provider", "noop", "hint", "GUDLFT_RESEND_KEY is not set; emails are not delivered")
	} else {
		slog.Info("email_sender", "provider", "noop")
	}
	return email.NewNoopSender()
}

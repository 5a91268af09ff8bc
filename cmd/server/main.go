package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	web "gudlft/internal/adapters/http"
	"gudlft/internal/adapters/http/perf"
	"gudlft/internal/adapters/scheduler"
	"gudlft/internal/application/orchestrators"
	"gudlft/internal/bootstrap"
	"gudlft/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	collector := perf.NewCollector(10000)
	backend, err := bootstrap.Open(cfg, collector)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer backend.Close()
	slog.Info("storage_ready", "backend", backend.Kind, "data_dir", cfg.DataDir, "db_path", cfg.DBPath)

	csrfKey, err := cfg.CSRFSecret()
	if err != nil {
		log.Fatalf("csrf: %v", err)
	}
	sender := bootstrap.EmailSender(cfg)

	hour, minute, _ := cfg.ReminderClock()
	sched, err := scheduler.NewReminderScheduler(
		scheduler.ReminderSchedule{Hour: hour, Minute: minute, Window: cfg.ReminderWindow},
		orchestrators.SendCompetitionRemindersDeps{
			CompetitionStore: backend.Competitions,
			BookingStore:     backend.Bookings,
			ClubStore:        backend.Clubs,
			EmailSender:      sender,
			Now:              time.Now,
		},
	)
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}

	handler := web.NewMux(&web.Stores{
		ClubStore:        backend.Clubs,
		CompetitionStore: backend.Competitions,
		BookingStore:     backend.Bookings,
	}, collector, web.Options{
		Production:         cfg.IsProduction(),
		CSRFKey:            csrfKey,
		TrustedOrigins:     cfg.TrustedOrigins,
		Rules:              cfg.Rules(),
		EmailSender:        sender,
		SlowRequestMs:      cfg.SlowRequestMs,
		RateLimitPerSecond: cfg.RateLimit,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server_start", "addr", cfg.Addr, "env", cfg.Env, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("server_shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server_shutdown_failed", "error", err)
	}
	web.Shutdown()
	if err := sched.Shutdown(); err != nil {
		slog.Error("scheduler_shutdown_failed", "error", err)
	}
}

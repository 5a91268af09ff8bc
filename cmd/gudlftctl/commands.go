package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"gudlft/internal/adapters/scheduler"
	"gudlft/internal/application/orchestrators"
	"gudlft/internal/application/projections"
	"gudlft/internal/bootstrap"
	"gudlft/internal/config"
)

// globalFlags override the environment for a single invocation.
type globalFlags struct {
	envFile string
	storage string
	dataDir string
	dbPath  string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "gudlftctl",
		Short:         "Administer GUDLFT clubs, competitions and bookings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file to load before the environment")
	root.PersistentFlags().StringVar(&flags.storage, "storage", "", "storage backend (json or sqlite)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "directory holding the JSON documents")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "SQLite database path")

	root.AddCommand(newPointsCmd(flags), newImportCmd(flags), newRemindCmd(flags))
	return root
}

// loadConfig applies the flags on top of the environment.
func (f *globalFlags) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(f.envFile)
	if err != nil {
		return config.Config{}, err
	}
	if f.storage != "" {
		cfg.Storage = f.storage
	}
	if f.dataDir != "" {
		cfg.DataDir = f.dataDir
	}
	if f.dbPath != "" {
		cfg.DBPath = f.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	return cfg, nil
}

func newPointsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "points",
		Short: "Print every club's remaining points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			backend, err := bootstrap.Open(cfg, nil)
			if err != nil {
				return err
			}
			defer backend.Close()

			board, err := projections.QueryGetPointsBoard(cmd.Context(), projections.GetPointsBoardDeps{ClubStore: backend.Clubs})
			if err != nil {
				return fmt.Errorf("points board: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Clubs - Points:")
			for _, row := range board.Clubs {
				fmt.Fprintf(out, "%s: %d points\n", row.Name, row.Points)
			}
			return nil
		},
	}
}

func newImportCmd(flags *globalFlags) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the JSON documents into the SQLite database",
		Long: `Copy clubs and competitions from the JSON documents in --data-dir into
the SQLite database at --db. Existing rows with the same name are
overwritten. Invalid records are reported and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			source := bootstrap.OpenJSON(cfg.DataDir, nil)
			dest, err := bootstrap.OpenSQLite(cfg.DBPath, nil, cfg.SlowQueryMs)
			if err != nil {
				return err
			}
			defer dest.Close()

			result, err := orchestrators.ExecuteImportDocuments(cmd.Context(), orchestrators.ImportDocumentsInput{DryRun: dryRun}, orchestrators.ImportDocumentsDeps{
				SourceClubs:        source.Clubs,
				SourceCompetitions: source.Competitions,
				DestClubs:          dest.Clubs,
				DestCompetitions:   dest.Competitions,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			verb := "imported"
			if result.DryRun {
				verb = "would import"
			}
			fmt.Fprintf(out, "%s %d clubs and %d competitions into %s\n", verb, result.Clubs, result.Competitions, cfg.DBPath)
			for _, msg := range result.Invalid {
				fmt.Fprintf(out, "skipped: %s\n", msg)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the documents without writing")
	return cmd
}

func newRemindCmd(flags *globalFlags) *cobra.Command {
	var window time.Duration
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send competition reminders once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			if window <= 0 {
				window = cfg.ReminderWindow
			}
			backend, err := bootstrap.Open(cfg, nil)
			if err != nil {
				return err
			}
			defer backend.Close()

			result, err := scheduler.RunReminders(cmd.Context(), window, orchestrators.SendCompetitionRemindersDeps{
				CompetitionStore: backend.Competitions,
				BookingStore:     backend.Bookings,
				ClubStore:        backend.Clubs,
				EmailSender:      bootstrap.EmailSender(cfg),
				Now:              time.Now,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d competitions, %d sent, %d failed\n", result.Competitions, result.Sent, result.Failed)
			if result.Failed > 0 {
				return fmt.Errorf("%d reminders could not be sent", result.Failed)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&window, "window", 0, "look-ahead window (defaults to GUDLFT_REMINDER_WINDOW)")
	return cmd
}

package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/eldtechnologies/inboxdesk/internal/inbox"
	"github.com/eldtechnologies/inboxdesk/internal/seed"
	"github.com/eldtechnologies/inboxdesk/internal/store"
)

// Config holds the command line options.
type Config struct {
	Variant    string
	SeedSQLite string
	LogFile    string
	LogLevel   string
}

func Execute(version string) error {
	return newRootCmd(version).Execute()
}

func newRootCmd(version string) *cobra.Command {
	cfg := Config{}
	cmd := &cobra.Command{
		Use:           "inbox-tui",
		Short:         "support inbox terminal UI",
		Long:          "Bubbletea-based terminal UI for the customer support inbox.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.Variant, "variant", string(inbox.VariantClassic), "dashboard variant: classic|labeled")
	cmd.Flags().StringVar(&cfg.SeedSQLite, "seed-sqlite", "", "SQLite file to load the dataset from")
	cmd.Flags().StringVar(&cfg.LogFile, "log-file", "", "write logs to this file")
	cmd.Flags().StringVar(&cfg.LogLevel, "log-level", "info", "log level")
	return cmd
}

// Run starts the terminal UI and blocks until it exits.
func Run(ctx context.Context, cfg Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	variant, err := inbox.ParseVariant(cfg.Variant)
	if err != nil {
		return fmt.Errorf("invalid variant %q: %w", cfg.Variant, err)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	engine, err := loadEngine(ctx, variant, cfg.SeedSQLite)
	if err != nil {
		return err
	}
	logger.Info().Str("variant", string(variant)).Msg("inbox tui started")

	program := tea.NewProgram(NewModel(engine, logger), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func loadEngine(ctx context.Context, variant inbox.Variant, sqlitePath string) (*inbox.Engine, error) {
	ds := seed.For(variant)
	if strings.TrimSpace(sqlitePath) != "" {
		src, err := store.NewSQLiteStore(ctx, sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("open seed: %w", err)
		}
		defer src.Close()
		loaded, err := src.LoadDataset(ctx, variant)
		if err != nil {
			return nil, fmt.Errorf("load seed: %w", err)
		}
		if loaded != nil {
			ds = *loaded
		}
	}
	s, err := inbox.NewStore(ds)
	if err != nil {
		return nil, err
	}
	return inbox.NewEngine(variant, s), nil
}

// newLogger logs to a file when asked; the terminal belongs to the UI.
func newLogger(cfg Config) (zerolog.Logger, func(), error) {
	if strings.TrimSpace(cfg.LogFile) == "" {
		return zerolog.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("open log file: %w", err)
	}
	logger := zerolog.New(f).With().Timestamp().Logger()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}
	return logger, func() { _ = f.Close() }, nil
}

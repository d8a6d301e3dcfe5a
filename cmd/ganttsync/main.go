package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alexanderramin/ganttsync/internal/cli"
	"github.com/alexanderramin/ganttsync/internal/db"
	"github.com/alexanderramin/ganttsync/internal/repository"
	"github.com/alexanderramin/ganttsync/internal/sync"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dbPath := os.Getenv("GANTTSYNC_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".ganttsync", "ganttsync.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Interactive runs stay quiet unless asked; piped runs get the full
	// phase log on stderr for capture.
	var logSink io.Writer = io.Discard
	interactive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	if !interactive || os.Getenv("GANTTSYNC_VERBOSE") != "" {
		logSink = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logSink, &slog.HandlerOptions{Level: slog.LevelInfo}))

	app := &cli.App{
		Store:        repository.NewSQLiteProjectStore(database),
		Orchestrator: sync.NewOrchestrator(logger, sync.NewLogPhaseObserver(logSink)),
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/logging"
	"taskboard/internal/store"
	"taskboard/internal/ui"
)

// set via -ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("taskboard %s (commit %s, built %s)\n", version, commit, date)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	logging.Init(cfg.LogFile, cfg.LogLevel)
	log := logging.Logger.WithField("component", "main")

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.WithError(err).Error("failed to open database")
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	st, err := store.Open(database, logging.Logger.WithField("component", "store"))
	if err != nil {
		log.WithError(err).Error("failed to load store")
		fmt.Fprintf(os.Stderr, "error loading data: %v\n", err)
		os.Exit(1)
	}

	log.WithField("db", cfg.DBPath).Info("starting taskboard")

	app := ui.NewApp(st)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		log.WithError(err).Error("program exited with error")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/conorfennell/knoldeck/internal/catalog"
	"github.com/conorfennell/knoldeck/internal/config"
	"github.com/conorfennell/knoldeck/internal/logger"
	"github.com/conorfennell/knoldeck/internal/scheduler"
)

// app is the wiring shared by every command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	catalog *catalog.Catalog
	closer  io.Closer
}

// loadApp resolves the configuration for cmd and builds the catalog. Logs go
// to the configured file, otherwise to stderr for plain commands and nowhere
// for the TUI, which owns the terminal.
func loadApp(cmd *cobra.Command, interactive bool) (*app, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path = ""
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	level := logger.ParseLevel(cfg.Log.Level)
	switch {
	case cfg.Log.File != "":
		f, err := logger.OpenFile(cfg.Log.File)
		if err != nil {
			return nil, err
		}
		a.closer = f
		a.logger = logger.New(logger.Config{Writer: f, Format: cfg.Log.Format, Level: level})
	case interactive:
		a.logger = logger.Discard()
	default:
		a.logger = logger.New(logger.Config{Writer: cmd.ErrOrStderr(), Format: cfg.Log.Format, Level: level})
	}

	a.catalog = catalog.New(cfg.DecksRoot, a.logger)
	return a, nil
}

func (a *app) scheduler() *scheduler.Scheduler {
	return scheduler.New(scheduler.Params{
		AgainFactor: a.cfg.AgainFactor,
		HardFactor:  a.cfg.HardFactor,
	})
}

func (a *app) Close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

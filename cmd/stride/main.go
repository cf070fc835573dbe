package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/nwirth/stride/internal/calendar"
	"github.com/nwirth/stride/internal/cli"
	"github.com/nwirth/stride/internal/cli/system"
	"github.com/nwirth/stride/internal/constants"
	"github.com/nwirth/stride/internal/errors"
	"github.com/nwirth/stride/internal/keyring"
	"github.com/nwirth/stride/internal/logger"
	"github.com/nwirth/stride/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string; use the OS keyring instead." default:"~/.config/stride/stride.db"`
	Debug   bool   `help:"Enable debug logging."`

	Init    system.InitCmd    `cmd:"" help:"Initialize stride storage."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Goal    cli.GoalCmd       `cmd:"" help:"Manage goals."`
	Routine cli.RoutineCmd    `cmd:"" help:"Manage the routine schedule."`
	Now     cli.NowCmd        `cmd:"" help:"Show the classified routine timeline."`
	Watch   cli.WatchCmd      `cmd:"" help:"Watch the timeline and compliance calendar." default:"1"`
	Cal     cli.CalCmd        `cmd:"" help:"Show the monthly compliance calendar."`
	Mark    cli.MarkCmd       `cmd:"" help:"Toggle a compliance mark for a day."`
	Log     cli.LogCmd        `cmd:"" help:"Log satisfaction and notes for a day."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage database credentials in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal goal and routine companion"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	config := expandConfig(CLI.Config)

	var store storage.Provider
	if strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://") {
		if storage.HasEmbeddedCredentials(config) {
			fmt.Fprintln(os.Stderr, "Error: PostgreSQL connection strings with embedded credentials are not allowed.")
			fmt.Fprintln(os.Stderr, "       Store credentials with 'stride keyring set' instead.")
			os.Exit(1)
		}
		store = storage.NewPostgresStore(config)
	} else if connStr, err := keyring.GetConnectionString(); err == nil && CLI.Config == constants.DefaultConfigPath {
		// A stored keyring connection string takes over when no explicit
		// config was given.
		store = storage.NewPostgresStore(connStr)
	} else {
		store = storage.NewSQLiteStore(config)
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: configDir(config),
	}); err != nil {
		errors.Fatalf("failed to initialize logging: %v", err)
	}

	appCtx := &cli.Context{
		Store:   store,
		Tracker: calendar.NewTracker(store),
	}

	// Every command except init expects an existing database.
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			store.Close()
			errors.Fatal(err)
		}
	}
	defer store.Close()

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

func expandConfig(config string) string {
	if strings.HasPrefix(config, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, config[2:])
		}
	}
	return config
}

func configDir(config string) string {
	if strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		return filepath.Join(home, ".config", constants.AppName)
	}
	return filepath.Dir(config)
}

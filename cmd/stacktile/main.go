// Package main implements stacktile - a terminal demo desktop for the
// stack-and-tile window management core. Windows can be combined into
// stacks (shared tab bar) and tiles (shared, solver-maintained edges)
// by holding the modifier while dragging.
package main

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/czeidler/stacktile/internal/app"
	"github.com/czeidler/stacktile/internal/config"
	"github.com/czeidler/stacktile/internal/sat"
	"github.com/czeidler/stacktile/internal/theme"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Command-line flags
var (
	themeName string
	debugMode bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stacktile",
		Short: "Stack-and-tile window management in the terminal",
		Long: `stacktile - a demo desktop for the stack-and-tile core

Hold alt while dragging a window by its tab:
  - drop the tab onto another window's tab to stack them behind one
    tab bar
  - drag an edge close to another window's edge to tile them; shared
    edges stay aligned through a linear constraint solver, so resizing
    any member deforms the whole arrangement consistently

Removing a window from the middle of an arrangement splits the group
into its connected parts. Groups can be archived and restored with
their adjacency intact.`,
		Example: `  # Start with the default configuration
  stacktile

  # Start with a specific theme
  stacktile --theme dracula

  # Verbose core logging on stderr
  stacktile --debug 2>stacktile.log`,
		Version: version,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run()
		},
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&themeName, "theme", "", "Color theme to use (e.g., dracula, nord, tokyonight)")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s",
			version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadUserConfig()
	if err != nil {
		log.Warn("falling back to the default configuration", "err", err)
		cfg = config.DefaultConfig()
	}
	if themeName != "" {
		cfg.Appearance.Theme = themeName
	}
	if err := theme.Initialize(cfg.Appearance.Theme); err != nil {
		return fmt.Errorf("theme setup failed: %w", err)
	}

	if debugMode {
		sat.SetLogLevel(log.DebugLevel)
		app.SetLogLevel(log.DebugLevel)
	}

	desktop := app.NewDesktop(cfg)
	desktop.Controller = sat.NewController(desktop, cfg)

	stopWatching, err := config.WatchUserConfig(func(updated *config.UserConfig) {
		desktop.SetConfig(updated)
	}, func(err error) {
		log.Warn("config reload failed", "err", err)
	})
	if err == nil {
		defer stopWatching()
	}

	program := tea.NewProgram(desktop)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program failed: %w", err)
	}
	return nil
}

package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bandcal/internal/config"
	"github.com/javiermolinar/bandcal/internal/db"
	"github.com/javiermolinar/bandcal/internal/gig"
	"github.com/javiermolinar/bandcal/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo   gig.Repository
	config *config.Config
	root   *cobra.Command
	debug  bool // Enable debug logging
	now    func() time.Time
}

// NewApp creates a new CLI application. A nil repo is opened lazily from
// the configured database path by the commands that need it.
func NewApp(repo gig.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg, now: time.Now}

	a.root = &cobra.Command{
		Use:   "bandcal",
		Short: "A terminal week calendar for gigs",
		Long: `bandcal keeps your gigs in a week grid.

Click an empty slot to start a gig there, or drag to pick its start and
end. Overlapping gigs share the column side by side.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			return tui.RunWithDebug(a.repo, a.config, a.debug)
		},
	}

	// main reports errors; usage is only shown for --help
	a.root.SilenceUsage = true
	a.root.SilenceErrors = true

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (writes "+tui.DebugLogPath+")")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.removeCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.layoutCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bandcal %s (commit: %s)\n", Version, Commit)
		},
	}
}

// ensureRepo opens the configured database, creating its directory.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}

	path, err := resolvePath(a.config.Storage.DBPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	repo, err := db.New(path)
	if err != nil {
		return err
	}
	a.repo = repo
	return nil
}

// Close releases the repository if one was opened.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

package ui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bandcal/internal/config"
	"github.com/javiermolinar/bandcal/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  bandcal config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive()
		},
	}
}

func runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(cfg)

	// Ask if user wants to edit
	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	// Interactive editing
	reader := bufio.NewReader(os.Stdin)

	cfg.Grid.DayStartHour = promptInt(reader, "First visible hour", cfg.Grid.DayStartHour)
	cfg.Grid.DayEndHour = promptInt(reader, "Hour after the last visible one", cfg.Grid.DayEndHour)
	cfg.Grid.RowsPerHour = promptInt(reader, "Terminal rows per hour", cfg.Grid.RowsPerHour)
	cfg.Grid.DefaultDuration = promptValue(reader, "Default gig duration", cfg.Grid.DefaultDuration)
	cfg.Grid.FallbackStart = promptValue(reader, "Start for unreadable times", cfg.Grid.FallbackStart)
	cfg.Storage.DBPath = promptValue(reader, "Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = promptTheme(reader, cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

func printConfig(cfg *config.Config) {
	g := cfg.Grid
	fmt.Println("Current configuration:")
	fmt.Println("──────────────────────")
	fmt.Println("[grid]")
	fmt.Printf("  day_start_hour   = %d\n", g.DayStartHour)
	fmt.Printf("  day_end_hour     = %d\n", g.DayEndHour)
	fmt.Printf("  hour_height      = %g\n", g.HourHeight)
	fmt.Printf("  rows_per_hour    = %d\n", g.RowsPerHour)
	fmt.Printf("  click_snap       = %d\n", g.ClickSnap)
	fmt.Printf("  drag_snap        = %d\n", g.DragSnap)
	fmt.Printf("  drag_threshold   = %g\n", g.DragThreshold)
	fmt.Printf("  default_duration = %s\n", g.DefaultDuration)
	fmt.Printf("  fallback_start   = %s\n", g.FallbackStart)
	fmt.Printf("  now_refresh      = %s\n", g.NowRefresh)
	fmt.Println("\n[storage]")
	fmt.Printf("  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Println("\n[ui]")
	fmt.Printf("  theme            = %s\n", cfg.UI.Theme)
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Printf("  Invalid number %q\n", value)
	}
}

func promptTheme(reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Printf("  Invalid theme %q. Available: %s\n", value, options)
	}
}

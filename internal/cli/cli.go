// Package cli implements the sitetakeoff command-line interface.
//
// The calculator commands (deck, paving, wall) read a configuration from a
// TOML, JSON, CSV or Excel file, a DXF plan and key=value arguments, run
// the takeoff and print the bill of materials. Results can be written as a
// PDF report, a spreadsheet, a DXF drawing or QR-coded delivery labels.
//
// # Commands
//
//   - deck, paving, wall: run a calculator
//   - tier: show the structural defaults of a skill and budget tier
//   - templates: list, run and delete saved calculations
//   - catalog: list and extend the material catalog
//   - config: show or create the settings file
//   - backup: export or restore settings, catalog and templates
//   - serve: run the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/SiteTakeoff/internal/engine"
	"github.com/piwi3910/SiteTakeoff/internal/model"
	"github.com/piwi3910/SiteTakeoff/internal/project"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "sitetakeoff"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	home     string // directory holding config, catalog and templates
	envFile  string
	settings model.AppConfig
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		settings: model.DefaultAppConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "SiteTakeoff estimates materials for decks, patios and retaining walls",
		Long: `SiteTakeoff turns the plan dimensions of a deck, patio or retaining wall
into a bill of materials: structural layout, mortar and concrete mixes, and
purchase quantities with waste.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadSettings(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.home, "home", project.DefaultConfigDir(), "directory holding config.toml, catalog.json and templates.json")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file read before the SITETAKEOFF_* variables")

	root.AddCommand(c.calcCommand(model.CalculatorDeck))
	root.AddCommand(c.calcCommand(model.CalculatorPaving))
	root.AddCommand(c.calcCommand(model.CalculatorWall))
	root.AddCommand(c.tierCommand())
	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.backupCommand())
	root.AddCommand(c.serveCommand())

	return root
}

// loadSettings reads the settings file and environment and attaches the
// logger to the command context.
func (c *CLI) loadSettings(cmd *cobra.Command) error {
	settings, warnings, err := project.LoadSettings(c.configPath(), c.envFile)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		c.Logger.Warn(w)
	}
	c.settings = settings
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Paths
// =============================================================================

func (c *CLI) homeDir() string {
	if c.home == "" {
		return project.DefaultConfigDir()
	}
	return c.home
}

func (c *CLI) store() project.Store { return project.StoreAt(c.homeDir()) }

func (c *CLI) configPath() string    { return c.store().Config }
func (c *CLI) catalogPath() string   { return c.store().Catalog }
func (c *CLI) templatesPath() string { return c.store().Templates }

// outputPath places relative export paths under the configured output
// directory and creates the parent directory.
func (c *CLI) outputPath(p string) (string, error) {
	if !filepath.IsAbs(p) && c.settings.OutputDir != "" {
		p = filepath.Join(c.settings.OutputDir, p)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return p, nil
}

// =============================================================================
// Engine Factory
// =============================================================================

// newEngine creates an engine priced against the catalog in the home
// directory, writing the built-in catalog there on first use.
func (c *CLI) newEngine() (*engine.Engine, error) {
	catalog, err := project.LoadCatalog(c.catalogPath())
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return engine.New(catalog), nil
}

// Package cli implements the typeshed command-line interface.
//
// This package provides commands for validating the metadata records of a
// stub collection, querying direct and transitive dependencies, printing the
// published-name mapping, and rendering the internal dependency graph. The
// CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - check: validate metadata records and dependency closures
//   - deps: print a distribution's internal and external dependencies
//   - mapping: print the published name to internal name table
//   - graph: render the internal dependency closure as DOT or SVG
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/FrancescElies/typeshed/internal/config"
	"github.com/FrancescElies/typeshed/pkg/buildinfo"
	"github.com/FrancescElies/typeshed/pkg/stubs"
)

// appName is the application name used for config lookup and display.
const appName = "typeshed"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:          appName,
		Short:        "typeshed validates stub metadata and resolves stub dependencies",
		Long:         `typeshed works on a collection of type-stub distributions (one METADATA.toml per package): it validates every record against the metadata schema, maps published distribution names back to collection identifiers, and computes transitive dependency closures.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .typeshed.yaml)")
	root.PersistentFlags().String("stubs-dir", "stubs", "root directory of the stub collection")
	_ = viper.BindPFlag("stubs_dir", root.PersistentFlags().Lookup("stubs-dir"))

	cobra.OnInitialize(func() { config.Init(cfgFile) })

	// Register all subcommands
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.mappingCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// collection opens the stub collection configured via flags, env, or config file.
func (c *CLI) collection() *stubs.Collection {
	cfg := config.Load()
	return stubs.Open(cfg.StubsDir)
}

// Package main provides the dataroom CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MilanLasica/DrugsDataroom/internal/app"
	"github.com/MilanLasica/DrugsDataroom/internal/config"
	"github.com/MilanLasica/DrugsDataroom/internal/observability"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// cli carries the state shared by all subcommands.
type cli struct {
	cfgFile    string
	outputJSON bool
	noColor    bool
	verbose    bool

	cfg    *config.Config
	logger *observability.Logger
	ui     *UI
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "dataroom-cli",
		Short: "Ingest, analyse and query pharmaceutical manufacturing documents",
		Long: `dataroom-cli works directly against the configured vector store.

Use it to:
- Ingest PDF specifications
- List stored documents
- Run the finance, sustainability and chemistry analysis of a document
- Ask questions about a document
- Search the stored literature

All commands support --json for automation.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(c.cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			c.cfg = cfg

			level := cfg.Observability.LogLevel
			if !c.verbose {
				level = "warn"
			}
			c.logger = observability.NewLogger(observability.LogConfig{
				Level:       level,
				Format:      "console",
				Output:      cmd.ErrOrStderr(),
				ServiceName: "dataroom-cli",
			})
			c.ui = NewUI(cmd.OutOrStdout(), cmd.ErrOrStderr(), c.outputJSON, c.noColor)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	root.PersistentFlags().BoolVar(&c.outputJSON, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log at the configured level instead of warn")

	root.AddCommand(
		newIngestCmd(c),
		newDocumentsCmd(c),
		newAnalyzeCmd(c),
		newAskCmd(c),
		newSearchCmd(c),
		newVersionCmd(c),
	)
	return root
}

// open builds the services; callers must Close the result.
func (c *cli) open(ctx context.Context) (*app.App, error) {
	a, err := app.New(ctx, c.cfg, c.logger)
	if err != nil {
		return nil, fmt.Errorf("initialise services: %w", err)
	}
	return a, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

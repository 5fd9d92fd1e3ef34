// Package commands implements the toggl-entries CLI.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"toggl-entries/internal/app"
	"toggl-entries/internal/config"
	"toggl-entries/internal/logging"
)

// Version information (set at build time via ldflags).
var Version = "dev"

// cli carries global flags and lazily built dependencies.
type cli struct {
	json    bool
	verbose bool

	cfg config.Config
	log *slog.Logger
	app *app.App
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "toggl-entries",
		Short:         "Work with Toggl time entries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if c.verbose {
				cfg.Log.Level = "debug"
			}
			c.cfg = cfg
			c.log = logging.New(logging.Config{
				Level:  cfg.Log.Level,
				JSON:   cfg.Log.Format == "json",
				Output: os.Stderr,
			})
			slog.SetDefault(c.log)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.app != nil {
				return c.app.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&c.json, "json", false, "Print JSON instead of a table")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		c.listCmd(),
		c.currentCmd(),
		c.showCmd(),
		c.startCmd(),
		c.stopCmd(),
		c.updateCmd(),
		c.deleteCmd(),
		c.projectsCmd(),
		c.syncCmd(),
		c.serveCmd(),
		versionCmd(),
	)

	return root
}

// application builds the App on first use.
func (c *cli) application(ctx context.Context, withSink bool) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	a, err := app.New(ctx, c.log, c.cfg, withSink)
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("toggl-entries %s\n", Version)
		},
	}
}

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jward/lintkit"
	"github.com/jward/lintkit/internal/config"
	"github.com/jward/lintkit/scripts"
)

// errFindings makes the process exit non-zero when checks reported
// something. It is never printed.
var errFindings = errors.New("findings reported")

func main() {
	cli := newCLI()
	if err := cli.root.Execute(); err != nil {
		if !cli.errorHandled && !errors.Is(err, errFindings) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

// cli holds the command tree and the state its flags write into.
type cli struct {
	root *cobra.Command

	flagDB         string
	flagConfig     string
	flagFormat     string
	flagLogLevel   string
	flagScriptsDir string
	flagDirect     bool

	cfg    *config.Config
	logger *slog.Logger

	// errorHandled is set by outputError so main doesn't double-print.
	errorHandled bool
}

func newCLI() *cli {
	c := &cli{}
	c.root = &cobra.Command{
		Use:           "lintkit",
		Short:         "Semantic queries and macro provenance for lint checks",
		Long:          "lintkit imports compiler snapshots into SQLite and answers path, trait and macro-expansion queries against them, running Risor check scripts on top.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(c.flagFormat); err != nil {
				return err
			}
			return c.setup(cmd)
		},
		// No Run, prints help by default.
	}
	pf := c.root.PersistentFlags()
	pf.StringVar(&c.flagDB, "db", "", "database path (default: db from config, then lintkit.db)")
	pf.StringVar(&c.flagConfig, "config", config.FileName, "config file; a missing file means defaults")
	pf.StringVar(&c.flagFormat, "format", "json", "output format: json|text")
	pf.StringVar(&c.flagLogLevel, "log-level", "", "log level: debug|info|warn|error (default: from config)")

	c.root.AddCommand(
		c.importCmd(),
		c.clearCmd(),
		c.fingerprintCmd(),
		c.resolveCmd(),
		c.traitCmd(),
		c.expnCmd(),
		c.chainCmd(),
		c.runCmd(),
	)
	return c
}

// setup loads configuration and builds the stderr logger.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadOptional(c.flagConfig)
	if err != nil {
		return err
	}
	config.ApplyEnvOverrides(cfg)
	if c.flagDB != "" {
		cfg.DB = c.flagDB
	}
	if c.flagLogLevel != "" {
		cfg.LogLevel = c.flagLogLevel
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// openEngine opens the configured database. Scripts come from
// --scripts-dir, then scripts_dir in config, then the built-in checks.
func (c *cli) openEngine() (*lintkit.Engine, error) {
	opts := []lintkit.Option{
		lintkit.WithLogger(c.logger),
		lintkit.WithDisabledChecks(c.cfg.DisabledChecks...),
		lintkit.WithMaxExpansionDepth(c.cfg.MaxExpansionDepth),
	}
	if c.cfg.Parallel != nil {
		opts = append(opts, lintkit.WithParallel(*c.cfg.Parallel))
	}
	dir := c.flagScriptsDir
	if dir == "" {
		dir = c.cfg.ScriptsDir
	}
	if dir != "" {
		opts = append(opts, lintkit.WithScriptsDir(dir))
	} else {
		opts = append(opts, lintkit.WithScriptsFS(scripts.FS))
	}

	e, err := lintkit.New(c.cfg.DB, opts...)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", c.cfg.DB, err)
	}
	return e, nil
}

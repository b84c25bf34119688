package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/imkarma/taskdeck/internal/config"
	"github.com/imkarma/taskdeck/internal/logging"
)

var (
	flagConfig   string
	flagBaseURL  string
	flagLogLevel string
	flagVerbose  bool
)

// rt is the per-run environment resolved before any subcommand runs.
var rt struct {
	cfg     *config.Config
	cfgPath string
	dir     string
	log     *slog.Logger
}

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "Terminal front end for a task backend",
	Long: "taskdeck lists, creates, advances and deletes tasks on a remote task backend,\n" +
		"and forwards free-text AI commands to it. Run `taskdeck ui` for the dashboard.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default $XDG_CONFIG_HOME/taskdeck/config.yaml)")
	pf.StringVar(&flagBaseURL, "base-url", "", "Backend base URL (overrides config and "+config.EnvBaseURL+")")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Shorthand for --log-level debug")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(aiCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(statusCmd)
}

// setup resolves config (file, then env, then flags) and the logger.
func setup(cmd *cobra.Command, args []string) error {
	rt.cfgPath = flagConfig
	if rt.cfgPath == "" {
		rt.cfgPath = config.DefaultPath()
	}
	rt.dir = filepath.Dir(rt.cfgPath)

	cfg, _, err := config.LoadOrDefault(rt.cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return fmt.Errorf("%s: %w", config.EnvBaseURL, err)
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagVerbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	rt.cfg = cfg

	rt.log = logging.NewLogger(logging.Options{
		Level:     cfg.LogLevel,
		Writer:    cmd.ErrOrStderr(),
		Component: "cli",
		JSON:      cfg.LogJSON(),
	})
	rt.log.Debug("config resolved", "path", rt.cfgPath, "base_url", cfg.BaseURL, "timeout", cfg.Timeout())
	return nil
}

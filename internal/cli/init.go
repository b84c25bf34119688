package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/imkarma/taskdeck/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long:  "Creates the taskdeck config directory with a default config.yaml and the activity journal.",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config")
}

func runInit(cmd *cobra.Command, args []string) error {
	// Check if already initialized.
	if _, err := os.Stat(rt.cfgPath); err == nil && !initForce {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", rt.cfgPath)
	}

	cfg := config.DefaultConfig()
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if err := config.Save(rt.cfgPath, cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	// Create the journal database (migration runs automatically).
	s, err := openStore(cfg.JournalPath(rt.dir))
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	s.Close()

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Wrote %s\n", rt.cfgPath)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintf(w, "  1. Point base_url at your backend (now %s)\n", cfg.BaseURL)
	fmt.Fprintln(w, "     or run a local one: taskdeck sandbox")
	fmt.Fprintln(w, "  2. Run: taskdeck task create \"your first task\"")
	fmt.Fprintln(w, "  3. Run: taskdeck ui")

	return nil
}

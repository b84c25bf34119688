package cli

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/imkarma/taskdeck/internal/sandbox"
)

var (
	sandboxAddr string
	sandboxDB   string
)

var sandboxCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Run a local reference backend",
	Long: "Serves the task backend HTTP contract from a local SQLite file, including a small\n" +
		"AI command parser, so taskdeck can be used without the real service.",
	Args: cobra.NoArgs,
	RunE: runSandbox,
}

func init() {
	sandboxCmd.Flags().StringVar(&sandboxAddr, "addr", "", "Listen address (default from config)")
	sandboxCmd.Flags().StringVar(&sandboxDB, "db", "", "SQLite file (default sandbox.db in the config dir)")
	rootCmd.AddCommand(sandboxCmd)
}

func runSandbox(cmd *cobra.Command, args []string) error {
	addr := sandboxAddr
	if addr == "" {
		addr = rt.cfg.Sandbox.Addr
	}
	dbPath := sandboxDB
	if dbPath == "" {
		dbPath = rt.cfg.SandboxDB(rt.dir)
	}

	s, err := openStore(dbPath)
	if err != nil {
		return fmt.Errorf("open sandbox db: %w", err)
	}
	defer s.Close()

	if rt.cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Sandbox backend on http://%s (db %s). Ctrl+C to stop.\n", addr, dbPath)
	return sandbox.NewServer(s, rt.log.With("component", "sandbox")).Run(cmd.Context(), addr)
}

package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/imkarma/taskdeck/internal/logging"
	"github.com/imkarma/taskdeck/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open interactive TUI dashboard",
	Long: "Opens the task dashboard: create, filter, advance and delete tasks, and run AI commands.\n" +
		"Logs go to " + logging.FileName + " in the config directory while the dashboard is open.",
	Args: cobra.NoArgs,
	RunE: runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	// Log to a file so output does not corrupt the screen.
	f, err := logging.OpenFile(rt.dir)
	if err != nil {
		return err
	}
	defer f.Close()
	rt.log = logging.NewLogger(logging.Options{Level: rt.cfg.LogLevel, Writer: f, Component: "ui", JSON: rt.cfg.LogJSON()})

	svc, closeSvc, err := openService()
	if err != nil {
		return err
	}
	defer closeSvc()

	model := tui.New(cmd.Context(), svc, rt.log)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

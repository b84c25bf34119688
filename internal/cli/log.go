package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/imkarma/taskdeck/internal/store"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the local activity journal",
	Long:  "Lists the backend operations taskdeck has performed from this machine, oldest first.",
	Args:  cobra.NoArgs,
	RunE:  runLog,
}

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 20, "Show at most N events (0 for all)")
}

func runLog(cmd *cobra.Command, args []string) error {
	if !rt.cfg.JournalEnabled() {
		return errors.New("journal is off (journal: off in config)")
	}
	dbPath := rt.cfg.JournalPath(rt.dir)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "No activity recorded yet.")
		return nil
	}

	s, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	events, err := s.RecentEvents(logLimit)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(events) == 0 {
		fmt.Fprintln(w, "No activity recorded yet.")
		return nil
	}

	for _, e := range events {
		mark := colorGreen + "✓" + colorReset
		if e.Outcome == store.OutcomeFailed {
			mark = colorRed + "✗" + colorReset
		}
		fmt.Fprintf(w, "  %s  %s %-8s %s", e.Timestamp.Local().Format("2006-01-02 15:04:05"), mark, e.Op, e.Target)
		if e.Detail != "" {
			fmt.Fprintf(w, " %s(%s)%s", colorDim, e.Detail, colorReset)
		}
		fmt.Fprintln(w)
	}
	return nil
}

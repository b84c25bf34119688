package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imkarma/taskdeck/internal/task"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Quick status overview",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	svc, closeSvc, err := openService()
	if err != nil {
		return err
	}
	defer closeSvc()

	tasks, err := svc.List(cmd.Context(), nil)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	w := cmd.OutOrStdout()
	if len(tasks) == 0 {
		fmt.Fprintf(w, "No tasks. Run: %staskdeck task create \"title\"%s\n", colorCyan, colorReset)
		return nil
	}

	counts := map[task.State]int{}
	for _, t := range tasks {
		counts[t.State]++
	}

	fmt.Fprintf(w, "%sTasks: %d total%s\n", colorBold, len(tasks), colorReset)
	for _, st := range task.States {
		fmt.Fprintf(w, "  %s %-13s %s%d%s\n", st.Icon(), string(st)+":", stateColor(st), counts[st], colorReset)
	}
	return nil
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imkarma/taskdeck/internal/interpret"
)

var aiCmd = &cobra.Command{
	Use:   "ai [command...]",
	Short: "Run a free-text AI command",
	Long: "Forwards a natural-language command to the backend, e.g.\n" +
		"  taskdeck ai Add a task to prepare presentation\n" +
		"  taskdeck ai Show all completed tasks",
	Args: cobra.MinimumNArgs(1),
	RunE: runAI,
}

func runAI(cmd *cobra.Command, args []string) error {
	command := joinArgs(args)
	if command == "" {
		return errors.New("command must not be blank")
	}

	svc, closeSvc, err := openService()
	if err != nil {
		return err
	}
	defer closeSvc()

	w := cmd.OutOrStdout()
	res, err := svc.RunAICommand(cmd.Context(), command)
	if err != nil {
		logFailure("ai", command, err)
		fmt.Fprintf(w, "%s✗%s %s\n", colorRed, colorReset, interpret.FailedText)
		return fmt.Errorf("ai command: %w", err)
	}

	out := interpret.Decide(res)
	if out.Failed() {
		fmt.Fprintf(w, "%s✗%s %s\n", colorRed, colorReset, out.Notice.Text)
		return fmt.Errorf("ai command: %s", out.Notice.Text)
	}
	fmt.Fprintf(w, "%s✓%s %s\n", colorGreen, colorReset, out.Notice.Text)

	if out.Replace != nil {
		printTasks(w, out.Replace)
		return nil
	}
	if out.Refetch {
		tasks, err := svc.List(cmd.Context(), nil)
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		printTasks(w, tasks)
	}
	return nil
}

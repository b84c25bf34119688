package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/imkarma/taskdeck/internal/task"
	"github.com/imkarma/taskdeck/internal/worker"
)

var taskFrom string

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "List, create, advance and delete tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list [state]",
	Short: "List tasks, optionally filtered by state",
	Long:  "List tasks. State is one of: all, not-started, in-progress, completed.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTaskList,
}

var taskCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskCreate,
}

var taskAdvanceCmd = &cobra.Command{
	Use:   "advance [id...]",
	Short: "Move tasks to their next state",
	Long: "Moves each task one step along Not Started → In Progress → Completed.\n" +
		"Current states are looked up on the backend unless --from is given.",
	Args: cobra.MinimumNArgs(1),
	RunE: runTaskAdvance,
}

var taskRmCmd = &cobra.Command{
	Use:     "rm [id...]",
	Aliases: []string{"delete"},
	Short:   "Delete tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runTaskRm,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

func init() {
	taskAdvanceCmd.Flags().StringVar(&taskFrom, "from", "", "Current state of every id, skips the lookup")

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskAdvanceCmd)
	taskCmd.AddCommand(taskRmCmd)
	taskCmd.AddCommand(taskShowCmd)
}

func runTaskList(cmd *cobra.Command, args []string) error {
	filter := task.FilterAll
	if len(args) > 0 {
		f, err := task.ParseFilter(args[0])
		if err != nil {
			return err
		}
		filter = f
	}

	svc, closeSvc, err := openService()
	if err != nil {
		return err
	}
	defer closeSvc()

	tasks, err := svc.List(cmd.Context(), filter.StatePtr())
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	printTasks(cmd.OutOrStdout(), tasks)
	return nil
}

func runTaskCreate(cmd *cobra.Command, args []string) error {
	title := joinArgs(args)
	if title == "" {
		return errors.New("title must not be blank")
	}

	svc, closeSvc, err := openService()
	if err != nil {
		return err
	}
	defer closeSvc()

	t, err := svc.Create(cmd.Context(), title)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s [%s]\n", t.ID, t.Title, t.State)
	return nil
}

func runTaskAdvance(cmd *cobra.Command, args []string) error {
	var from *task.State
	if taskFrom != "" {
		st, err := task.ParseState(taskFrom)
		if err != nil {
			return err
		}
		from = &st
	}

	svc, closeSvc, err := openService()
	if err != nil {
		return err
	}
	defer closeSvc()

	current := map[string]task.State{}
	if from == nil {
		tasks, err := svc.List(cmd.Context(), nil)
		if err != nil {
			return fmt.Errorf("look up tasks: %w", err)
		}
		for _, t := range tasks {
			current[t.ID] = t.State
		}
	}

	errNotFound := errors.New("no such task")
	results := runBatch(cmd.Context(), args, func(ctx context.Context, id string) (string, error) {
		st, ok := current[id]
		if from != nil {
			st, ok = *from, true
		}
		if !ok {
			return "", errNotFound
		}
		if !st.Valid() {
			return "", fmt.Errorf("unknown state %q", st)
		}
		next, ok := task.Next(st)
		if !ok {
			return "already " + string(st), nil
		}
		if _, err := svc.Advance(ctx, id, next); err != nil {
			return "", err
		}
		return string(st) + " → " + string(next), nil
	})
	return reportBatch(cmd.OutOrStdout(), "advance", results)
}

func runTaskRm(cmd *cobra.Command, args []string) error {
	svc, closeSvc, err := openService()
	if err != nil {
		return err
	}
	defer closeSvc()

	results := runBatch(cmd.Context(), args, func(ctx context.Context, id string) (string, error) {
		return "deleted", svc.Remove(ctx, id)
	})
	return reportBatch(cmd.OutOrStdout(), "delete", results)
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	svc, closeSvc, err := openService()
	if err != nil {
		return err
	}
	defer closeSvc()

	tasks, err := svc.List(cmd.Context(), nil)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	t, ok := findTask(tasks, args[0])
	if !ok {
		return fmt.Errorf("task %s not found", args[0])
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s%s%s\n", colorBold, t.Title, colorReset)
	fmt.Fprintf(w, "  ID:      %s\n", t.ID)
	fmt.Fprintf(w, "  State:   %s%s %s%s\n", stateColor(t.State), t.State.Icon(), t.State, colorReset)
	if t.CreatedAt != nil {
		fmt.Fprintf(w, "  Created: %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	if label := t.State.ActionLabel(); label != "" {
		fmt.Fprintf(w, "  Next:    %s (taskdeck task advance %s)\n", label, t.ID)
	}
	return nil
}

// runBatch fans op out over ids with the configured pool width.
func runBatch(ctx context.Context, ids []string, op worker.Op) []worker.Result {
	return worker.NewPool(rt.cfg.Workers(), rt.log).Run(ctx, ids, op)
}

// reportBatch prints one line per result and returns an error wrapping the
// first failure, so a backend failure still maps to its exit code.
func reportBatch(w io.Writer, verb string, results []worker.Result) error {
	var first error
	for _, r := range results {
		switch r.Status {
		case worker.StatusDone:
			fmt.Fprintf(w, "%s✓%s %s %s\n", colorGreen, colorReset, r.ID, r.Detail)
		case worker.StatusSkipped:
			fmt.Fprintf(w, "%s-%s %s skipped (%s)\n", colorDim, colorReset, r.ID, r.Detail)
		default:
			fmt.Fprintf(w, "%s✗%s %s %v\n", colorRed, colorReset, r.ID, r.Err)
			logFailure(verb, r.ID, r.Err)
			if first == nil {
				first = r.Err
			}
		}
	}
	if n := worker.Failed(results); n > 0 {
		return fmt.Errorf("%s: %d of %d failed: %w", verb, n, len(results), first)
	}
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rolecoach/rolecoach/internal/observability"
	"github.com/rolecoach/rolecoach/internal/scheduler"
	"github.com/rolecoach/rolecoach/internal/types"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the preparation task board",
	Long:  "Show the kanban board and calendar plan for the current roadmap, and move tasks between columns.",
	RunE:  runBoard,
}

var (
	boardComplete string
	boardMove     string
	boardMoveTo   string
	boardPlan     bool
)

func init() {
	boardCmd.Flags().StringVar(&boardComplete, "complete", "", "Mark the task with this ID as done")
	boardCmd.Flags().StringVar(&boardMove, "move", "", "Task ID to move")
	boardCmd.Flags().StringVar(&boardMoveTo, "to", "", "Target column for --move (todo, in-progress, done)")
	boardCmd.Flags().BoolVar(&boardPlan, "plan", false, "Show the day-by-day calendar plan")

	rootCmd.AddCommand(boardCmd)
}

func runBoard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	road := a.session.Roadmap()
	if road == nil {
		return fmt.Errorf("no roadmap in the current session; run 'rolecoach roadmap' first")
	}

	out := cmd.OutOrStdout()
	sched := scheduler.New(road,
		scheduler.WithOnChange(func(taskID string, status types.TaskStatus) {
			a.session.UpdateTaskStatus(ctx, taskID, status)
		}),
		scheduler.WithOnCelebrate(func(task types.Task) {
			fmt.Fprintf(out, "🎉 Completed: %s\n", task.Title)
		}),
	)

	if boardComplete != "" {
		if !sched.MarkComplete(boardComplete) {
			fmt.Fprintf(out, "Task %s is already done or unknown.\n", boardComplete)
		}
	}
	if boardMove != "" {
		status := types.TaskStatus(boardMoveTo)
		if !status.IsValid() {
			return fmt.Errorf("--to must be one of todo, in-progress, done")
		}
		if !sched.Move(boardMove, status) {
			fmt.Fprintf(out, "Task %s not moved.\n", boardMove)
		}
	}

	if boardPlan {
		printPlan(cmd, sched)
	}

	printer := observability.NewPrinter(out)
	printer.PrintBoard(sched.Board(), sched.Progress())
	return nil
}

// printPlan writes the calendar window with each day's allocated tasks.
func printPlan(cmd *cobra.Command, sched *scheduler.Scheduler) {
	out := cmd.OutOrStdout()
	for i, day := range sched.Window() {
		label := fmt.Sprintf("%s %2d", day.Name, day.Date)
		if day.Milestone {
			fmt.Fprintf(out, "%s  ★ Interview day\n", label)
			continue
		}
		tasks := sched.TasksForDay(i)
		if len(tasks) == 0 {
			fmt.Fprintf(out, "%s  (rest day)\n", label)
			continue
		}
		fmt.Fprintf(out, "%s\n", label)
		for _, task := range tasks {
			fmt.Fprintf(out, "    [%s] %s\n", task.Status, task.Title)
		}
	}
}

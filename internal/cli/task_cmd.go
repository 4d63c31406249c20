package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"siteline/internal/cli/formatter"
	"siteline/internal/dates"
	"siteline/internal/domain"
	"siteline/internal/graph"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage schedule tasks",
	}

	cmd.AddCommand(
		newTaskListCmd(app),
		newTaskAddCmd(app),
		newTaskShiftCmd(app),
		newTaskResizeCmd(app),
		newTaskActualCmd(app),
		newTaskLinkCmd(app),
		newTaskUnlinkCmd(app),
	)

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Println("No tasks in this project.")
				return nil
			}

			idx := graph.NewIndex(tasks)
			depths := make(map[string]int, len(tasks))
			for _, t := range tasks {
				depth := 0
				cur := t
				for cur.ParentTaskID != nil {
					parent, ok := idx.Task(*cur.ParentTaskID)
					if !ok || depth > len(tasks) {
						break
					}
					depth++
					cur = parent
				}
				depths[t.ID] = depth
			}

			fmt.Printf("%s\n", formatter.FormatTaskList(tasks, depths))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID, prefix, or name")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var project, title, typ, parent, start, end, costStr string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task to a project's schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}

			// Fall back to the form when required fields are missing and
			// we are on a terminal.
			if (title == "" || start == "" || end == "") && app.interactive() {
				if typ == "" {
					typ = "task"
				}
				if err := taskAddForm(&title, &typ, &start, &end, &costStr).Run(); err != nil {
					return err
				}
			}
			if title == "" || start == "" || end == "" {
				return fmt.Errorf("--title, --start and --end are required")
			}

			planStart, ok := dates.Parse(start)
			if !ok {
				return fmt.Errorf("invalid start date %q", start)
			}
			planEnd, ok := dates.Parse(end)
			if !ok {
				return fmt.Errorf("invalid end date %q", end)
			}

			t := &domain.Task{
				ProjectID: projectID,
				Title:     title,
				Type:      domain.TaskType(typ),
				PlanStart: planStart,
				PlanEnd:   planEnd,
			}
			if parent != "" {
				parentID, err := resolveTaskID(ctx, app, projectID, parent)
				if err != nil {
					return err
				}
				t.ParentTaskID = &parentID
			}
			if costStr != "" {
				cost, err := strconv.ParseFloat(costStr, 64)
				if err != nil {
					return fmt.Errorf("invalid cost %q", costStr)
				}
				t.Cost = &cost
			}

			if err := app.Tasks.Create(ctx, t); err != nil {
				return err
			}
			fmt.Printf("Added %q (%s)\n", t.Title, t.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID, prefix, or name")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&typ, "type", "task", "task or group")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent group task")
	cmd.Flags().StringVar(&start, "start", "", "Plan start date")
	cmd.Flags().StringVar(&end, "end", "", "Plan end date")
	cmd.Flags().StringVar(&costStr, "cost", "", "Task cost for financial weighting")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

// scheduleEditCmd builds the shared skeleton of shift/resize/actual, which
// differ only in the schedule call they make.
func scheduleEditCmd(app *App, use, short string, run func(ctx context.Context, taskID string, days int) error) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			taskID, err := resolveTaskID(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			days, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid day count %q", args[1])
			}
			return run(ctx, taskID, days)
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID, prefix, or name")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newTaskShiftCmd(app *App) *cobra.Command {
	return scheduleEditCmd(app, "shift <task> <days>",
		"Move a task's plan bar by whole days (cascades to subtasks and dependents)",
		func(ctx context.Context, taskID string, days int) error {
			result, err := app.Schedule.ShiftTask(ctx, taskID, days)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatCommitResult(result))
			return nil
		})
}

func newTaskResizeCmd(app *App) *cobra.Command {
	var edge string

	cmd := scheduleEditCmd(app, "resize <task> <days>",
		"Move one plan edge by whole days",
		func(ctx context.Context, taskID string, days int) error {
			result, err := app.Schedule.ResizeTask(ctx, taskID, edge, days)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatCommitResult(result))
			return nil
		})

	cmd.Flags().StringVar(&edge, "edge", "right", "Which edge to move: left or right")
	return cmd
}

func newTaskActualCmd(app *App) *cobra.Command {
	return scheduleEditCmd(app, "actual <task> <days>",
		"Shift a task's recorded work by whole days and re-derive progress",
		func(ctx context.Context, taskID string, days int) error {
			result, err := app.Schedule.MoveActual(ctx, taskID, days)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatCommitResult(result))
			return nil
		})
}

func newTaskLinkCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "link <predecessor> <successor>",
		Short: "Add a finish-to-start dependency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			predID, err := resolveTaskID(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			succID, err := resolveTaskID(ctx, app, projectID, args[1])
			if err != nil {
				return err
			}
			if err := app.Tasks.AddDependency(ctx, predID, succID); err != nil {
				return err
			}
			fmt.Println("Dependency added.")
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID, prefix, or name")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newTaskUnlinkCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "unlink <predecessor> <successor>",
		Short: "Remove a dependency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			predID, err := resolveTaskID(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			succID, err := resolveTaskID(ctx, app, projectID, args[1])
			if err != nil {
				return err
			}
			if err := app.Tasks.RemoveDependency(ctx, predID, succID); err != nil {
				return err
			}
			fmt.Println("Dependency removed.")
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID, prefix, or name")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

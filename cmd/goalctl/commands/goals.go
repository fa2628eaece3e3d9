package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/benvon/goaltracker/internal/handlers"
	"github.com/benvon/goaltracker/internal/models"
	"github.com/spf13/cobra"
)

// NewCreateCmd creates the create command
func NewCreateCmd(newClient ClientFactory) *cobra.Command {
	var (
		title     string
		category  string
		timeframe string
		tasks     []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a goal",
		Long:  "Create a goal with a title, category, timeframe and one or more tasks",
		Example: `  goalctl create --title "Learn Spanish" --category Education --timeframe "1 Month" \
    --task "Lesson 1" --task "Lesson 2"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			title = strings.TrimSpace(title)
			if title == "" {
				return fmt.Errorf("--title is required")
			}
			if len(tasks) == 0 {
				return fmt.Errorf("at least one --task is required")
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			goal, err := c.CreateGoal(cmd.Context(), handlers.CreateGoalRequest{
				Title:     title,
				Category:  category,
				Timeframe: timeframe,
				Tasks:     tasks,
			})
			if err != nil {
				return fmt.Errorf("create goal: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Goal created.")
			printGoal(out, goal)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Goal title (required)")
	cmd.Flags().StringVar(&category, "category", string(models.CategoryPersonal), "Category: "+joinCategories())
	cmd.Flags().StringVar(&timeframe, "timeframe", string(models.Timeframe1Month), "Timeframe: "+joinTimeframes())
	cmd.Flags().StringArrayVar(&tasks, "task", nil, "Task text (repeatable, required)")
	return cmd
}

// NewListCmd creates the list command
func NewListCmd(newClient ClientFactory) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List goals",
		Long:  "List goals in creation order, optionally restricted to one category",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			list, err := c.ListGoals(cmd.Context(), category)
			if err != nil {
				return fmt.Errorf("list goals: %w", err)
			}

			out := cmd.OutOrStdout()
			if list.Total == 0 {
				fmt.Fprintf(out, "No goals in %s\n", list.Category)
				return nil
			}
			fmt.Fprintf(out, "%d goal(s) in %s:\n", list.Total, list.Category)
			for i := range list.Goals {
				g := &list.Goals[i]
				fmt.Fprintf(out, "  - %s  %-30s %-10s %3d%%  %s\n", g.ID, g.Title, g.Category, g.Progress, g.State)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", models.CategoryAll, "Category filter ("+models.CategoryAll+" or one of "+joinCategories()+")")
	return cmd
}

// NewGetCmd creates the get command
func NewGetCmd(newClient ClientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "get <goal-id>",
		Short: "Show one goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			goal, err := c.GetGoal(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get goal: %w", err)
			}
			printGoal(cmd.OutOrStdout(), goal)
			return nil
		},
	}
}

// NewToggleCmd creates the toggle command
func NewToggleCmd(newClient ClientFactory) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "toggle <goal-id> <task-index>",
		Short: "Mark a task completed (or not, with --undo)",
		Long:  "Set the completion state of one task. Task indexes start at 0, as shown by 'goalctl get'.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid task index %q: %w", args[1], err)
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			result, err := c.ToggleTask(cmd.Context(), args[0], index, !undo)
			if err != nil {
				return fmt.Errorf("toggle task: %w", err)
			}

			out := cmd.OutOrStdout()
			printGoal(out, &result.Goal)
			for _, event := range result.Unlocked {
				fmt.Fprintf(out, "Achievement unlocked: %s\n", event.Badge)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the task as not completed")
	return cmd
}

// NewCategoriesCmd creates the categories command
func NewCategoriesCmd(newClient ClientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List goal categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			categories, err := c.Categories(cmd.Context())
			if err != nil {
				return fmt.Errorf("list categories: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, info := range categories {
				fmt.Fprintf(out, "  %-10s %s\n", info.Name, info.Accent)
			}
			return nil
		},
	}
}

// NewTimeframesCmd creates the timeframes command
func NewTimeframesCmd(newClient ClientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "timeframes",
		Short: "List goal timeframes",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			timeframes, err := c.Timeframes(cmd.Context())
			if err != nil {
				return fmt.Errorf("list timeframes: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, info := range timeframes {
				fmt.Fprintf(out, "  %-10s %d days\n", info.Label, info.Days)
			}
			return nil
		},
	}
}

func printGoal(out io.Writer, g *handlers.GoalResponse) {
	if g == nil || g.Goal == nil {
		return
	}
	fmt.Fprintf(out, "ID:        %s\n", g.ID)
	fmt.Fprintf(out, "Title:     %s\n", g.Title)
	fmt.Fprintf(out, "Category:  %s\n", g.Category)
	fmt.Fprintf(out, "Timeframe: %s (%d days left, ends %s)\n", g.Timeframe, g.DaysLeft, g.EndDate.Format("2006-01-02"))
	fmt.Fprintf(out, "Progress:  %d%% (%s)\n", g.Progress, g.State)
	fmt.Fprintf(out, "Streak:    %d\n", g.Streak)
	if len(g.Badges) > 0 {
		badges := make([]string, len(g.Badges))
		for i, b := range g.Badges {
			badges[i] = string(b)
		}
		fmt.Fprintf(out, "Badges:    %s\n", strings.Join(badges, ", "))
	}
	fmt.Fprintln(out, "Tasks:")
	for i, task := range g.Tasks {
		mark := " "
		if task.Completed {
			mark = "x"
		}
		fmt.Fprintf(out, "  %d. [%s] %s\n", i, mark, task.Text)
	}
}

func joinCategories() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func joinTimeframes() string {
	labels := make([]string, len(models.Timeframes))
	for i, tf := range models.Timeframes {
		labels[i] = string(tf)
	}
	return strings.Join(labels, ", ")
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/taskbreeze/internal/model"
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task to the end of a column.

Examples:
  breeze add "Buy groceries"
  breeze add "Write report" -p high --due 2026-11-01
  breeze add "Fix the fence" -c onhold -d "waiting for parts"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addDescription string
	addPriority    string
	addColumn      string
	addDue         string
)

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Task description")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "medium", "Priority (low, medium, high)")
	addCmd.Flags().StringVarP(&addColumn, "column", "c", "todo", "Column (todo, inprogress, onhold, done)")
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (YYYY-MM-DD)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	priority, err := model.ParsePriority(addPriority)
	if err != nil {
		return err
	}
	column, err := model.ParseColumnID(addColumn)
	if err != nil {
		return err
	}
	due, err := model.ParseDueDate(addDue)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	t, err := s.board.AddTask(ctx, model.TaskInput{
		Title:       strings.Join(args, " "),
		Description: addDescription,
		DueDate:     due,
		Priority:    priority,
		ColumnID:    column,
	})
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	if err := s.board.SaveErr(); err != nil {
		return fmt.Errorf("task added but not saved: %w", err)
	}

	fmt.Printf("✓ Added to [%s]: \"%s\" (%s, id %s)\n", column.Title(), t.Title, t.Priority, shortID(t.ID))
	return nil
}

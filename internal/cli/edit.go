package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/taskbreeze/internal/model"
)

var editCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Edit a task",
	Long: `Change the fields of a task. Only the flags you pass are changed.

Examples:
  breeze edit abc123 --title "Write the report"
  breeze edit abc123 -p high --due 2026-11-01
  breeze edit abc123 --no-due`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editTitle       string
	editDescription string
	editPriority    string
	editColumn      string
	editDue         string
	editNoDue       bool
)

func init() {
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "New title")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "New description")
	editCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "New priority (low, medium, high)")
	editCmd.Flags().StringVarP(&editColumn, "column", "c", "", "New column")
	editCmd.Flags().StringVar(&editDue, "due", "", "New due date (YYYY-MM-DD)")
	editCmd.Flags().BoolVar(&editNoDue, "no-due", false, "Remove the due date")
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	task, err := s.board.Resolve(args[0])
	if err != nil {
		return err
	}

	in := task.Input()
	flags := cmd.Flags()
	if flags.Changed("title") {
		in.Title = editTitle
	}
	if flags.Changed("description") {
		in.Description = editDescription
	}
	if flags.Changed("priority") {
		if in.Priority, err = model.ParsePriority(editPriority); err != nil {
			return err
		}
	}
	if flags.Changed("column") {
		if in.ColumnID, err = model.ParseColumnID(editColumn); err != nil {
			return err
		}
	}
	if flags.Changed("due") {
		if in.DueDate, err = model.ParseDueDate(editDue); err != nil {
			return err
		}
	}
	if editNoDue {
		in.DueDate = nil
	}

	updated, err := s.board.EditTask(ctx, task.ID, in)
	if err != nil {
		return fmt.Errorf("failed to edit task: %w", err)
	}
	if err := s.board.SaveErr(); err != nil {
		return fmt.Errorf("task edited but not saved: %w", err)
	}

	fmt.Printf("✏️  Updated: \"%s\"\n", updated.Title)
	return nil
}

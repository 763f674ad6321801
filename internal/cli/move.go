package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/taskbreeze/internal/model"
)

var moveCmd = &cobra.Command{
	Use:     "move [task-id] [column]",
	Aliases: []string{"mv"},
	Short:   "Move a task to another column",
	Long: `Move a task to the end of another column.

Examples:
  breeze move abc123 inprogress
  breeze mv abc123 "on hold"`,
	Args: cobra.ExactArgs(2),
	RunE: runMove,
}

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Move a task to Done",
	Long: `Move a task to the Done column.

Examples:
  breeze done abc123
  breeze done abc123 --undo`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

var doneUndo bool

func init() {
	doneCmd.Flags().BoolVar(&doneUndo, "undo", false, "Move the task back to To Do")
}

func runMove(cmd *cobra.Command, args []string) error {
	column, err := model.ParseColumnID(args[1])
	if err != nil {
		return err
	}
	return moveTo(cmd, args[0], column)
}

func runDone(cmd *cobra.Command, args []string) error {
	if doneUndo {
		return moveTo(cmd, args[0], model.ColumnTodo)
	}
	return moveTo(cmd, args[0], model.ColumnDone)
}

func moveTo(cmd *cobra.Command, id string, column model.ColumnID) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	task, err := s.board.Resolve(id)
	if err != nil {
		return err
	}
	if task.ColumnID == column {
		fmt.Printf("Already in [%s]: \"%s\"\n", column.Title(), task.Title)
		return nil
	}

	if err := s.board.MoveTask(ctx, task.ID, column); err != nil {
		return err
	}
	if err := s.board.SaveErr(); err != nil {
		return fmt.Errorf("task moved but not saved: %w", err)
	}

	if column == model.ColumnDone {
		fmt.Printf("✓ Completed: \"%s\"\n", task.Title)
	} else {
		fmt.Printf("→ Moved to [%s]: \"%s\"\n", column.Title(), task.Title)
	}
	return nil
}

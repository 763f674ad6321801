package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [task-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Delete a task permanently, active or archived.

Examples:
  breeze delete abc123
  breeze rm abc123 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var deleteYes bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Do not ask for confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
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

	if cfg.ConfirmDelete && !deleteYes {
		fmt.Printf("About to delete: \"%s\" (ID: %s)\n", task.Title, task.ID)
		if !confirm("Are you sure?") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := s.board.DeleteTask(ctx, task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if err := s.board.SaveErr(); err != nil {
		return fmt.Errorf("task deleted but not saved: %w", err)
	}

	fmt.Printf("🗑️  Deleted: \"%s\"\n", task.Title)
	return nil
}

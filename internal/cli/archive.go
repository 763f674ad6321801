package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive [task-id]",
	Short: "Archive a task",
	Long: `Hide a task from the board. Archived tasks are listed with
'breeze list --archived' and can be restored with 'breeze unarchive'.`,
	Args: cobra.ExactArgs(1),
	RunE: runArchive,
}

var archiveLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List archived tasks, most recent first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listArchived = true
		return runList(cmd, args)
	},
}

var unarchiveCmd = &cobra.Command{
	Use:     "unarchive [task-id]",
	Aliases: []string{"restore"},
	Short:   "Restore an archived task",
	Args:    cobra.ExactArgs(1),
	RunE:    runUnarchive,
}

func init() {
	archiveCmd.AddCommand(archiveLsCmd)
	archiveLsCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Filter by title or description")
}

func runArchive(cmd *cobra.Command, args []string) error {
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
	if task.Archived {
		fmt.Printf("Already archived: \"%s\"\n", task.Title)
		return nil
	}
	if err := s.board.ArchiveTask(ctx, task.ID); err != nil {
		return fmt.Errorf("failed to archive task: %w", err)
	}
	if err := s.board.SaveErr(); err != nil {
		return fmt.Errorf("task archived but not saved: %w", err)
	}

	fmt.Printf("📦 Archived: \"%s\"\n", task.Title)
	return nil
}

func runUnarchive(cmd *cobra.Command, args []string) error {
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
	if !task.Archived {
		fmt.Printf("Not archived: \"%s\"\n", task.Title)
		return nil
	}
	if err := s.board.UnarchiveTask(ctx, task.ID); err != nil {
		return fmt.Errorf("failed to restore task: %w", err)
	}
	if err := s.board.SaveErr(); err != nil {
		return fmt.Errorf("task restored but not saved: %w", err)
	}

	fmt.Printf("↩️  Restored to [%s]: \"%s\"\n", task.ColumnID.Title(), task.Title)
	return nil
}

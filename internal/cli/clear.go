package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the local board",
	Long: `Remove every task from the local board, including archived ones.
Export first if you want a backup. Remote boards are removed with 'breeze board rm'.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().Bool("force", false, "Do not ask for confirmation")
}

func runClear(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.requireLocal(); err != nil {
		return err
	}

	c := s.board.Counts()
	if !force && !confirm(fmt.Sprintf("Delete %d active and %d archived tasks?", c.Active, c.Archived)) {
		fmt.Println("Aborted.")
		return nil
	}

	if err := s.board.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear board: %w", err)
	}
	fmt.Println("🧹 Local board cleared.")
	return nil
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/existflow/taskbreeze/internal/logger"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the board to a JSON file",
	Long: `Write the whole board (active and archived tasks) to
taskbreeze-backup-YYYY-MM-DD.json in the export directory.

Examples:
  breeze export
  breeze export --dir ~/backups`,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace the local board with an export",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var (
	exportDir   string
	importForce bool
)

func init() {
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Directory to write to (default from config)")
	importCmd.Flags().BoolVar(&importForce, "force", false, "Do not ask for confirmation")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	dir := cfg.ExportDir
	if exportDir != "" {
		dir = exportDir
	}
	path, err := s.board.Export(dir)
	if err != nil {
		return err
	}

	logger.Info("Board exported", logger.F("path", path))
	c := s.board.Counts()
	fmt.Printf("💾 Exported %d tasks (%d archived) to %s\n", c.Active+c.Archived, c.Archived, path)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.requireLocal(); err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	if c := s.board.Counts(); !importForce && c.Active+c.Archived > 0 {
		if !confirm(fmt.Sprintf("Replace the current board (%d tasks)?", c.Active+c.Archived)) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := s.board.Import(ctx, f); err != nil {
		return fmt.Errorf("failed to import board: %w", err)
	}
	c := s.board.Counts()
	fmt.Printf("✅ Imported %d active and %d archived tasks\n", c.Active, c.Archived)
	return nil
}

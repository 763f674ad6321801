package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/taskbreeze/internal/model"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks column by column.

Examples:
  breeze list
  breeze list --column inprogress
  breeze list --search report
  breeze list --archived`,
	RunE: runList,
}

var (
	listColumn   string
	listSearch   string
	listArchived bool
)

func init() {
	listCmd.Flags().StringVarP(&listColumn, "column", "c", "", "Only show one column")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Filter by title or description")
	listCmd.Flags().BoolVarP(&listArchived, "archived", "a", false, "Show archived tasks instead")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if listArchived {
		tasks := s.board.Archived(listSearch)
		if len(tasks) == 0 {
			fmt.Println("📦 Archive is empty.")
			return nil
		}
		printColumn("📦 Archive", tasks)
		return nil
	}

	columns := model.DefaultColumnOrder
	if listColumn != "" {
		col, err := model.ParseColumnID(listColumn)
		if err != nil {
			return err
		}
		columns = []model.ColumnID{col}
	}

	if s.board.Counts().Active == 0 {
		fmt.Println("No tasks yet. Add one with: breeze add \"Your task\"")
		return nil
	}

	for _, col := range columns {
		printColumn(col.Title(), s.board.ColumnTasks(col, listSearch))
	}
	return nil
}

func printColumn(name string, tasks []model.Task) {
	fmt.Printf("\n📋 %s (%d)\n", name, len(tasks))
	fmt.Println(strings.Repeat("─", 72))
	for _, t := range tasks {
		printTask(t)
	}
	fmt.Println()
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/taskbreeze/internal/model"
	"github.com/existflow/taskbreeze/internal/remote"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Manage boards on the server",
	Long: `List, create, edit and delete your boards, and pick the one the
terminal board and task commands use.

Examples:
  breeze board              # Show the selected board
  breeze board ls           # List all boards
  breeze board new "Work"   # Create a board
  breeze board use abc123   # Use a board
  breeze board use --local  # Go back to the local board`,
	RunE: runBoardShow,
}

var boardLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List all boards",
	RunE:    runBoardList,
}

var boardNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a board",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBoardNew,
}

var boardEditCmd = &cobra.Command{
	Use:   "edit [board-id]",
	Short: "Edit a board",
	Args:  cobra.ExactArgs(1),
	RunE:  runBoardEdit,
}

var boardRmCmd = &cobra.Command{
	Use:     "rm [board-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a board and all of its tasks",
	Args:    cobra.ExactArgs(1),
	RunE:    runBoardRm,
}

var boardUseCmd = &cobra.Command{
	Use:   "use [board-id]",
	Short: "Select the board to work on",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBoardUse,
}

var (
	boardDescription string
	boardColor       string
	boardDefault     bool
	boardTitle       string
	boardUseLocal    bool
	boardForce       bool
)

func init() {
	boardCmd.AddCommand(boardLsCmd)
	boardCmd.AddCommand(boardNewCmd)
	boardCmd.AddCommand(boardEditCmd)
	boardCmd.AddCommand(boardRmCmd)
	boardCmd.AddCommand(boardUseCmd)

	for _, c := range []*cobra.Command{boardNewCmd, boardEditCmd} {
		c.Flags().StringVarP(&boardDescription, "description", "d", "", "Board description")
		c.Flags().StringVar(&boardColor, "color", "", "Board color (#rrggbb)")
		c.Flags().BoolVar(&boardDefault, "default", false, "Make this the default board")
	}
	boardEditCmd.Flags().StringVarP(&boardTitle, "title", "t", "", "New title")
	boardUseCmd.Flags().BoolVar(&boardUseLocal, "local", false, "Use the local board")
	boardRmCmd.Flags().BoolVar(&boardForce, "force", false, "Do not ask for confirmation")
}

// signedIn returns a client with a session or an error telling the user to log in
func signedIn() (*remote.Client, error) {
	client, err := remote.NewClient()
	if err != nil {
		return nil, err
	}
	if !client.IsLoggedIn() {
		return nil, fmt.Errorf("%w: run 'breeze auth login' first", remote.ErrNotLoggedIn)
	}
	return client, nil
}

// resolveBoard finds a board by id or unique id prefix
func resolveBoard(boards []model.Board, prefix string) (model.Board, error) {
	var found []model.Board
	for _, b := range boards {
		if b.ID == prefix {
			return b, nil
		}
		if strings.HasPrefix(b.ID, prefix) {
			found = append(found, b)
		}
	}
	switch len(found) {
	case 0:
		return model.Board{}, fmt.Errorf("board not found: %s", prefix)
	case 1:
		return found[0], nil
	}
	return model.Board{}, fmt.Errorf("board id %q is ambiguous (%d matches)", prefix, len(found))
}

func runBoardShow(cmd *cobra.Command, args []string) error {
	client, err := remote.NewClient()
	if err != nil {
		return err
	}
	rc := client.Config()
	if !client.IsLoggedIn() || rc.BoardID == "" {
		fmt.Println("📋 Using the local board")
		return nil
	}
	b, err := client.GetBoard(cmd.Context(), rc.BoardID)
	if err != nil {
		return err
	}
	fmt.Printf("📋 %s (%s)\n", b.Title, shortID(b.ID))
	return nil
}

func runBoardList(cmd *cobra.Command, args []string) error {
	client, err := signedIn()
	if err != nil {
		return err
	}
	boards, err := client.ListBoards(cmd.Context())
	if err != nil {
		return err
	}
	if len(boards) == 0 {
		fmt.Println("No boards. Create one with: breeze board new \"Work\"")
		return nil
	}

	selected := client.Config().BoardID
	fmt.Println("\n📋 Boards")
	fmt.Println(strings.Repeat("─", 50))
	for _, b := range boards {
		marker := "  "
		if b.ID == selected {
			marker = "▸ "
		}
		def := ""
		if b.IsDefault {
			def = " ★"
		}
		fmt.Printf("%s%-8s  %s%s\n", marker, shortID(b.ID), b.Title, def)
	}
	fmt.Println()
	return nil
}

func boardInput(cmd *cobra.Command, title string, current *model.Board) remote.BoardInput {
	in := remote.BoardInput{Title: title}
	if current != nil {
		in = remote.BoardInput{Title: current.Title, Description: current.Description, Color: current.Color, IsDefault: current.IsDefault}
		if title != "" {
			in.Title = title
		}
	}
	if cmd.Flags().Changed("description") {
		d := boardDescription
		in.Description = &d
	}
	if cmd.Flags().Changed("color") {
		in.Color = boardColor
	}
	if cmd.Flags().Changed("default") {
		in.IsDefault = boardDefault
	}
	return in
}

func runBoardNew(cmd *cobra.Command, args []string) error {
	client, err := signedIn()
	if err != nil {
		return err
	}
	b, err := client.CreateBoard(cmd.Context(), boardInput(cmd, strings.Join(args, " "), nil))
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}
	fmt.Printf("✓ Created board \"%s\" (%s)\n", b.Title, shortID(b.ID))

	if client.Config().BoardID == "" {
		if err := client.SetBoard(b.ID); err != nil {
			return err
		}
		fmt.Println("📋 Now using this board")
	}
	return nil
}

func runBoardEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := signedIn()
	if err != nil {
		return err
	}
	boards, err := client.ListBoards(ctx)
	if err != nil {
		return err
	}
	b, err := resolveBoard(boards, args[0])
	if err != nil {
		return err
	}

	updated, err := client.UpdateBoard(ctx, b.ID, boardInput(cmd, boardTitle, &b))
	if err != nil {
		return fmt.Errorf("failed to update board: %w", err)
	}
	fmt.Printf("✏️  Updated board \"%s\"\n", updated.Title)
	return nil
}

func runBoardRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := signedIn()
	if err != nil {
		return err
	}
	boards, err := client.ListBoards(ctx)
	if err != nil {
		return err
	}
	b, err := resolveBoard(boards, args[0])
	if err != nil {
		return err
	}

	if !boardForce && !confirm(fmt.Sprintf("Delete board \"%s\" and all of its tasks?", b.Title)) {
		fmt.Println("Cancelled.")
		return nil
	}
	if err := client.DeleteBoard(ctx, b.ID); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	fmt.Printf("🗑️  Deleted board \"%s\"\n", b.Title)
	return nil
}

func runBoardUse(cmd *cobra.Command, args []string) error {
	if boardUseLocal {
		client, err := remote.NewClient()
		if err != nil {
			return err
		}
		if err := client.SetBoard(""); err != nil {
			return err
		}
		fmt.Println("📋 Using the local board")
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("board id required (or --local)")
	}

	client, err := signedIn()
	if err != nil {
		return err
	}
	boards, err := client.ListBoards(cmd.Context())
	if err != nil {
		return err
	}
	b, err := resolveBoard(boards, args[0])
	if err != nil {
		return err
	}
	if err := client.SetBoard(b.ID); err != nil {
		return err
	}
	fmt.Printf("📋 Using board \"%s\"\n", b.Title)
	return nil
}

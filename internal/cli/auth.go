package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/existflow/taskbreeze/internal/app"
	"github.com/existflow/taskbreeze/internal/db"
	"github.com/existflow/taskbreeze/internal/logger"
	"github.com/existflow/taskbreeze/internal/remote"
	"github.com/existflow/taskbreeze/internal/storage"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long: `Sign in to a TaskBreeze server to keep boards remotely.

The first time you sign in, tasks from the local board are copied into a
new board called "My Board" unless the account already has boards.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the server",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from the server",
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account on the server",
	RunE:  runRegister,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the signed-in user",
	RunE:  runAuthStatus,
}

var serverCmd = &cobra.Command{
	Use:   "server [url]",
	Short: "Show or set the server URL",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runServer,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(serverCmd)

	loginCmd.Flags().String("email", "", "Login using magic link for this email")
	loginCmd.Flags().String("token", "", "Verify magic link token")
	loginCmd.Flags().Bool("no-import", false, "Do not copy the local board into the account")
}

func readPassword(label string) string {
	fmt.Print(label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		// Not a terminal, read a plain line
		line, _ := stdin.ReadString('\n')
		return strings.TrimRight(line, "\r\n")
	}
	return string(b)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := remote.NewClient()
	if err != nil {
		return err
	}

	// Check for magic link flags
	email, _ := cmd.Flags().GetString("email")
	token, _ := cmd.Flags().GetString("token")
	noImport, _ := cmd.Flags().GetBool("no-import")

	switch {
	case token != "":
		fmt.Printf("🔄 Verifying magic link token...\n")
		if err := client.VerifyMagicLink(ctx, token); err != nil {
			return err
		}

	case email != "":
		fmt.Printf("🔄 Requesting magic link for %s...\n", email)
		token, err := client.RequestMagicLink(ctx, email)
		if err != nil {
			return err
		}
		fmt.Println("📬 Magic link requested! Check your email (or server logs in dev).")
		if token != "" {
			fmt.Printf("🔑 Development Token: %s\n", token)
		}

		inputToken := prompt("Enter Magic Link Token: ")
		if inputToken == "" {
			fmt.Println("❌ Token required.")
			return nil
		}

		fmt.Printf("🔄 Verifying magic link...\n")
		if err := client.VerifyMagicLink(ctx, inputToken); err != nil {
			return err
		}

	default:
		username := prompt("Username: ")
		password := readPassword("Password: ")

		fmt.Println("🔄 Logging in...")
		if err := client.Login(ctx, username, password); err != nil {
			return err
		}
	}

	fmt.Println("✅ Logged in successfully!")
	return afterLogin(ctx, client, !noImport)
}

func runLogout(cmd *cobra.Command, args []string) error {
	client, err := remote.NewClient()
	if err != nil {
		return err
	}

	if !client.IsLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Println("🔄 Logging out...")
	if err := client.Logout(cmd.Context()); err != nil {
		logger.Warn("Server logout failed, session cleared locally", logger.Err(err))
		fmt.Printf("⚠️  Server did not confirm logout: %v\n", err)
	}

	fmt.Println("✅ Logged out. The terminal board now uses local storage.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := remote.NewClient()
	if err != nil {
		return err
	}

	username := prompt("Username: ")
	email := prompt("Email: ")
	password := readPassword("Password: ")
	confirmed := readPassword("Confirm Password: ")

	if password != confirmed {
		return fmt.Errorf("passwords do not match")
	}

	fmt.Println("🔄 Creating account...")
	if err := client.Register(ctx, username, email, password); err != nil {
		return err
	}

	fmt.Println("✅ Account created and logged in!")
	return afterLogin(ctx, client, true)
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	client, err := remote.NewClient()
	if err != nil {
		return err
	}
	rc := client.Config()
	fmt.Printf("🌐 Server: %s\n", rc.ServerURL)

	if !client.IsLoggedIn() {
		fmt.Println("Not logged in. The board is stored locally.")
		return nil
	}
	u, err := client.Me(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("👤 %s <%s>\n", u.Username, u.Email)
	if rc.BoardID != "" {
		fmt.Printf("📋 Board: %s\n", rc.BoardID)
	} else {
		fmt.Println("📋 No board selected (breeze board use <id>)")
	}
	return nil
}

func runServer(cmd *cobra.Command, args []string) error {
	client, err := remote.NewClient()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		fmt.Println(client.Config().ServerURL)
		return nil
	}
	if err := client.SetServer(args[0]); err != nil {
		return err
	}
	fmt.Printf("✅ Server set to %s\n", client.Config().ServerURL)
	return nil
}

// afterLogin runs the first-login import and selects a board
func afterLogin(ctx context.Context, client *remote.Client, importLocal bool) error {
	if importLocal {
		runFirstImport(ctx, client)
	}
	if client.Config().BoardID != "" {
		return nil
	}

	boards, err := client.ListBoards(ctx)
	if err != nil {
		return fmt.Errorf("failed to list boards: %w", err)
	}
	if len(boards) == 0 {
		fmt.Println("💡 No boards yet. Create one with: breeze board new \"Work\"")
		return nil
	}
	chosen := boards[0]
	for _, b := range boards {
		if b.IsDefault {
			chosen = b
			break
		}
	}
	if err := client.SetBoard(chosen.ID); err != nil {
		return err
	}
	fmt.Printf("📋 Using board \"%s\"\n", chosen.Title)
	return nil
}

// runFirstImport copies the local board into the account. Failures are
// reported and never block the login.
func runFirstImport(ctx context.Context, client *remote.Client) {
	dbConn, err := db.OpenDefault()
	if err != nil {
		logger.Warn("Skipping import, local database unavailable", logger.Err(err))
		return
	}
	defer dbConn.Close()

	local := storage.NewLocal(dbConn, storage.WithQuota(cfg.StorageQuota))
	res, err := app.NewImporter(local, client).Run(ctx)
	if err != nil {
		logger.Warn("First-login import failed", logger.Err(err))
		fmt.Printf("⚠️  Could not import the local board: %v\n", err)
		return
	}
	if res.Skipped != "" {
		logger.Debug("First-login import skipped", logger.F("reason", res.Skipped))
		return
	}

	fmt.Printf("📥 Imported %d tasks into \"%s\"", res.Imported, res.Board.Title)
	if res.Failed > 0 {
		fmt.Printf(" (%d failed)", res.Failed)
	}
	fmt.Println()
	if err := client.SetBoard(res.Board.ID); err != nil {
		logger.Warn("Failed to select imported board", logger.Err(err))
	}
}

package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/existflow/taskbreeze/internal/config"
	"github.com/existflow/taskbreeze/internal/logger"
	"github.com/existflow/taskbreeze/internal/quote"
	"github.com/existflow/taskbreeze/internal/tui"
)

var (
	logLevel   string
	logFile    string
	logConsole bool
)

var timeNow = time.Now

var rootCmd = &cobra.Command{
	Use:   "breeze",
	Short: "TaskBreeze - a personal Kanban board for the terminal",
	Long: `TaskBreeze is a personal Kanban board with four columns:
To Do, In Progress, On Hold and Done.

The board is stored locally until you sign in to a TaskBreeze server.

Run 'breeze' without arguments to open the board.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		loaded, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			loaded = config.DefaultConfig()
		}
		cfg = loaded

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		logConfig := logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			FilePath:   cfg.LogFile,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxAge:     7,
			MaxBackups: 5,
			Console:    cfg.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("TaskBreeze started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			logger.Error("Failed to open board", logger.Err(err))
			return fmt.Errorf("failed to open board: %w", err)
		}
		defer s.Close()

		if s.client.IsLoggedIn() && s.local != nil {
			fmt.Println("💡 Signed in but no board selected. Pick one with: breeze board use <id>")
		}

		logger.Info("Launching TUI", logger.F("mode", s.board.Mode().String()))
		quotes := quote.NewSession(quote.NewProvider(s.quoteSource()))
		m := tui.NewModel(s.board, quotes, tui.Options{
			ExportDir:     cfg.ExportDir,
			ConfirmDelete: cfg.ConfirmDelete,
		})
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("TaskBreeze exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Add subcommands
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(unarchiveCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(storageCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(authCmd)
}

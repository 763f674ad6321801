package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Show where the board is stored",
	RunE:  runStorage,
}

func runStorage(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.local == nil {
		rc := s.client.Config()
		fmt.Printf("☁️  Remote board %s on %s\n", rc.BoardID, rc.ServerURL)
		return nil
	}

	st, err := s.local.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read storage status: %w", err)
	}
	imported, err := s.local.HasImported(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("💽 Storage: %s\n", st.StorageType)
	fmt.Printf("   Size:     %d of %d bytes (%.1f%%)\n", st.DataSize, st.Quota, 100*float64(st.DataSize)/float64(max(st.Quota, 1)))
	if st.ShouldMigrate {
		fmt.Println("   ⚠️  The board is getting large. Sign in with 'breeze auth login' to store it on a server.")
	}
	if imported {
		fmt.Println("   Already imported into a server account.")
	}
	return nil
}

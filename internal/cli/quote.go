package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/taskbreeze/internal/quote"
	"github.com/existflow/taskbreeze/internal/remote"
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Print a motivational quote",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := remote.NewClient()
		if err != nil {
			return err
		}
		var src quote.Source = quote.NewUpstream(cfg.QuoteURL)
		if client.IsLoggedIn() {
			src = client
		}

		q := quote.NewProvider(src).Get(cmd.Context())
		fmt.Printf("💬 \"%s\"\n   ~ %s\n", q.Text, q.Author)
		return nil
	},
}

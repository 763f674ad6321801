package main

import (
	"os"

	"github.com/existflow/taskbreeze/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package cli provides the command-line interface for kitefarm
package cli

import (
	"context"
	"os"
)

// Run starts the CLI application
func Run(ctx context.Context) {
	rootCmd := NewRootCmd()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

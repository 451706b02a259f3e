package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/go-yadex/yadex/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "yadex",
	Short:        "yadex serves directory listings over HTTP",
	RunE:         Run,
	SilenceUsage: true,
}

func init() {
	config.RegisterFlags(rootCmd)
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package cmd

import (
	"fmt"
	"runtime"

	"github.com/go-yadex/yadex/pkg/consts"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Print the version number of yadex",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("yadex version: %s %s/%s\nBuildTime: %s, Commit: %s\n",
			consts.Version, runtime.GOOS, runtime.GOARCH, consts.BuildTime, consts.GitCommit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func RegisterFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringP("config", "c", "", "config file path")
	flags.String("host", "", "address to listen on")
	flags.IntP("port", "p", 0, "port to listen on")
	flags.Int("limit", 0, "max entries per listing (0 = unlimited)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	bindFlags(cmd)
}

func bindFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	viper.BindPFlag("network.host", flags.Lookup("host"))
	viper.BindPFlag("network.port", flags.Lookup("port"))
	viper.BindPFlag("service.limit", flags.Lookup("limit"))
	viper.BindPFlag("log.level", flags.Lookup("log-level"))
}

func GetConfigFile(cmd *cobra.Command) string {
	configFile, _ := cmd.Flags().GetString("config")
	return configFile
}

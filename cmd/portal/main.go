package main

import (
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var cfgPath string
	root := &cobra.Command{
		Use:          "portal",
		Short:        "Rajbari district portal backend",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (yaml, json or toml)")

	root.AddCommand(
		serveCmd(&cfgPath),
		trackCmd(&cfgPath),
		diagCmd(&cfgPath),
		hashPINCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
